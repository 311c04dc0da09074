package repository

import (
	"context"
	"database/sql"
	"testing"

	"wisefido-motion/internal/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func setupMockProfileDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock, *ProfileRepository) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	repo := NewProfileRepository(db, zap.NewNop())
	return db, mock, repo
}

func TestGetProfile_Found(t *testing.T) {
	db, mock, repo := setupMockProfileDB(t)
	defer db.Close()

	mock.ExpectQuery(`SELECT role FROM motion_user_profiles`).
		WithArgs("EMP_101").
		WillReturnRows(sqlmock.NewRows([]string{"role"}).AddRow("employee"))

	p, err := repo.GetProfile(context.Background(), "EMP_101")

	require.NoError(t, err)
	assert.Equal(t, models.RoleEmployee, p.Role)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGetProfile_UnrecognisedRole(t *testing.T) {
	db, mock, repo := setupMockProfileDB(t)
	defer db.Close()

	mock.ExpectQuery(`SELECT role FROM motion_user_profiles`).
		WithArgs("V1").
		WillReturnRows(sqlmock.NewRows([]string{"role"}).AddRow("visitor"))

	p, err := repo.GetProfile(context.Background(), "V1")

	require.NoError(t, err)
	assert.Equal(t, models.RoleUnknown, p.Role)
}

func TestGetProfile_NotFound(t *testing.T) {
	db, mock, repo := setupMockProfileDB(t)
	defer db.Close()

	mock.ExpectQuery(`SELECT role FROM motion_user_profiles`).
		WithArgs("NOPE").
		WillReturnError(sql.ErrNoRows)

	p, err := repo.GetProfile(context.Background(), "NOPE")

	require.NoError(t, err)
	assert.Equal(t, "NOPE", p.UserID)
	assert.Equal(t, models.RoleUnknown, p.Role)
}

func TestGetProfile_EmptyUserID(t *testing.T) {
	db, _, repo := setupMockProfileDB(t)
	defer db.Close()

	_, err := repo.GetProfile(context.Background(), "")
	assert.Error(t, err)
}

func TestUpsertProfile(t *testing.T) {
	db, mock, repo := setupMockProfileDB(t)
	defer db.Close()

	mock.ExpectExec(`INSERT INTO motion_user_profiles`).
		WithArgs("E1", "elderly").
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.UpsertProfile(context.Background(), models.UserProfile{UserID: "E1", Role: models.RoleElderly})

	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}
