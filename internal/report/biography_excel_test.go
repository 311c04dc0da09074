package report

import (
	"bytes"
	"testing"

	"wisefido-motion/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestGenerateBiographyReport(t *testing.T) {
	d := models.Date{Year: 2024, Month: 6, Day: 3}
	summaries := []models.DailySummary{
		{UserID: "E1", Date: d, WalkingDuration: 40, TransitionCount: 5, NearFalls: 1, InactivityTime: 10, FallRiskScore: 21.43},
		{UserID: "E1", Date: d.AddDays(1), WalkingDuration: 20, TransitionCount: 15, NearFalls: 0, InactivityTime: 25, FallRiskScore: 35},
	}
	weekly := models.WeeklyTrend{
		UserID:     "E1",
		EndDate:    d.AddDays(1),
		WalkChange: -50,
		Narratives: []string{"Walking duration reduced significantly this week."},
	}

	data, err := GenerateBiographyReport("E1", summaries, weekly)
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{SheetDaily, SheetWeekly}, f.GetSheetList())

	rows, err := f.GetRows(SheetDaily)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, DailySummaryHeader, rows[0])
	assert.Equal(t, []string{"2024-06-03", "40", "5", "1", "10", "21.43"}, rows[1])
	assert.Equal(t, "2024-06-04", rows[2][0])

	weeklyRows, err := f.GetRows(SheetWeekly)
	require.NoError(t, err)
	require.Len(t, weeklyRows, 7)
	assert.Equal(t, []string{"User", "E1"}, weeklyRows[1])
	assert.Equal(t, []string{"Walking", "-50"}, weeklyRows[3])
	assert.Equal(t, "Narrative", weeklyRows[6][0])
}

func TestGenerateBiographyReport_Empty(t *testing.T) {
	data, err := GenerateBiographyReport("E1", nil, models.WeeklyTrend{})
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(SheetDaily)
	require.NoError(t, err)
	assert.Len(t, rows, 1)
}
