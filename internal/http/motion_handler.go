package httpapi

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"wisefido-motion/internal/evaluator"
	"wisefido-motion/internal/models"
	"wisefido-motion/internal/rehab"
	"wisefido-motion/internal/report"
	"wisefido-motion/internal/repository"
	"wisefido-motion/internal/service"

	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

// MotionAPI 处理器依赖的服务能力（*service.MotionService 实现）
type MotionAPI interface {
	Process(ctx context.Context, msg *models.IngestMessage) (evaluator.Interpretation, error)
	EvaluateUser(ctx context.Context, userID string, asOf time.Time) models.Assessment
	LatestAlert(ctx context.Context, userID string) (*models.CaregiverAlert, error)
	RiskHistory(userID string) []models.RiskSnapshot
	WorkplaceDashboard(userID string) models.WorkplaceDashboard
	BiographyRange(userID string, start, end models.Date) ([]models.DailySummary, models.WeeklyTrend)
	AssessLimb(ctx context.Context, userID string, features rehab.Features) (*rehab.LimbResult, error)
	AssessAlcohol(ctx context.Context, userID string, sleep, stress rehab.Features) (*rehab.AlcoholResult, error)
}

// DocumentLister 输出文档查询
type DocumentLister interface {
	ListRecent(ctx context.Context, collection string, limit int) ([]repository.Document, error)
}

// MotionHandler 运动风险 API
type MotionHandler struct {
	svc    MotionAPI
	docs   DocumentLister // 可为 nil（未启用 Postgres）
	logger *zap.Logger
	now    func() time.Time
}

// NewMotionHandler 创建处理器
func NewMotionHandler(svc MotionAPI, docs DocumentLister, logger *zap.Logger) *MotionHandler {
	return &MotionHandler{svc: svc, docs: docs, logger: logger, now: time.Now}
}

// interpretationView 路由结果的响应体
type interpretationView struct {
	Domain     string                 `json:"domain"`
	Collection string                 `json:"collection"`
	Record     map[string]interface{} `json:"record"`
}

// PostEvent POST /api/v1/events
func (h *MotionHandler) PostEvent(w http.ResponseWriter, r *http.Request) {
	var msg models.IngestMessage
	if err := readBodyJSON(r, maxBodyBytes, &msg); err != nil {
		writeJSON(w, http.StatusBadRequest, Fail("invalid body"))
		return
	}

	out, err := h.svc.Process(r.Context(), &msg)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, Fail(err.Error()))
		return
	}
	if out == nil {
		writeJSON(w, http.StatusAccepted, Ok[any](nil))
		return
	}
	writeJSON(w, http.StatusOK, Ok(interpretationView{
		Domain:     out.Domain(),
		Collection: out.Collection(),
		Record:     out.Payload(),
	}))
}

// Assess POST /api/v1/users/{id}/assess?date=YYYY-MM-DD
// 每次调用追加一条风险快照
func (h *MotionHandler) Assess(w http.ResponseWriter, r *http.Request) {
	userID := mux.Vars(r)["id"]
	day, err := parseDate(r.URL.Query().Get("date"), models.DateOf(h.now().UTC()))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, Fail(err.Error()))
		return
	}
	writeJSON(w, http.StatusOK, Ok(h.svc.EvaluateUser(r.Context(), userID, endOfDay(day))))
}

// GetAlert GET /api/v1/users/{id}/alert
func (h *MotionHandler) GetAlert(w http.ResponseWriter, r *http.Request) {
	userID := mux.Vars(r)["id"]
	alert, err := h.svc.LatestAlert(r.Context(), userID)
	if err != nil {
		h.logger.Error("Failed to get latest alert", zap.String("user_id", userID), zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, Fail("failed to get alert"))
		return
	}
	if alert == nil {
		writeJSON(w, http.StatusNotFound, Fail("no alert"))
		return
	}
	writeJSON(w, http.StatusOK, Ok(alert))
}

// GetRiskHistory GET /api/v1/users/{id}/risk-history
func (h *MotionHandler) GetRiskHistory(w http.ResponseWriter, r *http.Request) {
	history := h.svc.RiskHistory(mux.Vars(r)["id"])
	if history == nil {
		history = []models.RiskSnapshot{}
	}
	writeJSON(w, http.StatusOK, Ok(history))
}

// GetWorkplace GET /api/v1/users/{id}/workplace
func (h *MotionHandler) GetWorkplace(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, Ok(h.svc.WorkplaceDashboard(mux.Vars(r)["id"])))
}

type biographyView struct {
	UserID    string                `json:"user_id"`
	Start     models.Date           `json:"start"`
	End       models.Date           `json:"end"`
	Summaries []models.DailySummary `json:"daily_summaries"`
	Weekly    models.WeeklyTrend    `json:"weekly_trend"`
}

// maxBiographyDays 单次查询的最大天数
const maxBiographyDays = 366

// biographyRange 解析 start/end，默认截至今天的 7 天
func (h *MotionHandler) biographyRange(r *http.Request) (models.Date, models.Date, error) {
	q := r.URL.Query()
	end, err := parseDate(q.Get("end"), models.DateOf(h.now().UTC()))
	if err != nil {
		return models.Date{}, models.Date{}, err
	}
	start, err := parseDate(q.Get("start"), end.AddDays(-6))
	if err != nil {
		return models.Date{}, models.Date{}, err
	}
	if end.Before(start) {
		return models.Date{}, models.Date{}, fmt.Errorf("start %s is after end %s", start, end)
	}
	if start.Before(end.AddDays(-(maxBiographyDays - 1))) {
		return models.Date{}, models.Date{}, fmt.Errorf("range %s..%s exceeds %d days", start, end, maxBiographyDays)
	}
	return start, end, nil
}

// GetBiography GET /api/v1/users/{id}/biography?start=&end=
func (h *MotionHandler) GetBiography(w http.ResponseWriter, r *http.Request) {
	userID := mux.Vars(r)["id"]
	start, end, err := h.biographyRange(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, Fail(err.Error()))
		return
	}
	summaries, weekly := h.svc.BiographyRange(userID, start, end)
	if summaries == nil {
		summaries = []models.DailySummary{}
	}
	writeJSON(w, http.StatusOK, Ok(biographyView{
		UserID:    userID,
		Start:     start,
		End:       end,
		Summaries: summaries,
		Weekly:    weekly,
	}))
}

// ExportBiography GET /api/v1/users/{id}/biography.xlsx?start=&end=
func (h *MotionHandler) ExportBiography(w http.ResponseWriter, r *http.Request) {
	userID := mux.Vars(r)["id"]
	start, end, err := h.biographyRange(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, Fail(err.Error()))
		return
	}
	summaries, weekly := h.svc.BiographyRange(userID, start, end)
	data, err := report.GenerateBiographyReport(userID, summaries, weekly)
	if err != nil {
		h.logger.Error("Failed to generate biography report", zap.String("user_id", userID), zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, Fail("failed to generate report"))
		return
	}

	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=motion-biography-%s-%s.xlsx", userID, end))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

type limbRequest struct {
	UserID   string         `json:"user_id"`
	Features rehab.Features `json:"features"`
}

type alcoholRequest struct {
	UserID         string         `json:"user_id"`
	SleepFeatures  rehab.Features `json:"sleep_features"`
	StressFeatures rehab.Features `json:"stress_features"`
}

// AssessLimb POST /api/v1/rehab/limb
func (h *MotionHandler) AssessLimb(w http.ResponseWriter, r *http.Request) {
	var req limbRequest
	if err := readBodyJSON(r, maxBodyBytes, &req); err != nil || req.UserID == "" {
		writeJSON(w, http.StatusBadRequest, Fail("user_id and features are required"))
		return
	}
	res, err := h.svc.AssessLimb(r.Context(), req.UserID, req.Features)
	if err != nil {
		h.writeRehabError(w, req.UserID, err)
		return
	}
	writeJSON(w, http.StatusOK, Ok(res))
}

// AssessAlcohol POST /api/v1/rehab/alcohol
func (h *MotionHandler) AssessAlcohol(w http.ResponseWriter, r *http.Request) {
	var req alcoholRequest
	if err := readBodyJSON(r, maxBodyBytes, &req); err != nil || req.UserID == "" {
		writeJSON(w, http.StatusBadRequest, Fail("user_id, sleep_features and stress_features are required"))
		return
	}
	res, err := h.svc.AssessAlcohol(r.Context(), req.UserID, req.SleepFeatures, req.StressFeatures)
	if err != nil {
		h.writeRehabError(w, req.UserID, err)
		return
	}
	writeJSON(w, http.StatusOK, Ok(res))
}

func (h *MotionHandler) writeRehabError(w http.ResponseWriter, userID string, err error) {
	switch {
	case errors.Is(err, service.ErrRehabDisabled):
		writeJSON(w, http.StatusServiceUnavailable, Fail(err.Error()))
	case errors.Is(err, rehab.ErrMissingFeature):
		writeJSON(w, http.StatusBadRequest, Fail(err.Error()))
	default:
		h.logger.Error("Rehab assessment failed", zap.String("user_id", userID), zap.Error(err))
		writeJSON(w, http.StatusBadGateway, Fail("model service error"))
	}
}

// ListDocuments GET /api/v1/documents/{collection}?limit=
func (h *MotionHandler) ListDocuments(w http.ResponseWriter, r *http.Request) {
	if h.docs == nil {
		writeJSON(w, http.StatusServiceUnavailable, Fail("document store is not configured"))
		return
	}
	collection := mux.Vars(r)["collection"]
	docs, err := h.docs.ListRecent(r.Context(), collection, parseInt(r.URL.Query().Get("limit"), 50))
	if err != nil {
		h.logger.Error("Failed to list documents", zap.String("collection", collection), zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, Fail("failed to list documents"))
		return
	}
	if docs == nil {
		docs = []repository.Document{}
	}
	writeJSON(w, http.StatusOK, Ok(docs))
}
