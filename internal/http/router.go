package httpapi

import (
	"net/http"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// NewRouter 注册全部路由，外层包访问日志和 panic 恢复
func NewRouter(h *MotionHandler, logger *zap.Logger) http.Handler {
	r := mux.NewRouter()

	r.HandleFunc("/healthz", healthHandler).Methods(http.MethodGet)
	r.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)

	// 全部注册在根路由上，方法不匹配时返回 405
	const api = "/api/v1"
	r.HandleFunc(api+"/events", h.PostEvent).Methods(http.MethodPost)
	r.HandleFunc(api+"/users/{id}/assess", h.Assess).Methods(http.MethodPost)
	r.HandleFunc(api+"/users/{id}/alert", h.GetAlert).Methods(http.MethodGet)
	r.HandleFunc(api+"/users/{id}/risk-history", h.GetRiskHistory).Methods(http.MethodGet)
	r.HandleFunc(api+"/users/{id}/workplace", h.GetWorkplace).Methods(http.MethodGet)
	r.HandleFunc(api+"/users/{id}/biography", h.GetBiography).Methods(http.MethodGet)
	r.HandleFunc(api+"/users/{id}/biography.xlsx", h.ExportBiography).Methods(http.MethodGet)
	r.HandleFunc(api+"/rehab/limb", h.AssessLimb).Methods(http.MethodPost)
	r.HandleFunc(api+"/rehab/alcohol", h.AssessAlcohol).Methods(http.MethodPost)
	r.HandleFunc(api+"/documents/{collection}", h.ListDocuments).Methods(http.MethodGet)
	r.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusMethodNotAllowed, Fail("method not allowed"))
	})

	stdLog := zap.NewStdLog(logger.Named("http"))
	recovered := handlers.RecoveryHandler(handlers.RecoveryLogger(stdLog))(r)
	return handlers.CombinedLoggingHandler(stdLog.Writer(), recovered)
}

func healthHandler(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, Ok(map[string]string{"status": "ok"}))
}
