package api

import (
	"net/http"

	"github.com/gorilla/mux"

	"attendance.bot/internal/api/handler"
	"attendance.bot/internal/core"
)

// NewRouter sets up the gorilla/mux router for the ops endpoints.
func NewRouter(reports *core.ReportService, leadershipChannelID string) *mux.Router {

	reportHandler := handler.ReportHandler{
		Reports:             reports,
		LeadershipChannelID: leadershipChannelID,
	}

	r := mux.NewRouter()

	api := r.PathPrefix("/api/v1").Subrouter()

	api.HandleFunc("/reports/late-fines", reportHandler.TriggerLateFines).Methods(http.MethodPost)
	api.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("Service is operational."))
	}).Methods(http.MethodGet)

	return r
}
