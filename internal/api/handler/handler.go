package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"attendance.bot/internal/core"
)

// ReportHandler exposes out-of-band report triggers for operators. The
// server is network-internal; reports are still delivered to the
// leadership channel, not returned over HTTP.
type ReportHandler struct {
	Reports             *core.ReportService
	LeadershipChannelID string
}

// TriggerLateFines handles POST /api/v1/reports/late-fines?year=&month=.
func (h *ReportHandler) TriggerLateFines(w http.ResponseWriter, r *http.Request) {
	year, err := strconv.Atoi(r.URL.Query().Get("year"))
	if err != nil {
		http.Error(w, "year is required", http.StatusBadRequest)
		return
	}
	month, err := strconv.Atoi(r.URL.Query().Get("month"))
	if err != nil || month < 1 || month > 12 {
		http.Error(w, "month must be 1-12", http.StatusBadRequest)
		return
	}

	if err := h.Reports.SendLateFines(r.Context(), h.LeadershipChannelID, year, month, false); err != nil {
		http.Error(w, "Service error delivering report", http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusAccepted)
	json.NewEncoder(w).Encode(map[string]any{"message": "Late-fine report delivered to the leadership channel."})
}
