package api

import (
	"bytes"
	"fmt"
	"net/http"

	"github.com/tallyhq/tally/pkg/metrics"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// ReportHandler handles results workbook downloads.
type ReportHandler struct {
	deps Dependencies
}

// NewReportHandler creates a new report handler.
func NewReportHandler(deps Dependencies) *ReportHandler {
	return &ReportHandler{deps: deps}
}

// HandleGetReport handles GET /events/{id}/report requests.
//
// The workbook is built into a buffer before any header is written so
// failures can still produce a proper error response.
func (h *ReportHandler) HandleGetReport(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_report"
	eventID := r.PathValue("id")

	var buf bytes.Buffer
	if err := h.deps.Report(r.Context(), eventID, &buf); err != nil {
		metrics.RecordReportError()
		writeStoreError(w, op, err)
		return
	}

	metrics.RecordReportExport()
	w.Header().Set("Content-Type", xlsxContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", "results-"+eventID+".xlsx"))
	w.WriteHeader(http.StatusOK)
	_, _ = buf.WriteTo(w)
}
