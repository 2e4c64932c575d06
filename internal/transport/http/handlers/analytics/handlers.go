package analyticshandler

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/jung-kurt/gofpdf"

	"empdash/internal/domain/analytics"
	"empdash/internal/platform/requestctx"
	"empdash/internal/transport/http/api"
)

type Handler struct {
	Analytics *analytics.Service
}

func NewHandler(service *analytics.Service) *Handler {
	return &Handler{Analytics: service}
}

// HandleStats serves the dashboard aggregates. Percentages come back as
// rounded integers; an empty system reports zeroes, never an error.
func (h *Handler) HandleStats(w http.ResponseWriter, r *http.Request) {
	requestID := requestctx.GetRequestID(r.Context())

	stats, err := h.Analytics.Stats(r.Context())
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, api.TypeInternal, "failed to compute statistics", requestID)
		return
	}
	api.Success(w, stats, requestID)
}

// HandleReport renders the same aggregates as a downloadable PDF.
func (h *Handler) HandleReport(w http.ResponseWriter, r *http.Request) {
	requestID := requestctx.GetRequestID(r.Context())

	stats, err := h.Analytics.Stats(r.Context())
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, api.TypeInternal, "failed to compute statistics", requestID)
		return
	}

	now := time.Now()
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 16)
	pdf.Cell(40, 10, "Workforce Report")
	pdf.Ln(12)
	pdf.SetFont("Helvetica", "", 12)
	pdf.Cell(0, 8, fmt.Sprintf("Generated: %s", now.Format("2006-01-02 15:04")))
	pdf.Ln(10)
	pdf.Cell(0, 8, fmt.Sprintf("Active employees: %d", stats.TotalEmployees))
	pdf.Ln(7)
	pdf.Cell(0, 8, fmt.Sprintf("Total tasks: %d", stats.TotalTasks))
	pdf.Ln(7)
	pdf.Cell(0, 8, fmt.Sprintf("Completed: %d", stats.CompletedTasks))
	pdf.Ln(7)
	pdf.Cell(0, 8, fmt.Sprintf("In progress: %d", stats.InProgressTasks))
	pdf.Ln(7)
	pdf.Cell(0, 8, fmt.Sprintf("Pending: %d", stats.PendingTasks))
	pdf.Ln(7)
	pdf.Cell(0, 8, fmt.Sprintf("Average completion: %d%%", stats.AverageCompletion))

	filename := fmt.Sprintf("workforce-report-%s.pdf", now.Format("2006-01-02"))
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)
	if err := pdf.Output(w); err != nil {
		slog.Warn("report write failed", "err", err, "requestId", requestID)
	}
}
