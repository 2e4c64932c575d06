package directoryhandler

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/xuri/excelize/v2"

	"empdash/internal/domain/directory"
	"empdash/internal/platform/requestctx"
	"empdash/internal/transport/http/api"
)

const exportPageSize = 500

var exportColumns = []string{
	"Employee ID", "Name", "Email", "Department", "Role",
	"Designation", "Location", "Gender", "Contact Number",
	"Date of Birth", "Date of Joining", "Created At",
}

// HandleExport streams the active directory as an xlsx workbook.
func (h *Handler) HandleExport(w http.ResponseWriter, r *http.Request) {
	requestID := requestctx.GetRequestID(r.Context())

	book := excelize.NewFile()
	defer book.Close()
	sheet := book.GetSheetName(0)

	for col, title := range exportColumns {
		cell, _ := excelize.CoordinatesToCellName(col+1, 1)
		if err := book.SetCellValue(sheet, cell, title); err != nil {
			api.Fail(w, http.StatusInternalServerError, api.TypeInternal, "failed to build export", requestID)
			return
		}
	}

	row := 2
	for page := 1; ; page++ {
		result, err := h.Directory.List(r.Context(), directory.ListQuery{Page: page, Limit: exportPageSize})
		if err != nil {
			api.Fail(w, http.StatusInternalServerError, api.TypeInternal, "failed to build export", requestID)
			return
		}
		for i := range result.Employees {
			writeExportRow(book, sheet, row, &result.Employees[i])
			row++
		}
		if page >= result.TotalPages || len(result.Employees) == 0 {
			break
		}
	}

	filename := fmt.Sprintf("employees-%s.xlsx", time.Now().Format("2006-01-02"))
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)
	if err := book.Write(w); err != nil {
		slog.Warn("export write failed", "err", err, "requestId", requestID)
	}
}

func writeExportRow(book *excelize.File, sheet string, row int, emp *directory.Employee) {
	values := []any{
		emp.EmployeeID, emp.Name, emp.Email, emp.Department, emp.Role,
		emp.Designation, emp.Location, emp.Gender, emp.ContactNumber,
		formatDate(emp.DateOfBirth), formatDate(emp.DateOfJoining),
		emp.CreatedAt.Format("2006-01-02"),
	}
	for col, value := range values {
		cell, _ := excelize.CoordinatesToCellName(col+1, row)
		_ = book.SetCellValue(sheet, cell, value)
	}
}

func formatDate(t *time.Time) string {
	if t == nil || t.IsZero() {
		return ""
	}
	return t.Format("2006-01-02")
}
