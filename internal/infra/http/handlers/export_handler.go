package handlers

import (
	"bytes"
	"fmt"
	"net/http"
	"time"

	"github.com/xavierca1/ligue-crm/internal/infra/export"
	"github.com/xavierca1/ligue-crm/internal/usecase"
)

type ExportHandler struct {
	Export *usecase.ExportLeadsUseCase
	now    func() time.Time
}

func NewExportHandler(uc *usecase.ExportLeadsUseCase) *ExportHandler {
	return &ExportHandler{Export: uc, now: time.Now}
}

// HandleExport streams the filtered leads as CSV (default) or XLSX.
func (h *ExportHandler) HandleExport(w http.ResponseWriter, r *http.Request) {
	format := r.URL.Query().Get("format")
	if format == "" {
		format = "csv"
	}

	var (
		contentType string
		write       = export.WriteCSV
	)
	switch format {
	case "csv":
		contentType = "text/csv; charset=utf-8"
	case "xlsx":
		contentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
		write = export.WriteXLSX
	default:
		writeError(w, http.StatusBadRequest, usecase.CodeInvalidArgument, "format must be csv or xlsx")
		return
	}

	rows, err := h.Export.Execute(r.Context(), leadFilterFromQuery(r))
	if err != nil {
		writeUseCaseError(w, r, err)
		return
	}

	// Rendered into memory first so a write failure can still produce an error status.
	var buf bytes.Buffer
	if err := write(&buf, rows); err != nil {
		writeUseCaseError(w, r, err)
		return
	}

	filename := fmt.Sprintf("leads-%s.%s", h.now().UTC().Format("20060102-1504"), format)
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	w.WriteHeader(http.StatusOK)
	_, _ = buf.WriteTo(w)
}
