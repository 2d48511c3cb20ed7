package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/xavierca1/ligue-crm/internal/usecase"
)

const sheetName = "Leads"

var Headers = []string{
	"ID", "Name", "Email", "Organization", "Phone", "Segment", "Source",
	"Status", "Demo", "Quote", "Engagements (count)", "Last Contacted",
	"Compliance Tags", "Notes", "Engagement Log", "Converted To",
	"Converted At", "Created At",
}

var columnWidths = []float64{38, 24, 30, 28, 18, 10, 12, 11, 11, 11, 12, 18, 24, 60, 60, 28, 18, 18}

func record(r usecase.LeadReportRow) []string {
	return []string{
		r.ID, r.Name, r.Email, r.OrganizationName, r.Phone, r.Segment, r.Source,
		r.Status, r.DemoStatus, r.QuoteStatus, strconv.Itoa(r.EngagementCount), r.LastContactedAt,
		r.ComplianceTags, r.Notes, r.Engagements, r.ConvertedTo,
		r.ConvertedAt, r.CreatedAt,
	}
}

// sanitize stops spreadsheet apps from evaluating user-entered text as a formula.
func sanitize(v string) string {
	if v != "" && strings.ContainsRune("=+-@\t\r", rune(v[0])) {
		return "'" + v
	}
	return v
}

func WriteCSV(w io.Writer, rows []usecase.LeadReportRow) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Headers); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	for _, r := range rows {
		rec := record(r)
		for i := range rec {
			rec[i] = sanitize(rec[i])
		}
		if err := cw.Write(rec); err != nil {
			return fmt.Errorf("write csv row %s: %w", r.ID, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

func WriteXLSX(w io.Writer, rows []usecase.LeadReportRow) error {
	f := excelize.NewFile()
	defer f.Close()

	index, err := f.NewSheet(sheetName)
	if err != nil {
		return fmt.Errorf("create sheet: %w", err)
	}
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return fmt.Errorf("delete default sheet: %w", err)
	}
	f.SetActiveSheet(index)

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#E6F3FF"}, Pattern: 1},
	})
	if err != nil {
		return fmt.Errorf("create header style: %w", err)
	}
	wrapStyle, err := f.NewStyle(&excelize.Style{
		Alignment: &excelize.Alignment{WrapText: true, Vertical: "top"},
	})
	if err != nil {
		return fmt.Errorf("create body style: %w", err)
	}

	if err := writeRow(f, 1, Headers); err != nil {
		return err
	}
	last, _ := excelize.CoordinatesToCellName(len(Headers), 1)
	if err := f.SetCellStyle(sheetName, "A1", last, headerStyle); err != nil {
		return fmt.Errorf("set header style: %w", err)
	}

	for i, width := range columnWidths {
		col, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			return err
		}
		if err := f.SetColWidth(sheetName, col, col, width); err != nil {
			return fmt.Errorf("set column width: %w", err)
		}
	}

	for i, r := range rows {
		rec := record(r)
		for j := range rec {
			rec[j] = sanitize(rec[j])
		}
		if err := writeRow(f, i+2, rec); err != nil {
			return err
		}
	}
	if len(rows) > 0 {
		end, _ := excelize.CoordinatesToCellName(len(Headers), len(rows)+1)
		if err := f.SetCellStyle(sheetName, "A2", end, wrapStyle); err != nil {
			return fmt.Errorf("set body style: %w", err)
		}
	}

	if err := f.SetPanes(sheetName, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	}); err != nil {
		return fmt.Errorf("freeze header: %w", err)
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("write xlsx: %w", err)
	}
	return nil
}

func writeRow(f *excelize.File, row int, values []string) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	vals := make([]any, len(values))
	for i, v := range values {
		vals[i] = v
	}
	if err := f.SetSheetRow(sheetName, cell, &vals); err != nil {
		return fmt.Errorf("write row %d: %w", row, err)
	}
	return nil
}
