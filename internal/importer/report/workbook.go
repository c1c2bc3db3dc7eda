package report

import (
	"bytes"
	"fmt"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/yungbote/netinv-backend/internal/domain/imports"
	"github.com/yungbote/netinv-backend/internal/importer/failures"
)

const (
	SummarySheet    = "Summary"
	FailedRowsSheet = "Failed rows"
)

var failedRowsHeader = []any{"Row", "Sheet", "Entity", "Natural key", "Cause", "Detail", "Blocking"}

// Workbook renders the summary and the collected failures as xlsx.
func Workbook(summary imports.Summary, records []failures.Record) (*bytes.Buffer, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), SummarySheet); err != nil {
		return nil, err
	}
	if _, err := f.NewSheet(FailedRowsSheet); err != nil {
		return nil, err
	}
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, err
	}

	summaryRows := [][]any{
		{"Job ID", summary.JobID.String()},
		{"Entity", string(summary.Entity)},
		{"Source file", summary.SourceFilename},
		{"Status", string(summary.Status)},
		{"Added", summary.Added},
		{"Updated", summary.Updated},
		{"Failed", summary.Failed},
		{"Warnings", summary.Warnings},
		{"Processed", summary.Processed},
		{"Total", summary.Total},
		{"Duration (s)", summary.DurationSeconds},
		{"Started at", formatTime(summary.StartedAt)},
		{"Finished at", formatTime(summary.FinishedAt)},
		{"Message", summary.Message},
	}
	for i, row := range summaryRows {
		cell, _ := excelize.CoordinatesToCellName(1, i+1)
		if err := f.SetSheetRow(SummarySheet, cell, &row); err != nil {
			return nil, err
		}
	}
	last, _ := excelize.CoordinatesToCellName(1, len(summaryRows))
	_ = f.SetCellStyle(SummarySheet, "A1", last, bold)
	_ = f.SetColWidth(SummarySheet, "A", "A", 16)
	_ = f.SetColWidth(SummarySheet, "B", "B", 48)

	if err := f.SetSheetRow(FailedRowsSheet, "A1", &failedRowsHeader); err != nil {
		return nil, err
	}
	lastHeader, _ := excelize.CoordinatesToCellName(len(failedRowsHeader), 1)
	_ = f.SetCellStyle(FailedRowsSheet, "A1", lastHeader, bold)
	for i, r := range records {
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		row := []any{r.Row, r.Sheet, string(r.Entity), r.Key, r.Cause.Label(), r.Detail, yesNo(r.Blocking)}
		if err := f.SetSheetRow(FailedRowsSheet, cell, &row); err != nil {
			return nil, fmt.Errorf("write failure row %d: %w", i, err)
		}
	}
	_ = f.SetColWidth(FailedRowsSheet, "D", "D", 28)
	_ = f.SetColWidth(FailedRowsSheet, "E", "F", 36)

	return f.WriteToBuffer()
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
