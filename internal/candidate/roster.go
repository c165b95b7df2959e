package candidate

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"
)

// creator is the part of a candidate repository an import needs.
type creator interface {
	Create(ctx context.Context, v Candidate) Candidate
}

type ImportRowError struct {
	Row   int    `json:"row"`
	Error string `json:"error"`
}

type ImportReport struct {
	TotalRows   int              `json:"total_rows"`
	SuccessRows int              `json:"success_rows"`
	FailedRows  int              `json:"failed_rows"`
	CreatedIDs  []int64          `json:"created_ids"`
	Errors      []ImportRowError `json:"errors"`
}

var errMissingNameColumn = errors.New("missing required column: name")

// ImportCSV creates one candidate per data row. The header must carry a
// "name" (or "full_name") column; blank rows are counted but skipped.
func ImportCSV(ctx context.Context, to creator, r io.Reader) (*ImportReport, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("read csv header: %w", err)
	}
	col, ok := nameColumn(header)
	if !ok {
		return nil, errMissingNameColumn
	}

	report := newImportReport()
	rowNo := 1
	for {
		rowNo++
		rec, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		report.TotalRows++
		if err != nil {
			report.fail(rowNo, fmt.Sprintf("csv parse error: %v", err))
			continue
		}
		report.importRow(ctx, to, rowNo, rec, col)
	}
	return report, nil
}

// ImportExcel reads the first sheet of an xlsx workbook with the same layout
// ImportCSV expects.
func ImportExcel(ctx context.Context, to creator, r io.Reader) (*ImportReport, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("open excel: %w", err)
	}
	defer func() { _ = f.Close() }()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, errors.New("excel sheet is empty")
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("read rows: %w", err)
	}
	if len(rows) == 0 {
		return nil, errors.New("excel header row is missing")
	}
	col, ok := nameColumn(rows[0])
	if !ok {
		return nil, errMissingNameColumn
	}

	report := newImportReport()
	for i := 1; i < len(rows); i++ {
		report.TotalRows++
		report.importRow(ctx, to, i+1, rows[i], col)
	}
	return report, nil
}

// ExportExcel writes candidates as a single-sheet workbook with an id and a
// name column.
func ExportExcel(items []Candidate) ([]byte, error) {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	sheet := f.GetSheetName(0)
	for i, h := range []string{"id", "name"} {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(sheet, cell, h)
	}
	for i, it := range items {
		row := i + 2
		for col, v := range []any{it.ID, it.Name} {
			cell, _ := excelize.CoordinatesToCellName(col+1, row)
			_ = f.SetCellValue(sheet, cell, v)
		}
	}
	_ = f.SetColWidth(sheet, "B", "B", 32)

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("write excel: %w", err)
	}
	return buf.Bytes(), nil
}

func newImportReport() *ImportReport {
	return &ImportReport{CreatedIDs: make([]int64, 0), Errors: make([]ImportRowError, 0)}
}

func (rep *ImportReport) importRow(ctx context.Context, to creator, rowNo int, rec []string, col int) {
	if isRowEmpty(rec) {
		return
	}
	name := ""
	if col < len(rec) {
		name = strings.TrimSpace(rec[col])
	}
	if name == "" {
		rep.fail(rowNo, "name is required")
		return
	}
	created := to.Create(ctx, Candidate{Name: name})
	rep.CreatedIDs = append(rep.CreatedIDs, created.ID)
	rep.SuccessRows++
}

func (rep *ImportReport) fail(rowNo int, msg string) {
	rep.FailedRows++
	rep.Errors = append(rep.Errors, ImportRowError{Row: rowNo, Error: msg})
}

func nameColumn(header []string) (int, bool) {
	for i, h := range header {
		switch normalizeHeader(h) {
		case "name", "full_name":
			return i, true
		}
	}
	return -1, false
}

func normalizeHeader(h string) string {
	h = strings.TrimPrefix(h, "\ufeff")
	h = strings.ToLower(strings.TrimSpace(h))
	h = strings.ReplaceAll(h, "-", "_")
	h = strings.ReplaceAll(h, " ", "_")
	return h
}

func isRowEmpty(rec []string) bool {
	for _, c := range rec {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
