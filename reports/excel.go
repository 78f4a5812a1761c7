package reports

import (
	"bytes"
	"fmt"
	"regexp"
	"strings"

	"github.com/tutorcenter/scheduler/services"
	"github.com/xuri/excelize/v2"
)

const sheet = "Sessions"

func XLSX(title string, rows []services.SessionRow) ([]byte, error) {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return nil, err
	}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return nil, err
	}
	for i, r := range rows {
		rec := record(r)
		if err := f.SetSheetRow(sheet, fmt.Sprintf("A%d", i+2), &rec); err != nil {
			return nil, err
		}
	}
	if err := applyFormatting(f, sheet); err != nil {
		return nil, err
	}
	_ = f.SetDocProps(&excelize.DocProperties{Title: title, Creator: "scheduler"})

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// applyFormatting bolds and filters the header row and sizes columns by
// their longest value.
func applyFormatting(f *excelize.File, sheet string) error {
	rows, err := f.GetRows(sheet)
	if err != nil {
		return err
	}
	cols := len(header)
	last := columnName(cols)

	if style, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}}); err == nil {
		_ = f.SetCellStyle(sheet, "A1", last+"1", style)
	}
	_ = f.AutoFilter(sheet, "A1:"+last+"1", nil)

	widths := make([]float64, cols)
	for i := range widths {
		widths[i] = 10
	}
	for _, row := range rows {
		for c := 0; c < cols && c < len(row); c++ {
			w := float64(len([]rune(row[c]))) * 1.1
			if w > 60 {
				w = 60
			}
			if w > widths[c] {
				widths[c] = w
			}
		}
	}
	for i, w := range widths {
		col := columnName(i + 1)
		_ = f.SetColWidth(sheet, col, col, w)
	}
	return nil
}

func columnName(n int) string {
	s := ""
	for n > 0 {
		n--
		s = string(rune('A'+(n%26))) + s
		n /= 26
	}
	return s
}

var invalidFileRe = regexp.MustCompile(`[\\/:*?"<>|]+`)

// Filename turns a report title into a safe file name without extension.
func Filename(title string) string {
	s := strings.Join(strings.Fields(strings.TrimSpace(title)), "_")
	s = invalidFileRe.ReplaceAllString(s, "_")
	if s == "" {
		return "sessions"
	}
	return s
}
