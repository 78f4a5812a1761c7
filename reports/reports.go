package reports

import (
	"bytes"
	"encoding/csv"
	"fmt"

	"github.com/tutorcenter/scheduler/services"
)

const (
	FormatCSV  = "csv"
	FormatXLSX = "xlsx"
	FormatPDF  = "pdf"
)

var header = []string{"Date", "Timeblock", "Tutor", "Course", "Student", "Status", "Semester"}

func record(r services.SessionRow) []string {
	return []string{r.Date, r.Timeblock, r.Tutor, r.Course, r.Student, r.Status, r.Semester}
}

// Report is a rendered export ready to be sent as an attachment.
type Report struct {
	Filename    string
	ContentType string
	Body        []byte
}

// Render builds the session report in the requested format.
func Render(format, title string, rows []services.SessionRow) (*Report, error) {
	base := Filename(title)
	switch format {
	case FormatCSV, "":
		b, err := CSV(rows)
		if err != nil {
			return nil, err
		}
		return &Report{Filename: base + ".csv", ContentType: "text/csv", Body: b}, nil
	case FormatXLSX:
		b, err := XLSX(title, rows)
		if err != nil {
			return nil, err
		}
		return &Report{
			Filename:    base + ".xlsx",
			ContentType: "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
			Body:        b,
		}, nil
	case FormatPDF:
		b, err := PDF(title, rows)
		if err != nil {
			return nil, err
		}
		return &Report{Filename: base + ".pdf", ContentType: "application/pdf", Body: b}, nil
	default:
		return nil, fmt.Errorf("unsupported report format %q", format)
	}
}

func CSV(rows []services.SessionRow) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(header); err != nil {
		return nil, err
	}
	for _, r := range rows {
		if err := w.Write(record(r)); err != nil {
			return nil, err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
