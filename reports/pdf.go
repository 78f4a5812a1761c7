package reports

import (
	"bytes"
	"context"
	"embed"
	"html/template"
	"time"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
	"github.com/tutorcenter/scheduler/services"
)

//go:embed templates/sessions.html
var templateFS embed.FS

var sessionsTmpl = template.Must(template.ParseFS(templateFS, "templates/sessions.html"))

const pdfTimeout = 30 * time.Second

func HTML(title string, rows []services.SessionRow) (string, error) {
	data := struct {
		Title  string
		Header []string
		Rows   [][]string
	}{Title: title, Header: header}
	for _, r := range rows {
		data.Rows = append(data.Rows, record(r))
	}

	var out bytes.Buffer
	if err := sessionsTmpl.Execute(&out, data); err != nil {
		return "", err
	}
	return out.String(), nil
}

// PDF prints the HTML report through a headless Chrome instance.
func PDF(title string, rows []services.SessionRow) ([]byte, error) {
	htmlContent, err := HTML(title, rows)
	if err != nil {
		return nil, err
	}

	ctx, cancel := chromedp.NewContext(context.Background())
	defer cancel()
	ctx, cancelTimeout := context.WithTimeout(ctx, pdfTimeout)
	defer cancelTimeout()

	var pdfBuffer []byte
	err = chromedp.Run(ctx,
		chromedp.Navigate("about:blank"),
		chromedp.ActionFunc(func(ctx context.Context) error {
			frameTree, err := page.GetFrameTree().Do(ctx)
			if err != nil {
				return err
			}
			return page.SetDocumentContent(frameTree.Frame.ID, htmlContent).Do(ctx)
		}),
		chromedp.ActionFunc(func(ctx context.Context) error {
			pdf, _, err := page.PrintToPDF().WithPrintBackground(true).WithLandscape(true).Do(ctx)
			if err != nil {
				return err
			}
			pdfBuffer = pdf
			return nil
		}),
	)
	if err != nil {
		return nil, err
	}
	return pdfBuffer, nil
}
