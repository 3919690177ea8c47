package source

import (
	"context"
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/klippa-app/go-pdfium"
	"github.com/klippa-app/go-pdfium/requests"
	"github.com/klippa-app/go-pdfium/webassembly"
)

const instanceTimeout = 30 * time.Second

// The pdfium runtime is heavyweight; one worker pool serves the whole
// process and starts on first use.
var (
	poolOnce sync.Once
	pool     pdfium.Pool
	poolErr  error
)

func pdfiumPool() (pdfium.Pool, error) {
	poolOnce.Do(func() {
		pool, poolErr = webassembly.Init(webassembly.Config{
			MinIdle:  1,
			MaxIdle:  1,
			MaxTotal: 1,
		})
	})
	return pool, poolErr
}

// PDFSource extracts the text layer of a PDF document.
type PDFSource struct {
	path string
}

// NewPDFSource returns a source extracting text from the PDF at path.
func NewPDFSource(path string) PDFSource {
	return PDFSource{path: path}
}

// Read implements TextSource.
func (s PDFSource) Read(ctx context.Context) (string, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return "", fmt.Errorf("read pdf file: %w", err)
	}
	return ExtractPDFText(ctx, data)
}

// ExtractPDFText pulls the text layer out of a PDF document, with pages
// joined by blank lines.
func ExtractPDFText(ctx context.Context, data []byte) (string, error) {
	p, err := pdfiumPool()
	if err != nil {
		return "", fmt.Errorf("start pdfium: %w", err)
	}
	instance, err := p.GetInstance(instanceTimeout)
	if err != nil {
		return "", fmt.Errorf("acquire pdfium instance: %w", err)
	}
	defer func() { _ = instance.Close() }()

	doc, err := instance.OpenDocument(&requests.OpenDocument{File: &data})
	if err != nil {
		return "", fmt.Errorf("open pdf document: %w", err)
	}
	defer func() {
		_, _ = instance.FPDF_CloseDocument(&requests.FPDF_CloseDocument{Document: doc.Document})
	}()

	count, err := instance.FPDF_GetPageCount(&requests.FPDF_GetPageCount{Document: doc.Document})
	if err != nil {
		return "", fmt.Errorf("count pdf pages: %w", err)
	}

	pages := make([]string, 0, count.PageCount)
	for i := 0; i < count.PageCount; i++ {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		text, err := instance.GetPageText(&requests.GetPageText{
			Page: requests.Page{
				ByIndex: &requests.PageByIndex{
					Document: doc.Document,
					Index:    i,
				},
			},
		})
		if err != nil {
			return "", fmt.Errorf("extract text from page %d: %w", i, err)
		}
		pages = append(pages, strings.TrimSpace(text.Text))
	}
	return strings.Join(pages, "\n\n"), nil
}

var _ TextSource = PDFSource{}
