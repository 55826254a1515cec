package loader

import (
	"fmt"
	"os"

	"github.com/ledongthuc/pdf"
)

// extractPages reads a PDF file and returns the plain text of each page,
// 1-based. Pages that yield no extractable text (scanned images, empty
// pages) are returned with empty text and skipped by the splitter.
func extractPages(path string) ([]page, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open: %w", err)
	}
	defer f.Close()

	stat, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("stat: %w", err)
	}

	reader, err := pdf.NewReader(f, stat.Size())
	if err != nil {
		return nil, fmt.Errorf("parse: %w", err)
	}

	total := reader.NumPage()
	pages := make([]page, 0, total)
	for i := 1; i <= total; i++ {
		p := reader.Page(i)
		if p.V.IsNull() {
			pages = append(pages, page{number: i})
			continue
		}
		text, err := p.GetPlainText(nil)
		if err != nil {
			// A single unreadable page should not sink the whole
			// document; treat it as empty.
			pages = append(pages, page{number: i})
			continue
		}
		pages = append(pages, page{number: i, text: text})
	}

	return pages, nil
}
