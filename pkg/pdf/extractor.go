package pdf

import (
	"fmt"
	"io"
	"strings"

	"edu-chatbot-be/pkg/utils"

	"github.com/ledongthuc/pdf"
)

// ExtractPages pulls plain text out of a PDF, one entry per page (1-indexed).
// Pages that fail text extraction are kept as empty entries so page numbers
// stay aligned with the source document.
func ExtractPages(r io.ReaderAt, size int64) ([]utils.PageText, error) {
	reader, err := pdf.NewReader(r, size)
	if err != nil {
		return nil, fmt.Errorf("open pdf: %w", err)
	}

	total := reader.NumPage()
	if total == 0 {
		return nil, fmt.Errorf("pdf has no pages")
	}

	pages := make([]utils.PageText, 0, total)
	for i := 1; i <= total; i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			pages = append(pages, utils.PageText{Page: i})
			continue
		}

		text, err := page.GetPlainText(nil)
		if err != nil {
			pages = append(pages, utils.PageText{Page: i})
			continue
		}
		pages = append(pages, utils.PageText{Page: i, Text: strings.TrimSpace(text)})
	}

	return pages, nil
}

// HasText reports whether any page yielded text, used to reject scanned
// image-only documents early.
func HasText(pages []utils.PageText) bool {
	for _, p := range pages {
		if p.Text != "" {
			return true
		}
	}
	return false
}
