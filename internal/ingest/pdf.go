// Package ingest provides a minimal PDF-to-PageRecord extraction helper.
// Building a full ingestion pipeline is out of scope (see SPEC_FULL.md's
// Non-goals); this exists so tests can build realistic PageRecord fixtures
// from an actual PDF instead of hand-typed text.
package ingest

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/ledongthuc/pdf"

	"github.com/aqua777/go-research-orchestrator/domain"
)

// PagesFromPDF reads path and returns one PageRecord per non-blank page,
// with DocSource set to the file's base name.
func PagesFromPDF(path string) ([]domain.PageRecord, error) {
	f, reader, err := pdf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open pdf %s: %w", path, err)
	}
	defer f.Close()

	docSource := filepath.Base(path)
	numPages := reader.NumPage()

	pages := make([]domain.PageRecord, 0, numPages)
	for pageNum := 1; pageNum <= numPages; pageNum++ {
		page := reader.Page(pageNum)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			continue
		}
		text = strings.TrimSpace(text)
		if text == "" {
			continue
		}
		pages = append(pages, domain.PageRecord{
			DocSource: docSource,
			PageNum:   pageNum,
			Text:      text,
			Metadata: map[string]string{
				"total_pages": fmt.Sprintf("%d", numPages),
			},
		})
	}
	return pages, nil
}
