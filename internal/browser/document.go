package browser

import (
	"context"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"fbcli/internal/types"
)

// Document snapshots the rendered page into a goquery document.
func Document(ctx context.Context, page Page) (*goquery.Document, error) {
	html, err := page.HTML(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: read page: %v", types.ErrExtraction, err)
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("%w: parse page: %v", types.ErrExtraction, err)
	}
	return doc, nil
}
