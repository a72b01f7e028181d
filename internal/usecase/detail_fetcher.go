package usecase

import (
	"context"
	"fmt"

	"github.com/vitalens/backend/internal/domain"
	"github.com/vitalens/backend/internal/infrastructure/ciqual"
)

// DetailFetcher reads one nutrient value out of a CIQUAL detail page ("fiche")
type DetailFetcher struct {
	source domain.HTMLSource
	label  string
}

// NewDetailFetcher creates a fetcher for the nutrient row labelled label
func NewDetailFetcher(source domain.HTMLSource, label string) *DetailFetcher {
	if label == "" {
		label = ciqual.NutrientLabelVitaminK1
	}
	return &DetailFetcher{source: source, label: label}
}

// FetchNutrientValue returns the value of the first row carrying the label.
// A page without such a row yields nil and no error.
func (f *DetailFetcher) FetchNutrientValue(ctx context.Context, detailURL string) (*string, error) {
	doc, err := f.source.Fetch(ctx, detailURL)
	if err != nil {
		return nil, fmt.Errorf("fetching CIQUAL detail page: %w", err)
	}
	return ciqual.FindRowValue(doc, f.label), nil
}
