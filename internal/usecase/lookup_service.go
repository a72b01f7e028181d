package usecase

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/vitalens/backend/internal/domain"
)

// LookupServiceConfig holds configuration for the lookup service
type LookupServiceConfig struct {
	IndexURL           string
	NutrientLabel      string
	EnableDebugLogging bool
}

// LookupService composes the suggestion matcher and the detail fetcher
type LookupService struct {
	matcher *SuggestionMatcher
	details *DetailFetcher
	logger  logrus.FieldLogger
}

// NewLookupService creates a new lookup service reading pages from source
func NewLookupService(
	source domain.HTMLSource,
	config LookupServiceConfig,
	logger logrus.FieldLogger,
) (*LookupService, error) {
	if logger == nil {
		logger = logrus.StandardLogger()
	}

	matcher, err := NewSuggestionMatcher(source, config.IndexURL, logger, config.EnableDebugLogging)
	if err != nil {
		return nil, err
	}

	return &LookupService{
		matcher: matcher,
		details: NewDetailFetcher(source, config.NutrientLabel),
		logger:  logger.WithField("component", "lookup"),
	}, nil
}

// LookupWithValues finds every candidate for foodName and annotates each with
// its nutrient value. Detail pages are fetched one after the other, in
// suggestion order, so the external site sees at most one request at a time.
// Flow: scan index -> fetch each fiche -> return in discovery order
func (s *LookupService) LookupWithValues(ctx context.Context, foodName string) ([]domain.Candidate, error) {
	entries, err := s.matcher.FindSuggestions(ctx, foodName)
	if err != nil {
		return nil, err
	}

	candidates := make([]domain.Candidate, 0, len(entries))
	for _, entry := range entries {
		value, err := s.details.FetchNutrientValue(ctx, entry.DetailURL)
		if err != nil {
			return nil, fmt.Errorf("candidate %q: %w", entry.Label, err)
		}
		candidates = append(candidates, domain.Candidate{
			CandidateEntry: entry,
			Value:          value,
		})
	}

	s.logger.WithFields(logrus.Fields{
		"food":       foodName,
		"candidates": len(candidates),
	}).Debug("lookup complete")

	return candidates, nil
}

// LookupBest returns the single closest entry for foodName with its value.
// domain.ErrNoMatch is returned when no entry label contains the name.
func (s *LookupService) LookupBest(ctx context.Context, foodName string) (*domain.Candidate, error) {
	entry, err := s.matcher.FindClosest(ctx, foodName)
	if err != nil {
		return nil, err
	}
	if entry == nil {
		return nil, domain.ErrNoMatch
	}

	value, err := s.details.FetchNutrientValue(ctx, entry.DetailURL)
	if err != nil {
		return nil, fmt.Errorf("candidate %q: %w", entry.Label, err)
	}

	return &domain.Candidate{CandidateEntry: *entry, Value: value}, nil
}
