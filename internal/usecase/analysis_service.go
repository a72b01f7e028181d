package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/vitalens/backend/internal/domain"
)

const (
	officialSuffix = " µg (officiel CIQUAL)"
	estimateSuffix = " (estimation IA)"
)

// frenchToEnglish is retried when a French name yields no CIQUAL candidate
var frenchToEnglish = map[string]string{
	"basilic": "basil",
	"épinard": "spinach",
	"persil":  "parsley",
	"laitue":  "lettuce",
	"chou":    "cabbage",
	"brocoli": "broccoli",
	"carotte": "carrot",
	"pomme":   "apple",
	"poire":   "pear",
	"banane":  "banana",
}

// AnalysisService answers a food query end to end
type AnalysisService struct {
	identifier domain.FoodIdentifier
	lookup     domain.CandidateLookup
	logger     logrus.FieldLogger
}

// NewAnalysisService creates a new analysis service with dependencies
func NewAnalysisService(
	identifier domain.FoodIdentifier,
	lookup domain.CandidateLookup,
	logger logrus.FieldLogger,
) *AnalysisService {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &AnalysisService{
		identifier: identifier,
		lookup:     lookup,
		logger:     logger.WithField("component", "analyse"),
	}
}

// Analyse identifies the food, looks it up in CIQUAL and picks the value to report.
// Flow: validate -> identify -> lookup -> (translate + lookup) -> select value
func (s *AnalysisService) Analyse(ctx context.Context, query domain.FoodQuery) (*domain.LookupResult, error) {
	if query.IsEmpty() {
		return nil, domain.ErrClientInput
	}

	food, err := s.identifier.Identify(ctx, query)
	if err != nil {
		return nil, err
	}

	searchedAs := food.Name
	suggestions, err := s.lookup.LookupWithValues(ctx, searchedAs)
	if err != nil {
		return nil, fmt.Errorf("looking up %q: %w", searchedAs, err)
	}

	if len(suggestions) == 0 {
		if translated, ok := translateFoodName(food.Name); ok {
			s.logger.WithFields(logrus.Fields{
				"food":       food.Name,
				"translated": translated,
			}).Debug("no candidate, retrying with translation")

			searchedAs = translated
			suggestions, err = s.lookup.LookupWithValues(ctx, searchedAs)
			if err != nil {
				return nil, fmt.Errorf("looking up %q: %w", searchedAs, err)
			}
		}
	}

	if suggestions == nil {
		suggestions = []domain.Candidate{}
	}

	vitaminK, source := selectVitaminK(suggestions, *food)

	s.logger.WithFields(logrus.Fields{
		"food":        food.Name,
		"searched_as": searchedAs,
		"suggestions": len(suggestions),
		"official":    source != nil,
	}).Info("analysis complete")

	return &domain.LookupResult{
		Aliment:     food.Name,
		SearchedAs:  searchedAs,
		VitaminK:    vitaminK,
		Source:      source,
		Suggestions: suggestions,
	}, nil
}

func translateFoodName(name string) (string, bool) {
	translated, ok := frenchToEnglish[strings.ToLower(strings.TrimSpace(name))]
	return translated, ok
}

// selectVitaminK prefers the first candidate's CIQUAL value, then the model's
// estimate, then the unknown sentinel. Only a CIQUAL value carries a source.
func selectVitaminK(suggestions []domain.Candidate, food domain.IdentifiedFood) (string, *string) {
	if len(suggestions) > 0 && suggestions[0].Value != nil {
		source := suggestions[0].DetailURL
		return *suggestions[0].Value + officialSuffix, &source
	}
	if food.HasEstimate() {
		return food.EstimatedValue + estimateSuffix, nil
	}
	return domain.UnknownVitaminK, nil
}
