package usecase

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/agnivade/levenshtein"
	"github.com/sirupsen/logrus"
	"github.com/vitalens/backend/internal/domain"
	"github.com/vitalens/backend/internal/infrastructure/ciqual"
)

// SuggestionMatcher scans the CIQUAL index page for entries matching a food name.
//
// Matching is best-effort and recall-biased: an entry is kept when either
// normalized label contains the other, or when any word of one is contained
// in the other. No ranking is applied; entries come back in document order.
type SuggestionMatcher struct {
	source             domain.HTMLSource
	indexURL           *url.URL
	logger             logrus.FieldLogger
	enableDebugLogging bool
}

// NewSuggestionMatcher creates a matcher reading the index page at indexURL
func NewSuggestionMatcher(source domain.HTMLSource, indexURL string, logger logrus.FieldLogger, debug bool) (*SuggestionMatcher, error) {
	parsed, err := url.Parse(indexURL)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return nil, fmt.Errorf("invalid CIQUAL index URL %q", indexURL)
	}
	if logger == nil {
		logger = logrus.StandardLogger()
	}

	return &SuggestionMatcher{
		source:             source,
		indexURL:           parsed,
		logger:             logger.WithField("component", "matcher"),
		enableDebugLogging: debug,
	}, nil
}

// FindSuggestions returns every index entry whose label overlaps query.
// An empty normalized query matches nothing and skips the index fetch.
func (m *SuggestionMatcher) FindSuggestions(ctx context.Context, query string) ([]domain.CandidateEntry, error) {
	target := Normalize(query)
	if target == "" {
		return nil, nil
	}

	links, base, err := m.fetchIndex(ctx)
	if err != nil {
		return nil, err
	}

	var entries []domain.CandidateEntry
	for _, link := range links {
		if !matchesEntry(Normalize(link.Text), target) {
			continue
		}

		detailURL, err := ciqual.ResolveURL(base, link.Href)
		if err != nil {
			m.logger.WithError(err).Debug("skipping unresolvable link")
			continue
		}

		entries = append(entries, domain.CandidateEntry{
			Label:     link.Text,
			DetailURL: detailURL,
		})
	}

	if m.enableDebugLogging {
		m.logger.WithFields(logrus.Fields{
			"query":   query,
			"matches": len(entries),
		}).Debug("index scanned")
	}

	return entries, nil
}

// FindClosest returns the index entry whose normalized label contains the
// normalized query with the smallest edit distance to it. Ties keep the
// earliest entry. nil means nothing contains the query.
func (m *SuggestionMatcher) FindClosest(ctx context.Context, query string) (*domain.CandidateEntry, error) {
	target := Normalize(query)
	if target == "" {
		return nil, nil
	}

	links, base, err := m.fetchIndex(ctx)
	if err != nil {
		return nil, err
	}

	var best *domain.CandidateEntry
	bestDistance := -1

	for _, link := range links {
		label := Normalize(link.Text)
		if !strings.Contains(label, target) {
			continue
		}

		distance := levenshtein.ComputeDistance(label, target)
		if best != nil && distance >= bestDistance {
			continue
		}

		detailURL, err := ciqual.ResolveURL(base, link.Href)
		if err != nil {
			continue
		}
		best = &domain.CandidateEntry{Label: link.Text, DetailURL: detailURL}
		bestDistance = distance
	}

	if best != nil && m.enableDebugLogging {
		m.logger.WithFields(logrus.Fields{
			"query":    query,
			"label":    best.Label,
			"distance": bestDistance,
		}).Debug("closest entry")
	}

	return best, nil
}

func (m *SuggestionMatcher) fetchIndex(ctx context.Context) ([]ciqual.Link, *url.URL, error) {
	doc, err := m.source.Fetch(ctx, m.indexURL.String())
	if err != nil {
		return nil, nil, fmt.Errorf("fetching CIQUAL index: %w", err)
	}

	base := m.indexURL
	if doc.Url != nil && doc.Url.Host != "" {
		base = doc.Url
	}

	return ciqual.ExtractLinks(doc), base, nil
}

// matchesEntry applies the bidirectional substring and word rules.
// Entries whose label normalizes to nothing never match.
func matchesEntry(entry, target string) bool {
	if entry == "" || target == "" {
		return false
	}

	if strings.Contains(entry, target) || strings.Contains(target, entry) {
		return true
	}

	for _, word := range strings.Fields(entry) {
		if strings.Contains(target, word) {
			return true
		}
	}
	for _, word := range strings.Fields(target) {
		if strings.Contains(entry, word) {
			return true
		}
	}

	return false
}
