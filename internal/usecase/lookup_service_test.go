package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/sirupsen/logrus/hooks/test"
	"github.com/vitalens/backend/internal/domain"
)

func newTestLookupService(t *testing.T, source domain.HTMLSource) *LookupService {
	t.Helper()
	logger, _ := test.NewNullLogger()
	svc, err := NewLookupService(source, LookupServiceConfig{IndexURL: testIndexURL}, logger)
	if err != nil {
		t.Fatalf("NewLookupService() error = %v", err)
	}
	return svc
}

func TestNewLookupService(t *testing.T) {
	t.Run("defaults the nutrient label", func(t *testing.T) {
		svc := newTestLookupService(t, newFakeHTMLSource())
		if svc.details.label != "Vitamine K1" {
			t.Errorf("label = %q, want Vitamine K1", svc.details.label)
		}
	})

	t.Run("rejects an invalid index URL", func(t *testing.T) {
		_, err := NewLookupService(newFakeHTMLSource(), LookupServiceConfig{IndexURL: "nope"}, nil)
		if err == nil {
			t.Error("expected error for invalid index URL")
		}
	})
}

func TestLookupWithValues(t *testing.T) {
	ctx := context.Background()

	t.Run("annotates candidates in discovery order", func(t *testing.T) {
		source := newFakeHTMLSource()
		source.pages[testIndexURL] = indexPage(
			"Basilic frais", "/aliments/11000",
			"Persil", "/aliments/11014",
			"Basilic séché", "/aliments/11001",
		)
		source.pages["https://ciqual.anses.fr/aliments/11000"] = detailPage("Eau", "92", "Vitamine K1", "415")
		source.pages["https://ciqual.anses.fr/aliments/11001"] = detailPage("Eau", "10")

		svc := newTestLookupService(t, source)
		candidates, err := svc.LookupWithValues(ctx, "basilic")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if len(candidates) != 2 {
			t.Fatalf("len(candidates) = %d, want 2", len(candidates))
		}
		if candidates[0].Label != "Basilic frais" || candidates[0].Value == nil || *candidates[0].Value != "415" {
			t.Errorf("candidates[0] = %+v, want Basilic frais with 415", candidates[0])
		}
		if candidates[1].Label != "Basilic séché" || candidates[1].Value != nil {
			t.Errorf("candidates[1] = %+v, want Basilic séché without value", candidates[1])
		}

		wantCalls := []string{
			testIndexURL,
			"https://ciqual.anses.fr/aliments/11000",
			"https://ciqual.anses.fr/aliments/11001",
		}
		if len(source.calls) != len(wantCalls) {
			t.Fatalf("calls = %v, want %v", source.calls, wantCalls)
		}
		for i := range wantCalls {
			if source.calls[i] != wantCalls[i] {
				t.Errorf("calls[%d] = %q, want %q", i, source.calls[i], wantCalls[i])
			}
		}
	})

	t.Run("zero suggestions skip the detail fetcher", func(t *testing.T) {
		source := newFakeHTMLSource()
		source.pages[testIndexURL] = indexPage("Persil", "/aliments/11014")

		svc := newTestLookupService(t, source)
		candidates, err := svc.LookupWithValues(ctx, "basilic")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if candidates == nil || len(candidates) != 0 {
			t.Errorf("candidates = %v, want empty non-nil list", candidates)
		}
		if source.callCount() != 1 {
			t.Errorf("fetch calls = %d, want 1 (index only)", source.callCount())
		}
	})

	t.Run("detail failure fails the lookup", func(t *testing.T) {
		source := newFakeHTMLSource()
		source.pages[testIndexURL] = indexPage("Basilic", "/aliments/11000")

		svc := newTestLookupService(t, source)
		_, err := svc.LookupWithValues(ctx, "basilic")
		if !errors.Is(err, domain.ErrRemoteFetch) {
			t.Errorf("error = %v, want ErrRemoteFetch", err)
		}
	})

	t.Run("index failure fails the lookup", func(t *testing.T) {
		source := newFakeHTMLSource()
		source.errors[testIndexURL] = domain.ErrRemoteFetch

		svc := newTestLookupService(t, source)
		_, err := svc.LookupWithValues(ctx, "basilic")
		if !errors.Is(err, domain.ErrRemoteFetch) {
			t.Errorf("error = %v, want ErrRemoteFetch", err)
		}
	})
}

func TestLookupBest(t *testing.T) {
	ctx := context.Background()

	t.Run("returns the closest entry with its value", func(t *testing.T) {
		source := newFakeHTMLSource()
		source.pages[testIndexURL] = indexPage(
			"Basilic séché, moulu", "/aliments/11001",
			"Basilic frais", "/aliments/11000",
		)
		source.pages["https://ciqual.anses.fr/aliments/11000"] = detailPage("Vitamine K1", "415")

		svc := newTestLookupService(t, source)
		best, err := svc.LookupBest(ctx, "Basilic")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if best.Label != "Basilic frais" {
			t.Errorf("Label = %q, want Basilic frais", best.Label)
		}
		if best.Value == nil || *best.Value != "415" {
			t.Errorf("Value = %v, want 415", best.Value)
		}
		if source.callCount() != 2 {
			t.Errorf("fetch calls = %d, want 2", source.callCount())
		}
	})

	t.Run("no match", func(t *testing.T) {
		source := newFakeHTMLSource()
		source.pages[testIndexURL] = indexPage("Persil", "/aliments/11014")

		svc := newTestLookupService(t, source)
		_, err := svc.LookupBest(ctx, "basilic")
		if !errors.Is(err, domain.ErrNoMatch) {
			t.Errorf("error = %v, want ErrNoMatch", err)
		}
	})
}

func TestFetchNutrientValue(t *testing.T) {
	ctx := context.Background()
	const fiche = "https://ciqual.anses.fr/aliments/11000"

	t.Run("returns the Vitamine K1 value", func(t *testing.T) {
		source := newFakeHTMLSource()
		source.pages[fiche] = detailPage("Protéines", "3,15", "Vitamine K1", "415")

		got, err := NewDetailFetcher(source, "").FetchNutrientValue(ctx, fiche)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got == nil || *got != "415" {
			t.Errorf("FetchNutrientValue() = %v, want 415", got)
		}
	})

	t.Run("missing row is not an error", func(t *testing.T) {
		source := newFakeHTMLSource()
		source.pages[fiche] = detailPage("Protéines", "3,15")

		got, err := NewDetailFetcher(source, "").FetchNutrientValue(ctx, fiche)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got != nil {
			t.Errorf("FetchNutrientValue() = %q, want nil", *got)
		}
	})

	t.Run("custom label", func(t *testing.T) {
		source := newFakeHTMLSource()
		source.pages[fiche] = detailPage("Vitamine K1", "415", "Vitamine K2", "3")

		got, err := NewDetailFetcher(source, "Vitamine K2").FetchNutrientValue(ctx, fiche)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got == nil || *got != "3" {
			t.Errorf("FetchNutrientValue() = %v, want 3", got)
		}
	})

	t.Run("fetch failure", func(t *testing.T) {
		_, err := NewDetailFetcher(newFakeHTMLSource(), "").FetchNutrientValue(ctx, fiche)
		if !errors.Is(err, domain.ErrRemoteFetch) {
			t.Errorf("error = %v, want ErrRemoteFetch", err)
		}
	})
}
