package domain

import (
	"context"

	"github.com/PuerkitoBio/goquery"
)

// HTMLSource fetches and parses a remote HTML page
type HTMLSource interface {
	Fetch(ctx context.Context, url string) (*goquery.Document, error)
}

// TextVisionModel is the generative model boundary.
// image is nil for text-only prompts.
type TextVisionModel interface {
	Generate(ctx context.Context, prompt string, image *ImagePayload) (string, error)
}

// FoodIdentifier turns a query into a food name and an estimated value
type FoodIdentifier interface {
	Identify(ctx context.Context, query FoodQuery) (*IdentifiedFood, error)
}

// CandidateLookup finds database candidates for a food name
type CandidateLookup interface {
	LookupWithValues(ctx context.Context, foodName string) ([]Candidate, error)
}
