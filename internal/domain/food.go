package domain

import "strings"

// UnknownVitaminK is the sentinel used when no Vitamin K value could be determined
const UnknownVitaminK = "? µg"

// FoodQuery is a single analysis request: an image data URI or a free-text food name.
// When both are set the image wins.
type FoodQuery struct {
	Image   string `json:"image,omitempty"`
	Aliment string `json:"aliment,omitempty"`
}

// IsEmpty reports whether neither input was provided
func (q FoodQuery) IsEmpty() bool {
	return strings.TrimSpace(q.Image) == "" && strings.TrimSpace(q.Aliment) == ""
}

// ImagePayload is a decoded image ready to be sent to the vision model
type ImagePayload struct {
	MIMEType string
	Data     []byte
}

// IdentifiedFood is what the model recognized.
// EstimatedValue carries a unit-annotated number ("415 µg") or UnknownVitaminK.
type IdentifiedFood struct {
	Name           string `json:"name"`
	EstimatedValue string `json:"estimatedValue"`
}

// HasEstimate reports whether the model produced a usable estimate
func (f IdentifiedFood) HasEstimate() bool {
	return f.EstimatedValue != "" && f.EstimatedValue != UnknownVitaminK
}

// CandidateEntry is an index link whose label matches the queried food
type CandidateEntry struct {
	Label     string `json:"nom"`
	DetailURL string `json:"url"`
}

// Candidate is a CandidateEntry annotated with the nutrient value scraped
// from its detail page. Value is nil when the page does not list it.
type Candidate struct {
	CandidateEntry
	Value *string `json:"valeur"`
}

// LookupResult is the payload returned by the analysis endpoint
type LookupResult struct {
	Aliment     string      `json:"aliment"`
	SearchedAs  string      `json:"alimentRecherche"`
	VitaminK    string      `json:"vitamineK"`
	Source      *string     `json:"source"`
	Suggestions []Candidate `json:"suggestions"`
}
