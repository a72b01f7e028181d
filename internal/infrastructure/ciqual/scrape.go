package ciqual

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// NutrientLabelVitaminK1 is the row label of Vitamin K1 on CIQUAL detail pages
const NutrientLabelVitaminK1 = "Vitamine K1"

// Link is a hyperlink found on an index page
type Link struct {
	Text string
	Href string
}

// ExtractLinks returns every <a> with a non-empty href, in document order.
// Text is the raw visible text, trimmed.
func ExtractLinks(doc *goquery.Document) []Link {
	var links []Link
	doc.Find("a").Each(func(_ int, s *goquery.Selection) {
		href, ok := s.Attr("href")
		if !ok || strings.TrimSpace(href) == "" {
			return
		}
		links = append(links, Link{
			Text: strings.TrimSpace(s.Text()),
			Href: strings.TrimSpace(href),
		})
	})
	return links
}

// FindRowValue scans table rows top to bottom and returns the trimmed second
// cell of the first row whose first cell contains label. Only the first
// matching row is considered; nil means the nutrient is not listed.
// A matching row with an empty or missing second cell also yields nil, so
// such a candidate serializes as "valeur": null rather than "".
func FindRowValue(doc *goquery.Document, label string) *string {
	var value *string
	doc.Find("tr").EachWithBreak(func(_ int, tr *goquery.Selection) bool {
		cells := tr.Find("td")
		if cells.Length() == 0 {
			return true
		}
		if !strings.Contains(strings.TrimSpace(cells.First().Text()), label) {
			return true
		}
		if v := strings.TrimSpace(cells.Eq(1).Text()); v != "" {
			value = &v
		}
		return false
	})
	return value
}

// ResolveURL turns an href into an absolute address relative to base
func ResolveURL(base *url.URL, href string) (string, error) {
	ref, err := url.Parse(href)
	if err != nil {
		return "", fmt.Errorf("invalid href %q: %w", href, err)
	}
	if base == nil {
		return ref.String(), nil
	}
	return base.ResolveReference(ref).String(), nil
}
