package usecase

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"sync"

	"github.com/PuerkitoBio/goquery"
	"github.com/vitalens/backend/internal/domain"
)

const testIndexURL = "https://ciqual.anses.fr/"

// fakeHTMLSource serves canned pages and records every fetched URL
type fakeHTMLSource struct {
	mu     sync.Mutex
	pages  map[string]string
	errors map[string]error
	calls  []string
}

func newFakeHTMLSource() *fakeHTMLSource {
	return &fakeHTMLSource{
		pages:  make(map[string]string),
		errors: make(map[string]error),
	}
}

func (f *fakeHTMLSource) Fetch(ctx context.Context, pageURL string) (*goquery.Document, error) {
	f.mu.Lock()
	f.calls = append(f.calls, pageURL)
	f.mu.Unlock()

	if err, ok := f.errors[pageURL]; ok {
		return nil, err
	}
	page, ok := f.pages[pageURL]
	if !ok {
		return nil, fmt.Errorf("%w: status 404 for %s", domain.ErrRemoteFetch, pageURL)
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(page))
	if err != nil {
		return nil, err
	}
	doc.Url, _ = url.Parse(pageURL)
	return doc, nil
}

func (f *fakeHTMLSource) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

// indexPage renders an index page with one link per label/href pair
func indexPage(pairs ...string) string {
	var sb strings.Builder
	sb.WriteString("<html><body><ul>")
	for i := 0; i+1 < len(pairs); i += 2 {
		fmt.Fprintf(&sb, `<li><a href="%s">%s</a></li>`, pairs[i+1], pairs[i])
	}
	sb.WriteString("</ul></body></html>")
	return sb.String()
}

// detailPage renders a fiche with the given label/value rows
func detailPage(rows ...string) string {
	var sb strings.Builder
	sb.WriteString("<html><body><table>")
	for i := 0; i+1 < len(rows); i += 2 {
		fmt.Fprintf(&sb, "<tr><td>%s</td><td>%s</td></tr>", rows[i], rows[i+1])
	}
	sb.WriteString("</table></body></html>")
	return sb.String()
}

// fakeModel returns a fixed reply and records the prompts it received
type fakeModel struct {
	reply   string
	err     error
	prompts []string
	images  []*domain.ImagePayload
}

func (m *fakeModel) Generate(ctx context.Context, prompt string, image *domain.ImagePayload) (string, error) {
	m.prompts = append(m.prompts, prompt)
	m.images = append(m.images, image)
	if m.err != nil {
		return "", m.err
	}
	return m.reply, nil
}

func strPtr(s string) *string {
	return &s
}
