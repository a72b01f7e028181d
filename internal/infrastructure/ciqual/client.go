package ciqual

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/sirupsen/logrus"
	"github.com/vitalens/backend/internal/domain"
	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/transform"
)

const (
	// DefaultUserAgent is the browser-like header CIQUAL expects
	DefaultUserAgent = "Mozilla/5.0"

	defaultTimeout      = 10 * time.Second
	defaultMaxBodyBytes = 8 << 20
)

// ClientConfig holds the knobs of the CIQUAL page client
type ClientConfig struct {
	UserAgent    string
	Timeout      time.Duration
	MaxBodyBytes int64
}

// Client fetches CIQUAL pages and parses them into goquery documents
type Client struct {
	httpClient   *http.Client
	userAgent    string
	maxBodyBytes int64
	logger       logrus.FieldLogger
	debug        bool
}

// NewClient creates a new CIQUAL page client
func NewClient(cfg ClientConfig, logger logrus.FieldLogger) *Client {
	if cfg.UserAgent == "" {
		cfg.UserAgent = DefaultUserAgent
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}
	if cfg.MaxBodyBytes <= 0 {
		cfg.MaxBodyBytes = defaultMaxBodyBytes
	}
	if logger == nil {
		logger = logrus.StandardLogger()
	}

	return &Client{
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		userAgent:    cfg.UserAgent,
		maxBodyBytes: cfg.MaxBodyBytes,
		logger:       logger.WithField("component", "ciqual"),
	}
}

// SetDebug toggles per-request debug logging
func (c *Client) SetDebug(debug bool) {
	c.debug = debug
}

func (c *Client) debugLog(format string, args ...interface{}) {
	if c.debug {
		c.logger.Debugf(format, args...)
	}
}

// doRequest executes an HTTP GET request with the identifying header
func (c *Client) doRequest(ctx context.Context, reqURL string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrRemoteFetch, err)
	}

	return resp, nil
}

// Fetch downloads a page and parses it as HTML.
// Network failures and non-2xx statuses are reported as domain.ErrRemoteFetch.
func (c *Client) Fetch(ctx context.Context, pageURL string) (*goquery.Document, error) {
	c.debugLog("GET %s", pageURL)

	resp, err := c.doRequest(ctx, pageURL)
	if err != nil {
		c.logger.WithError(err).WithField("url", pageURL).Warn("page fetch failed")
		return nil, err
	}
	defer resp.Body.Close()

	body, err := readLimitedBody(resp.Body, c.maxBodyBytes)
	if err != nil {
		if errors.Is(err, domain.ErrRemoteFetch) {
			return nil, fmt.Errorf("%s: %w", pageURL, err)
		}
		return nil, fmt.Errorf("%w: reading body: %v", domain.ErrRemoteFetch, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		c.logger.WithFields(logrus.Fields{
			"url":    pageURL,
			"status": resp.StatusCode,
		}).Warn("unexpected status from CIQUAL")
		return nil, fmt.Errorf("%w: status %d for %s", domain.ErrRemoteFetch, resp.StatusCode, pageURL)
	}

	reader, err := decodeCharset(bytes.NewReader(body), resp.Header.Get("Content-Type"))
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", domain.ErrRemoteFetch, pageURL, err)
	}

	doc, err := goquery.NewDocumentFromReader(reader)
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML from %s: %w", pageURL, err)
	}
	doc.Url = resp.Request.URL

	c.debugLog("fetched %s (%d bytes)", pageURL, len(body))
	return doc, nil
}

// readLimitedBody reads r fully, failing when it holds more than limit bytes
func readLimitedBody(r io.Reader, limit int64) ([]byte, error) {
	body, err := io.ReadAll(io.LimitReader(r, limit+1))
	if err != nil {
		return nil, err
	}
	if int64(len(body)) > limit {
		return nil, fmt.Errorf("%w: body exceeds %d bytes", domain.ErrRemoteFetch, limit)
	}
	return body, nil
}

// decodeCharset transcodes a body declared in a non-UTF-8 charset.
// A missing or unparsable Content-Type is read as UTF-8.
func decodeCharset(r io.Reader, contentType string) (io.Reader, error) {
	_, params, err := mime.ParseMediaType(contentType)
	if err != nil {
		return r, nil
	}

	charset := strings.ToLower(strings.TrimSpace(params["charset"]))
	if charset == "" || charset == "utf-8" || charset == "utf8" {
		return r, nil
	}

	enc, err := htmlindex.Get(charset)
	if err != nil {
		return nil, fmt.Errorf("unsupported charset %q: %w", charset, err)
	}
	return transform.NewReader(r, enc.NewDecoder()), nil
}
