package gemini

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/generative-ai-go/genai"
	"github.com/sirupsen/logrus"
	"github.com/vitalens/backend/internal/domain"
	"google.golang.org/api/option"
)

const (
	// DefaultModel is the model used when none is configured
	DefaultModel = "gemini-1.5-flash"

	defaultTimeout = 30 * time.Second
)

// ClientConfig holds Gemini client settings
type ClientConfig struct {
	APIKey  string
	Model   string
	Timeout time.Duration
}

// Client calls the Gemini generative API
type Client struct {
	genaiClient *genai.Client
	modelName   string
	timeout     time.Duration
	logger      logrus.FieldLogger
}

// NewClient creates a Gemini client. It fails fast when no API key is configured.
func NewClient(ctx context.Context, cfg ClientConfig, logger logrus.FieldLogger) (*Client, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, domain.ErrMissingAPIKey
	}
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}
	if logger == nil {
		logger = logrus.StandardLogger()
	}

	gc, err := genai.NewClient(ctx, option.WithAPIKey(cfg.APIKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	return &Client{
		genaiClient: gc,
		modelName:   cfg.Model,
		timeout:     cfg.Timeout,
		logger:      logger.WithField("component", "gemini"),
	}, nil
}

// Close releases the underlying connection
func (c *Client) Close() error {
	return c.genaiClient.Close()
}

// Generate sends the prompt, plus the image when given, and returns the reply text
func (c *Client) Generate(ctx context.Context, prompt string, image *domain.ImagePayload) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	model := c.genaiClient.GenerativeModel(c.modelName)

	start := time.Now()
	resp, err := model.GenerateContent(ctx, buildParts(prompt, image)...)
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrModelFailure, err)
	}

	text, err := responseText(resp)
	if err != nil {
		return "", err
	}

	c.logger.WithFields(logrus.Fields{
		"model":    c.modelName,
		"image":    image != nil,
		"duration": time.Since(start).String(),
	}).Debug("model replied")

	return text, nil
}

func buildParts(prompt string, image *domain.ImagePayload) []genai.Part {
	parts := []genai.Part{genai.Text(prompt)}
	if image != nil {
		parts = append(parts, genai.Blob{
			MIMEType: image.MIMEType,
			Data:     image.Data,
		})
	}
	return parts
}

// responseText concatenates the text parts of the first candidate
func responseText(resp *genai.GenerateContentResponse) (string, error) {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", fmt.Errorf("%w: no candidates in response", domain.ErrModelFailure)
	}

	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if text, ok := part.(genai.Text); ok {
			sb.WriteString(string(text))
		}
	}

	text := strings.TrimSpace(sb.String())
	if text == "" {
		return "", fmt.Errorf("%w: empty response", domain.ErrModelFailure)
	}
	return text, nil
}
