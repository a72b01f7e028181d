package usecase

import (
	"encoding/base64"
	"fmt"
	"strings"

	"github.com/vitalens/backend/internal/domain"
)

const defaultImageMIMEType = "image/jpeg"

// DecodeDataURI decodes "data:image/png;base64,...." into an image payload.
// A bare base64 string is accepted and assumed to be JPEG.
func DecodeDataURI(dataURI string) (*domain.ImagePayload, error) {
	mimeType := defaultImageMIMEType
	payload := strings.TrimSpace(dataURI)

	if strings.HasPrefix(payload, "data:") {
		header, data, ok := strings.Cut(payload[len("data:"):], ",")
		if !ok {
			return nil, fmt.Errorf("%w: missing data separator", domain.ErrInvalidImage)
		}

		params := strings.Split(header, ";")
		if params[0] != "" {
			mimeType = strings.ToLower(params[0])
		}
		if params[len(params)-1] != "base64" {
			return nil, fmt.Errorf("%w: only base64 data URIs are supported", domain.ErrInvalidImage)
		}
		payload = data
	}

	if !strings.HasPrefix(mimeType, "image/") {
		return nil, fmt.Errorf("%w: unsupported media type %q", domain.ErrInvalidImage, mimeType)
	}

	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidImage, err)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: empty image", domain.ErrInvalidImage)
	}

	return &domain.ImagePayload{MIMEType: mimeType, Data: data}, nil
}
