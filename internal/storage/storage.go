package storage

import (
	"context"
	"encoding/base64"
	"fmt"
	"strings"

	"github.com/devhire/backend/internal/domain"
)

// ImageStore uploads raw image/file bytes and returns a stable URL
// plus the key needed to delete the object later.
type ImageStore interface {
	Upload(ctx context.Context, folder string, data []byte, contentType string) (domain.Upload, error)
	Delete(ctx context.Context, key string) error
}

// DecodeDataURI splits a "data:<mime>;base64,<payload>" string into
// its bytes and content type. Clients submit uploads inline in JSON.
func DecodeDataURI(uri string) ([]byte, string, error) {
	rest, ok := strings.CutPrefix(uri, "data:")
	if !ok {
		return nil, "", fmt.Errorf("not a data URI")
	}
	mime, payload, ok := strings.Cut(rest, ";base64,")
	if !ok {
		return nil, "", fmt.Errorf("data URI is not base64 encoded")
	}
	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, "", fmt.Errorf("decode data URI: %w", err)
	}
	return data, mime, nil
}
