// Package storage persists uploaded recipe images.
package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"path"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
	"github.com/pageza/recipebox/backend/config"
)

// MaxImageSize bounds how much of an upload is read.
const MaxImageSize = 10 << 20

var ErrInvalidImage = errors.New("Upload a valid image. The file you uploaded was either not an image or a corrupted image.")

// allowed maps accepted content types to the extension used for storage.
var allowed = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/gif":  ".gif",
}

// ImageStore persists image bytes under a key and resolves keys to URLs.
type ImageStore interface {
	Save(ctx context.Context, key string, data []byte, contentType string) error
	Delete(ctx context.Context, key string) error
	URL(key string) string
}

// Image is a validated upload ready to be stored.
type Image struct {
	Data        []byte
	ContentType string
	Ext         string
	Width       int
	Height      int
}

// ReadImage reads at most MaxImageSize bytes from r and accepts them only if
// they sniff as JPEG, PNG or GIF and the header decodes.
func ReadImage(r io.Reader) (*Image, error) {
	data, err := io.ReadAll(io.LimitReader(r, MaxImageSize+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read upload: %w", err)
	}
	if len(data) == 0 || len(data) > MaxImageSize {
		return nil, ErrInvalidImage
	}

	mt := mimetype.Detect(data)
	ext, ok := allowed[mt.String()]
	if !ok {
		return nil, ErrInvalidImage
	}

	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil || cfg.Width == 0 || cfg.Height == 0 {
		return nil, ErrInvalidImage
	}

	return &Image{
		Data:        data,
		ContentType: mt.String(),
		Ext:         ext,
		Width:       cfg.Width,
		Height:      cfg.Height,
	}, nil
}

// NewRecipeImageKey returns a fresh key of the form uploads/recipe/<uuid><ext>.
func NewRecipeImageKey(ext string) string {
	return path.Join("uploads", "recipe", uuid.NewString()+ext)
}

// New returns the store selected by cfg.StorageBackend.
func New(ctx context.Context, cfg *config.Config) (ImageStore, error) {
	switch cfg.StorageBackend {
	case "s3":
		s3cfg, err := config.NewS3Config(ctx, cfg)
		if err != nil {
			return nil, fmt.Errorf("failed to configure S3: %w", err)
		}
		return NewS3ImageStoreFromConfig(s3cfg), nil
	case "local", "":
		return NewLocalImageStore(cfg.MediaRoot, cfg.MediaURL), nil
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.StorageBackend)
	}
}
