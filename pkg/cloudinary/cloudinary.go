package cloudinary

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// ErrNotConfigured is returned by New when any credential is missing.
var ErrNotConfigured = errors.New("cloudinary credentials must be provided")

// Config contains credentials required to talk to Cloudinary.
type Config struct {
	CloudName string
	APIKey    string
	APISecret string
	Folder    string
}

// Configured reports whether every credential is present.
func (c Config) Configured() bool {
	return c.CloudName != "" && c.APIKey != "" && c.APISecret != ""
}

// Storage stores article covers and documents on Cloudinary.
type Storage struct {
	client *cloudinary.Cloudinary
	folder string
	logger zerolog.Logger
}

// New constructs a Cloudinary-backed storage.
func New(cfg Config, logger zerolog.Logger) (*Storage, error) {
	if !cfg.Configured() {
		return nil, ErrNotConfigured
	}

	cld, err := cloudinary.NewFromParams(cfg.CloudName, cfg.APIKey, cfg.APISecret)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize cloudinary: %w", err)
	}

	return &Storage{
		client: cld,
		folder: strings.Trim(cfg.Folder, "/"),
		logger: logger.With().Str("component", "cloudinary").Logger(),
	}, nil
}

// Upload sends the file and returns its HTTPS URL. Documents are stored as raw
// assets so the original bytes are served back unchanged.
func (s *Storage) Upload(ctx context.Context, name string, reader io.Reader) (string, error) {
	params := uploader.UploadParams{
		Folder:       s.folder,
		PublicID:     publicID(name),
		ResourceType: resourceType(name),
	}

	result, err := s.client.Upload.Upload(ctx, reader, params)
	if err != nil {
		return "", fmt.Errorf("failed to upload asset: %w", err)
	}
	if result.Error.Message != "" {
		return "", fmt.Errorf("cloudinary rejected %s: %s", name, result.Error.Message)
	}

	s.logger.Info().Str("public_id", result.PublicID).Str("resource_type", params.ResourceType).Msg("file uploaded to cloudinary")

	return result.SecureURL, nil
}

func resourceType(name string) string {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".pdf", ".zip":
		return "raw"
	default:
		return "image"
	}
}

// publicID keeps a readable slug of the file name and appends a short unique suffix.
func publicID(name string) string {
	ext := filepath.Ext(name)
	base := strings.ToLower(strings.TrimSuffix(filepath.Base(name), ext))
	base = strings.Map(func(r rune) rune {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			return r
		}
		return '-'
	}, base)
	base = strings.Trim(base, "-")
	if base == "" {
		base = "upload"
	}

	suffix := strings.SplitN(uuid.NewString(), "-", 2)[0]
	id := fmt.Sprintf("%s-%s", base, suffix)
	// Raw assets keep their extension in the public id.
	if resourceType(name) == "raw" {
		id += strings.ToLower(ext)
	}
	return id
}
