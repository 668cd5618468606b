// Package storage wraps Cloudinary uploads for recorded audio. It is a
// single pass-through call; retries and job state live elsewhere.
package storage

import (
	"bytes"
	"context"
	"fmt"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
	"github.com/ethanbaker/carebridge/internal/faults"
	"github.com/ethanbaker/carebridge/pkg/utils"
	"github.com/google/uuid"
)

const audioFolder = "carebridge_audio"

// Uploader stores audio blobs and returns their public URLs
type Uploader struct {
	cld *cloudinary.Cloudinary
}

// NewUploader creates an uploader from configuration
func NewUploader(cfg *utils.Config) (*Uploader, error) {
	cloudName := cfg.Get("CLOUDINARY_CLOUD_NAME")
	apiKey := cfg.Get("CLOUDINARY_API_KEY")
	apiSecret := cfg.Get("CLOUDINARY_API_SECRET")

	if cloudName == "" || apiKey == "" || apiSecret == "" {
		return nil, &faults.ConfigurationError{Service: "Cloudinary", Key: "CLOUDINARY_CLOUD_NAME"}
	}

	cld, err := cloudinary.NewFromParams(cloudName, apiKey, apiSecret)
	if err != nil {
		return nil, fmt.Errorf("failed to create cloudinary client: %w", err)
	}

	return &Uploader{cld: cld}, nil
}

// UploadAudio stores the audio bytes and returns the public URL of the
// stored asset. The public id gets a random suffix so repeated uploads
// of the same filename never collide.
func (u *Uploader) UploadAudio(ctx context.Context, data []byte, filename string) (string, error) {
	publicID := fmt.Sprintf("%s_%s", filename, uuid.NewString()[:8])

	result, err := u.cld.Upload.Upload(ctx, bytes.NewReader(data), uploader.UploadParams{
		Folder:       audioFolder,
		PublicID:     publicID,
		ResourceType: "auto",
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload audio: %w", err)
	}
	if result.SecureURL == "" {
		return "", fmt.Errorf("failed to upload audio: %s", result.Error.Message)
	}

	return result.SecureURL, nil
}
