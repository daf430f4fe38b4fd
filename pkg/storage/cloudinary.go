package storage

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
)

// ImageStorage is the contract for the external image host. The rest of the
// system only ever stores the returned URL and public id as opaque strings.
type ImageStorage interface {
	// UploadImage stores the image read from r and returns its secure URL and
	// public id. folder is a logical folder at the provider (e.g. "portfolios").
	UploadImage(ctx context.Context, r io.Reader, folder, fileName string) (url, publicID string, err error)
	// DeleteImage removes the image with the given public id. Deleting an id
	// that no longer exists is not an error.
	DeleteImage(ctx context.Context, publicID string) error
}

type cloudinaryStorage struct {
	cld *cloudinary.Cloudinary
}

// NewCloudinaryStorage creates a Cloudinary-backed ImageStorage. Configuration
// comes from CLOUDINARY_URL (see the Cloudinary Go SDK docs).
func NewCloudinaryStorage() (ImageStorage, error) {
	cld, err := cloudinary.New()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize cloudinary client: %w", err)
	}
	cld.Config.URL.Secure = true
	return &cloudinaryStorage{cld: cld}, nil
}

func (s *cloudinaryStorage) UploadImage(ctx context.Context, r io.Reader, folder, fileName string) (string, string, error) {
	params := uploader.UploadParams{
		Folder:         folder,
		PublicID:       fmt.Sprintf("%d-%s", time.Now().UnixNano(), fileName),
		UseFilename:    api.Bool(true),
		UniqueFilename: api.Bool(true),
		Overwrite:      api.Bool(false),
	}
	resp, err := s.cld.Upload.Upload(ctx, r, params)
	if err != nil {
		return "", "", fmt.Errorf("failed to upload image: %w", err)
	}
	if resp.SecureURL == "" {
		return "", "", fmt.Errorf("upload succeeded but secure URL is empty")
	}
	return resp.SecureURL, resp.PublicID, nil
}

func (s *cloudinaryStorage) DeleteImage(ctx context.Context, publicID string) error {
	resp, err := s.cld.Upload.Destroy(ctx, uploader.DestroyParams{
		PublicID:   publicID,
		Invalidate: api.Bool(true),
	})
	if err != nil {
		return fmt.Errorf("failed to delete image %s: %w", publicID, err)
	}
	if resp.Result != "ok" && resp.Result != "not found" {
		return fmt.Errorf("destroy of %s returned result %q", publicID, resp.Result)
	}
	return nil
}
