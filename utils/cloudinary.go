package utils

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"os"
	"path"
	"strings"
	"time"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"

	"github.com/mbevents/dashboard-go/models"
)

// Cloudinary stores event banners. Uploads land in the "events" folder and
// are addressed afterwards only by their secure URL.
type Cloudinary struct {
	client *cloudinary.Cloudinary
	folder string
}

// NewCloudinary builds the handle from CLOUDINARY_CLOUD_NAME,
// CLOUDINARY_API_KEY and CLOUDINARY_API_SECRET.
func NewCloudinary() (*Cloudinary, error) {
	cld, err := cloudinary.NewFromParams(
		os.Getenv("CLOUDINARY_CLOUD_NAME"),
		os.Getenv("CLOUDINARY_API_KEY"),
		os.Getenv("CLOUDINARY_API_SECRET"),
	)
	if err != nil {
		return nil, fmt.Errorf("cloudinary config error: %v", err)
	}
	return &Cloudinary{client: cld, folder: "events"}, nil
}

// Upload stores a banner and returns its public URL.
func (c *Cloudinary) Upload(ctx context.Context, name string, data io.Reader) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, 60*time.Second)
	defer cancel()

	resp, err := c.client.Upload.Upload(ctx, data, uploader.UploadParams{
		Folder: c.folder,
	})
	if err != nil {
		return "", models.NewPersistenceError(models.KindUploadFailed, "upload "+name, err)
	}
	return resp.SecureURL, nil
}

// Delete removes a previously uploaded banner by its public URL.
func (c *Cloudinary) Delete(ctx context.Context, imageURL string) error {
	publicID, err := extractPublicID(imageURL)
	if err != nil {
		return models.NewPersistenceError(models.KindUnknown, "delete banner", err)
	}

	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	if _, err := c.client.Upload.Destroy(ctx, uploader.DestroyParams{PublicID: publicID}); err != nil {
		return models.NewPersistenceError(models.KindUnknown, "delete banner", err)
	}
	return nil
}

// extractPublicID recovers the Cloudinary public ID from a secure URL like
// https://res.cloudinary.com/demo/image/upload/v1234567890/events/abc123.jpg
func extractPublicID(imageURL string) (string, error) {
	parsedURL, err := url.Parse(imageURL)
	if err != nil {
		return "", err
	}

	parts := strings.Split(parsedURL.Path, "/")
	if len(parts) < 3 {
		return "", fmt.Errorf("invalid cloudinary URL format")
	}

	// Drop the version segment (e.g. v1234567890).
	cleanPath := parts[len(parts)-2:]
	if strings.HasPrefix(cleanPath[0], "v") {
		parts = append(parts[:len(parts)-2], parts[len(parts)-1])
	}

	publicID := strings.TrimSuffix(path.Join(parts[3:]...), path.Ext(parts[len(parts)-1]))
	return publicID, nil
}
