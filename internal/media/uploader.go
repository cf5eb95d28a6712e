package media

import (
	"context"
	"fmt"
	"mime/multipart"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"

	"github.com/careops/careops-server/internal/config"
)

// Uploader pushes workspace logos to Cloudinary. A missing
// CLOUDINARY_URL disables uploads instead of failing boot.
type Uploader struct {
	cld *cloudinary.Cloudinary
}

func New(cfg *config.Config) (*Uploader, error) {
	if cfg.CloudinaryURL == "" {
		return &Uploader{}, nil
	}

	cld, err := cloudinary.NewFromURL(cfg.CloudinaryURL)
	if err != nil {
		return nil, fmt.Errorf("cloudinary init: %w", err)
	}
	return &Uploader{cld: cld}, nil
}

func (u *Uploader) Enabled() bool {
	return u.cld != nil
}

// UploadLogo stores the file under a per-workspace public ID and
// returns the delivery URL.
func (u *Uploader) UploadLogo(ctx context.Context, workspaceID uint, file *multipart.FileHeader) (string, error) {
	if u.cld == nil {
		return "", fmt.Errorf("media uploads not configured")
	}

	src, err := file.Open()
	if err != nil {
		return "", err
	}
	defer src.Close()

	overwrite := true
	resp, err := u.cld.Upload.Upload(ctx, src, uploader.UploadParams{
		PublicID:  fmt.Sprintf("careops/workspaces/%d/logo", workspaceID),
		Overwrite: &overwrite,
		Folder:    "careops",
	})
	if err != nil {
		return "", err
	}

	return resp.SecureURL, nil
}
