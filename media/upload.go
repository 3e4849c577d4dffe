package media

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
	"github.com/google/uuid"
)

var ErrDisabled = errors.New("media: uploads are not configured")

// Uploader stores an image and returns its public URL.
type Uploader interface {
	Upload(ctx context.Context, file io.Reader, owner string) (string, error)
}

type CloudinaryUploader struct {
	cld    *cloudinary.Cloudinary
	folder string
}

func NewCloudinary(url, folder string) (*CloudinaryUploader, error) {
	cld, err := cloudinary.NewFromURL(url)
	if err != nil {
		return nil, fmt.Errorf("cloudinary config: %w", err)
	}
	if folder == "" {
		folder = "blogview/posts"
	}
	return &CloudinaryUploader{cld: cld, folder: folder}, nil
}

func (u *CloudinaryUploader) Upload(ctx context.Context, file io.Reader, owner string) (string, error) {
	params := uploader.UploadParams{
		Folder:         u.folder,
		PublicID:       owner + "_" + time.Now().Format("20060102150405") + "_" + uuid.NewString()[:8],
		Transformation: "c_limit,w_1200,h_800,q_auto",
	}
	res, err := u.cld.Upload.Upload(ctx, file, params)
	if err != nil {
		return "", fmt.Errorf("cloudinary upload: %w", err)
	}
	if res.Error.Message != "" {
		return "", fmt.Errorf("cloudinary upload: %s", res.Error.Message)
	}
	return res.SecureURL, nil
}

// Disabled is used when no upload backend is configured.
type Disabled struct{}

func (Disabled) Upload(ctx context.Context, file io.Reader, owner string) (string, error) {
	return "", ErrDisabled
}
