package cloudinary

import (
	"context"
	"fmt"
	"io"

	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
	"github.com/cloudinary/cloudinary-go/v2/config"
)

// Client wraps Cloudinary upload for attendance photos, KYC document images
// and care-report videos. Callers never inspect the bytes.
type Client interface {
	UploadImage(ctx context.Context, file io.Reader, folder, publicID string) (url string, err error)
	UploadVideo(ctx context.Context, file io.Reader, folder, publicID string) (url string, err error)
}

// Eager transformations applied at upload time.
const (
	imageEager = "q_auto,f_auto,w_1200,c_limit"
	videoEager = "q_auto:low,f_auto,w_1280"
)

var eagerAsyncFalse = false

type clientImpl struct {
	cloudName string
	uploader  *uploader.API
}

func (c *clientImpl) UploadImage(ctx context.Context, file io.Reader, folder, publicID string) (string, error) {
	result, err := c.uploader.Upload(ctx, file, uploader.UploadParams{
		Folder:     folder,
		PublicID:   publicID,
		Eager:      imageEager,
		EagerAsync: &eagerAsyncFalse,
	})
	if err != nil {
		return "", err
	}
	return result.SecureURL, nil
}

func (c *clientImpl) UploadVideo(ctx context.Context, file io.Reader, folder, publicID string) (string, error) {
	result, err := c.uploader.Upload(ctx, file, uploader.UploadParams{
		Folder:       folder,
		PublicID:     publicID,
		ResourceType: "video",
		Eager:        videoEager,
		EagerAsync:   &eagerAsyncFalse,
	})
	if err != nil {
		return "", err
	}
	return result.SecureURL, nil
}

// BuildThumbnailURL returns a poster frame URL for an uploaded video.
func BuildThumbnailURL(cloudName, publicID string) string {
	return fmt.Sprintf("https://res.cloudinary.com/%s/video/upload/so_0/%s.jpg", cloudName, publicID)
}

// NewClientFromParams builds a Client from Cloudinary cloud name, API key, and secret.
func NewClientFromParams(cloudName, apiKey, apiSecret string) (Client, error) {
	cfg, err := config.NewFromParams(cloudName, apiKey, apiSecret)
	if err != nil {
		return nil, err
	}
	up, err := uploader.NewWithConfiguration(cfg)
	if err != nil {
		return nil, err
	}
	return &clientImpl{cloudName: cloudName, uploader: up}, nil
}
