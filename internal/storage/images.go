package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	_ "image/gif"  // GIF decode support
	_ "image/jpeg" // JPEG decode support
	_ "image/png"  // PNG decode support
	"io"
	"path"
	"sort"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
	_ "golang.org/x/image/webp" // WebP decode support

	"github.com/ignite/newsletter-api/internal/pkg/logger"
)

// MaxImageBytes caps a single upload.
const MaxImageBytes = 10 * 1024 * 1024

const imagePrefix = "images/"

// Upload rejections.
var (
	ErrNotImage      = errors.New("expect image file")
	ErrImageTooLarge = fmt.Errorf("image exceeds %d MB", MaxImageBytes/1024/1024)
)

var supportedImageTypes = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/gif":  ".gif",
	"image/webp": ".webp",
}

// ObjectStore is the subset of the S3 client used for images.
type ObjectStore interface {
	PutObject(ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	ListObjectsV2(ctx context.Context, in *s3.ListObjectsV2Input, optFns ...func(*s3.Options)) (*s3.ListObjectsV2Output, error)
}

// Image is a stored image object.
type Image struct {
	Key          string    `json:"key"`
	URL          string    `json:"url"`
	Size         int64     `json:"size"`
	ContentType  string    `json:"contentType,omitempty"`
	Width        int       `json:"width,omitempty"`
	Height       int       `json:"height,omitempty"`
	LastModified time.Time `json:"lastModified"`
}

// ImageStore uploads newsletter images to S3 and lists them.
type ImageStore struct {
	client        ObjectStore
	bucket        string
	region        string
	publicBaseURL string
	now           func() time.Time
}

// NewImageStore creates an image store. publicBaseURL, when set, replaces the
// bucket's S3 URL in returned links (e.g. a CDN domain).
func NewImageStore(client ObjectStore, bucket, region, publicBaseURL string) *ImageStore {
	return &ImageStore{
		client:        client,
		bucket:        bucket,
		region:        region,
		publicBaseURL: strings.TrimRight(publicBaseURL, "/"),
		now:           time.Now,
	}
}

// Upload validates that r holds a supported image and stores it under a
// fresh key. Returns ErrNotImage or ErrImageTooLarge for bad input.
func (s *ImageStore) Upload(ctx context.Context, filename string, r io.Reader) (*Image, error) {
	data, err := io.ReadAll(io.LimitReader(r, MaxImageBytes+1))
	if err != nil {
		return nil, fmt.Errorf("reading file: %w", err)
	}
	if len(data) > MaxImageBytes {
		return nil, ErrImageTooLarge
	}

	contentType := detectContentType(data)
	ext, ok := supportedImageTypes[contentType]
	if !ok {
		return nil, ErrNotImage
	}
	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, ErrNotImage
	}

	now := s.now().UTC()
	key := fmt.Sprintf("%s%s/%s%s", imagePrefix, now.Format("2006/01"), uuid.New().String(), ext)

	_, err = s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:       aws.String(s.bucket),
		Key:          aws.String(key),
		Body:         bytes.NewReader(data),
		ContentType:  aws.String(contentType),
		CacheControl: aws.String("public, max-age=31536000"), // 1 year cache
		Metadata:     map[string]string{"original-filename": sanitizeFilename(filename)},
	})
	if err != nil {
		return nil, fmt.Errorf("uploading to S3: %w", err)
	}

	logger.Info("image uploaded", "key", key, "size", len(data))
	return &Image{
		Key:          key,
		URL:          s.publicURL(key),
		Size:         int64(len(data)),
		ContentType:  contentType,
		Width:        cfg.Width,
		Height:       cfg.Height,
		LastModified: now,
	}, nil
}

// List returns stored images modified at or after since, newest first. A
// zero since lists everything.
func (s *ImageStore) List(ctx context.Context, since time.Time) ([]Image, error) {
	paginator := s3.NewListObjectsV2Paginator(s.client, &s3.ListObjectsV2Input{
		Bucket: aws.String(s.bucket),
		Prefix: aws.String(imagePrefix),
	})

	out := []Image{}
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("listing images: %w", err)
		}
		for _, obj := range page.Contents {
			modified := aws.ToTime(obj.LastModified)
			if !since.IsZero() && modified.Before(since) {
				continue
			}
			key := aws.ToString(obj.Key)
			out = append(out, Image{
				Key:          key,
				URL:          s.publicURL(key),
				Size:         aws.ToInt64(obj.Size),
				LastModified: modified,
			})
		}
	}

	sort.Slice(out, func(i, j int) bool { return out[i].LastModified.After(out[j].LastModified) })
	return out, nil
}

func (s *ImageStore) publicURL(key string) string {
	if s.publicBaseURL != "" {
		return s.publicBaseURL + "/" + key
	}
	// Fallback to direct S3 URL
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", s.bucket, s.region, key)
}

func detectContentType(data []byte) string {
	// Check magic bytes
	if len(data) >= 2 && data[0] == 0xFF && data[1] == 0xD8 {
		return "image/jpeg"
	}
	if len(data) >= 8 && data[0] == 0x89 && data[1] == 'P' && data[2] == 'N' && data[3] == 'G' {
		return "image/png"
	}
	if len(data) >= 6 && data[0] == 'G' && data[1] == 'I' && data[2] == 'F' {
		return "image/gif"
	}
	if len(data) >= 12 && string(data[0:4]) == "RIFF" && string(data[8:12]) == "WEBP" {
		return "image/webp"
	}
	return "application/octet-stream"
}

func sanitizeFilename(filename string) string {
	// Remove path components
	filename = path.Base(strings.ReplaceAll(filename, "\\", "/"))
	filename = strings.ReplaceAll(filename, "..", "")
	// Limit length
	if len(filename) > 200 {
		ext := path.Ext(filename)
		filename = filename[:200-len(ext)] + ext
	}
	return filename
}
