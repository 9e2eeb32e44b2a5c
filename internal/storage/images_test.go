package storage

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeObject struct {
	body        []byte
	contentType string
	modified    time.Time
}

// fakeS3 is an in-memory ObjectStore.
type fakeS3 struct {
	mu      sync.Mutex
	objects map[string]fakeObject
}

func newFakeS3() *fakeS3 { return &fakeS3{objects: map[string]fakeObject{}} }

func (f *fakeS3) PutObject(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	data, err := io.ReadAll(in.Body)
	if err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.objects[aws.ToString(in.Key)] = fakeObject{body: data, contentType: aws.ToString(in.ContentType), modified: time.Now()}
	return &s3.PutObjectOutput{}, nil
}

func (f *fakeS3) ListObjectsV2(_ context.Context, in *s3.ListObjectsV2Input, _ ...func(*s3.Options)) (*s3.ListObjectsV2Output, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := &s3.ListObjectsV2Output{IsTruncated: aws.Bool(false)}
	for key, obj := range f.objects {
		if !strings.HasPrefix(key, aws.ToString(in.Prefix)) {
			continue
		}
		out.Contents = append(out.Contents, types.Object{
			Key:          aws.String(key),
			Size:         aws.Int64(int64(len(obj.body))),
			LastModified: aws.Time(obj.modified),
		})
	}
	return out, nil
}

func pngBytes(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 4, 3))
	img.Set(1, 1, color.RGBA{R: 255, A: 255})
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestImageUpload(t *testing.T) {
	client := newFakeS3()
	store := NewImageStore(client, "newsletter-images", "us-east-1", "")

	img, err := store.Upload(context.Background(), "../logo.png", bytes.NewReader(pngBytes(t)))
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(img.Key, "images/"))
	assert.True(t, strings.HasSuffix(img.Key, ".png"))
	assert.Equal(t, "https://newsletter-images.s3.us-east-1.amazonaws.com/"+img.Key, img.URL)
	assert.Equal(t, 4, img.Width)
	assert.Equal(t, 3, img.Height)

	stored, ok := client.objects[img.Key]
	require.True(t, ok)
	assert.Equal(t, "image/png", stored.contentType)
}

func TestImageUploadPublicBaseURL(t *testing.T) {
	store := NewImageStore(newFakeS3(), "bucket", "us-east-1", "https://cdn.example.com/")

	img, err := store.Upload(context.Background(), "logo.png", bytes.NewReader(pngBytes(t)))
	require.NoError(t, err)
	assert.Equal(t, "https://cdn.example.com/"+img.Key, img.URL)
}

func TestImageUploadRejectsNonImages(t *testing.T) {
	store := NewImageStore(newFakeS3(), "bucket", "us-east-1", "")

	_, err := store.Upload(context.Background(), "notes.txt", strings.NewReader("hello world"))
	assert.ErrorIs(t, err, ErrNotImage)

	// PNG magic bytes with a corrupt header
	_, err = store.Upload(context.Background(), "bad.png", bytes.NewReader([]byte("\x89PNG\r\n\x1a\nbroken")))
	assert.ErrorIs(t, err, ErrNotImage)
}

func TestImageList(t *testing.T) {
	client := newFakeS3()
	store := NewImageStore(client, "bucket", "us-east-1", "")
	ctx := context.Background()

	now := time.Now()
	client.objects["images/2024/01/old.png"] = fakeObject{body: []byte("a"), modified: now.Add(-48 * time.Hour)}
	client.objects["images/2024/03/new.png"] = fakeObject{body: []byte("bb"), modified: now.Add(-time.Hour)}
	client.objects["other/skip.png"] = fakeObject{body: []byte("c"), modified: now}

	all, err := store.List(ctx, time.Time{})
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "images/2024/03/new.png", all[0].Key)
	assert.Equal(t, int64(2), all[0].Size)

	recent, err := store.List(ctx, now.Add(-24*time.Hour))
	require.NoError(t, err)
	require.Len(t, recent, 1)
	assert.Equal(t, "images/2024/03/new.png", recent[0].Key)
}
