package api

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/ignite/newsletter-api/internal/pkg/httputil"
	"github.com/ignite/newsletter-api/internal/pkg/logger"
	"github.com/ignite/newsletter-api/internal/storage"
)

const (
	imageField          = "image"
	msgExpectOneImage   = "expect 1 file upload named image"
	msgImagesDisabled   = "image storage is not configured"
	msgInvalidSince     = "since must be an RFC 3339 time or a duration"
	maxMultipartMemory  = 1 << 20
)

// UploadImage handles POST /images: one multipart file named "image".
func (h *Handlers) UploadImage(w http.ResponseWriter, r *http.Request) {
	if h.images == nil {
		httputil.Error(w, http.StatusServiceUnavailable, msgImagesDisabled)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, storage.MaxImageBytes+maxMultipartMemory)
	if err := r.ParseMultipartForm(maxMultipartMemory); err != nil {
		httputil.Error(w, http.StatusForbidden, msgExpectOneImage)
		return
	}
	defer r.MultipartForm.RemoveAll()

	files := r.MultipartForm.File[imageField]
	if len(files) != 1 || len(r.MultipartForm.File) != 1 {
		httputil.Error(w, http.StatusForbidden, msgExpectOneImage)
		return
	}

	fh := files[0]
	f, err := fh.Open()
	if err != nil {
		httputil.InternalError(w, err)
		return
	}
	defer f.Close()

	img, err := h.images.Upload(r.Context(), fh.Filename, f)
	switch {
	case errors.Is(err, storage.ErrNotImage):
		httputil.Error(w, http.StatusForbidden, err.Error())
		return
	case errors.Is(err, storage.ErrImageTooLarge):
		httputil.Error(w, http.StatusRequestEntityTooLarge, err.Error())
		return
	case err != nil:
		logger.Error("image upload failed", "filename", fh.Filename, "error", err)
		httputil.InternalError(w, err)
		return
	}
	httputil.Created(w, map[string]string{"url": img.URL})
}

// ListImages handles GET /images?since=. since is an RFC 3339 time or a
// duration counted back from now, e.g. "72h".
func (h *Handlers) ListImages(w http.ResponseWriter, r *http.Request) {
	if h.images == nil {
		httputil.Error(w, http.StatusServiceUnavailable, msgImagesDisabled)
		return
	}

	since, err := parseSince(r.URL.Query().Get("since"), time.Now())
	if err != nil {
		httputil.BadRequest(w, msgInvalidSince)
		return
	}
	list, err := h.images.List(r.Context(), since)
	if err != nil {
		httputil.InternalError(w, err)
		return
	}
	httputil.OK(w, list)
}

func parseSince(raw string, now time.Time) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, nil
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return time.Time{}, err
	}
	if d < 0 {
		d = -d
	}
	return now.Add(-d), nil
}
