package directoryhandler

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/google/uuid"
)

const avatarMaxEdge = 512

// ImageStore writes profile images under Dir, re-encoded and bounded to
// avatarMaxEdge so oversized or malformed uploads never land on disk as-is.
type ImageStore struct {
	Dir          string
	MaxBytes     int64
	AllowedTypes []string
}

func NewImageStore(dir string, maxBytes int64, allowedTypes []string) *ImageStore {
	return &ImageStore{Dir: dir, MaxBytes: maxBytes, AllowedTypes: allowedTypes}
}

var (
	errImageTooLarge   = errors.New("image exceeds the upload size limit")
	errImageType       = errors.New("image type is not allowed")
	errImageUnreadable = errors.New("image could not be decoded")
)

// Save validates, resizes and persists the upload, returning the path to
// serve the image from.
func (s *ImageStore) Save(file multipart.File, header *multipart.FileHeader) (string, error) {
	if s.MaxBytes > 0 && header.Size > s.MaxBytes {
		return "", errImageTooLarge
	}
	contentType := strings.ToLower(strings.TrimSpace(header.Header.Get("Content-Type")))
	if !s.typeAllowed(contentType) {
		return "", errImageType
	}

	var reader io.Reader = file
	if s.MaxBytes > 0 {
		reader = io.LimitReader(file, s.MaxBytes)
	}
	img, err := imaging.Decode(reader, imaging.AutoOrientation(true))
	if err != nil {
		return "", errImageUnreadable
	}
	img = imaging.Fit(img, avatarMaxEdge, avatarMaxEdge, imaging.Lanczos)

	if err := os.MkdirAll(s.Dir, 0o755); err != nil {
		return "", fmt.Errorf("prepare upload dir: %w", err)
	}
	name := uuid.NewString() + ".jpg"
	if err := imaging.Save(img, filepath.Join(s.Dir, name), imaging.JPEGQuality(85)); err != nil {
		return "", fmt.Errorf("save image: %w", err)
	}
	return "/uploads/" + name, nil
}

func (s *ImageStore) typeAllowed(contentType string) bool {
	if len(s.AllowedTypes) == 0 {
		return strings.HasPrefix(contentType, "image/")
	}
	for _, allowed := range s.AllowedTypes {
		if contentType == strings.ToLower(strings.TrimSpace(allowed)) {
			return true
		}
	}
	return false
}
