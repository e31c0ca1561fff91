package utils

import (
	"crypto/rand"
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"
)

var (
	ErrNoFileUploaded = errors.New("no file uploaded")
	ErrFileTooLarge   = errors.New("file size exceeds limit")
	ErrNotAnImage     = errors.New("uploaded file is not an image")
)

type IUtils interface {
	NewULIDFromTimestamp(t time.Time) (string, error)
	ValidateImageFile(file *multipart.FileHeader) error
	ValidateImageBytes(data []byte) error
	WebcamFilename(t time.Time) string
}

type utils struct {
	maxFileSize int64
}

func New() IUtils {
	return &utils{
		maxFileSize: 5 * 1024 * 1024,
	}
}

func (u *utils) NewULIDFromTimestamp(t time.Time) (string, error) {
	ms := ulid.Timestamp(t)
	entropy := ulid.Monotonic(rand.Reader, 0)

	id, err := ulid.New(ms, entropy)
	if err != nil {
		return "", err
	}

	return id.String(), nil
}

func (u *utils) ValidateImageFile(file *multipart.FileHeader) error {
	if file == nil {
		return ErrNoFileUploaded
	}

	if file.Size > u.maxFileSize {
		return ErrFileTooLarge
	}

	contentType := file.Header.Get("Content-Type")
	if !strings.HasPrefix(contentType, "image/") {
		return ErrNotAnImage
	}

	return nil
}

// ValidateImageBytes applies the same size and content checks as
// ValidateImageFile to an already-decoded payload, sniffing the content
// type from the bytes since base64 bodies carry no header.
func (u *utils) ValidateImageBytes(data []byte) error {
	if len(data) == 0 {
		return ErrNoFileUploaded
	}

	if int64(len(data)) > u.maxFileSize {
		return ErrFileTooLarge
	}

	if !strings.HasPrefix(http.DetectContentType(data), "image/") {
		return ErrNotAnImage
	}

	return nil
}

// WebcamFilename names snapshots that arrive without one.
func (u *utils) WebcamFilename(t time.Time) string {
	return fmt.Sprintf("webcam_%s.jpg", t.Format("20060102_150405"))
}
