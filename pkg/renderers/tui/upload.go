package tui

import (
	"fmt"
	"mime"
	"os"
	"path/filepath"
	"strings"

	"github.com/goliatone/go-formwizard/pkg/form"
)

// MaxUploadBytes is the default size limit for attached documents.
const MaxUploadBytes int64 = 10 << 20

// UploadPolicy limits which files may be attached.
type UploadPolicy struct {
	MaxBytes   int64
	Extensions []string
}

// DefaultUploadPolicy accepts PDF and image scans up to 10MB.
func DefaultUploadPolicy() UploadPolicy {
	return UploadPolicy{
		MaxBytes:   MaxUploadBytes,
		Extensions: []string{".pdf", ".jpg", ".jpeg", ".png"},
	}
}

// Check reports whether a may be attached.
func (p UploadPolicy) Check(a form.Attachment) error {
	if p.MaxBytes > 0 && a.Size > p.MaxBytes {
		return fmt.Errorf("%w: %s is %d bytes, limit %d", ErrUploadTooLarge, a.Name, a.Size, p.MaxBytes)
	}
	if len(p.Extensions) == 0 {
		return nil
	}
	ext := strings.ToLower(filepath.Ext(a.Name))
	for _, allowed := range p.Extensions {
		if ext == strings.ToLower(allowed) {
			return nil
		}
	}
	return fmt.Errorf("%w: %s", ErrUploadType, a.Name)
}

func statFile(path string) (form.Attachment, error) {
	info, err := os.Stat(path)
	if err != nil {
		return form.Attachment{}, err
	}
	if info.IsDir() {
		return form.Attachment{}, fmt.Errorf("tui: %s is a directory", path)
	}
	return form.Attachment{
		Name:        filepath.Base(path),
		Size:        info.Size(),
		ContentType: mime.TypeByExtension(strings.ToLower(filepath.Ext(path))),
	}, nil
}
