// Package upload stores complaint attachments on local disk and enforces
// the upload filter: at most 5 files per complaint, 5MB per file, and an
// extension/MIME allow-list. Filtering happens before anything is written
// so a rejected batch never leaves partial state behind.
package upload

import (
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	apperrors "kelurahan/complaints-api/internal/errors"
	"kelurahan/complaints-api/internal/uuid"
)

// Upload limits, matching the public API contract.
const (
	MaxFileSize int64 = 5 << 20 // 5MB
	MaxFiles          = 5
)

// allowedTypes are the permitted extensions (without dot). A file passes
// the filter when its extension is on the list and its declared MIME type
// mentions one of the tokens.
var allowedTypes = []string{"jpeg", "jpg", "png", "gif", "pdf", "doc", "docx"}

// Descriptor describes a stored attachment file.
type Descriptor struct {
	Filename     string
	OriginalName string
	MimeType     string
	Size         int64
	Path         string
}

// Validate checks a single file against the size and type filter.
func Validate(file *multipart.FileHeader) error {
	if file.Size > MaxFileSize {
		return apperrors.WithMessage(apperrors.ErrUploadTooLarge,
			fmt.Sprintf("File %q exceeds the 5MB size limit", file.Filename))
	}

	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(file.Filename)), ".")
	mimeType := strings.ToLower(file.Header.Get("Content-Type"))

	extOK := false
	mimeOK := false
	for _, t := range allowedTypes {
		if ext == t {
			extOK = true
		}
		if strings.Contains(mimeType, t) {
			mimeOK = true
		}
	}
	if !extOK || !mimeOK {
		return apperrors.WithMessage(apperrors.ErrUploadRejected,
			fmt.Sprintf("File type not allowed: %q", file.Filename))
	}
	return nil
}

// ValidateAll checks the batch size and every file in it. Any failure
// rejects the whole batch.
func ValidateAll(files []*multipart.FileHeader) error {
	if len(files) > MaxFiles {
		return apperrors.ErrTooManyFiles
	}
	for _, file := range files {
		if err := Validate(file); err != nil {
			return err
		}
	}
	return nil
}

// DiskStore saves attachment files under a local directory. Stored files
// are served statically under the public uploads path.
type DiskStore struct {
	dir string
}

// NewDiskStore creates the upload directory if needed and returns a store.
func NewDiskStore(dir string) (*DiskStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create upload directory %s: %w", dir, err)
	}
	return &DiskStore{dir: dir}, nil
}

// Dir returns the directory files are stored in.
func (s *DiskStore) Dir() string { return s.dir }

// Save validates and writes the file to disk under a generated filename,
// returning its descriptor.
func (s *DiskStore) Save(file *multipart.FileHeader) (*Descriptor, error) {
	if err := Validate(file); err != nil {
		return nil, err
	}

	ext := strings.ToLower(filepath.Ext(file.Filename))
	stored := uuid.New() + ext
	path := filepath.Join(s.dir, stored)

	src, err := file.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open uploaded file: %w", err)
	}
	defer src.Close()

	dst, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer dst.Close()

	size, err := io.Copy(dst, src)
	if err != nil {
		os.Remove(path)
		return nil, fmt.Errorf("failed to write %s: %w", path, err)
	}

	return &Descriptor{
		Filename:     stored,
		OriginalName: file.Filename,
		MimeType:     file.Header.Get("Content-Type"),
		Size:         size,
		Path:         path,
	}, nil
}

// Remove deletes a stored file by its generated filename. Removing a file
// that no longer exists is not an error.
func (s *DiskStore) Remove(filename string) error {
	err := os.Remove(filepath.Join(s.dir, filepath.Base(filename)))
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}
