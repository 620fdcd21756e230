package testutil

import (
	"mime/multipart"
	"path/filepath"
	"strings"
	"sync"

	"kelurahan/complaints-api/internal/upload"
	"kelurahan/complaints-api/internal/uuid"
)

// MemoryAttachmentStore implements the attachment store without touching
// disk. It applies the same filter as the disk store and records what was
// saved and removed for assertions.
type MemoryAttachmentStore struct {
	mu      sync.Mutex
	Saved   []upload.Descriptor
	Removed []string
}

// Save validates the file and records a descriptor without writing bytes.
func (s *MemoryAttachmentStore) Save(file *multipart.FileHeader) (*upload.Descriptor, error) {
	if err := upload.Validate(file); err != nil {
		return nil, err
	}

	stored := uuid.New() + strings.ToLower(filepath.Ext(file.Filename))
	desc := upload.Descriptor{
		Filename:     stored,
		OriginalName: file.Filename,
		MimeType:     file.Header.Get("Content-Type"),
		Size:         file.Size,
		Path:         filepath.Join("memory", stored),
	}

	s.mu.Lock()
	s.Saved = append(s.Saved, desc)
	s.mu.Unlock()
	return &desc, nil
}

// Remove records the removal.
func (s *MemoryAttachmentStore) Remove(filename string) error {
	s.mu.Lock()
	s.Removed = append(s.Removed, filename)
	s.mu.Unlock()
	return nil
}
