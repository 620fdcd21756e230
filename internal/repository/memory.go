package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	apperrors "kelurahan/complaints-api/internal/errors"
	"kelurahan/complaints-api/internal/models"
	"kelurahan/complaints-api/internal/uuid"
)

// In-memory repository implementations. They back the service and handler
// tests so the complaint lifecycle can be exercised without a running
// MongoDB, and double as a reference for the ordering semantics the Mongo
// implementations must provide.

// MemoryComplaintRepository is an in-memory ComplaintRepository.
type MemoryComplaintRepository struct {
	mu         sync.RWMutex
	complaints map[string]models.Complaint
}

// NewMemoryComplaintRepository creates an empty in-memory complaint repository.
func NewMemoryComplaintRepository() *MemoryComplaintRepository {
	return &MemoryComplaintRepository{complaints: make(map[string]models.Complaint)}
}

func (r *MemoryComplaintRepository) Create(_ context.Context, complaint *models.Complaint) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now().UTC()
	if complaint.ID == "" {
		complaint.ID = uuid.New()
	}
	if complaint.CreatedAt.IsZero() {
		complaint.CreatedAt = now
		complaint.UpdatedAt = now
	}
	r.complaints[complaint.ID] = *complaint
	return nil
}

func (r *MemoryComplaintRepository) FindByID(_ context.Context, id string) (*models.Complaint, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	complaint, ok := r.complaints[id]
	if !ok {
		return nil, apperrors.ErrComplaintNotFound
	}
	return &complaint, nil
}

func (f ComplaintFilter) matches(c models.Complaint) bool {
	if f.UserID != nil && c.UserID != *f.UserID {
		return false
	}
	if f.Status != nil && c.Status != *f.Status {
		return false
	}
	return true
}

// sorted returns matching complaints ordered by created_at descending with
// the time-ordered ID as tiebreaker, mirroring the Mongo sort.
func (r *MemoryComplaintRepository) sorted(filter ComplaintFilter) []models.Complaint {
	matched := []models.Complaint{}
	for _, c := range r.complaints {
		if filter.matches(c) {
			matched = append(matched, c)
		}
	}
	sort.Slice(matched, func(i, j int) bool {
		if !matched[i].CreatedAt.Equal(matched[j].CreatedAt) {
			return matched[i].CreatedAt.After(matched[j].CreatedAt)
		}
		return matched[i].ID > matched[j].ID
	})
	return matched
}

func (r *MemoryComplaintRepository) Find(_ context.Context, filter ComplaintFilter, offset, limit int) ([]models.Complaint, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	matched := r.sorted(filter)
	if offset >= len(matched) {
		return []models.Complaint{}, nil
	}
	end := offset + limit
	if end > len(matched) {
		end = len(matched)
	}
	return matched[offset:end], nil
}

func (r *MemoryComplaintRepository) Count(_ context.Context, filter ComplaintFilter) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var count int64
	for _, c := range r.complaints {
		if filter.matches(c) {
			count++
		}
	}
	return count, nil
}

func (r *MemoryComplaintRepository) UpdateStatus(_ context.Context, id string, status models.Status, updatedAt time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	complaint, ok := r.complaints[id]
	if !ok {
		return apperrors.ErrComplaintNotFound
	}
	complaint.Status = status
	complaint.UpdatedAt = updatedAt
	r.complaints[id] = complaint
	return nil
}

func (r *MemoryComplaintRepository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.complaints[id]; !ok {
		return apperrors.ErrComplaintNotFound
	}
	delete(r.complaints, id)
	return nil
}

func (r *MemoryComplaintRepository) CountByStatus(_ context.Context) (map[models.Status]int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	counts := make(map[models.Status]int64, len(models.Statuses))
	for _, c := range r.complaints {
		counts[c.Status]++
	}
	return counts, nil
}

// MemoryLogRepository is an in-memory LogRepository.
type MemoryLogRepository struct {
	mu   sync.RWMutex
	logs []models.ComplaintLog
}

// NewMemoryLogRepository creates an empty in-memory log repository.
func NewMemoryLogRepository() *MemoryLogRepository {
	return &MemoryLogRepository{}
}

func (r *MemoryLogRepository) Append(_ context.Context, entry *models.ComplaintLog) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if entry.ID == "" {
		entry.ID = uuid.New()
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}
	r.logs = append(r.logs, *entry)
	return nil
}

func (r *MemoryLogRepository) FindByComplaint(_ context.Context, complaintID string) ([]models.ComplaintLog, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	matched := []models.ComplaintLog{}
	for _, entry := range r.logs {
		if entry.ComplaintID == complaintID {
			matched = append(matched, entry)
		}
	}
	sort.Slice(matched, func(i, j int) bool {
		if !matched[i].CreatedAt.Equal(matched[j].CreatedAt) {
			return matched[i].CreatedAt.After(matched[j].CreatedAt)
		}
		return matched[i].ID > matched[j].ID
	})
	return matched, nil
}

func (r *MemoryLogRepository) DeleteByComplaint(_ context.Context, complaintID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	kept := r.logs[:0]
	for _, entry := range r.logs {
		if entry.ComplaintID != complaintID {
			kept = append(kept, entry)
		}
	}
	r.logs = kept
	return nil
}

// MemoryAttachmentRepository is an in-memory AttachmentRepository.
type MemoryAttachmentRepository struct {
	mu          sync.RWMutex
	attachments []models.Attachment
}

// NewMemoryAttachmentRepository creates an empty in-memory attachment repository.
func NewMemoryAttachmentRepository() *MemoryAttachmentRepository {
	return &MemoryAttachmentRepository{}
}

func (r *MemoryAttachmentRepository) Create(_ context.Context, attachment *models.Attachment) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if attachment.ID == "" {
		attachment.ID = uuid.New()
	}
	if attachment.CreatedAt.IsZero() {
		attachment.CreatedAt = time.Now().UTC()
	}
	r.attachments = append(r.attachments, *attachment)
	return nil
}

func (r *MemoryAttachmentRepository) FindByComplaint(_ context.Context, complaintID string) ([]models.Attachment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	matched := []models.Attachment{}
	for _, attachment := range r.attachments {
		if attachment.ComplaintID == complaintID {
			matched = append(matched, attachment)
		}
	}
	return matched, nil
}

func (r *MemoryAttachmentRepository) DeleteByComplaint(_ context.Context, complaintID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	kept := r.attachments[:0]
	for _, attachment := range r.attachments {
		if attachment.ComplaintID != complaintID {
			kept = append(kept, attachment)
		}
	}
	r.attachments = kept
	return nil
}

// Interface compliance checks.
var (
	_ ComplaintRepository  = (*MemoryComplaintRepository)(nil)
	_ LogRepository        = (*MemoryLogRepository)(nil)
	_ AttachmentRepository = (*MemoryAttachmentRepository)(nil)
)
