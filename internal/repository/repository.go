// Package repository defines narrow persistence interfaces for the
// complaint store, one per entity. The production implementations are
// backed by MongoDB; in-memory implementations back the service tests.
// Keeping the interfaces narrow lets either store be swapped for a single
// transactional store without touching the complaint service.
package repository

import (
	"context"
	"time"

	"kelurahan/complaints-api/internal/models"
)

// ComplaintFilter narrows complaint queries. Nil fields match everything.
type ComplaintFilter struct {
	UserID *uint
	Status *models.Status
}

// ComplaintRepository persists complaint documents.
type ComplaintRepository interface {
	Create(ctx context.Context, complaint *models.Complaint) error
	FindByID(ctx context.Context, id string) (*models.Complaint, error)
	// Find returns complaints matching the filter ordered by created_at
	// descending, skipping offset items and returning at most limit.
	Find(ctx context.Context, filter ComplaintFilter, offset, limit int) ([]models.Complaint, error)
	Count(ctx context.Context, filter ComplaintFilter) (int64, error)
	UpdateStatus(ctx context.Context, id string, status models.Status, updatedAt time.Time) error
	Delete(ctx context.Context, id string) error
	// CountByStatus returns per-status complaint counts in a single query.
	CountByStatus(ctx context.Context) (map[models.Status]int64, error)
}

// LogRepository persists the append-only complaint audit log.
type LogRepository interface {
	Append(ctx context.Context, entry *models.ComplaintLog) error
	// FindByComplaint returns log entries ordered by created_at descending.
	FindByComplaint(ctx context.Context, complaintID string) ([]models.ComplaintLog, error)
	DeleteByComplaint(ctx context.Context, complaintID string) error
}

// AttachmentRepository persists attachment metadata rows.
type AttachmentRepository interface {
	Create(ctx context.Context, attachment *models.Attachment) error
	FindByComplaint(ctx context.Context, complaintID string) ([]models.Attachment, error)
	DeleteByComplaint(ctx context.Context, complaintID string) error
}
