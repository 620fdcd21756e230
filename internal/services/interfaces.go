package services

import (
	"context"
	"mime/multipart"

	"kelurahan/complaints-api/internal/models"
	"kelurahan/complaints-api/internal/pagination"
	"kelurahan/complaints-api/internal/upload"
)

// Actor is the verified identity a request acts as, attached by the auth
// middleware.
type Actor struct {
	ID       uint
	Username string
	Role     string
}

// IsAdmin reports whether the actor holds the admin role.
func (a Actor) IsAdmin() bool { return a.Role == models.RoleAdmin }

// UserServicer defines the contract for identity and session logic.
type UserServicer interface {
	Register(username, email, password, fullName string) (*models.User, error)
	AttemptLogin(username, password string) (*models.User, error)
	GetUserByID(id uint) (*models.User, error)
	CreateSession(user *models.User, token, ipAddress, userAgent string) (*models.Session, error)
	FindLiveSession(token string) (*models.Session, error)
	DeleteSession(token string) error
}

// CreateComplaintInput carries the fields for a new complaint.
type CreateComplaintInput struct {
	Title       string
	Description string
	Category    string
	Location    string
	Priority    models.Priority
}

// ComplaintDetail bundles a complaint with its audit trail and attachments.
type ComplaintDetail struct {
	Complaint   *models.Complaint     `json:"complaint"`
	Logs        []models.ComplaintLog `json:"logs"`
	Attachments []models.Attachment   `json:"attachments"`
}

// StatusCounts holds total and per-status complaint counts.
type StatusCounts struct {
	Total      int64 `json:"total"`
	Pending    int64 `json:"pending"`
	InProgress int64 `json:"in_progress"`
	Resolved   int64 `json:"resolved"`
	Rejected   int64 `json:"rejected"`
}

// AttachmentStore saves and removes attachment binaries. The production
// implementation writes to local disk.
type AttachmentStore interface {
	Save(file *multipart.FileHeader) (*upload.Descriptor, error)
	Remove(filename string) error
}

// ComplaintServicer defines the contract for the complaint lifecycle:
// creation, listing, detail, status transitions, deletion, and stats.
type ComplaintServicer interface {
	Create(ctx context.Context, actor Actor, input CreateComplaintInput, files []*multipart.FileHeader) (*models.Complaint, error)
	List(ctx context.Context, actor Actor, page pagination.PageRequest, statusFilter *models.Status) ([]models.Complaint, int64, error)
	GetDetail(ctx context.Context, actor Actor, id string) (*ComplaintDetail, error)
	ChangeStatus(ctx context.Context, actor Actor, id string, newStatus models.Status, comment string) (*models.Complaint, error)
	Delete(ctx context.Context, actor Actor, id string) error
	Stats(ctx context.Context) (*StatusCounts, error)
}
