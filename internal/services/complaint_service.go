package services

import (
	"context"
	"mime/multipart"
	"strings"
	"time"

	apperrors "kelurahan/complaints-api/internal/errors"
	"kelurahan/complaints-api/internal/logger"
	"kelurahan/complaints-api/internal/models"
	"kelurahan/complaints-api/internal/pagination"
	"kelurahan/complaints-api/internal/repository"
	"kelurahan/complaints-api/internal/upload"
)

// TransitionPolicy decides whether a status transition is permitted.
// Both statuses are already validated when the policy runs.
type TransitionPolicy func(from, to models.Status) bool

// AllowAllTransitions permits any transition between the four statuses:
// triage is a flat relabeling, not a strict state machine.
func AllowAllTransitions(models.Status, models.Status) bool { return true }

// complaintService orchestrates the complaint lifecycle over the complaint
// repository, the audit log, and the attachment store. The two stores are
// not covered by a shared transaction; writes are sequenced so partial
// failure leaves satellites orphanless: the complaint is durable before
// its log and attachments exist, and satellites are deleted before the
// complaint is.
type complaintService struct {
	complaints  repository.ComplaintRepository
	logs        repository.LogRepository
	attachments repository.AttachmentRepository
	store       AttachmentStore
	policy      TransitionPolicy
}

// NewComplaintService creates a new ComplaintServicer. A nil policy
// defaults to AllowAllTransitions.
func NewComplaintService(
	complaints repository.ComplaintRepository,
	logs repository.LogRepository,
	attachments repository.AttachmentRepository,
	store AttachmentStore,
	policy TransitionPolicy,
) ComplaintServicer {
	if policy == nil {
		policy = AllowAllTransitions
	}
	return &complaintService{
		complaints:  complaints,
		logs:        logs,
		attachments: attachments,
		store:       store,
		policy:      policy,
	}
}

// Create validates the input and the whole file batch, persists the
// complaint with status pending, appends the created log entry, then
// stores each attachment. The file filter runs before anything is
// written, so a rejected batch never leaves partial state.
func (s *complaintService) Create(ctx context.Context, actor Actor, input CreateComplaintInput, files []*multipart.FileHeader) (*models.Complaint, error) {
	if strings.TrimSpace(input.Title) == "" ||
		strings.TrimSpace(input.Description) == "" ||
		strings.TrimSpace(input.Category) == "" {
		return nil, apperrors.ErrMissingFields
	}

	priority := input.Priority
	if priority == "" {
		priority = models.PriorityMedium
	}
	if !priority.Valid() {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "Invalid priority")
	}

	if err := upload.ValidateAll(files); err != nil {
		return nil, err
	}

	complaint := &models.Complaint{
		UserID:      actor.ID,
		Title:       input.Title,
		Description: input.Description,
		Category:    input.Category,
		Location:    input.Location,
		Status:      models.StatusPending,
		Priority:    priority,
	}
	if err := s.complaints.Create(ctx, complaint); err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	if err := s.appendLog(ctx, &models.ComplaintLog{
		ComplaintID: complaint.ID,
		UserID:      actor.ID,
		Action:      models.ActionCreated,
		NewStatus:   models.StatusPending,
	}); err != nil {
		return nil, err
	}

	for _, file := range files {
		desc, err := s.store.Save(file)
		if err != nil {
			return nil, err
		}
		attachment := &models.Attachment{
			ComplaintID:  complaint.ID,
			Filename:     desc.Filename,
			OriginalName: desc.OriginalName,
			MimeType:     desc.MimeType,
			Size:         desc.Size,
			Path:         desc.Path,
			UploadedBy:   actor.ID,
		}
		if err := s.attachments.Create(ctx, attachment); err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
	}

	return complaint, nil
}

// List returns the page of complaints visible to the actor, newest first.
// Admins see every complaint and may narrow by status; other users see
// only their own complaints, and the status filter is ignored for them.
func (s *complaintService) List(ctx context.Context, actor Actor, page pagination.PageRequest, statusFilter *models.Status) ([]models.Complaint, int64, error) {
	page.Clamp()

	var filter repository.ComplaintFilter
	if actor.IsAdmin() {
		filter.Status = statusFilter
	} else {
		userID := actor.ID
		filter.UserID = &userID
	}

	total, err := s.complaints.Count(ctx, filter)
	if err != nil {
		return nil, 0, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	items, err := s.complaints.Find(ctx, filter, page.Offset(), page.Limit)
	if err != nil {
		return nil, 0, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	return items, total, nil
}

// GetDetail returns a complaint with its logs (newest first) and
// attachments. Not-found is checked before authorization so a missing
// complaint is 404 for everyone, while an existing complaint the actor
// does not own is 403.
func (s *complaintService) GetDetail(ctx context.Context, actor Actor, id string) (*ComplaintDetail, error) {
	complaint, err := s.findAuthorized(ctx, actor, id)
	if err != nil {
		return nil, err
	}

	logs, err := s.logs.FindByComplaint(ctx, id)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	attachments, err := s.attachments.FindByComplaint(ctx, id)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	return &ComplaintDetail{Complaint: complaint, Logs: logs, Attachments: attachments}, nil
}

// ChangeStatus relabels a complaint. Admin only. The old status is
// captured before the mutation; the mutation is persisted before the
// status_changed log entry is appended. Concurrent changes to the same
// complaint interleave with last-writer-wins semantics.
func (s *complaintService) ChangeStatus(ctx context.Context, actor Actor, id string, newStatus models.Status, comment string) (*models.Complaint, error) {
	if !actor.IsAdmin() {
		return nil, apperrors.ErrAdminRequired
	}
	if !newStatus.Valid() {
		return nil, apperrors.ErrInvalidStatus
	}

	complaint, err := s.complaints.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	oldStatus := complaint.Status
	if !s.policy(oldStatus, newStatus) {
		return nil, apperrors.ErrTransitionBlocked
	}

	now := time.Now().UTC()
	if err := s.complaints.UpdateStatus(ctx, id, newStatus, now); err != nil {
		return nil, err
	}
	complaint.Status = newStatus
	complaint.UpdatedAt = now

	if err := s.appendLog(ctx, &models.ComplaintLog{
		ComplaintID: id,
		UserID:      actor.ID,
		Action:      models.ActionStatusChanged,
		OldStatus:   oldStatus,
		NewStatus:   newStatus,
		Comment:     comment,
	}); err != nil {
		return nil, err
	}

	return complaint, nil
}

// Delete removes a complaint with its logs, attachment rows, and stored
// files. Admin or owner only. Satellites go first so a crash mid-delete
// never leaves a log or attachment pointing at a missing complaint.
func (s *complaintService) Delete(ctx context.Context, actor Actor, id string) error {
	if _, err := s.findAuthorized(ctx, actor, id); err != nil {
		return err
	}

	attachments, err := s.attachments.FindByComplaint(ctx, id)
	if err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	if err := s.logs.DeleteByComplaint(ctx, id); err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if err := s.attachments.DeleteByComplaint(ctx, id); err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	// Stored files are removed best-effort once their rows are gone.
	for _, attachment := range attachments {
		if err := s.store.Remove(attachment.Filename); err != nil {
			logger.Get().Warnw("failed to remove attachment file",
				"complaint_id", id,
				"filename", attachment.Filename,
				"error", err,
			)
		}
	}

	if err := s.complaints.Delete(ctx, id); err != nil {
		return err
	}
	return nil
}

// Stats returns total and per-status counts from a single aggregation.
func (s *complaintService) Stats(ctx context.Context) (*StatusCounts, error) {
	counts, err := s.complaints.CountByStatus(ctx)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	stats := &StatusCounts{
		Pending:    counts[models.StatusPending],
		InProgress: counts[models.StatusInProgress],
		Resolved:   counts[models.StatusResolved],
		Rejected:   counts[models.StatusRejected],
	}
	stats.Total = stats.Pending + stats.InProgress + stats.Resolved + stats.Rejected
	return stats, nil
}

// findAuthorized loads a complaint and checks the actor is admin or owner.
func (s *complaintService) findAuthorized(ctx context.Context, actor Actor, id string) (*models.Complaint, error) {
	complaint, err := s.complaints.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !actor.IsAdmin() && complaint.UserID != actor.ID {
		return nil, apperrors.ErrForbidden
	}
	return complaint, nil
}

// appendLog writes an audit entry for an already-durable mutation. The
// mutation is never rolled back on log failure; the failure is logged and
// surfaced to the caller.
func (s *complaintService) appendLog(ctx context.Context, entry *models.ComplaintLog) error {
	if err := s.logs.Append(ctx, entry); err != nil {
		logger.Get().Errorw("failed to append complaint log",
			"complaint_id", entry.ComplaintID,
			"action", entry.Action,
			"error", err,
		)
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}
