package handlers

import (
	"mime/multipart"
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "kelurahan/complaints-api/internal/errors"
	"kelurahan/complaints-api/internal/models"
	"kelurahan/complaints-api/internal/pagination"
	"kelurahan/complaints-api/internal/services"
)

// attachmentsField is the multipart field carrying complaint attachments.
const attachmentsField = "attachments"

// ComplaintHandler handles complaint lifecycle requests.
type ComplaintHandler struct {
	complaintService services.ComplaintServicer
}

// NewComplaintHandler creates a new ComplaintHandler.
func NewComplaintHandler(complaintService services.ComplaintServicer) *ComplaintHandler {
	return &ComplaintHandler{complaintService: complaintService}
}

// CreateComplaintRequest represents the multipart form fields for a new complaint.
type CreateComplaintRequest struct {
	Title       string `form:"title"`
	Description string `form:"description"`
	Category    string `form:"category"`
	Location    string `form:"location"`
	Priority    string `form:"priority" binding:"omitempty,complaint_priority"`
}

// ListComplaintsRequest represents the list query parameters.
type ListComplaintsRequest struct {
	pagination.PageRequest
	Status string `form:"status" binding:"omitempty,complaint_status"`
}

// ChangeStatusRequest represents the status change payload.
type ChangeStatusRequest struct {
	Status  string `json:"status" binding:"required"`
	Comment string `json:"comment"`
}

// Create handles complaint submission with up to 5 attachments
// @Summary     Submit a complaint
// @Tags        complaints
// @Accept      multipart/form-data
// @Produce     json
// @Security    BearerAuth
// @Param       title formData string true "Title"
// @Param       description formData string true "Description"
// @Param       category formData string true "Category"
// @Param       location formData string false "Free-text location"
// @Param       priority formData string false "low, medium, or high"
// @Param       attachments formData file false "Up to 5 files, 5MB each"
// @Success     201 {object} map[string]interface{} "Created complaint"
// @Failure     400 {object} map[string]interface{} "Invalid input or rejected upload"
// @Router      /api/complaints [post]
func (h *ComplaintHandler) Create(c *gin.Context) {
	actor, err := getActor(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req CreateComplaintRequest
	if err := c.ShouldBind(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	var files []*multipart.FileHeader
	if form, err := c.MultipartForm(); err == nil && form != nil {
		files = form.File[attachmentsField]
	}

	complaint, err := h.complaintService.Create(c.Request.Context(), actor, services.CreateComplaintInput{
		Title:       req.Title,
		Description: req.Description,
		Category:    req.Category,
		Location:    req.Location,
		Priority:    models.Priority(req.Priority),
	}, files)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message":   "Complaint created successfully",
		"complaint": complaint,
	})
}

// List returns the page of complaints visible to the requester
// @Summary     List complaints
// @Tags        complaints
// @Produce     json
// @Security    BearerAuth
// @Param       page query int false "Page number (default 1)"
// @Param       limit query int false "Page size (default 10)"
// @Param       status query string false "Status filter (admins only)"
// @Success     200 {object} map[string]interface{} "Complaints with pagination"
// @Router      /api/complaints [get]
func (h *ComplaintHandler) List(c *gin.Context) {
	actor, err := getActor(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req ListComplaintsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		respondWithError(c, apperrors.ErrInvalidStatus)
		return
	}
	req.Clamp()

	var statusFilter *models.Status
	if req.Status != "" {
		status := models.Status(req.Status)
		statusFilter = &status
	}

	items, total, err := h.complaintService.List(c.Request.Context(), actor, req.PageRequest, statusFilter)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"complaints": items,
		"pagination": pagination.NewMeta(req.PageRequest, total),
	})
}

// GetDetail returns a complaint with its audit trail and attachments
// @Summary     Get complaint detail
// @Tags        complaints
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Complaint ID"
// @Success     200 {object} services.ComplaintDetail
// @Failure     403 {object} map[string]interface{} "Not admin or owner"
// @Failure     404 {object} map[string]interface{} "No such complaint"
// @Router      /api/complaints/{id} [get]
func (h *ComplaintHandler) GetDetail(c *gin.Context) {
	actor, err := getActor(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	detail, err := h.complaintService.GetDetail(c.Request.Context(), actor, c.Param("id"))
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, detail)
}

// ChangeStatus relabels a complaint (admin only)
// @Summary     Change complaint status
// @Tags        complaints
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Complaint ID"
// @Param       request body ChangeStatusRequest true "New status and optional comment"
// @Success     200 {object} map[string]interface{} "Updated complaint"
// @Failure     400 {object} map[string]interface{} "Invalid status"
// @Failure     404 {object} map[string]interface{} "No such complaint"
// @Router      /api/complaints/{id}/status [put]
func (h *ComplaintHandler) ChangeStatus(c *gin.Context) {
	actor, err := getActor(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req ChangeStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.ErrInvalidStatus)
		return
	}

	complaint, err := h.complaintService.ChangeStatus(c.Request.Context(), actor, c.Param("id"), models.Status(req.Status), req.Comment)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":   "Status updated",
		"complaint": complaint,
	})
}

// Delete removes a complaint with its logs and attachments
// @Summary     Delete a complaint
// @Tags        complaints
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Complaint ID"
// @Success     200 {object} map[string]interface{} "Deleted"
// @Failure     403 {object} map[string]interface{} "Not admin or owner"
// @Failure     404 {object} map[string]interface{} "No such complaint"
// @Router      /api/complaints/{id} [delete]
func (h *ComplaintHandler) Delete(c *gin.Context) {
	actor, err := getActor(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.complaintService.Delete(c.Request.Context(), actor, c.Param("id")); err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Complaint deleted successfully"})
}

// Stats returns total and per-status complaint counts (admin only)
// @Summary     Complaint statistics
// @Tags        complaints
// @Produce     json
// @Security    BearerAuth
// @Success     200 {object} services.StatusCounts
// @Router      /api/stats [get]
func (h *ComplaintHandler) Stats(c *gin.Context) {
	stats, err := h.complaintService.Stats(c.Request.Context())
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, stats)
}
