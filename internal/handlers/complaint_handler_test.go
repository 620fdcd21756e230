package handlers

import (
	"bytes"
	"context"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	apperrors "kelurahan/complaints-api/internal/errors"
	"kelurahan/complaints-api/internal/models"
	"kelurahan/complaints-api/internal/pagination"
	"kelurahan/complaints-api/internal/services"
)

// --- mock complaint service ---

type mockComplaintService struct {
	createFn       func(ctx context.Context, actor services.Actor, input services.CreateComplaintInput, files []*multipart.FileHeader) (*models.Complaint, error)
	listFn         func(ctx context.Context, actor services.Actor, page pagination.PageRequest, statusFilter *models.Status) ([]models.Complaint, int64, error)
	getDetailFn    func(ctx context.Context, actor services.Actor, id string) (*services.ComplaintDetail, error)
	changeStatusFn func(ctx context.Context, actor services.Actor, id string, newStatus models.Status, comment string) (*models.Complaint, error)
	deleteFn       func(ctx context.Context, actor services.Actor, id string) error
	statsFn        func(ctx context.Context) (*services.StatusCounts, error)
}

func (m *mockComplaintService) Create(ctx context.Context, actor services.Actor, input services.CreateComplaintInput, files []*multipart.FileHeader) (*models.Complaint, error) {
	if m.createFn != nil {
		return m.createFn(ctx, actor, input, files)
	}
	return &models.Complaint{}, nil
}

func (m *mockComplaintService) List(ctx context.Context, actor services.Actor, page pagination.PageRequest, statusFilter *models.Status) ([]models.Complaint, int64, error) {
	if m.listFn != nil {
		return m.listFn(ctx, actor, page, statusFilter)
	}
	return []models.Complaint{}, 0, nil
}

func (m *mockComplaintService) GetDetail(ctx context.Context, actor services.Actor, id string) (*services.ComplaintDetail, error) {
	if m.getDetailFn != nil {
		return m.getDetailFn(ctx, actor, id)
	}
	return &services.ComplaintDetail{Complaint: &models.Complaint{}}, nil
}

func (m *mockComplaintService) ChangeStatus(ctx context.Context, actor services.Actor, id string, newStatus models.Status, comment string) (*models.Complaint, error) {
	if m.changeStatusFn != nil {
		return m.changeStatusFn(ctx, actor, id, newStatus, comment)
	}
	return &models.Complaint{}, nil
}

func (m *mockComplaintService) Delete(ctx context.Context, actor services.Actor, id string) error {
	if m.deleteFn != nil {
		return m.deleteFn(ctx, actor, id)
	}
	return nil
}

func (m *mockComplaintService) Stats(ctx context.Context) (*services.StatusCounts, error) {
	if m.statsFn != nil {
		return m.statsFn(ctx)
	}
	return &services.StatusCounts{}, nil
}

// verify interface compliance
var _ services.ComplaintServicer = (*mockComplaintService)(nil)

func setupComplaintRouter(handler *ComplaintHandler, role string) *gin.Engine {
	r := gin.New()
	auth := r.Group("", injectActor(1, "alice", role))
	auth.POST("/complaints", handler.Create)
	auth.GET("/complaints", handler.List)
	auth.GET("/complaints/:id", handler.GetDetail)
	auth.PUT("/complaints/:id/status", handler.ChangeStatus)
	auth.DELETE("/complaints/:id", handler.Delete)
	auth.GET("/stats", handler.Stats)
	return r
}

// doMultipart posts form fields (and no files) as multipart/form-data.
func doMultipart(t *testing.T, r *gin.Engine, path string, fields map[string]string) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	for key, value := range fields {
		if err := writer.WriteField(key, value); err != nil {
			t.Fatalf("failed to write field %s: %v", key, err)
		}
	}
	writer.Close()

	req := httptest.NewRequest("POST", path, &buf)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestComplaintHandler_Create(t *testing.T) {
	t.Run("returns 201 with the created complaint", func(t *testing.T) {
		svc := &mockComplaintService{
			createFn: func(_ context.Context, actor services.Actor, input services.CreateComplaintInput, _ []*multipart.FileHeader) (*models.Complaint, error) {
				return &models.Complaint{
					ID:          "0198c6a1-0000-7000-8000-000000000001",
					UserID:      actor.ID,
					Title:       input.Title,
					Description: input.Description,
					Category:    input.Category,
					Status:      models.StatusPending,
					Priority:    models.PriorityMedium,
				}, nil
			},
		}
		r := setupComplaintRouter(NewComplaintHandler(svc), models.RoleUser)

		rec := doMultipart(t, r, "/complaints", map[string]string{
			"title":       "Leak",
			"description": "pipe leak",
			"category":    "plumbing",
		})

		if rec.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
		}
		result := parseJSON(t, rec)
		complaint := result["complaint"].(map[string]interface{})
		if complaint["title"] != "Leak" {
			t.Errorf("expected Leak, got %v", complaint["title"])
		}
		if complaint["status"] != string(models.StatusPending) {
			t.Errorf("expected pending, got %v", complaint["status"])
		}
	})

	t.Run("returns 400 on invalid priority", func(t *testing.T) {
		r := setupComplaintRouter(NewComplaintHandler(&mockComplaintService{}), models.RoleUser)

		rec := doMultipart(t, r, "/complaints", map[string]string{
			"title":       "Leak",
			"description": "pipe leak",
			"category":    "plumbing",
			"priority":    "urgent",
		})

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})

	t.Run("returns 400 on missing fields", func(t *testing.T) {
		svc := &mockComplaintService{
			createFn: func(_ context.Context, _ services.Actor, _ services.CreateComplaintInput, _ []*multipart.FileHeader) (*models.Complaint, error) {
				return nil, apperrors.ErrMissingFields
			},
		}
		r := setupComplaintRouter(NewComplaintHandler(svc), models.RoleUser)

		rec := doMultipart(t, r, "/complaints", map[string]string{"title": "Leak"})

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "MISSING_FIELDS")
	})

	t.Run("returns 401 without auth", func(t *testing.T) {
		r := gin.New()
		r.POST("/complaints", NewComplaintHandler(&mockComplaintService{}).Create)

		rec := doMultipart(t, r, "/complaints", map[string]string{"title": "Leak"})

		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("expected 401, got %d", rec.Code)
		}
	})
}

func TestComplaintHandler_List(t *testing.T) {
	t.Run("returns 200 with pagination metadata", func(t *testing.T) {
		svc := &mockComplaintService{
			listFn: func(_ context.Context, _ services.Actor, page pagination.PageRequest, _ *models.Status) ([]models.Complaint, int64, error) {
				if page.Page != 2 || page.Limit != 10 {
					t.Errorf("expected page 2 limit 10, got %d/%d", page.Page, page.Limit)
				}
				return make([]models.Complaint, 5), 15, nil
			},
		}
		r := setupComplaintRouter(NewComplaintHandler(svc), models.RoleAdmin)

		rec := doRequest(r, "GET", "/complaints?page=2&limit=10", "")

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		result := parseJSON(t, rec)
		meta := result["pagination"].(map[string]interface{})
		if meta["total"] != float64(15) || meta["pages"] != float64(2) {
			t.Errorf("expected total 15 pages 2, got %v", meta)
		}
		if len(result["complaints"].([]interface{})) != 5 {
			t.Errorf("expected 5 complaints, got %v", result["complaints"])
		}
	})

	t.Run("passes the status filter through", func(t *testing.T) {
		var got *models.Status
		svc := &mockComplaintService{
			listFn: func(_ context.Context, _ services.Actor, _ pagination.PageRequest, statusFilter *models.Status) ([]models.Complaint, int64, error) {
				got = statusFilter
				return nil, 0, nil
			},
		}
		r := setupComplaintRouter(NewComplaintHandler(svc), models.RoleAdmin)

		rec := doRequest(r, "GET", "/complaints?status=resolved", "")

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		if got == nil || *got != models.StatusResolved {
			t.Errorf("expected resolved filter, got %v", got)
		}
	})

	t.Run("returns 400 on unknown status", func(t *testing.T) {
		r := setupComplaintRouter(NewComplaintHandler(&mockComplaintService{}), models.RoleAdmin)

		rec := doRequest(r, "GET", "/complaints?status=bogus", "")

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "INVALID_STATUS")
	})
}

func TestComplaintHandler_GetDetail(t *testing.T) {
	t.Run("returns 200 with logs and attachments", func(t *testing.T) {
		svc := &mockComplaintService{
			getDetailFn: func(_ context.Context, _ services.Actor, id string) (*services.ComplaintDetail, error) {
				return &services.ComplaintDetail{
					Complaint: &models.Complaint{ID: id, Status: models.StatusPending},
					Logs: []models.ComplaintLog{
						{Action: models.ActionCreated, NewStatus: models.StatusPending, CreatedAt: time.Now()},
					},
					Attachments: []models.Attachment{},
				}, nil
			},
		}
		r := setupComplaintRouter(NewComplaintHandler(svc), models.RoleUser)

		rec := doRequest(r, "GET", "/complaints/abc", "")

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		result := parseJSON(t, rec)
		if len(result["logs"].([]interface{})) != 1 {
			t.Errorf("expected 1 log, got %v", result["logs"])
		}
	})

	t.Run("returns 403 for non-owner", func(t *testing.T) {
		svc := &mockComplaintService{
			getDetailFn: func(_ context.Context, _ services.Actor, _ string) (*services.ComplaintDetail, error) {
				return nil, apperrors.ErrForbidden
			},
		}
		r := setupComplaintRouter(NewComplaintHandler(svc), models.RoleUser)

		rec := doRequest(r, "GET", "/complaints/abc", "")

		if rec.Code != http.StatusForbidden {
			t.Fatalf("expected 403, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "FORBIDDEN")
	})

	t.Run("returns 404 when missing", func(t *testing.T) {
		svc := &mockComplaintService{
			getDetailFn: func(_ context.Context, _ services.Actor, _ string) (*services.ComplaintDetail, error) {
				return nil, apperrors.ErrComplaintNotFound
			},
		}
		r := setupComplaintRouter(NewComplaintHandler(svc), models.RoleUser)

		rec := doRequest(r, "GET", "/complaints/missing", "")

		if rec.Code != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", rec.Code)
		}
	})
}

func TestComplaintHandler_ChangeStatus(t *testing.T) {
	t.Run("returns 200 with the updated complaint", func(t *testing.T) {
		svc := &mockComplaintService{
			changeStatusFn: func(_ context.Context, _ services.Actor, id string, newStatus models.Status, comment string) (*models.Complaint, error) {
				if comment != "on it" {
					t.Errorf("expected comment passed through, got %q", comment)
				}
				return &models.Complaint{ID: id, Status: newStatus}, nil
			},
		}
		r := setupComplaintRouter(NewComplaintHandler(svc), models.RoleAdmin)

		rec := doRequest(r, "PUT", "/complaints/abc/status", `{"status":"in_progress","comment":"on it"}`)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		result := parseJSON(t, rec)
		complaint := result["complaint"].(map[string]interface{})
		if complaint["status"] != string(models.StatusInProgress) {
			t.Errorf("expected in_progress, got %v", complaint["status"])
		}
	})

	t.Run("returns 400 on missing status", func(t *testing.T) {
		r := setupComplaintRouter(NewComplaintHandler(&mockComplaintService{}), models.RoleAdmin)

		rec := doRequest(r, "PUT", "/complaints/abc/status", `{"comment":"no status"}`)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "INVALID_STATUS")
	})

	t.Run("returns 403 for non-admin", func(t *testing.T) {
		svc := &mockComplaintService{
			changeStatusFn: func(_ context.Context, _ services.Actor, _ string, _ models.Status, _ string) (*models.Complaint, error) {
				return nil, apperrors.ErrAdminRequired
			},
		}
		r := setupComplaintRouter(NewComplaintHandler(svc), models.RoleUser)

		rec := doRequest(r, "PUT", "/complaints/abc/status", `{"status":"resolved"}`)

		if rec.Code != http.StatusForbidden {
			t.Fatalf("expected 403, got %d", rec.Code)
		}
	})
}

func TestComplaintHandler_Delete(t *testing.T) {
	t.Run("returns 200 on success", func(t *testing.T) {
		var deleted string
		svc := &mockComplaintService{
			deleteFn: func(_ context.Context, _ services.Actor, id string) error {
				deleted = id
				return nil
			},
		}
		r := setupComplaintRouter(NewComplaintHandler(svc), models.RoleUser)

		rec := doRequest(r, "DELETE", "/complaints/abc", "")

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		if deleted != "abc" {
			t.Errorf("expected abc deleted, got %q", deleted)
		}
	})

	t.Run("returns 404 when missing", func(t *testing.T) {
		svc := &mockComplaintService{
			deleteFn: func(_ context.Context, _ services.Actor, _ string) error {
				return apperrors.ErrComplaintNotFound
			},
		}
		r := setupComplaintRouter(NewComplaintHandler(svc), models.RoleUser)

		rec := doRequest(r, "DELETE", "/complaints/missing", "")

		if rec.Code != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", rec.Code)
		}
	})
}

func TestComplaintHandler_Stats(t *testing.T) {
	svc := &mockComplaintService{
		statsFn: func(_ context.Context) (*services.StatusCounts, error) {
			return &services.StatusCounts{Total: 4, Pending: 2, InProgress: 1, Resolved: 1}, nil
		},
	}
	r := setupComplaintRouter(NewComplaintHandler(svc), models.RoleAdmin)

	rec := doRequest(r, "GET", "/stats", "")

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	result := parseJSON(t, rec)
	if result["total"] != float64(4) || result["pending"] != float64(2) {
		t.Errorf("unexpected stats: %v", result)
	}
}
