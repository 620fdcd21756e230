package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	apperrors "kelurahan/complaints-api/internal/errors"
	"kelurahan/complaints-api/internal/middleware"
	"kelurahan/complaints-api/internal/models"
	"kelurahan/complaints-api/internal/services"
	"kelurahan/complaints-api/internal/validator"
)

// --- mock user service ---

type mockUserService struct {
	registerFn        func(username, email, password, fullName string) (*models.User, error)
	attemptLoginFn    func(username, password string) (*models.User, error)
	getUserByIDFn     func(id uint) (*models.User, error)
	createSessionFn   func(user *models.User, token, ipAddress, userAgent string) (*models.Session, error)
	findLiveSessionFn func(token string) (*models.Session, error)
	deleteSessionFn   func(token string) error
}

func (m *mockUserService) Register(username, email, password, fullName string) (*models.User, error) {
	if m.registerFn != nil {
		return m.registerFn(username, email, password, fullName)
	}
	return &models.User{}, nil
}

func (m *mockUserService) AttemptLogin(username, password string) (*models.User, error) {
	if m.attemptLoginFn != nil {
		return m.attemptLoginFn(username, password)
	}
	return &models.User{}, nil
}

func (m *mockUserService) GetUserByID(id uint) (*models.User, error) {
	if m.getUserByIDFn != nil {
		return m.getUserByIDFn(id)
	}
	return &models.User{}, nil
}

func (m *mockUserService) CreateSession(user *models.User, token, ipAddress, userAgent string) (*models.Session, error) {
	if m.createSessionFn != nil {
		return m.createSessionFn(user, token, ipAddress, userAgent)
	}
	return &models.Session{}, nil
}

func (m *mockUserService) FindLiveSession(token string) (*models.Session, error) {
	if m.findLiveSessionFn != nil {
		return m.findLiveSessionFn(token)
	}
	return &models.Session{}, nil
}

func (m *mockUserService) DeleteSession(token string) error {
	if m.deleteSessionFn != nil {
		return m.deleteSessionFn(token)
	}
	return nil
}

// verify interface compliance
var _ services.UserServicer = (*mockUserService)(nil)

// --- test helpers ---

func init() {
	gin.SetMode(gin.TestMode)
	validator.Register()
}

func setupAuthRouter(handler *AuthHandler) *gin.Engine {
	r := gin.New()
	r.POST("/auth/register", handler.Register)
	r.POST("/auth/login", handler.Login)
	r.POST("/auth/logout", injectActor(1, "alice", models.RoleUser), handler.Logout)
	return r
}

func injectActor(uid uint, username, role string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(middleware.ContextUserID, uid)
		c.Set(middleware.ContextUsername, username)
		c.Set(middleware.ContextRole, role)
		c.Set(middleware.ContextToken, "test-token")
		c.Next()
	}
}

func doRequest(r *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func parseJSON(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var result map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatalf("failed to parse JSON response: %v\nbody: %s", err, rec.Body.String())
	}
	return result
}

func assertErrorCode(t *testing.T, result map[string]interface{}, code string) {
	t.Helper()
	errObj, ok := result["error"].(map[string]interface{})
	if !ok {
		t.Fatalf("expected error object in response, got: %v", result)
	}
	if errObj["code"] != code {
		t.Errorf("expected error code %q, got %q", code, errObj["code"])
	}
}

// --- tests ---

func TestAuthHandler_Register(t *testing.T) {
	t.Run("returns 201 on success", func(t *testing.T) {
		userSvc := &mockUserService{
			registerFn: func(username, email, _, fullName string) (*models.User, error) {
				return &models.User{
					ID:       1,
					Username: username,
					Email:    email,
					FullName: fullName,
					RoleID:   models.RoleIDUser,
				}, nil
			},
		}
		r := setupAuthRouter(NewAuthHandler(userSvc))

		rec := doRequest(r, "POST", "/auth/register",
			`{"username":"alice","email":"a@x.com","password":"secret1","full_name":"Alice A"}`)

		if rec.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
		}
		result := parseJSON(t, rec)
		if result["userId"] != float64(1) {
			t.Errorf("expected userId 1, got %v", result["userId"])
		}
	})

	t.Run("returns 400 on missing fields", func(t *testing.T) {
		r := setupAuthRouter(NewAuthHandler(&mockUserService{}))

		rec := doRequest(r, "POST", "/auth/register", `{"username":"alice"}`)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "INVALID_INPUT")
	})

	t.Run("returns 400 on invalid email", func(t *testing.T) {
		r := setupAuthRouter(NewAuthHandler(&mockUserService{}))

		rec := doRequest(r, "POST", "/auth/register",
			`{"username":"alice","email":"not-an-email","password":"secret1","full_name":"Alice A"}`)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})

	t.Run("returns 409 on duplicate", func(t *testing.T) {
		userSvc := &mockUserService{
			registerFn: func(_, _, _, _ string) (*models.User, error) {
				return nil, apperrors.ErrDuplicateUser
			},
		}
		r := setupAuthRouter(NewAuthHandler(userSvc))

		rec := doRequest(r, "POST", "/auth/register",
			`{"username":"alice","email":"a@x.com","password":"secret1","full_name":"Alice A"}`)

		if rec.Code != http.StatusConflict {
			t.Fatalf("expected 409, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "DUPLICATE_USER")
	})
}

func TestAuthHandler_Login(t *testing.T) {
	t.Run("returns token and profile on success", func(t *testing.T) {
		userSvc := &mockUserService{
			attemptLoginFn: func(username, _ string) (*models.User, error) {
				return &models.User{
					ID:       1,
					Username: username,
					Email:    "a@x.com",
					FullName: "Alice A",
					RoleID:   models.RoleIDUser,
					Role:     models.Role{ID: models.RoleIDUser, Name: models.RoleUser},
				}, nil
			},
		}
		r := setupAuthRouter(NewAuthHandler(userSvc))

		rec := doRequest(r, "POST", "/auth/login", `{"username":"alice","password":"secret1"}`)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		result := parseJSON(t, rec)
		if result["token"] == "" || result["token"] == nil {
			t.Error("expected a token in the response")
		}
		user := result["user"].(map[string]interface{})
		if user["username"] != "alice" || user["role"] != models.RoleUser {
			t.Errorf("unexpected user profile: %v", user)
		}
	})

	t.Run("records a session for the issued token", func(t *testing.T) {
		var sessionToken string
		userSvc := &mockUserService{
			createSessionFn: func(_ *models.User, token, _, _ string) (*models.Session, error) {
				sessionToken = token
				return &models.Session{Token: token}, nil
			},
		}
		r := setupAuthRouter(NewAuthHandler(userSvc))

		rec := doRequest(r, "POST", "/auth/login", `{"username":"alice","password":"secret1"}`)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		result := parseJSON(t, rec)
		if sessionToken == "" || sessionToken != result["token"] {
			t.Errorf("expected session recorded for issued token, got %q", sessionToken)
		}
	})

	t.Run("returns 401 on bad credentials", func(t *testing.T) {
		userSvc := &mockUserService{
			attemptLoginFn: func(_, _ string) (*models.User, error) {
				return nil, apperrors.ErrInvalidCredentials
			},
		}
		r := setupAuthRouter(NewAuthHandler(userSvc))

		rec := doRequest(r, "POST", "/auth/login", `{"username":"alice","password":"wrong"}`)

		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("expected 401, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "INVALID_CREDENTIALS")
	})

	t.Run("returns 400 on missing password", func(t *testing.T) {
		r := setupAuthRouter(NewAuthHandler(&mockUserService{}))

		rec := doRequest(r, "POST", "/auth/login", `{"username":"alice"}`)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})
}

func TestAuthHandler_Logout(t *testing.T) {
	t.Run("revokes the presented token", func(t *testing.T) {
		var deleted string
		userSvc := &mockUserService{
			deleteSessionFn: func(token string) error {
				deleted = token
				return nil
			},
		}
		r := setupAuthRouter(NewAuthHandler(userSvc))

		rec := doRequest(r, "POST", "/auth/logout", "")

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		if deleted != "test-token" {
			t.Errorf("expected session deleted for test-token, got %q", deleted)
		}
		result := parseJSON(t, rec)
		if result["message"] != "Logged out successfully" {
			t.Errorf("unexpected message: %v", result["message"])
		}
	})
}
