package integration

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"kelurahan/complaints-api/internal/handlers"
	"kelurahan/complaints-api/internal/health"
	"kelurahan/complaints-api/internal/logger"
	"kelurahan/complaints-api/internal/repository"
	"kelurahan/complaints-api/internal/services"
	"kelurahan/complaints-api/internal/testutil"
	"kelurahan/complaints-api/internal/validator"
)

// testApp holds the full application stack for integration tests: the
// identity store on isolated SQLite, the complaint store in memory, and
// the real router with its auth and readiness gates.
type testApp struct {
	DB     *gorm.DB
	State  *health.State
	Store  *testutil.MemoryAttachmentStore
	Router *gin.Engine
}

func init() {
	gin.SetMode(gin.TestMode)
	logger.Init("test")
	validator.Register()
}

// setupApp assembles the application with both stores ready.
func setupApp(t *testing.T) *testApp {
	t.Helper()

	db := testutil.SetupTestDB(t)
	t.Cleanup(func() { testutil.TeardownTestDB(t, db) })

	state := health.NewState()
	state.MarkMySQLReady()
	state.MarkMongoReady()

	store := &testutil.MemoryAttachmentStore{}
	complaintService := services.NewComplaintService(
		repository.NewMemoryComplaintRepository(),
		repository.NewMemoryLogRepository(),
		repository.NewMemoryAttachmentRepository(),
		store,
		nil,
	)

	router := handlers.NewRouter(handlers.RouterDeps{
		State:            state,
		UserService:      services.NewUserService(db),
		ComplaintService: complaintService,
		UploadDir:        t.TempDir(),
	})

	return &testApp{DB: db, State: state, Store: store, Router: router}
}

// request makes a JSON request to the test router and returns the recorder.
func (app *testApp) request(method, path, body, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	app.Router.ServeHTTP(rec, req)
	return rec
}

// attachment describes a file to include in a multipart complaint request.
type attachment struct {
	Name        string
	ContentType string
	Content     []byte
}

// createComplaint posts a multipart complaint with optional attachments.
func (app *testApp) createComplaint(t *testing.T, token string, fields map[string]string, files []attachment) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	for key, value := range fields {
		if err := writer.WriteField(key, value); err != nil {
			t.Fatalf("failed to write field %s: %v", key, err)
		}
	}
	for _, file := range files {
		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="attachments"; filename=%q`, file.Name))
		h.Set("Content-Type", file.ContentType)
		part, err := writer.CreatePart(h)
		if err != nil {
			t.Fatalf("failed to create part: %v", err)
		}
		if _, err := io.Copy(part, bytes.NewReader(file.Content)); err != nil {
			t.Fatalf("failed to write part: %v", err)
		}
	}
	writer.Close()

	req := httptest.NewRequest("POST", "/api/complaints", &buf)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	app.Router.ServeHTTP(rec, req)
	return rec
}

// parseJSON parses the response body into a map.
func parseJSON(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var result map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatalf("failed to parse JSON: %v\nbody: %s", err, rec.Body.String())
	}
	return result
}

// registerUser registers a new user and returns the new user's ID.
func (app *testApp) registerUser(t *testing.T, username, email, password, fullName string) float64 {
	t.Helper()
	body := fmt.Sprintf(`{"username":%q,"email":%q,"password":%q,"full_name":%q}`, username, email, password, fullName)
	rec := app.request("POST", "/api/auth/register", body, "")
	if rec.Code != http.StatusCreated {
		t.Fatalf("register failed: %d %s", rec.Code, rec.Body.String())
	}
	return parseJSON(t, rec)["userId"].(float64)
}

// loginUser logs in and returns the bearer token.
func (app *testApp) loginUser(t *testing.T, username, password string) string {
	t.Helper()
	body := fmt.Sprintf(`{"username":%q,"password":%q}`, username, password)
	rec := app.request("POST", "/api/auth/login", body, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("login failed: %d %s", rec.Code, rec.Body.String())
	}
	return parseJSON(t, rec)["token"].(string)
}

// loginAdmin seeds an admin user directly and logs them in.
func (app *testApp) loginAdmin(t *testing.T) string {
	t.Helper()
	admin := testutil.CreateTestAdmin(t, app.DB)
	return app.loginUser(t, admin.Username, testutil.TestPassword)
}
