package testutil

import (
	"bytes"
	"fmt"
	"mime/multipart"
	"net/textproto"
	"sync/atomic"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"kelurahan/complaints-api/internal/models"
)

// TestPassword is the plaintext password every fixture user is created with.
const TestPassword = "password123"

// counter provides unique values across fixtures within a test run.
var counter atomic.Int64

func nextID() int64 {
	return counter.Add(1)
}

// CreateTestUser creates a user with the default user role.
func CreateTestUser(t *testing.T, db *gorm.DB) *models.User {
	t.Helper()
	return createUserWithRole(t, db, models.RoleIDUser)
}

// CreateTestAdmin creates a user with the admin role.
func CreateTestAdmin(t *testing.T, db *gorm.DB) *models.User {
	t.Helper()
	return createUserWithRole(t, db, models.RoleIDAdmin)
}

func createUserWithRole(t *testing.T, db *gorm.DB, roleID uint) *models.User {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte(TestPassword), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}

	n := nextID()
	user := &models.User{
		Username: fmt.Sprintf("user%d", n),
		Email:    fmt.Sprintf("user%d@test.com", n),
		Password: string(hash),
		FullName: fmt.Sprintf("Test User %d", n),
		RoleID:   roleID,
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed to create test user: %v", err)
	}
	if err := db.Preload("Role").First(user, user.ID).Error; err != nil {
		t.Fatalf("failed to reload test user: %v", err)
	}
	return user
}

// CreateTestSession records a live session for the user and token.
func CreateTestSession(t *testing.T, db *gorm.DB, user *models.User, token string) *models.Session {
	t.Helper()

	session := &models.Session{
		UserID:    user.ID,
		Token:     token,
		IPAddress: "127.0.0.1",
		UserAgent: "testutil",
		ExpiresAt: time.Now().Add(24 * time.Hour),
	}
	if err := db.Create(session).Error; err != nil {
		t.Fatalf("failed to create test session: %v", err)
	}
	return session
}

// FileHeader builds a real multipart.FileHeader by round-tripping the
// content through a multipart writer, the same way Gin receives uploads.
func FileHeader(t *testing.T, filename, contentType string, content []byte) *multipart.FileHeader {
	t.Helper()

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="attachments"; filename="%s"`, filename))
	header.Set("Content-Type", contentType)

	part, err := writer.CreatePart(header)
	if err != nil {
		t.Fatalf("failed to create multipart part: %v", err)
	}
	if _, err := part.Write(content); err != nil {
		t.Fatalf("failed to write multipart content: %v", err)
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("failed to close multipart writer: %v", err)
	}

	reader := multipart.NewReader(&buf, writer.Boundary())
	form, err := reader.ReadForm(32 << 20)
	if err != nil {
		t.Fatalf("failed to read multipart form: %v", err)
	}
	files := form.File["attachments"]
	if len(files) != 1 {
		t.Fatalf("expected 1 file header, got %d", len(files))
	}
	return files[0]
}
