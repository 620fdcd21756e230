package services

import (
	"errors"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"kelurahan/complaints-api/internal/config"
	apperrors "kelurahan/complaints-api/internal/errors"
	"kelurahan/complaints-api/internal/models"
)

// bcryptCost matches the work factor the system has always hashed with.
const bcryptCost = 12

// userService handles identity and session logic against the MySQL store.
type userService struct {
	db *gorm.DB
}

// NewUserService creates a new UserServicer.
func NewUserService(db *gorm.DB) UserServicer {
	return &userService{db: db}
}

// Register creates a new user with the default user role.
func (s *userService) Register(username, email, password, fullName string) (*models.User, error) {
	if username == "" || email == "" || password == "" || fullName == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "All fields are required")
	}
	if len(password) < 6 {
		return nil, apperrors.ErrWeakPassword
	}

	var count int64
	s.db.Model(&models.User{}).
		Where("username = ? OR email = ?", username, strings.ToLower(email)).
		Count(&count)
	if count > 0 {
		return nil, apperrors.ErrDuplicateUser
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	user := &models.User{
		Username: username,
		Email:    strings.ToLower(email),
		Password: string(hashed),
		FullName: fullName,
		RoleID:   models.RoleIDUser,
	}

	if err := s.db.Create(user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperrors.ErrDuplicateUser
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	return user, nil
}

// AttemptLogin verifies credentials. Unknown usernames and wrong passwords
// both return ErrInvalidCredentials so the response does not reveal which.
func (s *userService) AttemptLogin(username, password string) (*models.User, error) {
	var user models.User
	err := s.db.Preload("Role").Where("username = ?", username).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrInvalidCredentials
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)) != nil {
		return nil, apperrors.ErrInvalidCredentials
	}

	return &user, nil
}

// GetUserByID retrieves a user with its role.
func (s *userService) GetUserByID(id uint) (*models.User, error) {
	var user models.User
	if err := s.db.Preload("Role").First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &user, nil
}

// CreateSession records a login session for the issued token.
func (s *userService) CreateSession(user *models.User, token, ipAddress, userAgent string) (*models.Session, error) {
	session := &models.Session{
		UserID:    user.ID,
		Token:     token,
		IPAddress: ipAddress,
		UserAgent: userAgent,
		ExpiresAt: time.Now().Add(config.Get().JWTExpirationDur),
	}
	if err := s.db.Create(session).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return session, nil
}

// FindLiveSession returns the session for the token if one exists and has
// not expired. A valid token signature without a live session means the
// session was revoked by logout.
func (s *userService) FindLiveSession(token string) (*models.Session, error) {
	var session models.Session
	err := s.db.Where("token = ? AND expires_at > ?", token, time.Now()).First(&session).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrInvalidToken
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &session, nil
}

// DeleteSession removes the session for the token. Deleting a session that
// does not exist is not an error, so logout is idempotent.
func (s *userService) DeleteSession(token string) error {
	if err := s.db.Where("token = ?", token).Delete(&models.Session{}).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}
