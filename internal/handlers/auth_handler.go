package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "kelurahan/complaints-api/internal/errors"
	"kelurahan/complaints-api/internal/middleware"
	"kelurahan/complaints-api/internal/services"
)

// AuthHandler handles registration, login, and logout.
type AuthHandler struct {
	userService services.UserServicer
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(userService services.UserServicer) *AuthHandler {
	return &AuthHandler{userService: userService}
}

// RegisterRequest represents the registration request payload
type RegisterRequest struct {
	Username string `json:"username" binding:"required,max=100"`
	Email    string `json:"email" binding:"required,email,max=100"`
	Password string `json:"password" binding:"required"`
	FullName string `json:"full_name" binding:"required,max=200"`
}

// LoginRequest represents the login request payload
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// Register handles user registration
// @Summary     Register a new user
// @Tags        auth
// @Accept      json
// @Produce     json
// @Param       request body RegisterRequest true "User registration data"
// @Success     201 {object} map[string]interface{} "User registered"
// @Failure     400 {object} map[string]interface{} "Invalid input"
// @Failure     409 {object} map[string]interface{} "Username or email taken"
// @Router      /api/auth/register [post]
func (h *AuthHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, "All fields are required"))
		return
	}

	user, err := h.userService.Register(req.Username, req.Email, req.Password, req.FullName)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "User registered successfully",
		"userId":  user.ID,
	})
}

// Login handles user login
// @Summary     Authenticate and issue a bearer token
// @Tags        auth
// @Accept      json
// @Produce     json
// @Param       request body LoginRequest true "User credentials"
// @Success     200 {object} map[string]interface{} "Token and user profile"
// @Failure     400 {object} map[string]interface{} "Invalid input"
// @Failure     401 {object} map[string]interface{} "Invalid credentials"
// @Router      /api/auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, "Username and password required"))
		return
	}

	user, err := h.userService.AttemptLogin(req.Username, req.Password)
	if err != nil {
		respondWithError(c, err)
		return
	}

	token, err := middleware.GenerateToken(user)
	if err != nil {
		respondWithError(c, apperrors.Wrap(apperrors.ErrInternalServer, err))
		return
	}

	if _, err := h.userService.CreateSession(user, token, c.ClientIP(), c.Request.UserAgent()); err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"token": token,
		"user": gin.H{
			"id":        user.ID,
			"username":  user.Username,
			"email":     user.Email,
			"full_name": user.FullName,
			"role":      user.RoleName(),
		},
	})
}

// Logout revokes the presented token's session
// @Summary     Log out, revoking the bearer token
// @Tags        auth
// @Produce     json
// @Security    BearerAuth
// @Success     200 {object} map[string]interface{} "Logged out"
// @Failure     401 {object} map[string]interface{} "Unauthorized"
// @Router      /api/auth/logout [post]
func (h *AuthHandler) Logout(c *gin.Context) {
	token := c.GetString(middleware.ContextToken)
	if token != "" {
		if err := h.userService.DeleteSession(token); err != nil {
			respondWithError(c, err)
			return
		}
	}

	c.JSON(http.StatusOK, gin.H{"message": "Logged out successfully"})
}
