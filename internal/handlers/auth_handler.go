package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"fintrack/internal/config"
	apperrors "fintrack/internal/errors"
	"fintrack/internal/middleware"
	"fintrack/internal/models"
	"fintrack/internal/services"
)

// AuthHandler handles authentication-related requests
type AuthHandler struct {
	userService  services.UserServicer
	tokenService services.TokenServicer
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(userService services.UserServicer, tokenService services.TokenServicer) *AuthHandler {
	return &AuthHandler{userService: userService, tokenService: tokenService}
}

// RegisterRequest represents the registration request payload
type RegisterRequest struct {
	Email    string `json:"email" binding:"required,email,max=255"`
	Password string `json:"password" binding:"required,min=6,max=128"`
}

// LoginRequest represents the login request payload
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// UserResponse represents the user data in the response
type UserResponse struct {
	ID    uint   `json:"id"`
	Email string `json:"email"`
}

// setAuthCookie sets an HttpOnly, SameSite=Strict cookie. Secure is
// enabled outside development so the pair survives HTTPS-only policies.
func setAuthCookie(c *gin.Context, name, value string, maxAge int) {
	c.SetSameSite(http.SameSiteStrictMode)
	c.SetCookie(name, value, maxAge, "/", "", config.Get().CookieSecure, true)
}

// clearAuthCookie removes a cookie previously set by setAuthCookie.
func clearAuthCookie(c *gin.Context, name string) {
	c.SetSameSite(http.SameSiteStrictMode)
	c.SetCookie(name, "", -1, "/", "", config.Get().CookieSecure, true)
}

// Register handles user registration
// @Summary     Register a new user
// @Description Register a new user with email and password
// @Tags        auth
// @Accept      json
// @Produce     json
// @Param       request body RegisterRequest true "User registration data"
// @Success     201 {object} MessageResponse "User created"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     409 {object} ErrorResponse "Email already registered"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /auth/register [post]
func (h *AuthHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	user, err := h.userService.CreateUser(req.Email, req.Password)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "User created",
		"userId":  user.ID,
	})
}

// Login handles user login
// @Summary     Login user
// @Description Authenticate a user; sets access and refresh token cookies
// @Tags        auth
// @Accept      json
// @Produce     json
// @Param       request body LoginRequest true "User login credentials"
// @Success     200 {object} MessageResponse "Logged in, cookies set"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Invalid credentials"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	user, err := h.userService.GetUserByEmail(req.Email)
	if err != nil {
		respondWithError(c, apperrors.ErrInvalidCredentials)
		return
	}

	if !h.userService.VerifyPassword(user, req.Password) {
		respondWithError(c, apperrors.ErrInvalidCredentials)
		return
	}

	accessToken, err := middleware.GenerateAccessToken(user)
	if err != nil {
		respondWithError(c, apperrors.Wrap(apperrors.ErrInternalServer, err))
		return
	}

	refreshToken, err := middleware.GenerateRefreshToken(user)
	if err != nil {
		respondWithError(c, apperrors.Wrap(apperrors.ErrInternalServer, err))
		return
	}

	// Persist the refresh token so logout (row deletion) revokes it.
	if err := h.tokenService.StoreRefreshToken(user.ID, refreshToken); err != nil {
		respondWithError(c, err)
		return
	}

	cfg := config.Get()
	setAuthCookie(c, middleware.AccessTokenCookie, accessToken, int(cfg.AccessTokenTTL.Seconds()))
	setAuthCookie(c, middleware.RefreshTokenCookie, refreshToken, int(cfg.RefreshTokenTTL.Seconds()))

	c.JSON(http.StatusOK, gin.H{
		"message": "Logged in",
		"user": gin.H{
			"id":    user.ID,
			"email": user.Email,
		},
	})
}

// RefreshToken exchanges a valid stored refresh token for a new access token.
// The refresh token itself is not rotated.
// @Summary     Refresh access token
// @Description Issue a new access token from the refresh token cookie
// @Tags        auth
// @Accept      json
// @Produce     json
// @Success     200 {object} map[string]string "New access token"
// @Failure     401 {object} ErrorResponse "Missing, invalid, or revoked token"
// @Router      /auth/refresh-token [post]
func (h *AuthHandler) RefreshToken(c *gin.Context) {
	token, err := c.Cookie(middleware.RefreshTokenCookie)
	if err != nil || token == "" {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrUnauthorized, "No token"))
		return
	}

	claims, err := middleware.ValidateRefreshToken(token)
	if err != nil {
		respondWithError(c, apperrors.ErrInvalidToken)
		return
	}

	// A verified signature is not enough: the stored row must still
	// exist, otherwise the token has been revoked.
	exists, err := h.tokenService.RefreshTokenExists(token)
	if err != nil {
		respondWithError(c, err)
		return
	}
	if !exists {
		respondWithError(c, apperrors.ErrInvalidToken)
		return
	}

	user := &models.User{Base: models.Base{ID: claims.UserID}, Email: claims.Email}
	accessToken, err := middleware.GenerateAccessToken(user)
	if err != nil {
		respondWithError(c, apperrors.Wrap(apperrors.ErrInternalServer, err))
		return
	}

	setAuthCookie(c, middleware.AccessTokenCookie, accessToken, int(config.Get().AccessTokenTTL.Seconds()))

	c.JSON(http.StatusOK, gin.H{"accessToken": accessToken})
}

// Logout revokes the refresh token and clears both cookies. Succeeds
// even when no stored token matches.
// @Summary     Logout user
// @Description Revoke the refresh token and clear auth cookies
// @Tags        auth
// @Accept      json
// @Produce     json
// @Success     200 {object} MessageResponse "Logged out"
// @Router      /auth/logout [post]
func (h *AuthHandler) Logout(c *gin.Context) {
	if token, err := c.Cookie(middleware.RefreshTokenCookie); err == nil && token != "" {
		if err := h.tokenService.RevokeRefreshToken(token); err != nil {
			respondWithError(c, err)
			return
		}
	}

	clearAuthCookie(c, middleware.AccessTokenCookie)
	clearAuthCookie(c, middleware.RefreshTokenCookie)

	c.JSON(http.StatusOK, gin.H{"message": "Logged out"})
}

// GetUsers lists all registered users without password hashes.
// @Summary     List users
// @Description Get all registered users (passwords excluded)
// @Tags        auth
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Success     200 {object} map[string]interface{} "Users and count"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /auth/users [get]
func (h *AuthHandler) GetUsers(c *gin.Context) {
	users, err := h.userService.ListUsers()
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"users": users,
		"count": len(users),
	})
}
