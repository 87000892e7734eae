package controllers

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"academic-management-api/config"
	"academic-management-api/middleware"
	"academic-management-api/models"
	"academic-management-api/services"
	"academic-management-api/utils"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

type RegisterRequest struct {
	Username  *string `json:"username"`
	Email     *string `json:"email"`
	Password  *string `json:"password"`
	FirstName *string `json:"first_name"`
	LastName  *string `json:"last_name"`
	OrcidID   *string `json:"orcid_id"`
}

type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

// Register creates a user account with the default role.
func Register(c *gin.Context) {
	var req RegisterRequest
	if !bindJSON(c, &req) {
		return
	}
	if !checkRequired(c,
		field("username", hasText(req.Username)),
		field("email", hasText(req.Email)),
		field("password", req.Password != nil && *req.Password != "")) {
		return
	}

	username := utils.SanitizeInput(*req.Username)
	email := strings.ToLower(utils.SanitizeInput(*req.Email))
	if !utils.ValidateEmail(email) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid email format"})
		return
	}
	if ok, msg := utils.ValidatePassword(*req.Password); !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": msg})
		return
	}
	if hasText(req.OrcidID) && !utils.ValidateOrcidID(strings.TrimSpace(*req.OrcidID)) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid ORCID iD format"})
		return
	}

	var count int64
	config.DB.Model(&models.User{}).Where("username = ?", username).Count(&count)
	if count > 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Username is already taken"})
		return
	}
	config.DB.Model(&models.User{}).Where("email = ?", email).Count(&count)
	if count > 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Email is already registered"})
		return
	}

	hash, err := HashPassword(*req.Password)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to hash password"})
		return
	}

	user := models.User{
		Username:     username,
		Email:        email,
		PasswordHash: hash,
		FirstName:    trimmed(req.FirstName),
		LastName:     trimmed(req.LastName),
		Role:         models.RoleUser,
	}
	if hasText(req.OrcidID) {
		user.OrcidID = trimmed(req.OrcidID)
	}

	if err := config.DB.Create(&user).Error; err != nil {
		if isUniqueViolation(err) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "User already exists"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create user"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "User registered successfully",
		"data":    user,
	})
}

// Login handles user authentication
func Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Username and password are required"})
		return
	}

	var user models.User
	if err := config.DB.Where("username = ? AND is_active = ?", strings.TrimSpace(req.Username), true).
		First(&user).Error; err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid username or password"})
		return
	}

	if !CheckPasswordHash(req.Password, user.PasswordHash) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid username or password"})
		return
	}

	accessToken, _, err := generateToken(user, middleware.TokenTypeAccess, config.App.JWT.AccessTTL)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate token"})
		return
	}
	refreshToken, expiresAt, err := generateToken(user, middleware.TokenTypeRefresh, config.App.JWT.RefreshTTL)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate token"})
		return
	}

	sessions := services.NewSessionService(config.DB)
	if _, err := sessions.Store(c.Request.Context(), user.ID, refreshToken, expiresAt, c.Request.UserAgent(), c.ClientIP()); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to store session"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"access_token":  accessToken,
		"refresh_token": refreshToken,
		"user":          user,
		"message":       "Login successful",
	})
}

// RefreshToken exchanges a stored refresh token for a new access token.
func RefreshToken(c *gin.Context) {
	var req RefreshRequest
	_ = c.ShouldBindJSON(&req)

	token := strings.TrimSpace(req.RefreshToken)
	if token == "" {
		token = strings.TrimPrefix(c.GetHeader("Authorization"), "Bearer ")
	}
	if token == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Field refresh_token is required"})
		return
	}

	claims, err := middleware.ParseToken(token, middleware.TokenTypeRefresh)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired refresh token"})
		return
	}

	sessions := services.NewSessionService(config.DB)
	stored, err := sessions.Use(c.Request.Context(), token)
	if err != nil {
		if errors.Is(err, services.ErrRefreshTokenInvalid) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Refresh token has been revoked or expired"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to validate refresh token"})
		return
	}

	var user models.User
	if err := config.DB.Where("id = ? AND is_active = ?", stored.UserID, true).First(&user).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}
	if user.ID.String() != claims.UserID {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired refresh token"})
		return
	}

	accessToken, _, err := generateToken(user, middleware.TokenTypeAccess, config.App.JWT.AccessTTL)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate token"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"access_token": accessToken})
}

// GetProfile returns current user profile
func GetProfile(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"data": currentUser(c)})
}

// Logout revokes every refresh token of the caller.
func Logout(c *gin.Context) {
	revoked, err := services.NewSessionService(config.DB).RevokeAll(c.Request.Context(), currentUserID(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to revoke sessions"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Logged out successfully", "revoked": revoked})
}

// GetActiveSessions lists the caller's unexpired refresh tokens.
func GetActiveSessions(c *gin.Context) {
	tokens, err := services.NewSessionService(config.DB).Active(c.Request.Context(), currentUserID(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch sessions"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": tokens, "count": len(tokens)})
}

// RevokeSession deactivates one refresh token (owner or admin).
func RevokeSession(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}
	if err := services.NewSessionService(config.DB).Revoke(c.Request.Context(), id, currentUser(c)); err != nil {
		respondError(c, err, "Session not found")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Session revoked successfully"})
}

// generateToken signs a token of the given type for user.
func generateToken(user models.User, tokenType string, ttl time.Duration) (string, time.Time, error) {
	now := time.Now()
	expiresAt := now.Add(ttl)

	claims := middleware.Claims{
		UserID:    user.ID.String(),
		Username:  user.Username,
		Role:      user.Role,
		TokenType: tokenType,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        services.NewTokenID(),
			Subject:   user.ID.String(),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(middleware.JWTSecret())
	if err != nil {
		return "", time.Time{}, err
	}
	return tokenString, expiresAt, nil
}

// HashPassword hashes password using bcrypt
func HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	return string(bytes), err
}

// CheckPasswordHash compares password with hash
func CheckPasswordHash(password, hash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	return err == nil
}
