package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"academic-management-api/config"
	"academic-management-api/models"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setup(t *testing.T) models.User {
	t.Helper()
	gin.SetMode(gin.TestMode)
	config.App = &config.Config{JWT: config.JWTConfig{Secret: "test-secret", AccessTTL: time.Hour, RefreshTTL: time.Hour}}

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	require.NoError(t, db.AutoMigrate(&models.User{}))
	config.DB = db

	u := models.User{Username: "alice", Email: "alice@example.edu", PasswordHash: "x", Role: models.RoleUser}
	require.NoError(t, db.Create(&u).Error)
	return u
}

func sign(t *testing.T, user models.User, tokenType string, ttl time.Duration) string {
	t.Helper()
	claims := Claims{
		UserID:    user.ID.String(),
		Username:  user.Username,
		Role:      user.Role,
		TokenType: tokenType,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttl)),
		},
	}
	s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(JWTSecret())
	require.NoError(t, err)
	return s
}

func serve(header string) *httptest.ResponseRecorder {
	r := gin.New()
	r.GET("/me", AuthMiddleware(), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"username": c.GetString("username")})
	})
	r.GET("/admin", AuthMiddleware(), RequireRole(models.RoleAdmin), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	r.ServeHTTP(w, req)
	return w
}

func TestAuthMiddleware(t *testing.T) {
	user := setup(t)

	cases := []struct {
		name   string
		header string
		status int
	}{
		{"missing header", "", http.StatusUnauthorized},
		{"not bearer", "Token abc", http.StatusUnauthorized},
		{"garbage", "Bearer abc", http.StatusUnauthorized},
		{"refresh token rejected", "Bearer " + sign(t, user, TokenTypeRefresh, time.Hour), http.StatusUnauthorized},
		{"expired", "Bearer " + sign(t, user, TokenTypeAccess, -time.Minute), http.StatusUnauthorized},
		{"valid access", "Bearer " + sign(t, user, TokenTypeAccess, time.Hour), http.StatusOK},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.status, serve(tc.header).Code)
		})
	}
}

func TestAuthMiddleware_DeactivatedUser(t *testing.T) {
	user := setup(t)
	token := sign(t, user, TokenTypeAccess, time.Hour)
	require.NoError(t, config.DB.Model(&user).Update("is_active", false).Error)
	assert.Equal(t, http.StatusUnauthorized, serve("Bearer "+token).Code)
}

func TestRequireRole(t *testing.T) {
	user := setup(t)
	r := gin.New()
	r.GET("/admin", AuthMiddleware(), RequireRole(models.RoleAdmin), func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/admin", nil)
	req.Header.Set("Authorization", "Bearer "+sign(t, user, TokenTypeAccess, time.Hour))
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusForbidden, w.Code)
}
