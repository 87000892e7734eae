package controllers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http/httptest"
	"testing"
	"time"

	"academic-management-api/config"
	"academic-management-api/middleware"
	"academic-management-api/models"
	"academic-management-api/orcid"
	"academic-management-api/services"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type testServer struct {
	t      *testing.T
	db     *gorm.DB
	seed   *services.SeedData
	router *gin.Engine
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)
	config.App = &config.Config{JWT: config.JWTConfig{Secret: "test-secret", AccessTTL: time.Hour, RefreshTTL: time.Hour}}

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	require.NoError(t, db.AutoMigrate(models.All()...))
	seed, err := services.EnsureSeedData(context.Background(), db)
	require.NoError(t, err)
	config.DB = db

	r := gin.New()
	api := r.Group("/api/v1", middleware.AuthMiddleware())
	api.GET("/publications", GetPublications)
	api.POST("/publications", CreatePublication)
	api.GET("/publications/:id", GetPublication)
	api.POST("/publications/:id/authors", AddPublicationAuthor)
	api.PUT("/publications/:id/authors/reorder", ReorderPublicationAuthors)
	api.DELETE("/publications/:id/authors/:author_id", RemovePublicationAuthor)
	api.POST("/publications/:id/keywords/batch", AddPublicationKeywordsBatch)
	api.POST("/projects", CreateProject)
	api.GET("/projects/:id", GetProject)
	api.PUT("/projects/:id", UpdateProject)
	api.POST("/orcid/sync/:orcid_id", SyncOrcid)

	return &testServer{t: t, db: db, seed: seed, router: r}
}

// user creates an active account and returns it with a signed access token.
func (s *testServer) user(name string) (models.User, string) {
	s.t.Helper()
	u := models.User{Username: name, Email: name + "@example.edu", PasswordHash: "x", Role: models.RoleUser}
	require.NoError(s.t, s.db.Create(&u).Error)
	token, _, err := generateToken(u, middleware.TokenTypeAccess, time.Hour)
	require.NoError(s.t, err)
	return u, token
}

func (s *testServer) do(method, path, token string, body interface{}) (int, map[string]interface{}) {
	s.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(s.t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)

	out := map[string]interface{}{}
	if w.Body.Len() > 0 {
		require.NoError(s.t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	}
	return w.Code, out
}

// cannedRegistry answers from fixed JSON documents.
type cannedRegistry struct {
	profiles map[string]string
	works    map[string]string
}

func (r cannedRegistry) FetchProfile(_ context.Context, id string) (orcid.Node, bool) {
	n, err := orcid.Parse([]byte(r.profiles[id]))
	if err != nil {
		return orcid.Node{}, false
	}
	return n, n.Present()
}

func (r cannedRegistry) FetchWorks(_ context.Context, id string) []orcid.Node {
	n, err := orcid.Parse([]byte(r.works[id]))
	if err != nil {
		return nil
	}
	return n.Get("group").List()
}
