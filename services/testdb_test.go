package services

import (
	"context"
	"testing"

	"academic-management-api/models"
	"academic-management-api/orcid"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
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
	return db
}

// fakeRegistry serves canned registry documents keyed by ORCID iD.
type fakeRegistry struct {
	profiles map[string]string
	works    map[string]string
}

func (f *fakeRegistry) FetchProfile(_ context.Context, id string) (orcid.Node, bool) {
	raw, ok := f.profiles[id]
	if !ok {
		return orcid.Node{}, false
	}
	n, err := orcid.Parse([]byte(raw))
	if err != nil {
		return orcid.Node{}, false
	}
	return n, n.Present()
}

func (f *fakeRegistry) FetchWorks(_ context.Context, id string) []orcid.Node {
	raw, ok := f.works[id]
	if !ok {
		return nil
	}
	n, err := orcid.Parse([]byte(raw))
	if err != nil {
		return nil
	}
	return n.Get("group").List()
}
