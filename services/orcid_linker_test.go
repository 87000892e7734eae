package services

import (
	"context"
	"testing"

	"academic-management-api/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func seedPublication(t *testing.T, db *gorm.DB) (models.Publication, []models.Author) {
	t.Helper()
	pub := models.Publication{Title: "Linked"}
	require.NoError(t, db.Create(&pub).Error)
	authors := []models.Author{{FirstName: "A", LastName: "One"}, {FirstName: "B", LastName: "Two"}, {FirstName: "C", LastName: "Three"}}
	require.NoError(t, db.Create(&authors).Error)
	return pub, authors
}

func TestLinker_OrdersAreNeverReused(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	pub, authors := seedPublication(t, db)
	l := Linker{}

	first, created, err := l.Link(ctx, db, pub.ID, authors[0].ID)
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, 1, first.AuthorOrder)

	second, _, err := l.Link(ctx, db, pub.ID, authors[1].ID)
	require.NoError(t, err)
	assert.Equal(t, 2, second.AuthorOrder)

	// retire the last link; the next author still gets a fresh order
	require.NoError(t, db.Model(second).Update("is_active", false).Error)
	third, _, err := l.Link(ctx, db, pub.ID, authors[2].ID)
	require.NoError(t, err)
	assert.Equal(t, 3, third.AuthorOrder)

	// relinking a retired author revives the original order
	revived, changed, err := l.Link(ctx, db, pub.ID, authors[1].ID)
	require.NoError(t, err)
	assert.True(t, changed)
	assert.True(t, revived.IsActive)
	assert.Equal(t, 2, revived.AuthorOrder)
}

func TestLinker_LinkIsIdempotent(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	pub, authors := seedPublication(t, db)
	l := Linker{}

	_, _, err := l.Link(ctx, db, pub.ID, authors[0].ID)
	require.NoError(t, err)
	again, created, err := l.Link(ctx, db, pub.ID, authors[0].ID)
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, 1, again.AuthorOrder)

	var n int64
	require.NoError(t, db.Model(&models.PublicationAuthor{}).Count(&n).Error)
	assert.Equal(t, int64(1), n)
}

func TestEnsureSeedData_IsRepeatable(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)

	first, err := EnsureSeedData(ctx, db)
	require.NoError(t, err)
	second, err := EnsureSeedData(ctx, db)
	require.NoError(t, err)

	assert.Equal(t, first.DefaultCountry.ID, second.DefaultCountry.ID)
	assert.Equal(t, first.ArticleType.ID, second.ArticleType.ID)
	assert.Equal(t, models.PublicationTypeConferencePaper, second.ConferencePaperType.Name)

	var types int64
	require.NoError(t, db.Model(&models.PublicationType{}).Count(&types).Error)
	assert.Equal(t, int64(2), types)
}

func TestKeywords_EnsureAndAttach(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	pub, _ := seedPublication(t, db)

	kw, err := EnsureKeyword(ctx, db, "  Graphene ")
	require.NoError(t, err)
	assert.Equal(t, "Graphene", kw.Name)

	same, err := EnsureKeyword(ctx, db, "graphene")
	require.NoError(t, err)
	assert.Equal(t, kw.ID, same.ID)

	link, err := AttachKeyword(ctx, db, pub.ID, kw.ID)
	require.NoError(t, err)
	_, err = AttachKeyword(ctx, db, pub.ID, kw.ID)
	assert.ErrorIs(t, err, ErrKeywordAlreadyLinked)

	require.NoError(t, db.Model(link).Update("is_active", false).Error)
	revived, err := AttachKeyword(ctx, db, pub.ID, kw.ID)
	require.NoError(t, err)
	assert.Equal(t, link.ID, revived.ID)
	assert.True(t, revived.IsActive)
}
