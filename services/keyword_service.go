package services

import (
	"context"
	"errors"
	"strings"

	"academic-management-api/models"
	"academic-management-api/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ErrKeywordAlreadyLinked is returned when the publication already carries
// the keyword.
var ErrKeywordAlreadyLinked = errors.New("keyword already linked to publication")

// EnsureKeyword returns the keyword named text, creating it when missing.
// Names match case-insensitively and a retired keyword is reactivated.
func EnsureKeyword(ctx context.Context, tx *gorm.DB, text string) (*models.Keyword, error) {
	name := strings.TrimSpace(text)
	kw, _, err := firstOrCreate(ctx, tx,
		func(q *gorm.DB) *gorm.DB { return q.Where("LOWER(name) = ?", strings.ToLower(name)) },
		func() *models.Keyword { return &models.Keyword{Name: name} })
	if err != nil {
		return nil, err
	}
	if !kw.IsActive {
		if err := repository.New[models.Keyword](tx).Update(ctx, kw, map[string]interface{}{"is_active": true}); err != nil {
			return nil, err
		}
	}
	return kw, nil
}

// AttachKeyword links keywordID to the publication, reviving a retired
// link when one exists.
func AttachKeyword(ctx context.Context, tx *gorm.DB, publicationID, keywordID uuid.UUID) (*models.PublicationKeyword, error) {
	links := repository.New[models.PublicationKeyword](tx)
	existing, err := links.FindBy(ctx, "publication_id = ? AND keyword_id = ?", publicationID, keywordID)
	switch {
	case err == nil:
		if existing.IsActive {
			return existing, ErrKeywordAlreadyLinked
		}
		if err := links.Update(ctx, existing, map[string]interface{}{"is_active": true}); err != nil {
			return nil, err
		}
		return existing, nil
	case !errors.Is(err, repository.ErrNotFound):
		return nil, err
	}

	link := &models.PublicationKeyword{PublicationID: publicationID, KeywordID: keywordID}
	if err := links.Create(ctx, link); err != nil {
		return nil, err
	}
	return link, nil
}
