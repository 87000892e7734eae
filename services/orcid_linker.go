package services

import (
	"context"
	"errors"

	"academic-management-api/models"
	"academic-management-api/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Linker attaches authors to publications.
type Linker struct{}

// NextAuthorOrder is one past the highest order ever assigned on the
// publication, retired links included, so orders are never reused.
func (Linker) NextAuthorOrder(ctx context.Context, tx *gorm.DB, publicationID uuid.UUID) (int, error) {
	current, err := repository.New[models.PublicationAuthor](tx).
		MaxInt(ctx, "author_order", "publication_id = ?", publicationID)
	if err != nil {
		return 0, err
	}
	return current + 1, nil
}

// Link ensures the (publication, author) association exists and is active.
// It reports whether anything was written. A retired link is reactivated
// with its original order.
func (l Linker) Link(ctx context.Context, tx *gorm.DB, publicationID, authorID uuid.UUID) (*models.PublicationAuthor, bool, error) {
	links := repository.New[models.PublicationAuthor](tx)

	existing, err := links.FindBy(ctx, "publication_id = ? AND author_id = ?", publicationID, authorID)
	switch {
	case err == nil:
		if existing.IsActive {
			return existing, false, nil
		}
		if err := links.Update(ctx, existing, map[string]interface{}{"is_active": true}); err != nil {
			return nil, false, err
		}
		existing.IsActive = true
		return existing, true, nil
	case !errors.Is(err, repository.ErrNotFound):
		return nil, false, err
	}

	order, err := l.NextAuthorOrder(ctx, tx, publicationID)
	if err != nil {
		return nil, false, err
	}

	link := &models.PublicationAuthor{
		PublicationID:   publicationID,
		AuthorID:        authorID,
		AuthorOrder:     order,
		IsCorresponding: false,
	}
	createErr := tx.WithContext(ctx).Transaction(func(sp *gorm.DB) error {
		return sp.Create(link).Error
	})
	if createErr != nil {
		if winner, err := links.FindBy(ctx, "publication_id = ? AND author_id = ?", publicationID, authorID); err == nil {
			return winner, false, nil
		}
		return nil, false, createErr
	}
	return link, true, nil
}
