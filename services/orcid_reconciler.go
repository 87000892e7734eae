package services

import (
	"context"
	"errors"
	"fmt"

	"academic-management-api/models"
	"academic-management-api/orcid"
	"academic-management-api/repository"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	placeholderQuartile         = "Q4"
	placeholderHIndex           = 0
	placeholderConferenceYear   = 2023
	placeholderConferenceDesc   = "Imported from ORCID"
	conferenceNamePrefix        = "Conference - "
	conferenceNameTitleMaxRunes = 50
)

// Reconciler maps registry works onto local publications.
type Reconciler struct {
	seed *SeedData
}

func NewReconciler(seed *SeedData) *Reconciler {
	return &Reconciler{seed: seed}
}

// FindExisting looks a work up by DOI first, then by its derived external id.
// Lookups match on identity regardless of lifecycle state.
func (r *Reconciler) FindExisting(ctx context.Context, tx *gorm.DB, work orcid.Work) (*models.Publication, error) {
	pubs := repository.New[models.Publication](tx)
	if work.DOI != nil {
		pub, err := pubs.FindBy(ctx, "doi = ?", *work.DOI)
		if err == nil {
			return pub, nil
		}
		if !errors.Is(err, repository.ErrNotFound) {
			return nil, err
		}
	}
	if work.ExternalID != nil {
		pub, err := pubs.FindBy(ctx, "external_id = ?", *work.ExternalID)
		if err == nil {
			return pub, nil
		}
		if !errors.Is(err, repository.ErrNotFound) {
			return nil, err
		}
	}
	return nil, repository.ErrNotFound
}

// Reconcile returns the local publication for work, creating it and any
// missing venue when absent. Existing publications are never modified.
func (r *Reconciler) Reconcile(ctx context.Context, tx *gorm.DB, work orcid.Work) (*models.Publication, bool, error) {
	if work.ExternalID == nil {
		return nil, false, errors.New("work has no external identifier")
	}

	existing, err := r.FindExisting(ctx, tx, work)
	if err == nil {
		return existing, false, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, false, err
	}

	pub := &models.Publication{
		Title:      work.Title,
		Abstract:   work.ShortDescription,
		DOI:        work.DOI,
		ExternalID: work.ExternalID,
		URL:        work.URL,
		Year:       work.Year,
		Month:      work.Month,
		Day:        work.Day,
	}
	if work.Date != nil {
		d := datatypes.Date(*work.Date)
		pub.PublicationDate = &d
	}

	if work.IsJournalArticle() {
		journal, err := r.ensureJournal(ctx, tx, work.JournalTitle)
		if err != nil {
			return nil, false, err
		}
		pub.JournalID = &journal.ID
		pub.PublicationTypeID = r.seed.ArticleType.ID
	} else {
		conference, err := r.ensureConference(ctx, tx, work)
		if err != nil {
			return nil, false, err
		}
		pub.ConferenceID = &conference.ID
		pub.PublicationTypeID = r.seed.ConferencePaperType.ID
	}

	// A concurrent sync may insert the same work first; its row then wins.
	createErr := tx.WithContext(ctx).Transaction(func(sp *gorm.DB) error {
		return sp.Create(pub).Error
	})
	if createErr == nil {
		return pub, true, nil
	}
	if errors.Is(createErr, gorm.ErrDuplicatedKey) {
		if winner, err := r.FindExisting(ctx, tx, work); err == nil {
			return winner, false, nil
		}
	}
	return nil, false, fmt.Errorf("create publication %q: %w", *work.ExternalID, createErr)
}

func (r *Reconciler) defaultCountryID() *uuid.UUID {
	if r.seed == nil || r.seed.DefaultCountry.ID == uuid.Nil {
		return nil
	}
	id := r.seed.DefaultCountry.ID
	return &id
}

func (r *Reconciler) ensureJournal(ctx context.Context, tx *gorm.DB, name string) (*models.Journal, error) {
	journal, _, err := firstOrCreate(ctx, tx,
		func(q *gorm.DB) *gorm.DB { return q.Where("name = ?", name) },
		func() *models.Journal {
			quartile := placeholderQuartile
			hIndex := placeholderHIndex
			return &models.Journal{
				Name:      name,
				Quartile:  &quartile,
				HIndex:    &hIndex,
				CountryID: r.defaultCountryID(),
			}
		})
	if err != nil {
		return nil, fmt.Errorf("ensure journal %q: %w", name, err)
	}
	return journal, nil
}

// ConferenceBucket is the placeholder (name, year) identity given to works
// without a journal: the registry carries no real conference identity.
func ConferenceBucket(work orcid.Work) (string, int) {
	title := []rune(work.Title)
	if len(title) > conferenceNameTitleMaxRunes {
		title = title[:conferenceNameTitleMaxRunes]
	}
	year := placeholderConferenceYear
	if work.Year != nil {
		year = *work.Year
	}
	return conferenceNamePrefix + string(title), year
}

func (r *Reconciler) ensureConference(ctx context.Context, tx *gorm.DB, work orcid.Work) (*models.Conference, error) {
	name, year := ConferenceBucket(work)
	conference, _, err := firstOrCreate(ctx, tx,
		func(q *gorm.DB) *gorm.DB { return q.Where("name = ? AND year = ?", name, year) },
		func() *models.Conference {
			desc := placeholderConferenceDesc
			return &models.Conference{
				Name:        name,
				Year:        year,
				Description: &desc,
				CountryID:   r.defaultCountryID(),
			}
		})
	if err != nil {
		return nil, fmt.Errorf("ensure conference %q (%d): %w", name, year, err)
	}
	return conference, nil
}
