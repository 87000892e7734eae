package services

import (
	"context"
	"fmt"

	"academic-management-api/models"

	"gorm.io/gorm"
)

const (
	DefaultCountryName = "Unspecified"
	DefaultCountryCode = "ZZ"
)

// SeedData holds the reference rows every sync depends on.
type SeedData struct {
	DefaultCountry      models.Country
	ArticleType         models.PublicationType
	ConferencePaperType models.PublicationType
}

var baselinePublicationTypes = []struct {
	name        string
	description string
}{
	{models.PublicationTypeArticle, "Journal article"},
	{models.PublicationTypeConferencePaper, "Paper presented at a conference"},
}

// EnsureSeedData creates the placeholder country and the baseline
// publication types when missing. It is safe to call any number of times.
func EnsureSeedData(ctx context.Context, db *gorm.DB) (*SeedData, error) {
	seed := &SeedData{}

	country, _, err := firstOrCreate(ctx, db,
		func(q *gorm.DB) *gorm.DB { return q.Where("code = ?", DefaultCountryCode) },
		func() *models.Country {
			return &models.Country{Name: DefaultCountryName, Code: DefaultCountryCode}
		})
	if err != nil {
		return nil, fmt.Errorf("ensure default country: %w", err)
	}
	seed.DefaultCountry = *country

	for _, bt := range baselinePublicationTypes {
		bt := bt
		pt, _, err := firstOrCreate(ctx, db,
			func(q *gorm.DB) *gorm.DB { return q.Where("name = ?", bt.name) },
			func() *models.PublicationType {
				desc := bt.description
				return &models.PublicationType{Name: bt.name, Description: &desc}
			})
		if err != nil {
			return nil, fmt.Errorf("ensure publication type %q: %w", bt.name, err)
		}
		switch bt.name {
		case models.PublicationTypeArticle:
			seed.ArticleType = *pt
		case models.PublicationTypeConferencePaper:
			seed.ConferencePaperType = *pt
		}
	}

	return seed, nil
}
