package services

import (
	"context"
	"errors"
	"strings"

	"academic-management-api/models"
	"academic-management-api/orcid"
	"academic-management-api/repository"

	"github.com/sourcegraph/conc"
)

// Profile fetches the researcher projection without touching the database.
func (s *OrcidSyncService) Profile(ctx context.Context, orcidID string) (*orcid.Profile, error) {
	orcidID = strings.ToUpper(strings.TrimSpace(orcidID))
	if !orcid.ValidID(orcidID) {
		return nil, ErrInvalidOrcidID
	}
	doc, ok := s.registry.FetchProfile(ctx, orcidID)
	if !ok {
		return nil, ErrProfileUnavailable
	}
	p := orcid.ExtractProfile(orcidID, doc)
	return &p, nil
}

// Works fetches the researcher's works, one preferred summary per group.
// Groups without a summary are left out.
func (s *OrcidSyncService) Works(ctx context.Context, orcidID string) ([]orcid.Work, error) {
	orcidID = strings.ToUpper(strings.TrimSpace(orcidID))
	if !orcid.ValidID(orcidID) {
		return nil, ErrInvalidOrcidID
	}
	return flattenWorks(s.registry.FetchWorks(ctx, orcidID)), nil
}

func flattenWorks(groups []orcid.Node) []orcid.Work {
	works := make([]orcid.Work, 0, len(groups))
	for _, g := range groups {
		if summary, ok := orcid.PreferredSummary(g); ok {
			works = append(works, orcid.ExtractWork(summary))
		}
	}
	return works
}

// FetchAuthor creates or refreshes the local author from the registry and
// returns it with a preview of the works. Publications are not written.
func (s *OrcidSyncService) FetchAuthor(ctx context.Context, orcidID string) (*models.Author, []orcid.Work, error) {
	orcidID = strings.ToUpper(strings.TrimSpace(orcidID))
	if !orcid.ValidID(orcidID) {
		return nil, nil, ErrInvalidOrcidID
	}

	var (
		doc    orcid.Node
		ok     bool
		groups []orcid.Node
	)
	var wg conc.WaitGroup
	wg.Go(func() { doc, ok = s.registry.FetchProfile(ctx, orcidID) })
	wg.Go(func() { groups = s.registry.FetchWorks(ctx, orcidID) })
	wg.Wait()
	if !ok {
		return nil, nil, ErrProfileUnavailable
	}
	profile := orcid.ExtractProfile(orcidID, doc)

	author, err := s.ensureAuthor(ctx, profile)
	if err != nil {
		return nil, nil, err
	}

	updates := map[string]interface{}{}
	if profile.GivenName != "" && profile.GivenName != author.FirstName {
		updates["first_name"] = profile.GivenName
	}
	if profile.FamilyName != "" && profile.FamilyName != author.LastName {
		updates["last_name"] = profile.FamilyName
	}
	if profile.Affiliation != "" && (author.Institution == nil || *author.Institution != profile.Affiliation) {
		updates["institution"] = profile.Affiliation
	}
	if profile.Email != "" && author.Email == nil {
		_, err := repository.New[models.Author](s.db).FindBy(ctx, "email = ?", profile.Email)
		switch {
		case errors.Is(err, repository.ErrNotFound):
			updates["email"] = profile.Email
		case err != nil:
			return nil, nil, err
		}
	}
	if err := repository.New[models.Author](s.db).Update(ctx, author, updates); err != nil {
		return nil, nil, err
	}

	return author, flattenWorks(groups), nil
}
