package services

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"academic-management-api/models"
	"academic-management-api/orcid"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

const (
	carberry = "0000-0002-1825-0097"
	lovelace = "0000-0001-5109-3700"
	turing   = "0000-0003-1234-567X"
)

func profileJSON(given, family, email string) string {
	emails := `[]`
	if email != "" {
		emails = fmt.Sprintf(`[{"email": %q}]`, email)
	}
	return fmt.Sprintf(`{"person": {
		"name": {"given-names": {"value": %q}, "family-name": {"value": %q}},
		"emails": {"email": %s},
		"employments": {"employment-summary": [{"organization": {"name": "Brown University"}}]}
	}}`, given, family, emails)
}

func journalWork(putCode int, title, journal, doi string) string {
	return fmt.Sprintf(`{"work-summary": [{
		"put-code": %d,
		"type": "journal-article",
		"title": {"title": {"value": %q}},
		"journal-title": {"value": %q},
		"external-ids": {"external-id": [{"external-id-type": "doi", "external-id-value": %q}]},
		"publication-date": {"year": {"value": "2020"}, "month": {"value": "13"}, "day": {"value": "32"}}
	}]}`, putCode, title, journal, doi)
}

func conferenceWork(putCode int, title string) string {
	return fmt.Sprintf(`{"work-summary": [{
		"put-code": %d,
		"type": "conference-paper",
		"title": {"title": {"value": %q}}
	}]}`, putCode, title)
}

func worksJSON(groups ...string) string {
	return `{"group": [` + strings.Join(groups, ",") + `]}`
}

func newSyncFixture(t *testing.T) (*gorm.DB, *fakeRegistry, *OrcidSyncService) {
	t.Helper()
	db := newTestDB(t)
	reg := &fakeRegistry{profiles: map[string]string{}, works: map[string]string{}}
	return db, reg, NewOrcidSyncService(db, reg)
}

func count(t *testing.T, db *gorm.DB, model interface{}, query string, args ...interface{}) int64 {
	t.Helper()
	var n int64
	q := db.Model(model)
	if query != "" {
		q = q.Where(query, args...)
	}
	require.NoError(t, q.Count(&n).Error)
	return n
}

func TestSync_ImportsWorksAndIsIdempotent(t *testing.T) {
	ctx := context.Background()
	db, reg, svc := newSyncFixture(t)
	reg.profiles[carberry] = profileJSON("Josiah", "Carberry", "jc@example.edu")
	reg.works[carberry] = worksJSON(
		journalWork(1, "Graphene", "Nature", "10.1/graphene"),
		conferenceWork(2, "Workshop talk"),
		`{"work-summary": []}`,
	)

	res, err := svc.Sync(ctx, carberry, "test")
	require.NoError(t, err)
	assert.True(t, res.Success)
	assert.Equal(t, SyncStats{Added: 2, Skipped: 1, Failed: 0}, *res.Stats)
	assert.Equal(t, "Synchronization completed: 2 added, 1 skipped, 0 failed", res.Message)
	require.NotNil(t, res.Author)
	assert.Equal(t, "Josiah Carberry", res.Author.Name)
	assert.Equal(t, carberry, res.Author.ExternalID)

	assert.Equal(t, int64(2), count(t, db, &models.Publication{}, ""))
	assert.Equal(t, int64(2), count(t, db, &models.PublicationAuthor{}, "author_id = ?", res.Author.ID))

	again, err := svc.Sync(ctx, carberry, "test")
	require.NoError(t, err)
	assert.Equal(t, SyncStats{Added: 0, Skipped: 3, Failed: 0}, *again.Stats)
	assert.Equal(t, res.Author.ID, again.Author.ID)
	assert.Equal(t, int64(2), count(t, db, &models.Publication{}, ""))
	assert.Equal(t, int64(2), count(t, db, &models.PublicationAuthor{}, ""))
	assert.Equal(t, int64(1), count(t, db, &models.Author{}, ""))
	assert.Equal(t, int64(1), count(t, db, &models.Journal{}, ""))
	assert.Equal(t, int64(1), count(t, db, &models.Conference{}, ""))

	var runs []models.OrcidSyncRun
	require.NoError(t, db.Order("started_at").Find(&runs).Error)
	require.Len(t, runs, 2)
	assert.Equal(t, models.OrcidSyncRunStatusSuccess, runs[0].Status)
	assert.Equal(t, 2, runs[0].Added)
	assert.NotNil(t, runs[0].FinishedAt)
}

func TestSync_VenueDiscriminationAndPlaceholders(t *testing.T) {
	ctx := context.Background()
	db, reg, svc := newSyncFixture(t)
	reg.profiles[carberry] = profileJSON("Josiah", "Carberry", "")
	longTitle := strings.Repeat("x", 60)
	reg.works[carberry] = worksJSON(
		journalWork(1, "Graphene", "Nature", "10.1/graphene"),
		conferenceWork(2, longTitle),
	)

	_, err := svc.Sync(ctx, carberry, "test")
	require.NoError(t, err)

	var article models.Publication
	require.NoError(t, db.Preload("Journal").Preload("PublicationType").
		Where("doi = ?", "10.1/graphene").First(&article).Error)
	require.NotNil(t, article.Journal)
	assert.Nil(t, article.ConferenceID)
	assert.Equal(t, "Nature", article.Journal.Name)
	assert.Equal(t, "Q4", *article.Journal.Quartile)
	assert.Equal(t, 0, *article.Journal.HIndex)
	assert.Equal(t, models.PublicationTypeArticle, article.PublicationType.Name)
	assert.Equal(t, 2020, *article.Year)
	assert.Nil(t, article.Month)
	assert.Nil(t, article.Day)
	assert.Equal(t, "https://doi.org/10.1/graphene", *article.URL)

	var paper models.Publication
	require.NoError(t, db.Preload("Conference").Preload("PublicationType").
		Where("external_id = ?", "orcid_work:2").First(&paper).Error)
	require.NotNil(t, paper.Conference)
	assert.Nil(t, paper.JournalID)
	assert.Equal(t, "Conference - "+strings.Repeat("x", 50), paper.Conference.Name)
	assert.Equal(t, 2023, paper.Conference.Year)
	assert.Equal(t, "Imported from ORCID", *paper.Conference.Description)
	assert.Equal(t, models.PublicationTypeConferencePaper, paper.PublicationType.Name)

	var country models.Country
	require.NoError(t, db.Where("id = ?", *paper.Conference.CountryID).First(&country).Error)
	assert.Equal(t, "ZZ", country.Code)
	assert.Equal(t, "Unspecified", country.Name)
}

func TestSync_SharedWorkGetsIncreasingAuthorOrder(t *testing.T) {
	ctx := context.Background()
	db, reg, svc := newSyncFixture(t)
	shared := worksJSON(journalWork(1, "Joint paper", "Science", "10.1/joint"))
	for _, id := range []string{carberry, lovelace, turing} {
		reg.profiles[id] = profileJSON("Given "+id[15:], "Family", "")
		reg.works[id] = shared
	}

	var authorIDs []string
	for _, id := range []string{carberry, lovelace, turing} {
		res, err := svc.Sync(ctx, id, "test")
		require.NoError(t, err)
		authorIDs = append(authorIDs, res.Author.ID.String())
	}

	var links []models.PublicationAuthor
	require.NoError(t, db.Order("author_order").Find(&links).Error)
	require.Len(t, links, 3)
	for i, l := range links {
		assert.Equal(t, i+1, l.AuthorOrder)
		assert.Equal(t, authorIDs[i], l.AuthorID.String())
	}
	assert.Equal(t, int64(1), count(t, db, &models.Publication{}, ""))
}

func TestSync_ItemFailureDoesNotAbortRun(t *testing.T) {
	ctx := context.Background()
	db, reg, svc := newSyncFixture(t)
	require.NoError(t, db.Callback().Create().Before("gorm:create").Register("test:reject_broken", func(tx *gorm.DB) {
		if pub, ok := tx.Statement.Dest.(*models.Publication); ok && pub.Title == "Broken" {
			_ = tx.AddError(errors.New("simulated write failure"))
		}
	}))

	reg.profiles[carberry] = profileJSON("Josiah", "Carberry", "")
	reg.works[carberry] = worksJSON(
		journalWork(1, "First", "Nature", "10.1/first"),
		journalWork(2, "Broken", "Nature", "10.1/broken"),
		conferenceWork(3, "Third"),
	)

	res, err := svc.Sync(ctx, carberry, "test")
	require.NoError(t, err)
	assert.True(t, res.Success)
	assert.Equal(t, SyncStats{Added: 2, Skipped: 0, Failed: 1}, *res.Stats)
	assert.Equal(t, int64(2), count(t, db, &models.Publication{}, ""))
	assert.Equal(t, int64(0), count(t, db, &models.Publication{}, "doi = ?", "10.1/broken"))

	var run models.OrcidSyncRun
	require.NoError(t, db.First(&run, "id = ?", *res.RunID).Error)
	assert.Equal(t, models.OrcidSyncRunStatusSuccess, run.Status)
	assert.Equal(t, 1, run.Failed)
	assert.Contains(t, string(run.Failures), "doi:10.1/broken")
	assert.Contains(t, string(run.Failures), "simulated write failure")
}

func TestSync_InvalidIDMakesNoCalls(t *testing.T) {
	db, _, svc := newSyncFixture(t)
	res, err := svc.Sync(context.Background(), "1234", "test")
	assert.ErrorIs(t, err, ErrInvalidOrcidID)
	require.NotNil(t, res)
	assert.False(t, res.Success)
	assert.Equal(t, int64(0), count(t, db, &models.OrcidSyncRun{}, ""))
}

func TestSync_ProfileUnavailableFailsRun(t *testing.T) {
	db, reg, svc := newSyncFixture(t)
	reg.works[carberry] = worksJSON(conferenceWork(1, "Orphan"))

	res, err := svc.Sync(context.Background(), carberry, "test")
	assert.ErrorIs(t, err, ErrProfileUnavailable)
	require.NotNil(t, res)
	assert.False(t, res.Success)
	assert.Equal(t, int64(0), count(t, db, &models.Publication{}, ""))

	var run models.OrcidSyncRun
	require.NoError(t, db.First(&run).Error)
	assert.Equal(t, models.OrcidSyncRunStatusFailed, run.Status)
	require.NotNil(t, run.ErrorMessage)
}

func TestSync_ClaimsAuthorByEmail(t *testing.T) {
	ctx := context.Background()
	db, reg, svc := newSyncFixture(t)
	email := "jc@example.edu"
	existing := models.Author{FirstName: "J.", LastName: "Carberry", Email: &email}
	require.NoError(t, db.Create(&existing).Error)

	reg.profiles[carberry] = profileJSON("Josiah", "Carberry", email)
	res, err := svc.Sync(ctx, carberry, "test")
	require.NoError(t, err)
	assert.Equal(t, existing.ID, res.Author.ID)

	var reloaded models.Author
	require.NoError(t, db.First(&reloaded, "id = ?", existing.ID).Error)
	require.NotNil(t, reloaded.OrcidID)
	assert.Equal(t, carberry, *reloaded.OrcidID)
}

func TestSync_RetiredPublicationIsNotDuplicated(t *testing.T) {
	ctx := context.Background()
	db, reg, svc := newSyncFixture(t)
	reg.profiles[carberry] = profileJSON("Josiah", "Carberry", "")
	reg.works[carberry] = worksJSON(journalWork(1, "Graphene", "Nature", "10.1/graphene"))

	_, err := svc.Sync(ctx, carberry, "test")
	require.NoError(t, err)
	require.NoError(t, db.Model(&models.Publication{}).Where("doi = ?", "10.1/graphene").Update("is_active", false).Error)

	res, err := svc.Sync(ctx, carberry, "test")
	require.NoError(t, err)
	assert.Equal(t, 1, res.Stats.Skipped)
	assert.Equal(t, int64(1), count(t, db, &models.Publication{}, ""))
}

func TestSync_ThroughRegistryClient(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/" + carberry:
			_, _ = w.Write([]byte(profileJSON("Josiah", "Carberry", "")))
		case "/" + carberry + "/works":
			_, _ = w.Write([]byte(worksJSON(journalWork(1, "Graphene", "Nature", "10.1/graphene"))))
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	db := newTestDB(t)
	svc := NewOrcidSyncService(db, orcid.NewClient(orcid.WithBaseURL(srv.URL), orcid.WithRateLimit(0)))
	res, err := svc.Sync(context.Background(), carberry, "test")
	require.NoError(t, err)
	assert.Equal(t, 1, res.Stats.Added)

	_, err = svc.Sync(context.Background(), lovelace, "test")
	assert.ErrorIs(t, err, ErrProfileUnavailable)
}

func TestFetchAuthor_PreviewsWithoutImporting(t *testing.T) {
	db, reg, svc := newSyncFixture(t)
	reg.profiles[carberry] = profileJSON("Josiah", "Carberry", "jc@example.edu")
	reg.works[carberry] = worksJSON(journalWork(1, "Graphene", "Nature", "10.1/graphene"), `{"work-summary": []}`)

	author, works, err := svc.FetchAuthor(context.Background(), carberry)
	require.NoError(t, err)
	assert.Equal(t, "Josiah", author.FirstName)
	require.NotNil(t, author.Institution)
	assert.Equal(t, "Brown University", *author.Institution)
	require.Len(t, works, 1)
	assert.Equal(t, "Graphene", works[0].Title)
	assert.Equal(t, int64(0), count(t, db, &models.Publication{}, ""))
}

func TestSync_ConcurrentInsertOfSameWorkIsSkippedAndLinked(t *testing.T) {
	ctx := context.Background()
	db, reg, svc := newSyncFixture(t)
	seed, err := EnsureSeedData(ctx, db)
	require.NoError(t, err)
	reg.profiles[carberry] = profileJSON("Josiah", "Carberry", "")
	reg.works[carberry] = worksJSON(journalWork(1, "Graphene", "Nature", "10.1/graphene"))

	// Another sync commits the same work right after this one's identity lookups miss.
	var winner models.Publication
	inserted := false
	require.NoError(t, db.Callback().Query().After("gorm:query").Register("test:concurrent_winner", func(tx *gorm.DB) {
		if inserted || tx.Statement.Table != "publications" || !strings.Contains(tx.Statement.SQL.String(), "external_id") {
			return
		}
		inserted = true
		doi, extID := "10.1/graphene", "doi:10.1/graphene"
		winner = models.Publication{Title: "Graphene", DOI: &doi, ExternalID: &extID, PublicationTypeID: seed.ArticleType.ID}
		_ = tx.AddError(tx.Session(&gorm.Session{NewDB: true}).Create(&winner).Error)
	}))

	res, err := svc.Sync(ctx, carberry, "test")
	require.NoError(t, err)
	require.True(t, inserted)
	assert.Equal(t, SyncStats{Skipped: 1}, *res.Stats)

	assert.EqualValues(t, 1, count(t, db, &models.Publication{}, "doi = ?", "10.1/graphene"))
	assert.EqualValues(t, 1, count(t, db, &models.PublicationAuthor{}, "publication_id = ? AND author_id = ?", winner.ID, res.Author.ID))
}

func TestSync_DuplicateKeyOutsideSnapshotIsRetried(t *testing.T) {
	ctx := context.Background()
	db, reg, svc := newSyncFixture(t)
	reg.profiles[carberry] = profileJSON("Josiah", "Carberry", "")
	reg.works[carberry] = worksJSON(journalWork(1, "Graphene", "Nature", "10.1/graphene"))

	// The first insert reports a duplicate whose row the transaction cannot see.
	attempts := 0
	require.NoError(t, db.Callback().Create().Before("gorm:create").Register("test:unseen_duplicate", func(tx *gorm.DB) {
		if _, ok := tx.Statement.Dest.(*models.Publication); !ok {
			return
		}
		attempts++
		if attempts == 1 {
			_ = tx.AddError(gorm.ErrDuplicatedKey)
		}
	}))

	res, err := svc.Sync(ctx, carberry, "test")
	require.NoError(t, err)
	assert.Equal(t, 2, attempts)
	assert.Equal(t, SyncStats{Added: 1}, *res.Stats)
	assert.EqualValues(t, 1, count(t, db, &models.Publication{}, "doi = ?", "10.1/graphene"))
}
