package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"academic-management-api/config"
	"academic-management-api/models"
	"academic-management-api/orcid"

	"github.com/google/uuid"
	"github.com/sourcegraph/conc"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Registry is the read side of the ORCID API used by the sync.
type Registry interface {
	FetchProfile(ctx context.Context, orcidID string) (orcid.Node, bool)
	FetchWorks(ctx context.Context, orcidID string) []orcid.Node
}

// NewRegistryClient builds the ORCID client from the loaded configuration.
func NewRegistryClient() *orcid.Client {
	opts := []orcid.ClientOption{orcid.WithLogger(config.Log)}
	if config.App != nil {
		opts = append(opts,
			orcid.WithTimeout(config.App.Orcid.Timeout),
			orcid.WithRateLimit(config.App.Orcid.RateLimit),
		)
		if config.App.Orcid.BaseURL != "" {
			opts = append(opts, orcid.WithBaseURL(config.App.Orcid.BaseURL))
		}
	}
	return orcid.NewClient(opts...)
}

type ItemOutcome string

const (
	OutcomeAdded   ItemOutcome = "added"
	OutcomeSkipped ItemOutcome = "skipped"
	OutcomeFailed  ItemOutcome = "failed"
)

// ItemResult is the result of syncing one work group.
type ItemResult struct {
	Outcome    ItemOutcome `json:"outcome"`
	ExternalID string      `json:"external_id,omitempty"`
	Title      string      `json:"title,omitempty"`
	Reason     string      `json:"reason,omitempty"`
}

type SyncStats struct {
	Added   int `json:"added"`
	Skipped int `json:"skipped"`
	Failed  int `json:"failed"`
}

func (s *SyncStats) Record(r ItemResult) {
	switch r.Outcome {
	case OutcomeAdded:
		s.Added++
	case OutcomeSkipped:
		s.Skipped++
	case OutcomeFailed:
		s.Failed++
	}
}

type SyncAuthor struct {
	ID         uuid.UUID `json:"id"`
	Name       string    `json:"name"`
	ExternalID string    `json:"external_id"`
}

type SyncResult struct {
	Success bool         `json:"success"`
	Message string       `json:"message"`
	Author  *SyncAuthor  `json:"author,omitempty"`
	Stats   *SyncStats   `json:"stats,omitempty"`
	RunID   *uuid.UUID   `json:"run_id,omitempty"`
	Items   []ItemResult `json:"-"`
}

// OrcidSyncService imports one researcher's works into the local catalogue.
type OrcidSyncService struct {
	db       *gorm.DB
	registry Registry
	runs     *OrcidSyncRunService
	linker   Linker
	logger   *zap.Logger
}

func NewOrcidSyncService(db *gorm.DB, registry Registry) *OrcidSyncService {
	if db == nil {
		db = config.DB
	}
	if registry == nil {
		registry = NewRegistryClient()
	}
	return &OrcidSyncService{
		db:       db,
		registry: registry,
		runs:     NewOrcidSyncRunService(db),
		logger:   config.Log.Named("orcid-sync"),
	}
}

// Sync fetches the researcher's profile and works and reconciles each work
// in its own transaction. Item failures are counted, never returned; the
// error is non-nil only when the sync as a whole could not run.
func (s *OrcidSyncService) Sync(ctx context.Context, orcidID, trigger string) (*SyncResult, error) {
	orcidID = strings.ToUpper(strings.TrimSpace(orcidID))
	if !orcid.ValidID(orcidID) {
		return &SyncResult{Success: false, Message: "Invalid ORCID identifier"}, ErrInvalidOrcidID
	}

	run, err := s.runs.Start(ctx, orcidID, trigger)
	if err != nil {
		return nil, fmt.Errorf("start sync run: %w", err)
	}
	log := s.logger.With(zap.String("orcid_id", orcidID), zap.String("run_id", run.ID.String()))

	var (
		profileDoc orcid.Node
		profileOK  bool
		groups     []orcid.Node
	)
	var wg conc.WaitGroup
	wg.Go(func() { profileDoc, profileOK = s.registry.FetchProfile(ctx, orcidID) })
	wg.Go(func() { groups = s.registry.FetchWorks(ctx, orcidID) })
	wg.Wait()

	if !profileOK {
		s.markFailure(ctx, log, run.ID, SyncStats{}, ErrProfileUnavailable)
		return &SyncResult{Success: false, Message: "Could not retrieve the researcher profile from ORCID", RunID: &run.ID}, ErrProfileUnavailable
	}
	profile := orcid.ExtractProfile(orcidID, profileDoc)

	seed, err := EnsureSeedData(ctx, s.db)
	if err != nil {
		s.markFailure(ctx, log, run.ID, SyncStats{}, err)
		return nil, err
	}

	author, err := s.ensureAuthor(ctx, profile)
	if err != nil {
		s.markFailure(ctx, log, run.ID, SyncStats{}, err)
		return nil, err
	}

	reconciler := NewReconciler(seed)
	stats := SyncStats{}
	items := make([]ItemResult, 0, len(groups))
	var failures []ItemResult
	for _, group := range groups {
		res := s.syncGroup(ctx, reconciler, author.ID, group)
		stats.Record(res)
		items = append(items, res)
		if res.Outcome == OutcomeFailed {
			failures = append(failures, res)
			log.Warn("work failed", zap.String("external_id", res.ExternalID), zap.String("reason", res.Reason))
		}
	}

	if err := s.runs.MarkSuccess(ctx, run.ID, stats, failures); err != nil {
		log.Error("failed to finish sync run", zap.Error(err))
	}
	log.Info("orcid sync finished",
		zap.Int("works", len(groups)),
		zap.Int("added", stats.Added),
		zap.Int("skipped", stats.Skipped),
		zap.Int("failed", stats.Failed))

	return &SyncResult{
		Success: true,
		Message: fmt.Sprintf("Synchronization completed: %d added, %d skipped, %d failed", stats.Added, stats.Skipped, stats.Failed),
		Author: &SyncAuthor{
			ID:         author.ID,
			Name:       author.FullName(),
			ExternalID: orcidID,
		},
		Stats: &stats,
		RunID: &run.ID,
		Items: items,
	}, nil
}

func (s *OrcidSyncService) markFailure(ctx context.Context, log *zap.Logger, runID uuid.UUID, stats SyncStats, cause error) {
	log.Warn("orcid sync aborted", zap.Error(cause))
	if err := s.runs.MarkFailure(ctx, runID, stats, cause); err != nil {
		log.Error("failed to finish sync run", zap.Error(err))
	}
}

const itemAttempts = 2

// syncGroup reconciles and links one work group, committing on success.
func (s *OrcidSyncService) syncGroup(ctx context.Context, reconciler *Reconciler, authorID uuid.UUID, group orcid.Node) ItemResult {
	summary, ok := orcid.PreferredSummary(group)
	if !ok {
		return ItemResult{Outcome: OutcomeSkipped, Reason: "work group has no summary"}
	}
	work := orcid.ExtractWork(summary)
	if work.ExternalID == nil {
		return ItemResult{Outcome: OutcomeSkipped, Title: work.Title, Reason: "no identifier could be derived"}
	}
	res := ItemResult{ExternalID: *work.ExternalID, Title: work.Title}

	var (
		created bool
		err     error
	)
	// A duplicate key whose winner is invisible to the item transaction's
	// snapshot is retried in a fresh transaction.
	for attempt := 1; attempt <= itemAttempts; attempt++ {
		err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			pub, isNew, err := reconciler.Reconcile(ctx, tx, work)
			if err != nil {
				return err
			}
			created = isNew
			_, _, err = s.linker.Link(ctx, tx, pub.ID, authorID)
			return err
		})
		if !errors.Is(err, gorm.ErrDuplicatedKey) {
			break
		}
	}
	switch {
	case err != nil:
		res.Outcome = OutcomeFailed
		res.Reason = err.Error()
	case created:
		res.Outcome = OutcomeAdded
	default:
		res.Outcome = OutcomeSkipped
		res.Reason = "publication already exists"
	}
	return res
}

// ensureAuthor finds the author by ORCID iD, then by email (claiming an
// unattached record), creating one from the profile otherwise.
func (s *OrcidSyncService) ensureAuthor(ctx context.Context, p orcid.Profile) (*models.Author, error) {
	db := s.db.WithContext(ctx)

	var author models.Author
	err := db.Where("orcid_id = ?", p.OrcidID).First(&author).Error
	if err == nil {
		return &author, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	if p.Email != "" {
		err := db.Where("email = ?", p.Email).First(&author).Error
		switch {
		case err == nil && author.OrcidID == nil:
			if err := db.Model(&author).Update("orcid_id", p.OrcidID).Error; err != nil {
				return nil, err
			}
			author.OrcidID = &p.OrcidID
			return &author, nil
		case err != nil && !errors.Is(err, gorm.ErrRecordNotFound):
			return nil, err
		}
	}

	created, _, err := firstOrCreate(ctx, s.db,
		func(q *gorm.DB) *gorm.DB { return q.Where("orcid_id = ?", p.OrcidID) },
		func() *models.Author {
			a := &models.Author{
				FirstName: p.GivenName,
				LastName:  p.FamilyName,
				OrcidID:   optionalString(p.OrcidID),
			}
			if a.FirstName == "" && a.LastName == "" {
				a.FirstName = p.CreditName
			}
			// The email belongs to another researcher when the lookup above found it.
			if p.Email != "" && author.ID == uuid.Nil {
				a.Email = optionalString(p.Email)
			}
			a.Institution = optionalString(p.Affiliation)
			return a
		})
	if err != nil {
		return nil, fmt.Errorf("create author: %w", err)
	}
	return created, nil
}

func optionalString(v string) *string {
	v = strings.TrimSpace(v)
	if v == "" {
		return nil
	}
	return &v
}
