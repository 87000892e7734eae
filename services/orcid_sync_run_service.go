package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"academic-management-api/config"
	"academic-management-api/models"
	"academic-management-api/repository"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type OrcidSyncRunService struct {
	db *gorm.DB
}

func NewOrcidSyncRunService(db *gorm.DB) *OrcidSyncRunService {
	if db == nil {
		db = config.DB
	}
	return &OrcidSyncRunService{db: db}
}

func (s *OrcidSyncRunService) Start(ctx context.Context, orcidID, trigger string) (*models.OrcidSyncRun, error) {
	if trigger == "" {
		trigger = "unknown"
	}
	run := &models.OrcidSyncRun{
		OrcidID:       orcidID,
		TriggerSource: trigger,
		Status:        models.OrcidSyncRunStatusRunning,
	}
	if err := s.db.WithContext(ctx).Create(run).Error; err != nil {
		return nil, err
	}
	return run, nil
}

func (s *OrcidSyncRunService) MarkSuccess(ctx context.Context, runID uuid.UUID, stats SyncStats, failures []ItemResult) error {
	return s.finish(ctx, runID, models.OrcidSyncRunStatusSuccess, stats, failures, nil)
}

func (s *OrcidSyncRunService) MarkFailure(ctx context.Context, runID uuid.UUID, stats SyncStats, err error) error {
	msg := ""
	if err != nil {
		msg = err.Error()
	}
	return s.finish(ctx, runID, models.OrcidSyncRunStatusFailed, stats, nil, &msg)
}

type runFailure struct {
	ExternalID string `json:"external_id,omitempty"`
	Title      string `json:"title,omitempty"`
	Error      string `json:"error"`
}

func (s *OrcidSyncRunService) finish(ctx context.Context, runID uuid.UUID, status string, stats SyncStats, failures []ItemResult, errMsg *string) error {
	updates := map[string]interface{}{
		"status":      status,
		"finished_at": time.Now(),
		"added":       stats.Added,
		"skipped":     stats.Skipped,
		"failed":      stats.Failed,
	}
	if len(failures) > 0 {
		details := make([]runFailure, 0, len(failures))
		for _, f := range failures {
			details = append(details, runFailure{ExternalID: f.ExternalID, Title: f.Title, Error: f.Reason})
		}
		raw, err := json.Marshal(details)
		if err != nil {
			return err
		}
		updates["failures"] = datatypes.JSON(raw)
	}
	if errMsg != nil {
		if len(*errMsg) > 1000 {
			updates["error_message"] = fmt.Sprintf("%s...", (*errMsg)[:997])
		} else {
			updates["error_message"] = *errMsg
		}
	}
	res := s.db.WithContext(detached(ctx)).Model(&models.OrcidSyncRun{}).Where("id = ?", runID).Updates(updates)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrOrcidSyncRunNotFound
	}
	return nil
}

// List returns sync runs, newest first, optionally filtered by researcher.
func (s *OrcidSyncRunService) List(ctx context.Context, orcidID string, page, perPage int) (*repository.Page[models.OrcidSyncRun], error) {
	q := repository.ListQuery{
		Page:         page,
		PerPage:      perPage,
		SortBy:       "started_at",
		SortDir:      "desc",
		AllowedSorts: []string{"started_at"},
	}
	if orcidID != "" {
		q.Scopes = append(q.Scopes, func(db *gorm.DB) *gorm.DB { return db.Where("orcid_id = ?", orcidID) })
	}
	return repository.New[models.OrcidSyncRun](s.db).List(ctx, q)
}

// detached keeps run bookkeeping writes alive after the request is cancelled.
func detached(ctx context.Context) context.Context {
	if ctx == nil {
		return context.Background()
	}
	return context.WithoutCancel(ctx)
}
