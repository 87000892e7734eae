package models

import (
	"time"

	"gorm.io/datatypes"
)

const (
	OrcidSyncRunStatusRunning = "running"
	OrcidSyncRunStatusSuccess = "success"
	OrcidSyncRunStatusFailed  = "failed"
)

// OrcidSyncRun records one sync of one researcher.
type OrcidSyncRun struct {
	Base
	OrcidID       string         `gorm:"column:orcid_id;type:varchar(19);not null;index" json:"orcid_id"`
	TriggerSource string         `gorm:"column:trigger_source;type:varchar(64);not null" json:"trigger_source"`
	Status        string         `gorm:"column:status;type:varchar(16);not null;default:'running'" json:"status"`
	ErrorMessage  *string        `gorm:"column:error_message;type:text" json:"error_message"`
	StartedAt     time.Time      `gorm:"column:started_at;autoCreateTime" json:"started_at"`
	FinishedAt    *time.Time     `gorm:"column:finished_at" json:"finished_at"`
	Added         int            `gorm:"column:added;not null;default:0" json:"added"`
	Skipped       int            `gorm:"column:skipped;not null;default:0" json:"skipped"`
	Failed        int            `gorm:"column:failed;not null;default:0" json:"failed"`
	Failures      datatypes.JSON `gorm:"column:failures" json:"failures"`
}

func (OrcidSyncRun) TableName() string { return "orcid_sync_runs" }
