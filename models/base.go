package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Base carries the identity and lifecycle columns shared by every table.
// IsActive is a lifecycle flag: inactive rows are retired, never removed.
type Base struct {
	ID        uuid.UUID `gorm:"primaryKey;type:char(36);column:id" json:"id"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
	IsActive  bool      `gorm:"column:is_active;not null;default:true;index" json:"is_active"`
}

// BeforeCreate assigns the UUID and marks new rows active.
func (b *Base) BeforeCreate(tx *gorm.DB) error {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	b.IsActive = true
	return nil
}

// All returns every persisted model in dependency order, for migrations.
func All() []interface{} {
	return []interface{}{
		&Country{},
		&User{},
		&RefreshToken{},
		&Author{},
		&PublicationType{},
		&Journal{},
		&Conference{},
		&Keyword{},
		&Project{},
		&ProjectMember{},
		&Milestone{},
		&Deliverable{},
		&Acquisition{},
		&Publication{},
		&PublicationAuthor{},
		&PublicationKeyword{},
		&PublicationReference{},
		&OrcidSyncRun{},
	}
}
