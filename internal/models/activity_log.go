package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// ActivityLog is the append-only audit trail shown on the dashboard.
type ActivityLog struct {
	ID          string         `gorm:"primaryKey;size:36" json:"_id"`
	Action      string         `gorm:"size:32;not null" json:"action"`
	Entity      Entity         `gorm:"size:16;not null;index" json:"entity"`
	EntityID    string         `gorm:"size:36" json:"entityId,omitempty"`
	Description string         `gorm:"not null" json:"description"`
	Metadata    datatypes.JSON `json:"metadata,omitempty"`
	CreatedAt   time.Time      `gorm:"index" json:"createdAt"`
	UpdatedAt   time.Time      `json:"updatedAt"`
}

func (l *ActivityLog) BeforeCreate(tx *gorm.DB) error {
	if l.ID == "" {
		l.ID = uuid.NewString()
	}
	return nil
}
