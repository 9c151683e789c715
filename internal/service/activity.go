package service

import (
	"context"
	"encoding/json"
	"log"

	"gorm.io/datatypes"

	"mess-admin-go/internal/models"
)

// logActivity appends to the audit trail. Failures are logged and dropped so
// they never undo the operation being described.
func (s *Service) logActivity(ctx context.Context, action string, entity models.Entity, entityID, description string, meta map[string]interface{}) {
	entry := models.ActivityLog{
		Action:      action,
		Entity:      entity,
		EntityID:    entityID,
		Description: description,
	}
	if len(meta) > 0 {
		b, err := json.Marshal(meta)
		if err != nil {
			log.Printf("activity metadata for %s %s: %v", entity, entityID, err)
		} else {
			entry.Metadata = datatypes.JSON(b)
		}
	}
	if err := s.conn(ctx).Create(&entry).Error; err != nil {
		log.Printf("activity log %s %s %s: %v", action, entity, entityID, err)
	}
}

// Activities returns the newest entries first.
func (s *Service) Activities(ctx context.Context, f ActivityFilter) ([]models.ActivityLog, error) {
	q := s.conn(ctx).Order("created_at desc").Limit(f.limit)
	if f.entity != "" {
		q = q.Where("entity = ?", f.entity)
	}
	out := []models.ActivityLog{}
	if err := q.Find(&out).Error; err != nil {
		return nil, translate(err, "list activities", "Activity")
	}
	return out, nil
}
