package models

import "time"

type AuditLog struct {
	ID uint `gorm:"primaryKey" json:"id"`

	Action string `gorm:"size:50;not null;index" json:"action"`

	Entity     string `gorm:"size:50" json:"entity"`
	EntityID   string `gorm:"size:255" json:"entity_id"`
	ResourceID string `gorm:"size:255" json:"resource_id"`
	Metadata   string `gorm:"type:text" json:"metadata"`

	CreatedAt time.Time `gorm:"index" json:"created_at"`
}
