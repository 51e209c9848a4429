package models

import "time"

// Generation is the audit record of a successful image generation.
// StorageKey is empty when archiving is disabled.
type Generation struct {
	ID         uint      `json:"id" gorm:"primaryKey"`
	UserID     uint      `json:"user_id" gorm:"not null;index"`
	Prompt     string    `json:"prompt" gorm:"type:text;not null"`
	StorageKey string    `json:"storage_key,omitempty"`
	Size       int       `json:"size"`
	CreatedAt  time.Time `json:"created_at"`
}
