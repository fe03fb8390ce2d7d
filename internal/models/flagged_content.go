package models

import (
	"time"
)

// FlaggedContent is the moderation audit trail. Rows are only ever inserted.
type FlaggedContent struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;index" json:"user_id"` // author of the rejected content
	User      User      `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"user"`
	Content   string    `gorm:"type:text;not null" json:"content"`
	Type      string    `gorm:"size:30;not null;index" json:"type"` // post, comment, message, ...
	Reason    string    `gorm:"size:300;not null" json:"reason"`
	CreatedAt time.Time `gorm:"index" json:"created_at"`
}
