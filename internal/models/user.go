package models

import (
	"time"
)

// User status values.
const (
	UserStatusActive = 0
	UserStatusMuted  = 1
	UserStatusBanned = 2
)

type User struct {
	ID            uint       `gorm:"primaryKey" json:"id"`
	Username      string     `gorm:"not null" json:"username"`
	Email         string     `gorm:"uniqueIndex;not null" json:"email"` // campus email
	Password      string     `gorm:"not null" json:"-"`                 // bcrypt hash
	Major         string     `gorm:"size:100" json:"major"`
	Bio           string     `gorm:"size:200" json:"bio"`
	Role          string     `gorm:"size:20;default:'user';not null" json:"role"` // user, admin
	Status        int        `gorm:"default:0" json:"status"`                     // 0: active, 1: muted, 2: banned
	PunishExpires *time.Time `json:"punish_expires"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

func (u *User) IsAdmin() bool {
	return u.Role == "admin"
}

// PublishBlock returns a non-empty message when the user may not publish at
// now. expired reports a mute whose term has run out; the caller should
// reset the status.
func (u *User) PublishBlock(now time.Time) (msg string, expired bool) {
	switch u.Status {
	case UserStatusBanned:
		return "Your account has been suspended and cannot publish content.", false
	case UserStatusMuted:
		if u.PunishExpires != nil && now.After(*u.PunishExpires) {
			return "", true
		}
		return "You are temporarily muted and cannot publish content.", false
	}
	return "", false
}
