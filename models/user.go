package models

import (
	"time"

	"gorm.io/gorm"
)

// User represents a site member. Passwords are stored as bcrypt hashes only.
type User struct {
	ID              uint              `gorm:"primaryKey" json:"id"`
	Username        string            `gorm:"size:64;not null;uniqueIndex" json:"username"`
	Email           string            `gorm:"size:255;not null;uniqueIndex" json:"email"`
	PasswordHash    string            `gorm:"size:255" json:"-"`
	EmailVerified   bool              `gorm:"default:false" json:"email_verified"`
	RegisterIP      string            `gorm:"size:45" json:"-"`
	ChaptersRead    int               `gorm:"default:0" json:"chapters_read"`
	ReadingStreak   int               `gorm:"default:0" json:"reading_streak"`
	LastReadAt      *time.Time        `json:"last_read_at"`
	CreatedAt       time.Time         `json:"created_at"`
	UpdatedAt       time.Time         `json:"updated_at"`
	DeletedAt       gorm.DeletedAt    `gorm:"index" json:"-"`
	Threads         []Thread          `json:"-"`
	Comments        []Comment         `json:"-"`
	ReadingProgress []ReadingProgress `json:"-"`
}

// BeforeCreate hook ensures timestamps are set even when not provided.
func (u *User) BeforeCreate(tx *gorm.DB) error {
	now := time.Now()
	if u.CreatedAt.IsZero() {
		u.CreatedAt = now
	}
	u.UpdatedAt = now
	return nil
}

// BeforeUpdate refreshes the UpdatedAt timestamp.
func (u *User) BeforeUpdate(tx *gorm.DB) error {
	u.UpdatedAt = time.Now()
	return nil
}

// PublicUser is the author shape embedded in thread and comment payloads.
type PublicUser struct {
	ID       uint   `json:"id"`
	Username string `json:"username"`
}

// Public strips everything a thread or comment payload should not leak.
func (u User) Public() PublicUser {
	return PublicUser{ID: u.ID, Username: u.Username}
}
