package models

import "time"

// ReadingProgress stores how far a user has read into one chapter. One row
// per (user, chapter), updated in place as the reader advances.
type ReadingProgress struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	UserID      uint      `gorm:"not null;index;uniqueIndex:idx_progress_user_chapter" json:"user_id"`
	ChapterSlug string    `gorm:"size:64;not null;uniqueIndex:idx_progress_user_chapter" json:"chapter_slug"`
	Percent     int       `gorm:"not null;default:0" json:"percent"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
