package models

import "time"

// Thread represents a top-level discussion post. Score, CommentCount and
// ViewCount are denormalized and maintained transactionally by the write
// endpoints that touch them.
type Thread struct {
	ID           uint       `gorm:"primaryKey" json:"id"`
	UserID       uint       `gorm:"index;not null" json:"user_id"`
	Title        string     `gorm:"size:255;not null" json:"title"`
	Content      string     `gorm:"type:text;not null" json:"content"`
	Score        int        `gorm:"default:0" json:"score"`
	CommentCount int        `gorm:"default:0" json:"comment_count"`
	ViewCount    int64      `gorm:"default:0" json:"view_count"`
	IsPinned     bool       `gorm:"default:false;index" json:"is_pinned"`
	CreatedAt    time.Time  `json:"created_at"`
	EditedAt     *time.Time `json:"edited_at,omitempty"`
	User         User       `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"author"`

	// Viewer-specific state, filled per request for authenticated callers.
	UserVote      int      `gorm:"-" json:"user_vote,omitempty"`
	UserReactions []string `gorm:"-" json:"user_reactions,omitempty"`
}
