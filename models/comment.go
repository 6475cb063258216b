package models

import "time"

// Comment is a reply inside a thread. ParentID is nil for root comments and
// must reference a comment in the same thread otherwise. Replies is never
// persisted; BuildCommentTree fills it when the nested view is requested.
type Comment struct {
	ID        uint       `gorm:"primaryKey" json:"id"`
	ThreadID  uint       `gorm:"index;not null" json:"thread_id"`
	ParentID  *uint      `gorm:"index" json:"parent_id,omitempty"`
	UserID    uint       `gorm:"index;not null" json:"user_id"`
	Content   string     `gorm:"type:text;not null" json:"content"`
	Score     int        `gorm:"default:0" json:"score"`
	CreatedAt time.Time  `json:"created_at"`
	EditedAt  *time.Time `json:"edited_at,omitempty"`
	User      User       `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"author"`

	Replies []*Comment `gorm:"-" json:"replies,omitempty"`

	UserVote      int      `gorm:"-" json:"user_vote,omitempty"`
	UserReactions []string `gorm:"-" json:"user_reactions,omitempty"`
}
