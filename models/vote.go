package models

import "time"

// Vote is one user's +1/-1 on a thread or a comment; exactly one of ThreadID
// and CommentID is set. A user holds at most one vote per target.
type Vote struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;index;uniqueIndex:idx_votes_user_thread;uniqueIndex:idx_votes_user_comment" json:"user_id"`
	ThreadID  *uint     `gorm:"index;uniqueIndex:idx_votes_user_thread" json:"thread_id,omitempty"`
	CommentID *uint     `gorm:"index;uniqueIndex:idx_votes_user_comment" json:"comment_id,omitempty"`
	Value     int       `gorm:"not null" json:"value"`
	CreatedAt time.Time `json:"created_at"`
}

const (
	VoteUp   = 1
	VoteDown = -1
)

// ValidVoteValue reports whether v is one of the two accepted vote directions.
func ValidVoteValue(v int) bool {
	return v == VoteUp || v == VoteDown
}
