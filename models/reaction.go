package models

import "time"

// Reaction is a non-exclusive emoji-style tag a user toggles on a thread or a
// comment, independent of voting. One row per (user, target, kind).
type Reaction struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;index;uniqueIndex:idx_react_user_thread;uniqueIndex:idx_react_user_comment" json:"user_id"`
	ThreadID  *uint     `gorm:"index;uniqueIndex:idx_react_user_thread" json:"thread_id,omitempty"`
	CommentID *uint     `gorm:"index;uniqueIndex:idx_react_user_comment" json:"comment_id,omitempty"`
	Kind      string    `gorm:"size:16;not null;uniqueIndex:idx_react_user_thread;uniqueIndex:idx_react_user_comment" json:"kind"`
	CreatedAt time.Time `json:"created_at"`
}

// ReactionKinds lists the accepted reaction types in display order.
var ReactionKinds = []string{"heart", "clap", "thumbs_up", "thumbs_down"}

// ValidReactionKind reports whether kind is one of the accepted reaction types.
func ValidReactionKind(kind string) bool {
	for _, k := range ReactionKinds {
		if k == kind {
			return true
		}
	}
	return false
}
