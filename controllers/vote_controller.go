package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/whatisrealfreedom/religion-and-freedom-sub000/models"
	"github.com/whatisrealfreedom/religion-and-freedom-sub000/utils"
)

// VoteController handles voting and reactions on threads and comments.
// Votes toggle: repeating the same direction removes the vote, the opposite
// direction flips it. Reactions toggle per kind, independent of votes.
type VoteController struct {
	db *gorm.DB
}

// NewVoteController creates a new VoteController instance.
func NewVoteController(db *gorm.DB) *VoteController {
	return &VoteController{db: db}
}

type voteRequest struct {
	VoteType int `json:"vote_type" binding:"required"`
}

type reactionRequest struct {
	ReactionType string `json:"reaction_type" binding:"required"`
}

// VoteThread toggles the caller's vote on a thread.
// POST /discussions/threads/:id/vote
func (v *VoteController) VoteThread(ctx *gin.Context) {
	var req voteRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40030, "invalid request payload")
		return
	}
	if !models.ValidVoteValue(req.VoteType) {
		utils.Error(ctx, http.StatusBadRequest, 40031, "vote_type must be 1 or -1")
		return
	}

	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40110, "unauthorized")
		return
	}

	var thread models.Thread
	if err := v.db.First(&thread, ctx.Param("id")).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			utils.Error(ctx, http.StatusNotFound, 40401, "thread not found")
			return
		}
		utils.Error(ctx, http.StatusInternalServerError, 50030, "failed to load thread")
		return
	}
	if thread.UserID == userID {
		utils.Error(ctx, http.StatusForbidden, 40310, "cannot vote on your own thread")
		return
	}

	score, userVote, err := v.applyVote(userID, &thread.ID, nil, req.VoteType)
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50031, "failed to record vote")
		return
	}

	utils.InvalidateThreadLists()
	utils.Success(ctx, gin.H{"score": score, "user_vote": userVote})
}

// VoteComment toggles the caller's vote on a comment.
// POST /discussions/comments/:id/vote
func (v *VoteController) VoteComment(ctx *gin.Context) {
	var req voteRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40030, "invalid request payload")
		return
	}
	if !models.ValidVoteValue(req.VoteType) {
		utils.Error(ctx, http.StatusBadRequest, 40031, "vote_type must be 1 or -1")
		return
	}

	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40110, "unauthorized")
		return
	}

	var comment models.Comment
	if err := v.db.First(&comment, ctx.Param("id")).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			utils.Error(ctx, http.StatusNotFound, 40403, "comment not found")
			return
		}
		utils.Error(ctx, http.StatusInternalServerError, 50032, "failed to load comment")
		return
	}
	if comment.UserID == userID {
		utils.Error(ctx, http.StatusForbidden, 40311, "cannot vote on your own comment")
		return
	}

	score, userVote, err := v.applyVote(userID, nil, &comment.ID, req.VoteType)
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50031, "failed to record vote")
		return
	}

	utils.Success(ctx, gin.H{"score": score, "user_vote": userVote})
}

// applyVote performs the toggle inside one transaction and recomputes the
// target's score from the votes table, so the cached column can never drift.
func (v *VoteController) applyVote(userID uint, threadID, commentID *uint, value int) (int64, int, error) {
	var score int64
	var userVote int

	err := v.db.Transaction(func(tx *gorm.DB) error {
		target := tx.Model(&models.Vote{}).Where("user_id = ?", userID)
		if threadID != nil {
			target = target.Where("thread_id = ?", *threadID)
		} else {
			target = target.Where("comment_id = ?", *commentID)
		}

		var existing models.Vote
		err := target.First(&existing).Error
		switch {
		case err == gorm.ErrRecordNotFound:
			userVote = value
			if err := tx.Create(&models.Vote{
				UserID: userID, ThreadID: threadID, CommentID: commentID, Value: value,
			}).Error; err != nil {
				return err
			}
		case err != nil:
			return err
		case existing.Value == value:
			userVote = 0
			if err := tx.Delete(&models.Vote{}, existing.ID).Error; err != nil {
				return err
			}
		default:
			userVote = value
			if err := tx.Model(&models.Vote{}).Where("id = ?", existing.ID).
				Update("value", value).Error; err != nil {
				return err
			}
		}

		sum := tx.Model(&models.Vote{}).Select("COALESCE(SUM(value), 0)")
		if threadID != nil {
			sum = sum.Where("thread_id = ?", *threadID)
		} else {
			sum = sum.Where("comment_id = ?", *commentID)
		}
		if err := sum.Scan(&score).Error; err != nil {
			return err
		}

		if threadID != nil {
			return tx.Model(&models.Thread{}).Where("id = ?", *threadID).
				UpdateColumn("score", score).Error
		}
		return tx.Model(&models.Comment{}).Where("id = ?", *commentID).
			UpdateColumn("score", score).Error
	})
	return score, userVote, err
}

// ReactThread toggles a reaction kind on a thread for the caller.
// POST /discussions/threads/:id/reactions
func (v *VoteController) ReactThread(ctx *gin.Context) {
	var req reactionRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40032, "invalid request payload")
		return
	}
	if !models.ValidReactionKind(req.ReactionType) {
		utils.Error(ctx, http.StatusBadRequest, 40033, "unknown reaction type")
		return
	}

	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40110, "unauthorized")
		return
	}

	var thread models.Thread
	if err := v.db.First(&thread, ctx.Param("id")).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			utils.Error(ctx, http.StatusNotFound, 40401, "thread not found")
			return
		}
		utils.Error(ctx, http.StatusInternalServerError, 50030, "failed to load thread")
		return
	}
	if thread.UserID == userID {
		utils.Error(ctx, http.StatusForbidden, 40312, "cannot react to your own thread")
		return
	}

	active, err := v.toggleReaction(userID, &thread.ID, nil, req.ReactionType)
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50033, "failed to record reaction")
		return
	}

	utils.Success(ctx, gin.H{"reaction_type": req.ReactionType, "active": active})
}

// ReactComment toggles a reaction kind on a comment for the caller.
// POST /discussions/comments/:id/reactions
func (v *VoteController) ReactComment(ctx *gin.Context) {
	var req reactionRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40032, "invalid request payload")
		return
	}
	if !models.ValidReactionKind(req.ReactionType) {
		utils.Error(ctx, http.StatusBadRequest, 40033, "unknown reaction type")
		return
	}

	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40110, "unauthorized")
		return
	}

	var comment models.Comment
	if err := v.db.First(&comment, ctx.Param("id")).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			utils.Error(ctx, http.StatusNotFound, 40403, "comment not found")
			return
		}
		utils.Error(ctx, http.StatusInternalServerError, 50032, "failed to load comment")
		return
	}
	if comment.UserID == userID {
		utils.Error(ctx, http.StatusForbidden, 40313, "cannot react to your own comment")
		return
	}

	active, err := v.toggleReaction(userID, nil, &comment.ID, req.ReactionType)
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50033, "failed to record reaction")
		return
	}

	utils.Success(ctx, gin.H{"reaction_type": req.ReactionType, "active": active})
}

func (v *VoteController) toggleReaction(userID uint, threadID, commentID *uint, kind string) (bool, error) {
	var active bool
	err := v.db.Transaction(func(tx *gorm.DB) error {
		target := tx.Where("user_id = ? AND kind = ?", userID, kind)
		if threadID != nil {
			target = target.Where("thread_id = ?", *threadID)
		} else {
			target = target.Where("comment_id = ?", *commentID)
		}

		var existing models.Reaction
		err := target.First(&existing).Error
		switch {
		case err == gorm.ErrRecordNotFound:
			active = true
			return tx.Create(&models.Reaction{
				UserID: userID, ThreadID: threadID, CommentID: commentID, Kind: kind,
			}).Error
		case err != nil:
			return err
		default:
			active = false
			return tx.Delete(&models.Reaction{}, existing.ID).Error
		}
	})
	return active, err
}
