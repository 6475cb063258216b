package controllers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/whatisrealfreedom/religion-and-freedom-sub000/content"
	"github.com/whatisrealfreedom/religion-and-freedom-sub000/models"
	"github.com/whatisrealfreedom/religion-and-freedom-sub000/utils"
)

// ProgressController tracks per-chapter reading progress, daily reading
// streaks and the derived achievements.
type ProgressController struct {
	db *gorm.DB
}

// NewProgressController creates a new ProgressController instance.
func NewProgressController(db *gorm.DB) *ProgressController {
	return &ProgressController{db: db}
}

// UpdateProgress records how far the caller has read into a chapter. Reaching
// 100 percent completes the chapter once; any update counts toward the daily
// reading streak.
// POST /progress
func (p *ProgressController) UpdateProgress(ctx *gin.Context) {
	var req struct {
		ChapterSlug string `json:"chapter_slug" binding:"required"`
		Percent     int    `json:"percent"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40060, "invalid request payload")
		return
	}
	if !content.ValidChapterSlug(req.ChapterSlug) {
		utils.Error(ctx, http.StatusNotFound, 40420, "unknown chapter")
		return
	}
	if req.Percent < 0 || req.Percent > 100 {
		utils.Error(ctx, http.StatusBadRequest, 40061, "percent must be 0-100")
		return
	}

	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40110, "unauthorized")
		return
	}

	now := time.Now()
	var progress models.ReadingProgress
	var user models.User

	err := p.db.Transaction(func(tx *gorm.DB) error {
		// Lock the user row; two tabs saving progress at once must not
		// double-count a completion or a streak day.
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&user, userID).Error; err != nil {
			return err
		}

		err := tx.Where("user_id = ? AND chapter_slug = ?", userID, req.ChapterSlug).
			First(&progress).Error
		if err == gorm.ErrRecordNotFound {
			progress = models.ReadingProgress{UserID: userID, ChapterSlug: req.ChapterSlug}
		} else if err != nil {
			return err
		}

		// Progress never moves backwards.
		if req.Percent > progress.Percent {
			progress.Percent = req.Percent
		}
		completedNow := progress.Percent >= 100 && progress.CompletedAt == nil
		if completedNow {
			progress.CompletedAt = &now
		}
		if err := tx.Save(&progress).Error; err != nil {
			return err
		}

		updates := map[string]interface{}{"last_read_at": now}
		if completedNow {
			updates["chapters_read"] = gorm.Expr("chapters_read + 1")
			user.ChaptersRead++
		}
		switch {
		case user.LastReadAt == nil:
			updates["reading_streak"] = 1
			user.ReadingStreak = 1
		case isSameDay(*user.LastReadAt, now):
			// already counted today
		case isYesterday(*user.LastReadAt, now):
			updates["reading_streak"] = gorm.Expr("reading_streak + 1")
			user.ReadingStreak++
		default:
			updates["reading_streak"] = 1
			user.ReadingStreak = 1
		}
		user.LastReadAt = &now

		return tx.Model(&models.User{}).Where("id = ?", userID).Updates(updates).Error
	})
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50060, "failed to save progress")
		return
	}

	utils.Success(ctx, gin.H{
		"progress":       progress,
		"chapters_read":  user.ChaptersRead,
		"reading_streak": user.ReadingStreak,
	})
}

// ListProgress returns the caller's progress across all chapters.
// GET /progress
func (p *ProgressController) ListProgress(ctx *gin.Context) {
	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40110, "unauthorized")
		return
	}

	var rows []models.ReadingProgress
	if err := p.db.Where("user_id = ?", userID).
		Order("chapter_slug ASC").Find(&rows).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50061, "failed to load progress")
		return
	}

	utils.Success(ctx, gin.H{"progress": rows})
}

// achievement thresholds, in ascending order per track.
var streakLevels = []int{3, 7, 30}

// GetAchievements derives the caller's achievements from chapter completions
// and the reading streak. Nothing is stored; the source counters are enough.
// GET /progress/achievements
func (p *ProgressController) GetAchievements(ctx *gin.Context) {
	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40110, "unauthorized")
		return
	}

	var user models.User
	if err := p.db.First(&user, userID).Error; err != nil {
		utils.Error(ctx, http.StatusNotFound, 40410, "user not found")
		return
	}

	total := content.ChapterCount()
	achievements := []gin.H{
		{"key": "first_chapter", "earned": user.ChaptersRead >= 1},
		{"key": "book_finished", "earned": total > 0 && user.ChaptersRead >= total},
	}
	for _, lvl := range streakLevels {
		achievements = append(achievements, gin.H{
			"key":    "streak_" + strconv.Itoa(lvl),
			"earned": user.ReadingStreak >= lvl,
		})
	}

	utils.Success(ctx, gin.H{
		"chapters_read":  user.ChaptersRead,
		"chapter_count":  total,
		"reading_streak": user.ReadingStreak,
		"achievements":   achievements,
	})
}

func isSameDay(a, b time.Time) bool {
	ay, am, ad := a.Local().Date()
	by, bm, bd := b.Local().Date()
	return ay == by && am == bm && ad == bd
}

func isYesterday(earlier, later time.Time) bool {
	return isSameDay(earlier.AddDate(0, 0, 1), later)
}
