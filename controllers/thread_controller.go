package controllers

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/whatisrealfreedom/religion-and-freedom-sub000/models"
	"github.com/whatisrealfreedom/religion-and-freedom-sub000/utils"
)

const (
	minThreadTitleLen   = 3
	minThreadContentLen = 10
	minCommentLen       = 1
)

// ThreadController manages discussion threads and their comments.
type ThreadController struct {
	db *gorm.DB
}

// NewThreadController creates a new ThreadController instance.
func NewThreadController(db *gorm.DB) *ThreadController {
	return &ThreadController{db: db}
}

// sortClause maps the public sort keys onto deterministic ORDER BY clauses.
// Pinned threads lead every ordering; the id tiebreak keeps page boundaries
// stable between requests.
func sortClause(key string) string {
	switch key {
	case "oldest":
		return "is_pinned DESC, created_at ASC, id ASC"
	case "score":
		return "is_pinned DESC, score DESC, id DESC"
	case "comments":
		return "is_pinned DESC, comment_count DESC, id DESC"
	default: // newest
		return "is_pinned DESC, created_at DESC, id DESC"
	}
}

// ListThreads returns one page of threads with author information.
// GET /discussions/threads?sort=&page=&per_page=
func (t *ThreadController) ListThreads(ctx *gin.Context) {
	page, pageSize := parsePagination(ctx.Query("page"), ctx.Query("per_page"))
	sortKey := strings.TrimSpace(ctx.Query("sort"))

	viewerID, authed := getUserID(ctx)

	// Cached pages carry no viewer-specific state, so only anonymous
	// requests may read or fill the cache.
	cacheKey := utils.ThreadListKey(sortKey, page, pageSize)
	if !authed {
		if b, ok := utils.CacheGetBytes(cacheKey); ok {
			ctx.Data(http.StatusOK, "application/json", b)
			return
		}
	}

	var threads []*models.Thread
	var total int64
	query := t.db.WithContext(ctx.Request.Context()).Model(&models.Thread{})
	if err := query.Count(&total).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50021, "failed to count threads")
		return
	}
	if err := query.Preload("User").
		Order(sortClause(sortKey)).
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&threads).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50022, "failed to list threads")
		return
	}

	if authed {
		t.attachThreadViewerState(ctx, threads, viewerID)
	}

	payload := gin.H{
		"threads":  threads,
		"total":    total,
		"page":     page,
		"per_page": pageSize,
	}
	if !authed {
		wrapper := utils.JSONResponse{Code: 0, Message: "success", Data: payload}
		utils.CacheSetJSON(cacheKey, wrapper, time.Hour)
	}
	utils.Success(ctx, payload)
}

// GetThread returns a thread with its flat comment list and bumps the view
// counter. Clients that want the nested shape call the tree endpoint.
// GET /discussions/threads/:id
func (t *ThreadController) GetThread(ctx *gin.Context) {
	threadID := ctx.Param("id")

	var thread models.Thread
	if err := t.db.WithContext(ctx.Request.Context()).Preload("User").First(&thread, threadID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			utils.Error(ctx, http.StatusNotFound, 40401, "thread not found")
			return
		}
		utils.Error(ctx, http.StatusInternalServerError, 50023, "failed to load thread")
		return
	}

	// Best-effort view bump; a failed increment must not break the read.
	if err := t.db.Model(&models.Thread{}).Where("id = ?", thread.ID).
		UpdateColumn("view_count", gorm.Expr("view_count + 1")).Error; err == nil {
		thread.ViewCount++
	}

	comments, err := t.loadThreadComments(ctx, thread.ID)
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50024, "failed to load comments")
		return
	}

	if viewerID, ok := getUserID(ctx); ok {
		t.attachThreadViewerState(ctx, []*models.Thread{&thread}, viewerID)
		t.attachCommentViewerState(ctx, comments, viewerID)
	}

	utils.Success(ctx, gin.H{"thread": thread, "comments": comments})
}

// GetThreadTree returns the nested, render-ready comment view of a thread:
// depth-first rows with capped indentation and collapse state.
// GET /discussions/threads/:id/tree?max_depth=&promote_orphans=
func (t *ThreadController) GetThreadTree(ctx *gin.Context) {
	threadID := ctx.Param("id")

	var thread models.Thread
	if err := t.db.WithContext(ctx.Request.Context()).Preload("User").First(&thread, threadID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			utils.Error(ctx, http.StatusNotFound, 40401, "thread not found")
			return
		}
		utils.Error(ctx, http.StatusInternalServerError, 50023, "failed to load thread")
		return
	}

	comments, err := t.loadThreadComments(ctx, thread.ID)
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50024, "failed to load comments")
		return
	}

	viewerID, authed := getUserID(ctx)
	if authed {
		t.attachThreadViewerState(ctx, []*models.Thread{&thread}, viewerID)
		t.attachCommentViewerState(ctx, comments, viewerID)
	}

	cfg := models.DefaultRenderConfig()
	if v, err := strconv.Atoi(ctx.Query("max_depth")); err == nil && v > 0 && v <= 32 {
		cfg.MaxDepth = v
	}
	opts := models.TreeOptions{PromoteOrphans: ctx.Query("promote_orphans") == "true"}

	roots := models.BuildCommentTree(comments, opts)
	rows := models.FlattenCommentTree(roots, cfg, viewerID)

	utils.Success(ctx, gin.H{
		"thread": thread,
		"roots":  roots,
		"rows":   rows,
		// Differs from len(comments) when orphans were dropped.
		"node_count": models.CountTreeNodes(roots),
		"max_depth":  cfg.MaxDepth,
	})
}

// CreateThread allows verified users to open a discussion.
// POST /discussions/threads
func (t *ThreadController) CreateThread(ctx *gin.Context) {
	var req struct {
		Title   string `json:"title" binding:"required"`
		Content string `json:"content" binding:"required"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40020, "invalid request payload")
		return
	}

	title := utils.CleanUserText(req.Title)
	content := utils.CleanUserText(req.Content)
	if len([]rune(title)) < minThreadTitleLen {
		utils.Error(ctx, http.StatusBadRequest, 40021, "title must be at least 3 characters")
		return
	}
	if len([]rune(content)) < minThreadContentLen {
		utils.Error(ctx, http.StatusBadRequest, 40022, "content must be at least 10 characters")
		return
	}

	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40110, "unauthorized")
		return
	}

	thread := models.Thread{
		UserID:  userID,
		Title:   title,
		Content: content,
	}
	if err := t.db.Create(&thread).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50020, "failed to create thread")
		return
	}
	if err := t.db.Preload("User").First(&thread, thread.ID).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50020, "failed to load thread")
		return
	}

	utils.InvalidateThreadLists()

	utils.Success(ctx, gin.H{"thread": thread})
}

// CreateComment adds a comment to a thread, optionally nested under another
// comment of the same thread.
// POST /discussions/threads/:id/comments
func (t *ThreadController) CreateComment(ctx *gin.Context) {
	var req struct {
		Content  string `json:"content" binding:"required"`
		ParentID *uint  `json:"parent_id"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40023, "invalid request payload")
		return
	}

	content := utils.CleanUserText(req.Content)
	if len([]rune(content)) < minCommentLen {
		utils.Error(ctx, http.StatusBadRequest, 40024, "comment cannot be empty")
		return
	}

	var thread models.Thread
	if err := t.db.First(&thread, ctx.Param("id")).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			utils.Error(ctx, http.StatusNotFound, 40402, "thread not found")
			return
		}
		utils.Error(ctx, http.StatusInternalServerError, 50023, "failed to load thread")
		return
	}

	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40110, "unauthorized")
		return
	}

	if req.ParentID != nil {
		var parent models.Comment
		if err := t.db.First(&parent, *req.ParentID).Error; err != nil || parent.ThreadID != thread.ID {
			utils.Error(ctx, http.StatusBadRequest, 40025, "parent comment not in this thread")
			return
		}
	}

	comment := models.Comment{
		ThreadID: thread.ID,
		ParentID: req.ParentID,
		UserID:   userID,
		Content:  content,
	}
	// comment_count stays equal to the number of comments in the thread, so
	// both writes share one transaction.
	err := t.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&comment).Error; err != nil {
			return err
		}
		return tx.Model(&models.Thread{}).Where("id = ?", thread.ID).
			UpdateColumn("comment_count", gorm.Expr("comment_count + 1")).Error
	})
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50025, "failed to create comment")
		return
	}
	if err := t.db.Preload("User").First(&comment, comment.ID).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50026, "failed to load comment")
		return
	}

	utils.InvalidateThreadLists()

	utils.Success(ctx, gin.H{"comment": comment})
}

// loadThreadComments returns the thread's comments flat, in creation order,
// with authors. The nested shape is always derived in memory from this list.
func (t *ThreadController) loadThreadComments(ctx *gin.Context, threadID uint) ([]*models.Comment, error) {
	var comments []*models.Comment
	err := t.db.WithContext(ctx.Request.Context()).
		Where("thread_id = ?", threadID).
		Preload("User").
		Order("created_at ASC, id ASC").
		Find(&comments).Error
	return comments, err
}

// attachThreadViewerState fills UserVote and UserReactions on the given
// threads for one viewer, in two queries regardless of list size.
func (t *ThreadController) attachThreadViewerState(ctx *gin.Context, threads []*models.Thread, viewerID uint) {
	if len(threads) == 0 {
		return
	}
	ids := make([]uint, 0, len(threads))
	byID := make(map[uint]*models.Thread, len(threads))
	for _, th := range threads {
		ids = append(ids, th.ID)
		byID[th.ID] = th
	}
	ids = utils.Unique(ids)

	var votes []models.Vote
	if err := t.db.WithContext(ctx.Request.Context()).
		Where("user_id = ? AND thread_id IN ?", viewerID, ids).
		Find(&votes).Error; err == nil {
		for _, v := range votes {
			if th, ok := byID[*v.ThreadID]; ok {
				th.UserVote = v.Value
			}
		}
	}

	var reactions []models.Reaction
	if err := t.db.WithContext(ctx.Request.Context()).
		Where("user_id = ? AND thread_id IN ?", viewerID, ids).
		Find(&reactions).Error; err == nil {
		for _, r := range reactions {
			if th, ok := byID[*r.ThreadID]; ok {
				th.UserReactions = append(th.UserReactions, r.Kind)
			}
		}
	}
}

// attachCommentViewerState is the comment-side twin of
// attachThreadViewerState.
func (t *ThreadController) attachCommentViewerState(ctx *gin.Context, comments []*models.Comment, viewerID uint) {
	if len(comments) == 0 {
		return
	}
	ids := make([]uint, 0, len(comments))
	byID := make(map[uint]*models.Comment, len(comments))
	for _, c := range comments {
		ids = append(ids, c.ID)
		byID[c.ID] = c
	}
	ids = utils.Unique(ids)

	var votes []models.Vote
	if err := t.db.WithContext(ctx.Request.Context()).
		Where("user_id = ? AND comment_id IN ?", viewerID, ids).
		Find(&votes).Error; err == nil {
		for _, v := range votes {
			if c, ok := byID[*v.CommentID]; ok {
				c.UserVote = v.Value
			}
		}
	}

	var reactions []models.Reaction
	if err := t.db.WithContext(ctx.Request.Context()).
		Where("user_id = ? AND comment_id IN ?", viewerID, ids).
		Find(&reactions).Error; err == nil {
		for _, r := range reactions {
			if c, ok := byID[*r.CommentID]; ok {
				c.UserReactions = append(c.UserReactions, r.Kind)
			}
		}
	}
}
