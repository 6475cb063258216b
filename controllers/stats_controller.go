package controllers

import (
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/whatisrealfreedom/religion-and-freedom-sub000/content"
	"github.com/whatisrealfreedom/religion-and-freedom-sub000/models"
	"github.com/whatisrealfreedom/religion-and-freedom-sub000/utils"
)

// StatsController provides site-wide statistics such as counts and daily views.
type StatsController struct {
	db *gorm.DB
}

// NewStatsController creates a new StatsController instance.
func NewStatsController(db *gorm.DB) *StatsController {
	return &StatsController{db: db}
}

// GetStats returns aggregate statistics for the site.
func (s *StatsController) GetStats(ctx *gin.Context) {
	var userCount int64
	var threadCount int64
	var commentCount int64
	var dailyViews int64

	if err := s.db.Model(&models.User{}).Count(&userCount).Error; err != nil {
		// Fallback to 0 instead of failing the whole endpoint
		userCount = 0
	}
	if err := s.db.Model(&models.Thread{}).Count(&threadCount).Error; err != nil {
		threadCount = 0
	}
	if err := s.db.Model(&models.Comment{}).Count(&commentCount).Error; err != nil {
		commentCount = 0
	}

	// Use string date equality to avoid timezone/type mismatches with the
	// DATE column.
	today := time.Now().In(time.Local).Format("2006-01-02")
	if err := s.db.Model(&models.PageView{}).
		Where("date = ?", today).
		Select("COALESCE(SUM(count),0)").
		Scan(&dailyViews).Error; err != nil {
		dailyViews = 0
	}

	utils.Success(ctx, gin.H{
		"user_count":    userCount,
		"thread_count":  threadCount,
		"comment_count": commentCount,
		"chapter_count": content.ChapterCount(),
		"daily_views":   dailyViews,
	})
}

// GetThreadStats returns PV and comment count for a given thread id.
func (s *StatsController) GetThreadStats(ctx *gin.Context) {
	id := ctx.Param("id")

	// PV: sum over all dates and path formats, API and page routes alike.
	var pv int64
	path1 := "/api/v1/discussions/threads/" + id
	path2 := "/discussions/" + id
	if err := s.db.Model(&models.PageView{}).
		Where("path IN ?", []string{path1, path2}).
		Select("COALESCE(SUM(count),0)").
		Scan(&pv).Error; err != nil {
		pv = 0
	}

	var commentsCount int64
	if err := s.db.Model(&models.Comment{}).Where("thread_id = ?", id).Count(&commentsCount).Error; err != nil {
		commentsCount = 0
	}

	utils.Success(ctx, gin.H{
		"pv":             pv,
		"comments_count": commentsCount,
	})
}
