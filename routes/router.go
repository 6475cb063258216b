package routes

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/whatisrealfreedom/religion-and-freedom-sub000/config"
	"github.com/whatisrealfreedom/religion-and-freedom-sub000/controllers"
	"github.com/whatisrealfreedom/religion-and-freedom-sub000/locale"
	"github.com/whatisrealfreedom/religion-and-freedom-sub000/middleware"
	"github.com/whatisrealfreedom/religion-and-freedom-sub000/utils"
)

// SetupRouter wires routes, middlewares, and controllers.
func SetupRouter(db *gorm.DB) *gin.Engine {
	cfg := config.Get()
	switch strings.ToLower(cfg.GinMode) {
	case "debug":
		gin.SetMode(gin.DebugMode)
	case "test":
		gin.SetMode(gin.TestMode)
	default:
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	// Replace default console logger with file-based zap logger
	gl, err := utils.NewRollingFileLogger(cfg.GinPath, cfg.LogLevel, cfg.LogMaxSizeMB, cfg.LogMaxBackups, cfg.LogMaxAgeDays, cfg.LogCompress)
	if err == nil {
		r.Use(utils.Ginzap(gl, time.RFC3339, true))
		r.Use(utils.RecoveryWithZap(gl, false))
	} else {
		// fallback to default recovery if logger failed to init
		r.Use(gin.Recovery())
	}

	corsCfg := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type", "X-Locale"},
		ExposeHeaders:    []string{"Content-Length", "Content-Language", "X-Text-Direction"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if len(cfg.AllowedOrigins) == 1 && cfg.AllowedOrigins[0] == "*" {
		corsCfg.AllowAllOrigins = true
	} else {
		corsCfg.AllowOrigins = cfg.AllowedOrigins
	}
	r.Use(cors.New(corsCfg))

	r.Use(middleware.LocaleNegotiator())
	// Record PV after each request
	r.Use(middleware.PageViewRecorder(db))

	r.Static("/static", "./static")

	r.GET("/health", func(ctx *gin.Context) {
		utils.Success(ctx, gin.H{"status": "ok"})
	})

	authController := controllers.NewAuthController(db)
	threadController := controllers.NewThreadController(db)
	voteController := controllers.NewVoteController(db)
	progressController := controllers.NewProgressController(db)
	statsController := controllers.NewStatsController(db)
	contentController := controllers.NewContentController()

	api := r.Group("/api/v1")

	authGroup := api.Group("/auth")
	authGroup.Use(middleware.RateLimitMiddleware())
	authGroup.POST("/register", authController.Register)
	authGroup.POST("/verify", authController.VerifyEmail)
	authGroup.POST("/resend", authController.ResendCode)
	authGroup.POST("/login", authController.Login)
	authGroup.POST("/logout", middleware.AuthRequired(), authController.Logout)
	authGroup.GET("/me", middleware.AuthRequired(), authController.Me)
	api.GET("/me", middleware.AuthRequired(), authController.Me)

	// Localized static content
	api.GET("/locale/:locale", contentController.GetLocale)
	api.GET("/chapters", contentController.ListChapters)
	api.GET("/chapters/:slug", contentController.GetChapter)
	api.GET("/documents", contentController.ListDocuments)

	// Site statistics
	api.GET("/stats", statsController.GetStats)
	api.GET("/discussions/threads/:id/stats", statsController.GetThreadStats)

	// Discussion reads carry the caller's own votes and reactions when a
	// valid token is present, so they run behind OptionalAuth.
	discussions := api.Group("/discussions")
	discussions.Use(middleware.OptionalAuth())
	discussions.GET("/threads", threadController.ListThreads)
	discussions.GET("/threads/:id", threadController.GetThread)
	discussions.GET("/threads/:id/tree", threadController.GetThreadTree)

	// Writes require a verified session; unauthenticated requests are
	// rejected before any handler or database work runs.
	discussionWrites := api.Group("/discussions")
	discussionWrites.Use(middleware.AuthRequired(), middleware.RateLimitMiddleware())
	discussionWrites.POST("/threads", threadController.CreateThread)
	discussionWrites.POST("/threads/:id/comments", threadController.CreateComment)
	discussionWrites.POST("/threads/:id/vote", voteController.VoteThread)
	discussionWrites.POST("/threads/:id/reactions", voteController.ReactThread)
	discussionWrites.POST("/comments/:id/vote", voteController.VoteComment)
	discussionWrites.POST("/comments/:id/reactions", voteController.ReactComment)

	progress := api.Group("/progress")
	progress.Use(middleware.AuthRequired())
	progress.POST("", progressController.UpdateProgress)
	progress.GET("", progressController.ListProgress)
	progress.GET("/achievements", progressController.GetAchievements)

	r.NoRoute(func(ctx *gin.Context) {
		path := ctx.Request.URL.Path
		if strings.HasPrefix(path, "/api/") {
			utils.Error(ctx, http.StatusNotFound, 40400, "api route not found")
			return
		}
		if strings.HasPrefix(path, "/static/") {
			ctx.JSON(http.StatusNotFound, gin.H{"message": "static asset not found"})
			return
		}
		// Page routes are locale-prefixed; the SPA shell handles the rest of
		// the path client-side. Bare paths redirect to their Persian-prefixed
		// form so every page URL carries its locale.
		if _, _, ok := locale.SplitLocalePath(path); ok {
			ctx.Status(http.StatusOK)
			ctx.File("./static/index.html")
			return
		}
		ctx.Redirect(http.StatusFound, locale.WithLocalePath(locale.Default, path))
	})

	return r
}
