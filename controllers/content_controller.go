package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/whatisrealfreedom/religion-and-freedom-sub000/content"
	"github.com/whatisrealfreedom/religion-and-freedom-sub000/locale"
	"github.com/whatisrealfreedom/religion-and-freedom-sub000/middleware"
	"github.com/whatisrealfreedom/religion-and-freedom-sub000/utils"
)

// ContentController serves the localized static content: chapters, the PDF
// catalog and the locale metadata clients need to render either language.
type ContentController struct{}

// NewContentController creates a new ContentController instance.
func NewContentController() *ContentController {
	return &ContentController{}
}

// GetLocale returns direction and the full translation table for one locale.
// GET /locale/:locale
func (c *ContentController) GetLocale(ctx *gin.Context) {
	l, ok := locale.Resolve(ctx.Param("locale"))
	if !ok {
		utils.Error(ctx, http.StatusNotFound, 40430, "unsupported locale")
		return
	}
	utils.Success(ctx, gin.H{
		"locale":       l,
		"direction":    l.Direction(),
		"translations": locale.Table(l),
	})
}

// ListChapters returns the chapter catalog in reading order, titled in the
// request locale.
// GET /chapters
func (c *ContentController) ListChapters(ctx *gin.Context) {
	l := middleware.RequestLocale(ctx)
	utils.Success(ctx, gin.H{"chapters": content.Chapters(l)})
}

// GetChapter returns one chapter rendered to sanitized HTML.
// GET /chapters/:slug
func (c *ContentController) GetChapter(ctx *gin.Context) {
	l := middleware.RequestLocale(ctx)
	view, err := content.ChapterBySlug(ctx.Param("slug"), l)
	if err != nil {
		if err == content.ErrChapterNotFound {
			utils.Error(ctx, http.StatusNotFound, 40420, "unknown chapter")
			return
		}
		utils.Error(ctx, http.StatusInternalServerError, 50070, "failed to render chapter")
		return
	}
	utils.Success(ctx, gin.H{"chapter": view, "direction": l.Direction()})
}

// ListDocuments returns the downloadable PDF catalog.
// GET /documents
func (c *ContentController) ListDocuments(ctx *gin.Context) {
	l := middleware.RequestLocale(ctx)
	utils.Success(ctx, gin.H{"documents": content.Documents(l)})
}
