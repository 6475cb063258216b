package middleware

import (
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/whatisrealfreedom/religion-and-freedom-sub000/locale"
	"github.com/whatisrealfreedom/religion-and-freedom-sub000/models"
)

// PageViewRecorder aggregates daily view counts for content pages. Counting
// is keyed on the locale-stripped path so /fa/chapter/3 and /en/chapter/3
// roll up into one row per day.
func PageViewRecorder(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if c.Request.Method != "GET" {
			return
		}
		// Count only 2xx. Redirects would double-count a visit: the 302 from
		// "/" to "/fa" and the served "/fa" page are one visit, not two.
		status := c.Writer.Status()
		if status < 200 || status >= 300 {
			return
		}

		path := c.Request.URL.Path
		// Only count page routes; API, static assets and probes would skew
		// the daily-active numbers.
		if path == "/health" || strings.HasPrefix(path, "/api/") || strings.HasPrefix(path, "/static/") {
			return
		}
		if _, rest, ok := locale.SplitLocalePath(path); ok {
			path = rest
		}

		// Local midnight aligns with the DATE column.
		now := time.Now().In(time.Local)
		localMidnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

		// Atomic upsert; concurrent first views of a page must not fail on
		// the unique (date, path) index.
		_ = db.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "date"}, {Name: "path"}},
			DoUpdates: clause.Assignments(map[string]interface{}{"count": gorm.Expr("count + 1"), "updated_at": time.Now()}),
		}).Create(&models.PageView{Date: localMidnight, Path: path, Count: 1}).Error
	}
}
