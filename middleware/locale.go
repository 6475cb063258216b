package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/whatisrealfreedom/religion-and-freedom-sub000/locale"
)

// ContextLocaleKey stores the request's negotiated locale in the gin context.
const ContextLocaleKey = "locale"

// LocaleNegotiator resolves the request locale for API calls. Page routes
// carry the locale as their first path segment; API calls signal it with the
// lang query parameter or the X-Locale header. Anything unrecognized falls
// back to Persian.
func LocaleNegotiator() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		seg := ctx.Query("lang")
		if seg == "" {
			seg = ctx.GetHeader("X-Locale")
		}
		l, _ := locale.Resolve(seg)
		ctx.Set(ContextLocaleKey, l)
		ctx.Header("Content-Language", l.String())
		ctx.Header("X-Text-Direction", l.Direction())
		ctx.Next()
	}
}

// RequestLocale reads the locale set by LocaleNegotiator, defaulting to
// Persian when the middleware did not run.
func RequestLocale(ctx *gin.Context) locale.Locale {
	if v, ok := ctx.Get(ContextLocaleKey); ok {
		if l, ok := v.(locale.Locale); ok {
			return l
		}
	}
	return locale.Default
}
