package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/whatisrealfreedom/religion-and-freedom-sub000/utils"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// guardedRouter registers a write endpoint behind AuthRequired and reports
// whether the handler ran.
func guardedRouter(handlerRan *bool) *gin.Engine {
	r := gin.New()
	r.POST("/vote", AuthRequired(), func(ctx *gin.Context) {
		*handlerRan = true
		ctx.JSON(http.StatusOK, gin.H{"ok": true})
	})
	return r
}

func decodeCode(t *testing.T, body []byte) int {
	t.Helper()
	var resp struct {
		Code int `json:"code"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		t.Fatalf("invalid response body: %v", err)
	}
	return resp.Code
}

func TestAuthRequiredRejectsMissingHeader(t *testing.T) {
	var handlerRan bool
	r := guardedRouter(&handlerRan)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/vote", nil)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", w.Code)
	}
	if handlerRan {
		t.Fatal("handler ran for unauthenticated request")
	}
	if code := decodeCode(t, w.Body.Bytes()); code != 40101 {
		t.Fatalf("business code = %d, want 40101", code)
	}
}

func TestAuthRequiredRejectsMalformedHeader(t *testing.T) {
	cases := []string{"Token abc", "Bearer", "Bearer "}
	for _, header := range cases {
		var handlerRan bool
		r := guardedRouter(&handlerRan)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/vote", nil)
		req.Header.Set("Authorization", header)
		r.ServeHTTP(w, req)

		if w.Code != http.StatusUnauthorized {
			t.Errorf("header %q: status = %d, want 401", header, w.Code)
		}
		if handlerRan {
			t.Errorf("header %q: handler ran", header)
		}
	}
}

func TestAuthRequiredAcceptsValidToken(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	token, err := utils.GenerateToken(42, "reader", time.Hour)
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}

	var gotUserID uint
	r := gin.New()
	r.POST("/vote", AuthRequired(), func(ctx *gin.Context) {
		if v, ok := ctx.Get(ContextUserIDKey); ok {
			gotUserID = v.(uint)
		}
		ctx.JSON(http.StatusOK, gin.H{"ok": true})
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/vote", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	if gotUserID != 42 {
		t.Fatalf("user id = %d, want 42", gotUserID)
	}
}

func TestOptionalAuthStaysSilentWithoutToken(t *testing.T) {
	var sawIdentity bool
	r := gin.New()
	r.GET("/threads", OptionalAuth(), func(ctx *gin.Context) {
		_, sawIdentity = ctx.Get(ContextUserIDKey)
		ctx.JSON(http.StatusOK, gin.H{"ok": true})
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/threads", nil)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	if sawIdentity {
		t.Fatal("identity set for anonymous request")
	}
}

func TestOptionalAuthPopulatesIdentity(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	token, err := utils.GenerateToken(7, "reader", time.Hour)
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}

	var gotUserID uint
	r := gin.New()
	r.GET("/threads", OptionalAuth(), func(ctx *gin.Context) {
		if v, ok := ctx.Get(ContextUserIDKey); ok {
			gotUserID = v.(uint)
		}
		ctx.JSON(http.StatusOK, gin.H{"ok": true})
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/threads", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	r.ServeHTTP(w, req)

	if gotUserID != 7 {
		t.Fatalf("user id = %d, want 7", gotUserID)
	}
}
