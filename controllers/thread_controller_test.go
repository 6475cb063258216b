package controllers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func postJSON(t *testing.T, r *gin.Engine, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	return w
}

func businessCode(t *testing.T, body []byte) int {
	t.Helper()
	var resp struct {
		Code int `json:"code"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		t.Fatalf("invalid response body: %v", err)
	}
	return resp.Code
}

// Validation runs before any database work, so a nil DB is fine here.
func threadRouter() *gin.Engine {
	tc := NewThreadController(nil)
	r := gin.New()
	r.POST("/threads", tc.CreateThread)
	return r
}

func TestCreateThreadRejectsInvalidPayload(t *testing.T) {
	w := postJSON(t, threadRouter(), "/threads", `{"title":"only a title"}`)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
	if code := businessCode(t, w.Body.Bytes()); code != 40020 {
		t.Fatalf("business code = %d, want 40020", code)
	}
}

func TestCreateThreadRejectsShortTitle(t *testing.T) {
	w := postJSON(t, threadRouter(), "/threads", `{"title":"ab","content":"long enough content"}`)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
	if code := businessCode(t, w.Body.Bytes()); code != 40021 {
		t.Fatalf("business code = %d, want 40021", code)
	}
}

func TestCreateThreadRejectsShortContent(t *testing.T) {
	w := postJSON(t, threadRouter(), "/threads", `{"title":"valid title","content":"short"}`)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
	if code := businessCode(t, w.Body.Bytes()); code != 40022 {
		t.Fatalf("business code = %d, want 40022", code)
	}
}

// Script-only content sanitizes to nothing and must fail length validation.
func TestCreateThreadSanitizesBeforeValidation(t *testing.T) {
	w := postJSON(t, threadRouter(), "/threads",
		`{"title":"valid title","content":"<script>alert(1)</script>"}`)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
	if code := businessCode(t, w.Body.Bytes()); code != 40022 {
		t.Fatalf("business code = %d, want 40022", code)
	}
}

// Without middleware-provided identity the handler itself refuses to write.
func TestCreateThreadRequiresIdentity(t *testing.T) {
	w := postJSON(t, threadRouter(), "/threads",
		`{"title":"valid title","content":"long enough content"}`)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", w.Code)
	}
}

func TestSortClauseIsDeterministic(t *testing.T) {
	cases := map[string]string{
		"newest":   "is_pinned DESC, created_at DESC, id DESC",
		"oldest":   "is_pinned DESC, created_at ASC, id ASC",
		"score":    "is_pinned DESC, score DESC, id DESC",
		"comments": "is_pinned DESC, comment_count DESC, id DESC",
		"":         "is_pinned DESC, created_at DESC, id DESC",
		"bogus":    "is_pinned DESC, created_at DESC, id DESC",
	}
	for key, want := range cases {
		if got := sortClause(key); got != want {
			t.Errorf("sortClause(%q) = %q, want %q", key, got, want)
		}
	}
}

func TestParsePagination(t *testing.T) {
	cases := []struct {
		page, size string
		wantPage   int
		wantSize   int
	}{
		{"", "", 1, 20},
		{"3", "50", 3, 50},
		{"0", "0", 1, 20},
		{"-1", "500", 1, 20},
		{"abc", "xyz", 1, 20},
		{"2", "100", 2, 100},
	}
	for _, c := range cases {
		page, size := parsePagination(c.page, c.size)
		if page != c.wantPage || size != c.wantSize {
			t.Errorf("parsePagination(%q, %q) = (%d, %d), want (%d, %d)",
				c.page, c.size, page, size, c.wantPage, c.wantSize)
		}
	}
}
