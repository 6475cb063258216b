package controllers

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
)

func voteRouter() *gin.Engine {
	vc := NewVoteController(nil)
	r := gin.New()
	r.POST("/threads/:id/vote", vc.VoteThread)
	r.POST("/threads/:id/reactions", vc.ReactThread)
	return r
}

func TestVoteThreadRejectsUnknownDirection(t *testing.T) {
	for _, body := range []string{`{"vote_type":2}`, `{"vote_type":-5}`} {
		w := postJSON(t, voteRouter(), "/threads/1/vote", body)
		if w.Code != http.StatusBadRequest {
			t.Errorf("body %s: status = %d, want 400", body, w.Code)
		}
		if code := businessCode(t, w.Body.Bytes()); code != 40031 {
			t.Errorf("body %s: business code = %d, want 40031", body, code)
		}
	}
}

func TestVoteThreadRejectsMissingPayload(t *testing.T) {
	w := postJSON(t, voteRouter(), "/threads/1/vote", `{}`)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
}

// Identity is checked before the thread is even loaded; no database access
// happens for an anonymous vote.
func TestVoteThreadRequiresIdentity(t *testing.T) {
	w := postJSON(t, voteRouter(), "/threads/1/vote", `{"vote_type":1}`)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", w.Code)
	}
}

func TestReactThreadRejectsUnknownKind(t *testing.T) {
	w := postJSON(t, voteRouter(), "/threads/1/reactions", `{"reaction_type":"shrug"}`)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
	if code := businessCode(t, w.Body.Bytes()); code != 40033 {
		t.Fatalf("business code = %d, want 40033", code)
	}
}

func TestReactThreadRequiresIdentity(t *testing.T) {
	w := postJSON(t, voteRouter(), "/threads/1/reactions", `{"reaction_type":"heart"}`)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", w.Code)
	}
}

