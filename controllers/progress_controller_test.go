package controllers

import (
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
)

func progressRouter() *gin.Engine {
	pc := NewProgressController(nil)
	r := gin.New()
	r.POST("/progress", pc.UpdateProgress)
	return r
}

func TestUpdateProgressRejectsUnknownChapter(t *testing.T) {
	w := postJSON(t, progressRouter(), "/progress", `{"chapter_slug":"no-such-chapter","percent":50}`)
	if w.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", w.Code)
	}
	if code := businessCode(t, w.Body.Bytes()); code != 40420 {
		t.Fatalf("business code = %d, want 40420", code)
	}
}

func TestUpdateProgressRejectsOutOfRangePercent(t *testing.T) {
	for _, body := range []string{
		`{"chapter_slug":"what-is-real-freedom","percent":-1}`,
		`{"chapter_slug":"what-is-real-freedom","percent":101}`,
	} {
		w := postJSON(t, progressRouter(), "/progress", body)
		if w.Code != http.StatusBadRequest {
			t.Errorf("body %s: status = %d, want 400", body, w.Code)
		}
	}
}

func TestUpdateProgressRequiresIdentity(t *testing.T) {
	w := postJSON(t, progressRouter(), "/progress", `{"chapter_slug":"what-is-real-freedom","percent":50}`)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", w.Code)
	}
}

func TestStreakDayComparison(t *testing.T) {
	noon := time.Date(2026, 8, 30, 12, 0, 0, 0, time.Local)
	lateSameDay := time.Date(2026, 8, 30, 23, 59, 0, 0, time.Local)
	nextMorning := time.Date(2026, 8, 31, 0, 5, 0, 0, time.Local)
	twoDaysOn := time.Date(2026, 9, 1, 9, 0, 0, 0, time.Local)

	if !isSameDay(noon, lateSameDay) {
		t.Fatal("same calendar day not detected")
	}
	if isSameDay(noon, nextMorning) {
		t.Fatal("midnight crossing treated as same day")
	}
	if !isYesterday(lateSameDay, nextMorning) {
		t.Fatal("consecutive days not detected")
	}
	if isYesterday(noon, twoDaysOn) {
		t.Fatal("two-day gap treated as consecutive")
	}
}
