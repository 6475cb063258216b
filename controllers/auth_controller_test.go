package controllers

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/whatisrealfreedom/religion-and-freedom-sub000/models"
)

func authRouter() *gin.Engine {
	ac := NewAuthController(nil)
	r := gin.New()
	r.POST("/register", ac.Register)
	return r
}

func TestRegisterRejectsMissingFields(t *testing.T) {
	w := postJSON(t, authRouter(), "/register", `{"username":"reader"}`)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
}

func TestRegisterRejectsBadEmail(t *testing.T) {
	w := postJSON(t, authRouter(), "/register",
		`{"username":"reader","email":"not-an-email","password":"longenough"}`)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
}

func TestRegisterRejectsShortUsername(t *testing.T) {
	w := postJSON(t, authRouter(), "/register",
		`{"username":"ab","email":"reader@example.com","password":"longenough"}`)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
	if code := businessCode(t, w.Body.Bytes()); code != 40002 {
		t.Fatalf("business code = %d, want 40002", code)
	}
}

func TestRegisterRejectsShortPassword(t *testing.T) {
	w := postJSON(t, authRouter(), "/register",
		`{"username":"reader","email":"reader@example.com","password":"short"}`)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
	if code := businessCode(t, w.Body.Bytes()); code != 40003 {
		t.Fatalf("business code = %d, want 40003", code)
	}
}

// Resend answers every email with the same body so the endpoint cannot be
// used to enumerate which addresses hold accounts.
func TestResendCodeDoesNotRevealRegistrationState(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	db := openTestDB(t)
	verified := models.User{Username: "porsande", Email: "known@example.com", EmailVerified: true}
	if err := db.Create(&verified).Error; err != nil {
		t.Fatalf("seed user: %v", err)
	}

	ac := NewAuthController(db)
	r := gin.New()
	r.POST("/resend", ac.ResendCode)

	known := postJSON(t, r, "/resend", `{"email":"known@example.com"}`)
	unknown := postJSON(t, r, "/resend", `{"email":"nobody@example.com"}`)

	if known.Code != http.StatusOK || unknown.Code != http.StatusOK {
		t.Fatalf("status = %d/%d, want 200/200", known.Code, unknown.Code)
	}
	if known.Body.String() != unknown.Body.String() {
		t.Fatalf("verified account answer differs from unknown address:\n%s\nvs\n%s",
			known.Body.String(), unknown.Body.String())
	}
}

func TestValidUsername(t *testing.T) {
	valid := []string{"reader", "Reader-01", "azadi_khah", "آزادی", "خواننده-۱"}
	for _, s := range valid {
		if !validUsername(s) {
			t.Errorf("validUsername(%q) = false, want true", s)
		}
	}
	invalid := []string{"user name", "reader!", "a@b", "läser"}
	for _, s := range invalid {
		if validUsername(s) {
			t.Errorf("validUsername(%q) = true, want false", s)
		}
	}
}
