package controllers

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/whatisrealfreedom/religion-and-freedom-sub000/config"
	"github.com/whatisrealfreedom/religion-and-freedom-sub000/locale"
	"github.com/whatisrealfreedom/religion-and-freedom-sub000/middleware"
	"github.com/whatisrealfreedom/religion-and-freedom-sub000/models"
	"github.com/whatisrealfreedom/religion-and-freedom-sub000/utils"
)

const (
	tokenTTL         = 72 * time.Hour
	verifyCodeTTL    = 10 * time.Minute
	verifyCodeLength = 6
	resendCooldown   = 60 * time.Second
)

// AuthController handles registration with email verification, login and
// session management.
type AuthController struct {
	db *gorm.DB
}

// NewAuthController creates an AuthController.
func NewAuthController(db *gorm.DB) *AuthController {
	return &AuthController{db: db}
}

// Register creates an unverified account and mails a verification code in the
// caller's locale. The account cannot log in until the code is confirmed.
func (a *AuthController) Register(ctx *gin.Context) {
	var req struct {
		Username string `json:"username" binding:"required"`
		Email    string `json:"email" binding:"required,email"`
		Password string `json:"password" binding:"required"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40001, "invalid request payload")
		return
	}

	req.Username = strings.TrimSpace(req.Username)
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))

	if l := len([]rune(req.Username)); l < 3 || l > 32 {
		utils.Error(ctx, http.StatusBadRequest, 40002, "username must be 3-32 characters")
		return
	}
	if !validUsername(req.Username) {
		utils.Error(ctx, http.StatusBadRequest, 40002, "username may contain Persian or Latin letters, digits, '-' and '_'")
		return
	}
	if len(req.Password) < 8 || len(req.Password) > 64 {
		utils.Error(ctx, http.StatusBadRequest, 40003, "password must be 8-64 characters")
		return
	}

	ip := ctx.ClientIP()
	if utils.RegistrationIsBanned(ip) {
		utils.Error(ctx, http.StatusTooManyRequests, 42920, "registration temporarily blocked, try again later")
		return
	}
	if !utils.RegistrationCooldownTry(ip) {
		utils.Error(ctx, http.StatusTooManyRequests, 42910, "too many requests, slow down")
		return
	}
	if !utils.RegistrationDailyLimitCheck(ip) {
		utils.Error(ctx, http.StatusTooManyRequests, 42921, "daily registration limit reached")
		return
	}

	var existing models.User
	if err := a.db.Where("username = ?", req.Username).First(&existing).Error; err == nil {
		utils.Error(ctx, http.StatusConflict, 40901, "username already exists")
		return
	}
	if err := a.db.Where("email = ?", req.Email).First(&existing).Error; err == nil {
		utils.Error(ctx, http.StatusConflict, 40902, "email already registered")
		return
	}

	hash, err := utils.HashPassword(req.Password)
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50001, "failed to hash password")
		return
	}

	user := models.User{
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: hash,
		RegisterIP:   ip,
	}
	if err := a.db.Create(&user).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50002, "failed to create user")
		fails := utils.RegistrationFailRecord(ip)
		if fails >= config.Get().RegisterFailedMaxPerIPPerHour {
			utils.RegistrationBan(ip)
		}
		return
	}
	utils.RegistrationDailyIncrement(ip)

	if err := a.sendVerificationCode(ctx, user.Email); err != nil {
		// The account exists; the code can be re-requested.
		utils.Success(ctx, gin.H{
			"user":      user.Public(),
			"verified":  false,
			"mail_sent": false,
		})
		return
	}

	utils.Success(ctx, gin.H{
		"user":      user.Public(),
		"verified":  false,
		"mail_sent": true,
	})
}

// VerifyEmail confirms the mailed code, marks the account verified and issues
// the first token.
func (a *AuthController) VerifyEmail(ctx *gin.Context) {
	var req struct {
		Email string `json:"email" binding:"required"`
		Code  string `json:"code" binding:"required"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40004, "invalid request payload")
		return
	}
	email := strings.ToLower(strings.TrimSpace(req.Email))

	if !utils.ConsumeVerificationCode(email, strings.TrimSpace(req.Code)) {
		utils.Error(ctx, http.StatusBadRequest, 40005, "code invalid or expired")
		return
	}

	var user models.User
	if err := a.db.Where("email = ?", email).First(&user).Error; err != nil {
		utils.Error(ctx, http.StatusNotFound, 40410, "user not found")
		return
	}
	if !user.EmailVerified {
		if err := a.db.Model(&user).Update("email_verified", true).Error; err != nil {
			utils.Error(ctx, http.StatusInternalServerError, 50003, "failed to verify account")
			return
		}
		user.EmailVerified = true
	}

	token, err := utils.GenerateToken(user.ID, user.Username, tokenTTL)
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50004, "failed to generate token")
		return
	}

	utils.Success(ctx, gin.H{"token": token, "user": user})
}

// ResendCode mails a fresh verification code for a not-yet-verified account.
func (a *AuthController) ResendCode(ctx *gin.Context) {
	var req struct {
		Email string `json:"email" binding:"required"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40006, "invalid request payload")
		return
	}
	email := strings.ToLower(strings.TrimSpace(req.Email))

	// Unknown addresses and already-verified accounts get the same answer as
	// the happy path, so the endpoint reveals nothing about registration
	// state.
	var user models.User
	if err := a.db.Where("email = ?", email).First(&user).Error; err != nil {
		utils.Success(ctx, gin.H{"message": "if the address is registered, a code has been sent"})
		return
	}
	if user.EmailVerified {
		utils.Success(ctx, gin.H{"message": "if the address is registered, a code has been sent"})
		return
	}

	if !utils.VerificationCooldownTry(email, resendCooldown) {
		utils.Error(ctx, http.StatusTooManyRequests, 42911, "code already sent recently, try again later")
		return
	}
	if err := a.sendVerificationCode(ctx, email); err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50005, "failed to send verification code")
		return
	}

	utils.Success(ctx, gin.H{"message": "if the address is registered, a code has been sent"})
}

// sendVerificationCode generates a code, mails it in the request locale and
// stores it only after the mail was accepted.
func (a *AuthController) sendVerificationCode(ctx *gin.Context, email string) error {
	code := utils.GenerateVerificationCode(verifyCodeLength)
	l := middleware.RequestLocale(ctx)
	subject := locale.Translate(l, "auth.verify.subject")
	body := fmt.Sprintf(locale.Translate(l, "auth.verify.body"), code)
	if err := utils.SendMail(email, subject, body); err != nil {
		if utils.Sugar != nil {
			utils.Sugar.Warnf("verification mail failed email=%s err=%v", email, err)
		}
		return err
	}
	utils.StoreVerificationCode(email, code, verifyCodeTTL)
	return nil
}

// Login verifies credentials and issues a JWT. Unverified accounts are
// rejected with a distinct code so clients can offer the verify flow.
func (a *AuthController) Login(ctx *gin.Context) {
	var req struct {
		Email    string `json:"email" binding:"required"`
		Password string `json:"password" binding:"required"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40008, "invalid request payload")
		return
	}
	email := strings.ToLower(strings.TrimSpace(req.Email))

	var user models.User
	if err := a.db.Where("email = ?", email).First(&user).Error; err != nil {
		utils.Error(ctx, http.StatusUnauthorized, 40106, "invalid email or password")
		return
	}
	if !utils.CheckPassword(user.PasswordHash, req.Password) {
		utils.Error(ctx, http.StatusUnauthorized, 40106, "invalid email or password")
		return
	}
	if !user.EmailVerified {
		utils.Error(ctx, http.StatusForbidden, 40320, "email not verified")
		return
	}

	token, err := utils.GenerateToken(user.ID, user.Username, tokenTTL)
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50004, "failed to generate token")
		return
	}

	utils.Success(ctx, gin.H{"token": token, "user": user})
}

// Logout invalidates the token by blacklisting it until expiration.
func (a *AuthController) Logout(ctx *gin.Context) {
	authHeader := ctx.GetHeader("Authorization")
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 {
		utils.Error(ctx, http.StatusUnauthorized, 40107, "invalid authorization header")
		return
	}

	token := strings.TrimSpace(parts[1])
	claims, err := utils.ParseToken(token)
	if err != nil {
		utils.Error(ctx, http.StatusUnauthorized, 40105, "invalid token")
		return
	}

	expiresAt := time.Now().Add(tokenTTL)
	if claims.RegisteredClaims.ExpiresAt != nil {
		expiresAt = claims.RegisteredClaims.ExpiresAt.Time
	}

	utils.RevokeToken(token, expiresAt)
	utils.Success(ctx, gin.H{"message": "logged out"})
}

// Me returns the current authenticated user's information.
func (a *AuthController) Me(ctx *gin.Context) {
	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40108, "unauthorized")
		return
	}

	var user models.User
	if err := a.db.First(&user, userID).Error; err != nil {
		utils.Error(ctx, http.StatusNotFound, 40410, "user not found")
		return
	}

	utils.Success(ctx, user)
}

// validUsername allows Persian letters, Latin letters, digits, '-' and '_'.
func validUsername(s string) bool {
	for _, r := range s {
		if r == '-' || r == '_' {
			continue
		}
		if (r >= '0' && r <= '9') || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') {
			continue
		}
		// Arabic/Persian block plus the Persian-specific letters.
		if r >= 0x0600 && r <= 0x06FF {
			continue
		}
		return false
	}
	return true
}
