package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/IpsitaPrusty/smart-home-website/domain"
)

// AuthHandlers handles registration and login HTTP requests
type AuthHandlers struct {
	registrationSvc domain.RegistrationService
	consentSvc      domain.ConsentService
	clock           domain.Clock
}

// NewAuthHandlers creates new auth handlers
func NewAuthHandlers(registrationSvc domain.RegistrationService, consentSvc domain.ConsentService, clock domain.Clock) *AuthHandlers {
	return &AuthHandlers{
		registrationSvc: registrationSvc,
		consentSvc:      consentSvc,
		clock:           clock,
	}
}

// RegisterRequest represents the registration details form
type RegisterRequest struct {
	Name            string `json:"name" binding:"required"`
	Email           string `json:"email" binding:"required"`
	DateOfBirth     string `json:"date_of_birth" binding:"required"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirm_password"`
	AcceptedTerms   bool   `json:"accepted_terms"`
}

// OTPVerifyRequest represents OTP verification during registration
type OTPVerifyRequest struct {
	AccountID uint   `json:"account_id" binding:"required"`
	Code      string `json:"code" binding:"required"`
}

// OTPResendRequest asks for a fresh code
type OTPResendRequest struct {
	AccountID uint `json:"account_id" binding:"required"`
}

// LoginRequest represents login credentials
type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// Register handles the registration details submission
func (h *AuthHandlers) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	dob, err := time.Parse("2006-01-02", req.DateOfBirth)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid date of birth"})
		return
	}

	outcome, err := h.registrationSvc.SubmitDetails(c.Request.Context(), domain.RegistrationDetails{
		Name:            req.Name,
		Email:           req.Email,
		DateOfBirth:     dob,
		Password:        req.Password,
		ConfirmPassword: req.ConfirmPassword,
		AcceptedTerms:   req.AcceptedTerms,
	})
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrAccountAlreadyExists):
			c.JSON(http.StatusConflict, gin.H{"error": "Account already exists"})
		case errors.Is(err, domain.ErrMissingFields), errors.Is(err, domain.ErrInvalidEmail),
			errors.Is(err, domain.ErrInvalidDate), errors.Is(err, domain.ErrPasswordMismatch),
			errors.Is(err, domain.ErrWeakPassword), errors.Is(err, domain.ErrTermsNotAccepted):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		case errors.Is(err, domain.ErrDeliveryFailed):
			c.JSON(http.StatusBadGateway, gin.H{"error": "Failed to send verification code"})
		case errors.Is(err, domain.ErrResendThrottled):
			c.JSON(http.StatusTooManyRequests, gin.H{"error": "Please wait before requesting a new code"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to register account"})
		}
		return
	}

	if outcome.RoutedToParental {
		c.JSON(http.StatusCreated, gin.H{
			"data": gin.H{
				"message":           "Parental consent required for users under 13.",
				"account_id":        outcome.Account.ID,
				"parental_required": true,
			},
		})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"data": gin.H{
			"message":           "Account created. Please verify your email address.",
			"account_id":        outcome.Account.ID,
			"parental_required": false,
		},
	})
}

// VerifyOTP handles registration OTP verification
func (h *AuthHandlers) VerifyOTP(c *gin.Context) {
	var req OTPVerifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	account, err := h.registrationSvc.SubmitOTP(c.Request.Context(), req.AccountID, req.Code)
	if err != nil {
		respondChallengeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data": gin.H{
			"message":        "Email verified. Please review and accept the legal terms.",
			"account_id":     account.ID,
			"consent_status": account.ConsentStatus,
			"required_items": h.consentSvc.RequiredItems(account.Tier(h.clock.Now())),
			"optional_items": h.consentSvc.OptionalItems(account.Tier(h.clock.Now())),
		},
	})
}

// ResendOTP handles registration OTP re-issuance
func (h *AuthHandlers) ResendOTP(c *gin.Context) {
	var req OTPResendRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.registrationSvc.ResendOTP(c.Request.Context(), req.AccountID); err != nil {
		respondChallengeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data": gin.H{"message": "Verification code resent"},
	})
}

// Login handles login re-entry
func (h *AuthHandlers) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := h.registrationSvc.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		switch err {
		case domain.ErrInvalidCredentials:
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
		case domain.ErrNotAuthenticated:
			c.JSON(http.StatusForbidden, gin.H{"error": "Account verification incomplete"})
		case domain.ErrConsentDenied:
			c.JSON(http.StatusForbidden, gin.H{"error": "Consent was denied for this account"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Login failed"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data": gin.H{
			"access_token":  result.AccessToken,
			"refresh_token": result.RefreshToken,
			"token_type":    "Bearer",
			"expires_in":    result.ExpiresIn,
			"account": gin.H{
				"id":             result.Account.ID,
				"name":           result.Account.Name,
				"email":          result.Account.Email,
				"consent_status": result.Account.ConsentStatus,
			},
		},
	})
}

// Me handles getting the account profile (requires authentication)
func (h *AuthHandlers) Me(c *gin.Context) {
	accountID, exists := c.Get("account_id")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Account ID not found in context"})
		return
	}

	account, err := h.registrationSvc.DashboardGate(c.Request.Context(), accountID.(uint))
	if err != nil {
		switch err {
		case domain.ErrAccountNotFound:
			c.JSON(http.StatusNotFound, gin.H{"error": "Account not found"})
		case domain.ErrNotAuthenticated:
			c.JSON(http.StatusForbidden, gin.H{"error": "Account verification incomplete", "redirect": "login"})
		case domain.ErrConsentIncomplete:
			c.JSON(http.StatusForbidden, gin.H{"error": "Consent incomplete", "redirect": "consent"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load profile"})
		}
		return
	}

	now := h.clock.Now()
	c.JSON(http.StatusOK, gin.H{
		"data": gin.H{
			"id":             account.ID,
			"name":           account.Name,
			"email":          account.Email,
			"age":            account.Age(now),
			"tier":           account.Tier(now),
			"consent_status": account.ConsentStatus,
			"created_at":     account.CreatedAt,
			"updated_at":     account.UpdatedAt,
		},
	})
}

// Logout handles logout (requires authentication)
func (h *AuthHandlers) Logout(c *gin.Context) {
	sessionID, exists := c.Get("session_id")
	if !exists {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Session ID not found"})
		return
	}

	if err := h.registrationSvc.Logout(c.Request.Context(), sessionID.(string)); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Logout failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data": gin.H{"message": "Logged out successfully"},
	})
}

// respondChallengeError maps challenge and account errors to HTTP statuses.
// Services wrap some sentinels with context, so matching uses errors.Is.
func respondChallengeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domain.ErrAccountNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Account not found"})
	case errors.Is(err, domain.ErrInvalidState):
		c.JSON(http.StatusConflict, gin.H{"error": "Operation not valid in current state"})
	case errors.Is(err, domain.ErrChallengeNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "No active verification code"})
	case errors.Is(err, domain.ErrChallengeExpired):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Verification code has expired"})
	case errors.Is(err, domain.ErrChallengeMismatch):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid verification code"})
	case errors.Is(err, domain.ErrChallengeExhausted):
		c.JSON(http.StatusTooManyRequests, gin.H{"error": "Maximum attempts exceeded, request a new code"})
	case errors.Is(err, domain.ErrResendThrottled):
		c.JSON(http.StatusTooManyRequests, gin.H{"error": "Please wait before requesting a new code"})
	case errors.Is(err, domain.ErrDeliveryFailed):
		c.JSON(http.StatusBadGateway, gin.H{"error": "Failed to send verification code"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Verification failed"})
	}
}
