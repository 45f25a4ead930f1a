package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/IpsitaPrusty/smart-home-website/domain"
)

// ConsentHandlers handles the self-consent screen
type ConsentHandlers struct {
	registrationSvc domain.RegistrationService
	consentSvc      domain.ConsentService
	accountRepo     domain.AccountRepository
	clock           domain.Clock
}

// NewConsentHandlers creates new consent handlers
func NewConsentHandlers(registrationSvc domain.RegistrationService, consentSvc domain.ConsentService, accountRepo domain.AccountRepository, clock domain.Clock) *ConsentHandlers {
	return &ConsentHandlers{
		registrationSvc: registrationSvc,
		consentSvc:      consentSvc,
		accountRepo:     accountRepo,
		clock:           clock,
	}
}

// GrantRequest represents one consent checkbox change
type GrantRequest struct {
	AccountID uint   `json:"account_id" binding:"required"`
	Item      string `json:"item" binding:"required"`
	Granted   *bool  `json:"granted" binding:"required"`
}

// CompleteRequest asks to finish the consent step
type CompleteRequest struct {
	AccountID uint `json:"account_id" binding:"required"`
}

// Items lists required and optional consent items for the account's tier
func (h *ConsentHandlers) Items(c *gin.Context) {
	var req CompleteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	account, err := h.accountRepo.FindByID(c.Request.Context(), req.AccountID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Account not found"})
		return
	}

	tier := account.Tier(h.clock.Now())
	c.JSON(http.StatusOK, gin.H{
		"data": gin.H{
			"required_items": h.consentSvc.RequiredItems(tier),
			"optional_items": h.consentSvc.OptionalItems(tier),
		},
	})
}

// Grant records one consent item grant or withdrawal
func (h *ConsentHandlers) Grant(c *gin.Context) {
	var req GrantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.consentSvc.RecordGrant(c.Request.Context(), req.AccountID, req.Item, *req.Granted); err != nil {
		if errors.Is(err, domain.ErrUnknownConsent) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown consent item"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to record consent"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data": gin.H{"message": "Consent recorded"},
	})
}

// Complete finishes the consent step once every required item is granted
func (h *ConsentHandlers) Complete(c *gin.Context) {
	var req CompleteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	account, err := h.registrationSvc.CompleteConsent(c.Request.Context(), req.AccountID)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrAccountNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Account not found"})
		case errors.Is(err, domain.ErrNotAuthenticated):
			c.JSON(http.StatusForbidden, gin.H{"error": "Account verification incomplete"})
		case errors.Is(err, domain.ErrIncompleteConsent):
			c.JSON(http.StatusBadRequest, gin.H{"error": "All required terms must be accepted"})
		case errors.Is(err, domain.ErrInvalidState):
			c.JSON(http.StatusConflict, gin.H{"error": "Operation not valid in current state"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to complete consent"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data": gin.H{
			"message":        "Consent complete. Dashboard unlocked.",
			"account_id":     account.ID,
			"consent_status": account.ConsentStatus,
		},
	})
}

// Deny declines the required terms and erases the pending account
func (h *ConsentHandlers) Deny(c *gin.Context) {
	var req CompleteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.consentSvc.Deny(c.Request.Context(), req.AccountID); err != nil {
		if errors.Is(err, domain.ErrAccountNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Account not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to record denial"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data": gin.H{"message": "Consent denied. Account removed."},
	})
}
