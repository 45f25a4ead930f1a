package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/IpsitaPrusty/smart-home-website/domain"
)

// ParentalHandlers handles the parental consent workflow for child accounts
type ParentalHandlers struct {
	parentalSvc domain.ParentalService
}

// NewParentalHandlers creates new parental consent handlers
func NewParentalHandlers(parentalSvc domain.ParentalService) *ParentalHandlers {
	return &ParentalHandlers{parentalSvc: parentalSvc}
}

// GuardianInfoRequest carries the guardian form plus all consent checkboxes
type GuardianInfoRequest struct {
	ChildAccountID uint   `json:"child_account_id" binding:"required"`
	Name           string `json:"guardian_name" binding:"required"`
	Email          string `json:"guardian_email" binding:"required"`
	Phone          string `json:"guardian_phone" binding:"required"`
	Relationship   string `json:"relationship" binding:"required"`
	DataCollection bool   `json:"consent_data_collection"`
	DeviceControl  bool   `json:"consent_device_control"`
	Monitoring     bool   `json:"consent_monitoring"`
	ThirdParty     bool   `json:"consent_third_party"`
}

// ParentalVerifyRequest carries the guardian's OTP submission
type ParentalVerifyRequest struct {
	ChildAccountID uint   `json:"child_account_id" binding:"required"`
	Code           string `json:"code" binding:"required"`
}

// ParentalChildRequest identifies the child account for workflow queries
type ParentalChildRequest struct {
	ChildAccountID uint `json:"child_account_id" binding:"required"`
}

// SubmitInfo accepts guardian details and consents, then sends the guardian
// a verification code
func (h *ParentalHandlers) SubmitInfo(c *gin.Context) {
	var req GuardianInfoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	guardian := domain.GuardianContact{
		Name:         req.Name,
		Email:        req.Email,
		Phone:        req.Phone,
		Relationship: req.Relationship,
	}
	consents := domain.GuardianConsents{
		DataCollection: req.DataCollection,
		DeviceControl:  req.DeviceControl,
		Monitoring:     req.Monitoring,
		ThirdParty:     req.ThirdParty,
	}

	record, err := h.parentalSvc.SubmitInfo(c.Request.Context(), req.ChildAccountID, guardian, consents)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrAccountNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Account not found"})
		case errors.Is(err, domain.ErrNotChildAccount):
			c.JSON(http.StatusBadRequest, gin.H{"error": "Parental consent applies to child accounts only"})
		case errors.Is(err, domain.ErrWorkflowTerminal):
			c.JSON(http.StatusConflict, gin.H{"error": "Parental consent already completed"})
		case errors.Is(err, domain.ErrGuardianContact):
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid guardian contact details"})
		case errors.Is(err, domain.ErrIncompleteConsent):
			c.JSON(http.StatusBadRequest, gin.H{"error": "All guardian consents are required"})
		case errors.Is(err, domain.ErrDeliveryFailed):
			c.JSON(http.StatusBadGateway, gin.H{"error": "Failed to send verification code"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to submit guardian info"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data": gin.H{
			"message": "Verification code sent to guardian",
			"state":   record.State,
		},
	})
}

// Verify checks the guardian's OTP and unlocks the child account
func (h *ParentalHandlers) Verify(c *gin.Context) {
	var req ParentalVerifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := h.parentalSvc.SubmitVerification(c.Request.Context(), req.ChildAccountID, req.Code)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrParentalNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "No parental consent in progress"})
		case errors.Is(err, domain.ErrWorkflowTerminal):
			c.JSON(http.StatusConflict, gin.H{"error": "Parental consent already completed"})
		case errors.Is(err, domain.ErrVerificationPending):
			c.JSON(http.StatusConflict, gin.H{"error": "Guardian details must be submitted first"})
		case errors.Is(err, domain.ErrChallengeNotFound):
			c.JSON(http.StatusBadRequest, gin.H{"error": "No active verification code. Request a new one."})
		case errors.Is(err, domain.ErrChallengeExpired):
			c.JSON(http.StatusBadRequest, gin.H{"error": "Verification code expired. Request a new one."})
		case errors.Is(err, domain.ErrChallengeMismatch):
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid verification code"})
		case errors.Is(err, domain.ErrChallengeExhausted):
			c.JSON(http.StatusBadRequest, gin.H{"error": "Too many attempts. Request a new code."})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Verification failed"})
		}
		return
	}

	// The child registered without a password, so the session issued here is
	// the only way onto the dashboard.
	c.JSON(http.StatusOK, gin.H{
		"data": gin.H{
			"message":       "Parental consent verified. Child account unlocked.",
			"state":         result.Record.State,
			"verified_at":   result.Record.VerificationTimestamp,
			"access_token":  result.Auth.AccessToken,
			"refresh_token": result.Auth.RefreshToken,
			"token_type":    "Bearer",
			"expires_in":    result.Auth.ExpiresIn,
		},
	})
}

// Resend reissues the guardian verification code
func (h *ParentalHandlers) Resend(c *gin.Context) {
	var req ParentalChildRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.parentalSvc.Resend(c.Request.Context(), req.ChildAccountID); err != nil {
		switch {
		case errors.Is(err, domain.ErrParentalNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "No parental consent in progress"})
		case errors.Is(err, domain.ErrVerificationPending):
			c.JSON(http.StatusConflict, gin.H{"error": "Guardian details must be submitted first"})
		case errors.Is(err, domain.ErrWorkflowTerminal):
			c.JSON(http.StatusConflict, gin.H{"error": "Parental consent already completed"})
		case errors.Is(err, domain.ErrResendThrottled):
			c.JSON(http.StatusTooManyRequests, gin.H{"error": "Please wait before requesting another code"})
		case errors.Is(err, domain.ErrDeliveryFailed):
			c.JSON(http.StatusBadGateway, gin.H{"error": "Failed to send verification code"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to resend code"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data": gin.H{"message": "Verification code resent to guardian"},
	})
}

// Abandon cancels an in-progress parental consent workflow
func (h *ParentalHandlers) Abandon(c *gin.Context) {
	var req ParentalChildRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.parentalSvc.Abandon(c.Request.Context(), req.ChildAccountID); err != nil {
		switch {
		case errors.Is(err, domain.ErrParentalNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "No parental consent in progress"})
		case errors.Is(err, domain.ErrWorkflowTerminal):
			c.JSON(http.StatusConflict, gin.H{"error": "Parental consent already completed"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to abandon workflow"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data": gin.H{"message": "Parental consent workflow abandoned"},
	})
}

// Status reports where the parental workflow currently stands
func (h *ParentalHandlers) Status(c *gin.Context) {
	var req ParentalChildRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	record, err := h.parentalSvc.Status(c.Request.Context(), req.ChildAccountID)
	if err != nil {
		if errors.Is(err, domain.ErrParentalNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "No parental consent in progress"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch workflow status"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data": gin.H{
			"state":    record.State,
			"verified": record.Verified,
		},
	})
}
