package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/IpsitaPrusty/smart-home-website/domain"
)

// DeviceHandlers serves the device dashboard. Access decisions are computed
// fresh per request from the caller's current age.
type DeviceHandlers struct {
	deviceRepo  domain.DeviceRepository
	policySvc   domain.DevicePolicyService
	accountRepo domain.AccountRepository
	clock       domain.Clock
}

// NewDeviceHandlers creates new device handlers
func NewDeviceHandlers(deviceRepo domain.DeviceRepository, policySvc domain.DevicePolicyService, accountRepo domain.AccountRepository, clock domain.Clock) *DeviceHandlers {
	return &DeviceHandlers{
		deviceRepo:  deviceRepo,
		policySvc:   policySvc,
		accountRepo: accountRepo,
		clock:       clock,
	}
}

// DeviceView is one dashboard tile: the device plus the caller's decision
type DeviceView struct {
	ID               uint   `json:"id"`
	Name             string `json:"name"`
	Type             string `json:"type"`
	Room             string `json:"room"`
	SensitivityClass string `json:"sensitivity_class"`
	Allowed          bool   `json:"allowed"`
	Reason           string `json:"reason,omitempty"`
}

// List returns every device with the caller's access decision per device
func (h *DeviceHandlers) List(c *gin.Context) {
	accountID := c.GetUint("account_id")

	account, err := h.accountRepo.FindByID(c.Request.Context(), accountID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Account not found"})
		return
	}

	devices, err := h.deviceRepo.List(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list devices"})
		return
	}

	age := account.Age(h.clock.Now())
	views := make([]DeviceView, 0, len(devices))
	restricted := 0
	for _, d := range devices {
		decision := h.policySvc.Decide(age, d.SensitivityClass)
		if !decision.Allowed {
			restricted++
		}
		views = append(views, DeviceView{
			ID:               d.ID,
			Name:             d.Name,
			Type:             d.Type,
			Room:             d.Room,
			SensitivityClass: string(d.SensitivityClass),
			Allowed:          decision.Allowed,
			Reason:           decision.Reason,
		})
	}

	c.JSON(http.StatusOK, gin.H{
		"data": gin.H{
			"devices":          views,
			"restricted_count": restricted,
		},
	})
}

// Check evaluates access to a single device for the caller
func (h *DeviceHandlers) Check(c *gin.Context) {
	accountID := c.GetUint("account_id")

	deviceID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid device ID"})
		return
	}

	decision, err := h.policySvc.DecideForAccount(c.Request.Context(), accountID, uint(deviceID))
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrDeviceNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Device not found"})
		case errors.Is(err, domain.ErrAccountNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Account not found"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to evaluate access"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data": gin.H{
			"device_id": deviceID,
			"allowed":   decision.Allowed,
			"reason":    decision.Reason,
		},
	})
}
