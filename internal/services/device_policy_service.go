package services

import (
	"context"

	"github.com/IpsitaPrusty/smart-home-website/domain"
)

// Age thresholds per sensitivity class.
const (
	elevatedAgeThreshold = 16
	highAgeThreshold     = 18
)

// DevicePolicyServiceImpl implements domain.DevicePolicyService. The
// decision is a pure function of age and sensitivity class; consent gates
// account access, sensitivity gates device access, and the two never mix.
type DevicePolicyServiceImpl struct {
	accountRepo domain.AccountRepository
	deviceRepo  domain.DeviceRepository
	clock       domain.Clock
}

// NewDevicePolicyService creates a new device policy service
func NewDevicePolicyService(accountRepo domain.AccountRepository, deviceRepo domain.DeviceRepository, clock domain.Clock) domain.DevicePolicyService {
	return &DevicePolicyServiceImpl{
		accountRepo: accountRepo,
		deviceRepo:  deviceRepo,
		clock:       clock,
	}
}

// Decide implements domain.DevicePolicyService
func (s *DevicePolicyServiceImpl) Decide(age int, class domain.SensitivityClass) domain.AccessDecision {
	switch class {
	case domain.SensitivityElevated:
		if age < elevatedAgeThreshold {
			return domain.AccessDecision{Allowed: false, Reason: domain.ReasonAgeRestricted}
		}
	case domain.SensitivityHigh:
		if age < highAgeThreshold {
			return domain.AccessDecision{Allowed: false, Reason: domain.ReasonAgeRestricted}
		}
	}
	return domain.AccessDecision{Allowed: true}
}

// DecideForAccount implements domain.DevicePolicyService. Age is recomputed
// from the stored date of birth on every call, never cached.
func (s *DevicePolicyServiceImpl) DecideForAccount(ctx context.Context, accountID uint, deviceID uint) (domain.AccessDecision, error) {
	account, err := s.accountRepo.FindByID(ctx, accountID)
	if err != nil {
		return domain.AccessDecision{}, err
	}

	device, err := s.deviceRepo.FindByID(ctx, deviceID)
	if err != nil {
		return domain.AccessDecision{}, err
	}

	return s.Decide(account.Age(s.clock.Now()), device.SensitivityClass), nil
}
