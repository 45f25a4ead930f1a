package mocks

import (
	"context"

	"github.com/IpsitaPrusty/smart-home-website/domain"
)

// MockDevicePolicyService implements domain.DevicePolicyService for testing
type MockDevicePolicyService struct {
	DecideFunc           func(age int, class domain.SensitivityClass) domain.AccessDecision
	DecideForAccountFunc func(ctx context.Context, accountID uint, deviceID uint) (domain.AccessDecision, error)
}

// NewMockDevicePolicyService creates a new MockDevicePolicyService with default behaviors
func NewMockDevicePolicyService() *MockDevicePolicyService {
	return &MockDevicePolicyService{}
}

// Decide evaluates access for an age and sensitivity class
func (m *MockDevicePolicyService) Decide(age int, class domain.SensitivityClass) domain.AccessDecision {
	if m.DecideFunc != nil {
		return m.DecideFunc(age, class)
	}
	// Default behavior: mirror the real thresholds
	switch class {
	case domain.SensitivityElevated:
		if age < 16 {
			return domain.AccessDecision{Allowed: false, Reason: domain.ReasonAgeRestricted}
		}
	case domain.SensitivityHigh:
		if age < 18 {
			return domain.AccessDecision{Allowed: false, Reason: domain.ReasonAgeRestricted}
		}
	}
	return domain.AccessDecision{Allowed: true}
}

// DecideForAccount evaluates access for a stored account and device
func (m *MockDevicePolicyService) DecideForAccount(ctx context.Context, accountID uint, deviceID uint) (domain.AccessDecision, error) {
	if m.DecideForAccountFunc != nil {
		return m.DecideForAccountFunc(ctx, accountID, deviceID)
	}
	return domain.AccessDecision{Allowed: true}, nil
}

// Compile-time interface compliance verification
var _ domain.DevicePolicyService = (*MockDevicePolicyService)(nil)
