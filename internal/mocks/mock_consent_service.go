package mocks

import (
	"context"

	"github.com/IpsitaPrusty/smart-home-website/domain"
)

// MockConsentService implements domain.ConsentService for testing
type MockConsentService struct {
	RequiredItemsFunc func(tier domain.ComplianceTier) []string
	OptionalItemsFunc func(tier domain.ComplianceTier) []string
	RecordGrantFunc   func(ctx context.Context, accountID uint, item string, granted bool) error
	IsCompleteFunc    func(ctx context.Context, accountID uint) (bool, error)
	DenyFunc          func(ctx context.Context, accountID uint) error
}

// NewMockConsentService creates a new MockConsentService with default behaviors
func NewMockConsentService() *MockConsentService {
	return &MockConsentService{}
}

// RequiredItems returns the required consent item names
func (m *MockConsentService) RequiredItems(tier domain.ComplianceTier) []string {
	if m.RequiredItemsFunc != nil {
		return m.RequiredItemsFunc(tier)
	}
	return []string{"privacy", "terms", "dataProcessing"}
}

// OptionalItems returns the optional consent item names
func (m *MockConsentService) OptionalItems(tier domain.ComplianceTier) []string {
	if m.OptionalItemsFunc != nil {
		return m.OptionalItemsFunc(tier)
	}
	return []string{"marketing"}
}

// RecordGrant records a consent grant
func (m *MockConsentService) RecordGrant(ctx context.Context, accountID uint, item string, granted bool) error {
	if m.RecordGrantFunc != nil {
		return m.RecordGrantFunc(ctx, accountID, item, granted)
	}
	// Default behavior: success
	return nil
}

// IsComplete reports consent completeness
func (m *MockConsentService) IsComplete(ctx context.Context, accountID uint) (bool, error) {
	if m.IsCompleteFunc != nil {
		return m.IsCompleteFunc(ctx, accountID)
	}
	// Default behavior: complete
	return true, nil
}

// Deny records a consent denial
func (m *MockConsentService) Deny(ctx context.Context, accountID uint) error {
	if m.DenyFunc != nil {
		return m.DenyFunc(ctx, accountID)
	}
	// Default behavior: success
	return nil
}

// Compile-time interface compliance verification
var _ domain.ConsentService = (*MockConsentService)(nil)
