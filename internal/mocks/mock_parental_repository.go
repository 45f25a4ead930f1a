package mocks

import (
	"context"

	"github.com/IpsitaPrusty/smart-home-website/domain"
)

// MockParentalConsentRepository implements domain.ParentalConsentRepository for testing
type MockParentalConsentRepository struct {
	SaveFunc             func(ctx context.Context, record *domain.ParentalConsentRecord) error
	FindByChildFunc      func(ctx context.Context, childAccountID uint) (*domain.ParentalConsentRecord, error)
	DeleteByChildFunc    func(ctx context.Context, childAccountID uint) error
	FinalizeVerifiedFunc func(ctx context.Context, record *domain.ParentalConsentRecord, account *domain.Account) error
}

// NewMockParentalConsentRepository creates a new MockParentalConsentRepository with default behaviors
func NewMockParentalConsentRepository() *MockParentalConsentRepository {
	return &MockParentalConsentRepository{}
}

// Save stores the parental consent record
func (m *MockParentalConsentRepository) Save(ctx context.Context, record *domain.ParentalConsentRecord) error {
	if m.SaveFunc != nil {
		return m.SaveFunc(ctx, record)
	}
	// Default behavior: success
	return nil
}

// FindByChild returns the record for a child account
func (m *MockParentalConsentRepository) FindByChild(ctx context.Context, childAccountID uint) (*domain.ParentalConsentRecord, error) {
	if m.FindByChildFunc != nil {
		return m.FindByChildFunc(ctx, childAccountID)
	}
	// Default behavior: not found
	return nil, domain.ErrParentalNotFound
}

// DeleteByChild removes the record for a child account
func (m *MockParentalConsentRepository) DeleteByChild(ctx context.Context, childAccountID uint) error {
	if m.DeleteByChildFunc != nil {
		return m.DeleteByChildFunc(ctx, childAccountID)
	}
	// Default behavior: success
	return nil
}

// FinalizeVerified persists the verified record and unlocked account together
func (m *MockParentalConsentRepository) FinalizeVerified(ctx context.Context, record *domain.ParentalConsentRecord, account *domain.Account) error {
	if m.FinalizeVerifiedFunc != nil {
		return m.FinalizeVerifiedFunc(ctx, record, account)
	}
	// Default behavior: delegate to Save; the account write is a no-op
	return m.Save(ctx, record)
}

// Compile-time interface compliance verification
var _ domain.ParentalConsentRepository = (*MockParentalConsentRepository)(nil)
