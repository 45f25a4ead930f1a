package mocks

import (
	"context"

	"github.com/IpsitaPrusty/smart-home-website/domain"
)

// MockConsentRepository implements domain.ConsentRepository for testing
type MockConsentRepository struct {
	UpsertFunc          func(ctx context.Context, accountID uint, item domain.ConsentItem) error
	FindByAccountFunc   func(ctx context.Context, accountID uint) (*domain.ConsentRecord, error)
	DeleteByAccountFunc func(ctx context.Context, accountID uint) error
}

// NewMockConsentRepository creates a new MockConsentRepository with default behaviors
func NewMockConsentRepository() *MockConsentRepository {
	return &MockConsentRepository{}
}

// Upsert records a consent item
func (m *MockConsentRepository) Upsert(ctx context.Context, accountID uint, item domain.ConsentItem) error {
	if m.UpsertFunc != nil {
		return m.UpsertFunc(ctx, accountID, item)
	}
	// Default behavior: success
	return nil
}

// FindByAccount returns the consent record for an account
func (m *MockConsentRepository) FindByAccount(ctx context.Context, accountID uint) (*domain.ConsentRecord, error) {
	if m.FindByAccountFunc != nil {
		return m.FindByAccountFunc(ctx, accountID)
	}
	// Default behavior: empty record
	return &domain.ConsentRecord{SubjectAccountID: accountID, Items: map[string]domain.ConsentItem{}}, nil
}

// DeleteByAccount erases the consent record for an account
func (m *MockConsentRepository) DeleteByAccount(ctx context.Context, accountID uint) error {
	if m.DeleteByAccountFunc != nil {
		return m.DeleteByAccountFunc(ctx, accountID)
	}
	// Default behavior: success
	return nil
}

// Compile-time interface compliance verification
var _ domain.ConsentRepository = (*MockConsentRepository)(nil)
