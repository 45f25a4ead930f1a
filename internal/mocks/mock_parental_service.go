package mocks

import (
	"context"

	"github.com/IpsitaPrusty/smart-home-website/domain"
)

// MockParentalService implements domain.ParentalService for testing
type MockParentalService struct {
	SubmitInfoFunc         func(ctx context.Context, childAccountID uint, guardian domain.GuardianContact, consents domain.GuardianConsents) (*domain.ParentalConsentRecord, error)
	SubmitVerificationFunc func(ctx context.Context, childAccountID uint, code string) (*domain.ParentalVerificationResult, error)
	ResendFunc             func(ctx context.Context, childAccountID uint) error
	AbandonFunc            func(ctx context.Context, childAccountID uint) error
	StatusFunc             func(ctx context.Context, childAccountID uint) (*domain.ParentalConsentRecord, error)
}

// NewMockParentalService creates a new MockParentalService with default behaviors
func NewMockParentalService() *MockParentalService {
	return &MockParentalService{}
}

// SubmitInfo records guardian info and consents
func (m *MockParentalService) SubmitInfo(ctx context.Context, childAccountID uint, guardian domain.GuardianContact, consents domain.GuardianConsents) (*domain.ParentalConsentRecord, error) {
	if m.SubmitInfoFunc != nil {
		return m.SubmitInfoFunc(ctx, childAccountID, guardian, consents)
	}
	return &domain.ParentalConsentRecord{
		ChildAccountID: childAccountID,
		Guardian:       guardian,
		Consents:       consents,
		State:          domain.ParentalAwaitingVerification,
	}, nil
}

// SubmitVerification checks the guardian's code
func (m *MockParentalService) SubmitVerification(ctx context.Context, childAccountID uint, code string) (*domain.ParentalVerificationResult, error) {
	if m.SubmitVerificationFunc != nil {
		return m.SubmitVerificationFunc(ctx, childAccountID, code)
	}
	if code != "123456" {
		return nil, domain.ErrChallengeMismatch
	}
	return &domain.ParentalVerificationResult{
		Record: &domain.ParentalConsentRecord{
			ChildAccountID: childAccountID,
			State:          domain.ParentalVerified,
			Verified:       true,
		},
		Auth: &domain.AuthResult{
			Account:      &domain.Account{ID: childAccountID, ConsentStatus: domain.ConsentParentalGranted},
			AccessToken:  "access_token",
			RefreshToken: "refresh_token",
			SessionID:    "test-session",
			ExpiresIn:    900,
		},
	}, nil
}

// Resend reissues the guardian code
func (m *MockParentalService) Resend(ctx context.Context, childAccountID uint) error {
	if m.ResendFunc != nil {
		return m.ResendFunc(ctx, childAccountID)
	}
	return nil
}

// Abandon cancels the workflow
func (m *MockParentalService) Abandon(ctx context.Context, childAccountID uint) error {
	if m.AbandonFunc != nil {
		return m.AbandonFunc(ctx, childAccountID)
	}
	return nil
}

// Status reports the workflow state
func (m *MockParentalService) Status(ctx context.Context, childAccountID uint) (*domain.ParentalConsentRecord, error) {
	if m.StatusFunc != nil {
		return m.StatusFunc(ctx, childAccountID)
	}
	return nil, domain.ErrParentalNotFound
}

// Compile-time interface compliance verification
var _ domain.ParentalService = (*MockParentalService)(nil)
