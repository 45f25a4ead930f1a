package mocks

import (
	"context"
	"time"

	"github.com/IpsitaPrusty/smart-home-website/domain"
)

// MockRegistrationService implements domain.RegistrationService for testing
type MockRegistrationService struct {
	SubmitDetailsFunc   func(ctx context.Context, details domain.RegistrationDetails) (*domain.RegistrationOutcome, error)
	SubmitOTPFunc       func(ctx context.Context, accountID uint, code string) (*domain.Account, error)
	ResendOTPFunc       func(ctx context.Context, accountID uint) error
	CompleteConsentFunc func(ctx context.Context, accountID uint) (*domain.Account, error)
	LoginFunc           func(ctx context.Context, email, password string) (*domain.AuthResult, error)
	LogoutFunc          func(ctx context.Context, sessionID string) error
	DashboardGateFunc   func(ctx context.Context, accountID uint) (*domain.Account, error)
}

// NewMockRegistrationService creates a new MockRegistrationService with default behaviors
func NewMockRegistrationService() *MockRegistrationService {
	return &MockRegistrationService{}
}

func defaultMockAccount() *domain.Account {
	return &domain.Account{
		ID:                1,
		Name:              "Test Account",
		Email:             "test@example.com",
		DateOfBirth:       time.Date(1994, 3, 1, 0, 0, 0, 0, time.UTC),
		Authenticated:     true,
		ConsentStatus:     domain.ConsentSelfGranted,
		RegistrationState: domain.RegStateConsented,
	}
}

// SubmitDetails submits the registration form
func (m *MockRegistrationService) SubmitDetails(ctx context.Context, details domain.RegistrationDetails) (*domain.RegistrationOutcome, error) {
	if m.SubmitDetailsFunc != nil {
		return m.SubmitDetailsFunc(ctx, details)
	}
	// Default behavior: adult account parked at OTP verification
	account := defaultMockAccount()
	account.Authenticated = false
	account.ConsentStatus = domain.ConsentPending
	account.RegistrationState = domain.RegStateOTPPending
	return &domain.RegistrationOutcome{Account: account}, nil
}

// SubmitOTP verifies the registration code
func (m *MockRegistrationService) SubmitOTP(ctx context.Context, accountID uint, code string) (*domain.Account, error) {
	if m.SubmitOTPFunc != nil {
		return m.SubmitOTPFunc(ctx, accountID, code)
	}
	if code != "123456" {
		return nil, domain.ErrChallengeMismatch
	}
	account := defaultMockAccount()
	account.ID = accountID
	account.ConsentStatus = domain.ConsentPending
	account.RegistrationState = domain.RegStateVerifiedUnconsented
	return account, nil
}

// ResendOTP reissues the registration code
func (m *MockRegistrationService) ResendOTP(ctx context.Context, accountID uint) error {
	if m.ResendOTPFunc != nil {
		return m.ResendOTPFunc(ctx, accountID)
	}
	return nil
}

// CompleteConsent finishes the consent step
func (m *MockRegistrationService) CompleteConsent(ctx context.Context, accountID uint) (*domain.Account, error) {
	if m.CompleteConsentFunc != nil {
		return m.CompleteConsentFunc(ctx, accountID)
	}
	account := defaultMockAccount()
	account.ID = accountID
	return account, nil
}

// Login authenticates credentials and opens a session
func (m *MockRegistrationService) Login(ctx context.Context, email, password string) (*domain.AuthResult, error) {
	if m.LoginFunc != nil {
		return m.LoginFunc(ctx, email, password)
	}
	return &domain.AuthResult{
		Account:      defaultMockAccount(),
		AccessToken:  "access_token",
		RefreshToken: "refresh_token",
		SessionID:    "test-session",
		ExpiresIn:    900,
	}, nil
}

// Logout closes a session
func (m *MockRegistrationService) Logout(ctx context.Context, sessionID string) error {
	if m.LogoutFunc != nil {
		return m.LogoutFunc(ctx, sessionID)
	}
	return nil
}

// DashboardGate checks authentication and consent before dashboard access
func (m *MockRegistrationService) DashboardGate(ctx context.Context, accountID uint) (*domain.Account, error) {
	if m.DashboardGateFunc != nil {
		return m.DashboardGateFunc(ctx, accountID)
	}
	account := defaultMockAccount()
	account.ID = accountID
	return account, nil
}

// Compile-time interface compliance verification
var _ domain.RegistrationService = (*MockRegistrationService)(nil)
