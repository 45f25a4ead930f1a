package mocks

import (
	"context"
	"time"

	"github.com/IpsitaPrusty/smart-home-website/domain"
)

// MockOTPService implements domain.OTPService for testing
type MockOTPService struct {
	IssueFunc  func(ctx context.Context, channel string) (*domain.OTPChallenge, error)
	VerifyFunc func(ctx context.Context, channel, submittedCode string) error
	ResendFunc func(ctx context.Context, channel string) (*domain.OTPChallenge, error)
}

// NewMockOTPService creates a new MockOTPService with default behaviors
func NewMockOTPService() *MockOTPService {
	return &MockOTPService{}
}

// Issue issues a new challenge for the channel
func (m *MockOTPService) Issue(ctx context.Context, channel string) (*domain.OTPChallenge, error) {
	if m.IssueFunc != nil {
		return m.IssueFunc(ctx, channel)
	}
	// Default behavior: a fixed mock challenge
	now := time.Now()
	return &domain.OTPChallenge{
		Channel:           channel,
		Code:              "123456",
		IssuedAt:          now,
		ExpiresAt:         now.Add(10 * time.Minute),
		AttemptsRemaining: 5,
	}, nil
}

// Verify checks a submitted code against the active challenge
func (m *MockOTPService) Verify(ctx context.Context, channel, submittedCode string) error {
	if m.VerifyFunc != nil {
		return m.VerifyFunc(ctx, channel, submittedCode)
	}
	// Default behavior: accept "123456"
	if submittedCode != "123456" {
		return domain.ErrChallengeMismatch
	}
	return nil
}

// Resend reissues the challenge for the channel
func (m *MockOTPService) Resend(ctx context.Context, channel string) (*domain.OTPChallenge, error) {
	if m.ResendFunc != nil {
		return m.ResendFunc(ctx, channel)
	}
	return m.Issue(ctx, channel)
}

// Compile-time interface compliance verification
var _ domain.OTPService = (*MockOTPService)(nil)
