package mocks

import (
	"fmt"
	"time"

	"github.com/IpsitaPrusty/smart-home-website/domain"
)

// MockTokenService implements domain.TokenService for testing
type MockTokenService struct {
	GenerateAccessTokenFunc  func(accountID uint, tier string, sessionID string) (string, error)
	GenerateRefreshTokenFunc func(accountID uint, tier string, sessionID string) (string, error)
	ValidateAccessTokenFunc  func(token string) (*domain.TokenClaims, error)
	ValidateRefreshTokenFunc func(token string) (*domain.TokenClaims, error)
}

// NewMockTokenService creates a new MockTokenService with default behaviors
func NewMockTokenService() *MockTokenService {
	return &MockTokenService{}
}

// GenerateAccessToken generates an access token
func (m *MockTokenService) GenerateAccessToken(accountID uint, tier string, sessionID string) (string, error) {
	if m.GenerateAccessTokenFunc != nil {
		return m.GenerateAccessTokenFunc(accountID, tier, sessionID)
	}
	return fmt.Sprintf("access_%d_%s_%s", accountID, tier, sessionID), nil
}

// GenerateRefreshToken generates a refresh token
func (m *MockTokenService) GenerateRefreshToken(accountID uint, tier string, sessionID string) (string, error) {
	if m.GenerateRefreshTokenFunc != nil {
		return m.GenerateRefreshTokenFunc(accountID, tier, sessionID)
	}
	return fmt.Sprintf("refresh_%d_%s_%s", accountID, tier, sessionID), nil
}

// ValidateAccessToken validates an access token
func (m *MockTokenService) ValidateAccessToken(token string) (*domain.TokenClaims, error) {
	if m.ValidateAccessTokenFunc != nil {
		return m.ValidateAccessTokenFunc(token)
	}
	// Default behavior: claims for account 1
	return &domain.TokenClaims{
		AccountID: 1,
		Tier:      string(domain.TierAdult),
		SessionID: "test-session",
		IssuedAt:  time.Now().Unix(),
		ExpiresAt: time.Now().Add(15 * time.Minute).Unix(),
	}, nil
}

// ValidateRefreshToken validates a refresh token
func (m *MockTokenService) ValidateRefreshToken(token string) (*domain.TokenClaims, error) {
	if m.ValidateRefreshTokenFunc != nil {
		return m.ValidateRefreshTokenFunc(token)
	}
	return m.ValidateAccessToken(token)
}

// Compile-time interface compliance verification
var _ domain.TokenService = (*MockTokenService)(nil)
