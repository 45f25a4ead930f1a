package services

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/IpsitaPrusty/smart-home-website/domain"
)

// RegistrationServiceImpl implements domain.RegistrationService: the state
// machine DETAILS -> OTP_PENDING -> VERIFIED_UNCONSENTED -> CONSENTED, with
// child accounts handed off to the parental verification workflow instead.
type RegistrationServiceImpl struct {
	accountRepo domain.AccountRepository
	sessionRepo domain.SessionRepository
	consentSvc  domain.ConsentService
	otpSvc      domain.OTPService
	passwordSvc domain.PasswordService
	tokenSvc    domain.TokenService
	clock       domain.Clock
	sessionTTL  time.Duration
	accessTTL   time.Duration
}

// NewRegistrationService creates a new registration service
func NewRegistrationService(
	accountRepo domain.AccountRepository,
	sessionRepo domain.SessionRepository,
	consentSvc domain.ConsentService,
	otpSvc domain.OTPService,
	passwordSvc domain.PasswordService,
	tokenSvc domain.TokenService,
	clock domain.Clock,
	sessionTTL, accessTTL time.Duration,
) domain.RegistrationService {
	return &RegistrationServiceImpl{
		accountRepo: accountRepo,
		sessionRepo: sessionRepo,
		consentSvc:  consentSvc,
		otpSvc:      otpSvc,
		passwordSvc: passwordSvc,
		tokenSvc:    tokenSvc,
		clock:       clock,
		sessionTTL:  sessionTTL,
		accessTTL:   accessTTL,
	}
}

// SubmitDetails implements domain.RegistrationService. A CHILD submission
// short-circuits to the parental flow: no OTP and no password-strength gate
// apply, since parental verification supersedes self-verification.
func (s *RegistrationServiceImpl) SubmitDetails(ctx context.Context, details domain.RegistrationDetails) (*domain.RegistrationOutcome, error) {
	if strings.TrimSpace(details.Name) == "" || details.Email == "" || details.DateOfBirth.IsZero() {
		return nil, domain.ErrMissingFields
	}
	if err := domain.ValidateEmail(details.Email); err != nil {
		return nil, err
	}

	now := s.clock.Now()
	_, tier, err := domain.ClassifyAge(details.DateOfBirth, now)
	if err != nil {
		return nil, err
	}

	if existing, err := s.accountRepo.FindByEmail(ctx, details.Email); err == nil && existing != nil {
		return nil, domain.ErrAccountAlreadyExists
	}

	if tier == domain.TierChild {
		account := &domain.Account{
			Name:              details.Name,
			Email:             details.Email,
			DateOfBirth:       details.DateOfBirth,
			Authenticated:     false,
			ConsentStatus:     domain.ConsentPending,
			RegistrationState: domain.RegStateParentalFlow,
		}
		if err := s.accountRepo.Create(ctx, account); err != nil {
			return nil, fmt.Errorf("failed to create provisional account: %w", err)
		}
		log.Printf("CHILD_REGISTRATION: account_id=%d email=%s timestamp=%s",
			account.ID, account.Email, now.UTC().Format(time.RFC3339))
		return &domain.RegistrationOutcome{Account: account, RoutedToParental: true}, nil
	}

	if details.Password == "" || details.ConfirmPassword == "" {
		return nil, domain.ErrMissingFields
	}
	if details.Password != details.ConfirmPassword {
		return nil, domain.ErrPasswordMismatch
	}
	if !domain.ValidatePassword(details.Password).IsValid {
		return nil, domain.ErrWeakPassword
	}
	if !details.AcceptedTerms {
		return nil, domain.ErrTermsNotAccepted
	}

	hashed, err := s.passwordSvc.Hash(details.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	account := &domain.Account{
		Name:              details.Name,
		Email:             details.Email,
		DateOfBirth:       details.DateOfBirth,
		PasswordHash:      hashed,
		Authenticated:     false,
		ConsentStatus:     domain.ConsentPending,
		RegistrationState: domain.RegStateOTPPending,
	}
	if err := s.accountRepo.Create(ctx, account); err != nil {
		return nil, fmt.Errorf("failed to create account: %w", err)
	}

	if _, err := s.otpSvc.Issue(ctx, account.Email); err != nil {
		// Undo the create so the submission can be retried from DETAILS.
		if derr := s.accountRepo.Delete(ctx, account.ID); derr != nil {
			log.Printf("REGISTRATION_ROLLBACK_FAILED: account_id=%d error=%v", account.ID, derr)
		}
		return nil, err
	}

	return &domain.RegistrationOutcome{Account: account}, nil
}

// SubmitOTP implements domain.RegistrationService
func (s *RegistrationServiceImpl) SubmitOTP(ctx context.Context, accountID uint, code string) (*domain.Account, error) {
	account, err := s.accountRepo.FindByID(ctx, accountID)
	if err != nil {
		return nil, err
	}
	if account.RegistrationState != domain.RegStateOTPPending {
		return nil, domain.ErrInvalidState
	}

	if err := s.otpSvc.Verify(ctx, account.Email, code); err != nil {
		return nil, err
	}

	account.Authenticated = true
	account.ConsentStatus = domain.ConsentPending
	account.RegistrationState = domain.RegStateVerifiedUnconsented
	if err := s.accountRepo.Update(ctx, account); err != nil {
		return nil, fmt.Errorf("failed to persist verified account: %w", err)
	}

	log.Printf("EMAIL_VERIFIED: account_id=%d email=%s timestamp=%s",
		account.ID, account.Email, s.clock.Now().UTC().Format(time.RFC3339))
	return account, nil
}

// ResendOTP implements domain.RegistrationService
func (s *RegistrationServiceImpl) ResendOTP(ctx context.Context, accountID uint) error {
	account, err := s.accountRepo.FindByID(ctx, accountID)
	if err != nil {
		return err
	}
	if account.RegistrationState != domain.RegStateOTPPending {
		return domain.ErrInvalidState
	}
	_, err = s.otpSvc.Resend(ctx, account.Email)
	return err
}

// CompleteConsent implements domain.RegistrationService. Reaching CONSENTED
// requires every required consent item to be granted; the transition is the
// terminal state that unlocks dashboard access.
func (s *RegistrationServiceImpl) CompleteConsent(ctx context.Context, accountID uint) (*domain.Account, error) {
	account, err := s.accountRepo.FindByID(ctx, accountID)
	if err != nil {
		return nil, err
	}
	if !account.Authenticated {
		return nil, domain.ErrNotAuthenticated
	}
	if account.RegistrationState == domain.RegStateConsented {
		return account, nil
	}
	if account.RegistrationState != domain.RegStateVerifiedUnconsented {
		return nil, domain.ErrInvalidState
	}

	complete, err := s.consentSvc.IsComplete(ctx, accountID)
	if err != nil {
		return nil, err
	}
	if !complete {
		return nil, domain.ErrIncompleteConsent
	}

	account.ConsentStatus = domain.ConsentSelfGranted
	account.RegistrationState = domain.RegStateConsented
	if err := s.accountRepo.Update(ctx, account); err != nil {
		return nil, fmt.Errorf("failed to persist consented account: %w", err)
	}

	log.Printf("CONSENT_COMPLETED: account_id=%d email=%s timestamp=%s",
		account.ID, account.Email, s.clock.Now().UTC().Format(time.RFC3339))
	return account, nil
}

// Login implements domain.RegistrationService. Re-entry lands at
// VERIFIED_UNCONSENTED when consent is still pending; the dashboard gate is
// never skipped.
func (s *RegistrationServiceImpl) Login(ctx context.Context, email, password string) (*domain.AuthResult, error) {
	account, err := s.accountRepo.FindByEmail(ctx, email)
	if err != nil {
		return nil, domain.ErrInvalidCredentials
	}
	if account.ConsentStatus == domain.ConsentDenied {
		return nil, domain.ErrConsentDenied
	}
	if !s.passwordSvc.Verify(account.PasswordHash, password) {
		return nil, domain.ErrInvalidCredentials
	}
	if !account.Authenticated {
		return nil, domain.ErrNotAuthenticated
	}

	return issueSession(ctx, s.sessionRepo, s.tokenSvc, s.clock, account, s.sessionTTL, s.accessTTL)
}

// issueSession creates a Redis session and signs the token pair for an
// account that has already passed its gates. Shared by login re-entry and
// the parental unlock, which is a passwordless child's only entry point.
func issueSession(
	ctx context.Context,
	sessionRepo domain.SessionRepository,
	tokenSvc domain.TokenService,
	clock domain.Clock,
	account *domain.Account,
	sessionTTL, accessTTL time.Duration,
) (*domain.AuthResult, error) {
	now := clock.Now()
	session := &domain.Session{
		ID:        uuid.NewString(),
		AccountID: account.ID,
		ExpiresAt: now.Add(sessionTTL),
		CreatedAt: now,
	}
	if err := sessionRepo.Create(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	tier := string(account.Tier(now))
	accessToken, err := tokenSvc.GenerateAccessToken(account.ID, tier, session.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to generate access token: %w", err)
	}
	refreshToken, err := tokenSvc.GenerateRefreshToken(account.ID, tier, session.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to generate refresh token: %w", err)
	}

	return &domain.AuthResult{
		Account:      account,
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		SessionID:    session.ID,
		ExpiresIn:    int64(accessTTL.Seconds()),
	}, nil
}

// Logout implements domain.RegistrationService
func (s *RegistrationServiceImpl) Logout(ctx context.Context, sessionID string) error {
	return s.sessionRepo.Delete(ctx, sessionID)
}

// DashboardGate implements domain.RegistrationService. The two checks run
// in order: authenticated first, then consent granted; either failure sends
// the caller back to the incomplete step instead of granting partial access.
func (s *RegistrationServiceImpl) DashboardGate(ctx context.Context, accountID uint) (*domain.Account, error) {
	account, err := s.accountRepo.FindByID(ctx, accountID)
	if err != nil {
		return nil, err
	}
	if !account.Authenticated {
		return nil, domain.ErrNotAuthenticated
	}
	switch account.ConsentStatus {
	case domain.ConsentSelfGranted, domain.ConsentParentalGranted:
		return account, nil
	default:
		return nil, domain.ErrConsentIncomplete
	}
}
