package services

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/IpsitaPrusty/smart-home-website/domain"
)

// ParentalServiceImpl implements domain.ParentalService: the state machine
// COLLECTING_INFO -> AWAITING_VERIFICATION -> VERIFIED | ABANDONED that
// unlocks a child account once a guardian has consented and verified.
type ParentalServiceImpl struct {
	accountRepo     domain.AccountRepository
	parentalRepo    domain.ParentalConsentRepository
	otpSvc          domain.OTPService
	notificationSvc domain.NotificationService
	sessionRepo     domain.SessionRepository
	tokenSvc        domain.TokenService
	clock           domain.Clock
	sessionTTL      time.Duration
	accessTTL       time.Duration
}

// NewParentalService creates a new parental verification service
func NewParentalService(
	accountRepo domain.AccountRepository,
	parentalRepo domain.ParentalConsentRepository,
	otpSvc domain.OTPService,
	notificationSvc domain.NotificationService,
	sessionRepo domain.SessionRepository,
	tokenSvc domain.TokenService,
	clock domain.Clock,
	sessionTTL, accessTTL time.Duration,
) domain.ParentalService {
	return &ParentalServiceImpl{
		accountRepo:     accountRepo,
		parentalRepo:    parentalRepo,
		otpSvc:          otpSvc,
		notificationSvc: notificationSvc,
		sessionRepo:     sessionRepo,
		tokenSvc:        tokenSvc,
		clock:           clock,
		sessionTTL:      sessionTTL,
		accessTTL:       accessTTL,
	}
}

// SubmitInfo implements domain.ParentalService. All validation happens
// before any write so a rejected submission leaves prior state untouched.
func (s *ParentalServiceImpl) SubmitInfo(ctx context.Context, childAccountID uint, guardian domain.GuardianContact, consents domain.GuardianConsents) (*domain.ParentalConsentRecord, error) {
	account, err := s.accountRepo.FindByID(ctx, childAccountID)
	if err != nil {
		return nil, err
	}
	if account.Tier(s.clock.Now()) != domain.TierChild {
		return nil, domain.ErrNotChildAccount
	}

	if existing, err := s.parentalRepo.FindByChild(ctx, childAccountID); err == nil {
		if existing.State == domain.ParentalVerified {
			return nil, domain.ErrWorkflowTerminal
		}
	} else if err != domain.ErrParentalNotFound {
		return nil, err
	}

	if err := domain.ValidateGuardianContact(guardian); err != nil {
		return nil, err
	}
	// No partial-minor access: every child-safety consent must be granted.
	if !consents.AllGranted() {
		return nil, domain.ErrIncompleteConsent
	}

	record := &domain.ParentalConsentRecord{
		ChildAccountID: childAccountID,
		Guardian:       guardian,
		Consents:       consents,
		State:          domain.ParentalAwaitingVerification,
	}
	if err := s.parentalRepo.Save(ctx, record); err != nil {
		return nil, fmt.Errorf("failed to save parental consent record: %w", err)
	}

	if _, err := s.otpSvc.Issue(ctx, guardian.Email); err != nil {
		// Roll the workflow back so info collection can restart cleanly.
		record.State = domain.ParentalCollectingInfo
		if serr := s.parentalRepo.Save(ctx, record); serr != nil {
			log.Printf("PARENTAL_ROLLBACK_FAILED: child_account_id=%d error=%v", childAccountID, serr)
		}
		return nil, err
	}

	log.Printf("PARENTAL_INFO_SUBMITTED: child_account_id=%d guardian_email=%s timestamp=%s",
		childAccountID, guardian.Email, s.clock.Now().UTC().Format(time.RFC3339))
	return record, nil
}

// SubmitVerification implements domain.ParentalService. On success the child
// account flips to authenticated with parental consent granted and receives
// a session; children carry no password, so this is their login. On failure
// the workflow stays in AWAITING_VERIFICATION and the challenge error kind
// is surfaced.
func (s *ParentalServiceImpl) SubmitVerification(ctx context.Context, childAccountID uint, code string) (*domain.ParentalVerificationResult, error) {
	record, err := s.parentalRepo.FindByChild(ctx, childAccountID)
	if err != nil {
		return nil, err
	}
	switch record.State {
	case domain.ParentalAwaitingVerification:
	case domain.ParentalVerified:
		return nil, domain.ErrWorkflowTerminal
	default:
		return nil, domain.ErrVerificationPending
	}

	if err := s.otpSvc.Verify(ctx, record.Guardian.Email, code); err != nil {
		return nil, err
	}

	account, err := s.accountRepo.FindByID(ctx, childAccountID)
	if err != nil {
		return nil, err
	}

	account.Authenticated = true
	account.ConsentStatus = domain.ConsentParentalGranted
	account.RegistrationState = domain.RegStateConsented

	record.Verified = true
	record.VerificationTimestamp = s.clock.Now()
	record.State = domain.ParentalVerified
	if err := s.parentalRepo.FinalizeVerified(ctx, record, account); err != nil {
		return nil, fmt.Errorf("failed to finalize parental consent: %w", err)
	}

	auth, err := issueSession(ctx, s.sessionRepo, s.tokenSvc, s.clock, account, s.sessionTTL, s.accessTTL)
	if err != nil {
		return nil, err
	}

	// Best-effort notice to the guardian's phone.
	notice := fmt.Sprintf("Parental consent for %s's GuardianHome account is confirmed.", account.Name)
	if err := s.notificationSvc.SendSMS(record.Guardian.Phone, notice); err != nil {
		log.Printf("PARENTAL_NOTICE_FAILED: child_account_id=%d error=%v", childAccountID, err)
	}

	log.Printf("PARENTAL_VERIFIED: child_account_id=%d guardian_email=%s timestamp=%s",
		childAccountID, record.Guardian.Email, record.VerificationTimestamp.UTC().Format(time.RFC3339))
	return &domain.ParentalVerificationResult{Record: record, Auth: auth}, nil
}

// Resend implements domain.ParentalService without changing workflow state.
func (s *ParentalServiceImpl) Resend(ctx context.Context, childAccountID uint) error {
	record, err := s.parentalRepo.FindByChild(ctx, childAccountID)
	if err != nil {
		return err
	}
	if record.State != domain.ParentalAwaitingVerification {
		return domain.ErrVerificationPending
	}
	_, err = s.otpSvc.Resend(ctx, record.Guardian.Email)
	return err
}

// Abandon implements domain.ParentalService. The child account stays
// unauthenticated and never reaches the dashboard gate.
func (s *ParentalServiceImpl) Abandon(ctx context.Context, childAccountID uint) error {
	record, err := s.parentalRepo.FindByChild(ctx, childAccountID)
	if err != nil {
		return err
	}
	if record.State == domain.ParentalVerified {
		return domain.ErrWorkflowTerminal
	}
	record.State = domain.ParentalAbandoned
	return s.parentalRepo.Save(ctx, record)
}

// Status implements domain.ParentalService
func (s *ParentalServiceImpl) Status(ctx context.Context, childAccountID uint) (*domain.ParentalConsentRecord, error) {
	return s.parentalRepo.FindByChild(ctx, childAccountID)
}
