package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/IpsitaPrusty/smart-home-website/domain"
	"github.com/IpsitaPrusty/smart-home-website/internal/mocks"
)

// registrationFixture bundles the registration service with its mocks
type registrationFixture struct {
	svc         domain.RegistrationService
	accountRepo *mocks.MockAccountRepository
	sessionRepo *mocks.MockSessionRepository
	consentSvc  *mocks.MockConsentService
	otpSvc      *mocks.MockOTPService
	clock       *mocks.MockClock
	store       map[uint]*domain.Account
}

func createRegistrationServiceForTest(t *testing.T, seed ...*domain.Account) *registrationFixture {
	t.Helper()

	f := &registrationFixture{
		accountRepo: mocks.NewMockAccountRepository(),
		sessionRepo: mocks.NewMockSessionRepository(),
		consentSvc:  mocks.NewMockConsentService(),
		otpSvc:      mocks.NewMockOTPService(),
		clock:       mocks.NewMockClock(testNow),
	}
	f.store = accountStore(t, f.accountRepo, seed...)
	f.svc = NewRegistrationService(
		f.accountRepo,
		f.sessionRepo,
		f.consentSvc,
		f.otpSvc,
		mocks.NewMockPasswordService(),
		mocks.NewMockTokenService(),
		f.clock,
		7*24*time.Hour,
		15*time.Minute,
	)
	return f
}

func validDetails(t *testing.T) domain.RegistrationDetails {
	t.Helper()

	return domain.RegistrationDetails{
		Name:            "Ada Example",
		Email:           "ada@example.com",
		DateOfBirth:     time.Date(1994, 3, 1, 0, 0, 0, 0, time.UTC),
		Password:        "Abc12345!",
		ConfirmPassword: "Abc12345!",
		AcceptedTerms:   true,
	}
}

func TestRegistrationServiceImpl_SubmitDetails(t *testing.T) {
	ctx := createTestContext(t)

	t.Run("adult submission lands in OTP_PENDING", func(t *testing.T) {
		f := createRegistrationServiceForTest(t)

		var otpChannel string
		f.otpSvc.IssueFunc = func(ctx context.Context, channel string) (*domain.OTPChallenge, error) {
			otpChannel = channel
			return &domain.OTPChallenge{Channel: channel, Code: "123456"}, nil
		}

		outcome, err := f.svc.SubmitDetails(ctx, validDetails(t))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if outcome.RoutedToParental {
			t.Error("adult routed to parental flow")
		}
		account := outcome.Account
		if account.RegistrationState != domain.RegStateOTPPending {
			t.Errorf("state = %s, want %s", account.RegistrationState, domain.RegStateOTPPending)
		}
		if account.Authenticated {
			t.Error("account authenticated before OTP verification")
		}
		if account.PasswordHash != "hashed_Abc12345!" {
			t.Errorf("password hash = %q", account.PasswordHash)
		}
		if otpChannel != "ada@example.com" {
			t.Errorf("OTP went to %q", otpChannel)
		}
	})

	t.Run("child submission short-circuits to parental flow", func(t *testing.T) {
		f := createRegistrationServiceForTest(t)

		otpIssued := false
		f.otpSvc.IssueFunc = func(ctx context.Context, channel string) (*domain.OTPChallenge, error) {
			otpIssued = true
			return nil, nil
		}

		details := validDetails(t)
		details.Email = "casey@example.com"
		details.DateOfBirth = time.Date(2014, 2, 20, 0, 0, 0, 0, time.UTC) // age 10
		details.Password = ""                                              // no credentials in the child path
		details.ConfirmPassword = ""
		details.AcceptedTerms = false

		outcome, err := f.svc.SubmitDetails(ctx, details)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !outcome.RoutedToParental {
			t.Fatal("child not routed to parental flow")
		}
		if outcome.Account.RegistrationState != domain.RegStateParentalFlow {
			t.Errorf("state = %s, want %s", outcome.Account.RegistrationState, domain.RegStateParentalFlow)
		}
		if outcome.Account.Authenticated {
			t.Error("provisional child account must stay unauthenticated")
		}
		if otpIssued {
			t.Error("child path issued a self-verification OTP")
		}
	})

	validationCases := []struct {
		name    string
		mutate  func(*domain.RegistrationDetails)
		wantErr error
	}{
		{"missing name", func(d *domain.RegistrationDetails) { d.Name = "  " }, domain.ErrMissingFields},
		{"missing date of birth", func(d *domain.RegistrationDetails) { d.DateOfBirth = time.Time{} }, domain.ErrMissingFields},
		{"bad email", func(d *domain.RegistrationDetails) { d.Email = "nope" }, domain.ErrInvalidEmail},
		{"future date of birth", func(d *domain.RegistrationDetails) { d.DateOfBirth = testNow.AddDate(1, 0, 0) }, domain.ErrInvalidDate},
		{"password mismatch", func(d *domain.RegistrationDetails) { d.ConfirmPassword = "Different1!" }, domain.ErrPasswordMismatch},
		{"weak password", func(d *domain.RegistrationDetails) { d.Password, d.ConfirmPassword = "abc12345", "abc12345" }, domain.ErrWeakPassword},
		{"terms not accepted", func(d *domain.RegistrationDetails) { d.AcceptedTerms = false }, domain.ErrTermsNotAccepted},
	}

	for _, tt := range validationCases {
		t.Run(tt.name, func(t *testing.T) {
			f := createRegistrationServiceForTest(t)

			details := validDetails(t)
			tt.mutate(&details)
			_, err := f.svc.SubmitDetails(ctx, details)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("expected %v, got %v", tt.wantErr, err)
			}
			if len(f.store) != 0 {
				t.Errorf("rejected submission created %d accounts", len(f.store))
			}
		})
	}

	t.Run("duplicate email", func(t *testing.T) {
		f := createRegistrationServiceForTest(t, createAdultAccount(t))

		_, err := f.svc.SubmitDetails(ctx, validDetails(t))
		if !errors.Is(err, domain.ErrAccountAlreadyExists) {
			t.Errorf("expected ErrAccountAlreadyExists, got %v", err)
		}
	})

	t.Run("OTP issue failure rolls the account back", func(t *testing.T) {
		f := createRegistrationServiceForTest(t)
		f.otpSvc.IssueFunc = func(ctx context.Context, channel string) (*domain.OTPChallenge, error) {
			return nil, domain.ErrDeliveryFailed
		}

		_, err := f.svc.SubmitDetails(ctx, validDetails(t))
		if !errors.Is(err, domain.ErrDeliveryFailed) {
			t.Fatalf("expected ErrDeliveryFailed, got %v", err)
		}
		if len(f.store) != 0 {
			t.Error("failed submission left an account behind")
		}
	})
}

func TestRegistrationServiceImpl_SubmitOTP(t *testing.T) {
	ctx := createTestContext(t)

	pendingAccount := func() *domain.Account {
		account := createAdultAccount(t)
		account.Authenticated = false
		account.ConsentStatus = domain.ConsentPending
		account.RegistrationState = domain.RegStateOTPPending
		return account
	}

	t.Run("correct code verifies the account", func(t *testing.T) {
		f := createRegistrationServiceForTest(t, pendingAccount())

		account, err := f.svc.SubmitOTP(ctx, 1, "123456")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !account.Authenticated {
			t.Error("account not authenticated after OTP")
		}
		if account.RegistrationState != domain.RegStateVerifiedUnconsented {
			t.Errorf("state = %s, want %s", account.RegistrationState, domain.RegStateVerifiedUnconsented)
		}
		if account.ConsentStatus != domain.ConsentPending {
			t.Errorf("consent status = %s, want %s", account.ConsentStatus, domain.ConsentPending)
		}
	})

	t.Run("wrong code surfaces the challenge error", func(t *testing.T) {
		f := createRegistrationServiceForTest(t, pendingAccount())

		_, err := f.svc.SubmitOTP(ctx, 1, "000000")
		if !errors.Is(err, domain.ErrChallengeMismatch) {
			t.Fatalf("expected ErrChallengeMismatch, got %v", err)
		}
		if f.store[1].Authenticated {
			t.Error("account authenticated despite failed OTP")
		}
	})

	t.Run("wrong state", func(t *testing.T) {
		f := createRegistrationServiceForTest(t, createAdultAccount(t))

		_, err := f.svc.SubmitOTP(ctx, 1, "123456")
		if !errors.Is(err, domain.ErrInvalidState) {
			t.Errorf("expected ErrInvalidState, got %v", err)
		}
	})
}

func TestRegistrationServiceImpl_CompleteConsent(t *testing.T) {
	ctx := createTestContext(t)

	unconsented := func() *domain.Account {
		account := createAdultAccount(t)
		account.ConsentStatus = domain.ConsentPending
		account.RegistrationState = domain.RegStateVerifiedUnconsented
		return account
	}

	t.Run("complete consent reaches CONSENTED", func(t *testing.T) {
		f := createRegistrationServiceForTest(t, unconsented())
		f.consentSvc.IsCompleteFunc = func(ctx context.Context, accountID uint) (bool, error) {
			return true, nil
		}

		account, err := f.svc.CompleteConsent(ctx, 1)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if account.RegistrationState != domain.RegStateConsented {
			t.Errorf("state = %s, want %s", account.RegistrationState, domain.RegStateConsented)
		}
		if account.ConsentStatus != domain.ConsentSelfGranted {
			t.Errorf("consent status = %s, want %s", account.ConsentStatus, domain.ConsentSelfGranted)
		}
	})

	t.Run("missing required consent blocks completion", func(t *testing.T) {
		f := createRegistrationServiceForTest(t, unconsented())
		f.consentSvc.IsCompleteFunc = func(ctx context.Context, accountID uint) (bool, error) {
			return false, nil
		}

		_, err := f.svc.CompleteConsent(ctx, 1)
		if !errors.Is(err, domain.ErrIncompleteConsent) {
			t.Fatalf("expected ErrIncompleteConsent, got %v", err)
		}
		if f.store[1].RegistrationState != domain.RegStateVerifiedUnconsented {
			t.Error("state advanced despite incomplete consent")
		}
	})

	t.Run("already consented is idempotent", func(t *testing.T) {
		f := createRegistrationServiceForTest(t, createAdultAccount(t))
		f.consentSvc.IsCompleteFunc = func(ctx context.Context, accountID uint) (bool, error) {
			t.Error("consent recheck on an already consented account")
			return false, nil
		}

		account, err := f.svc.CompleteConsent(ctx, 1)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if account.RegistrationState != domain.RegStateConsented {
			t.Errorf("state = %s", account.RegistrationState)
		}
	})

	t.Run("unverified account cannot consent", func(t *testing.T) {
		account := unconsented()
		account.Authenticated = false
		f := createRegistrationServiceForTest(t, account)

		_, err := f.svc.CompleteConsent(ctx, 1)
		if !errors.Is(err, domain.ErrNotAuthenticated) {
			t.Errorf("expected ErrNotAuthenticated, got %v", err)
		}
	})
}

func TestRegistrationServiceImpl_Login(t *testing.T) {
	ctx := createTestContext(t)

	t.Run("successful login creates a tier-stamped session", func(t *testing.T) {
		f := createRegistrationServiceForTest(t, createAdultAccount(t))

		var sessionTier string
		tokenSvc := mocks.NewMockTokenService()
		tokenSvc.GenerateAccessTokenFunc = func(accountID uint, tier string, sessionID string) (string, error) {
			sessionTier = tier
			return "access_token", nil
		}
		f.svc = NewRegistrationService(f.accountRepo, f.sessionRepo, f.consentSvc, f.otpSvc,
			mocks.NewMockPasswordService(), tokenSvc, f.clock, 7*24*time.Hour, 15*time.Minute)

		result, err := f.svc.Login(ctx, "ada@example.com", "Abc12345!")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if result.AccessToken == "" || result.RefreshToken == "" || result.SessionID == "" {
			t.Error("incomplete auth result")
		}
		if result.ExpiresIn != int64((15 * time.Minute).Seconds()) {
			t.Errorf("ExpiresIn = %d", result.ExpiresIn)
		}
		if sessionTier != string(domain.TierAdult) {
			t.Errorf("token tier = %q, want ADULT", sessionTier)
		}
	})

	t.Run("wrong password", func(t *testing.T) {
		f := createRegistrationServiceForTest(t, createAdultAccount(t))
		if _, err := f.svc.Login(ctx, "ada@example.com", "wrong"); !errors.Is(err, domain.ErrInvalidCredentials) {
			t.Errorf("expected ErrInvalidCredentials, got %v", err)
		}
	})

	t.Run("unknown email", func(t *testing.T) {
		f := createRegistrationServiceForTest(t)
		if _, err := f.svc.Login(ctx, "ghost@example.com", "Abc12345!"); !errors.Is(err, domain.ErrInvalidCredentials) {
			t.Errorf("expected ErrInvalidCredentials, got %v", err)
		}
	})

	t.Run("denied account cannot log in", func(t *testing.T) {
		account := createAdultAccount(t)
		account.ConsentStatus = domain.ConsentDenied
		f := createRegistrationServiceForTest(t, account)

		if _, err := f.svc.Login(ctx, "ada@example.com", "Abc12345!"); !errors.Is(err, domain.ErrConsentDenied) {
			t.Errorf("expected ErrConsentDenied, got %v", err)
		}
	})

	t.Run("unverified account cannot log in", func(t *testing.T) {
		account := createAdultAccount(t)
		account.Authenticated = false
		f := createRegistrationServiceForTest(t, account)

		if _, err := f.svc.Login(ctx, "ada@example.com", "Abc12345!"); !errors.Is(err, domain.ErrNotAuthenticated) {
			t.Errorf("expected ErrNotAuthenticated, got %v", err)
		}
	})
}

func TestRegistrationServiceImpl_DashboardGate(t *testing.T) {
	ctx := createTestContext(t)

	tests := []struct {
		name    string
		mutate  func(*domain.Account)
		wantErr error
	}{
		{"self-granted consent passes", func(a *domain.Account) {}, nil},
		{
			"parental-granted consent passes",
			func(a *domain.Account) { a.ConsentStatus = domain.ConsentParentalGranted },
			nil,
		},
		{
			"unauthenticated account bounced to verification",
			func(a *domain.Account) { a.Authenticated = false },
			domain.ErrNotAuthenticated,
		},
		{
			"pending consent bounced to consent step",
			func(a *domain.Account) { a.ConsentStatus = domain.ConsentPending },
			domain.ErrConsentIncomplete,
		},
		{
			// An unauthenticated account with pending consent fails on
			// authentication first.
			"authentication checked before consent",
			func(a *domain.Account) {
				a.Authenticated = false
				a.ConsentStatus = domain.ConsentPending
			},
			domain.ErrNotAuthenticated,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			account := createAdultAccount(t)
			tt.mutate(account)
			f := createRegistrationServiceForTest(t, account)

			_, err := f.svc.DashboardGate(ctx, account.ID)
			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("unexpected error: %v", err)
				}
			} else if !errors.Is(err, tt.wantErr) {
				t.Errorf("expected %v, got %v", tt.wantErr, err)
			}
		})
	}
}

// The full adult journey: details, OTP, consent, login, dashboard.
func TestRegistrationServiceImpl_AdultJourney(t *testing.T) {
	ctx := createTestContext(t)
	f := createRegistrationServiceForTest(t)

	consented := map[string]bool{}
	f.consentSvc.RecordGrantFunc = func(ctx context.Context, accountID uint, item string, granted bool) error {
		consented[item] = granted
		return nil
	}
	f.consentSvc.IsCompleteFunc = func(ctx context.Context, accountID uint) (bool, error) {
		return consented["privacy"] && consented["terms"] && consented["dataProcessing"], nil
	}

	outcome, err := f.svc.SubmitDetails(ctx, validDetails(t))
	if err != nil {
		t.Fatalf("SubmitDetails: %v", err)
	}
	accountID := outcome.Account.ID

	// Consent cannot complete before OTP verification.
	if _, err := f.svc.CompleteConsent(ctx, accountID); !errors.Is(err, domain.ErrNotAuthenticated) {
		t.Fatalf("expected ErrNotAuthenticated before OTP, got %v", err)
	}

	if _, err := f.svc.SubmitOTP(ctx, accountID, "123456"); err != nil {
		t.Fatalf("SubmitOTP: %v", err)
	}

	// Dashboard stays locked until consent completes.
	if _, err := f.svc.DashboardGate(ctx, accountID); !errors.Is(err, domain.ErrConsentIncomplete) {
		t.Fatalf("expected ErrConsentIncomplete, got %v", err)
	}

	for _, item := range []string{"privacy", "terms", "dataProcessing"} {
		if err := f.consentSvc.RecordGrant(ctx, accountID, item, true); err != nil {
			t.Fatalf("RecordGrant(%s): %v", item, err)
		}
	}
	if _, err := f.svc.CompleteConsent(ctx, accountID); err != nil {
		t.Fatalf("CompleteConsent: %v", err)
	}

	result, err := f.svc.Login(ctx, "ada@example.com", "Abc12345!")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if _, err := f.svc.DashboardGate(ctx, accountID); err != nil {
		t.Fatalf("DashboardGate after consent: %v", err)
	}
	if err := f.svc.Logout(ctx, result.SessionID); err != nil {
		t.Fatalf("Logout: %v", err)
	}
}

func TestRegistrationServiceImpl_ChildJourney(t *testing.T) {
	ctx := createTestContext(t)
	f := createRegistrationServiceForTest(t)

	parentalRepo := mocks.NewMockParentalConsentRepository()
	records := map[uint]*domain.ParentalConsentRecord{}
	parentalRepo.SaveFunc = func(ctx context.Context, record *domain.ParentalConsentRecord) error {
		copied := *record
		records[record.ChildAccountID] = &copied
		return nil
	}
	parentalRepo.FindByChildFunc = func(ctx context.Context, childAccountID uint) (*domain.ParentalConsentRecord, error) {
		record, ok := records[childAccountID]
		if !ok {
			return nil, domain.ErrParentalNotFound
		}
		copied := *record
		return &copied, nil
	}
	parentalRepo.FinalizeVerifiedFunc = func(ctx context.Context, record *domain.ParentalConsentRecord, account *domain.Account) error {
		copiedRecord := *record
		records[record.ChildAccountID] = &copiedRecord
		copiedAccount := *account
		f.store[account.ID] = &copiedAccount
		return nil
	}
	parentalSvc := NewParentalService(
		f.accountRepo,
		parentalRepo,
		f.otpSvc,
		mocks.NewMockNotificationService(),
		f.sessionRepo,
		mocks.NewMockTokenService(),
		f.clock,
		7*24*time.Hour,
		15*time.Minute,
	)

	outcome, err := f.svc.SubmitDetails(ctx, domain.RegistrationDetails{
		Name:        "Casey Example",
		Email:       "casey@example.com",
		DateOfBirth: testNow.AddDate(-10, 0, 0),
	})
	if err != nil {
		t.Fatalf("SubmitDetails: %v", err)
	}
	if !outcome.RoutedToParental {
		t.Fatal("ten-year-old not routed to the parental flow")
	}
	childID := outcome.Account.ID

	// Locked until the guardian finishes.
	if _, err := f.svc.DashboardGate(ctx, childID); !errors.Is(err, domain.ErrNotAuthenticated) {
		t.Fatalf("expected ErrNotAuthenticated before guardian verification, got %v", err)
	}

	if _, err := parentalSvc.SubmitInfo(ctx, childID, createValidGuardian(t), createFullGuardianConsents(t)); err != nil {
		t.Fatalf("SubmitInfo: %v", err)
	}
	verified, err := parentalSvc.SubmitVerification(ctx, childID, "123456")
	if err != nil {
		t.Fatalf("SubmitVerification: %v", err)
	}
	// The child never set a password, so this session is the dashboard entry.
	if verified.Auth == nil || verified.Auth.AccessToken == "" {
		t.Fatal("guardian verification issued no session for the child")
	}

	account, err := f.svc.DashboardGate(ctx, childID)
	if err != nil {
		t.Fatalf("DashboardGate after guardian verification: %v", err)
	}
	if account.ConsentStatus != domain.ConsentParentalGranted {
		t.Errorf("consent status = %s, want PARENTAL_GRANTED", account.ConsentStatus)
	}

	// Guardian approval never overrides the device age gate.
	deviceRepo := mocks.NewMockDeviceRepository()
	deviceRepo.FindByIDFunc = func(ctx context.Context, id uint) (*domain.Device, error) {
		return &domain.Device{ID: id, Name: "Security Camera", SensitivityClass: domain.SensitivityHigh}, nil
	}
	policySvc := NewDevicePolicyService(f.accountRepo, deviceRepo, f.clock)
	decision, err := policySvc.DecideForAccount(ctx, childID, 12)
	if err != nil {
		t.Fatalf("DecideForAccount: %v", err)
	}
	if decision.Allowed {
		t.Error("verified child granted access to a HIGH device")
	}
	if decision.Reason != domain.ReasonAgeRestricted {
		t.Errorf("reason = %q, want %s", decision.Reason, domain.ReasonAgeRestricted)
	}
}
