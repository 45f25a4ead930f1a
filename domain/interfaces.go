package domain

import (
	"context"
	"time"
)

// Clock abstracts time.Now so OTP expiry and age computation are testable.
type Clock interface {
	Now() time.Time
}

// AccountRepository defines account data access operations. The store is the
// sole source of truth across requests; nothing is cached beyond one call.
type AccountRepository interface {
	Create(ctx context.Context, account *Account) error
	FindByEmail(ctx context.Context, email string) (*Account, error)
	FindByID(ctx context.Context, id uint) (*Account, error)
	Update(ctx context.Context, account *Account) error
	Delete(ctx context.Context, id uint) error
}

// ConsentRepository defines consent record data access operations.
type ConsentRepository interface {
	Upsert(ctx context.Context, accountID uint, item ConsentItem) error
	FindByAccount(ctx context.Context, accountID uint) (*ConsentRecord, error)
	DeleteByAccount(ctx context.Context, accountID uint) error
}

// ParentalConsentRepository defines parental consent record data access.
type ParentalConsentRepository interface {
	Save(ctx context.Context, record *ParentalConsentRecord) error
	FindByChild(ctx context.Context, childAccountID uint) (*ParentalConsentRecord, error)
	DeleteByChild(ctx context.Context, childAccountID uint) error
	// FinalizeVerified persists the verified record and the unlocked child
	// account as a single unit; neither write lands without the other.
	FinalizeVerified(ctx context.Context, record *ParentalConsentRecord, account *Account) error
}

// DeviceRepository defines read access to device reference data.
type DeviceRepository interface {
	List(ctx context.Context) ([]Device, error)
	FindByID(ctx context.Context, id uint) (*Device, error)
}

// SessionRepository defines session data access operations.
type SessionRepository interface {
	Create(ctx context.Context, session *Session) error
	FindByID(ctx context.Context, sessionID string) (*Session, error)
	Delete(ctx context.Context, sessionID string) error
}

// OTPService manages one-time codes. One active challenge per channel;
// Issue always replaces any prior challenge for that channel.
type OTPService interface {
	Issue(ctx context.Context, channel string) (*OTPChallenge, error)
	Verify(ctx context.Context, channel, submittedCode string) error
	Resend(ctx context.Context, channel string) (*OTPChallenge, error)
}

// ConsentService tracks required vs granted consent items per account.
type ConsentService interface {
	RequiredItems(tier ComplianceTier) []string
	OptionalItems(tier ComplianceTier) []string
	RecordGrant(ctx context.Context, accountID uint, item string, granted bool) error
	IsComplete(ctx context.Context, accountID uint) (bool, error)
	Deny(ctx context.Context, accountID uint) error
}

// ParentalService coordinates guardian info collection, consent checkboxes,
// and OTP verification before unlocking a child account.
type ParentalService interface {
	SubmitInfo(ctx context.Context, childAccountID uint, guardian GuardianContact, consents GuardianConsents) (*ParentalConsentRecord, error)
	SubmitVerification(ctx context.Context, childAccountID uint, code string) (*ParentalVerificationResult, error)
	Resend(ctx context.Context, childAccountID uint) error
	Abandon(ctx context.Context, childAccountID uint) error
	Status(ctx context.Context, childAccountID uint) (*ParentalConsentRecord, error)
}

// RegistrationDetails is the registration form payload.
type RegistrationDetails struct {
	Name            string
	Email           string
	DateOfBirth     time.Time
	Password        string
	ConfirmPassword string
	AcceptedTerms   bool
}

// RegistrationOutcome reports where the state machine routed a submission.
type RegistrationOutcome struct {
	Account          *Account
	RoutedToParental bool
}

// RegistrationService orchestrates registration, OTP verification, consent
// completion, login re-entry, and the dashboard gate.
type RegistrationService interface {
	SubmitDetails(ctx context.Context, details RegistrationDetails) (*RegistrationOutcome, error)
	SubmitOTP(ctx context.Context, accountID uint, code string) (*Account, error)
	ResendOTP(ctx context.Context, accountID uint) error
	CompleteConsent(ctx context.Context, accountID uint) (*Account, error)
	Login(ctx context.Context, email, password string) (*AuthResult, error)
	Logout(ctx context.Context, sessionID string) error
	DashboardGate(ctx context.Context, accountID uint) (*Account, error)
}

// DevicePolicyService gates device capabilities by age. Decisions are pure
// functions of age and sensitivity class and are never cached.
type DevicePolicyService interface {
	Decide(age int, class SensitivityClass) AccessDecision
	DecideForAccount(ctx context.Context, accountID uint, deviceID uint) (AccessDecision, error)
}

// PasswordService defines password hashing operations.
type PasswordService interface {
	Hash(password string) (string, error)
	Verify(hashedPassword, password string) bool
}

// TokenService defines token operations for login sessions.
type TokenService interface {
	GenerateAccessToken(accountID uint, tier string, sessionID string) (string, error)
	GenerateRefreshToken(accountID uint, tier string, sessionID string) (string, error)
	ValidateAccessToken(token string) (*TokenClaims, error)
	ValidateRefreshToken(token string) (*TokenClaims, error)
}

// NotificationService dispatches one-time codes and notices out of band.
type NotificationService interface {
	SendEmail(to, subject, body string) error
	SendSMS(to, message string) error
}
