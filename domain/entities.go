package domain

import "time"

// ComplianceTier is the coarse age classification driving consent routing
// and device gating.
type ComplianceTier string

const (
	TierChild ComplianceTier = "CHILD" // under 13, parental consent required
	TierMinor ComplianceTier = "MINOR" // 13-17, self-consents like an adult
	TierAdult ComplianceTier = "ADULT" // 18 and over
)

// ConsentStatus tracks where an account stands in the consent lifecycle.
type ConsentStatus string

const (
	ConsentPending         ConsentStatus = "PENDING"
	ConsentSelfGranted     ConsentStatus = "SELF_GRANTED"
	ConsentParentalGranted ConsentStatus = "PARENTAL_GRANTED"
	ConsentDenied          ConsentStatus = "DENIED"
)

// RegistrationState names the registration state machine states.
type RegistrationState string

const (
	RegStateDetails             RegistrationState = "DETAILS"
	RegStateOTPPending          RegistrationState = "OTP_PENDING"
	RegStateVerifiedUnconsented RegistrationState = "VERIFIED_UNCONSENTED"
	RegStateConsented           RegistrationState = "CONSENTED"
	// RegStateParentalFlow marks a child account handed off to the
	// parental verification workflow.
	RegStateParentalFlow RegistrationState = "PARENTAL_FLOW"
)

// ParentalState names the parental verification workflow states.
type ParentalState string

const (
	ParentalCollectingInfo       ParentalState = "COLLECTING_INFO"
	ParentalAwaitingVerification ParentalState = "AWAITING_VERIFICATION"
	ParentalVerified             ParentalState = "VERIFIED"
	ParentalAbandoned            ParentalState = "ABANDONED"
)

// Account represents a user account in the system. Age and tier are always
// derived from DateOfBirth against a reference time, never stored.
type Account struct {
	ID                uint
	Name              string
	Email             string
	DateOfBirth       time.Time
	PasswordHash      string
	Authenticated     bool
	ConsentStatus     ConsentStatus
	RegistrationState RegistrationState
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// Age returns the account holder's whole-years age at the given time.
func (a *Account) Age(now time.Time) int {
	age, _, err := ClassifyAge(a.DateOfBirth, now)
	if err != nil {
		return 0
	}
	return age
}

// Tier returns the account holder's compliance tier at the given time.
func (a *Account) Tier(now time.Time) ComplianceTier {
	_, tier, err := ClassifyAge(a.DateOfBirth, now)
	if err != nil {
		return TierChild
	}
	return tier
}

// ConsentItem is one named agreement inside a consent record.
type ConsentItem struct {
	Name      string
	Granted   bool
	Required  bool
	Timestamp time.Time
}

// ConsentRecord maps consent item names to their grant state for one account.
type ConsentRecord struct {
	SubjectAccountID uint
	Items            map[string]ConsentItem
}

// IsComplete reports whether every required item has been granted.
// Optional items never block completion.
func (r *ConsentRecord) IsComplete() bool {
	for _, item := range r.Items {
		if item.Required && !item.Granted {
			return false
		}
	}
	return true
}

// GuardianContact holds the parent or guardian's contact details collected
// during the parental consent flow.
type GuardianContact struct {
	Name         string
	Email        string
	Phone        string
	Relationship string // parent, guardian, other
}

// GuardianConsents are the four child-safety agreements a guardian must
// grant in full. Partial guardian consent is never accepted.
type GuardianConsents struct {
	DataCollection bool
	DeviceControl  bool
	Monitoring     bool
	ThirdParty     bool
}

// AllGranted reports whether every guardian consent has been granted.
func (g GuardianConsents) AllGranted() bool {
	return g.DataCollection && g.DeviceControl && g.Monitoring && g.ThirdParty
}

// ParentalConsentRecord tracks the parental verification workflow for a
// child account.
type ParentalConsentRecord struct {
	ChildAccountID        uint
	Guardian              GuardianContact
	Consents              GuardianConsents
	State                 ParentalState
	Verified              bool
	VerificationTimestamp time.Time
	CreatedAt             time.Time
	UpdatedAt             time.Time
}

// OTPChallenge represents an active one-time code bound to a channel.
// At most one challenge is active per channel; issuing a new one replaces
// the prior.
type OTPChallenge struct {
	Channel           string    `json:"channel"`
	Code              string    `json:"code"`
	IssuedAt          time.Time `json:"issued_at"`
	ExpiresAt         time.Time `json:"expires_at"`
	AttemptsRemaining int       `json:"attempts_remaining"`
}

// SensitivityClass is a device's risk category, independent of consent.
type SensitivityClass string

const (
	SensitivityStandard SensitivityClass = "STANDARD"
	SensitivityElevated SensitivityClass = "ELEVATED" // doors and locks, age 16
	SensitivityHigh     SensitivityClass = "HIGH"     // cameras and security, age 18
)

// Device is read-only reference data. On/off state belongs to the UI layer.
type Device struct {
	ID               uint
	Name             string
	Type             string
	Room             string
	SensitivityClass SensitivityClass
}

// AccessDecision is the outcome of a device access policy evaluation.
type AccessDecision struct {
	Allowed bool   `json:"allowed"`
	Reason  string `json:"reason,omitempty"`
}

// ReasonAgeRestricted is the only denial reason the policy engine emits.
const ReasonAgeRestricted = "AGE_RESTRICTED"

// AuthRequest represents login credentials.
type AuthRequest struct {
	Email    string
	Password string
}

// ParentalVerificationResult bundles the finalized consent record with the
// session issued for the freshly unlocked child account. Children never set
// a password, so verification is their only way onto the dashboard.
type ParentalVerificationResult struct {
	Record *ParentalConsentRecord
	Auth   *AuthResult
}

// AuthResult represents a successful login outcome.
type AuthResult struct {
	Account      *Account
	AccessToken  string
	RefreshToken string
	SessionID    string
	ExpiresIn    int64
}

// Session represents a login session.
type Session struct {
	ID        string
	AccountID uint
	ExpiresAt time.Time
	CreatedAt time.Time
}

// TokenClaims represents JWT token claims.
type TokenClaims struct {
	AccountID uint   `json:"account_id"`
	Tier      string `json:"tier"`
	SessionID string `json:"session_id,omitempty"`
	IssuedAt  int64  `json:"iat"`
	ExpiresAt int64  `json:"exp"`
}
