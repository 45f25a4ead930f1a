package domain

import "errors"

// Validation errors
var (
	ErrInvalidDate      = errors.New("date of birth is invalid or in the future")
	ErrInvalidEmail     = errors.New("email address is malformed")
	ErrWeakPassword     = errors.New("password does not meet strength requirements")
	ErrPasswordMismatch = errors.New("passwords do not match")
	ErrTermsNotAccepted = errors.New("terms and privacy policy must be accepted")
	ErrMissingFields    = errors.New("required fields are missing")
)

// Account errors
var (
	ErrAccountNotFound      = errors.New("account not found")
	ErrAccountAlreadyExists = errors.New("account already exists")
	ErrInvalidCredentials   = errors.New("invalid credentials")
	ErrNotAuthenticated     = errors.New("account not authenticated")
	ErrConsentIncomplete    = errors.New("consent not yet granted")
	ErrInvalidState         = errors.New("operation not valid in current state")
)

// OTP challenge errors
var (
	ErrChallengeNotFound  = errors.New("no active challenge for channel")
	ErrChallengeExpired   = errors.New("challenge has expired")
	ErrChallengeMismatch  = errors.New("submitted code does not match")
	ErrChallengeExhausted = errors.New("maximum verification attempts exceeded")
	ErrResendThrottled    = errors.New("resend requested too soon")
	ErrDeliveryFailed     = errors.New("code delivery failed")
)

// Consent errors
var (
	ErrIncompleteConsent = errors.New("all required consent items must be granted")
	ErrUnknownConsent    = errors.New("unknown consent item")
	ErrConsentDenied     = errors.New("consent was denied")
)

// Parental workflow errors
var (
	ErrNotChildAccount     = errors.New("parental verification applies to child accounts only")
	ErrParentalNotFound    = errors.New("no parental consent record for account")
	ErrGuardianContact     = errors.New("guardian contact details are invalid")
	ErrWorkflowTerminal    = errors.New("parental workflow already completed")
	ErrVerificationPending = errors.New("guardian verification not yet started")
)

// Device errors
var (
	ErrDeviceNotFound = errors.New("device not found")
)

// Token and session errors
var (
	ErrTokenInvalid    = errors.New("invalid token")
	ErrTokenExpired    = errors.New("token has expired")
	ErrTokenMalformed  = errors.New("malformed token")
	ErrSessionNotFound = errors.New("session not found")
	ErrSessionExpired  = errors.New("session has expired")
)
