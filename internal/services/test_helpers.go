package services

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"github.com/IpsitaPrusty/smart-home-website/domain"
	"github.com/IpsitaPrusty/smart-home-website/internal/mocks"
)

// testNow is the frozen reference time every service test starts from.
var testNow = time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)

// newTestRedis creates a miniredis-backed client that is torn down with the test
func newTestRedis(t *testing.T) *redis.Client {
	t.Helper()

	mr := miniredis.RunT(t)
	return redis.NewClient(&redis.Options{Addr: mr.Addr()})
}

// createTestContext creates a context for testing with timeout
func createTestContext(t *testing.T) context.Context {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	t.Cleanup(cancel)
	return ctx
}

// createTestOTPConfig creates an OTP configuration without a resend throttle
// so tests can reissue freely
func createTestOTPConfig(t *testing.T) OTPConfig {
	t.Helper()

	return OTPConfig{
		Length:      6,
		TTL:         10 * time.Minute,
		MaxAttempts: 5,
	}
}

// createAdultAccount creates a verified adult account (age 30 at testNow)
func createAdultAccount(t *testing.T) *domain.Account {
	t.Helper()

	return &domain.Account{
		ID:                1,
		Name:              "Ada Example",
		Email:             "ada@example.com",
		DateOfBirth:       time.Date(1994, 3, 1, 0, 0, 0, 0, time.UTC),
		PasswordHash:      "hashed_Abc12345!",
		Authenticated:     true,
		ConsentStatus:     domain.ConsentSelfGranted,
		RegistrationState: domain.RegStateConsented,
		CreatedAt:         testNow.Add(-24 * time.Hour),
		UpdatedAt:         testNow.Add(-time.Hour),
	}
}

// createMinorAccount creates a verified minor account (age 15 at testNow)
func createMinorAccount(t *testing.T) *domain.Account {
	t.Helper()

	account := createAdultAccount(t)
	account.ID = 2
	account.Name = "Milo Example"
	account.Email = "milo@example.com"
	account.DateOfBirth = time.Date(2009, 1, 10, 0, 0, 0, 0, time.UTC)
	return account
}

// createChildAccount creates a provisional child account (age 10 at testNow)
// parked in the parental flow
func createChildAccount(t *testing.T) *domain.Account {
	t.Helper()

	return &domain.Account{
		ID:                3,
		Name:              "Casey Example",
		Email:             "casey@example.com",
		DateOfBirth:       time.Date(2014, 2, 20, 0, 0, 0, 0, time.UTC),
		Authenticated:     false,
		ConsentStatus:     domain.ConsentPending,
		RegistrationState: domain.RegStateParentalFlow,
		CreatedAt:         testNow.Add(-time.Hour),
	}
}

// createValidGuardian creates a guardian contact that passes validation
func createValidGuardian(t *testing.T) domain.GuardianContact {
	t.Helper()

	return domain.GuardianContact{
		Name:         "Pat Example",
		Email:        "pat@example.com",
		Phone:        "+15551234567",
		Relationship: "parent",
	}
}

// createFullGuardianConsents creates a consent set with every item granted
func createFullGuardianConsents(t *testing.T) domain.GuardianConsents {
	t.Helper()

	return domain.GuardianConsents{
		DataCollection: true,
		DeviceControl:  true,
		Monitoring:     true,
		ThirdParty:     true,
	}
}

// createCompleteConsentRecord creates a record with every required self-consent
// item granted
func createCompleteConsentRecord(t *testing.T, accountID uint) *domain.ConsentRecord {
	t.Helper()

	items := map[string]domain.ConsentItem{}
	for _, name := range selfRequiredItems {
		items[name] = domain.ConsentItem{Name: name, Granted: true, Required: true, Timestamp: testNow}
	}
	return &domain.ConsentRecord{SubjectAccountID: accountID, Items: items}
}

// accountStore wires a MockAccountRepository to an in-memory map so multi-step
// flows observe each other's writes
func accountStore(t *testing.T, repo *mocks.MockAccountRepository, seed ...*domain.Account) map[uint]*domain.Account {
	t.Helper()

	store := map[uint]*domain.Account{}
	nextID := uint(1)
	for _, a := range seed {
		store[a.ID] = a
		if a.ID >= nextID {
			nextID = a.ID + 1
		}
	}

	repo.CreateFunc = func(ctx context.Context, account *domain.Account) error {
		account.ID = nextID
		nextID++
		copied := *account
		store[account.ID] = &copied
		return nil
	}
	repo.FindByIDFunc = func(ctx context.Context, id uint) (*domain.Account, error) {
		account, ok := store[id]
		if !ok {
			return nil, domain.ErrAccountNotFound
		}
		copied := *account
		return &copied, nil
	}
	repo.FindByEmailFunc = func(ctx context.Context, email string) (*domain.Account, error) {
		for _, account := range store {
			if account.Email == email {
				copied := *account
				return &copied, nil
			}
		}
		return nil, domain.ErrAccountNotFound
	}
	repo.UpdateFunc = func(ctx context.Context, account *domain.Account) error {
		if _, ok := store[account.ID]; !ok {
			return domain.ErrAccountNotFound
		}
		copied := *account
		store[account.ID] = &copied
		return nil
	}
	repo.DeleteFunc = func(ctx context.Context, id uint) error {
		delete(store, id)
		return nil
	}

	return store
}
