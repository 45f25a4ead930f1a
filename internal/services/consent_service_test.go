package services

import (
	"context"
	"errors"
	"testing"

	"github.com/IpsitaPrusty/smart-home-website/domain"
	"github.com/IpsitaPrusty/smart-home-website/internal/mocks"
)

func TestConsentServiceImpl_RequiredItems(t *testing.T) {
	svc := NewConsentService(mocks.NewMockConsentRepository(), mocks.NewMockAccountRepository(), mocks.NewMockClock(testNow))

	tests := []struct {
		name         string
		tier         domain.ComplianceTier
		wantRequired int
		wantOptional int
	}{
		{"adult self-consents", domain.TierAdult, 3, 1},
		{"minor self-consents like an adult", domain.TierMinor, 3, 1},
		{"child never self-consents", domain.TierChild, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := svc.RequiredItems(tt.tier); len(got) != tt.wantRequired {
				t.Errorf("RequiredItems(%s) = %v, want %d items", tt.tier, got, tt.wantRequired)
			}
			if got := svc.OptionalItems(tt.tier); len(got) != tt.wantOptional {
				t.Errorf("OptionalItems(%s) = %v, want %d items", tt.tier, got, tt.wantOptional)
			}
		})
	}
}

func TestConsentServiceImpl_RecordGrant(t *testing.T) {
	ctx := createTestContext(t)

	t.Run("unknown item rejected", func(t *testing.T) {
		consentRepo := mocks.NewMockConsentRepository()
		upserts := 0
		consentRepo.UpsertFunc = func(ctx context.Context, accountID uint, item domain.ConsentItem) error {
			upserts++
			return nil
		}
		svc := NewConsentService(consentRepo, mocks.NewMockAccountRepository(), mocks.NewMockClock(testNow))

		if err := svc.RecordGrant(ctx, 1, "telemetry", true); !errors.Is(err, domain.ErrUnknownConsent) {
			t.Errorf("expected ErrUnknownConsent, got %v", err)
		}
		if upserts != 0 {
			t.Errorf("unknown item reached the repository %d times", upserts)
		}
	})

	t.Run("grant carries classification and timestamp", func(t *testing.T) {
		consentRepo := mocks.NewMockConsentRepository()
		var saved domain.ConsentItem
		consentRepo.UpsertFunc = func(ctx context.Context, accountID uint, item domain.ConsentItem) error {
			saved = item
			return nil
		}
		svc := NewConsentService(consentRepo, mocks.NewMockAccountRepository(), mocks.NewMockClock(testNow))

		if err := svc.RecordGrant(ctx, 1, ConsentItemPrivacy, true); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !saved.Required {
			t.Error("privacy should be classified required")
		}
		if !saved.Timestamp.Equal(testNow) {
			t.Errorf("timestamp = %v, want %v", saved.Timestamp, testNow)
		}

		if err := svc.RecordGrant(ctx, 1, ConsentItemMarketing, true); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if saved.Required {
			t.Error("marketing should be classified optional")
		}
	})

	t.Run("re-granting is idempotent at the service layer", func(t *testing.T) {
		consentRepo := mocks.NewMockConsentRepository()
		items := map[string]domain.ConsentItem{}
		consentRepo.UpsertFunc = func(ctx context.Context, accountID uint, item domain.ConsentItem) error {
			items[item.Name] = item
			return nil
		}
		svc := NewConsentService(consentRepo, mocks.NewMockAccountRepository(), mocks.NewMockClock(testNow))

		for i := 0; i < 3; i++ {
			if err := svc.RecordGrant(ctx, 1, ConsentItemTerms, true); err != nil {
				t.Fatalf("grant %d failed: %v", i+1, err)
			}
		}
		if len(items) != 1 {
			t.Errorf("expected a single item after repeated grants, got %d", len(items))
		}
	})
}

func TestConsentServiceImpl_IsComplete(t *testing.T) {
	ctx := createTestContext(t)

	tests := []struct {
		name     string
		items    map[string]domain.ConsentItem
		complete bool
	}{
		{
			name:     "all required granted",
			items:    createCompleteConsentRecord(t, 1).Items,
			complete: true,
		},
		{
			name: "required item missing",
			items: map[string]domain.ConsentItem{
				ConsentItemPrivacy: {Name: ConsentItemPrivacy, Granted: true, Required: true},
				ConsentItemTerms:   {Name: ConsentItemTerms, Granted: true, Required: true},
			},
			complete: false,
		},
		{
			name: "required item withdrawn",
			items: map[string]domain.ConsentItem{
				ConsentItemPrivacy:        {Name: ConsentItemPrivacy, Granted: true, Required: true},
				ConsentItemTerms:          {Name: ConsentItemTerms, Granted: false, Required: true},
				ConsentItemDataProcessing: {Name: ConsentItemDataProcessing, Granted: true, Required: true},
			},
			complete: false,
		},
		{
			name: "optional marketing never blocks",
			items: func() map[string]domain.ConsentItem {
				items := createCompleteConsentRecord(t, 1).Items
				items[ConsentItemMarketing] = domain.ConsentItem{Name: ConsentItemMarketing, Granted: false}
				return items
			}(),
			complete: true,
		},
		{
			name:     "empty record",
			items:    map[string]domain.ConsentItem{},
			complete: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			consentRepo := mocks.NewMockConsentRepository()
			consentRepo.FindByAccountFunc = func(ctx context.Context, accountID uint) (*domain.ConsentRecord, error) {
				return &domain.ConsentRecord{SubjectAccountID: accountID, Items: tt.items}, nil
			}
			svc := NewConsentService(consentRepo, mocks.NewMockAccountRepository(), mocks.NewMockClock(testNow))

			complete, err := svc.IsComplete(ctx, 1)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if complete != tt.complete {
				t.Errorf("IsComplete = %v, want %v", complete, tt.complete)
			}
		})
	}
}

func TestConsentServiceImpl_Deny(t *testing.T) {
	ctx := createTestContext(t)

	t.Run("denial erases consent record and account", func(t *testing.T) {
		accountRepo := mocks.NewMockAccountRepository()
		store := accountStore(t, accountRepo, createAdultAccount(t))

		consentRepo := mocks.NewMockConsentRepository()
		consentDeleted := false
		consentRepo.DeleteByAccountFunc = func(ctx context.Context, accountID uint) error {
			consentDeleted = true
			return nil
		}

		svc := NewConsentService(consentRepo, accountRepo, mocks.NewMockClock(testNow))
		if err := svc.Deny(ctx, 1); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if !consentDeleted {
			t.Error("consent record was not erased")
		}
		if _, ok := store[1]; ok {
			t.Error("account survived denial")
		}
	})

	t.Run("unknown account", func(t *testing.T) {
		svc := NewConsentService(mocks.NewMockConsentRepository(), mocks.NewMockAccountRepository(), mocks.NewMockClock(testNow))
		if err := svc.Deny(ctx, 99); !errors.Is(err, domain.ErrAccountNotFound) {
			t.Errorf("expected ErrAccountNotFound, got %v", err)
		}
	})
}
