package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/IpsitaPrusty/smart-home-website/domain"
	"github.com/IpsitaPrusty/smart-home-website/internal/mocks"
)

func TestDevicePolicyServiceImpl_Decide(t *testing.T) {
	svc := NewDevicePolicyService(mocks.NewMockAccountRepository(), mocks.NewMockDeviceRepository(), mocks.NewMockClock(testNow))

	tests := []struct {
		name    string
		age     int
		class   domain.SensitivityClass
		allowed bool
	}{
		{"standard allowed at any age", 8, domain.SensitivityStandard, true},
		{"standard allowed for adults", 30, domain.SensitivityStandard, true},
		{"elevated denied under 16", 15, domain.SensitivityElevated, false},
		{"elevated allowed at 16", 16, domain.SensitivityElevated, true},
		{"elevated allowed above 16", 17, domain.SensitivityElevated, true},
		{"high denied under 18", 17, domain.SensitivityHigh, false},
		{"high allowed at 18", 18, domain.SensitivityHigh, true},
		{"high denied for children", 10, domain.SensitivityHigh, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			decision := svc.Decide(tt.age, tt.class)
			if decision.Allowed != tt.allowed {
				t.Errorf("Decide(%d, %s).Allowed = %v, want %v", tt.age, tt.class, decision.Allowed, tt.allowed)
			}
			if !tt.allowed && decision.Reason != domain.ReasonAgeRestricted {
				t.Errorf("denial reason = %q, want %q", decision.Reason, domain.ReasonAgeRestricted)
			}
			if tt.allowed && decision.Reason != "" {
				t.Errorf("allow carried reason %q", decision.Reason)
			}
		})
	}
}

func TestDevicePolicyServiceImpl_DecideForAccount(t *testing.T) {
	ctx := createTestContext(t)

	highDevice := &domain.Device{ID: 12, Name: "Security Camera", Type: "camera", Room: "Front Door", SensitivityClass: domain.SensitivityHigh}

	t.Run("minor denied a high-sensitivity device", func(t *testing.T) {
		accountRepo := mocks.NewMockAccountRepository()
		accountStore(t, accountRepo, createMinorAccount(t))
		deviceRepo := mocks.NewMockDeviceRepository()
		deviceRepo.FindByIDFunc = func(ctx context.Context, id uint) (*domain.Device, error) {
			return highDevice, nil
		}

		svc := NewDevicePolicyService(accountRepo, deviceRepo, mocks.NewMockClock(testNow))
		decision, err := svc.DecideForAccount(ctx, 2, 12)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if decision.Allowed {
			t.Error("15-year-old allowed a HIGH device")
		}
		if decision.Reason != domain.ReasonAgeRestricted {
			t.Errorf("reason = %q", decision.Reason)
		}
	})

	t.Run("decision follows the account across birthdays", func(t *testing.T) {
		accountRepo := mocks.NewMockAccountRepository()
		account := createMinorAccount(t) // turns 18 on 2027-01-10
		accountStore(t, accountRepo, account)
		deviceRepo := mocks.NewMockDeviceRepository()
		deviceRepo.FindByIDFunc = func(ctx context.Context, id uint) (*domain.Device, error) {
			return highDevice, nil
		}

		clock := mocks.NewMockClock(testNow)
		svc := NewDevicePolicyService(accountRepo, deviceRepo, clock)

		decision, err := svc.DecideForAccount(ctx, 2, 12)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if decision.Allowed {
			t.Fatal("minor allowed before 18th birthday")
		}

		clock.Advance(3 * 366 * 24 * time.Hour)
		decision, err = svc.DecideForAccount(ctx, 2, 12)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !decision.Allowed {
			t.Error("still denied after turning 18")
		}
	})

	t.Run("unknown device", func(t *testing.T) {
		accountRepo := mocks.NewMockAccountRepository()
		accountStore(t, accountRepo, createAdultAccount(t))
		svc := NewDevicePolicyService(accountRepo, mocks.NewMockDeviceRepository(), mocks.NewMockClock(testNow))

		_, err := svc.DecideForAccount(ctx, 1, 999)
		if !errors.Is(err, domain.ErrDeviceNotFound) {
			t.Errorf("expected ErrDeviceNotFound, got %v", err)
		}
	})

	t.Run("unknown account", func(t *testing.T) {
		svc := NewDevicePolicyService(mocks.NewMockAccountRepository(), mocks.NewMockDeviceRepository(), mocks.NewMockClock(testNow))
		_, err := svc.DecideForAccount(ctx, 99, 1)
		if !errors.Is(err, domain.ErrAccountNotFound) {
			t.Errorf("expected ErrAccountNotFound, got %v", err)
		}
	})
}
