package services

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/IpsitaPrusty/smart-home-website/domain"
)

// Consent item names for the self-consent flow.
const (
	ConsentItemPrivacy        = "privacy"
	ConsentItemTerms          = "terms"
	ConsentItemDataProcessing = "dataProcessing"
	ConsentItemMarketing      = "marketing"
)

var (
	selfRequiredItems = []string{ConsentItemPrivacy, ConsentItemTerms, ConsentItemDataProcessing}
	selfOptionalItems = []string{ConsentItemMarketing}
)

// ConsentServiceImpl implements domain.ConsentService over the consent
// repository.
type ConsentServiceImpl struct {
	consentRepo domain.ConsentRepository
	accountRepo domain.AccountRepository
	clock       domain.Clock
}

// NewConsentService creates a new consent service
func NewConsentService(consentRepo domain.ConsentRepository, accountRepo domain.AccountRepository, clock domain.Clock) domain.ConsentService {
	return &ConsentServiceImpl{
		consentRepo: consentRepo,
		accountRepo: accountRepo,
		clock:       clock,
	}
}

// RequiredItems implements domain.ConsentService. The required set is the
// same for every self-consenting tier; child accounts never self-consent.
func (s *ConsentServiceImpl) RequiredItems(tier domain.ComplianceTier) []string {
	if tier == domain.TierChild {
		return nil
	}
	out := make([]string, len(selfRequiredItems))
	copy(out, selfRequiredItems)
	return out
}

// OptionalItems implements domain.ConsentService
func (s *ConsentServiceImpl) OptionalItems(tier domain.ComplianceTier) []string {
	if tier == domain.TierChild {
		return nil
	}
	out := make([]string, len(selfOptionalItems))
	copy(out, selfOptionalItems)
	return out
}

// RecordGrant implements domain.ConsentService as an idempotent upsert.
func (s *ConsentServiceImpl) RecordGrant(ctx context.Context, accountID uint, item string, granted bool) error {
	required, known := s.classify(item)
	if !known {
		return domain.ErrUnknownConsent
	}

	record := domain.ConsentItem{
		Name:      item,
		Granted:   granted,
		Required:  required,
		Timestamp: s.clock.Now(),
	}
	if err := s.consentRepo.Upsert(ctx, accountID, record); err != nil {
		return fmt.Errorf("failed to record consent grant: %w", err)
	}
	return nil
}

// IsComplete implements domain.ConsentService. Completion requires every
// required item to exist and be granted; optional items never block.
func (s *ConsentServiceImpl) IsComplete(ctx context.Context, accountID uint) (bool, error) {
	record, err := s.consentRepo.FindByAccount(ctx, accountID)
	if err != nil {
		return false, err
	}

	for _, name := range selfRequiredItems {
		item, ok := record.Items[name]
		if !ok || !item.Granted {
			return false, nil
		}
	}
	return true, nil
}

// Deny implements domain.ConsentService: the account's consent status is
// marked DENIED and its pending state is erased from the store.
func (s *ConsentServiceImpl) Deny(ctx context.Context, accountID uint) error {
	account, err := s.accountRepo.FindByID(ctx, accountID)
	if err != nil {
		return err
	}

	account.ConsentStatus = domain.ConsentDenied
	account.Authenticated = false
	if err := s.accountRepo.Update(ctx, account); err != nil {
		return fmt.Errorf("failed to mark consent denied: %w", err)
	}

	if err := s.consentRepo.DeleteByAccount(ctx, accountID); err != nil {
		return fmt.Errorf("failed to erase consent record: %w", err)
	}
	if err := s.accountRepo.Delete(ctx, accountID); err != nil {
		return fmt.Errorf("failed to erase pending account: %w", err)
	}

	log.Printf("CONSENT_DENIED: account_id=%d email=%s timestamp=%s",
		accountID, account.Email, s.clock.Now().UTC().Format(time.RFC3339))
	return nil
}

func (s *ConsentServiceImpl) classify(item string) (required, known bool) {
	for _, name := range selfRequiredItems {
		if name == item {
			return true, true
		}
	}
	for _, name := range selfOptionalItems {
		if name == item {
			return false, true
		}
	}
	return false, false
}
