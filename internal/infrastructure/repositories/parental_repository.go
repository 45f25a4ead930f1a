package repositories

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/IpsitaPrusty/smart-home-website/domain"
)

// ParentalConsentRepositoryImpl implements domain.ParentalConsentRepository
// using GORM. One record per child account.
type ParentalConsentRepositoryImpl struct {
	db *gorm.DB
}

// DBParentalConsent represents the parental consent record
type DBParentalConsent struct {
	ID                    uint   `gorm:"primaryKey"`
	ChildAccountID        uint   `gorm:"not null;uniqueIndex"`
	GuardianName          string `gorm:"size:255"`
	GuardianEmail         string `gorm:"size:255"`
	GuardianPhone         string `gorm:"size:32"`
	GuardianRelationship  string `gorm:"size:32"`
	ConsentDataCollection bool
	ConsentDeviceControl  bool
	ConsentMonitoring     bool
	ConsentThirdParty     bool
	State                 string `gorm:"index;size:32"`
	Verified              bool   `gorm:"index"`
	VerificationTimestamp time.Time
	CreatedAt             time.Time
	UpdatedAt             time.Time
}

// TableName returns the table name for GORM
func (DBParentalConsent) TableName() string {
	return "parental_consents"
}

// NewParentalConsentRepository creates a new parental consent repository
func NewParentalConsentRepository(db *gorm.DB) domain.ParentalConsentRepository {
	return &ParentalConsentRepositoryImpl{db: db}
}

// Save implements domain.ParentalConsentRepository. The record is keyed by
// child account; saving overwrites the existing record for that child.
func (r *ParentalConsentRepositoryImpl) Save(ctx context.Context, record *domain.ParentalConsentRecord) error {
	var existing DBParentalConsent
	err := r.db.WithContext(ctx).Where("child_account_id = ?", record.ChildAccountID).First(&existing).Error
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	row := r.domainToDB(record)
	if existing.ID != 0 {
		row.ID = existing.ID
		row.CreatedAt = existing.CreatedAt
	}
	return r.db.WithContext(ctx).Save(row).Error
}

// FindByChild implements domain.ParentalConsentRepository
func (r *ParentalConsentRepositoryImpl) FindByChild(ctx context.Context, childAccountID uint) (*domain.ParentalConsentRecord, error) {
	var row DBParentalConsent
	err := r.db.WithContext(ctx).Where("child_account_id = ?", childAccountID).First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrParentalNotFound
		}
		return nil, err
	}
	return r.dbToDomain(&row), nil
}

// DeleteByChild implements domain.ParentalConsentRepository
func (r *ParentalConsentRepositoryImpl) DeleteByChild(ctx context.Context, childAccountID uint) error {
	return r.db.WithContext(ctx).Where("child_account_id = ?", childAccountID).Delete(&DBParentalConsent{}).Error
}

// FinalizeVerified implements domain.ParentalConsentRepository. The record
// finalization and the child account unlock commit together or not at all,
// so a crash can never leave a consented account behind an unverified record.
func (r *ParentalConsentRepositoryImpl) FinalizeVerified(ctx context.Context, record *domain.ParentalConsentRecord, account *domain.Account) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		updates := map[string]interface{}{
			"authenticated":      account.Authenticated,
			"consent_status":     string(account.ConsentStatus),
			"registration_state": string(account.RegistrationState),
		}
		if err := tx.Model(&DBAccount{}).Where("id = ?", account.ID).Updates(updates).Error; err != nil {
			return err
		}

		var existing DBParentalConsent
		err := tx.Where("child_account_id = ?", record.ChildAccountID).First(&existing).Error
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		row := r.domainToDB(record)
		if existing.ID != 0 {
			row.ID = existing.ID
			row.CreatedAt = existing.CreatedAt
		}
		return tx.Save(row).Error
	})
}

func (r *ParentalConsentRepositoryImpl) domainToDB(record *domain.ParentalConsentRecord) *DBParentalConsent {
	return &DBParentalConsent{
		ChildAccountID:        record.ChildAccountID,
		GuardianName:          record.Guardian.Name,
		GuardianEmail:         record.Guardian.Email,
		GuardianPhone:         record.Guardian.Phone,
		GuardianRelationship:  record.Guardian.Relationship,
		ConsentDataCollection: record.Consents.DataCollection,
		ConsentDeviceControl:  record.Consents.DeviceControl,
		ConsentMonitoring:     record.Consents.Monitoring,
		ConsentThirdParty:     record.Consents.ThirdParty,
		State:                 string(record.State),
		Verified:              record.Verified,
		VerificationTimestamp: record.VerificationTimestamp,
	}
}

func (r *ParentalConsentRepositoryImpl) dbToDomain(row *DBParentalConsent) *domain.ParentalConsentRecord {
	return &domain.ParentalConsentRecord{
		ChildAccountID: row.ChildAccountID,
		Guardian: domain.GuardianContact{
			Name:         row.GuardianName,
			Email:        row.GuardianEmail,
			Phone:        row.GuardianPhone,
			Relationship: row.GuardianRelationship,
		},
		Consents: domain.GuardianConsents{
			DataCollection: row.ConsentDataCollection,
			DeviceControl:  row.ConsentDeviceControl,
			Monitoring:     row.ConsentMonitoring,
			ThirdParty:     row.ConsentThirdParty,
		},
		State:                 domain.ParentalState(row.State),
		Verified:              row.Verified,
		VerificationTimestamp: row.VerificationTimestamp,
		CreatedAt:             row.CreatedAt,
		UpdatedAt:             row.UpdatedAt,
	}
}
