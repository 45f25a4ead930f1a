package repositories

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/IpsitaPrusty/smart-home-website/domain"
)

// ConsentRepositoryImpl implements domain.ConsentRepository using GORM with
// one row per consent item. The unique index on (account_id, item) makes
// grants idempotent upserts.
type ConsentRepositoryImpl struct {
	db *gorm.DB
}

// DBConsentItem represents one consent item row
type DBConsentItem struct {
	ID        uint      `gorm:"primaryKey"`
	AccountID uint      `gorm:"not null;index;uniqueIndex:uidx_consent_account_item"`
	Item      string    `gorm:"size:64;not null;uniqueIndex:uidx_consent_account_item"`
	Granted   bool      `gorm:"not null"`
	Required  bool      `gorm:"not null"`
	GrantedAt time.Time `gorm:""`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// TableName returns the table name for GORM
func (DBConsentItem) TableName() string {
	return "consent_items"
}

// NewConsentRepository creates a new consent repository
func NewConsentRepository(db *gorm.DB) domain.ConsentRepository {
	return &ConsentRepositoryImpl{db: db}
}

// Upsert implements domain.ConsentRepository. Repeating a grant with the
// same value leaves exactly one row per item.
func (r *ConsentRepositoryImpl) Upsert(ctx context.Context, accountID uint, item domain.ConsentItem) error {
	row := &DBConsentItem{
		AccountID: accountID,
		Item:      item.Name,
		Granted:   item.Granted,
		Required:  item.Required,
		GrantedAt: item.Timestamp,
	}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "account_id"}, {Name: "item"}},
		DoUpdates: clause.AssignmentColumns([]string{"granted", "required", "granted_at", "updated_at"}),
	}).Create(row).Error
}

// FindByAccount implements domain.ConsentRepository
func (r *ConsentRepositoryImpl) FindByAccount(ctx context.Context, accountID uint) (*domain.ConsentRecord, error) {
	var rows []DBConsentItem
	if err := r.db.WithContext(ctx).Where("account_id = ?", accountID).Find(&rows).Error; err != nil {
		return nil, err
	}

	record := &domain.ConsentRecord{
		SubjectAccountID: accountID,
		Items:            make(map[string]domain.ConsentItem, len(rows)),
	}
	for _, row := range rows {
		record.Items[row.Item] = domain.ConsentItem{
			Name:      row.Item,
			Granted:   row.Granted,
			Required:  row.Required,
			Timestamp: row.GrantedAt,
		}
	}
	return record, nil
}

// DeleteByAccount implements domain.ConsentRepository
func (r *ConsentRepositoryImpl) DeleteByAccount(ctx context.Context, accountID uint) error {
	return r.db.WithContext(ctx).Where("account_id = ?", accountID).Delete(&DBConsentItem{}).Error
}
