package repositories

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/IpsitaPrusty/smart-home-website/domain"
)

// AccountRepositoryImpl implements domain.AccountRepository using GORM
type AccountRepositoryImpl struct {
	db *gorm.DB
}

// DBAccount represents the database model for Account (with GORM tags)
type DBAccount struct {
	ID                uint      `gorm:"primaryKey"`
	Name              string    `gorm:"size:255"`
	Email             string    `gorm:"uniqueIndex;size:255"`
	DateOfBirth       time.Time `gorm:"index"`
	PasswordHash      string    `gorm:"column:password"`
	Authenticated     bool      `gorm:"index"`
	ConsentStatus     string    `gorm:"index;size:32"`
	RegistrationState string    `gorm:"index;size:32"`
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// TableName returns the table name for GORM
func (DBAccount) TableName() string {
	return "accounts"
}

// NewAccountRepository creates a new account repository
func NewAccountRepository(db *gorm.DB) domain.AccountRepository {
	return &AccountRepositoryImpl{db: db}
}

// Create implements domain.AccountRepository
func (r *AccountRepositoryImpl) Create(ctx context.Context, account *domain.Account) error {
	dbAccount := r.domainToDB(account)
	if err := r.db.WithContext(ctx).Create(dbAccount).Error; err != nil {
		return err
	}
	account.ID = dbAccount.ID
	return nil
}

// FindByEmail implements domain.AccountRepository
func (r *AccountRepositoryImpl) FindByEmail(ctx context.Context, email string) (*domain.Account, error) {
	var dbAccount DBAccount
	err := r.db.WithContext(ctx).Where("email = ?", email).First(&dbAccount).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrAccountNotFound
		}
		return nil, err
	}
	return r.dbToDomain(&dbAccount), nil
}

// FindByID implements domain.AccountRepository
func (r *AccountRepositoryImpl) FindByID(ctx context.Context, id uint) (*domain.Account, error) {
	var dbAccount DBAccount
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&dbAccount).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrAccountNotFound
		}
		return nil, err
	}
	return r.dbToDomain(&dbAccount), nil
}

// Update implements domain.AccountRepository
func (r *AccountRepositoryImpl) Update(ctx context.Context, account *domain.Account) error {
	dbAccount := r.domainToDB(account)
	return r.db.WithContext(ctx).Save(dbAccount).Error
}

// Delete implements domain.AccountRepository. Erasure is real: the row must
// release its email so a re-registration with the same address starts clean.
func (r *AccountRepositoryImpl) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Unscoped().Delete(&DBAccount{}, id).Error
}

// domainToDB converts domain account to database account
func (r *AccountRepositoryImpl) domainToDB(account *domain.Account) *DBAccount {
	return &DBAccount{
		ID:                account.ID,
		Name:              account.Name,
		Email:             account.Email,
		DateOfBirth:       account.DateOfBirth,
		PasswordHash:      account.PasswordHash,
		Authenticated:     account.Authenticated,
		ConsentStatus:     string(account.ConsentStatus),
		RegistrationState: string(account.RegistrationState),
	}
}

// dbToDomain converts database account to domain account
func (r *AccountRepositoryImpl) dbToDomain(dbAccount *DBAccount) *domain.Account {
	return &domain.Account{
		ID:                dbAccount.ID,
		Name:              dbAccount.Name,
		Email:             dbAccount.Email,
		DateOfBirth:       dbAccount.DateOfBirth,
		PasswordHash:      dbAccount.PasswordHash,
		Authenticated:     dbAccount.Authenticated,
		ConsentStatus:     domain.ConsentStatus(dbAccount.ConsentStatus),
		RegistrationState: domain.RegistrationState(dbAccount.RegistrationState),
		CreatedAt:         dbAccount.CreatedAt,
		UpdatedAt:         dbAccount.UpdatedAt,
	}
}
