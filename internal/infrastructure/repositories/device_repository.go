package repositories

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/IpsitaPrusty/smart-home-website/domain"
)

// DeviceRepositoryImpl implements domain.DeviceRepository using GORM.
// Devices are read-only reference data; their on/off state lives in the UI.
type DeviceRepositoryImpl struct {
	db *gorm.DB
}

// DBDevice represents the device reference row
type DBDevice struct {
	ID               uint   `gorm:"primaryKey"`
	Name             string `gorm:"size:128"`
	Type             string `gorm:"size:32;index"`
	Room             string `gorm:"size:64;index"`
	SensitivityClass string `gorm:"size:16;index"`
}

// TableName returns the table name for GORM
func (DBDevice) TableName() string {
	return "devices"
}

// NewDeviceRepository creates a new device repository
func NewDeviceRepository(db *gorm.DB) domain.DeviceRepository {
	return &DeviceRepositoryImpl{db: db}
}

// List implements domain.DeviceRepository
func (r *DeviceRepositoryImpl) List(ctx context.Context) ([]domain.Device, error) {
	var rows []DBDevice
	if err := r.db.WithContext(ctx).Order("id").Find(&rows).Error; err != nil {
		return nil, err
	}
	devices := make([]domain.Device, 0, len(rows))
	for _, row := range rows {
		devices = append(devices, r.dbToDomain(&row))
	}
	return devices, nil
}

// FindByID implements domain.DeviceRepository
func (r *DeviceRepositoryImpl) FindByID(ctx context.Context, id uint) (*domain.Device, error) {
	var row DBDevice
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrDeviceNotFound
		}
		return nil, err
	}
	device := r.dbToDomain(&row)
	return &device, nil
}

func (r *DeviceRepositoryImpl) dbToDomain(row *DBDevice) domain.Device {
	return domain.Device{
		ID:               row.ID,
		Name:             row.Name,
		Type:             row.Type,
		Room:             row.Room,
		SensitivityClass: domain.SensitivityClass(row.SensitivityClass),
	}
}

// DefaultDevices is the GuardianHome reference installation.
var DefaultDevices = []DBDevice{
	{ID: 1, Name: "Main Lights", Type: "light", Room: "Living Room", SensitivityClass: string(domain.SensitivityStandard)},
	{ID: 2, Name: "Ceiling Fan", Type: "fan", Room: "Living Room", SensitivityClass: string(domain.SensitivityStandard)},
	{ID: 3, Name: "Window Curtains", Type: "curtains", Room: "Living Room", SensitivityClass: string(domain.SensitivityStandard)},
	{ID: 4, Name: "Smart Outlet", Type: "outlet", Room: "Living Room", SensitivityClass: string(domain.SensitivityStandard)},
	{ID: 5, Name: "Kitchen Lights", Type: "light", Room: "Kitchen", SensitivityClass: string(domain.SensitivityStandard)},
	{ID: 6, Name: "Exhaust Fan", Type: "fan", Room: "Kitchen", SensitivityClass: string(domain.SensitivityStandard)},
	{ID: 7, Name: "Bedroom Lights", Type: "light", Room: "Bedroom", SensitivityClass: string(domain.SensitivityStandard)},
	{ID: 8, Name: "AC Unit", Type: "ac", Room: "Bedroom", SensitivityClass: string(domain.SensitivityStandard)},
	{ID: 9, Name: "Blackout Curtains", Type: "curtains", Room: "Bedroom", SensitivityClass: string(domain.SensitivityStandard)},
	{ID: 10, Name: "Front Door", Type: "door", Room: "Security", SensitivityClass: string(domain.SensitivityElevated)},
	{ID: 11, Name: "Door Lock", Type: "lock", Room: "Security", SensitivityClass: string(domain.SensitivityElevated)},
	{ID: 12, Name: "Security Camera", Type: "camera", Room: "Security", SensitivityClass: string(domain.SensitivityHigh)},
}

// SeedDevices inserts the reference device list, skipping rows that exist.
func SeedDevices(db *gorm.DB) error {
	return db.Clauses(clause.OnConflict{DoNothing: true}).Create(&DefaultDevices).Error
}
