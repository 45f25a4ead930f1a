package mocks

import (
	"context"

	"github.com/IpsitaPrusty/smart-home-website/domain"
)

// MockDeviceRepository implements domain.DeviceRepository for testing
type MockDeviceRepository struct {
	ListFunc     func(ctx context.Context) ([]domain.Device, error)
	FindByIDFunc func(ctx context.Context, id uint) (*domain.Device, error)
}

// NewMockDeviceRepository creates a new MockDeviceRepository with default behaviors
func NewMockDeviceRepository() *MockDeviceRepository {
	return &MockDeviceRepository{}
}

// List returns all devices
func (m *MockDeviceRepository) List(ctx context.Context) ([]domain.Device, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx)
	}
	// Default behavior: empty list
	return []domain.Device{}, nil
}

// FindByID returns one device
func (m *MockDeviceRepository) FindByID(ctx context.Context, id uint) (*domain.Device, error) {
	if m.FindByIDFunc != nil {
		return m.FindByIDFunc(ctx, id)
	}
	// Default behavior: not found
	return nil, domain.ErrDeviceNotFound
}

// Compile-time interface compliance verification
var _ domain.DeviceRepository = (*MockDeviceRepository)(nil)
