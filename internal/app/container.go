package app

import (
	"context"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/IpsitaPrusty/smart-home-website/domain"
	"github.com/IpsitaPrusty/smart-home-website/internal/config"
	"github.com/IpsitaPrusty/smart-home-website/internal/http/handlers"
	"github.com/IpsitaPrusty/smart-home-website/internal/http/middleware"
	"github.com/IpsitaPrusty/smart-home-website/internal/infrastructure/auth"
	"github.com/IpsitaPrusty/smart-home-website/internal/infrastructure/database"
	"github.com/IpsitaPrusty/smart-home-website/internal/infrastructure/notifications"
	"github.com/IpsitaPrusty/smart-home-website/internal/infrastructure/repositories"
	"github.com/IpsitaPrusty/smart-home-website/internal/services"
)

// Container holds all dependencies
type Container struct {
	Config *config.Config

	DB          *gorm.DB
	RedisClient *redis.Client
	CasbinSvc   *auth.CasbinService

	AccountRepo  domain.AccountRepository
	ConsentRepo  domain.ConsentRepository
	ParentalRepo domain.ParentalConsentRepository
	DeviceRepo   domain.DeviceRepository
	SessionRepo  domain.SessionRepository

	PasswordSvc     domain.PasswordService
	TokenSvc        domain.TokenService
	NotificationSvc domain.NotificationService
	OTPSvc          domain.OTPService
	ConsentSvc      domain.ConsentService
	ParentalSvc     domain.ParentalService
	PolicySvc       domain.DevicePolicyService
	RegistrationSvc domain.RegistrationService

	AuthHandlers     *handlers.AuthHandlers
	ConsentHandlers  *handlers.ConsentHandlers
	ParentalHandlers *handlers.ParentalHandlers
	DeviceHandlers   *handlers.DeviceHandlers

	JWTMw    *middleware.AuthMW
	CasbinMw *middleware.CasbinMW
}

// NewContainer creates and initializes all dependencies
func NewContainer(cfg *config.Config) (*Container, error) {
	c := &Container{Config: cfg}

	if err := c.initInfrastructure(); err != nil {
		return nil, err
	}

	c.initRepositories()
	c.initServices()
	c.initHTTP()

	return c, nil
}

func (c *Container) initInfrastructure() error {
	db, err := database.Open(c.Config.DSN)
	if err != nil {
		return err
	}
	if err := database.AutoMigrate(db); err != nil {
		return err
	}
	if err := repositories.SeedDevices(db); err != nil {
		return err
	}
	c.DB = db

	cas, err := auth.NewCasbinService(db, c.Config.CasbinModelPath)
	if err != nil {
		return err
	}
	c.CasbinSvc = cas

	rdb := database.NewRedis(c.Config.RedisAddr, c.Config.RedisPassword, c.Config.RedisDB)
	if err := rdb.Ping(context.Background()); err != nil {
		return err
	}
	c.RedisClient = rdb.Client

	return nil
}

func (c *Container) initRepositories() {
	c.AccountRepo = repositories.NewAccountRepository(c.DB)
	c.ConsentRepo = repositories.NewConsentRepository(c.DB)
	c.ParentalRepo = repositories.NewParentalConsentRepository(c.DB)
	c.DeviceRepo = repositories.NewDeviceRepository(c.DB)
	c.SessionRepo = repositories.NewSessionRepository(c.RedisClient, c.Config.RefreshTTL)
}

func (c *Container) initServices() {
	clock := services.NewSystemClock()

	c.PasswordSvc = auth.NewPasswordService()
	c.TokenSvc = auth.NewJWTService(c.Config.JWTSecret, c.Config.JWTIssuer, c.Config.AccessTTL, c.Config.RefreshTTL)
	c.NotificationSvc = notifications.NewTwilioService(c.Config.TwilioSID, c.Config.TwilioToken, c.Config.TwilioFrom, c.Config.TwilioFromEmail)

	otpConfig := services.OTPConfig{
		Length:       c.Config.OTP_Length,
		TTL:          c.Config.OTP_TTL,
		MaxAttempts:  c.Config.OTP_MaxAttempts,
		ResendWindow: c.Config.OTP_ResendWindow,
	}
	c.OTPSvc = services.NewOTPService(c.NotificationSvc, c.RedisClient, clock, otpConfig)
	c.ConsentSvc = services.NewConsentService(c.ConsentRepo, c.AccountRepo, clock)
	c.ParentalSvc = services.NewParentalService(
		c.AccountRepo,
		c.ParentalRepo,
		c.OTPSvc,
		c.NotificationSvc,
		c.SessionRepo,
		c.TokenSvc,
		clock,
		c.Config.RefreshTTL,
		c.Config.AccessTTL,
	)
	c.PolicySvc = services.NewDevicePolicyService(c.AccountRepo, c.DeviceRepo, clock)
	c.RegistrationSvc = services.NewRegistrationService(
		c.AccountRepo,
		c.SessionRepo,
		c.ConsentSvc,
		c.OTPSvc,
		c.PasswordSvc,
		c.TokenSvc,
		clock,
		c.Config.RefreshTTL,
		c.Config.AccessTTL,
	)

	c.initHandlers(clock)
}

func (c *Container) initHandlers(clock domain.Clock) {
	c.AuthHandlers = handlers.NewAuthHandlers(c.RegistrationSvc, c.ConsentSvc, clock)
	c.ConsentHandlers = handlers.NewConsentHandlers(c.RegistrationSvc, c.ConsentSvc, c.AccountRepo, clock)
	c.ParentalHandlers = handlers.NewParentalHandlers(c.ParentalSvc)
	c.DeviceHandlers = handlers.NewDeviceHandlers(c.DeviceRepo, c.PolicySvc, c.AccountRepo, clock)
}

func (c *Container) initHTTP() {
	c.JWTMw = middleware.NewAuthMW(c.TokenSvc, c.SessionRepo)
	c.CasbinMw = middleware.NewCasbinMW(c.CasbinSvc.E)
}

// Close closes all connections
func (c *Container) Close() error {
	if c.RedisClient != nil {
		c.RedisClient.Close()
	}

	if c.DB != nil {
		sqlDB, err := c.DB.DB()
		if err != nil {
			return err
		}
		return sqlDB.Close()
	}

	return nil
}
