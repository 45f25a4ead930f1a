package services

import (
	"context"
	"crypto/rand"
	"encoding/json"
	"errors"
	"fmt"
	"math/big"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/IpsitaPrusty/smart-home-website/domain"
)

// OTPServiceImpl implements domain.OTPService using Redis persistence.
// A plain SET on the channel key gives the at-most-one-active-challenge
// guarantee: issuing replaces any prior challenge atomically, last writer
// wins.
type OTPServiceImpl struct {
	notificationSvc domain.NotificationService
	redisClient     *redis.Client
	clock           domain.Clock
	config          OTPConfig
}

type OTPConfig struct {
	Length       int
	TTL          time.Duration
	MaxAttempts  int
	ResendWindow time.Duration
}

// NewOTPService creates a new Redis-based OTP service
func NewOTPService(notificationSvc domain.NotificationService, redisClient *redis.Client, clock domain.Clock, config OTPConfig) domain.OTPService {
	return &OTPServiceImpl{
		notificationSvc: notificationSvc,
		redisClient:     redisClient,
		clock:           clock,
		config:          config,
	}
}

func otpKey(channel string) string    { return fmt.Sprintf("otp:%s", channel) }
func resendKey(channel string) string { return fmt.Sprintf("otp:res:%s", channel) }

// Issue implements domain.OTPService. Any prior challenge for the channel is
// invalidated even when two requests race.
func (s *OTPServiceImpl) Issue(ctx context.Context, channel string) (*domain.OTPChallenge, error) {
	// Resend throttle
	ttl, err := s.redisClient.TTL(ctx, resendKey(channel)).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to check resend throttle: %w", err)
	}
	if ttl > 0 {
		return nil, fmt.Errorf("%w: wait %d seconds", domain.ErrResendThrottled, int64(ttl.Seconds()))
	}

	code, err := s.generateSecureCode()
	if err != nil {
		return nil, fmt.Errorf("failed to generate OTP code: %w", err)
	}

	now := s.clock.Now()
	challenge := &domain.OTPChallenge{
		Channel:           channel,
		Code:              code,
		IssuedAt:          now,
		ExpiresAt:         now.Add(s.config.TTL),
		AttemptsRemaining: s.config.MaxAttempts,
	}

	data, err := json.Marshal(challenge)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal challenge: %w", err)
	}

	// Keep the key around past logical expiry so verification can report
	// Expired rather than NotFound.
	if err := s.redisClient.Set(ctx, otpKey(channel), data, 2*s.config.TTL).Err(); err != nil {
		return nil, fmt.Errorf("failed to store challenge in Redis: %w", err)
	}

	if err := s.redisClient.Set(ctx, resendKey(channel), 1, s.config.ResendWindow).Err(); err != nil {
		return nil, fmt.Errorf("failed to set resend throttle: %w", err)
	}

	subject := "Your GuardianHome verification code"
	body := fmt.Sprintf("Your verification code is: %s. Valid for %d minutes.", code, int(s.config.TTL.Minutes()))
	if err := s.notificationSvc.SendEmail(channel, subject, body); err != nil {
		// Clean up so the caller can retry immediately.
		s.redisClient.Del(ctx, otpKey(channel), resendKey(channel))
		return nil, fmt.Errorf("%w: %v", domain.ErrDeliveryFailed, err)
	}

	return challenge, nil
}

// Verify implements domain.OTPService. A correct code consumes the
// challenge; a wrong code burns one attempt.
func (s *OTPServiceImpl) Verify(ctx context.Context, channel, submittedCode string) error {
	key := otpKey(channel)

	data, err := s.redisClient.Get(ctx, key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return domain.ErrChallengeNotFound
		}
		return fmt.Errorf("failed to load challenge from Redis: %w", err)
	}

	var challenge domain.OTPChallenge
	if err := json.Unmarshal([]byte(data), &challenge); err != nil {
		return fmt.Errorf("failed to unmarshal challenge: %w", err)
	}

	if s.clock.Now().After(challenge.ExpiresAt) {
		s.redisClient.Del(ctx, key)
		return domain.ErrChallengeExpired
	}

	if challenge.Code != submittedCode {
		challenge.AttemptsRemaining--
		if challenge.AttemptsRemaining <= 0 {
			s.redisClient.Del(ctx, key)
			return domain.ErrChallengeExhausted
		}
		updated, merr := json.Marshal(&challenge)
		if merr != nil {
			return fmt.Errorf("failed to marshal challenge: %w", merr)
		}
		if err := s.redisClient.Set(ctx, key, updated, redis.KeepTTL).Err(); err != nil {
			return fmt.Errorf("failed to persist attempt counter: %w", err)
		}
		return domain.ErrChallengeMismatch
	}

	// Success consumes the challenge.
	s.redisClient.Del(ctx, key)
	return nil
}

// Resend implements domain.OTPService. Reissue always replaces, never
// extends; the throttle window still applies.
func (s *OTPServiceImpl) Resend(ctx context.Context, channel string) (*domain.OTPChallenge, error) {
	return s.Issue(ctx, channel)
}

// generateSecureCode generates a cryptographically secure numeric code
func (s *OTPServiceImpl) generateSecureCode() (string, error) {
	digits := make([]byte, s.config.Length)

	for i := 0; i < s.config.Length; i++ {
		num, err := rand.Int(rand.Reader, big.NewInt(10))
		if err != nil {
			return "", fmt.Errorf("failed to generate random digit: %w", err)
		}
		digits[i] = byte('0' + num.Int64())
	}

	return string(digits), nil
}
