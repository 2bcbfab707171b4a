package redisotp

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/kasetgo/kaset/internal/config"
	"github.com/kasetgo/kaset/internal/domain/models"
)

// Store keeps password-reset one-time codes and reset tickets in Redis with a
// TTL. Each step of the reset flow consumes the previous step's key so codes
// and tickets are single use.
type Store interface {
	SaveCode(ctx context.Context, email, code string) error
	// VerifyCode checks the code for the email; on match it consumes the code
	// and returns a short-lived reset ticket for the final password change.
	VerifyCode(ctx context.Context, email, code string) (ticket string, err error)
	// ConsumeTicket validates and burns the reset ticket for the email.
	ConsumeTicket(ctx context.Context, email, ticket string) error
}

type store struct {
	client    *redis.Client
	codeTTL   time.Duration
	ticketTTL time.Duration
}

// NewStore connects to Redis and verifies the connection with a ping.
func NewStore(ctx context.Context, cfg config.RedisConfig, codeTTL, ticketTTL time.Duration) (Store, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to ping redis: %w", err)
	}

	return &store{client: client, codeTTL: codeTTL, ticketTTL: ticketTTL}, nil
}

func codeKey(email string) string   { return "otp:code:" + email }
func ticketKey(email string) string { return "otp:ticket:" + email }

func (s *store) SaveCode(ctx context.Context, email, code string) error {
	if err := s.client.Set(ctx, codeKey(email), code, s.codeTTL).Err(); err != nil {
		return &models.DependencyError{Dependency: "redis", Err: err}
	}
	return nil
}

func (s *store) VerifyCode(ctx context.Context, email, code string) (string, error) {
	stored, err := s.client.Get(ctx, codeKey(email)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", &models.ValidationError{Field: "otp", Reason: "code expired or never requested"}
		}
		return "", &models.DependencyError{Dependency: "redis", Err: err}
	}

	if subtle.ConstantTimeCompare([]byte(stored), []byte(code)) != 1 {
		return "", &models.ValidationError{Field: "otp", Reason: "code mismatch"}
	}

	ticket := uuid.NewString()
	pipe := s.client.TxPipeline()
	pipe.Del(ctx, codeKey(email))
	pipe.Set(ctx, ticketKey(email), ticket, s.ticketTTL)
	if _, err := pipe.Exec(ctx); err != nil {
		return "", &models.DependencyError{Dependency: "redis", Err: err}
	}

	return ticket, nil
}

func (s *store) ConsumeTicket(ctx context.Context, email, ticket string) error {
	stored, err := s.client.Get(ctx, ticketKey(email)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return &models.ValidationError{Field: "reset_ticket", Reason: "ticket expired or never issued"}
		}
		return &models.DependencyError{Dependency: "redis", Err: err}
	}

	if subtle.ConstantTimeCompare([]byte(stored), []byte(ticket)) != 1 {
		return &models.ValidationError{Field: "reset_ticket", Reason: "ticket mismatch"}
	}

	if err := s.client.Del(ctx, ticketKey(email)).Err(); err != nil {
		return &models.DependencyError{Dependency: "redis", Err: err}
	}
	return nil
}
