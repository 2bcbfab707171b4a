package auth

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/kasetgo/kaset/internal/config"
	"github.com/kasetgo/kaset/internal/domain/models"
	"github.com/kasetgo/kaset/internal/repository/mongodb"
	"github.com/kasetgo/kaset/internal/repository/redisotp"
)

// CodeSender delivers a one-time reset code to the user out of band.
type CodeSender interface {
	SendResetCode(ctx context.Context, user models.User, code string) error
}

// Service handles registration, login and the multi-step OTP password reset.
type Service struct {
	users    mongodb.UserRepository
	otp      redisotp.Store
	sender   CodeSender
	secret   []byte
	tokenTTL time.Duration
	logger   *zap.Logger
}

// NewService wires a new auth service. The OTP store and code sender may be
// nil; the reset flow then reports the dependency as unavailable.
func NewService(users mongodb.UserRepository, otp redisotp.Store, sender CodeSender, cfg config.AuthConfig, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		users:    users,
		otp:      otp,
		sender:   sender,
		secret:   []byte(cfg.JWTSecret),
		tokenTTL: cfg.TokenTTL,
		logger:   logger,
	}
}

// Claims is the JWT payload issued at login.
type Claims struct {
	Email string          `json:"email"`
	Role  models.UserRole `json:"role"`
	jwt.RegisteredClaims
}

// Register creates a new account with a bcrypt-hashed password.
func (s *Service) Register(ctx context.Context, email, password, displayName string) (*models.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || !strings.Contains(email, "@") {
		return nil, &models.ValidationError{Field: "email", Reason: "must be a valid address"}
	}
	if len(password) < 8 {
		return nil, &models.ValidationError{Field: "password", Reason: "must be at least 8 characters"}
	}

	if _, err := s.users.FindByEmail(ctx, email); err == nil {
		return nil, &models.ValidationError{Field: "email", Reason: "already registered"}
	} else if _, ok := asNotFound(err); !ok {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	now := time.Now().UTC()
	user := models.User{
		ID:           uuid.NewString(),
		Email:        email,
		PasswordHash: string(hash),
		DisplayName:  displayName,
		Role:         models.RoleFarmer,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.users.Insert(ctx, user); err != nil {
		return nil, err
	}

	s.logger.Info("user registered", zap.String("user_id", user.ID))
	return &user, nil
}

// Login verifies credentials and issues a signed access token.
func (s *Service) Login(ctx context.Context, email, password string) (token string, user *models.User, err error) {
	email = strings.ToLower(strings.TrimSpace(email))

	user, err = s.users.FindByEmail(ctx, email)
	if err != nil {
		if _, ok := asNotFound(err); ok {
			return "", nil, &models.ValidationError{Field: "credentials", Reason: "invalid email or password"}
		}
		return "", nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", nil, &models.ValidationError{Field: "credentials", Reason: "invalid email or password"}
	}

	now := time.Now().UTC()
	claims := Claims{
		Email: user.Email,
		Role:  user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.tokenTTL)),
		},
	}

	token, err = jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", nil, fmt.Errorf("sign token: %w", err)
	}
	return token, user, nil
}

// ParseToken validates a bearer token and returns its claims.
func (s *Service) ParseToken(tokenString string) (*Claims, error) {
	claims := new(Claims)
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("parse token: %w", err)
	}
	if !token.Valid {
		return nil, fmt.Errorf("invalid token")
	}
	return claims, nil
}

// RequestPasswordReset generates a six-digit code, stores it with a TTL and
// delivers it through the configured sender. An unknown email returns without
// error so the endpoint does not leak which addresses exist.
func (s *Service) RequestPasswordReset(ctx context.Context, email string) error {
	if s.otp == nil || s.sender == nil {
		return &models.DependencyError{Dependency: "otp", Err: fmt.Errorf("password reset not configured")}
	}

	email = strings.ToLower(strings.TrimSpace(email))
	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if _, ok := asNotFound(err); ok {
			s.logger.Info("password reset requested for unknown email")
			return nil
		}
		return err
	}

	code, err := generateCode()
	if err != nil {
		return fmt.Errorf("generate otp: %w", err)
	}
	if err := s.otp.SaveCode(ctx, email, code); err != nil {
		return err
	}
	if err := s.sender.SendResetCode(ctx, *user, code); err != nil {
		return err
	}

	s.logger.Info("password reset code sent", zap.String("user_id", user.ID))
	return nil
}

// VerifyPasswordResetCode checks the code and exchanges it for a reset ticket.
func (s *Service) VerifyPasswordResetCode(ctx context.Context, email, code string) (string, error) {
	if s.otp == nil {
		return "", &models.DependencyError{Dependency: "otp", Err: fmt.Errorf("password reset not configured")}
	}
	return s.otp.VerifyCode(ctx, strings.ToLower(strings.TrimSpace(email)), code)
}

// ResetPassword burns the reset ticket and stores the new password hash.
func (s *Service) ResetPassword(ctx context.Context, email, ticket, newPassword string) error {
	if s.otp == nil {
		return &models.DependencyError{Dependency: "otp", Err: fmt.Errorf("password reset not configured")}
	}
	if len(newPassword) < 8 {
		return &models.ValidationError{Field: "password", Reason: "must be at least 8 characters"}
	}

	email = strings.ToLower(strings.TrimSpace(email))
	if err := s.otp.ConsumeTicket(ctx, email, ticket); err != nil {
		return err
	}

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	user.PasswordHash = string(hash)
	user.UpdatedAt = time.Now().UTC()

	if err := s.users.Update(ctx, *user); err != nil {
		return err
	}

	s.logger.Info("password reset completed", zap.String("user_id", user.ID))
	return nil
}

func generateCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}

func asNotFound(err error) (*models.NotFoundError, bool) {
	var nf *models.NotFoundError
	if errors.As(err, &nf) {
		return nf, true
	}
	return nil, false
}
