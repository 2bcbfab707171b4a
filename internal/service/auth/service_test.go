package auth

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/kasetgo/kaset/internal/config"
	"github.com/kasetgo/kaset/internal/domain/models"
)

type fakeUserRepo struct {
	users map[string]models.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[string]models.User)}
}

func (r *fakeUserRepo) Insert(_ context.Context, user models.User) error {
	r.users[user.ID] = user
	return nil
}

func (r *fakeUserRepo) FindByID(_ context.Context, id string) (*models.User, error) {
	user, ok := r.users[id]
	if !ok {
		return nil, &models.NotFoundError{Resource: "user", ID: id}
	}
	return &user, nil
}

func (r *fakeUserRepo) FindByEmail(_ context.Context, email string) (*models.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			user := u
			return &user, nil
		}
	}
	return nil, &models.NotFoundError{Resource: "user", ID: email}
}

func (r *fakeUserRepo) Update(_ context.Context, user models.User) error {
	if _, ok := r.users[user.ID]; !ok {
		return &models.NotFoundError{Resource: "user", ID: user.ID}
	}
	r.users[user.ID] = user
	return nil
}

func (r *fakeUserRepo) List(_ context.Context) ([]models.User, error) {
	out := make([]models.User, 0, len(r.users))
	for _, u := range r.users {
		out = append(out, u)
	}
	return out, nil
}

func (r *fakeUserRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.users[id]; !ok {
		return &models.NotFoundError{Resource: "user", ID: id}
	}
	delete(r.users, id)
	return nil
}

// fakeOTPStore mirrors the Redis store's consume-on-success behavior.
type fakeOTPStore struct {
	codes   map[string]string
	tickets map[string]string
}

func newFakeOTPStore() *fakeOTPStore {
	return &fakeOTPStore{codes: make(map[string]string), tickets: make(map[string]string)}
}

func (s *fakeOTPStore) SaveCode(_ context.Context, email, code string) error {
	s.codes[email] = code
	return nil
}

func (s *fakeOTPStore) VerifyCode(_ context.Context, email, code string) (string, error) {
	if stored, ok := s.codes[email]; !ok || stored != code {
		return "", &models.ValidationError{Field: "code", Reason: "invalid or expired"}
	}
	delete(s.codes, email)
	ticket := uuid.NewString()
	s.tickets[email] = ticket
	return ticket, nil
}

func (s *fakeOTPStore) ConsumeTicket(_ context.Context, email, ticket string) error {
	if stored, ok := s.tickets[email]; !ok || stored != ticket {
		return &models.ValidationError{Field: "ticket", Reason: "invalid or expired"}
	}
	delete(s.tickets, email)
	return nil
}

type fakeCodeSender struct {
	sentTo   []string
	lastCode string
}

func (s *fakeCodeSender) SendResetCode(_ context.Context, user models.User, code string) error {
	s.sentTo = append(s.sentTo, user.Email)
	s.lastCode = code
	return nil
}

func testAuthConfig() config.AuthConfig {
	return config.AuthConfig{JWTSecret: "test-secret", TokenTTL: time.Hour}
}

func TestRegisterAndLogin(t *testing.T) {
	users := newFakeUserRepo()
	svc := NewService(users, nil, nil, testAuthConfig(), nil)

	registered, err := svc.Register(context.Background(), "Somchai@Example.com", "longenough", "Somchai")
	require.NoError(t, err)
	assert.Equal(t, "somchai@example.com", registered.Email)
	assert.Equal(t, models.RoleFarmer, registered.Role)
	assert.NotEqual(t, "longenough", registered.PasswordHash)

	token, user, err := svc.Login(context.Background(), "somchai@example.com", "longenough")
	require.NoError(t, err)
	require.NotEmpty(t, token)
	assert.Equal(t, registered.ID, user.ID)

	claims, err := svc.ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, registered.ID, claims.Subject)
	assert.Equal(t, "somchai@example.com", claims.Email)
	assert.Equal(t, models.RoleFarmer, claims.Role)
}

func TestRegisterValidation(t *testing.T) {
	tests := []struct {
		name     string
		email    string
		password string
	}{
		{"empty email", "", "longenough"},
		{"malformed email", "not-an-address", "longenough"},
		{"short password", "a@b.com", "short"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := NewService(newFakeUserRepo(), nil, nil, testAuthConfig(), nil)

			_, err := svc.Register(context.Background(), tt.email, tt.password, "x")
			var validationErr *models.ValidationError
			require.ErrorAs(t, err, &validationErr)
		})
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	svc := NewService(newFakeUserRepo(), nil, nil, testAuthConfig(), nil)

	_, err := svc.Register(context.Background(), "a@b.com", "longenough", "first")
	require.NoError(t, err)

	_, err = svc.Register(context.Background(), "A@B.com", "longenough", "second")
	var validationErr *models.ValidationError
	require.ErrorAs(t, err, &validationErr)
	assert.Equal(t, "email", validationErr.Field)
}

func TestLoginWrongPassword(t *testing.T) {
	svc := NewService(newFakeUserRepo(), nil, nil, testAuthConfig(), nil)

	_, err := svc.Register(context.Background(), "a@b.com", "longenough", "x")
	require.NoError(t, err)

	_, _, err = svc.Login(context.Background(), "a@b.com", "wrongpassword")
	var validationErr *models.ValidationError
	require.ErrorAs(t, err, &validationErr)
}

func TestLoginUnknownEmail(t *testing.T) {
	svc := NewService(newFakeUserRepo(), nil, nil, testAuthConfig(), nil)

	_, _, err := svc.Login(context.Background(), "nobody@b.com", "whatever")
	var validationErr *models.ValidationError
	require.ErrorAs(t, err, &validationErr)
}

func TestParseTokenRejectsTampering(t *testing.T) {
	svc := NewService(newFakeUserRepo(), nil, nil, testAuthConfig(), nil)

	_, err := svc.Register(context.Background(), "a@b.com", "longenough", "x")
	require.NoError(t, err)
	token, _, err := svc.Login(context.Background(), "a@b.com", "longenough")
	require.NoError(t, err)

	other := NewService(newFakeUserRepo(), nil, nil, config.AuthConfig{JWTSecret: "different", TokenTTL: time.Hour}, nil)
	_, err = other.ParseToken(token)
	require.Error(t, err)
}

func TestPasswordResetFlow(t *testing.T) {
	users := newFakeUserRepo()
	otp := newFakeOTPStore()
	sender := &fakeCodeSender{}
	svc := NewService(users, otp, sender, testAuthConfig(), nil)

	_, err := svc.Register(context.Background(), "a@b.com", "oldpassword", "x")
	require.NoError(t, err)

	require.NoError(t, svc.RequestPasswordReset(context.Background(), "a@b.com"))
	require.Equal(t, []string{"a@b.com"}, sender.sentTo)
	require.Len(t, sender.lastCode, 6)

	ticket, err := svc.VerifyPasswordResetCode(context.Background(), "a@b.com", sender.lastCode)
	require.NoError(t, err)
	require.NotEmpty(t, ticket)

	// The code is single use.
	_, err = svc.VerifyPasswordResetCode(context.Background(), "a@b.com", sender.lastCode)
	require.Error(t, err)

	require.NoError(t, svc.ResetPassword(context.Background(), "a@b.com", ticket, "newpassword"))

	_, _, err = svc.Login(context.Background(), "a@b.com", "oldpassword")
	require.Error(t, err)
	_, _, err = svc.Login(context.Background(), "a@b.com", "newpassword")
	require.NoError(t, err)

	// So is the ticket.
	err = svc.ResetPassword(context.Background(), "a@b.com", ticket, "anotherpassword")
	require.Error(t, err)
}

func TestResetPasswordRejectsShortPassword(t *testing.T) {
	svc := NewService(newFakeUserRepo(), newFakeOTPStore(), &fakeCodeSender{}, testAuthConfig(), nil)

	err := svc.ResetPassword(context.Background(), "a@b.com", "ticket", "short")
	var validationErr *models.ValidationError
	require.ErrorAs(t, err, &validationErr)
}

func TestRequestPasswordResetUnknownEmailSilent(t *testing.T) {
	sender := &fakeCodeSender{}
	svc := NewService(newFakeUserRepo(), newFakeOTPStore(), sender, testAuthConfig(), nil)

	require.NoError(t, svc.RequestPasswordReset(context.Background(), "nobody@b.com"))
	assert.Empty(t, sender.sentTo)
}

func TestPasswordResetUnconfigured(t *testing.T) {
	svc := NewService(newFakeUserRepo(), nil, nil, testAuthConfig(), nil)

	err := svc.RequestPasswordReset(context.Background(), "a@b.com")
	var depErr *models.DependencyError
	require.ErrorAs(t, err, &depErr)
}

func TestPasswordHashNeverPlaintext(t *testing.T) {
	users := newFakeUserRepo()
	svc := NewService(users, nil, nil, testAuthConfig(), nil)

	registered, err := svc.Register(context.Background(), "a@b.com", "longenough", "x")
	require.NoError(t, err)

	stored := users.users[registered.ID]
	require.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte("longenough")))
}
