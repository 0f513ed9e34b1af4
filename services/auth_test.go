package services

import (
	"context"
	"testing"
	"time"

	"screen-ai/apperr"
	"screen-ai/config"
	"screen-ai/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestRegisterAndLogin(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	u, err := f.svc.Auth.Register(ctx, RegisterInput{Email: " Ada@Example.com ", Password: "long-enough", FullName: "Ada"})
	require.NoError(t, err)
	assert.Equal(t, "ada@example.com", u.Email)
	assert.Equal(t, models.RoleScientist, u.Role)
	assert.True(t, u.IsActive)
	assert.NotEqual(t, "long-enough", u.HashedPassword)

	_, err = f.svc.Auth.Register(ctx, RegisterInput{Email: "ada@example.com", Password: "long-enough"})
	require.Error(t, err)
	assert.True(t, apperr.Is(err, apperr.KindConflict))
	assert.Equal(t, "Email already registered", err.Error())

	token, err := f.svc.Auth.Login(ctx, "ADA@example.com", "long-enough")
	require.NoError(t, err)
	got, err := f.svc.Auth.Authenticate(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)

	_, err = f.svc.Auth.Login(ctx, "ada@example.com", "wrong-password")
	assert.True(t, apperr.Is(err, apperr.KindUnauthorized))
	_, err = f.svc.Auth.Login(ctx, "nobody@example.com", "long-enough")
	require.Error(t, err)
	assert.Equal(t, "Incorrect email or password", err.Error())
}

func TestLoginComparesHashForUnknownEmail(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.user(t, "known@example.com")

	var compared [][]byte
	orig := compareHash
	compareHash = func(hash, password []byte) error {
		compared = append(compared, hash)
		return orig(hash, password)
	}
	t.Cleanup(func() { compareHash = orig })

	_, err := f.svc.Auth.Login(ctx, "nobody@example.com", "whatever-pass")
	assert.True(t, apperr.Is(err, apperr.KindUnauthorized))
	_, err = f.svc.Auth.Login(ctx, "known@example.com", "wrong-password")
	assert.True(t, apperr.Is(err, apperr.KindUnauthorized))

	require.Len(t, compared, 2)
	cost, err := bcrypt.Cost(compared[0])
	require.NoError(t, err)
	assert.Equal(t, bcrypt.DefaultCost, cost)

	// das Ersatz-Passwort selbst öffnet kein Konto
	_, err = f.svc.Auth.Login(ctx, "nobody@example.com", "screen-ai-unknown-user")
	assert.True(t, apperr.Is(err, apperr.KindUnauthorized))
}

func TestRegisterValidation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	cases := map[string]RegisterInput{
		"bad email":      {Email: "not-an-email", Password: "long-enough"},
		"short password": {Email: "a@example.com", Password: "short"},
		"admin role":     {Email: "a@example.com", Password: "long-enough", Role: models.RoleAdmin},
		"unknown role":   {Email: "a@example.com", Password: "long-enough", Role: "owner"},
	}
	for name, in := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := f.svc.Auth.Register(ctx, in)
			assert.True(t, apperr.Is(err, apperr.KindValidation), "%v", err)
		})
	}

	u, err := f.svc.Auth.Register(ctx, RegisterInput{Email: "v@example.com", Password: "long-enough", Role: models.RoleViewer})
	require.NoError(t, err)
	assert.Equal(t, models.RoleViewer, u.Role)
}

func TestInactiveUser(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	u, err := f.svc.Auth.Register(ctx, RegisterInput{Email: "gone@example.com", Password: "long-enough"})
	require.NoError(t, err)
	token, err := f.svc.Auth.Login(ctx, "gone@example.com", "long-enough")
	require.NoError(t, err)

	require.NoError(t, f.db.Model(&models.User{}).Where("id = ?", u.ID).Update("is_active", false).Error)

	_, err = f.svc.Auth.Login(ctx, "gone@example.com", "long-enough")
	assert.True(t, apperr.Is(err, apperr.KindForbidden))
	_, err = f.svc.Auth.Authenticate(ctx, token)
	require.Error(t, err)
	assert.True(t, apperr.Is(err, apperr.KindForbidden))
	assert.Equal(t, "Inactive user", err.Error())
}

func TestAuthenticateRejectsBadTokens(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	u := f.user(t, "ada@example.com")

	_, err := f.svc.Auth.Authenticate(ctx, "garbage")
	assert.True(t, apperr.Is(err, apperr.KindUnauthorized))

	foreign := NewTokenService("other-secret", "screen-ai-test", time.Hour)
	token, err := foreign.Issue(u.ID)
	require.NoError(t, err)
	_, err = f.svc.Auth.Authenticate(ctx, token)
	assert.True(t, apperr.Is(err, apperr.KindUnauthorized))

	token, err = f.svc.Tokens.Issue("00000000-0000-0000-0000-000000000000")
	require.NoError(t, err)
	_, err = f.svc.Auth.Authenticate(ctx, token)
	assert.True(t, apperr.Is(err, apperr.KindUnauthorized))
}

func TestTokenExpiry(t *testing.T) {
	tokens := NewTokenService("secret", "screen-ai", time.Hour)
	issued := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
	tokens.now = func() time.Time { return issued }

	token, err := tokens.Issue("user-1")
	require.NoError(t, err)

	tokens.now = func() time.Time { return issued.Add(59 * time.Minute) }
	sub, err := tokens.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", sub)

	tokens.now = func() time.Time { return issued.Add(61 * time.Minute) }
	_, err = tokens.Verify(token)
	assert.Error(t, err)

	other := NewTokenService("secret", "someone-else", time.Hour)
	other.now = tokens.now
	_, err = other.Verify(token)
	assert.Error(t, err)
}

func TestEnsureAdminIsIdempotent(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	cfg := &config.Config{AdminEmail: "Admin@Example.com", AdminPassword: "admin-pass", AdminFullName: "Admin User"}

	require.NoError(t, f.svc.Auth.EnsureAdmin(ctx, cfg))
	require.NoError(t, f.svc.Auth.EnsureAdmin(ctx, cfg))

	var admins []models.User
	require.NoError(t, f.db.Where("role = ?", models.RoleAdmin).Find(&admins).Error)
	require.Len(t, admins, 1)
	assert.Equal(t, "admin@example.com", admins[0].Email)

	_, err := f.svc.Auth.Login(ctx, "admin@example.com", "admin-pass")
	require.NoError(t, err)

	assert.Error(t, f.svc.Auth.EnsureAdmin(ctx, &config.Config{AdminEmail: "x@example.com"}))
}
