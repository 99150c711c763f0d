package services

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/SmriteePoudel/ProductivityApp-sub000/internal/domain/entities"
	"github.com/SmriteePoudel/ProductivityApp-sub000/internal/ports"
)

func TestNewAuthServiceRequiresSecret(t *testing.T) {
	cfg := testJWTConfig()
	cfg.Secret = ""

	_, err := NewAuthService(nil, cfg, false, nil)
	assert.ErrorIs(t, err, ErrMissingSecret)
}

func TestRegisterAndLogin(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	resp, err := f.auth.Register(ctx, ports.RegisterRequest{
		Name:     "Grace",
		Email:    "Grace@Example.com",
		Password: "hopper42",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.Token)
	assert.Equal(t, "grace@example.com", resp.User.Email)
	assert.Equal(t, entities.RoleUser, resp.User.Role)
	assert.True(t, resp.User.Permissions.CanAdd)
	assert.False(t, resp.User.Permissions.CanReset)
	assert.NotEqual(t, "hopper42", resp.User.Password)

	_, err = f.auth.Register(ctx, ports.RegisterRequest{Name: "Again", Email: "grace@example.com", Password: "another1"})
	assert.ErrorIs(t, err, entities.ErrDuplicateEmail)

	login, err := f.auth.Login(ctx, ports.LoginRequest{Email: "GRACE@example.com", Password: "hopper42"})
	require.NoError(t, err)
	assert.Equal(t, resp.User.ID, login.User.ID)

	_, err = f.auth.Login(ctx, ports.LoginRequest{Email: "grace@example.com", Password: "wrong"})
	assert.ErrorIs(t, err, entities.ErrInvalidCredentials)

	_, err = f.auth.Login(ctx, ports.LoginRequest{Email: "nobody@example.com", Password: "hopper42"})
	assert.ErrorIs(t, err, entities.ErrInvalidCredentials)
}

func TestRegisterValidatesInput(t *testing.T) {
	f := newFixture(t)

	_, err := f.auth.Register(context.Background(), ports.RegisterRequest{Name: "Short", Email: "short@example.com", Password: "123"})
	assert.ErrorIs(t, err, entities.ErrValidation)

	_, err = f.auth.Register(context.Background(), ports.RegisterRequest{Name: "Bad", Email: "not-an-email", Password: "123456"})
	assert.ErrorIs(t, err, entities.ErrValidation)
}

func TestVerifyToken(t *testing.T) {
	f := newFixture(t)
	user := &entities.User{ID: "u1", Email: "ada@example.com", Role: entities.RoleAdmin, Name: "Ada"}

	issued := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	f.auth.now = fixedClock(issued)

	token, err := f.auth.GenerateToken(user)
	require.NoError(t, err)

	claims := f.auth.VerifyToken(token)
	require.NotNil(t, claims)
	assert.Equal(t, "u1", claims.UserID)
	assert.Equal(t, "ada@example.com", claims.Email)
	assert.Equal(t, entities.RoleAdmin, claims.Role)
	assert.Equal(t, "Ada", claims.Name)

	t.Run("expires after seven days", func(t *testing.T) {
		f.auth.now = fixedClock(issued.Add(7*24*time.Hour - time.Minute))
		assert.NotNil(t, f.auth.VerifyToken(token))

		f.auth.now = fixedClock(issued.Add(7*24*time.Hour + time.Second))
		assert.Nil(t, f.auth.VerifyToken(token))
		f.auth.now = fixedClock(issued)
	})

	t.Run("rejects malformed and foreign tokens", func(t *testing.T) {
		assert.Nil(t, f.auth.VerifyToken(""))
		assert.Nil(t, f.auth.VerifyToken("not.a.token"))
		assert.Nil(t, f.auth.VerifyToken(token+"x"))

		cfg := testJWTConfig()
		cfg.Secret = "someone-else"
		other, err := NewAuthService(nil, cfg, false, nil)
		require.NoError(t, err)
		other.now = fixedClock(issued)
		foreign, err := other.GenerateToken(user)
		require.NoError(t, err)
		assert.Nil(t, f.auth.VerifyToken(foreign))
	})

	t.Run("rejects other signing methods", func(t *testing.T) {
		claims := &Claims{
			UserID: "u1",
			RegisteredClaims: jwt.RegisteredClaims{
				ExpiresAt: jwt.NewNumericDate(issued.Add(time.Hour)),
			},
		}
		unsigned, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
		require.NoError(t, err)
		assert.Nil(t, f.auth.VerifyToken(unsigned))

		hs512, err := jwt.NewWithClaims(jwt.SigningMethodHS512, claims).SignedString([]byte(testSecret))
		require.NoError(t, err)
		assert.Nil(t, f.auth.VerifyToken(hs512))
	})
}

func TestPasswordHashing(t *testing.T) {
	f := newFixture(t)

	hash, err := f.auth.HashPassword("s3cret!")
	require.NoError(t, err)
	assert.True(t, f.auth.ComparePassword(hash, "s3cret!"))
	assert.False(t, f.auth.ComparePassword(hash, "s3cret"))
	assert.False(t, f.auth.ComparePassword("not-a-bcrypt-hash", "s3cret!"))

	t.Run("default cost is 12", func(t *testing.T) {
		cfg := testJWTConfig()
		cfg.BcryptCost = 0
		auth, err := NewAuthService(nil, cfg, false, nil)
		require.NoError(t, err)

		hash, err := auth.HashPassword("s3cret!")
		require.NoError(t, err)
		cost, err := bcrypt.Cost([]byte(hash))
		require.NoError(t, err)
		assert.Equal(t, 12, cost)
	})
}

func TestSessionCookie(t *testing.T) {
	f := newFixture(t)

	cookie := f.auth.SessionCookie("abc")
	assert.Equal(t, "token", cookie.Name)
	assert.Equal(t, "abc", cookie.Value)
	assert.True(t, cookie.HttpOnly)
	assert.False(t, cookie.Secure)
	assert.Equal(t, http.SameSiteStrictMode, cookie.SameSite)
	assert.Equal(t, 7*24*60*60, cookie.MaxAge)

	cleared := f.auth.ClearSessionCookie()
	assert.Equal(t, "token", cleared.Name)
	assert.Empty(t, cleared.Value)
	assert.Negative(t, cleared.MaxAge)

	prod, err := NewAuthService(nil, testJWTConfig(), true, nil)
	require.NoError(t, err)
	assert.True(t, prod.SessionCookie("abc").Secure)
	assert.True(t, prod.ClearSessionCookie().Secure)
}
