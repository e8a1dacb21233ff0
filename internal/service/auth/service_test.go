package auth

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/mamadbah2/loftkeeper/internal/config"
	"github.com/mamadbah2/loftkeeper/internal/domain/apperr"
	"github.com/mamadbah2/loftkeeper/internal/repository/sqlstore"
	"github.com/mamadbah2/loftkeeper/internal/repository/sqlstore/sqlstoretest"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func newTestService(t *testing.T) *Service {
	db := sqlstoretest.New(t).DB()
	svc := NewService(sqlstore.NewUserRepository(db), config.AuthConfig{JWTSecret: testSecret, TokenTTL: time.Hour}, nil)
	svc.cost = bcrypt.MinCost
	return svc
}

func TestService_RegisterAndLogin(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	session, err := svc.Register(ctx, RegisterInput{
		Email: "Keeper@Example.com", Password: "pigeons-fly", FirstName: "Ada", LastName: "Loft",
	})
	require.NoError(t, err)
	assert.Equal(t, "keeper@example.com", session.User.Email)
	assert.NotEmpty(t, session.AccessToken)
	assert.NotEqual(t, "pigeons-fly", session.User.PasswordHash)

	_, err = svc.Register(ctx, RegisterInput{
		Email: "keeper@example.com", Password: "another-pass", FirstName: "B", LastName: "C",
	})
	assert.ErrorIs(t, err, apperr.ErrConflict)

	login, err := svc.Login(ctx, LoginInput{Email: "keeper@example.com", Password: "pigeons-fly"})
	require.NoError(t, err)
	assert.Equal(t, session.User.ID, login.User.ID)

	_, err = svc.Login(ctx, LoginInput{Email: "keeper@example.com", Password: "wrong-password"})
	assert.ErrorIs(t, err, apperr.ErrUnauthorized)
	_, err = svc.Login(ctx, LoginInput{Email: "nobody@example.com", Password: "pigeons-fly"})
	assert.ErrorIs(t, err, apperr.ErrUnauthorized)

	claims, err := svc.ParseToken(login.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, login.User.ID, claims.Subject)
	assert.Equal(t, "keeper@example.com", claims.Email)

	profile, err := svc.Profile(ctx, claims.Subject)
	require.NoError(t, err)
	assert.Equal(t, "Ada", profile.FirstName)
}

func TestService_ParseTokenRejects(t *testing.T) {
	svc := newTestService(t)
	session, err := svc.Register(context.Background(), RegisterInput{
		Email: "keeper@example.com", Password: "pigeons-fly", FirstName: "Ada", LastName: "Loft",
	})
	require.NoError(t, err)

	_, err = svc.ParseToken("not-a-jwt")
	assert.ErrorIs(t, err, apperr.ErrUnauthorized)

	other := NewService(nil, config.AuthConfig{JWTSecret: "ffffffffffffffffffffffffffffffff", TokenTTL: time.Hour}, nil)
	_, err = other.ParseToken(session.AccessToken)
	assert.ErrorIs(t, err, apperr.ErrUnauthorized)

	svc.now = func() time.Time { return time.Now().Add(2 * time.Hour) }
	_, err = svc.ParseToken(session.AccessToken)
	require.ErrorIs(t, err, apperr.ErrUnauthorized)
	assert.Contains(t, err.Error(), "expired")
}
