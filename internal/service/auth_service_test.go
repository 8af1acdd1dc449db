package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/goodhive/onboarding-service/internal/config"
	"github.com/goodhive/onboarding-service/internal/domain"
	apperrors "github.com/goodhive/onboarding-service/pkg/util/errorutil"
)

func newAuthFixture() (*AuthService, *fakeAdmins) {
	admins := &fakeAdmins{byEmail: map[string]*domain.Admin{}}
	cfg := config.AuthConfig{JWTSecret: "test-secret", AccessTokenTTLMinutes: 5, BcryptCost: 4}
	return NewAuthService(cfg, admins, nil), admins
}

func TestAuthService_LoginAdmin(t *testing.T) {
	svc, _ := newAuthFixture()
	created, err := svc.EnsureAdmin(context.Background(), "Ops", "Ops@GoodHive.io", "s3cret")
	require.NoError(t, err)

	admin, token, exp, err := svc.LoginAdmin(context.Background(), "ops@goodhive.io", "s3cret")
	require.NoError(t, err)
	assert.Equal(t, created.ID, admin.ID)
	assert.NotEmpty(t, token)
	assert.False(t, exp.IsZero())

	claims, err := svc.TokenManager().ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, domain.SubjectTypeAdmin, claims.Subject)
	assert.Equal(t, admin.ID, claims.SubjectID)
}

func TestAuthService_LoginAdminRejectsBadCredentials(t *testing.T) {
	svc, _ := newAuthFixture()
	_, err := svc.EnsureAdmin(context.Background(), "Ops", "ops@goodhive.io", "s3cret")
	require.NoError(t, err)

	_, _, _, err = svc.LoginAdmin(context.Background(), "ops@goodhive.io", "wrong")
	assert.True(t, errors.Is(err, apperrors.ErrUnauthorized))

	_, _, _, err = svc.LoginAdmin(context.Background(), "nobody@goodhive.io", "s3cret")
	assert.True(t, errors.Is(err, apperrors.ErrUnauthorized))

	_, _, _, err = svc.LoginAdmin(context.Background(), "", "")
	assert.True(t, errors.Is(err, apperrors.ErrValidation))
}

func TestAuthService_EnsureAdminIsIdempotent(t *testing.T) {
	svc, admins := newAuthFixture()
	first, err := svc.EnsureAdmin(context.Background(), "Ops", "ops@goodhive.io", "s3cret")
	require.NoError(t, err)
	second, err := svc.EnsureAdmin(context.Background(), "Ops", "ops@goodhive.io", "other")
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
	assert.Len(t, admins.byEmail, 1)
}
