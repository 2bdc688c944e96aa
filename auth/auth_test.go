package auth_test

import (
	"context"
	"testing"

	"paper-trader/apperror"
	"paper-trader/auth"
	"paper-trader/models"
	"paper-trader/testutils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func newService(t *testing.T) *auth.Service {
	t.Helper()
	return auth.NewService(testutils.NewDB(t), bcrypt.MinCost, models.StartingCash)
}

func TestRegister(t *testing.T) {
	svc := newService(t)

	u, err := svc.Register(context.Background(), " alice ", "pw", "pw")
	require.NoError(t, err)
	assert.NotZero(t, u.ID)
	assert.Equal(t, "alice", u.Username)
	assert.Equal(t, models.StartingCash, u.Cash)
	assert.NotEqual(t, "pw", u.Hash)
}

func TestRegister_Validation(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, "", "pw", "pw")
	assert.ErrorIs(t, err, apperror.ErrMissingField)

	_, err = svc.Register(ctx, "alice", "", "")
	assert.ErrorIs(t, err, apperror.ErrMissingField)

	_, err = svc.Register(ctx, "alice", "pw", "wp")
	assert.ErrorIs(t, err, apperror.ErrPasswordMismatch)
}

func TestRegister_DuplicateUsername(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()

	first, err := svc.Register(ctx, "alice", "first", "first")
	require.NoError(t, err)

	_, err = svc.Register(ctx, "alice", "second", "second")
	assert.ErrorIs(t, err, apperror.ErrUsernameTaken)

	// the first account still logs in with its own password
	u, err := svc.Login(ctx, "alice", "first")
	require.NoError(t, err)
	assert.Equal(t, first.ID, u.ID)
	assert.Equal(t, models.StartingCash, u.Cash)
}

func TestLogin(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()
	_, err := svc.Register(ctx, "alice", "secret", "secret")
	require.NoError(t, err)

	u, err := svc.Login(ctx, "alice", "secret")
	require.NoError(t, err)
	assert.Equal(t, "alice", u.Username)

	_, err = svc.Login(ctx, "alice", "wrong")
	assert.ErrorIs(t, err, apperror.ErrInvalidCredentials)

	_, err = svc.Login(ctx, "nobody", "secret")
	assert.ErrorIs(t, err, apperror.ErrInvalidCredentials)

	_, err = svc.Login(ctx, "alice", "")
	assert.ErrorIs(t, err, apperror.ErrMissingField)
}
