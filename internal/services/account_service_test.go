package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yukikurage/dropoff-point-api/internal/models"
	"github.com/yukikurage/dropoff-point-api/internal/repository"
	dbtest "github.com/yukikurage/dropoff-point-api/internal/testutil"
	"github.com/yukikurage/dropoff-point-api/internal/utils"
)

func setupAccountService(t *testing.T) (*AccountService, *repository.Store) {
	t.Helper()

	store := repository.NewStore(dbtest.NewDB(t))
	return NewAccountService(store), store
}

func TestAccountService_Signup(t *testing.T) {
	service, _ := setupAccountService(t)
	ctx := context.Background()

	name := "Food Bank"
	account, err := service.Signup(ctx, SignupInput{
		Email:          " Org@Example.com",
		FullName:       &name,
		IsOrganization: true,
	})
	require.NoError(t, err)
	assert.Equal(t, "org@example.com", account.Email)
	assert.True(t, account.IsActive)
	assert.True(t, account.IsOrganization)
	assert.False(t, account.IsSuperuser)

	_, err = service.Signup(ctx, SignupInput{Email: "org@example.com"})
	require.ErrorIs(t, err, ErrEmailTaken)

	_, err = service.Signup(ctx, SignupInput{Email: "not-an-email"})
	require.ErrorIs(t, err, ErrInvalidEmail)
}

func TestAccountService_Update(t *testing.T) {
	service, _ := setupAccountService(t)
	ctx := context.Background()

	first, err := service.Signup(ctx, SignupInput{Email: "first@example.com"})
	require.NoError(t, err)
	_, err = service.Signup(ctx, SignupInput{Email: "second@example.com"})
	require.NoError(t, err)

	name := "First"
	isOrg := true
	updated, err := service.Update(ctx, first, UpdateAccountInput{FullName: &name, IsOrganization: &isOrg})
	require.NoError(t, err)
	require.NotNil(t, updated.FullName)
	assert.Equal(t, "First", *updated.FullName)
	assert.True(t, updated.IsOrganization)
	assert.Equal(t, "first@example.com", updated.Email)

	taken := "second@example.com"
	_, err = service.Update(ctx, updated, UpdateAccountInput{Email: &taken})
	require.ErrorIs(t, err, ErrEmailTaken)

	same := "FIRST@example.com"
	_, err = service.Update(ctx, updated, UpdateAccountInput{Email: &same})
	require.NoError(t, err)

	reloaded, err := service.Get(ctx, first.ID)
	require.NoError(t, err)
	assert.True(t, reloaded.IsOrganization)
	assert.Equal(t, first.CreatedAt.Unix(), reloaded.CreatedAt.Unix())
}

func TestAccountService_Delete(t *testing.T) {
	service, store := setupAccountService(t)
	ctx := context.Background()

	admin := &models.Account{Email: "admin@example.com", IsActive: true, IsSuperuser: true}
	require.NoError(t, store.Accounts.Create(ctx, admin))
	user, err := service.Signup(ctx, SignupInput{Email: "user@example.com"})
	require.NoError(t, err)
	other, err := service.Signup(ctx, SignupInput{Email: "other@example.com"})
	require.NoError(t, err)

	require.ErrorIs(t, service.Delete(ctx, admin, admin.ID), ErrCannotDeleteSelf)
	require.ErrorIs(t, service.Delete(ctx, user, other.ID), ErrPermissionDenied)

	require.NoError(t, service.Delete(ctx, admin, other.ID))
	require.ErrorIs(t, service.Delete(ctx, admin, other.ID), ErrAccountNotFound)

	require.NoError(t, service.Delete(ctx, user, user.ID))
	_, err = service.Get(ctx, user.ID)
	require.ErrorIs(t, err, ErrAccountNotFound)

	accounts, total, err := service.List(ctx, utils.DefaultPagination())
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, accounts, 1)
	assert.Equal(t, admin.ID, accounts[0].ID)
}

func TestAccountService_UpdateDeletedAccount(t *testing.T) {
	service, _ := setupAccountService(t)
	ctx := context.Background()

	account, err := service.Signup(ctx, SignupInput{Email: "gone@example.com"})
	require.NoError(t, err)
	require.NoError(t, service.Delete(ctx, account, account.ID))

	name := "Still here"
	_, err = service.Update(ctx, account, UpdateAccountInput{FullName: &name})
	require.ErrorIs(t, err, ErrAccountNotFound)

	_, err = service.Get(ctx, account.ID)
	require.ErrorIs(t, err, ErrAccountNotFound)
}
