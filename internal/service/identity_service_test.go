package service

import (
	"context"
	"testing"

	"github.com/derintolu/frs-partner-network/internal/model"
	"github.com/derintolu/frs-partner-network/internal/repository/mysql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveProvisionsNewAccount(t *testing.T) {
	ts := newTestServices(t)
	ctx := context.Background()

	id, created, err := ts.identity.Resolve(ctx, "jane@example.com", "Jane", "Doe")
	require.NoError(t, err)
	assert.True(t, created, "first resolve should provision")
	assert.NotZero(t, id)

	repo := &mysql.UserRepository{DB: ts.db}
	user, err := repo.FindByID(id)
	require.NoError(t, err)
	assert.Equal(t, "jane@example.com", user.Email)
	assert.Equal(t, "Jane", user.FirstName)
	assert.Equal(t, "Doe", user.LastName)
	assert.NotEmpty(t, user.Password, "provisioned account gets a throwaway password hash")
}

func TestResolveIsIdempotentByEmail(t *testing.T) {
	ts := newTestServices(t)
	ctx := context.Background()

	first, created, err := ts.identity.Resolve(ctx, "sam@example.com", "Sam", "Smith")
	require.NoError(t, err)
	require.True(t, created)

	second, created, err := ts.identity.Resolve(ctx, "sam@example.com", "Other", "Name")
	require.NoError(t, err)
	assert.False(t, created, "second resolve must reuse the account")
	assert.Equal(t, first, second)
}

func TestResolveEmailIsCaseInsensitive(t *testing.T) {
	ts := newTestServices(t)
	ctx := context.Background()

	first, _, err := ts.identity.Resolve(ctx, "Mixed@Example.com", "Mixed", "Case")
	require.NoError(t, err)

	second, created, err := ts.identity.Resolve(ctx, "mixed@example.com", "Mixed", "Case")
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, first, second)
}

func TestResolveUsernameCollisionPicksSuffix(t *testing.T) {
	ts := newTestServices(t)
	ctx := context.Background()

	// Same local part, different domain: username "pat" is already taken.
	first, _, err := ts.identity.Resolve(ctx, "pat@one.com", "Pat", "One")
	require.NoError(t, err)

	second, created, err := ts.identity.Resolve(ctx, "pat@two.com", "Pat", "Two")
	require.NoError(t, err)
	assert.True(t, created)
	assert.NotEqual(t, first, second, "different emails must get different accounts")

	repo := &mysql.UserRepository{DB: ts.db}
	var users []model.User
	require.NoError(t, ts.db.Find(&users).Error)
	assert.Len(t, users, 2)
	u2, err := repo.FindByID(second)
	require.NoError(t, err)
	assert.NotEqual(t, "pat", u2.Username)
}
