package repositories

import (
	"context"
	"testing"

	"userapi/internal/models"
	"userapi/testhelpers"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Runs against a real postgres when TEST_DATABASE_URL is set.
func TestUserRepo_Postgres(t *testing.T) {
	db := testhelpers.SetupTestDB(t)
	defer func() {
		assert.NoError(t, db.Cleanup())
	}()

	ctx := context.Background()
	repo := NewUserRepo(db.Pool)

	_, err := db.Pool.Exec(ctx, `DROP TABLE IF EXISTS users`)
	require.NoError(t, err)
	require.NoError(t, repo.EnsureSchema(ctx))
	require.NoError(t, repo.EnsureSchema(ctx), "schema creation must be idempotent")

	alice, err := repo.Create(ctx, models.UserArgs{Email: testhelpers.StringPtr("a@x.com")})
	require.NoError(t, err)
	assert.Equal(t, mustUUID(t, models.UserArgs{Email: testhelpers.StringPtr("a@x.com")}), alice.UUID)
	assert.Equal(t, "a@x.com", *alice.Username)
	assert.False(t, alice.Created.IsZero())
	assert.Nil(t, alice.LastSeen)

	fetched, err := repo.GetByUUID(ctx, alice.UUID)
	require.NoError(t, err)
	assert.Equal(t, alice, fetched)

	_, err = repo.Create(ctx, models.UserArgs{Email: testhelpers.StringPtr("a@x.com")})
	var conflict *ConflictError
	require.ErrorAs(t, err, &conflict)
	assert.Equal(t, "email", conflict.Field)

	bob, err := repo.Create(ctx, models.UserArgs{SMS: testhelpers.StringPtr("5551234"), Name: testhelpers.StringPtr("Bob")})
	require.NoError(t, err)

	first, err := repo.List(ctx)
	require.NoError(t, err)
	second, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Len(t, first, 2)
	assert.Equal(t, first, second)

	renamed, err := repo.Update(ctx, alice.UUID, models.UserArgs{Name: testhelpers.StringPtr("Alice")})
	require.NoError(t, err)
	assert.Equal(t, "Alice", *renamed.Name)
	assert.Equal(t, alice.UUID, renamed.UUID)
	assert.Equal(t, *alice.Email, *renamed.Email)

	_, err = repo.Update(ctx, alice.UUID, models.UserArgs{SMS: testhelpers.StringPtr("5551234")})
	require.ErrorAs(t, err, &conflict)
	assert.Equal(t, "sms", conflict.Field)

	unchanged, err := repo.GetByUUID(ctx, alice.UUID)
	require.NoError(t, err)
	assert.Nil(t, unchanged.SMS)
	assert.Equal(t, "Alice", *unchanged.Name)

	before, after, err := repo.Delete(ctx, bob.UUID)
	require.NoError(t, err)
	assert.NotNil(t, before)
	assert.Nil(t, after)

	gone, err := repo.GetByUUID(ctx, bob.UUID)
	require.NoError(t, err)
	assert.Nil(t, gone)

	before, after, err = repo.Delete(ctx, bob.UUID)
	require.NoError(t, err)
	assert.Nil(t, before)
	assert.Nil(t, after)
}
