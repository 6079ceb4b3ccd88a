package redis

import (
	"context"
	"testing"
	"time"

	"caseAssist/domain"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRepo(t *testing.T) (*TokenRepository, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewTokenRepository(client), mr
}

func TestStoreAndValidateToken(t *testing.T) {
	repo, mr := newRepo(t)
	ctx := context.Background()

	data := domain.TokenData{UserID: "7", Role: "admin", Token: "tok-1"}
	require.NoError(t, repo.StoreToken(ctx, "7", "tok-1", data, time.Hour))

	userID, err := repo.ValidateToken(ctx, "tok-1")
	require.NoError(t, err)
	assert.Equal(t, "7", userID)

	got, err := repo.GetTokenData(ctx, "7")
	require.NoError(t, err)
	assert.Equal(t, "admin", got.Role)
	assert.Equal(t, "tok-1", got.Token)

	assert.Equal(t, time.Hour, mr.TTL("token:lookup:tok-1"))
	assert.Equal(t, time.Hour, mr.TTL("token:user:7"))
}

func TestValidateToken_Expired(t *testing.T) {
	repo, mr := newRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.StoreToken(ctx, "7", "tok-1", domain.TokenData{Token: "tok-1"}, time.Minute))
	mr.FastForward(2 * time.Minute)

	_, err := repo.ValidateToken(ctx, "tok-1")
	assert.ErrorIs(t, err, ErrTokenNotFound)

	_, err = repo.GetTokenData(ctx, "7")
	assert.ErrorIs(t, err, ErrTokenNotFound)
}

func TestDeleteToken(t *testing.T) {
	repo, mr := newRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.StoreToken(ctx, "7", "tok-1", domain.TokenData{Token: "tok-1"}, time.Hour))
	require.NoError(t, repo.DeleteToken(ctx, "7", "tok-1"))

	assert.False(t, mr.Exists("token:lookup:tok-1"))
	assert.False(t, mr.Exists("token:user:7"))
}

func TestDeleteToken_KeepsNewerSession(t *testing.T) {
	repo, mr := newRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.StoreToken(ctx, "7", "old", domain.TokenData{Token: "old"}, time.Hour))
	require.NoError(t, repo.StoreToken(ctx, "7", "new", domain.TokenData{Token: "new"}, time.Hour))

	require.NoError(t, repo.DeleteToken(ctx, "7", "old"))

	assert.False(t, mr.Exists("token:lookup:old"))
	assert.True(t, mr.Exists("token:lookup:new"))
	assert.True(t, mr.Exists("token:user:7"))
}

func TestDeleteToken_Missing(t *testing.T) {
	repo, _ := newRepo(t)
	assert.NoError(t, repo.DeleteToken(context.Background(), "9", "nope"))
}
