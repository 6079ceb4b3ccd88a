package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"caseAssist/domain"

	"github.com/redis/go-redis/v9"
)

var ErrTokenNotFound = errors.New("token not found")

type TokenRepository struct {
	client *redis.Client
}

func NewTokenRepository(client *redis.Client) *TokenRepository {
	return &TokenRepository{
		client: client,
	}
}

func userKey(userID string) string {
	return fmt.Sprintf("token:user:%s", userID)
}

func lookupKey(token string) string {
	return fmt.Sprintf("token:lookup:%s", token)
}

// StoreToken keeps the session under the user key and a token -> user id
// reverse lookup, both expiring after ttl.
func (r *TokenRepository) StoreToken(ctx context.Context, userID, token string, data domain.TokenData, ttl time.Duration) error {
	jsonData, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("failed to marshal token data: %w", err)
	}

	_, err = r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, userKey(userID), jsonData, ttl)
		pipe.Set(ctx, lookupKey(token), userID, ttl)
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to store token in redis: %w", err)
	}

	return nil
}

// GetTokenData retrieve token data by user ID
func (r *TokenRepository) GetTokenData(ctx context.Context, userID string) (*domain.TokenData, error) {
	val, err := r.client.Get(ctx, userKey(userID)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrTokenNotFound
		}
		return nil, fmt.Errorf("failed to get token from redis: %w", err)
	}

	var tokenData domain.TokenData
	if err := json.Unmarshal([]byte(val), &tokenData); err != nil {
		return nil, fmt.Errorf("failed to unmarshal token data: %w", err)
	}

	return &tokenData, nil
}

// ValidateToken checks if a token exists and is valid
func (r *TokenRepository) ValidateToken(ctx context.Context, token string) (string, error) {
	userID, err := r.client.Get(ctx, lookupKey(token)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", ErrTokenNotFound
		}
		return "", fmt.Errorf("failed to validate token: %w", err)
	}

	return userID, nil
}

// DeleteToken removes the lookup for token. The user session is only dropped
// when it still belongs to that token, so an older token cannot end a newer
// login.
func (r *TokenRepository) DeleteToken(ctx context.Context, userID, token string) error {
	keys := []string{lookupKey(token)}

	data, err := r.GetTokenData(ctx, userID)
	switch {
	case err == nil && data.Token == token:
		keys = append(keys, userKey(userID))
	case err != nil && !errors.Is(err, ErrTokenNotFound):
		return err
	}

	if err := r.client.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("failed to delete token: %w", err)
	}
	return nil
}
