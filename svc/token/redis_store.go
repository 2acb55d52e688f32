package token

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	fieldClientID = "clientId"
	fieldUserID   = "userId"
)

// RedisStore keeps each token in a hash that Redis expires on its own.
type RedisStore struct {
	client redis.UniversalClient
	prefix string
	now    func() time.Time
}

type RedisOption func(*RedisStore)

// WithRedisKeyPrefix namespaces every key.
func WithRedisKeyPrefix(prefix string) RedisOption {
	return func(s *RedisStore) { s.prefix = prefix }
}

// WithRedisClock replaces time.Now when rebuilding expiries.
func WithRedisClock(now func() time.Time) RedisOption {
	return func(s *RedisStore) {
		if now != nil {
			s.now = now
		}
	}
}

func NewRedisStore(client redis.UniversalClient, opts ...RedisOption) *RedisStore {
	s := &RedisStore{client: client, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *RedisStore) tokenKey(token string) string {
	return s.prefix + "accessToken:" + token
}

func (s *RedisStore) userKey(userID string) string {
	return s.prefix + "userTokens:" + userID
}

func (s *RedisStore) StoreAccessToken(ctx context.Context, token, clientID string, expires time.Time, userID string) error {
	if err := validateInput(token, clientID); err != nil {
		return err
	}

	key := s.tokenKey(token)
	userKey := s.userKey(userID)
	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, key)
		pipe.HSet(ctx, key, fieldClientID, clientID, fieldUserID, userID)
		pipe.PExpireAt(ctx, key, expires)
		pipe.SAdd(ctx, userKey, token)
		// The index lives as long as its longest-lived token: NX arms a new set,
		// GT only ever extends an existing one.
		at := expires.UnixMilli()
		pipe.Do(ctx, "pexpireat", userKey, at, "NX")
		pipe.Do(ctx, "pexpireat", userKey, at, "GT")
		return nil
	})
	return err
}

func (s *RedisStore) GetAccessToken(ctx context.Context, token string) (*AccessToken, error) {
	key := s.tokenKey(token)

	var (
		fields *redis.MapStringStringCmd
		pttl   *redis.DurationCmd
	)
	_, err := s.client.Pipelined(ctx, func(pipe redis.Pipeliner) error {
		fields = pipe.HGetAll(ctx, key)
		pttl = pipe.PTTL(ctx, key)
		return nil
	})
	if err != nil {
		return nil, err
	}

	data := fields.Val()
	ttl := pttl.Val()
	if len(data) == 0 || ttl <= 0 {
		return nil, ErrNotFound
	}

	return &AccessToken{
		Token:    token,
		ClientID: data[fieldClientID],
		UserID:   data[fieldUserID],
		Expires:  s.now().Add(ttl),
	}, nil
}

func (s *RedisStore) RevokeToken(ctx context.Context, token string) (int64, error) {
	key := s.tokenKey(token)

	userID, err := s.client.HGet(ctx, key, fieldUserID).Result()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}

	var del *redis.IntCmd
	_, err = s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		del = pipe.Del(ctx, key)
		pipe.SRem(ctx, s.userKey(userID), token)
		return nil
	})
	if err != nil {
		return 0, err
	}
	return del.Val(), nil
}

func (s *RedisStore) ClearAccessTokensForUser(ctx context.Context, userID string) (int64, error) {
	userKey := s.userKey(userID)

	tokens, err := s.client.SMembers(ctx, userKey).Result()
	if err != nil {
		return 0, err
	}

	keys := make([]string, 0, len(tokens))
	for _, tok := range tokens {
		keys = append(keys, s.tokenKey(tok))
	}

	var del *redis.IntCmd
	_, err = s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		if len(keys) > 0 {
			del = pipe.Del(ctx, keys...)
		}
		pipe.Del(ctx, userKey)
		return nil
	})
	if err != nil {
		return 0, err
	}
	if del == nil {
		return 0, nil
	}
	return del.Val(), nil
}

func (s *RedisStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}
