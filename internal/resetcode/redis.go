package resetcode

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	redisKeyPrefix = "password_reset:"

	// Ключ живет дольше кода, чтобы истечение отдавалось как ErrChallengeExpired, а не NotFound
	defaultRetention = 10 * time.Minute

	maxWatchRetries = 5
)

// RedisStore - реестр в Redis, общий для нескольких инстансов.
// Проверка и удаление ключа выполняются в WATCH/MULTI транзакции.
type RedisStore struct {
	client    *redis.Client
	ttl       time.Duration
	retention time.Duration
	opts      options
}

func NewRedisStore(client *redis.Client, ttl time.Duration, opts ...Option) *RedisStore {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &RedisStore{
		client:    client,
		ttl:       ttl,
		retention: defaultRetention,
		opts:      buildOptions(opts),
	}
}

func redisKey(email string) string {
	return redisKeyPrefix + email
}

func (s *RedisStore) Issue(ctx context.Context, email string, userID uint) (string, error) {
	code, err := s.opts.generate()
	if err != nil {
		return "", err
	}

	data, err := json.Marshal(Challenge{
		Code:      code,
		UserID:    userID,
		ExpiresAt: s.opts.now().Add(s.ttl),
	})
	if err != nil {
		return "", err
	}

	if err := s.client.Set(ctx, redisKey(email), data, s.ttl+s.retention).Err(); err != nil {
		return "", fmt.Errorf("store reset challenge: %w", err)
	}
	return code, nil
}

func (s *RedisStore) Verify(ctx context.Context, email, code string) error {
	_, err := s.withChallenge(ctx, email, code, false)
	return err
}

func (s *RedisStore) Consume(ctx context.Context, email, code string) (uint, error) {
	return s.withChallenge(ctx, email, code, true)
}

// withChallenge читает и проверяет запрос под WATCH.
// Истекший запрос удаляется всегда, валидный только при consume.
func (s *RedisStore) withChallenge(ctx context.Context, email, code string, consume bool) (uint, error) {
	key := redisKey(email)
	var userID uint

	txf := func(tx *redis.Tx) error {
		raw, err := tx.Get(ctx, key).Bytes()
		if errors.Is(err, redis.Nil) {
			return ErrChallengeNotFound
		}
		if err != nil {
			return err
		}

		var ch Challenge
		if err := json.Unmarshal(raw, &ch); err != nil {
			return fmt.Errorf("decode reset challenge: %w", err)
		}

		checkErr := ch.check(code, s.opts.now())
		switch {
		case errors.Is(checkErr, ErrChallengeExpired):
		case checkErr != nil:
			return checkErr
		case !consume:
			return nil
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Del(ctx, key)
			return nil
		})
		if err != nil {
			return err
		}
		if checkErr != nil {
			return checkErr
		}
		userID = ch.UserID
		return nil
	}

	for i := 0; i < maxWatchRetries; i++ {
		err := s.client.Watch(ctx, txf, key)
		if errors.Is(err, redis.TxFailedErr) {
			// ключ изменился между GET и EXEC, перечитываем
			continue
		}
		return userID, err
	}
	return 0, fmt.Errorf("reset challenge for %s: too many concurrent updates", email)
}
