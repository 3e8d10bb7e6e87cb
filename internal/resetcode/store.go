// Package resetcode хранит коды сброса пароля: один активный код на email,
// проверка без расходования и одноразовое погашение.
package resetcode

import (
	"context"
	"crypto/rand"
	"errors"
	"math/big"
	"strconv"
	"time"
)

// DefaultTTL - окно действия кода
const DefaultTTL = 5 * time.Minute

var (
	ErrChallengeNotFound = errors.New("reset challenge not found")
	ErrChallengeExpired  = errors.New("reset challenge expired")
	ErrCodeMismatch      = errors.New("reset code mismatch")
)

// Store - реестр кодов сброса. Реализации взаимозаменяемы.
type Store interface {
	// Issue создает новый код для email, заменяя предыдущий
	Issue(ctx context.Context, email string, userID uint) (string, error)
	// Verify проверяет код, не расходуя его
	Verify(ctx context.Context, email, code string) error
	// Consume проверяет и удаляет код, возвращает ID пользователя
	Consume(ctx context.Context, email, code string) (uint, error)
}

// Challenge - ожидающий запрос на сброс
type Challenge struct {
	Code      string    `json:"code"`
	UserID    uint      `json:"userId"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// check сравнивает код. Истекший запрос всегда ErrChallengeExpired,
// даже если код неверный.
func (ch Challenge) check(code string, now time.Time) error {
	if now.After(ch.ExpiresAt) {
		return ErrChallengeExpired
	}
	if ch.Code != code {
		return ErrCodeMismatch
	}
	return nil
}

type options struct {
	now      func() time.Time
	generate func() (string, error)
}

type Option func(*options)

// WithClock подменяет источник времени (для тестов)
func WithClock(now func() time.Time) Option {
	return func(o *options) { o.now = now }
}

// WithGenerator подменяет генератор кодов
func WithGenerator(generate func() (string, error)) Option {
	return func(o *options) { o.generate = generate }
}

func buildOptions(opts []Option) options {
	o := options{now: time.Now, generate: GenerateCode}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

var codeSpan = big.NewInt(900000)

// GenerateCode возвращает шестизначный код, равномерно из 100000-999999
func GenerateCode() (string, error) {
	n, err := rand.Int(rand.Reader, codeSpan)
	if err != nil {
		return "", err
	}
	return strconv.FormatInt(n.Int64()+100000, 10), nil
}
