package resetcode

import (
	"context"
	"sync"
	"time"
)

// MemoryStore - реестр в памяти процесса для одного инстанса.
// Все операции над ключом выполняются под одним мьютексом.
type MemoryStore struct {
	mu      sync.Mutex
	entries map[string]Challenge
	ttl     time.Duration
	opts    options
}

func NewMemoryStore(ttl time.Duration, opts ...Option) *MemoryStore {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &MemoryStore{
		entries: make(map[string]Challenge),
		ttl:     ttl,
		opts:    buildOptions(opts),
	}
}

func (s *MemoryStore) Issue(_ context.Context, email string, userID uint) (string, error) {
	code, err := s.opts.generate()
	if err != nil {
		return "", err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries[email] = Challenge{
		Code:      code,
		UserID:    userID,
		ExpiresAt: s.opts.now().Add(s.ttl),
	}
	return code, nil
}

func (s *MemoryStore) Verify(_ context.Context, email, code string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.lookup(email, code)
	return err
}

func (s *MemoryStore) Consume(_ context.Context, email, code string) (uint, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ch, err := s.lookup(email, code)
	if err != nil {
		return 0, err
	}
	delete(s.entries, email)
	return ch.UserID, nil
}

// lookup вызывается под s.mu. Истекший запрос удаляется.
func (s *MemoryStore) lookup(email, code string) (Challenge, error) {
	ch, ok := s.entries[email]
	if !ok {
		return Challenge{}, ErrChallengeNotFound
	}

	if err := ch.check(code, s.opts.now()); err != nil {
		if err == ErrChallengeExpired {
			delete(s.entries, email)
		}
		return Challenge{}, err
	}
	return ch, nil
}

// PurgeExpired удаляет все истекшие запросы и возвращает их количество
func (s *MemoryStore) PurgeExpired() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.opts.now()
	purged := 0
	for email, ch := range s.entries {
		if now.After(ch.ExpiresAt) {
			delete(s.entries, email)
			purged++
		}
	}
	return purged
}

// Len - количество хранимых запросов
func (s *MemoryStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}
