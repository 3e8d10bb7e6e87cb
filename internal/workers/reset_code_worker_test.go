package workers

import (
	"context"
	"testing"
	"time"

	"edulearn_backend/internal/resetcode"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSweepRemovesOnlyExpiredCodes(t *testing.T) {
	now := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	clock := func() time.Time { return now }
	store := resetcode.NewMemoryStore(5*time.Minute, resetcode.WithClock(clock))
	ctx := context.Background()

	_, err := store.Issue(ctx, "old@edulearn.fr", 1)
	require.NoError(t, err)

	now = now.Add(4 * time.Minute)
	_, err = store.Issue(ctx, "fresh@edulearn.fr", 2)
	require.NoError(t, err)

	now = now.Add(2 * time.Minute)
	NewResetCodeWorker(store, "").Sweep()

	assert.Equal(t, 1, store.Len())
	_, err = store.Consume(ctx, "old@edulearn.fr", "000000")
	assert.ErrorIs(t, err, resetcode.ErrChallengeNotFound)
}

func TestStartRejectsInvalidSchedule(t *testing.T) {
	worker := NewResetCodeWorker(resetcode.NewMemoryStore(time.Minute), "every now and then")
	assert.Error(t, worker.Start(context.Background()))
}

func TestStartStopsWithContext(t *testing.T) {
	worker := NewResetCodeWorker(resetcode.NewMemoryStore(time.Minute), "@every 1h")
	ctx, cancel := context.WithCancel(context.Background())

	require.NoError(t, worker.Start(ctx))
	assert.Len(t, worker.cron.Entries(), 1)
	cancel()
}
