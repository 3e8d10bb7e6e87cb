package workers

import (
	"context"
	"fmt"

	"edulearn_backend/internal/logger"
	"edulearn_backend/internal/metrics"

	"github.com/robfig/cron/v3"
)

// ExpiredCodePurger - хранилище кодов, которое умеет чистить просроченные записи
type ExpiredCodePurger interface {
	PurgeExpired() int
}

// ResetCodeWorker периодически удаляет истекшие коды сброса из памяти.
// Redis чистит ключи сам по TTL, ему воркер не нужен.
type ResetCodeWorker struct {
	store    ExpiredCodePurger
	schedule string
	cron     *cron.Cron
}

func NewResetCodeWorker(store ExpiredCodePurger, schedule string) *ResetCodeWorker {
	if schedule == "" {
		schedule = "@every 1m"
	}
	return &ResetCodeWorker{
		store:    store,
		schedule: schedule,
		cron:     cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DefaultLogger))),
	}
}

// Start регистрирует задачу и останавливает cron по отмене ctx
func (w *ResetCodeWorker) Start(ctx context.Context) error {
	if _, err := w.cron.AddFunc(w.schedule, w.Sweep); err != nil {
		return fmt.Errorf("invalid reset code sweep schedule %q: %w", w.schedule, err)
	}
	w.cron.Start()
	logger.Info("Reset code worker started", "schedule", w.schedule)

	go func() {
		<-ctx.Done()
		<-w.cron.Stop().Done()
		logger.Info("Reset code worker stopped")
	}()
	return nil
}

// Sweep - один проход очистки
func (w *ResetCodeWorker) Sweep() {
	purged := w.store.PurgeExpired()
	metrics.ResetCodesPurged(purged)
	if purged > 0 {
		logger.WorkerLog("reset_code", "purge_expired", nil, "purged", purged)
	}
}
