package expiry

import (
	"context"
	"sync"
	"time"
)

const runTimeout = 20 * time.Second

// SlotExpirer переводит прошедшие слоты без бронирований в expired
type SlotExpirer interface {
	ExpirePast(ctx context.Context, now time.Time) (int, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// Worker периодически запускает истечение слотов.
// Первый запуск выполняется сразу при старте.
type Worker struct {
	expirer  SlotExpirer
	interval time.Duration
	now      func() time.Time
	logger   Logger

	stopOnce sync.Once
	stopCh   chan struct{}
	done     chan struct{}
}

func NewWorker(expirer SlotExpirer, interval time.Duration, logger Logger) *Worker {
	return &Worker{
		expirer:  expirer,
		interval: interval,
		now:      time.Now,
		logger:   logger,
		stopCh:   make(chan struct{}),
		done:     make(chan struct{}),
	}
}

// Start запускает воркер в отдельной горутине
func (w *Worker) Start(ctx context.Context) {
	w.logger.Info("Starting expiry worker, interval=%s", w.interval)
	go w.run(ctx)
}

// Stop останавливает воркер и ждет завершения текущего прогона
func (w *Worker) Stop() {
	w.stopOnce.Do(func() {
		close(w.stopCh)
	})
	<-w.done
}

func (w *Worker) run(ctx context.Context) {
	defer close(w.done)

	w.RunOnce(ctx)

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			w.RunOnce(ctx)
		case <-w.stopCh:
			w.logger.Info("Expiry worker stopped")
			return
		case <-ctx.Done():
			w.logger.Info("Expiry worker cancelled")
			return
		}
	}
}

// RunOnce один прогон истечения, возвращает число истекших слотов
func (w *Worker) RunOnce(ctx context.Context) int {
	runCtx, cancel := context.WithTimeout(ctx, runTimeout)
	defer cancel()

	start := time.Now()
	n, err := w.expirer.ExpirePast(runCtx, w.now())
	if err != nil {
		w.logger.Error("Expiry run failed: %v", err)
		return 0
	}

	w.logger.Info("Expiry run complete: expired=%d, duration=%s", n, time.Since(start))
	return n
}
