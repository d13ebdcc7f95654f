package locker

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
)

type localEntry struct {
	sem  chan struct{}
	refs int
}

// LocalLocker блокировки провайдеров внутри одного процесса.
// Записи удаляются, когда их никто не держит и не ждет.
type LocalLocker struct {
	mu             sync.Mutex
	entries        map[uuid.UUID]*localEntry
	acquireTimeout time.Duration
	observer       WaitObserver
}

// NewLocalLocker acquireTimeout <= 0 - ждать до отмены контекста
func NewLocalLocker(acquireTimeout time.Duration, observer WaitObserver) *LocalLocker {
	return &LocalLocker{
		entries:        make(map[uuid.UUID]*localEntry),
		acquireTimeout: acquireTimeout,
		observer:       observer,
	}
}

func (l *LocalLocker) WithProviderLock(ctx context.Context, providerID uuid.UUID, fn func(ctx context.Context) error) error {
	entry := l.ref(providerID)
	defer l.unref(providerID)

	started := time.Now()
	if err := l.acquire(ctx, entry); err != nil {
		return fmt.Errorf("%w: provider=%s: %v", ErrLockTimeout, providerID, err)
	}
	if l.observer != nil {
		l.observer.ObserveLockWait(time.Since(started))
	}
	defer func() { <-entry.sem }()

	return fn(ctx)
}

func (l *LocalLocker) acquire(ctx context.Context, entry *localEntry) error {
	var timeout <-chan time.Time
	if l.acquireTimeout > 0 {
		timer := time.NewTimer(l.acquireTimeout)
		defer timer.Stop()
		timeout = timer.C
	}

	select {
	case entry.sem <- struct{}{}:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	case <-timeout:
		return fmt.Errorf("waited %s", l.acquireTimeout)
	}
}

func (l *LocalLocker) ref(id uuid.UUID) *localEntry {
	l.mu.Lock()
	defer l.mu.Unlock()

	entry, ok := l.entries[id]
	if !ok {
		entry = &localEntry{sem: make(chan struct{}, 1)}
		l.entries[id] = entry
	}
	entry.refs++
	return entry
}

func (l *LocalLocker) unref(id uuid.UUID) {
	l.mu.Lock()
	defer l.mu.Unlock()

	entry, ok := l.entries[id]
	if !ok {
		return
	}
	entry.refs--
	if entry.refs == 0 {
		delete(l.entries, id)
	}
}

// size количество активных записей (для тестов)
func (l *LocalLocker) size() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.entries)
}
