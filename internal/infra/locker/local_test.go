package locker

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalLocker_SerializesSameProvider(t *testing.T) {
	l := NewLocalLocker(0, nil)
	provider := uuid.New()

	var inside, maxInside int32
	var wg sync.WaitGroup

	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := l.WithProviderLock(context.Background(), provider, func(ctx context.Context) error {
				n := atomic.AddInt32(&inside, 1)
				for {
					cur := atomic.LoadInt32(&maxInside)
					if n <= cur || atomic.CompareAndSwapInt32(&maxInside, cur, n) {
						break
					}
				}
				time.Sleep(time.Millisecond)
				atomic.AddInt32(&inside, -1)
				return nil
			})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), maxInside)
	assert.Equal(t, 0, l.size())
}

func TestLocalLocker_DifferentProvidersRunInParallel(t *testing.T) {
	l := NewLocalLocker(time.Second, nil)
	a, b := uuid.New(), uuid.New()

	entered := make(chan struct{})
	release := make(chan struct{})

	go func() {
		_ = l.WithProviderLock(context.Background(), a, func(ctx context.Context) error {
			close(entered)
			<-release
			return nil
		})
	}()
	<-entered

	err := l.WithProviderLock(context.Background(), b, func(ctx context.Context) error {
		return nil
	})
	close(release)

	assert.NoError(t, err)
}

func TestLocalLocker_AcquireTimeout(t *testing.T) {
	l := NewLocalLocker(20*time.Millisecond, nil)
	provider := uuid.New()

	entered := make(chan struct{})
	release := make(chan struct{})
	done := make(chan struct{})

	go func() {
		defer close(done)
		_ = l.WithProviderLock(context.Background(), provider, func(ctx context.Context) error {
			close(entered)
			<-release
			return nil
		})
	}()
	<-entered

	err := l.WithProviderLock(context.Background(), provider, func(ctx context.Context) error {
		t.Fatal("must not enter while lock is held")
		return nil
	})
	close(release)
	<-done

	assert.ErrorIs(t, err, ErrLockTimeout)
}

func TestLocalLocker_PropagatesError(t *testing.T) {
	l := NewLocalLocker(0, nil)
	boom := errors.New("boom")

	err := l.WithProviderLock(context.Background(), uuid.New(), func(ctx context.Context) error {
		return boom
	})
	require.ErrorIs(t, err, boom)
	assert.Equal(t, 0, l.size())
}
