package notification

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-AvailabilityService/pkg/logger"
)

type recordingSender struct {
	mu     sync.Mutex
	events []Event
	block  chan struct{}
	err    error
}

func (s *recordingSender) Send(ctx context.Context, event Event) error {
	if s.block != nil {
		<-s.block
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, event)
	return s.err
}

func (s *recordingSender) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.events)
}

func TestDispatcher_DeliversQueuedEventsOnStop(t *testing.T) {
	sender := &recordingSender{}
	d := NewDispatcher(sender, 10, time.Second, logger.NewNop())
	d.Start()

	for i := 0; i < 3; i++ {
		d.Publish(NewEvent(EventBookingCreated, uuid.New(), uuid.New()))
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	require.NoError(t, d.Stop(ctx))
	assert.Equal(t, 3, sender.count())
}

func TestDispatcher_DropsOnOverflow(t *testing.T) {
	sender := &recordingSender{block: make(chan struct{})}
	d := NewDispatcher(sender, 1, time.Second, logger.NewNop())

	// воркер не запущен: первое событие занимает очередь, остальные отбрасываются
	for i := 0; i < 5; i++ {
		d.Publish(NewEvent(EventSlotCancelled, uuid.New(), uuid.New()))
	}
	close(sender.block)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	require.NoError(t, d.Stop(ctx))
	assert.Equal(t, 1, sender.count())
}

func TestDispatcher_SenderErrorDoesNotStopWorker(t *testing.T) {
	sender := &recordingSender{err: errors.New("unreachable")}
	d := NewDispatcher(sender, 4, time.Second, logger.NewNop())
	d.Start()

	d.Publish(NewEvent(EventBookingCancelled, uuid.New(), uuid.New()))
	d.Publish(NewEvent(EventBookingCancelled, uuid.New(), uuid.New()))

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	require.NoError(t, d.Stop(ctx))
	assert.Equal(t, 2, sender.count())
}

func TestDispatcher_PublishAfterStopIsIgnored(t *testing.T) {
	sender := &recordingSender{}
	d := NewDispatcher(sender, 4, time.Second, logger.NewNop())
	require.NoError(t, d.Stop(context.Background()))

	d.Publish(NewEvent(EventBookingCreated, uuid.New(), uuid.New()))
	assert.Equal(t, 0, sender.count())
}

func TestEvent_WithBookingAndReason(t *testing.T) {
	bookingID := uuid.New()
	e := NewEvent(EventBookingCancelled, uuid.New(), uuid.New()).
		WithBooking(bookingID, "cancelled").
		WithReason("patient request")

	require.NotNil(t, e.BookingID)
	assert.Equal(t, bookingID, *e.BookingID)
	assert.Equal(t, "cancelled", e.Status)
	require.NotNil(t, e.Reason)
	assert.Equal(t, "patient request", *e.Reason)
	assert.Nil(t, NewEvent(EventBookingCreated, uuid.Nil, uuid.Nil).WithReason("").Reason)
}
