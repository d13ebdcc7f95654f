package book_slot

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-AvailabilityService/internal/domain"
	"github.com/m04kA/SMC-AvailabilityService/internal/infra/locker"
	"github.com/m04kA/SMC-AvailabilityService/internal/infra/storage/memory"
	"github.com/m04kA/SMC-AvailabilityService/internal/notification"
	"github.com/m04kA/SMC-AvailabilityService/internal/service/bookings"
	bookingModels "github.com/m04kA/SMC-AvailabilityService/internal/service/bookings/models"
	"github.com/m04kA/SMC-AvailabilityService/pkg/logger"
	"github.com/m04kA/SMC-AvailabilityService/pkg/ptr"
	"github.com/m04kA/SMC-AvailabilityService/pkg/txmanager"
)

type fixedTime struct{ t time.Time }

func (f fixedTime) Now() time.Time { return f.t }

type recordingNotifier struct {
	mu     sync.Mutex
	events []notification.Event
}

func (n *recordingNotifier) Publish(e notification.Event) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.events = append(n.events, e)
}

type countingMetrics struct {
	mu      sync.Mutex
	results map[string]int
}

func (m *countingMetrics) BookingResult(result string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.results[result]++
}

type fixture struct {
	uc       *UseCase
	slots    *memory.SlotRepository
	bookings *memory.BookingRepository
	lock     *locker.LocalLocker
	notifier *recordingNotifier
	metrics  *countingMetrics
	now      time.Time
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		slots:    memory.NewSlotRepository(),
		bookings: memory.NewBookingRepository(),
		lock:     locker.NewLocalLocker(time.Second, nil),
		notifier: &recordingNotifier{},
		metrics:  &countingMetrics{results: map[string]int{}},
		now:      time.Date(2026, 3, 10, 8, 0, 0, 0, time.UTC),
	}
	f.uc = NewUseCase(
		f.slots,
		f.bookings,
		f.lock,
		txmanager.NewNoopManager(),
		f.notifier,
		f.metrics,
		logger.NewNop(),
	).WithTimeProvider(fixedTime{t: f.now})
	return f
}

func (f *fixture) seedSlot(t *testing.T, capacity int) *domain.AvailabilitySlot {
	t.Helper()
	slot, err := f.slots.Create(context.Background(), &domain.AvailabilitySlot{
		ProviderID:      uuid.New(),
		Date:            time.Date(2026, 3, 12, 0, 0, 0, 0, time.UTC),
		StartTime:       "09:00",
		EndTime:         "10:00",
		Timezone:        "America/New_York",
		AppointmentType: domain.DefaultAppointmentType,
		SlotDuration:    30,
		BreakDuration:   15,
		MaxAppointments: capacity,
		Status:          domain.SlotStatusAvailable,
		Tags:            []string{},
	})
	require.NoError(t, err)
	return slot
}

func bookingRequest(slotID uuid.UUID) *Request {
	return &Request{
		SlotID:       slotID,
		PatientID:    uuid.New(),
		PatientName:  "  Jane Doe ",
		PatientEmail: "jane@example.com",
		PatientPhone: ptr.Ptr("+1-555-0100"),
		Reason:       "annual checkup",
		EmergencyContact: &domain.EmergencyContact{
			Name:         "John Doe",
			Phone:        "+1-555-0101",
			Relationship: "spouse",
		},
	}
}

func TestUseCase_Execute_CreatesPendingBooking(t *testing.T) {
	f := newFixture(t)
	slot := f.seedSlot(t, 2)

	resp, err := f.uc.Execute(context.Background(), bookingRequest(slot.ID))
	require.NoError(t, err)

	booking := resp.Booking
	assert.Equal(t, domain.StatusPending, booking.Status)
	assert.Equal(t, slot.ProviderID, booking.ProviderID)
	assert.Equal(t, "Jane Doe", booking.PatientName)
	assert.Equal(t, slot.Date, booking.AppointmentDate)
	assert.EqualValues(t, "09:00", booking.AppointmentTime)
	assert.Equal(t, "America/New_York", booking.Timezone)

	wantPrefix := "BK" + "1773129600000"
	assert.True(t, strings.HasPrefix(booking.ConfirmationCode, wantPrefix), booking.ConfirmationCode)
	assert.Equal(t, strings.ToUpper(booking.ID.String()[:8]), strings.TrimPrefix(booking.ConfirmationCode, wantPrefix))

	stored, err := f.slots.GetByID(context.Background(), slot.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, stored.CurrentBookings)
	assert.Equal(t, domain.SlotStatusBooked, stored.Status)

	require.Len(t, f.notifier.events, 1)
	assert.Equal(t, notification.EventBookingCreated, f.notifier.events[0].Type)
	assert.Equal(t, 1, f.metrics.results["booked"])
}

func TestUseCase_Execute_SlotFull(t *testing.T) {
	f := newFixture(t)
	slot := f.seedSlot(t, 1)

	_, err := f.uc.Execute(context.Background(), bookingRequest(slot.ID))
	require.NoError(t, err)

	_, err = f.uc.Execute(context.Background(), bookingRequest(slot.ID))
	assert.True(t, errors.Is(err, ErrSlotFull))
	assert.Equal(t, 1, f.metrics.results["full"])

	stored, err := f.slots.GetByID(context.Background(), slot.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, stored.CurrentBookings)
}

func TestUseCase_Execute_UnavailableStatuses(t *testing.T) {
	for _, status := range []domain.SlotStatus{domain.SlotStatusCancelled, domain.SlotStatusExpired} {
		t.Run(string(status), func(t *testing.T) {
			f := newFixture(t)
			slot := f.seedSlot(t, 3)
			slot.Status = status
			_, err := f.slots.Update(context.Background(), slot)
			require.NoError(t, err)

			_, err = f.uc.Execute(context.Background(), bookingRequest(slot.ID))
			assert.True(t, errors.Is(err, ErrSlotFull))
		})
	}
}

func TestUseCase_Execute_Errors(t *testing.T) {
	f := newFixture(t)
	slot := f.seedSlot(t, 1)

	tests := []struct {
		name    string
		mutate  func(r *Request)
		wantErr error
	}{
		{"unknown slot", func(r *Request) { r.SlotID = uuid.New() }, ErrSlotNotFound},
		{"missing name", func(r *Request) { r.PatientName = " " }, ErrInvalidInput},
		{"bad email", func(r *Request) { r.PatientEmail = "not-an-email" }, ErrInvalidInput},
		{"missing patient", func(r *Request) { r.PatientID = uuid.Nil }, ErrInvalidInput},
		{"long reason", func(r *Request) { r.Reason = strings.Repeat("x", 501) }, ErrInvalidInput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := bookingRequest(slot.ID)
			tt.mutate(req)
			_, err := f.uc.Execute(context.Background(), req)
			assert.True(t, errors.Is(err, tt.wantErr), "got %v", err)
		})
	}
	assert.Empty(t, f.notifier.events)
}

func TestUseCase_Execute_ConcurrentBookingsRespectCapacity(t *testing.T) {
	f := newFixture(t)
	slot := f.seedSlot(t, 3)

	const attempts = 10
	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		success int
		full    int
	)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.uc.Execute(context.Background(), bookingRequest(slot.ID))
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				success++
			case errors.Is(err, ErrSlotFull):
				full++
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 3, success)
	assert.Equal(t, attempts-3, full)

	stored, err := f.slots.GetByID(context.Background(), slot.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, stored.CurrentBookings)

	list, err := f.bookings.ListBySlot(context.Background(), slot.ID)
	require.NoError(t, err)
	assert.Len(t, list, 3)
}

func TestUseCase_Execute_LifecycleWithBookingService(t *testing.T) {
	f := newFixture(t)
	slot := f.seedSlot(t, 1)
	svc := bookings.NewService(f.bookings, f.slots, f.lock, txmanager.NewNoopManager(), f.notifier, f.metrics, logger.NewNop())
	ctx := context.Background()

	first, err := f.uc.Execute(ctx, bookingRequest(slot.ID))
	require.NoError(t, err)

	resp, err := svc.UpdateStatus(ctx, first.Booking.ID, &bookingModels.UpdateStatusRequest{Status: "confirmed"})
	require.NoError(t, err)
	assert.Equal(t, "confirmed", resp.Status)

	resp, err = svc.UpdateStatus(ctx, first.Booking.ID, &bookingModels.UpdateStatusRequest{Status: "completed", Notes: ptr.Ptr("ok")})
	require.NoError(t, err)
	assert.Equal(t, "completed", resp.Status)

	_, err = svc.Cancel(ctx, first.Booking.ID, &bookingModels.CancelBookingRequest{})
	assert.True(t, errors.Is(err, bookings.ErrInvalidTransition))

	// отмена второго бронирования возвращает слот в available
	second := f.seedSlot(t, 1)
	booked, err := f.uc.Execute(ctx, bookingRequest(second.ID))
	require.NoError(t, err)
	_, err = svc.Cancel(ctx, booked.Booking.ID, &bookingModels.CancelBookingRequest{Reason: "sick"})
	require.NoError(t, err)

	reopened, err := f.slots.GetByID(ctx, second.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, reopened.CurrentBookings)
	assert.Equal(t, domain.SlotStatusAvailable, reopened.Status)

	_, err = f.uc.Execute(ctx, bookingRequest(second.ID))
	assert.NoError(t, err)
}
