package slots

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-AvailabilityService/internal/conflicts"
	"github.com/m04kA/SMC-AvailabilityService/internal/domain"
	"github.com/m04kA/SMC-AvailabilityService/internal/infra/locker"
	"github.com/m04kA/SMC-AvailabilityService/internal/infra/storage/memory"
	"github.com/m04kA/SMC-AvailabilityService/internal/notification"
	"github.com/m04kA/SMC-AvailabilityService/internal/service/slots/models"
	"github.com/m04kA/SMC-AvailabilityService/internal/timezone"
	"github.com/m04kA/SMC-AvailabilityService/pkg/logger"
	"github.com/m04kA/SMC-AvailabilityService/pkg/ptr"
	"github.com/m04kA/SMC-AvailabilityService/pkg/txmanager"
	"github.com/m04kA/SMC-AvailabilityService/pkg/types"
)

type fixedTime struct{ now time.Time }

func (f fixedTime) Now() time.Time { return f.now }

type recordingNotifier struct {
	mu     sync.Mutex
	events []notification.Event
}

func (n *recordingNotifier) Publish(e notification.Event) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.events = append(n.events, e)
}

type fixture struct {
	svc       *Service
	slots     *memory.SlotRepository
	bookings  *memory.BookingRepository
	schedules *memory.ScheduleRepository
	notifier  *recordingNotifier
	provider  uuid.UUID
	day       time.Time
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	zones := timezone.NewResolver("UTC")
	policy := conflicts.DefaultPolicy()
	policy.Zones = zones

	f := &fixture{
		slots:     memory.NewSlotRepository(),
		bookings:  memory.NewBookingRepository(),
		schedules: memory.NewScheduleRepository(),
		notifier:  &recordingNotifier{},
		provider:  uuid.New(),
		day:       time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC),
	}
	f.svc = NewService(
		f.slots,
		f.bookings,
		f.schedules,
		locker.NewLocalLocker(time.Second, nil),
		txmanager.NewNoopManager(),
		zones,
		f.notifier,
		Options{Policy: policy, AllowHardDelete: true},
		logger.NewNop(),
	).WithTimeProvider(fixedTime{now: time.Date(2026, 3, 10, 8, 0, 0, 0, time.UTC)})

	return f
}

func (f *fixture) addSlot(t *testing.T, date time.Time, start, end string, maxAppointments, bookings int) *domain.AvailabilitySlot {
	t.Helper()
	slot := &domain.AvailabilitySlot{
		ProviderID:      f.provider,
		Date:            date,
		StartTime:       types.TimeString(start),
		EndTime:         types.TimeString(end),
		Timezone:        "UTC",
		AppointmentType: "consultation",
		SlotDuration:    30,
		BreakDuration:   15,
		MaxAppointments: maxAppointments,
		CurrentBookings: bookings,
		Status:          domain.SlotStatusAvailable,
	}
	slot.RecomputeStatus()
	created, err := f.slots.Create(context.Background(), slot)
	require.NoError(t, err)
	return created
}

func TestService_ListSlots(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.addSlot(t, f.day, "11:00", "11:30", 1, 0)
	f.addSlot(t, f.day, "09:00", "09:30", 1, 1)

	all, err := f.svc.ListSlots(ctx, f.provider, &models.ListSlotsRequest{})
	require.NoError(t, err)
	require.Equal(t, 2, all.Total)
	assert.Equal(t, "09:00", all.Slots[0].StartTime)

	booked, err := f.svc.ListSlots(ctx, f.provider, &models.ListSlotsRequest{Status: ptr.Ptr("booked")})
	require.NoError(t, err)
	assert.Equal(t, 1, booked.Total)

	_, err = f.svc.ListSlots(ctx, f.provider, &models.ListSlotsRequest{Status: ptr.Ptr("bogus")})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestService_GetSlotNotFound(t *testing.T) {
	f := newFixture(t)
	_, err := f.svc.GetSlot(context.Background(), uuid.New())
	assert.ErrorIs(t, err, ErrSlotNotFound)
}

func TestService_UpdateSlot(t *testing.T) {
	t.Run("updates notes and capacity", func(t *testing.T) {
		f := newFixture(t)
		slot := f.addSlot(t, f.day, "09:00", "09:30", 2, 1)

		got, err := f.svc.UpdateSlot(context.Background(), slot.ID, &models.UpdateSlotRequest{
			MaxAppointments: ptr.Ptr(4),
			Notes:           ptr.Ptr("bring documents"),
		})
		require.NoError(t, err)
		assert.Equal(t, 4, got.MaxAppointments)
		assert.Equal(t, "booked", got.Status)
		require.NotNil(t, got.Notes)
		assert.Equal(t, "bring documents", *got.Notes)
	})

	t.Run("capacity below bookings collects failure", func(t *testing.T) {
		f := newFixture(t)
		slot := f.addSlot(t, f.day, "09:00", "09:30", 3, 2)

		_, err := f.svc.UpdateSlot(context.Background(), slot.ID, &models.UpdateSlotRequest{
			MaxAppointments: ptr.Ptr(1),
			SlotDuration:    ptr.Ptr(90),
		})
		require.ErrorIs(t, err, domain.ErrValidation)

		var verr *domain.ValidationError
		require.True(t, errors.As(err, &verr))
		assert.Len(t, verr.Failures, 2)
	})

	t.Run("moving into another slot is a conflict", func(t *testing.T) {
		f := newFixture(t)
		f.addSlot(t, f.day, "10:00", "10:30", 1, 0)
		slot := f.addSlot(t, f.day, "14:00", "14:30", 1, 0)

		_, err := f.svc.UpdateSlot(context.Background(), slot.ID, &models.UpdateSlotRequest{
			StartTime: ptr.Ptr("10:15"),
			EndTime:   ptr.Ptr("10:45"),
		})
		require.ErrorIs(t, err, domain.ErrConflict)

		var cerr *domain.ConflictError
		require.True(t, errors.As(err, &cerr))
		assert.Equal(t, domain.ConflictOverlap, cerr.Conflicts[0].Type)
	})

	t.Run("booked slot cannot be moved", func(t *testing.T) {
		f := newFixture(t)
		slot := f.addSlot(t, f.day, "09:00", "09:30", 1, 1)

		_, err := f.svc.UpdateSlot(context.Background(), slot.ID, &models.UpdateSlotRequest{StartTime: ptr.Ptr("08:30")})
		assert.ErrorIs(t, err, ErrSlotHasBookings)
	})

	t.Run("cancelled slot is not editable", func(t *testing.T) {
		f := newFixture(t)
		slot := f.addSlot(t, f.day, "09:00", "09:30", 1, 0)
		slot.Status = domain.SlotStatusCancelled
		_, err := f.slots.Update(context.Background(), slot)
		require.NoError(t, err)

		_, err = f.svc.UpdateSlot(context.Background(), slot.ID, &models.UpdateSlotRequest{Notes: ptr.Ptr("x")})
		assert.ErrorIs(t, err, ErrSlotNotEditable)
	})
}

func TestService_CancelSlot(t *testing.T) {
	t.Run("unbooked slot is deleted", func(t *testing.T) {
		f := newFixture(t)
		slot := f.addSlot(t, f.day, "09:00", "09:30", 1, 0)

		resp, err := f.svc.CancelSlot(context.Background(), slot.ID, "vacation")
		require.NoError(t, err)
		assert.True(t, resp.Deleted)

		_, err = f.svc.GetSlot(context.Background(), slot.ID)
		assert.ErrorIs(t, err, ErrSlotNotFound)
		assert.Len(t, f.notifier.events, 1)
	})

	t.Run("booked slot becomes cancelled", func(t *testing.T) {
		f := newFixture(t)
		slot := f.addSlot(t, f.day, "09:00", "09:30", 2, 1)

		resp, err := f.svc.CancelSlot(context.Background(), slot.ID, "doctor is ill")
		require.NoError(t, err)
		assert.False(t, resp.Deleted)
		require.NotNil(t, resp.Slot)
		assert.Equal(t, "cancelled", resp.Slot.Status)
		assert.Equal(t, 1, resp.Slot.CurrentBookings)
		require.NotNil(t, resp.Slot.CancellationReason)
		assert.Equal(t, "doctor is ill", *resp.Slot.CancellationReason)
	})

	t.Run("hard delete disabled keeps record", func(t *testing.T) {
		f := newFixture(t)
		f.svc.opts.AllowHardDelete = false
		slot := f.addSlot(t, f.day, "09:00", "09:30", 1, 0)

		resp, err := f.svc.CancelSlot(context.Background(), slot.ID, "")
		require.NoError(t, err)
		assert.False(t, resp.Deleted)
		assert.Equal(t, "cancelled", resp.Slot.Status)
	})

	t.Run("slot with cancelled bookings is kept", func(t *testing.T) {
		f := newFixture(t)
		ctx := context.Background()
		slot := f.addSlot(t, f.day, "09:00", "09:30", 1, 0)
		booking, err := f.bookings.Create(ctx, &domain.Booking{
			SlotID:          slot.ID,
			ProviderID:      f.provider,
			AppointmentDate: f.day,
			AppointmentTime: "09:00",
			Status:          domain.StatusCancelled,
		})
		require.NoError(t, err)

		resp, err := f.svc.CancelSlot(ctx, slot.ID, "schedule change")
		require.NoError(t, err)
		assert.False(t, resp.Deleted)
		require.NotNil(t, resp.Slot)
		assert.Equal(t, "cancelled", resp.Slot.Status)

		_, err = f.svc.GetSlot(ctx, slot.ID)
		require.NoError(t, err)
		history, err := f.bookings.ListBySlot(ctx, slot.ID)
		require.NoError(t, err)
		require.Len(t, history, 1)
		assert.Equal(t, booking.ID, history[0].ID)
	})

	t.Run("not found", func(t *testing.T) {
		f := newFixture(t)
		_, err := f.svc.CancelSlot(context.Background(), uuid.New(), "")
		assert.ErrorIs(t, err, ErrSlotNotFound)
	})
}

func TestService_StatsFor(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	booked := f.addSlot(t, f.day, "09:00", "09:30", 2, 1)
	booked.Pricing = &domain.Pricing{Fee: 120, Currency: "USD"}
	_, err := f.slots.Update(ctx, booked)
	require.NoError(t, err)

	f.addSlot(t, f.day, "10:00", "10:30", 2, 0)
	cancelled := f.addSlot(t, f.day.AddDate(0, 0, 1), "09:00", "09:30", 1, 0)
	cancelled.Status = domain.SlotStatusCancelled
	_, err = f.slots.Update(ctx, cancelled)
	require.NoError(t, err)

	_, err = f.bookings.Create(ctx, &domain.Booking{
		SlotID:          booked.ID,
		ProviderID:      f.provider,
		AppointmentDate: f.day,
		AppointmentTime: "09:00",
		Status:          domain.StatusConfirmed,
	})
	require.NoError(t, err)
	_, err = f.bookings.Create(ctx, &domain.Booking{
		SlotID:          booked.ID,
		ProviderID:      f.provider,
		AppointmentDate: f.day,
		AppointmentTime: "09:00",
		Status:          domain.StatusCancelled,
	})
	require.NoError(t, err)

	stats, err := f.svc.StatsFor(ctx, f.provider)
	require.NoError(t, err)

	assert.Equal(t, 3, stats.TotalSlots)
	assert.Equal(t, 1, stats.AvailableSlots)
	assert.Equal(t, 1, stats.BookedSlots)
	assert.Equal(t, 1, stats.CancelledSlots)
	assert.Equal(t, 1, stats.TodayBookings)
	assert.Equal(t, 1, stats.UpcomingBookings)
	assert.Equal(t, 120.0, stats.RevenueThisMonth)
	assert.InDelta(t, 1.0/3.0, stats.AverageBookingRate, 1e-9)
}

func TestService_StatsFor_BookingRateCountsSlots(t *testing.T) {
	t.Run("mixed capacity", func(t *testing.T) {
		f := newFixture(t)
		// одно место из двух занято, но слот считается занятым целиком
		f.addSlot(t, f.day, "09:00", "09:30", 2, 1)
		f.addSlot(t, f.day, "10:00", "10:30", 1, 0)

		stats, err := f.svc.StatsFor(context.Background(), f.provider)
		require.NoError(t, err)

		assert.Equal(t, 2, stats.TotalSlots)
		assert.Equal(t, 1, stats.BookedSlots)
		assert.Equal(t, 0.5, stats.AverageBookingRate)
	})

	t.Run("no slots", func(t *testing.T) {
		f := newFixture(t)

		stats, err := f.svc.StatsFor(context.Background(), f.provider)
		require.NoError(t, err)

		assert.Equal(t, 0, stats.TotalSlots)
		assert.Zero(t, stats.AverageBookingRate)
	})
}

type readOnlyRecorder struct {
	*txmanager.NoopManager
	readOnly int
}

func (r *readOnlyRecorder) DoReadOnly(ctx context.Context, fn func(ctx context.Context) error) error {
	r.readOnly++
	return fn(ctx)
}

func TestService_StatsFor_ReadsInOneTransaction(t *testing.T) {
	f := newFixture(t)
	tx := &readOnlyRecorder{NoopManager: txmanager.NewNoopManager()}
	f.svc.txManager = tx
	f.addSlot(t, f.day, "09:00", "09:30", 1, 0)

	_, err := f.svc.StatsFor(context.Background(), f.provider)
	require.NoError(t, err)

	assert.Equal(t, 1, tx.readOnly)
}

func TestService_CheckAvailability(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.addSlot(t, f.day, "09:00", "10:00", 1, 0)
	f.addSlot(t, f.day, "11:00", "11:30", 1, 1)

	resp, err := f.svc.CheckAvailability(ctx, f.provider, f.day, "09:15", "09:45")
	require.NoError(t, err)
	assert.True(t, resp.Available)

	resp, err = f.svc.CheckAvailability(ctx, f.provider, f.day, "11:00", "11:30")
	require.NoError(t, err)
	assert.False(t, resp.Available)

	_, err = f.svc.CheckAvailability(ctx, f.provider, f.day, "12:00", "11:00")
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestService_AvailableTimesConvertsZone(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	slot := f.addSlot(t, f.day, "09:00", "09:30", 1, 0)
	slot.Timezone = "America/New_York"
	_, err := f.slots.Update(ctx, slot)
	require.NoError(t, err)
	f.addSlot(t, f.day, "12:00", "12:30", 1, 1)

	resp, err := f.svc.AvailableTimes(ctx, f.provider, f.day, "Europe/London")
	require.NoError(t, err)
	require.Len(t, resp.Slots, 1)
	assert.Equal(t, "14:00", resp.Slots[0].StartTime)
	assert.Equal(t, "14:30", resp.Slots[0].EndTime)

	_, err = f.svc.AvailableTimes(ctx, f.provider, f.day, "Mars/Base")
	assert.ErrorIs(t, err, ErrUnknownTimezone)
}

func TestService_ExpirePast(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	past := f.addSlot(t, f.day.AddDate(0, 0, -1), "09:00", "09:30", 1, 0)
	pastBooked := f.addSlot(t, f.day.AddDate(0, 0, -1), "10:00", "10:30", 1, 1)
	endedToday := f.addSlot(t, f.day, "07:00", "07:30", 1, 0)
	later := f.addSlot(t, f.day, "09:00", "09:30", 1, 0)

	n, err := f.svc.ExpirePast(ctx, time.Date(2026, 3, 10, 8, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	for id, want := range map[uuid.UUID]domain.SlotStatus{
		past.ID:       domain.SlotStatusExpired,
		pastBooked.ID: domain.SlotStatusBooked,
		endedToday.ID: domain.SlotStatusExpired,
		later.ID:      domain.SlotStatusAvailable,
	} {
		got, err := f.slots.GetByID(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, want, got.Status)
	}
}
