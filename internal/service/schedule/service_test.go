package schedule

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-AvailabilityService/internal/conflicts"
	"github.com/m04kA/SMC-AvailabilityService/internal/infra/locker"
	"github.com/m04kA/SMC-AvailabilityService/internal/infra/storage/memory"
	"github.com/m04kA/SMC-AvailabilityService/internal/service/schedule/models"
	"github.com/m04kA/SMC-AvailabilityService/internal/timezone"
	"github.com/m04kA/SMC-AvailabilityService/pkg/logger"
	"github.com/m04kA/SMC-AvailabilityService/pkg/ptr"
)

func newService() *Service {
	return NewService(
		memory.NewScheduleRepository(),
		locker.NewLocalLocker(time.Second, nil),
		timezone.NewResolver("UTC"),
		conflicts.DefaultPolicy(),
		logger.NewNop(),
	)
}

func TestService_UpsertAndGet(t *testing.T) {
	ctx := context.Background()
	svc := newService()
	provider := uuid.New()

	_, err := svc.Get(ctx, provider)
	assert.ErrorIs(t, err, ErrScheduleNotFound)

	saved, err := svc.Upsert(ctx, provider, &models.UpsertScheduleRequest{
		Timezone: "America/New_York",
		Weekdays: map[string]models.DaySchedule{
			"monday": {
				IsWorkingDay:     true,
				StartTime:        "09:00",
				EndTime:          "17:00",
				BreakStart:       ptr.Ptr("12:00"),
				BreakEnd:         ptr.Ptr("13:00"),
				AppointmentTypes: []string{"consultation"},
				MaxAppointments:  8,
			},
			"sunday": {IsWorkingDay: false},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, 30, saved.DefaultSlotDuration)
	assert.Equal(t, 15, saved.DefaultBreakDuration)
	assert.Equal(t, "09:00", saved.WorkingHours.StartTime)

	got, err := svc.Get(ctx, provider)
	require.NoError(t, err)
	assert.Equal(t, "America/New_York", got.Timezone)
	require.Contains(t, got.Weekdays, "monday")
	assert.Equal(t, 8, got.Weekdays["monday"].MaxAppointments)
	require.NotNil(t, got.Weekdays["monday"].BreakStart)
	assert.Equal(t, "12:00", *got.Weekdays["monday"].BreakStart)
}

func TestService_UpsertEmptyTimezoneUsesCurrentZone(t *testing.T) {
	svc := newService()

	saved, err := svc.Upsert(context.Background(), uuid.New(), &models.UpsertScheduleRequest{})
	require.NoError(t, err)
	assert.Equal(t, "UTC", saved.Timezone)
}

func TestService_UpsertRejectsInvalidSchedules(t *testing.T) {
	tests := []struct {
		name    string
		req     models.UpsertScheduleRequest
		wantErr error
	}{
		{
			name:    "unknown timezone",
			req:     models.UpsertScheduleRequest{Timezone: "Mars/Olympus"},
			wantErr: ErrUnknownTimezone,
		},
		{
			name:    "slot duration out of bounds",
			req:     models.UpsertScheduleRequest{DefaultSlotDuration: 90},
			wantErr: ErrInvalidInput,
		},
		{
			name: "unknown weekday",
			req: models.UpsertScheduleRequest{Weekdays: map[string]models.DaySchedule{
				"funday": {IsWorkingDay: true},
			}},
			wantErr: ErrInvalidInput,
		},
		{
			name: "break outside working hours",
			req: models.UpsertScheduleRequest{Weekdays: map[string]models.DaySchedule{
				"tuesday": {IsWorkingDay: true, BreakStart: ptr.Ptr("18:00"), BreakEnd: ptr.Ptr("18:30")},
			}},
			wantErr: ErrInvalidInput,
		},
		{
			name: "break without end",
			req: models.UpsertScheduleRequest{Weekdays: map[string]models.DaySchedule{
				"tuesday": {IsWorkingDay: true, BreakStart: ptr.Ptr("12:00")},
			}},
			wantErr: ErrInvalidInput,
		},
		{
			name: "unknown appointment type",
			req: models.UpsertScheduleRequest{Weekdays: map[string]models.DaySchedule{
				"friday": {IsWorkingDay: true, AppointmentTypes: []string{"surgery"}},
			}},
			wantErr: ErrInvalidInput,
		},
		{
			name: "malformed time",
			req: models.UpsertScheduleRequest{Weekdays: map[string]models.DaySchedule{
				"friday": {IsWorkingDay: true, StartTime: "9am"},
			}},
			wantErr: ErrInvalidInput,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := tt.req
			_, err := newService().Upsert(context.Background(), uuid.New(), &req)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}
