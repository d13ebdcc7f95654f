package create_slot

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-AvailabilityService/internal/conflicts"
	"github.com/m04kA/SMC-AvailabilityService/internal/domain"
	"github.com/m04kA/SMC-AvailabilityService/internal/infra/locker"
	"github.com/m04kA/SMC-AvailabilityService/internal/infra/storage/memory"
	"github.com/m04kA/SMC-AvailabilityService/internal/service/slots/models"
	"github.com/m04kA/SMC-AvailabilityService/internal/timezone"
	"github.com/m04kA/SMC-AvailabilityService/pkg/logger"
	"github.com/m04kA/SMC-AvailabilityService/pkg/txmanager"
)

type fakeMetrics struct {
	created   map[string]int
	conflicts map[string]int
}

func newFakeMetrics() *fakeMetrics {
	return &fakeMetrics{created: map[string]int{}, conflicts: map[string]int{}}
}

func (m *fakeMetrics) SlotsCreated(source string, n int) { m.created[source] += n }

func (m *fakeMetrics) ConflictDetected(conflictType string) { m.conflicts[conflictType]++ }

func newUseCase(t *testing.T) (*UseCase, *memory.SlotRepository, *memory.ScheduleRepository, *fakeMetrics) {
	t.Helper()
	zones := timezone.NewResolver("America/New_York")
	policy := conflicts.DefaultPolicy()
	policy.Zones = zones

	slots := memory.NewSlotRepository()
	schedules := memory.NewScheduleRepository()
	metrics := newFakeMetrics()

	uc := NewUseCase(
		slots,
		schedules,
		locker.NewLocalLocker(time.Second, nil),
		txmanager.NewNoopManager(),
		zones,
		policy,
		metrics,
		logger.NewNop(),
	)
	return uc, slots, schedules, metrics
}

func request(providerID uuid.UUID, start, end string) *models.CreateSlotRequest {
	return &models.CreateSlotRequest{
		ProviderID: providerID.String(),
		Date:       "2026-05-04",
		StartTime:  start,
		EndTime:    end,
	}
}

func TestUseCase_Execute_RoundTrip(t *testing.T) {
	uc, slots, _, metrics := newUseCase(t)
	providerID := uuid.New()

	req := request(providerID, "09:00", "09:30")
	req.Location = &models.Location{Type: "physical", Address: "1 Main St"}
	req.Pricing = &models.Pricing{Fee: 80}

	got, err := uc.Execute(context.Background(), req)
	require.NoError(t, err)

	assert.Equal(t, "America/New_York", got.Timezone)
	assert.Equal(t, domain.DefaultAppointmentType, got.AppointmentType)
	assert.Equal(t, 30, got.SlotDuration)
	assert.Equal(t, 15, got.BreakDuration)
	assert.Equal(t, 1, got.MaxAppointments)
	assert.Equal(t, "available", got.Status)
	require.NotNil(t, got.Pricing)
	assert.Equal(t, "USD", got.Pricing.Currency)

	date := time.Date(2026, 5, 4, 0, 0, 0, 0, time.UTC)
	listed, err := slots.List(context.Background(), domain.SlotFilter{ProviderID: &providerID, Date: &date})
	require.NoError(t, err)
	require.Len(t, listed, 1)
	assert.Equal(t, got, models.FromDomainSlot(listed[0]))

	assert.Equal(t, 1, metrics.created["single"])
}

func TestUseCase_Execute_CollectsAllValidationErrors(t *testing.T) {
	uc, _, _, _ := newUseCase(t)

	req := &models.CreateSlotRequest{
		ProviderID:      uuid.New().String(),
		StartTime:       "10:00",
		EndTime:         "09:00",
		SlotDuration:    5,
		MaxAppointments: 11,
		AppointmentType: "surgery",
		Location:        &models.Location{Type: "physical"},
	}

	_, err := uc.Execute(context.Background(), req)
	require.ErrorIs(t, err, domain.ErrValidation)

	var verr *domain.ValidationError
	require.True(t, errors.As(err, &verr))

	fields := make([]string, 0, len(verr.Failures))
	for _, f := range verr.Failures {
		fields = append(fields, f.Field)
	}
	assert.ElementsMatch(t, []string{
		"date", "end_time", "slot_duration", "max_appointments", "location.address", "appointment_type",
	}, fields)
}

func TestUseCase_Execute_Conflicts(t *testing.T) {
	tests := []struct {
		name  string
		start string
		end   string
		want  domain.ConflictType
	}{
		{name: "contained in existing slot", start: "09:10", end: "09:20", want: domain.ConflictOverlap},
		{name: "inside break buffer", start: "09:35", end: "10:00", want: domain.ConflictBreakViolation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uc, _, _, metrics := newUseCase(t)
			providerID := uuid.New()

			_, err := uc.Execute(context.Background(), request(providerID, "09:00", "09:30"))
			require.NoError(t, err)

			_, err = uc.Execute(context.Background(), request(providerID, tt.start, tt.end))
			require.ErrorIs(t, err, domain.ErrConflict)

			var cerr *domain.ConflictError
			require.True(t, errors.As(err, &cerr))
			assert.Equal(t, []domain.ConflictType{tt.want}, conflicts.Types(cerr.Conflicts))
			assert.Equal(t, 1, metrics.conflicts[string(tt.want)])
		})
	}
}

func TestUseCase_Execute_TimezoneMismatch(t *testing.T) {
	uc, _, schedules, _ := newUseCase(t)
	providerID := uuid.New()

	_, err := schedules.Upsert(context.Background(), &domain.ProviderSchedule{
		ProviderID: providerID,
		Timezone:   "Europe/London",
	})
	require.NoError(t, err)

	req := request(providerID, "09:00", "09:30")
	req.Timezone = "Asia/Tokyo"
	_, err = uc.Execute(context.Background(), req)

	var cerr *domain.ConflictError
	require.True(t, errors.As(err, &cerr))
	assert.Equal(t, []domain.ConflictType{domain.ConflictTimezoneMismatch}, conflicts.Types(cerr.Conflicts))
}

func TestUseCase_Execute_InvalidProvider(t *testing.T) {
	uc, _, _, _ := newUseCase(t)
	req := request(uuid.New(), "09:00", "09:30")
	req.ProviderID = "doctor-1"

	_, err := uc.Execute(context.Background(), req)
	assert.ErrorIs(t, err, ErrInvalidInput)
}
