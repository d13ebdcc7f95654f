package check_conflicts

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-AvailabilityService/internal/conflicts"
	"github.com/m04kA/SMC-AvailabilityService/internal/domain"
	"github.com/m04kA/SMC-AvailabilityService/internal/infra/storage/memory"
	"github.com/m04kA/SMC-AvailabilityService/internal/service/slots/models"
	"github.com/m04kA/SMC-AvailabilityService/internal/timezone"
	"github.com/m04kA/SMC-AvailabilityService/pkg/logger"
)

func setup(t *testing.T) (*UseCase, uuid.UUID, *domain.AvailabilitySlot) {
	t.Helper()
	slots := memory.NewSlotRepository()
	providerID := uuid.New()

	existing, err := slots.Create(context.Background(), &domain.AvailabilitySlot{
		ProviderID:      providerID,
		Date:            time.Date(2026, 4, 6, 0, 0, 0, 0, time.UTC),
		StartTime:       "09:00",
		EndTime:         "10:00",
		Timezone:        "UTC",
		BreakDuration:   15,
		MaxAppointments: 1,
		Status:          domain.SlotStatusAvailable,
	})
	require.NoError(t, err)

	zones := timezone.NewResolver("UTC")
	policy := conflicts.DefaultPolicy()
	policy.Zones = zones

	return NewUseCase(slots, memory.NewScheduleRepository(), zones, policy, logger.NewNop()), providerID, existing
}

func candidate(providerID uuid.UUID, start, end string) *Request {
	return &Request{CreateSlotRequest: models.CreateSlotRequest{
		ProviderID: providerID.String(),
		Date:       "2026-04-06",
		StartTime:  start,
		EndTime:    end,
	}}
}

func TestUseCase_Execute(t *testing.T) {
	uc, providerID, _ := setup(t)

	tests := []struct {
		name  string
		start string
		end   string
		want  []string
	}{
		{name: "contained", start: "09:15", end: "09:45", want: []string{"overlap"}},
		{name: "inside break buffer", start: "10:05", end: "10:30", want: []string{"break_violation"}},
		{name: "free", start: "11:00", end: "11:30", want: []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := uc.Execute(context.Background(), candidate(providerID, tt.start, tt.end))
			require.NoError(t, err)

			types := make([]string, 0, len(resp.Conflicts))
			for _, c := range resp.Conflicts {
				types = append(types, c.Type)
			}
			assert.Equal(t, tt.want, types)
			assert.Equal(t, len(tt.want) > 0, resp.HasConflicts)
			assert.Empty(t, resp.ValidationErrors)
		})
	}
}

func TestUseCase_Execute_ExistingSlotIgnoresItself(t *testing.T) {
	uc, providerID, existing := setup(t)

	req := candidate(providerID, "09:00", "09:45")
	req.SlotID = existing.ID.String()

	resp, err := uc.Execute(context.Background(), req)
	require.NoError(t, err)
	assert.Empty(t, resp.Conflicts)
}

func TestUseCase_Execute_ReportsValidationAndConflicts(t *testing.T) {
	uc, providerID, _ := setup(t)

	req := candidate(providerID, "09:30", "10:30")
	req.MaxAppointments = 20

	resp, err := uc.Execute(context.Background(), req)
	require.NoError(t, err)

	require.Len(t, resp.ValidationErrors, 1)
	assert.Equal(t, "max_appointments", resp.ValidationErrors[0].Field)

	types := make([]string, 0, len(resp.Conflicts))
	for _, c := range resp.Conflicts {
		types = append(types, c.Type)
	}
	assert.Equal(t, []string{"overlap", "max_appointments"}, types)
}

func TestUseCase_Execute_UnparseableTimesSkipConflicts(t *testing.T) {
	uc, providerID, _ := setup(t)

	resp, err := uc.Execute(context.Background(), candidate(providerID, "9am", "10:30"))
	require.NoError(t, err)
	assert.Empty(t, resp.Conflicts)
	require.Len(t, resp.ValidationErrors, 1)
	assert.Equal(t, "start_time", resp.ValidationErrors[0].Field)
}
