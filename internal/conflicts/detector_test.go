package conflicts

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-AvailabilityService/internal/domain"
	"github.com/m04kA/SMC-AvailabilityService/pkg/types"
)

var (
	providerID = uuid.New()
	day        = time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC) // понедельник
)

func slot(start, end string) *domain.AvailabilitySlot {
	return &domain.AvailabilitySlot{
		ID:              uuid.New(),
		ProviderID:      providerID,
		Date:            day,
		StartTime:       types.MustTimeString(start),
		EndTime:         types.MustTimeString(end),
		Timezone:        "UTC",
		MaxAppointments: 1,
		Status:          domain.SlotStatusAvailable,
	}
}

func TestCheckConflicts_Overlap(t *testing.T) {
	existing := slot("09:00", "10:00")
	candidate := slot("09:30", "10:30")

	got := CheckConflicts(candidate, []*domain.AvailabilitySlot{existing}, nil, DefaultPolicy())

	require.Len(t, got, 1)
	assert.Equal(t, domain.ConflictOverlap, got[0].Type)
	assert.Equal(t, existing.ID, got[0].ConflictingSlot.ID)
}

func TestCheckConflicts_BreakViolation(t *testing.T) {
	existing := slot("09:00", "10:00")
	candidate := slot("10:10", "11:00")
	schedule := &domain.ProviderSchedule{ProviderID: providerID, DefaultBreakDuration: 15}

	got := CheckConflicts(candidate, []*domain.AvailabilitySlot{existing}, schedule, DefaultPolicy())

	require.Len(t, got, 1)
	assert.Equal(t, domain.ConflictBreakViolation, got[0].Type)
}

func TestCheckConflicts_BreakBeforeExisting(t *testing.T) {
	existing := slot("11:00", "12:00")
	candidate := slot("10:00", "10:50")
	candidate.BreakDuration = 15

	got := CheckConflicts(candidate, []*domain.AvailabilitySlot{existing}, nil, DefaultPolicy())

	assert.Equal(t, []domain.ConflictType{domain.ConflictBreakViolation}, Types(got))
}

func TestCheckConflicts_NoConflicts(t *testing.T) {
	existing := slot("09:00", "10:00")
	candidate := slot("10:15", "11:00")
	schedule := &domain.ProviderSchedule{ProviderID: providerID, DefaultBreakDuration: 15, Timezone: "UTC"}

	got := CheckConflicts(candidate, []*domain.AvailabilitySlot{existing}, schedule, DefaultPolicy())

	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestCheckConflicts_IgnoresCancelledSelfAndOtherDays(t *testing.T) {
	candidate := slot("09:00", "10:00")

	cancelled := slot("09:00", "10:00")
	cancelled.Status = domain.SlotStatusCancelled

	self := candidate.Clone()

	otherDay := slot("09:00", "10:00")
	otherDay.Date = day.AddDate(0, 0, 1)

	otherProvider := slot("09:00", "10:00")
	otherProvider.ProviderID = uuid.New()

	got := CheckConflicts(candidate, []*domain.AvailabilitySlot{cancelled, self, otherDay, otherProvider}, nil, DefaultPolicy())
	assert.Empty(t, got)
}

func TestCheckConflicts_MaxAppointments(t *testing.T) {
	candidate := slot("09:00", "10:00")
	candidate.MaxAppointments = 12

	got := CheckConflicts(candidate, nil, nil, DefaultPolicy())
	assert.Equal(t, []domain.ConflictType{domain.ConflictMaxAppointments}, Types(got))
}

func TestCheckConflicts_DailyCeiling(t *testing.T) {
	existing := slot("09:00", "10:00")
	existing.MaxAppointments = 4
	candidate := slot("11:00", "12:00")
	candidate.MaxAppointments = 3

	schedule := &domain.ProviderSchedule{
		ProviderID: providerID,
		Weekdays: map[time.Weekday]domain.DaySchedule{
			time.Monday: {IsWorkingDay: true, StartTime: "08:00", EndTime: "18:00", MaxAppointments: 6},
		},
	}

	got := CheckConflicts(candidate, []*domain.AvailabilitySlot{existing}, schedule, DefaultPolicy())
	assert.Equal(t, []domain.ConflictType{domain.ConflictMaxAppointments}, Types(got))
}

func TestCheckConflicts_CollectsEveryType(t *testing.T) {
	overlapping := slot("09:00", "10:00")
	adjacent := slot("10:35", "11:00")
	candidate := slot("09:30", "10:30")
	candidate.Timezone = "Asia/Tokyo"
	candidate.MaxAppointments = 11

	schedule := &domain.ProviderSchedule{ProviderID: providerID, DefaultBreakDuration: 10, Timezone: "UTC"}

	got := CheckConflicts(candidate, []*domain.AvailabilitySlot{overlapping, adjacent}, schedule, DefaultPolicy())

	assert.Equal(t, []domain.ConflictType{
		domain.ConflictOverlap,
		domain.ConflictBreakViolation,
		domain.ConflictMaxAppointments,
		domain.ConflictTimezoneMismatch,
	}, Types(got))
}
