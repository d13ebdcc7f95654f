package domain

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/m04kA/SMC-AvailabilityService/pkg/types"
)

func TestAvailabilitySlot_RecomputeStatus(t *testing.T) {
	s := &AvailabilitySlot{MaxAppointments: 2, Status: SlotStatusAvailable}

	s.CurrentBookings = 1
	s.RecomputeStatus()
	assert.Equal(t, SlotStatusBooked, s.Status)
	assert.True(t, s.IsBookable())

	s.CurrentBookings = 2
	assert.False(t, s.IsBookable())

	s.CurrentBookings = 0
	s.RecomputeStatus()
	assert.Equal(t, SlotStatusAvailable, s.Status)

	s.Status = SlotStatusCancelled
	s.RecomputeStatus()
	assert.Equal(t, SlotStatusCancelled, s.Status)
	assert.False(t, s.IsBookable())
}

func TestAvailabilitySlot_Overlaps(t *testing.T) {
	a := &AvailabilitySlot{StartTime: types.MustTimeString("09:00"), EndTime: types.MustTimeString("10:00")}

	tests := []struct {
		name       string
		start, end string
		want       bool
	}{
		{"inside", "09:15", "09:45", true},
		{"crosses start", "08:30", "09:30", true},
		{"touches end", "10:00", "10:30", false},
		{"touches start", "08:00", "09:00", false},
		{"disjoint", "11:00", "12:00", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := &AvailabilitySlot{StartTime: types.MustTimeString(tt.start), EndTime: types.MustTimeString(tt.end)}
			assert.Equal(t, tt.want, a.Overlaps(b))
			assert.Equal(t, tt.want, b.Overlaps(a))
		})
	}
}

func TestSlotFilter_Matches(t *testing.T) {
	provider := uuid.New()
	date := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)
	slot := &AvailabilitySlot{ProviderID: provider, Date: date, Status: SlotStatusAvailable, AppointmentType: "consultation"}

	status := SlotStatusBooked
	from := date.AddDate(0, 0, 1)
	other := uuid.New()

	assert.True(t, SlotFilter{ProviderID: &provider, Date: &date}.Matches(slot))
	assert.False(t, SlotFilter{ProviderID: &other}.Matches(slot))
	assert.False(t, SlotFilter{Status: &status}.Matches(slot))
	assert.False(t, SlotFilter{DateFrom: &from}.Matches(slot))
}

func TestAvailabilitySlot_CloneIsIndependent(t *testing.T) {
	notes := "bring referral"
	s := &AvailabilitySlot{Tags: []string{"a"}, Notes: &notes, Location: &Location{Type: LocationPhysical, Address: "Main st"}}

	cp := s.Clone()
	cp.Tags[0] = "b"
	*cp.Notes = "changed"
	cp.Location.Address = "Other"

	assert.Equal(t, "a", s.Tags[0])
	assert.Equal(t, "bring referral", *s.Notes)
	assert.Equal(t, "Main st", s.Location.Address)
}
