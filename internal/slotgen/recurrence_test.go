package slotgen

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-AvailabilityService/internal/domain"
	"github.com/m04kA/SMC-AvailabilityService/pkg/ptr"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func formatDates(dates []time.Time) []string {
	out := make([]string, len(dates))
	for i, d := range dates {
		out[i] = d.Format(domain.DateFormat)
	}
	return out
}

func TestRecurrenceDates_Daily(t *testing.T) {
	pattern := domain.RecurrencePattern{
		Frequency: domain.FrequencyDaily,
		Interval:  2,
		EndDate:   ptr.Ptr(date(2025, 3, 9)),
	}

	got, err := RecurrenceDates(date(2025, 3, 1), pattern, 90)
	require.NoError(t, err)
	assert.Equal(t, []string{"2025-03-01", "2025-03-03", "2025-03-05", "2025-03-07", "2025-03-09"}, formatDates(got))
}

func TestRecurrenceDates_WeeklyDaysOfWeek(t *testing.T) {
	// 2025-03-03 понедельник
	pattern := domain.RecurrencePattern{
		Frequency:      domain.FrequencyWeekly,
		Interval:       1,
		DaysOfWeek:     []int{3, 1},
		MaxOccurrences: ptr.Ptr(4),
	}

	got, err := RecurrenceDates(date(2025, 3, 3), pattern, 90)
	require.NoError(t, err)
	assert.Equal(t, []string{"2025-03-03", "2025-03-05", "2025-03-10", "2025-03-12"}, formatDates(got))
}

func TestRecurrenceDates_WeeklyDefaultsToStartWeekdayAndInterval(t *testing.T) {
	pattern := domain.RecurrencePattern{
		Frequency:      domain.FrequencyWeekly,
		Interval:       2,
		MaxOccurrences: ptr.Ptr(3),
	}

	got, err := RecurrenceDates(date(2025, 3, 5), pattern, 90)
	require.NoError(t, err)
	assert.Equal(t, []string{"2025-03-05", "2025-03-19", "2025-04-02"}, formatDates(got))
}

func TestRecurrenceDates_WeeklySkipsDaysBeforeStart(t *testing.T) {
	// старт в среду, понедельник той же недели не попадает
	pattern := domain.RecurrencePattern{
		Frequency:  domain.FrequencyWeekly,
		DaysOfWeek: []int{1, 5},
		EndDate:    ptr.Ptr(date(2025, 3, 11)),
	}

	got, err := RecurrenceDates(date(2025, 3, 5), pattern, 90)
	require.NoError(t, err)
	assert.Equal(t, []string{"2025-03-07", "2025-03-10"}, formatDates(got))
}

func TestRecurrenceDates_MonthlySkipsShortMonths(t *testing.T) {
	pattern := domain.RecurrencePattern{
		Frequency:      domain.FrequencyMonthly,
		Interval:       1,
		MaxOccurrences: ptr.Ptr(3),
	}

	got, err := RecurrenceDates(date(2025, 1, 31), pattern, 90)
	require.NoError(t, err)
	assert.Equal(t, []string{"2025-01-31", "2025-03-31", "2025-05-31"}, formatDates(got))
}

func TestRecurrenceDates_ExceptionsNotCounted(t *testing.T) {
	pattern := domain.RecurrencePattern{
		Frequency:      domain.FrequencyDaily,
		MaxOccurrences: ptr.Ptr(3),
		Exceptions:     []time.Time{date(2025, 3, 2)},
	}

	got, err := RecurrenceDates(date(2025, 3, 1), pattern, 90)
	require.NoError(t, err)
	assert.Equal(t, []string{"2025-03-01", "2025-03-03", "2025-03-04"}, formatDates(got))
}

func TestRecurrenceDates_UnboundedUsesHorizon(t *testing.T) {
	pattern := domain.RecurrencePattern{Frequency: domain.FrequencyDaily}

	got, err := RecurrenceDates(date(2025, 3, 1), pattern, 7)
	require.NoError(t, err)
	assert.Len(t, got, 7)
	assert.Equal(t, "2025-03-07", got[6].Format(domain.DateFormat))

	_, err = RecurrenceDates(date(2025, 3, 1), pattern, 0)
	assert.ErrorIs(t, err, ErrInvalidPattern)
}

func TestRecurrenceDates_InvalidPattern(t *testing.T) {
	tests := []struct {
		name    string
		pattern domain.RecurrencePattern
	}{
		{"unknown frequency", domain.RecurrencePattern{Frequency: "yearly"}},
		{"negative interval", domain.RecurrencePattern{Frequency: domain.FrequencyDaily, Interval: -1}},
		{"bad weekday", domain.RecurrencePattern{Frequency: domain.FrequencyWeekly, DaysOfWeek: []int{7}}},
		{"end before start", domain.RecurrencePattern{Frequency: domain.FrequencyDaily, EndDate: ptr.Ptr(date(2025, 2, 1))}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := RecurrenceDates(date(2025, 3, 1), tt.pattern, 30)
			assert.ErrorIs(t, err, ErrInvalidPattern)
		})
	}
}

func TestRecurrenceDatesFrom_CountsFromLaterDate(t *testing.T) {
	tests := []struct {
		name    string
		start   time.Time
		from    time.Time
		pattern domain.RecurrencePattern
		want    []string
	}{
		{
			name:    "daily occurrences counted from from",
			start:   date(2025, 3, 1),
			from:    date(2025, 3, 3),
			pattern: domain.RecurrencePattern{Frequency: domain.FrequencyDaily, Interval: 1, MaxOccurrences: ptr.Ptr(3)},
			want:    []string{"2025-03-03", "2025-03-04", "2025-03-05"},
		},
		{
			name:    "daily interval keeps start anchor",
			start:   date(2025, 3, 1),
			from:    date(2025, 3, 4),
			pattern: domain.RecurrencePattern{Frequency: domain.FrequencyDaily, Interval: 2, MaxOccurrences: ptr.Ptr(2)},
			want:    []string{"2025-03-05", "2025-03-07"},
		},
		{
			// 2025-03-03 понедельник
			name:    "weekly keeps start weekday",
			start:   date(2025, 3, 3),
			from:    date(2025, 3, 12),
			pattern: domain.RecurrencePattern{Frequency: domain.FrequencyWeekly, Interval: 1, MaxOccurrences: ptr.Ptr(2)},
			want:    []string{"2025-03-17", "2025-03-24"},
		},
		{
			name:    "monthly keeps day of month",
			start:   date(2025, 1, 15),
			from:    date(2025, 3, 1),
			pattern: domain.RecurrencePattern{Frequency: domain.FrequencyMonthly, Interval: 1, MaxOccurrences: ptr.Ptr(2)},
			want:    []string{"2025-03-15", "2025-04-15"},
		},
		{
			name:    "from before start is ignored",
			start:   date(2025, 3, 10),
			from:    date(2025, 3, 1),
			pattern: domain.RecurrencePattern{Frequency: domain.FrequencyDaily, Interval: 1, MaxOccurrences: ptr.Ptr(2)},
			want:    []string{"2025-03-10", "2025-03-11"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := RecurrenceDatesFrom(tt.start, tt.from, tt.pattern, 90)
			require.NoError(t, err)
			assert.Equal(t, tt.want, formatDates(got))
		})
	}
}

func TestRecurrenceDatesFrom_HorizonStartsAtFrom(t *testing.T) {
	pattern := domain.RecurrencePattern{Frequency: domain.FrequencyDaily, Interval: 1}

	got, err := RecurrenceDatesFrom(date(2025, 1, 1), date(2025, 3, 1), pattern, 5)
	require.NoError(t, err)
	assert.Equal(t, []string{"2025-03-01", "2025-03-02", "2025-03-03", "2025-03-04", "2025-03-05"}, formatDates(got))
}

func TestMaterialize(t *testing.T) {
	template := domain.AvailabilitySlot{
		ID:              uuid.New(),
		ProviderID:      uuid.New(),
		Date:            date(2025, 3, 1),
		StartTime:       ts("09:00"),
		EndTime:         ts("09:30"),
		MaxAppointments: 2,
		CurrentBookings: 2,
		Status:          domain.SlotStatusBooked,
		Tags:            []string{"new-patients"},
	}

	got := Materialize(template, date(2025, 3, 8))

	assert.NotEqual(t, template.ID, got.ID)
	assert.Equal(t, template.ProviderID, got.ProviderID)
	assert.Equal(t, "2025-03-08", got.Date.Format(domain.DateFormat))
	assert.Equal(t, 0, got.CurrentBookings)
	assert.Equal(t, domain.SlotStatusAvailable, got.Status)

	got.Tags[0] = "changed"
	assert.Equal(t, "new-patients", template.Tags[0])
}
