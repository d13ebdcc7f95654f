package domain

import "time"

// Frequency частота повторения
type Frequency string

const (
	FrequencyDaily   Frequency = "daily"
	FrequencyWeekly  Frequency = "weekly"
	FrequencyMonthly Frequency = "monthly"
)

// IsValid проверяет, что частота известна
func (f Frequency) IsValid() bool {
	switch f {
	case FrequencyDaily, FrequencyWeekly, FrequencyMonthly:
		return true
	}
	return false
}

// RecurrencePattern правило повторения слота.
// DaysOfWeek: 0 = воскресенье, как time.Weekday.
type RecurrencePattern struct {
	Frequency      Frequency
	Interval       int
	DaysOfWeek     []int
	EndDate        *time.Time
	MaxOccurrences *int
	Exceptions     []time.Time
}

// IsBounded задан ли конец повторения
func (p *RecurrencePattern) IsBounded() bool {
	return p.EndDate != nil || (p.MaxOccurrences != nil && *p.MaxOccurrences > 0)
}

// IsException дата исключена из повторения
func (p *RecurrencePattern) IsException(date time.Time) bool {
	for _, ex := range p.Exceptions {
		if SameDate(ex, date) {
			return true
		}
	}
	return false
}

// Clone глубокая копия
func (p *RecurrencePattern) Clone() *RecurrencePattern {
	if p == nil {
		return nil
	}
	cp := *p
	cp.DaysOfWeek = append([]int(nil), p.DaysOfWeek...)
	cp.Exceptions = append([]time.Time(nil), p.Exceptions...)
	if p.EndDate != nil {
		end := *p.EndDate
		cp.EndDate = &end
	}
	if p.MaxOccurrences != nil {
		n := *p.MaxOccurrences
		cp.MaxOccurrences = &n
	}
	return &cp
}
