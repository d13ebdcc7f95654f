package slotgen

import (
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-AvailabilityService/internal/domain"
)

// maxEnumerationDays предел перебора для правил, ограниченных только количеством повторений
const maxEnumerationDays = 5 * 366

// RecurrenceDates перечисляет даты повторения начиная со start.
// Конец: EndDate включительно или MaxOccurrences дат. Без ограничений перебор
// обрезается горизонтом horizonDays. Исключения отбрасываются до подсчета повторений.
func RecurrenceDates(start time.Time, pattern domain.RecurrencePattern, horizonDays int) ([]time.Time, error) {
	return RecurrenceDatesFrom(start, start, pattern, horizonDays)
}

// RecurrenceDatesFrom как RecurrenceDates, но даты раньше from не выдаются и не
// учитываются в MaxOccurrences. Дни недели и число месяца по-прежнему берутся из start,
// горизонт отсчитывается от более поздней из двух дат.
func RecurrenceDatesFrom(start, from time.Time, pattern domain.RecurrencePattern, horizonDays int) ([]time.Time, error) {
	if err := validatePattern(start, pattern); err != nil {
		return nil, err
	}

	start = domain.DateOnly(start)
	from = domain.DateOnly(from)
	if from.Before(start) {
		from = start
	}
	interval := pattern.Interval
	if interval <= 0 {
		interval = 1
	}

	limit := from.AddDate(0, 0, maxEnumerationDays)
	switch {
	case pattern.EndDate != nil:
		limit = domain.DateOnly(*pattern.EndDate)
	case !pattern.IsBounded():
		if horizonDays <= 0 {
			return nil, fmt.Errorf("%w: unbounded pattern requires a positive horizon", ErrInvalidPattern)
		}
		limit = from.AddDate(0, 0, horizonDays-1)
	}

	maxCount := 0
	if pattern.MaxOccurrences != nil {
		maxCount = *pattern.MaxOccurrences
	}

	var dates []time.Time
	emit := func(d time.Time) bool {
		if d.After(limit) {
			return false
		}
		if d.Before(from) || pattern.IsException(d) {
			return true
		}
		dates = append(dates, d)
		return maxCount == 0 || len(dates) < maxCount
	}

	switch pattern.Frequency {
	case domain.FrequencyDaily:
		for d := start; emit(d); d = d.AddDate(0, 0, interval) {
		}

	case domain.FrequencyWeekly:
		days := weekdays(pattern.DaysOfWeek, start)
		weekStart := start.AddDate(0, 0, -int(start.Weekday()))
	weeks:
		for ; !weekStart.After(limit); weekStart = weekStart.AddDate(0, 0, 7*interval) {
			for _, wd := range days {
				d := weekStart.AddDate(0, 0, wd)
				if d.Before(start) {
					continue
				}
				if !emit(d) {
					break weeks
				}
			}
		}

	case domain.FrequencyMonthly:
		dom := start.Day()
		for k := 0; ; k++ {
			first := time.Date(start.Year(), start.Month()+time.Month(k*interval), 1, 0, 0, 0, 0, time.UTC)
			if first.After(limit) {
				break
			}
			d := time.Date(first.Year(), first.Month(), dom, 0, 0, 0, 0, time.UTC)
			// в месяце нет такого числа
			if d.Month() != first.Month() {
				continue
			}
			if !emit(d) {
				break
			}
		}
	}

	return dates, nil
}

// Materialize создает экземпляр слота из шаблона на указанную дату
func Materialize(template domain.AvailabilitySlot, date time.Time) domain.AvailabilitySlot {
	slot := *template.Clone()
	slot.ID = uuid.New()
	slot.Date = domain.DateOnly(date)
	slot.CurrentBookings = 0
	slot.Status = domain.SlotStatusAvailable
	slot.CancellationReason = nil
	slot.CreatedAt = time.Time{}
	slot.UpdatedAt = time.Time{}
	return slot
}

func validatePattern(start time.Time, p domain.RecurrencePattern) error {
	if !p.Frequency.IsValid() {
		return fmt.Errorf("%w: unknown frequency %q", ErrInvalidPattern, p.Frequency)
	}
	if p.Interval < 0 {
		return fmt.Errorf("%w: interval must be positive", ErrInvalidPattern)
	}
	for _, d := range p.DaysOfWeek {
		if d < 0 || d > 6 {
			return fmt.Errorf("%w: day of week %d is out of range 0..6", ErrInvalidPattern, d)
		}
	}
	if p.MaxOccurrences != nil && *p.MaxOccurrences < 0 {
		return fmt.Errorf("%w: max occurrences must not be negative", ErrInvalidPattern)
	}
	if p.EndDate != nil && domain.DateOnly(*p.EndDate).Before(domain.DateOnly(start)) {
		return fmt.Errorf("%w: end date is before start date", ErrInvalidPattern)
	}
	return nil
}

// weekdays уникальные отсортированные дни недели, по умолчанию день недели start
func weekdays(days []int, start time.Time) []int {
	if len(days) == 0 {
		return []int{int(start.Weekday())}
	}
	seen := make(map[int]struct{}, len(days))
	out := make([]int, 0, len(days))
	for _, d := range days {
		if _, ok := seen[d]; ok {
			continue
		}
		seen[d] = struct{}{}
		out = append(out, d)
	}
	sort.Ints(out)
	return out
}
