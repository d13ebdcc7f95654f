package slotgen

import (
	"fmt"

	"github.com/m04kA/SMC-AvailabilityService/internal/domain"
	"github.com/m04kA/SMC-AvailabilityService/pkg/types"
)

// TimeRange полуинтервал [Start, End)
type TimeRange struct {
	Start types.TimeString
	End   types.TimeString
}

// GenerateDailySlots возвращает времена начала слотов в окне [start, end).
// Перерыв вставляется только между соседними слотами.
func GenerateDailySlots(start, end types.TimeString, slotDuration, breakDuration int) ([]types.TimeString, error) {
	from, to, err := bounds(start, end, slotDuration, breakDuration)
	if err != nil {
		return nil, err
	}

	starts := make([]types.TimeString, 0, (to-from)/slotDuration+1)
	for cursor := from; cursor < to; {
		ts, err := types.FromMinutes(cursor)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidRange, err)
		}
		starts = append(starts, ts)

		cursor += slotDuration
		if cursor < to {
			cursor += breakDuration
		}
	}

	return starts, nil
}

// GenerateDaySlots строит слоты рабочего дня. Слоты, которые заканчиваются
// позже конца дня или задевают перерыв дня, отбрасываются.
func GenerateDaySlots(day domain.DaySchedule, slotDuration, breakDuration int) ([]TimeRange, error) {
	starts, err := GenerateDailySlots(day.StartTime, day.EndTime, slotDuration, breakDuration)
	if err != nil {
		return nil, err
	}

	dayEnd := day.EndTime.Minutes()
	breakFrom, breakTo := -1, -1
	if day.HasBreak() {
		breakFrom, breakTo = day.BreakStart.Minutes(), day.BreakEnd.Minutes()
	}

	ranges := make([]TimeRange, 0, len(starts))
	for _, st := range starts {
		from := st.Minutes()
		to := from + slotDuration
		if to > dayEnd {
			continue
		}
		if breakFrom >= 0 && from < breakTo && to > breakFrom {
			continue
		}

		end, err := types.FromMinutes(to)
		if err != nil {
			continue
		}
		ranges = append(ranges, TimeRange{Start: st, End: end})
	}

	return ranges, nil
}

func bounds(start, end types.TimeString, slotDuration, breakDuration int) (int, int, error) {
	from, to := start.Minutes(), end.Minutes()
	if from < 0 || to < 0 {
		return 0, 0, fmt.Errorf("%w: start=%q end=%q", ErrInvalidRange, start, end)
	}
	if from >= to {
		return 0, 0, fmt.Errorf("%w: start %s must be before end %s", ErrInvalidRange, start, end)
	}
	if slotDuration <= 0 {
		return 0, 0, fmt.Errorf("%w: slot duration must be positive", ErrInvalidRange)
	}
	if breakDuration < 0 {
		return 0, 0, fmt.Errorf("%w: break duration must not be negative", ErrInvalidRange)
	}
	return from, to, nil
}
