package schedule

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/m04kA/SMC-AvailabilityService/internal/domain"
	"github.com/m04kA/SMC-AvailabilityService/pkg/types"
)

// dayRecord JSONB представление DaySchedule, ключ - имя дня недели
type dayRecord struct {
	IsWorkingDay     bool     `json:"is_working_day"`
	StartTime        string   `json:"start_time,omitempty"`
	EndTime          string   `json:"end_time,omitempty"`
	BreakStart       *string  `json:"break_start,omitempty"`
	BreakEnd         *string  `json:"break_end,omitempty"`
	AppointmentTypes []string `json:"appointment_types,omitempty"`
	MaxAppointments  int      `json:"max_appointments,omitempty"`
}

func encodeWeekdays(s *domain.ProviderSchedule) (string, error) {
	records := make(map[string]dayRecord, len(s.Weekdays))
	for wd, day := range s.Weekdays {
		rec := dayRecord{
			IsWorkingDay:     day.IsWorkingDay,
			StartTime:        day.StartTime.String(),
			EndTime:          day.EndTime.String(),
			AppointmentTypes: day.AppointmentTypes,
			MaxAppointments:  day.MaxAppointments,
		}
		if day.BreakStart != nil {
			v := day.BreakStart.String()
			rec.BreakStart = &v
		}
		if day.BreakEnd != nil {
			v := day.BreakEnd.String()
			rec.BreakEnd = &v
		}
		records[domain.WeekdayNames[wd]] = rec
	}

	raw, err := json.Marshal(records)
	if err != nil {
		return "", err
	}
	return string(raw), nil
}

func decodeWeekdays(raw []byte, s *domain.ProviderSchedule) error {
	var records map[string]dayRecord
	if err := json.Unmarshal(raw, &records); err != nil {
		return err
	}

	s.Weekdays = make(map[time.Weekday]domain.DaySchedule, len(records))
	for name, rec := range records {
		wd, ok := domain.WeekdayByName(name)
		if !ok {
			return fmt.Errorf("unknown weekday %q", name)
		}
		day := domain.DaySchedule{
			IsWorkingDay:     rec.IsWorkingDay,
			StartTime:        types.TimeString(rec.StartTime),
			EndTime:          types.TimeString(rec.EndTime),
			AppointmentTypes: rec.AppointmentTypes,
			MaxAppointments:  rec.MaxAppointments,
		}
		if rec.BreakStart != nil {
			v := types.TimeString(*rec.BreakStart)
			day.BreakStart = &v
		}
		if rec.BreakEnd != nil {
			v := types.TimeString(*rec.BreakEnd)
			day.BreakEnd = &v
		}
		s.Weekdays[wd] = day
	}
	return nil
}
