package models

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-AvailabilityService/internal/domain"
	"github.com/m04kA/SMC-AvailabilityService/pkg/types"
)

var (
	// ErrInvalidWeekday возвращается для неизвестного имени дня недели
	ErrInvalidWeekday = errors.New("invalid weekday")

	// ErrInvalidTime возвращается для времени не в формате HH:MM
	ErrInvalidTime = errors.New("invalid time")
)

// DaySchedule расписание на день недели
type DaySchedule struct {
	IsWorkingDay     bool     `json:"is_working_day"`
	StartTime        string   `json:"start_time,omitempty"`
	EndTime          string   `json:"end_time,omitempty"`
	BreakStart       *string  `json:"break_start,omitempty"`
	BreakEnd         *string  `json:"break_end,omitempty"`
	AppointmentTypes []string `json:"appointment_types,omitempty"`
	MaxAppointments  int      `json:"max_appointments,omitempty"`
}

// WorkingHours рабочие часы по умолчанию
type WorkingHours struct {
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
}

// Request модели

// UpsertScheduleRequest полная замена расписания провайдера
type UpsertScheduleRequest struct {
	Weekdays             map[string]DaySchedule `json:"weekdays"`
	Timezone             string                 `json:"timezone"`
	DefaultSlotDuration  int                    `json:"default_slot_duration"`
	DefaultBreakDuration int                    `json:"default_break_duration"`
	WorkingHours         WorkingHours           `json:"working_hours"`
}

// ToDomainSchedule парсит время и дни недели
func (r *UpsertScheduleRequest) ToDomainSchedule(providerID uuid.UUID) (*domain.ProviderSchedule, error) {
	s := &domain.ProviderSchedule{
		ProviderID:           providerID,
		Timezone:             r.Timezone,
		DefaultSlotDuration:  r.DefaultSlotDuration,
		DefaultBreakDuration: r.DefaultBreakDuration,
		Weekdays:             make(map[time.Weekday]domain.DaySchedule, len(r.Weekdays)),
	}

	var err error
	if s.WorkingHours.StartTime, err = parseTime("working_hours.start_time", r.WorkingHours.StartTime); err != nil {
		return nil, err
	}
	if s.WorkingHours.EndTime, err = parseTime("working_hours.end_time", r.WorkingHours.EndTime); err != nil {
		return nil, err
	}

	for name, dto := range r.Weekdays {
		wd, ok := domain.WeekdayByName(name)
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrInvalidWeekday, name)
		}

		day := domain.DaySchedule{
			IsWorkingDay:     dto.IsWorkingDay,
			AppointmentTypes: dto.AppointmentTypes,
			MaxAppointments:  dto.MaxAppointments,
		}
		if day.StartTime, err = parseOptionalTime(name+".start_time", dto.StartTime); err != nil {
			return nil, err
		}
		if day.EndTime, err = parseOptionalTime(name+".end_time", dto.EndTime); err != nil {
			return nil, err
		}
		if dto.BreakStart != nil {
			t, err := parseTime(name+".break_start", *dto.BreakStart)
			if err != nil {
				return nil, err
			}
			day.BreakStart = &t
		}
		if dto.BreakEnd != nil {
			t, err := parseTime(name+".break_end", *dto.BreakEnd)
			if err != nil {
				return nil, err
			}
			day.BreakEnd = &t
		}
		s.Weekdays[wd] = day
	}

	return s, nil
}

func parseTime(field, raw string) (types.TimeString, error) {
	t, err := types.NewTimeStringFromString(raw)
	if err != nil {
		return "", fmt.Errorf("%w: %s=%q", ErrInvalidTime, field, raw)
	}
	return t, nil
}

func parseOptionalTime(field, raw string) (types.TimeString, error) {
	if raw == "" {
		return "", nil
	}
	return parseTime(field, raw)
}

// Response модели

// ScheduleResponse расписание провайдера
type ScheduleResponse struct {
	ProviderID           string                 `json:"provider_id"`
	Weekdays             map[string]DaySchedule `json:"weekdays"`
	Timezone             string                 `json:"timezone"`
	DefaultSlotDuration  int                    `json:"default_slot_duration"`
	DefaultBreakDuration int                    `json:"default_break_duration"`
	WorkingHours         WorkingHours           `json:"working_hours"`
	UpdatedAt            time.Time              `json:"updated_at"`
}

// FromDomainSchedule конвертирует domain модель в DTO
func FromDomainSchedule(s *domain.ProviderSchedule) *ScheduleResponse {
	if s == nil {
		return nil
	}

	resp := &ScheduleResponse{
		ProviderID:           s.ProviderID.String(),
		Weekdays:             make(map[string]DaySchedule, len(s.Weekdays)),
		Timezone:             s.Timezone,
		DefaultSlotDuration:  s.DefaultSlotDuration,
		DefaultBreakDuration: s.DefaultBreakDuration,
		WorkingHours: WorkingHours{
			StartTime: s.WorkingHours.StartTime.String(),
			EndTime:   s.WorkingHours.EndTime.String(),
		},
		UpdatedAt: s.UpdatedAt,
	}

	for wd, day := range s.Weekdays {
		dto := DaySchedule{
			IsWorkingDay:     day.IsWorkingDay,
			StartTime:        day.StartTime.String(),
			EndTime:          day.EndTime.String(),
			AppointmentTypes: day.AppointmentTypes,
			MaxAppointments:  day.MaxAppointments,
		}
		if day.BreakStart != nil {
			v := day.BreakStart.String()
			dto.BreakStart = &v
		}
		if day.BreakEnd != nil {
			v := day.BreakEnd.String()
			dto.BreakEnd = &v
		}
		resp.Weekdays[domain.WeekdayNames[wd]] = dto
	}

	return resp
}
