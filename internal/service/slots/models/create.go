package models

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-AvailabilityService/internal/domain"
	"github.com/m04kA/SMC-AvailabilityService/pkg/types"
)

// CreateSlotRequest данные нового слота. Нулевые длительности и max_appointments
// означают "не указано" и заменяются значениями по умолчанию.
type CreateSlotRequest struct {
	ProviderID        string             `json:"provider_id"`
	Date              string             `json:"date"`
	StartTime         string             `json:"start_time"`
	EndTime           string             `json:"end_time"`
	Timezone          string             `json:"timezone,omitempty"`
	AppointmentType   string             `json:"appointment_type,omitempty"`
	SlotDuration      int                `json:"slot_duration,omitempty"`
	BreakDuration     int                `json:"break_duration,omitempty"`
	MaxAppointments   int                `json:"max_appointments,omitempty"`
	Location          *Location          `json:"location,omitempty"`
	Pricing           *Pricing           `json:"pricing,omitempty"`
	Notes             *string            `json:"notes,omitempty"`
	Tags              []string           `json:"tags,omitempty"`
	IsRecurring       bool               `json:"is_recurring,omitempty"`
	RecurrencePattern *RecurrencePattern `json:"recurrence_pattern,omitempty"`
}

// Draft сырые поля для структурной проверки
func (r *CreateSlotRequest) Draft() domain.SlotDraft {
	return domain.SlotDraft{
		Date:            r.Date,
		StartTime:       r.StartTime,
		EndTime:         r.EndTime,
		Timezone:        r.Timezone,
		SlotDuration:    r.SlotDuration,
		BreakDuration:   r.BreakDuration,
		MaxAppointments: r.MaxAppointments,
		Location:        r.Location.ToDomain(),
	}
}

// ToDomainSlot собирает слот из проверенного запроса
func (r *CreateSlotRequest) ToDomainSlot(providerID uuid.UUID) (*domain.AvailabilitySlot, error) {
	date, err := domain.ParseDate(r.Date)
	if err != nil {
		return nil, fmt.Errorf("date: %w", err)
	}
	start, err := types.NewTimeStringFromString(r.StartTime)
	if err != nil {
		return nil, fmt.Errorf("start_time: %w", err)
	}
	end, err := types.NewTimeStringFromString(r.EndTime)
	if err != nil {
		return nil, fmt.Errorf("end_time: %w", err)
	}
	pattern, err := r.RecurrencePattern.ToDomain()
	if err != nil {
		return nil, err
	}

	slot := &domain.AvailabilitySlot{
		ProviderID:        providerID,
		Date:              date,
		StartTime:         start,
		EndTime:           end,
		Timezone:          r.Timezone,
		AppointmentType:   r.AppointmentType,
		SlotDuration:      r.SlotDuration,
		BreakDuration:     r.BreakDuration,
		MaxAppointments:   r.MaxAppointments,
		Location:          r.Location.ToDomain(),
		Pricing:           r.Pricing.ToDomain(),
		Notes:             r.Notes,
		Tags:              r.Tags,
		IsRecurring:       r.IsRecurring || pattern != nil,
		RecurrencePattern: pattern,
		Status:            domain.SlotStatusAvailable,
	}
	ApplySlotDefaults(slot)
	return slot, nil
}

// ApplySlotDefaults заполняет незаданные поля значениями по умолчанию
func ApplySlotDefaults(slot *domain.AvailabilitySlot) {
	if slot.AppointmentType == "" {
		slot.AppointmentType = domain.DefaultAppointmentType
	}
	if slot.SlotDuration == 0 {
		slot.SlotDuration = domain.DefaultSlotDurationMinutes
	}
	if slot.BreakDuration == 0 {
		slot.BreakDuration = domain.DefaultBreakDurationMinutes
	}
	if slot.MaxAppointments == 0 {
		slot.MaxAppointments = domain.DefaultMaxAppointments
	}
	if slot.Tags == nil {
		slot.Tags = []string{}
	}
}

// CreateRecurringRequest базовый слот и правило повторения.
// Exceptions дополняют исключения правила.
type CreateRecurringRequest struct {
	BaseSlot   CreateSlotRequest `json:"base_slot"`
	Recurrence RecurrencePattern `json:"recurrence"`
	Exceptions []string          `json:"exceptions,omitempty"`
}

// GenerateSlotsRequest период генерации слотов по расписанию провайдера
type GenerateSlotsRequest struct {
	StartDate       string `json:"start_date"`
	EndDate         string `json:"end_date"`
	AppointmentType string `json:"appointment_type,omitempty"`
	MaxAppointments int    `json:"max_appointments,omitempty"`
}

// BatchResponse результат пакетного создания слотов
type BatchResponse struct {
	RecurrenceGroupID *string        `json:"recurrence_group_id,omitempty"`
	Accepted          []SlotResponse `json:"accepted"`
	Rejected          []RejectedDate `json:"rejected"`
}

// FromDomainBatch конвертирует результат пакетного создания
func FromDomainBatch(groupID *uuid.UUID, accepted []*domain.AvailabilitySlot, rejected []domain.RejectedDate) *BatchResponse {
	resp := &BatchResponse{
		Accepted: FromDomainSlotList(accepted).Slots,
		Rejected: FromDomainRejected(rejected),
	}
	if groupID != nil {
		id := groupID.String()
		resp.RecurrenceGroupID = &id
	}
	return resp
}

// CheckConflictsResponse все найденные проблемы кандидата
type CheckConflictsResponse struct {
	HasConflicts     bool                `json:"has_conflicts"`
	Conflicts        []SlotConflict      `json:"conflicts"`
	ValidationErrors []ValidationFailure `json:"validation_errors"`
}
