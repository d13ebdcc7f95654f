package models

import (
	"time"

	"github.com/m04kA/SMC-AvailabilityService/internal/domain"
)

// Request модели

// ListSlotsRequest фильтры списка слотов провайдера
type ListSlotsRequest struct {
	Date            *time.Time
	DateFrom        *time.Time
	DateTo          *time.Time
	Status          *string
	AppointmentType *string
}

// UpdateSlotRequest частичное обновление слота, nil - поле не меняется
type UpdateSlotRequest struct {
	Date            *string   `json:"date,omitempty"`
	StartTime       *string   `json:"start_time,omitempty"`
	EndTime         *string   `json:"end_time,omitempty"`
	Timezone        *string   `json:"timezone,omitempty"`
	AppointmentType *string   `json:"appointment_type,omitempty"`
	SlotDuration    *int      `json:"slot_duration,omitempty"`
	BreakDuration   *int      `json:"break_duration,omitempty"`
	MaxAppointments *int      `json:"max_appointments,omitempty"`
	Location        *Location `json:"location,omitempty"`
	Pricing         *Pricing  `json:"pricing,omitempty"`
	Notes           *string   `json:"notes,omitempty"`
	Tags            []string  `json:"tags,omitempty"`
}

// ChangesSchedule меняет ли запрос дату или время слота
func (r *UpdateSlotRequest) ChangesSchedule() bool {
	return r.Date != nil || r.StartTime != nil || r.EndTime != nil || r.Timezone != nil
}

// Response модели

// SlotResponse слот доступности
type SlotResponse struct {
	ID                 string             `json:"id"`
	ProviderID         string             `json:"provider_id"`
	Date               string             `json:"date"`
	StartTime          string             `json:"start_time"`
	EndTime            string             `json:"end_time"`
	Timezone           string             `json:"timezone"`
	AppointmentType    string             `json:"appointment_type"`
	SlotDuration       int                `json:"slot_duration"`
	BreakDuration      int                `json:"break_duration"`
	MaxAppointments    int                `json:"max_appointments"`
	CurrentBookings    int                `json:"current_bookings"`
	SpotsLeft          int                `json:"spots_left"`
	Location           *Location          `json:"location,omitempty"`
	Pricing            *Pricing           `json:"pricing,omitempty"`
	Notes              *string            `json:"notes,omitempty"`
	Tags               []string           `json:"tags"`
	IsRecurring        bool               `json:"is_recurring"`
	RecurrencePattern  *RecurrencePattern `json:"recurrence_pattern,omitempty"`
	RecurrenceGroupID  *string            `json:"recurrence_group_id,omitempty"`
	Status             string             `json:"status"`
	CancellationReason *string            `json:"cancellation_reason,omitempty"`
	CreatedAt          string             `json:"created_at,omitempty"`
	UpdatedAt          string             `json:"updated_at,omitempty"`
}

// SlotListResponse список слотов
type SlotListResponse struct {
	Slots []SlotResponse `json:"slots"`
	Total int            `json:"total"`
}

// CancelSlotResponse результат отмены: удален или переведен в cancelled
type CancelSlotResponse struct {
	Deleted bool          `json:"deleted"`
	Slot    *SlotResponse `json:"slot,omitempty"`
}

// AvailableSlot свободное время в запрошенном поясе
type AvailableSlot struct {
	SlotID          string `json:"slot_id"`
	Date            string `json:"date"`
	StartTime       string `json:"start_time"`
	EndTime         string `json:"end_time"`
	AppointmentType string `json:"appointment_type"`
	SpotsLeft       int    `json:"spots_left"`
}

// AvailableTimesResponse свободные слоты провайдера на дату
type AvailableTimesResponse struct {
	ProviderID string          `json:"provider_id"`
	Date       string          `json:"date"`
	Timezone   string          `json:"timezone"`
	Slots      []AvailableSlot `json:"slots"`
}

// CheckAvailabilityResponse результат проверки интервала
type CheckAvailabilityResponse struct {
	Available bool          `json:"available"`
	Slot      *SlotResponse `json:"slot,omitempty"`
}

// StatsResponse статистика доступности провайдера
type StatsResponse struct {
	TotalSlots         int     `json:"total_slots"`
	AvailableSlots     int     `json:"available_slots"`
	BookedSlots        int     `json:"booked_slots"`
	CancelledSlots     int     `json:"cancelled_slots"`
	ExpiredSlots       int     `json:"expired_slots"`
	UpcomingBookings   int     `json:"upcoming_bookings"`
	TodayBookings      int     `json:"today_bookings"`
	RevenueThisMonth   float64 `json:"revenue_this_month"`
	AverageBookingRate float64 `json:"average_booking_rate"`
}

// Методы конвертации

// FromDomainSlot конвертирует domain модель в DTO
func FromDomainSlot(s *domain.AvailabilitySlot) *SlotResponse {
	if s == nil {
		return nil
	}

	resp := &SlotResponse{
		ID:                 s.ID.String(),
		ProviderID:         s.ProviderID.String(),
		Date:               s.Date.Format(domain.DateFormat),
		StartTime:          s.StartTime.String(),
		EndTime:            s.EndTime.String(),
		Timezone:           s.Timezone,
		AppointmentType:    s.AppointmentType,
		SlotDuration:       s.SlotDuration,
		BreakDuration:      s.BreakDuration,
		MaxAppointments:    s.MaxAppointments,
		CurrentBookings:    s.CurrentBookings,
		SpotsLeft:          s.SpotsLeft(),
		Location:           FromDomainLocation(s.Location),
		Pricing:            FromDomainPricing(s.Pricing),
		Notes:              s.Notes,
		Tags:               s.Tags,
		IsRecurring:        s.IsRecurring,
		RecurrencePattern:  FromDomainPattern(s.RecurrencePattern),
		Status:             string(s.Status),
		CancellationReason: s.CancellationReason,
		CreatedAt:          formatTimestamp(s.CreatedAt),
		UpdatedAt:          formatTimestamp(s.UpdatedAt),
	}
	if resp.Tags == nil {
		resp.Tags = []string{}
	}
	if s.RecurrenceGroupID != nil {
		id := s.RecurrenceGroupID.String()
		resp.RecurrenceGroupID = &id
	}

	return resp
}

// FromDomainSlotList конвертирует список слотов
func FromDomainSlotList(slots []*domain.AvailabilitySlot) *SlotListResponse {
	resp := &SlotListResponse{
		Slots: make([]SlotResponse, 0, len(slots)),
		Total: len(slots),
	}
	for _, s := range slots {
		resp.Slots = append(resp.Slots, *FromDomainSlot(s))
	}
	return resp
}

// FromDomainStats конвертирует статистику
func FromDomainStats(s *domain.AvailabilityStats) *StatsResponse {
	return &StatsResponse{
		TotalSlots:         s.TotalSlots,
		AvailableSlots:     s.AvailableSlots,
		BookedSlots:        s.BookedSlots,
		CancelledSlots:     s.CancelledSlots,
		ExpiredSlots:       s.ExpiredSlots,
		UpcomingBookings:   s.UpcomingBookings,
		TodayBookings:      s.TodayBookings,
		RevenueThisMonth:   s.RevenueThisMonth,
		AverageBookingRate: s.AverageBookingRate,
	}
}
