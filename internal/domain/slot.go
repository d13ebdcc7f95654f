package domain

import (
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-AvailabilityService/pkg/types"
)

// SlotStatus статус слота доступности
type SlotStatus string

const (
	SlotStatusAvailable SlotStatus = "available"
	SlotStatusBooked    SlotStatus = "booked"
	SlotStatusCancelled SlotStatus = "cancelled"
	SlotStatusExpired   SlotStatus = "expired"
)

// IsValid проверяет, что статус известен
func (s SlotStatus) IsValid() bool {
	switch s {
	case SlotStatusAvailable, SlotStatusBooked, SlotStatusCancelled, SlotStatusExpired:
		return true
	}
	return false
}

// LocationType тип места приема
type LocationType string

const (
	LocationPhysical LocationType = "physical"
	LocationVirtual  LocationType = "virtual"
	LocationHybrid   LocationType = "hybrid"
)

// Location место приема
type Location struct {
	Type              LocationType
	Name              string
	Address           string
	Room              string
	City              string
	State             string
	Zip               string
	Country           string
	VirtualMeetingURL string
	Instructions      string
}

// RequiresAddress physical приему нужен адрес
func (l *Location) RequiresAddress() bool {
	return l != nil && l.Type == LocationPhysical
}

// Pricing стоимость приема
type Pricing struct {
	Fee                float64
	Currency           string
	InsuranceAccepted  bool
	InsuranceProviders []string
	SelfPayDiscount    float64
	CancellationFee    float64
	DepositRequired    bool
	DepositAmount      float64
}

// AvailabilitySlot слот доступности провайдера.
// CurrentBookings меняется только вместе со Status.
type AvailabilitySlot struct {
	ID                uuid.UUID
	ProviderID        uuid.UUID
	Date              time.Time // только дата, 00:00 UTC
	StartTime         types.TimeString
	EndTime           types.TimeString
	Timezone          string
	AppointmentType   string
	SlotDuration      int
	BreakDuration     int
	MaxAppointments   int
	CurrentBookings   int
	Location          *Location
	Pricing           *Pricing
	Notes             *string
	Tags              []string
	IsRecurring       bool
	RecurrencePattern *RecurrencePattern
	RecurrenceGroupID *uuid.UUID

	Status             SlotStatus
	CancellationReason *string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// HasCapacity остались ли свободные места
func (s *AvailabilitySlot) HasCapacity() bool {
	return s.CurrentBookings < s.MaxAppointments
}

// SpotsLeft количество свободных мест
func (s *AvailabilitySlot) SpotsLeft() int {
	if left := s.MaxAppointments - s.CurrentBookings; left > 0 {
		return left
	}
	return 0
}

// IsBookable можно ли записаться на слот
func (s *AvailabilitySlot) IsBookable() bool {
	if s.Status != SlotStatusAvailable && s.Status != SlotStatusBooked {
		return false
	}
	return s.HasCapacity()
}

// IsCancelled слот отменен провайдером
func (s *AvailabilitySlot) IsCancelled() bool {
	return s.Status == SlotStatusCancelled
}

// SameDay слоты относятся к одному провайдеру и одной дате
func (s *AvailabilitySlot) SameDay(other *AvailabilitySlot) bool {
	return s.ProviderID == other.ProviderID && SameDate(s.Date, other.Date)
}

// Overlaps пересечение полуинтервалов [start, end)
func (s *AvailabilitySlot) Overlaps(other *AvailabilitySlot) bool {
	return s.StartTime.IsBefore(other.EndTime) && s.EndTime.IsAfter(other.StartTime)
}

// Covers слот полностью покрывает интервал [start, end]
func (s *AvailabilitySlot) Covers(start, end types.TimeString) bool {
	return !s.StartTime.IsAfter(start) && !s.EndTime.IsBefore(end)
}

// DurationMinutes длительность слота
func (s *AvailabilitySlot) DurationMinutes() int {
	return s.EndTime.Minutes() - s.StartTime.Minutes()
}

// RecomputeStatus выставляет available/booked по счетчику.
// Отмененные и истекшие слоты не трогаем.
func (s *AvailabilitySlot) RecomputeStatus() {
	if s.Status == SlotStatusCancelled || s.Status == SlotStatusExpired {
		return
	}
	if s.CurrentBookings > 0 {
		s.Status = SlotStatusBooked
	} else {
		s.Status = SlotStatusAvailable
	}
}

// Clone глубокая копия слота
func (s *AvailabilitySlot) Clone() *AvailabilitySlot {
	if s == nil {
		return nil
	}
	cp := *s
	if s.Location != nil {
		loc := *s.Location
		cp.Location = &loc
	}
	if s.Pricing != nil {
		pr := *s.Pricing
		pr.InsuranceProviders = append([]string(nil), s.Pricing.InsuranceProviders...)
		cp.Pricing = &pr
	}
	if s.Notes != nil {
		notes := *s.Notes
		cp.Notes = &notes
	}
	if s.Tags != nil {
		cp.Tags = append([]string(nil), s.Tags...)
	}
	if s.RecurrencePattern != nil {
		cp.RecurrencePattern = s.RecurrencePattern.Clone()
	}
	if s.RecurrenceGroupID != nil {
		id := *s.RecurrenceGroupID
		cp.RecurrenceGroupID = &id
	}
	if s.CancellationReason != nil {
		reason := *s.CancellationReason
		cp.CancellationReason = &reason
	}
	return &cp
}

// SlotFilter фильтр списка слотов
type SlotFilter struct {
	ProviderID      *uuid.UUID
	Date            *time.Time
	DateFrom        *time.Time
	DateTo          *time.Time
	Status          *SlotStatus
	AppointmentType *string
}

// Matches проверяет слот на соответствие фильтру (для in-memory хранилища)
func (f SlotFilter) Matches(s *AvailabilitySlot) bool {
	if f.ProviderID != nil && s.ProviderID != *f.ProviderID {
		return false
	}
	if f.Date != nil && !SameDate(s.Date, *f.Date) {
		return false
	}
	if f.DateFrom != nil && DateOnly(s.Date).Before(DateOnly(*f.DateFrom)) {
		return false
	}
	if f.DateTo != nil && DateOnly(s.Date).After(DateOnly(*f.DateTo)) {
		return false
	}
	if f.Status != nil && s.Status != *f.Status {
		return false
	}
	if f.AppointmentType != nil && s.AppointmentType != *f.AppointmentType {
		return false
	}
	return true
}

// SlotDraft сырые данные слота до парсинга, проверяются целиком
type SlotDraft struct {
	Date            string
	StartTime       string
	EndTime         string
	Timezone        string
	SlotDuration    int
	BreakDuration   int
	MaxAppointments int
	Location        *Location
}

// DateOnly отбрасывает время, результат в UTC
func DateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// SameDate даты совпадают без учета времени
func SameDate(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

// ParseDate парсит YYYY-MM-DD
func ParseDate(s string) (time.Time, error) {
	return time.ParseInLocation(DateFormat, s, time.UTC)
}
