package domain

import (
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-AvailabilityService/pkg/types"
)

// BookingStatus статус бронирования
type BookingStatus string

const (
	StatusPending   BookingStatus = "pending"
	StatusConfirmed BookingStatus = "confirmed"
	StatusCancelled BookingStatus = "cancelled"
	StatusCompleted BookingStatus = "completed"
	StatusNoShow    BookingStatus = "no_show"
)

// transitions допустимые переходы статусов
var transitions = map[BookingStatus][]BookingStatus{
	StatusPending:   {StatusConfirmed, StatusCancelled},
	StatusConfirmed: {StatusCompleted, StatusCancelled, StatusNoShow},
}

// IsValid проверяет, что статус известен
func (s BookingStatus) IsValid() bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusCancelled, StatusCompleted, StatusNoShow:
		return true
	}
	return false
}

// IsTerminal из статуса нет переходов
func (s BookingStatus) IsTerminal() bool {
	return len(transitions[s]) == 0
}

// CanTransition разрешен ли переход from -> to
func CanTransition(from, to BookingStatus) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// EmergencyContact контакт на случай экстренной ситуации
type EmergencyContact struct {
	Name         string
	Phone        string
	Relationship string
}

// Booking запись пациента на слот
type Booking struct {
	ID         uuid.UUID
	SlotID     uuid.UUID
	ProviderID uuid.UUID
	PatientID  uuid.UUID

	PatientName  string
	PatientEmail string
	PatientPhone *string

	// Денормализованные данные слота на момент бронирования
	AppointmentDate time.Time
	AppointmentTime types.TimeString
	Timezone        string

	Reason string
	Status BookingStatus

	InsuranceProvider     *string
	InsurancePolicyNumber *string
	SpecialRequirements   *string
	EmergencyContact      *EmergencyContact
	ProviderNotes         *string

	ConfirmationCode   string
	CancellationReason *string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsActive бронирование занимает место в слоте
func (b *Booking) IsActive() bool {
	return b.Status != StatusCancelled
}

// CanBeCancelled бронирование можно отменить
func (b *Booking) CanBeCancelled() bool {
	return CanTransition(b.Status, StatusCancelled)
}

// Clone глубокая копия
func (b *Booking) Clone() *Booking {
	if b == nil {
		return nil
	}
	cp := *b
	cp.PatientPhone = cloneString(b.PatientPhone)
	cp.InsuranceProvider = cloneString(b.InsuranceProvider)
	cp.InsurancePolicyNumber = cloneString(b.InsurancePolicyNumber)
	cp.SpecialRequirements = cloneString(b.SpecialRequirements)
	cp.ProviderNotes = cloneString(b.ProviderNotes)
	cp.CancellationReason = cloneString(b.CancellationReason)
	if b.EmergencyContact != nil {
		ec := *b.EmergencyContact
		cp.EmergencyContact = &ec
	}
	return &cp
}

func cloneString(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}
