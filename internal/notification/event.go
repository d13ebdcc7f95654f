package notification

import (
	"time"

	"github.com/google/uuid"
)

// EventType тип события для внешних систем уведомлений
type EventType string

const (
	EventBookingCreated       EventType = "booking.created"
	EventBookingCancelled     EventType = "booking.cancelled"
	EventBookingStatusChanged EventType = "booking.status_changed"
	EventSlotCancelled        EventType = "slot.cancelled"
)

// Event событие об изменении слота или бронирования
type Event struct {
	ID         uuid.UUID
	Type       EventType
	ProviderID uuid.UUID
	SlotID     uuid.UUID
	BookingID  *uuid.UUID
	Status     string
	Reason     *string
	OccurredAt time.Time
}

// NewEvent событие с новым ID и текущим временем
func NewEvent(eventType EventType, providerID, slotID uuid.UUID) Event {
	return Event{
		ID:         uuid.New(),
		Type:       eventType,
		ProviderID: providerID,
		SlotID:     slotID,
		OccurredAt: time.Now().UTC(),
	}
}

// WithBooking добавляет бронирование и его статус
func (e Event) WithBooking(bookingID uuid.UUID, status string) Event {
	e.BookingID = &bookingID
	e.Status = status
	return e
}

// WithReason добавляет причину отмены
func (e Event) WithReason(reason string) Event {
	if reason != "" {
		e.Reason = &reason
	}
	return e
}
