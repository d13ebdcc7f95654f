package webhook

import (
	"time"

	"github.com/m04kA/SMC-AvailabilityService/internal/notification"
)

// Payload тело запроса с событием
type Payload struct {
	ID         string    `json:"id"`
	Type       string    `json:"type"`
	ProviderID string    `json:"provider_id"`
	SlotID     string    `json:"slot_id"`
	BookingID  *string   `json:"booking_id,omitempty"`
	Status     string    `json:"status,omitempty"`
	Reason     *string   `json:"reason,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}

// FromEvent конвертирует событие в тело запроса
func FromEvent(e notification.Event) Payload {
	p := Payload{
		ID:         e.ID.String(),
		Type:       string(e.Type),
		ProviderID: e.ProviderID.String(),
		SlotID:     e.SlotID.String(),
		Status:     e.Status,
		Reason:     e.Reason,
		OccurredAt: e.OccurredAt,
	}
	if e.BookingID != nil {
		id := e.BookingID.String()
		p.BookingID = &id
	}
	return p
}
