package cancel_slot

// CancelSlotRequest HTTP request model, тело необязательно
type CancelSlotRequest struct {
	Reason string `json:"reason"`
}
