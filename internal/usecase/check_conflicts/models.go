package check_conflicts

import "github.com/m04kA/SMC-AvailabilityService/internal/service/slots/models"

// Request кандидат на проверку. SlotID задается при проверке изменения
// существующего слота, чтобы он не конфликтовал сам с собой.
type Request struct {
	models.CreateSlotRequest
	SlotID string `json:"slot_id,omitempty"`
}
