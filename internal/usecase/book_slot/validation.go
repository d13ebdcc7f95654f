package book_slot

import (
	"fmt"
	"net/mail"
	"strings"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-AvailabilityService/internal/domain"
)

const maxReasonLength = 500

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) error {
	if req.SlotID == uuid.Nil {
		return fmt.Errorf("%w: slot_id is required", ErrInvalidInput)
	}

	if req.PatientID == uuid.Nil {
		return fmt.Errorf("%w: patient_id is required", ErrInvalidInput)
	}

	if strings.TrimSpace(req.PatientName) == "" {
		return fmt.Errorf("%w: patient_name is required", ErrInvalidInput)
	}

	if _, err := mail.ParseAddress(req.PatientEmail); err != nil {
		return fmt.Errorf("%w: patient_email is invalid", ErrInvalidInput)
	}

	if len(req.Reason) > maxReasonLength {
		return fmt.Errorf("%w: reason must not exceed %d characters", ErrInvalidInput, maxReasonLength)
	}

	if req.SpecialRequirements != nil && len(*req.SpecialRequirements) > domain.MaxNotesLength {
		return fmt.Errorf("%w: special_requirements must not exceed %d characters", ErrInvalidInput, domain.MaxNotesLength)
	}

	return nil
}
