package create_booking

import (
	"github.com/google/uuid"

	"github.com/m04kA/SMC-AvailabilityService/internal/domain"
	bookingModels "github.com/m04kA/SMC-AvailabilityService/internal/service/bookings/models"
	slotModels "github.com/m04kA/SMC-AvailabilityService/internal/service/slots/models"
	bookSlot "github.com/m04kA/SMC-AvailabilityService/internal/usecase/book_slot"
)

// CreateBookingRequest HTTP request model
type CreateBookingRequest struct {
	SlotID    string `json:"slot_id"`
	PatientID string `json:"patient_id"`

	PatientName  string  `json:"patient_name"`
	PatientEmail string  `json:"patient_email"`
	PatientPhone *string `json:"patient_phone,omitempty"`

	Reason string `json:"reason"`

	InsuranceProvider     *string                         `json:"insurance_provider,omitempty"`
	InsurancePolicyNumber *string                         `json:"insurance_policy_number,omitempty"`
	SpecialRequirements   *string                         `json:"special_requirements,omitempty"`
	EmergencyContact      *bookingModels.EmergencyContact `json:"emergency_contact,omitempty"`
}

// CreateBookingResponse созданное бронирование и слот после записи
type CreateBookingResponse struct {
	Booking *bookingModels.BookingResponse `json:"booking"`
	Slot    *slotModels.SlotResponse       `json:"slot"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case (с парсингом ID)
func (r *CreateBookingRequest) ToUseCaseRequest() (*bookSlot.Request, error) {
	slotID, err := uuid.Parse(r.SlotID)
	if err != nil {
		return nil, err
	}

	patientID, err := uuid.Parse(r.PatientID)
	if err != nil {
		return nil, err
	}

	req := &bookSlot.Request{
		SlotID:                slotID,
		PatientID:             patientID,
		PatientName:           r.PatientName,
		PatientEmail:          r.PatientEmail,
		PatientPhone:          r.PatientPhone,
		Reason:                r.Reason,
		InsuranceProvider:     r.InsuranceProvider,
		InsurancePolicyNumber: r.InsurancePolicyNumber,
		SpecialRequirements:   r.SpecialRequirements,
	}
	if r.EmergencyContact != nil {
		req.EmergencyContact = &domain.EmergencyContact{
			Name:         r.EmergencyContact.Name,
			Phone:        r.EmergencyContact.Phone,
			Relationship: r.EmergencyContact.Relationship,
		}
	}
	return req, nil
}

// FromUseCaseResponse конвертирует результат use case в HTTP ответ
func FromUseCaseResponse(resp *bookSlot.Response) *CreateBookingResponse {
	return &CreateBookingResponse{
		Booking: bookingModels.FromDomainBooking(resp.Booking),
		Slot:    slotModels.FromDomainSlot(resp.Slot),
	}
}
