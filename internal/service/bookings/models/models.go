package models

import (
	"errors"
	"time"

	"github.com/m04kA/SMC-AvailabilityService/internal/domain"
)

var (
	// ErrInvalidStatus возвращается при некорректном статусе
	ErrInvalidStatus = errors.New("invalid booking status")
)

// Request модели

// CancelBookingRequest запрос на отмену бронирования
type CancelBookingRequest struct {
	Reason string `json:"reason"`
}

// UpdateStatusRequest запрос на обновление статуса бронирования
type UpdateStatusRequest struct {
	Status string  `json:"status"`
	Notes  *string `json:"notes,omitempty"`
}

// Response модели

// EmergencyContact контакт пациента
type EmergencyContact struct {
	Name         string `json:"name"`
	Phone        string `json:"phone"`
	Relationship string `json:"relationship"`
}

// BookingResponse ответ с данными бронирования
type BookingResponse struct {
	ID         string `json:"id"`
	SlotID     string `json:"slot_id"`
	ProviderID string `json:"provider_id"`
	PatientID  string `json:"patient_id"`

	PatientName  string  `json:"patient_name"`
	PatientEmail string  `json:"patient_email"`
	PatientPhone *string `json:"patient_phone,omitempty"`

	AppointmentDate string `json:"appointment_date"` // "2025-10-15"
	AppointmentTime string `json:"appointment_time"` // "10:00"
	Timezone        string `json:"timezone"`

	Reason string `json:"reason"`
	Status string `json:"status"`

	InsuranceProvider     *string           `json:"insurance_provider,omitempty"`
	InsurancePolicyNumber *string           `json:"insurance_policy_number,omitempty"`
	SpecialRequirements   *string           `json:"special_requirements,omitempty"`
	EmergencyContact      *EmergencyContact `json:"emergency_contact,omitempty"`
	ProviderNotes         *string           `json:"provider_notes,omitempty"`

	ConfirmationCode   string  `json:"confirmation_code"`
	CancellationReason *string `json:"cancellation_reason,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// BookingListResponse ответ со списком бронирований
type BookingListResponse struct {
	Bookings []BookingResponse `json:"bookings"`
	Total    int               `json:"total"`
}

// Методы конвертации

// FromDomainBooking конвертирует domain модель в DTO
func FromDomainBooking(b *domain.Booking) *BookingResponse {
	if b == nil {
		return nil
	}

	resp := &BookingResponse{
		ID:                    b.ID.String(),
		SlotID:                b.SlotID.String(),
		ProviderID:            b.ProviderID.String(),
		PatientID:             b.PatientID.String(),
		PatientName:           b.PatientName,
		PatientEmail:          b.PatientEmail,
		PatientPhone:          b.PatientPhone,
		AppointmentDate:       b.AppointmentDate.Format(domain.DateFormat),
		AppointmentTime:       b.AppointmentTime.String(),
		Timezone:              b.Timezone,
		Reason:                b.Reason,
		Status:                string(b.Status),
		InsuranceProvider:     b.InsuranceProvider,
		InsurancePolicyNumber: b.InsurancePolicyNumber,
		SpecialRequirements:   b.SpecialRequirements,
		ProviderNotes:         b.ProviderNotes,
		ConfirmationCode:      b.ConfirmationCode,
		CancellationReason:    b.CancellationReason,
		CreatedAt:             b.CreatedAt,
		UpdatedAt:             b.UpdatedAt,
	}

	if b.EmergencyContact != nil {
		resp.EmergencyContact = &EmergencyContact{
			Name:         b.EmergencyContact.Name,
			Phone:        b.EmergencyContact.Phone,
			Relationship: b.EmergencyContact.Relationship,
		}
	}

	return resp
}

// FromDomainBookingList конвертирует список domain моделей в DTO
func FromDomainBookingList(bookings []*domain.Booking) *BookingListResponse {
	resp := &BookingListResponse{
		Bookings: make([]BookingResponse, 0, len(bookings)),
	}

	for _, booking := range bookings {
		if bookingResp := FromDomainBooking(booking); bookingResp != nil {
			resp.Bookings = append(resp.Bookings, *bookingResp)
		}
	}
	resp.Total = len(resp.Bookings)

	return resp
}

// ToDomainBookingStatus конвертирует строку в domain.BookingStatus с валидацией
func ToDomainBookingStatus(status string) (domain.BookingStatus, error) {
	s := domain.BookingStatus(status)
	if !s.IsValid() {
		return "", ErrInvalidStatus
	}
	return s, nil
}
