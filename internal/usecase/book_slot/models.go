package book_slot

import (
	"github.com/google/uuid"

	"github.com/m04kA/SMC-AvailabilityService/internal/domain"
)

// Request модель запроса на запись пациента в слот
type Request struct {
	SlotID    uuid.UUID // ID слота
	PatientID uuid.UUID // ID пациента, определяется вызывающей стороной

	PatientName  string  // Имя пациента
	PatientEmail string  // Email пациента
	PatientPhone *string // Телефон (опционально)

	Reason string // Причина обращения

	InsuranceProvider     *string                  // Страховая компания (опционально)
	InsurancePolicyNumber *string                  // Номер полиса (опционально)
	SpecialRequirements   *string                  // Особые требования (опционально)
	EmergencyContact      *domain.EmergencyContact // Контакт на экстренный случай (опционально)
}

// Response модель ответа с созданным бронированием
type Response struct {
	Booking *domain.Booking          // Созданное бронирование в статусе pending
	Slot    *domain.AvailabilitySlot // Слот после увеличения счетчика
}
