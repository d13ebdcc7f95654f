package domain

// Значения по умолчанию
const (
	DefaultSlotDurationMinutes  = 30
	DefaultBreakDurationMinutes = 15
	DefaultMaxAppointments      = 1
	DefaultTimezone             = "UTC"
	DefaultCurrency             = "USD"
	DefaultAppointmentType      = "consultation"
)

// Ограничения бизнес-валидации
const (
	MinSlotDurationMinutes      = 15
	MaxSlotDurationMinutes      = 60
	MinBreakDurationMinutes     = 5
	MaxBreakDurationMinutes     = 30
	MinAppointmentsPerSlot      = 1
	MaxAppointmentsPerSlot      = 10
	MaxNotesLength              = 500
	MaxCancellationReasonLength = 500
	MaxRecurrenceDays           = 365
)

// Форматы времени
const (
	TimeFormat = "15:04"      // HH:MM
	DateFormat = "2006-01-02" // YYYY-MM-DD
)

// BookableStatuses статусы слотов, на которые можно записаться
var BookableStatuses = []SlotStatus{
	SlotStatusAvailable,
	SlotStatusBooked,
}

// ActiveBookingStatuses статусы бронирований, занимающих место в слоте
var ActiveBookingStatuses = []BookingStatus{
	StatusPending,
	StatusConfirmed,
	StatusCompleted,
	StatusNoShow,
}
