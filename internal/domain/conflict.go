package domain

import "time"

// ConflictType тип конфликта слота
type ConflictType string

const (
	ConflictOverlap          ConflictType = "overlap"
	ConflictBreakViolation   ConflictType = "break_violation"
	ConflictMaxAppointments  ConflictType = "max_appointments"
	ConflictTimezoneMismatch ConflictType = "timezone_mismatch"
)

// SlotConflict найденный конфликт
type SlotConflict struct {
	Type            ConflictType
	Message         string
	ConflictingSlot *AvailabilitySlot
}

// ValidationFailure ошибка структурной проверки поля
type ValidationFailure struct {
	Field        string
	Required     bool
	MinValue     *int
	MaxValue     *int
	ErrorMessage string
}

// RejectedDate дата, для которой слот не был создан
type RejectedDate struct {
	Date    time.Time
	Reasons []string
}
