package slotgen

import "errors"

var (
	// ErrInvalidRange возвращается, когда начало не раньше конца или длительности некорректны
	ErrInvalidRange = errors.New("slotgen: invalid time range")

	// ErrInvalidPattern возвращается для некорректного правила повторения
	ErrInvalidPattern = errors.New("slotgen: invalid recurrence pattern")
)
