package timezone

import "errors"

var (
	// ErrUnknownTimezone возвращается для пояса вне таблицы
	ErrUnknownTimezone = errors.New("timezone: unknown timezone")

	// ErrInvalidTime возвращается для времени не в формате HH:MM
	ErrInvalidTime = errors.New("timezone: invalid time")
)
