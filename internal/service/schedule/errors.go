package schedule

import "errors"

var (
	// ErrScheduleNotFound возвращается, когда у провайдера нет расписания
	ErrScheduleNotFound = errors.New("schedule not found")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("invalid schedule data")

	// ErrUnknownTimezone возвращается для часового пояса вне таблицы
	ErrUnknownTimezone = errors.New("unknown timezone")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("service: internal error")
)
