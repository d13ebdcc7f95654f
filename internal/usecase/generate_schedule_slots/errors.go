package generate_schedule_slots

import "errors"

var (
	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("generate_schedule_slots: invalid input data")

	// ErrScheduleNotFound возвращается, когда у провайдера нет расписания
	ErrScheduleNotFound = errors.New("generate_schedule_slots: provider schedule not found")

	// ErrProviderBusy возвращается, когда блокировку провайдера не удалось получить
	ErrProviderBusy = errors.New("generate_schedule_slots: provider is busy, try again later")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("generate_schedule_slots: internal error")
)
