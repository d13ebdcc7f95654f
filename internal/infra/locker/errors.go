package locker

import "errors"

var (
	// ErrLockTimeout возвращается, когда блокировку не удалось получить за отведенное время
	ErrLockTimeout = errors.New("locker: provider lock acquire timeout")

	// ErrLockBackend возвращается при ошибке хранилища блокировок
	ErrLockBackend = errors.New("locker: backend error")
)
