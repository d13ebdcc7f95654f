package set_current_timezone

type ZoneResolver interface {
	SetCurrentZone(name string) error
	CurrentZone() string
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
