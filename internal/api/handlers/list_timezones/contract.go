package list_timezones

import "github.com/m04kA/SMC-AvailabilityService/internal/timezone"

type ZoneResolver interface {
	ListZones() []timezone.Zone
	CurrentZone() string
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
