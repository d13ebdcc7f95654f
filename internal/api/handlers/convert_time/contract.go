package convert_time

import (
	"time"

	"github.com/m04kA/SMC-AvailabilityService/pkg/types"
)

type ZoneResolver interface {
	Convert(t types.TimeString, from, to string) (types.TimeString, error)
	ConvertDate(date time.Time, t types.TimeString, from, to string) (time.Time, types.TimeString, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
