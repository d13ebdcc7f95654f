package timezone

import (
	"fmt"
	"sync"
	"time"

	"github.com/m04kA/SMC-AvailabilityService/pkg/types"
)

// Resolver пересчитывает время между поясами и хранит текущий пояс процесса
type Resolver struct {
	mu      sync.RWMutex
	current string
	now     func() time.Time
}

// NewResolver создает резолвер. Пустой или неизвестный defaultZone заменяется на UTC.
func NewResolver(defaultZone string) *Resolver {
	current := "UTC"
	if _, ok := zonesByName[defaultZone]; ok {
		current = defaultZone
	}
	return &Resolver{current: current, now: time.Now}
}

// WithClock подменяет источник времени (для тестов)
func (r *Resolver) WithClock(now func() time.Time) *Resolver {
	r.now = now
	return r
}

// ListZones все поддерживаемые пояса в порядке таблицы
func (r *Resolver) ListZones() []Zone {
	out := make([]Zone, len(zones))
	copy(out, zones)
	return out
}

// Lookup ищет пояс по имени
func (r *Resolver) Lookup(name string) (Zone, error) {
	z, ok := zonesByName[name]
	if !ok {
		return Zone{}, fmt.Errorf("%w: %q", ErrUnknownTimezone, name)
	}
	return z, nil
}

// IsKnown есть ли пояс в таблице
func (r *Resolver) IsKnown(name string) bool {
	_, ok := zonesByName[name]
	return ok
}

// CurrentZone текущий пояс процесса
func (r *Resolver) CurrentZone() string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.current
}

// SetCurrentZone меняет текущий пояс процесса
func (r *Resolver) SetCurrentZone(name string) error {
	if _, err := r.Lookup(name); err != nil {
		return err
	}
	r.mu.Lock()
	r.current = name
	r.mu.Unlock()
	return nil
}

// Resolve пустое имя заменяется текущим поясом
func (r *Resolver) Resolve(name string) string {
	if name == "" {
		return r.CurrentZone()
	}
	return name
}

// Convert переводит время суток из пояса from в пояс to по модулю 24 часов
func (r *Resolver) Convert(t types.TimeString, from, to string) (types.TimeString, error) {
	minutes := t.Minutes()
	if minutes < 0 {
		return "", fmt.Errorf("%w: %q", ErrInvalidTime, t)
	}

	src, err := r.Lookup(r.Resolve(from))
	if err != nil {
		return "", err
	}
	dst, err := r.Lookup(r.Resolve(to))
	if err != nil {
		return "", err
	}

	return types.WrapMinutes(minutes + dst.OffsetMinutes - src.OffsetMinutes), nil
}

// ConvertDate переводит дату и время суток, учитывая переход через полночь
func (r *Resolver) ConvertDate(date time.Time, t types.TimeString, from, to string) (time.Time, types.TimeString, error) {
	minutes := t.Minutes()
	if minutes < 0 {
		return time.Time{}, "", fmt.Errorf("%w: %q", ErrInvalidTime, t)
	}

	src, err := r.Lookup(r.Resolve(from))
	if err != nil {
		return time.Time{}, "", err
	}
	dst, err := r.Lookup(r.Resolve(to))
	if err != nil {
		return time.Time{}, "", err
	}

	total := minutes + dst.OffsetMinutes - src.OffsetMinutes
	dayShift := 0
	for total < 0 {
		total += types.MinutesPerDay
		dayShift--
	}
	for total >= types.MinutesPerDay {
		total -= types.MinutesPerDay
		dayShift++
	}

	y, m, d := date.Date()
	shifted := time.Date(y, m, d+dayShift, 0, 0, 0, 0, time.UTC)
	return shifted, types.WrapMinutes(total), nil
}

// Location fixed-offset локация для пояса
func (r *Resolver) Location(name string) (*time.Location, error) {
	z, err := r.Lookup(r.Resolve(name))
	if err != nil {
		return nil, err
	}
	return time.FixedZone(z.Abbreviation, z.OffsetMinutes*60), nil
}

// Now текущий момент в указанном поясе
func (r *Resolver) Now(name string) (time.Time, error) {
	loc, err := r.Location(name)
	if err != nil {
		return time.Time{}, err
	}
	return r.now().In(loc), nil
}

// Today текущая дата в указанном поясе, 00:00 UTC
func (r *Resolver) Today(name string) (time.Time, error) {
	now, err := r.Now(name)
	if err != nil {
		return time.Time{}, err
	}
	y, m, d := now.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC), nil
}
