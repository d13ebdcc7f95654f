package timezone

import "fmt"

// Zone часовой пояс из статической таблицы.
// Летнее время не вычисляется.
type Zone struct {
	Name          string
	UTCOffset     string // "+HH:MM"
	Abbreviation  string
	IsDST         bool
	OffsetMinutes int
}

// zones поддерживаемые часовые пояса, порядок сохраняется в ListZones
var zones = []Zone{
	newZone("UTC", 0, "UTC"),
	newZone("America/New_York", -5*60, "EST"),
	newZone("America/Chicago", -6*60, "CST"),
	newZone("America/Denver", -7*60, "MST"),
	newZone("America/Los_Angeles", -8*60, "PST"),
	newZone("Europe/London", 0, "GMT"),
	newZone("Europe/Paris", 1*60, "CET"),
	newZone("Asia/Tokyo", 9*60, "JST"),
	newZone("Asia/Shanghai", 8*60, "CST"),
	newZone("Australia/Sydney", 10*60, "AEST"),
}

var zonesByName = func() map[string]Zone {
	m := make(map[string]Zone, len(zones))
	for _, z := range zones {
		m[z.Name] = z
	}
	return m
}()

func newZone(name string, offset int, abbr string) Zone {
	return Zone{
		Name:          name,
		UTCOffset:     formatOffset(offset),
		Abbreviation:  abbr,
		OffsetMinutes: offset,
	}
}

func formatOffset(minutes int) string {
	sign := '+'
	if minutes < 0 {
		sign = '-'
		minutes = -minutes
	}
	return fmt.Sprintf("%c%02d:%02d", sign, minutes/60, minutes%60)
}
