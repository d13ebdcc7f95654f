package list_timezones

import "github.com/m04kA/SMC-AvailabilityService/internal/timezone"

// TimezoneInfo поддерживаемый часовой пояс
type TimezoneInfo struct {
	Name         string `json:"name"`
	UTCOffset    string `json:"utc_offset"`
	Abbreviation string `json:"abbreviation"`
	IsDST        bool   `json:"is_dst"`
}

// TimezoneListResponse все пояса и текущий пояс процесса
type TimezoneListResponse struct {
	Current   string         `json:"current"`
	Timezones []TimezoneInfo `json:"timezones"`
}

func FromZones(current string, zones []timezone.Zone) *TimezoneListResponse {
	out := make([]TimezoneInfo, 0, len(zones))
	for _, z := range zones {
		out = append(out, TimezoneInfo{
			Name:         z.Name,
			UTCOffset:    z.UTCOffset,
			Abbreviation: z.Abbreviation,
			IsDST:        z.IsDST,
		})
	}
	return &TimezoneListResponse{Current: current, Timezones: out}
}
