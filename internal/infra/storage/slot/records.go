package slot

import (
	"encoding/json"
	"time"

	"github.com/m04kA/SMC-AvailabilityService/internal/domain"
)

// JSONB представления вложенных структур слота

type locationRecord struct {
	Type              string `json:"type"`
	Name              string `json:"name,omitempty"`
	Address           string `json:"address,omitempty"`
	Room              string `json:"room,omitempty"`
	City              string `json:"city,omitempty"`
	State             string `json:"state,omitempty"`
	Zip               string `json:"zip,omitempty"`
	Country           string `json:"country,omitempty"`
	VirtualMeetingURL string `json:"virtual_meeting_url,omitempty"`
	Instructions      string `json:"instructions,omitempty"`
}

type pricingRecord struct {
	Fee                float64  `json:"fee"`
	Currency           string   `json:"currency"`
	InsuranceAccepted  bool     `json:"insurance_accepted"`
	InsuranceProviders []string `json:"insurance_providers,omitempty"`
	SelfPayDiscount    float64  `json:"self_pay_discount,omitempty"`
	CancellationFee    float64  `json:"cancellation_fee,omitempty"`
	DepositRequired    bool     `json:"deposit_required,omitempty"`
	DepositAmount      float64  `json:"deposit_amount,omitempty"`
}

type patternRecord struct {
	Frequency      string   `json:"frequency"`
	Interval       int      `json:"interval"`
	DaysOfWeek     []int    `json:"days_of_week,omitempty"`
	EndDate        *string  `json:"end_date,omitempty"`
	MaxOccurrences *int     `json:"max_occurrences,omitempty"`
	Exceptions     []string `json:"exceptions,omitempty"`
}

func encodeLocation(l *domain.Location) ([]byte, error) {
	if l == nil {
		return nil, nil
	}
	return json.Marshal(locationRecord{
		Type:              string(l.Type),
		Name:              l.Name,
		Address:           l.Address,
		Room:              l.Room,
		City:              l.City,
		State:             l.State,
		Zip:               l.Zip,
		Country:           l.Country,
		VirtualMeetingURL: l.VirtualMeetingURL,
		Instructions:      l.Instructions,
	})
}

func decodeLocation(raw []byte) (*domain.Location, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	var rec locationRecord
	if err := json.Unmarshal(raw, &rec); err != nil {
		return nil, err
	}
	return &domain.Location{
		Type:              domain.LocationType(rec.Type),
		Name:              rec.Name,
		Address:           rec.Address,
		Room:              rec.Room,
		City:              rec.City,
		State:             rec.State,
		Zip:               rec.Zip,
		Country:           rec.Country,
		VirtualMeetingURL: rec.VirtualMeetingURL,
		Instructions:      rec.Instructions,
	}, nil
}

func encodePricing(p *domain.Pricing) ([]byte, error) {
	if p == nil {
		return nil, nil
	}
	return json.Marshal(pricingRecord(*p))
}

func decodePricing(raw []byte) (*domain.Pricing, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	var rec pricingRecord
	if err := json.Unmarshal(raw, &rec); err != nil {
		return nil, err
	}
	p := domain.Pricing(rec)
	return &p, nil
}

func encodePattern(p *domain.RecurrencePattern) ([]byte, error) {
	if p == nil {
		return nil, nil
	}
	rec := patternRecord{
		Frequency:      string(p.Frequency),
		Interval:       p.Interval,
		DaysOfWeek:     p.DaysOfWeek,
		MaxOccurrences: p.MaxOccurrences,
	}
	if p.EndDate != nil {
		end := p.EndDate.Format(domain.DateFormat)
		rec.EndDate = &end
	}
	for _, ex := range p.Exceptions {
		rec.Exceptions = append(rec.Exceptions, ex.Format(domain.DateFormat))
	}
	return json.Marshal(rec)
}

func decodePattern(raw []byte) (*domain.RecurrencePattern, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	var rec patternRecord
	if err := json.Unmarshal(raw, &rec); err != nil {
		return nil, err
	}
	p := &domain.RecurrencePattern{
		Frequency:      domain.Frequency(rec.Frequency),
		Interval:       rec.Interval,
		DaysOfWeek:     rec.DaysOfWeek,
		MaxOccurrences: rec.MaxOccurrences,
	}
	if rec.EndDate != nil {
		end, err := time.Parse(domain.DateFormat, *rec.EndDate)
		if err != nil {
			return nil, err
		}
		p.EndDate = &end
	}
	for _, raw := range rec.Exceptions {
		ex, err := time.Parse(domain.DateFormat, raw)
		if err != nil {
			return nil, err
		}
		p.Exceptions = append(p.Exceptions, ex)
	}
	return p, nil
}

// jsonArg lib/pq кодирует []byte как bytea, поэтому JSONB передаем строкой
func jsonArg(raw []byte) interface{} {
	if raw == nil {
		return nil
	}
	return string(raw)
}
