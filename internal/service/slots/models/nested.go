package models

import (
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-AvailabilityService/internal/domain"
)

var (
	// ErrInvalidPattern возвращается при некорректном правиле повторения
	ErrInvalidPattern = errors.New("invalid recurrence pattern")
)

// Location место приема
type Location struct {
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

func (l *Location) ToDomain() *domain.Location {
	if l == nil {
		return nil
	}
	return &domain.Location{
		Type:              domain.LocationType(l.Type),
		Name:              l.Name,
		Address:           l.Address,
		Room:              l.Room,
		City:              l.City,
		State:             l.State,
		Zip:               l.Zip,
		Country:           l.Country,
		VirtualMeetingURL: l.VirtualMeetingURL,
		Instructions:      l.Instructions,
	}
}

func FromDomainLocation(l *domain.Location) *Location {
	if l == nil {
		return nil
	}
	return &Location{
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
	}
}

// Pricing стоимость приема
type Pricing struct {
	Fee                float64  `json:"fee"`
	Currency           string   `json:"currency"`
	InsuranceAccepted  bool     `json:"insurance_accepted"`
	InsuranceProviders []string `json:"insurance_providers,omitempty"`
	SelfPayDiscount    float64  `json:"self_pay_discount,omitempty"`
	CancellationFee    float64  `json:"cancellation_fee,omitempty"`
	DepositRequired    bool     `json:"deposit_required,omitempty"`
	DepositAmount      float64  `json:"deposit_amount,omitempty"`
}

// ToDomain пустая валюта заменяется валютой по умолчанию
func (p *Pricing) ToDomain() *domain.Pricing {
	if p == nil {
		return nil
	}
	currency := p.Currency
	if currency == "" {
		currency = domain.DefaultCurrency
	}
	return &domain.Pricing{
		Fee:                p.Fee,
		Currency:           currency,
		InsuranceAccepted:  p.InsuranceAccepted,
		InsuranceProviders: p.InsuranceProviders,
		SelfPayDiscount:    p.SelfPayDiscount,
		CancellationFee:    p.CancellationFee,
		DepositRequired:    p.DepositRequired,
		DepositAmount:      p.DepositAmount,
	}
}

func FromDomainPricing(p *domain.Pricing) *Pricing {
	if p == nil {
		return nil
	}
	return &Pricing{
		Fee:                p.Fee,
		Currency:           p.Currency,
		InsuranceAccepted:  p.InsuranceAccepted,
		InsuranceProviders: p.InsuranceProviders,
		SelfPayDiscount:    p.SelfPayDiscount,
		CancellationFee:    p.CancellationFee,
		DepositRequired:    p.DepositRequired,
		DepositAmount:      p.DepositAmount,
	}
}

// RecurrencePattern правило повторения, days_of_week: 0 = воскресенье
type RecurrencePattern struct {
	Frequency      string   `json:"frequency"`
	Interval       int      `json:"interval,omitempty"`
	DaysOfWeek     []int    `json:"days_of_week,omitempty"`
	EndDate        *string  `json:"end_date,omitempty"`
	MaxOccurrences *int     `json:"max_occurrences,omitempty"`
	Exceptions     []string `json:"exceptions,omitempty"`
}

// ToDomain парсит даты правила
func (p *RecurrencePattern) ToDomain() (*domain.RecurrencePattern, error) {
	if p == nil {
		return nil, nil
	}

	pattern := &domain.RecurrencePattern{
		Frequency:      domain.Frequency(p.Frequency),
		Interval:       p.Interval,
		DaysOfWeek:     p.DaysOfWeek,
		MaxOccurrences: p.MaxOccurrences,
	}
	if pattern.Interval == 0 {
		pattern.Interval = 1
	}

	if p.EndDate != nil {
		end, err := domain.ParseDate(*p.EndDate)
		if err != nil {
			return nil, fmt.Errorf("%w: end_date %q", ErrInvalidPattern, *p.EndDate)
		}
		pattern.EndDate = &end
	}

	for _, raw := range p.Exceptions {
		ex, err := domain.ParseDate(raw)
		if err != nil {
			return nil, fmt.Errorf("%w: exception %q", ErrInvalidPattern, raw)
		}
		pattern.Exceptions = append(pattern.Exceptions, ex)
	}

	return pattern, nil
}

func FromDomainPattern(p *domain.RecurrencePattern) *RecurrencePattern {
	if p == nil {
		return nil
	}
	dto := &RecurrencePattern{
		Frequency:      string(p.Frequency),
		Interval:       p.Interval,
		DaysOfWeek:     p.DaysOfWeek,
		MaxOccurrences: p.MaxOccurrences,
	}
	if p.EndDate != nil {
		end := p.EndDate.Format(domain.DateFormat)
		dto.EndDate = &end
	}
	for _, ex := range p.Exceptions {
		dto.Exceptions = append(dto.Exceptions, ex.Format(domain.DateFormat))
	}
	return dto
}

// ValidationFailure ошибка проверки поля
type ValidationFailure struct {
	Field        string `json:"field"`
	Required     bool   `json:"required"`
	MinValue     *int   `json:"min_value,omitempty"`
	MaxValue     *int   `json:"max_value,omitempty"`
	ErrorMessage string `json:"error_message"`
}

func FromDomainFailures(failures []domain.ValidationFailure) []ValidationFailure {
	out := make([]ValidationFailure, 0, len(failures))
	for _, f := range failures {
		out = append(out, ValidationFailure{
			Field:        f.Field,
			Required:     f.Required,
			MinValue:     f.MinValue,
			MaxValue:     f.MaxValue,
			ErrorMessage: f.ErrorMessage,
		})
	}
	return out
}

// SlotConflict найденный конфликт
type SlotConflict struct {
	Type            string        `json:"type"`
	Message         string        `json:"message"`
	ConflictingSlot *SlotResponse `json:"conflicting_slot,omitempty"`
}

func FromDomainConflicts(conflicts []domain.SlotConflict) []SlotConflict {
	out := make([]SlotConflict, 0, len(conflicts))
	for _, c := range conflicts {
		out = append(out, SlotConflict{
			Type:            string(c.Type),
			Message:         c.Message,
			ConflictingSlot: FromDomainSlot(c.ConflictingSlot),
		})
	}
	return out
}

// RejectedDate дата, для которой слот не создан
type RejectedDate struct {
	Date    string   `json:"date"`
	Reasons []string `json:"reasons"`
}

func FromDomainRejected(rejected []domain.RejectedDate) []RejectedDate {
	out := make([]RejectedDate, 0, len(rejected))
	for _, r := range rejected {
		out = append(out, RejectedDate{
			Date:    r.Date.Format(domain.DateFormat),
			Reasons: r.Reasons,
		})
	}
	return out
}

func formatTimestamp(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}
