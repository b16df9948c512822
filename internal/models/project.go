package models

import "strings"

// Project is a work category timers are recorded against
type Project struct {
	ID         int64    `json:"id"`
	Name       string   `json:"name"`
	IsBillable bool     `json:"is_billable"`
	HourlyRate *float64 `json:"hourly_rate"`
}

func (p *Project) Validate() error {
	if strings.TrimSpace(p.Name) == "" {
		return ErrProjectNameRequired
	}
	if p.HourlyRate != nil && *p.HourlyRate < 0 {
		return ErrInvalidHourlyRate
	}
	return nil
}

// BillingRate returns the rate earnings are computed with, nil when the
// project is not billable
func (p *Project) BillingRate() *float64 {
	if p == nil || !p.IsBillable {
		return nil
	}
	return p.HourlyRate
}
