package models

import "fmt"

// Default pagination values
const (
	DefaultPageLimit = 20
	MaxPageLimit     = 100
	DefaultRecent    = 10
)

// Page is a skip/limit pagination window.
type Page struct {
	Skip  int `json:"skip"`
	Limit int `json:"limit"`
}

// ApplyDefaults replaces out-of-range values with defaults
func (p *Page) ApplyDefaults() {
	if p.Skip < 0 {
		p.Skip = 0
	}
	if p.Limit <= 0 {
		p.Limit = DefaultPageLimit
	}
	if p.Limit > MaxPageLimit {
		p.Limit = MaxPageLimit
	}
}

// Validate rejects windows the transport layer should never have let through
func (p Page) Validate() error {
	if p.Skip < 0 {
		return fmt.Errorf("skip must be >= 0, got %d", p.Skip)
	}
	if p.Limit < 1 || p.Limit > MaxPageLimit {
		return fmt.Errorf("limit must be between 1 and %d, got %d", MaxPageLimit, p.Limit)
	}
	return nil
}

// Window returns the half-open [start, end) slice bounds for a result set of n items.
func (p Page) Window(n int) (int, int) {
	start := p.Skip
	if start > n {
		start = n
	}
	end := start + p.Limit
	if end > n {
		end = n
	}
	return start, end
}
