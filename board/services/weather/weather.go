// Package weather polls the current outdoor temperature.
package weather

import (
	"context"
	"fmt"
	"strings"
	"time"
)

// Unit is a temperature display unit.
type Unit string

const (
	Fahrenheit Unit = "F"
	Celsius    Unit = "C"
)

// ParseUnit accepts "F", "C" and their spelled-out names.
func ParseUnit(s string) (Unit, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "", "F", "FAHRENHEIT", "IMPERIAL":
		return Fahrenheit, nil
	case "C", "CELSIUS", "METRIC":
		return Celsius, nil
	}
	return "", fmt.Errorf("weather: unknown unit %q", s)
}

// Reading is one published observation. It is never modified after
// publication.
type Reading struct {
	Celsius    float64
	ObservedAt time.Time
	FetchedAt  time.Time
	Valid      bool
}

// Temperature converts the reading to u.
func (r *Reading) Temperature(u Unit) float64 {
	if u == Celsius {
		return r.Celsius
	}
	return r.Celsius*9/5 + 32
}

// FreshAt reports whether r is valid and younger than threshold. A
// non-positive threshold disables the age check.
func (r *Reading) FreshAt(now time.Time, threshold time.Duration) bool {
	if r == nil || !r.Valid {
		return false
	}
	return threshold <= 0 || now.Sub(r.FetchedAt) < threshold
}

func (r Reading) Fetched() (time.Time, bool) { return r.FetchedAt, r.Valid }

func (r Reading) Stamp(now time.Time) Reading {
	r.FetchedAt, r.Valid = now, true
	return r
}

func (r Reading) Expire() Reading {
	r.Valid = false
	return r
}

// Source produces the latest observation.
type Source interface {
	Fetch(ctx context.Context) (Reading, error)
}

// SourceFunc adapts a function to Source.
type SourceFunc func(ctx context.Context) (Reading, error)

func (f SourceFunc) Fetch(ctx context.Context) (Reading, error) { return f(ctx) }
