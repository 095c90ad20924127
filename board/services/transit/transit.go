// Package transit polls a real-time departure feed and publishes immutable
// snapshots of upcoming arrivals.
package transit

import (
	"context"
	"strings"
	"time"
)

// Heading is the travel direction of a vehicle.
type Heading uint8

const (
	HeadingUnknown Heading = iota
	North
	East
	South
	West
)

// ParseHeading accepts NexTrip direction text ("NB", "Eastbound", "S", ...).
func ParseHeading(s string) Heading {
	s = strings.ToUpper(strings.TrimSpace(s))
	if s == "" {
		return HeadingUnknown
	}
	switch s[0] {
	case 'N':
		return North
	case 'E':
		return East
	case 'S':
		return South
	case 'W':
		return West
	}
	return HeadingUnknown
}

// Arrow returns the arrow glyph for h, or 0 when the heading is unknown.
func (h Heading) Arrow() rune {
	switch h {
	case North:
		return '↑'
	case East:
		return '→'
	case South:
		return '↓'
	case West:
		return '←'
	}
	return 0
}

func (h Heading) String() string {
	switch h {
	case North:
		return "NB"
	case East:
		return "EB"
	case South:
		return "SB"
	case West:
		return "WB"
	}
	return ""
}

// Arrival is one upcoming departure at a stop.
type Arrival struct {
	Route       string
	Heading     Heading
	Destination string
	Stop        int

	Scheduled time.Time
	Delay     time.Duration
	Realtime  bool
}

// Departure is the predicted departure time.
func (a Arrival) Departure() time.Time { return a.Scheduled.Add(a.Delay) }

// Snapshot is the result of one successful poll. Arrivals are ordered soonest
// departure first. A published Snapshot is never modified.
type Snapshot struct {
	Arrivals  []Arrival
	FetchedAt time.Time
	Valid     bool
}

// FreshAt reports whether s may be shown at now: it must be valid and younger
// than threshold. A nil snapshot is never fresh. A non-positive threshold
// disables the age check.
func (s *Snapshot) FreshAt(now time.Time, threshold time.Duration) bool {
	if s == nil || !s.Valid {
		return false
	}
	if threshold <= 0 {
		return true
	}
	return now.Sub(s.FetchedAt) < threshold
}

func (s Snapshot) Fetched() (time.Time, bool) { return s.FetchedAt, s.Valid }

// Stamp returns s marked valid and fetched at now.
func (s Snapshot) Stamp(now time.Time) Snapshot {
	s.FetchedAt, s.Valid = now, true
	return s
}

// Expire returns s marked invalid. Arrivals are shared with s.
func (s Snapshot) Expire() Snapshot {
	s.Valid = false
	return s
}

// Source produces the current arrivals for all configured stops.
type Source interface {
	Fetch(ctx context.Context) ([]Arrival, error)
}

// SourceFunc adapts a function to Source.
type SourceFunc func(ctx context.Context) ([]Arrival, error)

func (f SourceFunc) Fetch(ctx context.Context) ([]Arrival, error) { return f(ctx) }
