package hal

import (
	"fmt"
	"strings"
	"sync"
	"time"
)

// GPIOPull selects the pull resistor configuration.
type GPIOPull uint8

const (
	GPIOPullNone GPIOPull = iota
	GPIOPullUp
	GPIOPullDown
)

// ParseGPIOPull maps "none", "up" and "down" to a GPIOPull.
func ParseGPIOPull(s string) (GPIOPull, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "none":
		return GPIOPullNone, nil
	case "up":
		return GPIOPullUp, nil
	case "down":
		return GPIOPullDown, nil
	default:
		return GPIOPullNone, fmt.Errorf("gpio: unknown pull %q", s)
	}
}

func (p GPIOPull) String() string {
	switch p {
	case GPIOPullUp:
		return "up"
	case GPIOPullDown:
		return "down"
	default:
		return "none"
	}
}

// GPIOPin is a single digital input.
//
// Configure sets the pull resistor; GPIOPullNone leaves the line as the
// system configured it. Read reports the electrical level; active-low
// handling belongs to the caller.
type GPIOPin interface {
	Name() string
	Configure(pull GPIOPull) error
	Read() (level bool, err error)
}

// VirtualPin is an in-memory GPIOPin whose level is driven by tests or by a
// host input device.
type VirtualPin struct {
	mu    sync.Mutex
	name  string
	pull  GPIOPull
	level bool
}

// NewVirtualPin returns a pin that reads low until Set.
func NewVirtualPin(name string) *VirtualPin {
	return &VirtualPin{name: name}
}

func (p *VirtualPin) Name() string { return p.name }

func (p *VirtualPin) Configure(pull GPIOPull) error {
	if pull > GPIOPullDown {
		return fmt.Errorf("gpio: pin %s: invalid pull", p.name)
	}
	p.mu.Lock()
	p.pull = pull
	p.mu.Unlock()
	return nil
}

// Pull returns the pull set by Configure.
func (p *VirtualPin) Pull() GPIOPull {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.pull
}

func (p *VirtualPin) Read() (bool, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.level, nil
}

// Set drives the level seen by Read.
func (p *VirtualPin) Set(level bool) {
	p.mu.Lock()
	p.level = level
	p.mu.Unlock()
}

type signalPin struct {
	name string

	t0     time.Time
	now    func() time.Time
	period time.Duration
	high   time.Duration
}

// NewSignalPin returns an input pin that is high for the first `high` of every
// `period`. It stands in for a button that is pressed periodically.
func NewSignalPin(name string, period, high time.Duration) GPIOPin {
	return newSignalPinWithClock(name, period, high, time.Now)
}

func newSignalPinWithClock(name string, period, high time.Duration, now func() time.Time) GPIOPin {
	if strings.TrimSpace(name) == "" {
		return nil
	}
	if now == nil {
		now = time.Now
	}
	if period <= 0 {
		period = 1 * time.Second
	}
	high = min(max(high, 0), period)
	return &signalPin{
		name:   name,
		t0:     now(),
		now:    now,
		period: period,
		high:   high,
	}
}

func (p *signalPin) Name() string { return p.name }

func (p *signalPin) Configure(pull GPIOPull) error {
	if pull != GPIOPullNone {
		return fmt.Errorf("gpio: pin %s: pull %s unsupported", p.name, pull)
	}
	return nil
}

func (p *signalPin) Read() (bool, error) {
	elapsed := p.now().Sub(p.t0)
	if elapsed < 0 {
		elapsed = -elapsed
	}
	return elapsed%p.period < p.high, nil
}
