package input

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"transitboard/hal"
	"transitboard/kernel"
)

const (
	DefaultSample = 10 * time.Millisecond
	DefaultWindow = 50 * time.Millisecond
)

// ButtonEvent is one debounced press.
type ButtonEvent struct {
	At time.Time
}

// Monitor samples Pin and queues a ButtonEvent per physical press into Out.
// Out must have no other producer.
type Monitor struct {
	Pin       hal.GPIOPin
	Pull      hal.GPIOPull
	ActiveLow bool
	Sample    time.Duration
	Window    time.Duration
	Out       *kernel.Mailbox[ButtonEvent]

	Logger *slog.Logger
	Now    func() time.Time

	deb       Debouncer
	readErr   bool
	coalesced uint64
}

func (m *Monitor) now() time.Time {
	if m.Now != nil {
		return m.Now()
	}
	return time.Now()
}

func (m *Monitor) logger() *slog.Logger {
	if m.Logger != nil {
		return m.Logger
	}
	return slog.Default()
}

// Coalesced returns how many presses arrived while the mailbox was full.
func (m *Monitor) Coalesced() uint64 { return m.coalesced }

// Run sets the pin's pull resistor and samples until ctx is done. A pin that
// rejects the pull ends Run with an error.
func (m *Monitor) Run(ctx context.Context) error {
	if err := m.Pin.Configure(m.Pull); err != nil {
		return fmt.Errorf("input: configure %s: %w", m.Pin.Name(), err)
	}
	sample := m.Sample
	if sample <= 0 {
		sample = DefaultSample
	}
	if m.Window <= 0 {
		m.Window = DefaultWindow
	}
	m.logger().Debug("input: monitoring", "pin", m.Pin.Name(), "pull", m.Pull, "active_low", m.ActiveLow,
		"sample", sample, "window", m.Window)

	t := time.NewTicker(sample)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-t.C:
			m.Step(m.now())
		}
	}
}

// Step takes one sample at now and reports whether a press was detected.
func (m *Monitor) Step(now time.Time) bool {
	m.deb.Window = m.Window

	level, err := m.Pin.Read()
	if err != nil {
		if !m.readErr {
			m.logger().Warn("input: read failed", "pin", m.Pin.Name(), "err", err)
			m.readErr = true
		}
		return false
	}
	if m.readErr {
		m.logger().Info("input: read recovered", "pin", m.Pin.Name())
		m.readErr = false
	}

	if !m.deb.Sample(level != m.ActiveLow, now) {
		return false
	}
	if !m.Out.TrySend(ButtonEvent{At: now}) {
		m.coalesced++
		m.logger().Debug("input: queue full, press coalesced", "pending", m.Out.Len(), "coalesced", m.coalesced)
	}
	return true
}
