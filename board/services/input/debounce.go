// Package input turns the sampled level of the page button into discrete
// press events.
package input

import "time"

// Debouncer filters a sampled binary signal. A raw level must hold for Window
// before the debounced state follows it. The zero value starts released with
// no debounce.
type Debouncer struct {
	Window time.Duration

	raw     bool
	since   time.Time
	pressed bool
}

// Sample feeds one raw level observed at now and reports whether it completed
// a released to pressed transition. Holding the button never repeats.
func (d *Debouncer) Sample(pressed bool, now time.Time) bool {
	if pressed != d.raw {
		d.raw = pressed
		d.since = now
	}
	if d.raw == d.pressed || now.Sub(d.since) < d.Window {
		return false
	}
	d.pressed = d.raw
	return d.pressed
}

// Pressed reports the debounced state.
func (d *Debouncer) Pressed() bool { return d.pressed }
