//go:build linux

package hal

import (
	"errors"
	"strings"
	"testing"

	"github.com/warthog618/go-gpiocdev"
)

func TestBiasOption(t *testing.T) {
	cases := map[GPIOPull]gpiocdev.LineBias{
		GPIOPullNone: gpiocdev.WithBiasAsIs,
		GPIOPullUp:   gpiocdev.WithPullUp,
		GPIOPullDown: gpiocdev.WithPullDown,
	}
	for pull, want := range cases {
		if got := biasOption(pull); got != want {
			t.Fatalf("biasOption(%s) = %v, want %v", pull, got, want)
		}
	}
}

func TestOpenGPIOPinMissingChip(t *testing.T) {
	pin, err := OpenGPIOPin("gpiochip-does-not-exist", 3)
	if err == nil {
		t.Fatal("expected error for a missing chip")
	}
	if pin != nil {
		t.Fatalf("pin = %v, want nil", pin)
	}
	if !strings.Contains(err.Error(), "gpiochip-does-not-exist line 3") {
		t.Fatalf("error %q does not name the line", err)
	}
	if errors.Is(err, ErrNotImplemented) {
		t.Fatal("linux build must try the character device")
	}
}
