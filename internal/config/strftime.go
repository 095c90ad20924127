package config

import (
	"strings"

	"github.com/go-errors/errors"
)

var strftimeLayouts = map[string]string{
	"H": "15", "I": "03", "M": "04", "S": "05", "p": "PM",
	"y": "06", "Y": "2006", "m": "01", "d": "02", "e": "_2", "j": "002",
	"b": "Jan", "h": "Jan", "B": "January", "a": "Mon", "A": "Monday",
	"Z": "MST", "z": "-0700",
	"R": "15:04", "T": "15:04:05", "D": "01/02/06",
	"-I": "3", "-M": "4", "-S": "5", "-m": "1", "-d": "2",
	"%": "%",
}

// layoutTokens are literal sequences time.Format would replace.
var layoutTokens = []string{"Jan", "Mon", "MST", "PM", "pm", "Z07", "_"}

// StrftimeLayout converts a strftime format such as "%H:%M" to a time.Format
// layout. Directives without a Go equivalent are an error, as is literal text
// that Format would read as a layout element.
func StrftimeLayout(format string) (string, error) {
	var b, lit strings.Builder
	flush := func() error {
		s := lit.String()
		lit.Reset()
		if strings.ContainsAny(s, "0123456789") {
			return errors.Errorf("literal %q contains digits", s)
		}
		for _, tok := range layoutTokens {
			if strings.Contains(s, tok) {
				return errors.Errorf("literal %q contains layout element %q", s, tok)
			}
		}
		b.WriteString(s)
		return nil
	}

	rest := format
	for rest != "" {
		i := strings.IndexByte(rest, '%')
		if i < 0 {
			lit.WriteString(rest)
			break
		}
		lit.WriteString(rest[:i])
		rest = rest[i+1:]

		n := 1
		if strings.HasPrefix(rest, "-") {
			n = 2
		}
		if len(rest) < n {
			return "", errors.Errorf("format %q ends inside a directive", format)
		}
		dir := rest[:n]
		rest = rest[n:]
		layout, ok := strftimeLayouts[dir]
		if !ok {
			return "", errors.Errorf("format %q: unsupported directive %%%s", format, dir)
		}
		if dir == "%" {
			lit.WriteString(layout)
			continue
		}
		if err := flush(); err != nil {
			return "", errors.Errorf("format %q: %v", format, err)
		}
		b.WriteString(layout)
	}
	if err := flush(); err != nil {
		return "", errors.Errorf("format %q: %v", format, err)
	}
	return b.String(), nil
}
