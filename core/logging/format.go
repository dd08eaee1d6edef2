package logging

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"
)

// MaxAlignment bounds the width of a placeholder alignment in either
// direction.
const MaxAlignment = 1_000_000

// ErrFormat is wrapped by every FormatError.
var ErrFormat = errors.New("logging: invalid format")

// FormatError reports a malformed format string or a placeholder that
// cannot be satisfied by the arguments.
type FormatError struct {
	Format string
	Pos    int
	Reason string
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("format %q at offset %d: %s", e.Format, e.Pos, e.Reason)
}

func (e *FormatError) Unwrap() error { return ErrFormat }

// Format substitutes args into format. A nil provider renders with Invariant.
func Format(p FormatProvider, format string, args ...any) (string, error) {
	if p == nil {
		p = Invariant
	}
	var b strings.Builder
	b.Grow(len(format))
	for i := 0; i < len(format); {
		switch c := format[i]; c {
		case '{':
			if i+1 < len(format) && format[i+1] == '{' {
				b.WriteByte('{')
				i += 2
				continue
			}
			end := strings.IndexByte(format[i:], '}')
			if end < 0 {
				return "", &FormatError{Format: format, Pos: i, Reason: "unclosed placeholder"}
			}
			s, err := formatItem(p, format[i+1:i+end], args)
			if err != nil {
				return "", &FormatError{Format: format, Pos: i, Reason: err.Error()}
			}
			b.WriteString(s)
			i += end + 1
		case '}':
			if i+1 < len(format) && format[i+1] == '}' {
				b.WriteByte('}')
				i += 2
				continue
			}
			return "", &FormatError{Format: format, Pos: i, Reason: "unmatched '}'"}
		default:
			b.WriteByte(c)
			i++
		}
	}
	return b.String(), nil
}

// formatItem renders one placeholder body: index[,alignment][:spec].
func formatItem(p FormatProvider, item string, args []any) (string, error) {
	head, spec, _ := strings.Cut(item, ":")
	idxPart, alignPart, hasAlign := strings.Cut(head, ",")

	idxPart = strings.TrimSpace(idxPart)
	if idxPart == "" || strings.TrimLeft(idxPart, "0123456789") != "" {
		return "", fmt.Errorf("invalid placeholder index %q", idxPart)
	}
	idx, err := strconv.Atoi(idxPart)
	if err != nil {
		return "", fmt.Errorf("invalid placeholder index %q", idxPart)
	}
	if idx >= len(args) {
		return "", fmt.Errorf("index %d out of range for %d argument(s)", idx, len(args))
	}

	align := 0
	if hasAlign {
		align, err = strconv.Atoi(strings.TrimSpace(alignPart))
		if err != nil {
			return "", fmt.Errorf("invalid alignment %q", alignPart)
		}
		if align > MaxAlignment || align < -MaxAlignment {
			return "", fmt.Errorf("alignment %d exceeds %d", align, MaxAlignment)
		}
	}

	s, err := p.FormatValue(args[idx], spec)
	if err != nil {
		return "", err
	}
	return pad(s, align), nil
}

// pad right-aligns s for positive widths and left-aligns it for negative ones.
func pad(s string, width int) string {
	n := utf8.RuneCountInString(s)
	switch {
	case width > n:
		return strings.Repeat(" ", width-n) + s
	case -width > n:
		return s + strings.Repeat(" ", -width-n)
	default:
		return s
	}
}

// Render is the default string conversion of a value. nil renders empty.
func Render(v any) string {
	if v == nil {
		return ""
	}
	return fmt.Sprint(v)
}
