package logging

import (
	"fmt"
	"math/big"
	"reflect"
	"strconv"
	"strings"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// FormatProvider renders a single placeholder value. spec is the text after
// the colon of the placeholder and may be empty.
type FormatProvider interface {
	FormatValue(v any, spec string) (string, error)
}

// Invariant is the provider used when none is given.
var Invariant = NewCulture(language.English)

// Culture renders numbers following the conventions of a language.
//
// Numeric specs: N grouped, F fixed point, D zero padded integer, X hex,
// E scientific, P percent, G or empty default. Integers keep all their
// digits; X renders negative integers in two's complement at the width of
// their type, so int8(-1) is "FF". An optional precision
// follows the letter ("N0", "D5"). time.Time values take a Go layout as spec.
// Other values ignore the spec and use Render.
type Culture struct {
	tag     language.Tag
	printer *message.Printer
	decimal string
}

// NewCulture returns a provider for tag.
func NewCulture(tag language.Tag) *Culture {
	p := message.NewPrinter(tag)
	dec := "."
	if r := []rune(p.Sprint(number.Decimal(1.5, number.Scale(1), number.NoSeparator()))); len(r) == 3 {
		dec = string(r[1])
	}
	return &Culture{tag: tag, printer: p, decimal: dec}
}

// CultureFor parses a BCP 47 name such as "de-DE" into a provider.
func CultureFor(name string) (*Culture, error) {
	tag, err := language.Parse(name)
	if err != nil {
		return nil, fmt.Errorf("culture %q: %w", name, err)
	}
	return NewCulture(tag), nil
}

// Tag returns the language of the provider.
func (c *Culture) Tag() language.Tag { return c.tag }

// FormatValue implements FormatProvider.
func (c *Culture) FormatValue(v any, spec string) (string, error) {
	if v == nil {
		return "", nil
	}
	if t, ok := v.(time.Time); ok {
		if spec == "" {
			return Render(t), nil
		}
		return t.Format(spec), nil
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return c.formatInteger(rv, spec)
	case reflect.Float32, reflect.Float64:
		return c.formatFloat(rv.Float(), spec)
	default:
		return Render(v), nil
	}
}

func (c *Culture) formatInteger(rv reflect.Value, spec string) (string, error) {
	verb, prec, err := parseSpec(spec)
	if err != nil {
		return "", err
	}
	// v is the plain int64 or uint64 so x/text and math/big see every digit.
	var v any
	if rv.CanInt() {
		v = rv.Int()
	} else {
		v = rv.Uint()
	}
	switch verb {
	case 0, 'G', 'g':
		return fmt.Sprint(v), nil
	case 'D', 'd':
		s := fmt.Sprint(v)
		neg := strings.HasPrefix(s, "-")
		s = strings.TrimPrefix(s, "-")
		if prec > len(s) {
			s = strings.Repeat("0", prec-len(s)) + s
		}
		if neg {
			s = "-" + s
		}
		return s, nil
	case 'X':
		return fmt.Sprintf("%0*X", max(prec, 0), twosComplement(rv)), nil
	case 'x':
		return fmt.Sprintf("%0*x", max(prec, 0), twosComplement(rv)), nil
	case 'N', 'n':
		return c.printer.Sprint(number.Decimal(v, number.Scale(orDefault(prec, 2)))), nil
	case 'F', 'f':
		return c.printer.Sprint(number.Decimal(v, number.Scale(orDefault(prec, 2)), number.NoSeparator())), nil
	case 'P', 'p':
		return c.printer.Sprint(number.Percent(v, number.Scale(orDefault(prec, 2)))), nil
	case 'E', 'e':
		f := new(big.Float).SetPrec(64)
		if i, ok := v.(int64); ok {
			f.SetInt64(i)
		} else {
			f.SetUint64(v.(uint64))
		}
		return c.localize(f.Text(verb, orDefault(prec, 6))), nil
	default:
		return "", fmt.Errorf("unknown format spec %q", spec)
	}
}

// twosComplement returns the bits of an integer as unsigned, masked to the
// width of its type, so negative values render as in hex dumps.
func twosComplement(rv reflect.Value) uint64 {
	if !rv.CanInt() {
		return rv.Uint()
	}
	u := uint64(rv.Int())
	if bits := rv.Type().Bits(); bits < 64 {
		u &= 1<<uint(bits) - 1
	}
	return u
}

func (c *Culture) formatFloat(f float64, spec string) (string, error) {
	verb, prec, err := parseSpec(spec)
	if err != nil {
		return "", err
	}
	switch verb {
	case 0, 'G', 'g':
		return c.localize(strconv.FormatFloat(f, 'f', -1, 64)), nil
	case 'N', 'n':
		return c.printer.Sprint(number.Decimal(f, number.Scale(orDefault(prec, 2)))), nil
	case 'F', 'f':
		return c.printer.Sprint(number.Decimal(f, number.Scale(orDefault(prec, 2)), number.NoSeparator())), nil
	case 'E':
		return c.localize(strconv.FormatFloat(f, 'E', orDefault(prec, 6), 64)), nil
	case 'e':
		return c.localize(strconv.FormatFloat(f, 'e', orDefault(prec, 6), 64)), nil
	case 'P', 'p':
		return c.printer.Sprint(number.Percent(f, number.Scale(orDefault(prec, 2)))), nil
	case 'D', 'd', 'X', 'x':
		return "", fmt.Errorf("format spec %q requires an integer value", spec)
	default:
		return "", fmt.Errorf("unknown format spec %q", spec)
	}
}

// localize swaps the invariant decimal point for the culture's separator.
func (c *Culture) localize(s string) string {
	if c.decimal == "." {
		return s
	}
	return strings.Replace(s, ".", c.decimal, 1)
}

// parseSpec splits a numeric spec into its letter and optional precision.
// prec is -1 when absent.
func parseSpec(spec string) (byte, int, error) {
	if spec == "" {
		return 0, -1, nil
	}
	verb := spec[0]
	if !strings.ContainsRune("GgNnFfDdXxEePp", rune(verb)) {
		return 0, 0, fmt.Errorf("unknown format spec %q", spec)
	}
	if len(spec) == 1 {
		return verb, -1, nil
	}
	prec, err := strconv.Atoi(spec[1:])
	if err != nil || prec < 0 || prec > 99 {
		return 0, 0, fmt.Errorf("invalid precision in format spec %q", spec)
	}
	return verb, prec, nil
}

func orDefault(prec, def int) int {
	if prec < 0 {
		return def
	}
	return prec
}
