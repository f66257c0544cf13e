package formula

import (
	"math"
	"math/big"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// Format describes how numbers are displayed to and read from people: the
// locale's decimal and grouping separators and the number of fraction digits.
// Formula text itself always uses '.' as the decimal separator, since a ','
// would be ambiguous with argument separators; a Format attached to a formula
// is carried by its literals into every value computed from them.
//
// A Format is immutable and safe for concurrent use.
type Format struct {
	tag     language.Tag
	digits  int
	decimal string
	group   string
	printer *message.Printer
}

// DefaultFormat is the format of values that have no other format: English,
// with the shortest fraction that identifies the value exactly.
var DefaultFormat = NewFormat(language.English, -1)

// NewFormat creates a format for a locale. digits is the maximum number of
// fraction digits to display, or -1 for as many as needed.
func NewFormat(tag language.Tag, digits int) *Format {
	f := &Format{
		tag:     tag,
		digits:  digits,
		printer: message.NewPrinter(tag),
	}
	// Learn the separators by formatting a probe.
	probe := f.printer.Sprint(number.Decimal(1234.5, number.MaxFractionDigits(1), number.MinFractionDigits(1)))
	f.decimal, f.group = separators(probe)
	return f
}

// ParseFormat creates a format from a BCP 47 locale name such as "de-CH".
func ParseFormat(locale string, digits int) (*Format, error) {
	tag, err := language.Parse(locale)
	if err != nil {
		return nil, err
	}
	return NewFormat(tag, digits), nil
}

// separators finds the grouping and decimal separators in a formatted 1234.5.
// The grouping separator is empty if the locale does not group four digits.
func separators(probe string) (decimal, group string) {
	var runs []string
	var cur strings.Builder
	seen := false
	for _, r := range probe {
		if unicode.IsDigit(r) {
			seen = true
			if cur.Len() > 0 {
				runs = append(runs, cur.String())
				cur.Reset()
			}
			continue
		}
		if seen {
			cur.WriteRune(r)
		}
	}
	switch len(runs) {
	case 0:
		return ".", ""
	case 1:
		return runs[0], ""
	default:
		return runs[len(runs)-1], runs[0]
	}
}

// Tag returns the format's locale.
func (f *Format) Tag() language.Tag {
	return f.tag
}

// Digits returns the maximum number of fraction digits displayed, or -1.
func (f *Format) Digits() int {
	return f.digits
}

// Decimal returns the locale's decimal separator.
func (f *Format) Decimal() string {
	return f.decimal
}

// Group returns the locale's digit grouping separator, possibly empty.
func (f *Format) Group() string {
	return f.group
}

func (f *Format) String() string {
	return f.tag.String() + "/" + strconv.Itoa(f.digits)
}

// maxDisplayFraction is the most fraction digits Display writes in positional
// notation. Smaller magnitudes use scientific notation.
const maxDisplayFraction = 20

// Display formats x for people using the locale's separators.
func (f *Format) Display(x *big.Float) string {
	if x.IsInf() {
		if x.Signbit() {
			return "-∞"
		}
		return "∞"
	}
	v, _ := x.Float64()
	if math.IsInf(v, 0) || v == 0 && x.Sign() != 0 {
		// Beyond float64 range. Only the decimal separator is localized.
		return strings.Replace(x.Text('e', f.digits), ".", f.decimal, 1)
	}
	a := math.Abs(v)
	if a != 0 && (a < 1e-6 || a >= 1e21) {
		// Scientific notation. Only the decimal separator is localized.
		s := strconv.FormatFloat(v, 'e', f.digits, 64)
		return strings.Replace(s, ".", f.decimal, 1)
	}
	digits := f.digits
	if digits < 0 {
		s := strconv.FormatFloat(v, 'f', -1, 64)
		digits = 0
		if k := strings.IndexByte(s, '.'); k >= 0 {
			digits = len(s) - k - 1
		}
		if digits > maxDisplayFraction {
			digits = maxDisplayFraction
		}
	}
	return f.printer.Sprint(number.Decimal(v, number.MaxFractionDigits(digits)))
}

// Parse reads a number written for people in the format's locale, e.g.
// "1.234,5" for German.
func (f *Format) Parse(s string) (*Number, error) {
	t := strings.TrimSpace(s)
	if f.group != "" {
		t = strings.ReplaceAll(t, f.group, "")
		if r, _ := utf8.DecodeRuneInString(f.group); unicode.IsSpace(r) {
			// Spaces of any kind group digits in such locales.
			t = strings.Map(func(r rune) rune {
				if unicode.IsSpace(r) {
					return -1
				}
				return r
			}, t)
		}
	}
	if f.decimal != "." {
		if strings.Contains(t, ".") {
			return nil, &LexError{Text: s, Kind: "number"}
		}
		t = strings.Replace(t, f.decimal, ".", 1)
	}
	switch t {
	case "∞", "+∞":
		t = "+Inf"
	case "-∞":
		t = "-Inf"
	}
	x, _, err := new(big.Float).SetPrec(Prec).Parse(t, 10)
	if err != nil {
		return nil, &LexError{Text: s, Kind: "number"}
	}
	return &Number{f: x, fmt: f}, nil
}

// literal converts a numeric literal token to a Number.
func literal(text string, f *Format) *Number {
	if text == "∞" {
		text = "inf"
	}
	r, _, err := new(big.Float).SetPrec(Prec).Parse(text, 10)
	switch {
	case err == nil: // do nothing
	case err.Error() == "exponent overflow",
		strings.HasSuffix(err.Error(), ": value out of range"):
		// There isn't realistically any better way to detect this error.
		// Literals are never negative, the sign being a separate token.
		r = new(big.Float).SetPrec(Prec).SetInf(false)
	default:
		panic("formula: invalid number: " + text + " (" + err.Error() + ")")
	}
	return &Number{f: r, fmt: f}
}
