package calc

import (
	"strconv"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// DefaultLocale is used when no locale is configured.
var DefaultLocale = language.AmericanEnglish

// Formatter renders operands for display with locale digit grouping.
type Formatter struct {
	tag     language.Tag
	printer *message.Printer
	decimal string
	group   string
}

// NewFormatter returns a Formatter for tag.
func NewFormatter(tag language.Tag) *Formatter {
	p := message.NewPrinter(tag)
	return &Formatter{tag: tag, printer: p, decimal: decimalSeparator(p), group: groupSeparator(p)}
}

// decimalSeparator is whatever the locale prints between 1 and 5 in 1.5.
func decimalSeparator(p *message.Printer) string {
	s := p.Sprintf("%v", number.Decimal(1.5))
	if i, j := strings.Index(s, "1"), strings.LastIndex(s, "5"); i >= 0 && j > i+1 {
		return s[i+1 : j]
	}
	return "."
}

// groupSeparator is whatever the locale prints between 1 and 234 in 1234.
func groupSeparator(p *message.Printer) string {
	s := p.Sprintf("%v", number.Decimal(1234))
	if i, j := strings.Index(s, "1"), strings.Index(s, "234"); i >= 0 && j > i+1 {
		return s[i+1 : j]
	}
	return ""
}

// ParseLocale parses a BCP 47 tag, falling back to DefaultLocale on "".
func ParseLocale(s string) (language.Tag, error) {
	if s == "" {
		return DefaultLocale, nil
	}
	return language.Parse(s)
}

// Locale returns the formatter's language tag.
func (f *Formatter) Locale() language.Tag {
	return f.tag
}

// Format groups the integer part of o and re-attaches any fractional digits
// verbatim after the locale's decimal separator. An absent operand returns ("", false).
func (f *Formatter) Format(o Operand) (string, bool) {
	raw, ok := o.Value()
	if !ok {
		return "", false
	}

	integer, fraction, hasFraction := strings.Cut(raw, ".")
	grouped := f.formatInteger(integer)
	if !hasFraction {
		return grouped, true
	}
	return grouped + f.decimal + fraction, true
}

func (f *Formatter) formatInteger(integer string) string {
	switch integer {
	case "":
		return f.printer.Sprintf("%v", number.Decimal(0))
	case "-0":
		return integer
	case "Infinity":
		return "∞"
	case "-Infinity":
		return "-∞"
	}
	if n, err := strconv.ParseInt(integer, 10, 64); err == nil {
		return f.printer.Sprintf("%v", number.Decimal(n))
	}
	return f.groupDigits(integer)
}

// groupDigits inserts the group separator every three digits of a digit run
// too long for int64. Anything that is not an optionally signed digit run,
// such as NaN, is returned as written.
func (f *Formatter) groupDigits(integer string) string {
	sign, digits := "", integer
	if strings.HasPrefix(digits, "-") {
		sign, digits = "-", digits[1:]
	}
	if digits == "" || strings.Trim(digits, "0123456789") != "" {
		return integer
	}
	if trimmed := strings.TrimLeft(digits, "0"); trimmed != "" {
		digits = trimmed
	} else {
		digits = "0"
	}

	var b strings.Builder
	b.WriteString(sign)
	for i, r := range digits {
		if i > 0 && (len(digits)-i)%3 == 0 {
			b.WriteString(f.group)
		}
		b.WriteRune(r)
	}
	return b.String()
}

// Display is the rendering contract handed to front ends.
type Display struct {
	// Previous is the formatted left operand followed by the operation symbol.
	Previous string
	// Current is the formatted current operand.
	Current   string
	Operation Operation
	State     State
}

// Render formats both operands of s.
func (f *Formatter) Render(s State) Display {
	d := Display{Operation: s.Operation, State: s}
	d.Current, _ = f.Format(s.Current)

	prev, _ := f.Format(s.Previous)
	switch {
	case prev != "" && s.Operation != "":
		d.Previous = prev + " " + string(s.Operation)
	case prev != "":
		d.Previous = prev
	default:
		d.Previous = string(s.Operation)
	}
	return d
}
