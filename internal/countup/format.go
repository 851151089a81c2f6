package countup

import (
	"math"
	"strconv"
	"strings"
)

// Placeholder is displayed instead of a value that is not a finite number
const Placeholder = "--"

// Options controls easing and number formatting. It is fixed at construction.
// The zero value turns easing and grouping off; start from DefaultOptions and
// change the fields you need to keep the other defaults.
type Options struct {
	UseEasing        bool
	UseGrouping      bool
	GroupSeparator   string
	DecimalSeparator string
	Prefix           string
	Suffix           string
}

// DefaultOptions returns easing and grouping on, with "," and "." separators
func DefaultOptions() Options {
	return Options{
		UseEasing:        true,
		UseGrouping:      true,
		GroupSeparator:   ",",
		DecimalSeparator: ".",
	}
}

// normalize disables grouping without a group separator and falls back to
// "." when no decimal separator is given
func (o Options) normalize() Options {
	if o.GroupSeparator == "" {
		o.UseGrouping = false
	}
	if o.DecimalSeparator == "" {
		o.DecimalSeparator = "."
	}
	return o
}

// Formatter renders numbers with a fixed number of decimals
type Formatter struct {
	Decimals int
	Options  Options
}

// NewFormatter clamps decimals to zero and normalizes opts
func NewFormatter(decimals int, opts Options) Formatter {
	if decimals < 0 {
		decimals = 0
	}
	return Formatter{Decimals: decimals, Options: opts.normalize()}
}

// Format renders v as prefix + grouped integer part + decimal separator +
// fraction + suffix. Non-finite values render as Placeholder.
func (f Formatter) Format(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return Placeholder
	}

	fixed := strconv.FormatFloat(v, 'f', f.Decimals, 64)

	sign := ""
	if strings.HasPrefix(fixed, "-") {
		fixed = fixed[1:]
		// -0.00 and friends print without a sign
		if strings.Trim(fixed, "0.") != "" {
			sign = "-"
		}
	}

	intPart, fracPart, _ := strings.Cut(fixed, ".")
	if f.Options.UseGrouping {
		intPart = group(intPart, f.Options.GroupSeparator)
	}

	var b strings.Builder
	b.WriteString(f.Options.Prefix)
	b.WriteString(sign)
	b.WriteString(intPart)
	if f.Decimals > 0 {
		b.WriteString(f.Options.DecimalSeparator)
		b.WriteString(fracPart)
	}
	b.WriteString(f.Options.Suffix)
	return b.String()
}

// group inserts sep every three digits from the right
func group(digits, sep string) string {
	if len(digits) <= 3 {
		return digits
	}
	lead := len(digits) % 3
	if lead == 0 {
		lead = 3
	}

	var b strings.Builder
	b.Grow(len(digits) + (len(digits)-1)/3*len(sep))
	b.WriteString(digits[:lead])
	for i := lead; i < len(digits); i += 3 {
		b.WriteString(sep)
		b.WriteString(digits[i : i+3])
	}
	return b.String()
}

// roundTo rounds half up at the given number of decimal places. Past the
// precision of a float64 the value is returned as is.
func roundTo(v float64, decimals int) float64 {
	scale := math.Pow(10, float64(decimals))
	scaled := v * scale
	if math.IsInf(scale, 0) || math.IsInf(scaled, 0) {
		return v
	}
	return math.Floor(scaled+0.5) / scale
}
