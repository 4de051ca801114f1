package coin

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/mtlprog/suiledger/internal/domain"
)

// Mode selects the display precision policy.
type Mode string

const (
	// ModeAccurate shows up to 20 fractional digits and never abbreviates.
	ModeAccurate Mode = "accurate"
	// ModeLoose shows 8 fractional digits below one display unit,
	// otherwise 3 fractional digits with compact notation.
	ModeLoose Mode = "loose"
)

// ParseMode maps a user-supplied string to a Mode, defaulting to loose.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", string(ModeLoose):
		return ModeLoose, nil
	case string(ModeAccurate):
		return ModeAccurate, nil
	default:
		return "", fmt.Errorf("unknown display mode %q", s)
	}
}

const (
	accurateFractionDigits = 20
	subUnitFractionDigits  = 8
	compactFractionDigits  = 3
)

// Placeholder replaces loose-mode values too small to show without reading as zero.
const Placeholder = "– –"

var placeholderThreshold = decimal.New(1, -8)

// Display is an amount prepared for rendering.
type Display struct {
	// Value is balance / denomination, exact.
	Value  decimal.Decimal `json:"value"`
	Symbol string          `json:"symbol"`
	// MaxFractionDigits is the precision hint for renderers.
	MaxFractionDigits int32  `json:"maxFractionDigits"`
	Compact           bool   `json:"compact"`
	Placeholder       string `json:"placeholder,omitempty"`
	// Text is Value rendered under the chosen mode, or the placeholder.
	Text string `json:"text"`
}

// Float64 converts Value to a float64. The conversion is lossy for values
// that need more than about 15 significant digits; use it only for display.
func (d Display) Float64() float64 {
	f, _ := d.Value.Float64()
	return f
}

// FormatForDisplay formats balance using the default registry.
func FormatForDisplay(balance decimal.Decimal, coinType domain.CoinTypeTag, mode Mode) Display {
	return DefaultRegistry().FormatForDisplay(balance, coinType, mode)
}

// FormatForDisplay converts an integer balance in the coin's smallest unit
// into a display value under the given mode.
func (r *Registry) FormatForDisplay(balance decimal.Decimal, coinType domain.CoinTypeTag, mode Mode) Display {
	decimals := r.Decimals(coinType)
	value := balance.Shift(-decimals)

	d := Display{Value: value, Symbol: r.Symbol(coinType)}

	if mode == ModeAccurate {
		d.MaxFractionDigits = accurateFractionDigits
		d.Text = groupedText(value, accurateFractionDigits)
		return d
	}

	if balance.LessThan(r.Denomination(coinType)) {
		d.MaxFractionDigits = subUnitFractionDigits
		d.Text = groupedText(value, subUnitFractionDigits)
	} else {
		d.MaxFractionDigits = compactFractionDigits
		d.Compact = true
		d.Text = compactText(value, compactFractionDigits)
	}

	if value.LessThan(placeholderThreshold) {
		d.Placeholder = Placeholder
		d.Text = Placeholder
	}
	return d
}

type compactUnit struct {
	exp    int32
	suffix string
}

// Largest first. Values beyond T keep the T suffix with a grouped mantissa.
var compactUnits = []compactUnit{
	{12, "T"},
	{9, "B"},
	{6, "M"},
	{3, "K"},
}

// compactText renders v in short compact notation, e.g. 1234.5 -> "1.235K".
func compactText(v decimal.Decimal, places int32) string {
	abs := v.Abs()
	for i, u := range compactUnits {
		if abs.LessThan(decimal.New(1, u.exp)) {
			continue
		}
		scaled := abs.Shift(-u.exp).Round(places)
		// rounding can carry into the next unit: 999999.9 -> 1000K -> 1M
		if i > 0 && scaled.GreaterThanOrEqual(decimal.New(1, 3)) {
			up := compactUnits[i-1]
			scaled = abs.Shift(-up.exp).Round(places)
			return sign(v) + groupedText(scaled, places) + up.suffix
		}
		return sign(v) + groupedText(scaled, places) + u.suffix
	}

	rounded := abs.Round(places)
	if rounded.GreaterThanOrEqual(decimal.New(1, 3)) {
		return sign(v) + groupedText(rounded.Shift(-3), places) + "K"
	}
	return sign(v) + groupedText(rounded, places)
}

// groupedText renders v with en-US thousands separators and at most places
// fractional digits, trailing zeros stripped.
func groupedText(v decimal.Decimal, places int32) string {
	s := domain.TrimZeros(v.Abs(), places)
	intPart, frac, hasFrac := strings.Cut(s, ".")
	out := groupThousands(intPart)
	if hasFrac {
		out += "." + frac
	}
	if v.IsNegative() && out != "0" {
		return "-" + out
	}
	return out
}

func groupThousands(digits string) string {
	if len(digits) <= 3 {
		return digits
	}
	var b strings.Builder
	head := len(digits) % 3
	if head > 0 {
		b.WriteString(digits[:head])
	}
	for i := head; i < len(digits); i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(digits[i : i+3])
	}
	return b.String()
}

func sign(v decimal.Decimal) string {
	if v.IsNegative() {
		return "-"
	}
	return ""
}
