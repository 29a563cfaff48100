package nrbf

import (
	"errors"
	"fmt"
	"math/big"
	"strings"

	"github.com/skdltmxn/nrbf-go/internal/varint"
	"github.com/skdltmxn/nrbf-go/internal/wire"
)

// ErrInvalidDecimal indicates a Decimal primitive's text does not match the
// grammar: an optional leading '-', a run of digits, optionally followed by
// '.' and another run of digits.
var ErrInvalidDecimal = errors.New("nrbf: invalid Decimal text")

// decimalMaxDigitsText is the .NET Decimal maximum magnitude, as specified:
// the closed interval is ±79228162514264337593543950334.
const decimalMaxDigitsText = "79228162514264337593543950334"

// decimalMaxSignificantDigits is the precision NRBF Decimal values are
// rounded to (half-up) when their textual form carries more digits.
const decimalMaxSignificantDigits = 29

var decimalBound = func() *big.Rat {
	i, ok := new(big.Int).SetString(decimalMaxDigitsText, 10)
	if !ok {
		panic("nrbf: invalid decimal bound constant")
	}
	return new(big.Rat).SetInt(i)
}()

// DecimalValue is the length-prefixed UTF-8 textual Decimal primitive.
// Unscaled holds the significant digits as an unsigned integer; Scale is
// the number of digits that belong after the decimal point.
type DecimalValue struct {
	Negative bool
	Unscaled *big.Int
	Scale    int
}

func (*DecimalValue) PrimitiveType() PrimitiveType { return PrimitiveDecimal }

// String renders the canonical textual form: optional '-', integer digits,
// and (if Scale > 0) a '.' followed by Scale fraction digits.
func (d *DecimalValue) String() string {
	digits := d.Unscaled.String()
	if d.Scale == 0 {
		if d.Negative && d.Unscaled.Sign() != 0 {
			return "-" + digits
		}
		return digits
	}

	for len(digits) <= d.Scale {
		digits = "0" + digits
	}
	intPart := digits[:len(digits)-d.Scale]
	fracPart := digits[len(digits)-d.Scale:]
	fracPart = strings.TrimRight(fracPart, "0")

	sign := ""
	if d.Negative && d.Unscaled.Sign() != 0 {
		sign = "-"
	}
	if fracPart == "" {
		return sign + intPart
	}
	return sign + intPart + "." + fracPart
}

// magnitudeRat returns the value as an exact big.Rat, ignoring sign.
func (d *DecimalValue) magnitudeRat() *big.Rat {
	r := new(big.Rat).SetInt(d.Unscaled)
	if d.Scale > 0 {
		denom := new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(d.Scale)), nil)
		r.Quo(r, new(big.Rat).SetInt(denom))
	}
	return r
}

// DecimalFromString parses s per the Decimal grammar, rounds to
// decimalMaxSignificantDigits (half-up) if it carries more digits, then
// saturates to ±decimalMaxDigitsText if the result exceeds that bound.
func DecimalFromString(s string) (*DecimalValue, error) {
	negative := false
	rest := s
	if strings.HasPrefix(rest, "-") {
		negative = true
		rest = rest[1:]
	}

	intPart, fracPart, hasDot := strings.Cut(rest, ".")
	if hasDot && strings.Contains(fracPart, ".") {
		return nil, fmt.Errorf("%w: %q", ErrInvalidDecimal, s)
	}
	if intPart == "" || !isDigits(intPart) || (hasDot && !isDigits(fracPart)) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidDecimal, s)
	}

	combined := intPart + fracPart
	scale := len(fracPart)

	unscaled, ok := new(big.Int).SetString(combined, 10)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrInvalidDecimal, s)
	}

	unscaled, scale = roundToSignificantDigits(unscaled, scale, decimalMaxSignificantDigits)
	if unscaled.Sign() == 0 {
		negative = false
	}

	d := &DecimalValue{Negative: negative, Unscaled: unscaled, Scale: scale}
	d.saturate()
	return d, nil
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// roundToSignificantDigits rounds unscaled (interpreted with the given
// scale) half-up to maxDigits significant digits, returning the new
// unscaled value and scale. If the truncated digits extend into the
// integer part, the removed magnitude is restored as trailing zeros and
// the scale floors at zero.
func roundToSignificantDigits(unscaled *big.Int, scale, maxDigits int) (*big.Int, int) {
	sig := len(strings.TrimLeft(unscaled.String(), "0"))
	if sig == 0 {
		sig = 1
	}
	excess := sig - maxDigits
	if excess <= 0 {
		return unscaled, scale
	}

	divisor := new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(excess)), nil)
	quotient := new(big.Int)
	remainder := new(big.Int)
	quotient.QuoRem(unscaled, divisor, remainder)

	doubled := new(big.Int).Lsh(remainder, 1)
	if doubled.CmpAbs(divisor) >= 0 {
		quotient.Add(quotient, big.NewInt(1))
	}

	if excess > scale {
		pad := new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(excess-scale)), nil)
		quotient.Mul(quotient, pad)
		scale = 0
	} else {
		scale -= excess
	}
	return quotient, scale
}

// saturate clamps d's magnitude to decimalMaxDigitsText if it exceeds it,
// preserving sign.
func (d *DecimalValue) saturate() {
	if d.magnitudeRat().Cmp(decimalBound) > 0 {
		d.Unscaled, _ = new(big.Int).SetString(decimalMaxDigitsText, 10)
		d.Scale = 0
	}
}

func readDecimal(r *wire.StreamReader) (*DecimalValue, error) {
	_, length, err := varint.ReadInt(r)
	if err != nil {
		return nil, err
	}
	raw, err := r.ReadBytes(int(length))
	if err != nil {
		return nil, err
	}
	return DecimalFromString(string(raw))
}

func writeDecimal(w *wire.StreamWriter, d *DecimalValue) error {
	text := d.String()
	if _, err := varint.WriteInt(w, uint32(len(text))); err != nil {
		return err
	}
	return w.WriteBytes([]byte(text))
}
