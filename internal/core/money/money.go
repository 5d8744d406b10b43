// Package money implements exact fixed-point decimal arithmetic for
// monetary amounts, scaled to four fractional digits.
package money

import (
	"strconv"
	"strings"

	"github.com/LeJamon/goPayproc/internal/core/errs"
)

// Scale is the number of fractional digits a Money value carries.
const Scale = 4

const scaleFactor int64 = 10000

// Money is a signed fixed-point decimal with exactly four fractional
// digits, represented internally as an integer count of 1/10000ths.
type Money int64

// Zero is the canonical representation of zero.
const Zero Money = 0

// FromUnits constructs a Money value from a raw scaled integer (units of
// 1/10000). Intended for tests and internal conversions.
func FromUnits(units int64) Money {
	return Money(units)
}

// Units returns the raw scaled integer backing m.
func (m Money) Units() int64 {
	return int64(m)
}

// Parse reads a decimal-text amount: an optional sign, an integer part,
// and an optional fractional part of up to four digits. Digits beyond the
// fourth fractional place are truncated toward zero, never rounded.
func Parse(text string) (Money, error) {
	s := strings.TrimSpace(text)
	if s == "" {
		return 0, errs.ErrParse
	}

	neg := false
	switch s[0] {
	case '+':
		s = s[1:]
	case '-':
		neg = true
		s = s[1:]
	}
	if s == "" {
		return 0, errs.ErrParse
	}

	intPart, fracPart, hasFrac := s, "", false
	if idx := strings.IndexByte(s, '.'); idx >= 0 {
		intPart, fracPart = s[:idx], s[idx+1:]
		hasFrac = true
	}
	if intPart == "" {
		return 0, errs.ErrParse
	}
	if !isAllDigits(intPart) {
		return 0, errs.ErrParse
	}
	if hasFrac && fracPart == "" {
		return 0, errs.ErrParse
	}
	if hasFrac && !isAllDigits(fracPart) {
		return 0, errs.ErrParse
	}

	// Truncate fractional digits beyond Scale toward zero; never round.
	if len(fracPart) > Scale {
		fracPart = fracPart[:Scale]
	}
	for len(fracPart) < Scale {
		fracPart += "0"
	}

	intVal, err := strconv.ParseInt(intPart, 10, 64)
	if err != nil {
		return 0, errs.ErrParse
	}
	fracVal, err := strconv.ParseInt(fracPart, 10, 64)
	if err != nil {
		return 0, errs.ErrParse
	}

	scaled, ok := mulOverflows(intVal, scaleFactor)
	if ok {
		return 0, errs.ErrArithmeticOverflow
	}
	units, ok := addOverflows(scaled, fracVal)
	if ok {
		return 0, errs.ErrArithmeticOverflow
	}

	if neg {
		units = -units
	}
	return Money(units), nil
}

func isAllDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// String renders m with exactly four fractional digits.
func (m Money) String() string {
	units := int64(m)
	neg := units < 0
	if neg {
		units = -units
	}
	whole := units / scaleFactor
	frac := units % scaleFactor

	sign := ""
	if neg {
		sign = "-"
	}
	return sign + strconv.FormatInt(whole, 10) + "." + zeroPad(frac, Scale)
}

func zeroPad(v int64, width int) string {
	s := strconv.FormatInt(v, 10)
	for len(s) < width {
		s = "0" + s
	}
	return s
}

// Add returns m+other, failing on overflow.
func (m Money) Add(other Money) (Money, error) {
	sum, overflow := addOverflows(int64(m), int64(other))
	if overflow {
		return 0, errs.ErrArithmeticOverflow
	}
	return Money(sum), nil
}

// Sub returns m-other, failing on overflow.
func (m Money) Sub(other Money) (Money, error) {
	diff, overflow := subOverflows(int64(m), int64(other))
	if overflow {
		return 0, errs.ErrArithmeticOverflow
	}
	return Money(diff), nil
}

// Neg returns -m, failing on overflow (only possible at MinInt64).
func (m Money) Neg() (Money, error) {
	if m == Money(minInt64) {
		return 0, errs.ErrArithmeticOverflow
	}
	return -m, nil
}

// IsPositive reports whether m is strictly greater than zero.
func (m Money) IsPositive() bool {
	return m > 0
}

// IsZero reports whether m is exactly zero.
func (m Money) IsZero() bool {
	return m == 0
}

const minInt64 = -1 << 63
const maxInt64 = 1<<63 - 1

func addOverflows(a, b int64) (int64, bool) {
	sum := a + b
	if (b > 0 && sum < a) || (b < 0 && sum > a) {
		return 0, true
	}
	return sum, false
}

func subOverflows(a, b int64) (int64, bool) {
	diff := a - b
	if (b < 0 && diff < a) || (b > 0 && diff > a) {
		return 0, true
	}
	return diff, false
}

func mulOverflows(a, b int64) (int64, bool) {
	if a == 0 || b == 0 {
		return 0, false
	}
	p := a * b
	if p/b != a {
		return 0, true
	}
	return p, false
}
