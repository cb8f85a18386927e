package domain

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

// Money limits. Amounts are stored as DECIMAL(15,2).
const (
	MoneyScale       = 2
	MaxIntegerDigits = 13
	MaxAmountLiteral = "9999999999999.99"
)

// Money is an exact decimal amount with two fractional digits.
type Money struct {
	d decimal.Decimal
}

// amountPattern is the only accepted literal form: no exponent, no bare dot.
var amountPattern = regexp.MustCompile(`^[+-]?([0-9]+)(?:\.([0-9]+))?$`)

// Zero is the zero amount.
var Zero = Money{d: decimal.Zero}

// ParseAmount parses a signed decimal string with at most two fractional digits.
func ParseAmount(s string) (Money, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Zero, fmt.Errorf("%w: amount is required", ErrInvalidAmount)
	}

	parts := amountPattern.FindStringSubmatch(s)
	if parts == nil {
		return Zero, fmt.Errorf("%w: %q is not a decimal number", ErrInvalidAmount, s)
	}

	if len(parts[2]) > MoneyScale {
		return Zero, fmt.Errorf("%w: %q has more than %d fractional digits", ErrInvalidAmount, s, MoneyScale)
	}

	if len(strings.TrimLeft(parts[1], "0")) > MaxIntegerDigits {
		return Zero, fmt.Errorf("%w: magnitude exceeds %d integer digits", ErrAmountTooLarge, MaxIntegerDigits)
	}

	d, err := decimal.NewFromString(s)
	if err != nil {
		return Zero, fmt.Errorf("%w: %q is not a decimal number", ErrInvalidAmount, s)
	}

	m := Money{d: d.Round(MoneyScale)}
	if err := m.CheckBounds(); err != nil {
		return Zero, err
	}

	return m, nil
}

// MustParseAmount is ParseAmount that panics on error. Intended for tests and constants.
func MustParseAmount(s string) Money {
	m, err := ParseAmount(s)
	if err != nil {
		panic(err)
	}
	return m
}

// NewMoney builds Money from a decimal, rounding to two fractional digits.
func NewMoney(d decimal.Decimal) Money {
	return Money{d: d.Round(MoneyScale)}
}

// NewMoneyFromCents builds Money from an integer number of cents.
func NewMoneyFromCents(cents int64) Money {
	return Money{d: decimal.New(cents, -MoneyScale)}
}

var maxAmount = decimal.RequireFromString(MaxAmountLiteral)

// CheckBounds reports ErrAmountTooLarge when m does not fit DECIMAL(15,2).
func (m Money) CheckBounds() error {
	if m.d.Abs().GreaterThan(maxAmount) {
		return fmt.Errorf("%w: magnitude exceeds %d integer digits", ErrAmountTooLarge, MaxIntegerDigits)
	}
	return nil
}

// Decimal returns the underlying decimal value.
func (m Money) Decimal() decimal.Decimal { return m.d }

// Add returns m + o.
func (m Money) Add(o Money) Money { return Money{d: m.d.Add(o.d)} }

// Sub returns m - o.
func (m Money) Sub(o Money) Money { return Money{d: m.d.Sub(o.d)} }

// Neg returns -m.
func (m Money) Neg() Money { return Money{d: m.d.Neg()} }

// IsNegative reports whether m < 0.
func (m Money) IsNegative() bool { return m.d.IsNegative() }

// IsZero reports whether m == 0.
func (m Money) IsZero() bool { return m.d.IsZero() }

// Equal reports whether m and o are the same amount.
func (m Money) Equal(o Money) bool { return m.d.Equal(o.d) }

// Cmp returns -1, 0 or +1 as m is less than, equal to or greater than o.
func (m Money) Cmp(o Money) int { return m.d.Cmp(o.d) }

// LessThan reports whether m < o.
func (m Money) LessThan(o Money) bool { return m.d.LessThan(o.d) }

// String renders the amount with exactly two fractional digits.
func (m Money) String() string {
	return m.d.StringFixed(MoneyScale)
}

// MarshalJSON encodes Money as a JSON string.
func (m Money) MarshalJSON() ([]byte, error) {
	return json.Marshal(m.String())
}

// UnmarshalJSON accepts a JSON string holding an amount.
func (m *Money) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("%w: amount must be a string", ErrInvalidAmount)
	}

	parsed, err := ParseAmount(s)
	if err != nil {
		return err
	}

	*m = parsed
	return nil
}

// Sum adds all amounts.
func Sum(amounts ...Money) Money {
	total := Zero
	for _, a := range amounts {
		total = total.Add(a)
	}
	return total
}

