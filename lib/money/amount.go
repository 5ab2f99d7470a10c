package money

import (
	"errors"

	"github.com/shopspring/decimal"
)

var (
	ErrInvalidAmount = errors.New("invalid amount")
	ErrUnderflow     = errors.New("amount underflow")
)

// Amount is an unsigned integer quantity of an asset's smallest unit.
// Balances can exceed the native 64 bit range so all arithmetic goes
// through the embedded arbitrary precision decimal, which also gives us
// the sql Scanner/Valuer and JSON string encoding for free.
type Amount struct {
	decimal.Decimal
}

func Zero() Amount {
	return Amount{}
}

func New(v int64) Amount {
	return Amount{decimal.NewFromInt(v)}
}

// Parse accepts only an unsigned base 10 integer string: no sign, no
// decimal point, no exponent. This is the wire representation of every
// amount in the system.
func Parse(s string) (Amount, error) {
	if s == "" {
		return Amount{}, ErrInvalidAmount
	}
	for _, c := range s {
		if c < '0' || c > '9' {
			return Amount{}, ErrInvalidAmount
		}
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Amount{}, ErrInvalidAmount
	}
	return Amount{d}, nil
}

// MustParse is a test helper, it panics on malformed input.
func MustParse(s string) Amount {
	a, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return a
}

func (a Amount) Add(b Amount) Amount {
	return Amount{a.Decimal.Add(b.Decimal)}
}

// Sub fails with ErrUnderflow when the result would be negative. Amounts
// are unsigned, a negative intermediate value is never representable.
func (a Amount) Sub(b Amount) (Amount, error) {
	if a.Cmp(b) < 0 {
		return Amount{}, ErrUnderflow
	}
	return Amount{a.Decimal.Sub(b.Decimal)}, nil
}

func (a Amount) Cmp(b Amount) int {
	return a.Decimal.Cmp(b.Decimal)
}

func (a Amount) Equal(b Amount) bool {
	return a.Cmp(b) == 0
}

func (a Amount) IsPositive() bool {
	return a.Decimal.IsPositive()
}
