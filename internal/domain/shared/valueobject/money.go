package valueobject

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// ErrInvalidCurrency is returned for anything that is not a three letter code.
var ErrInvalidCurrency = errors.New("invalid currency code")

// Currency is an ISO 4217 code as sent in the currency attribute of a price feed.
type Currency string

const (
	USD Currency = "USD"
	EUR Currency = "EUR"
	GBP Currency = "GBP"
	JPY Currency = "JPY"
	CAD Currency = "CAD"
	INR Currency = "INR"
)

// ParseCurrency upper-cases and trims code before validating it.
func ParseCurrency(code string) (Currency, error) {
	c := Currency(strings.ToUpper(strings.TrimSpace(code)))
	if !c.Valid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidCurrency, code)
	}
	return c, nil
}

func (c Currency) Valid() bool {
	if len(c) != 3 {
		return false
	}
	for i := 0; i < len(c); i++ {
		if c[i] < 'A' || c[i] > 'Z' {
			return false
		}
	}
	return true
}

// Money pairs an amount with its currency. The zero value is not usable.
type Money struct {
	amount   decimal.Decimal
	currency Currency
}

func NewMoney(amount decimal.Decimal, currency Currency) (Money, error) {
	if !currency.Valid() {
		return Money{}, fmt.Errorf("%w: %q", ErrInvalidCurrency, string(currency))
	}
	return Money{amount: amount, currency: currency}, nil
}

func (m Money) Amount() decimal.Decimal { return m.amount }
func (m Money) Currency() Currency      { return m.currency }

// Text renders the amount without trailing zeros, e.g. 9.9900 as "9.99".
func (m Money) Text() string {
	return m.amount.String()
}

func (m Money) String() string {
	return string(m.currency) + " " + m.amount.StringFixed(2)
}
