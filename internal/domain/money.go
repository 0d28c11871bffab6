package domain

import (
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

type Money struct {
	Amount   decimal.Decimal
	Currency currency.Unit
}

func (m Money) Add(other decimal.Decimal) Money {
	return Money{Amount: m.Amount.Add(other), Currency: m.Currency}
}

// Format renders the amount with its currency symbol using the number
// conventions of tag. Digits are taken from the decimal, so no precision is
// lost to float64.
func (m Money) Format(tag language.Tag) string {
	p := message.NewPrinter(tag)

	scale, _ := currency.Standard.Rounding(m.Currency)
	rounded := m.Amount.Round(int32(scale))

	whole, frac, _ := strings.Cut(rounded.Abs().StringFixed(int32(scale)), ".")
	digits := whole
	if n, err := strconv.ParseInt(whole, 10, 64); err == nil {
		digits = p.Sprint(number.Decimal(n))
	}
	if frac != "" {
		digits += decimalSeparator(p) + frac
	}
	if rounded.IsNegative() {
		digits = "-" + digits
	}

	return p.Sprint(currency.Symbol(m.Currency)) + " " + digits
}

// decimalSeparator is whatever p prints between the digits of 1.5.
func decimalSeparator(p *message.Printer) string {
	r := []rune(p.Sprint(number.Decimal(1.5, number.Scale(1))))
	if len(r) < 3 {
		return "."
	}
	return string(r[1 : len(r)-1])
}
