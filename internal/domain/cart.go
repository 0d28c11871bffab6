package domain

import (
	"slices"

	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"
)

// Cart is an ordered, immutable sequence of line items. Mutating helpers
// return a new Cart and leave the receiver untouched.
type Cart struct {
	Items []LineItem
}

type LineItem struct {
	Product
	Amount int
}

type Stock struct {
	ID     int64 `json:"id"`
	Amount int   `json:"amount"`
}

func (li LineItem) Subtotal() decimal.Decimal {
	return li.Price.Mul(decimal.NewFromInt(int64(li.Amount)))
}

// Find returns the item with productID and its index, or -1 if absent.
func (c Cart) Find(productID int64) (LineItem, int) {
	i := slices.IndexFunc(c.Items, func(li LineItem) bool {
		return li.ID == productID
	})
	if i < 0 {
		return LineItem{}, -1
	}
	return c.Items[i], i
}

func (c Cart) Append(item LineItem) Cart {
	items := make([]LineItem, 0, len(c.Items)+1)
	items = append(items, c.Items...)
	items = append(items, item)
	return Cart{Items: items}
}

// WithAmount returns a copy of c where the item at index i has the given amount.
func (c Cart) WithAmount(i int, amount int) Cart {
	items := slices.Clone(c.Items)
	updated := items[i]
	updated.Amount = amount
	items[i] = updated
	return Cart{Items: items}
}

// Without returns a copy of c with the item at index i removed.
func (c Cart) Without(i int) Cart {
	items := make([]LineItem, 0, len(c.Items)-1)
	items = append(items, c.Items[:i]...)
	items = append(items, c.Items[i+1:]...)
	return Cart{Items: items}
}

// Clone returns a deep copy of c. Changes to the copy, Extra included, never
// reach c.
func (c Cart) Clone() Cart {
	if c.Items == nil {
		return Cart{}
	}
	items := make([]LineItem, len(c.Items))
	for i, li := range c.Items {
		li.Product = li.Product.Clone()
		items[i] = li
	}
	return Cart{Items: items}
}

// Count is the number of distinct products in the cart.
func (c Cart) Count() int {
	return len(c.Items)
}

func (c Cart) Total(unit currency.Unit) Money {
	total := Money{Amount: decimal.Zero, Currency: unit}
	for _, li := range c.Items {
		total = total.Add(li.Subtotal())
	}
	return total
}
