package domain_test

import (
	"encoding/json"
	"testing"

	"github.com/nikolayk812/cartstore/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"golang.org/x/text/currency"
	"golang.org/x/text/language"
)

func sampleCart() domain.Cart {
	return domain.Cart{Items: []domain.LineItem{
		{Product: domain.Product{ID: 1, Price: decimal.RequireFromString("10.50")}, Amount: 2},
		{Product: domain.Product{ID: 2, Price: decimal.RequireFromString("3")}, Amount: 1},
		{Product: domain.Product{ID: 3, Price: decimal.RequireFromString("0.25")}, Amount: 4},
	}}
}

func TestCart_Find(t *testing.T) {
	cart := sampleCart()

	item, idx := cart.Find(2)
	assert.Equal(t, 1, idx)
	assert.Equal(t, int64(2), item.ID)

	item, idx = cart.Find(42)
	assert.Equal(t, -1, idx)
	assert.Zero(t, item)
}

func TestCart_UpdatesDoNotAlias(t *testing.T) {
	tests := []struct {
		name    string
		update  func(domain.Cart) domain.Cart
		wantIDs []int64
		wantAmt []int
	}{
		{
			name:    "with amount",
			update:  func(c domain.Cart) domain.Cart { return c.WithAmount(0, 7) },
			wantIDs: []int64{1, 2, 3},
			wantAmt: []int{7, 1, 4},
		},
		{
			name:    "without middle",
			update:  func(c domain.Cart) domain.Cart { return c.Without(1) },
			wantIDs: []int64{1, 3},
			wantAmt: []int{2, 4},
		},
		{
			name:    "without last",
			update:  func(c domain.Cart) domain.Cart { return c.Without(2) },
			wantIDs: []int64{1, 2},
			wantAmt: []int{2, 1},
		},
		{
			name: "append",
			update: func(c domain.Cart) domain.Cart {
				return c.Append(domain.LineItem{Product: domain.Product{ID: 9}, Amount: 1})
			},
			wantIDs: []int64{1, 2, 3, 9},
			wantAmt: []int{2, 1, 4, 1},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			original := sampleCart()
			snapshot := sampleCart()

			updated := tt.update(original)

			assert.Equal(t, snapshot, original, "receiver must stay untouched")

			var ids []int64
			var amounts []int
			for _, item := range updated.Items {
				ids = append(ids, item.ID)
				amounts = append(amounts, item.Amount)
			}
			assert.Equal(t, tt.wantIDs, ids)
			assert.Equal(t, tt.wantAmt, amounts)
		})
	}
}

func TestCart_AppendDoesNotShareBacking(t *testing.T) {
	base := domain.Cart{Items: make([]domain.LineItem, 1, 4)}
	base.Items[0] = domain.LineItem{Product: domain.Product{ID: 1}, Amount: 1}

	a := base.Append(domain.LineItem{Product: domain.Product{ID: 2}, Amount: 1})
	b := base.Append(domain.LineItem{Product: domain.Product{ID: 3}, Amount: 1})

	assert.Equal(t, int64(2), a.Items[1].ID)
	assert.Equal(t, int64(3), b.Items[1].ID)
}

func TestCart_Total(t *testing.T) {
	cart := sampleCart()

	total := cart.Total(currency.EUR)
	assert.True(t, decimal.RequireFromString("25").Equal(total.Amount), total.Amount.String())
	assert.Equal(t, currency.EUR, total.Currency)
	assert.Equal(t, 3, cart.Count())

	empty := domain.Cart{}
	assert.True(t, empty.Total(currency.EUR).Amount.IsZero())
	assert.Zero(t, empty.Count())
}

func TestCart_Clone(t *testing.T) {
	original := sampleCart()
	original.Items[0].Extra = map[string]json.RawMessage{"brand": json.RawMessage(`"Rocket"`)}

	clone := original.Clone()
	clone.Items[0].Amount = 99
	clone.Items[0].Extra["brand"] = json.RawMessage(`"Other"`)
	clone.Items[0].Extra["color"] = json.RawMessage(`"red"`)

	assert.Equal(t, 2, original.Items[0].Amount)
	assert.Equal(t, map[string]json.RawMessage{"brand": json.RawMessage(`"Rocket"`)}, original.Items[0].Extra)
	assert.Nil(t, clone.Items[1].Extra)

	assert.Nil(t, domain.Cart{}.Clone().Items)
}

func TestMoney_Format(t *testing.T) {
	tests := []struct {
		name   string
		amount string
		unit   currency.Unit
		tag    language.Tag
		want   []string
	}{
		{
			name:   "dollars in english",
			amount: "359.8",
			unit:   currency.USD,
			tag:    language.AmericanEnglish,
			want:   []string{"359.80"},
		},
		{
			name:   "reais in brazilian portuguese",
			amount: "1234.5",
			unit:   currency.BRL,
			tag:    language.BrazilianPortuguese,
			want:   []string{"R$", "1.234,50"},
		},
		{
			name:   "beyond float64 precision",
			amount: "12345678901234567.89",
			unit:   currency.USD,
			tag:    language.AmericanEnglish,
			want:   []string{"12,345,678,901,234,567.89"},
		},
		{
			name:   "rounded to currency scale",
			amount: "-0.125",
			unit:   currency.USD,
			tag:    language.AmericanEnglish,
			want:   []string{"-0.13"},
		},
		{
			name:   "currency without minor units",
			amount: "1500.4",
			unit:   currency.JPY,
			tag:    language.AmericanEnglish,
			want:   []string{"1,500"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := domain.Money{Amount: decimal.RequireFromString(tt.amount), Currency: tt.unit}

			got := m.Format(tt.tag)
			for _, want := range tt.want {
				assert.Contains(t, got, want)
			}
		})
	}
}
