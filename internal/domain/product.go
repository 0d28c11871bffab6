package domain

import (
	"encoding/json"
	"fmt"
	"maps"
	"slices"

	"github.com/shopspring/decimal"
)

var namedFields = []string{"id", "title", "price", "image"}

// Product is catalog metadata. Fields the catalog returns beyond the named
// ones are kept in Extra and written back unchanged.
type Product struct {
	ID    int64
	Title string
	Price decimal.Decimal
	Image string

	Extra map[string]json.RawMessage

	// named fields as received, written back verbatim while they still
	// decode to the current value
	received map[string]json.RawMessage
}

// Clone returns a copy of p that shares no memory with it.
func (p Product) Clone() Product {
	p.Extra = cloneRaw(p.Extra)
	p.received = cloneRaw(p.received)
	return p
}

func cloneRaw(m map[string]json.RawMessage) map[string]json.RawMessage {
	if m == nil {
		return nil
	}
	out := make(map[string]json.RawMessage, len(m))
	for k, v := range m {
		out[k] = slices.Clone(v)
	}
	return out
}

func (p Product) MarshalJSON() ([]byte, error) {
	fields, err := p.fields()
	if err != nil {
		return nil, err
	}
	return json.Marshal(fields)
}

func (p *Product) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	return p.fromFields(raw)
}

func (li LineItem) MarshalJSON() ([]byte, error) {
	fields, err := li.Product.fields()
	if err != nil {
		return nil, err
	}
	if fields["amount"], err = json.Marshal(li.Amount); err != nil {
		return nil, err
	}
	return json.Marshal(fields)
}

func (li *LineItem) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	var item LineItem
	if v, ok := raw["amount"]; ok {
		if err := json.Unmarshal(v, &item.Amount); err != nil {
			return fmt.Errorf("amount: %w", err)
		}
		delete(raw, "amount")
	}
	if err := item.Product.fromFields(raw); err != nil {
		return err
	}

	*li = item
	return nil
}

// fields writes a named field only if it was received or holds a non-zero
// value. The id is always written.
func (p Product) fields() (map[string]json.RawMessage, error) {
	out := make(map[string]json.RawMessage, len(p.Extra)+len(namedFields))
	maps.Copy(out, p.Extra)

	for _, key := range namedFields {
		received, ok := p.received[key]
		if ok && p.matches(key, received) {
			out[key] = received
			continue
		}

		v, zero := p.value(key)
		if zero && !ok {
			continue
		}
		b, err := json.Marshal(v)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", key, err)
		}
		out[key] = b
	}

	return out, nil
}

func (p *Product) fromFields(raw map[string]json.RawMessage) error {
	var out Product

	for _, key := range namedFields {
		v, ok := raw[key]
		if !ok {
			continue
		}
		if err := json.Unmarshal(v, out.target(key)); err != nil {
			return fmt.Errorf("%s: %w", key, err)
		}
		if out.received == nil {
			out.received = make(map[string]json.RawMessage, len(namedFields))
		}
		out.received[key] = v
		delete(raw, key)
	}

	if len(raw) > 0 {
		out.Extra = raw
	}

	*p = out
	return nil
}

func (p *Product) target(key string) any {
	switch key {
	case "id":
		return &p.ID
	case "title":
		return &p.Title
	case "price":
		return &p.Price
	default:
		return &p.Image
	}
}

func (p Product) value(key string) (v any, zero bool) {
	switch key {
	case "id":
		return p.ID, false
	case "title":
		return p.Title, p.Title == ""
	case "price":
		// a JSON number, the catalog's own representation
		return json.Number(p.Price.String()), p.Price.IsZero()
	default:
		return p.Image, p.Image == ""
	}
}

// matches reports whether the received token still decodes to the current
// value of key.
func (p Product) matches(key string, received json.RawMessage) bool {
	var was Product
	if err := json.Unmarshal(received, was.target(key)); err != nil {
		return false
	}
	if key == "price" {
		return was.Price.Equal(p.Price)
	}
	a, _ := was.value(key)
	b, _ := p.value(key)
	return a == b
}
