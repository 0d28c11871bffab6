package store

import (
	"encoding/json"
	"fmt"

	"github.com/nikolayk812/cartstore/internal/domain"
)

// The cached form is a bare JSON array of line items with no version tag.

func encodeCart(cart domain.Cart) ([]byte, error) {
	items := cart.Items
	if items == nil {
		items = []domain.LineItem{}
	}

	data, err := json.Marshal(items)
	if err != nil {
		return nil, fmt.Errorf("json.Marshal: %w", err)
	}

	return data, nil
}

func decodeCart(data []byte) (domain.Cart, error) {
	var items []domain.LineItem
	if err := json.Unmarshal(data, &items); err != nil {
		return domain.Cart{}, fmt.Errorf("json.Unmarshal: %w", err)
	}

	return domain.Cart{Items: items}, nil
}
