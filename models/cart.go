package models

import (
	"github.com/shopspring/decimal"
)

// CartLine is a product in the cart together with how many units were added.
// Quantity is at least 1 while the line exists.
type CartLine struct {
	Product
	Quantity int `json:"quantity"`
}

// Subtotal is price times quantity for this line.
func (l CartLine) Subtotal() decimal.Decimal {
	return l.Price.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// CartState holds the cart lines in first-added order. Total and ItemCount
// are derived from Items and must only be produced by NewCartState.
type CartState struct {
	Items     []CartLine      `json:"items"`
	Total     decimal.Decimal `json:"total"`
	ItemCount int             `json:"item_count"`
}

func EmptyCart() CartState {
	return CartState{
		Items: []CartLine{},
		Total: decimal.Zero,
	}
}

// NewCartState builds a state from lines, recomputing both derived scalars.
func NewCartState(items []CartLine) CartState {
	state := CartState{
		Items: items,
		Total: decimal.Zero,
	}
	if state.Items == nil {
		state.Items = []CartLine{}
	}
	for _, item := range state.Items {
		state.Total = state.Total.Add(item.Subtotal())
		state.ItemCount += item.Quantity
	}
	return state
}

// Line returns the line for productID, if any.
func (s CartState) Line(productID int) (CartLine, bool) {
	for _, item := range s.Items {
		if item.ID == productID {
			return item, true
		}
	}
	return CartLine{}, false
}

func (s CartState) IsEmpty() bool {
	return len(s.Items) == 0
}

// Clone returns a copy that shares no backing array with s.
func (s CartState) Clone() CartState {
	items := make([]CartLine, len(s.Items))
	copy(items, s.Items)
	return CartState{
		Items:     items,
		Total:     s.Total,
		ItemCount: s.ItemCount,
	}
}
