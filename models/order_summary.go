package models

import (
	"github.com/shopspring/decimal"
)

// TaxRate applied on top of the cart subtotal in the order summary.
var TaxRate = decimal.RequireFromString("0.08")

// OrderSummary is the checkout breakdown shown next to the cart. Shipping is
// always free. Values are exact; rounding happens when they are displayed.
type OrderSummary struct {
	ItemCount int             `json:"item_count"`
	Subtotal  decimal.Decimal `json:"subtotal"`
	Shipping  decimal.Decimal `json:"shipping"`
	Tax       decimal.Decimal `json:"tax"`
	Total     decimal.Decimal `json:"total"`
}

func NewOrderSummary(state CartState) OrderSummary {
	tax := state.Total.Mul(TaxRate)
	return OrderSummary{
		ItemCount: state.ItemCount,
		Subtotal:  state.Total,
		Shipping:  decimal.Zero,
		Tax:       tax,
		Total:     state.Total.Add(tax),
	}
}
