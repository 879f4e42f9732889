package models

import "github.com/shopspring/decimal"

// Subtotal returns the sum of price times quantity over items
func Subtotal(items []CartItem) float64 {
	sum := decimal.Zero
	for _, item := range items {
		sum = sum.Add(decimal.NewFromFloat(item.Price).Mul(decimal.NewFromInt(int64(item.Quantity))))
	}
	return sum.InexactFloat64()
}

// ItemCount returns the sum of quantities over items
func ItemCount(items []CartItem) int {
	n := 0
	for _, item := range items {
		n += item.Quantity
	}
	return n
}
