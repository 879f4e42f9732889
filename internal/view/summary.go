package view

import (
	"github.com/mookkammal/storefront/internal/models"
	"github.com/shopspring/decimal"
)

const (
	// FreeDeliveryOver is the subtotal above which delivery is free
	FreeDeliveryOver = 500
	// DeliveryFee applies to subtotals at or below FreeDeliveryOver
	DeliveryFee = 40
)

// CartSummary is the checkout panel of one vertical's bag
type CartSummary struct {
	Vertical models.Vertical   `json:"vertical"`
	Items    []models.CartItem `json:"items"`
	Count    int               `json:"count"`
	Subtotal float64           `json:"subtotal"`
	Delivery float64           `json:"delivery"`
	Total    float64           `json:"total"`
}

// Summarize prices a bag
func Summarize(v models.Vertical, items []models.CartItem) CartSummary {
	subtotal := decimal.NewFromFloat(models.Subtotal(items))
	delivery := decimal.Zero
	if len(items) > 0 && !subtotal.GreaterThan(decimal.NewFromInt(FreeDeliveryOver)) {
		delivery = decimal.NewFromInt(DeliveryFee)
	}
	if items == nil {
		items = []models.CartItem{}
	}
	return CartSummary{
		Vertical: v,
		Items:    items,
		Count:    models.ItemCount(items),
		Subtotal: subtotal.InexactFloat64(),
		Delivery: delivery.InexactFloat64(),
		Total:    subtotal.Add(delivery).InexactFloat64(),
	}
}

// LowStockThreshold marks products that need restocking
const LowStockThreshold = 5

// Stats is the admin dashboard
type Stats struct {
	TotalSales         float64                 `json:"totalSales"`
	Orders             int                     `json:"orders"`
	PendingOrders      int                     `json:"pendingOrders"`
	ProductsByVertical map[models.Vertical]int `json:"productsByVertical"`
	StockAlerts        []models.Product        `json:"stockAlerts"`
}

// Dashboard computes admin statistics from the catalog and the order log
func Dashboard(products []models.Product, orders []models.Order) Stats {
	sales := decimal.Zero
	stats := Stats{
		Orders:             len(orders),
		ProductsByVertical: make(map[models.Vertical]int, len(models.Verticals)),
		StockAlerts:        []models.Product{},
	}
	for _, v := range models.Verticals {
		stats.ProductsByVertical[v] = 0
	}
	for _, o := range orders {
		sales = sales.Add(decimal.NewFromFloat(o.Total))
		if o.Status == models.OrderStatusPending {
			stats.PendingOrders++
		}
	}
	for _, p := range products {
		stats.ProductsByVertical[p.Vertical]++
		if p.Stock <= LowStockThreshold {
			stats.StockAlerts = append(stats.StockAlerts, p)
		}
	}
	stats.TotalSales = sales.InexactFloat64()
	return stats
}
