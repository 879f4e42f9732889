package models

import (
	"fmt"
	"strings"
	"time"
)

// Vertical identifies one of the two business lines
type Vertical string

const (
	VerticalTextiles    Vertical = "TEXTILES"
	VerticalSupermarket Vertical = "SUPERMARKET"
)

// Verticals lists both business lines in display order
var Verticals = []Vertical{VerticalTextiles, VerticalSupermarket}

// Valid reports whether v is one of the two enumerated verticals
func (v Vertical) Valid() bool {
	return v == VerticalTextiles || v == VerticalSupermarket
}

// Other returns the opposite vertical
func (v Vertical) Other() Vertical {
	if v == VerticalTextiles {
		return VerticalSupermarket
	}
	return VerticalTextiles
}

// ParseVertical accepts either enumerated value, case-insensitively
func ParseVertical(s string) (Vertical, error) {
	v := Vertical(strings.ToUpper(strings.TrimSpace(s)))
	if !v.Valid() {
		return "", fmt.Errorf("unknown vertical %q", s)
	}
	return v, nil
}

// Role is the session role
type Role string

const (
	RoleUser  Role = "USER"
	RoleAdmin Role = "ADMIN"
)

// OrderStatus is the lifecycle state of an order
type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "PENDING"
	OrderStatusShipped   OrderStatus = "SHIPPED"
	OrderStatusDelivered OrderStatus = "DELIVERED"
	OrderStatusCancelled OrderStatus = "CANCELLED"
)

// Product represents a product in the catalog
type Product struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Price       float64  `json:"price"`
	OldPrice    float64  `json:"oldPrice,omitempty"`
	Category    string   `json:"category"`
	SubCategory string   `json:"subCategory,omitempty"`
	Vertical    Vertical `json:"vertical"`
	Image       string   `json:"image"`
	Stock       int      `json:"stock"`
	Rating      float64  `json:"rating"`
	Reviews     int      `json:"reviews"`
	IsNew       bool     `json:"isNew,omitempty"`
}

// MaxPrice caps admin-entered prices and must match the lte tags below
const MaxPrice = 100000000

// ProductDraft is a product as submitted by an admin, before id/rating/reviews are assigned
type ProductDraft struct {
	Name        string   `json:"name" validate:"required"`
	Description string   `json:"description"`
	Price       float64  `json:"price" validate:"gte=0,lte=100000000"`
	OldPrice    float64  `json:"oldPrice,omitempty" validate:"gte=0,lte=100000000"`
	Category    string   `json:"category" validate:"required"`
	SubCategory string   `json:"subCategory,omitempty"`
	Vertical    Vertical `json:"vertical" validate:"required,oneof=TEXTILES SUPERMARKET"`
	Image       string   `json:"image"`
	Stock       int      `json:"stock" validate:"gte=0"`
	IsNew       bool     `json:"isNew,omitempty"`
}

// ProductUpdate carries the fields to merge into an existing product; nil fields are left alone
type ProductUpdate struct {
	Name        *string   `json:"name,omitempty" validate:"omitempty,min=1"`
	Description *string   `json:"description,omitempty"`
	Price       *float64  `json:"price,omitempty" validate:"omitempty,gte=0,lte=100000000"`
	OldPrice    *float64  `json:"oldPrice,omitempty" validate:"omitempty,gte=0,lte=100000000"`
	Category    *string   `json:"category,omitempty" validate:"omitempty,min=1"`
	SubCategory *string   `json:"subCategory,omitempty"`
	Vertical    *Vertical `json:"vertical,omitempty" validate:"omitempty,oneof=TEXTILES SUPERMARKET"`
	Image       *string   `json:"image,omitempty"`
	Stock       *int      `json:"stock,omitempty" validate:"omitempty,gte=0"`
	Rating      *float64  `json:"rating,omitempty" validate:"omitempty,gte=0,lte=5"`
	Reviews     *int      `json:"reviews,omitempty" validate:"omitempty,gte=0"`
	IsNew       *bool     `json:"isNew,omitempty"`
}

// Empty reports whether the update carries no fields
func (u ProductUpdate) Empty() bool {
	return u == ProductUpdate{}
}

// Apply merges the update into p
func (u ProductUpdate) Apply(p Product) Product {
	if u.Name != nil {
		p.Name = *u.Name
	}
	if u.Description != nil {
		p.Description = *u.Description
	}
	if u.Price != nil {
		p.Price = *u.Price
	}
	if u.OldPrice != nil {
		p.OldPrice = *u.OldPrice
	}
	if u.Category != nil {
		p.Category = *u.Category
	}
	if u.SubCategory != nil {
		p.SubCategory = *u.SubCategory
	}
	if u.Vertical != nil {
		p.Vertical = *u.Vertical
	}
	if u.Image != nil {
		p.Image = *u.Image
	}
	if u.Stock != nil {
		p.Stock = *u.Stock
	}
	if u.Rating != nil {
		p.Rating = *u.Rating
	}
	if u.Reviews != nil {
		p.Reviews = *u.Reviews
	}
	if u.IsNew != nil {
		p.IsNew = *u.IsNew
	}
	return p
}

// CartItem is a product snapshot taken when it was added, plus a quantity
type CartItem struct {
	Product
	Quantity int `json:"quantity"`
}

// Cart holds one bag of line items per vertical
type Cart struct {
	Textiles    []CartItem `json:"TEXTILES"`
	Supermarket []CartItem `json:"SUPERMARKET"`
}

// NewCart returns a cart with two empty bags
func NewCart() Cart {
	return Cart{Textiles: []CartItem{}, Supermarket: []CartItem{}}
}

// Bag returns the line items for v
func (c Cart) Bag(v Vertical) []CartItem {
	if v == VerticalSupermarket {
		return c.Supermarket
	}
	return c.Textiles
}

// SetBag replaces the line items for v
func (c *Cart) SetBag(v Vertical, items []CartItem) {
	if items == nil {
		items = []CartItem{}
	}
	if v == VerticalSupermarket {
		c.Supermarket = items
		return
	}
	c.Textiles = items
}

// Clone returns a deep copy of the cart
func (c Cart) Clone() Cart {
	return Cart{
		Textiles:    cloneItems(c.Textiles),
		Supermarket: cloneItems(c.Supermarket),
	}
}

// Order is a frozen copy of a checked-out bag
type Order struct {
	ID       string      `json:"id"`
	Date     time.Time   `json:"date"`
	Status   OrderStatus `json:"status"`
	Total    float64     `json:"total"`
	Vertical Vertical    `json:"vertical"`
	Items    []CartItem  `json:"items"`
}

// Clone returns a deep copy of the order
func (o Order) Clone() Order {
	o.Items = cloneItems(o.Items)
	return o
}

// User represents the authenticated identity of the session
type User struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Email  string `json:"email"`
	Role   Role   `json:"role"`
	Avatar string `json:"avatar,omitempty"`
}

// IsAdmin reports whether the user holds the admin role
func (u *User) IsAdmin() bool {
	return u != nil && u.Role == RoleAdmin
}

func cloneItems(items []CartItem) []CartItem {
	out := make([]CartItem, len(items))
	copy(out, items)
	return out
}
