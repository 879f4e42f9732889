// Package seed holds the built-in catalog and category taxonomy used on first run.
package seed

import "github.com/mookkammal/storefront/internal/models"

// Taxonomy maps a category to its sub-categories
type Taxonomy struct {
	Categories    []string
	SubCategories map[string][]string
}

var textiles = Taxonomy{
	Categories: []string{"Men's Wear", "Women's Wear", "Kids", "On Trend", "Home Textiles"},
	SubCategories: map[string][]string{
		"Men's Wear":    {"Shirts", "Trousers", "Ethic", "Formal", "Casual"},
		"Women's Wear":  {"Sarees", "Kurthis", "Leggings", "Western", "Dresses"},
		"Kids":          {"Boys", "Girls", "Newborn", "Toys"},
		"On Trend":      {"Celebrity Choice", "Festival Special", "Seasonal", "Limited Edition"},
		"Home Textiles": {"Bedsheets", "Curtains", "Towels", "Cushions"},
	},
}

var supermarket = Taxonomy{
	Categories: []string{"Groceries", "Fruits & Veg", "Personal Care", "Household", "Beverages", "Snacks"},
	SubCategories: map[string][]string{
		"Groceries":     {"Dals & Pulses", "Rice & Grains", "Atta & Flours", "Oils & Ghee", "Spices"},
		"Fruits & Veg":  {"Organic", "Regular", "Exotic", "Cut & Sprouts"},
		"Personal Care": {"Soaps", "Shampoos", "Oral Care", "Skincare", "Deodorants"},
		"Household":     {"Cleaning Essentials", "Pooja Items", "Kitchenware", "Storage"},
		"Beverages":     {"Tea & Coffee", "Juices", "Health Drinks", "Soft Drinks"},
		"Snacks":        {"Biscuits", "Namkeen", "Chocolates", "Dry Fruits"},
	},
}

// TaxonomyFor returns the category structure of a vertical
func TaxonomyFor(v models.Vertical) Taxonomy {
	if v == models.VerticalSupermarket {
		return supermarket
	}
	return textiles
}

// Products returns a fresh copy of the seed catalog
func Products() []models.Product {
	return []models.Product{
		{
			ID:          "t1",
			Name:        "Kancheepuram Silk Saree",
			Description: "Authentic hand-woven silk saree with gold zari border.",
			Price:       12500,
			OldPrice:    15000,
			Category:    "Women's Wear",
			SubCategory: "Sarees",
			Vertical:    models.VerticalTextiles,
			Image:       "https://images.unsplash.com/photo-1610030469983-98e550d6193c?auto=format&fit=crop&q=80&w=600",
			Stock:       5,
			Rating:      4.8,
			Reviews:     124,
			IsNew:       true,
		},
		{
			ID:          "t2",
			Name:        "Men's Silk Dhoti Set",
			Description: "Premium pure silk dhoti and shirt set for special occasions.",
			Price:       3500,
			Category:    "Men's Wear",
			SubCategory: "Ethic",
			Vertical:    models.VerticalTextiles,
			Image:       "https://images.unsplash.com/photo-1594938298603-c8148c4dae35?auto=format&fit=crop&q=80&w=600",
			Stock:       12,
			Rating:      4.5,
			Reviews:     86,
		},
		{
			ID:          "t3",
			Name:        "Designer Party Kurti",
			Description: "Trendy cotton kurti with modern print.",
			Price:       1200,
			OldPrice:    1800,
			Category:    "Women's Wear",
			SubCategory: "Kurthis",
			Vertical:    models.VerticalTextiles,
			Image:       "https://images.unsplash.com/photo-1583391733956-3750e0ff4e8b?auto=format&fit=crop&q=80&w=600",
			Stock:       20,
			Rating:      4.6,
			Reviews:     55,
			IsNew:       true,
		},
		{
			ID:          "s1",
			Name:        "Premium Basmati Rice",
			Description: "Long grain aromatic basmati rice (5kg pack).",
			Price:       850,
			OldPrice:    950,
			Category:    "Groceries",
			SubCategory: "Rice & Grains",
			Vertical:    models.VerticalSupermarket,
			Image:       "https://images.unsplash.com/photo-1586201375761-83865001e31c?auto=format&fit=crop&q=80&w=600",
			Stock:       50,
			Rating:      4.6,
			Reviews:     210,
		},
		{
			ID:          "s2",
			Name:        "Organic Cold Pressed Oil",
			Description: "Healthy cold-pressed groundnut oil (1L).",
			Price:       240,
			Category:    "Groceries",
			SubCategory: "Oils & Ghee",
			Vertical:    models.VerticalSupermarket,
			Image:       "https://images.unsplash.com/photo-1474979266404-7eaacbcd87c5?auto=format&fit=crop&q=80&w=600",
			Stock:       35,
			Rating:      4.9,
			Reviews:     155,
			IsNew:       true,
		},
	}
}
