package domain

import (
	"fmt"
	"strings"
)

// Coordinates represents a geographic point.
type Coordinates struct {
	Lat float64 `json:"lat" bson:"lat"`
	Lng float64 `json:"lng" bson:"lng"`
}

// MenuItem is a donatable catalog entry owned by exactly one restaurant.
type MenuItem struct {
	ID          string  `json:"id" bson:"id"`
	Name        string  `json:"name" bson:"name"`
	Description string  `json:"description" bson:"description"`
	Price       float64 `json:"price" bson:"price"`
	ImageURL    string  `json:"image_url" bson:"image_url"`
	Category    string  `json:"category" bson:"category"`
	IsPopular   bool    `json:"is_popular" bson:"is_popular"`
}

// Validate checks the fields a catalog entry cannot do without.
func (m MenuItem) Validate() error {
	if strings.TrimSpace(m.Name) == "" {
		return Invalid("name", "is required")
	}
	if m.Price < 0 {
		return Invalid("price", "must not be negative")
	}
	if m.Price > MaxPrice {
		return Invalid("price", fmt.Sprintf("must be at most %d", MaxPrice))
	}
	return nil
}

// Restaurant is a donor organization and its menu catalog.
// MenuItems keeps catalog order.
type Restaurant struct {
	ID             string      `json:"id" bson:"_id"`
	Name           string      `json:"name" bson:"name"`
	Description    string      `json:"description" bson:"description"`
	Cuisine        string      `json:"cuisine" bson:"cuisine"`
	ImageURL       string      `json:"image_url" bson:"image_url"`
	Address        string      `json:"address" bson:"address"`
	Location       Coordinates `json:"location" bson:"location"`
	Distance       string      `json:"distance" bson:"distance"`
	Rating         float64     `json:"rating" bson:"rating"`
	ReviewCount    int         `json:"review_count" bson:"review_count"`
	DonationCount  int         `json:"donation_count" bson:"donation_count"`
	CampaignActive bool        `json:"campaign_active" bson:"campaign_active"`
	MenuItems      []MenuItem  `json:"menu_items" bson:"menu_items"`
}

// Clone returns a deep copy so callers never share the catalog slice.
func (r Restaurant) Clone() Restaurant {
	out := r
	out.MenuItems = append([]MenuItem(nil), r.MenuItems...)
	return out
}

// MenuItemIndex returns the position of the item with the given id, or -1.
func (r Restaurant) MenuItemIndex(id string) int {
	for i, m := range r.MenuItems {
		if m.ID == id {
			return i
		}
	}
	return -1
}
