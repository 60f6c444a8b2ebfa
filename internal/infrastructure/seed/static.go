// Package seed provides the built-in marketplace catalog used when no
// external seed source is configured.
package seed

import (
	"context"
	"fmt"
	"time"

	"github.com/mealbridge/marketplace/internal/core/domain"
)

// Static is an in-process SeedSource. Meal timestamps are computed
// relative to the clock so seeded meals are never born expired.
type Static struct {
	now func() time.Time
}

func NewStatic(now func() time.Time) *Static {
	if now == nil {
		now = func() time.Time { return time.Now().UTC() }
	}
	return &Static{now: now}
}

func (s *Static) Restaurants(ctx context.Context) ([]domain.Restaurant, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return []domain.Restaurant{
		{
			ID:             "rest-1",
			Name:           "Pizza Palace",
			Description:    "Wood-fired pizza and fresh pasta made daily.",
			Cuisine:        "Italian",
			ImageURL:       "https://images.unsplash.com/photo-1513104890138-7c749659a591",
			Address:        "123 Main St, San Francisco, CA",
			Location:       domain.Coordinates{Lat: 37.7749, Lng: -122.4194},
			Distance:       "0.8 km",
			Rating:         4.7,
			ReviewCount:    238,
			DonationCount:  112,
			CampaignActive: true,
			MenuItems: []domain.MenuItem{
				{ID: "menu-101", Name: "Margherita Pizza", Description: "Tomato, mozzarella and basil.", Price: 10.00, Category: "Pizza", IsPopular: true},
				{ID: "menu-102", Name: "Penne Arrabbiata", Description: "Spicy tomato sauce with garlic.", Price: 8.50, Category: "Pasta"},
				{ID: "menu-103", Name: "Minestrone", Description: "Seasonal vegetable soup.", Price: 5.25, Category: "Soup"},
			},
		},
		{
			ID:            "rest-2",
			Name:          "Sakura Sushi",
			Description:   "Neighbourhood sushi bar with daily bento boxes.",
			Cuisine:       "Japanese",
			ImageURL:      "https://images.unsplash.com/photo-1579871494447-9811cf80d66c",
			Address:       "48 Geary Blvd, San Francisco, CA",
			Location:      domain.Coordinates{Lat: 37.7873, Lng: -122.4075},
			Distance:      "1.4 km",
			Rating:        4.5,
			ReviewCount:   164,
			DonationCount: 57,
			MenuItems: []domain.MenuItem{
				{ID: "menu-201", Name: "Salmon Bento", Description: "Grilled salmon, rice and pickles.", Price: 12.00, Category: "Bento", IsPopular: true},
				{ID: "menu-202", Name: "Vegetable Roll", Description: "Cucumber, avocado and carrot.", Price: 6.75, Category: "Rolls"},
			},
		},
		{
			ID:             "rest-3",
			Name:           "La Cocina Verde",
			Description:    "Home-style Mexican plates and burritos.",
			Cuisine:        "Mexican",
			ImageURL:       "https://images.unsplash.com/photo-1565299585323-38d6b0865b47",
			Address:        "2950 Mission St, San Francisco, CA",
			Location:       domain.Coordinates{Lat: 37.7486, Lng: -122.4184},
			Distance:       "2.9 km",
			Rating:         4.8,
			ReviewCount:    305,
			DonationCount:  189,
			CampaignActive: true,
			MenuItems: []domain.MenuItem{
				{ID: "menu-301", Name: "Bean Burrito", Description: "Black beans, rice and salsa.", Price: 7.50, Category: "Burritos", IsPopular: true},
				{ID: "menu-302", Name: "Chicken Tacos", Description: "Three corn tortillas.", Price: 9.00, Category: "Tacos"},
			},
		},
		{
			ID:            "rest-4",
			Name:          "Golden Dragon",
			Description:   "Cantonese dim sum and noodle soups.",
			Cuisine:       "Chinese",
			ImageURL:      "https://images.unsplash.com/photo-1563245372-f21724e3856d",
			Address:       "715 Grant Ave, San Francisco, CA",
			Location:      domain.Coordinates{Lat: 37.7941, Lng: -122.4058},
			Distance:      "1.9 km",
			Rating:        4.3,
			ReviewCount:   97,
			DonationCount: 34,
			MenuItems: []domain.MenuItem{
				{ID: "menu-401", Name: "Wonton Noodle Soup", Description: "Shrimp wontons in broth.", Price: 9.75, Category: "Noodles", IsPopular: true},
			},
		},
	}, nil
}

func (s *Static) Meals(ctx context.Context) ([]domain.Meal, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	now := s.now()
	meal := func(id, name, desc, restID, restName, distance string, price float64, loc domain.Coordinates, hours int, sponsored bool) domain.Meal {
		created := now.Add(-30 * time.Minute)
		return domain.Meal{
			ID:             id,
			Name:           name,
			Description:    desc,
			RestaurantID:   restID,
			RestaurantName: restName,
			Price:          price,
			Points:         domain.PointsForPrice(price),
			Distance:       distance,
			ExpiresIn:      fmt.Sprintf("%d hours", hours),
			Location:       loc,
			IsSponsored:    sponsored,
			Status:         domain.MealAvailable,
			CreatedAt:      created,
			ExpiresAt:      domain.ExpiryFrom(created, hours),
		}
	}

	return []domain.Meal{
		meal("meal-1", "Margherita Pizza", "Tomato, mozzarella and basil.", "rest-1", "Pizza Palace", "0.8 km", 10.00,
			domain.Coordinates{Lat: 37.7749, Lng: -122.4194}, 3, true),
		meal("meal-2", "Salmon Bento", "Grilled salmon, rice and pickles.", "rest-2", "Sakura Sushi", "1.4 km", 12.00,
			domain.Coordinates{Lat: 37.7873, Lng: -122.4075}, 2, false),
		meal("meal-3", "Bean Burrito", "Black beans, rice and salsa.", "rest-3", "La Cocina Verde", "2.9 km", 7.50,
			domain.Coordinates{Lat: 37.7486, Lng: -122.4184}, 4, true),
		meal("meal-4", "Wonton Noodle Soup", "Shrimp wontons in broth.", "rest-4", "Golden Dragon", "1.9 km", 9.75,
			domain.Coordinates{Lat: 37.7941, Lng: -122.4058}, 1, false),
	}, nil
}
