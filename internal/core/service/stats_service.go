package service

import (
	"context"

	"github.com/mealbridge/marketplace/internal/core/domain"
	"github.com/mealbridge/marketplace/internal/core/ports"
)

type statsService struct {
	meals       *MealRegistry
	restaurants *RestaurantRegistry
	sessions    *Sessions
}

// NewStatsService returns the admin dashboard aggregator.
func NewStatsService(meals *MealRegistry, restaurants *RestaurantRegistry, sessions *Sessions) ports.StatsService {
	return &statsService{meals: meals, restaurants: restaurants, sessions: sessions}
}

func (s *statsService) Overview(_ context.Context) ports.StatsOverview {
	out := ports.StatsOverview{
		MealsByStatus: map[domain.MealStatus]int{
			domain.MealAvailable: 0,
			domain.MealReserved:  0,
			domain.MealCompleted: 0,
			domain.MealExpired:   0,
		},
		ActiveSessions: s.sessions.Active(),
	}

	for _, r := range s.restaurants.All() {
		out.Restaurants++
		out.MenuItems += len(r.MenuItems)
		if r.CampaignActive {
			out.ActiveCampaigns++
		}
	}

	for _, m := range s.meals.All() {
		out.Meals++
		out.MealsByStatus[m.Status]++
		out.DonatedValue += m.Price
		out.PointsIssued += pointsCredited(m)
	}
	return out
}

// pointsCredited is what the ledgers received for m: the donation award when
// a donor listed it, and the completion award when its recipient picked it up.
// Seed meals carry no donor and completions without a recipient award nothing.
func pointsCredited(m domain.Meal) int {
	credited := 0
	if m.DonorID != "" {
		credited += m.Points
	}
	if m.Status == domain.MealCompleted && m.RecipientID != "" {
		credited += m.Points
	}
	return credited
}
