package domain

import (
	"math"
	"time"
)

// MealStatus represents the lifecycle state of a donated meal.
type MealStatus string

const (
	MealAvailable MealStatus = "available"
	MealReserved  MealStatus = "reserved"
	MealCompleted MealStatus = "completed"
	MealExpired   MealStatus = "expired"
)

// PointsPerCurrencyUnit is the reward multiplier applied to a meal's price.
const PointsPerCurrencyUnit = 5

// MaxPrice bounds catalog and donation prices so points stay well inside int.
const MaxPrice = 100000

// mealTransitions defines the allowed lifecycle transitions.
// completed and expired are terminal.
var mealTransitions = map[MealStatus][]MealStatus{
	MealAvailable: {MealReserved},
	MealReserved:  {MealCompleted},
}

// CanTransitionTo reports whether a transition from s to next is allowed.
func (s MealStatus) CanTransitionTo(next MealStatus) bool {
	for _, allowed := range mealTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// IsTerminal reports whether no transition leaves s.
func (s MealStatus) IsTerminal() bool {
	return s == MealCompleted || s == MealExpired
}

// Valid reports whether s is one of the known statuses.
func (s MealStatus) Valid() bool {
	switch s {
	case MealAvailable, MealReserved, MealCompleted, MealExpired:
		return true
	}
	return false
}

// Meal is a single donation listing. Its descriptive fields are a snapshot
// of the source menu item and restaurant taken at donation time.
type Meal struct {
	ID             string      `json:"id" bson:"_id"`
	Name           string      `json:"name" bson:"name"`
	Description    string      `json:"description" bson:"description"`
	RestaurantID   string      `json:"restaurant_id" bson:"restaurant_id"`
	RestaurantName string      `json:"restaurant_name" bson:"restaurant_name"`
	ImageURL       string      `json:"image_url" bson:"image_url"`
	Price          float64     `json:"price" bson:"price"`
	Points         int         `json:"points" bson:"points"`
	Distance       string      `json:"distance" bson:"distance"`
	ExpiresIn      string      `json:"expires_in" bson:"expires_in"`
	Location       Coordinates `json:"location" bson:"location"`
	IsSponsored    bool        `json:"is_sponsored" bson:"is_sponsored"`
	DonorID        string      `json:"donor_id,omitempty" bson:"donor_id,omitempty"`
	RecipientID    string      `json:"recipient_id,omitempty" bson:"recipient_id,omitempty"`
	Status         MealStatus  `json:"status" bson:"status"`
	CreatedAt      time.Time   `json:"created_at" bson:"created_at"`
	ExpiresAt      time.Time   `json:"expires_at" bson:"expires_at"`
}

// PointsForPrice returns the reward for donating a meal of the given price.
func PointsForPrice(price float64) int {
	return int(math.Round(price * PointsPerCurrencyUnit))
}

// ExpiryFrom returns the expiry instant for a meal created at createdAt.
func ExpiryFrom(createdAt time.Time, hours int) time.Time {
	return createdAt.Add(time.Duration(hours) * time.Hour)
}
