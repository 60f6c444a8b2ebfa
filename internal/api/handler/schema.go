package handler

import (
	"github.com/mealbridge/marketplace/internal/core/domain"
	"github.com/mealbridge/marketplace/internal/core/ports"
)

// --- Auth ---

type loginRequest struct {
	Name  string `json:"name"`
	Email string `json:"email" validate:"required,email"`
	Role  string `json:"role"  validate:"omitempty,oneof=donor recipient restaurant admin"`
}

type registerRequest struct {
	Name  string `json:"name"  validate:"required,nonblank"`
	Email string `json:"email" validate:"required,email"`
	Role  string `json:"role"  validate:"required,oneof=donor recipient restaurant admin"`
}

type authResponse struct {
	Token string       `json:"token"`
	User  *domain.User `json:"user"`
}

// --- Session ---

type setRoleRequest struct {
	Role string `json:"role" validate:"required,oneof=donor recipient"`
}

type languageRequest struct {
	Language string `json:"language" validate:"required"`
}

type languageResponse struct {
	Language domain.Language `json:"language"`
}

// --- Meals ---

type donateRequest struct {
	RestaurantID string `json:"restaurant_id" validate:"required"`
	MenuItemID   string `json:"menu_item_id"  validate:"required"`
	ExpiryHours  int    `json:"expiry_hours"  validate:"omitempty,gte=1,lte=72"`
}

type donationResponse struct {
	Meal          domain.Meal `json:"meal"`
	PointsAwarded int         `json:"points_awarded"`
	User          domain.User `json:"user"`
}

type mealActionResponse struct {
	Meal          domain.Meal `json:"meal"`
	PointsAwarded int         `json:"points_awarded"`
	User          domain.User `json:"user"`
}

type mealListResponse struct {
	Meals []domain.Meal `json:"meals"`
	Count int           `json:"count"`
}

// --- Restaurants ---

type menuItemRequest struct {
	Name        string  `json:"name"        validate:"required,nonblank"`
	Description string  `json:"description"`
	Price       float64 `json:"price"       validate:"gte=0,lte=100000"`
	ImageURL    string  `json:"image_url"   validate:"omitempty,url"`
	Category    string  `json:"category"`
	IsPopular   bool    `json:"is_popular"`
}

type restaurantListResponse struct {
	Restaurants []domain.Restaurant `json:"restaurants"`
	Count       int                 `json:"count"`
}

type campaignResponse struct {
	RestaurantID   string `json:"restaurant_id"`
	CampaignActive bool   `json:"campaign_active"`
}

type refreshResponse struct {
	Message string `json:"message"`
	Count   int    `json:"count"`
}

// --- Mapping ---

func toMenuItem(id string, r menuItemRequest) domain.MenuItem {
	return domain.MenuItem{
		ID:          id,
		Name:        r.Name,
		Description: r.Description,
		Price:       r.Price,
		ImageURL:    r.ImageURL,
		Category:    r.Category,
		IsPopular:   r.IsPopular,
	}
}

func toDonationResponse(r *ports.DonationResult) donationResponse {
	return donationResponse{Meal: r.Meal, PointsAwarded: r.PointsAwarded, User: r.User}
}

func toMealActionResponse(r *ports.MealActionResult) mealActionResponse {
	return mealActionResponse{Meal: r.Meal, PointsAwarded: r.PointsAwarded, User: r.User}
}

func toMealList(meals []domain.Meal) mealListResponse {
	if meals == nil {
		meals = []domain.Meal{}
	}
	return mealListResponse{Meals: meals, Count: len(meals)}
}
