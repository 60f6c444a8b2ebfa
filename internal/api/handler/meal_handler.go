package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/mealbridge/marketplace/internal/core/domain"
	"github.com/mealbridge/marketplace/internal/core/ports"
)

// MealHandler serves meal listings and the donate/reserve/complete flow.
type MealHandler struct {
	meals       ports.MealReader
	marketplace ports.Marketplace
}

func NewMealHandler(meals ports.MealReader, marketplace ports.Marketplace) *MealHandler {
	return &MealHandler{meals: meals, marketplace: marketplace}
}

// List handles GET /v1/meals.
//
// @Summary      List meals
// @Tags         meals
// @Produce      json
// @Security     BearerAuth
// @Param        status  query     string  false  "available, reserved, completed or expired"
// @Success      200     {object}  mealListResponse
// @Failure      422     {object}  map[string]string
// @Router       /v1/meals [get]
func (h *MealHandler) List(c echo.Context) error {
	meals := h.meals.All()

	if raw := c.QueryParam("status"); raw != "" {
		status := domain.MealStatus(raw)
		if !status.Valid() {
			return domain.Invalid("status", "must be one of available, reserved, completed, expired")
		}
		filtered := meals[:0]
		for _, m := range meals {
			if m.Status == status {
				filtered = append(filtered, m)
			}
		}
		meals = filtered
	}

	return c.JSON(http.StatusOK, toMealList(meals))
}

// Get handles GET /v1/meals/:id.
//
// @Summary      Get a meal
// @Tags         meals
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Meal id"
// @Success      200  {object}  domain.Meal
// @Failure      404  {object}  map[string]string
// @Router       /v1/meals/{id} [get]
func (h *MealHandler) Get(c echo.Context) error {
	meal, err := h.meals.Get(c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, meal)
}

// Donated handles GET /v1/meals/donated.
//
// @Summary      Meals donated by the caller
// @Tags         meals
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  mealListResponse
// @Router       /v1/meals/donated [get]
func (h *MealHandler) Donated(c echo.Context) error {
	sessionID, _, err := ctxSession(c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toMealList(h.meals.Donated(sessionID)))
}

// Reserved handles GET /v1/meals/reserved.
//
// @Summary      Meals the caller has reserved and not yet collected
// @Tags         meals
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  mealListResponse
// @Router       /v1/meals/reserved [get]
func (h *MealHandler) Reserved(c echo.Context) error {
	sessionID, _, err := ctxSession(c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toMealList(h.meals.Reserved(sessionID)))
}

// Refresh handles POST /v1/meals/refresh.
//
// @Summary      Reload meals from the seed source
// @Tags         meals
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  refreshResponse
// @Failure      500  {object}  map[string]string
// @Router       /v1/meals/refresh [post]
func (h *MealHandler) Refresh(c echo.Context) error {
	if err := h.meals.FetchAll(c.Request().Context()); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, refreshResponse{Message: "meals reloaded", Count: len(h.meals.All())})
}

// Donate handles POST /v1/donations.
//
// @Summary      Donate a menu item as a meal
// @Tags         meals
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      donateRequest  true  "Catalog entry and expiry"
// @Success      201   {object}  donationResponse
// @Failure      401   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Failure      422   {object}  map[string]string
// @Router       /v1/donations [post]
func (h *MealHandler) Donate(c echo.Context) error {
	sessionID, _, err := ctxSession(c)
	if err != nil {
		return err
	}
	var req donateRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	res, err := h.marketplace.DonateMenuItem(c.Request().Context(), ports.DonateMenuItemInput{
		SessionID:    sessionID,
		RestaurantID: req.RestaurantID,
		MenuItemID:   req.MenuItemID,
		ExpiryHours:  req.ExpiryHours,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, toDonationResponse(res))
}

// Reserve handles POST /v1/meals/:id/reserve.
//
// @Summary      Reserve a meal
// @Tags         meals
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Meal id"
// @Success      200  {object}  mealActionResponse
// @Failure      404  {object}  map[string]string
// @Failure      409  {object}  map[string]string
// @Router       /v1/meals/{id}/reserve [post]
func (h *MealHandler) Reserve(c echo.Context) error {
	sessionID, _, err := ctxSession(c)
	if err != nil {
		return err
	}

	res, err := h.marketplace.ReserveMeal(c.Request().Context(), sessionID, c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toMealActionResponse(res))
}

// Complete handles POST /v1/meals/:id/complete.
//
// @Summary      Confirm pickup of a meal
// @Tags         meals
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Meal id"
// @Success      200  {object}  mealActionResponse
// @Failure      404  {object}  map[string]string
// @Failure      409  {object}  map[string]string
// @Router       /v1/meals/{id}/complete [post]
func (h *MealHandler) Complete(c echo.Context) error {
	sessionID, _, err := ctxSession(c)
	if err != nil {
		return err
	}

	res, err := h.marketplace.CompleteMeal(c.Request().Context(), sessionID, c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toMealActionResponse(res))
}
