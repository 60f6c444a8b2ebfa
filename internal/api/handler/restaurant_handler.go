package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/mealbridge/marketplace/internal/core/domain"
	"github.com/mealbridge/marketplace/internal/core/ports"
)

// RestaurantHandler serves restaurant profiles and menu management.
type RestaurantHandler struct {
	restaurants ports.RestaurantCatalog
}

func NewRestaurantHandler(restaurants ports.RestaurantCatalog) *RestaurantHandler {
	return &RestaurantHandler{restaurants: restaurants}
}

// List handles GET /v1/restaurants.
//
// @Summary      List restaurants
// @Tags         restaurants
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  restaurantListResponse
// @Router       /v1/restaurants [get]
func (h *RestaurantHandler) List(c echo.Context) error {
	all := h.restaurants.All()
	if all == nil {
		all = []domain.Restaurant{}
	}
	return c.JSON(http.StatusOK, restaurantListResponse{Restaurants: all, Count: len(all)})
}

// Selected handles GET /v1/restaurants/selected for the calling session.
//
// @Summary      The restaurant this session opened last
// @Tags         restaurants
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  domain.Restaurant
// @Failure      404  {object}  map[string]string
// @Router       /v1/restaurants/selected [get]
func (h *RestaurantHandler) Selected(c echo.Context) error {
	sessionID, _, err := ctxSession(c)
	if err != nil {
		return err
	}
	rest, ok := h.restaurants.Selected(sessionID)
	if !ok {
		return echo.NewHTTPError(http.StatusNotFound, "no restaurant selected")
	}
	return c.JSON(http.StatusOK, rest)
}

// Get handles GET /v1/restaurants/:id and selects the restaurant for the
// calling session.
//
// @Summary      Get a restaurant
// @Tags         restaurants
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Restaurant id"
// @Success      200  {object}  domain.Restaurant
// @Failure      404  {object}  map[string]string
// @Router       /v1/restaurants/{id} [get]
func (h *RestaurantHandler) Get(c echo.Context) error {
	sessionID, _, err := ctxSession(c)
	if err != nil {
		return err
	}
	rest, err := h.restaurants.GetByID(c.Request().Context(), sessionID, c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, rest)
}

// Refresh handles POST /v1/restaurants/refresh.
//
// @Summary      Reload restaurants from the seed source
// @Tags         restaurants
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  refreshResponse
// @Router       /v1/restaurants/refresh [post]
func (h *RestaurantHandler) Refresh(c echo.Context) error {
	if err := h.restaurants.FetchAll(c.Request().Context()); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, refreshResponse{Message: "restaurants reloaded", Count: len(h.restaurants.All())})
}

// AddMenuItem handles POST /v1/restaurants/:id/menu.
//
// @Summary      Add a menu item
// @Tags         restaurants
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string           true  "Restaurant id"
// @Param        body  body      menuItemRequest  true  "Menu item"
// @Success      201   {object}  domain.MenuItem
// @Failure      404   {object}  map[string]string
// @Failure      422   {object}  map[string]string
// @Router       /v1/restaurants/{id}/menu [post]
func (h *RestaurantHandler) AddMenuItem(c echo.Context) error {
	var req menuItemRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	item, err := h.restaurants.AddMenuItem(c.Request().Context(), c.Param("id"), toMenuItem("", req))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, item)
}

// UpdateMenuItem handles PUT /v1/restaurants/:id/menu/:item_id.
//
// @Summary      Replace a menu item
// @Tags         restaurants
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id       path      string           true  "Restaurant id"
// @Param        item_id  path      string           true  "Menu item id"
// @Param        body     body      menuItemRequest  true  "Menu item"
// @Success      200      {object}  domain.MenuItem
// @Failure      404      {object}  map[string]string
// @Failure      422      {object}  map[string]string
// @Router       /v1/restaurants/{id}/menu/{item_id} [put]
func (h *RestaurantHandler) UpdateMenuItem(c echo.Context) error {
	var req menuItemRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	item := toMenuItem(c.Param("item_id"), req)
	if err := h.restaurants.UpdateMenuItem(c.Request().Context(), c.Param("id"), item); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, item)
}

// RemoveMenuItem handles DELETE /v1/restaurants/:id/menu/:item_id.
// Removing an unknown item succeeds.
//
// @Summary      Remove a menu item
// @Tags         restaurants
// @Security     BearerAuth
// @Param        id       path  string  true  "Restaurant id"
// @Param        item_id  path  string  true  "Menu item id"
// @Success      204
// @Failure      404  {object}  map[string]string
// @Router       /v1/restaurants/{id}/menu/{item_id} [delete]
func (h *RestaurantHandler) RemoveMenuItem(c echo.Context) error {
	if err := h.restaurants.RemoveMenuItem(c.Request().Context(), c.Param("id"), c.Param("item_id")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// ToggleCampaign handles POST /v1/restaurants/:id/campaign/toggle.
//
// @Summary      Flip the donation campaign flag
// @Tags         restaurants
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Restaurant id"
// @Success      200  {object}  campaignResponse
// @Failure      404  {object}  map[string]string
// @Router       /v1/restaurants/{id}/campaign/toggle [post]
func (h *RestaurantHandler) ToggleCampaign(c echo.Context) error {
	id := c.Param("id")
	active, err := h.restaurants.ToggleCampaign(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, campaignResponse{RestaurantID: id, CampaignActive: active})
}
