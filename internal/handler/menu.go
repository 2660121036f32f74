package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/mmeshcher/restaurant-backoffice/internal/model"
	"github.com/mmeshcher/restaurant-backoffice/internal/service"
)

// GetMenu возвращает меню целиком.
func (h *Handler) GetMenu(w http.ResponseWriter, r *http.Request) {
	menu, err := h.service.GetMenu(r.Context())
	if err != nil {
		h.writeError(w, r, "get menu", err)
		return
	}
	writeJSON(w, http.StatusOK, menu)
}

type menuItemRequest struct {
	Name        *string             `json:"name"`
	Price       *float64            `json:"price"`
	Image       *string             `json:"image"`
	IsAvailable *bool               `json:"isAvailable"`
	Category    *string             `json:"category"`
	Toppings    *[]model.MenuOption `json:"toppings"`
	Sizes       *[]model.MenuOption `json:"sizes"`
}

func (req menuItemRequest) patch() service.MenuItemPatch {
	return service.MenuItemPatch{
		Name:        req.Name,
		Price:       req.Price,
		Image:       req.Image,
		IsAvailable: req.IsAvailable,
		Category:    req.Category,
		Toppings:    req.Toppings,
		Sizes:       req.Sizes,
	}
}

func (req menuItemRequest) item() model.MenuItem {
	item := model.MenuItem{IsAvailable: true}
	if req.Name != nil {
		item.Name = *req.Name
	}
	if req.Price != nil {
		item.Price = *req.Price
	}
	if req.Image != nil {
		item.Image = *req.Image
	}
	if req.IsAvailable != nil {
		item.IsAvailable = *req.IsAvailable
	}
	if req.Category != nil {
		item.Category = *req.Category
	}
	if req.Toppings != nil {
		item.Toppings = *req.Toppings
	}
	if req.Sizes != nil {
		item.Sizes = *req.Sizes
	}
	return item
}

// AddMenuItem добавляет позицию меню.
func (h *Handler) AddMenuItem(w http.ResponseWriter, r *http.Request) {
	var req menuItemRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	item, err := h.service.AddMenuItem(r.Context(), req.item())
	if err != nil {
		h.writeError(w, r, "add menu item", err)
		return
	}
	writeJSON(w, http.StatusCreated, item)
}

// UpdateMenuItem частично обновляет позицию меню.
func (h *Handler) UpdateMenuItem(w http.ResponseWriter, r *http.Request) {
	var req menuItemRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	item, err := h.service.UpdateMenuItem(r.Context(), chi.URLParam(r, "id"), req.patch())
	if err != nil {
		h.writeError(w, r, "update menu item", err)
		return
	}
	writeJSON(w, http.StatusOK, item)
}
