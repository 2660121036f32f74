package handler

import (
	"bytes"
	"encoding/json"
	"errors"
	"math"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/mmeshcher/restaurant-backoffice/internal/model"
	"github.com/mmeshcher/restaurant-backoffice/internal/service"
)

// flexString принимает как строку, так и число: бот присылает chat id числом.
type flexString struct {
	set   bool
	value string
}

func (f *flexString) UnmarshalJSON(data []byte) error {
	if bytes.Equal(data, []byte("null")) {
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		if err := json.Unmarshal(data, &f.value); err != nil {
			return err
		}
		f.set = true
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return errors.New("user_id must be a string or a number")
	}
	f.value = n.String()
	f.set = true
	return nil
}

func (f flexString) ptr() *string {
	if !f.set {
		return nil
	}
	v := f.value
	return &v
}

type createOrderRequest struct {
	UserID           flexString      `json:"user_id"`
	CustomerName     string          `json:"customer_name"`
	DeliveryType     *string         `json:"delivery_type"`
	LocationName     string          `json:"location_name"`
	Products         []model.Product `json:"products"`
	TotalPrice       *float64        `json:"total_price"`
	DeliveryDistance *float64        `json:"delivery_distance"`
}

type orderResponse struct {
	Success bool         `json:"success"`
	Message string       `json:"message"`
	Order   *model.Order `json:"order"`
}

// CreateOrder принимает новый заказ от бота.
func (h *Handler) CreateOrder(w http.ResponseWriter, r *http.Request) {
	var req createOrderRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	o, err := h.service.CreateOrder(r.Context(), service.CreateOrderInput{
		UserID:           req.UserID.ptr(),
		CustomerName:     req.CustomerName,
		DeliveryType:     req.DeliveryType,
		LocationName:     req.LocationName,
		Products:         req.Products,
		TotalPrice:       req.TotalPrice,
		DeliveryDistance: req.DeliveryDistance,
	})
	if err != nil {
		h.writeError(w, r, "create order", err)
		return
	}

	writeJSON(w, http.StatusCreated, orderResponse{
		Success: true,
		Message: "Order created successfully",
		Order:   o,
	})
}

// GetOrder возвращает заказ по id.
func (h *Handler) GetOrder(w http.ResponseWriter, r *http.Request) {
	o, err := h.service.GetOrder(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.writeError(w, r, "get order", err)
		return
	}
	writeJSON(w, http.StatusOK, o)
}

type statusRequest struct {
	Status string `json:"status"`
}

// UpdateOrderStatus меняет статус заказа.
func (h *Handler) UpdateOrderStatus(w http.ResponseWriter, r *http.Request) {
	var req statusRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	o, err := h.service.SetStatus(r.Context(), chi.URLParam(r, "id"), req.Status)
	if err != nil {
		h.writeError(w, r, "update order status", err)
		return
	}

	writeJSON(w, http.StatusOK, orderResponse{
		Success: true,
		Message: "Order status updated to " + string(o.Status),
		Order:   o,
	})
}

type reviewRequest struct {
	Rating *json.Number `json:"rating"`
}

func (req reviewRequest) value() float64 {
	if req.Rating == nil {
		return math.NaN()
	}
	v, err := strconv.ParseFloat(req.Rating.String(), 64)
	if err != nil {
		return math.NaN()
	}
	return v
}

// ReviewOrder записывает оценку заказа.
func (h *Handler) ReviewOrder(w http.ResponseWriter, r *http.Request) {
	var req reviewRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	o, err := h.service.SetRating(r.Context(), chi.URLParam(r, "id"), req.value())
	if err != nil {
		h.writeError(w, r, "review order", err)
		return
	}

	writeJSON(w, http.StatusOK, orderResponse{
		Success: true,
		Message: "Rating submitted successfully",
		Order:   o,
	})
}
