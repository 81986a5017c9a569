package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/YelzhanWeb/cafebot/internal/adapter/logger"
	"github.com/YelzhanWeb/cafebot/internal/app/admin"
	"github.com/YelzhanWeb/cafebot/internal/app/order"
	"github.com/YelzhanWeb/cafebot/internal/domain"
	"github.com/YelzhanWeb/cafebot/internal/interfaces"
)

type AdminHandler struct {
	service interfaces.AdminService
	logger  logger.Logger
}

func NewAdminHandler(service interfaces.AdminService, logger logger.Logger) *AdminHandler {
	return &AdminHandler{
		service: service,
		logger:  logger,
	}
}

type OrderItemResponse struct {
	Name  string `json:"name"`
	Price string `json:"price"`
}

type OrderResponse struct {
	ID           int64               `json:"id"`
	CreatedAt    string              `json:"created_at"`
	Items        []OrderItemResponse `json:"items"`
	Total        string              `json:"total"`
	Fulfillment  string              `json:"fulfillment"`
	Address      string              `json:"address"`
	TableNumber  string              `json:"table_number"`
	CustomerName string              `json:"customer_name"`
	Phone        string              `json:"phone"`
}

// RecentOrders serves the admin listing as text, or JSON with ?format=json
func (h *AdminHandler) RecentOrders(w http.ResponseWriter, r *http.Request) {
	orders, err := h.service.RecentOrders(r.Context())
	if err != nil {
		h.logger.Error("orders_query_failed", "Failed to load recent orders", logger.RequestID(r.Context()), nil, err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	if r.URL.Query().Get("format") == "json" {
		resp := make([]OrderResponse, 0, len(orders))
		for _, o := range orders {
			resp = append(resp, toOrderResponse(o))
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(resp)
		return
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Write([]byte(admin.FormatListing(orders)))
}

// GetOrder serves one order as JSON
func (h *AdminHandler) GetOrder(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		http.Error(w, "Invalid order id", http.StatusBadRequest)
		return
	}

	o, err := h.service.Order(r.Context(), id)
	if errors.Is(err, domain.ErrOrderNotFound) {
		http.Error(w, "Order not found", http.StatusNotFound)
		return
	}
	if err != nil {
		h.logger.Error("order_query_failed", "Failed to load order", logger.RequestID(r.Context()),
			map[string]interface{}{"order_id": id}, err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(toOrderResponse(o))
}

func toOrderResponse(o *domain.Order) OrderResponse {
	items := make([]OrderItemResponse, 0, len(o.Items))
	for _, line := range o.Items {
		items = append(items, OrderItemResponse{Name: line.Name, Price: line.Price.StringFixed(2)})
	}
	return OrderResponse{
		ID:           o.ID,
		CreatedAt:    o.CreatedAt.Format(order.DateLayout),
		Items:        items,
		Total:        o.TotalPrice.StringFixed(2),
		Fulfillment:  o.Fulfillment.Label(),
		Address:      o.Address,
		TableNumber:  o.TableNumber,
		CustomerName: o.CustomerName,
		Phone:        o.Phone,
	}
}
