// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"database/sql"
	"errors"
	"log/slog"
	"math"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/danielhkuo/crocante/cart"
	"github.com/danielhkuo/crocante/checkout"
	"github.com/danielhkuo/crocante/cliparse"
	"github.com/danielhkuo/crocante/db"
	"github.com/danielhkuo/crocante/loyalty"
	"github.com/danielhkuo/crocante/middleware"
	"github.com/danielhkuo/crocante/models"
)

const maxListLimit = 200

type OrderHandler struct {
	cfg     cliparse.Config
	orders  *db.OrderRepo
	loyalty *db.LoyaltyRepo
	placer  *checkout.StoreDispatcher
}

func NewOrderHandler(conn *sql.DB, cfg cliparse.Config) *OrderHandler {
	orders := db.NewOrderRepo(conn)
	return &OrderHandler{
		cfg:     cfg,
		orders:  orders,
		loyalty: db.NewLoyaltyRepo(conn),
		placer:  checkout.NewStoreDispatcher(orders, cfg.SessionSalt),
	}
}

// CreateOrder handles POST /api/pedidos
func (h *OrderHandler) CreateOrder(w http.ResponseWriter, r *http.Request) {
	var req models.CreateOrderRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	if len(req.Items) == 0 {
		middleware.ErrorResponse(w, http.StatusBadRequest, "items is required")
		return
	}

	var total float64
	for _, it := range req.Items {
		if strings.TrimSpace(it.Name) == "" {
			middleware.ErrorResponse(w, http.StatusBadRequest, "item name is required")
			return
		}
		if err := cart.ValidatePrice(it.Price); err != nil {
			middleware.ErrorResponse(w, http.StatusBadRequest, "Preço inválido")
			return
		}
		total += it.Price
	}
	total = cart.RoundCents(total)
	if math.IsInf(total, 0) || math.IsNaN(total) {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Preço inválido")
		return
	}

	// the item prices win over a client-side total
	if math.Abs(total-req.Total) >= 0.005 {
		slog.Warn("order total mismatch", "sent", req.Total, "computed", total)
	}

	if req.Delivery != nil {
		if err := checkout.ValidateDelivery(*req.Delivery); err != nil {
			middleware.ErrorResponse(w, http.StatusBadRequest, checkout.UserMessage(err))
			return
		}
	}

	date := req.Date
	if date == "" {
		date = time.Now().Format("02/01/2006")
	}

	order, err := h.placer.Place(r.Context(), models.Order{
		Items:     req.Items,
		Total:     total,
		Date:      date,
		Delivery:  req.Delivery,
		ClienteID: req.ClienteID,
	})
	if err != nil {
		slog.Error("failed to save order", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Erro ao registrar pedido")
		return
	}

	if req.ClienteID != "" {
		h.award(r, order)
	}

	slog.Info("order created", "order_id", order.ID, "code", order.Code, "items", len(order.Items), "total", order.Total)

	middleware.JSONResponse(w, http.StatusCreated, order)
}

// award credits the order's points to its customer. The order stands even
// when the customer is unknown.
func (h *OrderHandler) award(r *http.Request, order models.Order) {
	points := loyalty.PointsFor(order.Total)
	if points <= 0 {
		return
	}
	_, err := h.loyalty.AddPoints(r.Context(), order.ClienteID, points, "Pedido "+order.Code)
	switch {
	case errors.Is(err, db.ErrNotFound):
		slog.Warn("order references unknown customer", "order_id", order.ID, "cliente_id", order.ClienteID)
	case err != nil:
		slog.Error("failed to award order points", "order_id", order.ID, "cliente_id", order.ClienteID, "error", err)
	default:
		slog.Info("order points awarded", "order_id", order.ID, "cliente_id", order.ClienteID, "pontos", points)
	}
}

// GetOrder handles GET /api/pedidos/{id}
func (h *OrderHandler) GetOrder(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "id is required")
		return
	}

	order, err := h.orders.GetOrder(r.Context(), id)
	if errors.Is(err, db.ErrNotFound) {
		middleware.ErrorResponse(w, http.StatusNotFound, "Pedido não encontrado")
		return
	}
	if err != nil {
		slog.Error("failed to load order", "order_id", id, "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, order)
}

// ListOrders handles GET /api/pedidos?limit=N
func (h *OrderHandler) ListOrders(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			middleware.ErrorResponse(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = min(n, maxListLimit)
	}

	orders, err := h.orders.ListOrders(r.Context(), limit)
	if err != nil {
		slog.Error("failed to list orders", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	if orders == nil {
		orders = []models.Order{}
	}

	middleware.JSONResponse(w, http.StatusOK, models.ListOrdersResponse{Pedidos: orders})
}
