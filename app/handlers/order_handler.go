package handlers

import (
	"net/http"

	"github.com/infinitystore/backend/app/handlers/respond"
	"github.com/infinitystore/backend/app/helpers"
	"github.com/infinitystore/backend/app/models"
	"github.com/infinitystore/backend/app/services"
	"github.com/unrolled/render"
)

type OrderHandler struct {
	render   *render.Render
	checkout *services.CheckoutService
	orders   *services.OrderService
}

func NewOrderHandler(render *render.Render, checkout *services.CheckoutService, orders *services.OrderService) *OrderHandler {
	return &OrderHandler{
		render:   render,
		checkout: checkout,
		orders:   orders,
	}
}

func (h *OrderHandler) Create(w http.ResponseWriter, r *http.Request) {
	caller, _ := helpers.AuthUserFrom(r.Context())

	var in services.CheckoutInput
	if err := respond.DecodeJSON(r, &in); err != nil {
		respond.Error(h.render, w, "CreateOrder", err)
		return
	}

	order, err := h.checkout.PlaceOrder(r.Context(), caller.ID, in)
	if err != nil {
		respond.Error(h.render, w, "CreateOrder", err)
		return
	}

	_ = h.render.JSON(w, http.StatusCreated, map[string]any{
		"message": "Order created successfully.",
		"order":   order,
	})
}

func (h *OrderHandler) MyOrders(w http.ResponseWriter, r *http.Request) {
	caller, _ := helpers.AuthUserFrom(r.Context())

	orders, err := h.orders.ListMine(r.Context(), caller.ID)
	if err != nil {
		respond.Error(h.render, w, "MyOrders", err)
		return
	}
	if orders == nil {
		orders = []models.Order{}
	}
	_ = h.render.JSON(w, http.StatusOK, orders)
}

func (h *OrderHandler) Get(w http.ResponseWriter, r *http.Request) {
	caller, _ := helpers.AuthUserFrom(r.Context())

	id, err := respond.PathID(r)
	if err != nil {
		respond.Error(h.render, w, "GetOrder", err)
		return
	}

	order, err := h.orders.Get(r.Context(), caller, id)
	if err != nil {
		respond.Error(h.render, w, "GetOrder", err)
		return
	}
	_ = h.render.JSON(w, http.StatusOK, order)
}
