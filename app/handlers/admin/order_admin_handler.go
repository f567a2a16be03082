package admin

import (
	"net/http"

	"github.com/infinitystore/backend/app/handlers/respond"
	"github.com/infinitystore/backend/app/helpers"
	"github.com/infinitystore/backend/app/models"
	"github.com/infinitystore/backend/app/services"
)

func (h *AdminHandler) ListOrders(w http.ResponseWriter, r *http.Request) {
	q := services.OrderQuery{
		State: r.URL.Query().Get("state"),
		Page:  helpers.ParsePagination(r),
	}
	orders, total, err := h.orders.ListAll(r.Context(), q)
	if err != nil {
		respond.Error(h.render, w, "ListOrders", err)
		return
	}
	respond.Paginated(h.render, w, "orders", orders, total, q.Page)
}

func (h *AdminHandler) UpdateOrderStatus(w http.ResponseWriter, r *http.Request) {
	id, err := respond.PathID(r)
	if err != nil {
		respond.Error(h.render, w, "UpdateOrderStatus", err)
		return
	}

	var in struct {
		State string `json:"state"`
	}
	if err := respond.DecodeJSON(r, &in); err != nil {
		respond.Error(h.render, w, "UpdateOrderStatus", err)
		return
	}

	order, err := h.orders.UpdateState(r.Context(), id, in.State)
	if err != nil {
		respond.Error(h.render, w, "UpdateOrderStatus", err)
		return
	}
	_ = h.render.JSON(w, http.StatusOK, map[string]any{
		"message": "Order status updated.",
		"order":   order,
	})
}

func (h *AdminHandler) ListOrderDetails(w http.ResponseWriter, r *http.Request) {
	details, err := h.orders.ListDetails(r.Context())
	if err != nil {
		respond.Error(h.render, w, "ListOrderDetails", err)
		return
	}
	if details == nil {
		details = []models.OrderDetail{}
	}
	_ = h.render.JSON(w, http.StatusOK, details)
}

func (h *AdminHandler) GetOrderDetail(w http.ResponseWriter, r *http.Request) {
	id, err := respond.PathID(r)
	if err != nil {
		respond.Error(h.render, w, "GetOrderDetail", err)
		return
	}
	detail, err := h.orders.GetDetail(r.Context(), id)
	if err != nil {
		respond.Error(h.render, w, "GetOrderDetail", err)
		return
	}
	_ = h.render.JSON(w, http.StatusOK, detail)
}
