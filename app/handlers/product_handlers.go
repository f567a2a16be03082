package handlers

import (
	"net/http"
	"strconv"

	"github.com/infinitystore/backend/app/handlers/respond"
	"github.com/infinitystore/backend/app/helpers"
	"github.com/infinitystore/backend/app/services"
	"github.com/unrolled/render"
)

type ProductHandler struct {
	render   *render.Render
	products *services.ProductService
}

func NewProductHandler(r *render.Render, products *services.ProductService) *ProductHandler {
	return &ProductHandler{render: r, products: products}
}

func (h *ProductHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	query := services.ProductQuery{
		Name: q.Get("name"),
		Page: helpers.ParsePagination(r),
	}
	if raw := q.Get("category"); raw != "" {
		id, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			respond.BadRequest(h.render, w, "category must be a numeric id.")
			return
		}
		query.CategoryID = uint(id)
	}

	products, total, err := h.products.List(r.Context(), query)
	if err != nil {
		respond.Error(h.render, w, "ListProducts", err)
		return
	}
	respond.Paginated(h.render, w, "products", products, total, query.Page)
}

func (h *ProductHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := respond.PathID(r)
	if err != nil {
		respond.Error(h.render, w, "GetProduct", err)
		return
	}

	product, err := h.products.Get(r.Context(), id)
	if err != nil {
		respond.Error(h.render, w, "GetProduct", err)
		return
	}
	_ = h.render.JSON(w, http.StatusOK, product)
}
