package handlers

import (
	"net/http"

	"github.com/infinitystore/backend/app/handlers/respond"
	"github.com/infinitystore/backend/app/models"
	"github.com/infinitystore/backend/app/services"
	"github.com/unrolled/render"
)

type CategoryHandler struct {
	render     *render.Render
	categories *services.CategoryService
}

func NewCategoryHandler(r *render.Render, categories *services.CategoryService) *CategoryHandler {
	return &CategoryHandler{render: r, categories: categories}
}

func (h *CategoryHandler) List(w http.ResponseWriter, r *http.Request) {
	categories, err := h.categories.List(r.Context())
	if err != nil {
		respond.Error(h.render, w, "ListCategories", err)
		return
	}
	if categories == nil {
		categories = []models.Category{}
	}
	_ = h.render.JSON(w, http.StatusOK, categories)
}

func (h *CategoryHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := respond.PathID(r)
	if err != nil {
		respond.Error(h.render, w, "GetCategory", err)
		return
	}
	category, err := h.categories.Get(r.Context(), id)
	if err != nil {
		respond.Error(h.render, w, "GetCategory", err)
		return
	}
	_ = h.render.JSON(w, http.StatusOK, category)
}
