package admin

import (
	"net/http"

	"github.com/infinitystore/backend/app/handlers/respond"
	"github.com/infinitystore/backend/app/models"
	"github.com/infinitystore/backend/app/services"
)

func (h *AdminHandler) CreateCategory(w http.ResponseWriter, r *http.Request) {
	var in services.CategoryInput
	if err := respond.DecodeJSON(r, &in); err != nil {
		respond.Error(h.render, w, "CreateCategory", err)
		return
	}

	category, err := h.categories.Create(r.Context(), in)
	if err != nil {
		respond.Error(h.render, w, "CreateCategory", err)
		return
	}
	_ = h.render.JSON(w, http.StatusCreated, category)
}

func (h *AdminHandler) UpdateCategory(w http.ResponseWriter, r *http.Request) {
	id, err := respond.PathID(r)
	if err != nil {
		respond.Error(h.render, w, "UpdateCategory", err)
		return
	}

	var patch models.CategoryPatch
	if err := respond.DecodeJSON(r, &patch); err != nil {
		respond.Error(h.render, w, "UpdateCategory", err)
		return
	}

	category, err := h.categories.Update(r.Context(), id, patch)
	if err != nil {
		respond.Error(h.render, w, "UpdateCategory", err)
		return
	}
	_ = h.render.JSON(w, http.StatusOK, category)
}
