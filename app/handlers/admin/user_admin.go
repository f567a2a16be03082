package admin

import (
	"net/http"

	"github.com/infinitystore/backend/app/handlers/respond"
	"github.com/infinitystore/backend/app/helpers"
	"github.com/infinitystore/backend/app/models"
)

func (h *AdminHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	page := helpers.ParsePagination(r)
	users, total, err := h.users.List(r.Context(), page)
	if err != nil {
		respond.Error(h.render, w, "ListUsers", err)
		return
	}
	respond.Paginated(h.render, w, "users", users, total, page)
}

func (h *AdminHandler) UpdateUser(w http.ResponseWriter, r *http.Request) {
	id, err := respond.PathID(r)
	if err != nil {
		respond.Error(h.render, w, "UpdateUser", err)
		return
	}

	var patch models.UserPatch
	if err := respond.DecodeJSON(r, &patch); err != nil {
		respond.Error(h.render, w, "UpdateUser", err)
		return
	}

	user, err := h.users.Update(r.Context(), id, patch)
	if err != nil {
		respond.Error(h.render, w, "UpdateUser", err)
		return
	}
	_ = h.render.JSON(w, http.StatusOK, map[string]any{
		"message": "User updated successfully.",
		"user":    user,
	})
}

func (h *AdminHandler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	id, err := respond.PathID(r)
	if err != nil {
		respond.Error(h.render, w, "DeleteUser", err)
		return
	}

	if err := h.users.Delete(r.Context(), id); err != nil {
		respond.Error(h.render, w, "DeleteUser", err)
		return
	}
	_ = h.render.JSON(w, http.StatusOK, respond.Message{Message: "User deleted successfully."})
}
