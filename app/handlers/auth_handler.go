package handlers

import (
	"net/http"

	"github.com/infinitystore/backend/app/handlers/respond"
	"github.com/infinitystore/backend/app/helpers"
	"github.com/infinitystore/backend/app/services"
	"github.com/unrolled/render"
)

type AuthHandler struct {
	render *render.Render
	auth   *services.AuthService
}

func NewAuthHandler(r *render.Render, auth *services.AuthService) *AuthHandler {
	return &AuthHandler{
		render: r,
		auth:   auth,
	}
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var in services.RegisterInput
	if err := respond.DecodeJSON(r, &in); err != nil {
		respond.Error(h.render, w, "Register", err)
		return
	}

	user, err := h.auth.Register(r.Context(), in)
	if err != nil {
		respond.Error(h.render, w, "Register", err)
		return
	}

	_ = h.render.JSON(w, http.StatusCreated, map[string]any{
		"message": "User registered successfully.",
		"user":    user,
	})
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var in services.LoginInput
	if err := respond.DecodeJSON(r, &in); err != nil {
		respond.Error(h.render, w, "Login", err)
		return
	}

	result, err := h.auth.Login(r.Context(), in)
	if err != nil {
		respond.Error(h.render, w, "Login", err)
		return
	}

	_ = h.render.JSON(w, http.StatusOK, map[string]any{
		"message": "Login successful.",
		"token":   result.Token,
		"user":    result.User,
	})
}

func (h *AuthHandler) GoogleLogin(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Credential string `json:"credential"`
	}
	if err := respond.DecodeJSON(r, &in); err != nil {
		respond.Error(h.render, w, "GoogleLogin", err)
		return
	}

	result, err := h.auth.LoginWithGoogle(r.Context(), in.Credential)
	if err != nil {
		respond.Error(h.render, w, "GoogleLogin", err)
		return
	}

	_ = h.render.JSON(w, http.StatusOK, map[string]any{
		"message": "Login successful.",
		"token":   result.Token,
		"user":    result.User,
	})
}

func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	caller, _ := helpers.AuthUserFrom(r.Context())
	user, err := h.auth.Me(r.Context(), caller.ID)
	if err != nil {
		respond.Error(h.render, w, "Me", err)
		return
	}
	_ = h.render.JSON(w, http.StatusOK, user)
}
