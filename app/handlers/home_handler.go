package handlers

import (
	"net/http"

	"github.com/unrolled/render"
	"gorm.io/gorm"
)

type HomeHandler struct {
	render *render.Render
	db     *gorm.DB
}

func NewHomeHandler(r *render.Render, db *gorm.DB) *HomeHandler {
	return &HomeHandler{
		render: r,
		db:     db,
	}
}

func (h *HomeHandler) Home(w http.ResponseWriter, r *http.Request) {
	_ = h.render.Text(w, http.StatusOK, "Infinity Store API is running.")
}

// Health pings the database.
func (h *HomeHandler) Health(w http.ResponseWriter, r *http.Request) {
	status := map[string]string{"status": "ok", "database": "ok"}
	code := http.StatusOK

	sqlDB, err := h.db.DB()
	if err == nil {
		err = sqlDB.PingContext(r.Context())
	}
	if err != nil {
		status["status"] = "degraded"
		status["database"] = err.Error()
		code = http.StatusServiceUnavailable
	}
	_ = h.render.JSON(w, code, status)
}
