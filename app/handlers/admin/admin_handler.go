package admin

import (
	"github.com/infinitystore/backend/app/services"
	"github.com/infinitystore/backend/app/utils/uploads"
	"github.com/unrolled/render"
)

// AdminHandler serves the write endpoints reserved for administrators.
type AdminHandler struct {
	render         *render.Render
	products       *services.ProductService
	categories     *services.CategoryService
	users          *services.UserService
	orders         *services.OrderService
	uploads        *uploads.Store
	maxUploadBytes int64
}

func NewAdminHandler(
	render *render.Render,
	products *services.ProductService,
	categories *services.CategoryService,
	users *services.UserService,
	orders *services.OrderService,
	uploadStore *uploads.Store,
	maxUploadMB int64,
) *AdminHandler {
	return &AdminHandler{
		render:         render,
		products:       products,
		categories:     categories,
		users:          users,
		orders:         orders,
		uploads:        uploadStore,
		maxUploadBytes: maxUploadMB << 20,
	}
}
