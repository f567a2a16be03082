package routes

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/infinitystore/backend/app/configs"
	"github.com/infinitystore/backend/app/handlers"
	"github.com/infinitystore/backend/app/handlers/admin"
	"github.com/infinitystore/backend/app/helpers"
	"github.com/infinitystore/backend/app/middlewares"
	"github.com/infinitystore/backend/app/repositories"
	"github.com/infinitystore/backend/app/services"
	"github.com/infinitystore/backend/app/utils/renderer"
	"github.com/infinitystore/backend/app/utils/uploads"
	"gorm.io/gorm"
)

// Dependencies are the collaborators the router is built from. Tests swap
// the Store and IdentityVerifier; everything else is derived from them.
type Dependencies struct {
	DB       *gorm.DB
	Repos    repositories.Repositories
	Store    repositories.Store
	Verifier services.IdentityVerifier
	Env      configs.ENV
}

func NewRouter(db *gorm.DB, env configs.ENV) *mux.Router {
	return Build(Dependencies{
		DB:       db,
		Repos:    repositories.NewRepositories(db),
		Store:    repositories.NewStore(db),
		Verifier: services.NewGoogleVerifier(env.GoogleClientID),
		Env:      env,
	})
}

func Build(deps Dependencies) *mux.Router {
	env := deps.Env
	rnd := renderer.New(env.IsProduction())
	validate := helpers.NewValidator()
	uploadStore := uploads.NewStore(env.UploadDir)

	tokens := services.NewTokenService(env.JWTSecret, env.JWTTTL)
	authSvc := services.NewAuthService(deps.Repos.Users, tokens, deps.Verifier, validate)
	productSvc := services.NewProductService(deps.Repos.Products, deps.Repos.Categories, uploadStore, validate, env.AppURL)
	categorySvc := services.NewCategoryService(deps.Repos.Categories, validate)
	userSvc := services.NewUserService(deps.Repos.Users, deps.Repos.Orders, validate)
	orderSvc := services.NewOrderService(deps.Repos, deps.Store)
	checkoutSvc := services.NewCheckoutService(deps.Store)

	homeHandler := handlers.NewHomeHandler(rnd, deps.DB)
	authHandler := handlers.NewAuthHandler(rnd, authSvc)
	productHandler := handlers.NewProductHandler(rnd, productSvc)
	categoryHandler := handlers.NewCategoryHandler(rnd, categorySvc)
	orderHandler := handlers.NewOrderHandler(rnd, checkoutSvc, orderSvc)
	adminHandler := admin.NewAdminHandler(rnd, productSvc, categorySvc, userSvc, orderSvc, uploadStore, env.MaxUploadMB)

	authed := func(h http.HandlerFunc) http.Handler {
		return middlewares.Chain(h, middlewares.VerifyToken(tokens, rnd))
	}
	adminOnly := func(h http.HandlerFunc) http.Handler {
		return middlewares.Chain(h, middlewares.VerifyToken(tokens, rnd), middlewares.RequireAdmin(rnd))
	}

	router := mux.NewRouter()
	router.Use(middlewares.RequestLogger, mux.MiddlewareFunc(middlewares.Recoverer(rnd)))

	router.HandleFunc("/", homeHandler.Home).Methods("GET")
	router.PathPrefix("/" + uploads.URLPrefix + "/").Handler(
		http.StripPrefix("/"+uploads.URLPrefix+"/", http.FileServer(http.Dir(uploadStore.Dir()))),
	).Methods("GET")

	api := router.PathPrefix("/api").Subrouter()
	if deps.DB != nil {
		api.HandleFunc("/health", homeHandler.Health).Methods("GET")
	}

	auth := api.PathPrefix("/auth").Subrouter()
	auth.HandleFunc("/register", authHandler.Register).Methods("POST")
	auth.HandleFunc("/login", authHandler.Login).Methods("POST")
	auth.HandleFunc("/google", authHandler.GoogleLogin).Methods("POST")
	auth.Handle("/me", authed(authHandler.Me)).Methods("GET")

	products := api.PathPrefix("/products").Subrouter()
	products.HandleFunc("", productHandler.List).Methods("GET")
	products.HandleFunc("/{id:[0-9]+}", productHandler.Get).Methods("GET")
	products.Handle("", adminOnly(adminHandler.CreateProduct)).Methods("POST")
	products.Handle("/{id:[0-9]+}", adminOnly(adminHandler.UpdateProduct)).Methods("PUT")
	products.Handle("/{id:[0-9]+}", adminOnly(adminHandler.DeleteProduct)).Methods("DELETE")

	categories := api.PathPrefix("/categories").Subrouter()
	categories.HandleFunc("", categoryHandler.List).Methods("GET")
	categories.HandleFunc("/{id:[0-9]+}", categoryHandler.Get).Methods("GET")
	categories.Handle("", adminOnly(adminHandler.CreateCategory)).Methods("POST")
	categories.Handle("/{id:[0-9]+}", adminOnly(adminHandler.UpdateCategory)).Methods("PUT")

	// literal segments are registered before {id} so they are never parsed as ids
	orders := api.PathPrefix("/orders").Subrouter()
	orders.Handle("", authed(orderHandler.Create)).Methods("POST")
	orders.Handle("/my-orders", authed(orderHandler.MyOrders)).Methods("GET")
	orders.Handle("/admin", adminOnly(adminHandler.ListOrders)).Methods("GET")
	orders.Handle("/{id:[0-9]+}/status", adminOnly(adminHandler.UpdateOrderStatus)).Methods("PUT")
	orders.Handle("/{id:[0-9]+}", authed(orderHandler.Get)).Methods("GET")

	details := api.PathPrefix("/order-details").Subrouter()
	details.Handle("", adminOnly(adminHandler.ListOrderDetails)).Methods("GET")
	details.Handle("/{id:[0-9]+}", adminOnly(adminHandler.GetOrderDetail)).Methods("GET")

	users := api.PathPrefix("/users/admin").Subrouter()
	users.Handle("", adminOnly(adminHandler.ListUsers)).Methods("GET")
	users.Handle("/{id:[0-9]+}", adminOnly(adminHandler.UpdateUser)).Methods("PUT")
	users.Handle("/{id:[0-9]+}", adminOnly(adminHandler.DeleteUser)).Methods("DELETE")

	router.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = rnd.JSON(w, http.StatusNotFound, map[string]string{"message": "Route not found."})
	})
	router.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = rnd.JSON(w, http.StatusMethodNotAllowed, map[string]string{"message": "Method not allowed."})
	})

	return router
}
