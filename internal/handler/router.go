package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	custommiddleware "github.com/mmeshcher/barberpos/internal/middleware"
)

// SetupRouter настраивает HTTP-маршруты и middleware бэк-офиса.
func (h *Handler) SetupRouter() *chi.Mux {
	r := chi.NewRouter()

	r.Use(custommiddleware.GzipMiddleware)
	r.Use(custommiddleware.Logger(h.logger))
	r.Use(h.metrics.Middleware)

	r.Get("/health", h.Health)
	r.Handle("/metrics", promhttp.HandlerFor(h.registry, promhttp.HandlerOpts{}))

	r.Route("/api", func(r chi.Router) {
		r.Use(h.authMiddleware.Middleware)

		r.Post("/session", h.Session)
		r.Get("/dashboard", h.Dashboard)

		r.Route("/shops", func(r chi.Router) {
			r.Get("/", h.ListShops)
			r.Post("/", h.CreateShop)
			r.Get("/{id}", h.GetShop)
			r.Put("/{id}", h.UpdateShop)
			r.Delete("/{id}", h.DeleteShop)
		})

		r.Route("/staff", func(r chi.Router) {
			r.Get("/", h.ListStaff)
			r.Post("/", h.CreateStaff)
			r.Get("/{id}", h.GetStaff)
			r.Put("/{id}", h.UpdateStaff)
			r.Delete("/{id}", h.DeleteStaff)
		})

		r.Route("/memberships", func(r chi.Router) {
			r.Get("/", h.ListMemberships)
			r.Post("/", h.CreateMembership)
			r.Get("/{id}", h.GetMembership)
			r.Put("/{id}", h.UpdateMembership)
			r.Delete("/{id}", h.DeleteMembership)
		})

		r.Route("/products", func(r chi.Router) {
			r.Get("/", h.ListProducts)
			r.Post("/", h.CreateProduct)
			r.Get("/{id}", h.GetProduct)
			r.Put("/{id}", h.UpdateProduct)
			r.Delete("/{id}", h.DeleteProduct)
		})

		r.Route("/product-prices", func(r chi.Router) {
			r.Get("/", h.ListPriceOverrides)
			r.Post("/", h.CreatePriceOverride)
			r.Get("/{id}", h.GetPriceOverride)
			r.Put("/{id}", h.UpdatePriceOverride)
			r.Delete("/{id}", h.DeletePriceOverride)
		})

		r.Route("/clients", func(r chi.Router) {
			r.Get("/", h.ListClients)
			r.Post("/", h.CreateClient)
			r.Get("/{id}", h.GetClient)
			r.Put("/{id}", h.UpdateClient)
			r.Delete("/{id}", h.DeleteClient)
		})

		r.Route("/orders", func(r chi.Router) {
			r.Get("/", h.ListOrders)
			r.Post("/", h.CreateOrder)
			r.Get("/{id}", h.GetOrder)
			r.Put("/{id}", h.UpdateOrder)
			r.Delete("/{id}", h.DeleteOrder)
			r.Post("/{id}/status", h.ChangeOrderStatus)
			r.Post("/{id}/items", h.AddOrderItem)
			r.Put("/{id}/items/{itemID}", h.UpdateOrderItem)
			r.Delete("/{id}/items/{itemID}", h.DeleteOrderItem)
		})
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, http.StatusText(http.StatusNotFound), http.StatusNotFound)
	})

	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
	})

	return r
}
