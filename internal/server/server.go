package server

import (
	"context"
	"database/sql"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/kavish/inventory-insight/internal/config"
	"github.com/kavish/inventory-insight/internal/logging"
)

type Server struct {
	httpServer *http.Server
}

func New(cfg *config.ServerConfig, db *sql.DB) *Server {
	handler := NewHandler(db)

	r := chi.NewRouter()

	r.Use(RecoveryMiddleware)
	r.Use(RequestIDMiddleware)
	r.Use(MetricsMiddleware)
	r.Use(LoggingMiddleware)
	r.Use(CORSMiddleware)

	r.Get("/health", handler.HealthCheck)
	r.Get("/metrics", promhttp.Handler().ServeHTTP)

	r.Route("/api", func(r chi.Router) {
		r.Get("/dashboard", handler.Dashboard)
		r.Get("/reports/analysis", handler.AnalysisReport)
		r.Get("/chart-data", handler.ChartData)
		r.Get("/product-price", handler.ProductPrice)

		r.Route("/categories", func(r chi.Router) {
			r.Get("/", handler.ListCategories)
			r.Post("/", handler.CreateCategory)
			r.Get("/{id}", handler.GetCategory)
			r.Put("/{id}", handler.UpdateCategory)
			r.Delete("/{id}", handler.DeleteCategory)
		})

		r.Route("/products", func(r chi.Router) {
			r.Get("/", handler.ListProducts)
			r.Post("/", handler.CreateProduct)
			r.Get("/{id}", handler.GetProduct)
			r.Put("/{id}", handler.UpdateProduct)
			r.Delete("/{id}", handler.DeleteProduct)
			r.Post("/{id}/stock", handler.RestockProduct)
		})

		r.Route("/sales", func(r chi.Router) {
			r.Get("/", handler.ListSales)
			r.Post("/", handler.RecordSale)
		})
	})

	httpServer := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  60 * time.Second,
	}

	return &Server{httpServer: httpServer}
}

func (s *Server) Start() error {
	logging.Info().Str("addr", s.httpServer.Addr).Msg("starting HTTP server")
	return s.httpServer.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	logging.Info().Msg("shutting down HTTP server")
	return s.httpServer.Shutdown(ctx)
}
