package rest

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"alnretool/infrastructure/di"
	"alnretool/interfaces/http/rest/handlers"
	"alnretool/interfaces/http/rest/middleware"
	"alnretool/pkg/auth"
)

// Router creates and configures the HTTP router
type Router struct {
	container *di.Container
	logger    *zap.Logger
}

// NewRouter creates a new router instance
func NewRouter(container *di.Container) *Router {
	return &Router{
		container: container,
		logger:    container.Logger,
	}
}

// Setup configures all routes and middleware
func (rt *Router) Setup() http.Handler {
	cfg := rt.container.Config

	router := chi.NewRouter()

	// Global middleware
	router.Use(chimiddleware.RequestID)
	router.Use(chimiddleware.RealIP)
	router.Use(chimiddleware.Recoverer)
	router.Use(middleware.Logger(rt.logger))

	if cfg.EnableCORS {
		router.Use(cors.Handler(cors.Options{
			AllowedOrigins:   []string{"http://localhost:5173", "http://localhost:3000"},
			AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
			AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
			ExposedHeaders:   []string{"X-Request-ID"},
			AllowCredentials: true,
			MaxAge:           300,
		}))
	}

	// Health check
	router.Get("/health", rt.healthCheck)
	router.Get("/ready", rt.readinessCheck)

	if cfg.EnableMetrics {
		router.Handle("/metrics", rt.container.Metrics.Handler())
	}

	// Auth runs open when no secret is configured
	var validator *auth.JWTValidator
	if cfg.JWTSecret != "" {
		v, err := auth.NewJWTValidator(auth.JWTConfig{
			SecretKey: cfg.JWTSecret,
			Issuer:    cfg.JWTIssuer,
		})
		if err != nil {
			rt.logger.Fatal("Failed to create JWT validator", zap.Error(err))
		}
		validator = v
	}

	router.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Authenticate(validator, rt.logger))

		graphHandler := handlers.NewGraphHandler(rt.container.QueryBus, rt.logger)
		r.Get("/graph", graphHandler.GetGraph)

		entityHandler := handlers.NewEntityHandler(rt.container.QueryBus, rt.logger)
		r.Get("/entities/{entityType}", entityHandler.ListEntities)

		clusterHandler := handlers.NewClusterHandler(
			rt.container.CommandBus,
			rt.container.QueryBus,
			rt.container.ClusterState,
			rt.logger,
		)
		r.Route("/clusters", func(r chi.Router) {
			r.Get("/", clusterHandler.GetClusters)
			r.Post("/expand-all", clusterHandler.ExpandAll)
			r.Post("/collapse-all", clusterHandler.CollapseAll)
			r.Post("/select-node", clusterHandler.SelectNode)
			r.Post("/{clusterID}/toggle", clusterHandler.ToggleCluster)
		})
	})

	return router
}

// healthCheck handles health check requests
func (rt *Router) healthCheck(w http.ResponseWriter, req *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"healthy"}`))
}

// readinessCheck verifies the state store is reachable
func (rt *Router) readinessCheck(w http.ResponseWriter, req *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	if _, _, err := rt.container.StateStore.Get("readiness-probe"); err != nil {
		w.WriteHeader(http.StatusServiceUnavailable)
		w.Write([]byte(`{"status":"unavailable"}`))
		return
	}
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ready"}`))
}
