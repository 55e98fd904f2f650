package app

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog/log"

	"github.com/aalghefa/ecologic-backend/internal/api/handlers"
	appMiddleware "github.com/aalghefa/ecologic-backend/internal/api/middlewares"
	"github.com/aalghefa/ecologic-backend/internal/config"
	"github.com/aalghefa/ecologic-backend/internal/services"
)

// Server wraps the HTTP server instance and its handlers.
type Server struct {
	httpServer *http.Server
}

// NewServer builds and wires all routes.
func NewServer(
	cfg *config.Config,
	menu *services.MenuService,
	dishes *services.DishService,
	ingredients *services.IngredientService,
	emissions *services.EmissionsService,
	ledger *services.LedgerService,
) *Server {
	menuHandler := handlers.NewMenuHandler(menu, cfg.MaxUploadBytes)
	dishHandler := handlers.NewDishHandler(dishes, emissions, cfg.MaxUploadBytes)
	ingredientHandler := handlers.NewIngredientHandler(ingredients)
	ledgerHandler := handlers.NewLedgerHandler(ledger)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(appMiddleware.RequestLogger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
	}))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok"}`))
	})

	r.Route("/api", func(api chi.Router) {
		// Document conversion is the most expensive call we serve, so the
		// extract route carries its own rate limit.
		api.Group(func(limited chi.Router) {
			limited.Use(appMiddleware.RateLimit(cfg.ExtractRPS, cfg.ExtractBurst))
			limited.Post("/menus/extract", menuHandler.Extract)
		})

		api.Route("/dishes", func(r chi.Router) {
			r.Post("/", dishHandler.Create)
			r.Post("/bulk", dishHandler.BulkCreate)
			r.Get("/", dishHandler.List)
			r.Get("/{dishID}", dishHandler.Get)
			r.Put("/{dishID}", dishHandler.Update)
			r.Delete("/{dishID}", dishHandler.Delete)
			r.Post("/{dishID}/image", dishHandler.UploadImage)
			r.Get("/{dishID}/emissions", dishHandler.Emissions)
			r.Get("/{dishID}/ingredients", dishHandler.ListIngredients)
			r.Put("/{dishID}/ingredients/{ingredientID}", dishHandler.SetIngredient)
			r.Delete("/{dishID}/ingredients/{ingredientID}", dishHandler.RemoveIngredient)
		})

		api.Route("/ingredients", func(r chi.Router) {
			r.Post("/", ingredientHandler.Create)
			r.Get("/", ingredientHandler.List)
			r.Get("/{ingredientID}", ingredientHandler.Get)
			r.Put("/{ingredientID}", ingredientHandler.Update)
			r.Delete("/{ingredientID}", ingredientHandler.Delete)
		})

		api.Route("/purchases", func(r chi.Router) {
			r.Post("/", ledgerHandler.CreatePurchase)
			r.Get("/", ledgerHandler.ListPurchases)
			r.Delete("/{purchaseID}", ledgerHandler.DeletePurchase)
		})

		api.Route("/waste-events", func(r chi.Router) {
			r.Post("/", ledgerHandler.CreateWasteEvent)
			r.Get("/", ledgerHandler.ListWasteEvents)
			r.Delete("/{wasteEventID}", ledgerHandler.DeleteWasteEvent)
		})
	})

	httpSrv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: r,
	}

	return &Server{httpServer: httpSrv}
}

// Start runs the HTTP server and blocks until it stops.
func (s *Server) Start() error {
	log.Info().Str("addr", s.httpServer.Addr).Msg("http server listening")
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	log.Info().Msg("shutting down http server")
	return s.httpServer.Shutdown(ctx)
}
