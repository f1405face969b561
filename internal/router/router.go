package router

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/kiwari-pos/ordering/internal/config"
	"github.com/kiwari-pos/ordering/internal/database"
	"github.com/kiwari-pos/ordering/internal/handler"
	"github.com/kiwari-pos/ordering/internal/menu"
	mw "github.com/kiwari-pos/ordering/internal/middleware"
	"github.com/kiwari-pos/ordering/internal/storage"
	"github.com/kiwari-pos/ordering/internal/ws"
	"github.com/sirupsen/logrus"
)

// New creates a Chi router with all application routes wired up.
// ctx bounds the background catalog loads of mounted screens. pool, hub and
// notifier may be nil; without a pool the transactional submit mode fails
// with menu.ErrNoTransactions.
func New(ctx context.Context, cfg *config.Config, store menu.Store, pool *pgxpool.Pool, hub *ws.Hub, notifier menu.Notifier, log logrus.FieldLogger) chi.Router {
	r := chi.NewRouter()

	// Standard middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	// CORS configuration
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300, // 5 minutes
	}))

	// Public routes
	r.Group(func(r chi.Router) {
		r.Use(mw.RequestLogger(log))

		r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`{"status":"ok","version":"1.0.0"}`))
		})

		// WebSocket route (handles auth internally via query param)
		r.Get("/ws/menu", func(w http.ResponseWriter, r *http.Request) {
			ws.ServeWS(hub, cfg.JWTSecret, w, r)
		})
	})

	registry := menu.NewRegistry(ctx, screenFactory(cfg, store, pool, hub, notifier, log))

	// Protected routes (require authentication)
	r.Group(func(r chi.Router) {
		r.Use(mw.Authenticate(cfg.JWTSecret))
		r.Use(mw.RequestLogger(log))

		menuHandler := handler.NewMenuHandler(registry, log)
		r.Route("/menu", menuHandler.RegisterRoutes)
	})

	return r
}

// screenFactory builds every mounted screen from the shared backend clients.
func screenFactory(cfg *config.Config, store menu.Store, pool *pgxpool.Pool, hub *ws.Hub, notifier menu.Notifier, log logrus.FieldLogger) menu.ScreenFactory {
	var resolver storage.Resolver = storage.NewSupabase(cfg.Storage.URL, cfg.Storage.Key)
	if cfg.Storage.Verify {
		resolver = storage.NewVerified(resolver, &http.Client{Timeout: 10 * time.Second})
	}

	opts := menu.Options{
		Bucket:           cfg.Storage.Bucket,
		ImagePolicy:      cfg.Screen.ImagePolicy,
		PlaceholderImage: cfg.Screen.PlaceholderImage,
		SubmitMode:       cfg.Screen.SubmitMode,
	}

	return func(session menu.Session) *menu.Screen {
		deps := menu.Deps{
			Store:    store,
			Resolver: resolver,
			NewOrderStore: func(db database.DBTX) menu.OrderStore {
				return database.New(db)
			},
			Notifier: notifier,
			Logger:   log,
		}
		// A nil *pgxpool.Pool in the interface would not read as nil.
		if pool != nil {
			deps.Tx = pool
		}
		if hub != nil {
			deps.Publisher = hub
		}
		return menu.NewScreen(session, deps, opts)
	}
}
