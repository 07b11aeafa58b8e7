package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/promptlab/promptlab/internal/api/handlers"
	"github.com/promptlab/promptlab/internal/api/middleware"
	"github.com/promptlab/promptlab/internal/cache"
	"github.com/promptlab/promptlab/internal/collection"
	"github.com/promptlab/promptlab/internal/config"
	"github.com/promptlab/promptlab/internal/prompt"
	"github.com/promptlab/promptlab/internal/store"
	"github.com/promptlab/promptlab/internal/version"
)

type Router struct {
	mux   *chi.Mux
	db    *pgxpool.Pool
	redis *redis.Client
	cfg   *config.Config
	st    store.Store
}

// NewRouter wires the service graph. With no database pool the entity store
// falls back to in-memory; with no redis client the cache is a no-op.
func NewRouter(db *pgxpool.Pool, rdb *redis.Client, cfg *config.Config) *Router {
	var st store.Store
	if db != nil {
		st = store.NewPostgresStore(db)
	} else {
		st = store.NewMemoryStore()
	}
	return &Router{
		mux:   chi.NewRouter(),
		db:    db,
		redis: rdb,
		cfg:   cfg,
		st:    st,
	}
}

func (rt *Router) Setup() http.Handler {
	r := rt.mux

	// Global middleware
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.Logging)
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.CORS([]string{"*"}))

	rl := middleware.NewRateLimiter(100, 200)
	r.Use(rl.Limit)

	// Health endpoints
	health := handlers.NewHealthHandler(rt.db, rt.redis, rt.cfg.Version)
	r.Get("/healthz", health.Healthz)
	r.Get("/readyz", health.Readyz)

	// Initialize services
	c := cache.NewCache(rt.redis)
	ledger := version.NewLedger(rt.st)
	promptSvc := prompt.NewService(rt.st, ledger, c)
	collectionSvc := collection.NewService(rt.st, c)

	// API v1
	r.Route("/api/v1", func(r chi.Router) {
		promptH := handlers.NewPromptHandler(promptSvc)
		r.Route("/prompts", func(r chi.Router) {
			r.Post("/", promptH.Create)
			r.Get("/", promptH.List)
			r.Get("/{id}", promptH.Get)
			r.Put("/{id}", promptH.Update)
			r.Patch("/{id}", promptH.Patch)
			r.Delete("/{id}", promptH.Delete)
			r.Post("/{id}/render", promptH.Render)
		})

		collectionH := handlers.NewCollectionHandler(collectionSvc)
		versionH := handlers.NewVersionHandler(promptSvc)
		r.Route("/collections", func(r chi.Router) {
			r.Post("/", collectionH.Create)
			r.Get("/", collectionH.List)
			r.Get("/{id}", collectionH.Get)
			r.Delete("/{id}", collectionH.Delete)

			r.Route("/{cid}/prompts/{pid}", func(r chi.Router) {
				r.Post("/version", versionH.CreateVersion)
				r.Get("/versions", versionH.ListVersions)
				r.Get("/versions/diff", versionH.DiffVersions)
				r.Post("/revert", versionH.Revert)
			})
		})
	})

	return r
}
