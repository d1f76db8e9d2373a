package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/greenharvest/catalog/internal/cart"
	"github.com/greenharvest/catalog/internal/catalog"
	h "github.com/greenharvest/catalog/internal/http"
)

type Config struct {
	HTTPPort        string        `env:"HTTP_PORT" envDefault:"8080"`
	DBPath          string        `env:"DB_PATH" envDefault:"./internal/catalog/catalog.db"`
	MigrationsPath  string        `env:"MIGRATIONS_PATH" envDefault:"./internal/catalog/migrations"`
	RedisAddr       string        `env:"REDIS_ADDR"`
	CartTTL         time.Duration `env:"CART_TTL" envDefault:"30m"`
	RequestTimeout  time.Duration `env:"REQUEST_TIMEOUT" envDefault:"30s"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"10s"`
}

func main() {
	log.Println("Catalog service started")

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		log.Fatalf("Failed to parse config: %v", err)
	}

	repo, err := catalog.NewRepository(cfg.DBPath)
	if err != nil {
		log.Fatal(err)
	}
	defer repo.Close()

	if err := repo.RunMigrations(cfg.MigrationsPath); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	log.Println("Migrations completed successfully")

	store := catalog.NewStore(repo)
	if err := store.Refresh(context.Background()); err != nil {
		log.Fatalf("Failed to load catalog snapshot: %v", err)
	}

	ledgerStore := newLedgerStore(cfg)

	catalogHandler := h.NewCatalogHandler(store, cfg.RequestTimeout)
	cartHandler := h.NewCartHandler(ledgerStore, store, cfg.RequestTimeout)

	r := chi.NewRouter()

	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(middleware.Timeout(cfg.RequestTimeout))
	r.Use(middleware.Compress(5))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok"}`))
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/products", catalogHandler.List)
		r.Get("/products/{id}", catalogHandler.Get)

		r.Group(func(r chi.Router) {
			r.Use(h.SessionMiddleware)
			r.Route("/cart", func(r chi.Router) {
				r.Get("/", cartHandler.GetCart)
				r.Delete("/", cartHandler.ClearCart)
				r.Post("/items", cartHandler.AddItem)
				r.Put("/items/{productID}/{variantID}", cartHandler.UpdateQuantity)
				r.Delete("/items/{productID}/{variantID}", cartHandler.RemoveItem)
			})
			r.Post("/checkout", cartHandler.Checkout)
		})
	})

	srv := &http.Server{
		Addr:         ":" + cfg.HTTPPort,
		Handler:      otelhttp.NewHandler(r, "catalog-api"),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("Catalog API listening on :%s", cfg.HTTPPort)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("server forced to shutdown: %v", err)
	}

	log.Println("server exited")
}

// newLedgerStore picks Redis when an address is configured, otherwise
// an in-process store. Both expire sessions after the cart TTL.
func newLedgerStore(cfg Config) cart.LedgerStore {
	if cfg.RedisAddr == "" {
		log.Println("REDIS_ADDR not set, using in-memory cart sessions")
		return cart.NewMemoryStore(cfg.CartTTL)
	}

	client := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
	log.Printf("using Redis cart sessions at %s", cfg.RedisAddr)
	return cart.NewRedisStore(client, cfg.CartTTL)
}
