package main

import (
	"context"
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"taxi-dashboard/api"
	"taxi-dashboard/cache"
	"taxi-dashboard/config"
	"taxi-dashboard/database"
	"taxi-dashboard/dataset"
	"taxi-dashboard/index"
	"taxi-dashboard/migration"
	"taxi-dashboard/plot"
	"taxi-dashboard/session"
)

func main() {
	configPath := flag.String("config", "", "directory containing config.yaml")
	migrate := flag.Bool("migrate", false, "apply database migrations, seed the bundled trips and exit")
	flag.Parse()

	// Initialize configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	ctx := context.Background()

	if *migrate {
		if err := runMigrate(ctx, cfg); err != nil {
			log.Fatalf("Migration error: %v", err)
		}
		return
	}

	// Load the trips once; every session reads the same immutable table
	ds, err := loadDataset(ctx, cfg)
	if err != nil {
		log.Fatalf("Failed to load dataset: %v", err)
	}
	if ds.Len() == 0 {
		log.Fatalf("Dataset from %s source has no complete trips", cfg.Dataset.Source)
	}

	filter, err := index.NewFilterer(ds, index.FilterTechnique(cfg.Filter.Index))
	if err != nil {
		log.Fatalf("Failed to build filter: %v", err)
	}

	store, err := newStore(ctx, cfg)
	if err != nil {
		log.Fatalf("Failed to initialize session store: %v", err)
	}

	ctrl := session.NewController(ds, filter, store, cache.NewSnapshotMemo(cfg.Cache.TTL, cfg.Cache.CleanupInterval))
	renderer := plot.NewRenderer(plot.Size{Width: cfg.Plot.Width, Height: cfg.Plot.Height})

	// Register routes
	router := api.RegisterRoutes(api.NewHandler(ctrl, renderer))

	srv := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		log.Printf("Server started on %s (%d trips, filter=%s, sessions=%s)",
			cfg.Server.Addr, ds.Len(), cfg.Filter.Index, cfg.Session.Store)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Server error: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	log.Println("Shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(ctx, cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}
	log.Println("Server exited")
}

func loadDataset(ctx context.Context, cfg *config.Config) (*dataset.Dataset, error) {
	var (
		ds    *dataset.Dataset
		stats dataset.LoadStats
		err   error
	)
	switch cfg.Dataset.Source {
	case "embedded":
		ds, stats, err = dataset.Bundled()
	case "csv":
		ds, stats, err = dataset.LoadCSVFile(cfg.Dataset.Path)
	case "postgres":
		var db *sql.DB
		db, err = database.Open(ctx, cfg.DB, 5)
		if err != nil {
			return nil, err
		}
		defer db.Close()
		ds, stats, err = database.LoadTrips(ctx, db)
	default:
		return nil, fmt.Errorf("unknown dataset source %q", cfg.Dataset.Source)
	}
	if err != nil {
		return nil, err
	}
	log.Printf("Loaded %d trips from %s source (%d read, %d incomplete dropped)",
		ds.Len(), cfg.Dataset.Source, stats.Read, stats.Dropped)
	return ds, nil
}

func newStore(ctx context.Context, cfg *config.Config) (cache.SelectionStore, error) {
	if cfg.Session.Store != "redis" {
		return cache.NewMemoryStore(), nil
	}
	client, err := cache.NewRedisClient(ctx, cfg.Redis)
	if err != nil {
		return nil, err
	}
	return cache.NewRedisStore(client, cfg.Session.TTL), nil
}

func runMigrate(ctx context.Context, cfg *config.Config) error {
	if err := migration.RunMigrations(cfg.DB.URL()); err != nil {
		return err
	}

	ds, stats, err := dataset.Bundled()
	if err != nil {
		return err
	}
	log.Printf("Seeding from bundled dataset (%d read, %d incomplete dropped)", stats.Read, stats.Dropped)

	db, err := database.Open(ctx, cfg.DB, 5)
	if err != nil {
		return err
	}
	defer db.Close()

	n, err := database.SeedTrips(ctx, db, ds)
	if err != nil {
		return err
	}
	log.Printf("Seeded %d trips", n)
	return nil
}
