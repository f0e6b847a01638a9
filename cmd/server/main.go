package main

import (
	"database/sql"
	"fmt"
	"log"
	"net/http"
	"os"
	"strings"
	"time"

	"branch-route-service/internal/adapters/distance"
	"branch-route-service/internal/adapters/repositories"
	"branch-route-service/internal/api"
	"branch-route-service/internal/config"
	"branch-route-service/internal/platform/db"
	"branch-route-service/internal/services"

	"github.com/joho/godotenv"
)

// main is the application composition root.
// It wires concrete adapters (SQL store, maps provider) behind ports and starts the HTTP server.
func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found (using environment variables)")
	}

	dbPath := config.Get("DB_PATH", "data/app.db")
	seedPath := config.Get("SEED_PATH", "data/seeds/locations.json")
	port := config.Get("PORT", "8080")
	providerName := config.Get("MAPS_PROVIDER", distance.ProviderGoogle)

	// Without a key every route uses the geometric fallback.
	mapsKey := strings.TrimSpace(os.Getenv("MAPS_API_KEY"))
	if mapsKey == "" {
		log.Println("MAPS_API_KEY not set; routes use geometric distances unless a request supplies a credential")
	}

	routing, err := config.LoadRouting()
	if err != nil {
		log.Fatal(err)
	}

	conn, err := db.Connect(os.Getenv("DATABASE_URL"), dbPath)
	if err != nil {
		log.Fatal(err)
	}
	defer conn.DB.Close()
	dialect := repositories.DialectForDriver(conn.Driver)

	// Initialize schema and seed demo data on startup for local runs.
	if err := initAndSeed(conn.DB, dialect, seedPath); err != nil {
		log.Fatal(err)
	}

	providers, err := distance.NewFactory(providerName, distance.Options{
		Timeout:           routing.RequestTimeout,
		RequestsPerSecond: routing.RequestsPerSecond,
	})
	if err != nil {
		log.Fatal(err)
	}

	planner := services.NewRoutePlanner(routing, providers)
	repo := repositories.NewSQLLocationRepository(conn.DB, dialect)
	router := api.NewRouter(planner, repo, mapsKey, conn.DB.PingContext)

	// Write timeout covers a full matrix build with retries on a slow provider.
	log.Printf("Server listening addr=:%s driver=%s provider=%s", port, conn.Driver, providerName)
	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      120 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	log.Fatal(srv.ListenAndServe())
}

func initAndSeed(db *sql.DB, dialect repositories.Dialect, seedPath string) error {
	if err := repositories.InitSchema(db); err != nil {
		return fmt.Errorf("init and seed: %w", err)
	}

	if _, err := os.Stat(seedPath); os.IsNotExist(err) {
		log.Printf("seed file %q not found; skipping seed", seedPath)
		return nil
	}

	if err := repositories.SeedFromJSON(db, dialect, seedPath); err != nil {
		return fmt.Errorf("init and seed: %w", err)
	}

	return nil
}
