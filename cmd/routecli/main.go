package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"

	"branch-route-service/internal/adapters/distance"
	"branch-route-service/internal/api/dto"
	"branch-route-service/internal/config"
	"branch-route-service/internal/domain"
	"branch-route-service/internal/services"

	"github.com/joho/godotenv"
)

// routecli plans one route around a center point with synthetic clients and
// prints the result as JSON. Useful for checking provider credentials.
func main() {
	_ = godotenv.Load()

	lat := flag.Float64("lat", 23.1815, "branch latitude")
	lon := flag.Float64("lon", 85.3055, "branch longitude")
	n := flag.Int("n", 6, "number of synthetic clients")
	radius := flag.Float64("radius", 5, "client scatter radius in km")
	seed := flag.Uint64("seed", 1, "client generator seed")
	key := flag.String("key", os.Getenv("MAPS_API_KEY"), "maps API key (empty for geometric distances)")
	flag.Parse()

	if err := run(*lat, *lon, *n, *radius, *seed, *key); err != nil {
		log.Fatal(err)
	}
}

func run(lat, lon float64, n int, radius float64, seed uint64, key string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	routing, err := config.LoadRouting()
	if err != nil {
		return err
	}

	providers, err := distance.NewFactory(config.Get("MAPS_PROVIDER", distance.ProviderGoogle), distance.Options{
		Timeout:           routing.RequestTimeout,
		RequestsPerSecond: routing.RequestsPerSecond,
	})
	if err != nil {
		return err
	}

	branch := domain.Location{ID: "BRANCH", Name: "Branch Demo", Lat: lat, Lon: lon}
	clients := services.MockClients(branch.Coordinates(), n, radius, seed)

	result, err := services.NewRoutePlanner(routing, providers).ComputeRoute(ctx, branch, clients, strings.TrimSpace(key))
	if err != nil {
		return fmt.Errorf("routecli: %w", err)
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(dto.NewRouteResponse(result))
}
