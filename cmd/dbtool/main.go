package main

import (
	"database/sql"
	"log"
	"os"

	"branch-route-service/internal/adapters/repositories"
	"branch-route-service/internal/config"
	"branch-route-service/internal/platform/db"

	"github.com/joho/godotenv"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found (using environment variables)")
	}

	conn, err := db.Connect(os.Getenv("DATABASE_URL"), config.Get("DB_PATH", "data/app.db"))
	if err != nil {
		log.Fatal(err)
	}
	defer conn.DB.Close()

	seedPath := config.Get("SEED_PATH", "data/seeds/locations.json")
	if err := initAndSeed(conn.DB, repositories.DialectForDriver(conn.Driver), seedPath); err != nil {
		log.Fatal(err)
	}
}

func initAndSeed(db *sql.DB, dialect repositories.Dialect, seedPath string) error {
	log.Println("Initializing database schema...")
	if err := repositories.InitSchema(db); err != nil {
		log.Fatalf("schema initialization failed: %v", err)
	}
	log.Println("Schema ready.")

	log.Println("Seeding database...")
	if err := repositories.SeedFromJSON(db, dialect, seedPath); err != nil {
		log.Fatalf("seeding failed: %v", err)
	}
	log.Println("Seeding complete.")

	return nil
}
