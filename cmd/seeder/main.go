package main

import (
	"context"
	"log"
	"os"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/joho/godotenv"

	"rewards-platform-backend/internal/models"
	"rewards-platform-backend/internal/store"
)

const (
	SeedCardCount = 25
	SeedFaceValue = 500 // $5.00
	SeedPointCost = 1000
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		log.Fatal("DATABASE_URL environment variable is required")
	}

	ctx := context.Background()
	conn, err := pgx.Connect(ctx, dbURL)
	if err != nil {
		log.Fatalf("Unable to connect to database: %v", err)
	}
	defer conn.Close(ctx)

	log.Println("--- Initializing schema ---")
	if err := store.InitSchema(ctx, conn); err != nil {
		log.Fatalf("Schema init failed: %v", err)
	}

	var count int
	conn.QueryRow(ctx, "SELECT COUNT(*) FROM gift_cards").Scan(&count)
	if count > 0 {
		log.Printf("Inventory already has %d gift cards. Skipping.", count)
		return
	}

	log.Printf("Seeding %d gift cards...", SeedCardCount)
	rows := [][]interface{}{}
	now := time.Now().UTC()
	for i := 0; i < SeedCardCount; i++ {
		rows = append(rows, []interface{}{
			models.GenerateGiftCardCode("GC"),
			int64(SeedFaceValue),
			"USD",
			int64(SeedPointCost),
			string(models.GiftCardStatusAvailable),
			now,
		})
	}

	copyCount, err := conn.CopyFrom(
		ctx,
		pgx.Identifier{"gift_cards"},
		[]string{"code", "face_value", "currency", "point_cost", "status", "created_at"},
		pgx.CopyFromRows(rows),
	)
	if err != nil {
		log.Fatalf("Bulk insert failed: %v", err)
	}

	log.Printf("Successfully seeded %d gift cards.", copyCount)
}
