package main

import (
	"context"
	"log"
	"os"

	"card_arena/internal/db"
	"card_arena/internal/repository"
	"card_arena/internal/service"
)

// Seeds a test player with a few items and prints a session token for
// local frontend work.
func main() {
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		log.Fatal("DATABASE_URL not set")
	}
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		log.Fatal("JWT_SECRET not set")
	}

	pool := db.Connect(dsn)
	defer pool.Close()

	repo := repository.NewPlayerRepository(pool)
	ctx := context.Background()

	tgID := int64(1234567890)

	player, err := repo.GetOrCreate(ctx, tgID, "testplayer", "Tester", "")
	if err != nil {
		log.Fatalf("provision player failed: %v", err)
	}
	log.Printf("player id=%d username=%s\n", player.ID, player.Username)

	// a couple of items so the leveling output is non-trivial
	for _, item := range []struct {
		name  string
		power int64
	}{
		{"Rusty Blade", 40},
		{"Ember Charm", 85},
	} {
		if _, err := pool.Exec(ctx,
			`INSERT INTO items (player_id, name, power) VALUES ($1, $2, $3)`,
			player.ID, item.name, item.power,
		); err != nil {
			log.Fatalf("insert item failed: %v", err)
		}
	}

	power, err := repo.TotalPower(ctx, player.ID)
	if err != nil {
		log.Fatalf("total power failed: %v", err)
	}
	log.Printf("total power=%d\n", power)

	service.InitJWT(secret)
	token, err := service.GenerateJWT(player.ID)
	if err != nil {
		log.Fatalf("failed to generate token: %v", err)
	}
	log.Printf("token=%s\n", token)
}
