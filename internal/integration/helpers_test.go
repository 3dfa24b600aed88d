package integration

import (
	"context"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"testing"

	"card_arena/internal/domain"
	"card_arena/internal/repository"

	"github.com/jackc/pgx/v5/pgxpool"
)

// connectDB skips the test unless DATABASE_URL is set, then applies the
// schema so tests run against a fresh layout.
func connectDB(t *testing.T) *pgxpool.Pool {
	t.Helper()

	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		t.Skip("DATABASE_URL not set")
	}

	db, err := pgxpool.New(context.Background(), dsn)
	if err != nil {
		t.Fatalf("connect db: %v", err)
	}
	t.Cleanup(db.Close)

	applyMigrations(t, db)
	return db
}

func applyMigrations(t *testing.T, db *pgxpool.Pool) {
	t.Helper()
	migDir := filepath.Join("..", "migrations")
	files, err := os.ReadDir(migDir)
	if err != nil {
		t.Fatalf("read migrations: %v", err)
	}
	for _, f := range files {
		b, err := os.ReadFile(filepath.Join(migDir, f.Name()))
		if err != nil {
			t.Fatalf("read file: %v", err)
		}
		if _, err := db.Exec(context.Background(), string(b)); err != nil {
			t.Fatalf("apply migration %s: %v", f.Name(), err)
		}
	}
}

// newTestPlayer provisions a throwaway player with a random tg_id.
func newTestPlayer(t *testing.T, db *pgxpool.Pool) *domain.Player {
	t.Helper()
	repo := repository.NewPlayerRepository(db)
	tgID := rand.Int63n(1 << 40)
	p, err := repo.GetOrCreate(context.Background(), tgID,
		fmt.Sprintf("it_%d", tgID), "Test", "")
	if err != nil {
		t.Fatalf("provision test player: %v", err)
	}
	return p
}
