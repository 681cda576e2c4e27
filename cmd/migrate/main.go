package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/autlan/recolecta/internal/pkg/config"
	"github.com/autlan/recolecta/migrations"
)

func main() {
	if len(os.Args) < 2 {
		log.Fatal("usage: migrate <up|down>")
	}

	cfg, err := config.Load("recolecta-migrate")
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	ctx := context.Background()
	pool, err := pgxpool.New(ctx, cfg.Database.DSN())
	if err != nil {
		log.Fatalf("db: %v", err)
	}
	defer pool.Close()

	switch os.Args[1] {
	case "up":
		runUp(ctx, pool)
	case "down":
		runDown(ctx, pool)
	default:
		log.Fatalf("unknown command: %s", os.Args[1])
	}
}

func runUp(ctx context.Context, pool *pgxpool.Pool) {
	ms, err := migrations.Up()
	if err != nil {
		log.Fatalf("load migrations: %v", err)
	}

	for _, m := range ms {
		if _, err := pool.Exec(ctx, m.SQL); err != nil {
			log.Fatalf("exec %s: %v", m.Name, err)
		}
		fmt.Printf("OK  %s\n", m.Name)
	}

	log.Println("all migrations applied")
}

func runDown(ctx context.Context, pool *pgxpool.Pool) {
	m, err := migrations.Down()
	if err != nil {
		log.Fatalf("load down script: %v", err)
	}
	if _, err := pool.Exec(ctx, m.SQL); err != nil {
		log.Fatalf("exec %s: %v", m.Name, err)
	}
	log.Println("schema dropped")
}
