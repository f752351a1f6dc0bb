package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/samirrijal/routemap/internal/adapters/postgres"
	"github.com/samirrijal/routemap/internal/pkg/config"
)

func main() {
	if len(os.Args) < 2 {
		log.Fatal("usage: migrate <up|down|list>")
	}

	cfg, err := config.Load("routemap-migrate")
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	ctx := context.Background()
	db, err := postgres.New(ctx, cfg.Database.DSN(), 2)
	if err != nil {
		log.Fatalf("db: %v", err)
	}
	defer db.Close()

	switch os.Args[1] {
	case "up":
		applied, err := db.MigrateUp(ctx)
		if err != nil {
			log.Fatalf("migrate up: %v", err)
		}
		for _, v := range applied {
			fmt.Printf("OK  %s\n", v)
		}
		log.Printf("%d migrations applied", len(applied))
	case "down":
		v, err := db.MigrateDown(ctx)
		if err != nil {
			log.Fatalf("migrate down: %v", err)
		}
		if v == "" {
			log.Println("nothing to roll back")
			return
		}
		fmt.Printf("REVERTED  %s\n", v)
	case "list":
		ms, err := postgres.Migrations()
		if err != nil {
			log.Fatalf("list migrations: %v", err)
		}
		for _, m := range ms {
			fmt.Println(m.Version)
		}
	default:
		log.Fatalf("unknown command: %s", os.Args[1])
	}
}
