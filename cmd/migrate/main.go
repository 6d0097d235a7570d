// Command migrate runs schema operations for the backend.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"strconv"
	"strings"

	"promptly/internal/config"
	"promptly/internal/database"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func usage() error {
	return fmt.Errorf("usage: go run ./cmd/migrate/main.go <up|auto|status|down> [steps]")
}

func run() error {
	flag.Parse()
	if flag.NArg() < 1 {
		return usage()
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	cmd := strings.ToLower(strings.TrimSpace(flag.Arg(0)))
	switch cmd {
	case "up":
		if err := database.MigrateUp(cfg); err != nil {
			return fmt.Errorf("sql migrations failed: %w", err)
		}
		log.Println("sql migrations applied")
	case "auto":
		db, err := gorm.Open(postgres.Open(database.DSN(cfg)), &gorm.Config{})
		if err != nil {
			return fmt.Errorf("connect database: %w", err)
		}
		cfg.DBSchemaMode = database.SchemaModeAuto
		if err := database.ApplySchema(context.Background(), db, cfg); err != nil {
			return fmt.Errorf("auto schema apply failed: %w", err)
		}
		log.Println("automigrations applied")
	case "status":
		status, err := database.GetMigrationStatus(cfg)
		if err != nil {
			return fmt.Errorf("schema status failed: %w", err)
		}
		log.Printf("version=%d latest=%d dirty=%t pending=%t", status.Version, status.Latest, status.Dirty, status.Pending())
	case "down":
		steps := 1
		if flag.NArg() >= 2 {
			steps, err = strconv.Atoi(flag.Arg(1))
			if err != nil {
				return fmt.Errorf("invalid steps %q: %w", flag.Arg(1), err)
			}
		}
		if err := database.MigrateDown(cfg, steps); err != nil {
			return fmt.Errorf("rollback failed: %w", err)
		}
		log.Printf("rolled back %d migration(s)", steps)
	default:
		return usage()
	}

	return nil
}
