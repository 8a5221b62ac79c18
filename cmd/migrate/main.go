// Command migrate applies the schema, including in production where the
// server does not migrate on start.
package main

import (
	"fmt"
	"log"

	"reso/internal/config"
	"reso/internal/database"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	db, err := database.Connect(cfg)
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}

	if err := database.Migrate(db); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	log.Println("schema applied")
	return nil
}
