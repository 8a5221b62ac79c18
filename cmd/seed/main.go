// Command main seeds advice and demo data, or purges expired sessions.
package main

import (
	"context"
	"flag"
	"log"
	"time"

	"reso/internal/config"
	"reso/internal/database"
	"reso/internal/repository"
	"reso/internal/seed"
	"reso/internal/service"
)

func main() {
	adviceCount := flag.Int("advice", 20, "Number of advice entries to create")
	replace := flag.Bool("replace-advice", false, "Wipe advice and bookmarks before seeding")
	users := flag.Int("users", 0, "Number of demo users to create (0 skips demo data)")
	stories := flag.Int("stories", 3, "Stories per demo user")
	purge := flag.Bool("purge-sessions", false, "Only delete expired sessions and exit")
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	if *purge {
		sessions := service.NewSessionService(repository.NewSessionRepository(db), cfg.SessionTTL())
		n, err := sessions.PurgeExpired(ctx)
		if err != nil {
			log.Fatalf("Session purge failed: %v", err)
		}
		log.Printf("Purged %d expired sessions", n)
		return
	}

	s := seed.NewSeeder(db)

	n, err := s.Advice(ctx, *adviceCount, *replace)
	if err != nil {
		log.Fatalf("Advice seeding failed: %v", err)
	}
	log.Printf("Seeded %d advice entries", n)

	if *users > 0 {
		res, err := s.Demo(ctx, *users, *stories)
		if err != nil {
			log.Fatalf("Demo seeding failed: %v", err)
		}
		log.Printf("Seeded %d users, %d stories, %d comments, %d likes", res.Users, res.Stories, res.Comments, res.Likes)
	}
}
