// Command main runs the database seeder for Promptly.
package main

import (
	"context"
	"flag"
	"log"

	"promptly/internal/bootstrap"
	"promptly/internal/config"
	"promptly/internal/seed"
)

func main() {
	defaults := seed.DefaultOptions()
	numUsers := flag.Int("users", defaults.NumUsers, "Number of users to create")
	numPrompts := flag.Int("prompts", defaults.NumPrompts, "Number of prompts to create")
	likeRate := flag.Int("like-rate", defaults.LikeRate, "Percent chance a user likes a prompt")
	voteRate := flag.Int("vote-rate", defaults.VoteRate, "Percent chance a user votes on a prompt")
	bookmarkRate := flag.Int("bookmark-rate", defaults.BookmarkRate, "Percent chance a user bookmarks a prompt")
	randSeed := flag.Int64("seed", 0, "Random seed, 0 for a random run")
	shouldClean := flag.Bool("clean", true, "Clean database before seeding")
	flag.Parse()

	log.Println("🌱 Database Seeder")
	log.Printf("Target: %d users, %d prompts, clean=%v\n", *numUsers, *numPrompts, *shouldClean)

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if cfg.IsProduction() {
		log.Fatal("Refusing to seed a production database")
	}

	rt, err := bootstrap.InitRuntime(cfg, bootstrap.Options{})
	if err != nil {
		log.Fatalf("Failed to connect: %v", err)
	}
	defer rt.Close()

	s, err := seed.NewSeeder(rt.DB, seed.Options{
		NumUsers:     *numUsers,
		NumPrompts:   *numPrompts,
		LikeRate:     *likeRate,
		VoteRate:     *voteRate,
		BookmarkRate: *bookmarkRate,
		RandSeed:     *randSeed,
	})
	if err != nil {
		log.Fatalf("❌ Loading fixtures failed: %v", err)
	}

	ctx := context.Background()
	if *shouldClean {
		if err := s.ClearAll(ctx); err != nil {
			log.Fatalf("❌ Cleanup failed: %v", err)
		}
	}

	if _, err := s.Run(ctx); err != nil {
		log.Fatalf("❌ Seeding failed: %v", err)
	}

	log.Println("✨ All done! Your database is now populated with test data.")
	log.Printf("📧 All test users have the password: %s", seed.DefaultPassword)
}
