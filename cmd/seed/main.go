// Command main runs the database seeder for SkillSwap.
package main

import (
	"context"
	"flag"
	"log"

	"skillswap/internal/config"
	"skillswap/internal/database"
	"skillswap/internal/seed"
)

func main() {
	numUsers := flag.Int("users", 50, "Number of users to create")
	numSwaps := flag.Int("swaps", 120, "Number of swap requests to attempt")
	shouldClean := flag.Bool("clean", true, "Clean database before seeding")
	skipBcrypt := flag.Bool("skip-bcrypt", false, "Store plaintext passwords (faster, login disabled)")
	flag.Parse()

	log.Println("Database Seeder")
	log.Printf("Target: %d users, %d swaps, clean=%v\n", *numUsers, *numSwaps, *shouldClean)

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		log.Fatalf("Migration failed: %v", err)
	}

	s := seed.NewSeeder(db, seed.Options{
		NumUsers:    *numUsers,
		NumSwaps:    *numSwaps,
		ShouldClean: *shouldClean,
		SkipBcrypt:  *skipBcrypt,
	})
	if err := s.Run(context.Background()); err != nil {
		log.Fatalf("Seeding failed: %v", err)
	}

	log.Println("All done! Test users have the password: password123")
}
