package main

import (
	"context"
	"log"
	"math/rand"
	"time"

	"golang.org/x/crypto/bcrypt"

	"habitgrid/internal/config"
	"habitgrid/internal/db"
	"habitgrid/internal/model"
	"habitgrid/internal/repository"
)

const (
	demoEmail    = "demo@habitgrid.local"
	demoPassword = "demo-password"
	seedDays     = 120
)

var demoHabits = []struct {
	name  string
	color string
}{
	{"Read", "#2196F3"},
	{"Exercise", "#FF5722"},
	{"Meditate", "#4CAF50"},
}

func main() {
	log.Println("Starting seed script...")

	cfg := config.Load()

	gormDB, err := db.NewMySQL(cfg.MySQLDSN)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	log.Println("Connected to database")

	if err := gormDB.AutoMigrate(&model.User{}, &model.Habit{}, &model.HabitRecord{}); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	log.Println("Database migrations completed")

	ctx := context.Background()
	userRepo := repository.NewUserRepository(gormDB)
	habitRepo := repository.NewHabitRepository(gormDB)
	recordRepo := repository.NewHabitRecordRepository(gormDB)

	user, err := userRepo.FindByEmail(ctx, demoEmail)
	if err != nil {
		hash, err := bcrypt.GenerateFromPassword([]byte(demoPassword), 10)
		if err != nil {
			log.Fatalf("Failed to hash demo password: %v", err)
		}
		user = &model.User{
			Name:         "Demo User",
			Email:        demoEmail,
			PasswordHash: string(hash),
		}
		if err := userRepo.Create(ctx, user); err != nil {
			log.Fatalf("Failed to create demo user: %v", err)
		}
		log.Printf("Created demo user %s", demoEmail)
	} else {
		log.Printf("Demo user %s already exists, reusing", demoEmail)
	}

	rng := rand.New(rand.NewSource(42))
	today := model.NormalizeDate(time.Now())

	for _, spec := range demoHabits {
		habit := &model.Habit{
			UserID: user.ID,
			Name:   spec.name,
			Color:  spec.color,
		}
		if err := habitRepo.Create(ctx, habit); err != nil {
			log.Fatalf("Failed to create habit %q: %v", spec.name, err)
		}

		tracked := 0
		for i := 0; i < seedDays; i++ {
			day := today.AddDate(0, 0, -i)
			// Skip roughly a third of the days, occasionally track twice.
			if rng.Intn(3) == 0 {
				continue
			}
			times := 1 + rng.Intn(3)
			for t := 0; t < times; t++ {
				if _, err := recordRepo.UpsertIncrement(ctx, habit.ID, day); err != nil {
					log.Fatalf("Failed to track %q on %s: %v", spec.name, day.Format("2006-01-02"), err)
				}
			}
			tracked++
		}
		log.Printf("Seeded habit %q with %d tracked days", spec.name, tracked)
	}

	log.Printf("Seed complete. Login with %s / %s", demoEmail, demoPassword)
}
