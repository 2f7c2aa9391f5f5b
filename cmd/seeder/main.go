package main

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/quocanhngo/hifcm/internal/config"
	"github.com/quocanhngo/hifcm/internal/model"
	"github.com/quocanhngo/hifcm/internal/repository"
	"github.com/quocanhngo/hifcm/pkg/auth"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var terms = []model.SubscriptionTerm{
	{Slug: "all", Name: "All"},
	{Slug: "news", Name: "News"},
	{Slug: "offers", Name: "Offers"},
}

func main() {
	cfg := config.Load()
	ctx := context.Background()

	// Force DB logging off to avoid noise
	db, err := gorm.Open(postgres.Open(cfg.DB.DSN()), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		log.Fatalf("❌ Failed to connect to database: %v", err)
	}
	log.Println("✅ Connected to Database")

	termRepo := repository.NewTermRepository(db)
	for i := range terms {
		if err := termRepo.Ensure(ctx, &terms[i]); err != nil {
			log.Printf("❌ Failed to create term %s: %v", terms[i].Slug, err)
		}
	}
	log.Printf("🏷️  Seeded %d subscription terms", len(terms))

	log.Println("🌱 Seeding 5 users...")
	userRepo := repository.NewUserRepository(db)
	jwtManager := auth.NewJWTManager(cfg.JWT.Secret, cfg.JWT.Expiry)

	for i := 1; i <= 5; i++ {
		email := fmt.Sprintf("user%d@hifcm.local", i)

		user, err := userRepo.FindByEmail(ctx, email)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			user = &model.User{Email: email, Name: fmt.Sprintf("User Number %d", i)}
			if err := userRepo.Create(ctx, user); err != nil {
				log.Printf("❌ Failed to create user %s: %v", email, err)
				continue
			}
			log.Printf("✅ Created user #%d: %s", user.ID, email)
		} else if err != nil {
			log.Printf("❌ Failed to look up user %s: %v", email, err)
			continue
		}

		token, err := jwtManager.GenerateToken(user.ID, user.Email)
		if err != nil {
			log.Printf("❌ Failed to sign token for %s: %v", email, err)
			continue
		}
		log.Printf("🔑 %s | Bearer %s", email, token)
	}

	log.Println("🎉 Seeding completed!")
}
