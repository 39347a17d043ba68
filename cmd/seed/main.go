package main

import (
	"context"
	"log"

	"github.com/Erlanda-Prasetio/ptsp-chatbot/internal/config"
	"github.com/Erlanda-Prasetio/ptsp-chatbot/internal/model"
	"github.com/Erlanda-Prasetio/ptsp-chatbot/internal/repository/implementation"
	"github.com/Erlanda-Prasetio/ptsp-chatbot/internal/service"
	"github.com/Erlanda-Prasetio/ptsp-chatbot/pkg/database"

	"gorm.io/gorm"
)

// Seeds the training store with the standard starter pairs (greetings, office
// contacts, NIB/OSS/KBLI/PBG procedures). Safe to run repeatedly.
func main() {
	cfg := config.Load()

	var (
		db  *gorm.DB
		err error
	)
	if cfg.Database.Connection != "" {
		db, err = database.NewGormDBFromDSN(cfg.Database.Connection)
	} else {
		log.Printf("Info: no Postgres DSN, seeding SQLite file %s", cfg.Database.TrainingSQLitePath)
		db, err = database.NewSQLiteDB(cfg.Database.TrainingSQLitePath)
	}
	if err != nil {
		log.Fatal("Error: Failed to connect to database:", err)
	}

	if err := db.AutoMigrate(&model.TrainingPair{}); err != nil {
		log.Fatalf("Error: Failed to migrate training table: %v", err)
	}

	log.Println("Seeding training pairs...")

	trainingService := service.NewTrainingService(implementation.NewTrainingRepository(db), nil)
	added, err := trainingService.Seed(context.Background())
	if err != nil {
		log.Fatalf("Error: Seeding failed after %d pairs: %v", added, err)
	}

	log.Printf("✅ Success: %d training pairs added.", added)
}
