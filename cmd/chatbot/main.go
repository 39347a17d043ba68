package main

import (
	"bufio"
	"context"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/Erlanda-Prasetio/ptsp-chatbot/internal/bootstrap"
	"github.com/Erlanda-Prasetio/ptsp-chatbot/internal/config"
	"github.com/Erlanda-Prasetio/ptsp-chatbot/internal/constant"
	"github.com/Erlanda-Prasetio/ptsp-chatbot/internal/dto"
	"github.com/Erlanda-Prasetio/ptsp-chatbot/internal/model"
	"github.com/Erlanda-Prasetio/ptsp-chatbot/internal/repository/cache"
	"github.com/Erlanda-Prasetio/ptsp-chatbot/internal/repository/implementation"
	"github.com/Erlanda-Prasetio/ptsp-chatbot/internal/repository/memory"
	"github.com/Erlanda-Prasetio/ptsp-chatbot/internal/service"
	"github.com/Erlanda-Prasetio/ptsp-chatbot/pkg/database"

	"github.com/fatih/color"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Interactive terminal chatbot over the same chat service the REST API uses:
// trained answers, small talk and the retrieval pipeline all apply.
func main() {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		color.Red("Invalid configuration: %v", err)
		os.Exit(1)
	}

	var db *gorm.DB
	if cfg.Database.Connection != "" {
		var err error
		db, err = database.NewGormDBFromDSN(cfg.Database.Connection)
		if err != nil {
			color.Red("Failed to connect to Postgres: %v", err)
			os.Exit(1)
		}
	}

	// Pipeline logs go to stderr to keep the conversation readable.
	stderrLog := log.New(os.Stderr, "", log.LstdFlags)
	store, _ := bootstrap.NewVectorStore(db, cfg)
	provider := bootstrap.NewEmbeddingProvider(cfg)
	pipeline := bootstrap.NewPipeline(cfg, store, provider, stderrLog)

	chatService := service.NewChatService(
		newTrainingService(db, cfg),
		pipeline,
		memory.NewConversationRepository(),
		cache.NewAnswerCache(nil, 0),
		nil,
		cfg,
	)

	color.Cyan("🤖 Chatbot DPMPTSP Jawa Tengah")
	color.Cyan("   Ketik pertanyaan Anda, atau 'exit' untuk keluar.")
	fmt.Println()

	conversationID := uuid.New().String()
	userPrompt := color.New(color.FgGreen, color.Bold)
	botPrefix := color.New(color.FgCyan, color.Bold)

	scanner := bufio.NewScanner(os.Stdin)
	for {
		userPrompt.Print("Anda: ")
		if !scanner.Scan() {
			break
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if line == "exit" || line == "quit" || line == "keluar" {
			break
		}

		resp, err := chatService.Chat(context.Background(), &dto.ChatRequest{
			ConversationId: conversationID,
			Messages: []dto.ChatMessageDTO{
				{Role: constant.ChatMessageRoleUser, Content: line},
			},
		})
		if err != nil {
			color.Red("Error: %v", err)
			continue
		}

		botPrefix.Print("Bot:  ")
		fmt.Println(resp.Answer)
		if resp.TotalSources > 0 {
			color.Yellow("      (%d sumber, %s, confidence: %s)",
				resp.TotalSources, resp.Features.ResponseTime, resp.Features.Confidence)
		}
		fmt.Println()
	}

	color.Cyan("Sampai jumpa! 👋")
}

// newTrainingService opens the training store the same way the REST app does.
// A nil return just disables trained answers.
func newTrainingService(db *gorm.DB, cfg *config.Config) service.ITrainingService {
	trainingDB := db
	if trainingDB == nil {
		sqliteDB, err := database.NewSQLiteDB(cfg.Database.TrainingSQLitePath)
		if err != nil {
			color.Yellow("[WARN] Training store unavailable: %v", err)
			return nil
		}
		trainingDB = sqliteDB
	}
	if err := trainingDB.AutoMigrate(&model.TrainingPair{}); err != nil {
		color.Yellow("[WARN] Training table migration failed: %v", err)
	}
	return service.NewTrainingService(implementation.NewTrainingRepository(trainingDB), nil)
}
