package controller

import (
	"github.com/Erlanda-Prasetio/ptsp-chatbot/internal/config"
	"github.com/Erlanda-Prasetio/ptsp-chatbot/internal/dto"
	"github.com/Erlanda-Prasetio/ptsp-chatbot/internal/repository/cache"
	"github.com/Erlanda-Prasetio/ptsp-chatbot/pkg/vectorstore"

	"github.com/gofiber/fiber/v2"
)

type IHealthController interface {
	RegisterRoutes(r fiber.Router)
	Health(ctx *fiber.Ctx) error
}

type healthController struct {
	store   vectorstore.Store
	answers *cache.AnswerCache
	cfg     *config.Config
}

func NewHealthController(store vectorstore.Store, answers *cache.AnswerCache, cfg *config.Config) IHealthController {
	return &healthController{
		store:   store,
		answers: answers,
		cfg:     cfg,
	}
}

// RegisterRoutes mounts /health at the application root, outside /api.
func (c *healthController) RegisterRoutes(r fiber.Router) {
	r.Get("/health", c.Health)
}

func (c *healthController) Health(ctx *fiber.Ctx) error {
	status := "ok"
	count, err := c.store.Count(ctx.Context())
	if err != nil {
		status = "degraded"
	}

	return ctx.JSON(dto.HealthResponse{
		Status:      status,
		Dataset:     c.cfg.Vector.Dataset,
		Backend:     c.cfg.Vector.Backend,
		TotalChunks: count,
		Features: map[string]bool{
			"query_expansion": true,
			"reranking":       c.cfg.RerankEnabled(),
			"trained_answers": true,
			"answer_cache":    c.answers.Enabled(),
		},
	})
}
