package controller

import (
	"github.com/Erlanda-Prasetio/ptsp-chatbot/internal/dto"
	"github.com/Erlanda-Prasetio/ptsp-chatbot/internal/pkg/serverutils"
	"github.com/Erlanda-Prasetio/ptsp-chatbot/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IChatController interface {
	RegisterRoutes(r fiber.Router)
	Chat(ctx *fiber.Ctx) error
}

type chatController struct {
	service service.IChatService
}

func NewChatController(service service.IChatService) IChatController {
	return &chatController{service: service}
}

// RegisterRoutes exposes the chat endpoint. It is public: the chatbot widget
// on the DPMPTSP site calls it without credentials.
func (c *chatController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/chat/v1")
	h.Post("", c.Chat)
}

func (c *chatController) Chat(ctx *fiber.Ctx) error {
	var req dto.ChatRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.service.Chat(ctx.Context(), &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success", res))
}
