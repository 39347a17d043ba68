package controller

import (
	"github.com/Erlanda-Prasetio/ptsp-chatbot/internal/dto"
	"github.com/Erlanda-Prasetio/ptsp-chatbot/internal/pkg/serverutils"
	"github.com/Erlanda-Prasetio/ptsp-chatbot/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type ITrainingController interface {
	RegisterRoutes(r fiber.Router)
	Create(ctx *fiber.Ctx) error
	Update(ctx *fiber.Ctx) error
	Delete(ctx *fiber.Ctx) error
	List(ctx *fiber.Ctx) error
	Export(ctx *fiber.Ctx) error
	Seed(ctx *fiber.Ctx) error
}

type trainingController struct {
	service service.ITrainingService
}

func NewTrainingController(service service.ITrainingService) ITrainingController {
	return &trainingController{service: service}
}

func (c *trainingController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/training/v1")
	h.Use(serverutils.JwtMiddleware)
	h.Get("", c.List)
	h.Post("", c.Create)
	h.Put(":id", c.Update)
	h.Delete(":id", c.Delete)
	h.Get("/export", c.Export)
	h.Post("/seed", c.Seed)
}

func (c *trainingController) Create(ctx *fiber.Ctx) error {
	var req dto.CreateTrainingPairRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.service.Create(ctx.Context(), &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success create training pair", res))
}

func (c *trainingController) Update(ctx *fiber.Ctx) error {
	id, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid training pair id")
	}

	var req dto.UpdateTrainingPairRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}
	req.Id = id

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.service.Update(ctx.Context(), &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success update training pair", res))
}

func (c *trainingController) Delete(ctx *fiber.Ctx) error {
	id, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid training pair id")
	}

	if err := c.service.Delete(ctx.Context(), id); err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse[any]("Success delete training pair", nil))
}

func (c *trainingController) List(ctx *fiber.Ctx) error {
	category := ctx.Query("category")
	limit := ctx.QueryInt("limit", 50)
	offset := ctx.QueryInt("offset", 0)

	res, err := c.service.List(ctx.Context(), category, limit, offset)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success get training pairs", res))
}

func (c *trainingController) Export(ctx *fiber.Ctx) error {
	res, err := c.service.Export(ctx.Context())
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success export training pairs", res))
}

func (c *trainingController) Seed(ctx *fiber.Ctx) error {
	added, err := c.service.Seed(ctx.Context())
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success seed training pairs", fiber.Map{
		"added": added,
	}))
}
