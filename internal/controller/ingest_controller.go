package controller

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/Erlanda-Prasetio/ptsp-chatbot/internal/dto"
	"github.com/Erlanda-Prasetio/ptsp-chatbot/internal/pkg/serverutils"
	"github.com/Erlanda-Prasetio/ptsp-chatbot/internal/service"
	"github.com/Erlanda-Prasetio/ptsp-chatbot/pkg/extract"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type IIngestController interface {
	RegisterRoutes(r fiber.Router)
	IngestDirectory(ctx *fiber.Ctx) error
	Upload(ctx *fiber.Ctx) error
}

type ingestController struct {
	ingestService    service.IIngestService
	publisherService service.IPublisherService
	uploadDir        string
}

func NewIngestController(
	ingestService service.IIngestService,
	publisherService service.IPublisherService,
	uploadDir string,
) IIngestController {
	return &ingestController{
		ingestService:    ingestService,
		publisherService: publisherService,
		uploadDir:        uploadDir,
	}
}

func (c *ingestController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/ingest/v1")
	h.Use(serverutils.JwtMiddleware)
	h.Post("/directory", c.IngestDirectory)
	h.Post("/upload", c.Upload)
}

// IngestDirectory runs a synchronous bulk ingest over a server-side
// directory. Bulk runs are admin-triggered and rare, so blocking the request
// is acceptable; big corpora belong in the ingest CLI.
func (c *ingestController) IngestDirectory(ctx *fiber.Ctx) error {
	var req dto.IngestDirectoryRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.ingestService.IngestDirectory(ctx.Context(), req.Directory)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success ingest directory", res))
}

// Upload accepts one document, stores it under the upload directory and
// queues it for embedding. The consumer picks it up off the request path.
func (c *ingestController) Upload(ctx *fiber.Ctx) error {
	fileHeader, err := ctx.FormFile("file")
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "missing file field")
	}

	ext := filepath.Ext(fileHeader.Filename)
	if !extract.SupportedExtension(ext) {
		return fiber.NewError(fiber.StatusBadRequest, fmt.Sprintf("unsupported file type %q", ext))
	}

	// Random prefix keeps concurrent uploads of the same filename apart.
	safeName := fmt.Sprintf("%s_%s", uuid.New().String()[:8], filepath.Base(fileHeader.Filename))
	destination := filepath.Join(c.uploadDir, safeName)
	if err := ctx.SaveFile(fileHeader, destination); err != nil {
		return fmt.Errorf("save upload: %w", err)
	}

	payload, err := json.Marshal(dto.IngestDocumentMessage{
		Path:       destination,
		UploadedAt: time.Now(),
	})
	if err != nil {
		return err
	}
	if err := c.publisherService.Publish(ctx.Context(), payload); err != nil {
		return fmt.Errorf("queue upload: %w", err)
	}

	return ctx.Status(fiber.StatusAccepted).JSON(serverutils.SuccessResponse("Upload queued for ingestion", dto.UploadResponse{
		File:   strings.TrimPrefix(destination, c.uploadDir+string(filepath.Separator)),
		Status: "queued",
	}))
}
