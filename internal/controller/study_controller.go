package controller

import (
	"io"

	"ai-studyguide-be/internal/pkg/serverutils"
	"ai-studyguide-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IStudyController interface {
	RegisterRoutes(r fiber.Router)
	Upload(ctx *fiber.Ctx) error
	ShowGuide(ctx *fiber.Ctx) error
	SemanticSearch(ctx *fiber.Ctx) error
}

type studyController struct {
	studyService service.IStudyService
}

func NewStudyController(studyService service.IStudyService) IStudyController {
	return &studyController{
		studyService: studyService,
	}
}

func (c *studyController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/study/v1")
	h.Use(serverutils.SessionTokenMiddleware)
	h.Post("upload", c.Upload)
	h.Get("guide", c.ShowGuide)
	h.Get("semantic-search", c.SemanticSearch)
}

func (c *studyController) Upload(ctx *fiber.Ctx) error {
	sessionId := sessionIdFromLocals(ctx)

	fileHeader, err := ctx.FormFile("file")
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, "A file is required"))
	}

	file, err := fileHeader.Open()
	if err != nil {
		return err
	}
	defer file.Close()

	content, err := io.ReadAll(file)
	if err != nil {
		return err
	}

	res, err := c.studyService.Upload(ctx.Context(), sessionId, &service.DocumentUpload{
		Filename: fileHeader.Filename,
		MimeType: fileHeader.Header.Get("Content-Type"),
		Content:  content,
	})
	if err != nil {
		return err
	}

	return ctx.Status(fiber.StatusAccepted).JSON(serverutils.SuccessResponse("Processing started", res))
}

func (c *studyController) ShowGuide(ctx *fiber.Ctx) error {
	sessionId := sessionIdFromLocals(ctx)

	res, err := c.studyService.ShowGuide(ctx.Context(), sessionId)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success show guide", res))
}

func (c *studyController) SemanticSearch(ctx *fiber.Ctx) error {
	sessionId := sessionIdFromLocals(ctx)

	query := ctx.Query("query")
	if query == "" {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, "query parameter is required"))
	}
	limit := ctx.QueryInt("limit", 5)

	res, err := c.studyService.SemanticSearch(ctx.Context(), sessionId, query, limit)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success semantic search", res))
}
