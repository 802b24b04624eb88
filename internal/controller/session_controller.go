package controller

import (
	"ai-studyguide-be/internal/dto"
	"ai-studyguide-be/internal/pkg/serverutils"
	"ai-studyguide-be/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type ISessionController interface {
	RegisterRoutes(r fiber.Router)
	Create(ctx *fiber.Ctx) error
	Show(ctx *fiber.Ctx) error
	Reset(ctx *fiber.Ctx) error
	SelectModel(ctx *fiber.Ctx) error
}

type sessionController struct {
	sessionService service.ISessionService
}

func NewSessionController(sessionService service.ISessionService) ISessionController {
	return &sessionController{
		sessionService: sessionService,
	}
}

func (c *sessionController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/session/v1")
	h.Post("", c.Create)

	protected := h.Group("")
	protected.Use(serverutils.SessionTokenMiddleware)
	protected.Get("", c.Show)
	protected.Post("reset", c.Reset)
	protected.Put("model", c.SelectModel)
}

func (c *sessionController) Create(ctx *fiber.Ctx) error {
	res, err := c.sessionService.Create(ctx.Context())
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success create session", res))
}

func (c *sessionController) Show(ctx *fiber.Ctx) error {
	sessionId := sessionIdFromLocals(ctx)

	res, err := c.sessionService.Show(ctx.Context(), sessionId)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success show session", res))
}

func (c *sessionController) Reset(ctx *fiber.Ctx) error {
	sessionId := sessionIdFromLocals(ctx)

	res, err := c.sessionService.Reset(ctx.Context(), sessionId)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success reset session", res))
}

func (c *sessionController) SelectModel(ctx *fiber.Ctx) error {
	sessionId := sessionIdFromLocals(ctx)

	var req dto.SelectModelRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.sessionService.SelectModel(ctx.Context(), sessionId, &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success select model", res))
}

// sessionIdFromLocals reads the session id bound by the token middleware.
func sessionIdFromLocals(ctx *fiber.Ctx) uuid.UUID {
	sessionIdStr, _ := ctx.Locals("session_id").(string)
	sessionId, _ := uuid.Parse(sessionIdStr)
	return sessionId
}
