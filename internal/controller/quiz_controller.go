package controller

import (
	"ai-studyguide-be/internal/dto"
	"ai-studyguide-be/internal/pkg/serverutils"
	"ai-studyguide-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IQuizController interface {
	RegisterRoutes(r fiber.Router)
	Start(ctx *fiber.Ctx) error
	Answer(ctx *fiber.Ctx) error
	Next(ctx *fiber.Ctx) error
	Results(ctx *fiber.Ctx) error
	BackToStudy(ctx *fiber.Ctx) error
}

type quizController struct {
	quizService service.IQuizService
}

func NewQuizController(quizService service.IQuizService) IQuizController {
	return &quizController{
		quizService: quizService,
	}
}

func (c *quizController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/quiz/v1")
	h.Use(serverutils.SessionTokenMiddleware)
	h.Post("start", c.Start)
	h.Post("answer", c.Answer)
	h.Post("next", c.Next)
	h.Get("results", c.Results)
	h.Post("back", c.BackToStudy)
}

func (c *quizController) Start(ctx *fiber.Ctx) error {
	sessionId := sessionIdFromLocals(ctx)

	var req dto.StartQuizRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}

	res, err := c.quizService.Start(ctx.Context(), sessionId, &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success start quiz", res))
}

func (c *quizController) Answer(ctx *fiber.Ctx) error {
	sessionId := sessionIdFromLocals(ctx)

	var req dto.AnswerQuizRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.quizService.Answer(ctx.Context(), sessionId, &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success check answer", res))
}

func (c *quizController) Next(ctx *fiber.Ctx) error {
	sessionId := sessionIdFromLocals(ctx)

	res, err := c.quizService.Next(ctx.Context(), sessionId)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success advance quiz", res))
}

func (c *quizController) Results(ctx *fiber.Ctx) error {
	sessionId := sessionIdFromLocals(ctx)

	res, err := c.quizService.Results(ctx.Context(), sessionId)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success show results", res))
}

func (c *quizController) BackToStudy(ctx *fiber.Ctx) error {
	sessionId := sessionIdFromLocals(ctx)

	res, err := c.quizService.BackToStudy(ctx.Context(), sessionId)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success return to study", res))
}
