package controller

import (
	"ai-studyflow-be/internal/dto"
	"ai-studyflow-be/internal/pkg/serverutils"
	"ai-studyflow-be/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type ISessionRunController interface {
	RegisterRoutes(r fiber.Router)
	Start(ctx *fiber.Ctx) error
	Show(ctx *fiber.Ctx) error
	SaveProgress(ctx *fiber.Ctx) error
	Complete(ctx *fiber.Ctx) error
	Abandon(ctx *fiber.Ctx) error
}

type sessionRunController struct {
	runService service.ISessionRunService
}

func NewSessionRunController(runService service.ISessionRunService) ISessionRunController {
	return &sessionRunController{
		runService: runService,
	}
}

func (c *sessionRunController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/run/v1")
	h.Use(serverutils.JwtMiddleware)
	h.Post("start", c.Start)
	h.Get(":id", c.Show)
	h.Put(":id/progress", c.SaveProgress)
	h.Post(":id/complete", c.Complete)
	h.Post(":id/abandon", c.Abandon)
}

func (c *sessionRunController) Start(ctx *fiber.Ctx) error {
	userIdStr := ctx.Locals("user_id").(string)
	userId, _ := uuid.Parse(userIdStr)

	var req dto.StartRunRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.runService.Start(ctx.Context(), userId, &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success start run", res))
}

func (c *sessionRunController) Show(ctx *fiber.Ctx) error {
	userIdStr := ctx.Locals("user_id").(string)
	userId, _ := uuid.Parse(userIdStr)

	id, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return serverutils.NewBadRequest("INVALID_RUN_ID", "run id must be a uuid")
	}

	res, err := c.runService.Show(ctx.Context(), userId, id)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success show run", res))
}

func (c *sessionRunController) SaveProgress(ctx *fiber.Ctx) error {
	userIdStr := ctx.Locals("user_id").(string)
	userId, _ := uuid.Parse(userIdStr)

	id, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return serverutils.NewBadRequest("INVALID_RUN_ID", "run id must be a uuid")
	}

	var req dto.SaveRunProgressRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}
	req.RunId = id
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.runService.SaveProgress(ctx.Context(), userId, &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success save run progress", res))
}

func (c *sessionRunController) Complete(ctx *fiber.Ctx) error {
	userIdStr := ctx.Locals("user_id").(string)
	userId, _ := uuid.Parse(userIdStr)

	id, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return serverutils.NewBadRequest("INVALID_RUN_ID", "run id must be a uuid")
	}

	var req dto.CompleteRunRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}
	req.RunId = id
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.runService.Complete(ctx.Context(), userId, &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success complete run", res))
}

func (c *sessionRunController) Abandon(ctx *fiber.Ctx) error {
	userIdStr := ctx.Locals("user_id").(string)
	userId, _ := uuid.Parse(userIdStr)

	id, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return serverutils.NewBadRequest("INVALID_RUN_ID", "run id must be a uuid")
	}

	var req dto.AbandonRunRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}
	req.RunId = id
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.runService.Abandon(ctx.Context(), userId, &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success abandon run", res))
}
