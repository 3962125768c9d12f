package controller

import (
	"ai-studyflow-be/internal/dto"
	"ai-studyflow-be/internal/pkg/serverutils"
	"ai-studyflow-be/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type IReviewController interface {
	RegisterRoutes(r fiber.Router)
	ListDue(ctx *fiber.Ctx) error
	Grade(ctx *fiber.Ctx) error
}

type reviewController struct {
	reviewService service.IReviewService
}

func NewReviewController(reviewService service.IReviewService) IReviewController {
	return &reviewController{
		reviewService: reviewService,
	}
}

func (c *reviewController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/review/v1")
	h.Use(serverutils.JwtMiddleware)
	h.Get("due", c.ListDue)
	h.Post(":conceptId/grade", c.Grade)
}

func (c *reviewController) ListDue(ctx *fiber.Ctx) error {
	userIdStr := ctx.Locals("user_id").(string)
	userId, _ := uuid.Parse(userIdStr)

	limit := ctx.QueryInt("limit", 20)

	res, err := c.reviewService.ListDue(ctx.Context(), userId, limit)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success list due reviews", res))
}

func (c *reviewController) Grade(ctx *fiber.Ctx) error {
	userIdStr := ctx.Locals("user_id").(string)
	userId, _ := uuid.Parse(userIdStr)

	conceptId, err := uuid.Parse(ctx.Params("conceptId"))
	if err != nil {
		return serverutils.NewBadRequest("INVALID_CONCEPT_ID", "concept id must be a uuid")
	}

	var req dto.GradeReviewRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}
	req.ConceptId = conceptId
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.reviewService.Grade(ctx.Context(), userId, &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success grade review", res))
}
