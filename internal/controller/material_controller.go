package controller

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"

	"ai-studyflow-be/internal/dto"
	"ai-studyflow-be/internal/pkg/logger"
	"ai-studyflow-be/internal/pkg/serverutils"
	"ai-studyflow-be/internal/service"
	"ai-studyflow-be/pkg/progress"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/valyala/fasthttp"
)

type IMaterialController interface {
	RegisterRoutes(r fiber.Router)
	InitUpload(ctx *fiber.Ctx) error
	CompleteUpload(ctx *fiber.Ctx) error
	StreamUpload(ctx *fiber.Ctx) error
	UploadEvents(ctx *fiber.Ctx) error
	Show(ctx *fiber.Ctx) error
	List(ctx *fiber.Ctx) error
	Delete(ctx *fiber.Ctx) error
	SearchChunks(ctx *fiber.Ctx) error
}

type materialController struct {
	uploadService   service.IUploadService
	materialService service.IMaterialService
	progressBus     *progress.Bus
	log             logger.ILogger
}

func NewMaterialController(
	uploadService service.IUploadService,
	materialService service.IMaterialService,
	progressBus *progress.Bus,
	log logger.ILogger,
) IMaterialController {
	return &materialController{
		uploadService:   uploadService,
		materialService: materialService,
		progressBus:     progressBus,
		log:             log,
	}
}

func (c *materialController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/material/v1")
	h.Use(serverutils.JwtMiddleware)
	h.Post("upload/init", c.InitUpload)
	h.Post("upload/stream", c.StreamUpload)
	h.Post("upload/:id/complete", c.CompleteUpload)
	h.Get("upload/:id/events", c.UploadEvents)
	h.Post("search", c.SearchChunks)
	h.Get("", c.List)
	h.Get(":id", c.Show)
	h.Delete(":id", c.Delete)
}

func (c *materialController) InitUpload(ctx *fiber.Ctx) error {
	userIdStr := ctx.Locals("user_id").(string)
	userId, _ := uuid.Parse(userIdStr)

	var req dto.InitUploadRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.uploadService.Init(ctx.Context(), userId, &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success init upload", res))
}

func (c *materialController) CompleteUpload(ctx *fiber.Ctx) error {
	userIdStr := ctx.Locals("user_id").(string)
	userId, _ := uuid.Parse(userIdStr)

	uploadId, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return serverutils.NewBadRequest("INVALID_UPLOAD_ID", "upload id must be a uuid")
	}

	res, err := c.uploadService.Complete(ctx.Context(), userId, uploadId)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success complete upload", res))
}

func (c *materialController) StreamUpload(ctx *fiber.Ctx) error {
	userIdStr := ctx.Locals("user_id").(string)
	userId, _ := uuid.Parse(userIdStr)

	fileHeader, err := ctx.FormFile("file")
	if err != nil {
		return serverutils.NewBadRequest("MISSING_FILE", "multipart field 'file' is required")
	}

	file, err := fileHeader.Open()
	if err != nil {
		return err
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return err
	}

	mimeType := fileHeader.Header.Get("Content-Type")
	res, uploadId, err := c.uploadService.Stream(ctx.Context(), userId, fileHeader.Filename, mimeType, data)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success stream upload", fiber.Map{
		"upload_id":   uploadId,
		"job_id":      res.JobId,
		"material_id": res.MaterialId,
	}))
}

// UploadEvents streams upload progress as server-sent events until the
// pipeline reaches COMPLETED or FAILED, closing with a [DONE] sentinel.
func (c *materialController) UploadEvents(ctx *fiber.Ctx) error {
	uploadId, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return serverutils.NewBadRequest("INVALID_UPLOAD_ID", "upload id must be a uuid")
	}

	ctx.Set("Content-Type", "text/event-stream")
	ctx.Set("Cache-Control", "no-cache")
	ctx.Set("Connection", "keep-alive")

	reqCtx := ctx.Context()
	events, err := c.progressBus.Subscribe(reqCtx, uploadId)
	if err != nil {
		return err
	}

	reqCtx.SetBodyStreamWriter(fasthttp.StreamWriter(func(w *bufio.Writer) {
		for event := range events {
			payload, marshalErr := json.Marshal(event)
			if marshalErr != nil {
				continue
			}
			if _, writeErr := fmt.Fprintf(w, "data: %s\n\n", payload); writeErr != nil {
				return
			}
			if flushErr := w.Flush(); flushErr != nil {
				return
			}
			if event.Step == progress.StepCompleted || event.Step == progress.StepFailed {
				fmt.Fprint(w, "data: [DONE]\n\n")
				w.Flush()
				return
			}
		}
	}))

	return nil
}

func (c *materialController) Show(ctx *fiber.Ctx) error {
	userIdStr := ctx.Locals("user_id").(string)
	userId, _ := uuid.Parse(userIdStr)

	id, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return serverutils.NewBadRequest("INVALID_MATERIAL_ID", "material id must be a uuid")
	}

	res, err := c.materialService.Show(ctx.Context(), userId, id)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success show material", res))
}

func (c *materialController) List(ctx *fiber.Ctx) error {
	userIdStr := ctx.Locals("user_id").(string)
	userId, _ := uuid.Parse(userIdStr)

	page := ctx.QueryInt("page", 1)
	limit := ctx.QueryInt("limit", 20)

	res, err := c.materialService.List(ctx.Context(), userId, page, limit)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success list materials", res))
}

func (c *materialController) Delete(ctx *fiber.Ctx) error {
	userIdStr := ctx.Locals("user_id").(string)
	userId, _ := uuid.Parse(userIdStr)

	id, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return serverutils.NewBadRequest("INVALID_MATERIAL_ID", "material id must be a uuid")
	}

	if err := c.materialService.Delete(ctx.Context(), userId, id); err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success delete material", nil))
}

func (c *materialController) SearchChunks(ctx *fiber.Ctx) error {
	userIdStr := ctx.Locals("user_id").(string)
	userId, _ := uuid.Parse(userIdStr)

	var req dto.SearchMaterialChunksRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.materialService.SearchChunks(ctx.Context(), userId, &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success search materials", res))
}
