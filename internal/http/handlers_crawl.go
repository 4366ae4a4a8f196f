package http

import (
	"database/sql"
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/tudorhoriadaniel/seo-crawler/internal/crawl"
	"github.com/tudorhoriadaniel/seo-crawler/internal/services"
	"github.com/tudorhoriadaniel/seo-crawler/internal/store"
)

func startCrawlHandler(c *fiber.Ctx) error {
	var reqBody StartCrawlRequest
	if err := c.BodyParser(&reqBody); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
			Success: false,
			Code:    "BAD_REQUEST_INVALID_JSON",
			Error:   "Bad request, malformed JSON",
		})
	}

	projectID, err := uuid.Parse(reqBody.ProjectID)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
			Success: false,
			Code:    "BAD_REQUEST",
			Error:   "Missing or invalid field 'projectId'",
		})
	}

	st := c.Locals("store").(*store.Store)

	if _, err := st.GetProject(c.Context(), projectID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return c.Status(fiber.StatusNotFound).JSON(ErrorResponse{
				Success: false,
				Code:    "NOT_FOUND",
				Error:   "project not found",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{
			Success: false,
			Code:    "PROJECT_GET_FAILED",
			Error:   err.Error(),
		})
	}

	svc := services.NewCrawlService(st)
	cr, err := svc.Enqueue(c.Context(), projectID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{
			Success: false,
			Code:    "CRAWL_CREATE_FAILED",
			Error:   err.Error(),
		})
	}

	if loggerVal := c.Locals("logger"); loggerVal != nil {
		if lg, ok := loggerVal.(interface{ Info(msg string, args ...any) }); ok {
			lg.Info("crawl_enqueued", "crawl_id", cr.ID.String(), "project_id", projectID.String())
		}
	}

	return c.Status(fiber.StatusAccepted).JSON(CrawlResponse{
		Success: true,
		Crawl:   cr,
	})
}

func getCrawlHandler(c *fiber.Ctx) error {
	st := c.Locals("store").(*store.Store)

	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
			Success: false,
			Code:    "BAD_REQUEST",
			Error:   "invalid crawl id",
		})
	}

	cr, err := st.GetCrawl(c.Context(), id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return c.Status(fiber.StatusNotFound).JSON(ErrorResponse{
				Success: false,
				Code:    "NOT_FOUND",
				Error:   "crawl not found",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{
			Success: false,
			Code:    "CRAWL_GET_FAILED",
			Error:   err.Error(),
		})
	}

	return c.JSON(CrawlResponse{
		Success: true,
		Crawl:   cr,
	})
}

func cancelCrawlHandler(c *fiber.Ctx) error {
	st := c.Locals("store").(*store.Store)

	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
			Success: false,
			Code:    "BAD_REQUEST",
			Error:   "invalid crawl id",
		})
	}

	cr, err := st.GetCrawl(c.Context(), id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return c.Status(fiber.StatusNotFound).JSON(ErrorResponse{
				Success: false,
				Code:    "NOT_FOUND",
				Error:   "crawl not found",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{
			Success: false,
			Code:    "CRAWL_GET_FAILED",
			Error:   err.Error(),
		})
	}

	if crawl.Terminal(crawl.Status(cr.Status)) {
		return c.Status(fiber.StatusConflict).JSON(ErrorResponse{
			Success: false,
			Code:    "CRAWL_ALREADY_FINISHED",
			Error:   "crawl already reached a terminal status",
		})
	}

	// An actively running crawl is stopped through its orchestrator; it
	// will flip to completed itself after in-flight fetches drain.
	if orchVal := c.Locals("orchestrator"); orchVal != nil {
		if orch, ok := orchVal.(*crawl.Orchestrator); ok && orch.Cancel(id) {
			return c.JSON(DeleteResponse{Success: true})
		}
	}

	// Not running here. A still-pending crawl is closed out by stepping
	// through crawling, which also claims it away from the runner; one
	// running on another instance cannot be reached from this one.
	if crawl.Status(cr.Status) == crawl.StatusPending {
		if err := st.UpdateCrawlStatus(c.Context(), id, crawl.StatusCrawling, nil); err != nil {
			return c.Status(fiber.StatusConflict).JSON(ErrorResponse{
				Success: false,
				Code:    "CRAWL_CANCEL_FAILED",
				Error:   err.Error(),
			})
		}
		if err := st.UpdateCrawlStatus(c.Context(), id, crawl.StatusCompleted, nil); err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{
				Success: false,
				Code:    "CRAWL_CANCEL_FAILED",
				Error:   err.Error(),
			})
		}
		return c.JSON(DeleteResponse{Success: true})
	}

	return c.Status(fiber.StatusConflict).JSON(ErrorResponse{
		Success: false,
		Code:    "CRAWL_NOT_CANCELLABLE",
		Error:   "crawl is running on another instance",
	})
}
