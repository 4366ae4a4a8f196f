package http

import (
	"database/sql"
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/tudorhoriadaniel/seo-crawler/internal/services"
	"github.com/tudorhoriadaniel/seo-crawler/internal/store"
)

// getCrawlSummaryHandler recomputes crawl-level statistics from the
// persisted page records on every call. Summaries are valid for
// in-progress crawls too; they just cover the pages recorded so far.
func getCrawlSummaryHandler(c *fiber.Ctx) error {
	st := c.Locals("store").(*store.Store)

	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
			Success: false,
			Code:    "BAD_REQUEST",
			Error:   "invalid crawl id",
		})
	}

	if _, err := st.GetCrawl(c.Context(), id); err != nil {
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

	pages, err := st.ListPagesByCrawl(c.Context(), id)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{
			Success: false,
			Code:    "PAGE_LIST_FAILED",
			Error:   err.Error(),
		})
	}

	return c.JSON(SummaryResponse{
		Success: true,
		Summary: services.BuildSummary(pages),
	})
}
