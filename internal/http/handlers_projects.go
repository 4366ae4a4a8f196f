package http

import (
	"database/sql"
	"errors"
	"net/url"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/tudorhoriadaniel/seo-crawler/internal/store"
)

func createProjectHandler(c *fiber.Ctx) error {
	var reqBody CreateProjectRequest
	if err := c.BodyParser(&reqBody); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
			Success: false,
			Code:    "BAD_REQUEST_INVALID_JSON",
			Error:   "Bad request, malformed JSON",
		})
	}

	reqBody.Name = strings.TrimSpace(reqBody.Name)
	reqBody.URL = strings.TrimSpace(reqBody.URL)
	if reqBody.Name == "" {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
			Success: false,
			Code:    "BAD_REQUEST",
			Error:   "Missing required field 'name'",
		})
	}
	if reqBody.URL == "" {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
			Success: false,
			Code:    "BAD_REQUEST",
			Error:   "Missing required field 'url'",
		})
	}

	u, err := url.Parse(reqBody.URL)
	if err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
			Success: false,
			Code:    "BAD_REQUEST",
			Error:   "Field 'url' must be an absolute http(s) URL",
		})
	}

	st := c.Locals("store").(*store.Store)

	id, err := uuid.NewV7()
	if err != nil {
		id = uuid.New()
	}

	project, err := st.CreateProject(c.Context(), id, reqBody.Name, reqBody.URL)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{
			Success: false,
			Code:    "PROJECT_CREATE_FAILED",
			Error:   err.Error(),
		})
	}

	return c.Status(fiber.StatusCreated).JSON(ProjectResponse{
		Success: true,
		Project: project,
	})
}

func listProjectsHandler(c *fiber.Ctx) error {
	st := c.Locals("store").(*store.Store)

	projects, err := st.ListProjects(c.Context())
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{
			Success: false,
			Code:    "PROJECT_LIST_FAILED",
			Error:   err.Error(),
		})
	}

	return c.JSON(ProjectListResponse{
		Success:  true,
		Projects: projects,
	})
}

func getProjectHandler(c *fiber.Ctx) error {
	st := c.Locals("store").(*store.Store)

	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
			Success: false,
			Code:    "BAD_REQUEST",
			Error:   "invalid project id",
		})
	}

	project, err := st.GetProject(c.Context(), id)
	if err != nil {
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

	return c.JSON(ProjectResponse{
		Success: true,
		Project: project,
	})
}

func deleteProjectHandler(c *fiber.Ctx) error {
	st := c.Locals("store").(*store.Store)

	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
			Success: false,
			Code:    "BAD_REQUEST",
			Error:   "invalid project id",
		})
	}

	if err := st.DeleteProject(c.Context(), id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return c.Status(fiber.StatusNotFound).JSON(ErrorResponse{
				Success: false,
				Code:    "NOT_FOUND",
				Error:   "project not found",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{
			Success: false,
			Code:    "PROJECT_DELETE_FAILED",
			Error:   err.Error(),
		})
	}

	return c.JSON(DeleteResponse{Success: true})
}

func listProjectCrawlsHandler(c *fiber.Ctx) error {
	st := c.Locals("store").(*store.Store)

	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
			Success: false,
			Code:    "BAD_REQUEST",
			Error:   "invalid project id",
		})
	}

	if _, err := st.GetProject(c.Context(), id); err != nil {
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

	crawls, err := st.ListCrawlsByProject(c.Context(), id)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{
			Success: false,
			Code:    "CRAWL_LIST_FAILED",
			Error:   err.Error(),
		})
	}

	return c.JSON(CrawlListResponse{
		Success: true,
		Crawls:  crawls,
	})
}
