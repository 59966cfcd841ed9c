package handler

import (
	"github.com/gofiber/fiber/v2"

	"docportal/internal/model"
	"docportal/internal/repository"
)

// LogsFunc resolves the logs repository per request.
type LogsFunc func() repository.LogsRepository

// ListLogs handles GET /logs, narrowed to one document with documentId.
func ListLogs(logs LogsFunc) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var (
			items []model.LogEntry
			err   error
		)
		if id := c.Query("documentId"); id != "" {
			items, err = logs().ByDocument(c.UserContext(), id)
		} else {
			items, err = logs().All(c.UserContext())
		}
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(fiber.Map{"items": items, "total": len(items)})
	}
}

func CountLogs(logs LogsFunc) fiber.Handler {
	return func(c *fiber.Ctx) error {
		items, err := logs().Count(c.UserContext(), c.Query("period"))
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(fiber.Map{"items": items})
	}
}
