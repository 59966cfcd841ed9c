package handler

import (
	"io"
	"strings"

	"github.com/gofiber/fiber/v2"

	"docportal/internal/model"
	"docportal/internal/repository"
)

// DocumentsFunc resolves the document repository per request so that a
// swapped implementation takes effect immediately.
type DocumentsFunc func() repository.DocumentRepository

// maxUploadBytes bounds the multipart body accepted by UploadDocument.
const maxUploadBytes = 50 << 20

// ListDocuments handles GET /documents with an optional status filter.
func ListDocuments(docs DocumentsFunc) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var (
			items []model.Document
			err   error
		)
		if status := strings.TrimSpace(c.Query("status")); status != "" {
			items, err = docs().ListByStatus(c.UserContext(), strings.ToUpper(status))
		} else {
			items, err = docs().List(c.UserContext())
		}
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(fiber.Map{"items": items, "total": len(items)})
	}
}

func SearchDocuments(docs DocumentsFunc) fiber.Handler {
	return func(c *fiber.Ctx) error {
		items, err := docs().AdvancedSearch(c.UserContext(), c.Query("q"))
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(fiber.Map{"items": items, "total": len(items)})
	}
}

func DocumentsByTags(docs DocumentsFunc) fiber.Handler {
	return func(c *fiber.Ctx) error {
		tags := splitList(c.Query("tags"))
		if len(tags) == 0 {
			return writeError(c, fiber.StatusBadRequest, "BAD_REQUEST", "tags is required")
		}
		items, err := docs().SearchByTags(c.UserContext(), tags)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(fiber.Map{"items": items, "total": len(items)})
	}
}

// ShareDocument returns a time-limited share link.
func ShareDocument(docs DocumentsFunc) fiber.Handler {
	return func(c *fiber.Ctx) error {
		minutes := c.QueryInt("expirationMinutes", 60)
		if minutes <= 0 {
			return writeError(c, fiber.StatusBadRequest, "BAD_REQUEST", "expirationMinutes must be positive")
		}
		u, err := docs().ShareURL(c.UserContext(), c.Params("id"), minutes)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(fiber.Map{"url": u, "expirationMinutes": minutes})
	}
}

// DownloadDocument returns download metadata, or redirects to the link
// when redirect=true.
func DownloadDocument(docs DocumentsFunc) fiber.Handler {
	return func(c *fiber.Ctx) error {
		info, err := docs().DownloadInfo(c.UserContext(), c.Params("id"))
		if err != nil {
			return writeServiceError(c, err)
		}
		if c.QueryBool("redirect") {
			return c.Redirect(info.URL, fiber.StatusFound)
		}
		return c.JSON(info)
	}
}

func DeleteDocument(docs DocumentsFunc) fiber.Handler {
	return func(c *fiber.Ctx) error {
		res, err := docs().Delete(c.UserContext(), c.Params("id"))
		if err != nil {
			return writeServiceError(c, err)
		}
		if !res.Success {
			msg := res.Message
			if msg == "" {
				msg = "delete document failed"
			}
			return writeServiceError(c, repository.RejectedError(msg))
		}
		return c.JSON(res)
	}
}

func ListComments(docs DocumentsFunc) fiber.Handler {
	return func(c *fiber.Ctx) error {
		pq := repository.PageQuery{Page: c.QueryInt("page", 0), Size: c.QueryInt("size", 0)}
		items, err := docs().Comments(c.UserContext(), c.Params("id"), pq)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(fiber.Map{"items": items, "total": len(items)})
	}
}

type commentRequest struct {
	Content string `json:"content"`
}

func AddComment(docs DocumentsFunc) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req commentRequest
		if err := c.BodyParser(&req); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "invalid request body")
		}
		cm, err := docs().AddComment(c.UserContext(), c.Params("id"), req.Content)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(cm)
	}
}

type tagsRequest struct {
	Tags []string `json:"tags"`
}

// UpdateTags replaces a document's tags with the posted list.
func UpdateTags(docs DocumentsFunc) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req tagsRequest
		if err := c.BodyParser(&req); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "invalid request body")
		}
		tags, err := docs().UpdateTags(c.UserContext(), c.Params("id"), req.Tags)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(fiber.Map{"tags": tags})
	}
}

// UploadDocument forwards a multipart "file" field to the backend.
func UploadDocument(docs DocumentsFunc) fiber.Handler {
	return func(c *fiber.Ctx) error {
		fh, err := c.FormFile("file")
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "BAD_REQUEST", "file is required")
		}
		if fh.Size > maxUploadBytes {
			return writeError(c, fiber.StatusRequestEntityTooLarge, "PAYLOAD_TOO_LARGE", "file too large")
		}
		f, err := fh.Open()
		if err != nil {
			return writeServiceError(c, err)
		}
		defer f.Close()
		content, err := io.ReadAll(f)
		if err != nil {
			return writeServiceError(c, err)
		}

		doc, err := docs().Upload(c.UserContext(), model.UploadInput{
			FileName:    fh.Filename,
			Description: c.FormValue("description"),
			Content:     content,
		})
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(doc)
	}
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
