package handler

import (
	"github.com/gofiber/fiber/v2"

	"docportal/internal/model"
	"docportal/internal/service"
)

func ListTeams(teams service.TeamService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		items, err := teams.List(c.UserContext(), c.QueryBool("activeOnly", true))
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(fiber.Map{"items": items, "total": len(items)})
	}
}

func CreateTeam(teams service.TeamService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var in model.TeamInput
		if err := c.BodyParser(&in); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "invalid request body")
		}
		t, err := teams.Create(c.UserContext(), in)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(t)
	}
}

func UpdateTeam(teams service.TeamService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var in model.TeamInput
		if err := c.BodyParser(&in); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "invalid request body")
		}
		t, err := teams.Update(c.UserContext(), c.Params("id"), in)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(t)
	}
}

func GetTeam(teams service.TeamService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		t, err := teams.Get(c.UserContext(), c.Params("id"))
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(t)
	}
}

func DeleteTeam(teams service.TeamService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		res, err := teams.Delete(c.UserContext(), c.Params("id"))
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(res)
	}
}

func ListMembers(teams service.TeamService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		items, err := teams.Members(c.UserContext(), c.Params("id"))
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(fiber.Map{"items": items, "total": len(items)})
	}
}

type memberRequest struct {
	Email string `json:"email"`
	Role  string `json:"role"`
}

// InviteMember answers 201 with the member when the backend echoes one and
// 202 otherwise.
func InviteMember(teams service.TeamService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req memberRequest
		if err := c.BodyParser(&req); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "invalid request body")
		}
		m, err := teams.Invite(c.UserContext(), c.Params("id"), req.Email, model.ParseRole(req.Role))
		if err != nil {
			return writeServiceError(c, err)
		}
		if m == nil {
			return c.Status(fiber.StatusAccepted).JSON(model.Result{Success: true})
		}
		return c.Status(fiber.StatusCreated).JSON(m)
	}
}

func RemoveMember(teams service.TeamService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		res, err := teams.RemoveMember(c.UserContext(), c.Params("id"), c.Params("memberId"))
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(res)
	}
}

func ChangeMemberRole(teams service.TeamService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req memberRequest
		if err := c.BodyParser(&req); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "invalid request body")
		}
		res, err := teams.ChangeRole(c.UserContext(), c.Params("id"), c.Params("memberId"), model.ParseRole(req.Role))
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(res)
	}
}

func LeaveTeam(teams service.TeamService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		res, err := teams.Leave(c.UserContext(), c.Params("id"))
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(res)
	}
}
