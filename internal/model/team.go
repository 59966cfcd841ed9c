package model

import "strings"

// TeamRole is a member's role within a team.
type TeamRole string

const (
	RoleOwner  TeamRole = "owner"
	RoleAdmin  TeamRole = "admin"
	RoleMember TeamRole = "member"
)

// Valid reports whether r is one of the known roles.
func (r TeamRole) Valid() bool {
	switch r {
	case RoleOwner, RoleAdmin, RoleMember:
		return true
	}
	return false
}

// ParseRole normalizes user input such as " Admin " to a TeamRole. The
// result may still be invalid.
func ParseRole(s string) TeamRole {
	return TeamRole(strings.ToLower(strings.TrimSpace(s)))
}

type Team struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	Description   string `json:"description"`
	MemberCount   int    `json:"memberCount"`
	Avatar        string `json:"avatar,omitempty"`
	DocumentCount int    `json:"documentCount"`
}

type TeamMember struct {
	ID     string   `json:"id"`
	Name   string   `json:"name"`
	Email  string   `json:"email"`
	Role   TeamRole `json:"role"`
	Avatar string   `json:"avatar,omitempty"`
}

// TeamInput is the payload for creating or renaming a team.
type TeamInput struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}
