package domain

import (
	"strings"
)

type Role string

const (
	RoleCandidate    Role = "Candidate/Employee"
	RoleTechChampion Role = "Tech Champion"
	RoleManager      Role = "Manager"
	RoleAdmin        Role = "Admin/HR"
)

var Roles = []Role{RoleCandidate, RoleTechChampion, RoleManager, RoleAdmin}

func (r Role) Valid() bool {
	for _, known := range Roles {
		if r == known {
			return true
		}
	}
	return false
}

// IsApprover reports whether the role may transition request statuses.
// Every role except the base candidate role can.
func (r Role) IsApprover() bool {
	return r.Valid() && r != RoleCandidate
}

const (
	StatusActive   = "Active"
	StatusInactive = "Inactive"

	DefaultDepartment = "General"
	DefaultLocation   = "Cape Town Campus"
)

// User is the portal account. ID is the auth collaborator's uid.
type User struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Role       Role   `json:"role"`
	Email      string `json:"email,omitempty"`
	Phone      string `json:"phone,omitempty"`
	Department string `json:"department,omitempty"`
	Status     string `json:"status,omitempty"`
	CohortID   string `json:"cohortId,omitempty"`
	Location   string `json:"location,omitempty"`
	Bio        string `json:"bio,omitempty"`
	Avatar     string `json:"avatar"`
	LastActive string `json:"lastActive,omitempty"`
}

// ProfileFields is the self-service editable subset of a User. Empty means
// "no change proposed".
type ProfileFields struct {
	Phone    string `json:"phone,omitempty"`
	Location string `json:"location,omitempty"`
	Bio      string `json:"bio,omitempty"`
}

func (p ProfileFields) IsEmpty() bool {
	return strings.TrimSpace(p.Phone) == "" &&
		strings.TrimSpace(p.Location) == "" &&
		strings.TrimSpace(p.Bio) == ""
}

// Fields returns the proposed values keyed by their User JSON names.
func (p ProfileFields) Fields() map[string]any {
	out := map[string]any{}
	if strings.TrimSpace(p.Phone) != "" {
		out["phone"] = p.Phone
	}
	if strings.TrimSpace(p.Location) != "" {
		out["location"] = p.Location
	}
	if strings.TrimSpace(p.Bio) != "" {
		out["bio"] = p.Bio
	}
	return out
}

// ProvisionInput is what an admin supplies to create an account.
type ProvisionInput struct {
	Name       string `json:"name" validate:"required"`
	Email      string `json:"email" validate:"required,email"`
	Password   string `json:"password" validate:"required,min=6"`
	Role       Role   `json:"role"`
	Department string `json:"department,omitempty"`
	Phone      string `json:"phone,omitempty"`
	Location   string `json:"location,omitempty"`
	CohortID   string `json:"cohortId,omitempty"`
	Avatar     string `json:"avatar,omitempty"`
}

// AdminUpdate carries the fields an admin may edit; nil leaves a field as is.
type AdminUpdate struct {
	Name       *string `json:"name,omitempty"`
	Role       *Role   `json:"role,omitempty"`
	Department *string `json:"department,omitempty"`
	Status     *string `json:"status,omitempty"`
	CohortID   *string `json:"cohortId,omitempty"`
	Phone      *string `json:"phone,omitempty"`
	Location   *string `json:"location,omitempty"`
}
