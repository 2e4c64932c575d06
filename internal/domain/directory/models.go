package directory

import (
	"strings"
	"time"
)

// Department and gender enums mirror the values the client renders.
var (
	Departments = []string{"Technical", "Non-technical", "Support", "HR"}
	Genders     = []string{"Male", "Female", "Other"}
	Roles       = []string{"employee", "admin"}
)

// Canonical maps a case-insensitive enum match to its listed casing, so
// "technical" is stored as "Technical". Unmatched values pass through trimmed.
func Canonical(value string, allowed []string) string {
	trimmed := strings.TrimSpace(value)
	for _, candidate := range allowed {
		if strings.EqualFold(trimmed, candidate) {
			return candidate
		}
	}
	return trimmed
}

type Employee struct {
	ID            string     `json:"id"`
	EmployeeID    string     `json:"employeeId"`
	Name          string     `json:"name"`
	Email         string     `json:"email"`
	PasswordHash  string     `json:"-"`
	Department    string     `json:"department"`
	Role          string     `json:"role"`
	Image         string     `json:"image,omitempty"`
	IsDeleted     bool       `json:"isDeleted"`
	DateOfBirth   *time.Time `json:"dateOfBirth,omitempty"`
	DateOfJoining *time.Time `json:"dateOfJoining,omitempty"`
	Gender        string     `json:"gender"`
	ContactNumber string     `json:"contactNumber"`
	Designation   string     `json:"designation"`
	Location      string     `json:"location"`
	CreatedAt     time.Time  `json:"createdAt"`
	UpdatedAt     time.Time  `json:"updatedAt"`
}

type CreateInput struct {
	Name          string
	Email         string
	Password      string
	Department    string
	Role          string
	Image         string
	DateOfBirth   time.Time
	DateOfJoining time.Time
	Gender        string
	ContactNumber string
	Designation   string
	Location      string
}

// UpdateInput carries only the fields present in the request; nil means
// "leave unchanged".
type UpdateInput struct {
	Name          *string
	Email         *string
	Password      *string
	Department    *string
	Role          *string
	Image         *string
	DateOfBirth   *time.Time
	DateOfJoining *time.Time
	Gender        *string
	ContactNumber *string
	Designation   *string
	Location      *string
}

type ListQuery struct {
	Page   int
	Limit  int
	Search string
}

type ListResult struct {
	Employees  []Employee `json:"employees"`
	Total      int        `json:"total"`
	Page       int        `json:"page"`
	TotalPages int        `json:"totalPages"`
}
