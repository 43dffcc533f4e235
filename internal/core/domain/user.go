package domain

import (
	"encoding/json"
	"fmt"
)

// Role is the closed set of roles a user can hold.
type Role string

const (
	RoleManager  Role = "Manager"
	RoleEmployee Role = "Employee"
)

// ParseRole converts a wire value into a Role.
func ParseRole(s string) (Role, error) {
	switch Role(s) {
	case RoleManager:
		return RoleManager, nil
	case RoleEmployee:
		return RoleEmployee, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownRole, s)
}

// DashboardPath is the landing page for the role.
func (r Role) DashboardPath() string {
	switch r {
	case RoleManager:
		return "/manager-dashboard"
	case RoleEmployee:
		return "/employee-dashboard"
	}
	return "/"
}

func (r *Role) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	parsed, err := ParseRole(s)
	if err != nil {
		return err
	}
	*r = parsed
	return nil
}

// User models the identity returned by GET /me.
type User struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	Role      Role   `json:"role"`
	ManagerID *int64 `json:"managerId,omitempty"`
}

// Employee is the identity part of a roster entry.
type Employee struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  Role   `json:"role"`
}

// Registration is the payload for POST /register.
type Registration struct {
	Name      string `json:"name"`
	Email     string `json:"email"`
	Password  string `json:"password"`
	Role      Role   `json:"role"`
	ManagerID *int64 `json:"manager_id,omitempty"`
}
