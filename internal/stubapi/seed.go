package stubapi

import (
	"fmt"

	"github.com/feedbackhub/portal/internal/core/domain"
)

// SeedPassword is the password of every seeded account.
const SeedPassword = "password123"

type seedUser struct {
	name, email string
	role        domain.Role
	manager     string
}

var seedUsers = []seedUser{
	{name: "Maria Manager", email: "maria@example.com", role: domain.RoleManager},
	{name: "Evan Employee", email: "evan@example.com", role: domain.RoleEmployee, manager: "maria@example.com"},
	{name: "Erin Employee", email: "erin@example.com", role: domain.RoleEmployee, manager: "maria@example.com"},
}

var seedFeedback = []struct {
	employee  string
	strengths string
	improve   string
	sentiment domain.Sentiment
}{
	{"evan@example.com", "Ships reliable code and reviews thoroughly.", "Share progress earlier in the sprint.", domain.SentimentPositive},
	{"evan@example.com", "Handled the incident calmly.", "Write the postmortem within a week.", domain.SentimentNeutral},
	{"erin@example.com", "Great onboarding docs.", "Estimate tasks more conservatively.", domain.SentimentPositive},
}

// Seed loads a manager with two reports and some feedback into an empty
// store.
func Seed(s *Store) error {
	hash, err := hashPassword(SeedPassword)
	if err != nil {
		return err
	}

	ids := make(map[string]int64, len(seedUsers))
	for _, su := range seedUsers {
		u := user{Name: su.name, Email: su.email, PasswordHash: hash, Role: su.role}
		if su.manager != "" {
			id := ids[su.manager]
			u.ManagerID = &id
		}
		created, err := s.CreateUser(u)
		if err != nil {
			return fmt.Errorf("seed user %s: %w", su.email, err)
		}
		ids[su.email] = created.ID
	}

	for _, sf := range seedFeedback {
		emp, err := s.UserByID(ids[sf.employee])
		if err != nil {
			return fmt.Errorf("seed feedback for %s: %w", sf.employee, err)
		}
		_, err = s.CreateFeedback(*emp.ManagerID, feedback{
			Strengths:      sf.strengths,
			AreasToImprove: sf.improve,
			Sentiment:      sf.sentiment,
			EmployeeID:     emp.ID,
		})
		if err != nil {
			return fmt.Errorf("seed feedback for %s: %w", sf.employee, err)
		}
	}
	return nil
}
