package stubapi

import (
	"errors"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/feedbackhub/portal/internal/core/domain"
)

var (
	errEmailTaken      = errors.New("email already registered")
	errInvalidManager  = errors.New("invalid manager id")
	errUserNotFound    = errors.New("user not found")
	errNotYourEmployee = errors.New("employee does not report to this manager")
	errNotYourFeedback = errors.New("feedback does not belong to this employee")
)

type user struct {
	ID           int64
	Name         string
	Email        string
	PasswordHash string
	Role         domain.Role
	ManagerID    *int64
	CreatedAt    time.Time
}

func (u *user) out() userOut {
	return userOut{ID: u.ID, Name: u.Name, Email: u.Email, Role: u.Role, ManagerID: u.ManagerID}
}

type feedback struct {
	ID             int64
	Strengths      string
	AreasToImprove string
	Sentiment      domain.Sentiment
	EmployeeID     int64
	ManagerID      int64
	Acknowledged   bool
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// Store is the stub backend's in-memory database.
type Store struct {
	mu       sync.RWMutex
	users    map[int64]*user
	byEmail  map[string]int64
	feedback map[int64]*feedback
	nextUser int64
	nextFb   int64
	now      func() time.Time
}

func NewStore() *Store {
	return &Store{
		users:    make(map[int64]*user),
		byEmail:  make(map[string]int64),
		feedback: make(map[int64]*feedback),
		now:      func() time.Time { return time.Now().UTC() },
	}
}

func emailKey(email string) string { return strings.ToLower(strings.TrimSpace(email)) }

// CreateUser stores u and assigns its id. Employees must name an existing
// manager.
func (s *Store) CreateUser(u user) (user, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := emailKey(u.Email)
	if _, exists := s.byEmail[key]; exists {
		return user{}, errEmailTaken
	}
	if u.Role == domain.RoleEmployee {
		if u.ManagerID == nil {
			return user{}, errInvalidManager
		}
		m, ok := s.users[*u.ManagerID]
		if !ok || m.Role != domain.RoleManager {
			return user{}, errInvalidManager
		}
	} else {
		u.ManagerID = nil
	}

	s.nextUser++
	u.ID = s.nextUser
	u.CreatedAt = s.now()
	stored := u
	s.users[u.ID] = &stored
	s.byEmail[key] = u.ID
	return u, nil
}

func (s *Store) UserByEmail(email string) (user, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	id, ok := s.byEmail[emailKey(email)]
	if !ok {
		return user{}, errUserNotFound
	}
	return *s.users[id], nil
}

func (s *Store) UserByID(id int64) (user, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.users[id]
	if !ok {
		return user{}, errUserNotFound
	}
	return *u, nil
}

// Team returns the manager's direct reports with their feedback tallies,
// ordered by employee id.
func (s *Store) Team(managerID int64) []teamMember {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var team []teamMember
	for _, u := range s.users {
		if u.ManagerID == nil || *u.ManagerID != managerID {
			continue
		}
		m := teamMember{
			Employee: employeeOut{ID: u.ID, Name: u.Name, Email: u.Email, Role: u.Role},
		}
		for _, fb := range s.feedback {
			if fb.EmployeeID == u.ID {
				m.FeedbackCount++
				m.Sentiments.Add(fb.Sentiment)
			}
		}
		team = append(team, m)
	}
	sort.Slice(team, func(i, j int) bool { return team[i].Employee.ID < team[j].Employee.ID })
	return team
}

// FeedbackFor lists an employee's feedback, newest first. The employee must
// report to managerID.
func (s *Store) FeedbackFor(managerID, employeeID int64) ([]feedback, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	emp, ok := s.users[employeeID]
	if !ok || emp.ManagerID == nil || *emp.ManagerID != managerID {
		return nil, errNotYourEmployee
	}
	return s.feedbackOf(employeeID), nil
}

// feedbackOf must be called with s.mu held.
func (s *Store) feedbackOf(employeeID int64) []feedback {
	out := make([]feedback, 0)
	for _, fb := range s.feedback {
		if fb.EmployeeID == employeeID {
			out = append(out, *fb)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID > out[j].ID
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out
}

// CreateFeedback stores feedback from managerID. The employee must report
// to that manager.
func (s *Store) CreateFeedback(managerID int64, fb feedback) (feedback, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	emp, ok := s.users[fb.EmployeeID]
	if !ok || emp.ManagerID == nil || *emp.ManagerID != managerID {
		return feedback{}, errNotYourEmployee
	}
	s.nextFb++
	fb.ID = s.nextFb
	fb.ManagerID = managerID
	fb.Acknowledged = false
	fb.CreatedAt = s.now()
	fb.UpdatedAt = fb.CreatedAt
	stored := fb
	s.feedback[fb.ID] = &stored
	return fb, nil
}

// Timeline lists the employee's feedback, newest first, with manager names.
func (s *Store) Timeline(employeeID int64) []timelineItem {
	s.mu.RLock()
	defer s.mu.RUnlock()

	items := s.feedbackOf(employeeID)
	out := make([]timelineItem, 0, len(items))
	for _, fb := range items {
		name := "Unknown Manager"
		if m, ok := s.users[fb.ManagerID]; ok {
			name = m.Name
		}
		out = append(out, timelineItem{
			ID:             fb.ID,
			Sentiment:      fb.Sentiment,
			Strengths:      fb.Strengths,
			AreasToImprove: fb.AreasToImprove,
			Acknowledged:   fb.Acknowledged,
			CreatedAt:      fb.CreatedAt,
			ManagerName:    name,
		})
	}
	return out
}

// Acknowledge marks the employee's own feedback as read. Acknowledging twice
// is not an error.
func (s *Store) Acknowledge(employeeID, feedbackID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	fb, ok := s.feedback[feedbackID]
	if !ok || fb.EmployeeID != employeeID {
		return errNotYourFeedback
	}
	if !fb.Acknowledged {
		fb.Acknowledged = true
		fb.UpdatedAt = s.now()
	}
	return nil
}
