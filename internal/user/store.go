package user

import (
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"
)

// ErrNotFound is wrapped by lookups that name a missing user.
var ErrNotFound = errors.New("not found")

// Store is the in-memory user directory.
type Store struct {
	mu    sync.Mutex
	users []User
}

func NewStore() *Store {
	return &Store{}
}

func (s *Store) AddUser(input CreateUserInput) (*User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	u := User{
		ID:                   input.ID,
		Name:                 input.Name,
		Email:                input.Email,
		Role:                 input.Role,
		ContractHoursPerWeek: input.ContractHoursPerWeek,
		AvailableHours:       input.AvailableHours,
		Skills:               cloneSkills(input.Skills),
		Timezone:             input.Timezone,
		WeeklyAvailability:   cloneSchedule(input.WeeklyAvailability),
	}
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	s.users = append(s.users, u)

	out := cloneUser(u)
	return &out, nil
}

func (s *Store) User(id string) (*User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	u := s.find(id)
	if u == nil {
		return nil, fmt.Errorf("user %q: %w", id, ErrNotFound)
	}
	out := cloneUser(*u)
	return &out, nil
}

func (s *Store) ListUsers() []User {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]User, 0, len(s.users))
	for _, u := range s.users {
		out = append(out, cloneUser(u))
	}
	return out
}

func (s *Store) UpdateUser(id string, input UpdateUserInput) (*User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	u := s.find(id)
	if u == nil {
		return nil, fmt.Errorf("user %q: %w", id, ErrNotFound)
	}
	if input.Name != nil {
		u.Name = *input.Name
	}
	if input.Email != nil {
		u.Email = *input.Email
	}
	if input.Role != nil {
		u.Role = *input.Role
	}
	if input.ContractHoursPerWeek != nil {
		u.ContractHoursPerWeek = *input.ContractHoursPerWeek
	}
	if input.AvailableHours != nil {
		u.AvailableHours = *input.AvailableHours
	}
	if input.Skills != nil {
		u.Skills = cloneSkills(*input.Skills)
	}
	if input.Timezone != nil {
		u.Timezone = *input.Timezone
	}
	if input.WeeklyAvailability != nil {
		u.WeeklyAvailability = cloneSchedule(*input.WeeklyAvailability)
	}

	out := cloneUser(*u)
	return &out, nil
}

func (s *Store) DeleteUser(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.find(id) == nil {
		return fmt.Errorf("user %q: %w", id, ErrNotFound)
	}
	users := make([]User, 0, len(s.users))
	for _, u := range s.users {
		if u.ID != id {
			users = append(users, u)
		}
	}
	s.users = users
	return nil
}

// Count reports the number of users, for metrics.
func (s *Store) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.users)
}

func (s *Store) find(id string) *User {
	for i := range s.users {
		if s.users[i].ID == id {
			return &s.users[i]
		}
	}
	return nil
}

func cloneSkills(in []Skill) []Skill {
	if in == nil {
		return nil
	}
	out := make([]Skill, len(in))
	copy(out, in)
	return out
}

func cloneSchedule(in []DaySchedule) []DaySchedule {
	if in == nil {
		return nil
	}
	out := make([]DaySchedule, len(in))
	for i, d := range in {
		slots := make([]TimeSlot, len(d.Slots))
		copy(slots, d.Slots)
		d.Slots = slots
		out[i] = d
	}
	return out
}

func cloneUser(u User) User {
	u.Skills = cloneSkills(u.Skills)
	u.WeeklyAvailability = cloneSchedule(u.WeeklyAvailability)
	return u
}
