package team

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
)

var (
	// ErrNotFound is wrapped by lookups that name a missing team,
	// sub-team, or member.
	ErrNotFound = errors.New("not found")

	ErrMemberExists  = errors.New("user is already a member of the team")
	ErrNotTeamMember = errors.New("user is not a member of the parent team")
)

// Store holds teams with their members and sub-teams. Membership
// uniqueness and sub-team containment are the only enforced invariants.
type Store struct {
	mu    sync.Mutex
	teams []Team
	now   func() time.Time
}

func NewStore() *Store {
	return &Store{now: time.Now}
}

func (s *Store) AddTeam(input CreateTeamInput) (*Team, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	t := Team{
		ID:          input.ID,
		Name:        input.Name,
		Description: input.Description,
		CreatedAt:   s.now(),
		Status:      input.Status,
		LeadID:      clonePtr(input.LeadID),
		Members:     []Member{},
		SubTeams:    []SubTeam{},
	}
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	if t.Status == "" {
		t.Status = TeamActive
	}
	s.teams = append(s.teams, t)

	out := cloneTeam(t)
	return &out, nil
}

func (s *Store) Team(id string) (*Team, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	t := s.find(id)
	if t == nil {
		return nil, fmt.Errorf("team %q: %w", id, ErrNotFound)
	}
	out := cloneTeam(*t)
	return &out, nil
}

func (s *Store) ListTeams() []Team {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]Team, 0, len(s.teams))
	for _, t := range s.teams {
		out = append(out, cloneTeam(t))
	}
	return out
}

func (s *Store) UpdateTeam(id string, input UpdateTeamInput) (*Team, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	t := s.find(id)
	if t == nil {
		return nil, fmt.Errorf("team %q: %w", id, ErrNotFound)
	}
	if input.Name != nil {
		t.Name = *input.Name
	}
	if input.Description != nil {
		t.Description = *input.Description
	}
	if input.Status != nil {
		t.Status = *input.Status
	}
	if input.LeadID != nil {
		t.LeadID = clonePtr(input.LeadID)
	}
	out := cloneTeam(*t)
	return &out, nil
}

func (s *Store) DeleteTeam(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.find(id) == nil {
		return fmt.Errorf("team %q: %w", id, ErrNotFound)
	}
	teams := make([]Team, 0, len(s.teams))
	for _, t := range s.teams {
		if t.ID != id {
			teams = append(teams, t)
		}
	}
	s.teams = teams
	return nil
}

// AddMember appends a member to the team. Each user may appear at most
// once in a team's membership.
func (s *Store) AddMember(teamID string, m Member) (*Team, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	t := s.find(teamID)
	if t == nil {
		return nil, fmt.Errorf("team %q: %w", teamID, ErrNotFound)
	}
	for _, existing := range t.Members {
		if existing.UserID == m.UserID {
			return nil, ErrMemberExists
		}
	}
	t.Members = append(t.Members, m)

	out := cloneTeam(*t)
	return &out, nil
}

// RemoveMember drops a member from the team and from all of its sub-teams.
func (s *Store) RemoveMember(teamID, userID string) (*Team, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	t := s.find(teamID)
	if t == nil {
		return nil, fmt.Errorf("team %q: %w", teamID, ErrNotFound)
	}

	members := make([]Member, 0, len(t.Members))
	for _, m := range t.Members {
		if m.UserID != userID {
			members = append(members, m)
		}
	}
	t.Members = members
	for i := range t.SubTeams {
		t.SubTeams[i].Members = removeString(t.SubTeams[i].Members, userID)
	}

	out := cloneTeam(*t)
	return &out, nil
}

func (s *Store) UpdateMember(teamID, userID string, input UpdateMemberInput) (*Team, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	t := s.find(teamID)
	if t == nil {
		return nil, fmt.Errorf("team %q: %w", teamID, ErrNotFound)
	}
	for i := range t.Members {
		if t.Members[i].UserID != userID {
			continue
		}
		if input.Role != nil {
			t.Members[i].Role = *input.Role
		}
		if input.Status != nil {
			t.Members[i].Status = *input.Status
		}
		out := cloneTeam(*t)
		return &out, nil
	}
	return nil, fmt.Errorf("member %q: %w", userID, ErrNotFound)
}

func (s *Store) AddSubTeam(teamID string, input CreateSubTeamInput) (*Team, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	t := s.find(teamID)
	if t == nil {
		return nil, fmt.Errorf("team %q: %w", teamID, ErrNotFound)
	}
	st := SubTeam{
		ID:          input.ID,
		TeamID:      teamID,
		Name:        input.Name,
		Description: input.Description,
		LeadID:      clonePtr(input.LeadID),
		Members:     []string{},
	}
	if st.ID == "" {
		st.ID = uuid.NewString()
	}
	t.SubTeams = append(t.SubTeams, st)

	out := cloneTeam(*t)
	return &out, nil
}

// AddSubTeamMember adds a user to a sub-team. The user must already be a
// member of the parent team, and may appear at most once in the sub-team.
func (s *Store) AddSubTeamMember(teamID, subTeamID, userID string) (*Team, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	t := s.find(teamID)
	if t == nil {
		return nil, fmt.Errorf("team %q: %w", teamID, ErrNotFound)
	}

	isMember := false
	for _, m := range t.Members {
		if m.UserID == userID {
			isMember = true
			break
		}
	}
	if !isMember {
		return nil, ErrNotTeamMember
	}

	for i := range t.SubTeams {
		if t.SubTeams[i].ID != subTeamID {
			continue
		}
		for _, existing := range t.SubTeams[i].Members {
			if existing == userID {
				return nil, ErrMemberExists
			}
		}
		t.SubTeams[i].Members = append(t.SubTeams[i].Members, userID)
		out := cloneTeam(*t)
		return &out, nil
	}
	return nil, fmt.Errorf("sub-team %q: %w", subTeamID, ErrNotFound)
}

func (s *Store) RemoveSubTeamMember(teamID, subTeamID, userID string) (*Team, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	t := s.find(teamID)
	if t == nil {
		return nil, fmt.Errorf("team %q: %w", teamID, ErrNotFound)
	}
	for i := range t.SubTeams {
		if t.SubTeams[i].ID != subTeamID {
			continue
		}
		t.SubTeams[i].Members = removeString(t.SubTeams[i].Members, userID)
		out := cloneTeam(*t)
		return &out, nil
	}
	return nil, fmt.Errorf("sub-team %q: %w", subTeamID, ErrNotFound)
}

// Count reports the number of teams, for metrics.
func (s *Store) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.teams)
}

func (s *Store) find(id string) *Team {
	for i := range s.teams {
		if s.teams[i].ID == id {
			return &s.teams[i]
		}
	}
	return nil
}

func removeString(in []string, v string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		if s != v {
			out = append(out, s)
		}
	}
	return out
}

func clonePtr(p *string) *string {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

func cloneTeam(t Team) Team {
	t.LeadID = clonePtr(t.LeadID)
	members := make([]Member, len(t.Members))
	copy(members, t.Members)
	t.Members = members
	subTeams := make([]SubTeam, len(t.SubTeams))
	for i, st := range t.SubTeams {
		st.LeadID = clonePtr(st.LeadID)
		ms := make([]string, len(st.Members))
		copy(ms, st.Members)
		st.Members = ms
		subTeams[i] = st
	}
	t.SubTeams = subTeams
	return t
}
