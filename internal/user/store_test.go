package user

import (
	"errors"
	"testing"

	"github.com/prospectbd/cadence/internal/sdlc"
)

func TestAddUserGeneratesID(t *testing.T) {
	s := NewStore()

	u, err := s.AddUser(CreateUserInput{Name: "Nadia", Email: "nadia@example.com", Role: sdlc.RoleCoder})
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	if u.ID == "" {
		t.Fatal("user should get a generated id")
	}

	explicit, err := s.AddUser(CreateUserInput{ID: "u-tariq", Name: "Tariq", Role: sdlc.RoleTeamLead})
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	if explicit.ID != "u-tariq" {
		t.Fatalf("id = %q, want u-tariq", explicit.ID)
	}
	if s.Count() != 2 {
		t.Fatalf("count = %d, want 2", s.Count())
	}
}

func TestUpdateUserMergesFields(t *testing.T) {
	s := NewStore()
	if _, err := s.AddUser(CreateUserInput{
		ID:     "u1",
		Name:   "Nadia",
		Email:  "nadia@example.com",
		Role:   sdlc.RoleCoder,
		Skills: []Skill{{Name: "Go", Level: SkillAdvanced}},
	}); err != nil {
		t.Fatalf("add: %v", err)
	}

	hours := 32.0
	got, err := s.UpdateUser("u1", UpdateUserInput{ContractHoursPerWeek: &hours})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if got.ContractHoursPerWeek != 32 {
		t.Fatalf("hours = %v, want 32", got.ContractHoursPerWeek)
	}
	if got.Name != "Nadia" || len(got.Skills) != 1 {
		t.Fatal("untouched fields must survive")
	}

	if _, err := s.UpdateUser("ghost", UpdateUserInput{Name: &got.Name}); !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestDeleteUser(t *testing.T) {
	s := NewStore()
	if _, err := s.AddUser(CreateUserInput{ID: "u1", Name: "Nadia"}); err != nil {
		t.Fatalf("add: %v", err)
	}

	if err := s.DeleteUser("u1"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := s.User("u1"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
	if err := s.DeleteUser("u1"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestReturnedUserIsDetached(t *testing.T) {
	s := NewStore()
	if _, err := s.AddUser(CreateUserInput{
		ID:     "u1",
		Name:   "Nadia",
		Skills: []Skill{{Name: "Go", Level: SkillAdvanced}},
	}); err != nil {
		t.Fatalf("add: %v", err)
	}

	got, err := s.User("u1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	got.Skills[0].Name = "mutated"

	fresh, err := s.User("u1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if fresh.Skills[0].Name != "Go" {
		t.Fatal("mutating a returned user must not affect the store")
	}
}
