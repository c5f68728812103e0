package main

import (
	"fmt"

	"github.com/prospectbd/cadence/internal/sdlc"
	"github.com/prospectbd/cadence/internal/team"
	"github.com/prospectbd/cadence/internal/user"
)

// loadDemoData populates the stores with a small delivery-team setup. The
// store is volatile, so this runs on serve startup behind the --seed flag
// rather than as a standalone command.
func loadDemoData(store *sdlc.Store, teams *team.Store, users *user.Store) error {
	demoUsers := []user.CreateUserInput{
		{ID: "u-maria", Name: "Maria Khan", Email: "maria@example.com", Role: sdlc.RoleManager, ContractHoursPerWeek: 40, Timezone: "Asia/Dhaka"},
		{ID: "u-tariq", Name: "Tariq Ahmed", Email: "tariq@example.com", Role: sdlc.RoleTeamLead, ContractHoursPerWeek: 40, Timezone: "Asia/Dhaka"},
		{ID: "u-nadia", Name: "Nadia Rahman", Email: "nadia@example.com", Role: sdlc.RoleCoder, ContractHoursPerWeek: 40, Timezone: "Asia/Dhaka",
			Skills: []user.Skill{{Name: "Go", Level: user.SkillAdvanced}, {Name: "PostgreSQL", Level: user.SkillIntermediate}}},
		{ID: "u-rafi", Name: "Rafi Chowdhury", Email: "rafi@example.com", Role: sdlc.RoleCoder, ContractHoursPerWeek: 30, Timezone: "Asia/Dhaka"},
	}
	for _, input := range demoUsers {
		if _, err := users.AddUser(input); err != nil {
			return fmt.Errorf("seeding user %q: %w", input.ID, err)
		}
	}

	t, err := teams.AddTeam(team.CreateTeamInput{
		ID:          "team-core",
		Name:        "Core Platform",
		Description: "Backend and platform delivery team",
		Status:      team.TeamActive,
	})
	if err != nil {
		return fmt.Errorf("seeding team: %w", err)
	}
	for _, uid := range []string{"u-maria", "u-tariq", "u-nadia", "u-rafi"} {
		if _, err := teams.AddMember(t.ID, team.Member{UserID: uid, Role: "member", JoinDate: "2026-01-05", Status: "Active"}); err != nil {
			return fmt.Errorf("seeding team member %q: %w", uid, err)
		}
	}
	if _, err := teams.AddSubTeam(t.ID, team.CreateSubTeamInput{ID: "sub-api", Name: "API Squad", Description: "Service endpoints and contracts"}); err != nil {
		return fmt.Errorf("seeding sub-team: %w", err)
	}
	for _, uid := range []string{"u-tariq", "u-nadia"} {
		if _, err := teams.AddSubTeamMember(t.ID, "sub-api", uid); err != nil {
			return fmt.Errorf("seeding sub-team member %q: %w", uid, err)
		}
	}

	p, err := store.AddProject(sdlc.CreateProjectInput{
		ID:          "proj-billing",
		Name:        "Billing Revamp",
		Description: "Rebuild invoicing and payment reconciliation",
		ManagerID:   "u-maria",
		TeamLeadID:  "u-tariq",
		Status:      sdlc.ProjectImplementation,
		StartDate:   "2026-08-01",
		EndDate:     "2026-12-31",
	})
	if err != nil {
		return fmt.Errorf("seeding project: %w", err)
	}

	m, err := store.AddModule(sdlc.CreateModuleInput{
		ID:          "mod-invoicing",
		ProjectID:   p.ID,
		Name:        "Invoicing",
		Description: "Invoice generation and delivery",
		Status:      sdlc.ModuleActive,
	})
	if err != nil {
		return fmt.Errorf("seeding module: %w", err)
	}

	parent, err := store.AddSprint(sdlc.CreateSprintInput{
		ID:        "sprint-p1",
		ProjectID: p.ID,
		Scope:     sdlc.ScopeProject,
		Name:      "August Increment",
		StartDate: "2026-08-03",
		EndDate:   "2026-08-28",
		Status:    sdlc.SprintActive,
		Goal:      "First invoicing slice end to end",
	})
	if err != nil {
		return fmt.Errorf("seeding project sprint: %w", err)
	}

	if _, err := store.AddSprint(sdlc.CreateSprintInput{
		ID:                    "sprint-m1",
		ProjectID:             p.ID,
		ModuleID:              &m.ID,
		ParentProjectSprintID: &parent.ID,
		Scope:                 sdlc.ScopeModule,
		Name:                  "Invoicing Sprint 1",
		StartDate:             "2026-08-03",
		EndDate:               "2026-08-14",
		Status:                sdlc.SprintActive,
	}); err != nil {
		return fmt.Errorf("seeding module sprint: %w", err)
	}

	st, err := store.AddStory(sdlc.CreateStoryInput{
		ID:       "story-pdf",
		ModuleID: m.ID,
		Title:    "Generate PDF invoices",
		Description: "As a billing admin I can download a PDF for any invoice",
		AcceptanceCriteria: []string{
			"PDF matches the printed template",
			"Amounts are taken from the finalized invoice",
		},
		Priority: sdlc.PriorityHigh,
		Status:   sdlc.StoryInProgress,
		Points:   5,
	})
	if err != nil {
		return fmt.Errorf("seeding story: %w", err)
	}

	assignee := "u-nadia"
	if _, err := store.AddTask(sdlc.CreateTaskInput{
		ID:             "task-render",
		ModuleID:       m.ID,
		UserStoryID:    &st.ID,
		Title:          "Render invoice template",
		Description:    "Fill the invoice template from the order model",
		Status:         sdlc.TaskInProgress,
		AssigneeID:     &assignee,
		RequiredSkills: []string{"Go"},
		EstimatedHours: 8,
	}); err != nil {
		return fmt.Errorf("seeding task: %w", err)
	}

	return nil
}
