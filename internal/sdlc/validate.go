package sdlc

import (
	"errors"
	"time"
)

// dateLayout is the calendar-date format used throughout the hierarchy.
const dateLayout = "2006-01-02"

// Validation errors. A mutation that trips one of these is a no-op: the
// store's prior state is preserved and the caller gets the sentinel back.
var (
	ErrInvalidDateRange     = errors.New("start_date and end_date must be valid dates with start <= end")
	ErrUnknownProject       = errors.New("project_id does not reference an existing project")
	ErrUnknownModule        = errors.New("module_id does not reference an existing module")
	ErrUnknownSprint        = errors.New("sprint_id does not reference an existing sprint")
	ErrProjectScopeFields   = errors.New("project-scoped sprint must not carry module_id or parent_project_sprint_id")
	ErrModuleOutsideProject = errors.New("module_id must reference a module in the sprint's project")
	ErrInvalidParentSprint  = errors.New("parent_project_sprint_id must reference a project-scoped sprint in the same project")
	ErrSprintOutsideParent  = errors.New("module sprint dates must lie within the parent sprint's range")
	ErrSprintWrongProject   = errors.New("sprint belongs to a different project than the task's module")
	ErrSprintWrongModule    = errors.New("module-scoped sprint belongs to a different module than the task")
	ErrLevelChangeForbidden = errors.New("acting role may not change a task's hierarchy level")
)

// parseDate parses a YYYY-MM-DD calendar date.
func parseDate(s string) (time.Time, error) {
	return time.Parse(dateLayout, s)
}

// validateSprint checks a fully-merged sprint candidate against the current
// collections. Checks run in order and short-circuit on the first failure,
// so update cannot smuggle in an inconsistent hierarchy that create would
// have rejected.
func validateSprint(candidate Sprint, sprints []Sprint, modules []Module, projects []Project) error {
	start, err := parseDate(candidate.StartDate)
	if err != nil {
		return ErrInvalidDateRange
	}
	end, err := parseDate(candidate.EndDate)
	if err != nil {
		return ErrInvalidDateRange
	}
	if start.After(end) {
		return ErrInvalidDateRange
	}

	if findProject(projects, candidate.ProjectID) == nil {
		return ErrUnknownProject
	}

	if candidate.Scope == ScopeProject {
		if candidate.ParentProjectSprintID != nil || candidate.ModuleID != nil {
			return ErrProjectScopeFields
		}
		return nil
	}

	// Module scope: the module must exist inside the sprint's project.
	if candidate.ModuleID == nil {
		return ErrModuleOutsideProject
	}
	mod := findModule(modules, *candidate.ModuleID)
	if mod == nil || mod.ProjectID != candidate.ProjectID {
		return ErrModuleOutsideProject
	}

	// The parent must be a project-scoped sprint of the same project.
	if candidate.ParentProjectSprintID == nil {
		return ErrInvalidParentSprint
	}
	parent := findSprint(sprints, *candidate.ParentProjectSprintID)
	if parent == nil || parent.ProjectID != candidate.ProjectID || parent.ModuleID != nil {
		return ErrInvalidParentSprint
	}

	// Inclusive containment of the date range inside the parent's.
	pStart, err := parseDate(parent.StartDate)
	if err != nil {
		return ErrInvalidParentSprint
	}
	pEnd, err := parseDate(parent.EndDate)
	if err != nil {
		return ErrInvalidParentSprint
	}
	if start.Before(pStart) || end.After(pEnd) {
		return ErrSprintOutsideParent
	}
	return nil
}

// resolveTaskLevel derives a task's hierarchy level from its foreign keys:
// UserStory when a story reference is set, Module when the module anchor
// still resolves, Project otherwise.
func resolveTaskLevel(t Task, modules []Module) TaskLevel {
	if t.UserStoryID != nil && *t.UserStoryID != "" {
		return LevelUserStory
	}
	if findModule(modules, t.ModuleID) != nil {
		return LevelModule
	}
	return LevelProject
}

// validateTaskSprintAssignment checks that a task may be placed in the
// given sprint. A nil target always passes (it clears the assignment).
func validateTaskSprintAssignment(t Task, targetSprintID *string, sprints []Sprint, modules []Module) error {
	if targetSprintID == nil || *targetSprintID == "" {
		return nil
	}
	sp := findSprint(sprints, *targetSprintID)
	if sp == nil {
		return ErrUnknownSprint
	}
	mod := findModule(modules, t.ModuleID)
	if mod == nil {
		return ErrUnknownModule
	}
	if sp.ProjectID != mod.ProjectID {
		return ErrSprintWrongProject
	}
	if sp.Scope == ScopeModule {
		// A task cannot be placed in another module's sprint even within
		// the same project.
		if sp.ModuleID == nil || *sp.ModuleID != t.ModuleID {
			return ErrSprintWrongModule
		}
		if sp.ParentProjectSprintID == nil {
			return ErrInvalidParentSprint
		}
		parent := findSprint(sprints, *sp.ParentProjectSprintID)
		if parent == nil || parent.ProjectID != sp.ProjectID || parent.ModuleID != nil {
			return ErrInvalidParentSprint
		}
	} else if sp.ModuleID != nil {
		return ErrProjectScopeFields
	}
	return nil
}

func findProject(projects []Project, id string) *Project {
	for i := range projects {
		if projects[i].ID == id {
			return &projects[i]
		}
	}
	return nil
}

func findModule(modules []Module, id string) *Module {
	for i := range modules {
		if modules[i].ID == id {
			return &modules[i]
		}
	}
	return nil
}

func findSprint(sprints []Sprint, id string) *Sprint {
	for i := range sprints {
		if sprints[i].ID == id {
			return &sprints[i]
		}
	}
	return nil
}
