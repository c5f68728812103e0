package sdlc

import "encoding/json"

// NullableString distinguishes an absent JSON field from an explicit null.
// Set is true whenever the field appeared in the payload; Value is nil for
// an explicit null.
type NullableString struct {
	Set   bool
	Value *string
}

func (n *NullableString) UnmarshalJSON(data []byte) error {
	n.Set = true
	if string(data) == "null" {
		n.Value = nil
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	n.Value = &s
	return nil
}

// Role is the acting user's role, supplied by the caller on role-sensitive
// mutations. The store never looks up identity itself.
type Role string

const (
	RoleAdmin           Role = "Admin"
	RoleManager         Role = "Manager"
	RoleTeamLead        Role = "TeamLead"
	RoleCoder           Role = "Coder"
	RoleGraphicDesigner Role = "GraphicDesigner"
	RoleCICDEngineer    Role = "CICDEngineer"
	RoleSystemAnalyst   Role = "SystemAnalyst"
	RoleSEOExpert       Role = "SEOExpert"
	RoleDigitalMarketer Role = "DigitalMarketer"
)

// CanChangeTaskLevel reports whether the role may re-anchor a task at a
// different hierarchy level.
func (r Role) CanChangeTaskLevel() bool {
	switch r {
	case RoleAdmin, RoleManager, RoleTeamLead:
		return true
	}
	return false
}

type ProjectStatus string

const (
	ProjectPlanning       ProjectStatus = "Planning"
	ProjectDesign         ProjectStatus = "Design"
	ProjectImplementation ProjectStatus = "Implementation"
	ProjectTesting        ProjectStatus = "Testing"
	ProjectDeployment     ProjectStatus = "Deployment"
	ProjectCompleted      ProjectStatus = "Completed"
)

type ModuleStatus string

const (
	ModuleActive    ModuleStatus = "Active"
	ModuleCompleted ModuleStatus = "Completed"
	ModuleOnHold    ModuleStatus = "OnHold"
)

type TaskStatus string

const (
	TaskBacklog    TaskStatus = "Backlog"
	TaskToDo       TaskStatus = "ToDo"
	TaskInProgress TaskStatus = "InProgress"
	TaskReview     TaskStatus = "Review"
	TaskDone       TaskStatus = "Done"
)

// TaskLevel classifies where a task is anchored in the hierarchy. It is
// derived from the task's foreign keys, never trusted as input.
type TaskLevel string

const (
	LevelProject   TaskLevel = "Project"
	LevelModule    TaskLevel = "Module"
	LevelUserStory TaskLevel = "UserStory"
)

// SprintScope is whether a sprint belongs directly to a project or is
// nested under one of its modules.
type SprintScope string

const (
	ScopeProject SprintScope = "Project"
	ScopeModule  SprintScope = "Module"
)

type SprintStatus string

const (
	SprintPlanned   SprintStatus = "Planned"
	SprintActive    SprintStatus = "Active"
	SprintCompleted SprintStatus = "Completed"
)

type StoryPriority string

const (
	PriorityHigh   StoryPriority = "High"
	PriorityMedium StoryPriority = "Medium"
	PriorityLow    StoryPriority = "Low"
)

type StoryStatus string

const (
	StoryBacklog    StoryStatus = "Backlog"
	StoryToDo       StoryStatus = "ToDo"
	StoryInProgress StoryStatus = "InProgress"
	StoryDone       StoryStatus = "Done"
)

// Project is the top of the containment hierarchy. Calendar dates are kept
// as YYYY-MM-DD strings and validated on mutation.
type Project struct {
	ID               string        `json:"id"`
	Name             string        `json:"name"`
	Description      string        `json:"description"`
	ManagerID        string        `json:"manager_id"`
	TeamLeadID       string        `json:"team_lead_id"`
	TeamMemberIDs    []string      `json:"team_member_ids"`
	Status           ProjectStatus `json:"status"`
	StartDate        string        `json:"start_date"`
	EndDate          string        `json:"end_date,omitempty"`
	GitRepositoryURL *string       `json:"git_repository_url,omitempty"`
	AssignedTeamID   *string       `json:"assigned_team_id,omitempty"`
}

// Module belongs to exactly one project; the owner never changes after
// creation.
type Module struct {
	ID                string       `json:"id"`
	ProjectID         string       `json:"project_id"`
	AssignedSubTeamID *string      `json:"assigned_sub_team_id,omitempty"`
	Name              string       `json:"name"`
	Description       string       `json:"description"`
	Status            ModuleStatus `json:"status"`
}

type UserStory struct {
	ID                 string        `json:"id"`
	ModuleID           string        `json:"module_id"`
	SprintID           *string       `json:"sprint_id,omitempty"`
	Title              string        `json:"title"`
	Description        string        `json:"description"`
	AcceptanceCriteria []string      `json:"acceptance_criteria,omitempty"`
	Priority           StoryPriority `json:"priority"`
	Status             StoryStatus   `json:"status"`
	Points             int           `json:"points"`
}

// Task always carries a ModuleID as its legacy anchor; UserStoryID and
// SprintID are optional. TaskLevel is recomputed on every mutation.
type Task struct {
	ID             string     `json:"id"`
	ModuleID       string     `json:"module_id"`
	UserStoryID    *string    `json:"user_story_id,omitempty"`
	Title          string     `json:"title"`
	Description    string     `json:"description"`
	Status         TaskStatus `json:"status"`
	AssigneeID     *string    `json:"assignee_id,omitempty"`
	RequiredSkills []string   `json:"required_skills,omitempty"`
	EstimatedHours float64    `json:"estimated_hours"`
	ActualHours    *float64   `json:"actual_hours,omitempty"`
	DependencyIDs  []string   `json:"dependency_ids,omitempty"`
	SprintID       *string    `json:"sprint_id,omitempty"`
	TaskLevel      TaskLevel  `json:"task_level"`
}

// Sprint is either project-scoped (ModuleID and ParentProjectSprintID both
// nil) or module-scoped (both set, dates nested inside the parent's range).
type Sprint struct {
	ID                    string       `json:"id"`
	ProjectID             string       `json:"project_id"`
	ModuleID              *string      `json:"module_id,omitempty"`
	ParentProjectSprintID *string      `json:"parent_project_sprint_id,omitempty"`
	Scope                 SprintScope  `json:"scope"`
	Name                  string       `json:"name"`
	StartDate             string       `json:"start_date"`
	EndDate               string       `json:"end_date"`
	Status                SprintStatus `json:"status"`
	Goal                  string       `json:"goal"`
}

// CreateProjectInput holds the fields accepted when creating a project.
// ID is optional; the store generates one when it is empty.
type CreateProjectInput struct {
	ID               string        `json:"id"`
	Name             string        `json:"name"`
	Description      string        `json:"description"`
	ManagerID        string        `json:"manager_id"`
	TeamLeadID       string        `json:"team_lead_id"`
	TeamMemberIDs    []string      `json:"team_member_ids"`
	Status           ProjectStatus `json:"status"`
	StartDate        string        `json:"start_date"`
	EndDate          string        `json:"end_date"`
	GitRepositoryURL *string       `json:"git_repository_url"`
	AssignedTeamID   *string       `json:"assigned_team_id"`
}

// UpdateProjectInput holds the fields that can change on a project. All
// fields are optional; only non-nil fields are applied.
type UpdateProjectInput struct {
	Name             *string        `json:"name"`
	Description      *string        `json:"description"`
	ManagerID        *string        `json:"manager_id"`
	TeamLeadID       *string        `json:"team_lead_id"`
	TeamMemberIDs    *[]string      `json:"team_member_ids"`
	Status           *ProjectStatus `json:"status"`
	StartDate        *string        `json:"start_date"`
	EndDate          *string        `json:"end_date"`
	GitRepositoryURL NullableString `json:"git_repository_url"`
	AssignedTeamID   NullableString `json:"assigned_team_id"`
}

type CreateModuleInput struct {
	ID                string       `json:"id"`
	ProjectID         string       `json:"project_id"`
	AssignedSubTeamID *string      `json:"assigned_sub_team_id"`
	Name              string       `json:"name"`
	Description       string       `json:"description"`
	Status            ModuleStatus `json:"status"`
}

// UpdateModuleInput deliberately has no ProjectID field: the owning
// project is immutable.
type UpdateModuleInput struct {
	AssignedSubTeamID NullableString `json:"assigned_sub_team_id"`
	Name              *string        `json:"name"`
	Description       *string        `json:"description"`
	Status            *ModuleStatus  `json:"status"`
}

type CreateStoryInput struct {
	ID                 string        `json:"id"`
	ModuleID           string        `json:"module_id"`
	SprintID           *string       `json:"sprint_id"`
	Title              string        `json:"title"`
	Description        string        `json:"description"`
	AcceptanceCriteria []string      `json:"acceptance_criteria"`
	Priority           StoryPriority `json:"priority"`
	Status             StoryStatus   `json:"status"`
	Points             int           `json:"points"`
}

type UpdateStoryInput struct {
	SprintID           NullableString `json:"sprint_id"`
	Title              *string        `json:"title"`
	Description        *string        `json:"description"`
	AcceptanceCriteria *[]string      `json:"acceptance_criteria"`
	Priority           *StoryPriority `json:"priority"`
	Status             *StoryStatus   `json:"status"`
	Points             *int           `json:"points"`
}

type CreateTaskInput struct {
	ID             string     `json:"id"`
	ModuleID       string     `json:"module_id"`
	UserStoryID    *string    `json:"user_story_id"`
	Title          string     `json:"title"`
	Description    string     `json:"description"`
	Status         TaskStatus `json:"status"`
	AssigneeID     *string    `json:"assignee_id"`
	RequiredSkills []string   `json:"required_skills"`
	EstimatedHours float64    `json:"estimated_hours"`
	DependencyIDs  []string   `json:"dependency_ids"`
	SprintID       *string    `json:"sprint_id"`
}

// UpdateTaskInput holds the fields that can change on a task. SprintID and
// UserStoryID distinguish "absent" (field == nil, leave unchanged) from
// "present but null" (field points at nil, clear the reference).
type UpdateTaskInput struct {
	ModuleID       *string        `json:"module_id"`
	UserStoryID    NullableString `json:"user_story_id"`
	Title          *string        `json:"title"`
	Description    *string        `json:"description"`
	Status         *TaskStatus    `json:"status"`
	AssigneeID     NullableString `json:"assignee_id"`
	RequiredSkills *[]string      `json:"required_skills"`
	EstimatedHours *float64       `json:"estimated_hours"`
	ActualHours    *float64       `json:"actual_hours"`
	DependencyIDs  *[]string      `json:"dependency_ids"`
	SprintID       NullableString `json:"sprint_id"`
}

type CreateSprintInput struct {
	ID                    string       `json:"id"`
	ProjectID             string       `json:"project_id"`
	ModuleID              *string      `json:"module_id"`
	ParentProjectSprintID *string      `json:"parent_project_sprint_id"`
	Scope                 SprintScope  `json:"scope"`
	Name                  string       `json:"name"`
	StartDate             string       `json:"start_date"`
	EndDate               string       `json:"end_date"`
	Status                SprintStatus `json:"status"`
	Goal                  string       `json:"goal"`
}

type UpdateSprintInput struct {
	ProjectID             *string        `json:"project_id"`
	ModuleID              NullableString `json:"module_id"`
	ParentProjectSprintID NullableString `json:"parent_project_sprint_id"`
	Scope                 *SprintScope   `json:"scope"`
	Name                  *string        `json:"name"`
	StartDate             *string        `json:"start_date"`
	EndDate               *string        `json:"end_date"`
	Status                *SprintStatus  `json:"status"`
	Goal                  *string        `json:"goal"`
}

// ProjectAggregate is the denormalized view of one project and everything
// it contains, as the UI consumes it.
type ProjectAggregate struct {
	Project     *Project    `json:"project"`
	Modules     []Module    `json:"modules"`
	UserStories []UserStory `json:"user_stories"`
	Tasks       []Task      `json:"tasks"`
	Sprints     []Sprint    `json:"sprints"`
}

// SprintSummary aggregates sprint progress for one project.
type SprintSummary struct {
	SprintsCount int `json:"sprints_count"`
	StoriesCount int `json:"stories_count"`
	TasksDone    int `json:"tasks_done"`
	TasksTotal   int `json:"tasks_total"`
}

// StoreStats reports collection sizes, used by the metrics collector.
type StoreStats struct {
	Projects    int
	Modules     int
	UserStories int
	Tasks       int
	Sprints     int
}
