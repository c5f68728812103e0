package sdlc

import (
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"
)

// ErrNotFound is returned when a mutation or query names an entity id that
// does not exist. Referential misses wrap it so callers can test with
// errors.Is.
var ErrNotFound = errors.New("not found")

// Store is the single in-memory aggregate holding all project-hierarchy
// collections. Every mutation runs under one mutex and either commits the
// fully-validated next state or leaves the prior state untouched; there
// are no partial writes.
type Store struct {
	mu          sync.Mutex
	projects    []Project
	modules     []Module
	userStories []UserStory
	tasks       []Task
	sprints     []Sprint
}

// NewStore creates an empty aggregate store. One store is constructed at
// process start and injected into handlers; tests build their own.
func NewStore() *Store {
	return &Store{}
}

func newID() string {
	return uuid.NewString()
}

// --- Projects ---

func (s *Store) AddProject(input CreateProjectInput) (*Project, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p := Project{
		ID:               input.ID,
		Name:             input.Name,
		Description:      input.Description,
		ManagerID:        input.ManagerID,
		TeamLeadID:       input.TeamLeadID,
		TeamMemberIDs:    cloneStrings(input.TeamMemberIDs),
		Status:           input.Status,
		StartDate:        input.StartDate,
		EndDate:          input.EndDate,
		GitRepositoryURL: cloneStringPtr(input.GitRepositoryURL),
		AssignedTeamID:   cloneStringPtr(input.AssignedTeamID),
	}
	if p.ID == "" {
		p.ID = newID()
	}
	s.projects = append(s.projects, p)

	out := cloneProject(p)
	return &out, nil
}

func (s *Store) Project(id string) (*Project, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p := findProject(s.projects, id)
	if p == nil {
		return nil, fmt.Errorf("project %q: %w", id, ErrNotFound)
	}
	out := cloneProject(*p)
	return &out, nil
}

func (s *Store) ListProjects() []Project {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]Project, 0, len(s.projects))
	for _, p := range s.projects {
		out = append(out, cloneProject(p))
	}
	return out
}

func (s *Store) UpdateProject(id string, input UpdateProjectInput) (*Project, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cur := findProject(s.projects, id)
	if cur == nil {
		return nil, fmt.Errorf("project %q: %w", id, ErrNotFound)
	}

	next := cloneProject(*cur)
	if input.Name != nil {
		next.Name = *input.Name
	}
	if input.Description != nil {
		next.Description = *input.Description
	}
	if input.ManagerID != nil {
		next.ManagerID = *input.ManagerID
	}
	if input.TeamLeadID != nil {
		next.TeamLeadID = *input.TeamLeadID
	}
	if input.TeamMemberIDs != nil {
		next.TeamMemberIDs = cloneStrings(*input.TeamMemberIDs)
	}
	if input.Status != nil {
		next.Status = *input.Status
	}
	if input.StartDate != nil {
		next.StartDate = *input.StartDate
	}
	if input.EndDate != nil {
		next.EndDate = *input.EndDate
	}
	if input.GitRepositoryURL.Set {
		next.GitRepositoryURL = cloneStringPtr(input.GitRepositoryURL.Value)
	}
	if input.AssignedTeamID.Set {
		next.AssignedTeamID = cloneStringPtr(input.AssignedTeamID.Value)
	}

	*cur = next
	out := cloneProject(next)
	return &out, nil
}

// DeleteProject removes a project and cascades to its modules, their user
// stories, tasks referencing those stories, and the project's sprints. The
// replacement collections are built first and swapped in together, so the
// cascade is all-or-nothing.
func (s *Store) DeleteProject(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if findProject(s.projects, id) == nil {
		return fmt.Errorf("project %q: %w", id, ErrNotFound)
	}

	projects := make([]Project, 0, len(s.projects))
	for _, p := range s.projects {
		if p.ID != id {
			projects = append(projects, p)
		}
	}

	modules := make([]Module, 0, len(s.modules))
	moduleIDs := make(map[string]struct{})
	for _, m := range s.modules {
		if m.ProjectID != id {
			modules = append(modules, m)
			moduleIDs[m.ID] = struct{}{}
		}
	}

	stories := make([]UserStory, 0, len(s.userStories))
	storyIDs := make(map[string]struct{})
	for _, st := range s.userStories {
		if _, ok := moduleIDs[st.ModuleID]; ok {
			stories = append(stories, st)
			storyIDs[st.ID] = struct{}{}
		}
	}

	// Tasks survive unless they reference a removed story; module-anchored
	// tasks without a story are left in place.
	tasks := make([]Task, 0, len(s.tasks))
	for _, t := range s.tasks {
		if t.UserStoryID == nil {
			tasks = append(tasks, t)
			continue
		}
		if _, ok := storyIDs[*t.UserStoryID]; ok {
			tasks = append(tasks, t)
		}
	}

	sprints := make([]Sprint, 0, len(s.sprints))
	for _, sp := range s.sprints {
		if sp.ProjectID != id {
			sprints = append(sprints, sp)
		}
	}

	s.projects = projects
	s.modules = modules
	s.userStories = stories
	s.tasks = tasks
	s.sprints = sprints
	return nil
}

// --- Modules ---

func (s *Store) AddModule(input CreateModuleInput) (*Module, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if findProject(s.projects, input.ProjectID) == nil {
		return nil, ErrUnknownProject
	}

	m := Module{
		ID:                input.ID,
		ProjectID:         input.ProjectID,
		AssignedSubTeamID: cloneStringPtr(input.AssignedSubTeamID),
		Name:              input.Name,
		Description:       input.Description,
		Status:            input.Status,
	}
	if m.ID == "" {
		m.ID = newID()
	}
	s.modules = append(s.modules, m)

	out := cloneModule(m)
	return &out, nil
}

func (s *Store) ListModules() []Module {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]Module, 0, len(s.modules))
	for _, m := range s.modules {
		out = append(out, cloneModule(m))
	}
	return out
}

func (s *Store) UpdateModule(id string, input UpdateModuleInput) (*Module, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cur := findModule(s.modules, id)
	if cur == nil {
		return nil, fmt.Errorf("module %q: %w", id, ErrNotFound)
	}

	next := cloneModule(*cur)
	if input.AssignedSubTeamID.Set {
		next.AssignedSubTeamID = cloneStringPtr(input.AssignedSubTeamID.Value)
	}
	if input.Name != nil {
		next.Name = *input.Name
	}
	if input.Description != nil {
		next.Description = *input.Description
	}
	if input.Status != nil {
		next.Status = *input.Status
	}

	*cur = next
	out := cloneModule(next)
	return &out, nil
}

// DeleteModule removes a module together with its user stories, its tasks,
// and its module-scoped sprints, in one atomic swap.
func (s *Store) DeleteModule(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if findModule(s.modules, id) == nil {
		return fmt.Errorf("module %q: %w", id, ErrNotFound)
	}

	modules := make([]Module, 0, len(s.modules))
	for _, m := range s.modules {
		if m.ID != id {
			modules = append(modules, m)
		}
	}
	stories := make([]UserStory, 0, len(s.userStories))
	for _, st := range s.userStories {
		if st.ModuleID != id {
			stories = append(stories, st)
		}
	}
	tasks := make([]Task, 0, len(s.tasks))
	for _, t := range s.tasks {
		if t.ModuleID != id {
			tasks = append(tasks, t)
		}
	}
	sprints := make([]Sprint, 0, len(s.sprints))
	for _, sp := range s.sprints {
		if sp.ModuleID != nil && *sp.ModuleID == id {
			continue
		}
		sprints = append(sprints, sp)
	}

	s.modules = modules
	s.userStories = stories
	s.tasks = tasks
	s.sprints = sprints
	return nil
}

// --- User stories ---

func (s *Store) AddStory(input CreateStoryInput) (*UserStory, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if findModule(s.modules, input.ModuleID) == nil {
		return nil, ErrUnknownModule
	}

	st := UserStory{
		ID:                 input.ID,
		ModuleID:           input.ModuleID,
		SprintID:           cloneStringPtr(input.SprintID),
		Title:              input.Title,
		Description:        input.Description,
		AcceptanceCriteria: cloneStrings(input.AcceptanceCriteria),
		Priority:           input.Priority,
		Status:             input.Status,
		Points:             input.Points,
	}
	if st.ID == "" {
		st.ID = newID()
	}
	s.userStories = append(s.userStories, st)

	out := cloneStory(st)
	return &out, nil
}

func (s *Store) ListStories() []UserStory {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]UserStory, 0, len(s.userStories))
	for _, st := range s.userStories {
		out = append(out, cloneStory(st))
	}
	return out
}

func (s *Store) UpdateStory(id string, input UpdateStoryInput) (*UserStory, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cur := findStory(s.userStories, id)
	if cur == nil {
		return nil, fmt.Errorf("user story %q: %w", id, ErrNotFound)
	}

	next := cloneStory(*cur)
	if input.SprintID.Set {
		next.SprintID = cloneStringPtr(input.SprintID.Value)
	}
	if input.Title != nil {
		next.Title = *input.Title
	}
	if input.Description != nil {
		next.Description = *input.Description
	}
	if input.AcceptanceCriteria != nil {
		next.AcceptanceCriteria = cloneStrings(*input.AcceptanceCriteria)
	}
	if input.Priority != nil {
		next.Priority = *input.Priority
	}
	if input.Status != nil {
		next.Status = *input.Status
	}
	if input.Points != nil {
		next.Points = *input.Points
	}

	*cur = next
	out := cloneStory(next)
	return &out, nil
}

// DeleteStory removes a story and the tasks that reference it.
func (s *Store) DeleteStory(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if findStory(s.userStories, id) == nil {
		return fmt.Errorf("user story %q: %w", id, ErrNotFound)
	}

	stories := make([]UserStory, 0, len(s.userStories))
	for _, st := range s.userStories {
		if st.ID != id {
			stories = append(stories, st)
		}
	}
	tasks := make([]Task, 0, len(s.tasks))
	for _, t := range s.tasks {
		if t.UserStoryID != nil && *t.UserStoryID == id {
			continue
		}
		tasks = append(tasks, t)
	}

	s.userStories = stories
	s.tasks = tasks
	return nil
}

// --- Tasks ---

func (s *Store) AddTask(input CreateTaskInput) (*Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	t := Task{
		ID:             input.ID,
		ModuleID:       input.ModuleID,
		UserStoryID:    cloneStringPtr(input.UserStoryID),
		Title:          input.Title,
		Description:    input.Description,
		Status:         input.Status,
		AssigneeID:     cloneStringPtr(input.AssigneeID),
		RequiredSkills: cloneStrings(input.RequiredSkills),
		EstimatedHours: input.EstimatedHours,
		DependencyIDs:  cloneStrings(input.DependencyIDs),
		SprintID:       cloneStringPtr(input.SprintID),
	}
	if t.ID == "" {
		t.ID = newID()
	}
	if err := validateTaskSprintAssignment(t, t.SprintID, s.sprints, s.modules); err != nil {
		return nil, err
	}
	t.TaskLevel = resolveTaskLevel(t, s.modules)
	s.tasks = append(s.tasks, t)

	out := cloneTask(t)
	return &out, nil
}

func (s *Store) ListTasks() []Task {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]Task, 0, len(s.tasks))
	for _, t := range s.tasks {
		out = append(out, cloneTask(t))
	}
	return out
}

// UpdateTask applies a role-aware, sprint-validated update. If the merged
// state would change the task's derived level, the acting role must be
// allowed to re-anchor tasks; otherwise the whole update is rejected, not
// just the level-affecting field.
func (s *Store) UpdateTask(id string, input UpdateTaskInput, actor Role) (*Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cur := findTask(s.tasks, id)
	if cur == nil {
		return nil, fmt.Errorf("task %q: %w", id, ErrNotFound)
	}

	next := cloneTask(*cur)
	if input.ModuleID != nil {
		next.ModuleID = *input.ModuleID
	}
	if input.UserStoryID.Set {
		next.UserStoryID = cloneStringPtr(input.UserStoryID.Value)
	}
	if input.Title != nil {
		next.Title = *input.Title
	}
	if input.Description != nil {
		next.Description = *input.Description
	}
	if input.Status != nil {
		next.Status = *input.Status
	}
	if input.AssigneeID.Set {
		next.AssigneeID = cloneStringPtr(input.AssigneeID.Value)
	}
	if input.RequiredSkills != nil {
		next.RequiredSkills = cloneStrings(*input.RequiredSkills)
	}
	if input.EstimatedHours != nil {
		next.EstimatedHours = *input.EstimatedHours
	}
	if input.ActualHours != nil {
		h := *input.ActualHours
		next.ActualHours = &h
	}
	if input.DependencyIDs != nil {
		next.DependencyIDs = cloneStrings(*input.DependencyIDs)
	}
	if input.SprintID.Set {
		next.SprintID = cloneStringPtr(input.SprintID.Value)
	}

	levelBefore := resolveTaskLevel(*cur, s.modules)
	levelAfter := resolveTaskLevel(next, s.modules)
	if levelBefore != levelAfter && !actor.CanChangeTaskLevel() {
		return nil, ErrLevelChangeForbidden
	}

	// Re-validate the merged sprint assignment even when the sprint field
	// itself did not change, so a module move cannot leave the task inside
	// another module's sprint.
	if err := validateTaskSprintAssignment(next, next.SprintID, s.sprints, s.modules); err != nil {
		return nil, err
	}
	next.TaskLevel = levelAfter

	*cur = next
	out := cloneTask(next)
	return &out, nil
}

func (s *Store) UpdateTaskStatus(id string, status TaskStatus) (*Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cur := findTask(s.tasks, id)
	if cur == nil {
		return nil, fmt.Errorf("task %q: %w", id, ErrNotFound)
	}
	cur.Status = status
	cur.TaskLevel = resolveTaskLevel(*cur, s.modules)

	out := cloneTask(*cur)
	return &out, nil
}

func (s *Store) UpdateTaskAssignee(id string, assigneeID *string) (*Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cur := findTask(s.tasks, id)
	if cur == nil {
		return nil, fmt.Errorf("task %q: %w", id, ErrNotFound)
	}
	cur.AssigneeID = cloneStringPtr(assigneeID)
	cur.TaskLevel = resolveTaskLevel(*cur, s.modules)

	out := cloneTask(*cur)
	return &out, nil
}

func (s *Store) DeleteTask(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if findTask(s.tasks, id) == nil {
		return fmt.Errorf("task %q: %w", id, ErrNotFound)
	}
	tasks := make([]Task, 0, len(s.tasks))
	for _, t := range s.tasks {
		if t.ID != id {
			tasks = append(tasks, t)
		}
	}
	s.tasks = tasks
	return nil
}

// --- Sprints ---

func (s *Store) AddSprint(input CreateSprintInput) (*Sprint, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sp := Sprint{
		ID:                    input.ID,
		ProjectID:             input.ProjectID,
		ModuleID:              cloneStringPtr(input.ModuleID),
		ParentProjectSprintID: cloneStringPtr(input.ParentProjectSprintID),
		Scope:                 input.Scope,
		Name:                  input.Name,
		StartDate:             input.StartDate,
		EndDate:               input.EndDate,
		Status:                input.Status,
		Goal:                  input.Goal,
	}
	if sp.ID == "" {
		sp.ID = newID()
	}
	if err := validateSprint(sp, s.sprints, s.modules, s.projects); err != nil {
		return nil, err
	}
	s.sprints = append(s.sprints, sp)

	out := cloneSprint(sp)
	return &out, nil
}

func (s *Store) ListSprints() []Sprint {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]Sprint, 0, len(s.sprints))
	for _, sp := range s.sprints {
		out = append(out, cloneSprint(sp))
	}
	return out
}

// UpdateSprint re-validates the fully-merged next state, not just the
// delta, before committing.
func (s *Store) UpdateSprint(id string, input UpdateSprintInput) (*Sprint, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cur := findSprint(s.sprints, id)
	if cur == nil {
		return nil, fmt.Errorf("sprint %q: %w", id, ErrNotFound)
	}

	next := cloneSprint(*cur)
	if input.ProjectID != nil {
		next.ProjectID = *input.ProjectID
	}
	if input.ModuleID.Set {
		next.ModuleID = cloneStringPtr(input.ModuleID.Value)
	}
	if input.ParentProjectSprintID.Set {
		next.ParentProjectSprintID = cloneStringPtr(input.ParentProjectSprintID.Value)
	}
	if input.Scope != nil {
		next.Scope = *input.Scope
	}
	if input.Name != nil {
		next.Name = *input.Name
	}
	if input.StartDate != nil {
		next.StartDate = *input.StartDate
	}
	if input.EndDate != nil {
		next.EndDate = *input.EndDate
	}
	if input.Status != nil {
		next.Status = *input.Status
	}
	if input.Goal != nil {
		next.Goal = *input.Goal
	}

	if err := validateSprint(next, s.sprints, s.modules, s.projects); err != nil {
		return nil, err
	}

	*cur = next
	out := cloneSprint(next)
	return &out, nil
}

func (s *Store) DeleteSprint(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if findSprint(s.sprints, id) == nil {
		return fmt.Errorf("sprint %q: %w", id, ErrNotFound)
	}
	sprints := make([]Sprint, 0, len(s.sprints))
	for _, sp := range s.sprints {
		if sp.ID != id {
			sprints = append(sprints, sp)
		}
	}
	s.sprints = sprints
	return nil
}

// --- Queries ---

// ProjectAggregate returns the project with its modules, their stories,
// the tasks attached to those stories, and the project's sprints.
func (s *Store) ProjectAggregate(id string) (*ProjectAggregate, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p := findProject(s.projects, id)
	if p == nil {
		return nil, fmt.Errorf("project %q: %w", id, ErrNotFound)
	}
	project := cloneProject(*p)

	agg := &ProjectAggregate{
		Project:     &project,
		Modules:     []Module{},
		UserStories: []UserStory{},
		Tasks:       []Task{},
		Sprints:     []Sprint{},
	}

	moduleIDs := make(map[string]struct{})
	for _, m := range s.modules {
		if m.ProjectID == id {
			agg.Modules = append(agg.Modules, cloneModule(m))
			moduleIDs[m.ID] = struct{}{}
		}
	}
	storyIDs := make(map[string]struct{})
	for _, st := range s.userStories {
		if _, ok := moduleIDs[st.ModuleID]; ok {
			agg.UserStories = append(agg.UserStories, cloneStory(st))
			storyIDs[st.ID] = struct{}{}
		}
	}
	for _, t := range s.tasks {
		if t.UserStoryID == nil {
			continue
		}
		if _, ok := storyIDs[*t.UserStoryID]; ok {
			agg.Tasks = append(agg.Tasks, cloneTask(t))
		}
	}
	for _, sp := range s.sprints {
		if sp.ProjectID == id {
			agg.Sprints = append(agg.Sprints, cloneSprint(sp))
		}
	}
	return agg, nil
}

// SprintSummary counts the sprints of a project, the stories assigned to
// them, and the done/total tasks reachable through either a sprint or an
// assigned story.
func (s *Store) SprintSummary(projectID string) SprintSummary {
	s.mu.Lock()
	defer s.mu.Unlock()

	sprintIDs := make(map[string]struct{})
	for _, sp := range s.sprints {
		if sp.ProjectID == projectID {
			sprintIDs[sp.ID] = struct{}{}
		}
	}

	storyIDs := make(map[string]struct{})
	storiesCount := 0
	for _, st := range s.userStories {
		if st.SprintID == nil {
			continue
		}
		if _, ok := sprintIDs[*st.SprintID]; ok {
			storyIDs[st.ID] = struct{}{}
			storiesCount++
		}
	}

	var summary SprintSummary
	summary.SprintsCount = len(sprintIDs)
	summary.StoriesCount = storiesCount
	for _, t := range s.tasks {
		inScope := false
		if t.SprintID != nil {
			_, inScope = sprintIDs[*t.SprintID]
		} else if t.UserStoryID != nil {
			_, inScope = storyIDs[*t.UserStoryID]
		}
		if !inScope {
			continue
		}
		summary.TasksTotal++
		if t.Status == TaskDone {
			summary.TasksDone++
		}
	}
	return summary
}

// Stats reports collection sizes for the metrics collector.
func (s *Store) Stats() StoreStats {
	s.mu.Lock()
	defer s.mu.Unlock()

	return StoreStats{
		Projects:    len(s.projects),
		Modules:     len(s.modules),
		UserStories: len(s.userStories),
		Tasks:       len(s.tasks),
		Sprints:     len(s.sprints),
	}
}

// --- lookup and clone helpers ---

func findStory(stories []UserStory, id string) *UserStory {
	for i := range stories {
		if stories[i].ID == id {
			return &stories[i]
		}
	}
	return nil
}

func findTask(tasks []Task, id string) *Task {
	for i := range tasks {
		if tasks[i].ID == id {
			return &tasks[i]
		}
	}
	return nil
}

func cloneStrings(in []string) []string {
	if in == nil {
		return nil
	}
	out := make([]string, len(in))
	copy(out, in)
	return out
}

func cloneStringPtr(p *string) *string {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

func cloneFloatPtr(p *float64) *float64 {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

func cloneProject(p Project) Project {
	p.TeamMemberIDs = cloneStrings(p.TeamMemberIDs)
	p.GitRepositoryURL = cloneStringPtr(p.GitRepositoryURL)
	p.AssignedTeamID = cloneStringPtr(p.AssignedTeamID)
	return p
}

func cloneModule(m Module) Module {
	m.AssignedSubTeamID = cloneStringPtr(m.AssignedSubTeamID)
	return m
}

func cloneStory(st UserStory) UserStory {
	st.SprintID = cloneStringPtr(st.SprintID)
	st.AcceptanceCriteria = cloneStrings(st.AcceptanceCriteria)
	return st
}

func cloneTask(t Task) Task {
	t.UserStoryID = cloneStringPtr(t.UserStoryID)
	t.AssigneeID = cloneStringPtr(t.AssigneeID)
	t.RequiredSkills = cloneStrings(t.RequiredSkills)
	t.ActualHours = cloneFloatPtr(t.ActualHours)
	t.DependencyIDs = cloneStrings(t.DependencyIDs)
	t.SprintID = cloneStringPtr(t.SprintID)
	return t
}

func cloneSprint(sp Sprint) Sprint {
	sp.ModuleID = cloneStringPtr(sp.ModuleID)
	sp.ParentProjectSprintID = cloneStringPtr(sp.ParentProjectSprintID)
	return sp
}
