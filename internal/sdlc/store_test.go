package sdlc

import (
	"encoding/json"
	"errors"
	"testing"
)

// seedStore builds a store with one project, two modules, a story, a
// project sprint, and a module sprint nested under it.
func seedStore(t *testing.T) *Store {
	t.Helper()
	s := NewStore()

	if _, err := s.AddProject(CreateProjectInput{ID: "p1", Name: "Alpha", StartDate: "2024-01-01", EndDate: "2024-06-30"}); err != nil {
		t.Fatalf("add project: %v", err)
	}
	if _, err := s.AddModule(CreateModuleInput{ID: "m1", ProjectID: "p1", Name: "Core"}); err != nil {
		t.Fatalf("add module m1: %v", err)
	}
	if _, err := s.AddModule(CreateModuleInput{ID: "m2", ProjectID: "p1", Name: "API"}); err != nil {
		t.Fatalf("add module m2: %v", err)
	}
	if _, err := s.AddStory(CreateStoryInput{ID: "s1", ModuleID: "m1", Title: "Login"}); err != nil {
		t.Fatalf("add story: %v", err)
	}
	if _, err := s.AddSprint(CreateSprintInput{ID: "ps1", ProjectID: "p1", Scope: ScopeProject, Name: "Increment 1", StartDate: "2024-01-01", EndDate: "2024-01-14"}); err != nil {
		t.Fatalf("add project sprint: %v", err)
	}
	if _, err := s.AddSprint(CreateSprintInput{ID: "ms1", ProjectID: "p1", ModuleID: strPtr("m1"), ParentProjectSprintID: strPtr("ps1"), Scope: ScopeModule, Name: "Core Sprint", StartDate: "2024-01-01", EndDate: "2024-01-07"}); err != nil {
		t.Fatalf("add module sprint: %v", err)
	}
	return s
}

func TestAddModuleRequiresProject(t *testing.T) {
	s := NewStore()
	if _, err := s.AddModule(CreateModuleInput{ID: "m1", ProjectID: "ghost"}); !errors.Is(err, ErrUnknownProject) {
		t.Fatalf("err = %v, want ErrUnknownProject", err)
	}
}

func TestAddStoryRequiresModule(t *testing.T) {
	s := seedStore(t)
	if _, err := s.AddStory(CreateStoryInput{ID: "s2", ModuleID: "ghost"}); !errors.Is(err, ErrUnknownModule) {
		t.Fatalf("err = %v, want ErrUnknownModule", err)
	}
}

func TestAddTaskDerivesLevel(t *testing.T) {
	s := seedStore(t)

	storyTask, err := s.AddTask(CreateTaskInput{ID: "t1", ModuleID: "m1", UserStoryID: strPtr("s1"), Title: "Build form"})
	if err != nil {
		t.Fatalf("add story task: %v", err)
	}
	if storyTask.TaskLevel != LevelUserStory {
		t.Fatalf("level = %s, want UserStory", storyTask.TaskLevel)
	}

	moduleTask, err := s.AddTask(CreateTaskInput{ID: "t2", ModuleID: "m1", Title: "Wire routing"})
	if err != nil {
		t.Fatalf("add module task: %v", err)
	}
	if moduleTask.TaskLevel != LevelModule {
		t.Fatalf("level = %s, want Module", moduleTask.TaskLevel)
	}
}

func TestAddTaskRejectsBadSprint(t *testing.T) {
	s := seedStore(t)

	if _, err := s.AddTask(CreateTaskInput{ID: "t1", ModuleID: "m1", SprintID: strPtr("ghost")}); !errors.Is(err, ErrUnknownSprint) {
		t.Fatalf("err = %v, want ErrUnknownSprint", err)
	}
	// m2 task cannot sit in m1's sprint.
	if _, err := s.AddTask(CreateTaskInput{ID: "t2", ModuleID: "m2", SprintID: strPtr("ms1")}); !errors.Is(err, ErrSprintWrongModule) {
		t.Fatalf("err = %v, want ErrSprintWrongModule", err)
	}
	// Rejected creates leave nothing behind.
	if len(s.ListTasks()) != 0 {
		t.Fatalf("tasks = %d, want 0 after rejected creates", len(s.ListTasks()))
	}

	if _, err := s.AddTask(CreateTaskInput{ID: "t3", ModuleID: "m1", SprintID: strPtr("ms1")}); err != nil {
		t.Fatalf("add task in own module sprint: %v", err)
	}
}

func TestUpdateTaskRoleGating(t *testing.T) {
	s := seedStore(t)
	if _, err := s.AddTask(CreateTaskInput{ID: "t1", ModuleID: "m1", Title: "Wire routing"}); err != nil {
		t.Fatalf("add task: %v", err)
	}

	// A coder may update fields that do not move the task in the hierarchy.
	status := TaskInProgress
	got, err := s.UpdateTask("t1", UpdateTaskInput{Status: &status}, RoleCoder)
	if err != nil {
		t.Fatalf("coder status update: %v", err)
	}
	if got.Status != TaskInProgress {
		t.Fatalf("status = %s, want InProgress", got.Status)
	}

	// Attaching a story changes the derived level: rejected for a coder.
	_, err = s.UpdateTask("t1", UpdateTaskInput{UserStoryID: NullableString{Set: true, Value: strPtr("s1")}}, RoleCoder)
	if !errors.Is(err, ErrLevelChangeForbidden) {
		t.Fatalf("err = %v, want ErrLevelChangeForbidden", err)
	}
	// The rejected update must not have partially applied.
	tasks := s.ListTasks()
	if tasks[0].UserStoryID != nil {
		t.Fatal("rejected update must leave the task unchanged")
	}

	// The same update succeeds for a manager and re-derives the level.
	got, err = s.UpdateTask("t1", UpdateTaskInput{UserStoryID: NullableString{Set: true, Value: strPtr("s1")}}, RoleManager)
	if err != nil {
		t.Fatalf("manager update: %v", err)
	}
	if got.TaskLevel != LevelUserStory {
		t.Fatalf("level = %s, want UserStory", got.TaskLevel)
	}
}

func TestUpdateTaskRevalidatesSprintOnModuleMove(t *testing.T) {
	s := seedStore(t)
	if _, err := s.AddTask(CreateTaskInput{ID: "t1", ModuleID: "m1", SprintID: strPtr("ms1")}); err != nil {
		t.Fatalf("add task: %v", err)
	}

	// Moving to m2 while keeping the m1 sprint must fail even though the
	// sprint field itself is untouched.
	m2 := "m2"
	_, err := s.UpdateTask("t1", UpdateTaskInput{ModuleID: &m2}, RoleAdmin)
	if !errors.Is(err, ErrSprintWrongModule) {
		t.Fatalf("err = %v, want ErrSprintWrongModule", err)
	}

	// Clearing the sprint in the same update makes the move legal.
	got, err := s.UpdateTask("t1", UpdateTaskInput{ModuleID: &m2, SprintID: NullableString{Set: true}}, RoleAdmin)
	if err != nil {
		t.Fatalf("move with sprint clear: %v", err)
	}
	if got.ModuleID != "m2" || got.SprintID != nil {
		t.Fatalf("got module %q sprint %v, want m2 and nil", got.ModuleID, got.SprintID)
	}
}

func TestUpdateSprintRevalidatesMergedState(t *testing.T) {
	s := seedStore(t)

	// Widening the module sprint past its parent is rejected.
	end := "2024-01-20"
	if _, err := s.UpdateSprint("ms1", UpdateSprintInput{EndDate: &end}); !errors.Is(err, ErrSprintOutsideParent) {
		t.Fatalf("err = %v, want ErrSprintOutsideParent", err)
	}

	// Shrinking the parent below its child is allowed (children are not
	// re-checked), matching create-time-only nesting enforcement.
	end = "2024-01-10"
	if _, err := s.UpdateSprint("ms1", UpdateSprintInput{EndDate: &end}); err != nil {
		t.Fatalf("valid update: %v", err)
	}

	if _, err := s.UpdateSprint("ghost", UpdateSprintInput{EndDate: &end}); !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestDeleteProjectCascade(t *testing.T) {
	s := seedStore(t)
	if _, err := s.AddTask(CreateTaskInput{ID: "t-story", ModuleID: "m1", UserStoryID: strPtr("s1")}); err != nil {
		t.Fatalf("add story task: %v", err)
	}
	if _, err := s.AddTask(CreateTaskInput{ID: "t-module", ModuleID: "m1"}); err != nil {
		t.Fatalf("add module task: %v", err)
	}

	if err := s.DeleteProject("p1"); err != nil {
		t.Fatalf("delete project: %v", err)
	}

	if len(s.ListProjects()) != 0 || len(s.ListModules()) != 0 || len(s.ListStories()) != 0 || len(s.ListSprints()) != 0 {
		t.Fatal("project, modules, stories, and sprints should all be gone")
	}

	// The story-bound task goes with its story; the module-anchored task
	// survives as an orphan.
	tasks := s.ListTasks()
	if len(tasks) != 1 {
		t.Fatalf("tasks = %d, want 1", len(tasks))
	}
	if tasks[0].ID != "t-module" {
		t.Fatalf("surviving task = %s, want t-module", tasks[0].ID)
	}

	if err := s.DeleteProject("p1"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("second delete err = %v, want ErrNotFound", err)
	}
}

func TestDeleteModuleCascade(t *testing.T) {
	s := seedStore(t)
	if _, err := s.AddTask(CreateTaskInput{ID: "t1", ModuleID: "m1"}); err != nil {
		t.Fatalf("add task: %v", err)
	}
	if _, err := s.AddTask(CreateTaskInput{ID: "t2", ModuleID: "m2"}); err != nil {
		t.Fatalf("add task: %v", err)
	}

	if err := s.DeleteModule("m1"); err != nil {
		t.Fatalf("delete module: %v", err)
	}

	if len(s.ListStories()) != 0 {
		t.Fatal("m1's story should be gone")
	}
	tasks := s.ListTasks()
	if len(tasks) != 1 || tasks[0].ID != "t2" {
		t.Fatalf("tasks = %+v, want only t2", tasks)
	}
	// The module sprint goes; the project sprint stays.
	sprints := s.ListSprints()
	if len(sprints) != 1 || sprints[0].ID != "ps1" {
		t.Fatalf("sprints = %+v, want only ps1", sprints)
	}
}

func TestDeleteStoryCascade(t *testing.T) {
	s := seedStore(t)
	if _, err := s.AddTask(CreateTaskInput{ID: "t1", ModuleID: "m1", UserStoryID: strPtr("s1")}); err != nil {
		t.Fatalf("add task: %v", err)
	}
	if _, err := s.AddTask(CreateTaskInput{ID: "t2", ModuleID: "m1"}); err != nil {
		t.Fatalf("add task: %v", err)
	}

	if err := s.DeleteStory("s1"); err != nil {
		t.Fatalf("delete story: %v", err)
	}

	tasks := s.ListTasks()
	if len(tasks) != 1 || tasks[0].ID != "t2" {
		t.Fatalf("tasks = %+v, want only t2", tasks)
	}
}

func TestProjectAggregate(t *testing.T) {
	s := seedStore(t)
	if _, err := s.AddTask(CreateTaskInput{ID: "t-story", ModuleID: "m1", UserStoryID: strPtr("s1")}); err != nil {
		t.Fatalf("add story task: %v", err)
	}
	if _, err := s.AddTask(CreateTaskInput{ID: "t-module", ModuleID: "m1"}); err != nil {
		t.Fatalf("add module task: %v", err)
	}

	agg, err := s.ProjectAggregate("p1")
	if err != nil {
		t.Fatalf("aggregate: %v", err)
	}
	if agg.Project.ID != "p1" {
		t.Fatalf("project = %s, want p1", agg.Project.ID)
	}
	if len(agg.Modules) != 2 || len(agg.UserStories) != 1 || len(agg.Sprints) != 2 {
		t.Fatalf("got %d modules, %d stories, %d sprints", len(agg.Modules), len(agg.UserStories), len(agg.Sprints))
	}
	// Only story-reachable tasks appear in the aggregate.
	if len(agg.Tasks) != 1 || agg.Tasks[0].ID != "t-story" {
		t.Fatalf("tasks = %+v, want only t-story", agg.Tasks)
	}

	if _, err := s.ProjectAggregate("ghost"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestSprintSummary(t *testing.T) {
	s := seedStore(t)

	// Story assigned to the project sprint.
	if _, err := s.UpdateStory("s1", UpdateStoryInput{SprintID: NullableString{Set: true, Value: strPtr("ps1")}}); err != nil {
		t.Fatalf("assign story: %v", err)
	}

	// One done task directly in the module sprint, one open task reachable
	// through the story, one task outside any sprint.
	if _, err := s.AddTask(CreateTaskInput{ID: "t-sprint", ModuleID: "m1", SprintID: strPtr("ms1"), Status: TaskDone}); err != nil {
		t.Fatalf("add sprint task: %v", err)
	}
	if _, err := s.AddTask(CreateTaskInput{ID: "t-story", ModuleID: "m1", UserStoryID: strPtr("s1"), Status: TaskToDo}); err != nil {
		t.Fatalf("add story task: %v", err)
	}
	if _, err := s.AddTask(CreateTaskInput{ID: "t-loose", ModuleID: "m2", Status: TaskDone}); err != nil {
		t.Fatalf("add loose task: %v", err)
	}

	sum := s.SprintSummary("p1")
	if sum.SprintsCount != 2 {
		t.Fatalf("sprints = %d, want 2", sum.SprintsCount)
	}
	if sum.StoriesCount != 1 {
		t.Fatalf("stories = %d, want 1", sum.StoriesCount)
	}
	if sum.TasksTotal != 2 {
		t.Fatalf("tasks total = %d, want 2", sum.TasksTotal)
	}
	if sum.TasksDone != 1 {
		t.Fatalf("tasks done = %d, want 1", sum.TasksDone)
	}
}

func TestUpdateProjectNullableFields(t *testing.T) {
	s := seedStore(t)
	url := "https://git.example.com/alpha"
	if _, err := s.UpdateProject("p1", UpdateProjectInput{GitRepositoryURL: NullableString{Set: true, Value: &url}}); err != nil {
		t.Fatalf("set url: %v", err)
	}

	// Absent field leaves the value alone; explicit null clears it.
	var absent UpdateProjectInput
	if err := json.Unmarshal([]byte(`{"name":"Alpha 2"}`), &absent); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	p, err := s.UpdateProject("p1", absent)
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if p.Name != "Alpha 2" {
		t.Fatalf("name = %q, want Alpha 2", p.Name)
	}
	if p.GitRepositoryURL == nil || *p.GitRepositoryURL != url {
		t.Fatal("absent field must not clear the url")
	}

	var clearing UpdateProjectInput
	if err := json.Unmarshal([]byte(`{"git_repository_url":null}`), &clearing); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	p, err = s.UpdateProject("p1", clearing)
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if p.GitRepositoryURL != nil {
		t.Fatal("explicit null must clear the url")
	}
}

func TestGeneratedIDs(t *testing.T) {
	s := NewStore()
	p, err := s.AddProject(CreateProjectInput{Name: "No ID"})
	if err != nil {
		t.Fatalf("add project: %v", err)
	}
	if p.ID == "" {
		t.Fatal("store should generate an id when none is supplied")
	}
}
