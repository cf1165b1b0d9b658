package cli

import (
	"bytes"
	"context"
	"path/filepath"
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexanderramin/taskflow/internal/calendar"
	"github.com/alexanderramin/taskflow/internal/domain"
	"github.com/alexanderramin/taskflow/internal/importer"
	"github.com/alexanderramin/taskflow/internal/intelligence"
	"github.com/alexanderramin/taskflow/internal/notify"
	"github.com/alexanderramin/taskflow/internal/repository"
	"github.com/alexanderramin/taskflow/internal/service"
	"github.com/alexanderramin/taskflow/internal/testutil"
)

var ansi = regexp.MustCompile(`\x1b\[[0-9;]*[a-zA-Z]`)

type testEnv struct {
	app      *App
	projects *repository.SQLiteProjectRepo
	sprints  *repository.SQLiteSprintRepo
	tasks    *repository.SQLiteTaskRepo
}

// newTestEnv wires a full App backed by an in-memory DB for CLI tests.
func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	database := testutil.NewTestDB(t)

	projects := repository.NewSQLiteProjectRepo(database)
	sprints := repository.NewSQLiteSprintRepo(database)
	tasks := repository.NewSQLiteTaskRepo(database)
	inbox := repository.NewSQLiteNotificationRepo(database)
	fanOut := notify.NewFanOut(inbox, nil)

	app := &App{
		Projects:  service.NewProjectService(projects, nil),
		Tasks:     service.NewTaskService(tasks, fanOut, nil),
		Sprints:   service.NewSprintService(sprints, service.NewSQLiteStoreTx(testutil.NewTestUoW(database)), nil),
		Boards:    service.NewBoardService(projects, tasks, fanOut, "actor", "Alex", nil),
		Plans:     service.NewPlanService(projects, sprints, tasks, nil, nil),
		Notify:    service.NewNotifyService(tasks, inbox, fanOut),
		Drafts:    intelligence.NewPlanDraftService(nil, nil),
		ActorID:   "actor",
		ActorName: "Alex",
	}
	return &testEnv{app: app, projects: projects, sprints: sprints, tasks: tasks}
}

func (e *testEnv) seedProject(t *testing.T, key string, opts ...testutil.ProjectOption) *domain.Project {
	t.Helper()
	p := testutil.NewTestProject("Web Shop", append(opts, testutil.WithProjectKey(key))...)
	_, err := e.projects.CreateProject(context.Background(), p)
	require.NoError(t, err)
	return p
}

func (e *testEnv) seedSprint(t *testing.T, projectID, name string, opts ...testutil.SprintOption) *domain.Sprint {
	t.Helper()
	sp := testutil.NewTestSprint(projectID, name, opts...)
	_, err := e.sprints.CreateSprint(context.Background(), sp)
	require.NoError(t, err)
	return sp
}

func (e *testEnv) seedTask(t *testing.T, projectID, title string, opts ...testutil.TaskOption) *domain.Task {
	t.Helper()
	task := testutil.NewTestTask(projectID, title, opts...)
	_, err := e.tasks.CreateTask(context.Background(), task)
	require.NoError(t, err)
	return task
}

func (e *testEnv) mustProjectID(t *testing.T, input string) string {
	t.Helper()
	id, err := resolveProjectID(context.Background(), e.app, input)
	require.NoError(t, err)
	return id
}

// executeCmd runs a cobra command and captures stdout/stderr.
func executeCmd(t *testing.T, app *App, args ...string) (string, error) {
	t.Helper()
	root := NewRootCmd(app)
	buf := new(bytes.Buffer)
	root.SetOut(buf)
	root.SetErr(buf)
	root.SetArgs(args)
	err := root.Execute()
	return ansi.ReplaceAllString(buf.String(), ""), err
}

func TestProjectCreateAndList(t *testing.T) {
	env := newTestEnv(t)

	out, err := executeCmd(t, env.app, "project", "create", "--name", "Web Shop", "--key", "shop", "--start", "2026-03-02", "--scrum-master", "sm-1")
	require.NoError(t, err)
	assert.Contains(t, out, "Created project Web Shop [SHOP]")

	all, err := env.projects.ListProjects(context.Background())
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, "sm-1", all[0].ScrumMasterID)
	assert.Equal(t, "actor", all[0].OwnerID)

	out, err = executeCmd(t, env.app, "project", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "SHOP")
	assert.Contains(t, out, "Web Shop")
}

func TestProjectCreate_BadDate(t *testing.T) {
	env := newTestEnv(t)
	_, err := executeCmd(t, env.app, "project", "create", "--name", "X", "--start", "03/02/2026")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--start")
}

func TestProjectMembers_Add(t *testing.T) {
	env := newTestEnv(t)
	env.seedProject(t, "SHOP")

	out, err := executeCmd(t, env.app, "project", "members", "shop", "--add", "u1:Ana:Backend Developer")
	require.NoError(t, err)
	assert.Contains(t, out, "Added Ana")
	assert.Contains(t, out, "BACKEND")
}

func TestTaskCreateAndList(t *testing.T) {
	env := newTestEnv(t)
	p := env.seedProject(t, "SHOP")
	sp := env.seedSprint(t, p.ID, "Sprint 1")

	out, err := executeCmd(t, env.app, "task", "create", "SHOP", "--title", "Checkout", "--priority", "high", "--sprint", "sprint 1", "--points", "3")
	require.NoError(t, err)
	assert.Contains(t, out, "Created task SHOP-1 Checkout")

	_, err = executeCmd(t, env.app, "task", "create", "SHOP", "--title", "Payment form", "--parent", "SHOP-1")
	require.NoError(t, err)

	tasks, err := env.tasks.ListTasksByProject(context.Background(), p.ID)
	require.NoError(t, err)
	require.Len(t, tasks, 2)
	assert.Equal(t, domain.PriorityHigh, tasks[0].Priority)
	require.NotNil(t, tasks[0].SprintID)
	assert.Equal(t, sp.ID, *tasks[0].SprintID)
	require.NotNil(t, tasks[1].ParentTaskID)
	assert.Equal(t, tasks[0].ID, *tasks[1].ParentTaskID)

	out, err = executeCmd(t, env.app, "task", "list", "SHOP")
	require.NoError(t, err)
	assert.Contains(t, out, "SHOP-1")
	assert.Contains(t, out, "↳ Payment form")
}

func TestTaskCreate_UnknownPriority(t *testing.T) {
	env := newTestEnv(t)
	env.seedProject(t, "SHOP")
	_, err := executeCmd(t, env.app, "task", "create", "SHOP", "--title", "X", "--priority", "urgent")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown priority")
}

func TestTaskDelete_NeedsConfirmation(t *testing.T) {
	env := newTestEnv(t)
	p := env.seedProject(t, "SHOP")
	task := env.seedTask(t, p.ID, "Checkout")

	_, err := executeCmd(t, env.app, "task", "delete", "SHOP", task.ShortKey)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--yes")

	env.app.IsInteractive = func() bool { return true }
	asked := ""
	env.app.Confirm = func(title, _ string) (bool, error) {
		asked = title
		return false, nil
	}
	out, err := executeCmd(t, env.app, "task", "delete", "SHOP", task.ShortKey)
	require.NoError(t, err)
	assert.Contains(t, out, "Aborted.")
	assert.Contains(t, asked, "Checkout")

	_, err = env.tasks.GetTask(context.Background(), task.ID)
	require.NoError(t, err, "task survives an aborted delete")
}

func TestTaskDelete_NotifiesAssignee(t *testing.T) {
	env := newTestEnv(t)
	p := env.seedProject(t, "SHOP")
	task := env.seedTask(t, p.ID, "Checkout", testutil.WithAssignee("u1"))

	out, err := executeCmd(t, env.app, "task", "delete", "SHOP", task.ShortKey, "--yes")
	require.NoError(t, err)
	assert.Contains(t, out, "Deleted "+task.ShortKey)

	_, err = env.tasks.GetTask(context.Background(), task.ID)
	assert.ErrorIs(t, err, repository.ErrNotFound)

	out, err = executeCmd(t, env.app, "notify", "inbox", "--user", "u1")
	require.NoError(t, err)
	assert.Contains(t, out, "Checkout")
}

func TestTaskAssign_NotifiesNewAssignee(t *testing.T) {
	env := newTestEnv(t)
	p := env.seedProject(t, "SHOP")
	task := env.seedTask(t, p.ID, "Checkout")

	out, err := executeCmd(t, env.app, "task", "assign", "SHOP", task.ShortKey, "u2")
	require.NoError(t, err)
	assert.Contains(t, out, "Assigned "+task.ShortKey+" to u2")

	got, err := env.tasks.GetTask(context.Background(), task.ID)
	require.NoError(t, err)
	assert.Equal(t, "u2", got.AssigneeID)

	out, err = executeCmd(t, env.app, "notify", "inbox", "--user", "u2")
	require.NoError(t, err)
	assert.Contains(t, out, "Task assigned")

	out, err = executeCmd(t, env.app, "task", "assign", "SHOP", task.ShortKey, "")
	require.NoError(t, err)
	assert.Contains(t, out, "Unassigned "+task.ShortKey)
}

func TestTaskCreate_ImproveWithoutModelKeepsDescription(t *testing.T) {
	env := newTestEnv(t)
	env.seedProject(t, "SHOP")

	out, err := executeCmd(t, env.app, "task", "create", "SHOP", "--title", "Checkout", "--description", "pay stuff", "--improve")
	require.NoError(t, err)
	assert.Contains(t, out, "keeping yours")
	assert.Contains(t, out, "Created task SHOP-1 Checkout")

	tasks, err := env.app.Tasks.List(context.Background(), env.mustProjectID(t, "SHOP"), "")
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	assert.Equal(t, "pay stuff", tasks[0].Description)
}

func TestBoardMove(t *testing.T) {
	env := newTestEnv(t)
	p := env.seedProject(t, "SHOP")
	a := env.seedTask(t, p.ID, "Checkout")
	env.seedTask(t, p.ID, "Search", testutil.WithStatus(domain.TaskDone))

	out, err := executeCmd(t, env.app, "board", "move", "SHOP", a.ShortKey, "in-progress")
	require.NoError(t, err)
	assert.Contains(t, out, a.ShortKey+" Checkout")
	assert.Contains(t, out, "In Progress")

	got, err := env.tasks.GetTask(context.Background(), a.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.TaskInProgress, got.Status)

	_, err = executeCmd(t, env.app, "board", "move", "SHOP", a.ShortKey, "done")
	require.NoError(t, err)
	got, err = env.tasks.GetTask(context.Background(), a.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.TaskDone, got.Status)
	assert.NotNil(t, got.CompletedAt)
}

func TestBoardMove_UnknownStatus(t *testing.T) {
	env := newTestEnv(t)
	p := env.seedProject(t, "SHOP")
	a := env.seedTask(t, p.ID, "Checkout")

	_, err := executeCmd(t, env.app, "board", "move", "SHOP", a.ShortKey, "blocked")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown status")
}

func TestBoardShow(t *testing.T) {
	env := newTestEnv(t)
	p := env.seedProject(t, "SHOP")
	env.seedTask(t, p.ID, "Checkout", testutil.WithAssignee("u1"))
	require.NoError(t, env.app.Projects.AddMember(context.Background(), p.ID, domain.Member{UserID: "u1", DisplayName: "Ana"}))

	out, err := executeCmd(t, env.app, "board", "show", "SHOP")
	require.NoError(t, err)
	assert.Contains(t, out, "To Do (1)")
	assert.Contains(t, out, "Done (0)")
	assert.Contains(t, out, "@Ana")
}

func TestBoardTUI_RefusesWithoutTerminal(t *testing.T) {
	env := newTestEnv(t)
	env.seedProject(t, "SHOP")
	_, err := executeCmd(t, env.app, "board", "tui", "SHOP")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "terminal")
}

func TestSprintStartAndComplete(t *testing.T) {
	env := newTestEnv(t)
	p := env.seedProject(t, "SHOP")
	s1 := env.seedSprint(t, p.ID, "Sprint 1")
	s2 := env.seedSprint(t, p.ID, "Sprint 2")
	done := env.seedTask(t, p.ID, "Done work", testutil.WithSprint(s1.ID), testutil.WithStatus(domain.TaskDone))
	open := env.seedTask(t, p.ID, "Open work", testutil.WithSprint(s1.ID))
	moved := env.seedTask(t, p.ID, "Carry over", testutil.WithSprint(s1.ID))

	out, err := executeCmd(t, env.app, "sprint", "start", "SHOP", "Sprint 1")
	require.NoError(t, err)
	assert.Contains(t, out, "Started Sprint 1")

	out, err = executeCmd(t, env.app, "sprint", "list", "SHOP")
	require.NoError(t, err)
	assert.Contains(t, out, "1/3")

	out, err = executeCmd(t, env.app, "sprint", "complete", "SHOP", "Sprint 1", "--move", moved.ShortKey+"=Sprint 2")
	require.NoError(t, err)
	assert.Contains(t, out, "Sprint completed")
	assert.Contains(t, out, "Done: 1  Unfinished: 2")

	ctx := context.Background()
	got, err := env.tasks.GetTask(ctx, open.ID)
	require.NoError(t, err)
	assert.True(t, got.InBacklog())
	got, err = env.tasks.GetTask(ctx, moved.ID)
	require.NoError(t, err)
	require.NotNil(t, got.SprintID)
	assert.Equal(t, s2.ID, *got.SprintID)
	got, err = env.tasks.GetTask(ctx, done.ID)
	require.NoError(t, err)
	assert.Equal(t, s1.ID, *got.SprintID)
}

func TestSprintComplete_BadMove(t *testing.T) {
	env := newTestEnv(t)
	p := env.seedProject(t, "SHOP")
	env.seedSprint(t, p.ID, "Sprint 1", testutil.WithSprintStatus(domain.SprintActive))

	_, err := executeCmd(t, env.app, "sprint", "complete", "SHOP", "Sprint 1", "--move", "nothing")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "TASK=TARGET")
}

func TestPlanGenerateThenApply(t *testing.T) {
	env := newTestEnv(t)
	start := time.Now().AddDate(0, 0, 1).Format(dateLayout)
	end := time.Now().AddDate(0, 0, 29).Format(dateLayout)
	path := filepath.Join(t.TempDir(), "plan.yaml")

	out, err := executeCmd(t, env.app, "plan", "generate",
		"--name", "Web Shop", "--description", "Online store",
		"--start", start, "--end", end,
		"--member", "u1:Ana:Backend Developer", "--member", "u2:Ben:Frontend Developer",
		"--out", path)
	require.NoError(t, err)
	assert.Contains(t, out, "skeleton plan")
	assert.Contains(t, out, "Sprint 1")
	assert.Contains(t, out, "Plan written to "+path)

	schema, err := importer.LoadPlanSchema(path)
	require.NoError(t, err)
	require.NotNil(t, schema.Project)
	assert.Equal(t, "Web Shop", schema.Project.Name)
	assert.Len(t, schema.Members, 2)

	_, err = executeCmd(t, env.app, "plan", "apply", path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--yes")

	out, err = executeCmd(t, env.app, "plan", "apply", path, "--yes")
	require.NoError(t, err)
	assert.Contains(t, out, "Created project Web Shop")
	assert.Contains(t, out, "Sprints: 2")

	projects, err := env.app.Projects.List(context.Background())
	require.NoError(t, err)
	require.Len(t, projects, 1)
	members, err := env.app.Projects.Members(context.Background(), projects[0].ID)
	require.NoError(t, err)
	ids := make([]string, 0, len(members))
	for _, m := range members {
		ids = append(ids, m.UserID)
	}
	assert.Contains(t, ids, "u1")
	assert.Contains(t, ids, "u2")
}

func TestPlanGenerate_AssignWritesAssignees(t *testing.T) {
	env := newTestEnv(t)
	path := filepath.Join(t.TempDir(), "plan.json")
	start := time.Now().AddDate(0, 0, 1).Format(dateLayout)
	end := time.Now().AddDate(0, 0, 29).Format(dateLayout)

	_, err := executeCmd(t, env.app, "plan", "generate",
		"--name", "Web Shop", "--description", "Online store",
		"--start", start, "--end", end,
		"--member", "u1:Ana:Full Stack Developer",
		"--assign", "--out", path)
	require.NoError(t, err)

	schema, err := importer.LoadPlanSchema(path)
	require.NoError(t, err)
	require.NotEmpty(t, schema.Tasks)
	for _, task := range schema.Tasks {
		assert.Equal(t, "u1", task.AssigneeID, task.Title)
	}
	require.NotNil(t, schema.Project)
	assert.Len(t, schema.Members, 1)
}

func TestPlanGenerate_InvalidBrief(t *testing.T) {
	env := newTestEnv(t)
	_, err := executeCmd(t, env.app, "plan", "generate", "--name", "Web Shop")
	require.Error(t, err)
	assert.ErrorIs(t, err, intelligence.ErrInvalidBrief)
}

func TestPlanApply_InvalidFile(t *testing.T) {
	env := newTestEnv(t)
	path := filepath.Join(t.TempDir(), "plan.json")
	require.NoError(t, importer.SavePlanSchema(path, &importer.PlanSchema{Project: &importer.ProjectImport{Name: "X"}}))

	_, err := executeCmd(t, env.app, "plan", "apply", path, "--yes")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "is invalid")
}

// recordingPublisher captures what calendar sync publishes.
type recordingPublisher struct {
	got []domain.Sprint
}

func (r *recordingPublisher) Publish(_ context.Context, sprints []domain.Sprint) (calendar.PublishResult, error) {
	r.got = sprints
	return calendar.PublishResult{Inserted: len(sprints)}, nil
}

func TestCalendarShowAndSync(t *testing.T) {
	env := newTestEnv(t)
	p := env.seedProject(t, "SHOP")
	start := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	end := time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC)
	env.seedSprint(t, p.ID, "Sprint 1", testutil.WithSprintDates(start, end))
	env.seedTask(t, p.ID, "Checkout", testutil.WithDueDate(time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)))
	env.app.Now = func() time.Time { return time.Date(2026, 3, 5, 9, 0, 0, 0, time.UTC) }

	out, err := executeCmd(t, env.app, "calendar", "show", "SHOP")
	require.NoError(t, err)
	assert.Contains(t, out, "MARCH 2026")
	assert.Contains(t, out, "Sprint 1")
	assert.Contains(t, out, "Checkout")

	out, err = executeCmd(t, env.app, "calendar", "show", "SHOP", "--month", "2026-04")
	require.NoError(t, err)
	assert.Contains(t, out, "APRIL 2026")
	assert.NotContains(t, out, "Checkout")

	_, err = executeCmd(t, env.app, "calendar", "sync", "SHOP")
	require.Error(t, err, "no publisher configured")

	pub := &recordingPublisher{}
	env.app.Calendar = func(context.Context) (SprintPublisher, error) { return pub, nil }
	out, err = executeCmd(t, env.app, "calendar", "sync", "SHOP")
	require.NoError(t, err)
	assert.Contains(t, out, "inserted 1")
	require.Len(t, pub.got, 1)
	assert.Equal(t, "Sprint 1", pub.got[0].Name)
}

func TestNotifyOverdue(t *testing.T) {
	env := newTestEnv(t)
	p := env.seedProject(t, "SHOP")
	env.seedTask(t, p.ID, "Late", testutil.WithAssignee("u1"), testutil.WithDueDate(time.Now().AddDate(0, 0, -3)))
	env.seedTask(t, p.ID, "On time", testutil.WithAssignee("u2"), testutil.WithDueDate(time.Now().AddDate(0, 0, 3)))

	out, err := executeCmd(t, env.app, "notify", "overdue", "SHOP")
	require.NoError(t, err)
	assert.Contains(t, out, "Overdue notices: 1 sent")

	out, err = executeCmd(t, env.app, "notify", "inbox", "--user", "u1", "--unread")
	require.NoError(t, err)
	assert.Contains(t, out, "Task overdue")

	out, err = executeCmd(t, env.app, "notify", "inbox", "--user", "u2")
	require.NoError(t, err)
	assert.Contains(t, out, "No notifications.")
}

func TestResolveProjectID_Ambiguous(t *testing.T) {
	env := newTestEnv(t)
	env.seedProject(t, "AAA", func(p *domain.Project) { p.ID = "abc-1" })
	env.seedProject(t, "BBB", func(p *domain.Project) { p.ID = "abc-2" })

	_, err := resolveProjectID(context.Background(), env.app, "abc")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ambiguous")

	id, err := resolveProjectID(context.Background(), env.app, "bbb")
	require.NoError(t, err)
	assert.Equal(t, "abc-2", id)
}

func TestParseMember(t *testing.T) {
	m, err := parseMember("u1:Ana:Backend Developer")
	require.NoError(t, err)
	assert.Equal(t, domain.Member{UserID: "u1", DisplayName: "Ana", Role: "Backend Developer"}, m)

	m, err = parseMember("u2")
	require.NoError(t, err)
	assert.Equal(t, "u2", m.Name())

	_, err = parseMember(":Ana")
	assert.Error(t, err)
}

func TestParseStatus(t *testing.T) {
	for in, want := range map[string]domain.TaskStatus{
		"todo":        domain.TaskTodo,
		"In Progress": domain.TaskInProgress,
		"in-progress": domain.TaskInProgress,
		"REVIEW":      domain.TaskReview,
	} {
		got, err := parseStatus(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
}
