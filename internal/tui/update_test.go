package tui

import (
	"context"
	"path/filepath"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/rusenback/bpmmon/internal/audit"
	"github.com/rusenback/bpmmon/internal/dataset"
	"github.com/rusenback/bpmmon/internal/model"
	"github.com/rusenback/bpmmon/internal/presenter"
	"github.com/rusenback/bpmmon/internal/storage"
)

var base = time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)

func int64p(v int64) *int64 { return &v }

func newTestStore(t *testing.T) *storage.Storage {
	t.Helper()
	s, err := storage.NewStorage(filepath.Join(t.TempDir(), "audit.db"), 0)
	if err != nil {
		t.Fatalf("NewStorage: %v", err)
	}
	t.Cleanup(func() { s.Close() })

	events := []audit.Event{
		{Kind: audit.KindProcessInstance, ProcessInstanceID: 1, ProcessDefID: "evaluation", ProcessName: "Evaluation",
			DeploymentID: "dep", ServerTemplateID: "tmpl", Status: 1, Date: base},
		{Kind: audit.KindProcessInstance, ProcessInstanceID: 2, ProcessDefID: "hiring", ProcessName: "Hiring",
			DeploymentID: "dep", ServerTemplateID: "tmpl", Status: 1, Date: base.Add(time.Hour)},

		{Kind: audit.KindNode, ProcessInstanceID: 1, LogID: 1, NodeName: "Start", NodeType: "StartNode", Date: base},

		{Kind: audit.KindNode, ProcessInstanceID: 2, LogID: 10, NodeName: "Start", NodeType: "StartNode", Date: base.Add(time.Minute)},
		{Kind: audit.KindNode, ProcessInstanceID: 2, LogID: 11, NodeName: "Review", NodeType: "HumanTaskNode",
			WorkItemID: int64p(42), Date: base.Add(2 * time.Minute)},
		{Kind: audit.KindNode, ProcessInstanceID: 2, LogID: 12, NodeName: "End", NodeType: "EndNode", Completed: true,
			Date: base.Add(3 * time.Minute)},

		{Kind: audit.KindTask, ProcessInstanceID: 2, ServerTemplateID: "tmpl", DeploymentID: "dep", WorkItemID: int64p(42),
			TaskID: 7, TaskName: "Review", ActualOwner: "john", TaskStatus: "Reserved", Date: base.Add(2 * time.Minute)},
		{Kind: audit.KindRole, ProcessInstanceID: 2, RoleName: "owner", Users: []string{"john"}},
	}
	if err := s.Apply(context.Background(), events); err != nil {
		t.Fatalf("Apply: %v", err)
	}
	return s
}

func newTestModel(store *storage.Storage) Model {
	return NewModel(Options{
		Store:    store,
		Backend:  store,
		Tasks:    store,
		PageSize: 2,
	})
}

// drive runs cmd and every command it leads to, feeding the messages back
// into the model. Tick commands are never started here, so it terminates.
func drive(t *testing.T, m Model, cmd tea.Cmd) Model {
	t.Helper()
	queue := []tea.Cmd{cmd}
	for steps := 0; len(queue) > 0; steps++ {
		if steps > 100 {
			t.Fatalf("commands did not settle")
		}
		c := queue[0]
		queue = queue[1:]
		if c == nil {
			continue
		}
		switch msg := c().(type) {
		case nil:
		case tea.BatchMsg:
			queue = append(queue, msg...)
		default:
			next, nc := m.Update(msg)
			m = next.(Model)
			queue = append(queue, nc)
		}
	}
	return m
}

func send(t *testing.T, m Model, msg tea.Msg) Model {
	t.Helper()
	next, cmd := m.Update(msg)
	return drive(t, next.(Model), cmd)
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func loaded(t *testing.T, store *storage.Storage) Model {
	t.Helper()
	m := newTestModel(store)
	return drive(t, m, fetchInstances(store))
}

func TestFirstInstanceIsSelectedOnLoad(t *testing.T) {
	m := loaded(t, newTestStore(t))

	if m.selectedID != 2 {
		t.Fatalf("expected newest instance 2 to be selected, got %d", m.selectedID)
	}
	if len(m.logs.entries) != 2 || m.logs.loadHidden {
		t.Errorf("expected one full page with load more shown, got %d entries hidden=%v", len(m.logs.entries), m.logs.loadHidden)
	}
	if len(m.roles) != 1 || m.roles[0].Users[0] != "john" {
		t.Errorf("unexpected roles %+v", m.roles)
	}
	if m.presenter.State() != presenter.StateLoaded {
		t.Errorf("expected loaded state, got %s", m.presenter.State())
	}
}

func TestLoadMoreKeyAppendsNextPage(t *testing.T) {
	m := loaded(t, newTestStore(t))

	m = send(t, m, runes("m"))

	if len(m.logs.entries) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(m.logs.entries))
	}
	if m.logs.entries[2].NodeName != "End" || !m.logs.entries[2].Completed {
		t.Errorf("unexpected last entry %+v", m.logs.entries[2])
	}
	if !m.logs.loadHidden {
		t.Errorf("expected load more to be hidden after a short page")
	}
}

func TestCursorMoveSelectsInstance(t *testing.T) {
	m := loaded(t, newTestStore(t))

	m = send(t, m, tea.KeyMsg{Type: tea.KeyDown})

	if m.cursor != 1 || m.selectedID != 1 {
		t.Fatalf("expected instance 1 selected, cursor=%d selected=%d", m.cursor, m.selectedID)
	}
	if len(m.logs.entries) != 1 || m.logs.entries[0].ProcessInstanceID != 1 {
		t.Errorf("expected the log of instance 1, got %+v", m.logs.entries)
	}
	if len(m.roles) != 0 {
		t.Errorf("expected no roles, got %+v", m.roles)
	}
}

func TestEnterResolvesHumanTask(t *testing.T) {
	m := loaded(t, newTestStore(t))

	m = send(t, m, tea.KeyMsg{Type: tea.KeyTab})
	m = send(t, m, tea.KeyMsg{Type: tea.KeyDown})
	m = send(t, m, tea.KeyMsg{Type: tea.KeyEnter})

	if m.task.task == nil {
		t.Fatalf("expected task details, status=%q", m.status.message)
	}
	if m.task.task.ActualOwner != "john" || m.task.task.TaskID != 7 {
		t.Errorf("unexpected task %+v", m.task.task)
	}
	if !m.task.logDate.Equal(base.Add(2 * time.Minute)) {
		t.Errorf("expected the node log date, got %v", m.task.logDate)
	}
}

func TestEnterOnPlainNodeShowsMessage(t *testing.T) {
	m := loaded(t, newTestStore(t))

	m = send(t, m, tea.KeyMsg{Type: tea.KeyTab})
	m = send(t, m, tea.KeyMsg{Type: tea.KeyEnter})

	if m.task.task != nil {
		t.Errorf("expected no task details")
	}
	if !strings.Contains(m.status.message, "not a human task") {
		t.Errorf("unexpected status %q", m.status.message)
	}
}

type failingBackend struct{}

func (failingBackend) Lookup(context.Context, dataset.Lookup) (dataset.DataSet, error) {
	return nil, &dataset.ClientError{Message: "database locked"}
}

func TestLookupFailureGoesToStatusLine(t *testing.T) {
	store := newTestStore(t)
	m := NewModel(Options{Store: store, Backend: failingBackend{}, Tasks: store, PageSize: 2})

	m = drive(t, m, fetchInstances(store))

	want := presenter.DataSetError(dataset.ProcessInstanceLogs, "database locked")
	if m.status.message != want {
		t.Errorf("expected %q, got %q", want, m.status.message)
	}
	if len(m.logs.entries) != 0 || m.presenter.State() != presenter.StateIdle {
		t.Errorf("expected an empty idle log, got %d entries in %s", len(m.logs.entries), m.presenter.State())
	}
}

func TestStaleRolesReplyIsIgnored(t *testing.T) {
	m := loaded(t, newTestStore(t))

	m = send(t, m, rolesMsg{
		processInstanceID: 1,
		roles:             []*model.CaseRoleAssignment{{Name: "stale"}},
	})

	if len(m.roles) != 1 || m.roles[0].Name != "owner" {
		t.Errorf("expected roles of instance 2 to stay, got %+v", m.roles)
	}
}

func TestRefreshKeepsSelection(t *testing.T) {
	store := newTestStore(t)
	m := loaded(t, store)

	err := store.Apply(context.Background(), []audit.Event{{
		Kind: audit.KindProcessInstance, ProcessInstanceID: 3, ProcessDefID: "onboarding", Status: 1,
		Date: base.Add(2 * time.Hour),
	}})
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}

	m = send(t, m, runes("R"))

	if len(m.instances) != 3 {
		t.Fatalf("expected 3 instances, got %d", len(m.instances))
	}
	if m.selectedID != 2 || m.cursor != 1 {
		t.Errorf("expected selection to follow instance 2, cursor=%d selected=%d", m.cursor, m.selectedID)
	}
	if len(m.logs.entries) != 2 {
		t.Errorf("refresh should not reload the log, got %d entries", len(m.logs.entries))
	}
}

func TestViewRendersPanels(t *testing.T) {
	m := loaded(t, newTestStore(t))
	m = send(t, m, tea.WindowSizeMsg{Width: 180, Height: 60})

	out := m.View()
	for _, want := range []string{"Process Instances", "Process Instance Log", "Hiring", "Case roles"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected view to contain %q", want)
		}
	}
}

func TestStyleLogEntry(t *testing.T) {
	line := styleLogEntry(model.LogEntry{
		Date:       base,
		NodeName:   "Review",
		NodeType:   model.HumanTaskNode,
		WorkItemID: int64p(42),
	}, 120)

	if !strings.Contains(line, "Review") || !strings.Contains(line, "#42") {
		t.Errorf("unexpected line %q", line)
	}
}
