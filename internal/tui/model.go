package tui

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/rusenback/bpmmon/internal/dataset"
	"github.com/rusenback/bpmmon/internal/model"
	"github.com/rusenback/bpmmon/internal/presenter"
)

// Store lists what the instance and role panels show
type Store interface {
	ListProcessInstances(ctx context.Context) ([]model.ProcessInstance, error)
	RoleAssignments(ctx context.Context, processInstanceID int64) ([]*model.CaseRoleAssignment, error)
}

// Options wires a Model
type Options struct {
	Store           Store
	Backend         dataset.Backend
	Tasks           presenter.TaskService
	Filters         presenter.FilterSettingsManager
	PageSize        int
	RefreshInterval time.Duration
}

type focus int

const (
	focusInstances focus = iota
	focusLogs
)

// Model represents the TUI application state
type Model struct {
	store   Store
	refresh time.Duration

	presenter *presenter.ProcessInstanceLogPresenter
	runner    *cmdRunner
	logs      *logPanel
	task      *taskPanel
	status    *statusLine

	instances  []model.ProcessInstance
	cursor     int
	selectedID int64
	loading    bool
	roles      []model.CaseRoleAssignmentSummary
	focus      focus

	spinner spinner.Model
	keys    keyMap
	help    help.Model

	width  int
	height int
}

// Message types for Bubbletea update loop
type tickMsg time.Time

type instancesMsg struct {
	instances []model.ProcessInstance
	err       error
}

type rolesMsg struct {
	processInstanceID int64
	roles             []*model.CaseRoleAssignment
	err               error
}

// NewModel creates a new TUI model
func NewModel(opts Options) Model {
	refresh := opts.RefreshInterval
	if refresh <= 0 {
		refresh = 2 * time.Second
	}
	pageSize := opts.PageSize
	if pageSize <= 0 {
		pageSize = presenter.DefaultPageSize
	}

	runner := &cmdRunner{ctx: context.Background()}
	logs := &logPanel{}
	task := &taskPanel{}
	status := &statusLine{}

	p := presenter.NewProcessInstanceLogPresenter(presenter.Collaborators{
		View:        logs,
		ErrorPopup:  status,
		QueryHelper: dataset.NewQueryHelper(opts.Backend, runner, pageSize),
		Filters:     opts.Filters,
		Tasks:       opts.Tasks,
		Runner:      runner,
		PageSize:    pageSize,
	})

	return Model{
		store:     opts.Store,
		refresh:   refresh,
		presenter: p,
		runner:    runner,
		logs:      logs,
		task:      task,
		status:    status,
		loading:   true,
		spinner:   spinner.New(spinner.WithSpinner(spinner.Dot), spinner.WithStyle(spinnerStyle)),
		keys:      newKeyMap(),
		help:      help.New(),
	}
}

// Init initializes the model and returns initial commands
func (m Model) Init() tea.Cmd {
	return tea.Batch(fetchInstances(m.store), tickCmd(m.refresh), m.spinner.Tick)
}
