package tui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/rusenback/bpmmon/internal/async"
	"github.com/rusenback/bpmmon/internal/model"
)

// completionMsg carries a finished job's result back onto the update loop
type completionMsg func()

// cmdRunner runs presenter jobs as tea commands. Jobs scheduled during an
// Update are collected and returned by drain at the end of it.
type cmdRunner struct {
	ctx     context.Context
	pending []tea.Cmd
}

func (r *cmdRunner) Run(job async.Job) {
	ctx := r.ctx
	r.pending = append(r.pending, func() tea.Msg {
		return completionMsg(job(ctx))
	})
}

func (r *cmdRunner) drain() tea.Cmd {
	if len(r.pending) == 0 {
		return nil
	}
	cmds := r.pending
	r.pending = nil
	return tea.Batch(cmds...)
}

// tickCmd creates a command that sends a tick message after d
func tickCmd(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// fetchInstances creates a command to fetch the process instance list
func fetchInstances(store Store) tea.Cmd {
	return func() tea.Msg {
		instances, err := store.ListProcessInstances(context.Background())
		return instancesMsg{instances: instances, err: err}
	}
}

// fetchRoles creates a command to fetch the case roles of an instance
func fetchRoles(store Store, processInstanceID int64) tea.Cmd {
	return func() tea.Msg {
		roles, err := store.RoleAssignments(context.Background(), processInstanceID)
		return rolesMsg{processInstanceID: processInstanceID, roles: roles, err: err}
	}
}

// selectInstance raises the selection event of an instance row
func selectInstance(p model.ProcessInstance) tea.Cmd {
	evt := p.Selection()
	return func() tea.Msg {
		return evt
	}
}
