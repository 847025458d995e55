package tui

import (
	"fmt"
	"log"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/rusenback/bpmmon/internal/model"
)

// Update handles messages and updates the model state. Presenter jobs
// scheduled while handling msg are returned alongside its own command.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	next, cmd := m.update(msg)
	return next, tea.Batch(cmd, next.runner.drain())
}

func (m Model) update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width

	case tea.KeyMsg:
		return m.handleKey(msg)

	case tickMsg:
		return m, tea.Batch(fetchInstances(m.store), tickCmd(m.refresh))

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case instancesMsg:
		m.loading = false
		if msg.err != nil {
			log.Printf("tui: listing process instances failed: %v", msg.err)
			m.status.ShowMessage(fmt.Sprintf("Failed to list process instances: %v", msg.err))
			return m, nil
		}

		m.instances = msg.instances
		// keep the cursor on the selected instance when rows shift
		if i := m.indexOf(m.selectedID); i >= 0 {
			m.cursor = i
		}
		if m.cursor >= len(m.instances) {
			m.cursor = len(m.instances) - 1
		}
		if m.cursor < 0 {
			m.cursor = 0
		}

		if m.selectedID == 0 && len(m.instances) > 0 {
			return m, selectInstance(m.instances[m.cursor])
		}

	case model.SelectionEvent:
		m.selectedID = msg.ProcessInstanceID
		m.logs.reset()
		m.task.clear()
		m.roles = nil
		m.presenter.OnProcessInstanceSelection(msg)
		return m, fetchRoles(m.store, msg.ProcessInstanceID)

	case rolesMsg:
		if msg.processInstanceID != m.selectedID {
			return m, nil
		}
		if msg.err != nil {
			m.status.ShowMessage(fmt.Sprintf("Failed to load case roles: %v", msg.err))
			return m, nil
		}
		m.roles = model.SummarizeRoleAssignments(msg.roles)

	case completionMsg:
		if msg != nil {
			msg()
		}
	}

	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll

	case key.Matches(msg, m.keys.Focus):
		if m.focus == focusInstances {
			m.focus = focusLogs
		} else {
			m.focus = focusInstances
		}

	case key.Matches(msg, m.keys.Up):
		if m.focus == focusLogs {
			m.logs.move(-1)
			return m, nil
		}
		if m.cursor > 0 {
			m.cursor--
			return m, m.selectCursor()
		}

	case key.Matches(msg, m.keys.Down):
		if m.focus == focusLogs {
			m.logs.move(1)
			return m, nil
		}
		if m.cursor < len(m.instances)-1 {
			m.cursor++
			return m, m.selectCursor()
		}

	case key.Matches(msg, m.keys.Details):
		entry, ok := m.logs.selected()
		if !ok {
			return m, nil
		}
		if !entry.IsHumanTask() {
			m.status.ShowMessage(fmt.Sprintf("%s is not a human task", entry.NodeName))
			return m, nil
		}
		m.presenter.LoadTaskDetails(*entry.WorkItemID, entry.Date, m.task)

	case key.Matches(msg, m.keys.LoadMore):
		m.presenter.LoadMoreProcessInstanceLogs()

	case key.Matches(msg, m.keys.Reload):
		m.logs.reset()
		m.task.clear()
		m.presenter.LoadProcessInstanceLogs()

	case key.Matches(msg, m.keys.Refresh):
		m.loading = true
		return m, fetchInstances(m.store)
	}

	return m, nil
}

// selectCursor selects the instance under the cursor unless it already is
func (m Model) selectCursor() tea.Cmd {
	if len(m.instances) == 0 {
		return nil
	}
	inst := m.instances[m.cursor]
	if inst.ID == m.selectedID {
		return nil
	}
	return selectInstance(inst)
}

func (m Model) indexOf(processInstanceID int64) int {
	if processInstanceID == 0 {
		return -1
	}
	for i, p := range m.instances {
		if p.ID == processInstanceID {
			return i
		}
	}
	return -1
}
