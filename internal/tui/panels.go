package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/rusenback/bpmmon/internal/model"
	"github.com/rusenback/bpmmon/internal/presenter"
)

// taskPanel is the presenter's HumanTaskView
type taskPanel struct {
	task    *model.TaskSummary
	logDate time.Time
}

func (p *taskPanel) SetDetailsData(task model.TaskSummary, logDate time.Time) {
	p.task = &task
	p.logDate = logDate
}

func (p *taskPanel) clear() {
	p.task = nil
	p.logDate = time.Time{}
}

// statusLine is the presenter's ErrorPopup
type statusLine struct {
	message string
}

func (s *statusLine) ShowMessage(message string) {
	s.message = message
}

// renderInstancePanel renders the process instance list
func (m Model) renderInstancePanel(width, height int) string {
	var s strings.Builder
	s.WriteString(titleStyle.Render("⚙ Process Instances") + "\n\n")

	if m.loading && len(m.instances) == 0 {
		s.WriteString(m.spinner.View() + " Loading...\n")
		return m.sized(focusInstances, width, height, s.String())
	}

	active := 0
	for _, p := range m.instances {
		if p.Status == model.StatusActive {
			active++
		}
	}
	s.WriteString(fmt.Sprintf("%d total, %d active\n\n", len(m.instances), active))

	colWidth := width - 10
	idWidth := 6
	statusWidth := 10
	nameWidth := colWidth - idWidth - statusWidth - 2
	if nameWidth < 8 {
		nameWidth = 8
	}

	header := fmt.Sprintf("%-*s %-*s %-*s", idWidth, "ID", nameWidth, "PROCESS", statusWidth, "STATUS")
	s.WriteString(headerStyle.Render(header) + "\n")

	if len(m.instances) == 0 {
		s.WriteString("\nNo process instances recorded yet\n")
	}

	maxRows := height - 10
	start, end := window(m.cursor, len(m.instances), maxRows)
	for i := start; i < end; i++ {
		p := m.instances[i]
		name := p.ProcessName
		if name == "" {
			name = p.ProcessDefID
		}

		status := p.Status.String()
		styled := inactiveStyle.Render(fmt.Sprintf("%-*s", statusWidth, status))
		if p.Status == model.StatusActive {
			styled = activeStyle.Render(fmt.Sprintf("%-*s", statusWidth, status))
		}

		line := fmt.Sprintf("%-*d %-*s %s", idWidth, p.ID, nameWidth, truncate(name, nameWidth), styled)
		if i == m.cursor {
			s.WriteString(selectedStyle.Render("> " + line))
		} else {
			s.WriteString("  " + line)
		}
		s.WriteString("\n")
	}

	return m.sized(focusInstances, width, height, s.String())
}

// renderLogPanel renders the node log of the selected instance
func (m Model) renderLogPanel(width, height int) string {
	var s strings.Builder
	s.WriteString(titleStyle.Render("📋 Process Instance Log") + "\n\n")

	sel, ok := m.presenter.Selection()
	if !ok {
		s.WriteString("No process instance selected")
		return m.sized(focusLogs, width, height, s.String())
	}
	s.WriteString(fmt.Sprintf("Instance %d: %s\n\n", sel.ProcessInstanceID, sel.ProcessName))

	entries := m.logs.entries
	if len(entries) == 0 {
		if m.presenter.State() == presenter.StateLoading {
			s.WriteString(m.spinner.View() + " Loading log...")
		} else {
			s.WriteString("No log entries")
		}
		return m.sized(focusLogs, width, height, s.String())
	}

	visible := visibleLogLines(height)
	start, end := window(m.logs.cursor, len(entries), visible)
	maxLineWidth := width - 10
	for i := start; i < end; i++ {
		line := styleLogEntry(entries[i], maxLineWidth)
		if i == m.logs.cursor && m.focus == focusLogs {
			s.WriteString(selectedStyle.Render(">") + " " + line)
		} else {
			s.WriteString("  " + line)
		}
		s.WriteString("\n")
	}

	footer := fmt.Sprintf("\n[%d/%d]", m.logs.cursor+1, len(entries))
	switch {
	case m.presenter.State() == presenter.StateLoading:
		footer += " " + m.spinner.View() + " loading"
	case !m.logs.loadHidden:
		footer += " m: load more"
	}
	s.WriteString(labelStyle.Render(footer))

	return m.sized(focusLogs, width, height, s.String())
}

// renderSelectionPanel renders the selected instance and its case roles
func (m Model) renderSelectionPanel(width, height int) string {
	var s strings.Builder
	s.WriteString(titleStyle.Render("🔎 Selection") + "\n\n")

	sel, ok := m.presenter.Selection()
	if !ok {
		s.WriteString("No process instance selected")
		return m.sized(-1, width, height, s.String())
	}

	field := func(label, value string) {
		s.WriteString(labelStyle.Render(fmt.Sprintf("%-16s", label)) + value + "\n")
	}
	field("Process", sel.ProcessDefID)
	field("Deployment", sel.DeploymentID)
	field("Server template", sel.ServerTemplateID)
	field("Status", sel.Status.String())

	pg := m.presenter.Pagination()
	field("Log", fmt.Sprintf("%d rows, %d per page", len(m.logs.entries), pg.PageSize))

	s.WriteString("\n" + titleStyle.Render("Case roles") + "\n")
	if len(m.roles) == 0 {
		s.WriteString("none\n")
	}
	for _, r := range m.roles {
		s.WriteString(fmt.Sprintf("%s: ", r.Name))
		var parts []string
		if len(r.Users) > 0 {
			parts = append(parts, "users "+strings.Join(r.Users, ", "))
		}
		if len(r.Groups) > 0 {
			parts = append(parts, "groups "+strings.Join(r.Groups, ", "))
		}
		if len(parts) == 0 {
			parts = append(parts, "unassigned")
		}
		s.WriteString(truncate(strings.Join(parts, "; "), width-10) + "\n")
	}

	return m.sized(-1, width, height, s.String())
}

// renderTaskPanel renders the details of the last resolved human task
func (m Model) renderTaskPanel(width, height int) string {
	var s strings.Builder
	s.WriteString(titleStyle.Render("👤 Human Task") + "\n\n")

	t := m.task.task
	if t == nil {
		s.WriteString("Select a human task node and press enter")
		return m.sized(-1, width, height, s.String())
	}

	field := func(label, value string) {
		s.WriteString(labelStyle.Render(fmt.Sprintf("%-12s", label)) + value + "\n")
	}
	field("Task", fmt.Sprintf("%s (#%d)", t.Name, t.TaskID))
	field("Work item", fmt.Sprintf("%d", t.WorkItemID))
	field("Owner", t.ActualOwner)
	field("Status", t.Status)
	field("Created", t.CreatedOn.Format("2006-01-02 15:04:05"))
	field("Logged", m.task.logDate.Format("2006-01-02 15:04:05"))
	if t.Description != "" {
		s.WriteString("\n" + truncate(t.Description, (width-10)*3))
	}

	return m.sized(-1, width, height, s.String())
}

func (m Model) sized(f focus, width, height int, content string) string {
	style := panelStyle
	if f == m.focus {
		style = focusedPanelStyle
	}
	return style.Width(width - 4).Height(height - 4).Render(content)
}
