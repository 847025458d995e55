package tui

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"

	"github.com/rusenback/bpmmon/internal/model"
)

var (
	timestampStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#6C7086")) // Dim gray

	startNodeStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#A6E3A1")) // Green
	endNodeStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#F38BA8")) // Red
	humanTaskStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#F9E2AF")) // Yellow
	gatewayStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#CBA6F7")) // Purple
	actionNodeStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#89B4FA")) // Blue
	defaultLogStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#CDD6F4")) // Normal
	workItemStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#89DCEB")) // Cyan

	// Entered / completed indicators
	enteredIndicator   = lipgloss.NewStyle().Foreground(lipgloss.Color("#A6E3A1")).Render("○")
	completedIndicator = lipgloss.NewStyle().Foreground(lipgloss.Color("#6C7086")).Render("●")
)

// logPanel is the presenter's LogView
type logPanel struct {
	entries    []model.LogEntry
	loadHidden bool
	cursor     int
}

func (p *logPanel) SetLogsList(logs []model.LogEntry) {
	p.entries = logs
	if p.cursor >= len(p.entries) {
		p.cursor = len(p.entries) - 1
	}
	if p.cursor < 0 {
		p.cursor = 0
	}
}

func (p *logPanel) HideLoadButton(hide bool) {
	p.loadHidden = hide
}

func (p *logPanel) reset() {
	p.entries = nil
	p.loadHidden = false
	p.cursor = 0
}

func (p *logPanel) move(delta int) {
	p.cursor += delta
	if p.cursor >= len(p.entries) {
		p.cursor = len(p.entries) - 1
	}
	if p.cursor < 0 {
		p.cursor = 0
	}
}

func (p *logPanel) selected() (model.LogEntry, bool) {
	if p.cursor < 0 || p.cursor >= len(p.entries) {
		return model.LogEntry{}, false
	}
	return p.entries[p.cursor], true
}

func nodeTypeStyle(t model.NodeType) lipgloss.Style {
	switch t {
	case model.StartNode:
		return startNodeStyle
	case model.EndNode:
		return endNodeStyle
	case model.HumanTaskNode:
		return humanTaskStyle
	case model.Split, model.Join:
		return gatewayStyle
	case model.ActionNode:
		return actionNodeStyle
	default:
		return defaultLogStyle
	}
}

// styleLogEntry renders one node log row within maxWidth cells
func styleLogEntry(entry model.LogEntry, maxWidth int) string {
	timestamp := timestampStyle.Render(entry.Date.Format("2006-01-02 15:04:05"))

	indicator := enteredIndicator
	if entry.Completed {
		indicator = completedIndicator
	}

	nodeType := truncate(string(entry.NodeType), 14)
	workItem := ""
	if entry.WorkItemID != nil {
		workItem = fmt.Sprintf(" #%d", *entry.WorkItemID)
	}

	// name gets whatever width is left
	overhead := lipgloss.Width(timestamp) + lipgloss.Width(indicator) + 14 + len(workItem) + 4
	name := entry.NodeName
	if room := maxWidth - overhead; room > 3 {
		name = truncate(name, room)
	}

	line := timestamp + " " + indicator + " " +
		nodeTypeStyle(entry.NodeType).Render(fmt.Sprintf("%-14s", nodeType)) + " " + name
	if workItem != "" {
		line += workItemStyle.Render(workItem)
	}
	return line
}
