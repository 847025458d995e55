package tui

import "github.com/charmbracelet/lipgloss"

// View renders the TUI interface
func (m Model) View() string {
	return lipgloss.JoinVertical(lipgloss.Left, m.renderFourPanelView(), m.renderFooter())
}

// renderFourPanelView renders the four-panel grid layout
func (m Model) renderFourPanelView() string {
	// 40% left, 60% right for columns
	// 65% top, 35% bottom for rows, minus the footer
	leftWidth := int(float64(m.width) * 0.4)
	rightWidth := m.width - leftWidth

	bodyHeight := m.height - 3
	topHeight := int(float64(bodyHeight) * 0.65)
	bottomHeight := bodyHeight - topHeight

	topLeftPanel := m.renderInstancePanel(leftWidth, topHeight)
	topRightPanel := m.renderLogPanel(rightWidth, topHeight)
	bottomLeftPanel := m.renderSelectionPanel(leftWidth, bottomHeight)
	bottomRightPanel := m.renderTaskPanel(rightWidth, bottomHeight)

	topRow := lipgloss.JoinHorizontal(lipgloss.Top, topLeftPanel, topRightPanel)
	bottomRow := lipgloss.JoinHorizontal(lipgloss.Top, bottomLeftPanel, bottomRightPanel)

	return lipgloss.JoinVertical(lipgloss.Left, topRow, bottomRow)
}

// renderFooter renders the status message and key help
func (m Model) renderFooter() string {
	status := ""
	if m.status.message != "" {
		status = messageStyle.Render(m.status.message)
	}
	return lipgloss.JoinVertical(lipgloss.Left, status, helpStyle.Render(m.help.View(m.keys)))
}
