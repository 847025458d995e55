package tui

// truncate shortens a string to a maximum length
func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	if max <= 3 {
		return s[:max]
	}
	return s[:max-3] + "..."
}

// visibleLogLines calculates how many log lines fit in a panel of height
func visibleLogLines(height int) int {
	// Reserve space for borders, title, header and footer
	visible := height - 10
	if visible < 3 {
		visible = 3
	}
	return visible
}

// window returns the [start, end) range of total rows to draw so that
// cursor stays visible
func window(cursor, total, visible int) (int, int) {
	start := 0
	if cursor >= visible {
		start = cursor - visible + 1
	}
	end := start + visible
	if end > total {
		end = total
	}
	return start, end
}
