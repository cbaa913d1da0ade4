package styles

import "github.com/charmbracelet/lipgloss"

// CellStyle returns the border style of a grid cell.
func (t *Theme) CellStyle(selected bool) lipgloss.Style {
	if selected {
		return lipgloss.NewStyle().
			BorderStyle(lipgloss.ThickBorder()).
			BorderForeground(t.BorderFocus)
	}
	return lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(t.Border)
}
