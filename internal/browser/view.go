package browser

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/llehouerou/lsix/internal/graphics"
	"github.com/llehouerou/lsix/internal/keymap"
	"github.com/llehouerou/lsix/internal/layout"
	"github.com/llehouerou/lsix/internal/ui/render"
)

const appTitle = "TUI Image Browser"

func (m Model) View() string {
	if m.width <= 0 || m.height <= 0 {
		return ""
	}
	if m.fullscreen {
		return m.viewFullscreen()
	}
	return m.viewGrid()
}

func (m Model) viewGrid() string {
	s := m.theme.S()

	header := render.Fit(
		lipgloss.JoinHorizontal(lipgloss.Top,
			s.Title.Render(appTitle),
			s.Muted.Render(" - "+render.Sanitize(m.cwd)),
		), m.width)

	perPage := m.grid.PerPage()
	page := m.PageOffset()/max(perPage, 1) + 1
	pages := max(layout.PageCount(len(m.entries), perPage), 1)
	title := render.Fit(s.Subtle.Render(
		fmt.Sprintf("Image Grid (%dx%d) - Page %d/%d", m.grid.Cols, m.grid.Rows, page, pages),
	), m.width)

	lines := make([]string, 0, m.height)
	lines = append(lines, header, title)
	lines = append(lines, m.gridLines()...)
	lines = append(lines, m.statusLine(page, pages))

	return strings.Join(lines, "\n") + m.placements()
}

// gridLines renders the cell borders and captions, exactly m.grid.Area.H
// lines.
func (m Model) gridLines() []string {
	area := m.grid.Area
	if len(m.entries) == 0 {
		empty := make([]string, area.H)
		empty[0] = m.theme.S().Muted.Render("No images")
		return empty
	}

	start := m.PageOffset()
	rows := make([]string, 0, m.grid.Rows)
	for r := range m.grid.Rows {
		cells := make([]string, 0, m.grid.Cols)
		for c := range m.grid.Cols {
			cells = append(cells, m.cell(start+r*m.grid.Cols+c))
		}
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, cells...))
	}

	lines := strings.Split(lipgloss.JoinVertical(lipgloss.Left, rows...), "\n")
	for len(lines) < area.H {
		lines = append(lines, "")
	}
	for i := range lines {
		lines[i] = render.Fit(lines[i], m.width)
	}
	return lines[:area.H]
}

// cell renders slot i: a border around blank space the picture is drawn
// over, and the caption.
func (m Model) cell(i int) string {
	w, h := m.grid.CellW, m.grid.CellH
	innerW, innerH := w-2, h-2
	if i >= len(m.entries) || innerW <= 0 || innerH <= 0 {
		return graphics.Placeholder(w, h)
	}

	selected := i == m.cursor.Pos()
	captionStyle := m.theme.S().Caption
	if selected {
		captionStyle = m.theme.S().Selected
	}
	caption := captionStyle.Render(render.Caption(m.entries[i].Label, innerW))

	content := caption
	if innerH > 1 {
		content = graphics.Placeholder(innerW, innerH-1) + "\n" + caption
	}
	return m.theme.CellStyle(selected).Render(content)
}

func (m Model) statusLine(page, pages int) string {
	s := m.theme.S()

	right := fmt.Sprintf("%d/%d | Page %d/%d", m.cursor.Pos()+1, len(m.entries), page, pages)
	if len(m.entries) == 0 {
		right = "0/0"
	}
	room := m.width - lipgloss.Width(right) - 1

	var left string
	if m.status != "" {
		left = s.Warning.Render(render.Truncate(m.status, room))
	} else {
		h := m.help
		h.Width = room
		left = render.Fit(h.ShortHelpView(keymap.HelpBindings(keymap.ContextGrid)), room)
	}
	return s.Status.Render(render.Row(left, right, m.width))
}

// placements positions the sixel data of every decoded picture on the page.
func (m Model) placements() string {
	var sb strings.Builder
	start, end := m.pageRange()
	for i := start; i < end; i++ {
		rect := m.thumbRect(i)
		w, h := m.pixelBox(rect)
		p, ok := m.images.thumbs[box{index: i, w: w, h: h}]
		if !ok {
			continue
		}
		sb.WriteString(graphics.Place(p.data, rect.Y+p.row+1, rect.X+p.col+1, m.gen))
	}
	return sb.String()
}

func (m Model) viewFullscreen() string {
	s := m.theme.S()
	i := m.cursor.Pos()
	if i >= len(m.entries) {
		return ""
	}

	imageLines := max(m.height-footerLines, 0)
	body := graphics.Placeholder(m.width, imageLines)
	if m.images.fullErr != nil {
		body = s.Error.Render(render.Pad("Error: Failed to decode image", m.width))
		if imageLines > 1 {
			body += "\n" + graphics.Placeholder(m.width, imageLines-1)
		}
	}

	name := render.Sanitize(m.entries[i].Label)
	back := keyLabels(m.fullKeys.KeysFor(keymap.ActionBack))
	status := fmt.Sprintf("%s | %s: Back | %d/%d", name, back, i+1, len(m.entries))
	view := s.Status.Render(render.Pad(render.Truncate(status, m.width), m.width))
	if imageLines > 0 {
		view = body + "\n" + view
	}

	if m.images.fullErr == nil && m.images.fullBox.index == i {
		p := m.images.full
		view += graphics.Place(p.data, p.row+1, p.col+1, m.gen)
	}
	return view
}

// keyLabels joins keys for a footer hint; named keys are upper-cased.
func keyLabels(keys []string) string {
	labels := make([]string, len(keys))
	for i, k := range keys {
		if len(k) > 1 {
			k = strings.ToUpper(k)
		}
		labels[i] = k
	}
	return strings.Join(labels, "/")
}
