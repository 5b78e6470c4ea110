package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/stefanpenner/quest/pkg/goal"
)

const minWidth = 40
const minHeight = 10

// listWidth is the width of the goal list pane.
func listWidth(w int) int {
	if w < minWidth {
		w = minWidth
	}
	return max(w*2/5, 20)
}

// detailWidth is the width of the detail pane, right of a 1 char divider.
func detailWidth(w int) int {
	if w < minWidth {
		w = minWidth
	}
	return max(w-listWidth(w)-1, 20)
}

// View implements tea.Model.
func (m Model) View() string {
	w := m.width
	h := m.height
	if w < minWidth {
		w = minWidth
	}
	if h < minHeight {
		h = minHeight
	}

	if m.showHelpModal {
		return placeOverlay(m.renderHelpModal(), w, h)
	}

	var b strings.Builder

	b.WriteString(m.renderHeader(w))
	b.WriteString("\n")
	b.WriteString(strings.Repeat("─", w))
	b.WriteString("\n")

	headerLines := 2
	footerLines := 2

	searchActive := m.isSearching || m.searchQuery != ""
	if searchActive {
		headerLines++
		b.WriteString(m.renderSearchBar(w))
		b.WriteString("\n")
	}
	if m.isAdding {
		footerLines++
	}

	contentHeight := h - headerLines - footerLines

	leftWidth := listWidth(w)
	rightWidth := detailWidth(w)

	leftPanel := m.renderListPanel(leftWidth, contentHeight)
	rightPanel := m.renderDetailPanel(rightWidth, contentHeight)

	sep := lipgloss.NewStyle().Foreground(ColorGrayDim).Render("│")
	for i := 0; i < contentHeight; i++ {
		b.WriteString(getLine(leftPanel, i, leftWidth))
		b.WriteString(sep)
		b.WriteString(getLine(rightPanel, i, rightWidth))
		b.WriteString("\n")
	}

	if m.isAdding {
		b.WriteString(m.renderAddPrompt())
		b.WriteString("\n")
	}

	b.WriteString(strings.Repeat("─", w))
	b.WriteString("\n")
	b.WriteString(m.renderFooter())

	return b.String()
}

func (m Model) renderHeader(width int) string {
	title := HeaderStyle.Render("Eternal Quest")

	goals := m.reg.Goals()
	score := ScoreStyle.Render(fmt.Sprintf("Score: %d", m.reg.Score()))
	stats := HeaderCountStyle.Render(fmt.Sprintf("  %d/%d complete", countComplete(goals), len(goals)))

	status := ""
	if m.statusMsg != "" && time.Now().Before(m.statusTimeout) {
		status = "  " + StatusStyle.Render(m.statusMsg)
	}

	gap := width - lipgloss.Width(title) - lipgloss.Width(status) - lipgloss.Width(score) - lipgloss.Width(stats)
	if gap < 1 {
		gap = 1
	}

	return title + status + strings.Repeat(" ", gap) + score + stats
}

func (m Model) renderSearchBar(width int) string {
	prefix := SearchBarStyle.Render(" / ")
	query := SearchBarStyle.Render(m.searchQuery)
	cursor := ""
	if m.isSearching {
		cursor = SearchBarStyle.Render("█")
	}

	countStr := ""
	if m.searchQuery != "" {
		countStr = SearchCountStyle.Render(fmt.Sprintf(" %d matches", len(m.items)))
	}

	left := prefix + query + cursor
	padWidth := width - lipgloss.Width(left) - lipgloss.Width(countStr)
	if padWidth < 1 {
		padWidth = 1
	}

	return left + strings.Repeat(" ", padWidth) + countStr
}

func (m Model) renderListPanel(width, height int) string {
	var lines []string

	if len(m.items) == 0 {
		if m.searchQuery != "" {
			lines = append(lines, FooterStyle.Render(" No goals match"))
		} else {
			lines = append(lines, FooterStyle.Render(" No goals yet. Press 'a' to add one."))
		}
	}

	// Scrolling window keeps the cursor centred when the list overflows
	startIdx := 0
	endIdx := len(m.items)
	if len(m.items) > height {
		startIdx = max(m.cursor-height/2, 0)
		endIdx = startIdx + height
		if endIdx > len(m.items) {
			endIdx = len(m.items)
			startIdx = max(endIdx-height, 0)
		}
	}

	for i := startIdx; i < endIdx; i++ {
		lines = append(lines, m.renderListItem(m.items[i], i == m.cursor, width))
	}

	return strings.Join(lines, "\n")
}

func (m Model) renderListItem(item Item, isSelected bool, width int) string {
	index := fmt.Sprintf("%3d. ", item.Index)
	icon, iconStyle := statusIcon(item.Goal)

	suffix := ""
	if c, ok := item.Goal.(*goal.Checklist); ok {
		suffix = fmt.Sprintf(" %d/%d", c.Current(), c.Required())
	}

	if isSelected {
		line := index + icon + " " + item.Name() + suffix
		line = truncate(line, width)
		return SelectedStyle.Render(pad(line, width))
	}

	name := truncate(item.Name()+suffix, width-lipgloss.Width(index)-2)
	line := IndexStyle.Render(index) + iconStyle.Render(icon) + " " + NormalStyle.Render(name)
	return line
}

func statusIcon(g goal.Goal) (string, lipgloss.Style) {
	switch g := g.(type) {
	case *goal.Eternal:
		return IconEternal, EternalStyle
	case *goal.Checklist:
		if goal.IsComplete(g) {
			return IconComplete, CompleteStyle
		}
		if g.Current() > 0 {
			return IconProgress, IncompleteStyle
		}
	default:
		if goal.IsComplete(g) {
			return IconComplete, CompleteStyle
		}
	}
	return IconIncomplete, IncompleteStyle
}

func (m Model) renderDetailPanel(width, height int) string {
	item, ok := m.selected()
	if !ok {
		return FooterStyle.Render(" Select a goal to view details")
	}

	md := goalMarkdown(item.Goal)

	rendered := md
	if m.glamourRenderer != nil {
		if out, err := m.glamourRenderer.Render(md); err == nil {
			rendered = out
		}
	}

	rendered = strings.TrimRight(rendered, "\n ")
	lines := strings.Split(rendered, "\n")
	if len(lines) > height {
		lines = lines[:height]
	}
	return strings.Join(lines, "\n")
}

// goalMarkdown describes a goal for the detail pane.
func goalMarkdown(g goal.Goal) string {
	var md strings.Builder
	b := g.Info()

	md.WriteString("# " + b.Title + "\n\n")

	meta := []string{"**Type:** " + string(g.Kind())}
	switch g := g.(type) {
	case *goal.Simple:
		if g.Done() {
			meta = append(meta, "**Status:** complete")
		} else {
			meta = append(meta, "**Status:** open")
		}
	case *goal.Eternal:
		meta = append(meta, "**Status:** never ends")
	case *goal.Checklist:
		meta = append(meta, fmt.Sprintf("**Progress:** %d/%d", g.Current(), g.Required()))
	}
	md.WriteString(strings.Join(meta, " | ") + "\n\n")

	if b.Description != "" {
		md.WriteString(b.Description + "\n\n")
	}

	md.WriteString(fmt.Sprintf("- **Points per event:** %d\n", b.Points))
	if c, ok := g.(*goal.Checklist); ok {
		md.WriteString(fmt.Sprintf("- **Completion bonus:** %d\n", c.Bonus()))
		if left := c.Required() - c.Current(); left > 0 {
			md.WriteString(fmt.Sprintf("- **Events remaining:** %d\n", left))
		}
	}

	return md.String()
}

func (m Model) renderAddPrompt() string {
	prompt := InputPromptStyle.Render(stepPrompts[m.step])
	if m.step > stepKind {
		prompt = HeaderCountStyle.Render("["+string(m.draft.kind)+"] ") + prompt
	}
	return prompt + m.textInput.View()
}

func (m Model) renderFooter() string {
	help := m.keys.ShortHelp()
	switch {
	case m.isAdding:
		help = "enter confirm  esc cancel"
	case m.isSearching:
		help = "type to search  enter/↓ keep filter  esc clear"
	case m.searchQuery != "":
		help = "esc clear filter  ↑↓ nav  space record"
	}
	return FooterStyle.Render(help)
}

func (m Model) renderHelpModal() string {
	var b strings.Builder

	b.WriteString(ModalTitleStyle.Render("Keyboard Shortcuts"))
	b.WriteString("\n\n")

	keyStyle := lipgloss.NewStyle().Foreground(ColorBlue).Width(16)
	descStyle := lipgloss.NewStyle().Foreground(ColorWhite)

	for _, binding := range m.keys.FullHelp() {
		b.WriteString(keyStyle.Render(binding[0]))
		b.WriteString(descStyle.Render(binding[1]))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(FooterStyle.Render("Press Esc or ? to close"))

	return ModalStyle.Render(b.String())
}

// Helper functions

func truncate(s string, width int) string {
	if width <= 0 {
		return ""
	}
	if lipgloss.Width(s) <= width {
		return s
	}
	r := []rune(s)
	for len(r) > 0 && lipgloss.Width(string(r))+1 > width {
		r = r[:len(r)-1]
	}
	return string(r) + "…"
}

func pad(s string, width int) string {
	if w := lipgloss.Width(s); w < width {
		return s + strings.Repeat(" ", width-w)
	}
	return s
}

func getLine(block string, idx int, width int) string {
	lines := strings.Split(block, "\n")
	if idx < len(lines) {
		return pad(lines[idx], width)
	}
	return strings.Repeat(" ", width)
}

func placeOverlay(modal string, width, height int) string {
	modalLines := strings.Split(modal, "\n")

	topPadding := max((height-len(modalLines))/2, 0)
	leftPadding := max((width-lipgloss.Width(modalLines[0]))/2, 0)

	var result strings.Builder
	for i := 0; i < topPadding; i++ {
		result.WriteString("\n")
	}

	for _, line := range modalLines {
		result.WriteString(strings.Repeat(" ", leftPadding))
		result.WriteString(line)
		result.WriteString("\n")
	}

	return result.String()
}

func countComplete(goals []goal.Goal) int {
	count := 0
	for _, g := range goals {
		if goal.IsComplete(g) {
			count++
		}
	}
	return count
}
