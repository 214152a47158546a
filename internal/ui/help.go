package ui

import (
	"strings"

	"caltrack/internal/model"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"
)

// keyHelp is the part of bubbles' help.KeyMap the footer and help screen use.
type keyHelp interface {
	ShortHelp() []key.Binding
	FullHelp() [][]key.Binding
}

// RenderHelp renders context-sensitive help footer.
func RenderHelp(screen model.Screen, mode model.Mode, width int) string {
	var keys keyHelp = DefaultKeyMap()
	if mode == model.ModeInsert || screen == model.ScreenActivityForm {
		keys = DefaultFormKeyMap()
	}

	items := make([]string, 0, len(keys.ShortHelp()))
	for _, b := range keys.ShortHelp() {
		items = append(items, bindingHelp(b))
	}
	return FooterStyle.Width(width).Render(strings.Join(items, "  "))
}

func bindingHelp(b key.Binding) string {
	h := b.Help()
	return helpKey(h.Key, h.Desc)
}

func helpKey(key, desc string) string {
	return HelpKeyStyle.Render(key) + " " + HelpDescStyle.Render(desc)
}

// RenderFullHelp renders the full help screen.
func RenderFullHelp(width, height int) string {
	nav := DefaultKeyMap().FullHelp()
	form := DefaultFormKeyMap().FullHelp()

	groups := []struct {
		title    string
		bindings []key.Binding
	}{
		{"Activities", nav[0]},
		{"Table", nav[1]},
		{"Activity Form", form[0]},
	}

	sections := make([]string, 0, len(groups))
	for _, g := range groups {
		sections = append(sections, LabelStyle.Render(g.title)+"\n"+helpSection(g.bindings))
	}

	body := lipgloss.NewStyle().
		Width(width-4).
		Height(height-6).
		Padding(1, 2).
		Render(strings.Join(sections, "\n\n"))

	return lipgloss.JoinVertical(
		lipgloss.Left,
		TitleStyle.Width(width).Render("Help"),
		body,
		FooterStyle.Width(width).Render(helpKey("esc", "close help")),
	)
}

func helpSection(bindings []key.Binding) string {
	lines := make([]string, 0, len(bindings))
	for _, b := range bindings {
		h := b.Help()
		lines = append(lines, "  "+HelpKeyStyle.Render(h.Key)+" - "+HelpDescStyle.Render(h.Desc))
	}
	return strings.Join(lines, "\n")
}
