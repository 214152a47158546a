package ui

import (
	"errors"
	"strconv"
	"strings"

	"caltrack/internal/editor"
	"caltrack/internal/model"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/hay-kot/criterio"
)

type formFocus int

const (
	focusCategory formFocus = iota
	focusName
	focusCalories
	focusSubmit
	focusCount
)

// ActivityFormModel renders the editor controller's draft and forwards
// every edit to it.
type ActivityFormModel struct {
	controller *editor.Controller
	categories []model.Category
	keys       FormKeyMap

	focus    formFocus
	name     textinput.Model
	calories textinput.Model

	attempted   bool
	fieldErrors map[string]string
}

// NewActivityFormModel creates a form showing the controller's current draft.
func NewActivityFormModel(controller *editor.Controller, categories []model.Category) *ActivityFormModel {
	name := textinput.New()
	name.Placeholder = "What did you eat or do?"
	name.CharLimit = 100

	calories := textinput.New()
	calories.Placeholder = "kcal"
	calories.CharLimit = 7

	m := &ActivityFormModel{
		controller: controller,
		categories: categories,
		keys:       DefaultFormKeyMap(),
		name:       name,
		calories:   calories,
	}
	m.syncInputs()
	m.setFocus(focusName)
	return m
}

// syncInputs copies the draft into the text inputs.
func (m *ActivityFormModel) syncInputs() {
	draft := m.controller.Draft()
	m.name.SetValue(draft.Name)
	if draft.Calories != 0 {
		m.calories.SetValue(strconv.Itoa(draft.Calories))
	} else {
		m.calories.SetValue("")
	}
}

func (m *ActivityFormModel) setFocus(f formFocus) {
	m.focus = f
	m.name.Blur()
	m.calories.Blur()
	switch f {
	case focusName:
		m.name.Focus()
	case focusCalories:
		m.calories.Focus()
	}
}

func (m *ActivityFormModel) nextField() {
	m.setFocus((m.focus + 1) % focusCount)
}

func (m *ActivityFormModel) prevField() {
	m.setFocus((m.focus + focusCount - 1) % focusCount)
}

func (m *ActivityFormModel) categoryIndex() int {
	current := m.controller.Draft().Category
	for i, c := range m.categories {
		if c.ID == current {
			return i
		}
	}
	return -1
}

func (m *ActivityFormModel) cycleCategory(delta int) {
	if len(m.categories) == 0 {
		return
	}
	idx := m.categoryIndex()
	if idx < 0 {
		idx = 0
	} else {
		idx = (idx + delta + len(m.categories)) % len(m.categories)
	}
	m.controller.OnFieldChange(editor.FieldCategory, strconv.Itoa(m.categories[idx].ID))
	m.refreshErrors()
}

// Update handles input.
func (m ActivityFormModel) Update(msg tea.Msg) (ActivityFormModel, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch {
	case key.Matches(keyMsg, m.keys.Cancel):
		m.controller.Reset()
		return m, func() tea.Msg {
			return model.FormCancelledMsg{}
		}
	case key.Matches(keyMsg, m.keys.Save):
		return m.submit()
	case key.Matches(keyMsg, m.keys.Submit):
		if m.focus == focusSubmit {
			return m.submit()
		}
		m.nextField()
		return m, nil
	case key.Matches(keyMsg, m.keys.NextField):
		m.nextField()
		return m, nil
	case key.Matches(keyMsg, m.keys.PrevField):
		m.prevField()
		return m, nil
	}

	switch m.focus {
	case focusCategory:
		switch {
		case key.Matches(keyMsg, m.keys.NextCategory):
			m.cycleCategory(1)
		case key.Matches(keyMsg, m.keys.PrevCategory):
			m.cycleCategory(-1)
		}
		return m, nil

	case focusName:
		var cmd tea.Cmd
		m.name, cmd = m.name.Update(keyMsg)
		m.controller.OnFieldChange(editor.FieldName, m.name.Value())
		m.refreshErrors()
		return m, cmd

	case focusCalories:
		var cmd tea.Cmd
		m.calories, cmd = m.calories.Update(keyMsg)
		m.controller.OnFieldChange(editor.FieldCalories, m.calories.Value())
		m.refreshErrors()
		return m, cmd
	}

	return m, nil
}

func (m ActivityFormModel) submit() (ActivityFormModel, tea.Cmd) {
	m.attempted = true
	name := strings.TrimSpace(m.controller.Draft().Name)
	if !m.controller.Submit() {
		m.refreshErrors()
		return m, nil
	}

	m.fieldErrors = nil
	return m, func() tea.Msg {
		return model.FormSubmittedMsg{Label: name}
	}
}

// refreshErrors recomputes field errors once a save was attempted.
func (m *ActivityFormModel) refreshErrors() {
	if !m.attempted {
		return
	}
	m.fieldErrors = nil

	var fieldErrs criterio.FieldErrors
	if err := m.controller.Validate(); errors.As(err, &fieldErrs) {
		m.fieldErrors = make(map[string]string, len(fieldErrs))
		for _, fe := range fieldErrs {
			m.fieldErrors[fe.Field] = fe.Err.Error()
		}
	}
}

func (m *ActivityFormModel) title() string {
	if mode := m.controller.Mode(); mode.IsEditing() {
		return "Edit activity"
	}
	return "New activity"
}

func (m *ActivityFormModel) renderCategories() string {
	active := m.categoryIndex()
	chips := make([]string, 0, len(m.categories))
	for i, c := range m.categories {
		style := CategoryChipStyle
		if i == active {
			style = ActiveCategoryChipStyle
		}
		chips = append(chips, style.Render(c.Name))
	}
	if active < 0 {
		chips = append(chips, FieldErrorStyle.Render("unknown category "+strconv.Itoa(m.controller.Draft().Category)))
	}

	style := BorderStyle
	if m.focus == focusCategory {
		style = ActiveBorderStyle
	}
	return style.Render(lipgloss.JoinVertical(
		lipgloss.Left,
		LabelStyle.Render("Category"),
		lipgloss.JoinHorizontal(lipgloss.Left, chips...),
	))
}

func (m *ActivityFormModel) renderButton() string {
	label := m.controller.SubmitLabel()
	switch {
	case !m.controller.IsValid():
		return DisabledButtonStyle.Render(label)
	case m.focus == focusSubmit:
		return FocusedButtonStyle.Render("▸ " + label)
	default:
		return ButtonStyle.Render(label)
	}
}

func (m *ActivityFormModel) withError(field editor.Field, rendered string) string {
	msg, ok := m.fieldErrors[field.String()]
	if !ok {
		return rendered
	}
	return lipgloss.JoinVertical(lipgloss.Left, rendered, FieldErrorStyle.Render("  "+field.String()+": "+msg))
}

// View renders the form.
func (m *ActivityFormModel) View(width, height int) string {
	fields := []string{
		LabelStyle.Render(m.title()),
		m.renderCategories(),
		m.withError(editor.FieldName, renderFormField("Name *", m.name, m.focus == focusName)),
		m.withError(editor.FieldCalories, renderFormField("Calories *", m.calories, m.focus == focusCalories)),
		m.renderButton(),
	}

	return PanelStyle.
		Width(max(0, width-4)).
		Height(max(0, height-4)).
		Render(strings.Join(fields, "\n\n"))
}

func renderFormField(label string, input textinput.Model, focused bool) string {
	style := BorderStyle
	if focused {
		style = ActiveBorderStyle
	}

	field := lipgloss.JoinVertical(
		lipgloss.Left,
		LabelStyle.Render(label),
		input.View(),
	)

	return style.Render(field)
}
