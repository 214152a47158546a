package ui

import (
	"database/sql"
	"fmt"
	"strconv"
	"strings"
	"time"

	"caltrack/internal/db"
	"caltrack/internal/editor"
	"caltrack/internal/model"
	"caltrack/internal/state"
	"caltrack/internal/util"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/rs/zerolog"
)

// Options configures the root model.
type Options struct {
	DB              *sql.DB
	Store           *state.Store
	Categories      []model.Category
	DefaultCategory int
	DailyGoal       int
	// PrefsPath is where table preferences are kept. Empty disables them.
	PrefsPath string
	Logger    zerolog.Logger
	// NewID overrides the id generator for new activities.
	NewID func() string
}

// Model is the root Bubble Tea model.
type Model struct {
	db       *sql.DB
	store    *state.Store
	editor   *editor.Controller
	recorder *recorder
	writes   *writeQueue
	log      zerolog.Logger

	categories []model.Category
	goal       int
	prefsPath  string

	screen model.Screen
	mode   model.Mode
	gState GState

	width  int
	height int

	error       string
	info        string
	showingHelp bool
	columnJump  bool

	activities *ActivitiesModel
	form       *ActivityFormModel

	keys      KeyMap
	prefs     UIPreferences
	undoStack []historyEntry
	redoStack []historyEntry
}

// New creates a new root model. The editor controller is subscribed to the
// store so that selecting an activity loads it into the draft.
func New(opts Options) Model {
	rec := &recorder{store: opts.Store}
	editorLog := opts.Logger.With().Str("cmp", "editor").Logger()

	var ctrl *editor.Controller
	if opts.NewID != nil {
		ctrl = editor.NewWithIDs(rec, opts.DefaultCategory, editorLog, opts.NewID)
	} else {
		ctrl = editor.New(rec, opts.DefaultCategory, editorLog)
	}
	opts.Store.Subscribe(ctrl.Listen)

	prefs := loadUIPreferences(opts.PrefsPath)
	activities := NewActivitiesModel(opts.Store.State().Activities, opts.Categories)
	activities.ApplyPrefs(prefs.Activities)
	opts.Store.Subscribe(func(_, next state.State, _ state.Action) {
		activities.SetRows(next.Activities)
	})

	return Model{
		db:         opts.DB,
		store:      opts.Store,
		editor:     ctrl,
		recorder:   rec,
		writes:     newWriteQueue(opts.DB),
		log:        opts.Logger.With().Str("cmp", "ui").Logger(),
		categories: opts.Categories,
		goal:       opts.DailyGoal,
		prefsPath:  opts.PrefsPath,
		screen:     model.ScreenActivities,
		mode:       model.ModeNav,
		gState:     GStateIdle,
		activities: activities,
		keys:       DefaultKeyMap(),
		prefs:      prefs,
	}
}

// Init initializes the model.
func (m Model) Init() tea.Cmd {
	return m.writes.reload()
}

// Update handles messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		if m.mode == model.ModeNav && m.columnJump {
			if msg.String() == "esc" {
				m.columnJump = false
				m.info = ""
				return m, nil
			}
			if n, err := strconv.Atoi(msg.String()); err == nil {
				if m.activities.JumpToColumn(n) {
					m.columnJump = false
					m.info = fmt.Sprintf("Jumped to column %d", n)
					m.persistTablePrefs()
					return m, nil
				}
				m.info = fmt.Sprintf("Column %d unavailable", n)
				return m, nil
			}
		}

		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}

		if key.Matches(msg, m.keys.Help) && m.mode == model.ModeNav {
			m.showingHelp = !m.showingHelp
			return m, nil
		}

		if m.showingHelp {
			if msg.String() == "esc" {
				m.showingHelp = false
			}
			return m, nil
		}

		if m.mode == model.ModeNav {
			return m.handleNavMode(msg)
		}
		return m.handleInsertMode(msg)

	case model.ErrorMsg:
		m.log.Error().Err(msg.Err).Msg("command failed")
		m.error = msg.Err.Error()
		return m, nil

	case model.ActivitiesLoadedMsg:
		if !m.writes.current(msg.Generation) {
			m.log.Debug().Int("generation", msg.Generation).Msg("dropping stale load")
			return m, nil
		}
		m.store.Dispatch(state.LoadActivities{Activities: msg.Activities})
		m.error = ""
		return m, nil

	case model.ChangesPersistedMsg:
		m.log.Debug().Str("change", msg.Label).Msg("changes persisted")
		m.writes.settle()
		return m, m.writes.reload()

	case model.PersistFailedMsg:
		m.log.Error().Err(msg.Err).Str("change", msg.Label).Msg("persist failed, reloading")
		m.error = msg.Err.Error()
		m.writes.settle()
		return m, m.writes.reload()

	case model.FormSubmittedMsg:
		m.closeForm()
		m.info = fmt.Sprintf("Saved %s (u to undo)", msg.Label)
		return m, nil

	case model.FormCancelledMsg:
		m.closeForm()
		if m.store.State().ActiveID != "" {
			m.store.Dispatch(state.SetActiveID{})
		}
		return m, nil
	}

	if m.mode == model.ModeInsert {
		return m.handleInsertMode(msg)
	}
	return m, nil
}

func (m *Model) closeForm() {
	m.mode = model.ModeNav
	m.screen = model.ScreenActivities
	m.form = nil
}

// openForm shows the form for the controller's current draft.
func (m *Model) openForm() {
	m.mode = model.ModeInsert
	m.screen = model.ScreenActivityForm
	m.form = NewActivityFormModel(m.editor, m.categories)
	m.info = ""
	m.error = ""
}

// View renders the UI.
func (m Model) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}

	if m.showingHelp {
		return RenderFullHelp(m.width, m.height)
	}

	var content string
	var breadcrumbParts []string
	var summary string

	contentHeight := m.height - 4 // header + footer

	switch m.screen {
	case model.ScreenActivities:
		breadcrumbParts = []string{"Activities"}
		summary = renderSummary(m.store.State().Summary(m.goal), m.width)
		contentHeight -= lipgloss.Height(summary)
	case model.ScreenActivityForm:
		breadcrumbParts = []string{"Activities", "New"}
		if m.editor.Mode().IsEditing() {
			breadcrumbParts = []string{"Activities", "Edit"}
		}
	}

	var banners []string
	if m.error != "" {
		banners = append(banners, ErrorStyle.Width(m.width).Render("Error: "+m.error))
	}
	if m.info != "" {
		banners = append(banners, SuccessStyle.Width(m.width).Render(m.info))
	}
	contentHeight -= len(banners)
	contentHeight = max(contentHeight, 3)

	switch m.screen {
	case model.ScreenActivities:
		content = m.activities.View(m.width, contentHeight)
	case model.ScreenActivityForm:
		if m.form != nil {
			content = m.form.View(m.width, contentHeight)
		}
	}

	content = lipgloss.NewStyle().
		Width(m.width).
		Height(contentHeight).
		Render(content)

	parts := []string{renderHeader(breadcrumbParts, m.width)}
	if summary != "" {
		parts = append(parts, summary)
	}
	parts = append(parts, banners...)
	parts = append(parts, content, RenderHelp(m.screen, m.mode, m.width))
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func renderSummary(s model.Summary, width int) string {
	parts := []string{
		lipgloss.NewStyle().Foreground(ColorFood).Render("consumed " + util.FormatCalories(s.Consumed)),
		lipgloss.NewStyle().Foreground(ColorBurn).Render("burned " + util.FormatCalories(s.Burned)),
		"net " + util.FormatCalories(s.Net),
	}
	if s.HasGoal() {
		remaining := "remaining " + util.FormatCalories(s.Remaining)
		if s.Remaining < 0 {
			remaining = lipgloss.NewStyle().Foreground(ColorRed).Render("over goal by " + util.FormatCalories(-s.Remaining))
		}
		parts = append(parts, remaining)
	}
	return SummaryStyle.Width(width).Render(strings.Join(parts, "  ·  "))
}

func renderHeader(breadcrumbParts []string, width int) string {
	title := HeaderStyle.Render("caltrack")

	var breadcrumb string
	if len(breadcrumbParts) > 0 {
		separator := BreadcrumbStyle.Render(" › ")
		parts := make([]string, len(breadcrumbParts))
		for i, part := range breadcrumbParts {
			if i == len(breadcrumbParts)-1 {
				parts[i] = BreadcrumbActiveStyle.Render(part)
			} else {
				parts[i] = BreadcrumbStyle.Render(part)
			}
		}
		breadcrumb = separator + strings.Join(parts, separator)
	}

	left := "  " + title + breadcrumb
	right := BreadcrumbStyle.Render(time.Now().Format("Mon 02 Jan")) + "  "

	padding := max(0, width-lipgloss.Width(left)-lipgloss.Width(right))
	return TitleStyle.Width(width).Render(left + strings.Repeat(" ", padding) + right)
}

// handleNavMode handles navigation mode input.
func (m Model) handleNavMode(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	t := m.activities
	switch {
	case key.Matches(msg, m.keys.NextColumn):
		t.NextColumn()
		m.persistTablePrefs()
		return m, nil
	case key.Matches(msg, m.keys.PrevColumn):
		t.PrevColumn()
		m.persistTablePrefs()
		return m, nil
	case key.Matches(msg, m.keys.ColumnJump):
		m.columnJump = true
		m.info = "Jump to column: press 1-9 (esc to cancel)"
		return m, nil
	case key.Matches(msg, m.keys.SortAsc):
		t.SortActiveColumn(false)
		m.info = "Sorted ascending"
		m.persistTablePrefs()
		return m, nil
	case key.Matches(msg, m.keys.SortDesc):
		t.SortActiveColumn(true)
		m.info = "Sorted descending"
		m.persistTablePrefs()
		return m, nil
	case key.Matches(msg, m.keys.HideColumn):
		if t.HideActiveColumn() {
			m.info = "Column hidden"
			m.persistTablePrefs()
		} else {
			m.info = "Cannot hide last visible column"
		}
		return m, nil
	case key.Matches(msg, m.keys.ShowColumns):
		t.ShowAllColumns()
		m.info = "All columns shown"
		m.persistTablePrefs()
		return m, nil
	case key.Matches(msg, m.keys.FilterValue):
		if t.FilterBySelectedValue() {
			m.info = "Filter applied from selected value"
		} else {
			m.info = "No filterable value in selected cell"
		}
		return m, nil
	case key.Matches(msg, m.keys.ClearFilter):
		if t.ClearFilter() {
			m.info = "Filter cleared"
		}
		return m, nil
	case key.Matches(msg, m.keys.Undo):
		return m, m.undo()
	case key.Matches(msg, m.keys.Redo):
		return m, m.redo()
	}

	// "gg" state machine
	if key.Matches(msg, m.keys.Top) {
		if m.gState == GStateFirstG {
			m.gState = GStateIdle
			t.JumpToTop()
			return m, nil
		}
		m.gState = GStateFirstG
		return m, nil
	}
	m.gState = GStateIdle

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Add):
		m.startNew()
		return m, nil
	case key.Matches(msg, m.keys.Edit):
		return m.startEdit()
	case key.Matches(msg, m.keys.Delete):
		return m.deleteSelected()
	case key.Matches(msg, m.keys.Restart):
		return m.restart()
	case key.Matches(msg, m.keys.Down):
		t.MoveDown()
	case key.Matches(msg, m.keys.Up):
		t.MoveUp()
	case key.Matches(msg, m.keys.Bottom):
		t.JumpToBottom()
	case key.Matches(msg, m.keys.HalfPageDown):
		t.HalfPageDown(m.height / 2)
	case key.Matches(msg, m.keys.HalfPageUp):
		t.HalfPageUp(m.height / 2)
	}
	return m, nil
}

func (m *Model) startNew() {
	if m.store.State().ActiveID != "" {
		m.store.Dispatch(state.SetActiveID{})
	}
	m.editor.Reset()
	m.openForm()
}

// startEdit selects the activity under the cursor. The controller picks the
// selection up through its store subscription.
func (m Model) startEdit() (tea.Model, tea.Cmd) {
	selected, ok := m.activities.Selected()
	if !ok {
		m.info = "Nothing to edit"
		return m, nil
	}

	if m.store.State().ActiveID == selected.ID {
		if err := m.editor.LoadSelection(m.store.State()); err != nil {
			return m, func() tea.Msg { return model.ErrorMsg{Err: err} }
		}
	} else {
		m.store.Dispatch(state.SetActiveID{ID: selected.ID})
	}

	if !m.editor.Mode().IsEditing() {
		m.error = fmt.Sprintf("could not load %q for editing", selected.Name)
		return m, nil
	}
	m.openForm()
	return m, nil
}

func (m Model) deleteSelected() (tea.Model, tea.Cmd) {
	selected, ok := m.activities.Selected()
	if !ok {
		m.info = "Nothing to delete"
		return m, nil
	}

	cmd := m.commit(
		"deleted "+selected.Name,
		[]state.Action{state.DeleteActivity{ID: selected.ID}},
		[]state.Action{state.RestoreActivities{Activities: []model.Activity{selected}}},
	)
	m.info = "Activity deleted (u to undo)"
	return m, cmd
}

func (m Model) restart() (tea.Model, tea.Cmd) {
	all := m.store.State().Activities
	if len(all) == 0 {
		m.info = "Nothing to clear"
		return m, nil
	}

	cmd := m.commit(
		fmt.Sprintf("cleared %d activities", len(all)),
		[]state.Action{state.RestartApp{}},
		[]state.Action{state.RestoreActivities{Activities: all}},
	)
	m.info = "All activities cleared (u to undo)"
	return m, cmd
}

func (m *Model) persistTablePrefs() {
	m.prefs.Activities = m.activities.Prefs()
	if err := saveUIPreferences(m.prefsPath, m.prefs); err != nil {
		m.log.Warn().Err(err).Msg("could not save table preferences")
	}
}

// handleInsertMode forwards input to the form and persists whatever the
// controller committed while handling it.
func (m Model) handleInsertMode(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.form == nil {
		return m, nil
	}

	form, cmd := m.form.Update(msg)
	m.form = &form
	return m, tea.Batch(cmd, m.flushSaves())
}

// flushSaves records history for, and persists, every save the controller
// dispatched since the last flush.
func (m *Model) flushSaves() tea.Cmd {
	var cmds []tea.Cmd
	for _, s := range m.recorder.drain() {
		if s.before != nil && s.before.SameContent(s.after) {
			continue
		}
		entry := saveHistory(s.before, s.after)
		m.pushHistory(entry)
		cmds = append(cmds, m.writes.enqueue(entry.label, entry.redo))
	}
	return tea.Batch(cmds...)
}

// recorder is the controller's dispatcher. It forwards actions to the store
// and remembers saves, with the activity they replaced, until drained.
type recorder struct {
	store *state.Store
	saves []recordedSave
}

type recordedSave struct {
	before *model.Activity
	after  model.Activity
}

func (r *recorder) Dispatch(action state.Action) {
	if save, ok := action.(state.SaveActivity); ok {
		var before *model.Activity
		if prev, found := r.store.State().Find(save.Activity.ID); found {
			before = &prev
		}
		r.saves = append(r.saves, recordedSave{before: before, after: save.Activity})
	}
	r.store.Dispatch(action)
}

func (r *recorder) drain() []recordedSave {
	saves := r.saves
	r.saves = nil
	return saves
}

// loadActivitiesCmd reads all activities after the write closing after has
// finished.
func loadActivitiesCmd(database *sql.DB, gen int, after chan struct{}) tea.Cmd {
	return func() tea.Msg {
		if after != nil {
			<-after
		}
		activities, err := db.ListActivities(database, "")
		if err != nil {
			return model.ErrorMsg{Err: fmt.Errorf("failed to load activities: %w", err)}
		}
		return model.ActivitiesLoadedMsg{Activities: activities, Generation: gen}
	}
}
