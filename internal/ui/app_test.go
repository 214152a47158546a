package ui

import (
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"caltrack/internal/db"
	"caltrack/internal/editor"
	"caltrack/internal/model"
	"caltrack/internal/state"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestModel(t *testing.T, seed ...model.Activity) Model {
	t.Helper()

	database, err := db.Open(filepath.Join(t.TempDir(), "caltrack.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close() })

	for _, a := range seed {
		_, err := db.UpsertActivity(database, a)
		require.NoError(t, err)
	}

	ids := 0
	m := New(Options{
		DB:              database,
		Store:           state.NewStore(state.State{}, zerolog.Nop()),
		Categories:      model.DefaultCategories(),
		DefaultCategory: model.CategoryFood,
		DailyGoal:       2000,
		PrefsPath:       filepath.Join(t.TempDir(), PrefsFileName),
		Logger:          zerolog.Nop(),
		NewID: func() string {
			ids++
			return fmt.Sprintf("id-%d", ids)
		},
	})

	m = run(t, m, m.Init())
	updated, _ := m.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	return updated.(Model)
}

func keyMsg(k string) tea.KeyMsg {
	switch k {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEscape}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "shift+tab":
		return tea.KeyMsg{Type: tea.KeyShiftTab}
	case "left":
		return tea.KeyMsg{Type: tea.KeyLeft}
	case "right":
		return tea.KeyMsg{Type: tea.KeyRight}
	case "backspace":
		return tea.KeyMsg{Type: tea.KeyBackspace}
	case "ctrl+s":
		return tea.KeyMsg{Type: tea.KeyCtrlS}
	case "ctrl+r":
		return tea.KeyMsg{Type: tea.KeyCtrlR}
	default:
		return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
	}
}

// press sends keys and drops the resulting commands. Only use it for keys
// that do not write to storage.
func press(t *testing.T, m Model, keys ...string) Model {
	t.Helper()
	for _, k := range keys {
		updated, _ := m.Update(keyMsg(k))
		m = updated.(Model)
	}
	return m
}

// pressAndRun sends one key and runs every command it produces to completion.
func pressAndRun(t *testing.T, m Model, k string) Model {
	t.Helper()
	updated, cmd := m.Update(keyMsg(k))
	return run(t, updated.(Model), cmd)
}

func run(t *testing.T, m Model, cmd tea.Cmd) Model {
	t.Helper()
	queue := collect(cmd)
	for i := 0; len(queue) > 0; i++ {
		require.Less(t, i, 100, "command loop did not settle")
		msg := queue[0]
		queue = queue[1:]
		updated, next := m.Update(msg)
		m = updated.(Model)
		queue = append(queue, collect(next)...)
	}
	return m
}

func collect(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	switch msg := cmd().(type) {
	case nil:
		return nil
	case tea.BatchMsg:
		var out []tea.Msg
		for _, c := range msg {
			out = append(out, collect(c)...)
		}
		return out
	default:
		return []tea.Msg{msg}
	}
}

func stored(t *testing.T, m Model) []model.Activity {
	t.Helper()
	all, err := db.ListActivities(m.db, "")
	require.NoError(t, err)
	return all
}

func seedActivities() []model.Activity {
	base := time.Date(2024, time.June, 1, 8, 0, 0, 0, time.UTC)
	return []model.Activity{
		{ID: "oats", Category: model.CategoryFood, Name: "Oatmeal", Calories: 300, CreatedAt: base},
		{ID: "run", Category: model.CategoryExercise, Name: "Run", Calories: 450, CreatedAt: base.Add(time.Hour)},
	}
}

func TestApp_InitLoadsActivitiesIntoStore(t *testing.T) {
	m := newTestModel(t, seedActivities()...)

	assert.Len(t, m.store.State().Activities, 2)
	assert.Equal(t, 2, m.activities.Len())
	assert.Contains(t, m.View(), "Oatmeal")
}

func TestApp_AddActivity(t *testing.T) {
	m := newTestModel(t)

	m = press(t, m, "a")
	require.Equal(t, model.ModeInsert, m.mode)
	require.NotNil(t, m.form)

	m = press(t, m, "Salad", "tab", "350")
	assert.Contains(t, m.View(), editor.SubmitLabelFood)
	draftID := m.editor.Draft().ID

	m = pressAndRun(t, m, "ctrl+s")

	assert.Equal(t, model.ModeNav, m.mode)
	assert.Nil(t, m.form)

	activities := m.store.State().Activities
	require.Len(t, activities, 1)
	assert.Equal(t, draftID, activities[0].ID)
	assert.Equal(t, "Salad", activities[0].Name)
	assert.Equal(t, 350, activities[0].Calories)
	assert.Equal(t, model.CategoryFood, activities[0].Category)

	persisted := stored(t, m)
	require.Len(t, persisted, 1)
	assert.Equal(t, "Salad", persisted[0].Name)
	assert.Len(t, m.undoStack, 1)
}

func TestApp_InvalidSubmitDispatchesNothing(t *testing.T) {
	m := newTestModel(t)

	m = press(t, m, "a")
	m = pressAndRun(t, m, "ctrl+s")

	assert.Equal(t, model.ModeInsert, m.mode)
	assert.Empty(t, m.store.State().Activities)
	assert.Empty(t, stored(t, m))
	require.NotNil(t, m.form)
	assert.Contains(t, m.form.fieldErrors, "name")
	assert.Contains(t, m.form.fieldErrors, "calories")
}

func TestApp_CategorySelectorChangesLabel(t *testing.T) {
	m := newTestModel(t)

	m = press(t, m, "a", "shift+tab", "right")

	assert.Equal(t, model.CategoryExercise, m.editor.Draft().Category)
	assert.Equal(t, editor.SubmitLabelExercise, m.editor.SubmitLabel())
	assert.Contains(t, m.View(), editor.SubmitLabelExercise)

	m = press(t, m, "h")
	assert.Equal(t, model.CategoryFood, m.editor.Draft().Category)
}

func TestApp_EditSelectedActivity(t *testing.T) {
	m := newTestModel(t, seedActivities()...)

	m = press(t, m, "j", "e")

	require.Equal(t, model.ModeInsert, m.mode)
	assert.Equal(t, "run", m.store.State().ActiveID)
	assert.True(t, m.editor.Mode().IsEditing())
	assert.Equal(t, "Run", m.form.name.Value())
	assert.Equal(t, "450", m.form.calories.Value())
	assert.Contains(t, m.View(), editor.SubmitLabelExercise)

	m = press(t, m, "tab", "backspace", "backspace", "backspace", "520")
	m = pressAndRun(t, m, "ctrl+s")

	activities := m.store.State().Activities
	require.Len(t, activities, 2)
	got, ok := m.store.State().Find("run")
	require.True(t, ok)
	assert.Equal(t, 520, got.Calories)
	assert.Empty(t, m.store.State().ActiveID)

	persisted, err := db.GetActivity(m.db, "run")
	require.NoError(t, err)
	assert.Equal(t, 520, persisted.Calories)
}

func TestApp_EditThenUndoRestoresPrevious(t *testing.T) {
	m := newTestModel(t, seedActivities()...)

	m = press(t, m, "e", "backspace", "backspace", "backspace", "backspace", "backspace", "backspace", "backspace", "Porridge")
	m = pressAndRun(t, m, "ctrl+s")

	got, _ := m.store.State().Find("oats")
	require.Equal(t, "Porridge", got.Name)

	m = pressAndRun(t, m, "u")

	got, _ = m.store.State().Find("oats")
	assert.Equal(t, "Oatmeal", got.Name)
	persisted, err := db.GetActivity(m.db, "oats")
	require.NoError(t, err)
	assert.Equal(t, "Oatmeal", persisted.Name)
}

func TestApp_CancelClearsSelection(t *testing.T) {
	m := newTestModel(t, seedActivities()...)

	m = press(t, m, "e")
	require.Equal(t, "oats", m.store.State().ActiveID)

	m = pressAndRun(t, m, "esc")

	assert.Equal(t, model.ModeNav, m.mode)
	assert.Empty(t, m.store.State().ActiveID)
	assert.False(t, m.editor.Mode().IsEditing())
	assert.Empty(t, m.editor.Draft().Name)
}

func TestApp_EditSameActivityTwice(t *testing.T) {
	m := newTestModel(t, seedActivities()...)

	m = press(t, m, "e")
	m = pressAndRun(t, m, "esc")
	m = press(t, m, "e")

	assert.True(t, m.editor.Mode().IsEditing())
	assert.Equal(t, "Oatmeal", m.form.name.Value())
}

func TestApp_DeleteUndoRedo(t *testing.T) {
	m := newTestModel(t, seedActivities()...)

	m = pressAndRun(t, m, "d")
	require.Len(t, m.store.State().Activities, 1)
	require.Len(t, stored(t, m), 1)

	m = pressAndRun(t, m, "u")
	assert.Len(t, m.store.State().Activities, 2)
	persisted := stored(t, m)
	require.Len(t, persisted, 2)
	assert.Equal(t, "oats", persisted[0].ID)

	m = pressAndRun(t, m, "ctrl+r")
	assert.Len(t, m.store.State().Activities, 1)
	assert.Len(t, stored(t, m), 1)
}

func TestApp_RestartAndUndo(t *testing.T) {
	m := newTestModel(t, seedActivities()...)

	m = pressAndRun(t, m, "R")
	assert.Empty(t, m.store.State().Activities)
	assert.Empty(t, stored(t, m))
	assert.Contains(t, m.View(), "Nothing logged yet")

	m = pressAndRun(t, m, "u")
	assert.Len(t, m.store.State().Activities, 2)
	assert.Len(t, stored(t, m), 2)
}

func TestApp_UndoWithEmptyHistory(t *testing.T) {
	m := newTestModel(t)

	m = pressAndRun(t, m, "u")
	assert.Equal(t, "Nothing to undo", m.info)

	m = pressAndRun(t, m, "ctrl+r")
	assert.Equal(t, "Nothing to redo", m.info)
}

func TestApp_SummaryShowsTotals(t *testing.T) {
	m := newTestModel(t, seedActivities()...)

	view := m.View()
	assert.Contains(t, view, "consumed 300 kcal")
	assert.Contains(t, view, "burned 450 kcal")
	assert.Contains(t, view, "net -150 kcal")
	assert.Contains(t, view, "remaining 2,150 kcal")
}

func TestApp_HelpToggle(t *testing.T) {
	m := newTestModel(t)

	m = press(t, m, "?")
	assert.True(t, m.showingHelp)
	assert.Contains(t, m.View(), "Activity Form")

	m = press(t, m, "esc")
	assert.False(t, m.showingHelp)
}

func TestApp_SortPersistsPrefs(t *testing.T) {
	m := newTestModel(t, seedActivities()...)

	m = press(t, m, "/", "3", "S")

	first, ok := m.activities.Selected()
	require.True(t, ok)
	assert.Equal(t, "run", first.ID)

	prefs := loadUIPreferences(m.prefsPath)
	assert.Equal(t, "calories", prefs.Activities.SortKey)
	assert.True(t, prefs.Activities.SortDesc)
}

func TestApp_UnchangedSaveSkipsHistory(t *testing.T) {
	m := newTestModel(t, seedActivities()...)

	m = press(t, m, "e")
	m = pressAndRun(t, m, "ctrl+s")

	assert.Equal(t, model.ModeNav, m.mode)
	assert.Empty(t, m.undoStack)
	assert.Len(t, m.store.State().Activities, 2)
}

func TestApp_ReloadWaitsForPendingWrites(t *testing.T) {
	m := newTestModel(t, seedActivities()...)

	updated, first := m.Update(keyMsg("d"))
	m = updated.(Model)
	updated, second := m.Update(keyMsg("d"))
	m = updated.(Model)
	require.Empty(t, m.store.State().Activities)

	// A load issued before the deletes must not bring their rows back.
	updated, _ = m.Update(model.ActivitiesLoadedMsg{Activities: seedActivities()})
	m = updated.(Model)
	assert.Empty(t, m.store.State().Activities)

	updated, reload := m.Update(first())
	m = updated.(Model)
	assert.Nil(t, reload, "no reload while a write is outstanding")
	assert.Empty(t, m.store.State().Activities)

	updated, reload = m.Update(second())
	m = updated.(Model)
	require.NotNil(t, reload)
	m = run(t, m, reload)

	assert.Empty(t, m.store.State().Activities)
	assert.Empty(t, stored(t, m))
}

func TestApp_RestartAfterQuickDeletesKeepsThemDeleted(t *testing.T) {
	seed := append(seedActivities(), model.Activity{
		ID: "tea", Category: model.CategoryFood, Name: "Tea", Calories: 40,
		CreatedAt: time.Date(2024, time.June, 1, 10, 0, 0, 0, time.UTC),
	})
	m := newTestModel(t, seed...)

	updated, first := m.Update(keyMsg("d"))
	m = updated.(Model)
	updated, second := m.Update(keyMsg("d"))
	m = updated.(Model)

	updated, reload := m.Update(first())
	m = updated.(Model)
	require.Nil(t, reload)
	m = run(t, m, second)

	m = pressAndRun(t, m, "R")
	require.Empty(t, stored(t, m))

	m = pressAndRun(t, m, "u")
	persisted := stored(t, m)
	require.Len(t, persisted, 1)
	assert.Equal(t, "tea", persisted[0].ID)
}
