package editor

import (
	"fmt"
	"testing"

	"caltrack/internal/model"
	"caltrack/internal/state"

	"github.com/hay-kot/criterio"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingDispatcher struct {
	actions []state.Action
}

func (d *recordingDispatcher) Dispatch(action state.Action) {
	d.actions = append(d.actions, action)
}

func sequentialIDs() func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("id-%d", n)
	}
}

func newTestController(t *testing.T) (*Controller, *recordingDispatcher) {
	t.Helper()
	d := &recordingDispatcher{}
	return NewWithIDs(d, model.CategoryFood, zerolog.Nop(), sequentialIDs()), d
}

func TestNew_BlankDraft(t *testing.T) {
	c, d := newTestController(t)

	draft := c.Draft()
	assert.Equal(t, "id-1", draft.ID)
	assert.Equal(t, model.CategoryFood, draft.Category)
	assert.Empty(t, draft.Name)
	assert.Zero(t, draft.Calories)
	assert.False(t, c.Mode().IsEditing())
	assert.Empty(t, d.actions)
}

func TestNew_UUIDs(t *testing.T) {
	c := New(&recordingDispatcher{}, model.CategoryFood, zerolog.Nop())
	first := c.Draft().ID
	require.Len(t, first, 36)

	c.Reset()
	assert.NotEqual(t, first, c.Draft().ID)
}

func TestOnFieldChange_NameThenCalories(t *testing.T) {
	c, _ := newTestController(t)

	c.OnFieldChange(FieldName, "Salad")
	c.OnFieldChange(FieldCalories, "300")

	want := model.Activity{ID: "id-1", Category: model.CategoryFood, Name: "Salad", Calories: 300}
	assert.Equal(t, want, c.Draft())
	assert.True(t, c.IsValid())
}

func TestOnFieldChange_TouchesOnlyOneField(t *testing.T) {
	c, _ := newTestController(t)
	c.OnFieldChange(FieldName, "Run")
	c.OnFieldChange(FieldCalories, "450")

	c.OnFieldChange(FieldCategory, "2")

	draft := c.Draft()
	assert.Equal(t, model.CategoryExercise, draft.Category)
	assert.Equal(t, "Run", draft.Name)
	assert.Equal(t, 450, draft.Calories)
	assert.Equal(t, "id-1", draft.ID)
}

func TestOnFieldChange_Idempotent(t *testing.T) {
	c, _ := newTestController(t)

	c.OnFieldChange(FieldName, "Orange juice")
	once := c.Draft()
	c.OnFieldChange(FieldName, "Orange juice")

	assert.Equal(t, once, c.Draft())
}

func TestOnFieldChange_NameStoredAsTyped(t *testing.T) {
	c, _ := newTestController(t)

	c.OnFieldChange(FieldName, "  Salad ")

	assert.Equal(t, "  Salad ", c.Draft().Name)
}

func TestOnFieldChange_NumericCoercion(t *testing.T) {
	tests := []struct {
		raw  string
		want int
	}{
		{"300", 300},
		{" 42 ", 42},
		{"12.9", 12},
		{"-5", -5},
		{"", 0},
		{"abc", 0},
		{"3e2", 300},
		{"NaN", 0},
		{"1e40", 0},
		{"2147483647", 2147483647},
		{"3000000000", 0},
		{"3000000000.5", 0},
		{"-3000000000", 0},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			c, _ := newTestController(t)

			c.OnFieldChange(FieldCalories, tt.raw)
			c.OnFieldChange(FieldCategory, tt.raw)

			assert.Equal(t, tt.want, c.Draft().Calories)
			assert.Equal(t, tt.want, c.Draft().Category)
		})
	}
}

func TestIsValid(t *testing.T) {
	tests := []struct {
		name     string
		actName  string
		calories string
		want     bool
	}{
		{"valid", "Salad", "300", true},
		{"empty name", "", "5", false},
		{"whitespace name", "   ", "5", false},
		{"zero calories", "Salad", "0", false},
		{"negative calories", "Salad", "-1", false},
		{"non numeric calories", "Salad", "lots", false},
		{"padded name", " Salad ", "1", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _ := newTestController(t)
			c.OnFieldChange(FieldName, tt.actName)
			c.OnFieldChange(FieldCalories, tt.calories)

			assert.Equal(t, tt.want, c.IsValid())
			if tt.want {
				assert.NoError(t, c.Validate())
			} else {
				assert.Error(t, c.Validate())
			}
		})
	}
}

func TestValidate_FieldErrors(t *testing.T) {
	c, _ := newTestController(t)

	err := c.Validate()

	var fieldErrs criterio.FieldErrors
	require.ErrorAs(t, err, &fieldErrs)
	require.Len(t, fieldErrs, 2)
	assert.Equal(t, "name", fieldErrs[0].Field)
	assert.Equal(t, "calories", fieldErrs[1].Field)
}

func TestSubmit_Valid(t *testing.T) {
	c, d := newTestController(t)
	c.OnFieldChange(FieldName, "Salad")
	c.OnFieldChange(FieldCalories, "300")
	submitted := c.Draft()

	ok := c.Submit()

	require.True(t, ok)
	require.Len(t, d.actions, 1)
	save, isSave := d.actions[0].(state.SaveActivity)
	require.True(t, isSave)
	assert.Equal(t, state.KindSaveActivity, save.Kind())
	assert.Equal(t, submitted, save.Activity)

	draft := c.Draft()
	assert.Empty(t, draft.Name)
	assert.Zero(t, draft.Calories)
	assert.Equal(t, model.CategoryFood, draft.Category)
	assert.NotEqual(t, submitted.ID, draft.ID)
	assert.False(t, c.Mode().IsEditing())
}

func TestSubmit_InvalidIsNoop(t *testing.T) {
	c, d := newTestController(t)
	c.OnFieldChange(FieldName, "")
	c.OnFieldChange(FieldCalories, "5")
	before := c.Draft()

	ok := c.Submit()

	assert.False(t, ok)
	assert.Empty(t, d.actions)
	assert.Equal(t, before, c.Draft())
}

func TestSubmitLabel(t *testing.T) {
	c, _ := newTestController(t)
	assert.Equal(t, SubmitLabelFood, c.SubmitLabel())

	c.OnFieldChange(FieldCategory, "2")
	assert.Equal(t, SubmitLabelExercise, c.SubmitLabel())

	c.OnFieldChange(FieldCategory, "7")
	assert.Equal(t, SubmitLabelExercise, c.SubmitLabel())

	c.OnFieldChange(FieldCategory, "1")
	assert.Equal(t, SubmitLabelFood, c.SubmitLabel())
}

func TestLoadSelection_CopiesRecord(t *testing.T) {
	c, _ := newTestController(t)
	run := model.Activity{ID: "run", Category: model.CategoryExercise, Name: "Run", Calories: 450}
	s := state.State{
		Activities: []model.Activity{
			{ID: "salad", Category: model.CategoryFood, Name: "Salad", Calories: 300},
			run,
		},
		ActiveID: "run",
	}

	require.NoError(t, c.LoadSelection(s))

	assert.Equal(t, run, c.Draft())
	assert.Equal(t, Mode{Kind: ModeEditing, OriginalID: "run"}, c.Mode())
}

func TestLoadSelection_MissFallsBackToBlank(t *testing.T) {
	c, _ := newTestController(t)
	c.OnFieldChange(FieldName, "half typed")

	err := c.LoadSelection(state.State{ActiveID: "ghost"})

	require.ErrorIs(t, err, ErrSelectionNotFound)
	assert.Contains(t, err.Error(), "ghost")
	draft := c.Draft()
	assert.NotEmpty(t, draft.ID)
	assert.Empty(t, draft.Name)
	assert.False(t, c.Mode().IsEditing())
}

func TestListen_OnlyReactsToSelectionChange(t *testing.T) {
	store := state.NewStore(state.State{
		Activities: []model.Activity{
			{ID: "salad", Category: model.CategoryFood, Name: "Salad", Calories: 300},
		},
	}, zerolog.Nop())
	c := NewWithIDs(store, model.CategoryFood, zerolog.Nop(), sequentialIDs())
	unsubscribe := store.Subscribe(c.Listen)
	defer unsubscribe()

	store.Dispatch(state.SetActiveID{ID: "salad"})
	require.True(t, c.Mode().IsEditing())
	assert.Equal(t, "Salad", c.Draft().Name)

	// Edits survive unrelated dispatches and re-selecting the same id.
	c.OnFieldChange(FieldName, "Big salad")
	store.Dispatch(state.SetActiveID{ID: "salad"})
	assert.Equal(t, "Big salad", c.Draft().Name)

	// Clearing the selection does not touch the draft.
	store.Dispatch(state.SetActiveID{ID: ""})
	assert.Equal(t, "Big salad", c.Draft().Name)
}

func TestEditAndSubmit_ReplacesInStore(t *testing.T) {
	store := state.NewStore(state.State{
		Activities: []model.Activity{
			{ID: "salad", Category: model.CategoryFood, Name: "Salad", Calories: 300},
			{ID: "run", Category: model.CategoryExercise, Name: "Run", Calories: 450},
		},
	}, zerolog.Nop())
	c := NewWithIDs(store, model.CategoryFood, zerolog.Nop(), sequentialIDs())
	store.Subscribe(c.Listen)

	store.Dispatch(state.SetActiveID{ID: "salad"})
	c.OnFieldChange(FieldCalories, "350")
	require.True(t, c.Submit())

	s := store.State()
	require.Len(t, s.Activities, 2)
	assert.Equal(t, "salad", s.Activities[0].ID)
	assert.Equal(t, 350, s.Activities[0].Calories)
	assert.Empty(t, s.ActiveID)
	assert.False(t, c.Mode().IsEditing())
}

func TestParseField(t *testing.T) {
	for _, f := range Fields {
		got, err := ParseField(f.String())
		require.NoError(t, err)
		assert.Equal(t, f, got)
	}

	_, err := ParseField("id")
	assert.Error(t, err)
}
