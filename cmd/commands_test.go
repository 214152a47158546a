package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"

	"caltrack/internal/config"
	"caltrack/internal/db"
	"caltrack/internal/editor"
	"caltrack/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v3"
)

func newTestFlags(t *testing.T, seed ...model.Activity) *Flags {
	t.Helper()

	dataDir := t.TempDir()
	database, err := db.Open(filepath.Join(dataDir, "caltrack.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close() })

	for _, a := range seed {
		_, err := db.UpsertActivity(database, a)
		require.NoError(t, err)
	}

	cfg := config.DefaultConfig()
	cfg.DailyGoal = 2000

	return &Flags{
		DataDir:    dataDir,
		ConfigPath: filepath.Join(dataDir, "config.yaml"),
		Config:     &cfg,
		DB:         database,
	}
}

type result struct {
	stdout string
	stderr string
	err    error
}

func runApp(t *testing.T, flags *Flags, args ...string) result {
	t.Helper()

	var stdout, stderr bytes.Buffer
	app := &cli.Command{
		Name:      "caltrack",
		Writer:    &stdout,
		ErrWriter: &stderr,
	}
	app = NewAddCmd(flags).Register(app)
	app = NewEditCmd(flags).Register(app)
	app = NewLsCmd(flags).Register(app)
	app = NewRmCmd(flags).Register(app)
	app = NewResetCmd(flags).Register(app)
	app = NewSummaryCmd(flags).Register(app)

	err := app.Run(context.Background(), append([]string{"caltrack"}, args...))
	return result{stdout: stdout.String(), stderr: stderr.String(), err: err}
}

func stored(t *testing.T, flags *Flags) []model.Activity {
	t.Helper()
	all, err := db.ListActivities(flags.DB, "")
	require.NoError(t, err)
	return all
}

func breakfast() []model.Activity {
	return []model.Activity{
		{ID: "oats", Category: model.CategoryFood, Name: "Oatmeal", Calories: 300},
		{ID: "run", Category: model.CategoryExercise, Name: "Run", Calories: 450},
	}
}

func TestAdd_WritesActivity(t *testing.T) {
	flags := newTestFlags(t)

	res := runApp(t, flags, "add", "--name", "Salad", "--calories", "350")
	require.NoError(t, res.err)
	assert.Contains(t, res.stdout, "added ")
	assert.Contains(t, res.stdout, "Food")

	all := stored(t, flags)
	require.Len(t, all, 1)
	assert.Equal(t, "Salad", all[0].Name)
	assert.Equal(t, 350, all[0].Calories)
	assert.Equal(t, model.CategoryFood, all[0].Category)
	assert.NotEmpty(t, all[0].ID)
}

func TestAdd_CategoryByNameOrID(t *testing.T) {
	tests := []struct {
		name     string
		category string
		want     int
	}{
		{name: "name", category: "exercise", want: model.CategoryExercise},
		{name: "mixed case", category: "FOOD", want: model.CategoryFood},
		{name: "id", category: "2", want: model.CategoryExercise},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			flags := newTestFlags(t)

			res := runApp(t, flags, "add", "--category", tt.category, "--name", "Thing", "--calories", "10")
			require.NoError(t, res.err)

			all := stored(t, flags)
			require.Len(t, all, 1)
			assert.Equal(t, tt.want, all[0].Category)
		})
	}
}

func TestAdd_InvalidWritesNothing(t *testing.T) {
	tests := []struct {
		name   string
		args   []string
		fields []string
	}{
		{name: "missing everything", args: nil, fields: []string{"name", "calories"}},
		{name: "blank name", args: []string{"--name", "   ", "--calories", "100"}, fields: []string{"name"}},
		{name: "non-numeric calories", args: []string{"--name", "Toast", "--calories", "lots"}, fields: []string{"calories"}},
		{name: "zero calories", args: []string{"--name", "Toast", "--calories", "0"}, fields: []string{"calories"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			flags := newTestFlags(t)

			res := runApp(t, flags, append([]string{"add"}, tt.args...)...)
			require.ErrorIs(t, res.err, ErrInvalidActivity)
			for _, f := range tt.fields {
				assert.Contains(t, res.stderr, f+":")
			}
			assert.Empty(t, stored(t, flags))
		})
	}
}

func TestAdd_UnknownCategory(t *testing.T) {
	flags := newTestFlags(t)

	res := runApp(t, flags, "add", "--category", "snacks", "--name", "Chips", "--calories", "200")
	require.Error(t, res.err)
	assert.Contains(t, res.err.Error(), `unknown category "snacks"`)
	assert.Empty(t, stored(t, flags))
}

func TestEdit_ChangesOnlyGivenFields(t *testing.T) {
	flags := newTestFlags(t, breakfast()...)

	res := runApp(t, flags, "edit", "--calories", "520", "run")
	require.NoError(t, res.err)
	assert.Contains(t, res.stdout, "updated run")

	got, err := db.GetActivity(flags.DB, "run")
	require.NoError(t, err)
	assert.Equal(t, 520, got.Calories)
	assert.Equal(t, "Run", got.Name)
	assert.Equal(t, model.CategoryExercise, got.Category)
	assert.Len(t, stored(t, flags), 2)
}

func TestEdit_SwitchCategory(t *testing.T) {
	flags := newTestFlags(t, breakfast()...)

	res := runApp(t, flags, "edit", "--category", "exercise", "--name", "Oat run", "oats")
	require.NoError(t, res.err)

	got, err := db.GetActivity(flags.DB, "oats")
	require.NoError(t, err)
	assert.Equal(t, model.CategoryExercise, got.Category)
	assert.Equal(t, "Oat run", got.Name)
	assert.Equal(t, 300, got.Calories)
}

func TestEdit_UnknownID(t *testing.T) {
	flags := newTestFlags(t, breakfast()...)

	res := runApp(t, flags, "edit", "--name", "Nope", "missing")
	require.ErrorIs(t, res.err, editor.ErrSelectionNotFound)
}

func TestEdit_InvalidChangeKeepsStoredValue(t *testing.T) {
	flags := newTestFlags(t, breakfast()...)

	res := runApp(t, flags, "edit", "--calories=-5", "oats")
	require.ErrorIs(t, res.err, ErrInvalidActivity)

	got, err := db.GetActivity(flags.DB, "oats")
	require.NoError(t, err)
	assert.Equal(t, 300, got.Calories)
}

func TestEdit_RequiresID(t *testing.T) {
	flags := newTestFlags(t)

	res := runApp(t, flags, "edit")
	require.Error(t, res.err)
}

func TestLs_Table(t *testing.T) {
	flags := newTestFlags(t, breakfast()...)

	res := runApp(t, flags, "ls")
	require.NoError(t, res.err)

	lines := strings.Split(strings.TrimSpace(res.stdout), "\n")
	require.Len(t, lines, 3)
	assert.Contains(t, lines[0], "CATEGORY")
	assert.Contains(t, res.stdout, "Oatmeal")
	assert.Contains(t, res.stdout, "450 kcal")
	assert.Contains(t, res.stdout, "Exercise")
}

func TestLs_Empty(t *testing.T) {
	flags := newTestFlags(t)

	res := runApp(t, flags, "ls")
	require.NoError(t, res.err)
	assert.Empty(t, res.stdout)
	assert.Contains(t, res.stderr, "No activities logged")
}

func TestLs_JSONLines(t *testing.T) {
	flags := newTestFlags(t, breakfast()...)

	res := runApp(t, flags, "ls", "--json")
	require.NoError(t, res.err)

	lines := strings.Split(strings.TrimSpace(res.stdout), "\n")
	require.Len(t, lines, 2)

	byID := map[string]activityInfo{}
	for _, line := range lines {
		var info activityInfo
		require.NoError(t, json.Unmarshal([]byte(line), &info))
		byID[info.ID] = info
	}
	assert.Equal(t, "Food", byID["oats"].Kind)
	assert.Equal(t, 450, byID["run"].Calories)
}

func TestLs_Filter(t *testing.T) {
	flags := newTestFlags(t, breakfast()...)

	res := runApp(t, flags, "ls", "--json", "--filter", "oat")
	require.NoError(t, res.err)
	assert.Equal(t, 1, strings.Count(res.stdout, "\n"))
	assert.Contains(t, res.stdout, `"oats"`)
}

func TestRm(t *testing.T) {
	flags := newTestFlags(t, breakfast()...)

	res := runApp(t, flags, "rm", "oats")
	require.NoError(t, res.err)
	assert.Contains(t, res.stdout, "removed oats (Oatmeal)")

	all := stored(t, flags)
	require.Len(t, all, 1)
	assert.Equal(t, "run", all[0].ID)

	res = runApp(t, flags, "rm", "oats")
	require.ErrorIs(t, res.err, editor.ErrSelectionNotFound)
}

func TestReset(t *testing.T) {
	flags := newTestFlags(t, breakfast()...)

	res := runApp(t, flags, "reset")
	require.NoError(t, res.err)
	assert.Contains(t, res.stdout, "removed 2 activities")
	assert.Empty(t, stored(t, flags))
}

func TestSummary(t *testing.T) {
	flags := newTestFlags(t, breakfast()...)

	res := runApp(t, flags, "summary")
	require.NoError(t, res.err)
	assert.Contains(t, res.stdout, "300 kcal")
	assert.Contains(t, res.stdout, "-150 kcal")
	assert.Contains(t, res.stdout, "2,150 kcal")
	assert.Contains(t, res.stdout, "remaining")
}

func TestSummary_OverGoal(t *testing.T) {
	flags := newTestFlags(t, model.Activity{ID: "cake", Category: model.CategoryFood, Name: "Cake", Calories: 2300})

	res := runApp(t, flags, "summary")
	require.NoError(t, res.err)
	assert.Contains(t, res.stdout, "over goal by")
	assert.Contains(t, res.stdout, "300 kcal")
}

func TestEdit_SetPairs(t *testing.T) {
	flags := newTestFlags(t, breakfast()...)

	res := runApp(t, flags, "edit", "--set", "name=Granola", "--set", "Calories=410", "oats")
	require.NoError(t, res.err)

	got, err := db.GetActivity(flags.DB, "oats")
	require.NoError(t, err)
	assert.Equal(t, "Granola", got.Name)
	assert.Equal(t, 410, got.Calories)
}

func TestEdit_SetUnknownField(t *testing.T) {
	flags := newTestFlags(t, breakfast()...)

	res := runApp(t, flags, "edit", "--set", "colour=red", "oats")
	require.Error(t, res.err)
	assert.Contains(t, res.err.Error(), `unknown field "colour"`)

	res = runApp(t, flags, "edit", "--set", "name", "oats")
	require.Error(t, res.err)
}
