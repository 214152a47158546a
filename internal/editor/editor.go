// Package editor implements the activity form controller: it owns a draft
// activity, loads the selected activity for editing and commits the draft
// as a save action.
package editor

import (
	"errors"
	"fmt"
	"strings"

	"caltrack/internal/model"
	"caltrack/internal/state"

	"github.com/google/uuid"
	"github.com/hay-kot/criterio"
	"github.com/rs/zerolog"
)

// Submit button labels.
const (
	SubmitLabelFood     = "Save Food"
	SubmitLabelExercise = "Save Exercise"
)

// ErrSelectionNotFound is returned when the selected id has no matching activity.
var ErrSelectionNotFound = errors.New("selected activity not found")

// Dispatcher receives the save action produced by Submit.
type Dispatcher interface {
	Dispatch(action state.Action)
}

// ModeKind distinguishes creating a new activity from editing one.
type ModeKind int

const (
	ModeNew ModeKind = iota
	ModeEditing
)

// Mode is the controller's current mode. OriginalID is set when editing.
type Mode struct {
	Kind       ModeKind
	OriginalID string
}

// IsEditing reports whether an existing activity is loaded.
func (m Mode) IsEditing() bool {
	return m.Kind == ModeEditing
}

func (m Mode) String() string {
	if m.IsEditing() {
		return "editing " + m.OriginalID
	}
	return "new"
}

// Controller holds the draft activity for the form.
type Controller struct {
	dispatcher      Dispatcher
	defaultCategory int
	newID           func() string
	log             zerolog.Logger

	draft model.Activity
	mode  Mode
}

// New creates a controller with a blank draft and uuid ids.
func New(dispatcher Dispatcher, defaultCategory int, logger zerolog.Logger) *Controller {
	return NewWithIDs(dispatcher, defaultCategory, logger, uuid.NewString)
}

// NewWithIDs creates a controller that takes ids from newID.
func NewWithIDs(dispatcher Dispatcher, defaultCategory int, logger zerolog.Logger, newID func() string) *Controller {
	c := &Controller{
		dispatcher:      dispatcher,
		defaultCategory: defaultCategory,
		newID:           newID,
		log:             logger,
	}
	c.Reset()
	return c
}

// Draft returns a copy of the current draft.
func (c *Controller) Draft() model.Activity {
	return c.draft
}

// Mode returns the current mode.
func (c *Controller) Mode() Mode {
	return c.mode
}

// Reset replaces the draft with a blank activity and a fresh id.
func (c *Controller) Reset() {
	c.draft = c.blank()
	c.mode = Mode{Kind: ModeNew}
}

func (c *Controller) blank() model.Activity {
	return model.Activity{
		ID:       c.newID(),
		Category: c.defaultCategory,
	}
}

// OnFieldChange updates exactly one field of the draft. Category and
// calories are coerced to numbers; the name is stored as typed.
func (c *Controller) OnFieldChange(field Field, raw string) {
	next := c.draft
	switch field {
	case FieldCategory:
		next.Category = coerceNumber(raw)
	case FieldName:
		next.Name = raw
	case FieldCalories:
		next.Calories = coerceNumber(raw)
	default:
		c.log.Warn().Stringer("field", field).Msg("ignoring change to unknown field")
		return
	}
	c.draft = next
}

// IsValid reports whether the draft can be submitted.
func (c *Controller) IsValid() bool {
	return isValid(c.draft)
}

func isValid(a model.Activity) bool {
	return strings.TrimSpace(a.Name) != "" && a.Calories > 0
}

// Validate returns field errors describing why the draft is not valid.
func (c *Controller) Validate() error {
	var errs criterio.FieldErrorsBuilder
	if strings.TrimSpace(c.draft.Name) == "" {
		errs = errs.Append(FieldName.String(), errors.New("required"))
	}
	if c.draft.Calories <= 0 {
		errs = errs.Append(FieldCalories.String(), errors.New("must be greater than zero"))
	}
	return errs.ToError()
}

// Submit dispatches the draft as a save action and starts a new blank
// draft. An invalid draft is left untouched and nothing is dispatched.
func (c *Controller) Submit() bool {
	if !c.IsValid() {
		c.log.Debug().Str("id", c.draft.ID).Msg("submit ignored, draft invalid")
		return false
	}

	c.dispatcher.Dispatch(state.SaveActivity{Activity: c.draft})
	c.log.Debug().Str("id", c.draft.ID).Stringer("mode", c.mode).Msg("draft submitted")
	c.Reset()
	return true
}

// SubmitLabel is the text for the submit control.
func (c *Controller) SubmitLabel() string {
	if c.draft.Category == model.CategoryFood {
		return SubmitLabelFood
	}
	return SubmitLabelExercise
}

// Listen reloads the draft whenever the selected id changes to a non-empty
// value. It is meant to be registered with state.Store.Subscribe.
func (c *Controller) Listen(prev, next state.State, _ state.Action) {
	if next.ActiveID == "" || next.ActiveID == prev.ActiveID {
		return
	}
	_ = c.LoadSelection(next)
}

// LoadSelection copies the selected activity into the draft. When the id
// does not resolve the draft falls back to a blank activity.
func (c *Controller) LoadSelection(s state.State) error {
	if s.ActiveID == "" {
		return nil
	}

	selected, ok := s.Find(s.ActiveID)
	if !ok {
		c.log.Warn().
			Str("active_id", s.ActiveID).
			Int("activities", len(s.Activities)).
			Msg("selected activity not in collection, starting blank draft")
		c.Reset()
		return fmt.Errorf("%w: %s", ErrSelectionNotFound, s.ActiveID)
	}

	c.draft = selected
	c.mode = Mode{Kind: ModeEditing, OriginalID: selected.ID}
	return nil
}
