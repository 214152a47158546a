package cmd

import (
	"database/sql"
	"errors"
	"fmt"
	"io"
	"strconv"

	"caltrack/internal/config"
	"caltrack/internal/db"
	"caltrack/internal/editor"
	"caltrack/internal/logging"
	"caltrack/internal/model"
	"caltrack/internal/state"

	"github.com/hay-kot/criterio"
	"github.com/rs/zerolog"
	"github.com/urfave/cli/v3"
)

// session is the store and editor controller for one command invocation.
// Actions dispatched through it reach the store immediately and are written
// to the database by flush.
type session struct {
	db      *sql.DB
	cfg     *config.Config
	store   *state.Store
	editor  *editor.Controller
	log     zerolog.Logger
	pending []state.Action
}

func newSession(flags *Flags) (*session, error) {
	activities, err := db.ListActivities(flags.DB, "")
	if err != nil {
		return nil, fmt.Errorf("load activities: %w", err)
	}

	s := &session{
		db:  flags.DB,
		cfg: flags.Config,
		log: logging.Component("cli"),
	}
	s.store = state.NewStore(state.State{}, logging.Component("store"))
	s.store.Dispatch(state.LoadActivities{Activities: activities})

	s.editor = editor.New(s, flags.Config.DefaultCategory, logging.Component("editor"))
	s.store.Subscribe(s.editor.Listen)

	return s, nil
}

// Dispatch implements editor.Dispatcher.
func (s *session) Dispatch(action state.Action) {
	s.store.Dispatch(action)
	s.pending = append(s.pending, action)
}

func (s *session) flush() error {
	for _, action := range s.pending {
		if err := db.ApplyAction(s.db, action); err != nil {
			return fmt.Errorf("%s: %w", action.Kind(), err)
		}
		s.log.Debug().Str("action", action.Kind()).Msg("persisted")
	}
	s.pending = nil
	return nil
}

// fieldFlags are the per-field flags shared by add and edit. Flag names
// match the field keys.
func fieldFlags(usage map[editor.Field]string) []cli.Flag {
	aliases := map[editor.Field]string{
		editor.FieldCategory: "t",
		editor.FieldName:     "n",
		editor.FieldCalories: "k",
	}
	flags := make([]cli.Flag, 0, len(editor.Fields))
	for _, f := range editor.Fields {
		flags = append(flags, &cli.StringFlag{
			Name:    f.String(),
			Aliases: []string{aliases[f]},
			Usage:   usage[f],
		})
	}
	return flags
}

// fieldValues collects the field flags that were set on c.
func fieldValues(c *cli.Command) map[editor.Field]string {
	values := make(map[editor.Field]string, len(editor.Fields))
	for _, f := range editor.Fields {
		if c.IsSet(f.String()) {
			values[f] = c.String(f.String())
		}
	}
	return values
}

// apply forwards the supplied values to the controller one field at a time,
// in form order. Categories are given by name or id.
func (s *session) apply(values map[editor.Field]string) error {
	for _, f := range editor.Fields {
		raw, ok := values[f]
		if !ok {
			continue
		}
		if f == editor.FieldCategory {
			cat, ok := s.cfg.CategoryByName(raw)
			if !ok {
				return fmt.Errorf("unknown category %q", raw)
			}
			raw = strconv.Itoa(cat.ID)
		}
		s.editor.OnFieldChange(f, raw)
	}
	return nil
}

// ErrInvalidActivity is returned when the draft fails validation on submit.
var ErrInvalidActivity = errors.New("invalid activity")

// submit commits the draft and writes it, returning the saved activity.
// Field errors are printed to w.
func (s *session) submit(w io.Writer) (model.Activity, error) {
	if !s.editor.IsValid() {
		var fieldErrs criterio.FieldErrors
		if err := s.editor.Validate(); errors.As(err, &fieldErrs) {
			for _, fe := range fieldErrs {
				fmt.Fprintf(w, "  %s: %s\n", fe.Field, fe.Err)
			}
		}
		return model.Activity{}, ErrInvalidActivity
	}

	saved := s.editor.Draft()
	s.editor.Submit()
	if err := s.flush(); err != nil {
		return model.Activity{}, err
	}
	return saved, nil
}
