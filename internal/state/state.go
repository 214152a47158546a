// Package state owns the committed activity list and the current selection.
// Changes arrive as tagged actions and are applied by Reduce.
package state

import "caltrack/internal/model"

// Action kinds.
const (
	KindSaveActivity   = "save-activity"
	KindSetActiveID    = "set-active-id"
	KindDeleteActivity = "delete-activity"
	KindRestartApp     = "restart-app"
	KindLoadActivities = "load-activities"
	KindRestore        = "restore-activities"
)

// State is the shared application state.
type State struct {
	Activities []model.Activity
	ActiveID   string
}

// Find returns the activity with the given id.
func (s State) Find(id string) (model.Activity, bool) {
	for _, a := range s.Activities {
		if a.ID == id {
			return a, true
		}
	}
	return model.Activity{}, false
}

// Summary totals the committed activities.
func (s State) Summary(goal int) model.Summary {
	return model.Summarize(s.Activities, goal)
}

func (s State) clone() State {
	return State{
		Activities: append([]model.Activity(nil), s.Activities...),
		ActiveID:   s.ActiveID,
	}
}

func (s *State) put(a model.Activity) {
	for i := range s.Activities {
		if s.Activities[i].ID == a.ID {
			s.Activities[i] = a
			return
		}
	}
	s.Activities = append(s.Activities, a)
}

// Action is a tagged state change request.
type Action interface {
	Kind() string
}

// SaveActivity inserts the activity, or replaces the one with the same id.
type SaveActivity struct {
	Activity model.Activity
}

// SetActiveID selects an activity for editing. An empty ID clears the selection.
type SetActiveID struct {
	ID string
}

// DeleteActivity removes an activity by id.
type DeleteActivity struct {
	ID string
}

// RestartApp clears every activity.
type RestartApp struct{}

// RestoreActivities puts previously removed activities back, replacing any
// with the same id. The selection is left alone.
type RestoreActivities struct {
	Activities []model.Activity
}

// LoadActivities replaces the collection with what storage returned.
type LoadActivities struct {
	Activities []model.Activity
}

func (SaveActivity) Kind() string   { return KindSaveActivity }
func (SetActiveID) Kind() string    { return KindSetActiveID }
func (DeleteActivity) Kind() string { return KindDeleteActivity }
func (RestartApp) Kind() string     { return KindRestartApp }
func (LoadActivities) Kind() string { return KindLoadActivities }

func (RestoreActivities) Kind() string { return KindRestore }

// Reduce applies an action and returns the next state. The input is never
// mutated; unknown actions return the state unchanged.
func Reduce(s State, action Action) State {
	switch a := action.(type) {
	case SaveActivity:
		next := s.clone()
		next.put(a.Activity)
		next.ActiveID = ""
		return next

	case RestoreActivities:
		next := s.clone()
		for _, act := range a.Activities {
			next.put(act)
		}
		return next

	case SetActiveID:
		next := s.clone()
		next.ActiveID = a.ID
		return next

	case DeleteActivity:
		next := State{ActiveID: s.ActiveID}
		next.Activities = make([]model.Activity, 0, len(s.Activities))
		for _, act := range s.Activities {
			if act.ID != a.ID {
				next.Activities = append(next.Activities, act)
			}
		}
		if next.ActiveID == a.ID {
			next.ActiveID = ""
		}
		return next

	case RestartApp:
		return State{Activities: []model.Activity{}}

	case LoadActivities:
		next := State{
			Activities: append([]model.Activity(nil), a.Activities...),
			ActiveID:   s.ActiveID,
		}
		if _, ok := next.Find(next.ActiveID); !ok {
			next.ActiveID = ""
		}
		return next
	}

	return s
}
