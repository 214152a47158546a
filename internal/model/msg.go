package model

// Bubble Tea message types

// ErrorMsg represents an error message.
type ErrorMsg struct {
	Err error
}

// ActivitiesLoadedMsg is sent when activities are loaded from storage.
// Generation is the number of writes enqueued when the load was issued.
type ActivitiesLoadedMsg struct {
	Activities []Activity
	Generation int
}

// ChangesPersistedMsg is sent after a batch of state actions was written to storage.
type ChangesPersistedMsg struct {
	Label string
}

// PersistFailedMsg is sent when writing state actions to storage failed.
// The in-memory state is reloaded from storage afterwards.
type PersistFailedMsg struct {
	Label string
	Err   error
}

// FormSubmittedMsg is sent when the activity form committed its draft.
// Label is the saved activity's name.
type FormSubmittedMsg struct {
	Label string
}

// FormCancelledMsg is sent when a form is cancelled.
type FormCancelledMsg struct{}

// Screen represents different app screens.
type Screen int

const (
	ScreenActivities Screen = iota
	ScreenActivityForm
)

// Mode represents the current interaction mode.
type Mode int

const (
	ModeNav Mode = iota
	ModeInsert
)
