package ui

import (
	"database/sql"
	"fmt"

	"caltrack/internal/db"
	"caltrack/internal/model"
	"caltrack/internal/state"

	tea "github.com/charmbracelet/bubbletea"
)

// historyEntry is one undoable change, expressed as the state actions that
// revert it and the ones that re-apply it.
type historyEntry struct {
	label string
	undo  []state.Action
	redo  []state.Action
}

func (m *Model) pushHistory(entry historyEntry) {
	m.undoStack = append(m.undoStack, entry)
	m.redoStack = nil
}

// commit applies actions to the store, records the inverse for undo and
// returns the command that writes them to storage.
func (m *Model) commit(label string, do, undo []state.Action) tea.Cmd {
	for _, a := range do {
		m.store.Dispatch(a)
	}
	m.pushHistory(historyEntry{label: label, undo: undo, redo: do})
	return m.writes.enqueue(label, do)
}

func (m *Model) undo() tea.Cmd {
	if len(m.undoStack) == 0 {
		m.info = "Nothing to undo"
		return nil
	}
	entry := m.undoStack[len(m.undoStack)-1]
	m.undoStack = m.undoStack[:len(m.undoStack)-1]
	m.redoStack = append(m.redoStack, entry)

	for _, a := range entry.undo {
		m.store.Dispatch(a)
	}
	m.info = "Undid: " + entry.label
	return m.writes.enqueue("undo "+entry.label, entry.undo)
}

func (m *Model) redo() tea.Cmd {
	if len(m.redoStack) == 0 {
		m.info = "Nothing to redo"
		return nil
	}
	entry := m.redoStack[len(m.redoStack)-1]
	m.redoStack = m.redoStack[:len(m.redoStack)-1]
	m.undoStack = append(m.undoStack, entry)

	for _, a := range entry.redo {
		m.store.Dispatch(a)
	}
	m.info = "Redid: " + entry.label
	return m.writes.enqueue("redo "+entry.label, entry.redo)
}

// saveHistory builds the history entry for a save, given the activity as it
// was before the save (nil for an insert).
func saveHistory(before *model.Activity, after model.Activity) historyEntry {
	entry := historyEntry{
		redo: []state.Action{state.SaveActivity{Activity: after}},
	}
	if before == nil {
		entry.label = "added " + after.Name
		entry.undo = []state.Action{state.DeleteActivity{ID: after.ID}}
		return entry
	}
	entry.label = "updated " + after.Name
	entry.undo = []state.Action{state.SaveActivity{Activity: *before}}
	return entry
}

// writeQueue hands out persistence commands that apply their actions in
// the order they were enqueued, even though bubbletea runs each command on
// its own goroutine. Every method must only be called from Update.
type writeQueue struct {
	db   *sql.DB
	tail chan struct{}

	// pending counts writes whose result has not reached Update yet.
	pending int
	// gen counts every write ever enqueued.
	gen int
}

func newWriteQueue(database *sql.DB) *writeQueue {
	return &writeQueue{db: database}
}

func (q *writeQueue) enqueue(label string, actions []state.Action) tea.Cmd {
	prev := q.tail
	done := make(chan struct{})
	q.tail = done
	q.pending++
	q.gen++

	return func() tea.Msg {
		if prev != nil {
			<-prev
		}
		defer close(done)

		for _, a := range actions {
			if err := db.ApplyAction(q.db, a); err != nil {
				return model.PersistFailedMsg{Label: label, Err: fmt.Errorf("failed to %s: %w", a.Kind(), err)}
			}
		}
		return model.ChangesPersistedMsg{Label: label}
	}
}

// settle records that one enqueued write reported back.
func (q *writeQueue) settle() {
	q.pending = max(0, q.pending-1)
}

// reload returns a command that reads every activity back from storage
// once the queue is idle. While writes are outstanding it returns nil; the
// last of them triggers the reload instead.
func (q *writeQueue) reload() tea.Cmd {
	if q.pending > 0 {
		return nil
	}
	return loadActivitiesCmd(q.db, q.gen, q.tail)
}

// current reports whether a load issued at generation gen still reflects
// storage, that is no write was enqueued after it.
func (q *writeQueue) current(gen int) bool {
	return q.pending == 0 && gen == q.gen
}
