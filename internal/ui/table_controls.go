package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

type tableController interface {
	NextColumn()
	PrevColumn()
	JumpToColumn(number int) bool
	SortActiveColumn(desc bool)
	HideActiveColumn() bool
	ShowAllColumns()
	FilterBySelectedValue() bool
	ClearFilter() bool
	TableMeta() string
}

type tableColumn struct {
	key    string
	label  string
	width  int
	hidden bool
}

// columnSet tracks which columns are shown, which one is active and how the
// table is sorted. At least one column is always visible.
type columnSet struct {
	cols     []tableColumn
	active   int
	sortKey  string
	sortDesc bool
}

func newColumnSet(cols ...tableColumn) columnSet {
	return columnSet{cols: cols}
}

func (s *columnSet) current() tableColumn {
	return s.cols[s.active]
}

func (s *columnSet) visible() []int {
	var idxs []int
	for i, c := range s.cols {
		if !c.hidden {
			idxs = append(idxs, i)
		}
	}
	return idxs
}

// step moves the active column by delta, skipping hidden columns.
func (s *columnSet) step(delta int) {
	n := len(s.cols)
	for i := 1; i < n; i++ {
		idx := ((s.active+delta*i)%n + n) % n
		if !s.cols[idx].hidden {
			s.active = idx
			return
		}
	}
}

// jump activates the 1-based column number if it is visible.
func (s *columnSet) jump(number int) bool {
	idx := number - 1
	if idx < 0 || idx >= len(s.cols) || s.cols[idx].hidden {
		return false
	}
	s.active = idx
	return true
}

func (s *columnSet) sortBy(key string, desc bool) {
	s.sortKey = key
	s.sortDesc = desc
}

func (s *columnSet) hideActive() bool {
	if len(s.visible()) <= 1 {
		return false
	}
	s.cols[s.active].hidden = true
	s.fixActive()
	return true
}

func (s *columnSet) showAll() {
	for i := range s.cols {
		s.cols[i].hidden = false
	}
}

// fixActive moves the active column off a hidden one.
func (s *columnSet) fixActive() {
	if !s.cols[s.active].hidden {
		return
	}
	if vis := s.visible(); len(vis) > 0 {
		s.active = vis[0]
		return
	}
	s.cols[0].hidden = false
	s.active = 0
}

func (s *columnSet) apply(prefs TablePrefs) {
	if prefs.SortKey != "" {
		s.sortBy(prefs.SortKey, prefs.SortDesc)
	}

	hidden := make(map[string]bool, len(prefs.HiddenColumns))
	for _, key := range prefs.HiddenColumns {
		hidden[key] = true
	}
	for i := range s.cols {
		s.cols[i].hidden = hidden[s.cols[i].key]
		if s.cols[i].key == prefs.ActiveColumn {
			s.active = i
		}
	}
	s.fixActive()
}

func (s *columnSet) prefs() TablePrefs {
	p := TablePrefs{
		SortKey:      s.sortKey,
		SortDesc:     s.sortDesc,
		ActiveColumn: s.current().key,
	}
	for _, c := range s.cols {
		if c.hidden {
			p.HiddenColumns = append(p.HiddenColumns, c.key)
		}
	}
	return p
}

// meta describes the active column and sort order for the status bar.
func (s *columnSet) meta() []string {
	parts := []string{"col " + strings.ToUpper(s.current().label)}
	if s.sortKey != "" {
		order := "asc"
		if s.sortDesc {
			order = "desc"
		}
		parts = append(parts, fmt.Sprintf("sort %s %s", strings.ToUpper(s.sortKey), order))
	}
	return parts
}

// headers renders the visible header labels and their cell widths, giving
// any spare width to the last column.
func (s *columnSet) headers(width int) ([]string, []int) {
	vis := s.visible()
	labels := make([]string, 0, len(vis))
	widths := make([]int, 0, len(vis))
	used := (len(vis) - 1) * tableSeparatorWidth()

	for _, idx := range vis {
		col := s.cols[idx]
		label := strings.ToUpper(col.label)
		if idx == s.active {
			label = "[" + label + "]"
		}
		switch {
		case s.sortKey != col.key:
		case s.sortDesc:
			label += " ↓"
		default:
			label += " ↑"
		}
		w := max(col.width+2, lipgloss.Width(label)+4)
		used += w
		labels = append(labels, label)
		widths = append(widths, w)
	}

	if extra := width - used - 2; extra > 0 && len(widths) > 0 {
		widths[len(widths)-1] += extra
	}
	return labels, widths
}

func tableSeparatorWidth() int {
	return 1
}

func renderTableRow(cells []string, widths []int, style lipgloss.Style) string {
	parts := make([]string, 0, len(cells))
	for i, cell := range cells {
		if i >= len(widths) {
			break
		}
		parts = append(parts, style.Width(widths[i]).MaxHeight(1).Render(cell))
	}
	return strings.Join(parts, strings.Repeat(" ", tableSeparatorWidth()))
}

func renderTableDivider(widths []int) string {
	segments := make([]string, len(widths))
	for i, w := range widths {
		segments[i] = strings.Repeat("─", w)
	}
	return DividerStyle.Render(strings.Join(segments, strings.Repeat("┼", tableSeparatorWidth())))
}
