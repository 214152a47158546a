package ui

import (
	"cmp"
	"fmt"
	"slices"
	"strconv"
	"strings"

	"caltrack/internal/model"
	"caltrack/internal/util"

	"github.com/charmbracelet/lipgloss"
)

var _ tableController = (*ActivitiesModel)(nil)

// ActivitiesModel represents the activities table screen.
type ActivitiesModel struct {
	categories []model.Category
	cols       columnSet

	allRows []model.Activity
	rows    []model.Activity
	cursor  int
	offset  int

	viewportHeight int

	filterKey   string
	filterValue string
}

// NewActivitiesModel creates a new activities table.
func NewActivitiesModel(rows []model.Activity, categories []model.Category) *ActivitiesModel {
	m := &ActivitiesModel{
		categories: categories,
		cols: newColumnSet(
			tableColumn{key: "category", label: "category", width: 10},
			tableColumn{key: "name", label: "name", width: 28},
			tableColumn{key: "calories", label: "calories", width: 10},
			tableColumn{key: "added", label: "added", width: 14},
		),
	}
	m.SetRows(rows)
	return m
}

// SetRows replaces the table contents, keeping the cursor on the same
// activity when it is still present.
func (m *ActivitiesModel) SetRows(rows []model.Activity) {
	selected, hadSelection := m.Selected()

	m.allRows = slices.Clone(rows)
	m.rebuild()

	if !hadSelection {
		return
	}
	if i := slices.IndexFunc(m.rows, func(a model.Activity) bool { return a.ID == selected.ID }); i >= 0 {
		m.moveTo(i)
	}
}

// Selected returns the activity under the cursor.
func (m *ActivitiesModel) Selected() (model.Activity, bool) {
	if m.cursor < 0 || m.cursor >= len(m.rows) {
		return model.Activity{}, false
	}
	return m.rows[m.cursor], true
}

// Len is the number of rows currently shown.
func (m *ActivitiesModel) Len() int {
	return len(m.rows)
}

// ApplyPrefs restores saved column and sort preferences.
func (m *ActivitiesModel) ApplyPrefs(prefs TablePrefs) {
	m.cols.apply(prefs)
	m.rebuild()
}

// Prefs returns the current column and sort preferences.
func (m *ActivitiesModel) Prefs() TablePrefs {
	return m.cols.prefs()
}

func (m *ActivitiesModel) rebuild() {
	rows := slices.Clone(m.allRows)

	if m.filterKey != "" {
		rows = slices.DeleteFunc(rows, func(a model.Activity) bool {
			return !strings.EqualFold(m.text(a, m.filterKey), m.filterValue)
		})
	}

	if key := m.cols.sortKey; key != "" {
		slices.SortStableFunc(rows, func(a, b model.Activity) int {
			c := m.compare(a, b, key)
			if m.cols.sortDesc {
				return -c
			}
			return c
		})
	}

	m.rows = rows
	m.moveTo(m.cursor)
}

// compare orders two activities by a column. Numbers and times compare as
// such; text ignores case.
func (m *ActivitiesModel) compare(a, b model.Activity, key string) int {
	switch key {
	case "calories":
		return cmp.Compare(a.Calories, b.Calories)
	case "added":
		return a.CreatedAt.Compare(b.CreatedAt)
	default:
		return strings.Compare(strings.ToLower(m.text(a, key)), strings.ToLower(m.text(b, key)))
	}
}

// text is the plain value of a cell, used for filtering and text sorting.
func (m *ActivitiesModel) text(a model.Activity, key string) string {
	switch key {
	case "category":
		return model.CategoryName(m.categories, a.Category)
	case "name":
		return strings.TrimSpace(a.Name)
	case "calories":
		return strconv.Itoa(a.Calories)
	case "added":
		if a.CreatedAt.IsZero() {
			return ""
		}
		return a.CreatedAt.Local().Format("2006-01-02")
	}
	return ""
}

func (m *ActivitiesModel) visibleColumnIndexes() []int {
	return m.cols.visible()
}

func (m *ActivitiesModel) NextColumn() { m.cols.step(1) }
func (m *ActivitiesModel) PrevColumn() { m.cols.step(-1) }

func (m *ActivitiesModel) JumpToColumn(number int) bool {
	return m.cols.jump(number)
}

func (m *ActivitiesModel) SortActiveColumn(desc bool) {
	m.cols.sortBy(m.cols.current().key, desc)
	m.rebuild()
}

func (m *ActivitiesModel) HideActiveColumn() bool {
	return m.cols.hideActive()
}

func (m *ActivitiesModel) ShowAllColumns() {
	m.cols.showAll()
}

// FilterBySelectedValue keeps only rows whose active-column value matches
// the selected row's.
func (m *ActivitiesModel) FilterBySelectedValue() bool {
	row, ok := m.Selected()
	if !ok {
		return false
	}
	key := m.cols.current().key
	value := m.text(row, key)
	if value == "" {
		return false
	}
	m.filterKey, m.filterValue = key, value
	m.rebuild()
	return true
}

func (m *ActivitiesModel) ClearFilter() bool {
	if m.filterKey == "" {
		return false
	}
	m.filterKey, m.filterValue = "", ""
	m.rebuild()
	return true
}

func (m *ActivitiesModel) TableMeta() string {
	parts := m.cols.meta()
	if m.filterKey != "" {
		parts = append(parts, fmt.Sprintf("filter %s=%q", strings.ToUpper(m.filterKey), m.filterValue))
	}
	return strings.Join(parts, "  ·  ")
}

func (m *ActivitiesModel) cell(a model.Activity, col tableColumn) string {
	switch col.key {
	case "category":
		color := ColorBurn
		if a.Category == model.CategoryFood {
			color = ColorFood
		}
		return lipgloss.NewStyle().Foreground(color).Render(util.TruncateString(m.text(a, col.key), col.width))
	case "name":
		return util.TruncateString(a.Name, col.width)
	case "calories":
		return util.FormatNumber(a.Calories)
	case "added":
		return util.FormatDateHuman(a.CreatedAt)
	}
	return ""
}

// View renders the activities table.
func (m *ActivitiesModel) View(width, height int) string {
	if len(m.allRows) == 0 {
		return EmptyStateStyle.Width(width).Height(height).
			Render("Nothing logged yet.\nPress  a  to log food or exercise.")
	}

	vis := m.cols.visible()
	labels, widths := m.cols.headers(width)

	m.viewportHeight = max(1, height-3)
	end := min(len(m.rows), m.offset+m.viewportHeight)

	lines := []string{
		renderTableRow(labels, widths, TableHeaderStyle),
		renderTableDivider(widths),
	}
	for i := m.offset; i < end; i++ {
		style := NormalRowStyle
		if i == m.cursor {
			style = SelectedRowStyle
		}
		cells := make([]string, 0, len(vis))
		for _, idx := range vis {
			cells = append(cells, m.cell(m.rows[i], m.cols.cols[idx]))
		}
		lines = append(lines, renderTableRow(cells, widths, style))
	}
	table := strings.Join(lines, "\n")

	status := fmt.Sprintf("%d activities", len(m.rows))
	if len(m.rows) > 0 {
		status += fmt.Sprintf("  ·  row %d/%d", m.cursor+1, len(m.rows))
	}
	if m.filterKey != "" {
		status += fmt.Sprintf("  ·  filtered: %d/%d", len(m.rows), len(m.allRows))
	}
	status = StatusBarStyle.Render(status + "  ·  " + m.TableMeta())

	gap := max(0, height-lipgloss.Height(table)-lipgloss.Height(status))
	spacer := lipgloss.NewStyle().Height(gap).Render("")
	return lipgloss.JoinVertical(lipgloss.Left, table, spacer, status)
}

func (m *ActivitiesModel) pageHeight() int {
	if m.viewportHeight == 0 {
		return 10
	}
	return m.viewportHeight
}

// moveTo puts the cursor on row i, clamped to the table, and scrolls it
// into view.
func (m *ActivitiesModel) moveTo(i int) {
	if len(m.rows) == 0 {
		m.cursor, m.offset = 0, 0
		return
	}
	m.cursor = min(max(i, 0), len(m.rows)-1)
	if m.cursor < m.offset {
		m.offset = m.cursor
	}
	if vh := m.pageHeight(); m.cursor >= m.offset+vh {
		m.offset = m.cursor - vh + 1
	}
}

func (m *ActivitiesModel) MoveDown() { m.moveTo(m.cursor + 1) }
func (m *ActivitiesModel) MoveUp() { m.moveTo(m.cursor - 1) }
func (m *ActivitiesModel) JumpToTop() { m.moveTo(0) }
func (m *ActivitiesModel) JumpToBottom() { m.moveTo(len(m.rows) - 1) }

func (m *ActivitiesModel) HalfPageDown(pageSize int) { m.moveTo(m.cursor + pageSize/2) }
func (m *ActivitiesModel) HalfPageUp(pageSize int) { m.moveTo(m.cursor - pageSize/2) }
