package ui

import "github.com/charmbracelet/lipgloss"

// Color palette
var (
	ColorBase    = lipgloss.Color("#1C1F24")
	ColorSurface = lipgloss.Color("#282D35")
	ColorMuted   = lipgloss.Color("#7A8391")
	ColorText    = lipgloss.Color("#DCE1E8")
	ColorAccent  = lipgloss.Color("#E5A45A")
	ColorFood    = lipgloss.Color("#a6e3a1")
	ColorBurn    = lipgloss.Color("#89b4fa")
	ColorRed     = lipgloss.Color("#f38ba8")
)

// Base styles the rest are built from.
var (
	accent = lipgloss.NewStyle().Foreground(ColorAccent).Bold(true)
	muted  = lipgloss.NewStyle().Foreground(ColorMuted)
	filled = lipgloss.NewStyle().Foreground(ColorBase).Background(ColorAccent)
	boxed  = lipgloss.NewStyle().BorderStyle(lipgloss.NormalBorder()).BorderForeground(ColorMuted).Padding(0, 1)
)

// Layout
var (
	HeaderStyle = accent.Padding(0, 1)
	TitleStyle  = accent.Padding(0, 1).BorderStyle(lipgloss.NormalBorder()).BorderBottom(true).BorderForeground(ColorMuted)
	FooterStyle = muted.Padding(0, 1).BorderStyle(lipgloss.NormalBorder()).BorderTop(true).BorderForeground(ColorMuted)

	BreadcrumbStyle       = muted
	BreadcrumbActiveStyle = lipgloss.NewStyle().Foreground(ColorAccent)
	StatusBarStyle        = muted.Padding(0, 1)
	SummaryStyle          = lipgloss.NewStyle().Foreground(ColorText).Padding(0, 2)
	EmptyStateStyle       = muted.Italic(true).Padding(2, 4)

	HelpKeyStyle  = lipgloss.NewStyle().Foreground(ColorAccent)
	HelpDescStyle = muted

	ErrorStyle   = lipgloss.NewStyle().Foreground(ColorRed).Padding(0, 1)
	SuccessStyle = lipgloss.NewStyle().Foreground(ColorFood).Padding(0, 1)
)

// Table
var (
	TableHeaderStyle = accent.Padding(0, 1).Background(ColorSurface)
	SelectedRowStyle = filled.Padding(0, 1)
	NormalRowStyle   = lipgloss.NewStyle().Foreground(ColorText).Padding(0, 1)
	DividerStyle     = muted
)

// Form
var (
	LabelStyle      = accent
	FieldErrorStyle = lipgloss.NewStyle().Foreground(ColorRed).Italic(true)

	BorderStyle       = boxed
	ActiveBorderStyle = boxed.BorderForeground(ColorAccent)
	PanelStyle        = lipgloss.NewStyle().BorderStyle(lipgloss.RoundedBorder()).BorderForeground(ColorMuted).Padding(1, 2)

	ButtonStyle         = filled.Bold(true).Padding(0, 2)
	FocusedButtonStyle  = ButtonStyle.Underline(true)
	DisabledButtonStyle = muted.Background(ColorSurface).Padding(0, 2)

	CategoryChipStyle       = muted.Padding(0, 1)
	ActiveCategoryChipStyle = filled.Bold(true).Padding(0, 1)
)
