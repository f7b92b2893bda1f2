// Package styles provides Lip Gloss styles for the PulseESG dashboard.
// Styles are rebuilt by Apply when the theme changes.
package styles

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/pulseesg/pulse/internal/config"
	"github.com/pulseesg/pulse/internal/esg"
)

// Palette is one theme's colors.
type Palette struct {
	Primary     lipgloss.Color
	Secondary   lipgloss.Color
	Success     lipgloss.Color
	Warning     lipgloss.Color
	Error       lipgloss.Color
	Muted       lipgloss.Color
	MutedLight  lipgloss.Color
	Background  lipgloss.Color
	Foreground  lipgloss.Color
	BorderColor lipgloss.Color
}

// DarkPalette is the default theme.
var DarkPalette = Palette{
	Primary:     lipgloss.Color("#10B981"), // Emerald
	Secondary:   lipgloss.Color("#06B6D4"), // Cyan
	Success:     lipgloss.Color("#22C55E"), // Green
	Warning:     lipgloss.Color("#F59E0B"), // Amber
	Error:       lipgloss.Color("#EF4444"), // Red
	Muted:       lipgloss.Color("#6B7280"), // Gray
	MutedLight:  lipgloss.Color("#9CA3AF"), // Light Gray
	Background:  lipgloss.Color("#1F2937"), // Dark Gray
	Foreground:  lipgloss.Color("#F9FAFB"), // White
	BorderColor: lipgloss.Color("#374151"), // Border Gray
}

// LightPalette is used when the light theme is selected.
var LightPalette = Palette{
	Primary:     lipgloss.Color("#047857"),
	Secondary:   lipgloss.Color("#0E7490"),
	Success:     lipgloss.Color("#15803D"),
	Warning:     lipgloss.Color("#B45309"),
	Error:       lipgloss.Color("#B91C1C"),
	Muted:       lipgloss.Color("#6B7280"),
	MutedLight:  lipgloss.Color("#4B5563"),
	Background:  lipgloss.Color("#E5E7EB"),
	Foreground:  lipgloss.Color("#111827"),
	BorderColor: lipgloss.Color("#D1D5DB"),
}

// Color palette for the TUI. Apply reassigns these.
var (
	Primary     lipgloss.Color
	Secondary   lipgloss.Color
	Success     lipgloss.Color
	Warning     lipgloss.Color
	Error       lipgloss.Color
	Muted       lipgloss.Color
	MutedLight  lipgloss.Color
	Background  lipgloss.Color
	Foreground  lipgloss.Color
	BorderColor lipgloss.Color
)

// Header styles.
var (
	// HeaderStyle is the main header container.
	HeaderStyle lipgloss.Style
	// HeaderLabelStyle is for header labels.
	HeaderLabelStyle lipgloss.Style
	// HeaderValueStyle is for header values.
	HeaderValueStyle lipgloss.Style
	// TitleStyle is for the application title.
	TitleStyle lipgloss.Style
	// TabStyle is an inactive view tab.
	TabStyle lipgloss.Style
	// ActiveTabStyle is the selected view tab.
	ActiveTabStyle lipgloss.Style
)

// Box styles.
var (
	// BoxStyle is a standard box with border.
	BoxStyle lipgloss.Style
	// FocusedBoxStyle is a box that's currently focused.
	FocusedBoxStyle lipgloss.Style
	// CardTitleStyle is the heading inside a box.
	CardTitleStyle lipgloss.Style
	// KPIValueStyle is the big number on a stats card.
	KPIValueStyle lipgloss.Style
)

// Text styles.
var (
	MutedTextStyle   lipgloss.Style
	ErrorTextStyle   lipgloss.Style
	SuccessTextStyle lipgloss.Style
	WarningTextStyle lipgloss.Style
	TextStyle        lipgloss.Style
)

// Status bar styles.
var (
	// StatusBarStyle is the main status bar container.
	StatusBarStyle lipgloss.Style
	// KeyStyle is for keyboard shortcut keys.
	KeyStyle lipgloss.Style
	// HelpStyle is for help text.
	HelpStyle lipgloss.Style
)

// Form component styles.
var (
	FormTitleStyle        lipgloss.Style
	FormLabelStyle        lipgloss.Style
	FormLabelFocusedStyle lipgloss.Style
	FormInputStyle        lipgloss.Style
	FormInputFocusedStyle lipgloss.Style

	ButtonPrimaryStyle            lipgloss.Style
	ButtonPrimaryUnfocusedStyle   lipgloss.Style
	ButtonSecondaryStyle          lipgloss.Style
	ButtonSecondaryUnfocusedStyle lipgloss.Style
	ButtonDangerStyle             lipgloss.Style
	ButtonDangerUnfocusedStyle    lipgloss.Style
)

var current = config.ThemeDark

func init() {
	Apply(config.ThemeDark)
}

// Current returns the applied theme.
func Current() config.Theme {
	return current
}

// Apply switches every color and style to theme. Unknown themes fall back to dark.
func Apply(theme config.Theme) {
	p := DarkPalette
	if theme == config.ThemeLight {
		p = LightPalette
	} else {
		theme = config.ThemeDark
	}
	current = theme

	Primary, Secondary, Success, Warning, Error = p.Primary, p.Secondary, p.Success, p.Warning, p.Error
	Muted, MutedLight, Background, Foreground, BorderColor = p.Muted, p.MutedLight, p.Background, p.Foreground, p.BorderColor

	HeaderStyle = lipgloss.NewStyle().Bold(true).Foreground(Foreground).Background(Primary).Padding(0, 1)
	HeaderLabelStyle = lipgloss.NewStyle().Foreground(MutedLight)
	HeaderValueStyle = lipgloss.NewStyle().Foreground(Foreground).Bold(true)
	TitleStyle = lipgloss.NewStyle().Foreground(Foreground).Background(Primary).Bold(true).Padding(0, 1)
	TabStyle = lipgloss.NewStyle().Foreground(MutedLight).Padding(0, 1)
	ActiveTabStyle = lipgloss.NewStyle().Foreground(Primary).Bold(true).Underline(true).Padding(0, 1)

	BoxStyle = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(BorderColor).Padding(0, 1)
	FocusedBoxStyle = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(Primary).Padding(0, 1)
	CardTitleStyle = lipgloss.NewStyle().Foreground(MutedLight).Bold(true)
	KPIValueStyle = lipgloss.NewStyle().Foreground(Foreground).Bold(true)

	MutedTextStyle = lipgloss.NewStyle().Foreground(Muted)
	ErrorTextStyle = lipgloss.NewStyle().Foreground(Error)
	SuccessTextStyle = lipgloss.NewStyle().Foreground(Success)
	WarningTextStyle = lipgloss.NewStyle().Foreground(Warning)
	TextStyle = lipgloss.NewStyle().Foreground(Foreground)

	StatusBarStyle = lipgloss.NewStyle().Foreground(MutedLight).Padding(0, 1)
	KeyStyle = lipgloss.NewStyle().Foreground(Secondary).Bold(true)
	HelpStyle = lipgloss.NewStyle().Foreground(Muted)

	FormTitleStyle = lipgloss.NewStyle().Foreground(Foreground).Bold(true).Padding(0, 1)
	FormLabelStyle = lipgloss.NewStyle().Foreground(MutedLight)
	FormLabelFocusedStyle = lipgloss.NewStyle().Foreground(Secondary).Bold(true)
	FormInputStyle = lipgloss.NewStyle().Foreground(MutedLight).Padding(0, 1)
	FormInputFocusedStyle = lipgloss.NewStyle().Foreground(Foreground).Background(Background).Padding(0, 1)

	ButtonPrimaryStyle = lipgloss.NewStyle().Foreground(Background).Background(Primary).Bold(true).Padding(0, 2)
	ButtonPrimaryUnfocusedStyle = lipgloss.NewStyle().Foreground(Primary).Border(lipgloss.NormalBorder()).BorderForeground(Primary).Padding(0, 1)
	ButtonSecondaryStyle = lipgloss.NewStyle().Foreground(Background).Background(Secondary).Bold(true).Padding(0, 2)
	ButtonSecondaryUnfocusedStyle = lipgloss.NewStyle().Foreground(MutedLight).Border(lipgloss.NormalBorder()).BorderForeground(Muted).Padding(0, 1)
	ButtonDangerStyle = lipgloss.NewStyle().Foreground(Foreground).Background(Error).Bold(true).Padding(0, 2)
	ButtonDangerUnfocusedStyle = lipgloss.NewStyle().Foreground(Error).Border(lipgloss.NormalBorder()).BorderForeground(Error).Padding(0, 1)
}

// RiskColor returns the color for a risk level.
func RiskColor(level esg.RiskLevel) lipgloss.Color {
	switch level {
	case esg.RiskHigh:
		return Error
	case esg.RiskMedium:
		return Warning
	case esg.RiskLow:
		return Success
	default:
		return Muted
	}
}

// RiskBadge renders a risk level as a colored badge.
func RiskBadge(level esg.RiskLevel) string {
	if level == "" {
		level = esg.RiskUnknown
	}
	return lipgloss.NewStyle().
		Foreground(Foreground).
		Background(RiskColor(level)).
		Bold(true).
		Padding(0, 1).
		Render(string(level))
}

// GlamourStyle returns the markdown style matching the theme.
func GlamourStyle() string {
	if current == config.ThemeLight {
		return "light"
	}
	return "dark"
}
