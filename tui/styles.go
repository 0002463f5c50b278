package tui

import "github.com/charmbracelet/lipgloss"

// ANSI colors 0-15 only, so the terminal theme decides the palette.

var (
	// Title bar
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.ANSIColor(11)).
			Reverse(true).
			Padding(0, 1)
	urlStyle = lipgloss.NewStyle().Foreground(lipgloss.ANSIColor(8))

	// Help bar
	helpKeyStyle  = lipgloss.NewStyle().Foreground(lipgloss.ANSIColor(8))
	helpDescStyle = lipgloss.NewStyle().Foreground(lipgloss.ANSIColor(7))

	// Lists
	cursorStyle   = lipgloss.NewStyle().Reverse(true).Bold(true)
	subtitleStyle = lipgloss.NewStyle().Foreground(lipgloss.ANSIColor(8))
	matchStyle    = lipgloss.NewStyle().Foreground(lipgloss.ANSIColor(6)) // Cyan
	emptyStyle    = lipgloss.NewStyle().Foreground(lipgloss.ANSIColor(8)).Italic(true)

	// Search input
	promptStyle = lipgloss.NewStyle().Foreground(lipgloss.ANSIColor(3)).Bold(true)

	// Markdown and metadata
	headingStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.ANSIColor(12))
	codeStyle      = lipgloss.NewStyle().Foreground(lipgloss.ANSIColor(2))
	quoteStyle     = lipgloss.NewStyle().Foreground(lipgloss.ANSIColor(8)).Italic(true)
	labelStyle     = lipgloss.NewStyle().Foreground(lipgloss.ANSIColor(3)).Bold(true)
	valueStyle     = lipgloss.NewStyle().Foreground(lipgloss.ANSIColor(7))
	linkStyle      = lipgloss.NewStyle().Foreground(lipgloss.ANSIColor(4)).Underline(true)
	separatorStyle = lipgloss.NewStyle().Foreground(lipgloss.ANSIColor(8))

	// Forms
	fieldLabelStyle   = lipgloss.NewStyle().Foreground(lipgloss.ANSIColor(7))
	focusedLabelStyle = lipgloss.NewStyle().Foreground(lipgloss.ANSIColor(3)).Bold(true)
	requiredStyle     = lipgloss.NewStyle().Foreground(lipgloss.ANSIColor(1))

	// Notifications
	toastSuccessStyle = lipgloss.NewStyle().Foreground(lipgloss.ANSIColor(2))
	toastFailureStyle = lipgloss.NewStyle().Foreground(lipgloss.ANSIColor(1)).Bold(true)
	toastInfoStyle    = lipgloss.NewStyle().Foreground(lipgloss.ANSIColor(6))

	// Loading
	loadingStyle = lipgloss.NewStyle().Foreground(lipgloss.ANSIColor(8)).Italic(true)

	// Error and unsupported states
	errorStyle = lipgloss.NewStyle().Foreground(lipgloss.ANSIColor(9))

	// Action panel
	overlayStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.ANSIColor(3)).
			Padding(0, 1)
	overlayTitleStyle = lipgloss.NewStyle().Foreground(lipgloss.ANSIColor(3)).Bold(true)
	shortcutStyle     = lipgloss.NewStyle().Foreground(lipgloss.ANSIColor(8))
)
