package ui

import "github.com/charmbracelet/lipgloss"

var (
	// Color palette
	colorPrimary  = lipgloss.Color("#F59E0B") // Amber (trail signage)
	colorRoute    = lipgloss.Color("#FB923C") // Orange for the route line
	colorDanger   = lipgloss.Color("#FF6B6B") // Red for errors
	colorSuccess  = lipgloss.Color("#6BCF7F") // Green
	colorMuted    = lipgloss.Color("#6C757D") // Gray
	colorCoast    = lipgloss.Color("#3B82F6") // Blue coastline
	colorTerrain  = lipgloss.Color("#4B5563") // Dim terrain shading
	colorBorder   = lipgloss.Color("#B45309") // Border amber

	// Title styles
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorPrimary)

	// Pane styles
	paneStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorBorder).
			Padding(0, 1).
			MarginRight(1)

	errorPaneStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorDanger).
			Padding(1, 2)

	// Content styles
	labelStyle = lipgloss.NewStyle().
			Foreground(colorMuted).
			Bold(true)

	valueStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFFFFF"))

	errorTextStyle = lipgloss.NewStyle().
			Foreground(colorDanger).
			Bold(true)

	fieldErrorStyle = lipgloss.NewStyle().
			Foreground(colorDanger)

	successStyle = lipgloss.NewStyle().
			Foreground(colorSuccess)

	// Help text style
	helpStyle = lipgloss.NewStyle().
			Foreground(colorMuted).
			Padding(1, 0)

	mutedStyle = lipgloss.NewStyle().
			Foreground(colorMuted)

	// Map cell styles
	backdropStyle = lipgloss.NewStyle().
			Foreground(colorTerrain)

	coastStyle = lipgloss.NewStyle().
			Foreground(colorCoast)

	routeStyle = lipgloss.NewStyle().
			Foreground(colorRoute)

	markerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#000000")).
			Background(colorPrimary).
			Bold(true)

	selectedMarkerStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#000000")).
				Background(colorSuccess).
				Bold(true)
)

func layerStyle(layer cellLayer) lipgloss.Style {
	switch layer {
	case layerCoast:
		return coastStyle
	case layerRoute:
		return routeStyle
	case layerMarker:
		return markerStyle
	case layerSelected:
		return selectedMarkerStyle
	default:
		return backdropStyle
	}
}
