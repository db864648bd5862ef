package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/contravento/routemap/internal/basemap"
	"github.com/contravento/routemap/internal/models"
	"github.com/contravento/routemap/internal/tiles"
	"github.com/contravento/routemap/internal/trips"
)

// AppState represents the current screen of the application
type AppState int

const (
	StateProvisioning AppState = iota // Building the coastline database
	StateTripList                     // Choosing a trip
	StateDetail                       // Trip detail with the route map
	StateEdit                         // Editing the route
)

// MapState is the render state of the map pane inside the detail
// screen. It is deliberately a single enum, not a set of flags: Retry
// must resume with the exact pre-failure viewport, which is easy to
// check when there is exactly one state to be in.
type MapState int

const (
	MapNoData  MapState = iota // No mappable locations; no map pane at all
	MapLoading                 // Tiles being fetched
	MapReady                   // Tiles loaded, markers and route drawn
	MapError                   // Tile load failed; retry + fallback list
)

// Model represents the application's state
type Model struct {
	state  AppState
	width  int
	height int
	err    error

	svc        *trips.Service
	dbPath     string
	tileClient tiles.Client
	openTripID string

	spinner spinner.Model

	// Trip overview
	tripList list.Model
	trips    []models.Trip

	// Detail screen
	trip       *models.Trip
	mapState   MapState
	viewport   Viewport
	mosaic     *tiles.Mosaic
	coast      []basemap.Segment
	mapErr     error
	loadGen    int // current tile-load attempt; stale results are dropped
	selected   int // selected marker (index into the mappable subset)
	fullscreen bool

	// Edit screen
	edit editSession
}

// NewModel creates the application model. openTripID, when non-empty,
// skips the overview and opens that trip directly.
func NewModel(svc *trips.Service, dbPath string, tileClient tiles.Client, openTripID string) Model {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(colorPrimary)

	return Model{
		state:      StateTripList,
		svc:        svc,
		dbPath:     dbPath,
		tileClient: tileClient,
		openTripID: openTripID,
		spinner:    s,
	}
}

// Init initializes the application
func (m Model) Init() tea.Cmd {
	needed, err := basemap.NeedsProvisioning(m.dbPath)
	if err == nil && needed {
		return tea.Batch(m.spinner.Tick, provisionBasemap(m.dbPath))
	}
	return tea.Batch(m.spinner.Tick, m.startCmd())
}

// startCmd picks the first data load after startup/provisioning.
func (m Model) startCmd() tea.Cmd {
	if m.openTripID != "" {
		return loadTrip(m.svc, m.openTripID)
	}
	return loadTrips(m.svc)
}

// Update handles messages and updates the model
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	if msg, ok := msg.(tea.WindowSizeMsg); ok {
		m.width = msg.Width
		m.height = msg.Height
		if m.state == StateTripList && len(m.trips) > 0 {
			m.tripList.SetSize(msg.Width-4, msg.Height-6)
		}
		// A bigger pane may need tiles the current mosaic lacks.
		if m.state == StateDetail && (m.mapState == MapReady || m.mapState == MapLoading) {
			return m, m.startMapLoad()
		}
		return m, nil
	}

	switch msg := msg.(type) {
	case errMsg:
		m.err = msg.err
		return m, nil

	case provisionDoneMsg:
		// The coastline backdrop is optional; a failed download must
		// never block the application.
		if msg.err != nil {
			m.err = fmt.Errorf("sin mapa base costero: %w", msg.err)
		}
		return m, m.startCmd()

	case tripsLoadedMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.trips = msg.trips
		m.state = StateTripList
		m.tripList = createTripList(msg.trips, max(m.width-4, 20), max(m.height-6, 10))
		return m, nil

	case tripLoadedMsg:
		if msg.err != nil {
			m.err = msg.err
			m.state = StateTripList
			return m, loadTrips(m.svc)
		}
		return m.enterDetail(msg.trip)

	case tripSavedMsg:
		m.edit.saving = false
		if msg.err != nil {
			m.edit.applyError(msg.err)
			return m, nil
		}
		// The route changed; re-enter the detail view and re-fit.
		return m.enterDetail(msg.trip)

	case mapRegionMsg:
		if msg.gen != m.loadGen {
			return m, nil // stale attempt, superseded by a newer load
		}
		if msg.err != nil {
			m.mapState = MapError
			m.mapErr = msg.err
			return m, nil
		}
		m.mosaic = msg.mosaic
		m.coast = msg.coast
		m.mapState = MapReady
		m.mapErr = nil
		return m, nil
	}

	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		if keyMsg.String() == "ctrl+c" {
			return m, tea.Quit
		}

		switch m.state {
		case StateTripList:
			return m.handleTripList(msg)
		case StateDetail:
			return m.handleDetailKeys(keyMsg)
		case StateEdit:
			return m.handleEditKeys(keyMsg)
		}
	}

	switch m.state {
	case StateProvisioning:
		m.spinner, cmd = m.spinner.Update(msg)
	case StateTripList:
		if len(m.trips) > 0 {
			m.tripList, cmd = m.tripList.Update(msg)
		}
	case StateDetail:
		if m.mapState == MapLoading {
			m.spinner, cmd = m.spinner.Update(msg)
		}
	case StateEdit:
		if m.edit.saving {
			m.spinner, cmd = m.spinner.Update(msg)
		}
	}

	return m, cmd
}

// enterDetail switches to the detail screen for a freshly loaded trip.
// The fit-bounds viewport is computed here, once per data-set change,
// never per frame.
func (m Model) enterDetail(trip *models.Trip) (tea.Model, tea.Cmd) {
	m.trip = trip
	m.state = StateDetail
	m.selected = 0
	m.mosaic = nil
	m.coast = nil
	m.mapErr = nil

	mappable := trip.MappableLocations()
	if len(mappable) == 0 {
		m.mapState = MapNoData
		return m, nil
	}

	cols, rows := m.mapPaneSize()
	m.viewport = FitBounds(mappable, cols, rows)
	return m, m.startMapLoad()
}

// startMapLoad begins a tile load for the current viewport. Bumping the
// generation implicitly cancels any in-flight attempt: its result will
// arrive with an old generation and be dropped.
func (m *Model) startMapLoad() tea.Cmd {
	m.mapState = MapLoading
	m.loadGen++
	cols, rows := m.mapPaneSize()
	return tea.Batch(m.spinner.Tick, fetchMapRegion(m.tileClient, m.dbPath, m.viewport, cols, rows, m.loadGen))
}

// handleTripList handles input on the trip overview
func (m Model) handleTripList(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		if keyMsg.Type == tea.KeyEnter && len(m.trips) > 0 {
			if item, ok := m.tripList.SelectedItem().(tripItem); ok {
				return m, loadTrip(m.svc, item.trip.ID)
			}
			return m, nil
		}
		if keyMsg.String() == "q" {
			return m, tea.Quit
		}
	}

	var cmd tea.Cmd
	if len(m.trips) > 0 {
		m.tripList, cmd = m.tripList.Update(msg)
	}
	return m, cmd
}

// handleDetailKeys handles input on the trip detail screen
func (m Model) handleDetailKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "esc":
		m.state = StateTripList
		m.trip = nil
		m.mosaic = nil
		m.coast = nil
		m.fullscreen = false
		return m, loadTrips(m.svc)

	case "e":
		if m.trip != nil {
			m.edit = newEditSession(m.trip)
			m.state = StateEdit
		}
		return m, nil

	case "f":
		// Layout only: the render state and viewport are untouched.
		m.fullscreen = !m.fullscreen
		if m.mapState == MapReady || m.mapState == MapLoading {
			return m, m.startMapLoad()
		}
		return m, nil

	case "r":
		if m.mapState == MapError {
			// Same viewport as before the failure, by construction:
			// nothing between failure and retry writes to it.
			return m, m.startMapLoad()
		}
		return m, nil

	case "tab":
		if n := len(m.mappable()); n > 0 && m.mapState == MapReady {
			m.selected = (m.selected + 1) % n
		}
		return m, nil

	case "left":
		return m.panBy(-4, 0)
	case "right":
		return m.panBy(4, 0)
	case "up":
		return m.panBy(0, -2)
	case "down":
		return m.panBy(0, 2)

	case "+", "=":
		return m.zoomBy(1)
	case "-":
		return m.zoomBy(-1)
	}
	return m, nil
}

func (m Model) panBy(dCols, dRows int) (tea.Model, tea.Cmd) {
	if m.mapState != MapReady {
		return m, nil
	}
	m.viewport = m.viewport.Pan(dCols, dRows)
	return m, m.startMapLoad()
}

func (m Model) zoomBy(delta int) (tea.Model, tea.Cmd) {
	if m.mapState != MapReady {
		return m, nil
	}
	next := m.viewport.ZoomBy(delta)
	if next.Zoom == m.viewport.Zoom {
		return m, nil
	}
	m.viewport = next
	return m, m.startMapLoad()
}

// mappable returns the renderable subset of the current trip's route.
func (m Model) mappable() []models.Location {
	if m.trip == nil {
		return nil
	}
	return m.trip.MappableLocations()
}

// mapPaneSize returns the map pane dimensions in cells.
func (m Model) mapPaneSize() (cols, rows int) {
	width, height := m.width, m.height
	if width == 0 {
		width, height = 80, 24
	}
	if m.fullscreen {
		return max(width-4, 20), max(height-6, 10)
	}
	return max(width-sidebarWidth-8, 20), max(height-8, 10)
}

const sidebarWidth = 36

// View renders the UI
func (m Model) View() string {
	if m.width == 0 {
		return "Cargando..."
	}

	switch m.state {
	case StateProvisioning:
		return m.viewProvisioning()
	case StateTripList:
		return m.viewTripList()
	case StateDetail:
		return m.viewDetail()
	case StateEdit:
		return m.viewEdit()
	}
	return ""
}

// viewProvisioning renders the one-time setup screen
func (m Model) viewProvisioning() string {
	title := titleStyle.Render("⛰ ContraVento")
	status := mutedStyle.Render("Preparando el mapa base (primera ejecución)...")

	return lipgloss.JoinVertical(
		lipgloss.Center,
		"",
		title,
		"",
		fmt.Sprintf("%s %s", m.spinner.View(), status),
	)
}

// viewTripList renders the trip overview
func (m Model) viewTripList() string {
	if len(m.trips) == 0 {
		body := mutedStyle.Render("No hay viajes todavía.")
		if m.err != nil {
			body = errorTextStyle.Render("✗ " + m.err.Error())
		}
		return lipgloss.NewStyle().Padding(1, 2).Render(
			titleStyle.Render("⛰ ContraVento") + "\n\n" + body + "\n" + helpStyle.Render("q salir"))
	}

	view := m.tripList.View()
	if m.err != nil {
		view += "\n" + errorTextStyle.Render("✗ "+m.err.Error())
	}
	return view
}

// viewDetail renders the trip detail screen: title, the map pane in its
// current render state, and the location sidebar. A map failure only
// ever replaces the map pane; the rest of the screen stays intact.
func (m Model) viewDetail() string {
	if m.trip == nil {
		return ""
	}

	header := titleStyle.Render("⛰ " + m.trip.Title)
	if m.trip.Description != "" {
		header += "  " + mutedStyle.Render(m.trip.Description)
	}

	var body string
	switch {
	case m.mapState == MapNoData:
		// No map section at all, just the route as text.
		body = paneStyle.Render(m.renderLocationList(true))
	case m.fullscreen:
		body = m.renderMapPane()
	default:
		body = lipgloss.JoinHorizontal(
			lipgloss.Top,
			m.renderMapPane(),
			paneStyle.Width(sidebarWidth).Render(m.renderLocationList(true)),
		)
	}

	return lipgloss.JoinVertical(
		lipgloss.Left,
		lipgloss.NewStyle().Padding(0, 1).Render(header),
		body,
		m.renderDetailFooter(),
	)
}

// renderMapPane renders the map area for the current MapState.
func (m Model) renderMapPane() string {
	cols, rows := m.mapPaneSize()

	switch m.mapState {
	case MapLoading:
		placeholder := fmt.Sprintf("%s Cargando mapa...", m.spinner.View())
		return paneStyle.Width(cols).Height(rows).Align(lipgloss.Center, lipgloss.Center).Render(placeholder)

	case MapReady:
		canvas := newMapCanvas(cols, rows)
		canvas.drawBackdrop(m.viewport, m.mosaic)
		canvas.drawCoastline(m.viewport, m.coast)
		canvas.drawRoute(m.viewport, m.mappable(), m.selected)
		return paneStyle.Render(canvas.render())

	case MapError:
		msg := errorTextStyle.Render("No se pudo cargar el mapa. Comprueba tu conexión.")
		retry := successStyle.Render("[r] Reintentar")
		fallback := m.renderLocationList(true)
		return errorPaneStyle.Width(cols).Render(
			msg + "\n" + retry + "\n\n" + labelStyle.Render("Paradas de la ruta") + "\n" + fallback)
	}
	return ""
}

// renderLocationList renders the plain-text route: every stop in
// sequence order, coordinates only where they exist. This is both the
// sidebar and the fallback when the map cannot load.
func (m Model) renderLocationList(showCoords bool) string {
	var lines []string
	for i, loc := range m.trip.Locations {
		line := fmt.Sprintf("%d. %s", i+1, loc.Name)
		if showCoords {
			line += " " + coordSuffix(loc)
		}
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n")
}

// renderDetailFooter renders the marker info bar and key help.
func (m Model) renderDetailFooter() string {
	var info string
	if mappable := m.mappable(); m.mapState == MapReady && m.selected < len(mappable) {
		loc := mappable[m.selected]
		info = fmt.Sprintf("▍%d · %s (%.6f, %.6f)", m.selected+1, loc.Name, *loc.Latitude, *loc.Longitude)
	}

	help := "tab marcador · ←↑↓→ mover · +/- zoom · f pantalla completa · e editar · q volver"
	if m.mapState == MapError {
		help = "r reintentar · e editar · q volver"
	}
	if m.mapState == MapNoData {
		help = "e editar · q volver"
	}

	out := helpStyle.Render(help)
	if info != "" {
		out = valueStyle.Render(info) + "\n" + out
	}
	return lipgloss.NewStyle().Padding(0, 1).Render(out)
}
