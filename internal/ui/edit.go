package ui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/contravento/routemap/internal/models"
	"github.com/contravento/routemap/internal/routelist"
)

const (
	fieldName = iota
	fieldLat
	fieldLon
	editFieldCount
)

// editSession is one route editing session. It owns the location list
// for the duration of the edit; nothing touches storage until the user
// saves and the server-side gate accepts the whole route.
type editSession struct {
	tripID  string
	list    *routelist.List
	index   int  // selected row
	editing bool // inputs focused vs row navigation

	inputs [editFieldCount]textinput.Model
	focus  int

	fieldErrs map[string]string // field name -> localized message
	listErr   string            // list-level error (cap, last stop)
	saving    bool
}

func newEditSession(trip *models.Trip) editSession {
	var inputs [editFieldCount]textinput.Model

	name := textinput.New()
	name.Placeholder = "Nombre (p. ej. Madrid)"
	name.CharLimit = models.MaxLocationName + 1
	name.Width = 32

	lat := textinput.New()
	lat.Placeholder = "Latitud (vacío = sin datos)"
	lat.Width = 24

	lon := textinput.New()
	lon.Placeholder = "Longitud (vacío = sin datos)"
	lon.Width = 24

	inputs[fieldName] = name
	inputs[fieldLat] = lat
	inputs[fieldLon] = lon

	return editSession{
		tripID: trip.ID,
		list:   routelist.New(trip.Locations),
		inputs: inputs,
	}
}

// beginRow loads the selected location into the inputs.
func (e *editSession) beginRow() {
	loc := e.list.At(e.index)
	e.inputs[fieldName].SetValue(loc.Name)
	e.inputs[fieldLat].SetValue(formatCoord(loc.Latitude))
	e.inputs[fieldLon].SetValue(formatCoord(loc.Longitude))
	e.editing = true
	e.focus = fieldName
	e.syncFocus()
	e.fieldErrs = nil
	e.listErr = ""
}

func (e *editSession) syncFocus() {
	for i := range e.inputs {
		if i == e.focus {
			e.inputs[i].Focus()
		} else {
			e.inputs[i].Blur()
		}
	}
}

// draftInput parses the inputs into a LocationInput. Parse failures are
// reported as field errors before the validator ever runs; the
// validator itself only sees numbers.
func (e *editSession) draftInput() (models.LocationInput, map[string]string) {
	parseErrs := make(map[string]string)
	input := models.LocationInput{Name: e.inputs[fieldName].Value()}

	if v := strings.TrimSpace(e.inputs[fieldLat].Value()); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			parseErrs["latitude"] = "La latitud no es un número válido"
		} else {
			input.Latitude = &f
		}
	}
	if v := strings.TrimSpace(e.inputs[fieldLon].Value()); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			parseErrs["longitude"] = "La longitud no es un número válido"
		} else {
			input.Longitude = &f
		}
	}
	if len(parseErrs) == 0 {
		return input, nil
	}
	return input, parseErrs
}

// revalidate refreshes the per-field feedback from the current draft.
// Runs on every keystroke; ValidateLocation is pure and cheap.
func (e *editSession) revalidate() {
	input, parseErrs := e.draftInput()
	errs := make(map[string]string)
	for k, v := range parseErrs {
		errs[k] = v
	}
	if _, vErrs := models.ValidateLocation(input); len(vErrs) > 0 {
		for _, ve := range vErrs {
			if _, taken := errs[ve.Field]; !taken {
				errs[ve.Field] = ve.Message()
			}
		}
	}
	e.fieldErrs = errs
}

// commitRow validates the draft and applies it to the list. The list is
// untouched when validation fails.
func (e *editSession) commitRow() bool {
	input, parseErrs := e.draftInput()
	if len(parseErrs) > 0 {
		e.fieldErrs = parseErrs
		return false
	}

	if err := e.list.Update(e.index, input); err != nil {
		e.applyError(err)
		return false
	}

	e.editing = false
	e.fieldErrs = nil
	return true
}

// addRow appends a placeholder stop and opens it for editing.
func (e *editSession) addRow() {
	if err := e.list.Add(models.LocationInput{Name: "Nueva parada"}); err != nil {
		e.applyError(err)
		return
	}
	e.index = e.list.Len() - 1
	e.beginRow()
}

// removeRow deletes the selected stop.
func (e *editSession) removeRow() {
	if err := e.list.Remove(e.index); err != nil {
		e.applyError(err)
		return
	}
	if e.index >= e.list.Len() {
		e.index = e.list.Len() - 1
	}
	e.listErr = ""
}

func (e *editSession) applyError(err error) {
	switch err := err.(type) {
	case *routelist.IndexedError:
		errs := make(map[string]string)
		for _, ve := range err.Errors {
			errs[ve.Field] = ve.Message()
		}
		e.fieldErrs = errs
	case *routelist.ListError:
		e.listErr = err.Error()
	default:
		e.listErr = err.Error()
	}
}

// routeInputs returns the whole edited route as raw inputs for the
// authoritative save.
func (e *editSession) routeInputs() []models.LocationInput {
	locs := e.list.Locations()
	inputs := make([]models.LocationInput, len(locs))
	for i, loc := range locs {
		inputs[i] = models.LocationInput{Name: loc.Name, Latitude: loc.Latitude, Longitude: loc.Longitude}
	}
	return inputs
}

func formatCoord(v *float64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}

// handleEditKeys processes keyboard input in the edit state.
func (m Model) handleEditKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	e := &m.edit

	if e.editing {
		switch msg.Type {
		case tea.KeyEnter:
			e.commitRow()
			return m, nil
		case tea.KeyEsc:
			e.editing = false
			e.fieldErrs = nil
			return m, nil
		case tea.KeyTab, tea.KeyShiftTab:
			if msg.Type == tea.KeyTab {
				e.focus = (e.focus + 1) % editFieldCount
			} else {
				e.focus = (e.focus + editFieldCount - 1) % editFieldCount
			}
			e.syncFocus()
			return m, nil
		}

		var cmd tea.Cmd
		e.inputs[e.focus], cmd = e.inputs[e.focus].Update(msg)
		e.revalidate()
		return m, cmd
	}

	switch msg.String() {
	case "up", "k":
		if e.index > 0 {
			e.index--
		}
	case "down", "j":
		if e.index < e.list.Len()-1 {
			e.index++
		}
	case "enter":
		e.beginRow()
	case "a":
		e.addRow()
	case "d":
		e.removeRow()
	case "ctrl+s":
		if !e.saving {
			e.saving = true
			e.listErr = ""
			// The spinner needs its own tick chain; the startup one has
			// long since lapsed by the time the user saves.
			return m, tea.Batch(m.spinner.Tick, saveRoute(m.svc, e.tripID, e.routeInputs()))
		}
	case "esc", "q":
		// Discard the session and return to the detail view.
		m.state = StateDetail
		return m, nil
	}
	return m, nil
}

// viewEdit renders the route edit screen.
func (m Model) viewEdit() string {
	e := m.edit

	title := titleStyle.Render("✎ Editar ruta")

	var rows []string
	for i, loc := range e.list.Locations() {
		cursor := "  "
		if i == e.index && !e.editing {
			cursor = "▸ "
		}
		line := fmt.Sprintf("%s%d. %s %s", cursor, i+1, loc.Name, coordSuffix(loc))
		if i == e.index {
			rows = append(rows, valueStyle.Render(line))
		} else {
			rows = append(rows, mutedStyle.Render(line))
		}
	}

	sections := []string{title, "", strings.Join(rows, "\n")}

	if e.editing {
		form := []string{
			labelStyle.Render("Nombre:    ") + e.inputs[fieldName].View(),
			labelStyle.Render("Latitud:   ") + e.inputs[fieldLat].View(),
			labelStyle.Render("Longitud:  ") + e.inputs[fieldLon].View(),
		}
		for _, field := range []string{"name", "latitude", "longitude"} {
			if msg, ok := e.fieldErrs[field]; ok {
				form = append(form, fieldErrorStyle.Render("  ✗ "+msg))
			}
		}
		sections = append(sections, "", paneStyle.Render(strings.Join(form, "\n")))
	}

	if e.listErr != "" {
		sections = append(sections, "", errorTextStyle.Render("✗ "+e.listErr))
	}
	if e.saving {
		sections = append(sections, "", m.spinner.View()+" Guardando...")
	}

	help := "↑/↓ elegir · enter editar · a añadir · d eliminar · ctrl+s guardar · esc volver"
	if e.editing {
		help = "tab campo siguiente · enter confirmar · esc cancelar"
	}
	sections = append(sections, helpStyle.Render(help))

	return lipgloss.NewStyle().Padding(1, 2).Render(strings.Join(sections, "\n"))
}

func coordSuffix(loc models.Location) string {
	if !loc.Mappable() {
		return mutedStyle.Render("(sin coordenadas)")
	}
	return fmt.Sprintf("(%.6f, %.6f)", *loc.Latitude, *loc.Longitude)
}
