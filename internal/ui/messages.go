package ui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/contravento/routemap/internal/basemap"
	"github.com/contravento/routemap/internal/models"
	"github.com/contravento/routemap/internal/tiles"
	"github.com/contravento/routemap/internal/trips"
)

// Message types for async operations

// provisionDoneMsg is sent when basemap provisioning finishes
type provisionDoneMsg struct {
	err error
}

// tripsLoadedMsg is sent when the trip overview has been loaded
type tripsLoadedMsg struct {
	trips []models.Trip
	err   error
}

// tripLoadedMsg is sent when a trip and its route have been loaded
type tripLoadedMsg struct {
	trip *models.Trip
	err  error
}

// tripSavedMsg is sent when an edited route has been persisted
type tripSavedMsg struct {
	trip *models.Trip
	err  error
}

// mapRegionMsg carries the tiles and coastline for one viewport. gen
// ties the result to the load attempt that requested it; results from
// superseded attempts are dropped so two loads never race for the
// final map state.
type mapRegionMsg struct {
	gen    int
	mosaic *tiles.Mosaic
	coast  []basemap.Segment
	err    error
}

// errMsg is a message type for errors
type errMsg struct {
	err error
}

// provisionBasemap builds the coastline database in the background
func provisionBasemap(dbPath string) tea.Cmd {
	return func() tea.Msg {
		return provisionDoneMsg{err: basemap.ProvisionDatabase(dbPath)}
	}
}

// loadTrips fetches the trip overview
func loadTrips(svc *trips.Service) tea.Cmd {
	return func() tea.Msg {
		list, err := svc.ListTrips()
		return tripsLoadedMsg{trips: list, err: err}
	}
}

// loadTrip fetches one trip with its route
func loadTrip(svc *trips.Service, id string) tea.Cmd {
	return func() tea.Msg {
		trip, err := svc.GetTrip(id)
		return tripLoadedMsg{trip: trip, err: err}
	}
}

// saveRoute persists an edited route through the validation gate
func saveRoute(svc *trips.Service, tripID string, inputs []models.LocationInput) tea.Cmd {
	return func() tea.Msg {
		trip, err := svc.UpdateRoute(tripID, inputs)
		return tripSavedMsg{trip: trip, err: err}
	}
}

// fetchMapRegion loads the tiles and coastline covering the viewport.
// The coastline is a best-effort backdrop: its absence is not a map
// failure, only a tile failure is.
func fetchMapRegion(client tiles.Client, dbPath string, vp Viewport, cols, rows, gen int) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 20*time.Second)
		defer cancel()

		minX, minY, maxX, maxY := vp.PixelBounds(cols, rows)
		mosaic, err := tiles.FetchRegion(ctx, client, vp.Zoom, minX, minY, maxX, maxY)
		if err != nil {
			return mapRegionMsg{gen: gen, err: err}
		}

		minLat, maxLat, minLon, maxLon := vp.GeoBounds(cols, rows)
		coast, err := basemap.SegmentsInBounds(dbPath, minLat, maxLat, minLon, maxLon)
		if err != nil {
			coast = nil
		}

		return mapRegionMsg{gen: gen, mosaic: mosaic, coast: coast}
	}
}
