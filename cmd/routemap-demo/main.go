// Command routemap-demo seeds a sample trip and opens it in the viewer.
package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/contravento/routemap/internal/models"
	"github.com/contravento/routemap/internal/tiles"
	"github.com/contravento/routemap/internal/trips"
	"github.com/contravento/routemap/internal/ui"
)

func coord(v float64) *float64 { return &v }

func main() {
	tileServer := flag.String("tiles", tiles.DefaultTileServer, "Base URL of the slippy-map tile server")
	flag.Parse()

	dbPath := filepath.Join(os.TempDir(), "contravento-demo.db")
	svc := trips.NewService(trips.NewRepository(dbPath))

	trip, err := svc.CreateTrip(
		"Meseta en bici",
		"Tres días por Castilla",
		[]models.LocationInput{
			{Name: "Madrid", Latitude: coord(40.416775), Longitude: coord(-3.703790)},
			{Name: "Toledo"}, // no GPS data: text list only
			{Name: "Segovia", Latitude: coord(40.948056), Longitude: coord(-4.118056)},
			{Name: "Ávila", Latitude: coord(40.656685), Longitude: coord(-4.681209)},
		},
	)
	if err != nil {
		fmt.Printf("Error seeding demo trip: %v\n", err)
		os.Exit(1)
	}

	client := tiles.NewHTTPClient(*tileServer)
	p := tea.NewProgram(ui.NewModel(svc, dbPath, client, trip.ID), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		fmt.Printf("Error running application: %v\n", err)
		os.Exit(1)
	}
}
