package main

import (
	"flag"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/contravento/routemap/internal/database"
	"github.com/contravento/routemap/internal/tiles"
	"github.com/contravento/routemap/internal/trips"
	"github.com/contravento/routemap/internal/ui"
)

func main() {
	dbPath := flag.String("db", database.DBPath(), "Path to the trips database")
	tileServer := flag.String("tiles", tiles.DefaultTileServer, "Base URL of the slippy-map tile server")
	tripID := flag.String("trip", "", "Open this trip directly instead of the trip list")
	flag.Parse()

	svc := trips.NewService(trips.NewRepository(*dbPath))
	client := tiles.NewHTTPClient(*tileServer)

	p := tea.NewProgram(ui.NewModel(svc, *dbPath, client, *tripID), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		fmt.Printf("Error running application: %v\n", err)
		os.Exit(1)
	}
}
