package trips

import (
	"path/filepath"
	"testing"

	"github.com/contravento/routemap/internal/models"
	"github.com/google/uuid"
)

func fp(v float64) *float64 { return &v }

func testRepo(t *testing.T) *Repository {
	t.Helper()
	return NewRepository(filepath.Join(t.TempDir(), "test.db"))
}

func sampleTrip() *models.Trip {
	return &models.Trip{
		ID:    uuid.NewString(),
		Title: "Ruta de los castillos",
		Locations: []models.Location{
			{ID: uuid.NewString(), Name: "Madrid", Sequence: 0, Latitude: fp(40.416775), Longitude: fp(-3.70379)},
			{ID: uuid.NewString(), Name: "Toledo", Sequence: 1},
			{ID: uuid.NewString(), Name: "Segovia", Sequence: 2, Latitude: fp(40.948056), Longitude: fp(-4.118056)},
		},
	}
}

func TestRepository_SaveAndGetTrip(t *testing.T) {
	repo := testRepo(t)
	trip := sampleTrip()

	if err := repo.SaveTrip(trip); err != nil {
		t.Fatalf("SaveTrip: %v", err)
	}

	got, err := repo.GetTrip(trip.ID)
	if err != nil {
		t.Fatalf("GetTrip: %v", err)
	}

	if got.Title != trip.Title {
		t.Errorf("title = %q, want %q", got.Title, trip.Title)
	}
	if len(got.Locations) != 3 {
		t.Fatalf("locations = %d, want 3", len(got.Locations))
	}

	// NULL columns must come back as nil pointers, not zero values.
	toledo := got.Locations[1]
	if toledo.Name != "Toledo" {
		t.Errorf("location 1 = %q, want Toledo", toledo.Name)
	}
	if toledo.Latitude != nil || toledo.Longitude != nil {
		t.Errorf("Toledo coordinates = %v/%v, want nil/nil", toledo.Latitude, toledo.Longitude)
	}

	madrid := got.Locations[0]
	if madrid.Latitude == nil || *madrid.Latitude != 40.416775 {
		t.Errorf("Madrid latitude = %v, want 40.416775", madrid.Latitude)
	}
}

func TestRepository_SaveTrip_ReplacesRoute(t *testing.T) {
	repo := testRepo(t)
	trip := sampleTrip()

	if err := repo.SaveTrip(trip); err != nil {
		t.Fatalf("SaveTrip: %v", err)
	}

	trip.Locations = []models.Location{
		{ID: uuid.NewString(), Name: "Ávila", Sequence: 0, Latitude: fp(40.656685), Longitude: fp(-4.681209)},
	}
	if err := repo.SaveTrip(trip); err != nil {
		t.Fatalf("second SaveTrip: %v", err)
	}

	got, err := repo.GetTrip(trip.ID)
	if err != nil {
		t.Fatalf("GetTrip: %v", err)
	}
	if len(got.Locations) != 1 || got.Locations[0].Name != "Ávila" {
		t.Errorf("route after replace = %+v, want single Ávila stop", got.Locations)
	}
}

func TestRepository_GetTrip_OrdersBySequence(t *testing.T) {
	repo := testRepo(t)
	trip := sampleTrip()
	// Insert out of order; reads must still follow sequence.
	trip.Locations[0], trip.Locations[2] = trip.Locations[2], trip.Locations[0]

	if err := repo.SaveTrip(trip); err != nil {
		t.Fatalf("SaveTrip: %v", err)
	}

	got, err := repo.GetTrip(trip.ID)
	if err != nil {
		t.Fatalf("GetTrip: %v", err)
	}
	for i, loc := range got.Locations {
		if loc.Sequence != i {
			t.Errorf("position %d has sequence %d", i, loc.Sequence)
		}
	}
	if got.Locations[0].Name != "Madrid" {
		t.Errorf("first stop = %q, want Madrid", got.Locations[0].Name)
	}
}

func TestRepository_DeleteTrip_CascadesLocations(t *testing.T) {
	repo := testRepo(t)
	trip := sampleTrip()

	if err := repo.SaveTrip(trip); err != nil {
		t.Fatalf("SaveTrip: %v", err)
	}
	if err := repo.DeleteTrip(trip.ID); err != nil {
		t.Fatalf("DeleteTrip: %v", err)
	}

	if _, err := repo.GetTrip(trip.ID); err == nil {
		t.Fatal("expected error fetching deleted trip")
	}

	trips, err := repo.ListTrips()
	if err != nil {
		t.Fatalf("ListTrips: %v", err)
	}
	if len(trips) != 0 {
		t.Errorf("trips after delete = %d, want 0", len(trips))
	}
}
