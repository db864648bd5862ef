package trips

import (
	"github.com/contravento/routemap/internal/models"
	"github.com/contravento/routemap/internal/routelist"
	"github.com/google/uuid"
)

// Service is the authoritative gate in front of trip persistence.
// Client-side validation gives instant feedback, but nothing reaches
// storage without passing through here again: every location is
// re-validated, coordinates are re-rounded, and sequences are assigned
// from submission order regardless of what the client claims.
type Service struct {
	repo *Repository
}

// NewService creates a trip service over the given repository.
func NewService(repo *Repository) *Service {
	return &Service{repo: repo}
}

// CreateTrip validates the submitted route and persists a new trip.
// Returns the stored trip, with server-assigned IDs, sequences and
// canonical rounded coordinates.
func (s *Service) CreateTrip(title, description string, inputs []models.LocationInput) (*models.Trip, error) {
	locs, err := s.validateRoute(inputs)
	if err != nil {
		return nil, err
	}

	trip := &models.Trip{
		ID:          uuid.NewString(),
		Title:       title,
		Description: description,
		Locations:   locs,
	}
	if err := s.repo.SaveTrip(trip); err != nil {
		return nil, err
	}
	return trip, nil
}

// UpdateRoute replaces a trip's location list. The same gate as
// CreateTrip applies; on any validation failure nothing is written.
func (s *Service) UpdateRoute(tripID string, inputs []models.LocationInput) (*models.Trip, error) {
	trip, err := s.repo.GetTrip(tripID)
	if err != nil {
		return nil, err
	}

	locs, err := s.validateRoute(inputs)
	if err != nil {
		return nil, err
	}

	trip.Locations = locs
	if err := s.repo.SaveTrip(trip); err != nil {
		return nil, err
	}
	return trip, nil
}

// GetTrip loads a trip with its route.
func (s *Service) GetTrip(id string) (*models.Trip, error) {
	return s.repo.GetTrip(id)
}

// ListTrips lists all trips.
func (s *Service) ListTrips() ([]models.Trip, error) {
	return s.repo.ListTrips()
}

// DeleteTrip removes a trip and its locations.
func (s *Service) DeleteTrip(id string) error {
	return s.repo.DeleteTrip(id)
}

// validateRoute applies the full location contract to a submitted
// route: 1..50 entries, every field valid, dense server-assigned
// sequences.
func (s *Service) validateRoute(inputs []models.LocationInput) ([]models.Location, error) {
	if len(inputs) == 0 {
		return nil, &routelist.ListError{Kind: models.CannotRemoveLastLocation}
	}
	if len(inputs) > models.MaxTripLocations {
		return nil, &routelist.ListError{Kind: models.TooManyLocations}
	}

	locs := make([]models.Location, 0, len(inputs))
	for i, input := range inputs {
		loc, errs := models.ValidateLocation(input)
		if len(errs) > 0 {
			return nil, &routelist.IndexedError{Index: i, Errors: errs}
		}
		loc.Sequence = i
		locs = append(locs, loc)
	}
	return locs, nil
}
