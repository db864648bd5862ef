// Package routelist owns the ordered location list of a single trip
// edit session. It keeps the sequence values dense across mutations and
// round-trips the list to the persistence wire shape.
package routelist

import (
	"fmt"

	"github.com/contravento/routemap/internal/models"
)

// IndexedError attaches the list index to the validation failures of a
// single location, so the form can render feedback next to the right
// row.
type IndexedError struct {
	Index  int
	Errors []models.ValidationError
}

func (e *IndexedError) Error() string {
	if len(e.Errors) == 1 {
		return fmt.Sprintf("ubicación %d: %s", e.Index+1, e.Errors[0].Error())
	}
	return fmt.Sprintf("ubicación %d: %d errores de validación", e.Index+1, len(e.Errors))
}

// ListError is a list-level failure (size constraints rather than field
// contents).
type ListError struct {
	Kind models.ErrorKind
}

func (e *ListError) Error() string {
	return models.ValidationError{Kind: e.Kind}.Message()
}

// List is the ordered collection of locations for one trip. It is a
// plain value owned by the edit session that created it; it is not
// shared and not safe for concurrent use. Mutations are all-or-nothing:
// on any error the list is unchanged.
type List struct {
	locs []models.Location
}

// New builds a list from already-validated locations, normalizing
// sequences to a dense 0-based run in the given order.
func New(locs []models.Location) *List {
	out := make([]models.Location, len(locs))
	copy(out, locs)
	for i := range out {
		out[i].Sequence = i
	}
	return &List{locs: out}
}

// Len returns the number of locations.
func (l *List) Len() int { return len(l.locs) }

// Locations returns a copy of the list in sequence order.
func (l *List) Locations() []models.Location {
	out := make([]models.Location, len(l.locs))
	copy(out, l.locs)
	return out
}

// At returns the location at index.
func (l *List) At(index int) models.Location {
	return l.locs[index]
}

// Add validates the input and appends it at the end of the route.
// Fails with TooManyLocations once the route holds 50 stops.
func (l *List) Add(input models.LocationInput) error {
	if len(l.locs) >= models.MaxTripLocations {
		return &ListError{Kind: models.TooManyLocations}
	}

	loc, errs := models.ValidateLocation(input)
	if len(errs) > 0 {
		return &IndexedError{Index: len(l.locs), Errors: errs}
	}

	loc.Sequence = len(l.locs)
	l.locs = append(l.locs, loc)
	return nil
}

// Remove deletes the location at index and closes the sequence gap.
// A trip must always keep at least one location.
func (l *List) Remove(index int) error {
	if index < 0 || index >= len(l.locs) {
		return fmt.Errorf("índice fuera de rango: %d", index)
	}
	if len(l.locs) == 1 {
		return &ListError{Kind: models.CannotRemoveLastLocation}
	}

	l.locs = append(l.locs[:index], l.locs[index+1:]...)
	for i := range l.locs {
		l.locs[i].Sequence = i
	}
	return nil
}

// Update re-validates the given input and replaces the location at
// index, keeping its identity and position. On validation failure the
// list is unchanged and the error carries the index.
func (l *List) Update(index int, input models.LocationInput) error {
	if index < 0 || index >= len(l.locs) {
		return fmt.Errorf("índice fuera de rango: %d", index)
	}

	loc, errs := models.ValidateLocation(input)
	if len(errs) > 0 {
		return &IndexedError{Index: index, Errors: errs}
	}

	loc.ID = l.locs[index].ID
	loc.Sequence = l.locs[index].Sequence
	l.locs[index] = loc
	return nil
}
