package models

import (
	"fmt"
	"math"
	"strings"

	"github.com/google/uuid"
)

// ErrorKind identifies a validation failure for programmatic handling.
// Messages are user-facing and localized; kinds are stable.
type ErrorKind string

const (
	EmptyName                ErrorKind = "empty_name"
	NameTooLong              ErrorKind = "name_too_long"
	LatitudeOutOfRange       ErrorKind = "latitude_out_of_range"
	LongitudeOutOfRange      ErrorKind = "longitude_out_of_range"
	TooManyLocations         ErrorKind = "too_many_locations"
	CannotRemoveLastLocation ErrorKind = "cannot_remove_last_location"
)

// MaxLocationName is the maximum length of a location name.
const MaxLocationName = 200

// MaxTripLocations is the maximum number of locations per trip route.
const MaxTripLocations = 50

// messages holds the user-facing text per error kind (Spanish, the
// application locale).
var messages = map[ErrorKind]string{
	EmptyName:                "El nombre es obligatorio",
	NameTooLong:              fmt.Sprintf("El nombre no puede superar los %d caracteres", MaxLocationName),
	LatitudeOutOfRange:       "La latitud debe estar entre -90 y 90",
	LongitudeOutOfRange:      "La longitud debe estar entre -180 y 180",
	TooManyLocations:         fmt.Sprintf("Una ruta no puede tener más de %d ubicaciones", MaxTripLocations),
	CannotRemoveLastLocation: "Una ruta debe tener al menos una ubicación",
}

// ValidationError is a field-scoped validation failure.
type ValidationError struct {
	Field string    // "name", "latitude" or "longitude"; empty for list-level errors
	Kind  ErrorKind // stable identifier
}

func (e ValidationError) Error() string {
	if e.Field == "" {
		return e.Message()
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message())
}

// Message returns the localized user-facing text for the error.
func (e ValidationError) Message() string {
	return messages[e.Kind]
}

// LocationInput is raw user or API input for a location, before
// validation. Nil coordinate pointers mean "no data" and are always
// accepted.
type LocationInput struct {
	Name      string
	Latitude  *float64
	Longitude *float64
}

// RoundCoord normalizes a coordinate to 6 decimal places (~0.11 m at
// the equator), rounding half away from zero. Both the form-side check
// and the persistence gate round through this one helper so values
// never drift across a round trip. Idempotent.
func RoundCoord(v float64) float64 {
	return math.Round(v*1e6) / 1e6
}

// ValidateLocation checks a raw input and returns a normalized Location
// or the list of per-field failures. Fields are validated
// independently, so a bad latitude and a bad name are both reported in
// one pass. Pure: no side effects, safe to call on every keystroke.
//
// The returned location has no ID or sequence; those are assigned when
// the location joins a trip route.
func ValidateLocation(input LocationInput) (Location, []ValidationError) {
	var errs []ValidationError

	name := strings.TrimSpace(input.Name)
	if name == "" {
		errs = append(errs, ValidationError{Field: "name", Kind: EmptyName})
	} else if len([]rune(name)) > MaxLocationName {
		errs = append(errs, ValidationError{Field: "name", Kind: NameTooLong})
	}

	// Range checks are written in accepting form so NaN fails them:
	// every comparison against NaN is false, so NaN would slip through a
	// rejecting `v < -90 || v > 90`.
	var lat, lon *float64
	if input.Latitude != nil {
		if v := *input.Latitude; v >= -90 && v <= 90 {
			r := RoundCoord(v)
			lat = &r
		} else {
			errs = append(errs, ValidationError{Field: "latitude", Kind: LatitudeOutOfRange})
		}
	}
	if input.Longitude != nil {
		if v := *input.Longitude; v >= -180 && v <= 180 {
			r := RoundCoord(v)
			lon = &r
		} else {
			errs = append(errs, ValidationError{Field: "longitude", Kind: LongitudeOutOfRange})
		}
	}

	if len(errs) > 0 {
		return Location{}, errs
	}

	return Location{
		ID:        uuid.NewString(),
		Name:      name,
		Latitude:  lat,
		Longitude: lon,
	}, nil
}
