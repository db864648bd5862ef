package routelist

import (
	"encoding/json"
	"fmt"
	"sort"

	"github.com/contravento/routemap/internal/models"
)

// Record is the wire and storage shape of one location. Null
// coordinates stay null: they are never encoded as 0,0 and never
// dropped from the object, and records missing the fields entirely
// decode back to the same null state.
type Record struct {
	Name      string   `json:"name"`
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
	Sequence  int      `json:"sequence"`
}

// ToRecords serializes the list in sequence order.
func (l *List) ToRecords() []Record {
	out := make([]Record, len(l.locs))
	for i, loc := range l.locs {
		out[i] = Record{
			Name:      loc.Name,
			Latitude:  loc.Latitude,
			Longitude: loc.Longitude,
			Sequence:  loc.Sequence,
		}
	}
	return out
}

// FromRecords rebuilds a list from persisted records. Records are
// ordered by their stored sequence and re-numbered densely, so gaps
// left by older writes are closed on read. Every record passes through
// the validator; a bad record means corrupted storage and is returned
// as an error rather than skipped.
func FromRecords(records []Record) (*List, error) {
	sorted := make([]Record, len(records))
	copy(sorted, records)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Sequence < sorted[j].Sequence
	})

	locs := make([]models.Location, 0, len(sorted))
	for i, r := range sorted {
		loc, errs := models.ValidateLocation(models.LocationInput{
			Name:      r.Name,
			Latitude:  r.Latitude,
			Longitude: r.Longitude,
		})
		if len(errs) > 0 {
			return nil, &IndexedError{Index: i, Errors: errs}
		}
		loc.Sequence = i
		locs = append(locs, loc)
	}

	return &List{locs: locs}, nil
}

// MarshalJSON encodes the list as its wire records.
func (l *List) MarshalJSON() ([]byte, error) {
	return json.Marshal(l.ToRecords())
}

// UnmarshalJSON decodes wire records into the list.
func (l *List) UnmarshalJSON(data []byte) error {
	var records []Record
	if err := json.Unmarshal(data, &records); err != nil {
		return fmt.Errorf("decoding location records: %w", err)
	}
	parsed, err := FromRecords(records)
	if err != nil {
		return err
	}
	l.locs = parsed.locs
	return nil
}
