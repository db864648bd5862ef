package routelist

import (
	"errors"
	"fmt"
	"testing"

	"github.com/contravento/routemap/internal/models"
)

func fp(v float64) *float64 { return &v }

func mustList(t *testing.T, names ...string) *List {
	t.Helper()
	l := New(nil)
	for _, name := range names {
		if err := l.Add(models.LocationInput{Name: name}); err != nil {
			t.Fatalf("Add(%q): %v", name, err)
		}
	}
	return l
}

func assertDenseSequences(t *testing.T, l *List) {
	t.Helper()
	for i, loc := range l.Locations() {
		if loc.Sequence != i {
			t.Errorf("sequence at index %d = %d, want %d", i, loc.Sequence, i)
		}
	}
}

func TestList_Add(t *testing.T) {
	l := New(nil)

	if err := l.Add(models.LocationInput{Name: "Madrid", Latitude: fp(40.416775), Longitude: fp(-3.70379)}); err != nil {
		t.Fatalf("Add: %v", err)
	}
	if err := l.Add(models.LocationInput{Name: "Toledo"}); err != nil {
		t.Fatalf("Add without coordinates: %v", err)
	}

	if l.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", l.Len())
	}
	assertDenseSequences(t, l)
}

func TestList_Add_ValidationFailureLeavesListUnchanged(t *testing.T) {
	l := mustList(t, "Madrid")

	err := l.Add(models.LocationInput{Name: "Bad", Latitude: fp(100), Longitude: fp(0)})
	var idxErr *IndexedError
	if !errors.As(err, &idxErr) {
		t.Fatalf("Add with bad latitude: error = %v, want IndexedError", err)
	}
	if idxErr.Index != 1 {
		t.Errorf("error index = %d, want 1", idxErr.Index)
	}
	if idxErr.Errors[0].Kind != models.LatitudeOutOfRange {
		t.Errorf("error kind = %s, want LatitudeOutOfRange", idxErr.Errors[0].Kind)
	}
	if l.Len() != 1 {
		t.Errorf("failed Add mutated the list: len = %d", l.Len())
	}
}

func TestList_Add_Cap(t *testing.T) {
	l := New(nil)
	for i := 0; i < models.MaxTripLocations; i++ {
		if err := l.Add(models.LocationInput{Name: fmt.Sprintf("Etapa %d", i)}); err != nil {
			t.Fatalf("Add %d: %v", i, err)
		}
	}

	err := l.Add(models.LocationInput{Name: "Una más"})
	var listErr *ListError
	if !errors.As(err, &listErr) || listErr.Kind != models.TooManyLocations {
		t.Fatalf("Add beyond cap: error = %v, want TooManyLocations", err)
	}
	if l.Len() != models.MaxTripLocations {
		t.Errorf("list grew past the cap: len = %d", l.Len())
	}
}

func TestList_Remove_Reindexes(t *testing.T) {
	l := mustList(t, "A", "B", "C")

	if err := l.Remove(1); err != nil {
		t.Fatalf("Remove(1): %v", err)
	}

	locs := l.Locations()
	if len(locs) != 2 {
		t.Fatalf("len = %d, want 2", len(locs))
	}
	if locs[0].Name != "A" || locs[1].Name != "C" {
		t.Errorf("remaining = %s, %s; want A, C", locs[0].Name, locs[1].Name)
	}
	assertDenseSequences(t, l)
}

func TestList_Remove_LastLocation(t *testing.T) {
	l := mustList(t, "Madrid")

	err := l.Remove(0)
	var listErr *ListError
	if !errors.As(err, &listErr) || listErr.Kind != models.CannotRemoveLastLocation {
		t.Fatalf("Remove last: error = %v, want CannotRemoveLastLocation", err)
	}
	if l.Len() != 1 {
		t.Errorf("failed Remove mutated the list: len = %d", l.Len())
	}
}

func TestList_Update(t *testing.T) {
	l := mustList(t, "Madird", "Toledo")
	originalID := l.At(0).ID

	err := l.Update(0, models.LocationInput{Name: "Madrid", Latitude: fp(40.416775), Longitude: fp(-3.70379)})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}

	got := l.At(0)
	if got.Name != "Madrid" {
		t.Errorf("name = %q, want Madrid", got.Name)
	}
	if got.ID != originalID {
		t.Error("Update must preserve the location identity")
	}
	if got.Sequence != 0 {
		t.Errorf("sequence = %d, want 0", got.Sequence)
	}
}

func TestList_Update_FailureLeavesListUnchanged(t *testing.T) {
	l := mustList(t, "Madrid")
	before := l.At(0)

	err := l.Update(0, models.LocationInput{Name: "", Longitude: fp(200)})
	var idxErr *IndexedError
	if !errors.As(err, &idxErr) {
		t.Fatalf("error = %v, want IndexedError", err)
	}
	if len(idxErr.Errors) != 2 {
		t.Errorf("errors = %v, want both name and longitude failures", idxErr.Errors)
	}
	if got := l.At(0); got.Name != before.Name {
		t.Error("failed Update mutated the list")
	}
}

func TestList_SequenceDensityAfterMixedMutations(t *testing.T) {
	l := mustList(t, "A", "B", "C", "D", "E")

	mutations := []func() error{
		func() error { return l.Remove(2) },
		func() error { return l.Add(models.LocationInput{Name: "F"}) },
		func() error { return l.Remove(0) },
		func() error { return l.Remove(l.Len() - 1) },
		func() error { return l.Add(models.LocationInput{Name: "G"}) },
	}
	for i, m := range mutations {
		if err := m(); err != nil {
			t.Fatalf("mutation %d: %v", i, err)
		}
		assertDenseSequences(t, l)
	}
}
