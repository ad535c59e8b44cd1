package reconcile

import (
	"testing"

	"github.com/agentstation/unify/pkg/canon"
	"github.com/agentstation/unify/pkg/identity"
	"github.com/agentstation/unify/pkg/sources"
)

func group(id string, records ...sources.Record) identity.Group {
	return identity.Group{PersonID: id, Records: records}
}

func TestPersonConflictPrecedence(t *testing.T) {
	r, err := New()
	if err != nil {
		t.Fatal(err)
	}

	// Same person in both shapes with differing city values: the
	// object-list source wins.
	person := r.Person(group("0001",
		sources.Record{
			Source: canon.SourceObjectList, PersonID: "0001",
			City: "Lima", Devices: canon.NewDeviceSet(canon.DeviceAndroid),
		},
		sources.Record{
			Source: canon.SourceFlat, PersonID: "0001",
			City: "Cusco", Country: "Peru", Devices: canon.NewDeviceSet(canon.DeviceDesktop),
		},
	))

	if person.City != "Lima" {
		t.Errorf("City = %q, want object-list value Lima", person.City)
	}
	// Empty object-list country never overwrites the flat value.
	if person.Country != "Peru" {
		t.Errorf("Country = %q, want Peru (coalesced from flat)", person.Country)
	}
}

func TestPersonDeviceUnion(t *testing.T) {
	r, _ := New()

	// One source says Android, the other says no Android but Desktop:
	// disagreement never removes a capability.
	person := r.Person(group("0001",
		sources.Record{
			Source: canon.SourceObjectList, PersonID: "0001",
			Devices: canon.NewDeviceSet(canon.DeviceAndroid),
		},
		sources.Record{
			Source: canon.SourceFlat, PersonID: "0001",
			Devices: canon.NewDeviceSet(canon.DeviceDesktop),
		},
	))

	want := canon.NewDeviceSet(canon.DeviceAndroid, canon.DeviceDesktop)
	if !person.Devices.Equal(want) {
		t.Errorf("Devices = %v, want %v", person.Devices.List(), want.List())
	}
}

func TestPersonProvenance(t *testing.T) {
	r, _ := New()

	both := r.Person(group("0001",
		sources.Record{Source: canon.SourceObjectList, PersonID: "0001", Devices: canon.NewDeviceSet()},
		sources.Record{Source: canon.SourceFlat, PersonID: "0001", Devices: canon.NewDeviceSet()},
	))
	if both.Sources.Label() != "both" {
		t.Errorf("Sources.Label() = %q, want both", both.Sources.Label())
	}

	single := r.Person(group("0002",
		sources.Record{Source: canon.SourceFlat, PersonID: "0002", Devices: canon.NewDeviceSet()},
	))
	if single.Sources.Label() != "yml" {
		t.Errorf("Sources.Label() = %q, want yml", single.Sources.Label())
	}
}

func TestPersonNameFromLowerPrioritySource(t *testing.T) {
	r, _ := New()

	// The object-list record lacks a name; the flat source fills it.
	person := r.Person(group("0001",
		sources.Record{
			Source: canon.SourceObjectList, PersonID: "0001",
			Email: "a@x.com", Devices: canon.NewDeviceSet(),
		},
		sources.Record{
			Source: canon.SourceFlat, PersonID: "0001",
			FirstName: "Ann", LastName: "Lee", Devices: canon.NewDeviceSet(),
		},
	))

	if person.FirstName != "Ann" || person.LastName != "Lee" {
		t.Errorf("name = %q %q, want Ann Lee", person.FirstName, person.LastName)
	}
}

func TestPersonIdempotent(t *testing.T) {
	r, _ := New()
	g := group("0001",
		sources.Record{
			Source: canon.SourceObjectList, PersonID: "0001",
			FirstName: "Ann", City: "Lima",
			Devices: canon.NewDeviceSet(canon.DeviceAndroid),
		},
		sources.Record{
			Source: canon.SourceFlat, PersonID: "0001",
			City: "Lima, Peru", Devices: canon.NewDeviceSet(canon.DeviceDesktop),
		},
	)

	first := r.Person(g)
	second := r.Person(g)

	if first.City != second.City || first.FirstName != second.FirstName {
		t.Error("reconciling the same group twice changed scalar fields")
	}
	if !first.Devices.Equal(second.Devices) {
		t.Error("reconciling the same group twice changed the device set")
	}
	if first.Sources.Label() != second.Sources.Label() {
		t.Error("reconciling the same group twice changed provenance")
	}
}

func TestSourceOrderStrategy(t *testing.T) {
	strategy := NewSourceOrderStrategy([]canon.SourceTag{canon.SourceFlat, canon.SourceObjectList})
	r, err := New(WithStrategy(strategy))
	if err != nil {
		t.Fatal(err)
	}

	person := r.Person(group("0001",
		sources.Record{Source: canon.SourceObjectList, PersonID: "0001", City: "Lima", Devices: canon.NewDeviceSet()},
		sources.Record{Source: canon.SourceFlat, PersonID: "0001", City: "Cusco", Devices: canon.NewDeviceSet()},
	))

	// Inverted priority: the flat source wins.
	if person.City != "Cusco" {
		t.Errorf("City = %q, want Cusco under inverted order", person.City)
	}
}

func TestNewRejectsNilStrategy(t *testing.T) {
	if _, err := New(WithStrategy(nil)); err == nil {
		t.Error("expected error for nil strategy")
	}
	if _, err := New(WithAuthorities(nil)); err == nil {
		t.Error("expected error for nil authorities")
	}
}
