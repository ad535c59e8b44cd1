package identity

import (
	"testing"

	"github.com/agentstation/unify/pkg/canon"
	"github.com/agentstation/unify/pkg/errors"
	"github.com/agentstation/unify/pkg/sources"
)

func jsonRecord(index int, id, email, phone string) sources.Record {
	return sources.Record{
		Source:   canon.SourceObjectList,
		Index:    index,
		PersonID: id,
		Email:    email,
		Phone:    phone,
		Devices:  canon.NewDeviceSet(),
	}
}

func ymlRecord(index int, id, email, phone string) sources.Record {
	return sources.Record{
		Source:   canon.SourceFlat,
		Index:    index,
		PersonID: id,
		Email:    email,
		Phone:    phone,
		Devices:  canon.NewDeviceSet(),
	}
}

func TestResolveByID(t *testing.T) {
	resolution := NewResolver().Resolve([]sources.Record{
		jsonRecord(0, "0001", "a@x.com", ""),
		ymlRecord(0, "0001", "", "555"),
	})

	if len(resolution.Groups) != 1 {
		t.Fatalf("got %d groups, want 1", len(resolution.Groups))
	}
	g := resolution.Groups[0]
	if g.PersonID != "0001" || g.Synthesized {
		t.Errorf("group id = %q synthesized=%v", g.PersonID, g.Synthesized)
	}
	if len(g.Records) != 2 {
		t.Errorf("group has %d records, want 2", len(g.Records))
	}
}

func TestResolveTransitiveClosure(t *testing.T) {
	// R1~R2 share an email, R2~R3 share a phone: all three are one person.
	resolution := NewResolver().Resolve([]sources.Record{
		jsonRecord(0, "", "shared@x.com", ""),
		ymlRecord(0, "", "shared@x.com", "555"),
		ymlRecord(1, "", "other@x.com", "555"),
	})

	if len(resolution.Groups) != 1 {
		t.Fatalf("got %d groups, want 1 (transitive closure)", len(resolution.Groups))
	}
	if len(resolution.Groups[0].Records) != 3 {
		t.Errorf("group has %d records, want 3", len(resolution.Groups[0].Records))
	}
}

func TestResolveDistinctPeople(t *testing.T) {
	resolution := NewResolver().Resolve([]sources.Record{
		jsonRecord(0, "0001", "a@x.com", "111"),
		jsonRecord(1, "0002", "b@x.com", "222"),
		ymlRecord(0, "", "c@x.com", "333"),
	})

	if len(resolution.Groups) != 3 {
		t.Fatalf("got %d groups, want 3", len(resolution.Groups))
	}
}

func TestResolveConflictingIDsRejected(t *testing.T) {
	// The yml record shares an email with person 0001 but carries id
	// 0042: an unresolvable conflict, rejected rather than assigned.
	resolution := NewResolver().Resolve([]sources.Record{
		jsonRecord(0, "0001", "a@x.com", ""),
		ymlRecord(0, "0042", "a@x.com", ""),
	})

	if len(resolution.Groups) != 1 {
		t.Fatalf("got %d groups, want 1", len(resolution.Groups))
	}
	if len(resolution.Rejected) != 1 {
		t.Fatalf("got %d rejections, want 1", len(resolution.Rejected))
	}
	if !errors.IsAmbiguousIdentity(resolution.Rejected[0].Err) {
		t.Errorf("rejection error = %v", resolution.Rejected[0].Err)
	}
	// The existing group is untouched.
	if resolution.Groups[0].PersonID != "0001" {
		t.Errorf("surviving group id = %q", resolution.Groups[0].PersonID)
	}
}

func TestResolveBridgingRecordRejected(t *testing.T) {
	// A record whose email matches group 0001 and whose phone matches
	// group 0002 would merge two distinct identified groups.
	resolution := NewResolver().Resolve([]sources.Record{
		jsonRecord(0, "0001", "a@x.com", "111"),
		jsonRecord(1, "0002", "b@x.com", "222"),
		ymlRecord(0, "", "a@x.com", "222"),
	})

	if len(resolution.Groups) != 2 {
		t.Fatalf("got %d groups, want 2", len(resolution.Groups))
	}
	if len(resolution.Rejected) != 1 {
		t.Fatalf("got %d rejections, want 1", len(resolution.Rejected))
	}
}

func TestResolveBridgeMergesUnidentifiedGroups(t *testing.T) {
	// Bridging is allowed when at most one side carries an id.
	resolution := NewResolver().Resolve([]sources.Record{
		jsonRecord(0, "0001", "a@x.com", ""),
		ymlRecord(0, "", "", "555"),
		ymlRecord(1, "", "a@x.com", "555"),
	})

	if len(resolution.Groups) != 1 {
		t.Fatalf("got %d groups, want 1", len(resolution.Groups))
	}
	if resolution.Groups[0].PersonID != "0001" {
		t.Errorf("group id = %q, want 0001", resolution.Groups[0].PersonID)
	}
}

func TestResolveSynthesizedID(t *testing.T) {
	first := NewResolver().Resolve([]sources.Record{
		ymlRecord(0, "", "noid@x.com", ""),
	})
	if len(first.Groups) != 1 || !first.Groups[0].Synthesized {
		t.Fatalf("expected one synthesized group, got %+v", first.Groups)
	}
	if first.Groups[0].PersonID == "" {
		t.Fatal("synthesized id is empty")
	}

	// Deterministic: same input yields the same id on a second run.
	second := NewResolver().Resolve([]sources.Record{
		ymlRecord(0, "", "noid@x.com", ""),
	})
	if first.Groups[0].PersonID != second.Groups[0].PersonID {
		t.Errorf("synthesis not deterministic: %q vs %q",
			first.Groups[0].PersonID, second.Groups[0].PersonID)
	}
}

func TestResolveOrderIndependence(t *testing.T) {
	records := []sources.Record{
		jsonRecord(0, "0001", "a@x.com", "111"),
		ymlRecord(0, "", "a@x.com", ""),
		ymlRecord(1, "", "b@x.com", "222"),
	}
	reversed := []sources.Record{records[2], records[1], records[0]}

	a := NewResolver().Resolve(records)
	b := NewResolver().Resolve(reversed)

	if len(a.Groups) != len(b.Groups) {
		t.Fatalf("group counts differ: %d vs %d", len(a.Groups), len(b.Groups))
	}
	for i := range a.Groups {
		if a.Groups[i].PersonID != b.Groups[i].PersonID {
			t.Errorf("group %d ids differ: %q vs %q", i, a.Groups[i].PersonID, b.Groups[i].PersonID)
		}
		if len(a.Groups[i].Records) != len(b.Groups[i].Records) {
			t.Errorf("group %d sizes differ", i)
		}
	}
}

func TestGroupRecordsPriorityOrder(t *testing.T) {
	resolution := NewResolver().Resolve([]sources.Record{
		ymlRecord(0, "0001", "", ""),
		jsonRecord(0, "0001", "", ""),
	})

	records := resolution.Groups[0].Records
	if records[0].Source != canon.SourceObjectList {
		t.Errorf("first record source = %s, want object-list first", records[0].Source)
	}
}
