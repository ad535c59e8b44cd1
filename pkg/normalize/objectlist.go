package normalize

import (
	"strings"

	"github.com/agentstation/unify/pkg/canon"
	"github.com/agentstation/unify/pkg/errors"
	"github.com/agentstation/unify/pkg/sources"
)

// ObjectList normalizes the object-list source shape: nested location
// flattened into city/country, the device name list matched
// case-insensitively into the device set, first/last name kept separate,
// and the telephone field renamed to phone.
type ObjectList struct {
	records []sources.ObjectListPerson
}

// NewObjectList creates a normalizer over raw object-list records.
func NewObjectList(records []sources.ObjectListPerson) *ObjectList {
	return &ObjectList{records: records}
}

// Tag identifies the source shape this normalizer handles.
func (n *ObjectList) Tag() canon.SourceTag {
	return canon.SourceObjectList
}

// Normalize produces one Record per well-formed input record.
func (n *ObjectList) Normalize() ([]sources.Record, []error) {
	records := make([]sources.Record, 0, len(n.records))
	var errs []error

	for i, raw := range n.records {
		record := sources.Record{
			Source:    canon.SourceObjectList,
			Index:     i,
			PersonID:  PadID(raw.ID),
			FirstName: strings.TrimSpace(raw.FirstName),
			LastName:  strings.TrimSpace(raw.LastName),
			Email:     strings.TrimSpace(raw.Email),
			Phone:     strings.TrimSpace(raw.Telephone),
			City:      strings.TrimSpace(raw.Location.City),
			Country:   strings.TrimSpace(raw.Location.Country),
			Devices:   canon.NewDeviceSet(),
		}

		for _, name := range raw.Devices {
			if device, ok := canon.ParseDevice(name); ok {
				record.Devices.Add(device)
			}
		}

		if !record.HasIdentity() && record.FirstName == "" && record.LastName == "" {
			errs = append(errs, errors.NewMalformedRecordError(
				string(canon.SourceObjectList), i, "no id, name, or contact fields"))
			continue
		}

		records = append(records, record)
	}

	return records, errs
}
