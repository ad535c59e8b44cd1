package normalize

import (
	"strings"

	"github.com/agentstation/unify/pkg/canon"
	"github.com/agentstation/unify/pkg/errors"
	"github.com/agentstation/unify/pkg/sources"
)

// Flat normalizes the flat source shape: the combined "City, Country"
// field split on the first comma, the combined full-name field split on
// the first space, and the three 0/1 device flags converted into the
// device set.
type Flat struct {
	records []sources.FlatPerson
}

// NewFlat creates a normalizer over raw flat records.
func NewFlat(records []sources.FlatPerson) *Flat {
	return &Flat{records: records}
}

// Tag identifies the source shape this normalizer handles.
func (n *Flat) Tag() canon.SourceTag {
	return canon.SourceFlat
}

// Normalize produces one Record per well-formed input record.
func (n *Flat) Normalize() ([]sources.Record, []error) {
	records := make([]sources.Record, 0, len(n.records))
	var errs []error

	for i, raw := range n.records {
		first, last := splitFullName(raw.Name)
		city, country := splitCityCountry(raw.City)

		record := sources.Record{
			Source:    canon.SourceFlat,
			Index:     i,
			PersonID:  formatID(raw.ID),
			FirstName: first,
			LastName:  last,
			Email:     strings.TrimSpace(raw.Email),
			Phone:     strings.TrimSpace(raw.Phone),
			City:      city,
			Country:   country,
			Devices:   canon.NewDeviceSet(),
		}

		if raw.Android != 0 {
			record.Devices.Add(canon.DeviceAndroid)
		}
		if raw.Desktop != 0 {
			record.Devices.Add(canon.DeviceDesktop)
		}
		if raw.Iphone != 0 {
			record.Devices.Add(canon.DeviceIphone)
		}

		if !record.HasIdentity() && record.FirstName == "" && record.LastName == "" {
			errs = append(errs, errors.NewMalformedRecordError(
				string(canon.SourceFlat), i, "no id, name, or contact fields"))
			continue
		}

		records = append(records, record)
	}

	return records, errs
}
