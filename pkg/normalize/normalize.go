// Package normalize converts each source's raw tabular records into the
// common intermediate person schema. Normalization is pure and total:
// every input record produces exactly one output record unless it is
// structurally malformed (no identifying field at all), and missing
// optional fields default to empty strings rather than dropping records.
package normalize

import (
	"strconv"
	"strings"

	"github.com/agentstation/unify/pkg/canon"
	"github.com/agentstation/unify/pkg/sources"
)

// idWidth is the fixed width numeric-looking external ids are padded to,
// so ids compare equal regardless of source-specific formatting.
const idWidth = 4

// Normalizer converts one source's raw records into normalized Records.
// The error slice carries one MalformedRecordError per skipped record;
// normalization itself never fails as a whole.
type Normalizer interface {
	// Tag identifies the source shape this normalizer handles.
	Tag() canon.SourceTag

	// Normalize produces one Record per well-formed input record.
	Normalize() ([]sources.Record, []error)
}

// PadID zero-pads a numeric-looking external id to the fixed width.
// Non-numeric ids are returned trimmed but otherwise untouched.
func PadID(id string) string {
	id = strings.TrimSpace(id)
	if id == "" {
		return ""
	}
	for _, r := range id {
		if r < '0' || r > '9' {
			return id
		}
	}
	for len(id) < idWidth {
		id = "0" + id
	}
	return id
}

// formatID renders a raw id value, which arrives as an int from YAML
// sources and as a string from JSON sources, into its padded form.
func formatID(v any) string {
	switch id := v.(type) {
	case nil:
		return ""
	case string:
		return PadID(id)
	case int:
		return PadID(strconv.Itoa(id))
	case int64:
		return PadID(strconv.FormatInt(id, 10))
	case uint64:
		return PadID(strconv.FormatUint(id, 10))
	case float64:
		return PadID(strconv.FormatInt(int64(id), 10))
	default:
		return ""
	}
}

// splitFullName splits a combined full-name string into first and last
// name on the first space. A single-token name yields an empty last name.
func splitFullName(name string) (first, last string) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", ""
	}
	parts := strings.SplitN(name, " ", 2)
	if len(parts) == 1 {
		return parts[0], ""
	}
	return parts[0], strings.TrimSpace(parts[1])
}

// splitCityCountry splits a combined "City, Country" string on the first
// comma, tolerating a missing country.
func splitCityCountry(combined string) (city, country string) {
	parts := strings.SplitN(combined, ",", 2)
	city = strings.TrimSpace(parts[0])
	if len(parts) == 2 {
		country = strings.TrimSpace(parts[1])
	}
	return city, country
}
