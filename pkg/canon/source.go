package canon

import "sort"

// SourceTag identifies which source a record came from.
type SourceTag string

// Known source tags. SourceObjectList is the object-list shape
// (nested location, device name list); SourceFlat is the flat record
// shape (combined name/city fields, boolean device flags).
const (
	SourceObjectList SourceTag = "json"
	SourceFlat       SourceTag = "yml"
)

// String returns the string representation of the source tag.
func (t SourceTag) String() string {
	return string(t)
}

// TagSet is a set of source tags recording provenance.
type TagSet map[SourceTag]bool

// NewTagSet creates a tag set from the given tags.
func NewTagSet(tags ...SourceTag) TagSet {
	set := make(TagSet, len(tags))
	for _, t := range tags {
		set[t] = true
	}
	return set
}

// Add inserts a tag into the set.
func (s TagSet) Add(t SourceTag) {
	s[t] = true
}

// Has reports whether the set contains the tag.
func (s TagSet) Has(t SourceTag) bool {
	return s[t]
}

// Union merges another set into this one.
func (s TagSet) Union(other TagSet) {
	for t, ok := range other {
		if ok {
			s[t] = true
		}
	}
}

// List returns the tags in deterministic (sorted) order.
func (s TagSet) List() []SourceTag {
	tags := make([]SourceTag, 0, len(s))
	for t, ok := range s {
		if ok {
			tags = append(tags, t)
		}
	}
	sort.Slice(tags, func(i, j int) bool { return tags[i] < tags[j] })
	return tags
}

// Label returns the provenance marker for storage: the single source
// tag, or "both" when more than one source contributed.
func (s TagSet) Label() string {
	tags := s.List()
	switch len(tags) {
	case 0:
		return ""
	case 1:
		return string(tags[0])
	default:
		return "both"
	}
}

// ParseTagLabel reconstructs a tag set from its storage label.
func ParseTagLabel(label string) TagSet {
	switch label {
	case "both":
		return NewTagSet(SourceObjectList, SourceFlat)
	case "":
		return NewTagSet()
	default:
		return NewTagSet(SourceTag(label))
	}
}
