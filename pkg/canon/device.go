package canon

import (
	"sort"
	"strings"

	"golang.org/x/text/cases"
)

// DeviceType is a device a person has been seen on.
type DeviceType string

// Known device types.
const (
	DeviceAndroid DeviceType = "android"
	DeviceIphone  DeviceType = "iphone"
	DeviceDesktop DeviceType = "desktop"
)

// String returns the string representation of the device type.
func (d DeviceType) String() string {
	return string(d)
}

// foldCaser performs Unicode case folding for case-insensitive matching
// of source-provided device names ("Android", "Iphone", "iPhone", ...).
var foldCaser = cases.Fold()

// ParseDevice matches a source-provided device name case-insensitively.
// The second return value is false when the name is not a known device.
func ParseDevice(name string) (DeviceType, bool) {
	switch foldCaser.String(strings.TrimSpace(name)) {
	case "android":
		return DeviceAndroid, true
	case "iphone":
		return DeviceIphone, true
	case "desktop":
		return DeviceDesktop, true
	}
	return "", false
}

// DeviceSet is a set of device types attached to a person.
type DeviceSet map[DeviceType]bool

// NewDeviceSet creates a device set from the given devices.
func NewDeviceSet(devices ...DeviceType) DeviceSet {
	set := make(DeviceSet, len(devices))
	for _, d := range devices {
		set[d] = true
	}
	return set
}

// Add inserts a device into the set.
func (s DeviceSet) Add(d DeviceType) {
	s[d] = true
}

// Has reports whether the set contains the device.
func (s DeviceSet) Has(d DeviceType) bool {
	return s[d]
}

// Union merges another set into this one. Disagreement between sources
// never removes a device: a device reported anywhere is retained.
func (s DeviceSet) Union(other DeviceSet) {
	for d, ok := range other {
		if ok {
			s[d] = true
		}
	}
}

// List returns the devices in deterministic (sorted) order.
func (s DeviceSet) List() []DeviceType {
	devices := make([]DeviceType, 0, len(s))
	for d, ok := range s {
		if ok {
			devices = append(devices, d)
		}
	}
	sort.Slice(devices, func(i, j int) bool { return devices[i] < devices[j] })
	return devices
}

// Equal reports whether two sets contain the same devices.
func (s DeviceSet) Equal(other DeviceSet) bool {
	if len(s.List()) != len(other.List()) {
		return false
	}
	for d, ok := range s {
		if ok && !other[d] {
			return false
		}
	}
	return true
}
