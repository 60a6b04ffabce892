package location

import (
	"fmt"
	"sort"
	"strings"
)

// Location is a vendor region. The zero value is not a valid location.
type Location struct {
	Vendor Vendor
	Region string
}

// AWS returns the AWS location for region.
func AWS(region string) Location {
	return Location{Vendor: VendorAWS, Region: region}
}

// Azure returns the Azure location for region.
func Azure(region string) Location {
	return Location{Vendor: VendorAzure, Region: region}
}

// String returns the short form, the bare region code.
func (l Location) String() string {
	return l.Region
}

// Qualified returns the vendor-prefixed form, e.g. "azure:eastus2".
func (l Location) Qualified() string {
	return l.Vendor.Prefix() + l.Region
}

// IsZero reports whether l is the zero value.
func (l Location) IsZero() bool {
	return l.Vendor == "" && l.Region == ""
}

// MarshalText encodes the qualified form.
func (l Location) MarshalText() ([]byte, error) {
	if l.IsZero() {
		return nil, fmt.Errorf("cannot marshal empty location")
	}
	return []byte(l.Qualified()), nil
}

// UnmarshalText parses either form using the default parsers.
func (l *Location) UnmarshalText(text []byte) error {
	parsed, err := Parse(string(text))
	if err != nil {
		return err
	}
	*l = parsed
	return nil
}

// Unambiguous returns the short form when no other vendor accepts the same
// code, and the qualified form otherwise.
func (l Location) Unambiguous() string {
	if _, err := Parse(l.Region); err == nil {
		return l.Region
	}
	return l.Qualified()
}

// Contains reports whether locs includes l.
func Contains(locs []Location, l Location) bool {
	for _, candidate := range locs {
		if candidate == l {
			return true
		}
	}
	return false
}

// Dedup removes repeated locations, keeping the first occurrence.
func Dedup(locs []Location) []Location {
	out := make([]Location, 0, len(locs))
	for _, l := range locs {
		if !Contains(out, l) {
			out = append(out, l)
		}
	}
	return out
}

// Sort orders locations by their qualified form.
func Sort(locs []Location) {
	sort.Slice(locs, func(i, j int) bool {
		return locs[i].Qualified() < locs[j].Qualified()
	})
}

// Join renders locations in their qualified form, comma separated.
func Join(locs []Location) string {
	parts := make([]string, len(locs))
	for i, l := range locs {
		parts[i] = l.Qualified()
	}
	return strings.Join(parts, ", ")
}
