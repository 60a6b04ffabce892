package location

import (
	"errors"
	"fmt"
	"strings"
)

// RegionParser recognises the regions of a single vendor.
type RegionParser interface {
	Vendor() Vendor
	ParseRegion(text string) (string, error)
}

// tableParser accepts the bare region code or the vendor-prefixed form.
type tableParser struct {
	vendor  Vendor
	regions []string
}

// NewTableParser returns a parser that accepts the given regions for vendor.
func NewTableParser(vendor Vendor, regions []string) RegionParser {
	return &tableParser{vendor: vendor, regions: regions}
}

func (p *tableParser) Vendor() Vendor {
	return p.vendor
}

func (p *tableParser) ParseRegion(text string) (string, error) {
	region := strings.ToLower(strings.TrimSpace(text))
	region = strings.TrimPrefix(region, p.vendor.Prefix())
	for _, r := range p.regions {
		if r == region {
			return r, nil
		}
	}
	return "", fmt.Errorf("invalid %s region %q", p.vendor.Title(), text)
}

// DefaultParsers returns the parsers for every supported vendor.
func DefaultParsers() []RegionParser {
	return []RegionParser{
		NewTableParser(VendorAWS, awsRegions),
		NewTableParser(VendorAzure, azureRegions),
	}
}

// AmbiguousError is returned when more than one vendor accepts the input.
type AmbiguousError struct {
	Input      string
	Candidates []Location
}

func (e *AmbiguousError) Error() string {
	options := make([]string, len(e.Candidates))
	for i, c := range e.Candidates {
		options[i] = c.Qualified()
	}
	return fmt.Sprintf("ambiguous region %q, use either %s", e.Input, strings.Join(options, " or "))
}

// InvalidError is returned when no vendor accepts the input. It carries the
// error of every vendor parser.
type InvalidError struct {
	Input string
	Errs  []error
}

func (e *InvalidError) Error() string {
	msgs := make([]string, len(e.Errs))
	for i, err := range e.Errs {
		msgs[i] = err.Error()
	}
	return fmt.Sprintf("invalid location %q: %s", e.Input, strings.Join(msgs, "; "))
}

func (e *InvalidError) Unwrap() []error {
	return e.Errs
}

// Parse parses a location with the default vendor parsers.
func Parse(text string) (Location, error) {
	return ParseWith(text, DefaultParsers()...)
}

// ParseWith tries every parser. Exactly one must accept the input.
func ParseWith(text string, parsers ...RegionParser) (Location, error) {
	var (
		found []Location
		errs  []error
	)
	for _, p := range parsers {
		region, err := p.ParseRegion(text)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		found = append(found, Location{Vendor: p.Vendor(), Region: region})
	}

	switch len(found) {
	case 1:
		return found[0], nil
	case 0:
		if len(errs) == 0 {
			errs = append(errs, errors.New("no region parsers configured"))
		}
		return Location{}, &InvalidError{Input: text, Errs: errs}
	default:
		return Location{}, &AmbiguousError{Input: text, Candidates: found}
	}
}

// ParseAll parses each entry, stopping at the first failure.
func ParseAll(texts []string) ([]Location, error) {
	locs := make([]Location, 0, len(texts))
	for _, t := range texts {
		l, err := Parse(t)
		if err != nil {
			return nil, err
		}
		locs = append(locs, l)
	}
	return locs, nil
}
