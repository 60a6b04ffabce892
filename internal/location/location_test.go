package location

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_QualifiedRoundTrip(t *testing.T) {
	t.Parallel()

	for _, l := range All() {
		parsed, err := Parse(l.Qualified())
		require.NoError(t, err, l.Qualified())
		assert.Equal(t, l, parsed)
	}
}

func TestParse_BareForm(t *testing.T) {
	t.Parallel()

	for _, l := range All() {
		parsed, err := Parse(l.String())
		require.NoError(t, err, l.String())
		assert.Equal(t, l, parsed)
	}
}

func TestParse_CaseAndWhitespace(t *testing.T) {
	t.Parallel()

	parsed, err := Parse("  AWS:US-West-2 ")
	require.NoError(t, err)
	assert.Equal(t, AWS("us-west-2"), parsed)
}

func TestParse_Invalid(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
	}{
		{"unknown region", "mars-north-1"},
		{"wrong vendor prefix", "aws:eastus2"},
		{"empty", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := Parse(tt.input)
			require.Error(t, err)

			var invalid *InvalidError
			require.True(t, errors.As(err, &invalid))
			assert.Len(t, invalid.Errs, 2)
			assert.Contains(t, err.Error(), "invalid AWS region")
			assert.Contains(t, err.Error(), "invalid Azure region")
		})
	}
}

func TestParseWith_Ambiguous(t *testing.T) {
	t.Parallel()

	parsers := []RegionParser{
		NewTableParser(VendorAWS, []string{"shared-1", "us-east-1"}),
		NewTableParser(VendorAzure, []string{"shared-1", "eastus"}),
	}

	_, err := ParseWith("shared-1", parsers...)
	require.Error(t, err)

	var ambiguous *AmbiguousError
	require.True(t, errors.As(err, &ambiguous))
	assert.Equal(t, []Location{AWS("shared-1"), Azure("shared-1")}, ambiguous.Candidates)
	assert.Contains(t, err.Error(), "aws:shared-1 or azure:shared-1")

	// The qualified form disambiguates.
	l, err := ParseWith("azure:shared-1", parsers...)
	require.NoError(t, err)
	assert.Equal(t, Azure("shared-1"), l)
}

func TestParseWith_NoParsers(t *testing.T) {
	t.Parallel()

	_, err := ParseWith("us-east-1")
	var invalid *InvalidError
	require.True(t, errors.As(err, &invalid))
}

func TestLocation_Display(t *testing.T) {
	t.Parallel()

	l := Azure("eastus2")
	assert.Equal(t, "eastus2", l.String())
	assert.Equal(t, "azure:eastus2", l.Qualified())
	assert.Equal(t, "eastus2", l.Unambiguous())
	assert.Equal(t, "AWS", VendorAWS.Title())
}

func TestLocation_Text(t *testing.T) {
	t.Parallel()

	text, err := AWS("eu-west-1").MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "aws:eu-west-1", string(text))

	var l Location
	require.NoError(t, l.UnmarshalText([]byte("westeurope")))
	assert.Equal(t, Azure("westeurope"), l)

	_, err = Location{}.MarshalText()
	assert.Error(t, err)
}

func TestDedupAndSort(t *testing.T) {
	t.Parallel()

	locs := Dedup([]Location{AWS("us-west-2"), Azure("eastus"), AWS("us-west-2"), AWS("eu-west-1")})
	assert.Equal(t, []Location{AWS("us-west-2"), Azure("eastus"), AWS("eu-west-1")}, locs)

	Sort(locs)
	assert.Equal(t, []Location{AWS("eu-west-1"), AWS("us-west-2"), Azure("eastus")}, locs)
	assert.Equal(t, "aws:eu-west-1, aws:us-west-2, azure:eastus", Join(locs))
}

func TestRegionTables(t *testing.T) {
	t.Parallel()

	assert.Len(t, VendorAWS.Regions(), 16)
	assert.Len(t, VendorAzure.Regions(), 10)
	assert.Nil(t, Vendor("gcp").Regions())
	assert.Len(t, All(), 26)
}
