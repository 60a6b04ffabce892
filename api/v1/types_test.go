package v1

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/imamik/statehub/internal/location"
)

func TestStateLocationStatus_IsFinal(t *testing.T) {
	t.Parallel()

	tests := []struct {
		status StateLocationStatus
		final  bool
	}{
		{LocationOK, true},
		{LocationError, true},
		{LocationProvisioning, false},
		{LocationRecovering, false},
		{LocationDeleting, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.status), func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.final, tt.status.IsFinal())
		})
	}
	assert.True(t, LocationDeleting.IsDeleting())
}

func TestState_IsAvailableIn(t *testing.T) {
	t.Parallel()

	state := &State{
		Name: "alfa",
		Locations: StateLocations{
			AWS:   []StateLocation{{Region: "us-west-2", Status: LocationError}},
			Azure: []StateLocation{{Region: "eastus2", Status: LocationProvisioning}},
		},
	}

	assert.True(t, state.IsAvailableIn(location.AWS("us-west-2")), "availability is membership, not health")
	assert.True(t, state.IsAvailableIn(location.Azure("eastus2")))
	assert.False(t, state.IsAvailableIn(location.AWS("us-east-1")))
	assert.False(t, state.IsAvailableIn(location.Azure("us-west-2")))
	assert.Equal(t, []location.Location{location.AWS("us-west-2"), location.Azure("eastus2")}, state.Locations.List())
}

func TestState_Owner(t *testing.T) {
	t.Parallel()

	owner := ClusterName("prod")
	owned := &State{Owner: &owner}
	assert.True(t, owned.HasOwner())
	assert.True(t, owned.IsOwnedBy("prod"))
	assert.False(t, owned.IsOwnedBy("dev"))

	unowned := &State{}
	assert.False(t, unowned.HasOwner())
	assert.False(t, unowned.IsOwnedBy("prod"))
}

func TestState_DecodeServerPayload(t *testing.T) {
	t.Parallel()

	payload := `{
		"id": "8b1b0c5e-0000-4000-8000-000000000001",
		"name": "default",
		"created": "2021-06-01T10:00:00Z",
		"modified": "2021-06-01T10:05:00Z",
		"storageClass": {"name": "default", "volumeBindingMode": "WaitForFirstConsumer", "fsType": "ext4"},
		"locations": {
			"aws": [{"region": "eu-west-1", "status": "ok", "volumes": [], "privateLinkService": {"id": "vpce-svc-1", "name": "svc"}}],
			"azure": []
		},
		"owner": "prod",
		"provisioningStatus": "ready",
		"condition": "green"
	}`

	var state State
	require.NoError(t, json.Unmarshal([]byte(payload), &state))
	assert.Equal(t, StateName("default"), state.Name)
	assert.Equal(t, ConditionGreen, state.Condition)
	assert.Equal(t, ProvisioningReady, state.ProvisioningStatus)
	require.NotNil(t, state.Owner)
	assert.Equal(t, ClusterName("prod"), *state.Owner)

	entry, ok := state.Locations.Find(location.AWS("eu-west-1"))
	require.True(t, ok)
	assert.Equal(t, LocationOK, entry.Status)
	require.NotNil(t, entry.PrivateLinkService)
	assert.Equal(t, "vpce-svc-1", entry.PrivateLinkService.ID)
}

func TestNewCreateStateDto(t *testing.T) {
	t.Parallel()

	owner := ClusterName("prod")
	dto := NewCreateStateDto("alfa", &owner, []location.Location{
		location.AWS("us-east-1"), location.Azure("eastus"), location.AWS("us-east-1"),
	})

	assert.Equal(t, []RegionDto{{Region: "us-east-1"}}, dto.Locations.AWS)
	assert.Equal(t, []RegionDto{{Region: "eastus"}}, dto.Locations.Azure)

	b, err := json.Marshal(dto)
	require.NoError(t, err)
	assert.JSONEq(t, `{"name":"alfa","owner":"prod","locations":{"aws":[{"region":"us-east-1"}],"azure":[{"region":"eastus"}]}}`, string(b))
}

func TestNewClusterLocations(t *testing.T) {
	t.Parallel()

	cl := NewClusterLocations([]location.Location{location.Azure("westeurope"), location.AWS("eu-west-1")})
	b, err := json.Marshal(cl)
	require.NoError(t, err)
	assert.JSONEq(t, `{"aws":[{"region":"eu-west-1"}],"azure":[{"region":"westeurope"}]}`, string(b))
	assert.Equal(t, []location.Location{location.AWS("eu-west-1"), location.Azure("westeurope")}, cl.List())
}

func TestParseProvider(t *testing.T) {
	t.Parallel()

	p, err := ParseProvider("AKS")
	require.NoError(t, err)
	assert.Equal(t, ProviderAKS, p)

	_, err = ParseProvider("gke")
	assert.Error(t, err)
}

func TestParseVolumeFileSystem(t *testing.T) {
	t.Parallel()

	fs, err := ParseVolumeFileSystem("Ext4")
	require.NoError(t, err)
	assert.Equal(t, FileSystemExt4, fs)

	_, err = ParseVolumeFileSystem("ntfs")
	assert.Error(t, err)
}

func TestErrorBody_Decode(t *testing.T) {
	t.Parallel()

	payload := `{"httpCode":409,"httpStatus":"Conflict","error":{"errorCode":"ClusterIsStateOwner","cluster":"prod","state":"alfa"},"msg":"Cluster prod owns state alfa"}`

	var body ErrorBody
	require.NoError(t, json.Unmarshal([]byte(payload), &body))
	assert.Equal(t, ErrClusterIsStateOwner, body.Error.ErrorCode)
	assert.Equal(t, ClusterName("prod"), body.Error.Cluster)
	assert.Equal(t, StateName("alfa"), body.Error.State)
	assert.False(t, body.Error.ErrorCode.IsConflict())
	assert.True(t, ErrAwsLocationExists.IsConflict())
	assert.True(t, ErrStateNotFound.IsNotFound())
}
