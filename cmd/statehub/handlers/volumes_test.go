package handlers

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	v1 "github.com/imamik/statehub/api/v1"
	"github.com/imamik/statehub/internal/controlplane"
	"github.com/imamik/statehub/internal/location"
)

func TestCreateVolume(t *testing.T) {
	e := setupEnv(t)
	e.authorized()
	e.api.On("CreateVolume", mock.Anything, v1.StateName("alfa"), v1.CreateVolumeDto{Name: "data", SizeGi: 10, FsType: "ext4"}).
		Return(&v1.Volume{Name: "data", SizeGi: 10, FsType: "ext4"}, nil).Once()

	require.NoError(t, CreateVolume(context.Background(), Globals{}, "alfa", "data", 10, "EXT4"))
	assert.Contains(t, e.out.String(), "10 GiB")
}

func TestCreateVolume_InvalidFileSystem(t *testing.T) {
	setupEnv(t)

	err := CreateVolume(context.Background(), Globals{}, "alfa", "data", 10, "ntfs")
	assert.Error(t, err)
}

func TestDeleteVolume_WaitsUntilGone(t *testing.T) {
	e := setupEnv(t)
	e.authorized()
	volume := &v1.Volume{Name: "data"}
	e.api.On("DeleteVolume", mock.Anything, v1.StateName("alfa"), v1.VolumeName("data")).Return(volume, nil).Once()
	e.api.On("GetVolume", mock.Anything, v1.StateName("alfa"), v1.VolumeName("data")).Return(volume, nil).Twice()
	e.api.On("GetVolume", mock.Anything, v1.StateName("alfa"), v1.VolumeName("data")).
		Return(nil, &controlplane.Error{StatusCode: 404, Status: "Not Found"}).Once()

	require.NoError(t, DeleteVolume(context.Background(), Globals{}, "alfa", "data", true))
	e.api.AssertNumberOfCalls(t, "GetVolume", 3)
	assert.Contains(t, e.out.String(), "Deleted volume data")
}

func TestDeleteVolume_NoWait(t *testing.T) {
	e := setupEnv(t)
	e.authorized()
	e.api.On("DeleteVolume", mock.Anything, v1.StateName("alfa"), v1.VolumeName("data")).Return(&v1.Volume{Name: "data"}, nil).Once()

	require.NoError(t, DeleteVolume(context.Background(), Globals{}, "alfa", "data", false))
	e.api.AssertNotCalled(t, "GetVolume", mock.Anything, mock.Anything, mock.Anything)
}

func TestSetVolume(t *testing.T) {
	e := setupEnv(t)
	e.authorized()
	e.api.On("SetVolumePrimary", mock.Anything, v1.StateName("alfa"), v1.VolumeName("data"), location.Azure("eastus2")).
		Return(&v1.Volume{Name: "data", ActiveLocation: "azure:eastus2"}, nil).Once()

	require.NoError(t, SetVolume(context.Background(), Globals{}, "alfa", "data", "eastus2"))
	assert.Contains(t, e.out.String(), "Volume: data")
}

func TestListVolumes(t *testing.T) {
	e := setupEnv(t)
	e.authorized()
	e.api.On("ListVolumes", mock.Anything, v1.StateName("alfa")).Return([]v1.Volume{
		{Name: "data", SizeGi: 5},
	}, nil)

	require.NoError(t, ListVolumes(context.Background(), Globals{}, "alfa"))
	assert.Contains(t, e.out.String(), "active: None")
}
