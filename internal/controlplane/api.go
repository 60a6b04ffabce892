package controlplane

import (
	"context"

	v1 "github.com/imamik/statehub/api/v1"
	"github.com/imamik/statehub/internal/location"
)

// API is the set of management API operations used by the CLI.
type API interface {
	// URL returns the management API base URL.
	URL() string

	GetAllStates(ctx context.Context) ([]v1.State, error)
	GetState(ctx context.Context, name v1.StateName) (*v1.State, error)
	CreateState(ctx context.Context, dto v1.CreateStateDto) (*v1.State, error)
	DeleteState(ctx context.Context, name v1.StateName) (*v1.State, error)

	AddAWSLocation(ctx context.Context, state v1.StateName, region string) (*v1.StateLocation, error)
	GetAWSLocation(ctx context.Context, state v1.StateName, region string) (*v1.StateLocation, error)
	DeleteAWSLocation(ctx context.Context, state v1.StateName, region string) (*v1.StateLocation, error)
	AddAzureLocation(ctx context.Context, state v1.StateName, region string) (*v1.StateLocation, error)
	GetAzureLocation(ctx context.Context, state v1.StateName, region string) (*v1.StateLocation, error)
	DeleteAzureLocation(ctx context.Context, state v1.StateName, region string) (*v1.StateLocation, error)

	SetOwner(ctx context.Context, state v1.StateName, cluster v1.ClusterName) (*v1.State, error)
	UnsetOwner(ctx context.Context, state v1.StateName) (*v1.State, error)

	RegisterCluster(ctx context.Context, name v1.ClusterName, provider v1.Provider, locations []location.Location) (*v1.Cluster, error)
	UnregisterCluster(ctx context.Context, name v1.ClusterName) error
	GetCluster(ctx context.Context, name v1.ClusterName) (*v1.Cluster, error)
	GetAllClusters(ctx context.Context) ([]v1.Cluster, error)
	IssueClusterToken(ctx context.Context, cluster v1.ClusterName) (*v1.ClusterToken, error)

	ListVolumes(ctx context.Context, state v1.StateName) ([]v1.Volume, error)
	GetVolume(ctx context.Context, state v1.StateName, volume v1.VolumeName) (*v1.Volume, error)
	CreateVolume(ctx context.Context, state v1.StateName, dto v1.CreateVolumeDto) (*v1.Volume, error)
	DeleteVolume(ctx context.Context, state v1.StateName, volume v1.VolumeName) (*v1.Volume, error)
	SetVolumePrimary(ctx context.Context, state v1.StateName, volume v1.VolumeName, primary location.Location) (*v1.Volume, error)
}
