package testing

import (
	"context"

	"github.com/stretchr/testify/mock"
	corev1 "k8s.io/api/core/v1"

	v1 "github.com/imamik/statehub/api/v1"
	"github.com/imamik/statehub/internal/helm"
	"github.com/imamik/statehub/internal/location"
)

// MockAPI is a mock implementation of controlplane.API.
type MockAPI struct {
	mock.Mock

	// BaseURL is returned by URL.
	BaseURL string
}

// URL returns BaseURL.
func (m *MockAPI) URL() string {
	return m.BaseURL
}

func (m *MockAPI) GetAllStates(ctx context.Context) ([]v1.State, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]v1.State), args.Error(1)
}

func (m *MockAPI) GetState(ctx context.Context, name v1.StateName) (*v1.State, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*v1.State), args.Error(1)
}

func (m *MockAPI) CreateState(ctx context.Context, dto v1.CreateStateDto) (*v1.State, error) {
	args := m.Called(ctx, dto)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*v1.State), args.Error(1)
}

func (m *MockAPI) DeleteState(ctx context.Context, name v1.StateName) (*v1.State, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*v1.State), args.Error(1)
}

func (m *MockAPI) AddAWSLocation(ctx context.Context, state v1.StateName, region string) (*v1.StateLocation, error) {
	args := m.Called(ctx, state, region)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*v1.StateLocation), args.Error(1)
}

func (m *MockAPI) GetAWSLocation(ctx context.Context, state v1.StateName, region string) (*v1.StateLocation, error) {
	args := m.Called(ctx, state, region)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*v1.StateLocation), args.Error(1)
}

func (m *MockAPI) DeleteAWSLocation(ctx context.Context, state v1.StateName, region string) (*v1.StateLocation, error) {
	args := m.Called(ctx, state, region)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*v1.StateLocation), args.Error(1)
}

func (m *MockAPI) AddAzureLocation(ctx context.Context, state v1.StateName, region string) (*v1.StateLocation, error) {
	args := m.Called(ctx, state, region)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*v1.StateLocation), args.Error(1)
}

func (m *MockAPI) GetAzureLocation(ctx context.Context, state v1.StateName, region string) (*v1.StateLocation, error) {
	args := m.Called(ctx, state, region)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*v1.StateLocation), args.Error(1)
}

func (m *MockAPI) DeleteAzureLocation(ctx context.Context, state v1.StateName, region string) (*v1.StateLocation, error) {
	args := m.Called(ctx, state, region)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*v1.StateLocation), args.Error(1)
}

func (m *MockAPI) SetOwner(ctx context.Context, state v1.StateName, cluster v1.ClusterName) (*v1.State, error) {
	args := m.Called(ctx, state, cluster)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*v1.State), args.Error(1)
}

func (m *MockAPI) UnsetOwner(ctx context.Context, state v1.StateName) (*v1.State, error) {
	args := m.Called(ctx, state)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*v1.State), args.Error(1)
}

func (m *MockAPI) RegisterCluster(ctx context.Context, name v1.ClusterName, provider v1.Provider, locations []location.Location) (*v1.Cluster, error) {
	args := m.Called(ctx, name, provider, locations)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*v1.Cluster), args.Error(1)
}

func (m *MockAPI) UnregisterCluster(ctx context.Context, name v1.ClusterName) error {
	args := m.Called(ctx, name)
	return args.Error(0)
}

func (m *MockAPI) GetCluster(ctx context.Context, name v1.ClusterName) (*v1.Cluster, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*v1.Cluster), args.Error(1)
}

func (m *MockAPI) GetAllClusters(ctx context.Context) ([]v1.Cluster, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]v1.Cluster), args.Error(1)
}

func (m *MockAPI) IssueClusterToken(ctx context.Context, cluster v1.ClusterName) (*v1.ClusterToken, error) {
	args := m.Called(ctx, cluster)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*v1.ClusterToken), args.Error(1)
}

func (m *MockAPI) ListVolumes(ctx context.Context, state v1.StateName) ([]v1.Volume, error) {
	args := m.Called(ctx, state)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]v1.Volume), args.Error(1)
}

func (m *MockAPI) GetVolume(ctx context.Context, state v1.StateName, volume v1.VolumeName) (*v1.Volume, error) {
	args := m.Called(ctx, state, volume)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*v1.Volume), args.Error(1)
}

func (m *MockAPI) CreateVolume(ctx context.Context, state v1.StateName, dto v1.CreateVolumeDto) (*v1.Volume, error) {
	args := m.Called(ctx, state, dto)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*v1.Volume), args.Error(1)
}

func (m *MockAPI) DeleteVolume(ctx context.Context, state v1.StateName, volume v1.VolumeName) (*v1.Volume, error) {
	args := m.Called(ctx, state, volume)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*v1.Volume), args.Error(1)
}

func (m *MockAPI) SetVolumePrimary(ctx context.Context, state v1.StateName, volume v1.VolumeName, primary location.Location) (*v1.Volume, error) {
	args := m.Called(ctx, state, volume, primary)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*v1.Volume), args.Error(1)
}

// MockKube is a mock implementation of kube.Client.
type MockKube struct {
	mock.Mock
}

// GetRegions groups nodes by region or zone.
func (m *MockKube) GetRegions(ctx context.Context, zone bool) (map[string][]string, error) {
	args := m.Called(ctx, zone)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string][]string), args.Error(1)
}

func (m *MockKube) CollectNodeLocations(ctx context.Context) ([]location.Location, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]location.Location), args.Error(1)
}

func (m *MockKube) GetClusterProvider(ctx context.Context, cluster v1.ClusterName) (v1.Provider, error) {
	args := m.Called(ctx, cluster)
	return args.Get(0).(v1.Provider), args.Error(1)
}

func (m *MockKube) ValidateNamespace(ctx context.Context, name string) (*corev1.Namespace, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*corev1.Namespace), args.Error(1)
}

func (m *MockKube) StoreClusterToken(ctx context.Context, namespace string, token string) (*corev1.Secret, error) {
	args := m.Called(ctx, namespace, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*corev1.Secret), args.Error(1)
}

func (m *MockKube) StoreConfigMap(ctx context.Context, namespace string, cluster v1.ClusterName, defaultState string, apiURL string) (*corev1.ConfigMap, error) {
	args := m.Called(ctx, namespace, cluster, defaultState, apiURL)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*corev1.ConfigMap), args.Error(1)
}

func (m *MockKube) ListNamespaces(ctx context.Context) ([]corev1.Namespace, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]corev1.Namespace), args.Error(1)
}

func (m *MockKube) ListNodes(ctx context.Context) ([]corev1.Node, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]corev1.Node), args.Error(1)
}

func (m *MockKube) ListPods(ctx context.Context, namespace string) ([]corev1.Pod, error) {
	args := m.Called(ctx, namespace)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]corev1.Pod), args.Error(1)
}

// MockExecutor is a mock implementation of helm.Executor.
type MockExecutor struct {
	mock.Mock
}

// Execute returns the configured results.
func (m *MockExecutor) Execute(ctx context.Context, cmds []helm.Command) []helm.Result {
	args := m.Called(ctx, cmds)
	if args.Get(0) == nil {
		return nil
	}
	return args.Get(0).([]helm.Result)
}
