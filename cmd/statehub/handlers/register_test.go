package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"

	v1 "github.com/imamik/statehub/api/v1"
	"github.com/imamik/statehub/internal/location"
	"github.com/imamik/statehub/internal/orchestration"
	testutil "github.com/imamik/statehub/internal/testing"
)

func TestRegisterOptions(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name         string
		in           RegisterClusterOptions
		wantStates   []v1.StateName
		wantDefault  string
		wantClaim    bool
		wantProvider v1.Provider
	}{
		{
			name:        "defaults",
			in:          RegisterClusterOptions{},
			wantStates:  []v1.StateName{"default"},
			wantDefault: "default",
			wantClaim:   true,
		},
		{
			name:        "first state backs the storage class",
			in:          RegisterClusterOptions{States: []string{"alfa", "bravo"}},
			wantStates:  []v1.StateName{"alfa", "bravo"},
			wantDefault: "alfa",
			wantClaim:   true,
		},
		{
			name:        "explicit storage class",
			in:          RegisterClusterOptions{States: []string{"alfa"}, DefaultStorageClass: "bravo"},
			wantStates:  []v1.StateName{"alfa"},
			wantDefault: "bravo",
			wantClaim:   true,
		},
		{
			name:       "no default storage class",
			in:         RegisterClusterOptions{NoDefaultStorageClass: true, NoStateOwner: true},
			wantStates: []v1.StateName{"default"},
		},
		{
			name:      "no state",
			in:        RegisterClusterOptions{NoState: true},
			wantClaim: true,
		},
		{
			name:         "provider",
			in:           RegisterClusterOptions{Provider: "AKS"},
			wantStates:   []v1.StateName{"default"},
			wantDefault:  "default",
			wantClaim:    true,
			wantProvider: v1.ProviderAKS,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := registerOptions(tt.in, "statehub-system")
			require.NoError(t, err)
			assert.Equal(t, tt.wantStates, got.States)
			assert.Equal(t, tt.wantDefault, got.DefaultStorageClass)
			assert.Equal(t, tt.wantClaim, got.ClaimOwnership)
			assert.Equal(t, tt.wantProvider, got.Provider)
			assert.Equal(t, "statehub-system", got.Namespace)
		})
	}
}

func TestRegisterOptions_InvalidProvider(t *testing.T) {
	t.Parallel()

	_, err := registerOptions(RegisterClusterOptions{Provider: "gke"}, "ns")
	assert.Error(t, err)
}

func TestRegisterOptions_NamespaceFlag(t *testing.T) {
	t.Parallel()

	got, err := registerOptions(RegisterClusterOptions{Namespace: "custom"}, "statehub-system")
	require.NoError(t, err)
	assert.Equal(t, "custom", got.Namespace)
}

func (e *testEnv) expectRegistration() {
	usEast1 := location.AWS("us-east-1")
	e.api.On("GetAllStates", mock.Anything).Return([]v1.State{}, nil)
	e.kube.On("CollectNodeLocations", mock.Anything).Return([]location.Location{usEast1}, nil)
	e.kube.On("GetClusterProvider", mock.Anything, v1.ClusterName("prod")).Return(v1.ProviderEKS, nil)
	e.api.On("RegisterCluster", mock.Anything, v1.ClusterName("prod"), v1.ProviderEKS, []location.Location{usEast1}).
		Return(testutil.NewCluster("prod", usEast1), nil)
	e.kube.On("ValidateNamespace", mock.Anything, "statehub-system").
		Return(&corev1.Namespace{ObjectMeta: metav1.ObjectMeta{Name: "statehub-system"}}, nil)
	e.api.On("IssueClusterToken", mock.Anything, v1.ClusterName("prod")).Return(&v1.ClusterToken{Token: "tok"}, nil)
}

func TestRegisterCluster_JSONReport(t *testing.T) {
	e := setupEnv(t)
	e.expectRegistration()
	e.kube.On("StoreClusterToken", mock.Anything, "statehub-system", "tok").Return(&corev1.Secret{}, nil)
	e.kube.On("StoreConfigMap", mock.Anything, "statehub-system", v1.ClusterName("prod"), "", testAPIURL).
		Return(&corev1.ConfigMap{}, nil)

	err := RegisterCluster(context.Background(), Globals{JSON: true}, RegisterClusterOptions{
		Name:         "prod",
		NoState:      true,
		NoStateOwner: true,
		SkipHelm:     true,
	})
	require.NoError(t, err)

	var report orchestration.Report
	require.NoError(t, json.Unmarshal(e.out.Bytes(), &report))
	assert.Equal(t, v1.ClusterName("prod"), report.Cluster)
	assert.Equal(t, orchestration.StatusDone, report.Result(orchestration.StepStoreConfigMap).Status)
	assert.Equal(t, orchestration.StatusSkipped, report.Result(orchestration.StepInstallHelm).Status)
	require.Len(t, report.Helm, 1)
	assert.True(t, report.Helm[0].Skipped)
	assert.Contains(t, e.errOut.String(), "Manually run\nhelm install statehub")
	e.helm.AssertNotCalled(t, "Execute", mock.Anything, mock.Anything)
}

func TestRegisterCluster_FailureSuggestsResume(t *testing.T) {
	e := setupEnv(t)
	e.expectRegistration()
	e.kube.On("StoreClusterToken", mock.Anything, "statehub-system", "tok").Return(nil, errors.New("forbidden"))

	err := RegisterCluster(context.Background(), Globals{}, RegisterClusterOptions{Name: "prod", NoState: true})
	require.Error(t, err)

	step, ok := orchestration.FailedStep(err)
	require.True(t, ok)
	assert.Equal(t, orchestration.StepStoreToken, step)
	assert.Contains(t, e.out.String(), "Cluster registration: prod")
	assert.Contains(t, e.out.String(), "--resume")
}

func TestRegisterCluster_NameFromContext(t *testing.T) {
	e := setupEnv(t)
	e.api.On("GetAllStates", mock.Anything).Return([]v1.State{}, nil)
	e.kube.On("CollectNodeLocations", mock.Anything).Return(nil, errors.New("no nodes"))
	defaultClusterName = func(Globals) (v1.ClusterName, error) { return "ctx-cluster", nil }

	err := RegisterCluster(context.Background(), Globals{}, RegisterClusterOptions{NoState: true})
	require.Error(t, err)
	assert.Contains(t, e.out.String(), "ctx-cluster")
	assert.NotContains(t, e.out.String(), "--resume")
}

func TestUnregisterCluster_Declined(t *testing.T) {
	e := setupEnv(t)
	e.authorized()
	var asked string
	confirm = func(_ context.Context, question string) (bool, error) {
		asked = question
		return false, nil
	}

	err := UnregisterCluster(context.Background(), Globals{}, "prod", false)
	require.NoError(t, err)
	assert.Contains(t, asked, "prod")
	assert.Contains(t, e.out.String(), "Aborted")
	e.api.AssertNotCalled(t, "UnregisterCluster", mock.Anything, mock.Anything)
}

func TestUnregisterCluster_Force(t *testing.T) {
	e := setupEnv(t)
	e.authorized()
	e.api.On("GetAllStates", mock.Anything).Return([]v1.State{
		*testutil.NewState("alfa").WithOwner("prod").Build(),
		*testutil.NewState("bravo").WithOwner("other").Build(),
	}, nil).Once()
	e.api.On("UnsetOwner", mock.Anything, v1.StateName("alfa")).Return(testutil.NewState("alfa").Build(), nil).Once()
	e.api.On("UnregisterCluster", mock.Anything, v1.ClusterName("prod")).Return(nil).Once()
	confirm = func(context.Context, string) (bool, error) {
		t.Fatal("confirmation must be skipped with --force")
		return false, nil
	}

	err := UnregisterCluster(context.Background(), Globals{}, "prod", true)
	require.NoError(t, err)
	assert.Contains(t, e.out.String(), "Relinquished ownership of alfa")
	e.api.AssertExpectations(t)
}
