package kube

import (
	"context"
	"errors"
	"testing"

	"github.com/go-logr/logr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/runtime"
	"k8s.io/client-go/kubernetes/fake"
	k8stesting "k8s.io/client-go/testing"
	clientcmdapi "k8s.io/client-go/tools/clientcmd/api"

	v1 "github.com/imamik/statehub/api/v1"
	"github.com/imamik/statehub/internal/location"
)

func node(name string, labels map[string]string) *corev1.Node {
	return &corev1.Node{ObjectMeta: metav1.ObjectMeta{Name: name, Labels: labels}}
}

func newTestClient(objects ...runtime.Object) (*client, *fake.Clientset) {
	//nolint:staticcheck // SA1019: NewSimpleClientset is sufficient for our testing needs
	clientset := fake.NewSimpleClientset(objects...)
	return &client{clientset: clientset, log: logr.Discard()}, clientset
}

func TestCollectNodeLocations(t *testing.T) {
	t.Parallel()

	c, _ := newTestClient(
		node("a", map[string]string{LabelRegion: "us-west-2"}),
		node("b", map[string]string{LabelRegion: "eastus2"}),
		node("c", map[string]string{LabelRegion: "us-west-2"}),
	)

	locs, err := c.CollectNodeLocations(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []location.Location{location.AWS("us-west-2"), location.Azure("eastus2")}, locs)
}

func TestCollectNodeLocations_UnlabeledNode(t *testing.T) {
	t.Parallel()

	c, _ := newTestClient(
		node("a", map[string]string{LabelRegion: "us-west-2"}),
		node("orphan", nil),
	)

	_, err := c.CollectNodeLocations(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "cannot determine location for nodes [orphan]")
}

func TestCollectNodeLocations_UnknownRegion(t *testing.T) {
	t.Parallel()

	c, _ := newTestClient(node("a", map[string]string{LabelRegion: "fsn1"}))

	_, err := c.CollectNodeLocations(context.Background())
	require.Error(t, err)
	var invalid *location.InvalidError
	assert.True(t, errors.As(err, &invalid))
}

func TestCollectNodeLocations_NoNodes(t *testing.T) {
	t.Parallel()

	c, _ := newTestClient()
	locs, err := c.CollectNodeLocations(context.Background())
	require.NoError(t, err)
	assert.Empty(t, locs)
}

func TestGetRegions_Zone(t *testing.T) {
	t.Parallel()

	c, _ := newTestClient(
		node("b", map[string]string{LabelZone: "us-west-2a"}),
		node("a", map[string]string{LabelZone: "us-west-2a"}),
		node("c", nil),
	)

	groups, err := c.GetRegions(context.Background(), true)
	require.NoError(t, err)
	assert.Equal(t, map[string][]string{"us-west-2a": {"a", "b"}, "": {"c"}}, groups)
}

func TestGetClusterProvider(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		labels map[string]string
		want   v1.Provider
	}{
		{"aks node resource group", map[string]string{LabelAKSCluster: "MC_rg_prod_westeurope"}, v1.ProviderAKS},
		{"other azure label", map[string]string{LabelAKSCluster: "custom"}, v1.ProviderEKS},
		{"no labels", nil, v1.ProviderEKS},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			c, _ := newTestClient(node("n1", tt.labels))
			got, err := c.GetClusterProvider(context.Background(), "prod")
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestValidateNamespace(t *testing.T) {
	t.Parallel()

	c, clientset := newTestClient()
	ctx := context.Background()

	ns, err := c.ValidateNamespace(ctx, DefaultNamespace)
	require.NoError(t, err)
	assert.Equal(t, DefaultNamespace, ns.Name)

	// Second call reuses the namespace.
	_, err = c.ValidateNamespace(ctx, DefaultNamespace)
	require.NoError(t, err)

	creates := 0
	for _, a := range clientset.Actions() {
		if a.GetVerb() == "create" && a.GetResource().Resource == "namespaces" {
			creates++
		}
	}
	assert.Equal(t, 1, creates)

	_, err = c.ValidateNamespace(ctx, "")
	assert.Error(t, err)
}

func TestStoreClusterToken_ReplacesExisting(t *testing.T) {
	t.Parallel()

	c, clientset := newTestClient(&corev1.Secret{
		ObjectMeta: metav1.ObjectMeta{Name: ClusterTokenSecret, Namespace: DefaultNamespace},
		Data:       map[string][]byte{ClusterTokenKey: []byte("old"), "stale": []byte("x")},
	})

	secret, err := c.StoreClusterToken(context.Background(), DefaultNamespace, "new-token")
	require.NoError(t, err)
	assert.Equal(t, ClusterTokenType, secret.Type)

	stored, err := clientset.CoreV1().Secrets(DefaultNamespace).Get(context.Background(), ClusterTokenSecret, metav1.GetOptions{})
	require.NoError(t, err)
	token, ok := ExtractClusterToken(stored)
	require.True(t, ok)
	assert.Equal(t, "new-token", token)
	assert.NotContains(t, stored.Data, "stale")
}

func TestStoreClusterToken_IgnoresDeleteFailure(t *testing.T) {
	t.Parallel()

	c, clientset := newTestClient()
	clientset.PrependReactor("delete", "secrets", func(_ k8stesting.Action) (bool, runtime.Object, error) {
		return true, nil, errors.New("forbidden")
	})

	_, err := c.StoreClusterToken(context.Background(), DefaultNamespace, "tkn")
	require.NoError(t, err)
}

func TestStoreClusterToken_CreateFailure(t *testing.T) {
	t.Parallel()

	c, clientset := newTestClient()
	clientset.PrependReactor("create", "secrets", func(_ k8stesting.Action) (bool, runtime.Object, error) {
		return true, nil, errors.New("quota exceeded")
	})

	_, err := c.StoreClusterToken(context.Background(), DefaultNamespace, "tkn")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to create secret statehub-system/statehub-cluster-token")
}

func TestStoreConfigMap(t *testing.T) {
	t.Parallel()

	c, clientset := newTestClient(&corev1.ConfigMap{
		ObjectMeta: metav1.ObjectMeta{Name: ConfigMapName, Namespace: "custom"},
		Data:       map[string]string{"cluster-name": "old"},
	})

	_, err := c.StoreConfigMap(context.Background(), "custom", "prod", "default", "https://api.statehub.io")
	require.NoError(t, err)

	cm, err := clientset.CoreV1().ConfigMaps("custom").Get(context.Background(), ConfigMapName, metav1.GetOptions{})
	require.NoError(t, err)
	assert.Equal(t, map[string]string{
		"cluster-name":  "prod",
		"default-state": "default",
		"api-url":       "https://api.statehub.io",
		"cleanup-grace": "600s",
	}, cm.Data)
}

func TestListing(t *testing.T) {
	t.Parallel()

	c, _ := newTestClient(
		&corev1.Namespace{ObjectMeta: metav1.ObjectMeta{Name: "kube-system"}},
		&corev1.Pod{ObjectMeta: metav1.ObjectMeta{Name: "coredns", Namespace: "kube-system"}},
		node("n1", nil),
	)
	ctx := context.Background()

	namespaces, err := c.ListNamespaces(ctx)
	require.NoError(t, err)
	assert.Len(t, namespaces, 1)

	pods, err := c.ListPods(ctx, "kube-system")
	require.NoError(t, err)
	assert.Len(t, pods, 1)

	nodes, err := c.ListNodes(ctx)
	require.NoError(t, err)
	assert.Len(t, nodes, 1)
}

func TestClusterNameFromConfig(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		cfg     *clientcmdapi.Config
		want    v1.ClusterName
		wantErr bool
	}{
		{
			name: "current context eks arn",
			cfg: &clientcmdapi.Config{
				CurrentContext: "arn:aws:eks:us-west-2:123456789012:cluster/prod",
			},
			want: "prod",
		},
		{
			name: "first context",
			cfg: &clientcmdapi.Config{
				Contexts: map[string]*clientcmdapi.Context{"zeta": {}, "alpha": {}},
			},
			want: "alpha",
		},
		{
			name: "first cluster",
			cfg: &clientcmdapi.Config{
				Clusters: map[string]*clientcmdapi.Cluster{"aks-dev": {}},
			},
			want: "aks-dev",
		},
		{
			name:    "empty",
			cfg:     &clientcmdapi.Config{},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := ClusterNameFromConfig(tt.cfg)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNewFromClientset(t *testing.T) {
	t.Parallel()

	//nolint:staticcheck // SA1019: NewSimpleClientset is sufficient for our testing needs
	c := NewFromClientset(fake.NewSimpleClientset(), logr.Discard())
	require.NotNil(t, c)
}
