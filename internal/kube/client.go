package kube

import (
	"context"
	"fmt"
	"time"

	"github.com/go-logr/logr"
	corev1 "k8s.io/api/core/v1"
	"k8s.io/client-go/kubernetes"
	"k8s.io/client-go/tools/clientcmd"

	v1 "github.com/imamik/statehub/api/v1"
	"github.com/imamik/statehub/internal/location"
)

// Well known names.
const (
	DefaultNamespace    = "statehub-system"
	ClusterTokenSecret  = "statehub-cluster-token"
	ClusterTokenType    = corev1.SecretType("statehub.io/cluster-token")
	ClusterTokenKey     = "cluster-token"
	ConfigMapName       = "statehub"
	DefaultCleanupGrace = "600s"
	requestTimeout      = 30 * time.Second
)

// Node labels.
const (
	LabelRegion     = "topology.kubernetes.io/region"
	LabelZone       = "topology.kubernetes.io/zone"
	LabelAKSCluster = "kubernetes.azure.com/cluster"
)

// Client provides the Kubernetes operations needed to attach a cluster.
type Client interface {
	// CollectNodeLocations returns the distinct locations of all nodes.
	// A node without a region label is an error.
	CollectNodeLocations(ctx context.Context) ([]location.Location, error)

	// GetRegions groups node names by region, or by zone when zone is set.
	// Nodes lacking the label are grouped under the empty key.
	GetRegions(ctx context.Context, zone bool) (map[string][]string, error)

	// GetClusterProvider guesses the managed Kubernetes provider.
	GetClusterProvider(ctx context.Context, cluster v1.ClusterName) (v1.Provider, error)

	// ValidateNamespace returns the namespace, creating it if needed.
	ValidateNamespace(ctx context.Context, name string) (*corev1.Namespace, error)

	// StoreClusterToken replaces the cluster token secret in namespace.
	StoreClusterToken(ctx context.Context, namespace, token string) (*corev1.Secret, error)

	// StoreConfigMap replaces the statehub configmap in namespace.
	StoreConfigMap(ctx context.Context, namespace string, cluster v1.ClusterName, defaultState, apiURL string) (*corev1.ConfigMap, error)

	ListNamespaces(ctx context.Context) ([]corev1.Namespace, error)
	ListNodes(ctx context.Context) ([]corev1.Node, error)
	ListPods(ctx context.Context, namespace string) ([]corev1.Pod, error)
}

// client implements Client using k8s.io/client-go.
type client struct {
	clientset kubernetes.Interface
	log       logr.Logger
}

// NewFromKubeconfig creates a Client from the standard kubeconfig loading
// rules ($KUBECONFIG, ~/.kube/config). An empty context selects the
// current context.
func NewFromKubeconfig(kubeconfigPath, kubeContext string, log logr.Logger) (Client, error) {
	rules := clientcmd.NewDefaultClientConfigLoadingRules()
	if kubeconfigPath != "" {
		rules.ExplicitPath = kubeconfigPath
	}
	overrides := &clientcmd.ConfigOverrides{CurrentContext: kubeContext}

	restConfig, err := clientcmd.NewNonInteractiveDeferredLoadingClientConfig(rules, overrides).ClientConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load kubeconfig: %w", err)
	}
	restConfig.Timeout = requestTimeout

	clientset, err := kubernetes.NewForConfig(restConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create kubernetes clientset: %w", err)
	}

	return &client{clientset: clientset, log: log}, nil
}

// NewFromClientset creates a Client from a pre-configured clientset.
// This is useful for testing with fake clients.
func NewFromClientset(clientset kubernetes.Interface, log logr.Logger) Client {
	return &client{clientset: clientset, log: log}
}
