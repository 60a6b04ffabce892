package kube

import (
	"fmt"
	"sort"
	"strings"

	"k8s.io/client-go/tools/clientcmd"
	clientcmdapi "k8s.io/client-go/tools/clientcmd/api"

	v1 "github.com/imamik/statehub/api/v1"
)

// DefaultClusterName derives a cluster name from the kubeconfig found by the
// standard loading rules.
func DefaultClusterName(kubeconfigPath string) (v1.ClusterName, error) {
	rules := clientcmd.NewDefaultClientConfigLoadingRules()
	if kubeconfigPath != "" {
		rules.ExplicitPath = kubeconfigPath
	}
	cfg, err := rules.Load()
	if err != nil {
		return "", fmt.Errorf("failed to load kubeconfig: %w", err)
	}
	return ClusterNameFromConfig(cfg)
}

// ClusterNameFromConfig picks the current context, else the first context,
// else the first cluster, and keeps the part after the last "/" so EKS ARNs
// become plain names.
func ClusterNameFromConfig(cfg *clientcmdapi.Config) (v1.ClusterName, error) {
	if cfg == nil {
		return "", fmt.Errorf("no kubeconfig")
	}

	name := cfg.CurrentContext
	if name == "" {
		name = firstKey(cfg.Contexts)
	}
	if name == "" {
		name = firstKey(cfg.Clusters)
	}
	if name == "" {
		return "", fmt.Errorf("cannot determine cluster name: kubeconfig has no contexts or clusters")
	}
	return NormalizeName(name), nil
}

// NormalizeName keeps the part of name after the last "/".
func NormalizeName(name string) v1.ClusterName {
	if i := strings.LastIndex(name, "/"); i >= 0 {
		return v1.ClusterName(name[i+1:])
	}
	return v1.ClusterName(name)
}

func firstKey[T any](m map[string]T) string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	if len(keys) == 0 {
		return ""
	}
	sort.Strings(keys)
	return keys[0]
}
