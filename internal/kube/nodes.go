package kube

import (
	"context"
	"fmt"
	"sort"
	"strings"

	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"

	v1 "github.com/imamik/statehub/api/v1"
	"github.com/imamik/statehub/internal/location"
)

// GetRegions groups node names by their region or zone label.
func (c *client) GetRegions(ctx context.Context, zone bool) (map[string][]string, error) {
	label := LabelRegion
	if zone {
		label = LabelZone
	}

	nodes, err := c.ListNodes(ctx)
	if err != nil {
		return nil, err
	}

	groups := make(map[string][]string)
	for _, node := range nodes {
		key := node.Labels[label]
		groups[key] = append(groups[key], node.Name)
	}
	for key := range groups {
		sort.Strings(groups[key])
	}
	return groups, nil
}

// CollectNodeLocations returns the sorted, distinct locations of all nodes.
func (c *client) CollectNodeLocations(ctx context.Context) ([]location.Location, error) {
	groups, err := c.GetRegions(ctx, false)
	if err != nil {
		return nil, err
	}

	if unlabeled, ok := groups[""]; ok {
		return nil, fmt.Errorf("cannot determine location for nodes [%s]", strings.Join(unlabeled, " "))
	}

	locs := make([]location.Location, 0, len(groups))
	for region, nodes := range groups {
		l, err := location.Parse(region)
		if err != nil {
			return nil, fmt.Errorf("nodes [%s]: %w", strings.Join(nodes, " "), err)
		}
		locs = append(locs, l)
	}

	locs = location.Dedup(locs)
	location.Sort(locs)
	c.log.V(1).Info("collected node locations", "locations", location.Join(locs))
	return locs, nil
}

// GetClusterProvider detects AKS from its node resource group naming
// (MC_<group>_<cluster>_<region>) and falls back to EKS.
func (c *client) GetClusterProvider(ctx context.Context, cluster v1.ClusterName) (v1.Provider, error) {
	nodes, err := c.ListNodes(ctx)
	if err != nil {
		return "", err
	}

	for _, node := range nodes {
		if strings.HasPrefix(node.Labels[LabelAKSCluster], "MC_") {
			c.log.V(1).Info("detected provider", "cluster", cluster, "provider", v1.ProviderAKS, "node", node.Name)
			return v1.ProviderAKS, nil
		}
	}

	c.log.V(1).Info("assuming provider", "cluster", cluster, "provider", v1.ProviderEKS)
	return v1.ProviderEKS, nil
}

// ListNodes returns all nodes.
func (c *client) ListNodes(ctx context.Context) ([]corev1.Node, error) {
	list, err := c.clientset.CoreV1().Nodes().List(ctx, metav1.ListOptions{})
	if err != nil {
		return nil, fmt.Errorf("failed to list nodes: %w", err)
	}
	return list.Items, nil
}
