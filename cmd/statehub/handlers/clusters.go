package handlers

import (
	"context"
	"fmt"

	v1 "github.com/imamik/statehub/api/v1"
	"github.com/imamik/statehub/internal/output"
)

// ListClusters prints every registered cluster.
func ListClusters(ctx context.Context, g Globals) (err error) {
	s, err := newSession(g)
	if err != nil {
		return err
	}
	defer func() { err = s.close(err) }()

	api, err := s.api(ctx)
	if err != nil {
		return err
	}
	clusters, err := api.GetAllClusters(ctx)
	if err != nil {
		return fmt.Errorf("failed to list clusters: %w", err)
	}
	return s.out.Print(clusters, func() string { return output.Clusters(clusters) })
}

// ShowCluster prints a cluster, its helm commands and the states visible
// from its locations. An empty name uses the kubeconfig cluster name.
func ShowCluster(ctx context.Context, g Globals, name string) (err error) {
	s, err := newSession(g)
	if err != nil {
		return err
	}
	defer func() { err = s.close(err) }()

	clusterName := v1.ClusterName(name)
	if clusterName == "" {
		clusterName, err = defaultClusterName(g)
		if err != nil {
			return fmt.Errorf("no cluster name given and none found in kubeconfig: %w", err)
		}
	}

	api, err := s.api(ctx)
	if err != nil {
		return err
	}
	cluster, err := api.GetCluster(ctx, clusterName)
	if err != nil {
		return fmt.Errorf("failed to get cluster %s: %w", clusterName, err)
	}
	states, err := api.GetAllStates(ctx)
	if err != nil {
		return fmt.Errorf("failed to list states: %w", err)
	}

	detail := output.NewClusterWithStates(cluster, states)
	return s.out.Print(detail, func() string { return output.ClusterDetail(detail, s.cfg.Register.Namespace) })
}
