package handlers

import (
	"context"
	"fmt"

	v1 "github.com/imamik/statehub/api/v1"
	"github.com/imamik/statehub/internal/output"
)

// ListRegions prints the cluster nodes grouped by region or zone.
func ListRegions(ctx context.Context, g Globals, zone bool) (err error) {
	s, err := newSession(g)
	if err != nil {
		return err
	}
	defer func() { err = s.close(err) }()

	kc, err := s.kube()
	if err != nil {
		return err
	}
	regions, err := kc.GetRegions(ctx, zone)
	if err != nil {
		return err
	}
	return s.out.Print(regions, func() string { return output.Regions(regions) })
}

// CreateNamespace gets or creates a namespace.
func CreateNamespace(ctx context.Context, g Globals, namespace string) (err error) {
	s, err := newSession(g)
	if err != nil {
		return err
	}
	defer func() { err = s.close(err) }()

	if namespace == "" {
		namespace = s.cfg.Register.Namespace
	}
	kc, err := s.kube()
	if err != nil {
		return err
	}
	ns, err := kc.ValidateNamespace(ctx, namespace)
	if err != nil {
		return err
	}
	return s.out.Object(ns)
}

// SaveClusterToken stores a cluster token secret in namespace.
func SaveClusterToken(ctx context.Context, g Globals, namespace, token string) (err error) {
	s, err := newSession(g)
	if err != nil {
		return err
	}
	defer func() { err = s.close(err) }()

	kc, err := s.kube()
	if err != nil {
		return err
	}
	secret, err := kc.StoreClusterToken(ctx, namespace, token)
	if err != nil {
		return err
	}
	return s.out.Object(secret)
}

// SetupConfigMap stores the statehub configmap for cluster.
func SetupConfigMap(ctx context.Context, g Globals, cluster, namespace, defaultState string) (err error) {
	s, err := newSession(g)
	if err != nil {
		return err
	}
	defer func() { err = s.close(err) }()

	if namespace == "" {
		namespace = s.cfg.Register.Namespace
	}
	api, err := s.client()
	if err != nil {
		return err
	}
	kc, err := s.kube()
	if err != nil {
		return err
	}
	cm, err := kc.StoreConfigMap(ctx, namespace, v1.ClusterName(cluster), defaultState, api.URL())
	if err != nil {
		return err
	}
	return s.out.Object(cm)
}

// ListNamespaces prints the namespace names.
func ListNamespaces(ctx context.Context, g Globals) (err error) {
	s, err := newSession(g)
	if err != nil {
		return err
	}
	defer func() { err = s.close(err) }()

	kc, err := s.kube()
	if err != nil {
		return err
	}
	namespaces, err := kc.ListNamespaces(ctx)
	if err != nil {
		return err
	}
	names := make([]string, 0, len(namespaces))
	for _, ns := range namespaces {
		names = append(names, ns.Name)
	}
	return s.out.Print(names, func() string { return joinLines(names) })
}

// ListNodes prints the node names.
func ListNodes(ctx context.Context, g Globals) (err error) {
	s, err := newSession(g)
	if err != nil {
		return err
	}
	defer func() { err = s.close(err) }()

	kc, err := s.kube()
	if err != nil {
		return err
	}
	nodes, err := kc.ListNodes(ctx)
	if err != nil {
		return err
	}
	names := make([]string, 0, len(nodes))
	for _, n := range nodes {
		names = append(names, n.Name)
	}
	return s.out.Print(names, func() string { return joinLines(names) })
}

// ListPods prints the pods of namespace, or of all namespaces.
func ListPods(ctx context.Context, g Globals, namespace string) (err error) {
	s, err := newSession(g)
	if err != nil {
		return err
	}
	defer func() { err = s.close(err) }()

	kc, err := s.kube()
	if err != nil {
		return err
	}
	pods, err := kc.ListPods(ctx, namespace)
	if err != nil {
		return err
	}
	names := make([]string, 0, len(pods))
	for _, p := range pods {
		names = append(names, fmt.Sprintf("%s/%s", p.Namespace, p.Name))
	}
	return s.out.Print(names, func() string { return joinLines(names) })
}
