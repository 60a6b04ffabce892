// Package kube performs the Kubernetes side of cluster registration.
//
// It discovers which cloud regions the cluster's nodes run in, guesses the
// managed Kubernetes provider from node labels, and writes the statehub
// namespace, cluster token secret and configmap. Secrets and configmaps are
// replaced with delete-then-create so stale keys never survive.
package kube
