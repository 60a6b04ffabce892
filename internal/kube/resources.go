package kube

import (
	"context"
	"fmt"

	corev1 "k8s.io/api/core/v1"
	"k8s.io/apimachinery/pkg/api/errors"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"

	v1 "github.com/imamik/statehub/api/v1"
)

// ValidateNamespace returns the existing namespace or creates it.
func (c *client) ValidateNamespace(ctx context.Context, name string) (*corev1.Namespace, error) {
	if name == "" {
		return nil, fmt.Errorf("namespace name is required")
	}

	namespaces := c.clientset.CoreV1().Namespaces()
	existing, err := namespaces.Get(ctx, name, metav1.GetOptions{})
	if err == nil {
		c.log.Info("Using existing namespace", "namespace", name)
		return existing, nil
	}
	if !errors.IsNotFound(err) {
		return nil, fmt.Errorf("failed to get namespace %s: %w", name, err)
	}

	c.log.Info("Creating new namespace", "namespace", name)
	created, err := namespaces.Create(ctx, &corev1.Namespace{
		ObjectMeta: metav1.ObjectMeta{Name: name},
	}, metav1.CreateOptions{})
	if errors.IsAlreadyExists(err) {
		return namespaces.Get(ctx, name, metav1.GetOptions{})
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create namespace %s: %w", name, err)
	}
	return created, nil
}

// StoreClusterToken replaces the cluster token secret. A failed delete is
// ignored: the secret usually does not exist yet.
func (c *client) StoreClusterToken(ctx context.Context, namespace, token string) (*corev1.Secret, error) {
	if namespace == "" {
		return nil, fmt.Errorf("secret namespace is required")
	}

	secrets := c.clientset.CoreV1().Secrets(namespace)
	if err := secrets.Delete(ctx, ClusterTokenSecret, metav1.DeleteOptions{}); err == nil {
		c.log.V(1).Info("Removed previous cluster token", "namespace", namespace)
	}

	secret, err := secrets.Create(ctx, &corev1.Secret{
		ObjectMeta: metav1.ObjectMeta{
			Name:      ClusterTokenSecret,
			Namespace: namespace,
		},
		Type: ClusterTokenType,
		Data: map[string][]byte{
			ClusterTokenKey: []byte(token),
		},
	}, metav1.CreateOptions{})
	if err != nil {
		return nil, fmt.Errorf("failed to create secret %s/%s: %w", namespace, ClusterTokenSecret, err)
	}
	return secret, nil
}

// ExtractClusterToken returns the token stored in secret.
func ExtractClusterToken(secret *corev1.Secret) (string, bool) {
	if secret == nil {
		return "", false
	}
	token, ok := secret.Data[ClusterTokenKey]
	return string(token), ok
}

// StoreConfigMap replaces the statehub configmap with the same
// delete-then-create policy as StoreClusterToken.
func (c *client) StoreConfigMap(ctx context.Context, namespace string, cluster v1.ClusterName, defaultState, apiURL string) (*corev1.ConfigMap, error) {
	if namespace == "" {
		return nil, fmt.Errorf("configmap namespace is required")
	}

	configMaps := c.clientset.CoreV1().ConfigMaps(namespace)
	if err := configMaps.Delete(ctx, ConfigMapName, metav1.DeleteOptions{}); err == nil {
		c.log.V(1).Info("Removed previous configmap", "namespace", namespace)
	}

	cm, err := configMaps.Create(ctx, &corev1.ConfigMap{
		ObjectMeta: metav1.ObjectMeta{
			Name:      ConfigMapName,
			Namespace: namespace,
		},
		Data: map[string]string{
			"cluster-name":  string(cluster),
			"default-state": defaultState,
			"api-url":       apiURL,
			"cleanup-grace": DefaultCleanupGrace,
		},
	}, metav1.CreateOptions{})
	if err != nil {
		return nil, fmt.Errorf("failed to create configmap %s/%s: %w", namespace, ConfigMapName, err)
	}
	return cm, nil
}

// ListNamespaces returns all namespaces.
func (c *client) ListNamespaces(ctx context.Context) ([]corev1.Namespace, error) {
	list, err := c.clientset.CoreV1().Namespaces().List(ctx, metav1.ListOptions{})
	if err != nil {
		return nil, fmt.Errorf("failed to list namespaces: %w", err)
	}
	return list.Items, nil
}

// ListPods returns the pods of namespace; an empty namespace lists all.
func (c *client) ListPods(ctx context.Context, namespace string) ([]corev1.Pod, error) {
	list, err := c.clientset.CoreV1().Pods(namespace).List(ctx, metav1.ListOptions{})
	if err != nil {
		return nil, fmt.Errorf("failed to list pods: %w", err)
	}
	return list.Items, nil
}
