package receipt

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	v1 "github.com/imamik/statehub/api/v1"
)

// FileStore keeps receipts as YAML files in Dir.
type FileStore struct {
	Dir string
}

func (s *FileStore) path(cluster v1.ClusterName) string {
	return filepath.Join(s.Dir, objectName(cluster))
}

// Load reads the receipt of cluster.
func (s *FileStore) Load(_ context.Context, cluster v1.ClusterName) (*Receipt, error) {
	data, err := os.ReadFile(s.path(cluster))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read receipt: %w", err)
	}
	return decode(data)
}

// Save writes r, creating Dir if needed.
func (s *FileStore) Save(_ context.Context, r *Receipt) error {
	data, err := yaml.Marshal(r)
	if err != nil {
		return fmt.Errorf("failed to marshal receipt: %w", err)
	}
	if err := os.MkdirAll(s.Dir, 0o700); err != nil {
		return fmt.Errorf("failed to create receipt directory: %w", err)
	}
	if err := os.WriteFile(s.path(r.Cluster), data, 0o600); err != nil {
		return fmt.Errorf("failed to write receipt: %w", err)
	}
	return nil
}

// Delete removes the receipt of cluster. A missing receipt is not an error.
func (s *FileStore) Delete(_ context.Context, cluster v1.ClusterName) error {
	err := os.Remove(s.path(cluster))
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to delete receipt: %w", err)
	}
	return nil
}

func decode(data []byte) (*Receipt, error) {
	var r Receipt
	if err := yaml.Unmarshal(data, &r); err != nil {
		return nil, fmt.Errorf("failed to parse receipt: %w", err)
	}
	if r.Version > CurrentVersion {
		return nil, fmt.Errorf("unsupported receipt version %d", r.Version)
	}
	return &r, nil
}
