package receipt

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	v1 "github.com/imamik/statehub/api/v1"
)

// CurrentVersion is the receipt format version.
const CurrentVersion = 1

// ErrNotFound is returned when no receipt exists for a cluster.
var ErrNotFound = errors.New("receipt not found")

// Receipt records the completed registration steps of one cluster.
type Receipt struct {
	Version   int            `yaml:"version"`
	Cluster   v1.ClusterName `yaml:"cluster"`
	Namespace string         `yaml:"namespace"`
	States    []v1.StateName `yaml:"states,omitempty"`
	Completed []string       `yaml:"completed"`

	// Installed lists the helm releases installed so far.
	Installed []string  `yaml:"installed,omitempty"`
	Updated   time.Time `yaml:"updated"`
}

// New creates an empty receipt.
func New(cluster v1.ClusterName, namespace string, states []v1.StateName) *Receipt {
	return &Receipt{
		Version:   CurrentVersion,
		Cluster:   cluster,
		Namespace: namespace,
		States:    states,
		Completed: []string{},
	}
}

// Done reports whether step completed.
func (r *Receipt) Done(step string) bool {
	return slices.Contains(r.Completed, step)
}

// Mark records step as completed.
func (r *Receipt) Mark(step string) {
	if !r.Done(step) {
		r.Completed = append(r.Completed, step)
	}
	r.Updated = time.Now().UTC()
}

// IsInstalled reports whether release was installed.
func (r *Receipt) IsInstalled(release string) bool {
	return slices.Contains(r.Installed, release)
}

// MarkInstalled records release as installed.
func (r *Receipt) MarkInstalled(release string) {
	if !r.IsInstalled(release) {
		r.Installed = append(r.Installed, release)
	}
	r.Updated = time.Now().UTC()
}

// Matches returns an error when the receipt was written for a different
// namespace or set of states. State order is ignored.
func (r *Receipt) Matches(namespace string, states []v1.StateName) error {
	if r.Namespace != namespace {
		return fmt.Errorf("previous run used namespace %q, not %q", r.Namespace, namespace)
	}
	prev := slices.Clone(r.States)
	cur := slices.Clone(states)
	slices.Sort(prev)
	slices.Sort(cur)
	if !slices.Equal(prev, cur) {
		return fmt.Errorf("previous run used states %v, not %v", r.States, states)
	}
	return nil
}

// Store loads and saves receipts.
type Store interface {
	Load(ctx context.Context, cluster v1.ClusterName) (*Receipt, error)
	Save(ctx context.Context, r *Receipt) error
	Delete(ctx context.Context, cluster v1.ClusterName) error
}

// Open returns the store for location: an s3://bucket/prefix URL or a
// local directory.
func Open(ctx context.Context, location string) (Store, error) {
	if rest, ok := strings.CutPrefix(location, "s3://"); ok {
		bucket, prefix, _ := strings.Cut(rest, "/")
		if bucket == "" {
			return nil, fmt.Errorf("invalid receipt location %q: missing bucket", location)
		}
		return NewS3Store(ctx, bucket, prefix)
	}
	if location == "" {
		return nil, errors.New("receipt location is empty")
	}
	return &FileStore{Dir: location}, nil
}

func objectName(cluster v1.ClusterName) string {
	return string(cluster) + ".yaml"
}
