package testing

import (
	v1 "github.com/imamik/statehub/api/v1"
	"github.com/imamik/statehub/internal/location"
)

// NewCluster returns a registered cluster running in locs with a single
// statehub chart.
func NewCluster(name v1.ClusterName, locs ...location.Location) *v1.Cluster {
	return &v1.Cluster{
		ID:        "id-" + string(name),
		Name:      name,
		Locations: v1.NewClusterLocations(locs),
		Helm: []v1.HelmChart{
			{
				Repo:       "https://charts.statehub.io",
				Chart:      "statehub",
				Version:    "0.1.0",
				Parameters: map[string]string{"cluster.token.secret": "statehub-cluster-token"},
			},
		},
	}
}

// LocationRecord returns a state location entry with the given status.
func LocationRecord(region string, status v1.StateLocationStatus) *v1.StateLocation {
	return &v1.StateLocation{Region: region, Status: status}
}
