package v1

import (
	"fmt"
	"strings"
	"time"

	"github.com/imamik/statehub/internal/location"
)

// ClusterName identifies a registered cluster.
type ClusterName string

// Provider is the Kubernetes distribution a cluster runs.
type Provider string

// Supported providers.
const (
	ProviderEKS     Provider = "eks"
	ProviderAKS     Provider = "aks"
	ProviderKOPS    Provider = "kops"
	ProviderGeneric Provider = "generic"
)

// Providers lists every supported provider.
func Providers() []Provider {
	return []Provider{ProviderEKS, ProviderAKS, ProviderKOPS, ProviderGeneric}
}

// ParseProvider parses a provider tag, case insensitively.
func ParseProvider(s string) (Provider, error) {
	p := Provider(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Providers() {
		if p == known {
			return p, nil
		}
	}
	return "", fmt.Errorf("invalid provider %q, expected one of eks, aks, kops, generic", s)
}

// Cluster is a registered Kubernetes cluster.
type Cluster struct {
	// ID is the server assigned identifier.
	ID string `json:"id"`

	// Name is the unique cluster name.
	Name ClusterName `json:"name"`

	// Created is the registration timestamp.
	Created time.Time `json:"created"`

	// Modified is the last modification timestamp.
	Modified time.Time `json:"modified"`

	// Locations lists the regions the cluster runs in.
	Locations ClusterLocations `json:"locations"`

	// Helm lists the charts to install on the cluster.
	Helm []HelmChart `json:"helm"`
}

// ClusterLocations groups a cluster's regions per vendor.
type ClusterLocations struct {
	AWS   []ClusterLocationAWS   `json:"aws"`
	Azure []ClusterLocationAzure `json:"azure"`
}

// ClusterLocationAWS is an AWS region of a cluster.
type ClusterLocationAWS struct {
	Region           string `json:"region"`
	AccountPrincipal string `json:"accountPrincipal,omitempty"`
}

// ClusterLocationAzure is an Azure region of a cluster.
type ClusterLocationAzure struct {
	Region string `json:"region"`
}

// NewClusterLocations groups locs per vendor.
func NewClusterLocations(locs []location.Location) ClusterLocations {
	cl := ClusterLocations{
		AWS:   []ClusterLocationAWS{},
		Azure: []ClusterLocationAzure{},
	}
	for _, l := range locs {
		switch l.Vendor {
		case location.VendorAWS:
			cl.AWS = append(cl.AWS, ClusterLocationAWS{Region: l.Region})
		case location.VendorAzure:
			cl.Azure = append(cl.Azure, ClusterLocationAzure{Region: l.Region})
		}
	}
	return cl
}

// List returns all locations, AWS first.
func (c ClusterLocations) List() []location.Location {
	out := make([]location.Location, 0, len(c.AWS)+len(c.Azure))
	for _, l := range c.AWS {
		out = append(out, location.AWS(l.Region))
	}
	for _, l := range c.Azure {
		out = append(out, location.Azure(l.Region))
	}
	return out
}

// HelmChart is a chart the cluster must install.
type HelmChart struct {
	Repo       string            `json:"repo"`
	Chart      string            `json:"chart"`
	Version    string            `json:"version"`
	Parameters map[string]string `json:"parameters"`
}

// CreateClusterDto is the request body for registering a cluster.
type CreateClusterDto struct {
	Name      ClusterName      `json:"name"`
	Provider  Provider         `json:"provider"`
	Locations ClusterLocations `json:"locations"`
}

// ClusterToken is an authentication token issued to a cluster.
type ClusterToken struct {
	Token string `json:"token"`
}
