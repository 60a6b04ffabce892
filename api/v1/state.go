package v1

import (
	"time"

	"github.com/imamik/statehub/internal/location"
)

// StateName identifies a state. Names are case sensitive.
type StateName string

// Condition is the overall health of a state.
type Condition string

// State conditions.
const (
	ConditionGreen  Condition = "green"
	ConditionYellow Condition = "yellow"
	ConditionRed    Condition = "red"
)

// ProvisioningStatus is the provisioning status of a whole state.
type ProvisioningStatus string

// Provisioning statuses.
const (
	ProvisioningReady        ProvisioningStatus = "ready"
	ProvisioningInProgress   ProvisioningStatus = "provisioning"
	ProvisioningStatusFailed ProvisioningStatus = "error"
)

// StateLocationStatus is the status of a state in a single location.
//
// Lifecycle: provisioning -> ok|error, ok -> recovering -> ok|error,
// ok|error -> deleting -> removed.
type StateLocationStatus string

// Location statuses.
const (
	LocationOK           StateLocationStatus = "ok"
	LocationProvisioning StateLocationStatus = "provisioning"
	LocationRecovering   StateLocationStatus = "recovering"
	LocationDeleting     StateLocationStatus = "deleting"
	LocationError        StateLocationStatus = "error"
)

// IsFinal reports whether no further transition is expected without an
// external change. Both ok and error are final; callers that care about
// success must check the status itself.
func (s StateLocationStatus) IsFinal() bool {
	return s == LocationOK || s == LocationError
}

// IsDeleting reports whether the location is being removed.
func (s StateLocationStatus) IsDeleting() bool {
	return s == LocationDeleting
}

// State is a replicated storage unit.
type State struct {
	// ID is the server assigned identifier.
	ID string `json:"id"`

	// Name is the unique state name.
	Name StateName `json:"name"`

	// Created is the creation timestamp.
	Created time.Time `json:"created"`

	// Modified is the last modification timestamp.
	Modified time.Time `json:"modified"`

	// StorageClass describes the Kubernetes storage class backed by this state.
	// +optional
	StorageClass *StorageClass `json:"storageClass,omitempty"`

	// Locations lists where the state is replicated.
	Locations StateLocations `json:"locations"`

	// Owner is the cluster allowed to write to the state.
	// +optional
	Owner *ClusterName `json:"owner,omitempty"`

	// ProvisioningStatus is the overall provisioning status.
	ProvisioningStatus ProvisioningStatus `json:"provisioningStatus"`

	// AllowedClusters restricts which clusters may use the state.
	// +optional
	AllowedClusters []ClusterName `json:"allowedClusters,omitempty"`

	// Condition is the health indicator.
	Condition Condition `json:"condition"`
}

// IsAvailableIn reports whether the state has an entry for l, regardless of
// that entry's status.
func (s *State) IsAvailableIn(l location.Location) bool {
	return s.Locations.Contains(l)
}

// IsOwnedBy reports whether cluster owns the state.
func (s *State) IsOwnedBy(cluster ClusterName) bool {
	return s.Owner != nil && *s.Owner == cluster
}

// HasOwner reports whether any cluster owns the state.
func (s *State) HasOwner() bool {
	return s.Owner != nil && *s.Owner != ""
}

// StorageClass describes the storage class created for a state.
type StorageClass struct {
	Name              string `json:"name"`
	VolumeBindingMode string `json:"volumeBindingMode"`
	FsType            string `json:"fsType"`
	MountOptions      string `json:"mountOptions,omitempty"`
}

// StateLocations groups the per-vendor entries of a state.
type StateLocations struct {
	AWS   []StateLocation `json:"aws"`
	Azure []StateLocation `json:"azure"`
}

// StateLocation is a state's presence in one region.
type StateLocation struct {
	// Region is the vendor region code.
	Region string `json:"region"`

	// Status is the provisioning status in this region.
	Status StateLocationStatus `json:"status"`

	// Volumes lists the per-volume replication status.
	Volumes []VolumeLocation `json:"volumes"`

	// PrivateLinkService is the vendor endpoint service, once provisioned.
	// +optional
	PrivateLinkService *PrivateLinkService `json:"privateLinkService,omitempty"`
}

// PrivateLinkService identifies the vendor private endpoint service.
type PrivateLinkService struct {
	ID   string `json:"id"`
	Name string `json:"name,omitempty"`
}

func (l StateLocations) entries(v location.Vendor) []StateLocation {
	switch v {
	case location.VendorAWS:
		return l.AWS
	case location.VendorAzure:
		return l.Azure
	default:
		return nil
	}
}

// Find returns the entry for loc.
func (l StateLocations) Find(loc location.Location) (StateLocation, bool) {
	for _, e := range l.entries(loc.Vendor) {
		if e.Region == loc.Region {
			return e, true
		}
	}
	return StateLocation{}, false
}

// Contains reports whether an entry for loc exists.
func (l StateLocations) Contains(loc location.Location) bool {
	_, ok := l.Find(loc)
	return ok
}

// List returns all locations, AWS first, in server order.
func (l StateLocations) List() []location.Location {
	out := make([]location.Location, 0, len(l.AWS)+len(l.Azure))
	for _, e := range l.AWS {
		out = append(out, location.AWS(e.Region))
	}
	for _, e := range l.Azure {
		out = append(out, location.Azure(e.Region))
	}
	return out
}

// CreateStateDto is the request body for creating a state.
type CreateStateDto struct {
	Name            StateName               `json:"name"`
	StorageClass    *StorageClass           `json:"storageClass,omitempty"`
	Locations       CreateStateLocationsDto `json:"locations"`
	Owner           *ClusterName            `json:"owner,omitempty"`
	AllowedClusters []ClusterName           `json:"allowedClusters,omitempty"`
}

// CreateStateLocationsDto lists the initial locations of a new state.
type CreateStateLocationsDto struct {
	AWS   []RegionDto `json:"aws"`
	Azure []RegionDto `json:"azure"`
}

// RegionDto carries a single region code.
type RegionDto struct {
	Region string `json:"region"`
}

// NewCreateStateDto builds a creation request for name in locs.
func NewCreateStateDto(name StateName, owner *ClusterName, locs []location.Location) CreateStateDto {
	dto := CreateStateDto{
		Name:  name,
		Owner: owner,
		Locations: CreateStateLocationsDto{
			AWS:   []RegionDto{},
			Azure: []RegionDto{},
		},
	}
	for _, l := range location.Dedup(locs) {
		switch l.Vendor {
		case location.VendorAWS:
			dto.Locations.AWS = append(dto.Locations.AWS, RegionDto{Region: l.Region})
		case location.VendorAzure:
			dto.Locations.Azure = append(dto.Locations.Azure, RegionDto{Region: l.Region})
		}
	}
	return dto
}
