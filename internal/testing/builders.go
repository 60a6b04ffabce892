package testing

import (
	v1 "github.com/imamik/statehub/api/v1"
)

// StateBuilder provides a fluent interface for constructing test states.
// Each method returns a new builder (immutable) for chaining.
type StateBuilder struct {
	state v1.State
}

// NewState creates a builder for an unowned green state with no locations.
func NewState(name v1.StateName) *StateBuilder {
	return &StateBuilder{
		state: v1.State{
			ID:                 "id-" + string(name),
			Name:               name,
			Condition:          v1.ConditionGreen,
			ProvisioningStatus: v1.ProvisioningReady,
			Locations: v1.StateLocations{
				AWS:   []v1.StateLocation{},
				Azure: []v1.StateLocation{},
			},
		},
	}
}

// WithOwner sets the owning cluster.
func (b *StateBuilder) WithOwner(cluster v1.ClusterName) *StateBuilder {
	nb := b.clone()
	nb.state.Owner = &cluster
	return nb
}

// WithAWS adds an AWS location.
func (b *StateBuilder) WithAWS(region string, status v1.StateLocationStatus) *StateBuilder {
	nb := b.clone()
	nb.state.Locations.AWS = append(nb.state.Locations.AWS, v1.StateLocation{Region: region, Status: status})
	return nb
}

// WithAzure adds an Azure location.
func (b *StateBuilder) WithAzure(region string, status v1.StateLocationStatus) *StateBuilder {
	nb := b.clone()
	nb.state.Locations.Azure = append(nb.state.Locations.Azure, v1.StateLocation{Region: region, Status: status})
	return nb
}

// Build returns a copy of the state.
func (b *StateBuilder) Build() *v1.State {
	s := b.clone().state
	return &s
}

func (b *StateBuilder) clone() *StateBuilder {
	s := b.state
	s.Locations.AWS = append([]v1.StateLocation(nil), b.state.Locations.AWS...)
	s.Locations.Azure = append([]v1.StateLocation(nil), b.state.Locations.Azure...)
	if b.state.Owner != nil {
		owner := *b.state.Owner
		s.Owner = &owner
	}
	return &StateBuilder{state: s}
}
