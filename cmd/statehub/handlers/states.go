package handlers

import (
	"context"
	"errors"
	"fmt"

	v1 "github.com/imamik/statehub/api/v1"
	"github.com/imamik/statehub/internal/location"
	"github.com/imamik/statehub/internal/output"
)

// ErrNotOwner is returned by UnsetOwner when the state has another owner.
var ErrNotOwner = errors.New("Permission denied, you are not the owner of this state.") //nolint:staticcheck // user facing message

// CreateState creates a state, optionally owned and in initial locations.
func CreateState(ctx context.Context, g Globals, name, owner string, locations []string) (err error) {
	locs, err := location.ParseAll(locations)
	if err != nil {
		return err
	}

	s, err := newSession(g)
	if err != nil {
		return err
	}
	defer func() { err = s.close(err) }()

	api, err := s.api(ctx)
	if err != nil {
		return err
	}

	var ownerName *v1.ClusterName
	if owner != "" {
		c := v1.ClusterName(owner)
		ownerName = &c
	}
	state, err := api.CreateState(ctx, v1.NewCreateStateDto(v1.StateName(name), ownerName, locs))
	if err != nil {
		return fmt.Errorf("failed to create state %s: %w", name, err)
	}
	return s.out.Print(state, func() string { return output.States([]v1.State{*state}) })
}

// DeleteState deletes a state.
func DeleteState(ctx context.Context, g Globals, name string) (err error) {
	s, err := newSession(g)
	if err != nil {
		return err
	}
	defer func() { err = s.close(err) }()

	api, err := s.api(ctx)
	if err != nil {
		return err
	}
	state, err := api.DeleteState(ctx, v1.StateName(name))
	if err != nil {
		return fmt.Errorf("failed to delete state %s: %w", name, err)
	}
	return s.out.Print(state, func() string { return fmt.Sprintf("Deleted state %s", name) })
}

// ListStates prints every state.
func ListStates(ctx context.Context, g Globals) (err error) {
	s, err := newSession(g)
	if err != nil {
		return err
	}
	defer func() { err = s.close(err) }()

	api, err := s.api(ctx)
	if err != nil {
		return err
	}
	states, err := api.GetAllStates(ctx)
	if err != nil {
		return fmt.Errorf("failed to list states: %w", err)
	}
	return s.out.Print(states, func() string { return output.States(states) })
}

// ShowState prints a state with the clusters sharing its locations.
func ShowState(ctx context.Context, g Globals, name string) (err error) {
	s, err := newSession(g)
	if err != nil {
		return err
	}
	defer func() { err = s.close(err) }()

	api, err := s.api(ctx)
	if err != nil {
		return err
	}
	state, err := api.GetState(ctx, v1.StateName(name))
	if err != nil {
		return fmt.Errorf("failed to get state %s: %w", name, err)
	}
	clusters, err := api.GetAllClusters(ctx)
	if err != nil {
		return fmt.Errorf("failed to list clusters: %w", err)
	}

	detail := output.NewStateWithClusters(state, clusters)
	return s.out.Print(detail, func() string { return output.StateDetail(detail) })
}

// SetOwner makes cluster the owner of state.
func SetOwner(ctx context.Context, g Globals, state, cluster string) (err error) {
	s, err := newSession(g)
	if err != nil {
		return err
	}
	defer func() { err = s.close(err) }()

	api, err := s.api(ctx)
	if err != nil {
		return err
	}
	updated, err := api.SetOwner(ctx, v1.StateName(state), v1.ClusterName(cluster))
	if err != nil {
		return fmt.Errorf("failed to set owner of %s: %w", state, err)
	}
	return s.out.Print(updated, func() string { return output.States([]v1.State{*updated}) })
}

// UnsetOwner releases state, provided cluster is its current owner.
func UnsetOwner(ctx context.Context, g Globals, state, cluster string) (err error) {
	s, err := newSession(g)
	if err != nil {
		return err
	}
	defer func() { err = s.close(err) }()

	api, err := s.api(ctx)
	if err != nil {
		return err
	}
	current, err := api.GetState(ctx, v1.StateName(state))
	if err != nil {
		return fmt.Errorf("failed to get state %s: %w", state, err)
	}
	if !current.IsOwnedBy(v1.ClusterName(cluster)) {
		return ErrNotOwner
	}
	updated, err := api.UnsetOwner(ctx, v1.StateName(state))
	if err != nil {
		return fmt.Errorf("failed to unset owner of %s: %w", state, err)
	}
	return s.out.Print(updated, func() string { return output.States([]v1.State{*updated}) })
}
