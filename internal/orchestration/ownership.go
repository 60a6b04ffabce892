package orchestration

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-logr/logr"

	v1 "github.com/imamik/statehub/api/v1"
	"github.com/imamik/statehub/internal/controlplane"
)

// ClaimUnownedStates makes cluster the owner of every named state that has
// no owner. States that already have an owner are left alone. It returns
// the states claimed before any error.
func ClaimUnownedStates(ctx context.Context, api controlplane.API, cluster v1.ClusterName, states []v1.StateName, log logr.Logger) ([]v1.StateName, error) {
	var claimed []v1.StateName
	for _, name := range states {
		state, err := api.GetState(ctx, name)
		if err != nil {
			return claimed, fmt.Errorf("failed to get state %s: %w", name, err)
		}

		switch {
		case state.IsOwnedBy(cluster):
			log.V(1).Info("Cluster already owns state", "state", name, "cluster", cluster)
			continue
		case state.HasOwner():
			log.Info("State is owned by another cluster, not claiming it", "state", name, "owner", *state.Owner)
			continue
		}

		log.Info("Claiming state", "state", name, "cluster", cluster)
		if _, err := api.SetOwner(ctx, name, cluster); err != nil {
			return claimed, fmt.Errorf("failed to set owner of state %s: %w", name, err)
		}
		claimed = append(claimed, name)
	}
	return claimed, nil
}

// ConfirmFunc asks the operator a yes or no question.
type ConfirmFunc func(question string) (bool, error)

// UnregisterOptions control RelinquishAndUnregister.
type UnregisterOptions struct {
	// Force skips the confirmation.
	Force bool

	// Confirm is required unless Force is set.
	Confirm ConfirmFunc
}

// UnregisterResult describes an unregistration.
type UnregisterResult struct {
	Cluster  v1.ClusterName `json:"cluster"`
	Released []v1.StateName `json:"released"`
	Aborted  bool           `json:"aborted,omitempty"`
}

// RelinquishAndUnregister releases every state owned by cluster and then
// deletes the cluster record. Releasing is attempted for every owned state
// even if one fails, and the delete is issued in every case once the
// states are known. Declining the confirmation returns an aborted result
// without side effects.
func RelinquishAndUnregister(ctx context.Context, api controlplane.API, cluster v1.ClusterName, opts UnregisterOptions, log logr.Logger) (*UnregisterResult, error) {
	result := &UnregisterResult{Cluster: cluster, Released: []v1.StateName{}}

	if !opts.Force {
		if opts.Confirm == nil {
			return result, errors.New("confirmation required, use --force to skip it")
		}
		ok, err := opts.Confirm(fmt.Sprintf("Unregister cluster %s. Are you sure?", cluster))
		if err != nil {
			return result, fmt.Errorf("failed to confirm: %w", err)
		}
		if !ok {
			result.Aborted = true
			return result, nil
		}
	}

	log.Info("Make sure all the pods using statehub are terminated")
	log.Info("Uninstall helm")

	states, err := api.GetAllStates(ctx)
	if err != nil {
		return result, fmt.Errorf("failed to list states: %w", err)
	}

	var errs []error
	for i := range states {
		state := &states[i]
		if !state.IsOwnedBy(cluster) {
			log.V(1).Info("Skipping state not owned by cluster", "state", state.Name, "cluster", cluster)
			continue
		}
		log.Info("Relinquishing state ownership", "state", state.Name, "cluster", cluster)
		if _, err := api.UnsetOwner(ctx, state.Name); err != nil {
			errs = append(errs, fmt.Errorf("failed to release state %s: %w", state.Name, err))
			continue
		}
		result.Released = append(result.Released, state.Name)
	}

	if err := api.UnregisterCluster(ctx, cluster); err != nil {
		if controlplane.IsClusterIsStateOwner(err) {
			err = fmt.Errorf("cluster %s still owns a state: %w", cluster, err)
		} else {
			err = fmt.Errorf("failed to unregister cluster %s: %w", cluster, err)
		}
		errs = append(errs, err)
	}
	return result, errors.Join(errs...)
}
