package reconciler

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-logr/logr"
	"k8s.io/apimachinery/pkg/util/wait"

	v1 "github.com/imamik/statehub/api/v1"
	"github.com/imamik/statehub/internal/controlplane"
	"github.com/imamik/statehub/internal/location"
	"github.com/imamik/statehub/internal/metrics"
)

// DefaultPollInterval is the delay between location status checks.
const DefaultPollInterval = 5 * time.Second

// Options tune a Reconciler.
type Options struct {
	// PollInterval defaults to DefaultPollInterval.
	PollInterval time.Duration

	// WaitTimeout bounds Extend when waiting. Zero waits until the
	// location is final or ctx is done.
	WaitTimeout time.Duration
}

// Reconciler extends and retracts state locations.
type Reconciler struct {
	api  controlplane.API
	log  logr.Logger
	opts Options
}

// New creates a Reconciler.
func New(api controlplane.API, log logr.Logger, opts Options) *Reconciler {
	if opts.PollInterval <= 0 {
		opts.PollInterval = DefaultPollInterval
	}
	return &Reconciler{api: api, log: log, opts: opts}
}

// MissingLocations returns the targets state is not available in, in
// target order.
func MissingLocations(state *v1.State, targets []location.Location) []location.Location {
	var missing []location.Location
	for _, l := range targets {
		if !state.IsAvailableIn(l) {
			missing = append(missing, l)
		}
	}
	return missing
}

// Extend adds loc to the state. With waitReady set it polls the location until
// its status is final and returns the last record seen, which may be in
// error.
func (r *Reconciler) Extend(ctx context.Context, state v1.StateName, loc location.Location, waitReady bool) (*v1.StateLocation, error) {
	ops, err := opsFor(loc)
	if err != nil {
		return nil, err
	}

	r.log.Info("Extending state", "state", state, "location", loc.Qualified())
	rec, err := ops.add(ctx, r.api, state, loc.Region)
	if err != nil {
		return nil, fmt.Errorf("failed to add %s to state %s: %w", loc.Qualified(), state, err)
	}
	if !waitReady {
		return rec, nil
	}
	return r.waitFinal(ctx, ops, state, loc)
}

func (r *Reconciler) waitFinal(ctx context.Context, ops vendorOps, state v1.StateName, loc location.Location) (*v1.StateLocation, error) {
	start := time.Now()
	var last *v1.StateLocation

	condition := func(ctx context.Context) (bool, error) {
		rec, err := ops.get(ctx, r.api, state, loc.Region)
		if err != nil {
			return false, err
		}
		last = rec
		metrics.RecordLocationPoll(string(loc.Vendor), string(rec.Status))
		r.log.V(1).Info("Location status", "state", state, "location", loc.Qualified(), "status", rec.Status)
		return rec.Status.IsFinal(), nil
	}

	var err error
	if r.opts.WaitTimeout > 0 {
		err = wait.PollUntilContextTimeout(ctx, r.opts.PollInterval, r.opts.WaitTimeout, true, condition)
	} else {
		err = wait.PollUntilContextCancel(ctx, r.opts.PollInterval, true, condition)
	}

	switch {
	case err == nil:
		metrics.RecordLocationWait(string(loc.Vendor), string(last.Status), time.Since(start))
		return last, nil
	case wait.Interrupted(err) && ctx.Err() == nil:
		metrics.RecordLocationWait(string(loc.Vendor), "timeout", time.Since(start))
		return last, fmt.Errorf("%s in state %s after %v: %w", loc.Qualified(), state, r.opts.WaitTimeout, ErrWaitTimeout)
	case wait.Interrupted(err):
		metrics.RecordLocationWait(string(loc.Vendor), "cancelled", time.Since(start))
		return last, fmt.Errorf("stopped waiting for %s in state %s: %w", loc.Qualified(), state, ctx.Err())
	default:
		metrics.RecordLocationWait(string(loc.Vendor), "error", time.Since(start))
		return last, fmt.Errorf("failed to get %s of state %s: %w", loc.Qualified(), state, err)
	}
}

// Retract removes loc from the state without waiting.
func (r *Reconciler) Retract(ctx context.Context, state v1.StateName, loc location.Location) error {
	ops, err := opsFor(loc)
	if err != nil {
		return err
	}

	r.log.Info("Removing location", "state", state, "location", loc.Qualified())
	if _, err := ops.remove(ctx, r.api, state, loc.Region); err != nil {
		return fmt.Errorf("failed to remove %s from state %s: %w", loc.Qualified(), state, err)
	}
	return nil
}

// ExtendIfMissing extends the state to loc unless it is already available
// there. It reports whether the location was added.
func (r *Reconciler) ExtendIfMissing(ctx context.Context, state v1.StateName, loc location.Location, waitReady bool) (*v1.StateLocation, bool, error) {
	s, err := r.api.GetState(ctx, state)
	if err != nil {
		return nil, false, fmt.Errorf("failed to get state %s: %w", state, err)
	}
	if s.IsAvailableIn(loc) {
		r.log.Info("State is already available", "state", state, "location", loc.Qualified())
		rec, _ := s.Locations.Find(loc)
		return &rec, false, nil
	}
	rec, err := r.Extend(ctx, state, loc, waitReady)
	return rec, err == nil, err
}

// RetractIfAvailable removes loc from the state only if it is available
// there. It reports whether a removal was requested.
func (r *Reconciler) RetractIfAvailable(ctx context.Context, state v1.StateName, loc location.Location) (bool, error) {
	s, err := r.api.GetState(ctx, state)
	if err != nil {
		return false, fmt.Errorf("failed to get state %s: %w", state, err)
	}
	if !s.IsAvailableIn(loc) {
		r.log.Info("State is not available", "state", state, "location", loc.Qualified())
		return false, nil
	}
	if err := r.Retract(ctx, state, loc); err != nil {
		return false, err
	}
	return true, nil
}

// Outcome is the result of reconciling one location of one state.
type Outcome struct {
	State    v1.StateName           `json:"state"`
	Location location.Location      `json:"location"`
	Skipped  bool                   `json:"skipped,omitempty"`
	Status   v1.StateLocationStatus `json:"status,omitempty"`
	Record   *v1.StateLocation      `json:"-"`
}

// ReconcileAll makes every named state available in targets. States are
// fetched and checked before anything is changed: without waitReady, a state
// missing more than one location rejects the whole batch with a
// *BatchGuardError.
func (r *Reconciler) ReconcileAll(ctx context.Context, states []v1.StateName, targets []location.Location, waitReady bool) ([]Outcome, error) {
	type plan struct {
		name    v1.StateName
		missing []location.Location
	}

	targets = location.Dedup(targets)
	plans := make([]plan, 0, len(states))
	var guard BatchGuardError
	blocked := false

	for _, name := range states {
		state, err := r.api.GetState(ctx, name)
		if err != nil {
			return nil, fmt.Errorf("failed to get state %s: %w", name, err)
		}
		missing := MissingLocations(state, targets)
		if len(missing) > 1 && !waitReady {
			blocked = true
		}
		for _, l := range missing {
			guard.Remediations = append(guard.Remediations, Remediation{State: name, Location: l})
		}
		plans = append(plans, plan{name: name, missing: missing})
	}

	if blocked {
		return nil, &guard
	}

	var outcomes []Outcome
	for _, p := range plans {
		for _, l := range targets {
			if !location.Contains(p.missing, l) {
				r.log.V(1).Info("Location already available", "state", p.name, "location", l.Qualified())
				outcomes = append(outcomes, Outcome{State: p.name, Location: l, Skipped: true})
				continue
			}
			rec, err := r.Extend(ctx, p.name, l, waitReady)
			if err != nil {
				return outcomes, err
			}
			o := Outcome{State: p.name, Location: l, Record: rec}
			if rec != nil {
				o.Status = rec.Status
			}
			outcomes = append(outcomes, o)
			if waitReady {
				if err := CheckReady(p.name, l, rec); err != nil {
					return outcomes, err
				}
			}
		}
	}
	return outcomes, nil
}

// CheckReady returns a *LocationError if rec finished in error.
func CheckReady(state v1.StateName, loc location.Location, rec *v1.StateLocation) error {
	if rec != nil && rec.Status == v1.LocationError {
		return &LocationError{State: state, Location: loc, Status: rec.Status}
	}
	return nil
}

// IsBatchGuard reports whether err is a *BatchGuardError.
func IsBatchGuard(err error) bool {
	var e *BatchGuardError
	return errors.As(err, &e)
}
