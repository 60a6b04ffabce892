package handlers

import (
	"context"
	"errors"
	"fmt"

	v1 "github.com/imamik/statehub/api/v1"
	"github.com/imamik/statehub/internal/location"
	"github.com/imamik/statehub/internal/output"
	"github.com/imamik/statehub/internal/reconciler"
)

// AddLocation makes state available in loc, or in every location of
// cluster when cluster is set.
func AddLocation(ctx context.Context, g Globals, state, loc, cluster string, waitReady bool) (err error) {
	if (loc == "") == (cluster == "") {
		return errors.New("exactly one of a location or --cluster is required")
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
	rec := reconciler.New(api, s.log, s.cfg.ReconcilerOptions())
	name := v1.StateName(state)

	if cluster != "" {
		c, err := api.GetCluster(ctx, v1.ClusterName(cluster))
		if err != nil {
			return fmt.Errorf("failed to get cluster %s: %w", cluster, err)
		}
		outcomes, err := rec.ReconcileAll(ctx, []v1.StateName{name}, c.Locations.List(), waitReady)
		if err != nil {
			return err
		}
		return s.out.Print(outcomes, func() string { return output.Outcomes(outcomes) })
	}

	l, err := location.Parse(loc)
	if err != nil {
		return err
	}
	record, added, err := rec.ExtendIfMissing(ctx, name, l, waitReady)
	if err != nil {
		return err
	}
	if !added {
		s.out.Message("%s is already available in %s", state, l.Qualified())
		return nil
	}
	if waitReady {
		if err := reconciler.CheckReady(name, l, record); err != nil {
			return err
		}
	}
	return s.out.Print(record, func() string { return output.LocationRecord(name, l, record) })
}

// RemoveLocation removes loc from state. A state not available in loc is
// left alone.
func RemoveLocation(ctx context.Context, g Globals, state, loc string) (err error) {
	l, err := location.Parse(loc)
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
	rec := reconciler.New(api, s.log, s.cfg.ReconcilerOptions())

	removed, err := rec.RetractIfAvailable(ctx, v1.StateName(state), l)
	if err != nil {
		return err
	}
	if !removed {
		s.out.Message("%s is not available in %s", state, l.Qualified())
		return nil
	}
	s.out.Message("Removed %s from %s", l.Qualified(), state)
	return nil
}
