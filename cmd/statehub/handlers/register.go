package handlers

import (
	"context"
	"fmt"

	v1 "github.com/imamik/statehub/api/v1"
	"github.com/imamik/statehub/internal/helm"
	"github.com/imamik/statehub/internal/orchestration"
	"github.com/imamik/statehub/internal/output"
	"github.com/imamik/statehub/internal/receipt"
)

// DefaultState is the state a cluster joins when none is named.
const DefaultState = "default"

// RegisterClusterOptions are the register-cluster flags.
type RegisterClusterOptions struct {
	Name                  string
	States                []string
	NoState               bool
	DefaultStorageClass   string
	NoDefaultStorageClass bool
	NoStateOwner          bool
	Namespace             string
	SkipHelm              bool
	Provider              string
	Wait                  bool
	Resume                bool
}

// registerOptions applies the register-cluster defaults: the default
// state unless --no-state, and the first state as the default storage
// class unless one is given or --no-default-storage-class is set.
func registerOptions(o RegisterClusterOptions, namespace string) (orchestration.RegisterOptions, error) {
	opts := orchestration.RegisterOptions{
		Name:           v1.ClusterName(o.Name),
		Wait:           o.Wait,
		Namespace:      namespace,
		SkipHelm:       o.SkipHelm,
		ClaimOwnership: !o.NoStateOwner,
		Resume:         o.Resume,
	}
	if o.Namespace != "" {
		opts.Namespace = o.Namespace
	}

	if o.Provider != "" {
		p, err := v1.ParseProvider(o.Provider)
		if err != nil {
			return opts, err
		}
		opts.Provider = p
	}

	states := o.States
	if o.NoState {
		states = nil
	} else if len(states) == 0 {
		states = []string{DefaultState}
	}
	for _, s := range states {
		opts.States = append(opts.States, v1.StateName(s))
	}

	switch {
	case o.NoState || o.NoDefaultStorageClass:
	case o.DefaultStorageClass != "":
		opts.DefaultStorageClass = o.DefaultStorageClass
	case len(states) > 0:
		opts.DefaultStorageClass = states[0]
	}
	return opts, nil
}

// RegisterCluster registers the current Kubernetes cluster and prints the
// per step report, also when a step fails.
func RegisterCluster(ctx context.Context, g Globals, o RegisterClusterOptions) (err error) {
	s, err := newSession(g)
	if err != nil {
		return err
	}
	defer func() { err = s.close(err) }()

	opts, err := registerOptions(o, s.cfg.Register.Namespace)
	if err != nil {
		return err
	}

	api, err := s.client()
	if err != nil {
		return err
	}
	kc, err := s.kube()
	if err != nil {
		return err
	}
	mode, err := helm.ParseMode(s.cfg.Register.HelmMode)
	if err != nil {
		return err
	}

	// Manual install commands must not interleave with the JSON report.
	helmOut := stdout
	if g.JSON {
		helmOut = stderr
	}

	var receipts receipt.Store
	if s.cfg.Register.Receipts != "" {
		receipts, err = openReceipts(ctx, s.cfg.Register.Receipts)
		if err != nil {
			if opts.Resume {
				return fmt.Errorf("failed to open registration receipts: %w", err)
			}
			s.log.Error(err, "Registration receipts disabled")
			receipts = nil
		}
	}

	registrar := orchestration.NewRegistrar(orchestration.Deps{
		API:      api,
		Kube:     kc,
		Helm:     newExecutor(mode, helmOut, s.log),
		Receipts: receipts,
		DefaultClusterName: func() (string, error) {
			name, err := defaultClusterName(g)
			return string(name), err
		},
		Out:        helmOut,
		Reconciler: s.cfg.ReconcilerOptions(),
		Log:        s.log,
	})

	report, regErr := registrar.Register(ctx, opts)
	if perr := s.out.Print(report, func() string { return output.Report(report) }); perr != nil {
		s.log.Error(perr, "Failed to print registration report")
	}
	if regErr != nil {
		if step, ok := orchestration.FailedStep(regErr); ok && receipts != nil && !step.Prerequisite() {
			s.out.Message("Fix the problem and rerun with --resume to continue after the completed steps.")
		}
		return regErr
	}
	return nil
}

// UnregisterCluster releases the states owned by name and removes the
// cluster record.
func UnregisterCluster(ctx context.Context, g Globals, name string, force bool) (err error) {
	s, err := newSession(g)
	if err != nil {
		return err
	}
	defer func() { err = s.close(err) }()

	api, err := s.api(ctx)
	if err != nil {
		return err
	}

	result, err := orchestration.RelinquishAndUnregister(ctx, api, v1.ClusterName(name), orchestration.UnregisterOptions{
		Force: force,
		Confirm: func(question string) (bool, error) {
			return confirm(ctx, question)
		},
	}, s.log)
	if err != nil {
		return err
	}
	return s.out.Print(result, func() string { return output.Unregister(result) })
}
