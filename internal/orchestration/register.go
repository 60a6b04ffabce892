package orchestration

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/go-logr/logr"

	v1 "github.com/imamik/statehub/api/v1"
	"github.com/imamik/statehub/internal/controlplane"
	"github.com/imamik/statehub/internal/helm"
	"github.com/imamik/statehub/internal/kube"
	"github.com/imamik/statehub/internal/location"
	"github.com/imamik/statehub/internal/metrics"
	"github.com/imamik/statehub/internal/receipt"
	"github.com/imamik/statehub/internal/reconciler"
)

// Deps are the collaborators of a Registrar.
type Deps struct {
	API  controlplane.API
	Kube kube.Client
	Helm helm.Executor

	// Receipts is optional. Without it registrations cannot be resumed.
	Receipts receipt.Store

	// DefaultClusterName names the cluster when no name is given,
	// typically from the current kubeconfig context.
	DefaultClusterName func() (string, error)

	// Out receives the install commands when helm is skipped. Nil
	// discards them.
	Out io.Writer

	Reconciler reconciler.Options
	Log        logr.Logger
}

// RegisterOptions describe a registration.
type RegisterOptions struct {
	// Name is optional; see Deps.DefaultClusterName.
	Name v1.ClusterName

	// Provider is optional and detected from the nodes when empty.
	Provider v1.Provider

	// States to extend to the cluster locations. Empty skips the step.
	States []v1.StateName

	// Wait for every added location to finish provisioning.
	Wait bool

	// DefaultStorageClass is the state backing the default storage class.
	DefaultStorageClass string

	Namespace string

	// SkipHelm leaves chart installation to the operator.
	SkipHelm bool

	// ClaimOwnership makes the cluster the owner of unowned States.
	ClaimOwnership bool

	// Resume skips steps recorded as completed by a previous run.
	Resume bool
}

// Registrar runs cluster registrations.
type Registrar struct {
	api         controlplane.API
	kube        kube.Client
	helm        helm.Executor
	receipts    receipt.Store
	defaultName func() (string, error)
	reconciler  *reconciler.Reconciler
	out         io.Writer
	log         logr.Logger
}

// NewRegistrar creates a Registrar.
func NewRegistrar(d Deps) *Registrar {
	out := d.Out
	if out == nil {
		out = io.Discard
	}
	return &Registrar{
		api:         d.API,
		kube:        d.Kube,
		helm:        d.Helm,
		receipts:    d.Receipts,
		defaultName: d.DefaultClusterName,
		reconciler:  reconciler.New(d.API, d.Log, d.Reconciler),
		out:         out,
		log:         d.Log,
	}
}

// registration carries the data flowing between steps.
type registration struct {
	opts      RegisterOptions
	report    *Report
	name      v1.ClusterName
	locations []location.Location
	provider  v1.Provider
	cluster   *v1.Cluster
	receipt   *receipt.Receipt
}

type phase struct {
	step Step
	run  func(ctx context.Context, reg *registration) (StepStatus, string, error)

	// resume runs instead of run when a receipt marks the step done.
	resume func(ctx context.Context, reg *registration) error

	// tolerated failures are reported but the later steps still run.
	tolerated bool
}

func (r *Registrar) phases() []phase {
	return []phase{
		{step: StepResolveName, run: r.resolveName},
		{step: StepDiscoverLocations, run: r.discoverLocations},
		{step: StepResolveProvider, run: r.resolveProvider},
		{step: StepRegisterCluster, run: r.registerCluster, resume: r.fetchCluster},
		{step: StepExtendStates, run: r.extendStates},
		{step: StepPrepareNamespace, run: r.prepareNamespace},
		{step: StepStoreToken, run: r.storeToken},
		{step: StepStoreConfigMap, run: r.storeConfigMap},
		{step: StepInstallHelm, run: r.installHelm, tolerated: true},
		{step: StepClaimOwnership, run: r.claimOwnership},
	}
}

// Register runs the registration steps in order. The returned report is
// never nil and describes every step, including the failed one; the error
// is a *StepError naming it. A helm failure does not stop the ownership
// claim, its error is returned once the remaining steps ran.
func (r *Registrar) Register(ctx context.Context, opts RegisterOptions) (*Report, error) {
	if opts.Namespace == "" {
		opts.Namespace = kube.DefaultNamespace
	}
	reg := &registration{opts: opts, report: newReport(opts.Namespace)}

	if err := controlplane.ValidateAuth(ctx, r.api); err != nil {
		return reg.report, err
	}

	var tolerated error
	for _, p := range r.phases() {
		start := time.Now()

		if reg.receipt != nil && reg.receipt.Done(string(p.step)) {
			if p.resume != nil {
				if err := p.resume(ctx, reg); err != nil {
					return reg.report, r.fail(reg, p.step, err, time.Since(start))
				}
			}
			r.log.Info("Skipping completed step", "step", p.step)
			reg.report.set(p.step, StatusSkipped, "completed by a previous run", nil, time.Since(start))
			metrics.RecordRegistrationStep(string(p.step), string(StatusSkipped))
			continue
		}

		status, msg, err := p.run(ctx, reg)
		if err != nil {
			stepErr := r.fail(reg, p.step, err, time.Since(start))
			if !p.tolerated {
				return reg.report, stepErr
			}
			tolerated = stepErr
			continue
		}

		reg.report.set(p.step, status, msg, nil, time.Since(start))
		metrics.RecordRegistrationStep(string(p.step), string(status))
		if status == StatusDone && !p.step.Prerequisite() {
			r.saveReceipt(ctx, reg, p.step)
		}
	}

	if tolerated != nil {
		return reg.report, tolerated
	}
	r.deleteReceipt(ctx, reg.name)
	return reg.report, nil
}

func (r *Registrar) fail(reg *registration, step Step, err error, d time.Duration) error {
	r.log.Error(err, "Registration step failed", "step", step, "cluster", reg.name)
	reg.report.set(step, StatusFailed, "", err, d)
	metrics.RecordRegistrationStep(string(step), string(StatusFailed))
	return &StepError{Step: step, Err: err}
}

func (r *Registrar) resolveName(ctx context.Context, reg *registration) (StepStatus, string, error) {
	name := reg.opts.Name
	source := "given"
	if name == "" {
		if r.defaultName == nil {
			return "", "", errors.New("no cluster name given and no Kubernetes context to derive one from")
		}
		derived, err := r.defaultName()
		if err != nil {
			return "", "", fmt.Errorf("no cluster name given and none could be derived from the Kubernetes context: %w", err)
		}
		if derived == "" {
			return "", "", errors.New("no cluster name given and the Kubernetes context has no name")
		}
		name = v1.ClusterName(derived)
		source = "from kubeconfig"
	}
	reg.name = name
	reg.report.Cluster = name

	if err := r.openReceipt(ctx, reg); err != nil {
		return "", "", err
	}
	return StatusDone, fmt.Sprintf("%s (%s)", name, source), nil
}

func (r *Registrar) discoverLocations(ctx context.Context, reg *registration) (StepStatus, string, error) {
	locs, err := r.kube.CollectNodeLocations(ctx)
	if err != nil {
		return "", "", err
	}
	if len(locs) == 0 {
		return "", "", errors.New("no node locations found")
	}
	reg.locations = locs
	reg.report.Locations = locs
	return StatusDone, location.Join(locs), nil
}

func (r *Registrar) resolveProvider(ctx context.Context, reg *registration) (StepStatus, string, error) {
	provider := reg.opts.Provider
	source := "given"
	if provider == "" {
		detected, err := r.kube.GetClusterProvider(ctx, reg.name)
		if err != nil {
			return "", "", fmt.Errorf("failed to detect provider: %w", err)
		}
		provider = detected
		source = "detected"
	}
	reg.provider = provider
	reg.report.Provider = provider
	return StatusDone, fmt.Sprintf("%s (%s)", provider, source), nil
}

func (r *Registrar) registerCluster(ctx context.Context, reg *registration) (StepStatus, string, error) {
	r.log.Info(fmt.Sprintf("Registering %s cluster %s in %s", reg.provider, reg.name, location.Join(reg.locations)))
	cluster, err := r.api.RegisterCluster(ctx, reg.name, reg.provider, reg.locations)
	if err != nil {
		return "", "", err
	}
	reg.cluster = cluster
	return StatusDone, "", nil
}

func (r *Registrar) fetchCluster(ctx context.Context, reg *registration) error {
	cluster, err := r.api.GetCluster(ctx, reg.name)
	if err != nil {
		return fmt.Errorf("failed to get registered cluster: %w", err)
	}
	reg.cluster = cluster
	return nil
}

func (r *Registrar) extendStates(ctx context.Context, reg *registration) (StepStatus, string, error) {
	if len(reg.opts.States) == 0 {
		r.log.V(1).Info("Skip adding this cluster to any state")
		return StatusSkipped, "no state", nil
	}
	outcomes, err := r.reconciler.ReconcileAll(ctx, reg.opts.States, reg.locations, reg.opts.Wait)
	reg.report.States = outcomes
	if err != nil {
		return "", "", err
	}

	added := 0
	for _, o := range outcomes {
		if !o.Skipped {
			added++
		}
	}
	return StatusDone, fmt.Sprintf("%d location(s) added", added), nil
}

func (r *Registrar) prepareNamespace(ctx context.Context, reg *registration) (StepStatus, string, error) {
	ns, err := r.kube.ValidateNamespace(ctx, reg.opts.Namespace)
	if err != nil {
		return "", "", err
	}
	return StatusDone, ns.Name, nil
}

func (r *Registrar) storeToken(ctx context.Context, reg *registration) (StepStatus, string, error) {
	token, err := r.api.IssueClusterToken(ctx, reg.name)
	if err != nil {
		return "", "", fmt.Errorf("failed to issue cluster token: %w", err)
	}
	secret, err := r.kube.StoreClusterToken(ctx, reg.opts.Namespace, token.Token)
	if err != nil {
		return "", "", err
	}
	return StatusDone, secret.Name, nil
}

func (r *Registrar) storeConfigMap(ctx context.Context, reg *registration) (StepStatus, string, error) {
	cm, err := r.kube.StoreConfigMap(ctx, reg.opts.Namespace, reg.name, reg.opts.DefaultStorageClass, r.api.URL())
	if err != nil {
		return "", "", err
	}
	return StatusDone, cm.Name, nil
}

func (r *Registrar) installHelm(ctx context.Context, reg *registration) (StepStatus, string, error) {
	cmds := helm.BuildCommands(reg.cluster, reg.opts.Namespace, reg.opts.DefaultStorageClass)
	if len(cmds) == 0 {
		return StatusSkipped, "no charts", nil
	}

	if reg.opts.SkipHelm {
		reg.report.Helm = (&helm.PrintExecutor{Out: r.out}).Execute(ctx, cmds)
		return StatusSkipped, "skipped on request", nil
	}

	pending := make([]helm.Command, 0, len(cmds))
	for _, c := range cmds {
		if reg.receipt != nil && reg.receipt.IsInstalled(c.Release) {
			r.log.Info("Skipping chart installed by a previous run", "release", c.Release)
			continue
		}
		pending = append(pending, c)
	}
	if len(pending) == 0 {
		return StatusSkipped, "installed by a previous run", nil
	}

	results := r.helm.Execute(ctx, pending)
	reg.report.Helm = results
	r.saveInstalled(ctx, reg, pending, results)

	if failed := helm.Failed(results); len(failed) > 0 {
		outputs := make([]string, 0, len(failed))
		for _, f := range failed {
			outputs = append(outputs, f.Output())
		}
		return "", "", fmt.Errorf("%d of %d helm commands failed:\n%s", len(failed), len(results), strings.Join(outputs, "\n"))
	}

	installed := 0
	for _, res := range results {
		if res.Success {
			installed++
		}
	}
	if installed == 0 {
		return StatusSkipped, "printed for manual installation", nil
	}
	return StatusDone, fmt.Sprintf("%d chart(s) installed", installed), nil
}

func (r *Registrar) claimOwnership(ctx context.Context, reg *registration) (StepStatus, string, error) {
	if !reg.opts.ClaimOwnership || len(reg.opts.States) == 0 {
		return StatusSkipped, "", nil
	}
	claimed, err := ClaimUnownedStates(ctx, r.api, reg.name, reg.opts.States, r.log)
	reg.report.Claimed = claimed
	if err != nil {
		return "", "", err
	}
	return StatusDone, fmt.Sprintf("%d state(s) claimed", len(claimed)), nil
}
