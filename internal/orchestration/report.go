package orchestration

import (
	"errors"
	"fmt"
	"time"

	v1 "github.com/imamik/statehub/api/v1"
	"github.com/imamik/statehub/internal/helm"
	"github.com/imamik/statehub/internal/location"
	"github.com/imamik/statehub/internal/reconciler"
)

// Step names a registration step.
type Step string

// Registration steps, in execution order.
const (
	StepResolveName       Step = "resolve-name"
	StepDiscoverLocations Step = "discover-locations"
	StepResolveProvider   Step = "resolve-provider"
	StepRegisterCluster   Step = "register-cluster"
	StepExtendStates      Step = "extend-states"
	StepPrepareNamespace  Step = "prepare-namespace"
	StepStoreToken        Step = "store-token"
	StepStoreConfigMap    Step = "store-configmap"
	StepInstallHelm       Step = "install-helm"
	StepClaimOwnership    Step = "claim-ownership"
)

// Steps lists the registration steps in execution order.
func Steps() []Step {
	return []Step{
		StepResolveName,
		StepDiscoverLocations,
		StepResolveProvider,
		StepRegisterCluster,
		StepExtendStates,
		StepPrepareNamespace,
		StepStoreToken,
		StepStoreConfigMap,
		StepInstallHelm,
		StepClaimOwnership,
	}
}

// Prerequisite reports whether the step runs before any remote mutation.
func (s Step) Prerequisite() bool {
	switch s {
	case StepResolveName, StepDiscoverLocations, StepResolveProvider:
		return true
	default:
		return false
	}
}

// StepStatus is the outcome of a step.
type StepStatus string

// Step statuses.
const (
	StatusPending StepStatus = "pending"
	StatusDone    StepStatus = "done"
	StatusSkipped StepStatus = "skipped"
	StatusFailed  StepStatus = "failed"
)

// StepResult describes one step of a registration.
type StepResult struct {
	Step     Step          `json:"step"`
	Status   StepStatus    `json:"status"`
	Message  string        `json:"message,omitempty"`
	Error    string        `json:"error,omitempty"`
	Duration time.Duration `json:"duration,omitempty"`
}

// Report is the structured result of a registration, complete or not.
type Report struct {
	Cluster   v1.ClusterName       `json:"cluster"`
	Provider  v1.Provider          `json:"provider,omitempty"`
	Locations []location.Location  `json:"locations,omitempty"`
	Namespace string               `json:"namespace"`
	Steps     []StepResult         `json:"steps"`
	States    []reconciler.Outcome `json:"states,omitempty"`
	Helm      []helm.Result        `json:"helm,omitempty"`
	Claimed   []v1.StateName       `json:"claimed,omitempty"`
	Resumed   bool                 `json:"resumed,omitempty"`
}

func newReport(namespace string) *Report {
	r := &Report{Namespace: namespace}
	for _, s := range Steps() {
		r.Steps = append(r.Steps, StepResult{Step: s, Status: StatusPending})
	}
	return r
}

func (r *Report) set(step Step, status StepStatus, msg string, err error, d time.Duration) {
	for i := range r.Steps {
		if r.Steps[i].Step != step {
			continue
		}
		r.Steps[i].Status = status
		r.Steps[i].Message = msg
		r.Steps[i].Duration = d
		if err != nil {
			r.Steps[i].Error = err.Error()
		}
	}
}

// Result returns the result of step.
func (r *Report) Result(step Step) StepResult {
	for _, s := range r.Steps {
		if s.Step == step {
			return s
		}
	}
	return StepResult{Step: step, Status: StatusPending}
}

// Failed returns the failed step, if any.
func (r *Report) Failed() (StepResult, bool) {
	for _, s := range r.Steps {
		if s.Status == StatusFailed {
			return s, true
		}
	}
	return StepResult{}, false
}

// StepError identifies the registration step that failed.
type StepError struct {
	Step Step
	Err  error
}

func (e *StepError) Error() string {
	return fmt.Sprintf("%s failed: %v", e.Step, e.Err)
}

func (e *StepError) Unwrap() error {
	return e.Err
}

// FailedStep returns the step named by a *StepError in err.
func FailedStep(err error) (Step, bool) {
	var se *StepError
	if errors.As(err, &se) {
		return se.Step, true
	}
	return "", false
}
