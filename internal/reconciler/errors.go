package reconciler

import (
	"errors"
	"fmt"
	"strings"

	v1 "github.com/imamik/statehub/api/v1"
	"github.com/imamik/statehub/internal/location"
)

// ErrWaitTimeout is returned when a location does not reach a final status
// within the configured wait timeout.
var ErrWaitTimeout = errors.New("timed out waiting for provisioning")

// Remediation is a single state and location pair the operator can add on
// its own.
type Remediation struct {
	State    v1.StateName      `json:"state"`
	Location location.Location `json:"location"`
}

// String renders the arguments for "statehub add-location".
func (r Remediation) String() string {
	return fmt.Sprintf("%s %s", r.State, r.Location.Qualified())
}

// BatchGuardError rejects a batch that would add more than one location to
// a state without waiting for each to finish.
type BatchGuardError struct {
	Remediations []Remediation
}

func (e *BatchGuardError) Error() string {
	var b strings.Builder
	b.WriteString("a state can only be extended to one location at a time without --wait; " +
		"re-run with --wait or add the locations one by one:")
	for _, r := range e.Remediations {
		b.WriteString("\n    statehub add-location ")
		b.WriteString(r.String())
	}
	return b.String()
}

// Lines returns one remediation per line, in state then location order.
func (e *BatchGuardError) Lines() []string {
	lines := make([]string, 0, len(e.Remediations))
	for _, r := range e.Remediations {
		lines = append(lines, r.String())
	}
	return lines
}

// LocationError reports a location that finished provisioning in error.
type LocationError struct {
	State    v1.StateName
	Location location.Location
	Status   v1.StateLocationStatus
}

func (e *LocationError) Error() string {
	return fmt.Sprintf("state %s failed to become available in %s: status %s", e.State, e.Location.Qualified(), e.Status)
}
