package output

import (
	"fmt"
	"sort"
	"strings"
	"time"

	v1 "github.com/imamik/statehub/api/v1"
	"github.com/imamik/statehub/internal/helm"
	"github.com/imamik/statehub/internal/location"
	"github.com/imamik/statehub/internal/orchestration"
	"github.com/imamik/statehub/internal/reconciler"
)

// LocationStatus renders a status with a colored marker.
func LocationStatus(s v1.StateLocationStatus) string {
	switch s {
	case v1.LocationOK:
		return okStyle.Render("[v] " + string(s))
	case v1.LocationProvisioning:
		return warningStyle.Render("[+] " + string(s))
	case v1.LocationRecovering:
		return warningStyle.Render("[~] " + string(s))
	case v1.LocationDeleting:
		return dimStyle.Render("[-] " + string(s))
	case v1.LocationError:
		return failedStyle.Render("[x] " + string(s))
	default:
		return string(s)
	}
}

func condition(c v1.Condition) string {
	switch c {
	case v1.ConditionGreen:
		return okStyle.Render("●")
	case v1.ConditionYellow:
		return warningStyle.Render("●")
	case v1.ConditionRed:
		return failedStyle.Render("●")
	default:
		return " "
	}
}

func owner(s *v1.State) string {
	if s.Owner == nil {
		return dimStyle.Render("unowned")
	}
	return "owned by " + string(*s.Owner)
}

func stateLocations(s *v1.State) string {
	parts := make([]string, 0)
	for _, l := range s.Locations.List() {
		entry, _ := s.Locations.Find(l)
		parts = append(parts, fmt.Sprintf("%s (%s)", l.Qualified(), entry.Status))
	}
	if len(parts) == 0 {
		return dimStyle.Render("none")
	}
	return strings.Join(parts, ", ")
}

// States renders one line per state.
func States(states []v1.State) string {
	lines := make([]string, 0, len(states))
	for i := range states {
		s := &states[i]
		lines = append(lines, fmt.Sprintf("%s %-24s %-20s %s", condition(s.Condition), s.Name, owner(s), stateLocations(s)))
	}
	return strings.Join(lines, "\n")
}

// StateWithClusters is a state together with the clusters sharing one of
// its locations.
type StateWithClusters struct {
	*v1.State
	Clusters []v1.ClusterName `json:"clusters"`
}

// NewStateWithClusters selects the clusters running in any state location.
func NewStateWithClusters(state *v1.State, clusters []v1.Cluster) StateWithClusters {
	out := StateWithClusters{State: state, Clusters: []v1.ClusterName{}}
	for _, c := range clusters {
		for _, l := range c.Locations.List() {
			if state.IsAvailableIn(l) {
				out.Clusters = append(out.Clusters, c.Name)
				break
			}
		}
	}
	return out
}

// StateDetail renders a state with its locations, volumes and clusters.
func StateDetail(s StateWithClusters) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s\n", titleStyle.Render("State: "+string(s.Name)))
	fmt.Fprintf(&b, "Id:          %s\n", s.ID)
	fmt.Fprintf(&b, "Owner:       %s\n", owner(s.State))
	fmt.Fprintf(&b, "Condition:   %s %s\n", condition(s.Condition), s.Condition)
	fmt.Fprintf(&b, "Status:      %s\n", s.ProvisioningStatus)
	if s.StorageClass != nil {
		fmt.Fprintf(&b, "StorageClass: %s (%s, %s)\n", s.StorageClass.Name, s.StorageClass.FsType, s.StorageClass.VolumeBindingMode)
	}
	fmt.Fprintf(&b, "Created:     %s\n", humanTime(s.Created))
	fmt.Fprintf(&b, "Modified:    %s\n", humanTime(s.Modified))

	b.WriteString(sectionStyle.Render("Locations:"))
	b.WriteString("\n")
	for _, l := range s.Locations.List() {
		entry, _ := s.Locations.Find(l)
		fmt.Fprintf(&b, "  %-24s %s\n", l.Qualified(), LocationStatus(entry.Status))
	}

	volumes := collectVolumes(s.State)
	if len(volumes) > 0 {
		b.WriteString(sectionStyle.Render("Volumes:"))
		b.WriteString("\n")
		names := make([]string, 0, len(volumes))
		for name := range volumes {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			fmt.Fprintf(&b, "  %s:\n    %s\n", name, strings.Join(volumes[name], ", "))
		}
	}

	b.WriteString(sectionStyle.Render("Clusters:"))
	b.WriteString("\n")
	if len(s.Clusters) == 0 {
		b.WriteString("  " + dimStyle.Render("none"))
	}
	for i, c := range s.Clusters {
		if i > 0 {
			b.WriteString("\n")
		}
		fmt.Fprintf(&b, "  %s", c)
	}
	return b.String()
}

func collectVolumes(s *v1.State) map[string][]string {
	out := map[string][]string{}
	for _, l := range s.Locations.List() {
		entry, _ := s.Locations.Find(l)
		for _, v := range entry.Volumes {
			out[v.Name] = append(out[v.Name], fmt.Sprintf("%s: %s", l.Qualified(), volumeStatus(v.Status)))
		}
	}
	return out
}

func volumeStatus(s v1.LocationVolumeStatus) string {
	if s.Msg == "" {
		return string(s.Value)
	}
	return string(s.Value) + " " + s.Msg
}

// Clusters renders one line per cluster.
func Clusters(clusters []v1.Cluster) string {
	lines := make([]string, 0, len(clusters))
	for _, c := range clusters {
		lines = append(lines, fmt.Sprintf("%-24s [%s]", c.Name, location.Join(c.Locations.List())))
	}
	return strings.Join(lines, "\n")
}

// ClusterWithStates is a cluster together with the states visible from
// its locations.
type ClusterWithStates struct {
	*v1.Cluster
	States []v1.StateName `json:"states"`
}

// NewClusterWithStates selects the states available in any cluster
// location.
func NewClusterWithStates(cluster *v1.Cluster, states []v1.State) ClusterWithStates {
	out := ClusterWithStates{Cluster: cluster, States: []v1.StateName{}}
	locs := cluster.Locations.List()
	for i := range states {
		for _, l := range locs {
			if states[i].IsAvailableIn(l) {
				out.States = append(out.States, states[i].Name)
				break
			}
		}
	}
	return out
}

// ClusterDetail renders a cluster with its helm install commands.
func ClusterDetail(c ClusterWithStates, namespace string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s\n", titleStyle.Render("Cluster: "+string(c.Name)))
	fmt.Fprintf(&b, "Id:          %s\n", c.ID)
	fmt.Fprintf(&b, "Locations:   %s\n", location.Join(c.Locations.List()))
	fmt.Fprintf(&b, "Created:     %s\n", humanTime(c.Created))
	fmt.Fprintf(&b, "Modified:    %s\n", humanTime(c.Modified))
	b.WriteString(sectionStyle.Render("Helm install:"))
	b.WriteString("\n")
	for _, cmd := range helm.BuildCommands(c.Cluster, namespace, "") {
		fmt.Fprintf(&b, "  %s\n", cmd)
	}
	b.WriteString(sectionStyle.Render("Visible states:"))
	b.WriteString("\n")
	names := make([]string, 0, len(c.States))
	for _, s := range c.States {
		names = append(names, string(s))
	}
	b.WriteString("    " + strings.Join(names, " "))
	return b.String()
}

// Volumes renders one line per volume.
func Volumes(volumes []v1.Volume) string {
	lines := make([]string, 0, len(volumes))
	for _, v := range volumes {
		active := v.ActiveLocation
		if active == "" {
			active = "None"
		}
		line := fmt.Sprintf("%-32s %8d GiB active: %s", v.Name, v.SizeGi, active)
		if p := progress(v); p != "" {
			line += " (" + p + ")"
		}
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n")
}

func progress(v v1.Volume) string {
	for _, l := range v.Locations {
		if l.Progress != nil && l.Progress.BytesTotal > 0 {
			pct := 100 * l.Progress.BytesSynchronized / l.Progress.BytesTotal
			return fmt.Sprintf("%s %d%% done", volumeStatus(l.Status), pct)
		}
	}
	return ""
}

// VolumeDetail renders a volume with its per-location status.
func VolumeDetail(v *v1.Volume) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s\n", titleStyle.Render("Volume: "+string(v.Name)))
	fmt.Fprintf(&b, "Size:        %d GiB\n", v.SizeGi)
	fmt.Fprintf(&b, "FS Type:     %s\n", v.FsType)
	fmt.Fprintf(&b, "Active:      %s\n", v.ActiveLocation)
	fmt.Fprintf(&b, "Created:     %s\n", humanTime(v.Created))
	b.WriteString(sectionStyle.Render("Locations:"))
	for _, l := range v.Locations {
		fmt.Fprintf(&b, "\n  %-24s %s", l.Name, LocationStatus(l.Status.Value))
		if l.Status.Msg != "" {
			b.WriteString(" " + l.Status.Msg)
		}
	}
	return b.String()
}

// Regions renders nodes grouped by region or zone.
func Regions(regions map[string][]string) string {
	keys := make([]string, 0, len(regions))
	for k := range regions {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	lines := make([]string, 0, len(keys))
	for _, k := range keys {
		label := k
		if label == "" {
			label = "No region"
		}
		lines = append(lines, fmt.Sprintf("%s:    %s", label, strings.Join(regions[k], ", ")))
	}
	return strings.Join(lines, "\n")
}

// LocationRecord renders the result of adding or removing a location.
func LocationRecord(state v1.StateName, loc location.Location, rec *v1.StateLocation) string {
	if rec == nil {
		return fmt.Sprintf("%s %s", state, loc.Qualified())
	}
	return fmt.Sprintf("%s %s %s", state, loc.Qualified(), LocationStatus(rec.Status))
}

// Outcomes renders reconciliation outcomes.
func Outcomes(outcomes []reconciler.Outcome) string {
	lines := make([]string, 0, len(outcomes))
	for _, o := range outcomes {
		status := LocationStatus(o.Status)
		if o.Skipped {
			status = dimStyle.Render("already available")
		}
		lines = append(lines, fmt.Sprintf("  %-16s %-24s %s", o.State, o.Location.Qualified(), status))
	}
	return strings.Join(lines, "\n")
}

// Report renders a registration report, one line per step.
func Report(r *orchestration.Report) string {
	var b strings.Builder
	title := "Cluster registration"
	if r.Cluster != "" {
		title += ": " + string(r.Cluster)
	}
	if r.Resumed {
		title += " (resumed)"
	}
	b.WriteString(titleStyle.Render(title))
	b.WriteString("\n")

	for _, s := range r.Steps {
		line := fmt.Sprintf("%s %-20s", stepMark(s.Status), s.Step)
		if s.Message != "" {
			line += " " + s.Message
		}
		if s.Error != "" {
			line += " " + failedStyle.Render(firstLine(s.Error))
		}
		b.WriteString(line)
		b.WriteString("\n")
	}

	if len(r.States) > 0 {
		b.WriteString(sectionStyle.Render("States:"))
		b.WriteString("\n")
		b.WriteString(Outcomes(r.States))
		b.WriteString("\n")
	}
	for _, c := range r.Claimed {
		fmt.Fprintf(&b, "Claimed ownership of %s\n", c)
	}
	for _, h := range r.Helm {
		b.WriteString(h.Output())
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

func stepMark(s orchestration.StepStatus) string {
	switch s {
	case orchestration.StatusDone:
		return okStyle.Render(checkMark)
	case orchestration.StatusFailed:
		return failedStyle.Render(crossMark)
	case orchestration.StatusSkipped:
		return dimStyle.Render(skipMark)
	default:
		return dimStyle.Render(pending)
	}
}

// Unregister renders an unregistration result.
func Unregister(r *orchestration.UnregisterResult) string {
	if r.Aborted {
		return "Aborted"
	}
	var b strings.Builder
	for _, s := range r.Released {
		fmt.Fprintf(&b, "Relinquished ownership of %s\n", s)
	}
	fmt.Fprintf(&b, "Cluster %s unregistered", r.Cluster)
	return b.String()
}

func firstLine(s string) string {
	line, _, _ := strings.Cut(s, "\n")
	return line
}

func humanTime(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	d := time.Since(t).Round(time.Second)
	switch {
	case d < time.Minute:
		return "just now"
	case d < time.Hour:
		return fmt.Sprintf("%d minutes ago", int(d.Minutes()))
	case d < 48*time.Hour:
		return fmt.Sprintf("%d hours ago", int(d.Hours()))
	default:
		return fmt.Sprintf("%d days ago", int(d.Hours()/24))
	}
}
