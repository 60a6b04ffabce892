package helm

import (
	"fmt"
	"sort"
	"strings"

	v1 "github.com/imamik/statehub/api/v1"
)

// Command is a single "helm install" invocation.
type Command struct {
	Release   string
	Chart     string
	Repo      string
	Version   string
	Namespace string
	Set       []string
}

// Args returns the helm arguments, without the binary name.
func (c Command) Args() []string {
	args := []string{
		"install", c.Release,
		"--namespace", c.Namespace,
		"--repo", c.Repo,
		"--version", c.Version,
		c.Chart,
	}
	for _, s := range c.Set {
		args = append(args, "--set", s)
	}
	return args
}

// String renders the command line.
func (c Command) String() string {
	return "helm " + strings.Join(c.Args(), " ")
}

// BuildCommands returns one install command per chart declared on cluster.
// Chart parameters are passed in key order, followed by the default storage
// class (when set) and the cluster name.
func BuildCommands(cluster *v1.Cluster, namespace, defaultStorageClass string) []Command {
	cmds := make([]Command, 0, len(cluster.Helm))
	for _, chart := range cluster.Helm {
		keys := make([]string, 0, len(chart.Parameters))
		for k := range chart.Parameters {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		set := make([]string, 0, len(keys)+2)
		for _, k := range keys {
			set = append(set, fmt.Sprintf("%s=%s", k, chart.Parameters[k]))
		}
		if defaultStorageClass != "" {
			set = append(set, "cluster.default_storage_class="+defaultStorageClass)
		}
		set = append(set, "cluster.name="+string(cluster.Name))

		cmds = append(cmds, Command{
			Release:   chart.Chart,
			Chart:     chart.Chart,
			Repo:      chart.Repo,
			Version:   chart.Version,
			Namespace: namespace,
			Set:       set,
		})
	}
	return cmds
}

// Result is the outcome of one command.
type Result struct {
	Command string `json:"command"`
	Stdout  string `json:"stdout,omitempty"`
	Stderr  string `json:"stderr,omitempty"`
	Success bool   `json:"success"`
	Skipped bool   `json:"skipped,omitempty"`
}

// Output renders the result the way it is shown to the operator.
func (r Result) Output() string {
	switch {
	case r.Skipped:
		return r.Command
	case r.Success:
		return r.Command + "\n" + r.Stdout
	default:
		return fmt.Sprintf("Running '%s' failed\n%s", r.Command, r.Stderr)
	}
}

// Failed returns the results that did not succeed and were not skipped.
func Failed(results []Result) []Result {
	var failed []Result
	for _, r := range results {
		if !r.Success && !r.Skipped {
			failed = append(failed, r)
		}
	}
	return failed
}
