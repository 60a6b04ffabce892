package helm

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"strings"

	"github.com/go-logr/logr"
	"helm.sh/helm/v3/pkg/action"
	"helm.sh/helm/v3/pkg/chart"
	"helm.sh/helm/v3/pkg/chart/loader"
	"helm.sh/helm/v3/pkg/cli"
	"helm.sh/helm/v3/pkg/getter"
	"helm.sh/helm/v3/pkg/repo"
	"helm.sh/helm/v3/pkg/strvals"
)

// SDKExecutor installs charts in-process with the Helm SDK, using the
// same kubeconfig and repository settings as the helm binary would.
type SDKExecutor struct {
	settings *cli.EnvSettings
	log      logr.Logger
}

// NewSDKExecutor creates an executor from the helm environment settings.
func NewSDKExecutor(log logr.Logger) *SDKExecutor {
	return &SDKExecutor{settings: cli.New(), log: log}
}

// Execute installs every command, continuing past failures.
func (e *SDKExecutor) Execute(ctx context.Context, cmds []Command) []Result {
	results := make([]Result, 0, len(cmds))
	for _, c := range cmds {
		out, err := e.install(ctx, c)
		r := Result{Command: c.String(), Stdout: out, Success: err == nil}
		if err != nil {
			r.Stderr = err.Error()
		}
		results = append(results, r)
	}
	return results
}

func (e *SDKExecutor) install(ctx context.Context, c Command) (string, error) {
	values, err := ParseValues(c.Set)
	if err != nil {
		return "", err
	}

	cfg := new(action.Configuration)
	debug := func(format string, v ...interface{}) {
		e.log.V(2).Info(strings.TrimSpace(fmt.Sprintf(format, v...)))
	}
	if err := cfg.Init(e.settings.RESTClientGetter(), c.Namespace, os.Getenv("HELM_DRIVER"), debug); err != nil {
		return "", fmt.Errorf("failed to init action config: %w", err)
	}

	install := action.NewInstall(cfg)
	install.ReleaseName = c.Release
	install.Namespace = c.Namespace
	install.RepoURL = c.Repo
	install.Version = c.Version

	ch, err := e.fetchChart(c)
	if err != nil {
		return "", err
	}

	rel, err := install.RunWithContext(ctx, ch, values)
	if err != nil {
		return "", fmt.Errorf("helm install failed: %w", err)
	}
	return fmt.Sprintf("NAME: %s\nNAMESPACE: %s\nSTATUS: %s\nREVISION: %d", rel.Name, rel.Namespace, rel.Info.Status, rel.Version), nil
}

// fetchChart resolves the chart archive through the repository index and
// loads it without touching the local chart cache.
func (e *SDKExecutor) fetchChart(c Command) (*chart.Chart, error) {
	providers := getter.All(e.settings)

	chartURL, err := repo.FindChartInRepoURL(c.Repo, c.Chart, c.Version, "", "", "", providers)
	if err != nil {
		return nil, fmt.Errorf("failed to find chart %s in repo %s: %w", c.Chart, c.Repo, err)
	}

	u, err := url.Parse(chartURL)
	if err != nil {
		return nil, fmt.Errorf("invalid chart url %q: %w", chartURL, err)
	}
	g, err := providers.ByScheme(u.Scheme)
	if err != nil {
		return nil, fmt.Errorf("no getter for chart url %q: %w", chartURL, err)
	}

	buf, err := g.Get(chartURL, getter.WithURL(c.Repo))
	if err != nil {
		return nil, fmt.Errorf("failed to download chart %s: %w", chartURL, err)
	}

	ch, err := loader.LoadArchive(buf)
	if err != nil {
		return nil, fmt.Errorf("failed to load chart: %w", err)
	}
	return ch, nil
}

// ParseValues turns --set expressions into a values map.
func ParseValues(set []string) (map[string]interface{}, error) {
	values := map[string]interface{}{}
	for _, s := range set {
		if err := strvals.ParseInto(s, values); err != nil {
			return nil, fmt.Errorf("failed to parse --set %q: %w", s, err)
		}
	}
	return values, nil
}
