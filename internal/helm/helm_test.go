package helm

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/go-logr/logr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	v1 "github.com/imamik/statehub/api/v1"
)

func testCluster() *v1.Cluster {
	return &v1.Cluster{
		Name: "prod",
		Helm: []v1.HelmChart{
			{
				Repo:    "https://charts.statehub.io",
				Chart:   "statehub",
				Version: "0.4.2",
				Parameters: map[string]string{
					"region": "us-east-1",
					"image":  "latest",
				},
			},
			{
				Repo:    "https://charts.statehub.io",
				Chart:   "statehub-csi",
				Version: "1.0.0",
			},
		},
	}
}

func TestBuildCommands(t *testing.T) {
	t.Parallel()

	cmds := BuildCommands(testCluster(), "statehub-system", "fast")
	require.Len(t, cmds, 2)

	assert.Equal(t, []string{
		"image=latest",
		"region=us-east-1",
		"cluster.default_storage_class=fast",
		"cluster.name=prod",
	}, cmds[0].Set)
	assert.Equal(t,
		"helm install statehub --namespace statehub-system --repo https://charts.statehub.io --version 0.4.2 statehub"+
			" --set image=latest --set region=us-east-1 --set cluster.default_storage_class=fast --set cluster.name=prod",
		cmds[0].String())

	assert.Equal(t, []string{"cluster.name=prod"}, BuildCommands(testCluster(), "ns", "")[1].Set)
}

func TestBuildCommandsNoCharts(t *testing.T) {
	t.Parallel()
	assert.Empty(t, BuildCommands(&v1.Cluster{Name: "x"}, "ns", ""))
}

func TestResultOutput(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		result Result
		want   string
	}{
		{"success", Result{Command: "helm install a", Stdout: "deployed", Success: true}, "helm install a\ndeployed"},
		{"failure", Result{Command: "helm install a", Stderr: "boom"}, "Running 'helm install a' failed\nboom"},
		{"skipped", Result{Command: "helm install a", Skipped: true}, "helm install a"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.result.Output())
		})
	}
}

func TestFailed(t *testing.T) {
	t.Parallel()

	results := []Result{
		{Command: "a", Success: true},
		{Command: "b"},
		{Command: "c", Skipped: true},
	}
	failed := Failed(results)
	require.Len(t, failed, 1)
	assert.Equal(t, "b", failed[0].Command)
}

func TestPrintExecutor(t *testing.T) {
	t.Parallel()

	var out bytes.Buffer
	e := &PrintExecutor{Out: &out}
	results := e.Execute(context.Background(), BuildCommands(testCluster(), "ns", ""))

	require.Len(t, results, 2)
	for _, r := range results {
		assert.True(t, r.Skipped)
	}
	assert.Contains(t, out.String(), "Manually run\nhelm install statehub")
}

func writeFakeHelm(t *testing.T, script string) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("shell scripts are not supported on windows")
	}
	path := filepath.Join(t.TempDir(), "helm")
	require.NoError(t, os.WriteFile(path, []byte("#!/bin/sh\n"+script), 0o755))
	return path
}

func TestBinaryExecutorContinuesPastFailures(t *testing.T) {
	t.Parallel()

	// Fails for the csi chart only.
	helm := writeFakeHelm(t, `case "$*" in
  *statehub-csi*) echo "chart not found" >&2; exit 1 ;;
  *) echo "STATUS: deployed" ;;
esac
`)
	e := &BinaryExecutor{Binary: helm, Log: logr.Discard()}
	results := e.Execute(context.Background(), BuildCommands(testCluster(), "ns", ""))

	require.Len(t, results, 2)
	assert.True(t, results[0].Success)
	assert.Contains(t, results[0].Stdout, "deployed")
	assert.False(t, results[1].Success)
	assert.Contains(t, results[1].Stderr, "chart not found")
}

func TestParseMode(t *testing.T) {
	t.Parallel()

	m, err := ParseMode("")
	require.NoError(t, err)
	assert.Equal(t, ModeBinary, m)

	m, err = ParseMode("library")
	require.NoError(t, err)
	assert.Equal(t, ModeLibrary, m)

	_, err = ParseMode("tiller")
	assert.Error(t, err)
}

func TestNewExecutorFallsBackToPrint(t *testing.T) {
	orig := lookPath
	t.Cleanup(func() { lookPath = orig })
	lookPath = func(string) (string, error) { return "", errors.New("not found") }

	var out bytes.Buffer
	e := NewExecutor(ModeBinary, &out, logr.Discard())
	_, ok := e.(*PrintExecutor)
	assert.True(t, ok)

	lookPath = func(string) (string, error) { return "/usr/bin/helm", nil }
	_, ok = NewExecutor(ModeBinary, &out, logr.Discard()).(*BinaryExecutor)
	assert.True(t, ok)

	_, ok = NewExecutor(ModeLibrary, &out, logr.Discard()).(*SDKExecutor)
	assert.True(t, ok)
}

func TestParseValues(t *testing.T) {
	t.Parallel()

	values, err := ParseValues([]string{"cluster.name=prod", "replicas=2"})
	require.NoError(t, err)
	assert.Equal(t, map[string]interface{}{
		"cluster":  map[string]interface{}{"name": "prod"},
		"replicas": int64(2),
	}, values)

	_, err = ParseValues([]string{"novalue"})
	assert.Error(t, err)
}
