package handlers

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-logr/logr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	v1 "github.com/imamik/statehub/api/v1"
	"github.com/imamik/statehub/internal/config"
	"github.com/imamik/statehub/internal/controlplane"
	"github.com/imamik/statehub/internal/helm"
	"github.com/imamik/statehub/internal/kube"
	"github.com/imamik/statehub/internal/receipt"
	testutil "github.com/imamik/statehub/internal/testing"
)

const testAPIURL = "https://api.statehub.io"

// saveAndRestoreFactories saves all factory variables and restores them
// after the test completes.
func saveAndRestoreFactories(t *testing.T) {
	t.Helper()
	origStdout := stdout
	origStderr := stderr
	origStdin := stdin
	origGetenv := getenv
	origConfigHome := configHome
	origLoadConfig := loadConfig
	origSaveConfig := saveConfig
	origNewAPI := newAPI
	origNewKube := newKube
	origDefaultClusterName := defaultClusterName
	origNewExecutor := newExecutor
	origOpenReceipts := openReceipts
	origConfirm := confirm
	origWriteMetrics := writeMetrics

	t.Cleanup(func() {
		stdout = origStdout
		stderr = origStderr
		stdin = origStdin
		getenv = origGetenv
		configHome = origConfigHome
		loadConfig = origLoadConfig
		saveConfig = origSaveConfig
		newAPI = origNewAPI
		newKube = origNewKube
		defaultClusterName = origDefaultClusterName
		newExecutor = origNewExecutor
		openReceipts = origOpenReceipts
		confirm = origConfirm
		writeMetrics = origWriteMetrics
	})
}

// testEnv holds the fakes wired into the factory variables.
type testEnv struct {
	api    *testutil.MockAPI
	kube   *testutil.MockKube
	helm   *testutil.MockExecutor
	cfg    config.Config
	home   string
	out    *bytes.Buffer
	errOut *bytes.Buffer
}

func setupEnv(t *testing.T) *testEnv {
	t.Helper()
	saveAndRestoreFactories(t)

	e := &testEnv{
		api:    &testutil.MockAPI{BaseURL: testAPIURL},
		kube:   &testutil.MockKube{},
		helm:   &testutil.MockExecutor{},
		cfg:    config.Default(),
		home:   t.TempDir(),
		out:    &bytes.Buffer{},
		errOut: &bytes.Buffer{},
	}
	e.cfg.Register.PollInterval = time.Millisecond
	e.cfg.Register.Receipts = filepath.Join(e.home, "receipts")

	stdout = e.out
	stderr = e.errOut
	getenv = func(string) string { return "" }
	configHome = func() (string, error) { return e.home, nil }
	loadConfig = func(string) (config.Config, error) { return e.cfg, nil }
	newAPI = func(config.Config, logr.Logger) (controlplane.API, error) { return e.api, nil }
	newKube = func(Globals, logr.Logger) (kube.Client, error) { return e.kube, nil }
	defaultClusterName = func(Globals) (v1.ClusterName, error) { return "from-context", nil }
	newExecutor = func(helm.Mode, io.Writer, logr.Logger) helm.Executor { return e.helm }
	openReceipts = func(_ context.Context, location string) (receipt.Store, error) {
		return &receipt.FileStore{Dir: location}, nil
	}
	confirm = func(context.Context, string) (bool, error) { return true, nil }
	writeMetrics = func(string) error { return nil }
	return e
}

// authorized lets the token check pass.
func (e *testEnv) authorized() {
	e.api.On("GetAllStates", mock.Anything).Return([]v1.State{}, nil).Once()
}

func TestNewSession_AppliesOverrides(t *testing.T) {
	e := setupEnv(t)
	getenv = func(key string) string {
		if key == config.EnvToken {
			return "env-token"
		}
		return ""
	}

	s, err := newSession(Globals{API: "http://localhost:3000", JSON: true})
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:3000", s.cfg.API)
	assert.Equal(t, "env-token", s.cfg.Token)
	assert.Equal(t, e.home, s.home)
	assert.True(t, s.out.JSON())
}

func TestNewSession_InvalidConfig(t *testing.T) {
	e := setupEnv(t)
	e.cfg.Register.HelmMode = "docker"

	_, err := newSession(Globals{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid configuration")
}

func TestNewSession_LoadError(t *testing.T) {
	setupEnv(t)
	loadConfig = func(string) (config.Config, error) { return config.Config{}, errors.New("broken yaml") }

	_, err := newSession(Globals{})
	assert.EqualError(t, err, "broken yaml")
}

func TestSession_APIRejectsInvalidToken(t *testing.T) {
	e := setupEnv(t)
	e.api.On("GetAllStates", mock.Anything).Return(nil, &controlplane.Error{StatusCode: 401, Status: "Unauthorized"})

	err := ListStates(context.Background(), Globals{})
	assert.ErrorIs(t, err, controlplane.ErrUnauthorized)
}

func TestSession_WritesMetricsFile(t *testing.T) {
	e := setupEnv(t)
	e.authorized()
	e.api.On("GetAllStates", mock.Anything).Return([]v1.State{}, nil).Once()

	var written string
	writeMetrics = func(path string) error {
		written = path
		return errors.New("disk full")
	}

	err := ListStates(context.Background(), Globals{MetricsFile: "/tmp/statehub.prom"})
	require.NoError(t, err)
	assert.Equal(t, "/tmp/statehub.prom", written)
	assert.Contains(t, e.errOut.String(), "Failed to write metrics")
}

func TestSaveConfig(t *testing.T) {
	e := setupEnv(t)

	err := SaveConfig(context.Background(), Globals{Token: "flag-token"})
	require.NoError(t, err)

	data, err := os.ReadFile(config.Path(e.home))
	require.NoError(t, err)
	assert.Contains(t, string(data), "token: flag-token")
	assert.Contains(t, e.out.String(), "Configuration saved to")
}
