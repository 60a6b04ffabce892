package handlers

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/go-logr/logr"

	v1 "github.com/imamik/statehub/api/v1"
	"github.com/imamik/statehub/internal/config"
	"github.com/imamik/statehub/internal/controlplane"
	"github.com/imamik/statehub/internal/helm"
	"github.com/imamik/statehub/internal/kube"
	"github.com/imamik/statehub/internal/logging"
	"github.com/imamik/statehub/internal/metrics"
	"github.com/imamik/statehub/internal/output"
	"github.com/imamik/statehub/internal/prompt"
	"github.com/imamik/statehub/internal/receipt"
)

// Globals are the flags shared by every command.
type Globals struct {
	JSON        bool
	Verbose     bool
	API         string
	Console     string
	Token       string
	Kubeconfig  string
	KubeContext string
	MetricsFile string
}

// Factory function variables - can be replaced in tests.
var (
	stdout io.Writer = os.Stdout
	stderr io.Writer = os.Stderr
	stdin  io.Reader = os.Stdin
	getenv           = os.Getenv

	configHome = config.Home
	loadConfig = config.Load
	saveConfig = config.Save

	// newAPI creates the management API client.
	newAPI = func(cfg config.Config, log logr.Logger) (controlplane.API, error) {
		return controlplane.New(controlplane.Options{
			BaseURL:   cfg.API,
			Token:     cfg.Token,
			UserAgent: "statehub-cli",
			Logger:    log,
		})
	}

	// newKube creates the Kubernetes client for the selected context.
	newKube = func(g Globals, log logr.Logger) (kube.Client, error) {
		return kube.NewFromKubeconfig(g.Kubeconfig, g.KubeContext, log)
	}

	// defaultClusterName derives a cluster name from the kubeconfig.
	defaultClusterName = func(g Globals) (v1.ClusterName, error) {
		return kube.DefaultClusterName(g.Kubeconfig)
	}

	newExecutor  = helm.NewExecutor
	openReceipts = receipt.Open

	// confirm asks the operator a yes or no question.
	confirm = func(ctx context.Context, question string) (bool, error) {
		return prompt.New(stdin, stderr).Confirm(ctx, question)
	}

	writeMetrics = metrics.WriteFile
)

// session is the per invocation context shared by the handlers.
type session struct {
	globals Globals
	home    string
	cfg     config.Config
	log     logr.Logger
	out     *output.Printer
}

func newSession(g Globals) (*session, error) {
	log := logging.New(logging.Options{
		Verbose: g.Verbose || logging.DebugFromEnv(getenv),
		Out:     stderr,
	})

	home, err := configHome()
	if err != nil {
		return nil, err
	}
	cfg, err := loadConfig(home)
	if err != nil {
		return nil, err
	}
	cfg = config.Resolve(cfg, getenv, config.Overrides{API: g.API, Console: g.Console, Token: g.Token})
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &session{
		globals: g,
		home:    home,
		cfg:     cfg,
		log:     log,
		out:     output.New(stdout, g.JSON),
	}, nil
}

// client creates the management API client without checking the token.
func (s *session) client() (controlplane.API, error) {
	api, err := newAPI(s.cfg, s.log)
	if err != nil {
		return nil, fmt.Errorf("failed to create management API client: %w", err)
	}
	return api, nil
}

// api creates the management API client and rejects an invalid token
// before any other call is made.
func (s *session) api(ctx context.Context) (controlplane.API, error) {
	api, err := s.client()
	if err != nil {
		return nil, err
	}
	if err := controlplane.ValidateAuth(ctx, api); err != nil {
		return nil, err
	}
	return api, nil
}

func (s *session) kube() (kube.Client, error) {
	return newKube(s.globals, s.log)
}

// close writes the metrics file when requested. A metrics failure is
// logged and never replaces err.
func (s *session) close(err error) error {
	if s.globals.MetricsFile == "" {
		return err
	}
	if werr := writeMetrics(s.globals.MetricsFile); werr != nil {
		s.log.Error(werr, "Failed to write metrics", "path", s.globals.MetricsFile)
	}
	return err
}
