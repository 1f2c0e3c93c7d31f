package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ThomasCrouzet/ambari-discovery/internal/ambari"
	"github.com/ThomasCrouzet/ambari-discovery/internal/config"
	"github.com/ThomasCrouzet/ambari-discovery/internal/logging"
	"github.com/ThomasCrouzet/ambari-discovery/internal/metrics"
	"github.com/ThomasCrouzet/ambari-discovery/internal/topology"
	"github.com/ThomasCrouzet/ambari-discovery/internal/ui"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// reportedError marks an error whose message was already printed.
type reportedError struct {
	err error
}

func (e *reportedError) Error() string { return e.err.Error() }
func (e *reportedError) Unwrap() error { return e.err }

// fail prints a styled error on stderr and returns err marked as shown.
func fail(title string, err error, hint string) error {
	ui.Error(title, err.Error(), hint)
	return &reportedError{err: err}
}

// sourceOptions selects where the topology comes from.
type sourceOptions struct {
	test    bool
	fixture string
}

func (o sourceOptions) offline() bool {
	return o.test || o.fixture != ""
}

// run is the state shared by one inventory or discovery invocation.
type run struct {
	cfg     *config.Config
	log     *zap.Logger
	source  ambari.Source
	cluster string
	mgmt    string
	metrics *metrics.Run
}

// startRun loads and checks the config, then builds the logger and the
// topology source. Nothing touches the network before the config is valid.
func startRun(ctx context.Context, mode string, opts sourceOptions) (*run, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fail("Failed to load config", err, "run 'ambari-discovery init' to create a config file")
	}
	if err := cfg.Check(!opts.offline()); err != nil {
		var cerr *config.ConfigError
		if errors.As(err, &cerr) {
			for _, p := range cerr.Problems {
				ui.ValidationErr(p.Field, p.Message, p.Suggestion)
			}
		}
		return nil, fail("Invalid configuration", err, "run 'ambari-discovery validate' for details")
	}

	log, err := logging.New(cfg.LogLevel)
	if err != nil {
		return nil, fail("Failed to create logger", err, "")
	}
	log = log.With(zap.String("run_id", uuid.NewString()), zap.String("mode", mode))

	r := &run{cfg: cfg, log: log, mgmt: cfg.ManagementHost()}

	switch {
	case opts.fixture != "":
		src, err := ambari.LoadFixture(opts.fixture, cfg.ClusterName)
		if err != nil {
			return nil, fail("Failed to load fixture", err, "")
		}
		r.source = src
		log.Debug("using fixture topology", zap.String("path", opts.fixture))
	case opts.test:
		r.source = ambari.Sandbox()
		log.Debug("using sandbox topology")
	default:
		client := ambari.NewClient(cfg.URI, cfg.User, cfg.Password)
		client.Insecure = cfg.Insecure
		client.Timeout = cfg.Timeout
		client.Logger = log
		r.source = client
	}

	r.cluster = cfg.ClusterName
	if r.cluster == "" {
		name, err := r.source.ClusterName(ctx)
		if err != nil {
			return nil, r.apiFailure("Failed to discover cluster name", err)
		}
		r.cluster = name
		log.Debug("discovered cluster name", zap.String("cluster", name))
	}
	r.log = log.With(zap.String("cluster", r.cluster))
	r.metrics = metrics.NewRun(mode, r.cluster)

	return r, nil
}

// apiFailure reports a fatal source error with a hint matched to its kind.
func (r *run) apiFailure(title string, err error) error {
	r.log.Error(title, zap.Error(err))

	hint := ""
	var netErr *ambari.NetworkError
	var httpErr *ambari.HTTPError
	switch {
	case errors.As(err, &netErr):
		hint = "check that uri points at a reachable Ambari server"
	case errors.As(err, &httpErr) && (httpErr.Status == 401 || httpErr.Status == 403):
		hint = "check AMBARI_USER_NAME and AMBARI_USER_PASS"
	case errors.Is(err, ambari.ErrNoCluster):
		hint = "set AMBARI_CLUSTER_NAME or create a cluster in Ambari"
	case errors.Is(err, topology.ErrNormalizationCollision):
		hint = "declare the colliding component as an alias or add an override"
	}
	return fail(title, err, hint)
}

// reportFailures prints every failed sub-query and logs them combined as
// one error. The document is still emitted without the failed branches.
func (r *run) reportFailures(failures []*ambari.HTTPError, combined error) {
	r.metrics.SetFailures(len(failures))
	if combined == nil {
		return
	}
	r.log.Warn("partial topology", zap.Int("failed_requests", len(failures)), zap.Error(combined))
	for _, f := range failures {
		ui.Warn(f.Error())
	}
}

// finish stamps the run as successful and writes the metrics textfile.
func (r *run) finish() {
	if r.cfg.MetricsFile == "" {
		return
	}
	r.metrics.Succeeded(time.Now())
	if err := r.metrics.WriteFile(r.cfg.MetricsFile); err != nil {
		r.log.Warn("writing metrics file", zap.String("path", r.cfg.MetricsFile), zap.Error(err))
		ui.Warn(fmt.Sprintf("could not write metrics to %s: %v", r.cfg.MetricsFile, err))
	}
}

// signalContext is cancelled on SIGINT or SIGTERM.
func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}
