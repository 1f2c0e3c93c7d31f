package cmd

import (
	"fmt"
	"os"

	"github.com/ThomasCrouzet/ambari-discovery/internal/discovery"
	"github.com/ThomasCrouzet/ambari-discovery/internal/render"
	"github.com/ThomasCrouzet/ambari-discovery/internal/ui"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

const defaultSDFile = "ambari_sd.json"

var (
	sdFile    string
	sdTest    bool
	sdFixture string
	sdFormat  string
)

var discoveryCmd = &cobra.Command{
	Use:   "discovery",
	Short: "Write a Prometheus file_sd target list for the cluster",
	Long: `Classify every cluster host as master or worker by the components it runs
and write one target per host and exporter port to a Prometheus file_sd
document. The Ambari server host is always a master target.

The file is replaced atomically; use --file - to print to stdout.`,
	Args: cobra.NoArgs,
	RunE: runDiscovery,
}

func init() {
	rootCmd.AddCommand(discoveryCmd)

	discoveryCmd.Flags().StringVar(&sdFile, "file", "", "where to store the file_sd document (default: "+defaultSDFile+")")
	discoveryCmd.Flags().String("ports", "9100", "comma separated list of exporter ports")
	discoveryCmd.Flags().BoolVar(&sdTest, "test", false, "use the built-in sandbox topology instead of the API")
	discoveryCmd.Flags().StringVar(&sdFixture, "fixture", "", "read the service topology from a JSON file instead of the API")
	discoveryCmd.Flags().StringVar(&sdFormat, "format", "", "output format: json (default), yaml")

	_ = viper.BindPFlag("ports", discoveryCmd.Flags().Lookup("ports"))
}

func runDiscovery(cmd *cobra.Command, args []string) error {
	ctx, cancel := signalContext()
	defer cancel()

	r, err := startRun(ctx, "discovery", sourceOptions{test: sdTest, fixture: sdFixture})
	if err != nil {
		return err
	}
	defer func() { _ = r.log.Sync() }()

	format, err := outputFormat(sdFormat, r.cfg.Format)
	if err != nil {
		return fail("Invalid format", err, "use json or yaml")
	}

	path := sdFile
	if path == "" {
		path = r.cfg.Output
	}
	if path == "" {
		path = defaultSDFile
	}

	ui.Step("reading hosts of " + r.cluster)
	res, err := r.source.HostComponents(ctx, r.cluster)
	if err != nil {
		return r.apiFailure("Failed to read hosts", err)
	}
	r.reportFailures(res.Failures, res.Err())

	classifier := &discovery.Classifier{
		MasterComponents: r.cfg.MasterComponents,
		Ports:            r.cfg.Ports,
		ClusterLabel:     r.cfg.ClusterLabel,
	}
	master, worker, decisions := classifier.Classify(res.Value, r.cluster, r.mgmt)
	for _, d := range decisions {
		r.log.Debug(fmt.Sprintf("%s identified as %s", d.Host, d.NodeType),
			zap.String("host", d.Host),
			zap.String("matched", d.Matched),
		)
	}

	out, err := render.TargetGroups([]discovery.TargetGroup{master, worker}, format)
	if err != nil {
		return fail("Failed to render targets", err, "")
	}
	if err := render.Write(path, out, os.Stdout); err != nil {
		return fail("Failed to write targets", err, "check that the directory exists and is writable")
	}

	r.metrics.SetHosts(len(res.Value))
	r.metrics.SetTargets(string(discovery.NodeMaster), len(master.Targets))
	r.metrics.SetTargets(string(discovery.NodeWorker), len(worker.Targets))
	r.log.Info("targets written",
		zap.String("file", path),
		zap.Int("master_targets", len(master.Targets)),
		zap.Int("worker_targets", len(worker.Targets)),
		zap.Int("failures", len(res.Failures)),
	)
	if path != "-" {
		ui.Done("discovery", fmt.Sprintf("%d master and %d worker targets -> %s", len(master.Targets), len(worker.Targets), path))
	}
	r.finish()
	return nil
}
