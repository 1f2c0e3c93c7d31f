package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/ThomasCrouzet/ambari-discovery/internal/inventory"
	"github.com/ThomasCrouzet/ambari-discovery/internal/render"
	"github.com/ThomasCrouzet/ambari-discovery/internal/ui"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	invList    bool
	invHost    string
	invTest    bool
	invFixture string
	invFormat  string
	invOutput  string
)

var inventoryCmd = &cobra.Command{
	Use:   "inventory",
	Short: "Print an Ansible dynamic inventory of the cluster",
	Long: `Group every host by cluster, service and component and print the result
in the Ansible dynamic inventory format.

Point Ansible at a wrapper that runs 'ambari-discovery inventory "$@"'.
Without --list the command answers a per-host query with {}.`,
	Args: cobra.NoArgs,
	RunE: runInventory,
}

func init() {
	rootCmd.AddCommand(inventoryCmd)

	inventoryCmd.Flags().BoolVar(&invList, "list", false, "print the full inventory")
	inventoryCmd.Flags().StringVar(&invHost, "host", "", "print variables for one host (always {})")
	inventoryCmd.Flags().BoolVar(&invTest, "test", false, "use the built-in sandbox topology instead of the API")
	inventoryCmd.Flags().StringVar(&invFixture, "fixture", "", "read the service topology from a JSON file instead of the API")
	inventoryCmd.Flags().StringVar(&invFormat, "format", "", "output format: json (default), yaml")
	inventoryCmd.Flags().StringVarP(&invOutput, "output", "o", "", "write to a file instead of stdout")
}

func runInventory(cmd *cobra.Command, args []string) error {
	if !invList {
		return render.Write(invOutput, render.HostVars(), os.Stdout)
	}

	ctx, cancel := signalContext()
	defer cancel()

	r, err := startRun(ctx, "inventory", sourceOptions{test: invTest, fixture: invFixture})
	if err != nil {
		return err
	}
	defer func() { _ = r.log.Sync() }()

	format, err := outputFormat(invFormat, r.cfg.Format)
	if err != nil {
		return fail("Invalid format", err, "use json or yaml")
	}

	ui.Step("reading services of " + r.cluster)
	res, err := r.source.Services(ctx, r.cluster)
	if err != nil {
		return r.apiFailure("Failed to read services", err)
	}
	r.reportFailures(res.Failures, res.Err())

	tree, err := inventory.Build(res.Value, r.cluster, r.mgmt)
	if err != nil {
		return r.apiFailure("Failed to build inventory", err)
	}

	out, err := render.Inventory(tree, format)
	if err != nil {
		return fail("Failed to render inventory", err, "")
	}
	if err := render.Write(invOutput, out, os.Stdout); err != nil {
		return fail("Failed to write inventory", err, "")
	}

	r.metrics.SetServices(len(res.Value))
	r.metrics.SetGroups(tree.Len())
	r.metrics.SetHosts(len(tree.Hosts()))
	r.log.Info("inventory written",
		zap.Int("services", len(res.Value)),
		zap.Int("groups", tree.Len()),
		zap.Int("hosts", len(tree.Hosts())),
		zap.Int("failures", len(res.Failures)),
	)
	if invOutput != "" && invOutput != "-" {
		ui.Done("inventory", fmt.Sprintf("%d groups -> %s", tree.Len(), invOutput))
	}
	r.finish()
	return nil
}

// outputFormat prefers the flag over the configured format.
func outputFormat(flag, configured string) (render.Format, error) {
	if flag != "" {
		return render.ParseFormat(strings.ToLower(flag))
	}
	return render.ParseFormat(configured)
}
