package cmd

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/ThomasCrouzet/ambari-discovery/internal/ambari"
	"github.com/ThomasCrouzet/ambari-discovery/internal/config"
	"github.com/ThomasCrouzet/ambari-discovery/internal/ui"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var validatePing bool

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate your ambari-discovery.yml configuration",
	Long: `Check that the connection settings, ports, format and log level are valid.
With --ping, also ask the Ambari server for its cluster list.`,
	Args: cobra.NoArgs,
	RunE: runValidate,
}

func init() {
	rootCmd.AddCommand(validateCmd)
	validateCmd.Flags().BoolVar(&validatePing, "ping", false, "query the Ambari API with the configured credentials")
}

func runValidate(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fail("Failed to load config", err, "run 'ambari-discovery init' to create a config file")
	}

	source := "defaults and environment"
	if used := viper.ConfigFileUsed(); used != "" {
		source = used
	}
	fmt.Fprintln(ui.Out, ui.Bold("Validating "+source+"..."))

	errs := cfg.Validate(true)
	bad := make(map[string]bool, len(errs))
	for _, ve := range errs {
		ui.ValidationErr(ve.Field, ve.Message, ve.Suggestion)
		bad[ve.Field] = true
	}

	passed := 0
	for _, check := range []struct{ field, detail string }{
		{"uri", cfg.URI},
		{"user", cfg.User},
		{"password", "set"},
		{"timeout", cfg.Timeout.String()},
		{"ports", joinPorts(cfg.Ports)},
		{"format", cfg.Format},
		{"log_level", cfg.LogLevel},
		{"master_components", strings.Join(cfg.MasterComponents, ", ")},
	} {
		if !bad[check.field] {
			ui.ValidationOK(check.field, check.detail)
			passed++
		}
	}
	failed := len(errs)

	if validatePing && failed == 0 {
		if name, err := ping(cmd.Context(), cfg); err != nil {
			ui.ValidationErr("api", err.Error(), "check uri and credentials")
			failed++
		} else {
			ui.ValidationOK("api", "first cluster is "+name)
			passed++
		}
	}

	fmt.Fprintln(ui.Out)
	if failed == 0 {
		ui.Success(fmt.Sprintf("%d checks passed, 0 errors", passed))
		return nil
	}
	fmt.Fprintf(ui.Out, "%d checks passed, %d errors\n", passed, failed)
	return &reportedError{err: fmt.Errorf("%d validation errors", failed)}
}

func ping(ctx context.Context, cfg *config.Config) (string, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, cancel := context.WithTimeout(ctx, cfg.Timeout+5*time.Second)
	defer cancel()

	client := ambari.NewClient(cfg.URI, cfg.User, cfg.Password)
	client.Insecure = cfg.Insecure
	client.Timeout = cfg.Timeout
	return client.ClusterName(ctx)
}

func joinPorts(ports []int) string {
	parts := make([]string, len(ports))
	for i, p := range ports {
		parts[i] = fmt.Sprint(p)
	}
	return strings.Join(parts, ",")
}
