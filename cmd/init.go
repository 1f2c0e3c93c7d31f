package cmd

import (
	"fmt"
	"os"

	"github.com/ThomasCrouzet/ambari-discovery/internal/ui"
	"github.com/ThomasCrouzet/ambari-discovery/internal/wizard"
	"github.com/spf13/cobra"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create an ambari-discovery.yml config file interactively",
	Long: `Pick up AMBARI_* settings from the environment and generate a config file
through an interactive wizard. The password is never written to the file.`,
	Args: cobra.NoArgs,
	RunE: runInit,
}

func init() {
	rootCmd.AddCommand(initCmd)
}

func runInit(cmd *cobra.Command, args []string) error {
	configPath := wizard.ConfigPaths[0]

	// Detect environment
	fmt.Fprintln(ui.Out, ui.Bold("Scanning environment..."))
	detection := wizard.Detect(nil)

	if detection.ExistingConfig != "" {
		configPath = detection.ExistingConfig
		fmt.Fprintf(ui.Out, "%s already exists.\n", configPath)
		fmt.Fprint(ui.Out, "Overwrite? [y/N] ")
		var answer string
		_, _ = fmt.Scanln(&answer)
		if answer != "y" && answer != "Y" {
			fmt.Fprintln(ui.Out, "Aborted.")
			return nil
		}
	}

	// Run wizard
	answers, err := wizard.Run(detection)
	if err != nil {
		return fmt.Errorf("wizard: %w", err)
	}

	// Generate config
	content, err := wizard.GenerateConfig(*answers)
	if err != nil {
		return fmt.Errorf("generating config: %w", err)
	}

	// Write config file
	if err := os.WriteFile(configPath, []byte(content), 0600); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}

	ui.Success(fmt.Sprintf("Created %s", configPath))
	fmt.Fprintln(ui.Out)
	fmt.Fprintf(ui.Out, "Next step: %s\n", ui.Bold("ambari-discovery validate --ping"))
	fmt.Fprintf(ui.Out, "           %s\n", ui.Hint("then 'ambari-discovery discovery' or 'ambari-discovery inventory --list'"))

	return nil
}
