package wizard

import (
	"fmt"
	"strings"

	"github.com/ThomasCrouzet/ambari-discovery/internal/util"
	"github.com/charmbracelet/huh"
)

// Run executes the interactive wizard and returns the user's answers.
func Run(detection DetectionResult) (*WizardAnswers, error) {
	answers := &WizardAnswers{
		URI:          detection.URI,
		User:         detection.User,
		ClusterName:  detection.ClusterName,
		Insecure:     true,
		ClusterLabel: "hadoop_cluster",
		Format:       "json",
		LogLevel:     "info",
	}
	if answers.User == "" {
		answers.User = "admin"
	}

	// Build detection summary
	var hints []string
	if detection.URI != "" {
		hints = append(hints, fmt.Sprintf("AMBARI_URI: %s", detection.URI))
	}
	if detection.PasswordInEnv {
		hints = append(hints, "AMBARI_USER_PASS is set")
	} else {
		hints = append(hints, "AMBARI_USER_PASS is not set; export it before running")
	}
	if detection.SDFile != "" {
		hints = append(hints, fmt.Sprintf("file_sd document found: %s", detection.SDFile))
	}

	desc := "Connection settings for the Ambari REST API."
	if len(hints) > 0 {
		desc += "\n\nDetected:\n  " + strings.Join(hints, "\n  ")
	}

	portsInput := "9100"

	form := huh.NewForm(
		// Step 1: Ambari API
		huh.NewGroup(
			huh.NewInput().
				Title("Ambari URI").
				Description(desc).
				Placeholder("http://ambari.local:8080").
				Validate(func(s string) error {
					_, err := util.ManagementHost(s)
					return err
				}).
				Value(&answers.URI),
			huh.NewInput().
				Title("Ambari user").
				Value(&answers.User),
			huh.NewInput().
				Title("Cluster name (optional)").
				Description("Leave empty to use the first cluster Ambari reports").
				Value(&answers.ClusterName),
			huh.NewConfirm().
				Title("Skip TLS certificate verification?").
				Value(&answers.Insecure),
		),
		// Step 2: Prometheus discovery
		huh.NewGroup(
			huh.NewInput().
				Title("Exporter ports").
				Description("Comma separated, one target per host and port").
				Validate(func(s string) error {
					_, err := util.ParsePorts(s)
					return err
				}).
				Value(&portsInput),
			huh.NewInput().
				Title("Cluster label name").
				Value(&answers.ClusterLabel),
		),
		// Step 3: Output
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Output format").
				Options(
					huh.NewOption("JSON", "json"),
					huh.NewOption("YAML", "yaml"),
				).
				Value(&answers.Format),
			huh.NewInput().
				Title("Default output file (optional)").
				Description("Leave empty to write to stdout").
				Value(&answers.Output),
			huh.NewInput().
				Title("Metrics textfile (optional)").
				Description("node_exporter textfile collector path").
				Value(&answers.MetricsFile),
			huh.NewSelect[string]().
				Title("Log level").
				Options(
					huh.NewOption("Debug", "debug"),
					huh.NewOption("Info", "info"),
					huh.NewOption("Warning", "warning"),
					huh.NewOption("Error", "error"),
				).
				Value(&answers.LogLevel),
		),
	)

	if err := form.Run(); err != nil {
		return nil, err
	}

	ports, err := util.ParsePorts(portsInput)
	if err != nil {
		return nil, err
	}
	answers.Ports = ports

	return answers, nil
}
