package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/ThomasCrouzet/ambari-discovery/internal/ui"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "ambari-discovery",
	Short: "Ansible inventory and Prometheus targets from an Ambari cluster",
	Long: `ambari-discovery reads the topology of a Hadoop cluster from the Ambari
REST API and renders it either as an Ansible dynamic inventory or as a
Prometheus file_sd target list.

Connection settings come from ambari-discovery.yml, AMBARI_* environment
variables, or flags.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command. Errors already shown to the user are not
// printed twice.
func Execute() error {
	err := rootCmd.Execute()
	var shown *reportedError
	if err != nil && !errors.As(err, &shown) {
		ui.Error("Command failed", err.Error(), "run 'ambari-discovery --help' for usage")
	}
	return err
}

func init() {
	cobra.OnInitialize(initConfig)

	pf := rootCmd.PersistentFlags()
	pf.StringVarP(&cfgFile, "config", "c", "", "config file (default: ambari-discovery.yml)")
	pf.String("log-level", "", "log level: DEBUG, INFO, WARNING, ERROR")
	pf.String("uri", "", "Ambari URI, e.g. http://ambari.local:8080")
	pf.String("ambari_user", "", "Ambari user name")
	pf.String("ambari_pass", "", "Ambari user password")
	pf.String("cluster", "", "cluster name (default: first cluster reported by Ambari)")

	_ = viper.BindPFlag("log_level", pf.Lookup("log-level"))
	_ = viper.BindPFlag("uri", pf.Lookup("uri"))
	_ = viper.BindPFlag("user", pf.Lookup("ambari_user"))
	_ = viper.BindPFlag("password", pf.Lookup("ambari_pass"))
	_ = viper.BindPFlag("cluster_name", pf.Lookup("cluster"))
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("ambari-discovery")
		viper.SetConfigType("yml")
		viper.AddConfigPath(".")
	}

	// explicit AMBARI_* names are bound in config.BindEnv
	viper.SetEnvPrefix("AMBARI")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			fmt.Fprintf(os.Stderr, "Error reading config: %v\n", err)
		}
	}
}
