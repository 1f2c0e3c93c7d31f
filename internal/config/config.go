package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/ThomasCrouzet/ambari-discovery/internal/discovery"
	"github.com/ThomasCrouzet/ambari-discovery/internal/util"
	"github.com/spf13/viper"
)

type Config struct {
	URI              string        `mapstructure:"uri"`
	User             string        `mapstructure:"user"`
	Password         string        `mapstructure:"password"`
	ClusterName      string        `mapstructure:"cluster_name"`
	LogLevel         string        `mapstructure:"log_level"`
	Insecure         bool          `mapstructure:"insecure"`
	Timeout          time.Duration `mapstructure:"timeout"`
	Ports            []int         `mapstructure:"-"`
	MasterComponents []string      `mapstructure:"master_components"`
	ClusterLabel     string        `mapstructure:"cluster_label"`
	Output           string        `mapstructure:"output"`
	Format           string        `mapstructure:"format"` // json, yaml
	MetricsFile      string        `mapstructure:"metrics_file"`

	portsErr error
}

// envKeys maps config keys to the environment variables that set them.
var envKeys = map[string]string{
	"uri":               "AMBARI_URI",
	"user":              "AMBARI_USER_NAME",
	"password":          "AMBARI_USER_PASS",
	"cluster_name":      "AMBARI_CLUSTER_NAME",
	"log_level":         "AMBARI_LOG_LEVEL",
	"insecure":          "AMBARI_INSECURE",
	"timeout":           "AMBARI_TIMEOUT",
	"ports":             "AMBARI_PORTS",
	"master_components": "AMBARI_MASTER_COMPONENTS",
	"cluster_label":     "AMBARI_CLUSTER_LABEL",
	"output":            "AMBARI_OUTPUT",
	"format":            "AMBARI_FORMAT",
	"metrics_file":      "AMBARI_METRICS_FILE",
}

// BindEnv registers the AMBARI_* environment variables on v.
func BindEnv(v *viper.Viper) {
	for key, env := range envKeys {
		_ = v.BindEnv(key, env)
	}
}

// Load reads the config from the global viper instance.
func Load() (*Config, error) {
	return LoadFrom(viper.GetViper())
}

// LoadFrom reads the config from v on top of the defaults.
func LoadFrom(v *viper.Viper) (*Config, error) {
	BindEnv(v)
	setDefaults(v)

	cfg := &Config{Ports: []int{9100}}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, err
	}

	if v.IsSet("ports") {
		cfg.SetPorts(v.Get("ports"))
	}

	cfg.Format = strings.ToLower(cfg.Format)
	return cfg, nil
}

// setDefaults registers defaults on v. Viper ranks them above the defaults
// of bound flags, so an untouched flag never clears a setting.
func setDefaults(v *viper.Viper) {
	v.SetDefault("user", "admin")
	v.SetDefault("log_level", "info")
	v.SetDefault("insecure", true)
	v.SetDefault("timeout", 30*time.Second)
	v.SetDefault("master_components", append([]string(nil), discovery.DefaultMasterComponents...))
	v.SetDefault("cluster_label", discovery.DefaultClusterLabel)
	v.SetDefault("format", "json")
}

// SetPorts replaces the port list from a string, a list, or an int. A parse
// failure is reported by Validate.
func (c *Config) SetPorts(raw any) {
	var items []string
	switch p := raw.(type) {
	case string:
		items = []string{p}
	case int:
		items = []string{fmt.Sprint(p)}
	case []string:
		items = p
	case []int:
		for _, n := range p {
			items = append(items, fmt.Sprint(n))
		}
	case []any:
		for _, n := range p {
			items = append(items, fmt.Sprint(n))
		}
	default:
		c.portsErr = fmt.Errorf("unsupported ports value %v", raw)
		return
	}

	ports, err := util.ParsePortList(items)
	c.portsErr = err
	if err == nil {
		c.Ports = ports
	}
}

// ManagementHost is the Ambari server host derived from URI.
func (c *Config) ManagementHost() string {
	host, err := util.ManagementHost(c.URI)
	if err != nil {
		return ""
	}
	return host
}
