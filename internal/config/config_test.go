package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, env := range envKeys {
		t.Setenv(env, "")
		require.NoError(t, os.Unsetenv(env))
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := LoadFrom(viper.New())
	require.NoError(t, err)

	assert.Equal(t, "admin", cfg.User)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.True(t, cfg.Insecure)
	assert.Equal(t, 30*time.Second, cfg.Timeout)
	assert.Equal(t, []int{9100}, cfg.Ports)
	assert.Equal(t, "hadoop_cluster", cfg.ClusterLabel)
	assert.Equal(t, "json", cfg.Format)
	assert.Contains(t, cfg.MasterComponents, "NAMENODE")
}

func TestLoadEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv("AMBARI_URI", "http://ambari.local:8080")
	t.Setenv("AMBARI_USER_NAME", "ops")
	t.Setenv("AMBARI_USER_PASS", "secret")
	t.Setenv("AMBARI_CLUSTER_NAME", "prod")
	t.Setenv("AMBARI_LOG_LEVEL", "DEBUG")
	t.Setenv("AMBARI_PORTS", "9100,7070")
	t.Setenv("AMBARI_INSECURE", "false")
	t.Setenv("AMBARI_TIMEOUT", "5s")

	cfg, err := LoadFrom(viper.New())
	require.NoError(t, err)

	assert.Equal(t, "http://ambari.local:8080", cfg.URI)
	assert.Equal(t, "ops", cfg.User)
	assert.Equal(t, "secret", cfg.Password)
	assert.Equal(t, "prod", cfg.ClusterName)
	assert.Equal(t, "DEBUG", cfg.LogLevel)
	assert.Equal(t, []int{9100, 7070}, cfg.Ports)
	assert.False(t, cfg.Insecure)
	assert.Equal(t, 5*time.Second, cfg.Timeout)
	assert.Equal(t, "ambari.local", cfg.ManagementHost())
	assert.Empty(t, cfg.Validate(true))
}

func TestLoadFile(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "ambari-discovery.yml")
	content := `uri: https://ambari.example.com:8443
password: hunter2
ports:
  - 9100
  - 9200
master_components:
  - NAMENODE
  - KAFKA_BROKER
format: YAML
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))

	v := viper.New()
	v.SetConfigFile(path)
	require.NoError(t, v.ReadInConfig())

	cfg, err := LoadFrom(v)
	require.NoError(t, err)
	assert.Equal(t, []int{9100, 9200}, cfg.Ports)
	assert.Equal(t, []string{"NAMENODE", "KAFKA_BROKER"}, cfg.MasterComponents)
	assert.Equal(t, "yaml", cfg.Format)
	assert.Equal(t, "ambari.example.com", cfg.ManagementHost())
}

func TestEnvOverridesFile(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "ambari-discovery.yml")
	require.NoError(t, os.WriteFile(path, []byte("cluster_name: from-file\n"), 0600))
	t.Setenv("AMBARI_CLUSTER_NAME", "from-env")

	v := viper.New()
	v.SetConfigFile(path)
	require.NoError(t, v.ReadInConfig())

	cfg, err := LoadFrom(v)
	require.NoError(t, err)
	assert.Equal(t, "from-env", cfg.ClusterName)
}

func TestValidateMissingAPISettings(t *testing.T) {
	cfg := &Config{Ports: []int{9100}, Format: "json", LogLevel: "info", MasterComponents: []string{"NAMENODE"}}

	errs := cfg.Validate(true)
	fields := make(map[string]bool)
	for _, e := range errs {
		fields[e.Field] = true
		assert.NotEmpty(t, e.Suggestion)
	}
	assert.True(t, fields["uri"])
	assert.True(t, fields["user"])
	assert.True(t, fields["password"])
	assert.True(t, fields["timeout"])

	assert.Empty(t, cfg.Validate(false))
}

func TestValidatePorts(t *testing.T) {
	cfg := &Config{Format: "json", LogLevel: "info", MasterComponents: []string{"NAMENODE"}}
	cfg.SetPorts("9100,abc")

	err := cfg.Check(false)
	var cerr *ConfigError
	require.True(t, errors.As(err, &cerr))
	require.Len(t, cerr.Problems, 1)
	assert.Equal(t, "ports", cerr.Problems[0].Field)
	assert.Contains(t, err.Error(), "ports")

	cfg.SetPorts([]any{9100, 9100, 7070})
	assert.NoError(t, cfg.Check(false))
	assert.Equal(t, []int{9100, 7070}, cfg.Ports)
}

func TestValidateFormatAndLevel(t *testing.T) {
	cfg := &Config{Ports: []int{9100}, Format: "toml", LogLevel: "chatty", MasterComponents: []string{"NAMENODE"}}
	errs := cfg.Validate(false)
	require.Len(t, errs, 2)
	assert.Equal(t, "format", errs[0].Field)
	assert.Equal(t, "log_level", errs[1].Field)
}
