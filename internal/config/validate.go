package config

import (
	"fmt"
	"strings"

	"github.com/ThomasCrouzet/ambari-discovery/internal/logging"
	"github.com/ThomasCrouzet/ambari-discovery/internal/util"
)

// ValidationError reports a config problem with a suggested fix.
type ValidationError struct {
	Field      string // config key, e.g. "uri"
	Message    string // what's wrong
	Suggestion string // how to fix it
}

// ConfigError is returned when required configuration is missing or invalid.
type ConfigError struct {
	Problems []ValidationError
}

func (e *ConfigError) Error() string {
	parts := make([]string, 0, len(e.Problems))
	for _, p := range e.Problems {
		parts = append(parts, fmt.Sprintf("%s: %s", p.Field, p.Message))
	}
	return "invalid configuration: " + strings.Join(parts, "; ")
}

// Validate checks the config. API settings are only required when the run
// talks to an Ambari server.
func (c *Config) Validate(needAPI bool) []ValidationError {
	var errs []ValidationError

	if needAPI {
		if c.URI == "" {
			errs = append(errs, ValidationError{
				Field:      "uri",
				Message:    "uri is required",
				Suggestion: "set AMBARI_URI or uri in ambari-discovery.yml, e.g. http://ambari.local:8080",
			})
		} else if _, err := util.ManagementHost(c.URI); err != nil {
			errs = append(errs, ValidationError{
				Field:      "uri",
				Message:    err.Error(),
				Suggestion: "use the form http(s)://host:port",
			})
		}
		if c.User == "" {
			errs = append(errs, ValidationError{
				Field:      "user",
				Message:    "user is required",
				Suggestion: "set AMBARI_USER_NAME",
			})
		}
		if c.Password == "" {
			errs = append(errs, ValidationError{
				Field:      "password",
				Message:    "password is required",
				Suggestion: "set AMBARI_USER_PASS",
			})
		}
		if c.Timeout <= 0 {
			errs = append(errs, ValidationError{
				Field:      "timeout",
				Message:    fmt.Sprintf("timeout must be positive, got %s", c.Timeout),
				Suggestion: "use a duration such as 30s",
			})
		}
	}

	if c.portsErr != nil {
		errs = append(errs, ValidationError{
			Field:      "ports",
			Message:    c.portsErr.Error(),
			Suggestion: "use a comma separated list such as 9100,9200",
		})
	} else if len(c.Ports) == 0 {
		errs = append(errs, ValidationError{
			Field:      "ports",
			Message:    "at least one port is required",
			Suggestion: "the node exporter default is 9100",
		})
	}

	if c.Format != "json" && c.Format != "yaml" {
		errs = append(errs, ValidationError{
			Field:      "format",
			Message:    fmt.Sprintf("unknown format %q", c.Format),
			Suggestion: "use json or yaml",
		})
	}

	if _, err := logging.ParseLevel(c.LogLevel); err != nil {
		errs = append(errs, ValidationError{
			Field:      "log_level",
			Message:    err.Error(),
			Suggestion: "use DEBUG, INFO, WARNING or ERROR",
		})
	}

	if len(c.MasterComponents) == 0 {
		errs = append(errs, ValidationError{
			Field:      "master_components",
			Message:    "no master components configured",
			Suggestion: "remove the key to use the defaults",
		})
	}

	return errs
}

// Check is Validate folded into a *ConfigError.
func (c *Config) Check(needAPI bool) error {
	if errs := c.Validate(needAPI); len(errs) > 0 {
		return &ConfigError{Problems: errs}
	}
	return nil
}
