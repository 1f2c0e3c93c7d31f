package wizard

import (
	"os"
	"strings"
)

// DetectionResult holds what was auto-detected on the system.
type DetectionResult struct {
	URI         string
	User        string
	ClusterName string
	// PasswordInEnv is true when AMBARI_USER_PASS is already exported.
	PasswordInEnv bool
	// ExistingConfig is the path of a config file already present.
	ExistingConfig string
	// SDFile is an existing file_sd document in the working directory.
	SDFile string
}

// Detector abstracts environment and filesystem lookups for testing.
type Detector interface {
	LookupEnv(key string) (string, bool)
	Stat(path string) (os.FileInfo, error)
}

// OSDetector uses the real OS for detection.
type OSDetector struct{}

func (OSDetector) LookupEnv(key string) (string, bool)   { return os.LookupEnv(key) }
func (OSDetector) Stat(path string) (os.FileInfo, error) { return os.Stat(path) }

// ConfigPaths are checked in order for an existing config file.
var ConfigPaths = []string{
	"ambari-discovery.yml",
	"ambari-discovery.yaml",
}

// Detect scans the environment for existing Ambari settings.
func Detect(d Detector) DetectionResult {
	if d == nil {
		d = OSDetector{}
	}

	result := DetectionResult{}
	env := func(key string) string {
		v, _ := d.LookupEnv(key)
		return strings.TrimSpace(v)
	}

	result.URI = env("AMBARI_URI")
	result.User = env("AMBARI_USER_NAME")
	result.ClusterName = env("AMBARI_CLUSTER_NAME")
	result.PasswordInEnv = env("AMBARI_USER_PASS") != ""

	for _, p := range ConfigPaths {
		if info, err := d.Stat(p); err == nil && !info.IsDir() {
			result.ExistingConfig = p
			break
		}
	}

	for _, p := range []string{"ambari_sd.json", "ambari_sd.yml"} {
		if info, err := d.Stat(p); err == nil && !info.IsDir() {
			result.SDFile = p
			break
		}
	}

	return result
}
