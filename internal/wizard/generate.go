package wizard

import (
	"bytes"
	"text/template"
)

// WizardAnswers holds all user responses from the wizard.
type WizardAnswers struct {
	// Ambari API
	URI         string
	User        string
	ClusterName string
	Insecure    bool

	// Prometheus discovery
	Ports        []int
	ClusterLabel string

	// Output
	Output      string
	Format      string
	LogLevel    string
	MetricsFile string
}

const configTemplate = `# ambari-discovery configuration
# The password is read from AMBARI_USER_PASS and is never stored here.

uri: {{ .URI }}
user: {{ .User }}
{{- if .ClusterName }}
cluster_name: {{ .ClusterName }}
{{- end }}
insecure: {{ if .Insecure }}true{{ else }}false{{ end }}
log_level: {{ .LogLevel }}

ports:
{{- range .Ports }}
  - {{ . }}
{{- end }}
cluster_label: {{ .ClusterLabel }}

format: {{ .Format }}
{{- if .Output }}
output: {{ .Output }}
{{- end }}
{{- if .MetricsFile }}
metrics_file: {{ .MetricsFile }}
{{- end }}
`

// GenerateConfig renders the YAML config from wizard answers.
func GenerateConfig(answers WizardAnswers) (string, error) {
	// Set defaults
	if answers.User == "" {
		answers.User = "admin"
	}
	if len(answers.Ports) == 0 {
		answers.Ports = []int{9100}
	}
	if answers.ClusterLabel == "" {
		answers.ClusterLabel = "hadoop_cluster"
	}
	if answers.Format == "" {
		answers.Format = "json"
	}
	if answers.LogLevel == "" {
		answers.LogLevel = "info"
	}

	tmpl, err := template.New("config").Parse(configTemplate)
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, answers); err != nil {
		return "", err
	}

	return buf.String(), nil
}
