package metrics

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunGauges(t *testing.T) {
	r := NewRun("discovery", "c1")
	r.SetHosts(3)
	r.SetTargets("master", 2)
	r.SetTargets("worker", 1)
	r.SetFailures(1)
	r.Succeeded(time.Unix(1700000000, 0))

	assert.Equal(t, 3.0, testutil.ToFloat64(r.hosts))
	assert.Equal(t, 2.0, testutil.ToFloat64(r.targets.WithLabelValues("master")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.failures))
	assert.Equal(t, 1700000000.0, testutil.ToFloat64(r.lastSuccess))

	expected := `
# HELP ambari_discovery_targets Scrape targets emitted per node type.
# TYPE ambari_discovery_targets gauge
ambari_discovery_targets{cluster="c1",mode="discovery",node_type="master"} 2
ambari_discovery_targets{cluster="c1",mode="discovery",node_type="worker"} 1
`
	require.NoError(t, testutil.GatherAndCompare(r.Registry(), strings.NewReader(expected), "ambari_discovery_targets"))
}

func TestWriteFile(t *testing.T) {
	r := NewRun("inventory", "c1")
	r.SetGroups(12)
	r.SetServices(2)

	path := filepath.Join(t.TempDir(), "ambari.prom")
	require.NoError(t, r.WriteFile(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	out := string(data)
	assert.Contains(t, out, `ambari_discovery_groups{cluster="c1",mode="inventory"} 12`)
	assert.Contains(t, out, `ambari_discovery_services{cluster="c1",mode="inventory"} 2`)
	assert.Contains(t, out, "ambari_discovery_run_duration_seconds")
	assert.Contains(t, out, `ambari_discovery_last_success_timestamp_seconds{cluster="c1",mode="inventory"} 0`)
}
