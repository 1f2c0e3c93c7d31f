package discovery

import (
	"strings"
	"testing"

	"github.com/ThomasCrouzet/ambari-discovery/internal/topology"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassifyExample(t *testing.T) {
	hosts := topology.HostTopology{
		"h1": {"NAMENODE"},
		"h2": {"DATANODE"},
	}

	master, worker := Classify(hosts, DefaultMasterComponents, []int{9100}, "c1", "mgmt")

	assert.Equal(t, []string{"mgmt:9100", "h1:9100"}, master.Targets)
	assert.Equal(t, []string{"h2:9100"}, worker.Targets)
	assert.Equal(t, map[string]string{"hadoop_cluster": "c1", "node_type": "master"}, master.Labels)
	assert.Equal(t, map[string]string{"hadoop_cluster": "c1", "node_type": "worker"}, worker.Labels)
}

func TestClassifyMultiplePorts(t *testing.T) {
	hosts := topology.HostTopology{
		"w1": {"DATANODE", "NODEMANAGER"},
		"m1": {"ZOOKEEPER_SERVER"},
	}
	c := NewClassifier([]int{9100, 7070})

	master, worker, decisions := c.Classify(hosts, "c1", "mgmt")

	assert.Equal(t, []string{"mgmt:9100", "mgmt:7070", "m1:9100", "m1:7070"}, master.Targets)
	assert.Equal(t, []string{"w1:9100", "w1:7070"}, worker.Targets)
	assert.Equal(t, []Decision{
		{Host: "m1", NodeType: NodeMaster, Matched: "ZOOKEEPER_SERVER"},
		{Host: "w1", NodeType: NodeWorker},
	}, decisions)
}

func TestClassifyRawCaseSensitiveMatch(t *testing.T) {
	hosts := topology.HostTopology{
		"h1": {"namenode"},
		"h2": {"HDFS_CLIENT"},
	}
	master, worker := Classify(hosts, DefaultMasterComponents, []int{9100}, "c1", "mgmt")
	assert.Equal(t, []string{"mgmt:9100"}, master.Targets)
	assert.Equal(t, []string{"h1:9100", "h2:9100"}, worker.Targets)
}

func TestClassifyEmptyComponentsIsWorker(t *testing.T) {
	hosts := topology.HostTopology{"idle": {}}
	_, worker := Classify(hosts, DefaultMasterComponents, []int{9100}, "c1", "mgmt")
	assert.Equal(t, []string{"idle:9100"}, worker.Targets)
}

func TestClassifyManagementHostInTopology(t *testing.T) {
	hosts := topology.HostTopology{
		"mgmt": {"DATANODE"},
		"h1":   {"DATANODE"},
	}
	master, worker := Classify(hosts, DefaultMasterComponents, []int{9100}, "c1", "mgmt")
	assert.Equal(t, []string{"mgmt:9100"}, master.Targets)
	assert.Equal(t, []string{"h1:9100"}, worker.Targets)
}

func TestClassifyTotality(t *testing.T) {
	hosts := topology.HostTopology{
		"a": {"NAMENODE", "DATANODE"},
		"b": {"DATANODE"},
		"c": {},
		"d": {"RESOURCEMANAGER"},
		"e": {"HIVE_SERVER"},
		"f": {"KAFKA_BROKER"},
	}
	ports := []int{9100, 9200}
	master, worker := Classify(hosts, DefaultMasterComponents, ports, "c1", "mgmt")

	hostOf := func(target string) string {
		return target[:strings.LastIndex(target, ":")]
	}
	in := func(group TargetGroup) map[string]int {
		m := make(map[string]int)
		for _, target := range group.Targets {
			m[hostOf(target)]++
		}
		return m
	}
	masters, workers := in(master), in(worker)

	for host := range hosts {
		inMaster := masters[host] > 0
		inWorker := workers[host] > 0
		require.True(t, inMaster != inWorker, "host %s must be in exactly one group", host)
		assert.Equal(t, len(ports), masters[host]+workers[host], "host %s target count", host)
	}
}

func TestClassifyRepeatable(t *testing.T) {
	hosts := topology.HostTopology{"h1": {"NAMENODE"}, "h2": {"DATANODE"}}
	c := NewClassifier([]int{9100})

	m1, w1, _ := c.Classify(hosts, "c1", "mgmt")
	m2, w2, _ := c.Classify(hosts, "c1", "mgmt")
	assert.Equal(t, m1, m2)
	assert.Equal(t, w1, w2)
}

func TestClassifyCustomLabel(t *testing.T) {
	c := NewClassifier([]int{9100})
	c.ClusterLabel = "cluster"
	c.MasterComponents = []string{"KAFKA_BROKER"}

	master, _, _ := c.Classify(topology.HostTopology{"k1": {"KAFKA_BROKER"}}, "prod", "")
	assert.Equal(t, []string{"k1:9100"}, master.Targets)
	assert.Equal(t, "prod", master.Labels["cluster"])
}
