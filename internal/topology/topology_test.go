package topology

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestServiceTopologyAddHost(t *testing.T) {
	st := ServiceTopology{}
	st.AddHost("HDFS", "NAMENODE", "h1")
	st.AddHost("HDFS", "NAMENODE", "h2")
	st.AddHost("HDFS", "NAMENODE", "h1")
	st.AddComponent("HDFS", "HDFS_CLIENT")
	st.AddComponent("HDFS", "NAMENODE")

	assert.Equal(t, []string{"h1", "h2"}, st["HDFS"]["NAMENODE"])
	assert.Equal(t, []string{}, st["HDFS"]["HDFS_CLIENT"])
}

func TestServicesSorted(t *testing.T) {
	st := ServiceTopology{"YARN": {}, "HDFS": {}, "AMBARI_INFRA": {}}
	assert.Equal(t, []string{"AMBARI_INFRA", "HDFS", "YARN"}, st.Services())
}

func TestHostTopology(t *testing.T) {
	ht := HostTopology{}
	ht.AddComponent("h2", "DATANODE")
	ht.AddComponent("h1", "NAMENODE")
	ht.AddComponent("h1", "NAMENODE")

	assert.Equal(t, []string{"h1", "h2"}, ht.Hosts())
	assert.Equal(t, []string{"NAMENODE"}, ht["h1"])
}

func TestServiceTopologyInvert(t *testing.T) {
	st := ServiceTopology{
		"HDFS":      {"NAMENODE": {"h1"}, "DATANODE": {"h1", "h2"}},
		"ZOOKEEPER": {"ZOOKEEPER_SERVER": {"h2"}},
	}
	st.EnsureService("KAFKA")

	ht := st.HostTopology()
	assert.Equal(t, HostTopology{
		"h1": {"DATANODE", "NAMENODE"},
		"h2": {"DATANODE", "ZOOKEEPER_SERVER"},
	}, ht)
	assert.Contains(t, st, "KAFKA")
	assert.Empty(t, st["KAFKA"])
}
