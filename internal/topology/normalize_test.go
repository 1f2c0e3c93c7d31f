package topology

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		service   string
		component string
		wantSvc   string
		wantComp  string
	}{
		{"HDFS", "NAMENODE", "hdfs", "namenode"},
		{"HDFS", "HDFS_CLIENT", "hdfs", "client"},
		{"PIG", "PIG", "pig", "client"},
		{"SLIDER", "SLIDER", "slider", "client"},
		{"SPARK2", "LIVY2_SERVER", "spark2", "livy2_server"},
		{"SPARK2", "SPARK2_THRIFTSERVER", "spark2", "thriftserver"},
		{"AMBARI_INFRA", "INFRA_SOLR", "ambari_infra", "infra_solr_server"},
		{"AMBARI_INFRA", "INFRA_SOLR_CLIENT", "ambari_infra", "infra_solr_client"},
		{"HIVE", "MYSQL_SERVER", "hive", "mysql_server"},
		{"HDFS", "HDFS_", "hdfs", "hdfs_"},
		{"HDFS", "HDFS_HDFS", "hdfs", "client"},
	}

	n := NewNormalizer()
	for _, tt := range tests {
		t.Run(tt.service+"/"+tt.component, func(t *testing.T) {
			svc, comp := n.Normalize(tt.service, tt.component)
			assert.Equal(t, tt.wantSvc, svc)
			assert.Equal(t, tt.wantComp, comp)
		})
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	n := NewNormalizer()
	inputs := []Pair{
		{"HDFS", "NAMENODE"},
		{"HDFS", "HDFS_CLIENT"},
		{"PIG", "PIG"},
		{"AMBARI_INFRA", "INFRA_SOLR"},
		{"YARN", "YARN_CLIENT"},
		{"HDFS", "HDFS_"},
		{"ZOOKEEPER", "ZOOKEEPER_SERVER"},
		{"HDFS", "HDFS_HDFS_CLIENT"},
		{"KAFKA", "KAFKA_KAFKA_BROKER"},
		{"HDFS", "HDFS_HDFS_"},
	}
	for _, in := range inputs {
		svc, comp := n.Normalize(in.Service, in.Component)
		svc2, comp2 := n.Normalize(svc, comp)
		assert.Equal(t, svc, svc2, "service key for %v", in)
		assert.Equal(t, comp, comp2, "component key for %v", in)
	}
}

func TestNormalizeRepeatedPrefix(t *testing.T) {
	n := NewNormalizer()

	_, comp := n.Normalize("HDFS", "HDFS_HDFS_CLIENT")
	assert.Equal(t, "client", comp)

	_, comp = n.Normalize("KAFKA", "KAFKA_KAFKA_BROKER")
	assert.Equal(t, "broker", comp)
}

func TestNormalizeNilNormalizerSkipsOverrides(t *testing.T) {
	var n *Normalizer
	_, comp := n.Normalize("AMBARI_INFRA", "INFRA_SOLR")
	assert.Equal(t, "infra_solr", comp)
}

func TestNormalizeOverrideTableIsData(t *testing.T) {
	n := NewNormalizer()
	n.Overrides[Pair{Service: "kafka", Component: "kafka_broker"}] = "unused"

	_, comp := n.Normalize("KAFKA", "KAFKA_BROKER")
	assert.Equal(t, "broker", comp, "prefix stripping runs before the lookup")

	n.Overrides[Pair{Service: "kafka", Component: "broker"}] = "broker_server"
	_, comp = n.Normalize("KAFKA", "KAFKA_BROKER")
	assert.Equal(t, "broker_server", comp)

	assert.NotContains(t, DefaultOverrides, Pair{Service: "kafka", Component: "broker"})
}

func TestComponentsCollision(t *testing.T) {
	n := NewNormalizer()

	_, _, err := n.Components("PIG", []string{"PIG", "PIG_CLIENT"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNormalizationCollision))

	var cerr *CollisionError
	require.True(t, errors.As(err, &cerr))
	assert.Equal(t, "PIG", cerr.Scope)
	assert.Equal(t, "client", cerr.Key)
	assert.Equal(t, "PIG", cerr.First)
	assert.Equal(t, "PIG_CLIENT", cerr.Second)
}

func TestComponentsDeclaredAlias(t *testing.T) {
	n := NewNormalizer()
	n.Aliases[Pair{Service: "pig", Component: "client"}] = true

	key, comps, err := n.Components("PIG", []string{"PIG", "PIG_CLIENT"})
	require.NoError(t, err)
	assert.Equal(t, "pig", key)
	assert.Equal(t, []Component{{Raw: "PIG", Key: "client"}, {Raw: "PIG_CLIENT", Key: "client"}}, comps)
}

func TestComponentsDistinctKeys(t *testing.T) {
	n := NewNormalizer()
	key, comps, err := n.Components("HDFS", []string{"DATANODE", "HDFS_CLIENT", "NAMENODE"})
	require.NoError(t, err)
	assert.Equal(t, "hdfs", key)
	require.Len(t, comps, 3)
	assert.Equal(t, "datanode", comps[0].Key)
	assert.Equal(t, "client", comps[1].Key)
	assert.Equal(t, "namenode", comps[2].Key)
}
