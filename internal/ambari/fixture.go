package ambari

import (
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
	"os"

	"github.com/ThomasCrouzet/ambari-discovery/internal/topology"
)

// SandboxCluster is the cluster name reported by the built-in fixture.
const SandboxCluster = "Sandbox"

//go:embed sandbox.json
var sandboxJSON []byte

// FixtureSource serves a fixed ServiceTopology instead of calling the API.
type FixtureSource struct {
	Cluster  string
	Topology topology.ServiceTopology
}

var _ Source = (*FixtureSource)(nil)

// Sandbox returns the single-node HDP sandbox topology.
func Sandbox() *FixtureSource {
	st, err := decodeTopology(sandboxJSON)
	if err != nil {
		panic(fmt.Sprintf("embedded sandbox fixture: %v", err))
	}
	return &FixtureSource{Cluster: SandboxCluster, Topology: st}
}

// LoadFixture reads a ServiceTopology JSON document from path.
func LoadFixture(path, cluster string) (*FixtureSource, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	st, err := decodeTopology(data)
	if err != nil {
		return nil, fmt.Errorf("parsing fixture %s: %w", path, err)
	}
	if cluster == "" {
		cluster = SandboxCluster
	}
	return &FixtureSource{Cluster: cluster, Topology: st}, nil
}

func (f *FixtureSource) ClusterName(context.Context) (string, error) {
	return f.Cluster, nil
}

func (f *FixtureSource) Services(context.Context, string) (Result[topology.ServiceTopology], error) {
	return Result[topology.ServiceTopology]{Value: f.Topology}, nil
}

func (f *FixtureSource) HostComponents(context.Context, string) (Result[topology.HostTopology], error) {
	return Result[topology.HostTopology]{Value: f.Topology.HostTopology()}, nil
}

func decodeTopology(data []byte) (topology.ServiceTopology, error) {
	var st topology.ServiceTopology
	if err := json.Unmarshal(data, &st); err != nil {
		return nil, err
	}
	return st, nil
}
