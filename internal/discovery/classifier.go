package discovery

import (
	"strconv"

	"github.com/ThomasCrouzet/ambari-discovery/internal/topology"
)

// NodeType is the role label attached to a target group.
type NodeType string

const (
	NodeMaster NodeType = "master"
	NodeWorker NodeType = "worker"
)

// DefaultClusterLabel is the label key carrying the cluster name.
const DefaultClusterLabel = "hadoop_cluster"

// DefaultMasterComponents are the raw component codes that make a host a
// master.
var DefaultMasterComponents = []string{
	"JOURNALNODE",
	"ZOOKEEPER_SERVER",
	"HIVE_SERVER",
	"NAMENODE",
	"RESOURCEMANAGER",
}

// TargetGroup is one entry of a Prometheus file_sd document.
type TargetGroup struct {
	Targets []string          `json:"targets" yaml:"targets"`
	Labels  map[string]string `json:"labels" yaml:"labels"`
}

// Decision records how a host was classified.
type Decision struct {
	Host     string
	NodeType NodeType
	// Matched is the first master component found on the host, if any.
	Matched string
}

// Classifier splits hosts into master and worker target groups.
type Classifier struct {
	// MasterComponents is matched case-sensitively against raw component names.
	MasterComponents []string
	Ports            []int
	ClusterLabel     string
}

// NewClassifier returns a Classifier for ports with the default master set.
func NewClassifier(ports []int) *Classifier {
	return &Classifier{
		MasterComponents: DefaultMasterComponents,
		Ports:            ports,
		ClusterLabel:     DefaultClusterLabel,
	}
}

// Classify is a shorthand for a Classifier built from its arguments.
func Classify(hosts topology.HostTopology, masterComponents []string, ports []int, clusterName, managementHost string) (TargetGroup, TargetGroup) {
	c := &Classifier{MasterComponents: masterComponents, Ports: ports, ClusterLabel: DefaultClusterLabel}
	master, worker, _ := c.Classify(hosts, clusterName, managementHost)
	return master, worker
}

// Classify returns the master and worker groups. The management host is
// always a master target. Hosts are visited in lexicographic order and each
// lands in exactly one group.
func (c *Classifier) Classify(hosts topology.HostTopology, clusterName, managementHost string) (TargetGroup, TargetGroup, []Decision) {
	label := c.ClusterLabel
	if label == "" {
		label = DefaultClusterLabel
	}
	master := newTargetGroup(label, clusterName, NodeMaster)
	worker := newTargetGroup(label, clusterName, NodeWorker)

	masterSet := make(map[string]bool, len(c.MasterComponents))
	for _, comp := range c.MasterComponents {
		masterSet[comp] = true
	}

	placed := make(map[string]bool, len(hosts)+1)
	if managementHost != "" {
		master.Targets = c.appendTargets(master.Targets, managementHost)
		placed[managementHost] = true
	}

	var decisions []Decision
	for _, host := range hosts.Hosts() {
		if placed[host] {
			continue
		}
		placed[host] = true

		d := Decision{Host: host, NodeType: NodeWorker}
		for _, comp := range hosts[host] {
			if masterSet[comp] {
				d.NodeType = NodeMaster
				d.Matched = comp
				break
			}
		}

		if d.NodeType == NodeMaster {
			master.Targets = c.appendTargets(master.Targets, host)
		} else {
			worker.Targets = c.appendTargets(worker.Targets, host)
		}
		decisions = append(decisions, d)
	}

	return master, worker, decisions
}

func (c *Classifier) appendTargets(targets []string, host string) []string {
	for _, port := range c.Ports {
		targets = topology.AppendUnique(targets, host+":"+strconv.Itoa(port))
	}
	return targets
}

func newTargetGroup(label, clusterName string, nodeType NodeType) TargetGroup {
	return TargetGroup{
		Targets: []string{},
		Labels: map[string]string{
			label:       clusterName,
			"node_type": string(nodeType),
		},
	}
}
