package inventory

import (
	"errors"

	"github.com/ThomasCrouzet/ambari-discovery/internal/topology"
)

// Umbrella and management group names seeded into every tree.
const (
	GroupAll          = "all"
	GroupHadoop       = "hadoop"
	GroupHDP          = "hdp"
	GroupAmbari       = "ambari"
	GroupAmbariAgent  = "ambari_agent"
	GroupAmbariServer = "ambari_server"
)

// ErrNoClusterName is returned when Build is called without a cluster name.
var ErrNoClusterName = errors.New("cluster name is required")

// Builder turns a ServiceTopology into an inventory Tree.
type Builder struct {
	Normalizer *topology.Normalizer
}

// NewBuilder returns a Builder using the default normalization rules.
func NewBuilder() *Builder {
	return &Builder{Normalizer: topology.NewNormalizer()}
}

// Build is a shorthand for NewBuilder().Build.
func Build(services topology.ServiceTopology, clusterName, managementHost string) (*Tree, error) {
	return NewBuilder().Build(services, clusterName, managementHost)
}

// Build creates the group tree for clusterName. Services are visited in
// lexicographic order of their raw names, components likewise, so the same
// input always yields the same tree.
func (b *Builder) Build(services topology.ServiceTopology, clusterName, managementHost string) (*Tree, error) {
	if clusterName == "" {
		return nil, ErrNoClusterName
	}

	tb := newTreeBuilder()
	if err := tb.seed(clusterName, managementHost); err != nil {
		return nil, err
	}

	for _, service := range services.Services() {
		components := services[service]
		serviceKey, normalized, err := b.Normalizer.Components(service, topology.SortedKeys(components))
		if err != nil {
			return nil, err
		}

		scoped := clusterName + "_" + serviceKey
		if err := tb.ensure(scoped, KindChildren, "service:"+service); err != nil {
			return nil, err
		}
		tb.addChild(clusterName, scoped)

		if err := tb.ensure(serviceKey, KindChildren, "service-alias:"+service); err != nil {
			return nil, err
		}
		tb.addChild(serviceKey, scoped)

		for _, c := range normalized {
			group := scoped + "_" + c.Key
			owner := service + "/" + c.Key
			if err := tb.ensure(group, KindHosts, "component:"+owner); err != nil {
				return nil, err
			}
			tb.addChild(scoped, group)

			alias := serviceKey + "_" + c.Key
			if err := tb.ensure(alias, KindChildren, "component-alias:"+owner); err != nil {
				return nil, err
			}
			tb.addChild(alias, group)

			for _, host := range components[c.Raw] {
				tb.addHost(group, host)
				tb.addHost(GroupAll, host)
			}
		}
	}

	return tb.finish(clusterName, managementHost), nil
}

// treeBuilder holds the mutable state of one Build call.
type treeBuilder struct {
	groups   map[string]*GroupNode
	order    []string
	owner    map[string]string
	children map[string]map[string]bool
	hosts    map[string]map[string]bool
}

func newTreeBuilder() *treeBuilder {
	return &treeBuilder{
		groups:   make(map[string]*GroupNode),
		owner:    make(map[string]string),
		children: make(map[string]map[string]bool),
		hosts:    make(map[string]map[string]bool),
	}
}

func (tb *treeBuilder) seed(cluster, managementHost string) error {
	agent := cluster + "_" + GroupAmbariAgent
	server := cluster + "_" + GroupAmbariServer
	scoped := cluster + "_" + GroupAmbari

	scaffold := []struct {
		name     string
		kind     Kind
		children []string
	}{
		{GroupAll, KindHosts, nil},
		{cluster, KindChildren, nil},
		{GroupHadoop, KindChildren, []string{cluster}},
		{GroupHDP, KindChildren, []string{GroupHadoop}},
		{agent, KindChildren, []string{GroupHadoop}},
		{server, KindHosts, nil},
		{scoped, KindChildren, []string{agent, server}},
		{GroupAmbariAgent, KindChildren, []string{agent}},
		{GroupAmbariServer, KindChildren, []string{server}},
		{GroupAmbari, KindChildren, []string{GroupAmbariAgent, GroupAmbariServer}},
	}

	for i, s := range scaffold {
		// The cluster group is named by the caller, so it needs its own owner
		// tag to be told apart from the fixed names.
		owner := "scaffold:" + s.name
		if i == 1 {
			owner = "scaffold:cluster"
		}
		if err := tb.ensure(s.name, s.kind, owner); err != nil {
			return err
		}
		for _, child := range s.children {
			tb.addChild(s.name, child)
		}
	}

	if managementHost != "" {
		tb.addHost(server, managementHost)
	}
	return nil
}

// ensure creates the group if missing. A group that already exists must have
// been created for the same reason, otherwise two branches clash on a name.
func (tb *treeBuilder) ensure(name string, kind Kind, owner string) error {
	if prev, ok := tb.owner[name]; ok {
		if prev != owner {
			return &topology.CollisionError{Scope: "group", Key: name, First: prev, Second: owner}
		}
		return nil
	}
	tb.owner[name] = owner
	tb.groups[name] = &GroupNode{Name: name, Kind: kind, Vars: map[string]any{}}
	tb.children[name] = make(map[string]bool)
	tb.hosts[name] = make(map[string]bool)
	tb.order = append(tb.order, name)
	return nil
}

func (tb *treeBuilder) addChild(parent, child string) {
	if tb.children[parent][child] {
		return
	}
	tb.children[parent][child] = true
	g := tb.groups[parent]
	g.Children = append(g.Children, child)
}

func (tb *treeBuilder) addHost(group, host string) {
	if tb.hosts[group][host] {
		return
	}
	tb.hosts[group][host] = true
	g := tb.groups[group]
	g.Hosts = append(g.Hosts, host)
}

func (tb *treeBuilder) finish(cluster, managementHost string) *Tree {
	return &Tree{
		ClusterName:    cluster,
		ManagementHost: managementHost,
		groups:         tb.groups,
		order:          tb.order,
	}
}
