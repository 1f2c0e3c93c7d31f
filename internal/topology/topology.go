package topology

import "sort"

// ServiceTopology maps a raw service name to its raw component names, each
// with the ordered list of hosts running it.
type ServiceTopology map[string]map[string][]string

// HostTopology maps a host to the raw component names installed on it.
type HostTopology map[string][]string

// AddHost records host under service/component, creating the branch if
// needed. Repeated hosts are ignored.
func (t ServiceTopology) AddHost(service, component, host string) {
	components, ok := t[service]
	if !ok {
		components = make(map[string][]string)
		t[service] = components
	}
	components[component] = AppendUnique(components[component], host)
}

// AddComponent makes sure service/component exists, even with no hosts.
func (t ServiceTopology) AddComponent(service, component string) {
	components, ok := t[service]
	if !ok {
		components = make(map[string][]string)
		t[service] = components
	}
	if _, ok := components[component]; !ok {
		components[component] = []string{}
	}
}

// Services returns the raw service names in lexicographic order.
func (t ServiceTopology) Services() []string {
	return SortedKeys(t)
}

// Hosts returns the host identifiers in lexicographic order.
func (t HostTopology) Hosts() []string {
	return SortedKeys(t)
}

// AddComponent records a component on host. Repeated components are ignored.
func (t HostTopology) AddComponent(host, component string) {
	t[host] = AppendUnique(t[host], component)
}

// SortedKeys returns the keys of m in lexicographic order.
func SortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// AppendUnique appends v to list unless it is already present.
func AppendUnique(list []string, v string) []string {
	for _, item := range list {
		if item == v {
			return list
		}
	}
	return append(list, v)
}

// EnsureService makes sure service exists, even with no components.
func (t ServiceTopology) EnsureService(service string) {
	if _, ok := t[service]; !ok {
		t[service] = make(map[string][]string)
	}
}

// HostTopology inverts the service view: each host maps to the raw
// components it runs, ordered by service then component name.
func (t ServiceTopology) HostTopology() HostTopology {
	hosts := HostTopology{}
	for _, service := range t.Services() {
		for _, component := range SortedKeys(t[service]) {
			for _, host := range t[service][component] {
				hosts.AddComponent(host, component)
			}
		}
	}
	return hosts
}
