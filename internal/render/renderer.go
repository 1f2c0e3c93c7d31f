package render

import (
	"encoding/json"
	"fmt"

	"github.com/ThomasCrouzet/ambari-discovery/internal/discovery"
	"github.com/ThomasCrouzet/ambari-discovery/internal/inventory"
	"gopkg.in/yaml.v3"
)

// Format selects the output encoding.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// ParseFormat validates a format name.
func ParseFormat(s string) (Format, error) {
	switch Format(s) {
	case "", FormatJSON:
		return FormatJSON, nil
	case FormatYAML:
		return FormatYAML, nil
	}
	return "", fmt.Errorf("unknown format %q", s)
}

// Inventory renders tree as an Ansible inventory. JSON follows the dynamic
// inventory script protocol; YAML follows the static YAML inventory layout.
func Inventory(tree *inventory.Tree, format Format) ([]byte, error) {
	switch format {
	case FormatYAML:
		return yaml.Marshal(inventoryNode(tree))
	default:
		return marshalJSON(inventoryDocument(tree))
	}
}

// HostVars is the answer to a per-host query; host variables are served in
// _meta instead.
func HostVars() []byte {
	return []byte("{}\n")
}

// TargetGroups renders a Prometheus file_sd document.
func TargetGroups(groups []discovery.TargetGroup, format Format) ([]byte, error) {
	switch format {
	case FormatYAML:
		return yaml.Marshal(groups)
	default:
		return marshalJSON(groups)
	}
}

type groupDoc struct {
	Hosts    *[]string      `json:"hosts,omitempty"`
	Children *[]string      `json:"children,omitempty"`
	Vars     map[string]any `json:"vars"`
}

type metaDoc struct {
	HostVars map[string]any `json:"hostvars"`
}

func inventoryDocument(tree *inventory.Tree) map[string]any {
	doc := make(map[string]any, tree.Len()+1)
	for _, name := range tree.Names() {
		g, _ := tree.Group(name)
		gd := groupDoc{Vars: g.Vars}
		if g.Kind == inventory.KindHosts {
			hosts := nonNil(g.Hosts)
			gd.Hosts = &hosts
		} else {
			children := nonNil(g.Children)
			gd.Children = &children
		}
		doc[name] = gd
	}
	doc["_meta"] = metaDoc{HostVars: map[string]any{}}
	return doc
}

// inventoryNode builds the YAML inventory by hand so groups keep tree order.
func inventoryNode(tree *inventory.Tree) *yaml.Node {
	root := &yaml.Node{Kind: yaml.MappingNode}
	for _, name := range tree.Names() {
		g, _ := tree.Group(name)

		body := &yaml.Node{Kind: yaml.MappingNode}
		if g.Kind == inventory.KindHosts {
			appendPair(body, "hosts", setNode(g.Hosts))
		} else {
			appendPair(body, "children", setNode(g.Children))
		}
		vars := &yaml.Node{}
		if err := vars.Encode(g.Vars); err == nil {
			vars.Style = yaml.FlowStyle
			appendPair(body, "vars", vars)
		}
		appendPair(root, name, body)
	}
	return root
}

// setNode renders names as a mapping with empty values, the way YAML
// inventories list hosts and children.
func setNode(names []string) *yaml.Node {
	n := &yaml.Node{Kind: yaml.MappingNode}
	if len(names) == 0 {
		n.Style = yaml.FlowStyle
	}
	for _, name := range names {
		appendPair(n, name, &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!null", Value: "null"})
	}
	return n
}

func appendPair(m *yaml.Node, key string, value *yaml.Node) {
	m.Content = append(m.Content, &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: key}, value)
}

func marshalJSON(v any) ([]byte, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, err
	}
	return append(data, '\n'), nil
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
