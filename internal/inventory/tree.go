package inventory

import "slices"

// Kind tells whether a group lists hosts or child groups.
type Kind int

const (
	KindChildren Kind = iota
	KindHosts
)

// GroupNode is one group of the inventory tree.
type GroupNode struct {
	Name     string
	Kind     Kind
	Children []string
	Hosts    []string
	Vars     map[string]any
}

func (g *GroupNode) clone() GroupNode {
	vars := make(map[string]any, len(g.Vars))
	for k, v := range g.Vars {
		vars[k] = v
	}
	return GroupNode{
		Name:     g.Name,
		Kind:     g.Kind,
		Children: slices.Clone(g.Children),
		Hosts:    slices.Clone(g.Hosts),
		Vars:     vars,
	}
}

// Tree is a built inventory. It is never modified after Build returns it;
// accessors hand out copies.
type Tree struct {
	ClusterName    string
	ManagementHost string

	groups map[string]*GroupNode
	order  []string
}

// Group returns a copy of the named group.
func (t *Tree) Group(name string) (GroupNode, bool) {
	g, ok := t.groups[name]
	if !ok {
		return GroupNode{}, false
	}
	return g.clone(), true
}

// Names returns group names in creation order.
func (t *Tree) Names() []string {
	return slices.Clone(t.order)
}

// Len returns the number of groups.
func (t *Tree) Len() int {
	return len(t.order)
}

// Hosts returns the members of the "all" group.
func (t *Tree) Hosts() []string {
	g, ok := t.groups[GroupAll]
	if !ok {
		return nil
	}
	return slices.Clone(g.Hosts)
}
