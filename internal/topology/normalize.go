package topology

import (
	"errors"
	"fmt"
	"strings"
)

// ClientComponent is the key given to a component named after its service.
const ClientComponent = "client"

// ErrNormalizationCollision is matched by every *CollisionError.
var ErrNormalizationCollision = errors.New("normalization collision")

// Pair identifies a (service, component) couple. Keys in override and alias
// tables are lower-cased service keys and stripped component names.
type Pair struct {
	Service   string
	Component string
}

// DefaultOverrides renames components whose stripped name does not describe
// their role.
var DefaultOverrides = map[Pair]string{
	{Service: "ambari_infra", Component: "infra_solr"}: "infra_solr_server",
}

// Normalizer maps raw service/component names to canonical group keys.
type Normalizer struct {
	// Overrides is consulted after prefix stripping and the client rename.
	Overrides map[Pair]string
	// Aliases lists normalized (service, component) keys that several raw
	// components may share on purpose.
	Aliases map[Pair]bool
}

// NewNormalizer returns a Normalizer with the default override table.
func NewNormalizer() *Normalizer {
	overrides := make(map[Pair]string, len(DefaultOverrides))
	for k, v := range DefaultOverrides {
		overrides[k] = v
	}
	return &Normalizer{Overrides: overrides, Aliases: map[Pair]bool{}}
}

// Normalize returns the canonical service and component keys.
func (n *Normalizer) Normalize(service, component string) (string, string) {
	serviceKey := strings.ToLower(service)
	lowered := strings.ToLower(component)

	// repeated prefixes are all stripped so a normalized key maps to itself
	prefix := serviceKey + "_"
	componentKey := lowered
	for strings.HasPrefix(componentKey, prefix) {
		componentKey = strings.TrimPrefix(componentKey, prefix)
	}
	if componentKey == serviceKey {
		componentKey = ClientComponent
	}
	if n != nil {
		if renamed, ok := n.Overrides[Pair{Service: serviceKey, Component: componentKey}]; ok {
			componentKey = renamed
		}
	}
	if componentKey == "" {
		componentKey = lowered
	}
	return serviceKey, componentKey
}

// Component is one raw component of a service together with its keys.
type Component struct {
	Raw string
	Key string
}

// Components normalizes every raw component of service, in the order given.
// Two raw names landing on the same key fail with a *CollisionError unless
// the key is a declared alias.
func (n *Normalizer) Components(service string, raw []string) (string, []Component, error) {
	serviceKey := strings.ToLower(service)
	seen := make(map[string]string, len(raw))
	out := make([]Component, 0, len(raw))

	for _, name := range raw {
		_, key := n.Normalize(service, name)
		if first, dup := seen[key]; dup && first != name {
			if n == nil || !n.Aliases[Pair{Service: serviceKey, Component: key}] {
				return serviceKey, nil, &CollisionError{
					Scope:  service,
					Key:    key,
					First:  first,
					Second: name,
				}
			}
		} else if !dup {
			seen[key] = name
		}
		out = append(out, Component{Raw: name, Key: key})
	}
	return serviceKey, out, nil
}

// CollisionError reports two distinct raw names that produce the same key.
type CollisionError struct {
	Scope  string // service name, or "group" for tree-wide clashes
	Key    string
	First  string
	Second string
}

func (e *CollisionError) Error() string {
	return fmt.Sprintf("%s: %q and %q both normalize to %q", e.Scope, e.First, e.Second, e.Key)
}

func (e *CollisionError) Is(target error) bool {
	return target == ErrNormalizationCollision
}
