package util

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

// ManagementHost returns the host part of an Ambari URI, without scheme,
// port or path.
func ManagementHost(uri string) (string, error) {
	s := strings.TrimSpace(uri)
	if s == "" {
		return "", fmt.Errorf("empty URI")
	}
	if !strings.Contains(s, "://") {
		s = "http://" + s
	}
	u, err := url.Parse(s)
	if err != nil {
		return "", err
	}
	host := strings.ToLower(u.Hostname())
	if host == "" {
		return "", fmt.Errorf("no host in URI %q", uri)
	}
	return host, nil
}

// ParsePorts parses a comma separated port list. Order is kept and repeated
// ports are dropped.
func ParsePorts(s string) ([]int, error) {
	var fields []string
	for _, f := range strings.Split(s, ",") {
		if f = strings.TrimSpace(f); f != "" {
			fields = append(fields, f)
		}
	}
	return ports(fields)
}

// ParsePortList is ParsePorts for values that arrive already split, as from
// a YAML list or a repeated flag.
func ParsePortList(items []string) ([]int, error) {
	var fields []string
	for _, item := range items {
		for _, f := range strings.Split(item, ",") {
			if f = strings.TrimSpace(f); f != "" {
				fields = append(fields, f)
			}
		}
	}
	return ports(fields)
}

func ports(fields []string) ([]int, error) {
	seen := make(map[int]bool, len(fields))
	out := make([]int, 0, len(fields))
	for _, f := range fields {
		p, err := strconv.Atoi(f)
		if err != nil {
			return nil, fmt.Errorf("invalid port %q", f)
		}
		if p < 1 || p > 65535 {
			return nil, fmt.Errorf("port %d out of range 1-65535", p)
		}
		if seen[p] {
			continue
		}
		seen[p] = true
		out = append(out, p)
	}
	return out, nil
}
