package ambari

import (
	"context"
	"crypto/tls"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/ThomasCrouzet/ambari-discovery/internal/topology"
	"go.uber.org/zap"
)

// Source supplies raw cluster topology.
type Source interface {
	ClusterName(ctx context.Context) (string, error)
	Services(ctx context.Context, cluster string) (Result[topology.ServiceTopology], error)
	HostComponents(ctx context.Context, cluster string) (Result[topology.HostTopology], error)
}

// Client talks to the Ambari REST API. Requests are issued one at a time.
type Client struct {
	URI      string
	User     string
	Password string
	Insecure bool
	Timeout  time.Duration
	Logger   *zap.Logger

	http *http.Client
}

// NewClient returns a Client for the Ambari server at uri.
func NewClient(uri, user, password string) *Client {
	return &Client{
		URI:      strings.TrimRight(uri, "/"),
		User:     user,
		Password: password,
		Timeout:  30 * time.Second,
	}
}

var _ Source = (*Client)(nil)

type clusterList struct {
	Items []struct {
		Clusters struct {
			ClusterName string `json:"cluster_name"`
		} `json:"Clusters"`
	} `json:"items"`
}

type serviceList struct {
	Items []struct {
		ServiceInfo struct {
			ServiceName string `json:"service_name"`
		} `json:"ServiceInfo"`
	} `json:"items"`
}

type componentList struct {
	Items []struct {
		ServiceComponentInfo struct {
			ComponentName string `json:"component_name"`
		} `json:"ServiceComponentInfo"`
	} `json:"items"`
}

type hostList struct {
	Items []struct {
		Hosts struct {
			HostName string `json:"host_name"`
		} `json:"Hosts"`
	} `json:"items"`
}

type hostRoles struct {
	HostComponents []struct {
		HostRoles struct {
			HostName      string `json:"host_name"`
			ComponentName string `json:"component_name"`
		} `json:"HostRoles"`
	} `json:"host_components"`
}

// ClusterName returns the first cluster the server knows about.
func (c *Client) ClusterName(ctx context.Context) (string, error) {
	var resp clusterList
	if err := c.get(ctx, "/api/v1/clusters", &resp); err != nil {
		return "", err
	}
	if len(resp.Items) == 0 || resp.Items[0].Clusters.ClusterName == "" {
		return "", ErrNoCluster
	}
	return resp.Items[0].Clusters.ClusterName, nil
}

// Services fetches every service, its components and their hosts. A failed
// sub-query drops that branch and is listed in the result's failures;
// connection-level errors abort.
func (c *Client) Services(ctx context.Context, cluster string) (Result[topology.ServiceTopology], error) {
	res := Result[topology.ServiceTopology]{Value: topology.ServiceTopology{}}
	base := clusterPath(cluster)

	var services serviceList
	if err := c.collect(ctx, base+"/services", &services, &res.Failures); err != nil {
		if errors.Is(err, errSkipped) {
			return res, nil
		}
		return res, err
	}

	names := make([]string, 0, len(services.Items))
	for _, item := range services.Items {
		names = append(names, item.ServiceInfo.ServiceName)
	}

	for _, service := range names {
		c.log().Debug("getting component list", zap.String("service", service))

		var components componentList
		path := base + "/services/" + url.PathEscape(service) + "/components"
		if err := c.collect(ctx, path, &components, &res.Failures); err != nil {
			if errors.Is(err, errSkipped) {
				continue
			}
			return res, err
		}
		res.Value.EnsureService(service)

		for _, item := range components.Items {
			component := item.ServiceComponentInfo.ComponentName
			c.log().Debug("getting hosts", zap.String("service", service), zap.String("component", component))

			var hosts hostRoles
			hostsPath := path + "/" + url.PathEscape(component) + "?fields=host_components/HostRoles/host_name"
			if err := c.collect(ctx, hostsPath, &hosts, &res.Failures); err != nil {
				if errors.Is(err, errSkipped) {
					continue
				}
				return res, err
			}

			res.Value.AddComponent(service, component)
			for _, hc := range hosts.HostComponents {
				res.Value.AddHost(service, component, hc.HostRoles.HostName)
			}
		}
	}

	return res, nil
}

// HostComponents fetches every host and the components installed on it.
func (c *Client) HostComponents(ctx context.Context, cluster string) (Result[topology.HostTopology], error) {
	res := Result[topology.HostTopology]{Value: topology.HostTopology{}}
	base := clusterPath(cluster)

	c.log().Debug("getting host list")
	var hosts hostList
	if err := c.collect(ctx, base+"/hosts", &hosts, &res.Failures); err != nil {
		if errors.Is(err, errSkipped) {
			return res, nil
		}
		return res, err
	}

	for _, item := range hosts.Items {
		host := item.Hosts.HostName
		c.log().Debug("getting component list", zap.String("host", host))

		var roles hostRoles
		if err := c.collect(ctx, base+"/hosts/"+url.PathEscape(host), &roles, &res.Failures); err != nil {
			if errors.Is(err, errSkipped) {
				continue
			}
			return res, err
		}

		res.Value[host] = []string{}
		for _, hc := range roles.HostComponents {
			res.Value.AddComponent(host, hc.HostRoles.ComponentName)
		}
	}

	return res, nil
}

// errSkipped marks a branch whose HTTP failure was recorded.
var errSkipped = errors.New("skipped")

// collect runs get and moves HTTP failures into failures. It returns
// errSkipped for a recorded failure and any other error unchanged.
func (c *Client) collect(ctx context.Context, path string, out any, failures *[]*HTTPError) error {
	err := c.get(ctx, path, out)
	var herr *HTTPError
	if errors.As(err, &herr) {
		c.log().Warn("sub-query failed", zap.String("path", herr.Path), zap.Int("status", herr.Status))
		*failures = append(*failures, herr)
		return errSkipped
	}
	return err
}

func (c *Client) get(ctx context.Context, path string, out any) error {
	body, err := c.apiRequest(ctx, path)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("decoding %s: %w", path, err)
	}
	return nil
}

func (c *Client) apiRequest(ctx context.Context, path string) ([]byte, error) {
	fullURI := c.URI + path
	c.log().Debug("GET", zap.String("uri", fullURI))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURI, nil)
	if err != nil {
		return nil, err
	}
	req.SetBasicAuth(c.User, c.Password)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient().Do(req)
	if err != nil {
		return nil, &NetworkError{Path: path, Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &NetworkError{Path: path, Err: err}
	}

	if resp.StatusCode != http.StatusOK {
		return nil, &HTTPError{Path: path, Status: resp.StatusCode, Body: strings.TrimSpace(string(body))}
	}
	return body, nil
}

func (c *Client) httpClient() *http.Client {
	if c.http != nil {
		return c.http
	}
	c.http = &http.Client{Timeout: c.Timeout}
	if c.Insecure {
		c.http.Transport = &http.Transport{
			TLSClientConfig: &tls.Config{InsecureSkipVerify: true}, //nolint:gosec // user-configured
		}
	}
	return c.http
}

func (c *Client) log() *zap.Logger {
	if c.Logger == nil {
		return zap.NewNop()
	}
	return c.Logger
}

func clusterPath(cluster string) string {
	return "/api/v1/clusters/" + url.PathEscape(cluster)
}
