package client

import (
	"net/url"
	"strings"

	"github.com/Crosstalk-Solutions/project-nomad-sub001/pkg/api/http/common"
	"github.com/Crosstalk-Solutions/project-nomad-sub001/pkg/runtime"
	"github.com/Crosstalk-Solutions/project-nomad-sub001/pkg/structs"
)

// Client talks to a Nomad API server over HTTP. It does not subscribe to
// event streams; callers wanting live progress hit the events endpoint with
// an SSE-aware reader.
type Client struct {
	url *url.URL
}

func New(address string) (*Client, error) {
	u, err := url.Parse(address)
	return &Client{url: u}, err
}

func (c *Client) Services(includeDependencies bool) ([]*structs.Service, error) {
	addr := c.addr(common.API_SERVICES)
	if includeDependencies {
		addr.RawQuery = url.Values{"include_dependencies": []string{"true"}}.Encode()
	}
	var out []*structs.Service
	return out, genericGet(addr, &out)
}

func (c *Client) ServicesStatus() ([]*runtime.ServiceStatus, error) {
	addr := c.addr(common.API_SERVICES_STATUS)
	var out []*runtime.ServiceStatus
	return out, genericGet(addr, &out)
}

func (c *Client) InstallService(name string) (*structs.InstallResult, error) {
	addr := c.addr(strings.Replace(common.API_SERVICE_INSTALL, "{name}", url.PathEscape(name), 1))
	var out structs.InstallResult
	return &out, genericPost(addr, nil, &out)
}

func (c *Client) CreateDownload(p *structs.FileDownloadPayload) (*structs.EnqueueResult, error) {
	addr := c.addr(common.API_DOWNLOADS)
	var out structs.EnqueueResult
	return &out, genericPost(addr, p, &out)
}

func (c *Client) Downloads(filetype string) ([]*structs.DownloadJobView, error) {
	addr := c.addr(common.API_DOWNLOADS)
	if filetype != "" {
		addr.RawQuery = url.Values{"filetype": []string{filetype}}.Encode()
	}
	var out []*structs.DownloadJobView
	return out, genericGet(addr, &out)
}

func (c *Client) CreateModelDownload(p *structs.ModelDownloadPayload) (*structs.EnqueueResult, error) {
	addr := c.addr(common.API_MODELS)
	var out structs.EnqueueResult
	return &out, genericPost(addr, p, &out)
}

func (c *Client) Resources(rtype structs.ResourceType) ([]*structs.InstalledResource, error) {
	addr := c.addr(common.API_RESOURCES)
	if rtype != "" {
		addr.RawQuery = url.Values{"type": []string{string(rtype)}}.Encode()
	}
	var out []*structs.InstalledResource
	return out, genericGet(addr, &out)
}

func (c *Client) DeleteResource(id string) error {
	addr := c.addr(strings.Replace(common.API_RESOURCE, "{id}", url.PathEscape(id), 1))
	var out common.DeleteResponse
	return genericDelete(addr, &out)
}

func (c *Client) CreateBenchmark(kind structs.BenchmarkKind, id string) (*structs.EnqueueResult, error) {
	addr := c.addr(common.API_BENCHMARKS)
	var out structs.EnqueueResult
	return &out, genericPost(addr, map[string]string{"kind": string(kind), "id": id}, &out)
}

func (c *Client) Benchmark(id string) (*common.BenchmarkResponse, error) {
	addr := c.addr(strings.Replace(common.API_BENCHMARK, "{id}", url.PathEscape(id), 1))
	var out common.BenchmarkResponse
	return &out, genericGet(addr, &out)
}

func (c *Client) UpdateStatus() (*structs.UpdateStatus, error) {
	addr := c.addr(common.API_UPDATES)
	var out structs.UpdateStatus
	return &out, genericGet(addr, &out)
}

func (c *Client) CheckForUpdates() (*structs.EnqueueResult, error) {
	addr := c.addr(common.API_UPDATES_CHECK)
	var out structs.EnqueueResult
	return &out, genericPost(addr, nil, &out)
}

func (c *Client) addr(path string) *url.URL {
	return &url.URL{Scheme: c.url.Scheme, Host: c.url.Host, Path: path}
}
