package controlplane

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/go-logr/logr"

	v1 "github.com/imamik/statehub/api/v1"
	"github.com/imamik/statehub/internal/location"
	"github.com/imamik/statehub/internal/metrics"
	"github.com/imamik/statehub/internal/util/retry"
)

const (
	apiVersion     = "/v0"
	defaultTimeout = 30 * time.Second
)

// Options configures a Client.
type Options struct {
	// BaseURL is the management API address; see NormalizeURL.
	BaseURL string

	// Token is sent as a bearer token. An empty token sends no header.
	Token string

	// UserAgent is sent with every request.
	UserAgent string

	// HTTPClient overrides the default client.
	HTTPClient *http.Client

	// Logger receives request level debug output.
	Logger logr.Logger

	// RetryOptions tune retries of idempotent reads.
	RetryOptions []retry.Option
}

// Client talks to the management API over HTTP.
type Client struct {
	baseURL   string
	token     string
	userAgent string
	http      *http.Client
	log       logr.Logger
	retryOpts []retry.Option
}

var _ API = (*Client)(nil)

// New creates a Client.
func New(opts Options) (*Client, error) {
	base, err := NormalizeURL(opts.BaseURL)
	if err != nil {
		return nil, err
	}

	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: defaultTimeout}
	}

	userAgent := opts.UserAgent
	if userAgent == "" {
		userAgent = "statehub"
	}

	return &Client{
		baseURL:   base,
		token:     opts.Token,
		userAgent: userAgent,
		http:      httpClient,
		log:       opts.Logger,
		retryOpts: opts.RetryOptions,
	}, nil
}

// NormalizeURL turns a management address into a base URL. Values starting
// with "http" are used as given, api.*.statehub.io hosts get https, and any
// other bare host is reached over plain http on port 3000.
func NormalizeURL(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", fmt.Errorf("management API address is empty")
	}

	var normalized string
	switch {
	case strings.HasPrefix(raw, "http"):
		normalized = raw
	case strings.HasPrefix(raw, "api.") && strings.HasSuffix(raw, ".statehub.io"):
		normalized = "https://" + raw
	case strings.Contains(raw, ":"):
		normalized = "http://" + raw
	default:
		normalized = "http://" + raw + ":3000"
	}

	u, err := url.Parse(normalized)
	if err != nil || u.Host == "" {
		return "", fmt.Errorf("invalid management API address %q", raw)
	}
	return strings.TrimSuffix(normalized, "/"), nil
}

// URL returns the management API base URL.
func (c *Client) URL() string {
	return c.baseURL
}

// route is a request target: the templated route for metrics and the
// concrete, escaped path.
type route struct {
	template string
	path     string
}

func newRoute(template string, args ...string) route {
	escaped := make([]any, len(args))
	for i, a := range args {
		escaped[i] = url.PathEscape(a)
	}
	return route{
		template: template,
		path:     fmt.Sprintf(strings.NewReplacer("{state}", "%s", "{cluster}", "%s", "{volume}", "%s", "{region}", "%s").Replace(template), escaped...),
	}
}

// do performs a request. GET requests are retried on transient failures.
func (c *Client) do(ctx context.Context, method string, r route, body, out any) error {
	var payload []byte
	if body != nil {
		var err error
		payload, err = json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request body: %w", err)
		}
	}

	if method != http.MethodGet {
		return c.roundTrip(ctx, method, r, payload, out)
	}

	attempt := func(ctx context.Context) error {
		err := c.roundTrip(ctx, method, r, payload, out)
		if err == nil {
			return nil
		}
		if apiErr, ok := asError(err); ok && !isRetryableStatus(apiErr.StatusCode) {
			return retry.Fatal(err)
		}
		if ctx.Err() != nil {
			return retry.Fatal(err)
		}
		return err
	}

	opts := append([]retry.Option{
		retry.WithNotify(func(n int, err error, next time.Duration) {
			c.log.V(1).Info("retrying request", "method", method, "path", r.path, "attempt", n, "backoff", next, "error", err.Error())
		}),
	}, c.retryOpts...)
	return retry.Do(ctx, attempt, opts...)
}

func (c *Client) roundTrip(ctx context.Context, method string, r route, payload []byte, out any) error {
	var reader io.Reader
	if payload != nil {
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+apiVersion+r.path, reader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		metrics.RecordAPIRequest(method, r.template, 0, time.Since(start))
		return fmt.Errorf("%s %s: %w", method, r.path, err)
	}
	defer resp.Body.Close()

	metrics.RecordAPIRequest(method, r.template, resp.StatusCode, time.Since(start))
	c.log.V(1).Info("api request", "method", method, "path", r.path, "status", resp.StatusCode, "duration", time.Since(start))

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return decodeError(method, r.path, resp, data)
	}

	if out == nil || len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("failed to decode response of %s %s: %w", method, r.path, err)
	}
	return nil
}

func decodeError(method, path string, resp *http.Response, data []byte) error {
	apiErr := &Error{
		Method:     method,
		Path:       path,
		StatusCode: resp.StatusCode,
		Status:     http.StatusText(resp.StatusCode),
	}

	var body v1.ErrorBody
	if err := json.Unmarshal(data, &body); err == nil && (body.Msg != "" || body.Error.ErrorCode != "") {
		apiErr.Detail = body.Error
		apiErr.Message = body.Msg
		if body.HTTPStatus != "" {
			apiErr.Status = body.HTTPStatus
		}
	} else if text := strings.TrimSpace(string(data)); text != "" && len(text) < 512 {
		apiErr.Message = fmt.Sprintf("%s %s: %d %s: %s", method, path, resp.StatusCode, apiErr.Status, text)
	}
	return apiErr
}

// States.

// GetAllStates lists every state visible to the token.
func (c *Client) GetAllStates(ctx context.Context) ([]v1.State, error) {
	var states []v1.State
	if err := c.do(ctx, http.MethodGet, newRoute("/states"), nil, &states); err != nil {
		return nil, err
	}
	return states, nil
}

// GetState fetches a single state.
func (c *Client) GetState(ctx context.Context, name v1.StateName) (*v1.State, error) {
	var state v1.State
	if err := c.do(ctx, http.MethodGet, newRoute("/states/{state}", string(name)), nil, &state); err != nil {
		return nil, err
	}
	return &state, nil
}

// CreateState creates a state.
func (c *Client) CreateState(ctx context.Context, dto v1.CreateStateDto) (*v1.State, error) {
	var state v1.State
	if err := c.do(ctx, http.MethodPost, newRoute("/states"), dto, &state); err != nil {
		return nil, err
	}
	return &state, nil
}

// DeleteState deletes a state and returns its last snapshot.
func (c *Client) DeleteState(ctx context.Context, name v1.StateName) (*v1.State, error) {
	var state v1.State
	if err := c.do(ctx, http.MethodDelete, newRoute("/states/{state}", string(name)), nil, &state); err != nil {
		return nil, err
	}
	return &state, nil
}

// Locations.

func (c *Client) addLocation(ctx context.Context, vendor location.Vendor, state v1.StateName, region string) (*v1.StateLocation, error) {
	var loc v1.StateLocation
	r := newRoute("/states/{state}/locations/"+string(vendor), string(state))
	if err := c.do(ctx, http.MethodPost, r, v1.RegionDto{Region: region}, &loc); err != nil {
		return nil, err
	}
	return &loc, nil
}

func (c *Client) locationRequest(ctx context.Context, method string, vendor location.Vendor, state v1.StateName, region string) (*v1.StateLocation, error) {
	var loc v1.StateLocation
	r := newRoute("/states/{state}/locations/"+string(vendor)+"/{region}", string(state), region)
	if err := c.do(ctx, method, r, nil, &loc); err != nil {
		return nil, err
	}
	return &loc, nil
}

// AddAWSLocation extends a state to an AWS region.
func (c *Client) AddAWSLocation(ctx context.Context, state v1.StateName, region string) (*v1.StateLocation, error) {
	return c.addLocation(ctx, location.VendorAWS, state, region)
}

// GetAWSLocation returns the state's entry for an AWS region.
func (c *Client) GetAWSLocation(ctx context.Context, state v1.StateName, region string) (*v1.StateLocation, error) {
	return c.locationRequest(ctx, http.MethodGet, location.VendorAWS, state, region)
}

// DeleteAWSLocation removes a state from an AWS region.
func (c *Client) DeleteAWSLocation(ctx context.Context, state v1.StateName, region string) (*v1.StateLocation, error) {
	return c.locationRequest(ctx, http.MethodDelete, location.VendorAWS, state, region)
}

// AddAzureLocation extends a state to an Azure region.
func (c *Client) AddAzureLocation(ctx context.Context, state v1.StateName, region string) (*v1.StateLocation, error) {
	return c.addLocation(ctx, location.VendorAzure, state, region)
}

// GetAzureLocation returns the state's entry for an Azure region.
func (c *Client) GetAzureLocation(ctx context.Context, state v1.StateName, region string) (*v1.StateLocation, error) {
	return c.locationRequest(ctx, http.MethodGet, location.VendorAzure, state, region)
}

// DeleteAzureLocation removes a state from an Azure region.
func (c *Client) DeleteAzureLocation(ctx context.Context, state v1.StateName, region string) (*v1.StateLocation, error) {
	return c.locationRequest(ctx, http.MethodDelete, location.VendorAzure, state, region)
}

// Ownership.

// SetOwner makes cluster the owner of state.
func (c *Client) SetOwner(ctx context.Context, state v1.StateName, cluster v1.ClusterName) (*v1.State, error) {
	var s v1.State
	if err := c.do(ctx, http.MethodPut, newRoute("/states/{state}/owner/{cluster}", string(state), string(cluster)), nil, &s); err != nil {
		return nil, err
	}
	return &s, nil
}

// UnsetOwner clears the owner of state.
func (c *Client) UnsetOwner(ctx context.Context, state v1.StateName) (*v1.State, error) {
	var s v1.State
	if err := c.do(ctx, http.MethodDelete, newRoute("/states/{state}/owner", string(state)), nil, &s); err != nil {
		return nil, err
	}
	return &s, nil
}

// Clusters.

// RegisterCluster creates the cluster record.
func (c *Client) RegisterCluster(ctx context.Context, name v1.ClusterName, provider v1.Provider, locations []location.Location) (*v1.Cluster, error) {
	dto := v1.CreateClusterDto{
		Name:      name,
		Provider:  provider,
		Locations: v1.NewClusterLocations(locations),
	}
	var cluster v1.Cluster
	if err := c.do(ctx, http.MethodPost, newRoute("/clusters"), dto, &cluster); err != nil {
		return nil, err
	}
	return &cluster, nil
}

// UnregisterCluster deletes the cluster record.
func (c *Client) UnregisterCluster(ctx context.Context, name v1.ClusterName) error {
	return c.do(ctx, http.MethodDelete, newRoute("/clusters/{cluster}", string(name)), nil, nil)
}

// GetCluster fetches a single cluster.
func (c *Client) GetCluster(ctx context.Context, name v1.ClusterName) (*v1.Cluster, error) {
	var cluster v1.Cluster
	if err := c.do(ctx, http.MethodGet, newRoute("/clusters/{cluster}", string(name)), nil, &cluster); err != nil {
		return nil, err
	}
	return &cluster, nil
}

// GetAllClusters lists registered clusters.
func (c *Client) GetAllClusters(ctx context.Context) ([]v1.Cluster, error) {
	var clusters []v1.Cluster
	if err := c.do(ctx, http.MethodGet, newRoute("/clusters"), nil, &clusters); err != nil {
		return nil, err
	}
	return clusters, nil
}

// IssueClusterToken issues a fresh token for cluster.
func (c *Client) IssueClusterToken(ctx context.Context, cluster v1.ClusterName) (*v1.ClusterToken, error) {
	var token v1.ClusterToken
	if err := c.do(ctx, http.MethodPost, newRoute("/clusters/{cluster}/token", string(cluster)), nil, &token); err != nil {
		return nil, err
	}
	return &token, nil
}

// Volumes.

// ListVolumes lists the volumes of state.
func (c *Client) ListVolumes(ctx context.Context, state v1.StateName) ([]v1.Volume, error) {
	var volumes []v1.Volume
	if err := c.do(ctx, http.MethodGet, newRoute("/states/{state}/volumes", string(state)), nil, &volumes); err != nil {
		return nil, err
	}
	return volumes, nil
}

// GetVolume fetches a single volume.
func (c *Client) GetVolume(ctx context.Context, state v1.StateName, volume v1.VolumeName) (*v1.Volume, error) {
	var v v1.Volume
	if err := c.do(ctx, http.MethodGet, newRoute("/states/{state}/volumes/{volume}", string(state), string(volume)), nil, &v); err != nil {
		return nil, err
	}
	return &v, nil
}

// CreateVolume creates a volume in state.
func (c *Client) CreateVolume(ctx context.Context, state v1.StateName, dto v1.CreateVolumeDto) (*v1.Volume, error) {
	var v v1.Volume
	if err := c.do(ctx, http.MethodPost, newRoute("/states/{state}/volumes", string(state)), dto, &v); err != nil {
		return nil, err
	}
	return &v, nil
}

// DeleteVolume starts the asynchronous removal of a volume.
func (c *Client) DeleteVolume(ctx context.Context, state v1.StateName, volume v1.VolumeName) (*v1.Volume, error) {
	var v v1.Volume
	if err := c.do(ctx, http.MethodDelete, newRoute("/states/{state}/volumes/{volume}", string(state), string(volume)), nil, &v); err != nil {
		return nil, err
	}
	return &v, nil
}

// SetVolumePrimary selects the active location of a volume.
func (c *Client) SetVolumePrimary(ctx context.Context, state v1.StateName, volume v1.VolumeName, primary location.Location) (*v1.Volume, error) {
	var v v1.Volume
	r := newRoute("/states/{state}/volumes/{volume}/activeLocation", string(state), string(volume))
	body := map[string]string{"activeLocation": primary.Qualified()}
	if err := c.do(ctx, http.MethodPut, r, body, &v); err != nil {
		return nil, err
	}
	return &v, nil
}

// ValidateAuth probes a read-only endpoint and reports ErrUnauthorized when
// the token is rejected.
func ValidateAuth(ctx context.Context, api API) error {
	if _, err := api.GetAllStates(ctx); err != nil {
		if IsUnauthorized(err) {
			return ErrUnauthorized
		}
		return err
	}
	return nil
}
