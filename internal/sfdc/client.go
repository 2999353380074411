package sfdc

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sort"
	"strings"
	"time"
)

// DefaultAPIVersion is the REST API version used when the config does not
// override it.
const DefaultAPIVersion = "v60.0"

// Client is a Salesforce REST client scoped to describe calls.
type Client struct {
	session    *Session
	apiVersion string
	httpClient *http.Client
}

// NewClient creates a REST client for a session. An empty apiVersion falls
// back to DefaultAPIVersion.
func NewClient(session *Session, apiVersion string) *Client {
	if apiVersion == "" {
		apiVersion = DefaultAPIVersion
	}
	return &Client{
		session:    session,
		apiVersion: apiVersion,
		httpClient: &http.Client{Timeout: 60 * time.Second},
	}
}

// APIVersion returns the REST API version the client calls.
func (c *Client) APIVersion() string {
	return c.apiVersion
}

// Session returns the session the client authenticates with.
func (c *Client) Session() *Session {
	return c.session
}

func (c *Client) get(ctx context.Context, path string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		strings.TrimSuffix(c.session.InstanceURL, "/")+path, nil)
	if err != nil {
		return fmt.Errorf("failed to build request for %s: %w", path, err)
	}
	req.Header.Set("Authorization", "Bearer "+c.session.AccessToken)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request to %s failed: %w", path, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response from %s: %w", path, err)
	}

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("GET %s returned %d: %s", path, resp.StatusCode, snippet(body))
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("failed to parse response from %s: %w", path, err)
	}

	return nil
}

// sobjectSummary is one row of the global describe listing.
type sobjectSummary struct {
	Name      string `json:"name"`
	Queryable bool   `json:"queryable"`
}

// ListObjects returns the queryable object names in the org, sorted,
// skipping the generated __History side objects.
func (c *Client) ListObjects(ctx context.Context) ([]string, error) {
	var listing struct {
		SObjects []sobjectSummary `json:"sobjects"`
	}
	if err := c.get(ctx, "/services/data/"+c.apiVersion+"/sobjects", &listing); err != nil {
		return nil, err
	}

	var names []string
	for _, obj := range listing.SObjects {
		if !obj.Queryable || strings.HasSuffix(obj.Name, "__History") {
			continue
		}
		names = append(names, obj.Name)
	}
	sort.Strings(names)

	return names, nil
}

// DescribeObject fetches the full describe document for one object.
func (c *Client) DescribeObject(ctx context.Context, name string) (*Describe, error) {
	var d Describe
	path := fmt.Sprintf("/services/data/%s/sobjects/%s/describe", c.apiVersion, name)
	if err := c.get(ctx, path, &d); err != nil {
		return nil, err
	}
	return &d, nil
}
