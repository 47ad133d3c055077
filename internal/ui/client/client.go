// the client package is used by the ui handlers to call the PovoDB API.
//
// All requests go through a single Client configured with the API base path (/api/v1) and JSON headers.
// Failures are returned as *ClientError, whose Error() is the normalized message shown to the end user.
// Ordered request and response interceptor chains are run around every call (see interceptors.go).
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	povodb "github.com/povodb/povodb-ui"
	"github.com/povodb/povodb-ui/internal/ui/types"
)

// Client handles communication with the PovoDB API
type Client struct {
	baseURL              string
	httpClient           *http.Client
	requestInterceptors  []RequestInterceptor
	responseInterceptors []ResponseInterceptor

	Politicians   *PoliticianAPI
	Bills         *BillAPI
	Votes         *VoteAPI
	Contributions *ContributionAPI
}

type Option func(*Client)

// WithHTTPClient replaces the default http client (10s timeout)
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// WithRequestInterceptors appends request interceptors, run in the order given
func WithRequestInterceptors(interceptors ...RequestInterceptor) Option {
	return func(c *Client) {
		c.requestInterceptors = append(c.requestInterceptors, interceptors...)
	}
}

// WithResponseInterceptors appends response interceptors, run in the order given
func WithResponseInterceptors(interceptors ...ResponseInterceptor) Option {
	return func(c *Client) {
		c.responseInterceptors = append(c.responseInterceptors, interceptors...)
	}
}

// NewClient creates a client for the API served at apiOrigin (e.g. http://localhost:8000).
// The /api/v1 base path is appended here.
func NewClient(apiOrigin string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(apiOrigin, "/") + povodb.APIBasePath,
		httpClient: &http.Client{
			Timeout: povodb.DefaultAPITimeout,
		},
	}
	for _, opt := range opts {
		opt(c)
	}

	c.Politicians = &PoliticianAPI{
		Resource: newResource[types.Politician, types.Politician, types.PoliticianCreate, types.PoliticianUpdate](c, "/politicians"),
	}
	c.Bills = &BillAPI{
		Resource: newResource[types.Bill, types.BillWithSponsor, types.BillCreate, types.BillUpdate](c, "/bills"),
	}
	c.Votes = &VoteAPI{
		Resource: newResource[types.Vote, types.VoteWithRelations, types.VoteCreate, types.VoteUpdate](c, "/votes"),
	}
	c.Contributions = &ContributionAPI{
		Resource: newResource[types.Contribution, types.ContributionWithPolitician, types.ContributionCreate, types.ContributionUpdate](c, "/contributions"),
	}
	return c
}

// BaseURL returns the API origin plus base path
func (c *Client) BaseURL() string {
	return c.baseURL
}

// call describes one API request
type call struct {
	method string
	path   string // relative to the base path, e.g. /politicians/123
	query  string // already encoded
	body   any
	out    any // decoded on success when non-nil
}

// do runs the call through the interceptor chains and the transport.
// Every failure is returned as a *ClientError.
func (c *Client) do(ctx context.Context, cl call) error {
	req, err := c.newRequest(ctx, cl)
	if err != nil {
		return err
	}

	res, err := c.send(req)
	if err == nil {
		defer res.Body.Close()
		err = decode(req, res, cl.out)
	}

	for _, intercept := range c.responseInterceptors {
		err = intercept(req, res, err)
	}
	if err != nil {
		return asClientError(req, err)
	}
	return nil
}

func (c *Client) newRequest(ctx context.Context, cl call) (*http.Request, error) {
	target := c.baseURL + cl.path
	if cl.query != "" {
		target += "?" + cl.query
	}

	var body io.Reader
	if cl.body != nil {
		jsonData, err := json.Marshal(cl.body)
		if err != nil {
			return nil, NewClientInternalError(nil, err, fmt.Sprintf("marshaling %s %s request", cl.method, cl.path))
		}
		body = bytes.NewReader(jsonData)
	}

	req, err := http.NewRequestWithContext(ctx, cl.method, target, body)
	if err != nil {
		return nil, NewClientInternalError(nil, err, fmt.Sprintf("creating %s %s request", cl.method, cl.path))
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	info := RequestInfo{Method: req.Method, Path: req.URL.Path, Query: req.URL.RawQuery}
	for _, intercept := range c.requestInterceptors {
		if err := intercept(ctx, info, req.Header); err != nil {
			return nil, NewClientInternalError(req, err, "running request interceptor")
		}
	}
	return req, nil
}

// send performs the round trip. Non-2xx responses are returned as errors, the body having been consumed.
func (c *Client) send(req *http.Request) (*http.Response, error) {
	res, err := c.httpClient.Do(req)
	if err != nil {
		return nil, NewClientConnectionError(req, err)
	}
	if res.StatusCode < 200 || res.StatusCode > 299 {
		defer res.Body.Close()
		return res, NewClientApiError(req, res)
	}
	return res, nil
}

func decode(req *http.Request, res *http.Response, out any) error {
	if out == nil || res.StatusCode == http.StatusNoContent {
		_, _ = io.Copy(io.Discard, res.Body)
		return nil
	}
	if err := json.NewDecoder(res.Body).Decode(out); err != nil {
		return NewClientInternalError(req, err, fmt.Sprintf("decoding %s %s response", req.Method, req.URL.Path))
	}
	return nil
}

// asClientError keeps the uniform error shape when an interceptor returns an error of its own
func asClientError(req *http.Request, err error) *ClientError {
	var ce *ClientError
	if errors.As(err, &ce) {
		return ce
	}
	return NewClientInternalError(req, err, "running response interceptor")
}

// escapePath escapes a record id for use as a path segment
func escapePath(id string) string {
	return url.PathEscape(id)
}

// logAttr is a helper for interceptors that log a ClientError
func logAttr(err error) slog.Attr {
	var ce *ClientError
	if errors.As(err, &ce) {
		return slog.Any("api_error", ce)
	}
	return slog.String("error", err.Error())
}
