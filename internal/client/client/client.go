package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/dmitrijs2005/osp/internal/client/refresh"
	"github.com/dmitrijs2005/osp/internal/common"
	"github.com/dmitrijs2005/osp/internal/logging"
)

// TokenStore is where the client reads and renews credentials.
type TokenStore interface {
	AccessToken(ctx context.Context) (string, error)
	RefreshToken(ctx context.Context) (string, error)
	SetTokens(ctx context.Context, access, refresh string) error
}

// Logouter ends the session when a refresh cannot recover it.
type Logouter interface {
	Logout(ctx context.Context) error
}

// Request describes one API call. Retry marks the replay that follows a
// refresh; a Retry request is never refreshed again.
type Request struct {
	Method   string
	Endpoint string
	Header   http.Header
	Body     any
	Retry    bool
}

type Client struct {
	baseURL    string
	httpClient *http.Client
	store      TokenStore
	session    Logouter
	flight     *refresh.Coordinator
	log        logging.Logger
	timeout    time.Duration
}

type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

func WithLogger(l logging.Logger) Option {
	return func(c *Client) { c.log = l }
}

// WithRequestTimeout bounds each HTTP exchange. It also applies to a client
// given with WithHTTPClient, which is copied rather than modified.
func WithRequestTimeout(d time.Duration) Option {
	return func(c *Client) { c.timeout = d }
}

// WithRefreshTimeout bounds one shared token refresh.
func WithRefreshTimeout(d time.Duration) Option {
	return func(c *Client) { c.flight = refresh.New(d) }
}

// New returns a Client for the API rooted at baseURL.
func New(baseURL string, store TokenStore, session Logouter, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{},
		store:      store,
		session:    session,
		flight:     refresh.New(0),
		log:        logging.Discard(),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.timeout > 0 {
		hc := *c.httpClient
		hc.Timeout = c.timeout
		c.httpClient = &hc
	}
	return c
}

// Do sends req and returns the response body. See the package documentation
// for how responses map to results and errors.
func (c *Client) Do(ctx context.Context, req Request) (json.RawMessage, error) {
	token, err := c.store.AccessToken(ctx)
	if err != nil {
		return nil, fmt.Errorf("read access token: %w", err)
	}
	return c.do(ctx, req, token)
}

func (c *Client) do(ctx context.Context, req Request, token string) (json.RawMessage, error) {
	status, header, body, err := c.roundTrip(ctx, req.Method, req.Endpoint, req.Header, req.Body, token)
	if err != nil {
		return nil, err
	}

	if status == http.StatusUnauthorized && !req.Retry {
		c.log.Debug(ctx, "unauthorized, refreshing", "method", req.Method, "endpoint", req.Endpoint)

		fresh, err := c.refresh(ctx, token)
		if err != nil {
			return nil, err
		}

		req.Retry = true
		c.log.Debug(ctx, "replaying request", "method", req.Method, "endpoint", req.Endpoint)
		return c.do(ctx, req, fresh)
	}

	return classify(status, header, body)
}

func classify(status int, header http.Header, body []byte) (json.RawMessage, error) {
	empty := status == http.StatusNoContent ||
		header.Get("Content-Length") == "0" ||
		len(bytes.TrimSpace(body)) == 0

	if status < 200 || status > 299 {
		if empty {
			return nil, newHTTPError(status, nil)
		}
		return nil, newHTTPError(status, body)
	}

	if empty {
		return json.RawMessage("{}"), nil
	}
	if !json.Valid(body) {
		return nil, fmt.Errorf("%w: body is not JSON", ErrDecode)
	}
	return json.RawMessage(body), nil
}

func (c *Client) url(endpoint string) string {
	if strings.HasPrefix(endpoint, "http://") || strings.HasPrefix(endpoint, "https://") {
		return endpoint
	}
	if !strings.HasPrefix(endpoint, "/") {
		endpoint = "/" + endpoint
	}
	return c.baseURL + endpoint
}

// roundTrip performs one HTTP exchange and reads the whole body.
func (c *Client) roundTrip(ctx context.Context, method, endpoint string, extra http.Header, payload any, token string) (int, http.Header, []byte, error) {
	if method == "" {
		method = http.MethodGet
	}
	url := c.url(endpoint)

	var body io.Reader
	if payload != nil {
		b, err := json.Marshal(payload)
		if err != nil {
			return 0, nil, nil, fmt.Errorf("encode request body: %w", err)
		}
		body = bytes.NewReader(b)
	}

	httpReq, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return 0, nil, nil, fmt.Errorf("build request: %w", err)
	}

	for k, vs := range extra {
		for _, v := range vs {
			httpReq.Header.Add(k, v)
		}
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set(common.RequestIDHeaderName, uuid.NewString())
	if token != "" {
		httpReq.Header.Set(common.AuthorizationHeaderName, common.BearerPrefix+token)
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		c.log.Warn(ctx, "request failed", "method", method, "url", url, "err", err)
		return 0, nil, nil, &NetworkError{Method: method, URL: url, Err: err}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, nil, nil, &NetworkError{Method: method, URL: url, Err: err}
	}

	c.log.Debug(ctx, "response", "method", method, "url", url, "status", resp.StatusCode)
	return resp.StatusCode, resp.Header, data, nil
}

func decodeInto(raw json.RawMessage, out any) error {
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("%w: %v", ErrDecode, err)
	}
	return nil
}

// Get fetches endpoint and decodes the body into out, which may be nil.
func (c *Client) Get(ctx context.Context, endpoint string, out any) error {
	raw, err := c.Do(ctx, Request{Method: http.MethodGet, Endpoint: endpoint})
	if err != nil {
		return err
	}
	return decodeInto(raw, out)
}

func (c *Client) Post(ctx context.Context, endpoint string, body, out any) error {
	raw, err := c.Do(ctx, Request{Method: http.MethodPost, Endpoint: endpoint, Body: body})
	if err != nil {
		return err
	}
	return decodeInto(raw, out)
}

func (c *Client) Put(ctx context.Context, endpoint string, body, out any) error {
	raw, err := c.Do(ctx, Request{Method: http.MethodPut, Endpoint: endpoint, Body: body})
	if err != nil {
		return err
	}
	return decodeInto(raw, out)
}

func (c *Client) Delete(ctx context.Context, endpoint string, out any) error {
	raw, err := c.Do(ctx, Request{Method: http.MethodDelete, Endpoint: endpoint})
	if err != nil {
		return err
	}
	return decodeInto(raw, out)
}
