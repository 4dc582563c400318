package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"time"

	"github.com/go-faster/errors"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/net/publicsuffix"
)

// Client talks JSON to the admissions backend and keeps the session cookies.
type Client struct {
	baseURL         *url.URL
	httpClient      *http.Client
	logger          logrus.FieldLogger
	requestIDHeader string
}

type Option func(*Client)

// WithHTTPClient replaces the underlying http.Client. Its Jar is replaced by a fresh
// cookie jar when nil.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

func WithLogger(logger logrus.FieldLogger) Option {
	return func(c *Client) { c.logger = logger }
}

func WithRequestIDHeader(header string) Option {
	return func(c *Client) { c.requestIDHeader = header }
}

// WithTimeout sets a per-request timeout. Zero keeps the platform default.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.httpClient.Timeout = d }
}

// New creates a client for baseURL, e.g. "http://localhost:8080".
func New(baseURL string, opts ...Option) (*Client, error) {
	u, err := url.Parse(strings.TrimSpace(baseURL))
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, errors.Errorf("invalid base url: %q", baseURL)
	}
	c := &Client{
		baseURL:         u,
		httpClient:      &http.Client{},
		logger:          logrus.StandardLogger(),
		requestIDHeader: "X-Request-ID",
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.httpClient.Jar == nil {
		jar, err := cookiejar.New(&cookiejar.Options{PublicSuffixList: publicsuffix.List})
		if err != nil {
			return nil, errors.Wrap(err, "cookie jar")
		}
		c.httpClient.Jar = jar
	}
	return c, nil
}

// BaseURL returns the backend origin the client was created for.
func (c *Client) BaseURL() string {
	return c.baseURL.String()
}

// URL builds the absolute URL of path with the given query.
func (c *Client) URL(path string, query url.Values) string {
	u := *c.baseURL
	u.Path = strings.TrimRight(u.Path, "/") + path
	u.RawQuery = ""
	if len(query) > 0 {
		u.RawQuery = query.Encode()
	}
	return u.String()
}

// Cookies returns the cookies the backend has set for its origin.
func (c *Client) Cookies() []*http.Cookie {
	return c.httpClient.Jar.Cookies(c.baseURL)
}

// SetCookies restores previously saved session cookies.
func (c *Client) SetCookies(cookies []*http.Cookie) {
	c.httpClient.Jar.SetCookies(c.baseURL, cookies)
}

// ClearCookies expires every cookie held for the backend origin.
func (c *Client) ClearCookies() {
	current := c.Cookies()
	expired := make([]*http.Cookie, 0, len(current))
	for _, ck := range current {
		expired = append(expired, &http.Cookie{Name: ck.Name, Value: "", Path: "/", MaxAge: -1})
	}
	c.httpClient.Jar.SetCookies(c.baseURL, expired)
}

type Request struct {
	Method string
	Path   string
	Query  url.Values
	Body   any
	Header http.Header
}

// Do sends req and decodes a successful body into out. It reports false, with a nil
// error, when the backend answered 2xx without a body (204): out is left untouched.
func (c *Client) Do(ctx context.Context, req Request, out any) (bool, error) {
	resp, err := c.send(ctx, req)
	if err != nil {
		return false, err
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return false, c.failed(req.Path, &APIError{Status: resp.StatusCode, Message: GenericMessage, cause: errors.Wrap(err, "read body")})
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return false, c.failed(req.Path, errorFromBody(resp.StatusCode, body))
	}
	if resp.StatusCode == http.StatusNoContent || len(bytes.TrimSpace(body)) == 0 {
		return false, nil
	}
	if out == nil {
		return true, nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return false, c.failed(req.Path, &APIError{Status: resp.StatusCode, Message: GenericMessage, cause: errors.Wrap(err, "decode body")})
	}
	return true, nil
}

// Stream copies a successful response body into w, e.g. an exported report file.
func (c *Client) Stream(ctx context.Context, path string, query url.Values, w io.Writer) (int64, error) {
	resp, err := c.send(ctx, Request{Method: http.MethodGet, Path: path, Query: query})
	if err != nil {
		return 0, err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(resp.Body)
		return 0, c.failed(path, errorFromBody(resp.StatusCode, body))
	}
	n, err := io.Copy(w, resp.Body)
	if err != nil {
		return n, c.failed(path, &APIError{Status: resp.StatusCode, Message: GenericMessage, cause: errors.Wrap(err, "copy body")})
	}
	return n, nil
}

func (c *Client) send(ctx context.Context, req Request) (*http.Response, error) {
	var body io.Reader
	if req.Body != nil {
		b, err := json.Marshal(req.Body)
		if err != nil {
			return nil, errors.Wrap(err, "encode request body")
		}
		body = bytes.NewReader(b)
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.Method, c.URL(req.Path, req.Query), body)
	if err != nil {
		return nil, errors.Wrap(err, "build request")
	}
	for key, values := range req.Header {
		for _, v := range values {
			httpReq.Header.Add(key, v)
		}
	}
	httpReq.Header.Set("Accept", "application/json")
	if req.Body != nil && httpReq.Header.Get("Content-Type") == "" {
		httpReq.Header.Set("Content-Type", "application/json")
	}
	requestID := uuid.NewString()
	if c.requestIDHeader != "" {
		httpReq.Header.Set(c.requestIDHeader, requestID)
	}

	started := time.Now()
	resp, err := c.httpClient.Do(httpReq)
	fields := logrus.Fields{
		"method":     req.Method,
		"path":       req.Path,
		"request_id": requestID,
		"duration":   time.Since(started),
	}
	if err != nil {
		c.logger.WithFields(fields).WithError(err).Debug("request failed")
		return nil, &APIError{Message: GenericMessage, cause: err}
	}
	fields["status"] = resp.StatusCode
	c.logger.WithFields(fields).Debug("request")
	return resp, nil
}

func (c *Client) failed(path string, e *APIError) *APIError {
	c.logger.WithField("path", path).Debug("backend error: " + e.Detail())
	return e
}

type errorEnvelope struct {
	Error any `json:"error"`
}

// errorFromBody prefers {"error": "..."} from a JSON body. A body that is not JSON is shown
// as raw text; anything else gets the generic message.
func errorFromBody(status int, body []byte) *APIError {
	if !json.Valid(body) {
		if text := strings.TrimSpace(string(body)); text != "" {
			return &APIError{Status: status, Message: text}
		}
		return &APIError{Status: status, Message: GenericMessage}
	}
	var env errorEnvelope
	if err := json.Unmarshal(body, &env); err == nil {
		switch msg := env.Error.(type) {
		case nil:
		case string:
			if msg != "" {
				return &APIError{Status: status, Message: msg}
			}
		default:
			return &APIError{Status: status, Message: strings.TrimSpace(string(mustJSON(msg)))}
		}
	}
	return &APIError{Status: status, Message: GenericMessage}
}

func mustJSON(v any) []byte {
	b, _ := json.Marshal(v)
	return b
}
