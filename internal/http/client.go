// Package http dispatches API requests over HTTP. It builds the wire request
// from a recurly.Request, applies credentials and standard headers, and wraps
// every outcome into a recurly.Response or a typed *recurly.Error.
package http

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/hashicorp/go-retryablehttp"

	"github.com/fivetwenty-io/recurly-client/internal/auth"
	"github.com/fivetwenty-io/recurly-client/internal/constants"
	"github.com/fivetwenty-io/recurly-client/pkg/recurly"
	"github.com/fivetwenty-io/recurly-client/pkg/xmldoc"
)

// Client sends requests relative to a site base URL.
type Client struct {
	baseURL       string
	authenticator auth.Authenticator
	httpClient    *retryablehttp.Client
	logger        recurly.Logger
	debug         bool
	userAgent     string
	apiVersion    string
	interceptors  *recurly.InterceptorChain
}

// Option configures a Client.
type Option func(*Client)

// WithLogger sets the logger used for request tracing and retry warnings.
func WithLogger(logger recurly.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithDebug enables a log line for every request and response.
func WithDebug(debug bool) Option {
	return func(c *Client) {
		c.debug = debug
	}
}

// WithUserAgent overrides the User-Agent header.
func WithUserAgent(userAgent string) Option {
	return func(c *Client) {
		c.userAgent = userAgent
	}
}

// WithAPIVersion overrides the X-Api-Version header.
func WithAPIVersion(version string) Option {
	return func(c *Client) {
		c.apiVersion = version
	}
}

// WithRetryConfig enables retries of transport failures, 429 and 5xx
// responses. Requests are sent exactly once unless this is set.
func WithRetryConfig(maxRetries int, waitMin, waitMax time.Duration) Option {
	return func(c *Client) {
		c.httpClient.RetryMax = maxRetries
		c.httpClient.RetryWaitMin = waitMin
		c.httpClient.RetryWaitMax = waitMax
	}
}

// WithHTTPClient replaces the underlying transport client.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		c.httpClient.HTTPClient = httpClient
	}
}

// WithTimeout sets the overall timeout of a single attempt.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		c.httpClient.HTTPClient.Timeout = timeout
	}
}

// WithInterceptors installs a request/response interceptor chain.
func WithInterceptors(chain *recurly.InterceptorChain) Option {
	return func(c *Client) {
		c.interceptors = chain
	}
}

// NewClient creates a client for baseURL. authenticator may be nil for
// servers that need no credentials.
func NewClient(baseURL string, authenticator auth.Authenticator, opts ...Option) *Client {
	retryClient := retryablehttp.NewClient()
	retryClient.HTTPClient = &http.Client{
		Timeout: constants.DefaultHTTPTimeout,
		CheckRedirect: func(*http.Request, []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}
	retryClient.RetryMax = constants.DefaultRetryMax
	retryClient.RetryWaitMin = constants.DefaultRetryWaitMin
	retryClient.RetryWaitMax = constants.DefaultRetryWaitMax
	retryClient.Logger = nil
	// Hand the last response back instead of an opaque "giving up" error so
	// that 5xx bodies reach the error parser.
	retryClient.ErrorHandler = retryablehttp.PassthroughErrorHandler

	client := &Client{
		baseURL:       strings.TrimSuffix(baseURL, "/"),
		authenticator: authenticator,
		httpClient:    retryClient,
		userAgent:     constants.DefaultUserAgent,
		apiVersion:    constants.DefaultAPIVersion,
	}

	for _, opt := range opts {
		opt(client)
	}

	if client.logger != nil {
		retryClient.Logger = &leveledLogger{logger: client.logger}
	}

	retryClient.RequestLogHook = client.logRetry

	return client
}

// BaseURL returns the URL that relative paths are resolved against.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Do sends req. A response that arrived is always returned, together with a
// *recurly.Error when its status is not 2xx. Transport failures return a nil
// response and an error of kind transport.
func (c *Client) Do(ctx context.Context, req *recurly.Request) (*recurly.Response, error) {
	if c.interceptors != nil {
		err := c.interceptors.ExecuteRequestInterceptors(ctx, req)
		if err != nil {
			return nil, err
		}
	}

	httpReq, err := c.buildRequest(ctx, req)
	if err != nil {
		return nil, err
	}

	if c.debug && c.logger != nil {
		c.logger.Debug("HTTP Request", map[string]interface{}{
			"method": req.Method,
			"url":    httpReq.URL.String(),
		})
	}

	start := time.Now()

	httpResp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, recurly.NewTransportError(fmt.Errorf("%s %s: %w", req.Method, httpReq.URL.Redacted(), err))
	}

	defer func() { _ = httpResp.Body.Close() }()

	body, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, recurly.NewTransportError(fmt.Errorf("reading response body: %w", err))
	}

	resp := recurly.NewResponse(httpResp.StatusCode, httpResp.Header, body)

	if c.debug && c.logger != nil {
		requestID, _ := resp.RequestID()
		c.logger.Debug("HTTP Response", map[string]interface{}{
			"status":     resp.StatusCode(),
			"duration":   time.Since(start).String(),
			"request_id": requestID,
		})
	}

	if c.interceptors != nil {
		err = c.interceptors.ExecuteResponseInterceptors(ctx, req, resp)
		if err != nil {
			return resp, err
		}
	}

	return resp, recurly.ErrorFromResponse(resp)
}

// Perform sends a request, decodes a successful body into into when it is
// not nil, and returns the response.
func (c *Client) Perform(ctx context.Context, method, path string, body xmldoc.Encoder, into xmldoc.Decoder) (*recurly.Response, error) {
	req := recurly.NewRequest(method, path)
	req.Body = body

	resp, err := c.Do(ctx, req)
	if err != nil {
		return resp, err
	}

	if into == nil || len(bytes.TrimSpace(resp.Body())) == 0 {
		return resp, nil
	}

	err = xmldoc.NewReaderBytes(resp.Body()).WithResolver(c).DecodeRoot("", into)
	if err != nil {
		return resp, recurly.NewMalformedError(resp, err)
	}

	return resp, nil
}

// Resolve fetches href and decodes it into v. It satisfies xmldoc.Resolver
// so that linked fields of decoded entities can load themselves.
func (c *Client) Resolve(ctx context.Context, href string, v xmldoc.Decoder) error {
	_, err := c.Perform(ctx, http.MethodGet, href, nil, v)

	return err
}

// Get performs a GET request.
func (c *Client) Get(ctx context.Context, path string) (*recurly.Response, error) {
	return c.Do(ctx, recurly.NewRequest(http.MethodGet, path))
}

// Post performs a POST request.
func (c *Client) Post(ctx context.Context, path string, body xmldoc.Encoder) (*recurly.Response, error) {
	req := recurly.NewRequest(http.MethodPost, path)
	req.Body = body

	return c.Do(ctx, req)
}

// Put performs a PUT request.
func (c *Client) Put(ctx context.Context, path string, body xmldoc.Encoder) (*recurly.Response, error) {
	req := recurly.NewRequest(http.MethodPut, path)
	req.Body = body

	return c.Do(ctx, req)
}

// Delete performs a DELETE request.
func (c *Client) Delete(ctx context.Context, path string) (*recurly.Response, error) {
	return c.Do(ctx, recurly.NewRequest(http.MethodDelete, path))
}

func (c *Client) buildRequest(ctx context.Context, req *recurly.Request) (*retryablehttp.Request, error) {
	target, err := c.resolveURL(req.Path)
	if err != nil {
		return nil, err
	}

	var payload []byte

	if req.Body != nil {
		payload, err = xmldoc.Marshal(req.Body)
		if err != nil {
			return nil, fmt.Errorf("encoding request body: %w", err)
		}
	}

	var rawBody interface{}
	if payload != nil {
		rawBody = payload
	}

	httpReq, err := retryablehttp.NewRequestWithContext(ctx, req.Method, target, rawBody)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	httpReq.Header.Set("Accept", constants.ContentTypeXML)
	httpReq.Header.Set("User-Agent", c.userAgent)

	if c.apiVersion != "" {
		httpReq.Header.Set(constants.HeaderAPIVersion, c.apiVersion)
	}

	if payload != nil {
		httpReq.Header.Set(constants.HeaderContentType, constants.ContentTypeXMLUTF8)
	}

	for name, values := range req.Headers {
		for i, value := range values {
			if i == 0 {
				httpReq.Header.Set(name, value)
			} else {
				httpReq.Header.Add(name, value)
			}
		}
	}

	if c.authenticator != nil {
		err = c.authenticator.Authenticate(ctx, httpReq.Request)
		if err != nil {
			return nil, fmt.Errorf("authenticating request: %w", err)
		}
	}

	return httpReq, nil
}

// resolveURL joins a relative endpoint path onto the base URL. Absolute
// URLs, such as pagination cursors and entity hrefs, are used as given, and a
// path that already starts with the base path is resolved against the base
// URL's host only.
func (c *Client) resolveURL(path string) (string, error) {
	parsed, err := url.Parse(path)
	if err != nil {
		return "", fmt.Errorf("invalid request path %q: %w", path, err)
	}

	if parsed.IsAbs() {
		return path, nil
	}

	base, err := url.Parse(c.baseURL)
	if err != nil {
		return "", fmt.Errorf("invalid base URL %q: %w", c.baseURL, err)
	}

	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}

	prefix := strings.TrimSuffix(base.Path, "/")
	if prefix != "" && (path == prefix || strings.HasPrefix(path, prefix+"/") || strings.HasPrefix(path, prefix+"?")) {
		return base.ResolveReference(parsed).String(), nil
	}

	return c.baseURL + path, nil
}

func (c *Client) logRetry(_ retryablehttp.Logger, req *http.Request, attempt int) {
	if attempt == 0 || c.logger == nil {
		return
	}

	c.logger.Warn("HTTP Retry", map[string]interface{}{
		"method":  req.Method,
		"url":     req.URL.Redacted(),
		"attempt": attempt,
	})
}

// leveledLogger forwards retryablehttp's own messages. Its per-attempt debug
// lines are dropped; the client logs requests and retries itself.
type leveledLogger struct {
	logger recurly.Logger
}

func (l *leveledLogger) Error(msg string, keysAndValues ...interface{}) {
	l.logger.Error(msg, fieldsOf(keysAndValues))
}

func (l *leveledLogger) Info(msg string, keysAndValues ...interface{}) {
	l.logger.Info(msg, fieldsOf(keysAndValues))
}

func (l *leveledLogger) Debug(string, ...interface{}) {}

func (l *leveledLogger) Warn(msg string, keysAndValues ...interface{}) {
	l.logger.Warn(msg, fieldsOf(keysAndValues))
}

func fieldsOf(keysAndValues []interface{}) map[string]interface{} {
	fields := make(map[string]interface{}, len(keysAndValues)/2)

	for i := 0; i+1 < len(keysAndValues); i += 2 {
		fields[fmt.Sprint(keysAndValues[i])] = keysAndValues[i+1]
	}

	return fields
}
