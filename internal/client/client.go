// Package client implements the resource clients of pkg/recurly on top of
// the HTTP dispatcher.
package client

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/fivetwenty-io/recurly-client/internal/auth"
	"github.com/fivetwenty-io/recurly-client/internal/constants"
	recurlyhttp "github.com/fivetwenty-io/recurly-client/internal/http"
	"github.com/fivetwenty-io/recurly-client/pkg/recurly"
	"github.com/fivetwenty-io/recurly-client/pkg/xmldoc"
)

// Client implements the recurly.Client interface.
type Client struct {
	httpClient *recurlyhttp.Client
	baseURL    string
	logger     recurly.Logger

	accounts      *AccountsClient
	giftCards     *GiftCardsClient
	invoices      *InvoicesClient
	subscriptions *SubscriptionsClient
}

// createAuthenticator picks the credential to send. A bearer token wins over
// an API key when both are configured.
func createAuthenticator(config *recurly.Config) auth.Authenticator {
	if config.AccessToken != "" {
		return auth.NewStaticTokenAuthenticator(config.AccessToken)
	}

	if config.APIKey != "" {
		return auth.NewAPIKeyAuthenticator(config.APIKey)
	}

	return nil
}

// createHTTPClientOptions builds HTTP client options from config.
func createHTTPClientOptions(config *recurly.Config) []recurlyhttp.Option {
	var httpOpts []recurlyhttp.Option

	if config.Logger != nil {
		httpOpts = append(httpOpts, recurlyhttp.WithLogger(config.Logger))
	}

	if config.Debug {
		httpOpts = append(httpOpts, recurlyhttp.WithDebug(true))
	}

	if config.UserAgent != "" {
		httpOpts = append(httpOpts, recurlyhttp.WithUserAgent(config.UserAgent))
	}

	if config.APIVersion != "" {
		httpOpts = append(httpOpts, recurlyhttp.WithAPIVersion(config.APIVersion))
	}

	if config.HTTPTimeout > 0 {
		httpOpts = append(httpOpts, recurlyhttp.WithTimeout(config.HTTPTimeout))
	}

	if config.Interceptors != nil {
		httpOpts = append(httpOpts, recurlyhttp.WithInterceptors(config.Interceptors))
	}

	if config.RetryMax > 0 {
		retryWaitMin := constants.DefaultRetryWaitMin
		retryWaitMax := constants.DefaultRetryWaitMax

		if config.RetryWaitMin > 0 {
			retryWaitMin = config.RetryWaitMin
		}

		if config.RetryWaitMax > 0 {
			retryWaitMax = config.RetryWaitMax
		}

		httpOpts = append(httpOpts, recurlyhttp.WithRetryConfig(config.RetryMax, retryWaitMin, retryWaitMax))
	}

	return httpOpts
}

// New creates a client for config. Without a BaseURL the endpoint is derived
// from the subdomain.
func New(config *recurly.Config) (*Client, error) {
	if config == nil {
		return nil, recurly.ErrConfigRequired
	}

	err := config.Validate()
	if err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	baseURL := config.BaseURL
	if baseURL == "" {
		baseURL = fmt.Sprintf(constants.BaseURLTemplate, config.Subdomain)
	}

	httpClient := recurlyhttp.NewClient(baseURL, createAuthenticator(config), createHTTPClientOptions(config)...)

	return NewWithHTTPClient(httpClient, config.Logger), nil
}

// NewWithHTTPClient creates a client over an existing dispatcher.
func NewWithHTTPClient(httpClient *recurlyhttp.Client, logger recurly.Logger) *Client {
	client := &Client{
		httpClient: httpClient,
		baseURL:    httpClient.BaseURL(),
		logger:     logger,
	}

	client.initializeResourceClients()

	return client
}

func (c *Client) initializeResourceClients() {
	c.accounts = NewAccountsClient(c.httpClient)
	c.giftCards = NewGiftCardsClient(c.httpClient)
	c.invoices = NewInvoicesClient(c.httpClient)
	c.subscriptions = NewSubscriptionsClient(c.httpClient)
}

// Accounts implements recurly.Client.
func (c *Client) Accounts() recurly.AccountsClient {
	return c.accounts
}

// GiftCards implements recurly.Client.
func (c *Client) GiftCards() recurly.GiftCardsClient {
	return c.giftCards
}

// Invoices implements recurly.Client.
func (c *Client) Invoices() recurly.InvoicesClient {
	return c.invoices
}

// Subscriptions implements recurly.Client.
func (c *Client) Subscriptions() recurly.SubscriptionsClient {
	return c.subscriptions
}

// BaseURL returns the endpoint requests are sent to.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// HTTPClient returns the dispatcher, e.g. to send requests for resources
// without a dedicated client.
func (c *Client) HTTPClient() *recurlyhttp.Client {
	return c.httpClient
}

// fetch reads the document at path, which must have a root named root. A
// missing resource is reported as (nil, nil).
func fetch[T any, PT recurly.Entity[T]](ctx context.Context, hc *recurlyhttp.Client, path, root string) (*T, error) {
	v := PT(new(T))

	_, err := hc.Perform(ctx, http.MethodGet, path, nil, xmldoc.Expect(root, v))
	if err != nil {
		if recurly.IsNotFound(err) {
			return nil, nil
		}

		return nil, err
	}

	return (*T)(v), nil
}

// send writes body to path and decodes the answer, which must have a root
// named root.
func send[T any, PT recurly.Entity[T]](ctx context.Context, hc *recurlyhttp.Client, method, path string, body xmldoc.Encoder, root string) (*T, error) {
	v := PT(new(T))

	_, err := hc.Perform(ctx, method, path, body, xmldoc.Expect(root, v))
	if err != nil {
		return nil, err
	}

	return (*T)(v), nil
}

// segment escapes a natural key for use as one path segment.
func segment(key string) string {
	return url.PathEscape(key)
}
