package recurly

import (
	"regexp"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
)

var subdomainPattern = regexp.MustCompile(`^[a-z0-9][a-z0-9-]*$`)

// Config represents client configuration for building a recurly.Client.
//
// # Endpoint
//
// Either Subdomain or BaseURL must be set. recurlyclient.New derives the
// endpoint "https://<subdomain>.recurly.com/v2" from Subdomain when BaseURL
// is empty. BaseURL is mostly useful for tests and proxies.
//
// # Authentication
//
// APIKey is sent as HTTP basic auth with an empty password. AccessToken, when
// set instead, is sent as a static Bearer token. One of the two is required.
//
// # Timeouts and retries
//
// Per-request deadlines should be controlled via the context passed to client
// methods. The client does not retry by default: RetryMax is zero unless a
// caller opts in, in which case 429, 5xx and connection errors are retried
// with backoff between RetryWaitMin and RetryWaitMax.
type Config struct {
	// Subdomain: the site's subdomain, e.g. "mysite" for mysite.recurly.com.
	Subdomain string
	// BaseURL: full API endpoint; overrides Subdomain when set.
	BaseURL string

	// APIKey: private API key for the site.
	APIKey string
	// AccessToken: static bearer token, used when APIKey is empty.
	AccessToken string

	// APIVersion: value of the X-Api-Version header. Defaults to the version
	// this client was written against.
	APIVersion string
	// HTTPTimeout: overall timeout of the underlying HTTP client.
	HTTPTimeout time.Duration
	// RetryMax: number of retries for transient failures. Zero disables retries.
	RetryMax int
	// RetryWaitMin: minimum backoff between retries. Applied when RetryMax > 0.
	RetryWaitMin time.Duration
	// RetryWaitMax: maximum backoff between retries. Applied when RetryMax > 0.
	RetryWaitMax time.Duration
	// Debug: enables verbose HTTP request/response logging when a Logger is provided.
	Debug bool
	// Logger: optional structured logger used by the HTTP layer.
	Logger Logger
	// UserAgent: overrides the default User-Agent header sent by the client.
	UserAgent string
	// Interceptors: optional request/response hooks run around every call.
	Interceptors *InterceptorChain
}

// Validate checks the configuration for missing or inconsistent values.
func (c *Config) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Subdomain,
			validation.When(c.BaseURL == "", validation.Required.Error("subdomain or base URL is required")),
			validation.Match(subdomainPattern).Error("must contain only lowercase letters, digits and dashes"),
		),
		validation.Field(&c.BaseURL, is.URL),
		validation.Field(&c.APIKey,
			validation.When(c.AccessToken == "", validation.Required.Error("API key or access token is required")),
		),
		validation.Field(&c.HTTPTimeout, validation.Min(time.Duration(0))),
		validation.Field(&c.RetryMax, validation.Min(0)),
		validation.Field(&c.RetryWaitMin, validation.Min(time.Duration(0))),
		validation.Field(&c.RetryWaitMax,
			validation.Min(time.Duration(0)),
			validation.When(c.RetryWaitMin > 0 && c.RetryWaitMax > 0, validation.Min(c.RetryWaitMin)),
		),
	)
}
