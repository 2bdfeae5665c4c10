package recurlyclient

import (
	"fmt"
	"strings"

	"github.com/fivetwenty-io/recurly-client/internal/client"
	"github.com/fivetwenty-io/recurly-client/internal/constants"
	"github.com/fivetwenty-io/recurly-client/pkg/recurly"
)

// New creates a client from config. The config is copied, so later changes
// to it do not affect the client.
func New(config *recurly.Config) (recurly.Client, error) {
	if config == nil {
		return nil, recurly.ErrConfigRequired
	}

	normalized := *config
	normalized.Subdomain = strings.ToLower(strings.TrimSpace(normalized.Subdomain))
	normalized.BaseURL = NormalizeBaseURL(normalized.BaseURL)

	if normalized.BaseURL == "" && normalized.Subdomain != "" {
		normalized.BaseURL = fmt.Sprintf(constants.BaseURLTemplate, normalized.Subdomain)
	}

	c, err := client.New(&normalized)
	if err != nil {
		return nil, fmt.Errorf("failed to create new client: %w", err)
	}

	return c, nil
}

// NewWithAPIKey creates a client for the site at subdomain.
func NewWithAPIKey(subdomain, apiKey string) (recurly.Client, error) {
	return New(&recurly.Config{
		Subdomain: subdomain,
		APIKey:    apiKey,
	})
}

// NewWithToken creates a client for baseURL that sends a bearer token.
func NewWithToken(baseURL, token string) (recurly.Client, error) {
	return New(&recurly.Config{
		BaseURL:     baseURL,
		AccessToken: token,
	})
}

// NormalizeBaseURL trims whitespace and trailing slashes and defaults the
// scheme to https. An empty input stays empty.
func NormalizeBaseURL(baseURL string) string {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		return ""
	}

	if !strings.HasPrefix(baseURL, "http://") && !strings.HasPrefix(baseURL, "https://") {
		baseURL = "https://" + baseURL
	}

	return baseURL
}
