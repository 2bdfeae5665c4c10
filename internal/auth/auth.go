// Package auth attaches API credentials to outbound requests.
package auth

import (
	"context"
	"errors"
	"net/http"
)

// Static errors for err113 compliance.
var (
	ErrEmptyAPIKey = errors.New("API key is empty")
	ErrEmptyToken  = errors.New("access token is empty")
)

// Authenticator attaches a credential to every outbound request.
type Authenticator interface {
	Authenticate(ctx context.Context, req *http.Request) error
}

// APIKeyAuthenticator sends the site's private API key as the basic auth
// user name with an empty password.
type APIKeyAuthenticator struct {
	apiKey string
}

// NewAPIKeyAuthenticator creates an authenticator for apiKey.
func NewAPIKeyAuthenticator(apiKey string) *APIKeyAuthenticator {
	return &APIKeyAuthenticator{apiKey: apiKey}
}

// Authenticate implements Authenticator.
func (a *APIKeyAuthenticator) Authenticate(_ context.Context, req *http.Request) error {
	if a.apiKey == "" {
		return ErrEmptyAPIKey
	}

	req.SetBasicAuth(a.apiKey, "")

	return nil
}

// StaticTokenAuthenticator sends a fixed bearer token.
type StaticTokenAuthenticator struct {
	token string
}

// NewStaticTokenAuthenticator creates an authenticator for token.
func NewStaticTokenAuthenticator(token string) *StaticTokenAuthenticator {
	return &StaticTokenAuthenticator{token: token}
}

// Authenticate implements Authenticator.
func (a *StaticTokenAuthenticator) Authenticate(_ context.Context, req *http.Request) error {
	if a.token == "" {
		return ErrEmptyToken
	}

	req.Header.Set("Authorization", "Bearer "+a.token)

	return nil
}

// AuthenticatorFunc adapts a function to the Authenticator interface.
type AuthenticatorFunc func(ctx context.Context, req *http.Request) error

// Authenticate calls f.
func (f AuthenticatorFunc) Authenticate(ctx context.Context, req *http.Request) error {
	return f(ctx, req)
}
