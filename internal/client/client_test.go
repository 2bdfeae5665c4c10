package client

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fivetwenty-io/recurly-client/internal/auth"
	internalhttp "github.com/fivetwenty-io/recurly-client/internal/http"
	"github.com/fivetwenty-io/recurly-client/internal/recurlytest"
	"github.com/fivetwenty-io/recurly-client/pkg/recurly"
)

// NewTestClient creates a client against server with a fixed API key.
func NewTestClient(server *recurlytest.Server) *Client {
	httpClient := internalhttp.NewClient(server.URL, auth.NewAPIKeyAuthenticator("test-key"))

	return NewWithHTTPClient(httpClient, nil)
}

func TestNew(t *testing.T) {
	t.Parallel()

	t.Run("derives base URL from subdomain", func(t *testing.T) {
		t.Parallel()

		client, err := New(&recurly.Config{Subdomain: "mysite", APIKey: "key"})
		require.NoError(t, err)
		assert.Equal(t, "https://mysite.recurly.com/v2", client.BaseURL())
		assert.NotNil(t, client.Accounts())
		assert.NotNil(t, client.GiftCards())
		assert.NotNil(t, client.Invoices())
		assert.NotNil(t, client.Subscriptions())
	})

	t.Run("keeps explicit base URL", func(t *testing.T) {
		t.Parallel()

		client, err := New(&recurly.Config{BaseURL: "http://localhost:8080/v2", APIKey: "key"})
		require.NoError(t, err)
		assert.Equal(t, "http://localhost:8080/v2", client.BaseURL())
	})

	t.Run("rejects nil config", func(t *testing.T) {
		t.Parallel()

		_, err := New(nil)
		require.ErrorIs(t, err, recurly.ErrConfigRequired)
	})

	t.Run("rejects missing credentials", func(t *testing.T) {
		t.Parallel()

		_, err := New(&recurly.Config{Subdomain: "mysite"})
		require.Error(t, err)
	})
}

func TestCreateAuthenticator(t *testing.T) {
	t.Parallel()

	assert.IsType(t, &auth.APIKeyAuthenticator{}, createAuthenticator(&recurly.Config{APIKey: "k"}))
	assert.IsType(t, &auth.StaticTokenAuthenticator{}, createAuthenticator(&recurly.Config{APIKey: "k", AccessToken: "t"}))
	assert.Nil(t, createAuthenticator(&recurly.Config{}))
}

func TestClient_SendsCredentialsAndVersion(t *testing.T) {
	t.Parallel()

	server := recurlytest.NewServer(t)
	server.Handle(http.MethodGet, "/accounts/{code}", recurlytest.Reply{
		Body: recurlytest.Document(recurlytest.Account("abc", "active", "a@b.com")),
	})

	_, err := NewTestClient(server).Accounts().Get(context.Background(), "abc")
	require.NoError(t, err)

	last, ok := server.Last()
	require.True(t, ok)
	assert.Equal(t, "application/xml", last.Header.Get("Accept"))
	assert.Equal(t, "2.29", last.Header.Get("X-Api-Version"))

	req := &http.Request{Header: last.Header}
	user, password, ok := req.BasicAuth()
	require.True(t, ok)
	assert.Equal(t, "test-key", user)
	assert.Empty(t, password)
}

func TestSegment(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "abc", segment("abc"))
	assert.Equal(t, "a%20b%2Fc", segment("a b/c"))
	assert.Equal(t, "/accounts/a%20b%2Fc/invoices", accountPath("a b/c")+"/invoices")
}

func TestClient_ResolvesLinkedAccountOnce(t *testing.T) {
	t.Parallel()

	server := recurlytest.NewServer(t)
	server.Handle(http.MethodGet, "/invoices/{number}", recurlytest.Reply{
		Body: recurlytest.Document(recurlytest.Invoice("1001", "paid", server.Href("/accounts/abc"))),
	})
	server.Handle(http.MethodGet, "/accounts/{code}", recurlytest.Reply{
		Body: recurlytest.Document(recurlytest.Account("abc", "active", "a@b.com")),
	})

	invoice, err := NewTestClient(server).Invoices().Get(context.Background(), 1001)
	require.NoError(t, err)
	require.NotNil(t, invoice)
	assert.Equal(t, 1001, invoice.Number)
	assert.Equal(t, recurly.InvoiceStatePaid, invoice.State)
	assert.Equal(t, 0, server.Calls(http.MethodGet, "/accounts/abc"))

	account, err := invoice.Account.Get(context.Background())
	require.NoError(t, err)
	require.NotNil(t, account)
	assert.Equal(t, "abc", account.Code)

	again, err := invoice.Account.Get(context.Background())
	require.NoError(t, err)
	assert.Same(t, account, again)
	assert.Equal(t, 1, server.Calls(http.MethodGet, "/accounts/abc"))
}

func TestClient_MalformedBody(t *testing.T) {
	t.Parallel()

	server := recurlytest.NewServer(t)
	server.Handle(http.MethodGet, "/accounts/{code}", recurlytest.Reply{Body: "<account><account_code>abc"})

	_, err := NewTestClient(server).Accounts().Get(context.Background(), "abc")
	require.Error(t, err)
	assert.True(t, recurly.IsMalformed(err))
}

func TestClient_WrongRootIsMalformed(t *testing.T) {
	t.Parallel()

	server := recurlytest.NewServer(t)
	server.Handle(http.MethodGet, "/accounts/{code}", recurlytest.Reply{
		Body: recurlytest.Document("<subscription><uuid>x</uuid></subscription>"),
	})

	_, err := NewTestClient(server).Accounts().Get(context.Background(), "abc")
	require.Error(t, err)
	assert.True(t, recurly.IsMalformed(err))
}
