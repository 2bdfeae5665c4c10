package commands

import (
	"encoding/json"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fivetwenty-io/recurly-client/internal/constants"
	"github.com/fivetwenty-io/recurly-client/internal/recurlytest"
	"github.com/fivetwenty-io/recurly-client/pkg/xmldoc"
)

func TestCreateClient_RequiresSite(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)

	_, err := CreateClient()
	require.ErrorIs(t, err, constants.ErrNoSiteConfigured)
}

func TestAccountsList(t *testing.T) {
	server := newSite(t)
	server.Handle(http.MethodGet, "/accounts", recurlytest.Reply{
		Body: recurlytest.Collection("accounts",
			recurlytest.Account("a1", "active", "a1@example.com"),
			recurlytest.Account("a2", "active", "a2@example.com"),
		),
		Headers: map[string]string{"X-Records": "2"},
	})

	t.Run("table", func(t *testing.T) {
		out, err := execute(t, NewAccountsCommand(), "list", "--state", "active")
		require.NoError(t, err)
		assert.Contains(t, out, "a1@example.com")
		assert.Contains(t, out, "a2@example.com")
		assert.NotContains(t, out, "Use --all")

		last, ok := server.Last()
		require.True(t, ok)
		assert.Equal(t, "state=active&per_page=50", last.RawQuery)
	})

	t.Run("json", func(t *testing.T) {
		viper.Set("output", "json")
		t.Cleanup(func() { viper.Set("output", "") })

		out, err := execute(t, NewAccountsCommand(), "list")
		require.NoError(t, err)

		var accounts []map[string]any
		require.NoError(t, json.Unmarshal([]byte(out), &accounts))
		require.Len(t, accounts, 2)
		assert.Equal(t, "a1", accounts[0]["account_code"])
		assert.Equal(t, "active", accounts[0]["state"])
	})

	t.Run("invalid output", func(t *testing.T) {
		viper.Set("output", "xml")
		t.Cleanup(func() { viper.Set("output", "") })

		_, err := execute(t, NewAccountsCommand(), "list")
		require.ErrorIs(t, err, constants.ErrInvalidOutputFormat)
	})

	t.Run("invalid time", func(t *testing.T) {
		_, err := execute(t, NewAccountsCommand(), "list", "--begin-time", "yesterday")
		require.ErrorIs(t, err, constants.ErrInvalidTime)
	})
}

func TestAccountsGet_NotFound(t *testing.T) {
	newSite(t)

	_, err := execute(t, NewAccountsCommand(), "get", "missing")
	require.ErrorIs(t, err, constants.ErrAccountNotFound)
}

func TestAccountsInvoices_MissingAccount(t *testing.T) {
	server := newSite(t)

	_, err := execute(t, NewAccountsCommand(), "invoices", "missing")
	require.ErrorIs(t, err, constants.ErrAccountNotFound)
	assert.Equal(t, 1, server.Calls(http.MethodGet, "/accounts/missing/invoices"))
}

func TestInvoicesList_ResolveAccounts(t *testing.T) {
	server := newSite(t)
	server.Handle(http.MethodGet, "/invoices", recurlytest.Reply{
		Body: recurlytest.Collection("invoices",
			recurlytest.Invoice("1001", "open", server.Href("/accounts/abc")),
			recurlytest.Invoice("1002", "collected", server.Href("/accounts/abc")),
			recurlytest.Invoice("1003", "open", server.Href("/accounts/def")),
		),
	})
	server.Handle(http.MethodGet, "/accounts/abc", recurlytest.Reply{
		Body: recurlytest.Document(recurlytest.Account("abc", "active", "abc@example.com")),
	})
	server.Handle(http.MethodGet, "/accounts/def", recurlytest.Reply{
		Body: recurlytest.Document(recurlytest.Account("def", "active", "def@example.com")),
	})

	out, err := execute(t, NewInvoicesCommand(), "list", "--resolve-accounts")
	require.NoError(t, err)
	assert.Contains(t, out, "abc@example.com")
	assert.Contains(t, out, "def@example.com")
	assert.Contains(t, out, "10.00 USD")

	assert.Equal(t, 1, server.Calls(http.MethodGet, "/accounts/abc"))
	assert.Equal(t, 1, server.Calls(http.MethodGet, "/accounts/def"))
}

func TestInvoicesList_WithoutResolveMakesNoAccountCalls(t *testing.T) {
	server := newSite(t)
	server.Handle(http.MethodGet, "/invoices", recurlytest.Reply{
		Body: recurlytest.Collection("invoices",
			recurlytest.Invoice("1001", "open", server.Href("/accounts/abc")),
		),
	})

	out, err := execute(t, NewInvoicesCommand(), "list")
	require.NoError(t, err)
	assert.Contains(t, out, "1001")
	assert.Contains(t, out, "abc")
	assert.Equal(t, 0, server.Calls(http.MethodGet, "/accounts/abc"))
}

func TestInvoicesVoid(t *testing.T) {
	server := newSite(t)
	server.Handle(http.MethodPut, "/invoices/{number}/void", recurlytest.Reply{
		Body: recurlytest.Document(recurlytest.Invoice("1001", "voided", server.Href("/accounts/abc"))),
	})

	out, err := execute(t, NewInvoicesCommand(), "void", "1001")
	require.NoError(t, err)
	assert.Equal(t, "Invoice 1001 is now voided\n", out)
	assert.Equal(t, 1, server.Calls(http.MethodPut, "/invoices/1001/void"))
}

func TestInvoicesGet_InvalidNumber(t *testing.T) {
	server := newSite(t)

	for _, arg := range []string{"abc", "0", "1.5"} {
		_, err := execute(t, NewInvoicesCommand(), "get", arg)
		require.ErrorIs(t, err, constants.ErrInvalidInvoiceNumber, arg)
	}

	assert.Empty(t, server.Requests())
}

func TestSubscriptionsTerminate(t *testing.T) {
	server := newSite(t)
	id := uuid.MustParse("3a1fd2b1-2f8c-4c3e-9b0e-6f1a2b3c4d5e")
	compact := xmldoc.CompactUUID(id)

	server.Handle(http.MethodPut, "/subscriptions/{id}/terminate", recurlytest.Reply{
		Body: recurlytest.Document(`<subscription><uuid>` + compact + `</uuid><state>expired</state></subscription>`),
	})

	t.Run("rejects an unknown refund type", func(t *testing.T) {
		_, err := execute(t, NewSubscriptionsCommand(), "terminate", id.String(), "--refund", "most")
		require.ErrorIs(t, err, constants.ErrInvalidRefundType)
	})

	t.Run("rejects an invalid id", func(t *testing.T) {
		_, err := execute(t, NewSubscriptionsCommand(), "terminate", "not-a-uuid")
		require.ErrorIs(t, err, constants.ErrInvalidSubscription)
	})

	t.Run("sends the refund type", func(t *testing.T) {
		out, err := execute(t, NewSubscriptionsCommand(), "terminate", id.String(), "--refund", "full")
		require.NoError(t, err)
		assert.Equal(t, "Subscription "+compact+" is now expired\n", out)

		last, ok := server.Last()
		require.True(t, ok)
		assert.Equal(t, "/subscriptions/"+compact+"/terminate", last.Path)
		assert.Equal(t, "refund=full", last.RawQuery)
	})
}

func TestGiftCardsCreate_Preview(t *testing.T) {
	server := newSite(t)
	server.Handle(http.MethodPost, "/gift_cards/preview", recurlytest.Reply{
		Status: http.StatusCreated,
		Body: recurlytest.Document(`<gift_card>` +
			`<product_code>gift</product_code>` +
			`<unit_amount_in_cents type="integer">2500</unit_amount_in_cents>` +
			`<currency>USD</currency>` +
			`</gift_card>`),
	})

	out, err := execute(t, NewGiftCardsCommand(), "create",
		"--product-code", "gift",
		"--amount", "25.00",
		"--gifter", "buyer",
		"--email", "friend@example.com",
		"--preview",
	)
	require.NoError(t, err)
	assert.Contains(t, out, "25.00 USD")

	assert.Equal(t, 0, server.Calls(http.MethodPost, "/gift_cards"))

	last, ok := server.Last()
	require.True(t, ok)
	assert.Equal(t, "/gift_cards/preview", last.Path)
	assert.Contains(t, last.Body, "<unit_amount_in_cents>2500</unit_amount_in_cents>")
	assert.Contains(t, last.Body, "<account_code>buyer</account_code>")
	assert.Contains(t, last.Body, "<email_address>friend@example.com</email_address>")
}

func TestGiftCardsCreate_InvalidAmount(t *testing.T) {
	server := newSite(t)

	_, err := execute(t, NewGiftCardsCommand(), "create",
		"--product-code", "gift",
		"--amount", "12.345",
		"--gifter", "buyer",
		"--email", "friend@example.com",
	)
	require.ErrorIs(t, err, constants.ErrInvalidAmount)
	assert.Empty(t, server.Requests())
}

func TestConfigCommands(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)

	configFile := filepath.Join(t.TempDir(), "config.yml")
	viper.SetConfigFile(configFile)

	t.Run("set writes the file", func(t *testing.T) {
		out, err := execute(t, NewConfigCommand(), "set", "subdomain", "mysite")
		require.NoError(t, err)
		assert.Equal(t, "Set subdomain\n", out)

		_, err = execute(t, NewConfigCommand(), "set", "api_key", "0123456789abcdef")
		require.NoError(t, err)

		data, err := os.ReadFile(configFile)
		require.NoError(t, err)
		assert.Contains(t, string(data), "subdomain: mysite")
		assert.Contains(t, string(data), "api_key: 0123456789abcdef")
	})

	t.Run("show masks secrets", func(t *testing.T) {
		out, err := execute(t, NewConfigCommand(), "show")
		require.NoError(t, err)
		assert.Contains(t, out, "mysite")
		assert.Contains(t, out, "***cdef")
		assert.NotContains(t, out, "0123456789abcdef")
	})

	t.Run("set-key reads from input", func(t *testing.T) {
		cmd := NewConfigCommand()
		cmd.SetIn(strings.NewReader("fedcba9876543210\n"))

		out, err := execute(t, cmd, "set-key")
		require.NoError(t, err)
		assert.Equal(t, "Saved API key ***3210\n", out)
		assert.Equal(t, "fedcba9876543210", viper.GetString("api_key"))
	})

	t.Run("unset clears the value", func(t *testing.T) {
		_, err := execute(t, NewConfigCommand(), "unset", "subdomain")
		require.NoError(t, err)
		assert.Empty(t, viper.GetString("subdomain"))

		data, err := os.ReadFile(configFile)
		require.NoError(t, err)
		assert.NotContains(t, string(data), "mysite")
	})

	t.Run("rejects bad values", func(t *testing.T) {
		_, err := execute(t, NewConfigCommand(), "set", "colour", "blue")
		require.ErrorIs(t, err, constants.ErrUnknownConfigKey)

		_, err = execute(t, NewConfigCommand(), "set", "output", "xml")
		require.ErrorIs(t, err, constants.ErrInvalidOutputFormat)

		_, err = execute(t, NewConfigCommand(), "set", "retry_max", "-1")
		require.ErrorIs(t, err, constants.ErrInvalidConfigValue)

		_, err = execute(t, NewConfigCommand(), "set", "debug", "maybe")
		require.ErrorIs(t, err, constants.ErrInvalidConfigValue)
	})
}

func TestVersionCommand(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)
	viper.Set("output", "json")

	out, err := execute(t, NewVersionCommand("1.2.3", "abc123", "2026-01-01"))
	require.NoError(t, err)

	var info map[string]string
	require.NoError(t, json.Unmarshal([]byte(out), &info))
	assert.Equal(t, "1.2.3", info["version"])
	assert.Equal(t, "abc123", info["commit"])
}
