package client

import (
	"context"
	"net/http"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fivetwenty-io/recurly-client/internal/recurlytest"
	"github.com/fivetwenty-io/recurly-client/pkg/recurly"
)

const invoiceDocument = `<invoice>
  <account href="https://api.example.test/v2/accounts/abc"/>
  <uuid>421f7b7d414e4c6792938e7c49d552e9</uuid>
  <state>open</state>
  <invoice_number type="integer">1005</invoice_number>
  <currency>USD</currency>
  <subtotal_in_cents type="integer">1200</subtotal_in_cents>
  <tax_in_cents type="integer">105</tax_in_cents>
  <total_in_cents type="integer">1305</total_in_cents>
  <tax_type>usst</tax_type>
  <tax_rate type="float">0.0875</tax_rate>
  <collection_method>manual</collection_method>
  <line_items type="array">
    <adjustment>
      <uuid>626db120a84102b1809909071c701c60</uuid>
      <description>Setup fee</description>
      <unit_amount_in_cents type="integer">1200</unit_amount_in_cents>
      <quantity type="integer">1</quantity>
    </adjustment>
  </line_items>
</invoice>`

func TestInvoicesClient_Get(t *testing.T) {
	t.Parallel()

	server := recurlytest.NewServer(t)
	server.Handle(http.MethodGet, "/invoices/{number}", recurlytest.Reply{Body: recurlytest.Document(invoiceDocument)})

	invoice, err := NewTestClient(server).Invoices().Get(context.Background(), 1005)
	require.NoError(t, err)
	require.NotNil(t, invoice)
	assert.Equal(t, 1005, invoice.Number)
	assert.Equal(t, "1005", invoice.Key())
	assert.Equal(t, recurly.InvoiceStateOpen, invoice.State)
	assert.Equal(t, recurly.CollectionManual, invoice.CollectionMethod)
	assert.True(t, decimal.RequireFromString("0.0875").Equal(invoice.TaxRate))
	require.Len(t, invoice.LineItems, 1)
	assert.Equal(t, "Setup fee", invoice.LineItems[0].Description)
	assert.Equal(t, "https://api.example.test/v2/accounts/abc", invoice.Account.Href())

	missing, err := NewTestClient(server).Invoices().Get(context.Background(), -1)
	require.ErrorIs(t, err, recurly.ErrKeyRequired)
	assert.Nil(t, missing)
}

func TestInvoicesClient_Transitions(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		path string
		call func(*InvoicesClient, context.Context) (*recurly.Invoice, error)
	}{
		{
			name: "mark successful",
			path: "/invoices/1005/mark_successful",
			call: func(c *InvoicesClient, ctx context.Context) (*recurly.Invoice, error) {
				return c.MarkSuccessful(ctx, 1005)
			},
		},
		{
			name: "mark failed",
			path: "/invoices/1005/mark_failed",
			call: func(c *InvoicesClient, ctx context.Context) (*recurly.Invoice, error) {
				return c.MarkFailed(ctx, 1005)
			},
		},
		{
			name: "void",
			path: "/invoices/1005/void",
			call: func(c *InvoicesClient, ctx context.Context) (*recurly.Invoice, error) {
				return c.Void(ctx, 1005)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			server := recurlytest.NewServer(t)
			server.Handle(http.MethodPut, tt.path, recurlytest.Reply{Body: recurlytest.Document(invoiceDocument)})

			invoice, err := tt.call(NewTestClient(server).invoices, context.Background())
			require.NoError(t, err)
			assert.Equal(t, 1005, invoice.Number)
			assert.Equal(t, 1, server.Calls(http.MethodPut, tt.path))
		})
	}
}

func TestInvoicesClient_ListForAccount(t *testing.T) {
	t.Parallel()

	server := recurlytest.NewServer(t)
	server.Handle(http.MethodGet, "/accounts/{code}/invoices", recurlytest.Reply{
		Body: recurlytest.Collection("invoices",
			recurlytest.Invoice("1", "paid", server.Href("/accounts/abc")),
			recurlytest.Invoice("2", "failed", server.Href("/accounts/abc")),
		),
	})

	criteria := recurly.NewFilterCriteria().WithState("paid")

	invoices, err := NewTestClient(server).Invoices().ListForAccount("abc", criteria).Collect(context.Background())
	require.NoError(t, err)
	require.Len(t, invoices, 2)
	assert.Equal(t, recurly.InvoiceStateFailed, invoices[1].State)

	last, ok := server.Last()
	require.True(t, ok)
	assert.Equal(t, "state=paid", last.RawQuery)
}
