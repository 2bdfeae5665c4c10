package client

import (
	"context"
	"fmt"
	"net/http"
	"strconv"

	recurlyhttp "github.com/fivetwenty-io/recurly-client/internal/http"
	"github.com/fivetwenty-io/recurly-client/pkg/recurly"
)

// InvoicesClient implements recurly.InvoicesClient.
type InvoicesClient struct {
	httpClient *recurlyhttp.Client
}

// NewInvoicesClient creates a new invoices client.
func NewInvoicesClient(httpClient *recurlyhttp.Client) *InvoicesClient {
	return &InvoicesClient{httpClient: httpClient}
}

func invoicePath(number int) string {
	return "/invoices/" + strconv.Itoa(number)
}

// Get implements recurly.InvoicesClient.Get.
func (c *InvoicesClient) Get(ctx context.Context, number int) (*recurly.Invoice, error) {
	if number <= 0 {
		return nil, fmt.Errorf("%w: invoice number", recurly.ErrKeyRequired)
	}

	invoice, err := fetch[recurly.Invoice](ctx, c.httpClient, invoicePath(number), "invoice")
	if err != nil {
		return nil, fmt.Errorf("getting invoice %d: %w", number, err)
	}

	return invoice, nil
}

// List implements recurly.InvoicesClient.List.
func (c *InvoicesClient) List(criteria *recurly.FilterCriteria) *recurly.List[recurly.Invoice] {
	return recurly.NewList[recurly.Invoice](c.httpClient, criteria.AppendTo("/invoices"), "invoices", "invoice")
}

// ListForAccount implements recurly.InvoicesClient.ListForAccount.
func (c *InvoicesClient) ListForAccount(accountCode string, criteria *recurly.FilterCriteria) *recurly.List[recurly.Invoice] {
	return recurly.NewList[recurly.Invoice](c.httpClient, criteria.AppendTo(accountPath(accountCode)+"/invoices"), "invoices", "invoice")
}

// MarkSuccessful implements recurly.InvoicesClient.MarkSuccessful.
func (c *InvoicesClient) MarkSuccessful(ctx context.Context, number int) (*recurly.Invoice, error) {
	return c.transition(ctx, number, "mark_successful")
}

// MarkFailed implements recurly.InvoicesClient.MarkFailed.
func (c *InvoicesClient) MarkFailed(ctx context.Context, number int) (*recurly.Invoice, error) {
	return c.transition(ctx, number, "mark_failed")
}

// Void implements recurly.InvoicesClient.Void.
func (c *InvoicesClient) Void(ctx context.Context, number int) (*recurly.Invoice, error) {
	return c.transition(ctx, number, "void")
}

func (c *InvoicesClient) transition(ctx context.Context, number int, action string) (*recurly.Invoice, error) {
	if number <= 0 {
		return nil, fmt.Errorf("%w: invoice number", recurly.ErrKeyRequired)
	}

	invoice, err := send[recurly.Invoice](ctx, c.httpClient, http.MethodPut, invoicePath(number)+"/"+action, nil, "invoice")
	if err != nil {
		return nil, fmt.Errorf("invoice %d %s: %w", number, action, err)
	}

	return invoice, nil
}
