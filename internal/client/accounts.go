package client

import (
	"context"
	"fmt"
	"net/http"

	recurlyhttp "github.com/fivetwenty-io/recurly-client/internal/http"
	"github.com/fivetwenty-io/recurly-client/pkg/recurly"
)

// AccountsClient implements recurly.AccountsClient.
type AccountsClient struct {
	httpClient *recurlyhttp.Client
}

// NewAccountsClient creates a new accounts client.
func NewAccountsClient(httpClient *recurlyhttp.Client) *AccountsClient {
	return &AccountsClient{httpClient: httpClient}
}

func accountPath(code string) string {
	return "/accounts/" + segment(code)
}

// Get implements recurly.AccountsClient.Get.
func (c *AccountsClient) Get(ctx context.Context, code string) (*recurly.Account, error) {
	if code == "" {
		return nil, fmt.Errorf("%w: account code", recurly.ErrKeyRequired)
	}

	account, err := fetch[recurly.Account](ctx, c.httpClient, accountPath(code), "account")
	if err != nil {
		return nil, fmt.Errorf("getting account %s: %w", code, err)
	}

	return account, nil
}

// List implements recurly.AccountsClient.List.
func (c *AccountsClient) List(criteria *recurly.FilterCriteria) *recurly.List[recurly.Account] {
	return recurly.NewList[recurly.Account](c.httpClient, criteria.AppendTo("/accounts"), "accounts", "account")
}

// Create implements recurly.AccountsClient.Create.
func (c *AccountsClient) Create(ctx context.Context, account *recurly.Account) (*recurly.Account, error) {
	err := account.Validate()
	if err != nil {
		return nil, fmt.Errorf("creating account: %w", err)
	}

	created, err := send[recurly.Account](ctx, c.httpClient, http.MethodPost, "/accounts", account, "account")
	if err != nil {
		return nil, fmt.Errorf("creating account: %w", err)
	}

	return created, nil
}

// Update implements recurly.AccountsClient.Update.
func (c *AccountsClient) Update(ctx context.Context, account *recurly.Account) (*recurly.Account, error) {
	if account.Code == "" {
		return nil, fmt.Errorf("%w: account code", recurly.ErrKeyRequired)
	}

	updated, err := send[recurly.Account](ctx, c.httpClient, http.MethodPut, accountPath(account.Code), account, "account")
	if err != nil {
		return nil, fmt.Errorf("updating account %s: %w", account.Code, err)
	}

	return updated, nil
}

// Close implements recurly.AccountsClient.Close.
func (c *AccountsClient) Close(ctx context.Context, code string) error {
	if code == "" {
		return fmt.Errorf("%w: account code", recurly.ErrKeyRequired)
	}

	_, err := c.httpClient.Delete(ctx, accountPath(code))
	if err != nil {
		return fmt.Errorf("closing account %s: %w", code, err)
	}

	return nil
}

// Reopen implements recurly.AccountsClient.Reopen.
func (c *AccountsClient) Reopen(ctx context.Context, code string) (*recurly.Account, error) {
	if code == "" {
		return nil, fmt.Errorf("%w: account code", recurly.ErrKeyRequired)
	}

	account, err := send[recurly.Account](ctx, c.httpClient, http.MethodPut, accountPath(code)+"/reopen", nil, "account")
	if err != nil {
		return nil, fmt.Errorf("reopening account %s: %w", code, err)
	}

	return account, nil
}

// ListInvoices implements recurly.AccountsClient.ListInvoices.
func (c *AccountsClient) ListInvoices(code string, criteria *recurly.FilterCriteria) *recurly.List[recurly.Invoice] {
	return recurly.NewList[recurly.Invoice](c.httpClient, criteria.AppendTo(accountPath(code)+"/invoices"), "invoices", "invoice")
}

// ListSubscriptions implements recurly.AccountsClient.ListSubscriptions.
func (c *AccountsClient) ListSubscriptions(code string, criteria *recurly.FilterCriteria) *recurly.List[recurly.Subscription] {
	return recurly.NewList[recurly.Subscription](c.httpClient, criteria.AppendTo(accountPath(code)+"/subscriptions"), "subscriptions", "subscription")
}

// GetBillingInfo implements recurly.AccountsClient.GetBillingInfo.
func (c *AccountsClient) GetBillingInfo(ctx context.Context, code string) (*recurly.BillingInfo, error) {
	if code == "" {
		return nil, fmt.Errorf("%w: account code", recurly.ErrKeyRequired)
	}

	info, err := fetch[recurly.BillingInfo](ctx, c.httpClient, accountPath(code)+"/billing_info", "billing_info")
	if err != nil {
		return nil, fmt.Errorf("getting billing info for %s: %w", code, err)
	}

	return info, nil
}
