package client

import (
	"context"
	"fmt"
	"net/http"

	"github.com/google/uuid"

	recurlyhttp "github.com/fivetwenty-io/recurly-client/internal/http"
	"github.com/fivetwenty-io/recurly-client/pkg/recurly"
	"github.com/fivetwenty-io/recurly-client/pkg/xmldoc"
)

// SubscriptionsClient implements recurly.SubscriptionsClient.
type SubscriptionsClient struct {
	httpClient *recurlyhttp.Client
}

// NewSubscriptionsClient creates a new subscriptions client.
func NewSubscriptionsClient(httpClient *recurlyhttp.Client) *SubscriptionsClient {
	return &SubscriptionsClient{httpClient: httpClient}
}

func subscriptionPath(id uuid.UUID) string {
	return "/subscriptions/" + xmldoc.CompactUUID(id)
}

// Get implements recurly.SubscriptionsClient.Get.
func (c *SubscriptionsClient) Get(ctx context.Context, id uuid.UUID) (*recurly.Subscription, error) {
	if id == uuid.Nil {
		return nil, fmt.Errorf("%w: subscription uuid", recurly.ErrKeyRequired)
	}

	subscription, err := fetch[recurly.Subscription](ctx, c.httpClient, subscriptionPath(id), "subscription")
	if err != nil {
		return nil, fmt.Errorf("getting subscription %s: %w", id, err)
	}

	return subscription, nil
}

// List implements recurly.SubscriptionsClient.List.
func (c *SubscriptionsClient) List(criteria *recurly.FilterCriteria) *recurly.List[recurly.Subscription] {
	return recurly.NewList[recurly.Subscription](c.httpClient, criteria.AppendTo("/subscriptions"), "subscriptions", "subscription")
}

// ListForAccount implements recurly.SubscriptionsClient.ListForAccount.
func (c *SubscriptionsClient) ListForAccount(accountCode string, criteria *recurly.FilterCriteria) *recurly.List[recurly.Subscription] {
	return recurly.NewList[recurly.Subscription](c.httpClient, criteria.AppendTo(accountPath(accountCode)+"/subscriptions"), "subscriptions", "subscription")
}

// Create implements recurly.SubscriptionsClient.Create.
func (c *SubscriptionsClient) Create(ctx context.Context, subscription *recurly.Subscription) (*recurly.Subscription, error) {
	err := subscription.Validate()
	if err != nil {
		return nil, fmt.Errorf("creating subscription: %w", err)
	}

	created, err := send[recurly.Subscription](ctx, c.httpClient, http.MethodPost, "/subscriptions", subscription, "subscription")
	if err != nil {
		return nil, fmt.Errorf("creating subscription: %w", err)
	}

	return created, nil
}

// Cancel implements recurly.SubscriptionsClient.Cancel.
func (c *SubscriptionsClient) Cancel(ctx context.Context, id uuid.UUID) (*recurly.Subscription, error) {
	return c.transition(ctx, id, "cancel")
}

// Terminate implements recurly.SubscriptionsClient.Terminate.
func (c *SubscriptionsClient) Terminate(ctx context.Context, id uuid.UUID, refund recurly.RefundType) (*recurly.Subscription, error) {
	if refund == "" {
		refund = recurly.RefundNone
	}

	return c.transition(ctx, id, "terminate?refund="+string(refund))
}

// Reactivate implements recurly.SubscriptionsClient.Reactivate.
func (c *SubscriptionsClient) Reactivate(ctx context.Context, id uuid.UUID) (*recurly.Subscription, error) {
	return c.transition(ctx, id, "reactivate")
}

func (c *SubscriptionsClient) transition(ctx context.Context, id uuid.UUID, action string) (*recurly.Subscription, error) {
	if id == uuid.Nil {
		return nil, fmt.Errorf("%w: subscription uuid", recurly.ErrKeyRequired)
	}

	subscription, err := send[recurly.Subscription](ctx, c.httpClient, http.MethodPut, subscriptionPath(id)+"/"+action, nil, "subscription")
	if err != nil {
		return nil, fmt.Errorf("subscription %s %s: %w", id, action, err)
	}

	return subscription, nil
}
