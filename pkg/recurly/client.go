package recurly

import (
	"context"

	"github.com/google/uuid"
)

// AccountsClient manages customer accounts.
type AccountsClient interface {
	// Get returns the account with the given code, or nil when it does not exist.
	Get(ctx context.Context, code string) (*Account, error)
	List(criteria *FilterCriteria) *List[Account]
	Create(ctx context.Context, account *Account) (*Account, error)
	Update(ctx context.Context, account *Account) (*Account, error)
	// Close marks the account closed. Closed accounts keep their history and
	// can be reopened.
	Close(ctx context.Context, code string) error
	Reopen(ctx context.Context, code string) (*Account, error)
	ListInvoices(code string, criteria *FilterCriteria) *List[Invoice]
	ListSubscriptions(code string, criteria *FilterCriteria) *List[Subscription]
	// GetBillingInfo returns the stored payment details, or nil when the
	// account has none on file.
	GetBillingInfo(ctx context.Context, code string) (*BillingInfo, error)
}

// GiftCardsClient manages gift cards.
type GiftCardsClient interface {
	Get(ctx context.Context, id int64) (*GiftCard, error)
	List(criteria *FilterCriteria) *List[GiftCard]
	// Create purchases a gift card on behalf of its gifter account.
	Create(ctx context.Context, card *GiftCard) (*GiftCard, error)
	// Preview validates a purchase without charging the gifter.
	Preview(ctx context.Context, card *GiftCard) (*GiftCard, error)
	// Redeem applies the card's balance to the recipient account.
	Redeem(ctx context.Context, redemptionCode, accountCode string) (*GiftCard, error)
}

// InvoicesClient manages invoices.
type InvoicesClient interface {
	Get(ctx context.Context, number int) (*Invoice, error)
	List(criteria *FilterCriteria) *List[Invoice]
	ListForAccount(accountCode string, criteria *FilterCriteria) *List[Invoice]
	MarkSuccessful(ctx context.Context, number int) (*Invoice, error)
	MarkFailed(ctx context.Context, number int) (*Invoice, error)
	Void(ctx context.Context, number int) (*Invoice, error)
}

// SubscriptionsClient manages subscriptions.
type SubscriptionsClient interface {
	Get(ctx context.Context, id uuid.UUID) (*Subscription, error)
	List(criteria *FilterCriteria) *List[Subscription]
	ListForAccount(accountCode string, criteria *FilterCriteria) *List[Subscription]
	Create(ctx context.Context, subscription *Subscription) (*Subscription, error)
	// Cancel stops renewal at the end of the current term.
	Cancel(ctx context.Context, id uuid.UUID) (*Subscription, error)
	// Terminate ends the subscription immediately.
	Terminate(ctx context.Context, id uuid.UUID, refund RefundType) (*Subscription, error)
	Reactivate(ctx context.Context, id uuid.UUID) (*Subscription, error)
}

// Client provides access to all resource-specific clients.
type Client interface {
	Accounts() AccountsClient
	GiftCards() GiftCardsClient
	Invoices() InvoicesClient
	Subscriptions() SubscriptionsClient
}
