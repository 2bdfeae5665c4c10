package recurly

import (
	"strings"
)

// AccountState is a set of account state flags. An account can be in several
// states at once, for example active and past due.
type AccountState uint8

const (
	AccountStateActive AccountState = 1 << iota
	AccountStateClosed
	AccountStatePastDue
	AccountStateSubscriber
	AccountStateNonSubscriber
)

var accountStateNames = []struct {
	state AccountState
	name  string
}{
	{AccountStateActive, "active"},
	{AccountStateClosed, "closed"},
	{AccountStatePastDue, "past_due"},
	{AccountStateSubscriber, "subscriber"},
	{AccountStateNonSubscriber, "non_subscriber"},
}

// ParseAccountState maps each whitespace- or comma-separated token of s,
// compared case-insensitively, to its flag. Unknown tokens are ignored.
func ParseAccountState(s string) AccountState {
	var state AccountState

	tokens := strings.FieldsFunc(s, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\t' || r == '\n' || r == '\r'
	})

	for _, token := range tokens {
		for _, entry := range accountStateNames {
			if strings.EqualFold(token, entry.name) {
				state |= entry.state
			}
		}
	}

	return state
}

// Has reports whether every flag of flags is set.
func (s AccountState) Has(flags AccountState) bool {
	return flags != 0 && s&flags == flags
}

// With returns s with flags added.
func (s AccountState) With(flags AccountState) AccountState {
	return s | flags
}

// Without returns s with flags cleared.
func (s AccountState) Without(flags AccountState) AccountState {
	return s &^ flags
}

// IsZero reports whether no flag is set.
func (s AccountState) IsZero() bool {
	return s == 0
}

// Names returns the wire names of the set flags in a fixed order.
func (s AccountState) Names() []string {
	var names []string

	for _, entry := range accountStateNames {
		if s&entry.state != 0 {
			names = append(names, entry.name)
		}
	}

	return names
}

// String joins the set flags with a space, the form ParseAccountState reads.
func (s AccountState) String() string {
	return strings.Join(s.Names(), " ")
}

// MarshalText implements encoding.TextMarshaler, so JSON and YAML output
// carry the names rather than the bits.
func (s AccountState) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *AccountState) UnmarshalText(text []byte) error {
	*s = ParseAccountState(string(text))

	return nil
}

// parseEnum returns the member of vocabulary equal to s ignoring case, or
// the zero value.
func parseEnum[E ~string](s string, vocabulary ...E) E {
	s = strings.TrimSpace(s)

	for _, member := range vocabulary {
		if strings.EqualFold(s, string(member)) {
			return member
		}
	}

	var zero E

	return zero
}

// InvoiceState is the collection state of an invoice.
type InvoiceState string

const (
	InvoiceStatePending    InvoiceState = "pending"
	InvoiceStateProcessing InvoiceState = "processing"
	InvoiceStatePaid       InvoiceState = "paid"
	InvoiceStateFailed     InvoiceState = "failed"
	InvoiceStatePastDue    InvoiceState = "past_due"
	InvoiceStateOpen       InvoiceState = "open"
	InvoiceStateCollected  InvoiceState = "collected"
	InvoiceStateClosed     InvoiceState = "closed"
	InvoiceStateVoided     InvoiceState = "voided"
)

// ParseInvoiceState returns the state named s, or "" when s is not one.
func ParseInvoiceState(s string) InvoiceState {
	return parseEnum(s,
		InvoiceStatePending, InvoiceStateProcessing, InvoiceStatePaid,
		InvoiceStateFailed, InvoiceStatePastDue, InvoiceStateOpen,
		InvoiceStateCollected, InvoiceStateClosed, InvoiceStateVoided,
	)
}

// SubscriptionState is the lifecycle state of a subscription.
type SubscriptionState string

const (
	SubscriptionStateActive   SubscriptionState = "active"
	SubscriptionStateCanceled SubscriptionState = "canceled"
	SubscriptionStateExpired  SubscriptionState = "expired"
	SubscriptionStateFuture   SubscriptionState = "future"
	SubscriptionStateInTrial  SubscriptionState = "in_trial"
	SubscriptionStateLive     SubscriptionState = "live"
	SubscriptionStatePastDue  SubscriptionState = "past_due"
	SubscriptionStatePaused   SubscriptionState = "paused"
)

// ParseSubscriptionState returns the state named s, or "" when s is not one.
func ParseSubscriptionState(s string) SubscriptionState {
	return parseEnum(s,
		SubscriptionStateActive, SubscriptionStateCanceled, SubscriptionStateExpired,
		SubscriptionStateFuture, SubscriptionStateInTrial, SubscriptionStateLive,
		SubscriptionStatePastDue, SubscriptionStatePaused,
	)
}

// RefundType selects how a terminated subscription is refunded.
type RefundType string

const (
	RefundNone    RefundType = "none"
	RefundPartial RefundType = "partial"
	RefundFull    RefundType = "full"
)

// ParseRefundType returns the refund type named s, or "" when s is not one.
func ParseRefundType(s string) RefundType {
	return parseEnum(s, RefundNone, RefundPartial, RefundFull)
}

// CollectionMethod is how an invoice is paid.
type CollectionMethod string

const (
	CollectionAutomatic CollectionMethod = "automatic"
	CollectionManual    CollectionMethod = "manual"
)

// ParseCollectionMethod returns the method named s, or "" when s is not one.
func ParseCollectionMethod(s string) CollectionMethod {
	return parseEnum(s, CollectionAutomatic, CollectionManual)
}
