package recurly

import (
	"encoding/xml"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
	"github.com/google/uuid"

	"github.com/fivetwenty-io/recurly-client/pkg/xmldoc"
)

// Subscription is an account's enrollment in a plan, identified by its UUID.
type Subscription struct {
	UUID              uuid.UUID         `json:"uuid"                           yaml:"uuid"`
	State             SubscriptionState `json:"state,omitempty"                yaml:"state,omitempty"`
	PlanCode          string            `json:"plan_code,omitempty"            yaml:"plan_code,omitempty"`
	PlanName          string            `json:"plan_name,omitempty"            yaml:"plan_name,omitempty"`
	Quantity          int               `json:"quantity,omitempty"             yaml:"quantity,omitempty"`
	UnitAmountInCents int               `json:"unit_amount_in_cents,omitempty" yaml:"unit_amount_in_cents,omitempty"`
	Currency          string            `json:"currency,omitempty"             yaml:"currency,omitempty"`
	CollectionMethod  CollectionMethod  `json:"collection_method,omitempty"    yaml:"collection_method,omitempty"`
	// Account is embedded when creating and an href when read.
	Account                *Link[Account] `json:"-"                              yaml:"-"`
	ActivatedAt            time.Time      `json:"activated_at"                   yaml:"activated_at"`
	CanceledAt             time.Time      `json:"canceled_at"                    yaml:"canceled_at"`
	ExpiresAt              time.Time      `json:"expires_at"                     yaml:"expires_at"`
	CurrentPeriodStartedAt time.Time      `json:"current_period_started_at"      yaml:"current_period_started_at"`
	CurrentPeriodEndsAt    time.Time      `json:"current_period_ends_at"         yaml:"current_period_ends_at"`
	TrialEndsAt            time.Time      `json:"trial_ends_at"                  yaml:"trial_ends_at"`
	// StartsAt postpones activation when creating.
	StartsAt time.Time `json:"starts_at" yaml:"starts_at"`
}

var subscriptionFields = xmldoc.Fields[Subscription]{
	"uuid": xmldoc.UUID(func(s *Subscription) *uuid.UUID { return &s.UUID }),
	"state": xmldoc.Text(func(s *Subscription, text string) {
		s.State = ParseSubscriptionState(text)
	}),
	"plan": func(s *Subscription, r *xmldoc.Reader, _ xml.StartElement) error {
		return r.Children(func(child xml.StartElement) error {
			text, err := r.Text()
			if err != nil {
				return err
			}

			switch child.Name.Local {
			case "plan_code":
				s.PlanCode = text
			case "name":
				s.PlanName = text
			}

			return nil
		})
	},
	"plan_code":            xmldoc.String(func(s *Subscription) *string { return &s.PlanCode }),
	"quantity":             xmldoc.Int(func(s *Subscription) *int { return &s.Quantity }),
	"unit_amount_in_cents": xmldoc.Int(func(s *Subscription) *int { return &s.UnitAmountInCents }),
	"currency":             xmldoc.String(func(s *Subscription) *string { return &s.Currency }),
	"collection_method": xmldoc.Text(func(s *Subscription, text string) {
		s.CollectionMethod = ParseCollectionMethod(text)
	}),
	"account": xmldoc.Nested(func(s *Subscription) xmldoc.Decoder {
		s.Account = &Link[Account]{}

		return s.Account
	}),
	"activated_at":              xmldoc.Time(func(s *Subscription) *time.Time { return &s.ActivatedAt }),
	"canceled_at":               xmldoc.Time(func(s *Subscription) *time.Time { return &s.CanceledAt }),
	"expires_at":                xmldoc.Time(func(s *Subscription) *time.Time { return &s.ExpiresAt }),
	"current_period_started_at": xmldoc.Time(func(s *Subscription) *time.Time { return &s.CurrentPeriodStartedAt }),
	"current_period_ends_at":    xmldoc.Time(func(s *Subscription) *time.Time { return &s.CurrentPeriodEndsAt }),
	"trial_ends_at":             xmldoc.Time(func(s *Subscription) *time.Time { return &s.TrialEndsAt }),
	"starts_at":                 xmldoc.Time(func(s *Subscription) *time.Time { return &s.StartsAt }),
}

// NewSubscription creates a subscription to plan for account.
func NewSubscription(planCode, currency string, account *Account) *Subscription {
	return &Subscription{
		PlanCode: planCode,
		Currency: currency,
		Account:  LinkTo(account),
	}
}

// DecodeXML implements xmldoc.Decoder.
func (s *Subscription) DecodeXML(r *xmldoc.Reader, _ xml.StartElement) error {
	return xmldoc.Decode(r, s, subscriptionFields)
}

// EncodeXML implements xmldoc.Encoder.
func (s *Subscription) EncodeXML(w *xmldoc.Writer) error {
	return s.EncodeElement(w, "subscription")
}

// EncodeElement writes the fields accepted when creating a subscription.
func (s *Subscription) EncodeElement(w *xmldoc.Writer, name string) error {
	return w.Element(name, nil, func(w *xmldoc.Writer) error {
		w.UUID("uuid", s.UUID)
		w.String("plan_code", s.PlanCode)
		w.Int("quantity", s.Quantity)
		w.Int("unit_amount_in_cents", s.UnitAmountInCents)
		w.String("currency", s.Currency)
		w.String("collection_method", string(s.CollectionMethod))
		w.Time("starts_at", s.StartsAt)

		return s.Account.EncodeElement(w, "account")
	})
}

// Key returns the UUID in compact form, or "" before it is assigned.
func (s *Subscription) Key() string {
	if s.UUID == uuid.Nil {
		return ""
	}

	return xmldoc.CompactUUID(s.UUID)
}

// Equal reports whether both subscriptions have the same UUID.
func (s *Subscription) Equal(other *Subscription) bool {
	if s == nil || other == nil {
		return s == other
	}

	return s.UUID == other.UUID
}

// IsActive reports whether the subscription currently renews or is in trial.
func (s *Subscription) IsActive() bool {
	return s.State == SubscriptionStateActive || s.State == SubscriptionStateInTrial
}

// Validate checks a subscription before it is created.
func (s *Subscription) Validate() error {
	return validation.ValidateStruct(s,
		validation.Field(&s.PlanCode, validation.Required, validation.Length(1, 50)),
		validation.Field(&s.Currency, validation.Required, validation.Length(3, 3), is.UpperCase),
		validation.Field(&s.Quantity, validation.Min(0)),
		validation.Field(&s.UnitAmountInCents, validation.Min(0)),
		validation.Field(&s.Account, validation.Required),
	)
}
