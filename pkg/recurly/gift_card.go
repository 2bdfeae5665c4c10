package recurly

import (
	"encoding/xml"
	"path"
	"strconv"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"

	"github.com/fivetwenty-io/recurly-client/pkg/xmldoc"
)

// GiftCard is a prepaid balance bought by a gifter account and redeemed by a
// recipient account. It is identified by its numeric id.
type GiftCard struct {
	ID                int64  `json:"id"                            yaml:"id"`
	RedemptionCode    string `json:"redemption_code,omitempty"     yaml:"redemption_code,omitempty"`
	ProductCode       string `json:"product_code,omitempty"        yaml:"product_code,omitempty"`
	UnitAmountInCents int    `json:"unit_amount_in_cents,omitempty" yaml:"unit_amount_in_cents,omitempty"`
	BalanceInCents    int    `json:"balance_in_cents,omitempty"    yaml:"balance_in_cents,omitempty"`
	Currency          string `json:"currency,omitempty"            yaml:"currency,omitempty"`
	// GifterAccount is embedded when purchasing and usually an href when read.
	GifterAccount *Link[Account] `json:"-" yaml:"-"`
	// RecipientAccountCode is set once the card is redeemed.
	RecipientAccountCode string         `json:"recipient_account_code,omitempty" yaml:"recipient_account_code,omitempty"`
	Invoice              *Link[Invoice] `json:"-"                                yaml:"-"`
	Delivery             *Delivery      `json:"delivery,omitempty"               yaml:"delivery,omitempty"`
	CreatedAt            time.Time      `json:"created_at"                       yaml:"created_at"`
	UpdatedAt            time.Time      `json:"updated_at"                       yaml:"updated_at"`
	DeliveredAt          time.Time      `json:"delivered_at"                     yaml:"delivered_at"`
	RedeemedAt           time.Time      `json:"redeemed_at"                      yaml:"redeemed_at"`
	CanceledAt           time.Time      `json:"canceled_at"                      yaml:"canceled_at"`
}

var giftCardFields = xmldoc.Fields[GiftCard]{
	"id":                   xmldoc.Int64(func(g *GiftCard) *int64 { return &g.ID }),
	"redemption_code":      xmldoc.String(func(g *GiftCard) *string { return &g.RedemptionCode }),
	"product_code":         xmldoc.String(func(g *GiftCard) *string { return &g.ProductCode }),
	"unit_amount_in_cents": xmldoc.Int(func(g *GiftCard) *int { return &g.UnitAmountInCents }),
	"balance_in_cents":     xmldoc.Int(func(g *GiftCard) *int { return &g.BalanceInCents }),
	"currency":             xmldoc.String(func(g *GiftCard) *string { return &g.Currency }),
	"gifter_account": xmldoc.Nested(func(g *GiftCard) xmldoc.Decoder {
		g.GifterAccount = &Link[Account]{}

		return g.GifterAccount
	}),
	"recipient_account": xmldoc.Nested(func(g *GiftCard) xmldoc.Decoder {
		return xmldoc.DecoderFunc(func(r *xmldoc.Reader, start xml.StartElement) error {
			var account Account

			err := account.DecodeXML(r, start)
			if err != nil {
				return err
			}

			g.RecipientAccountCode = account.Code
			if href, ok := xmldoc.Attr(start, "href"); ok && account.Code == "" {
				g.RecipientAccountCode = path.Base(href)
			}

			return nil
		})
	}),
	"invoice": xmldoc.Nested(func(g *GiftCard) xmldoc.Decoder {
		g.Invoice = &Link[Invoice]{}

		return g.Invoice
	}),
	"delivery": xmldoc.Nested(func(g *GiftCard) xmldoc.Decoder {
		g.Delivery = &Delivery{}

		return g.Delivery
	}),
	"created_at":   xmldoc.Time(func(g *GiftCard) *time.Time { return &g.CreatedAt }),
	"updated_at":   xmldoc.Time(func(g *GiftCard) *time.Time { return &g.UpdatedAt }),
	"delivered_at": xmldoc.Time(func(g *GiftCard) *time.Time { return &g.DeliveredAt }),
	"redeemed_at":  xmldoc.Time(func(g *GiftCard) *time.Time { return &g.RedeemedAt }),
	"canceled_at":  xmldoc.Time(func(g *GiftCard) *time.Time { return &g.CanceledAt }),
}

// DecodeXML implements xmldoc.Decoder.
func (g *GiftCard) DecodeXML(r *xmldoc.Reader, _ xml.StartElement) error {
	return xmldoc.Decode(r, g, giftCardFields)
}

// EncodeXML implements xmldoc.Encoder.
func (g *GiftCard) EncodeXML(w *xmldoc.Writer) error {
	return g.EncodeElement(w, "gift_card")
}

// EncodeElement writes the purchase fields of the card under name.
func (g *GiftCard) EncodeElement(w *xmldoc.Writer, name string) error {
	return w.Element(name, nil, func(w *xmldoc.Writer) error {
		w.String("product_code", g.ProductCode)
		w.Int("unit_amount_in_cents", g.UnitAmountInCents)
		w.String("currency", g.Currency)

		err := g.GifterAccount.EncodeElement(w, "gifter_account")
		if err != nil {
			return err
		}

		if g.Delivery != nil {
			return g.Delivery.EncodeElement(w, "delivery")
		}

		return nil
	})
}

// Key returns the id in decimal, or "" for a card not yet created.
func (g *GiftCard) Key() string {
	if g.ID == 0 {
		return ""
	}

	return strconv.FormatInt(g.ID, 10)
}

// Equal reports whether both cards have the same id.
func (g *GiftCard) Equal(other *GiftCard) bool {
	if g == nil || other == nil {
		return g == other
	}

	return g.ID == other.ID
}

// IsRedeemed reports whether the card has been applied to an account.
func (g *GiftCard) IsRedeemed() bool {
	return !g.RedeemedAt.IsZero()
}

// Validate checks a purchase before it is sent.
func (g *GiftCard) Validate() error {
	return validation.ValidateStruct(g,
		validation.Field(&g.ProductCode, validation.Required),
		validation.Field(&g.UnitAmountInCents, validation.Required, validation.Min(1)),
		validation.Field(&g.Currency, validation.Required, validation.Length(3, 3), is.UpperCase),
		validation.Field(&g.GifterAccount, validation.Required),
		validation.Field(&g.Delivery),
	)
}

// Delivery describes how a gift card reaches its recipient.
type Delivery struct {
	Method          string    `json:"method,omitempty"           yaml:"method,omitempty"`
	EmailAddress    string    `json:"email_address,omitempty"    yaml:"email_address,omitempty"`
	FirstName       string    `json:"first_name,omitempty"       yaml:"first_name,omitempty"`
	LastName        string    `json:"last_name,omitempty"        yaml:"last_name,omitempty"`
	GifterName      string    `json:"gifter_name,omitempty"      yaml:"gifter_name,omitempty"`
	PersonalMessage string    `json:"personal_message,omitempty" yaml:"personal_message,omitempty"`
	DeliverAt       time.Time `json:"deliver_at"                 yaml:"deliver_at"`
}

var deliveryFields = xmldoc.Fields[Delivery]{
	"method":           xmldoc.String(func(d *Delivery) *string { return &d.Method }),
	"email_address":    xmldoc.String(func(d *Delivery) *string { return &d.EmailAddress }),
	"first_name":       xmldoc.String(func(d *Delivery) *string { return &d.FirstName }),
	"last_name":        xmldoc.String(func(d *Delivery) *string { return &d.LastName }),
	"gifter_name":      xmldoc.String(func(d *Delivery) *string { return &d.GifterName }),
	"personal_message": xmldoc.String(func(d *Delivery) *string { return &d.PersonalMessage }),
	"deliver_at":       xmldoc.Time(func(d *Delivery) *time.Time { return &d.DeliverAt }),
}

// DecodeXML implements xmldoc.Decoder.
func (d *Delivery) DecodeXML(r *xmldoc.Reader, _ xml.StartElement) error {
	return xmldoc.Decode(r, d, deliveryFields)
}

// EncodeElement writes the delivery under name.
func (d *Delivery) EncodeElement(w *xmldoc.Writer, name string) error {
	return w.Element(name, nil, func(w *xmldoc.Writer) error {
		w.String("method", d.Method)
		w.String("email_address", d.EmailAddress)
		w.String("first_name", d.FirstName)
		w.String("last_name", d.LastName)
		w.String("gifter_name", d.GifterName)
		w.String("personal_message", d.PersonalMessage)
		w.Time("deliver_at", d.DeliverAt)

		return nil
	})
}

// Validate checks the delivery before it is sent.
func (d *Delivery) Validate() error {
	return validation.ValidateStruct(d,
		validation.Field(&d.Method, validation.In("email", "post")),
		validation.Field(&d.EmailAddress,
			validation.When(d.Method == "email", validation.Required),
			is.EmailFormat,
		),
	)
}
