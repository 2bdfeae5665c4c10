package recurly

import (
	"encoding/xml"
	"path"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"

	"github.com/fivetwenty-io/recurly-client/pkg/xmldoc"
)

// BillingInfo holds the payment details stored for an account. Card numbers
// never leave the server; only their first six and last four digits are read
// back. To store new details send a TokenID obtained from the browser.
type BillingInfo struct {
	AccountCode string `json:"account_code,omitempty" yaml:"account_code,omitempty"`
	FirstName   string `json:"first_name,omitempty"   yaml:"first_name,omitempty"`
	LastName    string `json:"last_name,omitempty"    yaml:"last_name,omitempty"`
	Company     string `json:"company,omitempty"      yaml:"company,omitempty"`
	Address
	VATNumber string `json:"vat_number,omitempty" yaml:"vat_number,omitempty"`
	IPAddress string `json:"ip_address,omitempty" yaml:"ip_address,omitempty"`
	CardType  string `json:"card_type,omitempty"  yaml:"card_type,omitempty"`
	Year      int    `json:"year,omitempty"       yaml:"year,omitempty"`
	Month     int    `json:"month,omitempty"      yaml:"month,omitempty"`
	FirstSix  string `json:"first_six,omitempty"  yaml:"first_six,omitempty"`
	LastFour  string `json:"last_four,omitempty"  yaml:"last_four,omitempty"`
	// TokenID is write-only.
	TokenID   string    `json:"-"          yaml:"-"`
	UpdatedAt time.Time `json:"updated_at" yaml:"updated_at"`
}

var billingInfoFields = xmldoc.Fields[BillingInfo]{
	"account": xmldoc.Href(func(b *BillingInfo, href string) {
		b.AccountCode = path.Base(href)
	}),
	"first_name": xmldoc.String(func(b *BillingInfo) *string { return &b.FirstName }),
	"last_name":  xmldoc.String(func(b *BillingInfo) *string { return &b.LastName }),
	"company":    xmldoc.String(func(b *BillingInfo) *string { return &b.Company }),
	"address1":   xmldoc.String(func(b *BillingInfo) *string { return &b.Address1 }),
	"address2":   xmldoc.String(func(b *BillingInfo) *string { return &b.Address2 }),
	"city":       xmldoc.String(func(b *BillingInfo) *string { return &b.City }),
	"state":      xmldoc.String(func(b *BillingInfo) *string { return &b.State }),
	"zip":        xmldoc.String(func(b *BillingInfo) *string { return &b.Zip }),
	"country":    xmldoc.String(func(b *BillingInfo) *string { return &b.Country }),
	"phone":      xmldoc.String(func(b *BillingInfo) *string { return &b.Phone }),
	"vat_number": xmldoc.String(func(b *BillingInfo) *string { return &b.VATNumber }),
	"ip_address": xmldoc.String(func(b *BillingInfo) *string { return &b.IPAddress }),
	"card_type":  xmldoc.String(func(b *BillingInfo) *string { return &b.CardType }),
	"year":       xmldoc.Int(func(b *BillingInfo) *int { return &b.Year }),
	"month":      xmldoc.Int(func(b *BillingInfo) *int { return &b.Month }),
	"first_six":  xmldoc.String(func(b *BillingInfo) *string { return &b.FirstSix }),
	"last_four":  xmldoc.String(func(b *BillingInfo) *string { return &b.LastFour }),
	"updated_at": xmldoc.Time(func(b *BillingInfo) *time.Time { return &b.UpdatedAt }),
}

// DecodeXML implements xmldoc.Decoder.
func (b *BillingInfo) DecodeXML(r *xmldoc.Reader, _ xml.StartElement) error {
	return xmldoc.Decode(r, b, billingInfoFields)
}

// EncodeXML implements xmldoc.Encoder.
func (b *BillingInfo) EncodeXML(w *xmldoc.Writer) error {
	return b.EncodeElement(w, "billing_info")
}

// EncodeElement writes the writable fields under name.
func (b *BillingInfo) EncodeElement(w *xmldoc.Writer, name string) error {
	return w.Element(name, nil, func(w *xmldoc.Writer) error {
		w.String("first_name", b.FirstName)
		w.String("last_name", b.LastName)
		w.String("company", b.Company)
		w.String("address1", b.Address1)
		w.String("address2", b.Address2)
		w.String("city", b.City)
		w.String("state", b.State)
		w.String("zip", b.Zip)
		w.String("country", b.Country)
		w.String("phone", b.Phone)
		w.String("vat_number", b.VATNumber)
		w.String("ip_address", b.IPAddress)
		w.String("token_id", b.TokenID)

		return nil
	})
}

// Key returns the code of the owning account, which identifies the billing
// info of an account.
func (b *BillingInfo) Key() string {
	return b.AccountCode
}

// Equal reports whether both belong to the same account.
func (b *BillingInfo) Equal(other *BillingInfo) bool {
	if b == nil || other == nil {
		return b == other
	}

	return b.AccountCode == other.AccountCode
}

// Validate checks the billing info before it is sent.
func (b *BillingInfo) Validate() error {
	return validation.ValidateStruct(b,
		validation.Field(&b.Month, validation.Min(0), validation.Max(12)),
		validation.Field(&b.Year, validation.Min(0)),
		validation.Field(&b.IPAddress, is.IP),
	)
}
