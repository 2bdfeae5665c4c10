package recurly

import (
	"encoding/xml"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"

	"github.com/fivetwenty-io/recurly-client/pkg/xmldoc"
)

// Account is a customer, identified by its account code.
type Account struct {
	Code           string       `json:"account_code"              yaml:"account_code"`
	State          AccountState `json:"state"                     yaml:"state"`
	Username       string       `json:"username,omitempty"        yaml:"username,omitempty"`
	Email          string       `json:"email,omitempty"           yaml:"email,omitempty"`
	FirstName      string       `json:"first_name,omitempty"      yaml:"first_name,omitempty"`
	LastName       string       `json:"last_name,omitempty"       yaml:"last_name,omitempty"`
	CompanyName    string       `json:"company_name,omitempty"    yaml:"company_name,omitempty"`
	VATNumber      string       `json:"vat_number,omitempty"      yaml:"vat_number,omitempty"`
	TaxExempt      *bool        `json:"tax_exempt,omitempty"      yaml:"tax_exempt,omitempty"`
	AcceptLanguage string       `json:"accept_language,omitempty" yaml:"accept_language,omitempty"`
	CCEmails       []string     `json:"cc_emails,omitempty"       yaml:"cc_emails,omitempty"`
	// HostedLoginToken is issued by the server and never written.
	HostedLoginToken string    `json:"hosted_login_token,omitempty" yaml:"hosted_login_token,omitempty"`
	CreatedAt        time.Time `json:"created_at"                   yaml:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"                   yaml:"updated_at"`
	ClosedAt         time.Time `json:"closed_at"                    yaml:"closed_at"`
	Address          *Address  `json:"address,omitempty"            yaml:"address,omitempty"`
	// BillingInfo is usually only an href; embed a value to send billing
	// details along with Create.
	BillingInfo *Link[BillingInfo] `json:"-" yaml:"-"`
}

// NewAccount creates an account to be created.
func NewAccount(code string) *Account {
	return &Account{Code: code}
}

var accountFields = xmldoc.Fields[Account]{
	"account_code": xmldoc.String(func(a *Account) *string { return &a.Code }),
	"state": xmldoc.Text(func(a *Account, text string) {
		a.State = ParseAccountState(text)
	}),
	"username":        xmldoc.String(func(a *Account) *string { return &a.Username }),
	"email":           xmldoc.String(func(a *Account) *string { return &a.Email }),
	"first_name":      xmldoc.String(func(a *Account) *string { return &a.FirstName }),
	"last_name":       xmldoc.String(func(a *Account) *string { return &a.LastName }),
	"company_name":    xmldoc.String(func(a *Account) *string { return &a.CompanyName }),
	"vat_number":      xmldoc.String(func(a *Account) *string { return &a.VATNumber }),
	"tax_exempt":      xmldoc.Bool(func(a *Account) **bool { return &a.TaxExempt }),
	"accept_language": xmldoc.String(func(a *Account) *string { return &a.AcceptLanguage }),
	"cc_emails": xmldoc.Text(func(a *Account, text string) {
		a.CCEmails = splitList(text)
	}),
	"hosted_login_token": xmldoc.String(func(a *Account) *string { return &a.HostedLoginToken }),
	"created_at":         xmldoc.Time(func(a *Account) *time.Time { return &a.CreatedAt }),
	"updated_at":         xmldoc.Time(func(a *Account) *time.Time { return &a.UpdatedAt }),
	"closed_at":          xmldoc.Time(func(a *Account) *time.Time { return &a.ClosedAt }),
	"address": xmldoc.Nested(func(a *Account) xmldoc.Decoder {
		a.Address = &Address{}

		return a.Address
	}),
	"billing_info": xmldoc.Nested(func(a *Account) xmldoc.Decoder {
		a.BillingInfo = &Link[BillingInfo]{}

		return a.BillingInfo
	}),
}

// DecodeXML implements xmldoc.Decoder.
func (a *Account) DecodeXML(r *xmldoc.Reader, _ xml.StartElement) error {
	return xmldoc.Decode(r, a, accountFields)
}

// EncodeXML implements xmldoc.Encoder.
func (a *Account) EncodeXML(w *xmldoc.Writer) error {
	return a.EncodeElement(w, "account")
}

// EncodeElement writes the writable fields of the account under name.
func (a *Account) EncodeElement(w *xmldoc.Writer, name string) error {
	return w.Element(name, nil, func(w *xmldoc.Writer) error {
		w.String("account_code", a.Code)
		w.String("username", a.Username)
		w.String("email", a.Email)
		w.String("first_name", a.FirstName)
		w.String("last_name", a.LastName)
		w.String("company_name", a.CompanyName)
		w.String("vat_number", a.VATNumber)
		w.Bool("tax_exempt", a.TaxExempt)
		w.String("accept_language", a.AcceptLanguage)
		w.String("cc_emails", strings.Join(a.CCEmails, ","))

		if !a.Address.IsZero() {
			err := a.Address.EncodeElement(w, "address")
			if err != nil {
				return err
			}
		}

		return a.BillingInfo.EncodeElement(w, "billing_info")
	})
}

// Key returns the account code.
func (a *Account) Key() string {
	return a.Code
}

// Equal reports whether both accounts have the same code.
func (a *Account) Equal(other *Account) bool {
	if a == nil || other == nil {
		return a == other
	}

	return a.Code == other.Code
}

// IsClosed reports whether the closed flag is set.
func (a *Account) IsClosed() bool {
	return a.State.Has(AccountStateClosed)
}

// Validate checks the account before it is sent.
func (a *Account) Validate() error {
	return validation.ValidateStruct(a,
		validation.Field(&a.Code, validation.Required, validation.Length(1, 50)),
		validation.Field(&a.Email, is.EmailFormat),
		validation.Field(&a.CCEmails, validation.Each(is.EmailFormat)),
		validation.Field(&a.AcceptLanguage, validation.Length(2, 35)),
		validation.Field(&a.Address),
	)
}

func splitList(text string) []string {
	var items []string

	for _, item := range strings.Split(text, ",") {
		item = strings.TrimSpace(item)
		if item != "" {
			items = append(items, item)
		}
	}

	return items
}

// Address is a postal address embedded in accounts and billing info.
type Address struct {
	Address1 string `json:"address1,omitempty" yaml:"address1,omitempty"`
	Address2 string `json:"address2,omitempty" yaml:"address2,omitempty"`
	City     string `json:"city,omitempty"     yaml:"city,omitempty"`
	State    string `json:"state,omitempty"    yaml:"state,omitempty"`
	Zip      string `json:"zip,omitempty"      yaml:"zip,omitempty"`
	Country  string `json:"country,omitempty"  yaml:"country,omitempty"`
	Phone    string `json:"phone,omitempty"    yaml:"phone,omitempty"`
}

var addressFields = xmldoc.Fields[Address]{
	"address1": xmldoc.String(func(a *Address) *string { return &a.Address1 }),
	"address2": xmldoc.String(func(a *Address) *string { return &a.Address2 }),
	"city":     xmldoc.String(func(a *Address) *string { return &a.City }),
	"state":    xmldoc.String(func(a *Address) *string { return &a.State }),
	"zip":      xmldoc.String(func(a *Address) *string { return &a.Zip }),
	"country":  xmldoc.String(func(a *Address) *string { return &a.Country }),
	"phone":    xmldoc.String(func(a *Address) *string { return &a.Phone }),
}

// DecodeXML implements xmldoc.Decoder.
func (a *Address) DecodeXML(r *xmldoc.Reader, _ xml.StartElement) error {
	return xmldoc.Decode(r, a, addressFields)
}

// EncodeElement writes the address under name.
func (a *Address) EncodeElement(w *xmldoc.Writer, name string) error {
	return w.Element(name, nil, func(w *xmldoc.Writer) error {
		w.String("address1", a.Address1)
		w.String("address2", a.Address2)
		w.String("city", a.City)
		w.String("state", a.State)
		w.String("zip", a.Zip)
		w.String("country", a.Country)
		w.String("phone", a.Phone)

		return nil
	})
}

// IsZero reports whether no field is set.
func (a *Address) IsZero() bool {
	return a == nil || *a == Address{}
}

// Validate checks the address before it is sent.
func (a *Address) Validate() error {
	return validation.ValidateStruct(a,
		validation.Field(&a.Country, validation.Length(2, 2), is.UpperCase),
	)
}
