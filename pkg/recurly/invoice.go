package recurly

import (
	"encoding/xml"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/fivetwenty-io/recurly-client/pkg/xmldoc"
)

// Invoice is a bill for an account, identified by its invoice number.
type Invoice struct {
	UUID                    uuid.UUID        `json:"uuid"                           yaml:"uuid"`
	Number                  int              `json:"invoice_number"                 yaml:"invoice_number"`
	State                   InvoiceState     `json:"state,omitempty"                yaml:"state,omitempty"`
	Currency                string           `json:"currency,omitempty"             yaml:"currency,omitempty"`
	SubtotalInCents         int              `json:"subtotal_in_cents"              yaml:"subtotal_in_cents"`
	TaxInCents              int              `json:"tax_in_cents"                   yaml:"tax_in_cents"`
	TotalInCents            int              `json:"total_in_cents"                 yaml:"total_in_cents"`
	TaxType                 string           `json:"tax_type,omitempty"             yaml:"tax_type,omitempty"`
	TaxRate                 decimal.Decimal  `json:"tax_rate"                       yaml:"tax_rate"`
	PONumber                string           `json:"po_number,omitempty"            yaml:"po_number,omitempty"`
	NetTerms                int              `json:"net_terms,omitempty"            yaml:"net_terms,omitempty"`
	CollectionMethod        CollectionMethod `json:"collection_method,omitempty"    yaml:"collection_method,omitempty"`
	CustomerNotes           string           `json:"customer_notes,omitempty"       yaml:"customer_notes,omitempty"`
	TermsAndConditions      string           `json:"terms_and_conditions,omitempty" yaml:"terms_and_conditions,omitempty"`
	Account                 *Link[Account]   `json:"-"                              yaml:"-"`
	LineItems               []*Adjustment    `json:"line_items,omitempty"           yaml:"line_items,omitempty"`
	CreatedAt               time.Time        `json:"created_at"                     yaml:"created_at"`
	UpdatedAt               time.Time        `json:"updated_at"                     yaml:"updated_at"`
	ClosedAt                time.Time        `json:"closed_at"                      yaml:"closed_at"`
	AttemptNextCollectionAt time.Time        `json:"attempt_next_collection_at"     yaml:"attempt_next_collection_at"`
}

var invoiceFields = xmldoc.Fields[Invoice]{
	"uuid":           xmldoc.UUID(func(i *Invoice) *uuid.UUID { return &i.UUID }),
	"invoice_number": xmldoc.Int(func(i *Invoice) *int { return &i.Number }),
	"state": xmldoc.Text(func(i *Invoice, text string) {
		i.State = ParseInvoiceState(text)
	}),
	"currency":          xmldoc.String(func(i *Invoice) *string { return &i.Currency }),
	"subtotal_in_cents": xmldoc.Int(func(i *Invoice) *int { return &i.SubtotalInCents }),
	"tax_in_cents":      xmldoc.Int(func(i *Invoice) *int { return &i.TaxInCents }),
	"total_in_cents":    xmldoc.Int(func(i *Invoice) *int { return &i.TotalInCents }),
	"tax_type":          xmldoc.String(func(i *Invoice) *string { return &i.TaxType }),
	"tax_rate":          xmldoc.Decimal(func(i *Invoice) *decimal.Decimal { return &i.TaxRate }),
	"po_number":         xmldoc.String(func(i *Invoice) *string { return &i.PONumber }),
	"net_terms":         xmldoc.Int(func(i *Invoice) *int { return &i.NetTerms }),
	"collection_method": xmldoc.Text(func(i *Invoice, text string) {
		i.CollectionMethod = ParseCollectionMethod(text)
	}),
	"customer_notes":       xmldoc.String(func(i *Invoice) *string { return &i.CustomerNotes }),
	"terms_and_conditions": xmldoc.String(func(i *Invoice) *string { return &i.TermsAndConditions }),
	"account": xmldoc.Nested(func(i *Invoice) xmldoc.Decoder {
		i.Account = &Link[Account]{}

		return i.Account
	}),
	"line_items": func(i *Invoice, r *xmldoc.Reader, _ xml.StartElement) error {
		return r.Elements("adjustment", func() xmldoc.Decoder {
			item := &Adjustment{}
			i.LineItems = append(i.LineItems, item)

			return item
		})
	},
	"created_at":                 xmldoc.Time(func(i *Invoice) *time.Time { return &i.CreatedAt }),
	"updated_at":                 xmldoc.Time(func(i *Invoice) *time.Time { return &i.UpdatedAt }),
	"closed_at":                  xmldoc.Time(func(i *Invoice) *time.Time { return &i.ClosedAt }),
	"attempt_next_collection_at": xmldoc.Time(func(i *Invoice) *time.Time { return &i.AttemptNextCollectionAt }),
}

// DecodeXML implements xmldoc.Decoder.
func (i *Invoice) DecodeXML(r *xmldoc.Reader, _ xml.StartElement) error {
	return xmldoc.Decode(r, i, invoiceFields)
}

// EncodeXML implements xmldoc.Encoder.
func (i *Invoice) EncodeXML(w *xmldoc.Writer) error {
	return i.EncodeElement(w, "invoice")
}

// EncodeElement writes the fields accepted when invoicing pending charges.
func (i *Invoice) EncodeElement(w *xmldoc.Writer, name string) error {
	return w.Element(name, nil, func(w *xmldoc.Writer) error {
		w.String("po_number", i.PONumber)
		w.Int("net_terms", i.NetTerms)
		w.String("collection_method", string(i.CollectionMethod))
		w.String("customer_notes", i.CustomerNotes)
		w.String("terms_and_conditions", i.TermsAndConditions)

		return nil
	})
}

// Key returns the invoice number in decimal, or "" before it is assigned.
func (i *Invoice) Key() string {
	if i.Number == 0 {
		return ""
	}

	return strconv.Itoa(i.Number)
}

// Equal reports whether both invoices have the same number.
func (i *Invoice) Equal(other *Invoice) bool {
	if i == nil || other == nil {
		return i == other
	}

	return i.Number == other.Number
}

// Adjustment is one line item of an invoice.
type Adjustment struct {
	UUID              uuid.UUID `json:"uuid"                      yaml:"uuid"`
	Description       string    `json:"description,omitempty"     yaml:"description,omitempty"`
	AccountingCode    string    `json:"accounting_code,omitempty" yaml:"accounting_code,omitempty"`
	UnitAmountInCents int       `json:"unit_amount_in_cents"      yaml:"unit_amount_in_cents"`
	Quantity          int       `json:"quantity"                  yaml:"quantity"`
	TotalInCents      int       `json:"total_in_cents"            yaml:"total_in_cents"`
	Currency          string    `json:"currency,omitempty"        yaml:"currency,omitempty"`
	CreatedAt         time.Time `json:"created_at"                yaml:"created_at"`
}

var adjustmentFields = xmldoc.Fields[Adjustment]{
	"uuid":                 xmldoc.UUID(func(a *Adjustment) *uuid.UUID { return &a.UUID }),
	"description":          xmldoc.String(func(a *Adjustment) *string { return &a.Description }),
	"accounting_code":      xmldoc.String(func(a *Adjustment) *string { return &a.AccountingCode }),
	"unit_amount_in_cents": xmldoc.Int(func(a *Adjustment) *int { return &a.UnitAmountInCents }),
	"quantity":             xmldoc.Int(func(a *Adjustment) *int { return &a.Quantity }),
	"total_in_cents":       xmldoc.Int(func(a *Adjustment) *int { return &a.TotalInCents }),
	"currency":             xmldoc.String(func(a *Adjustment) *string { return &a.Currency }),
	"created_at":           xmldoc.Time(func(a *Adjustment) *time.Time { return &a.CreatedAt }),
}

// DecodeXML implements xmldoc.Decoder.
func (a *Adjustment) DecodeXML(r *xmldoc.Reader, _ xml.StartElement) error {
	return xmldoc.Decode(r, a, adjustmentFields)
}
