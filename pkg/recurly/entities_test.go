package recurly

import (
	"encoding/xml"
	"testing"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fivetwenty-io/recurly-client/pkg/xmldoc"
)

func marshal(t *testing.T, v xmldoc.Encoder) string {
	t.Helper()

	data, err := xmldoc.Marshal(v)
	require.NoError(t, err)

	return string(data)
}

func validationKeys(t *testing.T, err error) []string {
	t.Helper()

	var errs validation.Errors
	require.ErrorAs(t, err, &errs)

	keys := make([]string, 0, len(errs))
	for key := range errs {
		keys = append(keys, key)
	}

	return keys
}

func TestAccount_Decode(t *testing.T) {
	t.Parallel()

	var account Account
	require.NoError(t, xmldoc.Unmarshal([]byte(accountDocument), "account", &account))

	assert.Equal(t, "abc", account.Key())
	assert.True(t, account.State.Has(AccountStateActive|AccountStatePastDue))
	assert.False(t, account.IsClosed())
	assert.Equal(t, "", account.Username)
	assert.Equal(t, "a@b.com", account.Email)
	assert.Equal(t, []string{"c@d.com", "e@f.com"}, account.CCEmails)
	assert.Equal(t, "Verena", account.FirstName)
	require.NotNil(t, account.TaxExempt)
	assert.False(t, *account.TaxExempt)
	require.NotNil(t, account.Address)
	assert.Equal(t, "San Francisco", account.Address.City)
	assert.Equal(t, "US", account.Address.Country)
	assert.Equal(t, "a92468579e9c4231a6c0031c4716c01d", account.HostedLoginToken)
	assert.Equal(t, time.Date(2011, 10, 25, 12, 0, 0, 0, time.UTC), account.CreatedAt)
	assert.True(t, account.ClosedAt.IsZero())
	require.NotNil(t, account.BillingInfo)
	assert.Equal(t, "https://mysite.recurly.com/v2/accounts/abc/billing_info", account.BillingInfo.Href())
	assert.False(t, account.BillingInfo.Resolved())
}

func TestAccount_Encode(t *testing.T) {
	t.Parallel()

	exempt := true
	account := NewAccount("abc")
	account.Email = "a@b.com"
	account.TaxExempt = &exempt
	account.CCEmails = []string{"c@d.com", "e@f.com"}
	account.Address = &Address{City: "Berlin", Country: "DE"}
	account.State = AccountStateClosed
	account.HostedLoginToken = "ignored"

	assert.Equal(t, xml.Header+
		"<account><account_code>abc</account_code><email>a@b.com</email>"+
		"<tax_exempt>true</tax_exempt><cc_emails>c@d.com,e@f.com</cc_emails>"+
		"<address><city>Berlin</city><country>DE</country></address></account>",
		marshal(t, account),
	)
}

func TestAccount_EncodeEmbeddedBillingInfo(t *testing.T) {
	t.Parallel()

	account := NewAccount("abc")
	account.BillingInfo = LinkTo(&BillingInfo{FirstName: "Verena", TokenID: "tok-1"})

	assert.Equal(t, xml.Header+
		"<account><account_code>abc</account_code>"+
		"<billing_info><first_name>Verena</first_name><token_id>tok-1</token_id></billing_info></account>",
		marshal(t, account),
	)
}

func TestAccount_Validate(t *testing.T) {
	t.Parallel()

	valid := NewAccount("abc")
	valid.Email = "a@b.com"
	require.NoError(t, valid.Validate())

	invalid := &Account{Email: "nope", CCEmails: []string{"ok@b.com", "bad"}, Address: &Address{Country: "usa"}}
	assert.ElementsMatch(t,
		[]string{"account_code", "email", "cc_emails", "address"},
		validationKeys(t, invalid.Validate()),
	)
}

func TestAccount_Equal(t *testing.T) {
	t.Parallel()

	var missing *Account

	assert.True(t, NewAccount("a").Equal(NewAccount("a")))
	assert.False(t, NewAccount("a").Equal(NewAccount("b")))
	assert.False(t, NewAccount("a").Equal(nil))
	assert.True(t, missing.Equal(nil))
}

const invoiceDocument = `<invoice href="https://mysite.recurly.com/v2/invoices/1001">
  <account href="https://mysite.recurly.com/v2/accounts/abc"/>
  <uuid>421f7b7d414e4c6792938e7c49d552e9</uuid>
  <state>past_due</state>
  <invoice_number type="integer">1001</invoice_number>
  <po_number nil="nil"></po_number>
  <currency>USD</currency>
  <subtotal_in_cents type="integer">1000</subtotal_in_cents>
  <tax_in_cents type="integer">88</tax_in_cents>
  <total_in_cents type="integer">1088</total_in_cents>
  <tax_rate type="float">0.0875</tax_rate>
  <collection_method>manual</collection_method>
  <net_terms type="integer">30</net_terms>
  <line_items type="array">
    <adjustment href="https://mysite.recurly.com/v2/adjustments/1">
      <description>Gold plan</description>
      <unit_amount_in_cents type="integer">1000</unit_amount_in_cents>
      <quantity type="integer">1</quantity>
    </adjustment>
  </line_items>
  <transactions type="array"></transactions>
  <created_at type="datetime">2024-02-01T10:00:00Z</created_at>
</invoice>`

func TestInvoice_Decode(t *testing.T) {
	t.Parallel()

	var invoice Invoice
	require.NoError(t, xmldoc.Unmarshal([]byte(invoiceDocument), "invoice", &invoice))

	assert.Equal(t, "1001", invoice.Key())
	assert.Equal(t, uuid.MustParse("421f7b7d-414e-4c67-9293-8e7c49d552e9"), invoice.UUID)
	assert.Equal(t, InvoiceStatePastDue, invoice.State)
	assert.Equal(t, "", invoice.PONumber)
	assert.Equal(t, 1088, invoice.TotalInCents)
	assert.True(t, invoice.TaxRate.Equal(decimal.RequireFromString("0.0875")))
	assert.Equal(t, CollectionManual, invoice.CollectionMethod)
	assert.Equal(t, 30, invoice.NetTerms)
	require.Len(t, invoice.LineItems, 1)
	assert.Equal(t, "Gold plan", invoice.LineItems[0].Description)
	require.NotNil(t, invoice.Account)
	assert.Equal(t, "https://mysite.recurly.com/v2/accounts/abc", invoice.Account.Href())
}

func TestInvoice_Key(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "", (&Invoice{}).Key())
	assert.True(t, (&Invoice{Number: 7}).Equal(&Invoice{Number: 7}))
}

func TestSubscription_Decode(t *testing.T) {
	t.Parallel()

	document := `<subscription href="https://mysite.recurly.com/v2/subscriptions/44f83d7cba354d5b84812419f9b3a2c4">
  <account href="https://mysite.recurly.com/v2/accounts/abc"/>
  <plan href="https://mysite.recurly.com/v2/plans/gold">
    <plan_code>gold</plan_code>
    <name>Gold plan</name>
  </plan>
  <uuid>44f83d7cba354d5b84812419f9b3a2c4</uuid>
  <state>in_trial</state>
  <unit_amount_in_cents type="integer">800</unit_amount_in_cents>
  <currency>EUR</currency>
  <quantity type="integer">1</quantity>
  <activated_at type="datetime">2024-01-01T00:00:00Z</activated_at>
  <canceled_at nil="nil"></canceled_at>
</subscription>`

	var subscription Subscription
	require.NoError(t, xmldoc.Unmarshal([]byte(document), "subscription", &subscription))

	assert.Equal(t, "44f83d7cba354d5b84812419f9b3a2c4", subscription.Key())
	assert.Equal(t, "gold", subscription.PlanCode)
	assert.Equal(t, "Gold plan", subscription.PlanName)
	assert.Equal(t, SubscriptionStateInTrial, subscription.State)
	assert.True(t, subscription.IsActive())
	assert.Equal(t, 800, subscription.UnitAmountInCents)
	assert.True(t, subscription.CanceledAt.IsZero())
	assert.Equal(t, "https://mysite.recurly.com/v2/accounts/abc", subscription.Account.Href())
}

func TestSubscription_Encode(t *testing.T) {
	t.Parallel()

	subscription := NewSubscription("gold", "USD", NewAccount("abc"))
	subscription.Quantity = 2

	require.NoError(t, subscription.Validate())
	assert.Equal(t, xml.Header+
		"<subscription><plan_code>gold</plan_code><quantity>2</quantity><currency>USD</currency>"+
		"<account><account_code>abc</account_code></account></subscription>",
		marshal(t, subscription),
	)

	assert.ElementsMatch(t,
		[]string{"plan_code", "currency", "Account"},
		validationKeys(t, (&Subscription{Currency: "usd"}).Validate()),
	)
}

func TestGiftCard_Decode(t *testing.T) {
	t.Parallel()

	document := `<gift_card href="https://mysite.recurly.com/v2/gift_cards/2005">
  <id type="integer">2005</id>
  <redemption_code>AB12CD34EF56</redemption_code>
  <balance_in_cents type="integer">2000</balance_in_cents>
  <product_code>gift_card</product_code>
  <unit_amount_in_cents type="integer">2000</unit_amount_in_cents>
  <currency>USD</currency>
  <gifter_account href="https://mysite.recurly.com/v2/accounts/gifter"/>
  <recipient_account href="https://mysite.recurly.com/v2/accounts/recipient"/>
  <invoice href="https://mysite.recurly.com/v2/invoices/1108"/>
  <delivery>
    <method>email</method>
    <email_address>john@example.com</email_address>
    <first_name>John</first_name>
  </delivery>
  <redeemed_at type="datetime">2024-05-01T08:00:00Z</redeemed_at>
</gift_card>`

	var card GiftCard
	require.NoError(t, xmldoc.Unmarshal([]byte(document), "gift_card", &card))

	assert.Equal(t, "2005", card.Key())
	assert.Equal(t, "AB12CD34EF56", card.RedemptionCode)
	assert.Equal(t, 2000, card.BalanceInCents)
	assert.Equal(t, "https://mysite.recurly.com/v2/accounts/gifter", card.GifterAccount.Href())
	assert.Equal(t, "recipient", card.RecipientAccountCode)
	assert.Equal(t, "https://mysite.recurly.com/v2/invoices/1108", card.Invoice.Href())
	require.NotNil(t, card.Delivery)
	assert.Equal(t, "john@example.com", card.Delivery.EmailAddress)
	assert.True(t, card.IsRedeemed())
}

func TestGiftCard_EncodeAndValidate(t *testing.T) {
	t.Parallel()

	card := &GiftCard{
		ProductCode:       "gift_card",
		UnitAmountInCents: 2000,
		Currency:          "USD",
		GifterAccount:     LinkTo(NewAccount("gifter")),
		Delivery:          &Delivery{Method: "email", EmailAddress: "john@example.com"},
	}

	require.NoError(t, card.Validate())
	assert.Equal(t, xml.Header+
		"<gift_card><product_code>gift_card</product_code><unit_amount_in_cents>2000</unit_amount_in_cents>"+
		"<currency>USD</currency><gifter_account><account_code>gifter</account_code></gifter_account>"+
		"<delivery><method>email</method><email_address>john@example.com</email_address></delivery></gift_card>",
		marshal(t, card),
	)

	card.Delivery = &Delivery{Method: "email"}
	assert.Equal(t, []string{"delivery"}, validationKeys(t, card.Validate()))
}

func TestBillingInfo_Decode(t *testing.T) {
	t.Parallel()

	document := `<billing_info href="https://mysite.recurly.com/v2/accounts/abc/billing_info" type="credit_card">
  <account href="https://mysite.recurly.com/v2/accounts/abc"/>
  <first_name>Verena</first_name>
  <address1>123 Main St.</address1>
  <country>US</country>
  <card_type>Visa</card_type>
  <year type="integer">2030</year>
  <month type="integer">11</month>
  <first_six>411111</first_six>
  <last_four>1111</last_four>
</billing_info>`

	var info BillingInfo
	require.NoError(t, xmldoc.Unmarshal([]byte(document), "billing_info", &info))

	assert.Equal(t, "abc", info.Key())
	assert.Equal(t, "123 Main St.", info.Address1)
	assert.Equal(t, "Visa", info.CardType)
	assert.Equal(t, 2030, info.Year)
	assert.Equal(t, "1111", info.LastFour)
	require.NoError(t, info.Validate())

	info.Month = 13
	assert.Equal(t, []string{"month"}, validationKeys(t, info.Validate()))
}
