package recurlytest

import "strings"

// NotFoundDocument is the body of a 404 answer.
const NotFoundDocument = `<?xml version="1.0" encoding="UTF-8"?>
<error>
  <symbol>not_found</symbol>
  <description lang="en-US">Couldn't find the requested resource</description>
</error>`

// Document wraps body in an XML declaration.
func Document(body string) string {
	return `<?xml version="1.0" encoding="UTF-8"?>` + "\n" + body
}

// Collection wraps items into a plural root element, e.g. <accounts type="array">.
func Collection(root string, items ...string) string {
	return Document("<" + root + ` type="array">` + strings.Join(items, "") + "</" + root + ">")
}

// Account returns an account element with the given code, state and email.
func Account(code, state, email string) string {
	return `<account href="https://api.example.test/v2/accounts/` + code + `">` +
		`<account_code>` + code + `</account_code>` +
		`<state>` + state + `</state>` +
		`<email>` + email + `</email>` +
		`<first_name nil="nil"></first_name>` +
		`<created_at type="datetime">2024-01-02T03:04:05Z</created_at>` +
		`</account>`
}

// Invoice returns an invoice element linked to the account at accountHref.
func Invoice(number, state, accountHref string) string {
	return `<invoice>` +
		`<account href="` + accountHref + `"/>` +
		`<invoice_number type="integer">` + number + `</invoice_number>` +
		`<state>` + state + `</state>` +
		`<currency>USD</currency>` +
		`<total_in_cents type="integer">1000</total_in_cents>` +
		`</invoice>`
}

// ValidationErrors returns a 422 body with one field error.
func ValidationErrors(field, symbol, message string) string {
	return Document(`<errors><error field="` + field + `" symbol="` + symbol + `">` + message + `</error></errors>`)
}
