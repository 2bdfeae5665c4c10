package recurly

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/fivetwenty-io/recurly-client/pkg/xmldoc"
)

type cannedPage struct {
	status int
	header http.Header
	body   string
}

// fakeBackend answers requests from canned pages keyed by path.
type fakeBackend struct {
	mu    sync.Mutex
	pages map[string]cannedPage
	calls map[string]int
	delay time.Duration
	err   error
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{
		pages: make(map[string]cannedPage),
		calls: make(map[string]int),
	}
}

func (b *fakeBackend) add(path string, status int, body string, headers ...string) {
	header := make(http.Header)
	for i := 0; i+1 < len(headers); i += 2 {
		header.Add(headers[i], headers[i+1])
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	b.pages[path] = cannedPage{status: status, header: header, body: body}
}

func (b *fakeBackend) callsTo(path string) int {
	b.mu.Lock()
	defer b.mu.Unlock()

	return b.calls[path]
}

func (b *fakeBackend) totalCalls() int {
	b.mu.Lock()
	defer b.mu.Unlock()

	total := 0
	for _, n := range b.calls {
		total += n
	}

	return total
}

func (b *fakeBackend) Do(ctx context.Context, req *Request) (*Response, error) {
	b.mu.Lock()
	b.calls[req.Path]++
	page, ok := b.pages[req.Path]
	delay, failure := b.delay, b.err
	b.mu.Unlock()

	if delay > 0 {
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return nil, NewTransportError(ctx.Err())
		}
	}

	if failure != nil {
		return nil, NewTransportError(failure)
	}

	if !ok {
		page = cannedPage{status: http.StatusNotFound}
	}

	resp := NewResponse(page.status, page.header, []byte(page.body))

	return resp, ErrorFromResponse(resp)
}

func (b *fakeBackend) Resolve(ctx context.Context, href string, v xmldoc.Decoder) error {
	resp, err := b.Do(ctx, NewRequest(http.MethodGet, href))
	if err != nil {
		return err
	}

	err = xmldoc.NewReaderBytes(resp.Body()).WithResolver(b).DecodeRoot("", v)
	if err != nil {
		return NewMalformedError(resp, err)
	}

	return nil
}

const accountDocument = `<?xml version="1.0" encoding="UTF-8"?>
<account href="https://mysite.recurly.com/v2/accounts/abc">
  <adjustments href="https://mysite.recurly.com/v2/accounts/abc/adjustments"/>
  <billing_info href="https://mysite.recurly.com/v2/accounts/abc/billing_info"/>
  <account_code>abc</account_code>
  <state>active past_due</state>
  <username nil="nil"></username>
  <email>a@b.com</email>
  <cc_emails>c@d.com,e@f.com</cc_emails>
  <first_name>Verena</first_name>
  <last_name>Example</last_name>
  <company_name></company_name>
  <tax_exempt type="boolean">false</tax_exempt>
  <address>
    <address1>123 Main St.</address1>
    <city>San Francisco</city>
    <state>CA</state>
    <zip>94105</zip>
    <country>US</country>
  </address>
  <accept_language nil="nil"></accept_language>
  <hosted_login_token>a92468579e9c4231a6c0031c4716c01d</hosted_login_token>
  <created_at type="datetime">2011-10-25T12:00:00Z</created_at>
  <closed_at nil="nil"></closed_at>
</account>`
