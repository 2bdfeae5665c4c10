// Package recurly provides types, interfaces, and helpers for working with the
// Recurly v2 billing API.
//
// # Overview
//
// The recurly package defines the domain types (Account, GiftCard, Invoice,
// Subscription) and the interfaces for resource-oriented clients (for example
// AccountsClient). A concrete implementation is provided by the recurlyclient
// package, which wires configuration, transport, and authentication. Most
// consumers should import recurlyclient to construct a client and then use
// the resource client interfaces exposed here.
//
// Getting a client
//
//	import (
//	  "context"
//	  "log"
//
//	  "github.com/fivetwenty-io/recurly-client/pkg/recurly"
//	  "github.com/fivetwenty-io/recurly-client/pkg/recurlyclient"
//	)
//
//	func example() {
//	  ctx := context.Background()
//	  cli, err := recurlyclient.NewWithAPIKey("mysite", "api-key")
//	  if err != nil { log.Fatal(err) }
//
//	  account, err := cli.Accounts().Get(ctx, "abc")
//	  if err != nil { log.Fatal(err) }
//	  if account == nil { log.Print("no such account") }
//	}
//
// # Filters and pagination
//
// FilterCriteria accumulates the query parameters a list endpoint accepts
// (state, type, cursor, sort, order, per_page, begin_time, end_time). List
// operations return a *List, which fetches its first page on first access and
// follows the next-page Link header while iterating:
//
//	accounts := cli.Accounts().List(recurly.NewFilterCriteria().
//	  WithState(recurly.AccountStateActive.String()).
//	  WithPerPage(50))
//	for account, err := range accounts.All(ctx) {
//	  if err != nil { break }
//	  _ = account
//	}
//
// Pages already fetched are kept on the list, so iterating a second time
// makes no network calls. Call Refresh to discard them.
//
// # Errors
//
// Failures are reported as *Error values whose Kind separates transport
// failures, validation errors, server errors, and malformed responses.
// Helpers such as IsNotFound, IsValidation, and IsServerError branch on them.
// Single-resource Get operations report a missing resource as a nil result
// instead of an error.
//
// # Concurrency
//
// The client never issues requests concurrently on its own. Lists and lazily
// linked resources guard their caches with a mutex, so concurrent first
// access from several goroutines still performs a single fetch. ResolveAll
// resolves many links in parallel with a bounded number of goroutines.
package recurly
