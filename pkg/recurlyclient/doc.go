// Package recurlyclient provides the entry point for constructing a billing
// API client that implements the recurly.Client interface.
//
// It normalizes the configuration, derives the site endpoint, and wires the
// HTTP dispatcher, credentials and resource clients behind the interfaces
// defined in the recurly package.
//
// Quick start
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
//
//	  cli, err := recurlyclient.NewWithAPIKey("mysite", "private-api-key")
//	  if err != nil { log.Fatal(err) }
//
//	  // Or with full control over the configuration:
//	  cli, err = recurlyclient.New(&recurly.Config{
//	    Subdomain: "mysite",
//	    APIKey:    "private-api-key",
//	    RetryMax:  3,
//	  })
//	  if err != nil { log.Fatal(err) }
//
//	  account, err := cli.Accounts().Get(ctx, "abc")
//	  if err != nil { log.Fatal(err) }
//	  _ = account
//	}
package recurlyclient
