package commands

import (
	"bytes"
	"context"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/fivetwenty-io/recurly-client/internal/recurlytest"
)

// findSubcommand finds a subcommand by name within a cobra command.
func findSubcommand(cmd *cobra.Command, name string) *cobra.Command {
	for _, c := range cmd.Commands() {
		if c.Name() == name {
			return c
		}
	}

	return nil
}

// newSite starts a fake API and points the CLI configuration at it. Viper is
// global, so tests using it must not run in parallel.
func newSite(t *testing.T) *recurlytest.Server {
	t.Helper()

	server := recurlytest.NewServer(t)

	viper.Reset()
	t.Cleanup(viper.Reset)
	viper.Set("base_url", server.URL)
	viper.Set("api_key", "test-api-key")

	return server
}

// execute runs cmd with args and returns everything it printed.
func execute(t *testing.T, cmd *cobra.Command, args ...string) (string, error) {
	t.Helper()

	var out bytes.Buffer

	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)

	err := cmd.ExecuteContext(context.Background())

	return out.String(), err
}
