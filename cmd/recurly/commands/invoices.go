package commands

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/fivetwenty-io/recurly-client/internal/constants"
	"github.com/fivetwenty-io/recurly-client/pkg/recurly"
)

// NewInvoicesCommand creates the invoices command group.
func NewInvoicesCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "invoices",
		Aliases: []string{"invoice", "inv"},
		Short:   "Manage invoices",
		Long:    "List and inspect invoices and move them through collection",
	}

	cmd.AddCommand(newInvoicesListCommand())
	cmd.AddCommand(newInvoicesGetCommand())
	cmd.AddCommand(newInvoiceTransitionCommand("mark-successful", "Mark an invoice as paid",
		"Mark a manually collected invoice as successfully paid", recurly.InvoicesClient.MarkSuccessful))
	cmd.AddCommand(newInvoiceTransitionCommand("mark-failed", "Mark an invoice as failed",
		"Mark a manually collected invoice as failed", recurly.InvoicesClient.MarkFailed))
	cmd.AddCommand(newInvoiceTransitionCommand("void", "Void an invoice",
		"Void an open invoice so that it is no longer collected", recurly.InvoicesClient.Void))

	return cmd
}

func newInvoicesListCommand() *cobra.Command {
	var (
		flags           = &listFlags{}
		resolveAccounts bool
		concurrency     int
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List invoices",
		Long:  "List invoices across all accounts with optional state and time filters",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := CreateClient()
			if err != nil {
				return err
			}

			criteria, err := flags.criteria()
			if err != nil {
				return err
			}

			result, err := fetchPage(cmd, client.Invoices().List(criteria), flags.all)
			if err != nil {
				return fmt.Errorf("failed to list invoices: %w", err)
			}

			if resolveAccounts {
				err = resolveInvoiceAccounts(cmd.Context(), result.items, concurrency)
				if err != nil {
					return fmt.Errorf("failed to resolve invoice accounts: %w", err)
				}
			}

			return outputInvoices(cmd, result, resolveAccounts)
		},
	}

	flags.register(cmd)
	cmd.Flags().BoolVar(&resolveAccounts, "resolve-accounts", false, "fetch the account of every invoice to show its email")
	cmd.Flags().IntVar(&concurrency, "concurrency", constants.DefaultConcurrencyLimit, "parallel account fetches with --resolve-accounts")

	return cmd
}

// resolveInvoiceAccounts fetches each distinct linked account once and shares
// the result between invoices that point at the same href.
func resolveInvoiceAccounts(ctx context.Context, invoices []*recurly.Invoice, concurrency int) error {
	groups := make(map[string][]*recurly.Link[recurly.Account])

	var unique []*recurly.Link[recurly.Account]

	for _, invoice := range invoices {
		link := invoice.Account
		if link == nil || link.Resolved() || link.Href() == "" {
			continue
		}

		href := link.Href()
		if _, seen := groups[href]; !seen {
			unique = append(unique, link)
		}

		groups[href] = append(groups[href], link)
	}

	err := recurly.ResolveAll(ctx, concurrency, unique...)
	if err != nil {
		return err
	}

	for _, links := range groups {
		account := links[0].Value()
		for _, link := range links[1:] {
			link.Set(account)
		}
	}

	return nil
}

func outputInvoices(cmd *cobra.Command, result *page[recurly.Invoice], withEmail bool) error {
	handled, err := writeStructured(cmd.OutOrStdout(), result.items)
	if handled {
		return err
	}

	if len(result.items) == 0 {
		printf(cmd, "No invoices found\n")

		return nil
	}

	headers := []any{"Number", "Account", "State", "Total", "Created"}
	if withEmail {
		headers = append(headers, "Email")
	}

	table := newTable(cmd.OutOrStdout(), headers...)

	for _, invoice := range result.items {
		row := []any{
			invoice.Key(),
			linkedKey(invoice.Account),
			orNA(string(invoice.State)),
			formatCents(invoice.TotalInCents, invoice.Currency),
			formatTime(invoice.CreatedAt),
		}

		if withEmail {
			email := constants.NotAvailable
			if account := invoice.Account.Value(); account != nil {
				email = orNA(account.Email)
			}

			row = append(row, email)
		}

		_ = table.Append(row...)
	}

	err = renderTable(table)
	if err != nil {
		return err
	}

	printPageFooter(cmd, result)

	return nil
}

func parseInvoiceNumber(arg string) (int, error) {
	number, err := strconv.Atoi(arg)
	if err != nil || number <= 0 {
		return 0, fmt.Errorf("%w: %q", constants.ErrInvalidInvoiceNumber, arg)
	}

	return number, nil
}

func newInvoicesGetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "get INVOICE_NUMBER",
		Short: "Get invoice details",
		Long:  "Display detailed information about a specific invoice, including its line items",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			number, err := parseInvoiceNumber(args[0])
			if err != nil {
				return err
			}

			client, err := CreateClient()
			if err != nil {
				return err
			}

			invoice, err := client.Invoices().Get(cmd.Context(), number)
			if err != nil {
				return fmt.Errorf("failed to get invoice: %w", err)
			}

			if invoice == nil {
				return fmt.Errorf("%w: %d", constants.ErrInvoiceNotFound, number)
			}

			return outputInvoice(cmd, invoice)
		},
	}
}

func outputInvoice(cmd *cobra.Command, invoice *recurly.Invoice) error {
	handled, err := writeStructured(cmd.OutOrStdout(), invoice)
	if handled {
		return err
	}

	err = renderProperties(cmd.OutOrStdout(), [][]string{
		{"Number", invoice.Key()},
		{"Account", linkedKey(invoice.Account)},
		{"State", orNA(string(invoice.State))},
		{"Collection", orNA(string(invoice.CollectionMethod))},
		{"Subtotal", formatCents(invoice.SubtotalInCents, invoice.Currency)},
		{"Tax", formatCents(invoice.TaxInCents, invoice.Currency)},
		{"Tax Rate", invoice.TaxRate.String()},
		{"Total", formatCents(invoice.TotalInCents, invoice.Currency)},
		{"Created", formatTime(invoice.CreatedAt)},
		{"Closed", formatTime(invoice.ClosedAt)},
	})
	if err != nil {
		return err
	}

	if len(invoice.LineItems) == 0 {
		return nil
	}

	printf(cmd, "\nLine items:\n")

	table := newTable(cmd.OutOrStdout(), "Description", "Quantity", "Unit Amount", "Total")

	for _, item := range invoice.LineItems {
		_ = table.Append(
			orNA(item.Description),
			strconv.Itoa(item.Quantity),
			formatCents(item.UnitAmountInCents, item.Currency),
			formatCents(item.TotalInCents, item.Currency),
		)
	}

	return renderTable(table)
}

type invoiceTransition func(c recurly.InvoicesClient, ctx context.Context, number int) (*recurly.Invoice, error)

func newInvoiceTransitionCommand(name, short, long string, transition invoiceTransition) *cobra.Command {
	return &cobra.Command{
		Use:   name + " INVOICE_NUMBER",
		Short: short,
		Long:  long,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			number, err := parseInvoiceNumber(args[0])
			if err != nil {
				return err
			}

			client, err := CreateClient()
			if err != nil {
				return err
			}

			invoice, err := transition(client.Invoices(), cmd.Context(), number)
			if err != nil {
				return fmt.Errorf("failed to %s invoice: %w", name, err)
			}

			printf(cmd, "Invoice %s is now %s\n", invoice.Key(), orNA(string(invoice.State)))

			return nil
		},
	}
}
