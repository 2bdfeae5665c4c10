package commands

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/fivetwenty-io/recurly-client/internal/constants"
	"github.com/fivetwenty-io/recurly-client/pkg/recurly"
)

// NewAccountsCommand creates the accounts command group.
func NewAccountsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "accounts",
		Aliases: []string{"account", "acct"},
		Short:   "Manage customer accounts",
		Long:    "List, inspect, create, update, close and reopen customer accounts",
	}

	cmd.AddCommand(newAccountsListCommand())
	cmd.AddCommand(newAccountsGetCommand())
	cmd.AddCommand(newAccountsCreateCommand())
	cmd.AddCommand(newAccountsUpdateCommand())
	cmd.AddCommand(newAccountsCloseCommand())
	cmd.AddCommand(newAccountsReopenCommand())
	cmd.AddCommand(newAccountsBillingInfoCommand())
	cmd.AddCommand(newAccountsInvoicesCommand())
	cmd.AddCommand(newAccountsSubscriptionsCommand())

	return cmd
}

func newAccountsListCommand() *cobra.Command {
	flags := &listFlags{}

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List accounts",
		Long:  "List accounts with optional state and time filters",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := CreateClient()
			if err != nil {
				return err
			}

			criteria, err := flags.criteria()
			if err != nil {
				return err
			}

			result, err := fetchPage(cmd, client.Accounts().List(criteria), flags.all)
			if err != nil {
				return fmt.Errorf("failed to list accounts: %w", err)
			}

			return outputAccounts(cmd, result)
		},
	}

	flags.register(cmd)

	return cmd
}

func outputAccounts(cmd *cobra.Command, result *page[recurly.Account]) error {
	handled, err := writeStructured(cmd.OutOrStdout(), result.items)
	if handled {
		return err
	}

	if len(result.items) == 0 {
		printf(cmd, "No accounts found\n")

		return nil
	}

	table := newTable(cmd.OutOrStdout(), "Code", "Email", "Name", "State", "Created")

	for _, account := range result.items {
		_ = table.Append(
			account.Code,
			orNA(account.Email),
			orNA(strings.TrimSpace(account.FirstName+" "+account.LastName)),
			orNA(account.State.String()),
			formatTime(account.CreatedAt),
		)
	}

	err = renderTable(table)
	if err != nil {
		return err
	}

	printPageFooter(cmd, result)

	return nil
}

func newAccountsGetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "get ACCOUNT_CODE",
		Short: "Get account details",
		Long:  "Display detailed information about a specific account",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := CreateClient()
			if err != nil {
				return err
			}

			account, err := client.Accounts().Get(cmd.Context(), args[0])
			if err != nil {
				return fmt.Errorf("failed to get account: %w", err)
			}

			if account == nil {
				return fmt.Errorf("%w: %s", constants.ErrAccountNotFound, args[0])
			}

			return outputAccount(cmd, account)
		},
	}
}

func outputAccount(cmd *cobra.Command, account *recurly.Account) error {
	handled, err := writeStructured(cmd.OutOrStdout(), account)
	if handled {
		return err
	}

	return renderProperties(cmd.OutOrStdout(), accountRows(account))
}

func accountRows(account *recurly.Account) [][]string {
	rows := [][]string{
		{"Code", account.Code},
		{"State", orNA(account.State.String())},
		{"Email", orNA(account.Email)},
		{"First Name", orNA(account.FirstName)},
		{"Last Name", orNA(account.LastName)},
		{"Company", orNA(account.CompanyName)},
		{"CC Emails", orNA(strings.Join(account.CCEmails, ", "))},
		{"Created", formatTime(account.CreatedAt)},
		{"Updated", formatTime(account.UpdatedAt)},
	}

	if account.IsClosed() {
		rows = append(rows, []string{"Closed", formatTime(account.ClosedAt)})
	}

	if !account.Address.IsZero() {
		rows = append(rows, []string{"Address", formatAddress(account.Address)})
	}

	return rows
}

func formatAddress(address *recurly.Address) string {
	var parts []string

	for _, part := range []string{address.Address1, address.Address2, address.City, address.State, address.Zip, address.Country} {
		if part != "" {
			parts = append(parts, part)
		}
	}

	return strings.Join(parts, ", ")
}

// accountFlags are the writable fields accepted by create and update.
type accountFlags struct {
	email     string
	firstName string
	lastName  string
	company   string
	vatNumber string
	ccEmails  []string
}

func (f *accountFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.email, "email", "", "email address")
	cmd.Flags().StringVar(&f.firstName, "first-name", "", "first name")
	cmd.Flags().StringVar(&f.lastName, "last-name", "", "last name")
	cmd.Flags().StringVar(&f.company, "company", "", "company name")
	cmd.Flags().StringVar(&f.vatNumber, "vat-number", "", "VAT number")
	cmd.Flags().StringSliceVar(&f.ccEmails, "cc-emails", nil, "additional email addresses (comma-separated)")
}

// apply copies the flags the user set onto account.
func (f *accountFlags) apply(cmd *cobra.Command, account *recurly.Account) {
	changed := cmd.Flags().Changed

	if changed("email") {
		account.Email = f.email
	}

	if changed("first-name") {
		account.FirstName = f.firstName
	}

	if changed("last-name") {
		account.LastName = f.lastName
	}

	if changed("company") {
		account.CompanyName = f.company
	}

	if changed("vat-number") {
		account.VATNumber = f.vatNumber
	}

	if changed("cc-emails") {
		account.CCEmails = f.ccEmails
	}
}

func newAccountsCreateCommand() *cobra.Command {
	flags := &accountFlags{}

	cmd := &cobra.Command{
		Use:   "create ACCOUNT_CODE",
		Short: "Create an account",
		Long:  "Create a new customer account with the given code",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := CreateClient()
			if err != nil {
				return err
			}

			account := recurly.NewAccount(args[0])
			flags.apply(cmd, account)

			created, err := client.Accounts().Create(cmd.Context(), account)
			if err != nil {
				return fmt.Errorf("failed to create account: %w", err)
			}

			return outputAccount(cmd, created)
		},
	}

	flags.register(cmd)

	return cmd
}

func newAccountsUpdateCommand() *cobra.Command {
	flags := &accountFlags{}

	cmd := &cobra.Command{
		Use:   "update ACCOUNT_CODE",
		Short: "Update an account",
		Long:  "Update the fields given as flags; other fields keep their current values",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := CreateClient()
			if err != nil {
				return err
			}

			account := recurly.NewAccount(args[0])
			flags.apply(cmd, account)

			updated, err := client.Accounts().Update(cmd.Context(), account)
			if err != nil {
				return fmt.Errorf("failed to update account: %w", err)
			}

			return outputAccount(cmd, updated)
		},
	}

	flags.register(cmd)

	return cmd
}

func newAccountsCloseCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "close ACCOUNT_CODE",
		Short: "Close an account",
		Long:  "Close an account, canceling its subscriptions and removing its billing info",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := CreateClient()
			if err != nil {
				return err
			}

			err = client.Accounts().Close(cmd.Context(), args[0])
			if err != nil {
				return fmt.Errorf("failed to close account: %w", err)
			}

			printf(cmd, "Closed account %s\n", args[0])

			return nil
		},
	}
}

func newAccountsReopenCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "reopen ACCOUNT_CODE",
		Short: "Reopen a closed account",
		Long:  "Reopen a previously closed account",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := CreateClient()
			if err != nil {
				return err
			}

			account, err := client.Accounts().Reopen(cmd.Context(), args[0])
			if err != nil {
				return fmt.Errorf("failed to reopen account: %w", err)
			}

			printf(cmd, "Reopened account %s\n", account.Code)

			return nil
		},
	}
}

func newAccountsBillingInfoCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "billing-info ACCOUNT_CODE",
		Short: "Show an account's billing info",
		Long:  "Display the payment details stored for an account",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := CreateClient()
			if err != nil {
				return err
			}

			info, err := client.Accounts().GetBillingInfo(cmd.Context(), args[0])
			if err != nil {
				return fmt.Errorf("failed to get billing info: %w", err)
			}

			if info == nil {
				return fmt.Errorf("%w for account %s", constants.ErrBillingInfoNotFound, args[0])
			}

			return outputBillingInfo(cmd.OutOrStdout(), info)
		},
	}
}

func outputBillingInfo(w io.Writer, info *recurly.BillingInfo) error {
	handled, err := writeStructured(w, info)
	if handled {
		return err
	}

	card := constants.NotAvailable
	if info.LastFour != "" {
		card = fmt.Sprintf("%s ending in %s (%02d/%d)", orNA(info.CardType), info.LastFour, info.Month, info.Year)
	}

	return renderProperties(w, [][]string{
		{"Account", orNA(info.AccountCode)},
		{"Name", orNA(strings.TrimSpace(info.FirstName + " " + info.LastName))},
		{"Company", orNA(info.Company)},
		{"Card", card},
		{"Country", orNA(info.Country)},
		{"VAT Number", orNA(info.VATNumber)},
		{"Updated", formatTime(info.UpdatedAt)},
	})
}

func newAccountsInvoicesCommand() *cobra.Command {
	flags := &listFlags{}

	cmd := &cobra.Command{
		Use:   "invoices ACCOUNT_CODE",
		Short: "List an account's invoices",
		Long:  "List the invoices billed to an account",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := CreateClient()
			if err != nil {
				return err
			}

			criteria, err := flags.criteria()
			if err != nil {
				return err
			}

			list := client.Accounts().ListInvoices(args[0], criteria)

			exists, err := list.Exists(cmd.Context())
			if err != nil {
				return fmt.Errorf("failed to list invoices: %w", err)
			}

			if !exists {
				return fmt.Errorf("%w: %s", constants.ErrAccountNotFound, args[0])
			}

			result, err := fetchPage(cmd, list, flags.all)
			if err != nil {
				return fmt.Errorf("failed to list invoices: %w", err)
			}

			return outputInvoices(cmd, result, false)
		},
	}

	flags.register(cmd)

	return cmd
}

func newAccountsSubscriptionsCommand() *cobra.Command {
	flags := &listFlags{}

	cmd := &cobra.Command{
		Use:   "subscriptions ACCOUNT_CODE",
		Short: "List an account's subscriptions",
		Long:  "List the subscriptions held by an account",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := CreateClient()
			if err != nil {
				return err
			}

			criteria, err := flags.criteria()
			if err != nil {
				return err
			}

			list := client.Accounts().ListSubscriptions(args[0], criteria)

			exists, err := list.Exists(cmd.Context())
			if err != nil {
				return fmt.Errorf("failed to list subscriptions: %w", err)
			}

			if !exists {
				return fmt.Errorf("%w: %s", constants.ErrAccountNotFound, args[0])
			}

			result, err := fetchPage(cmd, list, flags.all)
			if err != nil {
				return fmt.Errorf("failed to list subscriptions: %w", err)
			}

			return outputSubscriptions(cmd, result)
		},
	}

	flags.register(cmd)

	return cmd
}
