package commands

import (
	"context"
	"fmt"
	"strconv"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/fivetwenty-io/recurly-client/internal/constants"
	"github.com/fivetwenty-io/recurly-client/pkg/recurly"
)

// NewSubscriptionsCommand creates the subscriptions command group.
func NewSubscriptionsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "subscriptions",
		Aliases: []string{"subscription", "sub"},
		Short:   "Manage subscriptions",
		Long:    "List, inspect, create, cancel, terminate and reactivate subscriptions",
	}

	cmd.AddCommand(newSubscriptionsListCommand())
	cmd.AddCommand(newSubscriptionsGetCommand())
	cmd.AddCommand(newSubscriptionsCreateCommand())
	cmd.AddCommand(newSubscriptionTransitionCommand("cancel", "Cancel a subscription",
		"Cancel a subscription so that it expires at the end of the current term",
		recurly.SubscriptionsClient.Cancel))
	cmd.AddCommand(newSubscriptionTransitionCommand("reactivate", "Reactivate a subscription",
		"Reactivate a canceled subscription before it expires",
		recurly.SubscriptionsClient.Reactivate))
	cmd.AddCommand(newSubscriptionsTerminateCommand())

	return cmd
}

func newSubscriptionsListCommand() *cobra.Command {
	flags := &listFlags{}

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List subscriptions",
		Long:  "List subscriptions across all accounts with optional state and time filters",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := CreateClient()
			if err != nil {
				return err
			}

			criteria, err := flags.criteria()
			if err != nil {
				return err
			}

			result, err := fetchPage(cmd, client.Subscriptions().List(criteria), flags.all)
			if err != nil {
				return fmt.Errorf("failed to list subscriptions: %w", err)
			}

			return outputSubscriptions(cmd, result)
		},
	}

	flags.register(cmd)

	return cmd
}

func outputSubscriptions(cmd *cobra.Command, result *page[recurly.Subscription]) error {
	handled, err := writeStructured(cmd.OutOrStdout(), result.items)
	if handled {
		return err
	}

	if len(result.items) == 0 {
		printf(cmd, "No subscriptions found\n")

		return nil
	}

	table := newTable(cmd.OutOrStdout(), "UUID", "Account", "Plan", "State", "Quantity", "Period Ends")

	for _, subscription := range result.items {
		_ = table.Append(
			subscription.Key(),
			linkedKey(subscription.Account),
			orNA(subscription.PlanCode),
			orNA(string(subscription.State)),
			strconv.Itoa(subscription.Quantity),
			formatTime(subscription.CurrentPeriodEndsAt),
		)
	}

	err = renderTable(table)
	if err != nil {
		return err
	}

	printPageFooter(cmd, result)

	return nil
}

func parseSubscriptionID(arg string) (uuid.UUID, error) {
	id, err := uuid.Parse(arg)
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: %q", constants.ErrInvalidSubscription, arg)
	}

	return id, nil
}

func newSubscriptionsGetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "get SUBSCRIPTION_UUID",
		Short: "Get subscription details",
		Long:  "Display detailed information about a specific subscription",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseSubscriptionID(args[0])
			if err != nil {
				return err
			}

			client, err := CreateClient()
			if err != nil {
				return err
			}

			subscription, err := client.Subscriptions().Get(cmd.Context(), id)
			if err != nil {
				return fmt.Errorf("failed to get subscription: %w", err)
			}

			if subscription == nil {
				return fmt.Errorf("%w: %s", constants.ErrSubscriptionNotFound, args[0])
			}

			return outputSubscription(cmd, subscription)
		},
	}
}

func outputSubscription(cmd *cobra.Command, subscription *recurly.Subscription) error {
	handled, err := writeStructured(cmd.OutOrStdout(), subscription)
	if handled {
		return err
	}

	return renderProperties(cmd.OutOrStdout(), [][]string{
		{"UUID", subscription.Key()},
		{"Account", linkedKey(subscription.Account)},
		{"Plan", orNA(subscription.PlanCode)},
		{"Plan Name", orNA(subscription.PlanName)},
		{"State", orNA(string(subscription.State))},
		{"Quantity", strconv.Itoa(subscription.Quantity)},
		{"Unit Amount", formatCents(subscription.UnitAmountInCents, subscription.Currency)},
		{"Activated", formatTime(subscription.ActivatedAt)},
		{"Period Started", formatTime(subscription.CurrentPeriodStartedAt)},
		{"Period Ends", formatTime(subscription.CurrentPeriodEndsAt)},
		{"Trial Ends", formatTime(subscription.TrialEndsAt)},
		{"Canceled", formatTime(subscription.CanceledAt)},
		{"Expires", formatTime(subscription.ExpiresAt)},
	})
}

func newSubscriptionsCreateCommand() *cobra.Command {
	var (
		planCode   string
		currency   string
		quantity   int
		unitAmount int
		startsAt   string
	)

	cmd := &cobra.Command{
		Use:   "create ACCOUNT_CODE",
		Short: "Create a subscription",
		Long:  "Subscribe an existing account to a plan",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			starts, err := parseFlagTime(startsAt)
			if err != nil {
				return err
			}

			subscription := recurly.NewSubscription(planCode, currency, &recurly.Account{Code: args[0]})
			subscription.Quantity = quantity
			subscription.UnitAmountInCents = unitAmount
			subscription.StartsAt = starts

			client, err := CreateClient()
			if err != nil {
				return err
			}

			created, err := client.Subscriptions().Create(cmd.Context(), subscription)
			if err != nil {
				return fmt.Errorf("failed to create subscription: %w", err)
			}

			return outputSubscription(cmd, created)
		},
	}

	cmd.Flags().StringVar(&planCode, "plan", "", "plan code (required)")
	cmd.Flags().StringVar(&currency, "currency", "USD", "currency code")
	cmd.Flags().IntVar(&quantity, "quantity", 0, "plan quantity")
	cmd.Flags().IntVar(&unitAmount, "unit-amount", 0, "override the plan's unit amount, in cents")
	cmd.Flags().StringVar(&startsAt, "starts-at", "", "postpone activation until this time (RFC3339 format)")
	_ = cmd.MarkFlagRequired("plan")

	return cmd
}

type subscriptionTransition func(c recurly.SubscriptionsClient, ctx context.Context, id uuid.UUID) (*recurly.Subscription, error)

func newSubscriptionTransitionCommand(name, short, long string, transition subscriptionTransition) *cobra.Command {
	return &cobra.Command{
		Use:   name + " SUBSCRIPTION_UUID",
		Short: short,
		Long:  long,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseSubscriptionID(args[0])
			if err != nil {
				return err
			}

			client, err := CreateClient()
			if err != nil {
				return err
			}

			subscription, err := transition(client.Subscriptions(), cmd.Context(), id)
			if err != nil {
				return fmt.Errorf("failed to %s subscription: %w", name, err)
			}

			printf(cmd, "Subscription %s is now %s\n", subscription.Key(), orNA(string(subscription.State)))

			return nil
		},
	}
}

func newSubscriptionsTerminateCommand() *cobra.Command {
	var refund string

	cmd := &cobra.Command{
		Use:   "terminate SUBSCRIPTION_UUID",
		Short: "Terminate a subscription",
		Long:  "End a subscription immediately, refunding none, part or all of the current term",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			refundType := recurly.ParseRefundType(refund)
			if refundType == "" {
				return fmt.Errorf("%w: %q", constants.ErrInvalidRefundType, refund)
			}

			id, err := parseSubscriptionID(args[0])
			if err != nil {
				return err
			}

			client, err := CreateClient()
			if err != nil {
				return err
			}

			subscription, err := client.Subscriptions().Terminate(cmd.Context(), id, refundType)
			if err != nil {
				return fmt.Errorf("failed to terminate subscription: %w", err)
			}

			printf(cmd, "Subscription %s is now %s\n", subscription.Key(), orNA(string(subscription.State)))

			return nil
		},
	}

	cmd.Flags().StringVar(&refund, "refund", string(recurly.RefundNone), "refund type (none, partial, full)")

	return cmd
}
