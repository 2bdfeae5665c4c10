package commands

import (
	"fmt"
	"strconv"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/fivetwenty-io/recurly-client/internal/constants"
	"github.com/fivetwenty-io/recurly-client/pkg/recurly"
)

// NewGiftCardsCommand creates the gift cards command group.
func NewGiftCardsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "gift-cards",
		Aliases: []string{"gift-card", "gc"},
		Short:   "Manage gift cards",
		Long:    "List, inspect, purchase and redeem gift cards",
	}

	cmd.AddCommand(newGiftCardsListCommand())
	cmd.AddCommand(newGiftCardsGetCommand())
	cmd.AddCommand(newGiftCardsCreateCommand())
	cmd.AddCommand(newGiftCardsRedeemCommand())

	return cmd
}

func newGiftCardsListCommand() *cobra.Command {
	flags := &listFlags{}

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List gift cards",
		Long:  "List purchased gift cards",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := CreateClient()
			if err != nil {
				return err
			}

			criteria, err := flags.criteria()
			if err != nil {
				return err
			}

			result, err := fetchPage(cmd, client.GiftCards().List(criteria), flags.all)
			if err != nil {
				return fmt.Errorf("failed to list gift cards: %w", err)
			}

			return outputGiftCards(cmd, result)
		},
	}

	flags.register(cmd)

	return cmd
}

func outputGiftCards(cmd *cobra.Command, result *page[recurly.GiftCard]) error {
	handled, err := writeStructured(cmd.OutOrStdout(), result.items)
	if handled {
		return err
	}

	if len(result.items) == 0 {
		printf(cmd, "No gift cards found\n")

		return nil
	}

	table := newTable(cmd.OutOrStdout(), "ID", "Product", "Gifter", "Recipient", "Balance", "Redeemed")

	for _, card := range result.items {
		_ = table.Append(
			card.Key(),
			orNA(card.ProductCode),
			linkedKey(card.GifterAccount),
			orNA(card.RecipientAccountCode),
			formatCents(card.BalanceInCents, card.Currency),
			formatTime(card.RedeemedAt),
		)
	}

	err = renderTable(table)
	if err != nil {
		return err
	}

	printPageFooter(cmd, result)

	return nil
}

func newGiftCardsGetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "get GIFT_CARD_ID",
		Short: "Get gift card details",
		Long:  "Display detailed information about a specific gift card",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil || id <= 0 {
				return fmt.Errorf("%w: %q", constants.ErrInvalidGiftCardID, args[0])
			}

			client, err := CreateClient()
			if err != nil {
				return err
			}

			card, err := client.GiftCards().Get(cmd.Context(), id)
			if err != nil {
				return fmt.Errorf("failed to get gift card: %w", err)
			}

			if card == nil {
				return fmt.Errorf("%w: %d", constants.ErrGiftCardNotFound, id)
			}

			return outputGiftCard(cmd, card)
		},
	}
}

func outputGiftCard(cmd *cobra.Command, card *recurly.GiftCard) error {
	handled, err := writeStructured(cmd.OutOrStdout(), card)
	if handled {
		return err
	}

	rows := [][]string{
		{"ID", orNA(card.Key())},
		{"Product", orNA(card.ProductCode)},
		{"Redemption Code", orNA(card.RedemptionCode)},
		{"Gifter", linkedKey(card.GifterAccount)},
		{"Recipient", orNA(card.RecipientAccountCode)},
		{"Amount", formatCents(card.UnitAmountInCents, card.Currency)},
		{"Balance", formatCents(card.BalanceInCents, card.Currency)},
		{"Created", formatTime(card.CreatedAt)},
		{"Delivered", formatTime(card.DeliveredAt)},
		{"Redeemed", formatTime(card.RedeemedAt)},
	}

	if card.Delivery != nil {
		rows = append(rows,
			[]string{"Delivery", orNA(card.Delivery.Method)},
			[]string{"Delivery Email", orNA(card.Delivery.EmailAddress)},
		)
	}

	return renderProperties(cmd.OutOrStdout(), rows)
}

// parseAmount converts a decimal amount such as "25.00" to cents.
func parseAmount(value string) (int, error) {
	amount, err := decimal.NewFromString(value)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", constants.ErrInvalidAmount, value)
	}

	cents := amount.Mul(decimal.NewFromInt(constants.CentsPerUnit))
	if !cents.IsInteger() || !cents.IsPositive() {
		return 0, fmt.Errorf("%w: %q", constants.ErrInvalidAmount, value)
	}

	return int(cents.IntPart()), nil
}

func newGiftCardsCreateCommand() *cobra.Command {
	var (
		productCode string
		amount      string
		currency    string
		gifter      string
		email       string
		firstName   string
		lastName    string
		message     string
		preview     bool
	)

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Purchase a gift card",
		Long:  "Purchase a gift card on behalf of a gifter account and deliver it by email",
		RunE: func(cmd *cobra.Command, args []string) error {
			cents, err := parseAmount(amount)
			if err != nil {
				return err
			}

			card := &recurly.GiftCard{
				ProductCode:       productCode,
				UnitAmountInCents: cents,
				Currency:          currency,
				GifterAccount:     recurly.LinkTo(&recurly.Account{Code: gifter}),
				Delivery: &recurly.Delivery{
					Method:          "email",
					EmailAddress:    email,
					FirstName:       firstName,
					LastName:        lastName,
					PersonalMessage: message,
				},
			}

			client, err := CreateClient()
			if err != nil {
				return err
			}

			if preview {
				card, err = client.GiftCards().Preview(cmd.Context(), card)
			} else {
				card, err = client.GiftCards().Create(cmd.Context(), card)
			}

			if err != nil {
				return fmt.Errorf("failed to purchase gift card: %w", err)
			}

			return outputGiftCard(cmd, card)
		},
	}

	cmd.Flags().StringVar(&productCode, "product-code", "", "gift card product code (required)")
	cmd.Flags().StringVar(&amount, "amount", "", "card value, for example 25.00 (required)")
	cmd.Flags().StringVar(&currency, "currency", "USD", "currency code")
	cmd.Flags().StringVar(&gifter, "gifter", "", "account code of the purchaser (required)")
	cmd.Flags().StringVar(&email, "email", "", "recipient email address (required)")
	cmd.Flags().StringVar(&firstName, "first-name", "", "recipient first name")
	cmd.Flags().StringVar(&lastName, "last-name", "", "recipient last name")
	cmd.Flags().StringVar(&message, "message", "", "personal message sent with the card")
	cmd.Flags().BoolVar(&preview, "preview", false, "validate the purchase without charging the gifter")
	_ = cmd.MarkFlagRequired("product-code")
	_ = cmd.MarkFlagRequired("amount")
	_ = cmd.MarkFlagRequired("gifter")
	_ = cmd.MarkFlagRequired("email")

	return cmd
}

func newGiftCardsRedeemCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "redeem REDEMPTION_CODE ACCOUNT_CODE",
		Short: "Redeem a gift card",
		Long:  "Apply a gift card's balance to the recipient account",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := CreateClient()
			if err != nil {
				return err
			}

			card, err := client.GiftCards().Redeem(cmd.Context(), args[0], args[1])
			if err != nil {
				return fmt.Errorf("failed to redeem gift card: %w", err)
			}

			printf(cmd, "Redeemed gift card %s for account %s\n", args[0], orNA(card.RecipientAccountCode))

			return nil
		},
	}
}
