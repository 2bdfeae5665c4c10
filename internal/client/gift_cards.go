package client

import (
	"context"
	"fmt"
	"net/http"
	"strconv"

	recurlyhttp "github.com/fivetwenty-io/recurly-client/internal/http"
	"github.com/fivetwenty-io/recurly-client/pkg/recurly"
	"github.com/fivetwenty-io/recurly-client/pkg/xmldoc"
)

// GiftCardsClient implements recurly.GiftCardsClient.
type GiftCardsClient struct {
	httpClient *recurlyhttp.Client
}

// NewGiftCardsClient creates a new gift cards client.
func NewGiftCardsClient(httpClient *recurlyhttp.Client) *GiftCardsClient {
	return &GiftCardsClient{httpClient: httpClient}
}

// Get implements recurly.GiftCardsClient.Get.
func (c *GiftCardsClient) Get(ctx context.Context, id int64) (*recurly.GiftCard, error) {
	if id <= 0 {
		return nil, fmt.Errorf("%w: gift card id", recurly.ErrKeyRequired)
	}

	card, err := fetch[recurly.GiftCard](ctx, c.httpClient, "/gift_cards/"+strconv.FormatInt(id, 10), "gift_card")
	if err != nil {
		return nil, fmt.Errorf("getting gift card %d: %w", id, err)
	}

	return card, nil
}

// List implements recurly.GiftCardsClient.List.
func (c *GiftCardsClient) List(criteria *recurly.FilterCriteria) *recurly.List[recurly.GiftCard] {
	return recurly.NewList[recurly.GiftCard](c.httpClient, criteria.AppendTo("/gift_cards"), "gift_cards", "gift_card")
}

// Create implements recurly.GiftCardsClient.Create.
func (c *GiftCardsClient) Create(ctx context.Context, card *recurly.GiftCard) (*recurly.GiftCard, error) {
	err := card.Validate()
	if err != nil {
		return nil, fmt.Errorf("purchasing gift card: %w", err)
	}

	created, err := send[recurly.GiftCard](ctx, c.httpClient, http.MethodPost, "/gift_cards", card, "gift_card")
	if err != nil {
		return nil, fmt.Errorf("purchasing gift card: %w", err)
	}

	return created, nil
}

// Preview implements recurly.GiftCardsClient.Preview.
func (c *GiftCardsClient) Preview(ctx context.Context, card *recurly.GiftCard) (*recurly.GiftCard, error) {
	err := card.Validate()
	if err != nil {
		return nil, fmt.Errorf("previewing gift card: %w", err)
	}

	preview, err := send[recurly.GiftCard](ctx, c.httpClient, http.MethodPost, "/gift_cards/preview", card, "gift_card")
	if err != nil {
		return nil, fmt.Errorf("previewing gift card: %w", err)
	}

	return preview, nil
}

// redemption is the body of a redeem call.
type redemption struct {
	accountCode string
}

func (r redemption) EncodeXML(w *xmldoc.Writer) error {
	return w.Element("recipient_account", nil, func(w *xmldoc.Writer) error {
		w.String("account_code", r.accountCode)

		return nil
	})
}

// Redeem implements recurly.GiftCardsClient.Redeem.
func (c *GiftCardsClient) Redeem(ctx context.Context, redemptionCode, accountCode string) (*recurly.GiftCard, error) {
	if redemptionCode == "" {
		return nil, fmt.Errorf("%w: redemption code", recurly.ErrKeyRequired)
	}

	if accountCode == "" {
		return nil, fmt.Errorf("%w: account code", recurly.ErrKeyRequired)
	}

	path := "/gift_cards/" + segment(redemptionCode) + "/redeem"

	card, err := send[recurly.GiftCard](ctx, c.httpClient, http.MethodPost, path, redemption{accountCode: accountCode}, "gift_card")
	if err != nil {
		return nil, fmt.Errorf("redeeming gift card: %w", err)
	}

	return card, nil
}
