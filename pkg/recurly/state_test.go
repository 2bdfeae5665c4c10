package recurly

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAccountState(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input string
		want  AccountState
	}{
		{"active", AccountStateActive},
		{"active past_due", AccountStateActive | AccountStatePastDue},
		{"closed,non_subscriber", AccountStateClosed | AccountStateNonSubscriber},
		{"  Active,\n SUBSCRIBER ", AccountStateActive | AccountStateSubscriber},
		{"active bogus", AccountStateActive},
		{"", 0},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tt.want, ParseAccountState(tt.input))
		})
	}
}

func TestAccountState_Flags(t *testing.T) {
	t.Parallel()

	state := AccountStateActive.With(AccountStatePastDue)

	assert.True(t, state.Has(AccountStateActive))
	assert.True(t, state.Has(AccountStateActive|AccountStatePastDue))
	assert.False(t, state.Has(AccountStateActive|AccountStateClosed))
	assert.False(t, state.Has(0))
	assert.Equal(t, AccountStatePastDue, state.Without(AccountStateActive))
	assert.True(t, AccountState(0).IsZero())

	assert.Equal(t, []string{"active", "past_due"}, state.Names())
	assert.Equal(t, "active past_due", state.String())
	assert.Equal(t, state, ParseAccountState(state.String()))
}

func TestParseEnums(t *testing.T) {
	t.Parallel()

	assert.Equal(t, InvoiceStatePastDue, ParseInvoiceState(" PAST_DUE "))
	assert.Equal(t, InvoiceState(""), ParseInvoiceState("lost"))
	assert.Equal(t, SubscriptionStateInTrial, ParseSubscriptionState("in_trial"))
	assert.Equal(t, SubscriptionState(""), ParseSubscriptionState(""))
	assert.Equal(t, RefundPartial, ParseRefundType("Partial"))
	assert.Equal(t, CollectionManual, ParseCollectionMethod("manual"))
	assert.Equal(t, CollectionMethod(""), ParseCollectionMethod("cash"))
}

func TestAccountState_JSON(t *testing.T) {
	t.Parallel()

	data, err := json.Marshal(struct {
		State AccountState `json:"state"`
	}{AccountStateActive | AccountStatePastDue})
	require.NoError(t, err)
	assert.JSONEq(t, `{"state":"active past_due"}`, string(data))

	var decoded struct {
		State AccountState `json:"state"`
	}

	require.NoError(t, json.Unmarshal([]byte(`{"state":"closed"}`), &decoded))
	assert.Equal(t, AccountStateClosed, decoded.State)
}
