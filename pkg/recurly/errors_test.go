package recurly

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorFromResponse(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		status      int
		body        string
		kind        ErrorKind
		sentinel    error
		wantSymbol  string
		wantErrors  int
		wantMessage string
	}{
		{
			name:        "not found document",
			status:      http.StatusNotFound,
			body:        `<error><symbol>not_found</symbol><description lang="en-US">Couldn't find Account with account_code = nope</description></error>`,
			kind:        KindNotFound,
			sentinel:    ErrNotFound,
			wantSymbol:  "not_found",
			wantMessage: "not found (status: 404): Couldn't find Account with account_code = nope",
		},
		{
			name:        "field errors",
			status:      http.StatusUnprocessableEntity,
			body:        `<errors><error field="account.email" symbol="invalid_email">is not a valid email address</error><error field="account.account_code" symbol="blank">can't be blank</error></errors>`,
			kind:        KindValidation,
			sentinel:    ErrValidation,
			wantErrors:  2,
			wantMessage: "validation failed (status: 422): account.email is not a valid email address; account.account_code can't be blank",
		},
		{
			name:        "server error without body",
			status:      http.StatusBadGateway,
			kind:        KindServer,
			sentinel:    ErrServer,
			wantMessage: "server error (status: 502)",
		},
		{
			name:        "undecodable body is kept raw",
			status:      http.StatusBadRequest,
			body:        "<html>oops",
			kind:        KindValidation,
			sentinel:    ErrValidation,
			wantMessage: "validation failed (status: 400)",
		},
		{
			name:        "redirect",
			status:      http.StatusFound,
			kind:        KindServer,
			sentinel:    ErrUnexpectedRedirect,
			wantMessage: "server error (status: 302): unexpected redirect",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			resp := NewResponse(tt.status, http.Header{}, []byte(tt.body))
			err := ErrorFromResponse(resp)
			require.Error(t, err)

			var apiErr *Error
			require.ErrorAs(t, err, &apiErr)
			assert.Equal(t, tt.kind, apiErr.Kind)
			assert.Equal(t, tt.status, apiErr.StatusCode)
			assert.Equal(t, tt.body, string(apiErr.Body))
			assert.Equal(t, tt.wantSymbol, apiErr.Symbol)
			assert.Len(t, apiErr.Errors, tt.wantErrors)
			assert.Equal(t, tt.wantMessage, apiErr.Error())
			require.ErrorIs(t, err, tt.sentinel)
		})
	}
}

func TestErrorFromResponse_Success(t *testing.T) {
	t.Parallel()

	require.NoError(t, ErrorFromResponse(NewResponse(http.StatusOK, nil, []byte("<account/>"))))
	require.NoError(t, ErrorFromResponse(NewResponse(http.StatusNoContent, nil, nil)))
}

func TestError_RequestID(t *testing.T) {
	t.Parallel()

	resp := NewResponse(http.StatusInternalServerError, http.Header{"X-Request-Id": {"req-9"}}, nil)
	err := ErrorFromResponse(resp)

	assert.Equal(t, "server error (status: 500) [request id: req-9]", err.Error())
}

func TestError_Predicates(t *testing.T) {
	t.Parallel()

	cause := errors.New("dial tcp: connection refused")
	transport := fmt.Errorf("listing accounts: %w", NewTransportError(cause))

	assert.True(t, IsTransport(transport))
	assert.False(t, IsServerError(transport))
	require.ErrorIs(t, transport, cause)

	malformed := NewMalformedError(NewResponse(http.StatusOK, http.Header{"X-Request-Id": {"r"}}, []byte("<a")), cause)
	assert.True(t, IsMalformed(malformed))
	assert.Equal(t, "r", malformed.RequestID)
	assert.Equal(t, 200, malformed.StatusCode)

	notFound := ErrorFromResponse(NewResponse(http.StatusNotFound, nil, nil))
	assert.True(t, IsNotFound(notFound))
	assert.False(t, IsValidation(notFound))

	assert.False(t, IsNotFound(nil))
	assert.False(t, IsNotFound(cause))
}

func TestError_Symbols(t *testing.T) {
	t.Parallel()

	err := &Error{
		Kind:   KindValidation,
		Symbol: "invalid_transition",
		Errors: []FieldError{{Field: "subscription.plan_code", Symbol: "invalid", Message: "is invalid"}},
	}

	assert.True(t, err.HasSymbol("invalid_transition"))
	assert.True(t, err.HasSymbol("invalid"))
	assert.False(t, err.HasSymbol("blank"))
	assert.Equal(t, "subscription.plan_code", err.FirstError().Field)
	assert.Nil(t, (&Error{}).FirstError())
}

func TestErrorKind_String(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "not found", KindNotFound.String())
	assert.Equal(t, "malformed response", KindMalformed.String())
	assert.Equal(t, "unknown", ErrorKind(0).String())
}
