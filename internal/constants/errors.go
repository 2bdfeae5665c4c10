package constants

import "errors"

// Configuration errors.
var (
	ErrNoSiteConfigured    = errors.New("no site configured")
	ErrUnknownConfigKey    = errors.New("unknown configuration key")
	ErrInvalidConfigValue  = errors.New("invalid configuration value")
	ErrInvalidOutputFormat = errors.New("output must be table, json or yaml")
)

// Flag and argument errors.
var (
	ErrInvalidGiftCardID    = errors.New("gift card id must be a positive integer")
	ErrInvalidInvoiceNumber = errors.New("invoice number must be a positive integer")
	ErrInvalidSubscription  = errors.New("subscription id must be a UUID")
	ErrInvalidRefundType    = errors.New("refund must be none, partial or full")
	ErrInvalidTime          = errors.New("time must be RFC3339")
	ErrInvalidAmount        = errors.New("amount must be a positive value with at most two decimals")
)

// Lookup errors.
var (
	ErrAccountNotFound      = errors.New("account not found")
	ErrBillingInfoNotFound  = errors.New("billing info not found")
	ErrGiftCardNotFound     = errors.New("gift card not found")
	ErrInvoiceNotFound      = errors.New("invoice not found")
	ErrSubscriptionNotFound = errors.New("subscription not found")
)
