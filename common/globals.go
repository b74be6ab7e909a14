package common

import "time"

const (
	InvoiceStatusPending   = "pending"
	InvoiceStatusPaid      = "paid"
	InvoiceStatusCancelled = "cancelled"
	InvoiceStatusTimedOut  = "timed_out"

	// On-chain status codes as stored by the invoice contract.
	ChainStatusPending   = 0
	ChainStatusPaid      = 1
	ChainStatusCancelled = 2

	// USDC and IDRX both use 6 decimals on Base Sepolia.
	TokenDecimals = 6

	BasisPointDivisor = 10000

	DefaultPollInterval    = 3 * time.Second
	DefaultMaxPollAttempts = 100

	DefaultRouterDeadline = time.Hour
)

// StatusFromChain maps the contract's uint8 status code to its string form.
func StatusFromChain(code uint8) string {
	switch code {
	case ChainStatusPaid:
		return InvoiceStatusPaid
	case ChainStatusCancelled:
		return InvoiceStatusCancelled
	default:
		return InvoiceStatusPending
	}
}
