package evm

import (
	"errors"
	"fmt"
	"strings"
)

// Kind classifies an on-chain failure. Callers branch on the kind instead of
// matching error strings from the RPC node or signer.
type Kind string

const (
	KindWalletNotConnected Kind = "wallet_not_connected"
	KindUserRejected       Kind = "user_rejected"
	KindInsufficientFunds  Kind = "insufficient_funds"
	KindContractReverted   Kind = "contract_reverted"
	KindEventNotFound      Kind = "event_not_found"
	KindNetworkError       Kind = "network_error"
	KindTimeout            Kind = "timeout"
	KindValidation         Kind = "validation_error"
)

type Error struct {
	Kind Kind
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Msg, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Msg)
}

func (e *Error) Unwrap() error { return e.Err }

func NewError(kind Kind, msg string) *Error {
	return &Error{Kind: kind, Msg: msg}
}

func WrapError(kind Kind, msg string, err error) *Error {
	return &Error{Kind: kind, Msg: msg, Err: err}
}

// KindOf extracts the failure kind from an error chain. Unclassified errors
// report as network errors, the only transient category.
func KindOf(err error) Kind {
	var evmErr *Error
	if errors.As(err, &evmErr) {
		return evmErr.Kind
	}
	return KindNetworkError
}

// Classify maps a raw error from the RPC node or the local signer onto the
// taxonomy. The substrings follow go-ethereum's core error messages.
func Classify(msg string, err error) *Error {
	var evmErr *Error
	if errors.As(err, &evmErr) {
		return evmErr
	}
	text := strings.ToLower(err.Error())
	switch {
	case strings.Contains(text, "user denied") || strings.Contains(text, "user rejected"):
		return WrapError(KindUserRejected, msg, err)
	case strings.Contains(text, "insufficient funds") || strings.Contains(text, "insufficient balance"):
		return WrapError(KindInsufficientFunds, msg, err)
	case strings.Contains(text, "execution reverted") || strings.Contains(text, "revert"):
		return WrapError(KindContractReverted, msg, err)
	default:
		return WrapError(KindNetworkError, msg, err)
	}
}
