package evm

import (
	"math/big"
	"strings"

	"github.com/deqrypt/deqrypt.go/common"
)

// ParseUnits converts a human decimal string into a fixed-point integer with
// the given number of decimals. Negative amounts, malformed input and excess
// fractional digits are validation errors, rejected before any network call.
func ParseUnits(amount string, decimals int) (*big.Int, error) {
	amount = strings.TrimSpace(amount)
	if amount == "" {
		return nil, NewError(KindValidation, "empty amount")
	}
	if strings.HasPrefix(amount, "-") {
		return nil, NewError(KindValidation, "negative amount "+amount)
	}
	whole := amount
	frac := ""
	if i := strings.IndexByte(amount, '.'); i >= 0 {
		whole, frac = amount[:i], amount[i+1:]
	}
	if whole == "" {
		whole = "0"
	}
	if len(frac) > decimals {
		return nil, NewError(KindValidation, "amount "+amount+" has too many decimal places")
	}
	frac += strings.Repeat("0", decimals-len(frac))
	value, ok := new(big.Int).SetString(whole+frac, 10)
	if !ok {
		return nil, NewError(KindValidation, "malformed amount "+amount)
	}
	return value, nil
}

// FormatUnits renders a fixed-point integer as a decimal string. Trailing
// fractional zeros are trimmed down to a single digit, so 100000000 at six
// decimals formats as "100.0".
func FormatUnits(value *big.Int, decimals int) string {
	if value == nil {
		value = new(big.Int)
	}
	scale := new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(decimals)), nil)
	whole, frac := new(big.Int).QuoRem(value, scale, new(big.Int))
	digits := frac.String()
	digits = strings.Repeat("0", decimals-len(digits)) + digits
	digits = strings.TrimRight(digits, "0")
	if digits == "" {
		digits = "0"
	}
	return whole.String() + "." + digits
}

// MinOut applies a slippage tolerance in basis points to an expected output,
// using integer arithmetic throughout. minOut <= expectedOut always, with
// equality exactly when slippageBps is zero.
func MinOut(expectedOut *big.Int, slippageBps int64) (*big.Int, error) {
	if slippageBps < 0 || slippageBps > common.BasisPointDivisor {
		return nil, NewError(KindValidation, "slippage basis points out of range")
	}
	out := new(big.Int).Mul(expectedOut, big.NewInt(common.BasisPointDivisor-slippageBps))
	return out.Div(out, big.NewInt(common.BasisPointDivisor)), nil
}
