package evm

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
)

// Token wraps one ERC-20 contract behind a ClientWrapper.
type Token struct {
	Client  ClientWrapper
	Address common.Address
}

func NewToken(client ClientWrapper, address common.Address) *Token {
	return &Token{Client: client, Address: address}
}

func (t *Token) Allowance(ctx context.Context, owner, spender common.Address) (*big.Int, error) {
	var out []interface{}
	if err := t.Client.Call(ctx, t.Address, ERC20ABI, &out, "allowance", owner, spender); err != nil {
		return nil, err
	}
	return toBigInt(out, "allowance")
}

func (t *Token) BalanceOf(ctx context.Context, owner common.Address) (*big.Int, error) {
	var out []interface{}
	if err := t.Client.Call(ctx, t.Address, ERC20ABI, &out, "balanceOf", owner); err != nil {
		return nil, err
	}
	return toBigInt(out, "balanceOf")
}

func (t *Token) Decimals(ctx context.Context) (uint8, error) {
	var out []interface{}
	if err := t.Client.Call(ctx, t.Address, ERC20ABI, &out, "decimals"); err != nil {
		return 0, err
	}
	if len(out) == 0 {
		return 0, NewError(KindNetworkError, "decimals returned no value")
	}
	decimals, ok := out[0].(uint8)
	if !ok {
		return 0, NewError(KindNetworkError, "decimals returned unexpected type")
	}
	return decimals, nil
}

func (t *Token) Symbol(ctx context.Context) (string, error) {
	var out []interface{}
	if err := t.Client.Call(ctx, t.Address, ERC20ABI, &out, "symbol"); err != nil {
		return "", err
	}
	if len(out) == 0 {
		return "", NewError(KindNetworkError, "symbol returned no value")
	}
	symbol, ok := out[0].(string)
	if !ok {
		return "", NewError(KindNetworkError, "symbol returned unexpected type")
	}
	return symbol, nil
}

func (t *Token) Approve(ctx context.Context, spender common.Address, amount *big.Int) (*ExecResult, error) {
	return t.Client.Execute(ctx, t.Address, ERC20ABI, "approve", spender, amount)
}

// EnsureAllowance implements approve-before-spend: when the current
// allowance for spender is below amount, it submits an approval and waits
// for its confirmation before returning. The dependent spend call must not
// be submitted until this returns. Reports whether an approval was sent.
func (t *Token) EnsureAllowance(ctx context.Context, owner, spender common.Address, amount *big.Int) (bool, error) {
	allowance, err := t.Allowance(ctx, owner, spender)
	if err != nil {
		return false, err
	}
	if allowance.Cmp(amount) >= 0 {
		return false, nil
	}
	if _, err := t.Approve(ctx, spender, amount); err != nil {
		return false, err
	}
	return true, nil
}

func toBigInt(out []interface{}, method string) (*big.Int, error) {
	if len(out) == 0 {
		return nil, NewError(KindNetworkError, method+" returned no value")
	}
	value, ok := out[0].(*big.Int)
	if !ok {
		return nil, NewError(KindNetworkError, method+" returned unexpected type")
	}
	return value, nil
}
