package evm

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
)

// ExecResult is what a confirmed transaction yields: the hash and the mined
// receipt whose logs the caller decodes.
type ExecResult struct {
	TxHash  common.Hash
	Receipt *types.Receipt
}

// ClientWrapper is the subset of the EVM node and signer the service uses.
// The production implementation wraps go-ethereum's ethclient; tests supply
// a scripted fake.
type ClientWrapper interface {
	// ChainID reports the chain the client is connected to.
	ChainID() *big.Int
	// SignerAddress returns the configured signing account, or a
	// wallet-not-connected error when no key is configured.
	SignerAddress() (common.Address, error)
	// Call performs a read-only contract call and unpacks the outputs
	// into result.
	Call(ctx context.Context, to common.Address, contractABI abi.ABI, result *[]interface{}, method string, args ...interface{}) error
	// Execute submits one signed transaction and blocks until it is
	// mined to at least one confirmation.
	Execute(ctx context.Context, to common.Address, contractABI abi.ABI, method string, args ...interface{}) (*ExecResult, error)
	// BalanceAt reads the native-asset balance of an account.
	BalanceAt(ctx context.Context, account common.Address) (*big.Int, error)
	// FilterEventLogs fetches past logs for one event of a contract,
	// optionally filtered on the first indexed topic.
	FilterEventLogs(ctx context.Context, contract common.Address, event abi.Event, topic1 *common.Hash, fromBlock *big.Int) ([]types.Log, error)
}
