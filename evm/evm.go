package evm

import (
	"context"
	"crypto/ecdsa"
	"math/big"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/ethclient"
)

// Options are the options for the connection to the EVM node.
type Options struct {
	RPCURL        string
	ChainID       int64
	PrivateKeyHex string
}

// Client is the production ClientWrapper over an ethclient connection and a
// locally held signing key. The key is optional: a client without one can
// serve every read path but fails spending calls fast.
type Client struct {
	eth     *ethclient.Client
	chainID *big.Int
	key     *ecdsa.PrivateKey
	signer  common.Address
}

func NewClient(opts Options) (*Client, error) {
	if opts.RPCURL == "" {
		return nil, NewError(KindValidation, "rpc url required")
	}
	eth, err := ethclient.Dial(opts.RPCURL)
	if err != nil {
		return nil, WrapError(KindNetworkError, "dial rpc node", err)
	}
	chainID := big.NewInt(opts.ChainID)
	if opts.ChainID == 0 {
		chainID = big.NewInt(DefaultChainID)
	}
	c := &Client{eth: eth, chainID: chainID}
	if opts.PrivateKeyHex != "" {
		key, err := crypto.HexToECDSA(opts.PrivateKeyHex)
		if err != nil {
			return nil, WrapError(KindValidation, "parse signer key", err)
		}
		c.key = key
		c.signer = crypto.PubkeyToAddress(key.PublicKey)
	}
	return c, nil
}

// VerifyChainID checks that the node serves the configured chain. Run once
// at startup; a mismatch here means every subsequent call would target the
// wrong network.
func (c *Client) VerifyChainID(ctx context.Context) error {
	remote, err := c.eth.ChainID(ctx)
	if err != nil {
		return WrapError(KindNetworkError, "query chain id", err)
	}
	if remote.Cmp(c.chainID) != 0 {
		return NewError(KindValidation, "rpc node chain id "+remote.String()+" does not match configured "+c.chainID.String())
	}
	return nil
}

func (c *Client) ChainID() *big.Int { return new(big.Int).Set(c.chainID) }

func (c *Client) SignerAddress() (common.Address, error) {
	if c.key == nil {
		return common.Address{}, NewError(KindWalletNotConnected, "no signing key configured")
	}
	return c.signer, nil
}

func (c *Client) Call(ctx context.Context, to common.Address, contractABI abi.ABI, result *[]interface{}, method string, args ...interface{}) error {
	data, err := contractABI.Pack(method, args...)
	if err != nil {
		return WrapError(KindValidation, "pack "+method, err)
	}
	raw, err := c.eth.CallContract(ctx, ethereum.CallMsg{To: &to, Data: data}, nil)
	if err != nil {
		return Classify("call "+method, err)
	}
	out, err := contractABI.Unpack(method, raw)
	if err != nil {
		// A result that does not match the ABI means the node or the
		// contract address is wrong, not a missing receipt event.
		return WrapError(KindNetworkError, "unpack "+method, err)
	}
	*result = out
	return nil
}

// Execute submits exactly one transaction and waits for it to be mined to
// one confirmation. There is no automatic retry on any failure path.
func (c *Client) Execute(ctx context.Context, to common.Address, contractABI abi.ABI, method string, args ...interface{}) (*ExecResult, error) {
	from, err := c.SignerAddress()
	if err != nil {
		return nil, err
	}
	data, err := contractABI.Pack(method, args...)
	if err != nil {
		return nil, WrapError(KindValidation, "pack "+method, err)
	}
	nonce, err := c.eth.PendingNonceAt(ctx, from)
	if err != nil {
		return nil, Classify("fetch nonce", err)
	}
	gasPrice, err := c.eth.SuggestGasPrice(ctx)
	if err != nil {
		return nil, Classify("fetch gas price", err)
	}
	gasLimit, err := c.eth.EstimateGas(ctx, ethereum.CallMsg{From: from, To: &to, Data: data})
	if err != nil {
		// Estimation simulates the call, so reverts surface here.
		return nil, Classify("estimate gas for "+method, err)
	}
	tx := types.NewTx(&types.LegacyTx{
		Nonce:    nonce,
		To:       &to,
		Gas:      gasLimit,
		GasPrice: gasPrice,
		Data:     data,
	})
	signed, err := types.SignTx(tx, types.LatestSignerForChainID(c.chainID), c.key)
	if err != nil {
		return nil, Classify("sign "+method, err)
	}
	if err := c.eth.SendTransaction(ctx, signed); err != nil {
		return nil, Classify("submit "+method, err)
	}
	receipt, err := bind.WaitMined(ctx, c.eth, signed)
	if err != nil {
		return nil, Classify("wait for "+method+" receipt", err)
	}
	if receipt.Status != types.ReceiptStatusSuccessful {
		return nil, NewError(KindContractReverted, method+" reverted on-chain, tx "+signed.Hash().Hex())
	}
	return &ExecResult{TxHash: signed.Hash(), Receipt: receipt}, nil
}

func (c *Client) BalanceAt(ctx context.Context, account common.Address) (*big.Int, error) {
	balance, err := c.eth.BalanceAt(ctx, account, nil)
	if err != nil {
		return nil, Classify("fetch native balance", err)
	}
	return balance, nil
}

func (c *Client) FilterEventLogs(ctx context.Context, contract common.Address, event abi.Event, topic1 *common.Hash, fromBlock *big.Int) ([]types.Log, error) {
	topics := [][]common.Hash{{event.ID}}
	if topic1 != nil {
		topics = append(topics, []common.Hash{*topic1})
	}
	logs, err := c.eth.FilterLogs(ctx, ethereum.FilterQuery{
		FromBlock: fromBlock,
		Addresses: []common.Address{contract},
		Topics:    topics,
	})
	if err != nil {
		return nil, Classify("filter "+event.Name+" logs", err)
	}
	return logs, nil
}
