package evm

import (
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
)

// Base Sepolia defaults. All of these can be overridden through the
// service configuration; the values here match the deployed testnet set.
const (
	DefaultChainID        = 84532
	DefaultRouterAddress  = "0x3F0d70EBC91eaEA590d18e4a8dC258993581EDec"
	DefaultInvoiceAddress = "0x3d025AF3c832f477467149739D5aEedF28C90f6C"
	DefaultUSDCAddress    = "0x2b76EC0FfFd7BB736d29931e1dd16Bf6285740eB"
	DefaultIDRXAddress    = "0x71894d7dE68cDC34eA756A7e557d3bd0b0086FAA"
	DefaultUSDCToIDRXRate = 15000
)

const erc20ABIJSON = `[
	{"type":"function","name":"approve","stateMutability":"nonpayable","inputs":[{"name":"spender","type":"address"},{"name":"amount","type":"uint256"}],"outputs":[{"name":"","type":"bool"}]},
	{"type":"function","name":"allowance","stateMutability":"view","inputs":[{"name":"owner","type":"address"},{"name":"spender","type":"address"}],"outputs":[{"name":"","type":"uint256"}]},
	{"type":"function","name":"balanceOf","stateMutability":"view","inputs":[{"name":"owner","type":"address"}],"outputs":[{"name":"","type":"uint256"}]},
	{"type":"function","name":"decimals","stateMutability":"view","inputs":[],"outputs":[{"name":"","type":"uint8"}]},
	{"type":"function","name":"symbol","stateMutability":"view","inputs":[],"outputs":[{"name":"","type":"string"}]}
]`

const routerABIJSON = `[
	{"type":"function","name":"pay","stateMutability":"nonpayable","inputs":[{"name":"tokenIn","type":"address"},{"name":"amountIn","type":"uint256"},{"name":"minOutIDRX","type":"uint256"},{"name":"recipient","type":"address"},{"name":"referenceId","type":"bytes32"},{"name":"deadline","type":"uint256"}],"outputs":[{"name":"","type":"uint256"}]},
	{"type":"event","name":"PaymentSuccess","anonymous":false,"inputs":[{"name":"payer","type":"address","indexed":true},{"name":"recipient","type":"address","indexed":true},{"name":"tokenIn","type":"address","indexed":true},{"name":"amountIn","type":"uint256","indexed":false},{"name":"amountOutIDRX","type":"uint256","indexed":false},{"name":"referenceId","type":"bytes32","indexed":false}]}
]`

const invoiceABIJSON = `[
	{"type":"function","name":"createInvoice","stateMutability":"nonpayable","inputs":[{"name":"merchant","type":"address"},{"name":"amount","type":"uint256"},{"name":"fee","type":"uint256"},{"name":"metadata","type":"string"}],"outputs":[{"name":"","type":"uint256"}]},
	{"type":"function","name":"getInvoice","stateMutability":"view","inputs":[{"name":"invoiceId","type":"uint256"}],"outputs":[{"name":"","type":"tuple","components":[{"name":"invoiceId","type":"uint256"},{"name":"merchant","type":"address"},{"name":"payer","type":"address"},{"name":"amount","type":"uint256"},{"name":"fee","type":"uint256"},{"name":"createdAt","type":"uint256"},{"name":"paidAt","type":"uint256"},{"name":"status","type":"uint8"},{"name":"metadata","type":"string"}]}]},
	{"type":"function","name":"payInvoice","stateMutability":"nonpayable","inputs":[{"name":"invoiceId","type":"uint256"}],"outputs":[]},
	{"type":"function","name":"payInvoiceViaRouter","stateMutability":"nonpayable","inputs":[{"name":"invoiceId","type":"uint256"},{"name":"tokenIn","type":"address"},{"name":"amountIn","type":"uint256"},{"name":"minOut","type":"uint256"},{"name":"deadline","type":"uint256"}],"outputs":[]},
	{"type":"function","name":"cancelInvoice","stateMutability":"nonpayable","inputs":[{"name":"invoiceId","type":"uint256"}],"outputs":[]},
	{"type":"function","name":"totalInvoices","stateMutability":"view","inputs":[],"outputs":[{"name":"","type":"uint256"}]},
	{"type":"event","name":"InvoiceCreated","anonymous":false,"inputs":[{"name":"invoiceId","type":"uint256","indexed":true},{"name":"merchant","type":"address","indexed":true},{"name":"amount","type":"uint256","indexed":false},{"name":"fee","type":"uint256","indexed":false}]},
	{"type":"event","name":"InvoicePaid","anonymous":false,"inputs":[{"name":"invoiceId","type":"uint256","indexed":true},{"name":"payer","type":"address","indexed":true}]},
	{"type":"event","name":"InvoiceCancelled","anonymous":false,"inputs":[{"name":"invoiceId","type":"uint256","indexed":true}]}
]`

var (
	ERC20ABI   = mustParseABI(erc20ABIJSON)
	RouterABI  = mustParseABI(routerABIJSON)
	InvoiceABI = mustParseABI(invoiceABIJSON)
)

func mustParseABI(js string) abi.ABI {
	parsed, err := abi.JSON(strings.NewReader(js))
	if err != nil {
		panic(err)
	}
	return parsed
}

// Registry holds the contract addresses and the fixed conversion rate the
// payment router applies. One instance is built from config at startup and
// shared read-only afterwards.
type Registry struct {
	ChainID         *big.Int
	Router          common.Address
	InvoiceContract common.Address
	USDC            common.Address
	IDRX            common.Address
	USDCToIDRXRate  *big.Int
}

// RegistryOptions carries the config-level string overrides.
type RegistryOptions struct {
	ChainID        int64
	Router         string
	Invoice        string
	USDC           string
	IDRX           string
	USDCToIDRXRate int64
}

func NewRegistry(opts RegistryOptions) *Registry {
	reg := &Registry{
		ChainID:         big.NewInt(DefaultChainID),
		Router:          common.HexToAddress(DefaultRouterAddress),
		InvoiceContract: common.HexToAddress(DefaultInvoiceAddress),
		USDC:            common.HexToAddress(DefaultUSDCAddress),
		IDRX:            common.HexToAddress(DefaultIDRXAddress),
		USDCToIDRXRate:  big.NewInt(DefaultUSDCToIDRXRate),
	}
	if opts.ChainID != 0 {
		reg.ChainID = big.NewInt(opts.ChainID)
	}
	if opts.Router != "" {
		reg.Router = common.HexToAddress(opts.Router)
	}
	if opts.Invoice != "" {
		reg.InvoiceContract = common.HexToAddress(opts.Invoice)
	}
	if opts.USDC != "" {
		reg.USDC = common.HexToAddress(opts.USDC)
	}
	if opts.IDRX != "" {
		reg.IDRX = common.HexToAddress(opts.IDRX)
	}
	if opts.USDCToIDRXRate != 0 {
		reg.USDCToIDRXRate = big.NewInt(opts.USDCToIDRXRate)
	}
	return reg
}

// TokenBySymbol resolves the configured address for a known token symbol.
func (reg *Registry) TokenBySymbol(symbol string) (common.Address, bool) {
	switch strings.ToUpper(symbol) {
	case "USDC":
		return reg.USDC, true
	case "IDRX":
		return reg.IDRX, true
	}
	return common.Address{}, false
}
