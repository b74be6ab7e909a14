package service

import (
	"context"
	"fmt"
	"math/big"
	"strconv"

	"github.com/deqrypt/deqrypt.go/common"
	"github.com/deqrypt/deqrypt.go/evm"
	gethcommon "github.com/ethereum/go-ethereum/common"
)

const (
	nativeDecimals = 18
	btcDecimals    = 8

	// Rough IDR to USD conversion used for the IDRX slice of the total,
	// matching the pegged display convention.
	idrPerUSD = 15500
)

// TokenBalance is one row of the unified asset view: a live wallet balance
// joined with the latest price snapshot.
type TokenBalance struct {
	ID         string   `json:"id"`
	Name       string   `json:"name"`
	Symbol     string   `json:"symbol"`
	BalanceRaw *big.Int `json:"-"`
	Balance    string   `json:"balance"`
	Decimals   int      `json:"decimals"`
	Price      string   `json:"price"`
	Change     string   `json:"change"`
	HasBalance bool     `json:"has_balance"`
}

// CryptoBalances builds the full asset list for an owner: native ETH, the
// configured ERC-20 set, and a display-only BTC entry that always reports
// HasBalance false since it has no balance on this chain.
func (svc *DeqryptService) CryptoBalances(ctx context.Context, owner gethcommon.Address) ([]TokenBalance, error) {
	rates, _ := svc.Rates.Snapshot()

	ethBalance, err := svc.Evm.BalanceAt(ctx, owner)
	if err != nil {
		return nil, err
	}
	usdcBalance, err := evm.NewToken(svc.Evm, svc.Registry.USDC).BalanceOf(ctx, owner)
	if err != nil {
		return nil, err
	}
	idrxBalance, err := evm.NewToken(svc.Evm, svc.Registry.IDRX).BalanceOf(ctx, owner)
	if err != nil {
		return nil, err
	}

	ethRate := rates["ETH"]
	usdcRate := rates["USDC"]
	btcRate := rates["BTC"]

	assets := []TokenBalance{
		{
			ID:         "eth",
			Name:       "Ethereum",
			Symbol:     "ETH",
			BalanceRaw: ethBalance,
			Balance:    evm.FormatUnits(ethBalance, nativeDecimals),
			Decimals:   nativeDecimals,
			Price:      formatPrice(ethRate.PriceUSD),
			Change:     formatChange(ethRate.Change24h),
			HasBalance: ethBalance.Sign() > 0,
		},
		{
			ID:         "idrx",
			Name:       "IDRX",
			Symbol:     "IDRX",
			BalanceRaw: idrxBalance,
			Balance:    evm.FormatUnits(idrxBalance, common.TokenDecimals),
			Decimals:   common.TokenDecimals,
			// Pegged to IDR, no market feed.
			Price:      "1.00",
			Change:     "0.00%",
			HasBalance: idrxBalance.Sign() > 0,
		},
		{
			ID:         "usdc",
			Name:       "USD Coin",
			Symbol:     "USDC",
			BalanceRaw: usdcBalance,
			Balance:    evm.FormatUnits(usdcBalance, common.TokenDecimals),
			Decimals:   common.TokenDecimals,
			Price:      formatPrice(defaultPrice(usdcRate.PriceUSD, 1)),
			Change:     formatChange(usdcRate.Change24h),
			HasBalance: usdcBalance.Sign() > 0,
		},
		{
			// Display-only reference asset, never held on this chain.
			ID:         "btc",
			Name:       "Bitcoin",
			Symbol:     "BTC",
			BalanceRaw: big.NewInt(0),
			Balance:    "0",
			Decimals:   btcDecimals,
			Price:      formatPrice(btcRate.PriceUSD),
			Change:     formatChange(btcRate.Change24h),
			HasBalance: false,
		},
	}
	return assets, nil
}

// AssetsWithBalance filters the full list down to owned assets.
func AssetsWithBalance(assets []TokenBalance) []TokenBalance {
	owned := []TokenBalance{}
	for _, asset := range assets {
		if asset.HasBalance {
			owned = append(owned, asset)
		}
	}
	return owned
}

// TotalBalanceUSD sums the USD value across the asset list using the
// current snapshot: ETH and USDC at market price, IDRX via the IDR peg.
func (svc *DeqryptService) TotalBalanceUSD(assets []TokenBalance) float64 {
	rates, _ := svc.Rates.Snapshot()
	total := 0.0
	for _, asset := range assets {
		amount, err := strconv.ParseFloat(asset.Balance, 64)
		if err != nil || amount == 0 {
			continue
		}
		switch asset.Symbol {
		case "ETH":
			total += amount * rates["ETH"].PriceUSD
		case "USDC":
			total += amount * defaultPrice(rates["USDC"].PriceUSD, 1)
		case "IDRX":
			total += amount / idrPerUSD
		}
	}
	return total
}

func formatPrice(price float64) string {
	return strconv.FormatFloat(price, 'f', 2, 64)
}

func formatChange(change float64) string {
	if change >= 0 {
		return fmt.Sprintf("+%.2f%%", change)
	}
	return fmt.Sprintf("%.2f%%", change)
}

func defaultPrice(price, fallback float64) float64 {
	if price == 0 {
		return fallback
	}
	return price
}
