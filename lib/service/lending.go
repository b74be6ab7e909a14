package service

import (
	"context"

	"github.com/deqrypt/deqrypt.go/backend"
	"github.com/deqrypt/deqrypt.go/evm"
	gethcommon "github.com/ethereum/go-ethereum/common"
)

// Recommend asks the backend's recommendation engine for a lending
// placement of the given size.
func (svc *DeqryptService) Recommend(ctx context.Context, amount float64, token string) (*backend.Recommendation, error) {
	if amount <= 0 {
		return nil, evm.NewError(evm.KindValidation, "amount must be positive")
	}
	if token == "" {
		return nil, evm.NewError(evm.KindValidation, "token is required")
	}
	return svc.Backend.Recommend(ctx, amount, token)
}

func (svc *DeqryptService) LendingProjects(ctx context.Context) ([]backend.Project, error) {
	return svc.Backend.Projects(ctx)
}

func (svc *DeqryptService) Deposit(ctx context.Context, req backend.DepositRequest) (*backend.DepositResult, error) {
	if req.Amount <= 0 {
		return nil, evm.NewError(evm.KindValidation, "amount must be positive")
	}
	if !gethcommon.IsHexAddress(req.WalletAddress) {
		return nil, evm.NewError(evm.KindValidation, "invalid wallet address")
	}
	return svc.Backend.Deposit(ctx, req)
}

func (svc *DeqryptService) LendingInfo(ctx context.Context, wallet string) (*backend.LendingInfo, error) {
	if !gethcommon.IsHexAddress(wallet) {
		return nil, evm.NewError(evm.KindValidation, "invalid wallet address")
	}
	return svc.Backend.LendingInfo(ctx, wallet)
}

// Withdraw unwinds a lending position. Withdrawing everything is expressed
// by the explicit WithdrawAll flag; a partial withdrawal needs a positive
// amount.
func (svc *DeqryptService) Withdraw(ctx context.Context, req backend.WithdrawRequest) (*backend.WithdrawResult, error) {
	if !req.WithdrawAll && req.Amount <= 0 {
		return nil, evm.NewError(evm.KindValidation, "amount must be positive unless withdraw_all is set")
	}
	if req.WithdrawAll {
		req.Amount = 0
	}
	return svc.Backend.Withdraw(ctx, req)
}

func (svc *DeqryptService) SyncPositions(ctx context.Context, wallet string) (*backend.SyncResult, error) {
	if !gethcommon.IsHexAddress(wallet) {
		return nil, evm.NewError(evm.KindValidation, "invalid wallet address")
	}
	return svc.Backend.SyncPositions(ctx, wallet)
}
