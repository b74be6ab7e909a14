package service

import (
	"context"

	"github.com/deqrypt/deqrypt.go/backend"
	"github.com/deqrypt/deqrypt.go/evm"
	gethcommon "github.com/ethereum/go-ethereum/common"
)

const minUsernameLength = 3

// Profile looks up the backend profile for a wallet.
func (svc *DeqryptService) Profile(ctx context.Context, wallet string) (*backend.Profile, error) {
	if !gethcommon.IsHexAddress(wallet) {
		return nil, evm.NewError(evm.KindValidation, "invalid wallet address")
	}
	return svc.Backend.Profile(ctx, wallet)
}

// UpdateUsername validates locally before any call: short usernames are
// rejected without touching the backend.
func (svc *DeqryptService) UpdateUsername(ctx context.Context, wallet, username string) error {
	if !gethcommon.IsHexAddress(wallet) {
		return evm.NewError(evm.KindValidation, "invalid wallet address")
	}
	if len(username) < minUsernameLength {
		return evm.NewError(evm.KindValidation, "username must be at least 3 characters")
	}
	return svc.Backend.UpdateUsername(ctx, wallet, username)
}

// VerifyWallet starts the backend's asynchronous wallet verification and
// returns its progress message.
func (svc *DeqryptService) VerifyWallet(ctx context.Context, wallet string) (string, error) {
	if !gethcommon.IsHexAddress(wallet) {
		return "", evm.NewError(evm.KindValidation, "invalid wallet address")
	}
	return svc.Backend.VerifyWallet(ctx, wallet)
}
