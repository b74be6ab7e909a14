package service

import (
	"context"
	"strconv"

	"github.com/deqrypt/deqrypt.go/backend"
	"github.com/deqrypt/deqrypt.go/evm"
	gethcommon "github.com/ethereum/go-ethereum/common"
)

// TransactionHistory lists the backend's transaction records for a wallet,
// filling in an explorer link where the backend left it empty.
func (svc *DeqryptService) TransactionHistory(ctx context.Context, wallet string) ([]backend.Transaction, error) {
	if !gethcommon.IsHexAddress(wallet) {
		return nil, evm.NewError(evm.KindValidation, "invalid wallet address")
	}
	transactions, err := svc.Backend.Transactions(ctx, wallet)
	if err != nil {
		return nil, err
	}
	for i := range transactions {
		if transactions[i].Explorer == "" && transactions[i].TxHash != "" {
			transactions[i].Explorer = svc.Config.ExplorerBaseURL + transactions[i].TxHash
		}
	}
	return transactions, nil
}

// RecordPayment pushes a confirmed router payment into the backend history.
func (svc *DeqryptService) RecordPayment(ctx context.Context, receipt *PayReceipt) error {
	amount, err := strconv.ParseFloat(receipt.AmountInHuman, 64)
	if err != nil {
		return evm.WrapError(evm.KindValidation, "parse receipt amount", err)
	}
	return svc.Backend.AddTransaction(ctx, backend.AddTransactionRequest{
		Sender:   receipt.Payer,
		Receiver: receipt.Recipient,
		Amount:   amount,
		Token:    receipt.TokenIn,
		TxHash:   receipt.TxHash,
	})
}
