package service

import (
	"context"
	"math/big"
	"time"

	"github.com/deqrypt/deqrypt.go/common"
	"github.com/deqrypt/deqrypt.go/evm"
	gethcommon "github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/labstack/gommon/random"
)

type PayParams struct {
	TokenIn         string // token symbol, e.g. "USDC"
	AmountHuman     string
	Recipient       string
	ReferenceID     string // at most 31 bytes; generated when empty
	SlippageBps     int64
	DeadlineSeconds int64 // 0 means the configured default
}

// PayReceipt carries the decoded PaymentSuccess event of a confirmed router
// payment. Every field is required; a receipt without the event never
// produces a partial PayReceipt.
type PayReceipt struct {
	TxHash         string `json:"tx_hash"`
	Payer          string `json:"payer"`
	Recipient      string `json:"recipient"`
	TokenIn        string `json:"token_in"`
	AmountIn       string `json:"amount_in"`
	AmountOutIDRX  string `json:"amount_out_idrx"`
	ReferenceID    string `json:"reference_id"`
	AmountInHuman  string `json:"amount_in_human"`
	AmountOutHuman string `json:"amount_out_human"`
}

// PayWithApprove runs the full pay-with-swap flow: allowance check plus
// approval when short, router pay call, receipt wait, PaymentSuccess decode.
// The approval's confirmation is awaited before the pay call is submitted.
func (svc *DeqryptService) PayWithApprove(ctx context.Context, params PayParams) (*PayReceipt, error) {
	payer, err := svc.Evm.SignerAddress()
	if err != nil {
		return nil, err
	}
	if !gethcommon.IsHexAddress(params.Recipient) {
		return nil, evm.NewError(evm.KindValidation, "invalid recipient address")
	}
	recipient := gethcommon.HexToAddress(params.Recipient)
	tokenAddr, ok := svc.Registry.TokenBySymbol(params.TokenIn)
	if !ok {
		return nil, evm.NewError(evm.KindValidation, "unsupported token "+params.TokenIn)
	}
	amountIn, err := evm.ParseUnits(params.AmountHuman, common.TokenDecimals)
	if err != nil {
		return nil, err
	}
	expectedOut := new(big.Int).Mul(amountIn, svc.Registry.USDCToIDRXRate)
	minOut, err := evm.MinOut(expectedOut, svc.SlippageOrDefault(params.SlippageBps))
	if err != nil {
		return nil, err
	}
	referenceID := params.ReferenceID
	if referenceID == "" {
		referenceID = random.String(16, random.Alphanumeric)
	}
	refBytes, err := evm.EncodeBytes32(referenceID)
	if err != nil {
		return nil, err
	}

	token := evm.NewToken(svc.Evm, tokenAddr)
	approved, err := token.EnsureAllowance(ctx, payer, svc.Registry.Router, amountIn)
	if err != nil {
		return nil, err
	}
	if approved {
		svc.Logger.Infof("Approved router spender:%s amount:%s token:%s", svc.Registry.Router.Hex(), amountIn, params.TokenIn)
	}

	deadlineWindow := svc.RouterDeadline()
	if params.DeadlineSeconds > 0 {
		deadlineWindow = time.Duration(params.DeadlineSeconds) * time.Second
	}
	deadline := big.NewInt(time.Now().Add(deadlineWindow).Unix())

	result, err := svc.Evm.Execute(ctx, svc.Registry.Router, evm.RouterABI, "pay",
		tokenAddr, amountIn, minOut, recipient, refBytes, deadline)
	if err != nil {
		return nil, err
	}
	event, err := evm.FindEvent(result.Receipt.Logs, svc.Registry.Router, evm.RouterABI, "PaymentSuccess")
	if err != nil {
		return nil, err
	}
	return payReceiptFromEvent(result.TxHash, event)
}

// RouterPayments lists confirmed router payments made by an account, decoded
// from the router's historical PaymentSuccess logs. fromBlock nil means from
// genesis.
func (svc *DeqryptService) RouterPayments(ctx context.Context, payer gethcommon.Address, fromBlock *big.Int) ([]*PayReceipt, error) {
	event := evm.RouterABI.Events["PaymentSuccess"]
	payerTopic := gethcommon.BytesToHash(payer.Bytes())
	logs, err := svc.Evm.FilterEventLogs(ctx, svc.Registry.Router, event, &payerTopic, fromBlock)
	if err != nil {
		return nil, err
	}
	receipts := []*PayReceipt{}
	for i := range logs {
		decoded, err := evm.FindEvent([]*types.Log{&logs[i]}, svc.Registry.Router, evm.RouterABI, "PaymentSuccess")
		if err != nil {
			// A log that matched the filter but fails to decode is an ABI
			// mismatch, skipping it would hide the problem.
			return nil, err
		}
		receipt, err := payReceiptFromEvent(logs[i].TxHash, decoded)
		if err != nil {
			return nil, err
		}
		receipts = append(receipts, receipt)
	}
	return receipts, nil
}

func payReceiptFromEvent(txHash gethcommon.Hash, event *evm.DecodedEvent) (*PayReceipt, error) {
	eventPayer, ok1 := event.Args["payer"].(gethcommon.Address)
	eventRecipient, ok2 := event.Args["recipient"].(gethcommon.Address)
	eventToken, ok3 := event.Args["tokenIn"].(gethcommon.Address)
	amountIn, ok4 := event.Args["amountIn"].(*big.Int)
	amountOut, ok5 := event.Args["amountOutIDRX"].(*big.Int)
	refBytes, ok6 := event.Args["referenceId"].([32]byte)
	if !(ok1 && ok2 && ok3 && ok4 && ok5 && ok6) {
		return nil, evm.NewError(evm.KindEventNotFound, "PaymentSuccess event has unexpected argument types")
	}
	return &PayReceipt{
		TxHash:         txHash.Hex(),
		Payer:          eventPayer.Hex(),
		Recipient:      eventRecipient.Hex(),
		TokenIn:        eventToken.Hex(),
		AmountIn:       amountIn.String(),
		AmountOutIDRX:  amountOut.String(),
		ReferenceID:    evm.DecodeBytes32(refBytes),
		AmountInHuman:  evm.FormatUnits(amountIn, common.TokenDecimals),
		AmountOutHuman: evm.FormatUnits(amountOut, common.TokenDecimals),
	}, nil
}
