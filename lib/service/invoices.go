package service

import (
	"context"
	"encoding/json"
	"math/big"
	"time"

	"github.com/deqrypt/deqrypt.go/common"
	"github.com/deqrypt/deqrypt.go/evm"
	gethcommon "github.com/ethereum/go-ethereum/common"
	"github.com/google/uuid"
)

// Invoice is the display-ready view of one on-chain invoice record.
type Invoice struct {
	InvoiceID string                 `json:"invoice_id"`
	Merchant  string                 `json:"merchant"`
	Payer     string                 `json:"payer,omitempty"`
	Amount    string                 `json:"amount"`
	Fee       string                 `json:"fee"`
	CreatedAt int64                  `json:"created_at"`
	PaidAt    int64                  `json:"paid_at,omitempty"`
	Status    string                 `json:"status"`
	Metadata  map[string]interface{} `json:"metadata"`
}

type CreateInvoiceParams struct {
	Merchant string
	Amount   string
	Fee      string
	Metadata map[string]interface{}
}

// CreateInvoice submits a createInvoice transaction and recovers the
// contract-assigned id from the InvoiceCreated event in the receipt. A
// missing event is an ABI or deployment mismatch and is not retried.
func (svc *DeqryptService) CreateInvoice(ctx context.Context, params CreateInvoiceParams) (invoiceID *big.Int, txHash string, err error) {
	if !gethcommon.IsHexAddress(params.Merchant) {
		return nil, "", evm.NewError(evm.KindValidation, "invalid merchant address")
	}
	amount, err := evm.ParseUnits(params.Amount, common.TokenDecimals)
	if err != nil {
		return nil, "", err
	}
	fee := big.NewInt(0)
	if params.Fee != "" {
		if fee, err = evm.ParseUnits(params.Fee, common.TokenDecimals); err != nil {
			return nil, "", err
		}
	}
	// copy so the caller's map is never written to
	metadata := make(map[string]interface{}, len(params.Metadata)+1)
	for k, v := range params.Metadata {
		metadata[k] = v
	}
	if _, ok := metadata["payment_id"]; !ok {
		metadata["payment_id"] = uuid.NewString()
	}
	metadataJSON, err := json.Marshal(metadata)
	if err != nil {
		return nil, "", evm.WrapError(evm.KindValidation, "encode metadata", err)
	}

	result, err := svc.Evm.Execute(ctx, svc.Registry.InvoiceContract, evm.InvoiceABI, "createInvoice",
		gethcommon.HexToAddress(params.Merchant), amount, fee, string(metadataJSON))
	if err != nil {
		return nil, "", err
	}
	event, err := evm.FindEvent(result.Receipt.Logs, svc.Registry.InvoiceContract, evm.InvoiceABI, "InvoiceCreated")
	if err != nil {
		return nil, "", err
	}
	invoiceID, ok := event.Args["invoiceId"].(*big.Int)
	if !ok {
		return nil, "", evm.NewError(evm.KindEventNotFound, "InvoiceCreated event missing invoiceId")
	}
	svc.Logger.Infof("Created invoice invoice_id:%s merchant:%s amount:%s tx:%s", invoiceID, params.Merchant, params.Amount, result.TxHash.Hex())
	return invoiceID, result.TxHash.Hex(), nil
}

// GetInvoice reads the on-chain record and converts it for display.
// Malformed metadata degrades to an empty map rather than failing the read.
func (svc *DeqryptService) GetInvoice(ctx context.Context, invoiceID *big.Int) (*Invoice, error) {
	var out []interface{}
	if err := svc.Evm.Call(ctx, svc.Registry.InvoiceContract, evm.InvoiceABI, &out, "getInvoice", invoiceID); err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return nil, evm.NewError(evm.KindNetworkError, "getInvoice returned no value")
	}
	record, err := evm.AsInvoiceRecord(out[0])
	if err != nil {
		return nil, err
	}
	metadata := map[string]interface{}{}
	if record.Metadata != "" {
		if err := json.Unmarshal([]byte(record.Metadata), &metadata); err != nil {
			metadata = map[string]interface{}{}
		}
	}
	invoice := &Invoice{
		InvoiceID: record.InvoiceId.String(),
		Merchant:  record.Merchant.Hex(),
		Amount:    evm.FormatUnits(record.Amount, common.TokenDecimals),
		Fee:       evm.FormatUnits(record.Fee, common.TokenDecimals),
		CreatedAt: record.CreatedAt.Int64(),
		PaidAt:    record.PaidAt.Int64(),
		Status:    common.StatusFromChain(record.Status),
		Metadata:  metadata,
	}
	if record.Payer != (gethcommon.Address{}) {
		invoice.Payer = record.Payer.Hex()
	}
	return invoice, nil
}

// TotalInvoices reads the contract's running invoice counter.
func (svc *DeqryptService) TotalInvoices(ctx context.Context) (*big.Int, error) {
	var out []interface{}
	if err := svc.Evm.Call(ctx, svc.Registry.InvoiceContract, evm.InvoiceABI, &out, "totalInvoices"); err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return nil, evm.NewError(evm.KindNetworkError, "totalInvoices returned no value")
	}
	total, ok := out[0].(*big.Int)
	if !ok {
		return nil, evm.NewError(evm.KindNetworkError, "totalInvoices returned unexpected type")
	}
	return total, nil
}

// PayInvoice settles an invoice in its own token. The paying token is
// approved to the invoice contract for amount plus fee before the spend
// call is submitted.
func (svc *DeqryptService) PayInvoice(ctx context.Context, invoiceID *big.Int) (txHash string, err error) {
	payer, err := svc.Evm.SignerAddress()
	if err != nil {
		return "", err
	}
	record, err := svc.invoiceRecord(ctx, invoiceID)
	if err != nil {
		return "", err
	}
	token := evm.NewToken(svc.Evm, svc.tokenForRecord(record))
	due := new(big.Int).Add(record.Amount, record.Fee)
	approved, err := token.EnsureAllowance(ctx, payer, svc.Registry.InvoiceContract, due)
	if err != nil {
		return "", err
	}
	if approved {
		svc.Logger.Infof("Approved invoice contract for invoice_id:%s amount:%s", invoiceID, due)
	}
	result, err := svc.Evm.Execute(ctx, svc.Registry.InvoiceContract, evm.InvoiceABI, "payInvoice", invoiceID)
	if err != nil {
		return "", err
	}
	return result.TxHash.Hex(), nil
}

// PayInvoiceViaRouter settles an invoice by paying in a different token,
// swapped by the router at the fixed rate. minOut applies the configured
// slippage tolerance; the deadline is now plus the configured window.
func (svc *DeqryptService) PayInvoiceViaRouter(ctx context.Context, invoiceID *big.Int, tokenSymbol, amountHuman string, slippageBps int64) (txHash string, err error) {
	payer, err := svc.Evm.SignerAddress()
	if err != nil {
		return "", err
	}
	tokenAddr, ok := svc.Registry.TokenBySymbol(tokenSymbol)
	if !ok {
		return "", evm.NewError(evm.KindValidation, "unsupported token "+tokenSymbol)
	}
	amountIn, err := evm.ParseUnits(amountHuman, common.TokenDecimals)
	if err != nil {
		return "", err
	}
	expectedOut := new(big.Int).Mul(amountIn, svc.Registry.USDCToIDRXRate)
	minOut, err := evm.MinOut(expectedOut, svc.SlippageOrDefault(slippageBps))
	if err != nil {
		return "", err
	}
	token := evm.NewToken(svc.Evm, tokenAddr)
	if _, err := token.EnsureAllowance(ctx, payer, svc.Registry.InvoiceContract, amountIn); err != nil {
		return "", err
	}
	deadline := big.NewInt(time.Now().Add(svc.RouterDeadline()).Unix())
	result, err := svc.Evm.Execute(ctx, svc.Registry.InvoiceContract, evm.InvoiceABI, "payInvoiceViaRouter",
		invoiceID, tokenAddr, amountIn, minOut, deadline)
	if err != nil {
		return "", err
	}
	return result.TxHash.Hex(), nil
}

// CancelInvoice submits a cancellation. The contract is the authority on
// the pending-only precondition; a violation surfaces as its revert.
func (svc *DeqryptService) CancelInvoice(ctx context.Context, invoiceID *big.Int) (txHash string, err error) {
	result, err := svc.Evm.Execute(ctx, svc.Registry.InvoiceContract, evm.InvoiceABI, "cancelInvoice", invoiceID)
	if err != nil {
		return "", err
	}
	return result.TxHash.Hex(), nil
}

func (svc *DeqryptService) invoiceRecord(ctx context.Context, invoiceID *big.Int) (evm.InvoiceRecord, error) {
	var out []interface{}
	if err := svc.Evm.Call(ctx, svc.Registry.InvoiceContract, evm.InvoiceABI, &out, "getInvoice", invoiceID); err != nil {
		return evm.InvoiceRecord{}, err
	}
	if len(out) == 0 {
		return evm.InvoiceRecord{}, evm.NewError(evm.KindNetworkError, "getInvoice returned no value")
	}
	return evm.AsInvoiceRecord(out[0])
}

// tokenForRecord picks the paying token from the invoice metadata's
// tokenSymbol, defaulting to USDC.
func (svc *DeqryptService) tokenForRecord(record evm.InvoiceRecord) gethcommon.Address {
	var metadata struct {
		TokenSymbol string `json:"tokenSymbol"`
	}
	if record.Metadata != "" {
		json.Unmarshal([]byte(record.Metadata), &metadata)
	}
	if addr, ok := svc.Registry.TokenBySymbol(metadata.TokenSymbol); ok {
		return addr
	}
	return svc.Registry.USDC
}
