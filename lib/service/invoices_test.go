package service

import (
	"context"
	"math/big"
	"testing"

	"github.com/deqrypt/deqrypt.go/common"
	"github.com/deqrypt/deqrypt.go/evm"
	"github.com/ethereum/go-ethereum/accounts/abi"
	gethcommon "github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func invoiceCreatedReceipt(t *testing.T, contract gethcommon.Address, invoiceID int64, amount, fee *big.Int) *evm.ExecResult {
	event := evm.InvoiceABI.Events["InvoiceCreated"]
	data, err := event.Inputs.NonIndexed().Pack(amount, fee)
	require.NoError(t, err)
	topics, err := abi.MakeTopics(
		[]interface{}{big.NewInt(invoiceID)},
		[]interface{}{testMerchant},
	)
	require.NoError(t, err)
	txHash := gethcommon.HexToHash("0xf00d")
	return &evm.ExecResult{
		TxHash: txHash,
		Receipt: &types.Receipt{
			Status: types.ReceiptStatusSuccessful,
			Logs: []*types.Log{{
				Address: contract,
				Topics:  []gethcommon.Hash{event.ID, topics[0][0], topics[1][0]},
				Data:    data,
				TxHash:  txHash,
			}},
		},
	}
}

func TestCreateInvoiceReturnsContractAssignedID(t *testing.T) {
	fake := &fakeEvm{signer: testSigner}
	svc := newTestService(fake)
	fake.execFn = func(to gethcommon.Address, method string, args []interface{}) (*evm.ExecResult, error) {
		assert.Equal(t, svc.Registry.InvoiceContract, to)
		assert.Equal(t, "createInvoice", method)
		return invoiceCreatedReceipt(t, svc.Registry.InvoiceContract, 7, big.NewInt(100000000), big.NewInt(0)), nil
	}

	invoiceID, txHash, err := svc.CreateInvoice(context.Background(), CreateInvoiceParams{
		Merchant: testMerchant.Hex(),
		Amount:   "100",
	})
	require.NoError(t, err)
	assert.Equal(t, "7", invoiceID.String())
	assert.NotEmpty(t, txHash)
}

func TestCreateInvoiceDoesNotMutateCallerMetadata(t *testing.T) {
	fake := &fakeEvm{signer: testSigner}
	svc := newTestService(fake)
	var submitted string
	fake.execFn = func(to gethcommon.Address, method string, args []interface{}) (*evm.ExecResult, error) {
		submitted = args[3].(string)
		return invoiceCreatedReceipt(t, svc.Registry.InvoiceContract, 7, big.NewInt(100000000), big.NewInt(0)), nil
	}

	metadata := map[string]interface{}{"order_id": "order-9"}
	_, _, err := svc.CreateInvoice(context.Background(), CreateInvoiceParams{
		Merchant: testMerchant.Hex(),
		Amount:   "100",
		Metadata: metadata,
	})
	require.NoError(t, err)
	assert.Contains(t, submitted, "payment_id")
	assert.Contains(t, submitted, "order-9")
	assert.Equal(t, map[string]interface{}{"order_id": "order-9"}, metadata)
}

func TestCreateInvoiceRejectsBadMerchant(t *testing.T) {
	svc := newTestService(&fakeEvm{signer: testSigner})
	_, _, err := svc.CreateInvoice(context.Background(), CreateInvoiceParams{
		Merchant: "not-an-address",
		Amount:   "100",
	})
	assert.Equal(t, evm.KindValidation, evm.KindOf(err))
}

func TestCreateInvoiceRejectsBadAmountBeforeSubmitting(t *testing.T) {
	fake := &fakeEvm{signer: testSigner}
	svc := newTestService(fake)
	_, _, err := svc.CreateInvoice(context.Background(), CreateInvoiceParams{
		Merchant: testMerchant.Hex(),
		Amount:   "-5",
	})
	assert.Equal(t, evm.KindValidation, evm.KindOf(err))
	assert.Empty(t, fake.executedMethods())
}

func TestCreateInvoiceMissingEventFails(t *testing.T) {
	fake := &fakeEvm{signer: testSigner}
	svc := newTestService(fake)
	fake.execFn = func(to gethcommon.Address, method string, args []interface{}) (*evm.ExecResult, error) {
		return &evm.ExecResult{
			TxHash:  gethcommon.HexToHash("0xf00d"),
			Receipt: &types.Receipt{Status: types.ReceiptStatusSuccessful},
		}, nil
	}

	_, _, err := svc.CreateInvoice(context.Background(), CreateInvoiceParams{
		Merchant: testMerchant.Hex(),
		Amount:   "100",
	})
	assert.Equal(t, evm.KindEventNotFound, evm.KindOf(err))
}

func TestGetInvoicePendingFormatsAmount(t *testing.T) {
	fake := &fakeEvm{signer: testSigner}
	svc := newTestService(fake)
	record := pendingRecord(1, 100000000)
	record.Metadata = `{"orderId":"abc-123"}`
	fake.callFn = func(to gethcommon.Address, method string, args []interface{}) ([]interface{}, error) {
		assert.Equal(t, "getInvoice", method)
		return []interface{}{record}, nil
	}

	invoice, err := svc.GetInvoice(context.Background(), big.NewInt(1))
	require.NoError(t, err)
	assert.Equal(t, "1", invoice.InvoiceID)
	assert.Equal(t, "100.0", invoice.Amount)
	assert.Equal(t, common.InvoiceStatusPending, invoice.Status)
	assert.Equal(t, "abc-123", invoice.Metadata["orderId"])
	// zero payer address renders as unset
	assert.Empty(t, invoice.Payer)
}

func TestGetInvoiceMalformedMetadataDegrades(t *testing.T) {
	fake := &fakeEvm{signer: testSigner}
	svc := newTestService(fake)
	record := pendingRecord(2, 5000000)
	record.Metadata = "{not json"
	fake.callFn = func(to gethcommon.Address, method string, args []interface{}) ([]interface{}, error) {
		return []interface{}{record}, nil
	}

	invoice, err := svc.GetInvoice(context.Background(), big.NewInt(2))
	require.NoError(t, err)
	assert.Empty(t, invoice.Metadata)
}

func TestPayInvoiceApprovesWhenAllowanceShort(t *testing.T) {
	fake := &fakeEvm{signer: testSigner}
	svc := newTestService(fake)
	fake.callFn = func(to gethcommon.Address, method string, args []interface{}) ([]interface{}, error) {
		switch method {
		case "getInvoice":
			return []interface{}{pendingRecord(3, 100000000)}, nil
		case "allowance":
			return []interface{}{big.NewInt(0)}, nil
		}
		return nil, evm.NewError(evm.KindNetworkError, "unexpected call "+method)
	}
	fake.execFn = func(to gethcommon.Address, method string, args []interface{}) (*evm.ExecResult, error) {
		return &evm.ExecResult{
			TxHash:  gethcommon.HexToHash("0xbeef"),
			Receipt: &types.Receipt{Status: types.ReceiptStatusSuccessful},
		}, nil
	}

	txHash, err := svc.PayInvoice(context.Background(), big.NewInt(3))
	require.NoError(t, err)
	assert.NotEmpty(t, txHash)
	// approval confirmed before the spend is submitted
	assert.Equal(t, []string{"approve", "payInvoice"}, fake.executedMethods())
}

func TestPayInvoiceSkipsApproveWithSufficientAllowance(t *testing.T) {
	fake := &fakeEvm{signer: testSigner}
	svc := newTestService(fake)
	fake.callFn = func(to gethcommon.Address, method string, args []interface{}) ([]interface{}, error) {
		switch method {
		case "getInvoice":
			return []interface{}{pendingRecord(3, 100000000)}, nil
		case "allowance":
			return []interface{}{big.NewInt(200000000)}, nil
		}
		return nil, evm.NewError(evm.KindNetworkError, "unexpected call "+method)
	}
	fake.execFn = func(to gethcommon.Address, method string, args []interface{}) (*evm.ExecResult, error) {
		return &evm.ExecResult{
			TxHash:  gethcommon.HexToHash("0xbeef"),
			Receipt: &types.Receipt{Status: types.ReceiptStatusSuccessful},
		}, nil
	}

	_, err := svc.PayInvoice(context.Background(), big.NewInt(3))
	require.NoError(t, err)
	assert.Equal(t, []string{"payInvoice"}, fake.executedMethods())
}

func TestPayInvoiceWithoutSigner(t *testing.T) {
	fake := &fakeEvm{signerErr: evm.NewError(evm.KindWalletNotConnected, "no signing key configured")}
	svc := newTestService(fake)

	_, err := svc.PayInvoice(context.Background(), big.NewInt(1))
	assert.Equal(t, evm.KindWalletNotConnected, evm.KindOf(err))
	assert.Empty(t, fake.executedMethods())
}

func TestPayInvoiceViaRouterAppliesSlippage(t *testing.T) {
	fake := &fakeEvm{signer: testSigner}
	svc := newTestService(fake)
	fake.callFn = func(to gethcommon.Address, method string, args []interface{}) ([]interface{}, error) {
		if method == "allowance" {
			return []interface{}{big.NewInt(1 << 40)}, nil
		}
		return nil, evm.NewError(evm.KindNetworkError, "unexpected call "+method)
	}
	var gotMinOut *big.Int
	fake.execFn = func(to gethcommon.Address, method string, args []interface{}) (*evm.ExecResult, error) {
		assert.Equal(t, "payInvoiceViaRouter", method)
		gotMinOut = args[3].(*big.Int)
		return &evm.ExecResult{
			TxHash:  gethcommon.HexToHash("0xbeef"),
			Receipt: &types.Receipt{Status: types.ReceiptStatusSuccessful},
		}, nil
	}

	// 100 USDC * 15000 = 1_500_000_000_000 micro IDRX, minus 1%
	_, err := svc.PayInvoiceViaRouter(context.Background(), big.NewInt(4), "USDC", "100", 100)
	require.NoError(t, err)
	assert.Equal(t, "1485000000000", gotMinOut.String())
}

func TestPayInvoiceViaRouterUsesConfiguredSlippageDefault(t *testing.T) {
	fake := &fakeEvm{signer: testSigner}
	svc := newTestService(fake)
	svc.Config.SlippageBps = 100
	fake.callFn = func(to gethcommon.Address, method string, args []interface{}) ([]interface{}, error) {
		if method == "allowance" {
			return []interface{}{big.NewInt(1 << 40)}, nil
		}
		return nil, evm.NewError(evm.KindNetworkError, "unexpected call "+method)
	}
	var gotMinOut *big.Int
	fake.execFn = func(to gethcommon.Address, method string, args []interface{}) (*evm.ExecResult, error) {
		gotMinOut = args[3].(*big.Int)
		return &evm.ExecResult{
			TxHash:  gethcommon.HexToHash("0xbeef"),
			Receipt: &types.Receipt{Status: types.ReceiptStatusSuccessful},
		}, nil
	}

	// the request leaves slippage unset, the configured 1% applies
	_, err := svc.PayInvoiceViaRouter(context.Background(), big.NewInt(4), "USDC", "100", 0)
	require.NoError(t, err)
	assert.Equal(t, "1485000000000", gotMinOut.String())
}

func TestPayInvoiceViaRouterRejectsUnknownToken(t *testing.T) {
	svc := newTestService(&fakeEvm{signer: testSigner})
	_, err := svc.PayInvoiceViaRouter(context.Background(), big.NewInt(4), "DOGE", "100", 0)
	assert.Equal(t, evm.KindValidation, evm.KindOf(err))
}

func TestCancelInvoiceSubmitsTransaction(t *testing.T) {
	fake := &fakeEvm{signer: testSigner}
	svc := newTestService(fake)
	fake.execFn = func(to gethcommon.Address, method string, args []interface{}) (*evm.ExecResult, error) {
		assert.Equal(t, "cancelInvoice", method)
		return &evm.ExecResult{
			TxHash:  gethcommon.HexToHash("0xdead"),
			Receipt: &types.Receipt{Status: types.ReceiptStatusSuccessful},
		}, nil
	}

	txHash, err := svc.CancelInvoice(context.Background(), big.NewInt(5))
	require.NoError(t, err)
	assert.NotEmpty(t, txHash)
}

func TestCancelSettledInvoiceSurfacesRevert(t *testing.T) {
	fake := &fakeEvm{signer: testSigner}
	svc := newTestService(fake)
	fake.execFn = func(to gethcommon.Address, method string, args []interface{}) (*evm.ExecResult, error) {
		return nil, evm.WrapError(evm.KindContractReverted, "estimate gas", assert.AnError)
	}

	_, err := svc.CancelInvoice(context.Background(), big.NewInt(5))
	assert.Equal(t, evm.KindContractReverted, evm.KindOf(err))
}
