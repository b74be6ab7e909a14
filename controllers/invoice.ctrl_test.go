package controllers

import (
	"context"
	"encoding/json"
	"math/big"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/deqrypt/deqrypt.go/common"
	"github.com/deqrypt/deqrypt.go/evm"
	"github.com/deqrypt/deqrypt.go/lib"
	"github.com/deqrypt/deqrypt.go/lib/service"
	"github.com/ethereum/go-ethereum/accounts/abi"
	gethcommon "github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// readOnlyEvm serves getInvoice with one fixed record and fails everything
// that would need a signer.
type readOnlyEvm struct {
	record evm.InvoiceRecord
}

func (f *readOnlyEvm) ChainID() *big.Int { return big.NewInt(evm.DefaultChainID) }

func (f *readOnlyEvm) SignerAddress() (gethcommon.Address, error) {
	return gethcommon.Address{}, evm.NewError(evm.KindWalletNotConnected, "no signing key configured")
}

func (f *readOnlyEvm) Call(ctx context.Context, to gethcommon.Address, contractABI abi.ABI, result *[]interface{}, method string, args ...interface{}) error {
	if method != "getInvoice" {
		return evm.NewError(evm.KindNetworkError, "unexpected call "+method)
	}
	*result = []interface{}{f.record}
	return nil
}

func (f *readOnlyEvm) Execute(ctx context.Context, to gethcommon.Address, contractABI abi.ABI, method string, args ...interface{}) (*evm.ExecResult, error) {
	return nil, evm.NewError(evm.KindWalletNotConnected, "no signing key configured")
}

func (f *readOnlyEvm) BalanceAt(ctx context.Context, account gethcommon.Address) (*big.Int, error) {
	return big.NewInt(0), nil
}

func (f *readOnlyEvm) FilterEventLogs(ctx context.Context, contract gethcommon.Address, event abi.Event, topic1 *gethcommon.Hash, fromBlock *big.Int) ([]types.Log, error) {
	return nil, nil
}

func newTestEcho() *echo.Echo {
	e := echo.New()
	e.Validator = &lib.CustomValidator{Validator: validator.New()}
	return e
}

func testInvoiceService() *service.DeqryptService {
	cfg := &service.Config{ChainID: evm.DefaultChainID, USDCToIDRXRate: evm.DefaultUSDCToIDRXRate}
	fake := &readOnlyEvm{record: evm.InvoiceRecord{
		InvoiceId: big.NewInt(9),
		Merchant:  gethcommon.HexToAddress("0x3333333333333333333333333333333333333333"),
		Amount:    big.NewInt(100000000),
		Fee:       big.NewInt(0),
		CreatedAt: big.NewInt(1700000000),
		PaidAt:    big.NewInt(0),
		Status:    common.ChainStatusPending,
	}}
	return service.NewService(cfg, lib.Logger(""), fake, nil)
}

func TestGetInvoiceControllerReturnsRecord(t *testing.T) {
	e := newTestEcho()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues("9")

	controller := NewInvoiceController(testInvoiceService())
	require.NoError(t, controller.GetInvoice(c))
	assert.Equal(t, http.StatusOK, rec.Code)

	var invoice service.Invoice
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &invoice))
	assert.Equal(t, "9", invoice.InvoiceID)
	assert.Equal(t, "100.0", invoice.Amount)
	assert.Equal(t, common.InvoiceStatusPending, invoice.Status)
}

func TestGetInvoiceControllerRejectsBadID(t *testing.T) {
	e := newTestEcho()
	for _, id := range []string{"abc", "-1", "1.5", ""} {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)
		c.SetParamNames("id")
		c.SetParamValues(id)

		controller := NewInvoiceController(testInvoiceService())
		require.NoError(t, controller.GetInvoice(c))
		assert.Equal(t, http.StatusBadRequest, rec.Code, id)
	}
}

func TestCheckPaymentControllerPendingNotPaid(t *testing.T) {
	e := newTestEcho()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues("9")

	controller := NewCheckPaymentController(testInvoiceService())
	require.NoError(t, controller.CheckPayment(c))
	assert.Equal(t, http.StatusOK, rec.Code)

	var body CheckPaymentResponseBody
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.False(t, body.IsPaid)
	assert.Equal(t, common.InvoiceStatusPending, body.Status)
}

func TestPayInvoiceControllerWithoutSigner(t *testing.T) {
	e := newTestEcho()
	req := httptest.NewRequest(http.MethodPost, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues("9")

	controller := NewPayInvoiceController(testInvoiceService())
	require.NoError(t, controller.PayInvoice(c))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestAddInvoiceControllerValidation(t *testing.T) {
	e := newTestEcho()
	req := httptest.NewRequest(http.MethodPost, "/", nil)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	controller := NewInvoiceController(testInvoiceService())
	require.NoError(t, controller.AddInvoice(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
