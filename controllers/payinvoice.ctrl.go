package controllers

import (
	"math/big"
	"net/http"

	"github.com/deqrypt/deqrypt.go/lib/responses"
	"github.com/deqrypt/deqrypt.go/lib/service"
	gethcommon "github.com/ethereum/go-ethereum/common"
	"github.com/labstack/echo/v4"
)

// PayInvoiceController : Pay invoice controller struct
type PayInvoiceController struct {
	svc *service.DeqryptService
}

func NewPayInvoiceController(svc *service.DeqryptService) *PayInvoiceController {
	return &PayInvoiceController{svc: svc}
}

type PayInvoiceResponseBody struct {
	TxHash string `json:"tx_hash"`
}

// PayInvoice godoc
// @Summary      Pay an invoice
// @Description  Settles an invoice in its own token, approving the invoice contract first when needed
// @Produce      json
// @Tags         Payment
// @Param        id  path      string  true  "Invoice id"
// @Success      200  {object}  PayInvoiceResponseBody
// @Failure      400  {object}  responses.ErrorResponse
// @Failure      500  {object}  responses.ErrorResponse
// @Router       /v2/invoices/{id}/pay [post]
func (controller *PayInvoiceController) PayInvoice(c echo.Context) error {
	invoiceID, ok := parseInvoiceID(c.Param("id"))
	if !ok {
		return c.JSON(http.StatusBadRequest, responses.BadArgumentsError)
	}
	txHash, err := controller.svc.PayInvoice(c.Request().Context(), invoiceID)
	if err != nil {
		c.Logger().Errorf("Failed to pay invoice invoice_id:%s error: %v", invoiceID, err)
		response := responses.FromChainError(err)
		return c.JSON(response.HttpStatusCode, response)
	}
	return c.JSON(http.StatusOK, &PayInvoiceResponseBody{TxHash: txHash})
}

type PayViaRouterRequestBody struct {
	Token       string `json:"token" validate:"required"`
	Amount      string `json:"amount" validate:"required"`
	SlippageBps int64  `json:"slippage_bps" validate:"gte=0,lte=10000"`
}

// PayViaRouter godoc
// @Summary      Pay an invoice through the router
// @Description  Settles an invoice by paying in a different token, swapped at the fixed rate
// @Accept       json
// @Produce      json
// @Tags         Payment
// @Param        id                   path      string                   true  "Invoice id"
// @Param        PayViaRouterRequest  body      PayViaRouterRequestBody  True  "Swap payment"
// @Success      200  {object}  PayInvoiceResponseBody
// @Failure      400  {object}  responses.ErrorResponse
// @Router       /v2/invoices/{id}/pay/router [post]
func (controller *PayInvoiceController) PayViaRouter(c echo.Context) error {
	invoiceID, ok := parseInvoiceID(c.Param("id"))
	if !ok {
		return c.JSON(http.StatusBadRequest, responses.BadArgumentsError)
	}
	reqBody := PayViaRouterRequestBody{}
	if err := c.Bind(&reqBody); err != nil {
		return c.JSON(http.StatusBadRequest, responses.BadArgumentsError)
	}
	if err := c.Validate(&reqBody); err != nil {
		return c.JSON(http.StatusBadRequest, responses.BadArgumentsError)
	}
	txHash, err := controller.svc.PayInvoiceViaRouter(c.Request().Context(), invoiceID, reqBody.Token, reqBody.Amount, reqBody.SlippageBps)
	if err != nil {
		c.Logger().Errorf("Failed to pay invoice via router invoice_id:%s error: %v", invoiceID, err)
		response := responses.FromChainError(err)
		return c.JSON(response.HttpStatusCode, response)
	}
	return c.JSON(http.StatusOK, &PayInvoiceResponseBody{TxHash: txHash})
}

// ListRouterPayments godoc
// @Summary      Router payments of an account
// @Description  Lists confirmed router payments made by an address, decoded from on-chain logs
// @Produce      json
// @Tags         Payment
// @Param        address     path   string  true   "Payer address"
// @Param        from_block  query  string  false  "Start block, default genesis"
// @Success      200  {array}   service.PayReceipt
// @Failure      400  {object}  responses.ErrorResponse
// @Router       /v2/payments/{address} [get]
func (controller *PayInvoiceController) ListRouterPayments(c echo.Context) error {
	address := c.Param("address")
	if !gethcommon.IsHexAddress(address) {
		return c.JSON(http.StatusBadRequest, responses.BadArgumentsError)
	}
	var fromBlock *big.Int
	if raw := c.QueryParam("from_block"); raw != "" {
		parsed, ok := new(big.Int).SetString(raw, 10)
		if !ok || parsed.Sign() < 0 {
			return c.JSON(http.StatusBadRequest, responses.BadArgumentsError)
		}
		fromBlock = parsed
	}
	receipts, err := controller.svc.RouterPayments(c.Request().Context(), gethcommon.HexToAddress(address), fromBlock)
	if err != nil {
		c.Logger().Errorf("Failed to list router payments payer:%s error: %v", address, err)
		response := responses.FromChainError(err)
		return c.JSON(response.HttpStatusCode, response)
	}
	return c.JSON(http.StatusOK, receipts)
}

type RouterPayRequestBody struct {
	Token       string `json:"token" validate:"required"`
	Amount      string `json:"amount" validate:"required"`
	Recipient   string `json:"recipient" validate:"required"`
	ReferenceID string `json:"reference_id"`
	SlippageBps int64  `json:"slippage_bps" validate:"gte=0,lte=10000"`
}

// RouterPay godoc
// @Summary      Direct router payment
// @Description  Pays a recipient through the router without an invoice and records the payment in the history backend
// @Accept       json
// @Produce      json
// @Tags         Payment
// @Param        RouterPayRequest  body      RouterPayRequestBody  True  "Router payment"
// @Success      200  {object}  service.PayReceipt
// @Failure      400  {object}  responses.ErrorResponse
// @Failure      502  {object}  responses.ErrorResponse
// @Router       /v2/payments/router [post]
func (controller *PayInvoiceController) RouterPay(c echo.Context) error {
	reqBody := RouterPayRequestBody{}
	if err := c.Bind(&reqBody); err != nil {
		return c.JSON(http.StatusBadRequest, responses.BadArgumentsError)
	}
	if err := c.Validate(&reqBody); err != nil {
		return c.JSON(http.StatusBadRequest, responses.BadArgumentsError)
	}
	receipt, err := controller.svc.PayWithApprove(c.Request().Context(), service.PayParams{
		TokenIn:     reqBody.Token,
		AmountHuman: reqBody.Amount,
		Recipient:   reqBody.Recipient,
		ReferenceID: reqBody.ReferenceID,
		SlippageBps: reqBody.SlippageBps,
	})
	if err != nil {
		c.Logger().Errorf("Router payment failed: %v", err)
		response := responses.FromChainError(err)
		return c.JSON(response.HttpStatusCode, response)
	}
	// History recording is best effort; the payment already settled.
	if err := controller.svc.RecordPayment(c.Request().Context(), receipt); err != nil {
		c.Logger().Errorf("Failed to record payment tx:%s error: %v", receipt.TxHash, err)
	}
	return c.JSON(http.StatusOK, receipt)
}
