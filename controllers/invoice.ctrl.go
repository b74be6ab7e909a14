package controllers

import (
	"math/big"
	"net/http"

	"github.com/deqrypt/deqrypt.go/lib/responses"
	"github.com/deqrypt/deqrypt.go/lib/service"
	"github.com/labstack/echo/v4"
)

// InvoiceController : Invoice lifecycle controller struct
type InvoiceController struct {
	svc *service.DeqryptService
}

func NewInvoiceController(svc *service.DeqryptService) *InvoiceController {
	return &InvoiceController{svc: svc}
}

type AddInvoiceRequestBody struct {
	Merchant string                 `json:"merchant" validate:"required"`
	Amount   string                 `json:"amount" validate:"required"`
	Fee      string                 `json:"fee"`
	Metadata map[string]interface{} `json:"metadata"`
}

type AddInvoiceResponseBody struct {
	InvoiceID string `json:"invoice_id"`
	TxHash    string `json:"tx_hash"`
}

// AddInvoice godoc
// @Summary      Create an invoice
// @Description  Creates an on-chain invoice for a merchant and returns the contract-assigned id
// @Accept       json
// @Produce      json
// @Tags         Invoice
// @Param        AddInvoiceRequest  body      AddInvoiceRequestBody  True  "Create Invoice"
// @Success      200                {object}  AddInvoiceResponseBody
// @Failure      400                {object}  responses.ErrorResponse
// @Failure      500                {object}  responses.ErrorResponse
// @Router       /v2/invoices [post]
func (controller *InvoiceController) AddInvoice(c echo.Context) error {
	reqBody := AddInvoiceRequestBody{}
	if err := c.Bind(&reqBody); err != nil {
		c.Logger().Errorf("Failed to load create invoice request body: %v", err)
		return c.JSON(http.StatusBadRequest, responses.BadArgumentsError)
	}
	if err := c.Validate(&reqBody); err != nil {
		c.Logger().Errorf("Invalid create invoice request body: %v", err)
		return c.JSON(http.StatusBadRequest, responses.BadArgumentsError)
	}

	invoiceID, txHash, err := controller.svc.CreateInvoice(c.Request().Context(), service.CreateInvoiceParams{
		Merchant: reqBody.Merchant,
		Amount:   reqBody.Amount,
		Fee:      reqBody.Fee,
		Metadata: reqBody.Metadata,
	})
	if err != nil {
		c.Logger().Errorf("Failed to create invoice: %v", err)
		response := responses.FromChainError(err)
		return c.JSON(response.HttpStatusCode, response)
	}

	return c.JSON(http.StatusOK, &AddInvoiceResponseBody{
		InvoiceID: invoiceID.String(),
		TxHash:    txHash,
	})
}

// GetInvoice godoc
// @Summary      Retrieve an invoice
// @Description  Returns the decoded on-chain invoice record
// @Produce      json
// @Tags         Invoice
// @Param        id  path      string  true  "Invoice id"
// @Success      200  {object}  service.Invoice
// @Failure      400  {object}  responses.ErrorResponse
// @Failure      404  {object}  responses.ErrorResponse
// @Router       /v2/invoices/{id} [get]
func (controller *InvoiceController) GetInvoice(c echo.Context) error {
	invoiceID, ok := parseInvoiceID(c.Param("id"))
	if !ok {
		return c.JSON(http.StatusBadRequest, responses.BadArgumentsError)
	}
	invoice, err := controller.svc.GetInvoice(c.Request().Context(), invoiceID)
	if err != nil {
		c.Logger().Errorf("Failed to fetch invoice invoice_id:%s error: %v", invoiceID, err)
		response := responses.FromChainError(err)
		return c.JSON(response.HttpStatusCode, response)
	}
	return c.JSON(http.StatusOK, invoice)
}

type CancelInvoiceResponseBody struct {
	TxHash string `json:"tx_hash"`
}

// CancelInvoice godoc
// @Summary      Cancel an invoice
// @Description  Cancels a pending invoice. The contract rejects the call for settled invoices
// @Produce      json
// @Tags         Invoice
// @Param        id  path      string  true  "Invoice id"
// @Success      200  {object}  CancelInvoiceResponseBody
// @Failure      400  {object}  responses.ErrorResponse
// @Router       /v2/invoices/{id}/cancel [post]
func (controller *InvoiceController) CancelInvoice(c echo.Context) error {
	invoiceID, ok := parseInvoiceID(c.Param("id"))
	if !ok {
		return c.JSON(http.StatusBadRequest, responses.BadArgumentsError)
	}
	txHash, err := controller.svc.CancelInvoice(c.Request().Context(), invoiceID)
	if err != nil {
		c.Logger().Errorf("Failed to cancel invoice invoice_id:%s error: %v", invoiceID, err)
		response := responses.FromChainError(err)
		return c.JSON(response.HttpStatusCode, response)
	}
	return c.JSON(http.StatusOK, &CancelInvoiceResponseBody{TxHash: txHash})
}

func parseInvoiceID(raw string) (*big.Int, bool) {
	invoiceID, ok := new(big.Int).SetString(raw, 10)
	if !ok || invoiceID.Sign() < 0 {
		return nil, false
	}
	return invoiceID, true
}
