package controllers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/deqrypt/deqrypt.go/common"
	"github.com/deqrypt/deqrypt.go/evm"
	"github.com/deqrypt/deqrypt.go/lib/responses"
	"github.com/deqrypt/deqrypt.go/lib/service"
	"github.com/labstack/echo/v4"
)

// CheckPaymentController : Check payment controller struct
type CheckPaymentController struct {
	svc *service.DeqryptService
}

func NewCheckPaymentController(svc *service.DeqryptService) *CheckPaymentController {
	return &CheckPaymentController{svc: svc}
}

type CheckPaymentResponseBody struct {
	InvoiceID string `json:"invoice_id"`
	Status    string `json:"status"`
	IsPaid    bool   `json:"is_paid"`
	Payer     string `json:"payer,omitempty"`
	PaidAt    int64  `json:"paid_at,omitempty"`
}

// CheckPayment godoc
// @Summary      Check an invoice's status
// @Description  One-shot status read; frontends poll this while showing the QR
// @Produce      json
// @Tags         Invoice
// @Param        id  path      string  true  "Invoice id"
// @Success      200  {object}  CheckPaymentResponseBody
// @Failure      400  {object}  responses.ErrorResponse
// @Router       /v2/invoices/{id}/status [get]
func (controller *CheckPaymentController) CheckPayment(c echo.Context) error {
	invoiceID, ok := parseInvoiceID(c.Param("id"))
	if !ok {
		return c.JSON(http.StatusBadRequest, responses.BadArgumentsError)
	}
	invoice, err := controller.svc.GetInvoice(c.Request().Context(), invoiceID)
	if err != nil {
		c.Logger().Errorf("Failed to check invoice invoice_id:%s error: %v", invoiceID, err)
		response := responses.FromChainError(err)
		return c.JSON(response.HttpStatusCode, response)
	}
	return c.JSON(http.StatusOK, &CheckPaymentResponseBody{
		InvoiceID: invoice.InvoiceID,
		Status:    invoice.Status,
		IsPaid:    invoice.Status == common.InvoiceStatusPaid,
		Payer:     invoice.Payer,
		PaidAt:    invoice.PaidAt,
	})
}

const maxWaitSeconds = 120

// WaitPayment godoc
// @Summary      Wait for an invoice to settle
// @Description  Long-polls until the invoice leaves pending or the wait window elapses
// @Produce      json
// @Tags         Invoice
// @Param        id       path   string  true   "Invoice id"
// @Param        timeout  query  int     false  "Wait window in seconds, default 30, max 120"
// @Success      200  {object}  CheckPaymentResponseBody
// @Failure      400  {object}  responses.ErrorResponse
// @Failure      408  {object}  responses.ErrorResponse
// @Router       /v2/invoices/{id}/wait [get]
func (controller *CheckPaymentController) WaitPayment(c echo.Context) error {
	invoiceID, ok := parseInvoiceID(c.Param("id"))
	if !ok {
		return c.JSON(http.StatusBadRequest, responses.BadArgumentsError)
	}
	waitSeconds := 30
	if raw := c.QueryParam("timeout"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 || parsed > maxWaitSeconds {
			return c.JSON(http.StatusBadRequest, responses.BadArgumentsError)
		}
		waitSeconds = parsed
	}

	ctx := c.Request().Context()
	settled := make(chan *service.Invoice, 1)
	failed := make(chan error, 1)
	watcher := controller.svc.WatchInvoiceStatus(ctx, invoiceID, service.WatchOptions{
		OnPaid:      func(invoice *service.Invoice) { settled <- invoice },
		OnCancelled: func(invoice *service.Invoice) { settled <- invoice },
		OnError: func(err error) {
			// Transient errors keep the session alive, only terminal ones end it.
			if evm.KindOf(err) == evm.KindTimeout {
				failed <- err
			}
		},
	})
	defer watcher.Stop()

	timer := time.NewTimer(time.Duration(waitSeconds) * time.Second)
	defer timer.Stop()

	select {
	case invoice := <-settled:
		return c.JSON(http.StatusOK, &CheckPaymentResponseBody{
			InvoiceID: invoice.InvoiceID,
			Status:    invoice.Status,
			IsPaid:    invoice.Status == common.InvoiceStatusPaid,
			Payer:     invoice.Payer,
			PaidAt:    invoice.PaidAt,
		})
	case err := <-failed:
		c.Logger().Errorf("Invoice wait failed invoice_id:%s error: %v", invoiceID, err)
		response := responses.FromChainError(err)
		return c.JSON(response.HttpStatusCode, response)
	case <-timer.C:
		return c.JSON(http.StatusRequestTimeout, responses.TimeoutError)
	case <-ctx.Done():
		return ctx.Err()
	}
}
