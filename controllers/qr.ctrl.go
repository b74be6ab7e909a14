package controllers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/deqrypt/deqrypt.go/lib/responses"
	"github.com/deqrypt/deqrypt.go/lib/service"
	"github.com/labstack/echo/v4"
	qrcode "github.com/skip2/go-qrcode"
)

// QrController : Invoice QR controller struct
type QrController struct {
	svc *service.DeqryptService
}

func NewQrController(svc *service.DeqryptService) *QrController {
	return &QrController{svc: svc}
}

// qrPayload is what a payer's wallet scans: enough to locate and pay the
// invoice without a further lookup.
type qrPayload struct {
	InvoiceID string `json:"invoice_id"`
	Merchant  string `json:"merchant"`
	Amount    string `json:"amount"`
	Fee       string `json:"fee"`
	ChainID   int64  `json:"chain_id"`
	Contract  string `json:"contract"`
}

// InvoiceQr godoc
// @Summary      Render an invoice QR code
// @Description  Returns a PNG QR code encoding the invoice payment payload
// @Produce      png
// @Tags         Invoice
// @Param        id    path   string  true   "Invoice id"
// @Param        size  query  int     false  "Image size in pixels, default 256"
// @Failure      400  {object}  responses.ErrorResponse
// @Router       /v2/invoices/{id}/qr [get]
func (controller *QrController) InvoiceQr(c echo.Context) error {
	invoiceID, ok := parseInvoiceID(c.Param("id"))
	if !ok {
		return c.JSON(http.StatusBadRequest, responses.BadArgumentsError)
	}
	size := 256
	if raw := c.QueryParam("size"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 64 || parsed > 1024 {
			return c.JSON(http.StatusBadRequest, responses.BadArgumentsError)
		}
		size = parsed
	}
	invoice, err := controller.svc.GetInvoice(c.Request().Context(), invoiceID)
	if err != nil {
		c.Logger().Errorf("Failed to fetch invoice for QR invoice_id:%s error: %v", invoiceID, err)
		response := responses.FromChainError(err)
		return c.JSON(response.HttpStatusCode, response)
	}
	payload, err := json.Marshal(qrPayload{
		InvoiceID: invoice.InvoiceID,
		Merchant:  invoice.Merchant,
		Amount:    invoice.Amount,
		Fee:       invoice.Fee,
		ChainID:   controller.svc.Registry.ChainID.Int64(),
		Contract:  controller.svc.Registry.InvoiceContract.Hex(),
	})
	if err != nil {
		return c.JSON(http.StatusInternalServerError, responses.GeneralServerError)
	}
	png, err := qrcode.Encode(string(payload), qrcode.Medium, size)
	if err != nil {
		c.Logger().Errorf("Failed to encode QR invoice_id:%s error: %v", invoiceID, err)
		return c.JSON(http.StatusInternalServerError, responses.GeneralServerError)
	}
	return c.Blob(http.StatusOK, "image/png", png)
}
