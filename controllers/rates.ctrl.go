package controllers

import (
	"net/http"

	"github.com/deqrypt/deqrypt.go/backend"
	"github.com/deqrypt/deqrypt.go/lib/responses"
	"github.com/deqrypt/deqrypt.go/lib/service"
	"github.com/labstack/echo/v4"
)

// RatesController : Token rates controller struct
type RatesController struct {
	svc *service.DeqryptService
}

func NewRatesController(svc *service.DeqryptService) *RatesController {
	return &RatesController{svc: svc}
}

type RatesResponseBody struct {
	Rates map[string]backend.TokenRate `json:"rates"`
}

// GetRates godoc
// @Summary      Token rates
// @Description  Returns the cached price snapshot for the configured symbols
// @Produce      json
// @Tags         Rates
// @Success      200  {object}  RatesResponseBody
// @Failure      503  {object}  responses.ErrorResponse
// @Router       /v2/rates [get]
func (controller *RatesController) GetRates(c echo.Context) error {
	rates, _ := controller.svc.Rates.Snapshot()
	if len(rates) == 0 {
		// Nothing fetched yet, the refresher has not succeeded once.
		return c.JSON(http.StatusServiceUnavailable, responses.NetworkError)
	}
	return c.JSON(http.StatusOK, &RatesResponseBody{Rates: rates})
}
