package controllers

import (
	"net/http"

	"github.com/deqrypt/deqrypt.go/lib/responses"
	"github.com/deqrypt/deqrypt.go/lib/service"
	"github.com/labstack/echo/v4"
)

// HealthController : Health check controller struct
type HealthController struct {
	svc *service.DeqryptService
}

func NewHealthController(svc *service.DeqryptService) *HealthController {
	return &HealthController{svc: svc}
}

type HealthResponseBody struct {
	Status        string `json:"status"`
	ChainID       int64  `json:"chain_id"`
	TotalInvoices string `json:"total_invoices"`
}

// HealthCheck godoc
// @Summary      Health check
// @Description  Verifies RPC reachability by reading the invoice counter
// @Produce      json
// @Tags         Health
// @Success      200  {object}  HealthResponseBody
// @Failure      503  {object}  responses.ErrorResponse
// @Router       /healthz [get]
func (controller *HealthController) HealthCheck(c echo.Context) error {
	total, err := controller.svc.TotalInvoices(c.Request().Context())
	if err != nil {
		c.Logger().Errorf("Health check failed: %v", err)
		return c.JSON(http.StatusServiceUnavailable, responses.NetworkError)
	}
	return c.JSON(http.StatusOK, &HealthResponseBody{
		Status:        "ok",
		ChainID:       controller.svc.Registry.ChainID.Int64(),
		TotalInvoices: total.String(),
	})
}
