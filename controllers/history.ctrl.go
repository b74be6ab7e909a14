package controllers

import (
	"net/http"

	"github.com/deqrypt/deqrypt.go/lib/responses"
	"github.com/deqrypt/deqrypt.go/lib/service"
	"github.com/labstack/echo/v4"
)

// HistoryController : Transaction history controller struct
type HistoryController struct {
	svc *service.DeqryptService
}

func NewHistoryController(svc *service.DeqryptService) *HistoryController {
	return &HistoryController{svc: svc}
}

// GetTransactions godoc
// @Summary      Transaction history
// @Description  Lists the recorded transactions for a wallet with explorer links
// @Produce      json
// @Tags         History
// @Param        address  path      string  true  "Wallet address"
// @Success      200      {array}   backend.Transaction
// @Failure      400      {object}  responses.ErrorResponse
// @Router       /v2/history/{address} [get]
func (controller *HistoryController) GetTransactions(c echo.Context) error {
	address := c.Param("address")
	transactions, err := controller.svc.TransactionHistory(c.Request().Context(), address)
	if err != nil {
		c.Logger().Errorf("Failed to fetch history wallet:%s error: %v", address, err)
		response := responses.FromChainError(err)
		return c.JSON(response.HttpStatusCode, response)
	}
	return c.JSON(http.StatusOK, transactions)
}
