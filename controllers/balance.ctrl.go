package controllers

import (
	"net/http"

	"github.com/deqrypt/deqrypt.go/lib/responses"
	"github.com/deqrypt/deqrypt.go/lib/service"
	gethcommon "github.com/ethereum/go-ethereum/common"
	"github.com/labstack/echo/v4"
)

// BalanceController : Wallet balance controller struct
type BalanceController struct {
	svc *service.DeqryptService
}

func NewBalanceController(svc *service.DeqryptService) *BalanceController {
	return &BalanceController{svc: svc}
}

type BalancesResponseBody struct {
	Assets   []service.TokenBalance `json:"assets"`
	TotalUSD float64                `json:"total_usd"`
}

// Balances godoc
// @Summary      Wallet asset balances
// @Description  Returns the full asset list for a wallet with live prices and the USD total
// @Produce      json
// @Tags         Balance
// @Param        address  path   string  true   "Wallet address"
// @Param        owned    query  bool    false  "Only assets with a balance"
// @Success      200  {object}  BalancesResponseBody
// @Failure      400  {object}  responses.ErrorResponse
// @Router       /v2/balances/{address} [get]
func (controller *BalanceController) Balances(c echo.Context) error {
	address := c.Param("address")
	if !gethcommon.IsHexAddress(address) {
		return c.JSON(http.StatusBadRequest, responses.BadArgumentsError)
	}
	assets, err := controller.svc.CryptoBalances(c.Request().Context(), gethcommon.HexToAddress(address))
	if err != nil {
		c.Logger().Errorf("Failed to fetch balances address:%s error: %v", address, err)
		response := responses.FromChainError(err)
		return c.JSON(response.HttpStatusCode, response)
	}
	total := controller.svc.TotalBalanceUSD(assets)
	if c.QueryParam("owned") == "true" {
		assets = service.AssetsWithBalance(assets)
	}
	return c.JSON(http.StatusOK, &BalancesResponseBody{
		Assets:   assets,
		TotalUSD: total,
	})
}
