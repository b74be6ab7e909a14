package controllers

import (
	"net/http"

	"github.com/deqrypt/deqrypt.go/backend"
	"github.com/deqrypt/deqrypt.go/lib/responses"
	"github.com/deqrypt/deqrypt.go/lib/service"
	"github.com/labstack/echo/v4"
)

// LendingController : Lending controller struct
type LendingController struct {
	svc *service.DeqryptService
}

func NewLendingController(svc *service.DeqryptService) *LendingController {
	return &LendingController{svc: svc}
}

type RecommendRequestBody struct {
	Amount float64 `json:"amount" validate:"required,gt=0"`
	Token  string  `json:"token" validate:"required"`
}

// Recommend godoc
// @Summary      Lending recommendation
// @Description  Asks the recommendation engine for a lending placement of the given size
// @Accept       json
// @Produce      json
// @Tags         Lending
// @Param        RecommendRequest  body      RecommendRequestBody  True  "Recommend"
// @Success      200               {object}  backend.Recommendation
// @Failure      400               {object}  responses.ErrorResponse
// @Router       /v2/lending/recommend [post]
func (controller *LendingController) Recommend(c echo.Context) error {
	reqBody := RecommendRequestBody{}
	if err := c.Bind(&reqBody); err != nil {
		c.Logger().Errorf("Failed to load recommend request body: %v", err)
		return c.JSON(http.StatusBadRequest, responses.BadArgumentsError)
	}
	if err := c.Validate(&reqBody); err != nil {
		c.Logger().Errorf("Invalid recommend request body: %v", err)
		return c.JSON(http.StatusBadRequest, responses.BadArgumentsError)
	}
	recommendation, err := controller.svc.Recommend(c.Request().Context(), reqBody.Amount, reqBody.Token)
	if err != nil {
		c.Logger().Errorf("Failed to fetch recommendation: %v", err)
		response := responses.FromChainError(err)
		return c.JSON(response.HttpStatusCode, response)
	}
	return c.JSON(http.StatusOK, recommendation)
}

// Projects godoc
// @Summary      Lending projects
// @Description  Lists the available lending pools
// @Produce      json
// @Tags         Lending
// @Success      200  {array}   backend.Project
// @Failure      500  {object}  responses.ErrorResponse
// @Router       /v2/lending/projects [get]
func (controller *LendingController) Projects(c echo.Context) error {
	projects, err := controller.svc.LendingProjects(c.Request().Context())
	if err != nil {
		c.Logger().Errorf("Failed to fetch lending projects: %v", err)
		response := responses.FromChainError(err)
		return c.JSON(response.HttpStatusCode, response)
	}
	return c.JSON(http.StatusOK, projects)
}

type DepositRequestBody struct {
	Protocol      string  `json:"protocol" validate:"required"`
	Token         string  `json:"token" validate:"required"`
	Amount        float64 `json:"amount" validate:"required,gt=0"`
	WalletAddress string  `json:"wallet_address" validate:"required"`
	TxHash        string  `json:"tx_hash"`
}

// Deposit godoc
// @Summary      Open a lending position
// @Description  Records a deposit into a lending pool
// @Accept       json
// @Produce      json
// @Tags         Lending
// @Param        DepositRequest  body      DepositRequestBody  True  "Deposit"
// @Success      200             {object}  backend.DepositResult
// @Failure      400             {object}  responses.ErrorResponse
// @Router       /v2/lending/deposit [post]
func (controller *LendingController) Deposit(c echo.Context) error {
	reqBody := DepositRequestBody{}
	if err := c.Bind(&reqBody); err != nil {
		c.Logger().Errorf("Failed to load deposit request body: %v", err)
		return c.JSON(http.StatusBadRequest, responses.BadArgumentsError)
	}
	if err := c.Validate(&reqBody); err != nil {
		c.Logger().Errorf("Invalid deposit request body: %v", err)
		return c.JSON(http.StatusBadRequest, responses.BadArgumentsError)
	}
	result, err := controller.svc.Deposit(c.Request().Context(), backend.DepositRequest{
		Protocol:      reqBody.Protocol,
		Token:         reqBody.Token,
		Amount:        reqBody.Amount,
		WalletAddress: reqBody.WalletAddress,
		TxHash:        reqBody.TxHash,
	})
	if err != nil {
		c.Logger().Errorf("Failed to deposit wallet:%s error: %v", reqBody.WalletAddress, err)
		response := responses.FromChainError(err)
		return c.JSON(response.HttpStatusCode, response)
	}
	return c.JSON(http.StatusOK, result)
}

// Info godoc
// @Summary      Lending positions
// @Description  Returns the aggregate lending position for a wallet
// @Produce      json
// @Tags         Lending
// @Param        address  path      string  true  "Wallet address"
// @Success      200      {object}  backend.LendingInfo
// @Failure      400      {object}  responses.ErrorResponse
// @Router       /v2/lending/{address} [get]
func (controller *LendingController) Info(c echo.Context) error {
	address := c.Param("address")
	info, err := controller.svc.LendingInfo(c.Request().Context(), address)
	if err != nil {
		c.Logger().Errorf("Failed to fetch lending info wallet:%s error: %v", address, err)
		response := responses.FromChainError(err)
		return c.JSON(response.HttpStatusCode, response)
	}
	return c.JSON(http.StatusOK, info)
}

type WithdrawRequestBody struct {
	ID            int64   `json:"id" validate:"required"`
	Token         string  `json:"token" validate:"required"`
	Amount        float64 `json:"amount"`
	WithdrawAll   bool    `json:"withdraw_all"`
	TxHash        string  `json:"tx_hash"`
	WalletAddress string  `json:"wallet_address"`
}

// Withdraw godoc
// @Summary      Unwind a lending position
// @Description  Withdraws from a position. Set withdraw_all to take everything, otherwise amount must be positive
// @Accept       json
// @Produce      json
// @Tags         Lending
// @Param        WithdrawRequest  body      WithdrawRequestBody  True  "Withdraw"
// @Success      200              {object}  backend.WithdrawResult
// @Failure      400              {object}  responses.ErrorResponse
// @Router       /v2/lending/withdraw [post]
func (controller *LendingController) Withdraw(c echo.Context) error {
	reqBody := WithdrawRequestBody{}
	if err := c.Bind(&reqBody); err != nil {
		c.Logger().Errorf("Failed to load withdraw request body: %v", err)
		return c.JSON(http.StatusBadRequest, responses.BadArgumentsError)
	}
	if err := c.Validate(&reqBody); err != nil {
		c.Logger().Errorf("Invalid withdraw request body: %v", err)
		return c.JSON(http.StatusBadRequest, responses.BadArgumentsError)
	}
	result, err := controller.svc.Withdraw(c.Request().Context(), backend.WithdrawRequest{
		ID:            reqBody.ID,
		Token:         reqBody.Token,
		Amount:        reqBody.Amount,
		WithdrawAll:   reqBody.WithdrawAll,
		TxHash:        reqBody.TxHash,
		WalletAddress: reqBody.WalletAddress,
	})
	if err != nil {
		c.Logger().Errorf("Failed to withdraw position id:%d error: %v", reqBody.ID, err)
		response := responses.FromChainError(err)
		return c.JSON(response.HttpStatusCode, response)
	}
	return c.JSON(http.StatusOK, result)
}

// Sync godoc
// @Summary      Sync lending positions
// @Description  Re-reads on-chain positions for a wallet and returns the refreshed view
// @Produce      json
// @Tags         Lending
// @Param        address  path      string  true  "Wallet address"
// @Success      200      {object}  backend.SyncResult
// @Failure      400      {object}  responses.ErrorResponse
// @Router       /v2/lending/{address}/sync [post]
func (controller *LendingController) Sync(c echo.Context) error {
	address := c.Param("address")
	result, err := controller.svc.SyncPositions(c.Request().Context(), address)
	if err != nil {
		c.Logger().Errorf("Failed to sync positions wallet:%s error: %v", address, err)
		response := responses.FromChainError(err)
		return c.JSON(response.HttpStatusCode, response)
	}
	return c.JSON(http.StatusOK, result)
}
