package controllers

import (
	"net/http"

	"github.com/deqrypt/deqrypt.go/lib/responses"
	"github.com/deqrypt/deqrypt.go/lib/service"
	"github.com/labstack/echo/v4"
)

// ProfileController : User profile controller struct
type ProfileController struct {
	svc *service.DeqryptService
}

func NewProfileController(svc *service.DeqryptService) *ProfileController {
	return &ProfileController{svc: svc}
}

// GetProfile godoc
// @Summary      User profile
// @Description  Returns the profile stored for a wallet address
// @Produce      json
// @Tags         Profile
// @Param        address  path      string  true  "Wallet address"
// @Success      200      {object}  backend.Profile
// @Failure      400      {object}  responses.ErrorResponse
// @Router       /v2/profile/{address} [get]
func (controller *ProfileController) GetProfile(c echo.Context) error {
	address := c.Param("address")
	profile, err := controller.svc.Profile(c.Request().Context(), address)
	if err != nil {
		c.Logger().Errorf("Failed to fetch profile wallet:%s error: %v", address, err)
		response := responses.FromChainError(err)
		return c.JSON(response.HttpStatusCode, response)
	}
	return c.JSON(http.StatusOK, profile)
}

type UpdateUsernameRequestBody struct {
	WalletAddress string `json:"wallet_address" validate:"required"`
	Name          string `json:"name" validate:"required,min=3"`
}

type UpdateUsernameResponseBody struct {
	Status string `json:"status"`
}

// UpdateUsername godoc
// @Summary      Update username
// @Description  Sets the display name for a wallet
// @Accept       json
// @Produce      json
// @Tags         Profile
// @Param        UpdateUsernameRequest  body      UpdateUsernameRequestBody  True  "Update Username"
// @Success      200                    {object}  UpdateUsernameResponseBody
// @Failure      400                    {object}  responses.ErrorResponse
// @Router       /v2/profile/username [post]
func (controller *ProfileController) UpdateUsername(c echo.Context) error {
	reqBody := UpdateUsernameRequestBody{}
	if err := c.Bind(&reqBody); err != nil {
		c.Logger().Errorf("Failed to load update username request body: %v", err)
		return c.JSON(http.StatusBadRequest, responses.BadArgumentsError)
	}
	if err := c.Validate(&reqBody); err != nil {
		c.Logger().Errorf("Invalid update username request body: %v", err)
		return c.JSON(http.StatusBadRequest, responses.BadArgumentsError)
	}
	if err := controller.svc.UpdateUsername(c.Request().Context(), reqBody.WalletAddress, reqBody.Name); err != nil {
		c.Logger().Errorf("Failed to update username wallet:%s error: %v", reqBody.WalletAddress, err)
		response := responses.FromChainError(err)
		return c.JSON(response.HttpStatusCode, response)
	}
	return c.JSON(http.StatusOK, &UpdateUsernameResponseBody{Status: "success"})
}

type VerifyWalletRequestBody struct {
	WalletAddress string `json:"wallet_address" validate:"required"`
}

type VerifyWalletResponseBody struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

// VerifyWallet godoc
// @Summary      Verify a wallet
// @Description  Starts the asynchronous wallet verification. Success means the check is pending
// @Accept       json
// @Produce      json
// @Tags         Profile
// @Param        VerifyWalletRequest  body      VerifyWalletRequestBody  True  "Verify Wallet"
// @Success      200                  {object}  VerifyWalletResponseBody
// @Failure      400                  {object}  responses.ErrorResponse
// @Router       /v2/profile/verify [post]
func (controller *ProfileController) VerifyWallet(c echo.Context) error {
	reqBody := VerifyWalletRequestBody{}
	if err := c.Bind(&reqBody); err != nil {
		c.Logger().Errorf("Failed to load verify wallet request body: %v", err)
		return c.JSON(http.StatusBadRequest, responses.BadArgumentsError)
	}
	if err := c.Validate(&reqBody); err != nil {
		c.Logger().Errorf("Invalid verify wallet request body: %v", err)
		return c.JSON(http.StatusBadRequest, responses.BadArgumentsError)
	}
	message, err := controller.svc.VerifyWallet(c.Request().Context(), reqBody.WalletAddress)
	if err != nil {
		c.Logger().Errorf("Failed to verify wallet wallet:%s error: %v", reqBody.WalletAddress, err)
		response := responses.FromChainError(err)
		return c.JSON(response.HttpStatusCode, response)
	}
	return c.JSON(http.StatusOK, &VerifyWalletResponseBody{
		Status:  "pending",
		Message: message,
	})
}
