package responses

import (
	"net/http"

	"github.com/deqrypt/deqrypt.go/evm"
	"github.com/getsentry/sentry-go"
	sentryecho "github.com/getsentry/sentry-go/echo"
	"github.com/labstack/echo/v4"
)

type ErrorResponse struct {
	Error          bool   `json:"error"`
	Code           int    `json:"code"`
	Message        string `json:"message"`
	HttpStatusCode int    `json:"-"`
}

var GeneralServerError = ErrorResponse{
	Error:          true,
	Code:           6,
	Message:        "Something went wrong. Please try again later",
	HttpStatusCode: 500,
}

var BadArgumentsError = ErrorResponse{
	Error:          true,
	Code:           8,
	Message:        "Bad arguments",
	HttpStatusCode: 400,
}

var WalletNotConnectedError = ErrorResponse{
	Error:          true,
	Code:           2,
	Message:        "wallet not connected: no signing key configured",
	HttpStatusCode: 503,
}

var InvoiceNotFoundError = ErrorResponse{
	Error:          true,
	Code:           2,
	Message:        "invoice not found",
	HttpStatusCode: 404,
}

var ContractRevertedError = ErrorResponse{
	Error:          true,
	Code:           2,
	Message:        "contract rejected the call",
	HttpStatusCode: 400,
}

var InsufficientFundsError = ErrorResponse{
	Error:          true,
	Code:           2,
	Message:        "insufficient funds to cover the transfer and gas",
	HttpStatusCode: 400,
}

var EventNotFoundError = ErrorResponse{
	Error:          true,
	Code:           3,
	Message:        "expected contract event missing from receipt",
	HttpStatusCode: 502,
}

var NetworkError = ErrorResponse{
	Error:          true,
	Code:           4,
	Message:        "upstream node or backend unreachable. Please try again",
	HttpStatusCode: 502,
}

var TimeoutError = ErrorResponse{
	Error:          true,
	Code:           5,
	Message:        "operation timed out. Please try again",
	HttpStatusCode: 408,
}

// FromChainError picks the response matching a typed on-chain failure.
func FromChainError(err error) ErrorResponse {
	switch evm.KindOf(err) {
	case evm.KindWalletNotConnected:
		return WalletNotConnectedError
	case evm.KindValidation:
		return BadArgumentsError
	case evm.KindContractReverted, evm.KindUserRejected:
		return ContractRevertedError
	case evm.KindInsufficientFunds:
		return InsufficientFundsError
	case evm.KindEventNotFound:
		return EventNotFoundError
	case evm.KindTimeout:
		return TimeoutError
	case evm.KindNetworkError:
		return NetworkError
	default:
		return GeneralServerError
	}
}

func HTTPErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}
	c.Logger().Error(err)
	if hub := sentryecho.GetHubFromContext(c); hub != nil {
		hub.WithScope(func(scope *sentry.Scope) {
			scope.SetExtra("RequestID", c.Response().Header().Get(echo.HeaderXRequestID))
			hub.CaptureException(err)
		})
	}
	if he, ok := err.(*echo.HTTPError); ok {
		c.JSON(he.Code, he.Message)
		return
	}
	c.JSON(http.StatusInternalServerError, GeneralServerError)
}
