package handlers

import (
	"errors"
	"strings"

	"github.com/fatflowers/karma/pkg/logctx"
	"github.com/fatflowers/karma/pkg/response"
	"github.com/fatflowers/karma/pkg/types"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// nopLog is only reached by routes mounted without RequestLoggerMiddleware.
var nopLog = zap.NewNop().Sugar()

// requestLog returns the logger RequestLoggerMiddleware attached to the request.
func requestLog(c *gin.Context) *zap.SugaredLogger {
	return logctx.FromGin(c, nopLog)
}

var sentinelCodes = []struct {
	err  error
	code response.APIResponseCode
}{
	{types.ErrInvalidInput, response.APIResponseCodeBadRequest},
	{types.ErrInvalidSignature, response.APIResponseCodeBadRequest},
	{types.ErrUnauthorized, response.APIResponseCodeUnauthorized},
	{types.ErrForbidden, response.APIResponseCodeForbidden},
	{types.ErrNotFound, response.APIResponseCodeNotFound},
	{types.ErrBudgetExceeded, response.APIResponseCodeTooManyRequests},
	{types.ErrAIDisabled, response.APIResponseCodeServiceUnavailable},
	{types.ErrUnavailable, response.APIResponseCodeServiceUnavailable},
}

// respondError writes err in the response envelope. Unknown errors become a logged 500.
func respondError(c *gin.Context, err error) {
	var planErr *types.PlanRequiredError
	if errors.As(err, &planErr) {
		c.JSON(response.APIResponseCodePaymentRequired.HTTPStatus(), response.ErrorT(response.APIResponseCodePaymentRequired, planErr))
		return
	}
	for _, s := range sentinelCodes {
		if errors.Is(err, s.err) {
			c.JSON(s.code.HTTPStatus(), response.ErrorMsg(s.code, clientMessage(err, s.err)))
			return
		}
	}
	requestLog(c).Errorw("request failed", "path", c.FullPath(), "error", err)
	c.JSON(response.APIResponseCodeError.HTTPStatus(), response.ErrorMsg(response.APIResponseCodeError, ""))
}

// clientMessage drops wrapping prefixes; "invalid input: content is required" becomes "content is required".
func clientMessage(err, sentinel error) string {
	msg := err.Error()
	if i := strings.LastIndex(msg, sentinel.Error()+": "); i >= 0 {
		return msg[i+len(sentinel.Error())+2:]
	}
	return sentinel.Error()
}

func badRequest(c *gin.Context, msg string) {
	c.JSON(response.APIResponseCodeBadRequest.HTTPStatus(), response.ErrorMsg(response.APIResponseCodeBadRequest, msg))
}

func ok[T any](c *gin.Context, data T) {
	c.JSON(response.APIResponseCodeOK.HTTPStatus(), response.OKT(data))
}
