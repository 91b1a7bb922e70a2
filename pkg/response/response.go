package response

import "net/http"

// APIResponseCode is the business code carried in every response envelope.
type APIResponseCode int

const (
	APIResponseCodeOK                 APIResponseCode = 0
	APIResponseCodeBadRequest         APIResponseCode = 40000
	APIResponseCodeUnauthorized       APIResponseCode = 40100
	APIResponseCodePaymentRequired    APIResponseCode = 40200
	APIResponseCodeForbidden          APIResponseCode = 40300
	APIResponseCodeNotFound           APIResponseCode = 40400
	APIResponseCodeTooManyRequests    APIResponseCode = 42900
	APIResponseCodeError              APIResponseCode = 50000
	APIResponseCodeServiceUnavailable APIResponseCode = 50300
)

var codeToMsg = map[APIResponseCode]string{
	APIResponseCodeOK:                 "ok",
	APIResponseCodeBadRequest:         "bad request",
	APIResponseCodeUnauthorized:       "unauthorized",
	APIResponseCodePaymentRequired:    "subscription required",
	APIResponseCodeForbidden:          "forbidden",
	APIResponseCodeNotFound:           "not found",
	APIResponseCodeTooManyRequests:    "too many requests",
	APIResponseCodeError:              "internal error",
	APIResponseCodeServiceUnavailable: "service unavailable",
}

var codeToStatus = map[APIResponseCode]int{
	APIResponseCodeOK:                 http.StatusOK,
	APIResponseCodeBadRequest:         http.StatusBadRequest,
	APIResponseCodeUnauthorized:       http.StatusUnauthorized,
	APIResponseCodePaymentRequired:    http.StatusPaymentRequired,
	APIResponseCodeForbidden:          http.StatusForbidden,
	APIResponseCodeNotFound:           http.StatusNotFound,
	APIResponseCodeTooManyRequests:    http.StatusTooManyRequests,
	APIResponseCodeError:              http.StatusInternalServerError,
	APIResponseCodeServiceUnavailable: http.StatusServiceUnavailable,
}

// HTTPStatus returns the HTTP status paired with the code.
func (c APIResponseCode) HTTPStatus() int {
	if s, ok := codeToStatus[c]; ok {
		return s
	}
	return http.StatusInternalServerError
}

// Message returns the default message for the code.
func (c APIResponseCode) Message() string {
	return codeToMsg[c]
}

// APIResponse is the generic response envelope used by HTTP APIs.
// Use OKT / ErrorT helpers to construct instances.
type APIResponse[T any] struct {
	Code    APIResponseCode `json:"code"`
	Message string          `json:"message"`
	Data    T               `json:"data"`
}

// OKT returns a successful response with data.
func OKT[T any](data T) *APIResponse[T] {
	return &APIResponse[T]{Code: APIResponseCodeOK, Message: codeToMsg[APIResponseCodeOK], Data: data}
}

// ErrorT returns an error response with the default message and optional data.
func ErrorT[T any](code APIResponseCode, data T) *APIResponse[T] {
	return &APIResponse[T]{Code: code, Message: codeToMsg[code], Data: data}
}

// ErrorMsg returns an error response with a custom message.
func ErrorMsg(code APIResponseCode, message string) *APIResponse[any] {
	if message == "" {
		message = codeToMsg[code]
	}
	return &APIResponse[any]{Code: code, Message: message}
}
