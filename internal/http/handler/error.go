package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"docsign/internal/http/middleware"
	"docsign/internal/ledger"
	"docsign/internal/service"
	"docsign/internal/storage"
	"docsign/internal/wallet"
)

// errorPayload defines the standardized error response body.
type errorPayload struct {
	RequestID string        `json:"request_id"`
	Error     errorEnvelope `json:"error"`
}

type errorEnvelope struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// requestIDFromCtx extracts request_id previously stored by middleware.RequestID.
func requestIDFromCtx(c *fiber.Ctx) string {
	if v := c.Locals(middleware.RequestIDLocalKey); v != nil {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

// writeError writes a standardized JSON error response without leaking internal errors.
//
// Parameters:
// - status: HTTP status code to return
// - code: machine-readable short error code (e.g., "INVALID_ID", "NOT_FOUND", "INTERNAL_ERROR")
// - message: human-readable safe message (no internal details)
func writeError(c *fiber.Ctx, status int, code, message string) error {
	res := errorPayload{
		RequestID: requestIDFromCtx(c),
		Error: errorEnvelope{
			Code:    code,
			Message: message,
		},
	}
	return c.Status(status).JSON(res)
}

// ErrorHandler returns a Fiber global error handler that standardizes error responses.
func ErrorHandler() fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		status := fiber.StatusInternalServerError
		if e, ok := err.(*fiber.Error); ok {
			status = e.Code
		}

		switch status {
		case fiber.StatusBadRequest:
			return writeError(c, status, "BAD_REQUEST", "bad request")
		case fiber.StatusNotFound:
			return writeError(c, status, "NOT_FOUND", "resource not found")
		case fiber.StatusMethodNotAllowed:
			return writeError(c, status, "METHOD_NOT_ALLOWED", "method not allowed")
		default:
			return writeError(c, status, "INTERNAL_ERROR", "internal server error")
		}
	}
}

// errorMappings pairs a sentinel with its HTTP rendering. Order matters:
// the first match wins.
var errorMappings = []struct {
	target  error
	status  int
	code    string
	message string
}{
	{service.ErrInputInvalid, fiber.StatusBadRequest, "INVALID_INPUT", "invalid input"},
	{service.ErrNotConnected, fiber.StatusUnauthorized, "NOT_CONNECTED", "no wallet connected"},
	{service.ErrUnauthorized, fiber.StatusForbidden, "UNAUTHORIZED", "not authorized for this document"},
	{service.ErrNotFound, fiber.StatusNotFound, "NOT_FOUND", "resource not found"},
	{service.ErrInFlight, fiber.StatusConflict, "IN_FLIGHT", "a request of this kind is already in flight"},
	{wallet.ErrUnknownWallet, fiber.StatusNotFound, "UNKNOWN_WALLET", "unknown wallet"},
	{wallet.ErrNotReady, fiber.StatusConflict, "WALLET_NOT_READY", "wallet is not installed"},
	{wallet.ErrUserRejected, fiber.StatusConflict, "USER_REJECTED", "request rejected in the wallet"},
	{storage.ErrObjectNotFound, fiber.StatusNotFound, "NOT_FOUND", "content not found"},
	{storage.ErrStorageUnavailable, fiber.StatusBadGateway, "STORAGE_UNAVAILABLE", "content store unavailable"},
	{ledger.ErrAccountUnfunded, fiber.StatusPaymentRequired, "ACCOUNT_UNFUNDED", "account has no funds"},
	{ledger.ErrLedgerRejected, fiber.StatusUnprocessableEntity, "LEDGER_REJECTED", "transaction rejected by the ledger"},
	{ledger.ErrQueryFailed, fiber.StatusBadGateway, "QUERY_FAILED", "ledger query failed"},
	{ledger.ErrNetwork, fiber.StatusGatewayTimeout, "NETWORK_ERROR", "ledger unreachable"},
}

// writeServiceError maps a service-layer error to the standardized error response.
func writeServiceError(c *fiber.Ctx, err error) error {
	for _, m := range errorMappings {
		if errors.Is(err, m.target) {
			return writeError(c, m.status, m.code, m.message)
		}
	}
	return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
}
