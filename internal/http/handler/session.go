package handler

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"docsign/internal/service"
)

type connectRequest struct {
	Wallet string `json:"wallet"`
}

// ListWallets lists the configured wallets and whether each is installed.
// @Summary List wallets
// @Tags session
// @Produce json
// @Success 200 {array} wallet.Info
// @Router /wallets [get]
func ListWallets(dir service.WalletDirectory) fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.JSON(dir.List(c.UserContext()))
	}
}

// ConnectSession connects the named wallet.
// @Summary Connect a wallet
// @Tags session
// @Accept json
// @Produce json
// @Param body body connectRequest true "wallet to connect"
// @Success 200 {object} model.Identity
// @Failure 400 {object} errorPayload
// @Failure 404 {object} errorPayload
// @Failure 409 {object} errorPayload
// @Router /session [post]
func ConnectSession(sm service.SessionManager) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req connectRequest
		if err := c.BodyParser(&req); err != nil || strings.TrimSpace(req.Wallet) == "" {
			return writeError(c, fiber.StatusBadRequest, "WALLET_REQUIRED", "wallet is required")
		}
		id, err := sm.Connect(c.UserContext(), strings.TrimSpace(req.Wallet))
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(id)
	}
}

// CurrentSession returns the current identity, connected or not.
// @Summary Current identity
// @Tags session
// @Produce json
// @Success 200 {object} model.Identity
// @Router /session [get]
func CurrentSession(sm service.SessionManager) fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.JSON(sm.Identity())
	}
}

// DisconnectSession disconnects the current wallet. Disconnecting twice is harmless.
// @Summary Disconnect the wallet
// @Tags session
// @Success 204
// @Router /session [delete]
func DisconnectSession(sm service.SessionManager) fiber.Handler {
	return func(c *fiber.Ctx) error {
		sm.Disconnect(c.UserContext())
		return c.SendStatus(fiber.StatusNoContent)
	}
}

// GetAccount returns the ledger account of the connected identity.
// @Summary Connected account
// @Tags session
// @Produce json
// @Success 200 {object} model.Account
// @Failure 401 {object} errorPayload
// @Router /account [get]
func GetAccount(accounts service.AccountReader, session service.Session) fiber.Handler {
	return func(c *fiber.Ctx) error {
		acct, err := accounts.Account(c.UserContext(), session.Identity())
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(acct)
	}
}
