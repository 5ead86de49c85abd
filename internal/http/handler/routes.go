package handler

import (
	"database/sql"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/swagger"

	"docsign/docs"
	"docsign/internal/service"
)

// Dependencies are the collaborators the HTTP layer is wired to.
// DB and Content are optional.
type Dependencies struct {
	DB            *sql.DB
	Session       service.SessionManager
	Wallets       service.WalletDirectory
	Accounts      service.AccountReader
	Documents     service.DocumentReader
	Controller    service.DocumentController
	Journal       service.JournalReader
	Notifications service.NotificationFeed
	Content       ContentOpener
}

// RegisterRoutes attaches HTTP routes to the provided Fiber app.
func RegisterRoutes(app *fiber.App, deps Dependencies) {
	app.Get("/health", HealthCheck(deps.DB))
	app.Get("/healthz", LivenessProbe())

	app.Get("/wallets", ListWallets(deps.Wallets))
	app.Get("/session", CurrentSession(deps.Session))
	app.Post("/session", ConnectSession(deps.Session))
	app.Delete("/session", DisconnectSession(deps.Session))
	app.Get("/account", GetAccount(deps.Accounts, deps.Session))

	app.Get("/documents", ListDocuments(deps.Documents, deps.Session))
	app.Post("/documents", CreateDocument(deps.Controller, deps.Session))
	app.Get("/documents/:id", GetDocument(deps.Documents, deps.Session))
	app.Post("/documents/:id/sign", SignDocument(deps.Documents, deps.Controller, deps.Session))
	app.Delete("/documents/:id", DeleteDocument(deps.Documents, deps.Controller, deps.Session))

	if deps.Content != nil {
		app.Get("/ipfs/:cid", GetContent(deps.Content))
	}

	app.Get("/transactions", ListTransactions(deps.Journal))
	app.Get("/transactions/pending", ListPending(deps.Controller))
	app.Get("/transactions/:id", GetTransaction(deps.Journal))

	app.Get("/notifications", ListNotifications(deps.Notifications))
	app.Get("/notifications/stream", StreamNotifications(deps.Notifications))

	// Swagger UI with dynamic host and scheme
	app.Get("/swagger/*", func(c *fiber.Ctx) error {
		scheme := c.Protocol()
		if proto := c.Get("X-Forwarded-Proto"); proto != "" {
			scheme = strings.Split(proto, ",")[0]
		}

		docs.SwaggerInfo.Host = c.Get("Host")
		docs.SwaggerInfo.Schemes = []string{scheme}

		return swagger.HandlerDefault(c)
	})
}
