package middleware

import "github.com/gofiber/fiber/v2"

// NoStore marks responses as uncacheable. Session, account and document
// views all depend on the connected wallet.
func NoStore() fiber.Handler {
	return func(c *fiber.Ctx) error {
		err := c.Next()
		c.Set(fiber.HeaderCacheControl, "no-store")
		return err
	}
}
