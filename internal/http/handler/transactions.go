package handler

import (
	"bufio"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/valyala/fasthttp"

	"docsign/internal/notify"
	"docsign/internal/service"
)

// ListPending returns the in-memory transactions that have not finished.
// @Summary In-flight transactions
// @Tags transactions
// @Produce json
// @Success 200 {array} model.PendingTransaction
// @Router /transactions/pending [get]
func ListPending(ctrl service.DocumentController) fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.JSON(ctrl.Pending())
	}
}

// ListTransactions lists journaled transactions with limit & offset.
// An identity query parameter narrows the list to one address.
// @Summary List transactions
// @Tags transactions
// @Produce json
// @Param identity query string false "Address filter"
// @Param limit query int false "Max items" default(10)
// @Param offset query int false "Items to skip" default(0)
// @Success 200 {object} service.TransactionListResult
// @Failure 400 {object} errorPayload
// @Router /transactions [get]
func ListTransactions(journal service.JournalReader) fiber.Handler {
	return func(c *fiber.Ctx) error {
		limit, err := strconv.Atoi(c.Query("limit", "10"))
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_LIMIT", "invalid limit")
		}
		offset, err := strconv.Atoi(c.Query("offset", "0"))
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_OFFSET", "invalid offset")
		}

		res, err := journal.List(c.UserContext(), c.Query("identity"), limit, offset)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(res)
	}
}

// GetTransaction returns one journaled transaction.
// @Summary Get transaction
// @Tags transactions
// @Produce json
// @Param id path string true "Transaction ID"
// @Success 200 {object} model.PendingTransaction
// @Failure 404 {object} errorPayload
// @Router /transactions/{id} [get]
func GetTransaction(journal service.JournalReader) fiber.Handler {
	return func(c *fiber.Ctx) error {
		tx, err := journal.Get(c.UserContext(), c.Params("id"))
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(tx)
	}
}

// ListNotifications returns the notifications newer than the after sequence number.
// @Summary Notifications
// @Tags notifications
// @Produce json
// @Param after query int false "Last seen sequence number" default(0)
// @Success 200 {array} notify.Notification
// @Failure 400 {object} errorPayload
// @Router /notifications [get]
func ListNotifications(feed service.NotificationFeed) fiber.Handler {
	return func(c *fiber.Ctx) error {
		after, err := strconv.ParseInt(c.Query("after", "0"), 10, 64)
		if err != nil || after < 0 {
			return writeError(c, fiber.StatusBadRequest, "INVALID_AFTER", "invalid after")
		}
		return c.JSON(feed.Since(after))
	}
}

// StreamNotifications streams notifications as server-sent events, starting
// with the backlog after the after sequence number.
// @Summary Notification stream
// @Tags notifications
// @Produce text/event-stream
// @Param after query int false "Last seen sequence number" default(0)
// @Success 200 {string} string "event stream"
// @Failure 400 {object} errorPayload
// @Router /notifications/stream [get]
func StreamNotifications(feed service.NotificationFeed) fiber.Handler {
	return func(c *fiber.Ctx) error {
		after, err := strconv.ParseInt(c.Query("after", "0"), 10, 64)
		if err != nil || after < 0 {
			return writeError(c, fiber.StatusBadRequest, "INVALID_AFTER", "invalid after")
		}

		backlog, ch, cancel := feed.Subscribe(after)

		c.Set(fiber.HeaderContentType, "text/event-stream")
		c.Set(fiber.HeaderCacheControl, "no-cache")
		c.Set(fiber.HeaderConnection, "keep-alive")

		c.Context().SetBodyStreamWriter(fasthttp.StreamWriter(func(w *bufio.Writer) {
			defer cancel()
			for _, n := range backlog {
				if writeEvent(w, n) != nil {
					return
				}
			}
			heartbeat := time.NewTicker(sseHeartbeat)
			defer heartbeat.Stop()
			for {
				select {
				case n, ok := <-ch:
					if !ok {
						return
					}
					if writeEvent(w, n) != nil {
						return
					}
				case <-heartbeat.C:
					// A failed flush means the client went away.
					if _, err := w.WriteString(": ping\n\n"); err != nil {
						return
					}
					if w.Flush() != nil {
						return
					}
				}
			}
		}))
		return nil
	}
}

const sseHeartbeat = 15 * time.Second

func writeEvent(w *bufio.Writer, n notify.Notification) error {
	b, err := json.Marshal(n)
	if err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "id: %d\nevent: notification\ndata: %s\n\n", n.Seq, b); err != nil {
		return err
	}
	return w.Flush()
}
