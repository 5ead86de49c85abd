package handler

import (
	"context"
	"errors"
	"io"

	"github.com/gofiber/fiber/v2"

	"docsign/internal/service"
	"docsign/internal/storage"
)

// ContentOpener streams stored document content by content id.
type ContentOpener interface {
	Open(ctx context.Context, contentID string) (io.ReadCloser, storage.ObjectInfo, error)
}

// ListDocuments lists the documents visible to the connected identity.
// A registry read failure still answers 200 with query_failed set.
// @Summary List documents
// @Tags documents
// @Produce json
// @Success 200 {object} service.ListResult
// @Router /documents [get]
func ListDocuments(view service.DocumentReader, session service.Session) fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.JSON(view.List(c.UserContext(), session.Identity()))
	}
}

// GetDocument returns one document of the connected identity.
// @Summary Get document
// @Tags documents
// @Produce json
// @Param id path string true "Document ID"
// @Success 200 {object} model.Document
// @Failure 401 {object} errorPayload
// @Failure 404 {object} errorPayload
// @Failure 502 {object} errorPayload
// @Router /documents/{id} [get]
func GetDocument(view service.DocumentReader, session service.Session) fiber.Handler {
	return func(c *fiber.Ctx) error {
		doc, err := view.Get(c.UserContext(), session.Identity(), c.Params("id"))
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(doc)
	}
}

// CreateDocument uploads a file and registers it on the ledger (multipart/form-data, field name: file).
// @Summary Create document
// @Tags documents
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "Document file"
// @Success 201 {object} model.PendingTransaction
// @Failure 400 {object} errorPayload
// @Failure 401 {object} errorPayload
// @Failure 409 {object} errorPayload
// @Failure 502 {object} errorPayload
// @Router /documents [post]
func CreateDocument(ctrl service.DocumentController, session service.Session) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var (
			r        io.Reader
			filename string
			size     int64
		)
		if fh, err := c.FormFile("file"); err == nil {
			f, err := fh.Open()
			if err != nil {
				return writeError(c, fiber.StatusBadRequest, "FILE_OPEN_ERROR", "cannot open uploaded file")
			}
			defer f.Close()
			r, filename, size = f, fh.Filename, fh.Size
		}

		// A missing file still goes through the controller so the user is notified.
		tx, err := ctrl.CreateDocument(c.UserContext(), session, filename, r, size)
		if err != nil {
			if errors.Is(err, service.ErrInputInvalid) {
				return writeError(c, fiber.StatusBadRequest, "FILE_REQUIRED", "file is required")
			}
			return writeServiceError(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(tx)
	}
}

// SignDocument adds the connected identity's signature to a document.
// @Summary Sign document
// @Tags documents
// @Produce json
// @Param id path string true "Document ID"
// @Success 200 {object} model.PendingTransaction
// @Failure 401 {object} errorPayload
// @Failure 403 {object} errorPayload
// @Failure 404 {object} errorPayload
// @Failure 409 {object} errorPayload
// @Router /documents/{id}/sign [post]
func SignDocument(view service.DocumentReader, ctrl service.DocumentController, session service.Session) fiber.Handler {
	return func(c *fiber.Ctx) error {
		doc, err := view.Get(c.UserContext(), session.Identity(), c.Params("id"))
		if err != nil {
			return writeServiceError(c, err)
		}
		tx, err := ctrl.SignDocument(c.UserContext(), session, doc)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(tx)
	}
}

// DeleteDocument removes a document owned by the connected identity.
// @Summary Delete document
// @Tags documents
// @Produce json
// @Param id path string true "Document ID"
// @Success 200 {object} model.PendingTransaction
// @Failure 401 {object} errorPayload
// @Failure 403 {object} errorPayload
// @Failure 404 {object} errorPayload
// @Failure 409 {object} errorPayload
// @Router /documents/{id} [delete]
func DeleteDocument(view service.DocumentReader, ctrl service.DocumentController, session service.Session) fiber.Handler {
	return func(c *fiber.Ctx) error {
		doc, err := view.Get(c.UserContext(), session.Identity(), c.Params("id"))
		if err != nil {
			return writeServiceError(c, err)
		}
		tx, err := ctrl.DeleteDocument(c.UserContext(), session, doc)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(tx)
	}
}

// GetContent streams stored document bytes by content id.
// @Summary Download content
// @Tags documents
// @Produce octet-stream
// @Param cid path string true "Content ID"
// @Success 200 {file} binary
// @Failure 404 {object} errorPayload
// @Failure 502 {object} errorPayload
// @Router /ipfs/{cid} [get]
func GetContent(opener ContentOpener) fiber.Handler {
	return func(c *fiber.Ctx) error {
		rc, info, err := opener.Open(c.UserContext(), c.Params("cid"))
		if err != nil {
			return writeServiceError(c, err)
		}
		ct := info.ContentType
		if ct == "" {
			ct = fiber.MIMEOctetStream
		}
		c.Set(fiber.HeaderContentType, ct)
		size := -1
		if info.Size > 0 {
			size = int(info.Size)
		}
		return c.SendStream(rc, size)
	}
}
