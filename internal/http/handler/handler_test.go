package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"docsign/internal/ledger"
	"docsign/internal/model"
	"docsign/internal/notify"
	"docsign/internal/service"
	serviceMocks "docsign/internal/service/mocks"
	"docsign/internal/storage"
	"docsign/internal/wallet"
)

var alice = model.Identity{Address: "0xa", Wallet: "Petra", Connected: true}

func decodeError(t *testing.T, resp *http.Response) errorPayload {
	t.Helper()
	var body errorPayload
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	return body
}

func connectedSession() *serviceMocks.MockSession {
	s := new(serviceMocks.MockSession)
	s.On("Identity").Return(alice)
	return s
}

func TestHealthCheck(t *testing.T) {
	db, dbMock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	require.NoError(t, err)
	defer db.Close()

	app := fiber.New()
	app.Get("/health", HealthCheck(db))

	t.Run("healthy", func(t *testing.T) {
		dbMock.ExpectPing().WillReturnError(nil)

		req := httptest.NewRequest(http.MethodGet, "/health", nil)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusOK, resp.StatusCode)

		var body map[string]string
		json.NewDecoder(resp.Body).Decode(&body)
		assert.Equal(t, "healthy", body["status"])
	})

	t.Run("unhealthy", func(t *testing.T) {
		dbMock.ExpectPing().WillReturnError(errors.New("db error"))

		req := httptest.NewRequest(http.MethodGet, "/health", nil)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
		assert.Equal(t, "SERVICE_UNAVAILABLE", decodeError(t, resp).Error.Code)
	})

	t.Run("no database", func(t *testing.T) {
		app := fiber.New()
		app.Get("/health", HealthCheck(nil))

		resp, _ := app.Test(httptest.NewRequest(http.MethodGet, "/health", nil))
		assert.Equal(t, http.StatusOK, resp.StatusCode)
	})
}

func TestLivenessProbe(t *testing.T) {
	app := fiber.New()
	app.Get("/healthz", LivenessProbe())

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	resp, _ := app.Test(req)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestListWallets(t *testing.T) {
	dir := new(serviceMocks.MockWalletDirectory)
	app := fiber.New()
	app.Get("/wallets", ListWallets(dir))

	dir.On("List", mock.Anything).Return([]wallet.Info{
		{Name: "Petra", ReadyState: wallet.Installed},
		{Name: "Martian", URL: "https://martian.example", ReadyState: wallet.NotDetected},
	}).Once()

	resp, _ := app.Test(httptest.NewRequest(http.MethodGet, "/wallets", nil))
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var got []wallet.Info
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&got))
	require.Len(t, got, 2)
	assert.Equal(t, wallet.NotDetected, got[1].ReadyState)
	dir.AssertExpectations(t)
}

func TestSession(t *testing.T) {
	sm := new(serviceMocks.MockSession)
	app := fiber.New()
	app.Get("/session", CurrentSession(sm))
	app.Post("/session", ConnectSession(sm))
	app.Delete("/session", DisconnectSession(sm))

	connect := func(body string) *http.Response {
		req := httptest.NewRequest(http.MethodPost, "/session", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		resp, _ := app.Test(req)
		return resp
	}

	t.Run("connect", func(t *testing.T) {
		sm.On("Connect", mock.Anything, "Petra").Return(alice, nil).Once()

		resp := connect(`{"wallet":"Petra"}`)
		assert.Equal(t, http.StatusOK, resp.StatusCode)

		var id model.Identity
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&id))
		assert.Equal(t, "0xa", id.Address)
		assert.True(t, id.Connected)
	})

	t.Run("connect without wallet", func(t *testing.T) {
		resp := connect(`{}`)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		assert.Equal(t, "WALLET_REQUIRED", decodeError(t, resp).Error.Code)
	})

	t.Run("connect errors", func(t *testing.T) {
		cases := []struct {
			err    error
			status int
			code   string
		}{
			{wallet.ErrUnknownWallet, http.StatusNotFound, "UNKNOWN_WALLET"},
			{wallet.ErrNotReady, http.StatusConflict, "WALLET_NOT_READY"},
			{fmt.Errorf("connect: %w", wallet.ErrUserRejected), http.StatusConflict, "USER_REJECTED"},
		}
		for _, tc := range cases {
			sm.On("Connect", mock.Anything, "Nope").Return(model.Identity{}, tc.err).Once()
			resp := connect(`{"wallet":"Nope"}`)
			assert.Equal(t, tc.status, resp.StatusCode)
			assert.Equal(t, tc.code, decodeError(t, resp).Error.Code)
		}
	})

	t.Run("current", func(t *testing.T) {
		sm.On("Identity").Return(model.Identity{}).Once()

		resp, _ := app.Test(httptest.NewRequest(http.MethodGet, "/session", nil))
		assert.Equal(t, http.StatusOK, resp.StatusCode)

		var id model.Identity
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&id))
		assert.False(t, id.Connected)
	})

	t.Run("disconnect", func(t *testing.T) {
		sm.On("Disconnect", mock.Anything).Return().Once()

		resp, _ := app.Test(httptest.NewRequest(http.MethodDelete, "/session", nil))
		assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	})

	sm.AssertExpectations(t)
}

func TestGetAccount(t *testing.T) {
	accounts := new(serviceMocks.MockProvisioner)
	session := connectedSession()
	app := fiber.New()
	app.Get("/account", GetAccount(accounts, session))

	t.Run("success", func(t *testing.T) {
		accounts.On("Account", mock.Anything, alice).Return(model.Account{Address: "0xa", Exists: true, Balance: 150000000}, nil).Once()

		resp, _ := app.Test(httptest.NewRequest(http.MethodGet, "/account", nil))
		assert.Equal(t, http.StatusOK, resp.StatusCode)

		var acct model.Account
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&acct))
		assert.Equal(t, uint64(150000000), acct.Balance)
	})

	t.Run("not connected", func(t *testing.T) {
		accounts.On("Account", mock.Anything, alice).Return(model.Account{}, service.ErrNotConnected).Once()

		resp, _ := app.Test(httptest.NewRequest(http.MethodGet, "/account", nil))
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
		assert.Equal(t, "NOT_CONNECTED", decodeError(t, resp).Error.Code)
	})
}

func TestListDocuments(t *testing.T) {
	view := new(serviceMocks.MockDocumentReader)
	app := fiber.New()
	app.Get("/documents", ListDocuments(view, connectedSession()))

	t.Run("success", func(t *testing.T) {
		view.On("List", mock.Anything, alice).Return(service.ListResult{
			Items: []model.Document{{ID: "d1", Name: "contract.pdf", Owner: "0xa", CanDelete: true}},
		}).Once()

		resp, _ := app.Test(httptest.NewRequest(http.MethodGet, "/documents", nil))
		assert.Equal(t, http.StatusOK, resp.StatusCode)

		var result service.ListResult
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&result))
		require.Len(t, result.Items, 1)
		assert.True(t, result.Items[0].CanDelete)
		assert.False(t, result.QueryFailed)
	})

	t.Run("query failed is still ok", func(t *testing.T) {
		view.On("List", mock.Anything, alice).Return(service.ListResult{Items: []model.Document{}, QueryFailed: true}).Once()

		resp, _ := app.Test(httptest.NewRequest(http.MethodGet, "/documents", nil))
		assert.Equal(t, http.StatusOK, resp.StatusCode)

		var result service.ListResult
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&result))
		assert.Empty(t, result.Items)
		assert.True(t, result.QueryFailed)
	})

	view.AssertExpectations(t)
}

func TestGetDocument(t *testing.T) {
	view := new(serviceMocks.MockDocumentReader)
	app := fiber.New()
	app.Get("/documents/:id", GetDocument(view, connectedSession()))

	t.Run("success", func(t *testing.T) {
		view.On("Get", mock.Anything, alice, "d1").Return(model.Document{ID: "d1", Name: "contract.pdf"}, nil).Once()

		resp, _ := app.Test(httptest.NewRequest(http.MethodGet, "/documents/d1", nil))
		assert.Equal(t, http.StatusOK, resp.StatusCode)

		var doc model.Document
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&doc))
		assert.Equal(t, "contract.pdf", doc.Name)
	})

	t.Run("not found", func(t *testing.T) {
		view.On("Get", mock.Anything, alice, "nope").Return(model.Document{}, service.ErrNotFound).Once()

		resp, _ := app.Test(httptest.NewRequest(http.MethodGet, "/documents/nope", nil))
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
		assert.Equal(t, "NOT_FOUND", decodeError(t, resp).Error.Code)
	})

	t.Run("registry unreadable", func(t *testing.T) {
		view.On("Get", mock.Anything, alice, "d1").Return(model.Document{}, fmt.Errorf("get: %w", ledger.ErrQueryFailed)).Once()

		resp, _ := app.Test(httptest.NewRequest(http.MethodGet, "/documents/d1", nil))
		assert.Equal(t, http.StatusBadGateway, resp.StatusCode)
		assert.Equal(t, "QUERY_FAILED", decodeError(t, resp).Error.Code)
	})
}

func multipartBody(t *testing.T, filename, content string) (*bytes.Buffer, string) {
	t.Helper()
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	part, err := writer.CreateFormFile("file", filename)
	require.NoError(t, err)
	part.Write([]byte(content))
	require.NoError(t, writer.Close())
	return body, writer.FormDataContentType()
}

func TestCreateDocument(t *testing.T) {
	ctrl := new(serviceMocks.MockDocumentController)
	session := connectedSession()
	app := fiber.New()
	app.Post("/documents", CreateDocument(ctrl, session))

	t.Run("success", func(t *testing.T) {
		body, ct := multipartBody(t, "contract.pdf", "hello world")
		tx := model.PendingTransaction{ID: "t1", Function: model.FnCreateDocument, Status: model.TxConfirmed, ResultHash: "0xh"}
		ctrl.On("CreateDocument", mock.Anything, session, "contract.pdf", mock.Anything, int64(11)).
			Run(func(args mock.Arguments) {
				b, err := io.ReadAll(args.Get(3).(io.Reader))
				require.NoError(t, err)
				assert.Equal(t, "hello world", string(b))
			}).
			Return(tx, nil).Once()

		req := httptest.NewRequest(http.MethodPost, "/documents", body)
		req.Header.Set("Content-Type", ct)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusCreated, resp.StatusCode)

		var got model.PendingTransaction
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&got))
		assert.Equal(t, "0xh", got.ResultHash)
		assert.Equal(t, model.TxConfirmed, got.Status)
	})

	t.Run("no file", func(t *testing.T) {
		ctrl.On("CreateDocument", mock.Anything, session, "", mock.Anything, int64(0)).
			Return(model.PendingTransaction{}, service.ErrInputInvalid).Once()

		resp, _ := app.Test(httptest.NewRequest(http.MethodPost, "/documents", nil))

		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		assert.Equal(t, "FILE_REQUIRED", decodeError(t, resp).Error.Code)
	})

	t.Run("failures", func(t *testing.T) {
		cases := []struct {
			err    error
			status int
			code   string
		}{
			{fmt.Errorf("upload: %w", storage.ErrStorageUnavailable), http.StatusBadGateway, "STORAGE_UNAVAILABLE"},
			{service.ErrNotConnected, http.StatusUnauthorized, "NOT_CONNECTED"},
			{service.ErrInFlight, http.StatusConflict, "IN_FLIGHT"},
			{wallet.ErrUserRejected, http.StatusConflict, "USER_REJECTED"},
			{&ledger.RejectionError{Reason: "INSUFFICIENT_BALANCE_FOR_TRANSACTION_FEE"}, http.StatusPaymentRequired, "ACCOUNT_UNFUNDED"},
			{&ledger.RejectionError{Reason: "Move abort"}, http.StatusUnprocessableEntity, "LEDGER_REJECTED"},
			{fmt.Errorf("submit: %w", ledger.ErrNetwork), http.StatusGatewayTimeout, "NETWORK_ERROR"},
			{errors.New("boom"), http.StatusInternalServerError, "INTERNAL_ERROR"},
		}
		for _, tc := range cases {
			body, ct := multipartBody(t, "a.txt", "x")
			ctrl.On("CreateDocument", mock.Anything, session, "a.txt", mock.Anything, int64(1)).
				Return(model.PendingTransaction{}, tc.err).Once()

			req := httptest.NewRequest(http.MethodPost, "/documents", body)
			req.Header.Set("Content-Type", ct)
			resp, _ := app.Test(req)

			assert.Equal(t, tc.status, resp.StatusCode, tc.code)
			assert.Equal(t, tc.code, decodeError(t, resp).Error.Code)
		}
	})

	ctrl.AssertExpectations(t)
}

func TestSignDocument(t *testing.T) {
	view := new(serviceMocks.MockDocumentReader)
	ctrl := new(serviceMocks.MockDocumentController)
	session := connectedSession()
	app := fiber.New()
	app.Post("/documents/:id/sign", SignDocument(view, ctrl, session))

	doc := model.Document{ID: "d2", Owner: "0xc", UsersToSign: []string{"0xa"}, CanSign: true}

	t.Run("success", func(t *testing.T) {
		view.On("Get", mock.Anything, alice, "d2").Return(doc, nil).Once()
		ctrl.On("SignDocument", mock.Anything, session, doc).
			Return(model.PendingTransaction{ID: "t2", Function: model.FnSignDocument, Status: model.TxConfirmed}, nil).Once()

		resp, _ := app.Test(httptest.NewRequest(http.MethodPost, "/documents/d2/sign", nil))
		assert.Equal(t, http.StatusOK, resp.StatusCode)
	})

	t.Run("unauthorized", func(t *testing.T) {
		view.On("Get", mock.Anything, alice, "d2").Return(doc, nil).Once()
		ctrl.On("SignDocument", mock.Anything, session, doc).Return(model.PendingTransaction{}, service.ErrUnauthorized).Once()

		resp, _ := app.Test(httptest.NewRequest(http.MethodPost, "/documents/d2/sign", nil))
		assert.Equal(t, http.StatusForbidden, resp.StatusCode)
		assert.Equal(t, "UNAUTHORIZED", decodeError(t, resp).Error.Code)
	})

	t.Run("unknown document", func(t *testing.T) {
		view.On("Get", mock.Anything, alice, "gone").Return(model.Document{}, service.ErrNotFound).Once()

		resp, _ := app.Test(httptest.NewRequest(http.MethodPost, "/documents/gone/sign", nil))
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})

	view.AssertExpectations(t)
	ctrl.AssertExpectations(t)
}

func TestDeleteDocument(t *testing.T) {
	view := new(serviceMocks.MockDocumentReader)
	ctrl := new(serviceMocks.MockDocumentController)
	session := connectedSession()
	app := fiber.New()
	app.Delete("/documents/:id", DeleteDocument(view, ctrl, session))

	doc := model.Document{ID: "d1", Owner: "0xa", CanDelete: true}

	t.Run("success", func(t *testing.T) {
		view.On("Get", mock.Anything, alice, "d1").Return(doc, nil).Once()
		ctrl.On("DeleteDocument", mock.Anything, session, doc).
			Return(model.PendingTransaction{ID: "t3", Function: model.FnDeleteDocument, Status: model.TxConfirmed}, nil).Once()

		resp, _ := app.Test(httptest.NewRequest(http.MethodDelete, "/documents/d1", nil))
		assert.Equal(t, http.StatusOK, resp.StatusCode)

		var got model.PendingTransaction
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&got))
		assert.Equal(t, model.FnDeleteDocument, got.Function)
	})

	t.Run("in flight", func(t *testing.T) {
		view.On("Get", mock.Anything, alice, "d1").Return(doc, nil).Once()
		ctrl.On("DeleteDocument", mock.Anything, session, doc).Return(model.PendingTransaction{}, service.ErrInFlight).Once()

		resp, _ := app.Test(httptest.NewRequest(http.MethodDelete, "/documents/d1", nil))
		assert.Equal(t, http.StatusConflict, resp.StatusCode)
		assert.Equal(t, "IN_FLIGHT", decodeError(t, resp).Error.Code)
	})

	view.AssertExpectations(t)
	ctrl.AssertExpectations(t)
}

type stubOpener struct {
	content string
	err     error
}

func (s stubOpener) Open(_ context.Context, _ string) (io.ReadCloser, storage.ObjectInfo, error) {
	if s.err != nil {
		return nil, storage.ObjectInfo{}, s.err
	}
	return io.NopCloser(strings.NewReader(s.content)), storage.ObjectInfo{Size: int64(len(s.content)), ContentType: "text/plain"}, nil
}

func TestGetContent(t *testing.T) {
	t.Run("streams content", func(t *testing.T) {
		app := fiber.New()
		app.Get("/ipfs/:cid", GetContent(stubOpener{content: "hello"}))

		resp, _ := app.Test(httptest.NewRequest(http.MethodGet, "/ipfs/bafy", nil))
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, "text/plain", resp.Header.Get("Content-Type"))
		b, _ := io.ReadAll(resp.Body)
		assert.Equal(t, "hello", string(b))
	})

	t.Run("missing", func(t *testing.T) {
		app := fiber.New()
		app.Get("/ipfs/:cid", GetContent(stubOpener{err: storage.ErrObjectNotFound}))

		resp, _ := app.Test(httptest.NewRequest(http.MethodGet, "/ipfs/bafy", nil))
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})
}

func TestTransactions(t *testing.T) {
	journal := new(serviceMocks.MockJournalReader)
	ctrl := new(serviceMocks.MockDocumentController)
	app := fiber.New()
	app.Get("/transactions", ListTransactions(journal))
	app.Get("/transactions/pending", ListPending(ctrl))
	app.Get("/transactions/:id", GetTransaction(journal))

	t.Run("list", func(t *testing.T) {
		journal.On("List", mock.Anything, "0xa", 5, 10).Return(&service.TransactionListResult{
			Items: []model.PendingTransaction{{ID: "t1"}},
			Total: 11,
		}, nil).Once()

		resp, _ := app.Test(httptest.NewRequest(http.MethodGet, "/transactions?identity=0xa&limit=5&offset=10", nil))
		assert.Equal(t, http.StatusOK, resp.StatusCode)

		var res service.TransactionListResult
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&res))
		assert.Equal(t, 11, res.Total)
	})

	t.Run("invalid limit", func(t *testing.T) {
		resp, _ := app.Test(httptest.NewRequest(http.MethodGet, "/transactions?limit=abc", nil))
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		assert.Equal(t, "INVALID_LIMIT", decodeError(t, resp).Error.Code)
	})

	t.Run("invalid offset", func(t *testing.T) {
		resp, _ := app.Test(httptest.NewRequest(http.MethodGet, "/transactions?offset=x", nil))
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		assert.Equal(t, "INVALID_OFFSET", decodeError(t, resp).Error.Code)
	})

	t.Run("journal error", func(t *testing.T) {
		journal.On("List", mock.Anything, "", 10, 0).Return(nil, errors.New("db error")).Once()

		resp, _ := app.Test(httptest.NewRequest(http.MethodGet, "/transactions", nil))
		assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	})

	t.Run("pending", func(t *testing.T) {
		ctrl.On("Pending").Return([]model.PendingTransaction{{ID: "t9", Status: model.TxAwaitingSignature}}).Once()

		resp, _ := app.Test(httptest.NewRequest(http.MethodGet, "/transactions/pending", nil))
		assert.Equal(t, http.StatusOK, resp.StatusCode)

		var got []model.PendingTransaction
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&got))
		require.Len(t, got, 1)
		assert.Equal(t, model.TxAwaitingSignature, got[0].Status)
	})

	t.Run("get", func(t *testing.T) {
		journal.On("Get", mock.Anything, "t1").Return(&model.PendingTransaction{ID: "t1"}, nil).Once()
		journal.On("Get", mock.Anything, "t404").Return(nil, service.ErrNotFound).Once()

		resp, _ := app.Test(httptest.NewRequest(http.MethodGet, "/transactions/t1", nil))
		assert.Equal(t, http.StatusOK, resp.StatusCode)

		resp, _ = app.Test(httptest.NewRequest(http.MethodGet, "/transactions/t404", nil))
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})

	journal.AssertExpectations(t)
	ctrl.AssertExpectations(t)
}

func TestListNotifications(t *testing.T) {
	feed := new(serviceMocks.MockNotificationFeed)
	app := fiber.New()
	app.Get("/notifications", ListNotifications(feed))

	feed.On("Since", int64(3)).Return([]notify.Notification{
		{Seq: 4, Title: "Document Created", Description: "Document created by 0xa"},
	}).Once()

	resp, _ := app.Test(httptest.NewRequest(http.MethodGet, "/notifications?after=3", nil))
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var got []notify.Notification
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&got))
	require.Len(t, got, 1)
	assert.Equal(t, "Document Created", got[0].Title)

	resp, _ = app.Test(httptest.NewRequest(http.MethodGet, "/notifications?after=-1", nil))
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	feed.AssertExpectations(t)
}

func TestStreamNotifications(t *testing.T) {
	feed := new(serviceMocks.MockNotificationFeed)
	app := fiber.New()
	app.Get("/notifications/stream", StreamNotifications(feed))

	live := make(chan notify.Notification, 1)
	live <- notify.Notification{Seq: 3, Title: "Document Signed"}
	close(live)
	cancelled := false
	feed.On("Subscribe", int64(1)).Return(
		[]notify.Notification{{Seq: 2, Title: "Transaction Submitted"}},
		live,
		func() { cancelled = true },
	).Once()

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/notifications/stream?after=1", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "text/event-stream", resp.Header.Get("Content-Type"))

	b, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	body := string(b)
	assert.Contains(t, body, "id: 2\nevent: notification\n")
	assert.Contains(t, body, `"title":"Transaction Submitted"`)
	assert.Contains(t, body, "id: 3\n")
	assert.Less(t, strings.Index(body, "id: 2"), strings.Index(body, "id: 3"))
	assert.True(t, cancelled)
	feed.AssertExpectations(t)

	resp, _ = app.Test(httptest.NewRequest(http.MethodGet, "/notifications/stream?after=x", nil))
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestRouting(t *testing.T) {
	app := fiber.New(fiber.Config{
		ErrorHandler: ErrorHandler(),
	})

	RegisterRoutes(app, Dependencies{
		Session:       new(serviceMocks.MockSession),
		Wallets:       new(serviceMocks.MockWalletDirectory),
		Accounts:      new(serviceMocks.MockProvisioner),
		Documents:     new(serviceMocks.MockDocumentReader),
		Controller:    new(serviceMocks.MockDocumentController),
		Journal:       new(serviceMocks.MockJournalReader),
		Notifications: new(serviceMocks.MockNotificationFeed),
	})

	t.Run("not found route", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/non-existent", nil)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
		assert.Equal(t, "NOT_FOUND", decodeError(t, resp).Error.Code)
	})

	t.Run("method not allowed", func(t *testing.T) {
		// Health endpoint only allows GET
		req := httptest.NewRequest(http.MethodPost, "/health", nil)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
		assert.Equal(t, "METHOD_NOT_ALLOWED", decodeError(t, resp).Error.Code)
	})

	t.Run("content route needs a store", func(t *testing.T) {
		resp, _ := app.Test(httptest.NewRequest(http.MethodGet, "/ipfs/bafy", nil))
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})
}
