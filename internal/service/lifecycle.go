package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	gonanoid "github.com/matoous/go-nanoid/v2"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"docsign/internal/ledger"
	"docsign/internal/model"
	"docsign/internal/notify"
	"docsign/internal/policy"
	"docsign/internal/repository"
	"docsign/internal/storage"
	"docsign/internal/wallet"
)

var tracer = otel.Tracer("docsign/internal/service")

// Action is a mutating surface. At most one request per identity and action
// is in flight at any time.
type Action string

const (
	ActionCreate Action = "create"
	ActionSign   Action = "sign"
	ActionDelete Action = "delete"
)

type guardKey struct {
	identity string
	action   Action
}

// LifecycleDeps are the collaborators of a LifecycleController. Journal,
// Provisioner and Metrics are optional.
type LifecycleDeps struct {
	Gateway     LedgerGateway
	Content     storage.ContentStore
	View        Invalidator
	Provisioner Provisioner
	Journal     repository.TransactionRepository
	Notifier    notify.Notifier
	Log         logrus.FieldLogger
	Metrics     *Metrics
	// NewDocumentID generates registry document ids. Defaults to a 21 character nanoid.
	NewDocumentID func() (string, error)
}

// LifecycleController drives every mutating request through
// Building → AwaitingSignature → Submitted → Confirmed | Failed and reports
// each outcome to the notifier. Nothing is retried.
type LifecycleController struct {
	deps LifecycleDeps
	log  logrus.FieldLogger
	now  func() time.Time

	mu       sync.Mutex
	inflight map[guardKey]*struct{}
	pending  map[string]*model.PendingTransaction
}

// NewLifecycleController constructs a LifecycleController.
func NewLifecycleController(deps LifecycleDeps) *LifecycleController {
	if deps.NewDocumentID == nil {
		deps.NewDocumentID = func() (string, error) { return gonanoid.New() }
	}
	if deps.Log == nil {
		deps.Log = logrus.StandardLogger()
	}
	return &LifecycleController{
		deps:     deps,
		log:      deps.Log.WithField("component", "lifecycle"),
		now:      func() time.Time { return time.Now().UTC() },
		inflight: make(map[guardKey]*struct{}),
		pending:  make(map[string]*model.PendingTransaction),
	}
}

type request struct {
	action   Action
	fn       model.EntryFunction
	identity model.Identity
	signer   wallet.Signer
	// prepare runs in Building and yields the payload to sign.
	prepare func(ctx context.Context) (model.Payload, error)
	success notify.Notification
}

// CreateDocument uploads the file and registers it on the ledger under a new
// document id. The upload always completes before anything is submitted.
func (c *LifecycleController) CreateDocument(ctx context.Context, session Session, filename string, r io.Reader, size int64) (model.PendingTransaction, error) {
	identity, signer, err := connected(session)
	if err != nil {
		return model.PendingTransaction{}, err
	}
	if r == nil || filename == "" || size == 0 {
		c.deps.Notifier.Notify(notify.Notification{
			Title:       "No File Selected",
			Description: "Please select a file before uploading.",
			Variant:     notify.Destructive,
		})
		return model.PendingTransaction{}, ErrInputInvalid
	}

	module := c.deps.Gateway.Module()
	return c.execute(ctx, request{
		action:   ActionCreate,
		fn:       model.FnCreateDocument,
		identity: identity,
		signer:   signer,
		prepare: func(ctx context.Context) (model.Payload, error) {
			ref, err := c.deps.Content.Upload(ctx, r, filename)
			if err != nil {
				c.deps.Metrics.upload("error")
				c.deps.Notifier.Notify(notify.Notification{
					Title:       "Upload Failed",
					Description: "There was an error uploading your document. Please try again.",
					Variant:     notify.Destructive,
				})
				if errors.Is(err, storage.ErrInputInvalid) {
					return model.Payload{}, fmt.Errorf("%w: %w", ErrInputInvalid, err)
				}
				return model.Payload{}, fmt.Errorf("upload %s: %w", filename, err)
			}
			c.deps.Metrics.upload("success")

			id, err := c.deps.NewDocumentID()
			if err != nil {
				return model.Payload{}, fmt.Errorf("generate document id: %w", err)
			}
			return module.CreateDocumentPayload(filename, ref.ContentID, id, ref.URL), nil
		},
		success: notify.Notification{
			Title:       "Document Created",
			Description: fmt.Sprintf("Document created by %s", identity.Address),
		},
	})
}

// SignDocument adds the connected identity's signature to doc.
func (c *LifecycleController) SignDocument(ctx context.Context, session Session, doc model.Document) (model.PendingTransaction, error) {
	identity, signer, err := connected(session)
	if err != nil {
		return model.PendingTransaction{}, err
	}
	if !policy.CanSign(doc, identity.Address) {
		return c.unauthorized(model.FnSignDocument, "You are not authorized to sign this document.")
	}

	module := c.deps.Gateway.Module()
	return c.execute(ctx, request{
		action:   ActionSign,
		fn:       model.FnSignDocument,
		identity: identity,
		signer:   signer,
		prepare: func(context.Context) (model.Payload, error) {
			return module.SignDocumentPayload(doc.ID), nil
		},
		success: notify.Notification{
			Title:       "Document Signed",
			Description: fmt.Sprintf("Document %s signed by %s", doc.ID, identity.Address),
		},
	})
}

// DeleteDocument removes doc from the registry. Only its owner may do so.
func (c *LifecycleController) DeleteDocument(ctx context.Context, session Session, doc model.Document) (model.PendingTransaction, error) {
	identity, signer, err := connected(session)
	if err != nil {
		return model.PendingTransaction{}, err
	}
	if !policy.CanDelete(doc, identity.Address) {
		return c.unauthorized(model.FnDeleteDocument, "You are not authorized to delete this document.")
	}

	module := c.deps.Gateway.Module()
	return c.execute(ctx, request{
		action:   ActionDelete,
		fn:       model.FnDeleteDocument,
		identity: identity,
		signer:   signer,
		prepare: func(context.Context) (model.Payload, error) {
			return module.DeleteDocumentPayload(doc.ID), nil
		},
		success: notify.Notification{
			Title:       "Document Deleted",
			Description: fmt.Sprintf("Document %s deleted by %s", doc.ID, identity.Address),
		},
	})
}

// Pending returns the transactions that have not reached a terminal status, oldest first.
func (c *LifecycleController) Pending() []model.PendingTransaction {
	c.mu.Lock()
	out := make([]model.PendingTransaction, 0, len(c.pending))
	for _, tx := range c.pending {
		out = append(out, *tx)
	}
	c.mu.Unlock()

	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out
}

// Reset releases every in-flight guard held for identity. Requests still
// running finish normally but no longer block new ones.
func (c *LifecycleController) Reset(identity string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for k := range c.inflight {
		if k.identity == identity {
			delete(c.inflight, k)
		}
	}
}

func connected(session Session) (model.Identity, wallet.Signer, error) {
	if session == nil {
		return model.Identity{}, nil, ErrNotConnected
	}
	identity := session.Identity()
	signer := session.Signer()
	if !identity.Active() || signer == nil {
		return model.Identity{}, nil, ErrNotConnected
	}
	return identity, signer, nil
}

func (c *LifecycleController) unauthorized(fn model.EntryFunction, description string) (model.PendingTransaction, error) {
	c.deps.Metrics.transaction(fn, "unauthorized")
	c.deps.Notifier.Notify(notify.Notification{
		Title:       "Unauthorized",
		Description: description,
		Variant:     notify.Destructive,
	})
	return model.PendingTransaction{}, ErrUnauthorized
}

func (c *LifecycleController) execute(ctx context.Context, req request) (model.PendingTransaction, error) {
	ctx, span := tracer.Start(ctx, "lifecycle."+string(req.action), trace.WithAttributes(
		attribute.String("docsign.function", string(req.fn)),
		attribute.String("docsign.identity", req.identity.Address),
	))
	defer span.End()

	release, ok := c.acquire(req.identity.Address, req.action)
	if !ok {
		c.deps.Metrics.transaction(req.fn, "in_flight")
		return model.PendingTransaction{}, ErrInFlight
	}
	defer release()

	tx := c.begin(ctx, req)
	defer c.forget(tx.ID)
	span.SetAttributes(attribute.String("docsign.transaction_id", tx.ID))

	payload, err := req.prepare(ctx)
	if err != nil {
		c.deps.Metrics.transaction(req.fn, "build_failed")
		span.RecordError(err)
		span.SetStatus(codes.Error, "build failed")
		return c.fail(ctx, tx.ID, "", err), err
	}

	if c.deps.Provisioner != nil {
		c.deps.Provisioner.EnsureAccount(ctx, req.identity)
	}
	c.update(ctx, tx.ID, func(t *model.PendingTransaction) {
		t.Payload = payload
		t.Status = model.TxAwaitingSignature
	})

	res, err := c.deps.Gateway.Submit(ctx, req.signer, payload, func(hash string) {
		c.update(ctx, tx.ID, func(t *model.PendingTransaction) {
			t.Status = model.TxSubmitted
			t.ResultHash = hash
		})
		c.deps.Notifier.Notify(notify.Notification{
			Title:       "Transaction Submitted",
			Description: "Waiting for the ledger to confirm the transaction.",
			Link:        c.deps.Gateway.ExplorerURL(hash),
		})
	})
	c.deps.Metrics.transaction(req.fn, string(res.Outcome))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, string(res.Outcome))
		c.deps.Notifier.Notify(c.failureNotice(res, err))
		return c.fail(ctx, tx.ID, res.Hash, err), err
	}

	c.deps.View.Invalidate(req.identity.Address)
	done := c.update(ctx, tx.ID, func(t *model.PendingTransaction) {
		t.Status = model.TxConfirmed
		t.ResultHash = res.Hash
	})
	n := req.success
	n.Link = c.deps.Gateway.ExplorerURL(res.Hash)
	c.deps.Notifier.Notify(n)

	c.log.WithFields(logrus.Fields{
		"event":          "transaction_confirmed",
		"transaction_id": tx.ID,
		"function":       req.fn,
		"hash":           res.Hash,
	}).Info("transaction confirmed")
	return done, nil
}

func (c *LifecycleController) acquire(identity string, action Action) (func(), bool) {
	k := guardKey{identity: identity, action: action}
	token := &struct{}{}

	c.mu.Lock()
	defer c.mu.Unlock()
	if _, busy := c.inflight[k]; busy {
		return nil, false
	}
	c.inflight[k] = token
	return func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		// After a Reset the slot may belong to a newer request.
		if c.inflight[k] == token {
			delete(c.inflight, k)
		}
	}, true
}

func (c *LifecycleController) begin(ctx context.Context, req request) model.PendingTransaction {
	now := c.now()
	tx := &model.PendingTransaction{
		ID:        uuid.NewString(),
		Identity:  req.identity.Address,
		Function:  req.fn,
		Payload:   model.Payload{TypeArguments: []string{}, Arguments: []any{}},
		Status:    model.TxBuilding,
		CreatedAt: now,
		UpdatedAt: now,
	}
	c.mu.Lock()
	c.pending[tx.ID] = tx
	snapshot := *tx
	c.mu.Unlock()

	if c.deps.Journal != nil {
		if _, err := c.deps.Journal.Create(context.WithoutCancel(ctx), &snapshot); err != nil {
			c.log.WithFields(logrus.Fields{
				"event":          "journal_write_failed",
				"transaction_id": tx.ID,
			}).WithError(err).Warn("failed to journal transaction")
		}
	}
	return snapshot
}

// update applies fn to the pending transaction and journals the result.
func (c *LifecycleController) update(ctx context.Context, id string, fn func(*model.PendingTransaction)) model.PendingTransaction {
	c.mu.Lock()
	tx, ok := c.pending[id]
	if !ok {
		c.mu.Unlock()
		return model.PendingTransaction{}
	}
	fn(tx)
	tx.UpdatedAt = c.now()
	snapshot := *tx
	c.mu.Unlock()

	if c.deps.Journal != nil {
		if err := c.deps.Journal.Update(context.WithoutCancel(ctx), &snapshot); err != nil {
			c.log.WithFields(logrus.Fields{
				"event":          "journal_write_failed",
				"transaction_id": id,
				"status":         snapshot.Status,
			}).WithError(err).Warn("failed to journal transition")
		}
	}
	return snapshot
}

func (c *LifecycleController) fail(ctx context.Context, id, hash string, cause error) model.PendingTransaction {
	tx := c.update(ctx, id, func(t *model.PendingTransaction) {
		t.Status = model.TxFailed
		if hash != "" {
			t.ResultHash = hash
		}
		t.Error = cause.Error()
	})
	c.log.WithFields(logrus.Fields{
		"event":          "transaction_failed",
		"transaction_id": id,
		"function":       tx.Function,
	}).WithError(cause).Warn("transaction failed")
	return tx
}

func (c *LifecycleController) forget(id string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.pending, id)
}

func (c *LifecycleController) failureNotice(res ledger.Result, err error) notify.Notification {
	n := notify.Notification{Variant: notify.Destructive}
	if res.Hash != "" {
		n.Link = c.deps.Gateway.ExplorerURL(res.Hash)
	}
	switch {
	case res.Outcome == ledger.OutcomeUserRejected:
		n.Variant = notify.Default
		n.Title = "Transaction Cancelled"
		n.Description = "The request was rejected in the wallet."
	case errors.Is(err, ledger.ErrAccountUnfunded):
		n.Title = "Insufficient Funds"
		n.Description = "Your account has no funds to pay for this transaction."
	case res.Outcome == ledger.OutcomeLedgerRejected:
		n.Title = "Transaction Rejected"
		n.Description = res.Reason
	default:
		n.Title = "Transaction Failed"
		n.Description = "Could not reach the ledger. Please try again."
	}
	return n
}
