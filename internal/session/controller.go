// Package session owns the client-side state of a document conversation: the uploaded
// document, the conversation log and the in-flight ask request.
package session

import (
	"context"
	"io"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"document-rag-client/internal/helper"
	"document-rag-client/internal/models"
	"document-rag-client/internal/rag"
)

// Backend is the remote question-answering service.
type Backend interface {
	UploadPDF(ctx context.Context, fileName string, r io.Reader) (*rag.UploadResponse, error)
	Ask(ctx context.Context, query string) (*rag.AskResponse, error)
}

// Observer receives a completed snapshot after every state change. Snapshots are delivered in
// revision order; an observer must not call Upload or Ask synchronously.
type Observer func(models.Snapshot)

// state is everything the controller owns. Only code running inside Controller.mutate
// touches it.
type state struct {
	document models.DocumentSession
	log      *ConversationLog
	pending  bool
	// token is bumped by every upload and every accepted ask; a response is applied only if
	// the token it captured is still current.
	token uint64
	// uploadGen is bumped only by uploads, so a pending upload survives asks.
	uploadGen uint64
	revision  uint64
}

type Controller struct {
	sessionID string

	mu sync.Mutex
	st state

	notifyMu  sync.Mutex
	delivered uint64
	observers []Observer

	uploads *uploadCoordinator
	asks    *askCoordinator
}

type Option func(*Controller)

func WithSessionID(id string) Option {
	return func(c *Controller) { c.sessionID = id }
}

func WithObserver(o Observer) Option {
	return func(c *Controller) { c.observers = append(c.observers, o) }
}

func WithClock(now func() time.Time) Option {
	return func(c *Controller) { c.st.log = NewConversationLog(now) }
}

func NewController(backend Backend, opts ...Option) *Controller {
	c := &Controller{
		st: state{
			document: models.UnsetDocument(),
			log:      NewConversationLog(nil),
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.sessionID == "" {
		id, err := helper.GenerateUUID()
		if err != nil {
			log.Warn().Err(err).Msg("Could not generate session id")
		}
		c.sessionID = id
	}
	c.uploads = &uploadCoordinator{backend: backend, mutate: c.mutate, sessionID: c.sessionID}
	c.asks = &askCoordinator{backend: backend, mutate: c.mutate, sessionID: c.sessionID}

	log.Debug().Str("session_id", c.sessionID).Msg("Session started")
	return c
}

func (c *Controller) SessionID() string {
	return c.sessionID
}

// Upload replaces the current document with f. The conversation is cleared and any pending
// ask is superseded. Only a ValidationError is returned; backend failures are recorded in the
// document state.
func (c *Controller) Upload(ctx context.Context, f *File) error {
	return c.uploads.upload(ctx, f)
}

// Ask submits a question. Only a ValidationError is returned; backend failures are recorded
// as a system-error entry.
func (c *Controller) Ask(ctx context.Context, question string) error {
	return c.asks.ask(ctx, question)
}

func (c *Controller) Snapshot() models.Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshotLocked()
}

func (c *Controller) snapshotLocked() models.Snapshot {
	return models.Snapshot{
		SessionID: c.sessionID,
		Revision:  c.st.revision,
		Document:  c.st.document.Clone(),
		Entries:   c.st.log.Entries(),
		Pending:   c.st.pending,
		Status:    c.st.document.Describe(),
	}
}

// mutate runs fn with exclusive access to the state. When fn reports a change, observers get
// the resulting snapshot after the lock is released.
func (c *Controller) mutate(fn func(st *state) bool) {
	c.mu.Lock()
	if !fn(&c.st) {
		c.mu.Unlock()
		return
	}
	c.st.revision++
	snap := c.snapshotLocked()
	c.mu.Unlock()

	c.notify(snap)
}

func (c *Controller) notify(snap models.Snapshot) {
	if len(c.observers) == 0 {
		return
	}
	c.notifyMu.Lock()
	defer c.notifyMu.Unlock()
	// a newer snapshot already went out; this one is superseded
	if snap.Revision <= c.delivered {
		return
	}
	c.delivered = snap.Revision
	for _, o := range c.observers {
		o(snap)
	}
}
