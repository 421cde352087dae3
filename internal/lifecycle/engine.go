// Package lifecycle implements the document state machine: which transitions
// are legal, under which guards, and how they are applied to the store.
package lifecycle

import (
	"context"
	"errors"
	"mime"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"docport/internal/model"
	"docport/internal/policy"
	"docport/internal/repository"
)

// AcceptedContentType is the only payload format documents may carry.
const AcceptedContentType = "application/pdf"

// Notifier receives events after they were appended to the log.
type Notifier interface {
	Publish(ctx context.Context, ev model.DocumentEvent) error
}

// Recorder observes transition outcomes.
type Recorder interface {
	Transition(action, outcome string)
	AuditGap(action string)
}

// CreateInput is the data needed to register an uploaded document.
type CreateInput struct {
	RecipientID string
	Comment     string
	StorageKey  string
	ContentType string
	Filename    string
}

// Result is the outcome of a successful operation.
type Result struct {
	Document *model.Document
	// Event is nil when nothing changed or when the append failed.
	Event   *model.DocumentEvent
	Changed bool
	// AuditGap is set when the status changed but the event was not recorded.
	AuditGap *AuditGapWarning
}

// Engine applies guarded transitions to documents.
type Engine struct {
	docs     repository.DocumentRepository
	events   repository.EventRepository
	notifier Notifier
	recorder Recorder
	log      zerolog.Logger
	now      func() time.Time
	ttl      time.Duration
	attempts int
}

// Option configures an Engine.
type Option func(*Engine)

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// WithDocumentTTL sets how long new documents stay live.
func WithDocumentTTL(ttl time.Duration) Option {
	return func(e *Engine) {
		if ttl > 0 {
			e.ttl = ttl
		}
	}
}

// WithNotifier fans appended events out to n.
func WithNotifier(n Notifier) Option {
	return func(e *Engine) { e.notifier = n }
}

// WithRecorder reports transition outcomes to r.
func WithRecorder(r Recorder) Option {
	return func(e *Engine) { e.recorder = r }
}

// WithLogger sets the logger used for non-fatal warnings.
func WithLogger(l zerolog.Logger) Option {
	return func(e *Engine) { e.log = l }
}

// WithAttempts bounds how many times a transition is evaluated when its
// conditional write loses a race. The minimum is one.
func WithAttempts(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.attempts = n
		}
	}
}

// NewEngine constructs an Engine over the given store and event log.
func NewEngine(docs repository.DocumentRepository, events repository.EventRepository, opts ...Option) *Engine {
	e := &Engine{
		docs:     docs,
		events:   events,
		log:      zerolog.Nop(),
		now:      time.Now,
		ttl:      policy.DefaultDocumentTTL,
		attempts: 2,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Now returns the engine's current time.
func (e *Engine) Now() time.Time { return e.now() }

// AcceptedPayload reports whether the declared type (or, when the type is
// missing or generic, the file name) identifies a PDF.
func AcceptedPayload(contentType, filename string) bool {
	mediaType := ""
	if contentType != "" {
		mt, _, err := mime.ParseMediaType(contentType)
		if err != nil {
			return false
		}
		mediaType = mt
	}
	if mediaType == AcceptedContentType {
		return true
	}
	if mediaType == "" || mediaType == "application/octet-stream" {
		return strings.HasSuffix(strings.ToLower(filename), ".pdf")
	}
	return false
}

// ValidateCreate checks Create input without touching the store.
func (e *Engine) ValidateCreate(actor model.Actor, in CreateInput) error {
	switch {
	case actor.OrgID == "" || actor.UserID == "":
		return &ValidationError{Reason: ReasonMissingActor, Message: "actor organization and user are required"}
	case in.RecipientID == "":
		return &ValidationError{Reason: ReasonMissingRecipient, Message: "recipient is required"}
	case in.RecipientID == actor.OrgID:
		return &ValidationError{Reason: ReasonSelfAddressed, Message: "documents cannot be sent to the sending organization"}
	case !AcceptedPayload(in.ContentType, in.Filename):
		return &ValidationError{Reason: ReasonBadType, Message: "only PDF documents are accepted"}
	}
	return nil
}

// Create registers a document whose bytes are already stored under in.StorageKey.
func (e *Engine) Create(ctx context.Context, actor model.Actor, in CreateInput) (*Result, error) {
	if err := e.ValidateCreate(actor, in); err != nil {
		e.observe(model.ActionUpload, err)
		return nil, err
	}
	if !policy.ValidKey(in.StorageKey) {
		err := &ValidationError{Reason: ReasonInvalidKey, Message: "storage key is not a current-scheme key"}
		e.observe(model.ActionUpload, err)
		return nil, err
	}

	now := e.now()
	expiresAt := policy.ExpiresAt(now, e.ttl)
	doc := &model.Document{
		SenderID:    actor.OrgID,
		RecipientID: in.RecipientID,
		Status:      model.StatusUploaded,
		CreatedAt:   now,
		ExpiresAt:   &expiresAt,
		StorageKey:  in.StorageKey,
	}
	if c := strings.TrimSpace(in.Comment); c != "" {
		doc.Comment = &c
	}

	stored, err := e.docs.Insert(ctx, doc)
	if errors.Is(err, repository.ErrDuplicateKey) {
		verr := &ValidationError{Reason: ReasonInvalidKey, Message: "storage key is already registered"}
		e.observe(model.ActionUpload, verr)
		return nil, verr
	}
	if err != nil {
		cerr := &CollaboratorError{Op: "insert document", Err: err}
		e.observe(model.ActionUpload, cerr)
		return nil, cerr
	}

	res := &Result{Document: stored, Changed: true}
	e.record(ctx, actor, model.ActionUpload, res)
	e.observe(model.ActionUpload, nil)
	return res, nil
}

// CheckDownload evaluates the Download guards against a caller-held snapshot.
func (e *Engine) CheckDownload(actor model.Actor, doc *model.Document) error {
	_, err := e.decide(model.ActionDownload, actor, doc, e.now())
	return err
}

// Download marks the document as read. Repeated downloads are idempotent.
func (e *Engine) Download(ctx context.Context, actor model.Actor, id string) (*Result, error) {
	return e.transition(ctx, actor, id, model.ActionDownload)
}

// Cancel withdraws an unread, live document. Only the sender may cancel.
func (e *Engine) Cancel(ctx context.Context, actor model.Actor, id string) (*Result, error) {
	return e.transition(ctx, actor, id, model.ActionCancel)
}

// Archive removes the document from active views. Allowed from any non-archived state.
func (e *Engine) Archive(ctx context.Context, actor model.Actor, id string) (*Result, error) {
	return e.transition(ctx, actor, id, model.ActionArchive)
}

// Get returns a document to one of its participants.
func (e *Engine) Get(ctx context.Context, actor model.Actor, id string) (*model.Document, error) {
	doc, err := e.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if !doc.IsParticipant(actor.OrgID) {
		return nil, notFound(id)
	}
	return doc, nil
}

// Events returns the audit trail of a document to one of its participants.
func (e *Engine) Events(ctx context.Context, actor model.Actor, id string) ([]model.DocumentEvent, error) {
	if _, err := e.Get(ctx, actor, id); err != nil {
		return nil, err
	}
	events, err := e.events.ListByDocument(ctx, id)
	if err != nil {
		return nil, &CollaboratorError{Op: "list document events", Err: err}
	}
	return events, nil
}

func (e *Engine) transition(ctx context.Context, actor model.Actor, id string, action model.Action) (*Result, error) {
	for attempt := 1; ; attempt++ {
		doc, err := e.load(ctx, id)
		if err != nil {
			return nil, err
		}

		next, err := e.decide(action, actor, doc, e.now())
		if err != nil {
			e.observe(action, err)
			return nil, err
		}
		if next == doc.Status {
			e.recordOutcome(action, "idempotent")
			return &Result{Document: doc}, nil
		}

		err = e.docs.UpdateStatus(ctx, id, doc.Status, next)
		switch {
		case err == nil:
		case errors.Is(err, repository.ErrConflict):
			if attempt < e.attempts {
				continue
			}
			cerr := &ConflictError{Action: action, DocumentID: id, Expected: doc.Status}
			e.observe(action, cerr)
			return nil, cerr
		case errors.Is(err, repository.ErrNotFound):
			return nil, notFound(id)
		default:
			cerr := &CollaboratorError{Op: "update document status", Err: err}
			e.observe(action, cerr)
			return nil, cerr
		}

		doc.Status = next
		res := &Result{Document: doc, Changed: true}
		e.record(ctx, actor, action, res)
		e.observe(action, nil)
		return res, nil
	}
}

// decide returns the state action leads to, or the guard that forbids it.
func (e *Engine) decide(action model.Action, actor model.Actor, doc *model.Document, now time.Time) (model.Status, error) {
	if doc == nil || !doc.IsParticipant(actor.OrgID) {
		id := ""
		if doc != nil {
			id = doc.ID
		}
		return "", notFound(id)
	}
	violation := func(r Reason) error {
		return &PolicyViolation{Action: action, DocumentID: doc.ID, Reason: r}
	}

	switch action {
	case model.ActionDownload:
		if actor.OrgID != doc.RecipientID {
			return "", violation(ReasonWrongParty)
		}
	case model.ActionCancel:
		if actor.OrgID != doc.SenderID {
			return "", violation(ReasonWrongParty)
		}
	}

	if doc.Status.Terminal() {
		return "", violation(ReasonTerminal)
	}

	switch action {
	case model.ActionDownload:
		if !policy.ValidKey(doc.StorageKey) {
			return "", violation(ReasonInvalidKey)
		}
		if policy.Expired(doc, now) {
			return "", violation(ReasonExpired)
		}
	case model.ActionCancel:
		if policy.Expired(doc, now) {
			return "", violation(ReasonExpired)
		}
	}

	next, ok := Next(doc.Status, action)
	if !ok {
		if action == model.ActionDownload && doc.Status == model.StatusCancelled {
			return "", violation(ReasonCancelled)
		}
		return "", violation(ReasonWrongState)
	}
	return next, nil
}

func (e *Engine) load(ctx context.Context, id string) (*model.Document, error) {
	if id == "" {
		return nil, notFound(id)
	}
	doc, err := e.docs.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, notFound(id)
		}
		return nil, &CollaboratorError{Op: "find document", Err: err}
	}
	return doc, nil
}

// record appends the event for a successful state change. The status write
// already happened, so the append is detached from request cancellation and
// its failure only produces a warning.
func (e *Engine) record(ctx context.Context, actor model.Actor, action model.Action, res *Result) {
	ctx = context.WithoutCancel(ctx)
	ev := &model.DocumentEvent{
		DocumentID: res.Document.ID,
		ActorID:    actor.UserID,
		Action:     action,
		CreatedAt:  e.now(),
	}
	if err := e.events.Append(ctx, ev); err != nil {
		res.AuditGap = &AuditGapWarning{Action: action, DocumentID: res.Document.ID, Err: err}
		e.log.Warn().
			Err(err).
			Str("component", "lifecycle").
			Str("event", "audit_gap").
			Str("document_id", res.Document.ID).
			Str("action", string(action)).
			Str("status", string(res.Document.Status)).
			Msg("event append failed after status change")
		if e.recorder != nil {
			e.recorder.AuditGap(string(action))
		}
		return
	}
	res.Event = ev

	if e.notifier != nil {
		if err := e.notifier.Publish(ctx, *ev); err != nil {
			e.log.Warn().
				Err(err).
				Str("component", "lifecycle").
				Str("event", "event_publish_failed").
				Str("document_id", ev.DocumentID).
				Str("action", string(action)).
				Msg("event fan-out failed")
		}
	}
}

func (e *Engine) observe(action model.Action, err error) {
	outcome := "applied"
	if err != nil {
		switch {
		case errors.Is(err, ErrConflict):
			outcome = "conflict"
		case errors.Is(err, ErrCollaborator):
			outcome = "collaborator_failure"
		default:
			if r, ok := ReasonOf(err); ok {
				outcome = string(r)
			} else {
				outcome = "error"
			}
		}
	}
	e.recordOutcome(action, outcome)
}

func (e *Engine) recordOutcome(action model.Action, outcome string) {
	if e.recorder != nil {
		e.recorder.Transition(string(action), outcome)
	}
}
