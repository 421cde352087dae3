// Package exchange coordinates the byte transfer through object storage with
// the document lifecycle: minting upload and download URLs, moving bytes, and
// registering or reading the resulting documents.
package exchange

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"docport/internal/lifecycle"
	"docport/internal/model"
	"docport/internal/policy"
	"docport/internal/repository"
	"docport/internal/storage"
)

const (
	defaultUploadURLTTL   = 5 * time.Minute
	defaultDownloadURLTTL = 5 * time.Minute
)

// UploadTarget is a time-limited location that accepts the document bytes.
type UploadTarget struct {
	URL         string    `json:"upload_url"`
	Key         string    `json:"file_key"`
	ContentType string    `json:"content_type"`
	ExpiresAt   time.Time `json:"expires_at"`
}

// DownloadTarget is a time-limited location to fetch stored bytes from.
type DownloadTarget struct {
	URL       string    `json:"download_url"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Access is the outcome of a successful guarded download.
type Access struct {
	DownloadTarget
	Result *lifecycle.Result
}

// CreateInput carries a document that the service uploads on the sender's behalf.
type CreateInput struct {
	RecipientID string
	Comment     string
	Filename    string
	ContentType string
	Body        io.Reader
	// Size is the byte length of Body, or -1 when unknown.
	Size int64
}

// RegisterInput registers bytes the client already PUT to an upload target.
type RegisterInput struct {
	RecipientID string `json:"recipient_id"`
	Comment     string `json:"comment"`
	StorageKey  string `json:"file_key"`
}

// TransferError is a non-2xx answer from the upload URL.
type TransferError struct {
	StatusCode int
	Status     string
}

func (e *TransferError) Error() string {
	return fmt.Sprintf("upload rejected by object storage: %s", e.Status)
}

// OrphanRecorder counts uploads left without a document record.
type OrphanRecorder interface {
	OrphanedObject()
}

// Coordinator glues object storage, the lifecycle engine and the document store.
type Coordinator struct {
	engine   *lifecycle.Engine
	docs     repository.DocumentRepository
	orgs     repository.OrganizationRepository
	storage  storage.Storage
	client   *http.Client
	recorder OrphanRecorder
	log      zerolog.Logger

	uploadTTL   time.Duration
	downloadTTL time.Duration
	newKey      func() string
}

// Option configures a Coordinator.
type Option func(*Coordinator)

// WithURLLifetimes sets how long minted upload and download URLs stay valid.
func WithURLLifetimes(upload, download time.Duration) Option {
	return func(c *Coordinator) {
		if upload > 0 {
			c.uploadTTL = upload
		}
		if download > 0 {
			c.downloadTTL = download
		}
	}
}

// WithHTTPClient replaces the client used to PUT bytes to upload URLs.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Coordinator) {
		if client != nil {
			c.client = client
		}
	}
}

// WithOrganizations enables the unknown-recipient and unknown-sender checks.
func WithOrganizations(orgs repository.OrganizationRepository) Option {
	return func(c *Coordinator) { c.orgs = orgs }
}

// WithOrphanRecorder reports orphaned uploads to r.
func WithOrphanRecorder(r OrphanRecorder) Option {
	return func(c *Coordinator) { c.recorder = r }
}

// WithLogger sets the logger.
func WithLogger(l zerolog.Logger) Option {
	return func(c *Coordinator) { c.log = l }
}

// WithKeyGenerator overrides how storage keys are generated.
func WithKeyGenerator(fn func() string) Option {
	return func(c *Coordinator) { c.newKey = fn }
}

// NewCoordinator builds a Coordinator. The default transfer client is traced
// with otelhttp and has a two minute timeout.
func NewCoordinator(engine *lifecycle.Engine, docs repository.DocumentRepository, store storage.Storage, opts ...Option) *Coordinator {
	c := &Coordinator{
		engine:  engine,
		docs:    docs,
		storage: store,
		client: &http.Client{
			Transport: otelhttp.NewTransport(http.DefaultTransport),
			Timeout:   2 * time.Minute,
		},
		log:         zerolog.Nop(),
		uploadTTL:   defaultUploadURLTTL,
		downloadTTL: defaultDownloadURLTTL,
		newKey:      NewStorageKey,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// NewStorageKey returns a fresh canonical key, documents/<uuid>.pdf.
func NewStorageKey() string {
	return policy.CanonicalPrefixes[0] + uuid.NewString() + ".pdf"
}

// RequestUploadTarget mints a fresh key and a URL that accepts one PDF upload.
func (c *Coordinator) RequestUploadTarget(ctx context.Context) (*UploadTarget, error) {
	key := c.newKey()
	expiresAt := c.engine.Now().Add(c.uploadTTL)

	url, err := c.storage.PresignPut(ctx, key, lifecycle.AcceptedContentType, c.uploadTTL)
	if err != nil {
		return nil, &lifecycle.CollaboratorError{Op: "presign upload", Err: err}
	}
	return &UploadTarget{
		URL:         url,
		Key:         key,
		ContentType: lifecycle.AcceptedContentType,
		ExpiresAt:   expiresAt,
	}, nil
}

// RequestDownloadTarget mints a download URL for an existing object.
// A missing object is reported as lifecycle.ErrNotFound.
func (c *Coordinator) RequestDownloadTarget(ctx context.Context, key string) (*DownloadTarget, error) {
	if _, err := c.storage.Stat(ctx, key); err != nil {
		if errors.Is(err, storage.ErrObjectNotFound) {
			return nil, fmt.Errorf("%w: %w", lifecycle.ErrNotFound, err)
		}
		return nil, &lifecycle.CollaboratorError{Op: "stat object", Err: err}
	}

	expiresAt := c.engine.Now().Add(c.downloadTTL)
	url, err := c.storage.PresignGet(ctx, key, c.downloadTTL)
	if err != nil {
		return nil, &lifecycle.CollaboratorError{Op: "presign download", Err: err}
	}
	return &DownloadTarget{URL: url, ExpiresAt: expiresAt}, nil
}

// Create uploads in.Body to a fresh key and registers the document.
//
// Nothing is recorded unless object storage confirmed the transfer. If the
// transfer succeeded but registration did not, the object is orphaned and an
// OrphanedObjectError is returned.
func (c *Coordinator) Create(ctx context.Context, actor model.Actor, in CreateInput) (*lifecycle.Result, error) {
	create := lifecycle.CreateInput{
		RecipientID: in.RecipientID,
		Comment:     in.Comment,
		ContentType: in.ContentType,
		Filename:    in.Filename,
	}
	if err := c.engine.ValidateCreate(actor, create); err != nil {
		return nil, err
	}
	if in.Body == nil || in.Size == 0 {
		return nil, &lifecycle.ValidationError{Reason: lifecycle.ReasonMissingPayload, Message: "a PDF file is required"}
	}
	if err := c.checkOrganizations(ctx, actor.OrgID, in.RecipientID); err != nil {
		return nil, err
	}

	target, err := c.RequestUploadTarget(ctx)
	if err != nil {
		return nil, err
	}
	if err := c.transfer(ctx, target, in.Body, in.Size); err != nil {
		return nil, &lifecycle.CollaboratorError{Op: "transfer document", Err: err}
	}

	// The bytes are stored; from here on a cancelled request must not leave
	// them without a record.
	create.StorageKey = target.Key
	create.ContentType = lifecycle.AcceptedContentType
	res, err := c.engine.Create(context.WithoutCancel(ctx), actor, create)
	if err != nil {
		return nil, c.orphaned(target.Key, actor, err)
	}
	return res, nil
}

// Register records a document whose bytes the client uploaded itself.
// The key must be a current-scheme key and the object must exist.
func (c *Coordinator) Register(ctx context.Context, actor model.Actor, in RegisterInput) (*lifecycle.Result, error) {
	create := lifecycle.CreateInput{
		RecipientID: in.RecipientID,
		Comment:     in.Comment,
		StorageKey:  in.StorageKey,
		ContentType: lifecycle.AcceptedContentType,
	}
	if err := c.engine.ValidateCreate(actor, create); err != nil {
		return nil, err
	}
	if !policy.ValidKey(in.StorageKey) {
		return nil, &lifecycle.ValidationError{Reason: lifecycle.ReasonInvalidKey, Message: "file_key was not issued by presign-upload"}
	}
	if err := c.checkOrganizations(ctx, actor.OrgID, in.RecipientID); err != nil {
		return nil, err
	}

	switch _, err := c.docs.FindByKey(ctx, in.StorageKey); {
	case err == nil:
		return nil, &lifecycle.ValidationError{Reason: lifecycle.ReasonInvalidKey, Message: "file_key is already registered"}
	case !errors.Is(err, repository.ErrNotFound):
		return nil, &lifecycle.CollaboratorError{Op: "find document by key", Err: err}
	}

	info, err := c.storage.Stat(ctx, in.StorageKey)
	if err != nil {
		if errors.Is(err, storage.ErrObjectNotFound) {
			return nil, &lifecycle.ValidationError{Reason: lifecycle.ReasonMissingPayload, Message: "no uploaded object under file_key"}
		}
		return nil, &lifecycle.CollaboratorError{Op: "stat object", Err: err}
	}

	create.ContentType = info.ContentType
	create.Filename = in.StorageKey
	res, err := c.engine.Create(ctx, actor, create)
	if err != nil {
		if errors.Is(err, lifecycle.ErrCollaborator) {
			return nil, c.orphaned(in.StorageKey, actor, err)
		}
		return nil, err
	}
	return res, nil
}

// Access performs a guarded download of document id: the guards are checked
// first, then a URL is minted, then the Download transition is applied. The
// URL is only handed out when the transition succeeds.
func (c *Coordinator) Access(ctx context.Context, actor model.Actor, id string) (*Access, error) {
	doc, err := c.engine.Get(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	return c.access(ctx, actor, doc)
}

// AccessByKey is Access addressed by storage key.
func (c *Coordinator) AccessByKey(ctx context.Context, actor model.Actor, key string) (*Access, error) {
	if key == "" {
		return nil, &lifecycle.ValidationError{Reason: lifecycle.ReasonInvalidKey, Message: "key is required"}
	}
	doc, err := c.docs.FindByKey(ctx, key)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("key %s: %w", key, lifecycle.ErrNotFound)
		}
		return nil, &lifecycle.CollaboratorError{Op: "find document by key", Err: err}
	}
	if !doc.IsParticipant(actor.OrgID) {
		return nil, fmt.Errorf("key %s: %w", key, lifecycle.ErrNotFound)
	}
	return c.access(ctx, actor, doc)
}

func (c *Coordinator) access(ctx context.Context, actor model.Actor, doc *model.Document) (*Access, error) {
	if err := c.engine.CheckDownload(actor, doc); err != nil {
		return nil, err
	}

	target, err := c.RequestDownloadTarget(ctx, doc.StorageKey)
	if err != nil {
		return nil, err
	}

	res, err := c.engine.Download(ctx, actor, doc.ID)
	if err != nil {
		return nil, err
	}
	return &Access{DownloadTarget: *target, Result: res}, nil
}

// checkOrganizations resolves both parties before any bytes move, so a
// document is never stored against an organization the store cannot hold.
func (c *Coordinator) checkOrganizations(ctx context.Context, senderID, recipientID string) error {
	if c.orgs == nil {
		return nil
	}
	if err := c.findOrganization(ctx, recipientID, lifecycle.ReasonUnknownRecipient, "recipient organization does not exist"); err != nil {
		return err
	}
	return c.findOrganization(ctx, senderID, lifecycle.ReasonUnknownSender, "acting organization does not exist")
}

func (c *Coordinator) findOrganization(ctx context.Context, id string, reason lifecycle.Reason, msg string) error {
	if _, err := c.orgs.FindByID(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return &lifecycle.ValidationError{Reason: reason, Message: msg}
		}
		return &lifecycle.CollaboratorError{Op: "find organization", Err: err}
	}
	return nil
}

func (c *Coordinator) transfer(ctx context.Context, target *UploadTarget, body io.Reader, size int64) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPut, target.URL, body)
	if err != nil {
		return fmt.Errorf("build upload request: %w", err)
	}
	req.Header.Set("Content-Type", target.ContentType)
	if size > 0 {
		req.ContentLength = size
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &TransferError{StatusCode: resp.StatusCode, Status: resp.Status}
	}
	return nil
}

func (c *Coordinator) orphaned(key string, actor model.Actor, err error) error {
	c.log.Error().
		Err(err).
		Str("component", "exchange").
		Str("event", "orphaned_object").
		Str("file_key", key).
		Str("sender_id", actor.OrgID).
		Msg("object stored but document registration failed")
	if c.recorder != nil {
		c.recorder.OrphanedObject()
	}
	return &lifecycle.OrphanedObjectError{Key: key, Err: err}
}
