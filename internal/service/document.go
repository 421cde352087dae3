package service

import (
	"context"

	"docport/internal/exchange"
	"docport/internal/lifecycle"
	"docport/internal/model"
	"docport/internal/repository"
	"docport/internal/visibility"
)

// DocumentService defines the use cases exposed over HTTP. Every operation
// takes the calling actor; identity itself is resolved upstream.
type DocumentService interface {
	// Organizations lists the organizations documents can be addressed to.
	Organizations(ctx context.Context) ([]model.Organization, error)

	// PresignUpload mints a key and URL for a client-side PDF upload.
	PresignUpload(ctx context.Context, actor model.Actor) (*exchange.UploadTarget, error)
	// Upload streams the PDF to object storage and registers it.
	Upload(ctx context.Context, actor model.Actor, in exchange.CreateInput) (*lifecycle.Result, error)
	// Register records a client-side upload made through PresignUpload.
	Register(ctx context.Context, actor model.Actor, in exchange.RegisterInput) (*lifecycle.Result, error)

	Inbox(ctx context.Context, actor model.Actor, opts visibility.InboxOptions) ([]visibility.DocumentView, error)
	Sent(ctx context.Context, actor model.Actor, query string) ([]visibility.DocumentView, error)
	UnreadCount(ctx context.Context, actor model.Actor) (int, error)

	Get(ctx context.Context, actor model.Actor, id string) (*visibility.DocumentView, error)
	Events(ctx context.Context, actor model.Actor, id string) ([]model.DocumentEvent, error)

	// Download performs the guarded download and returns a URL on success.
	Download(ctx context.Context, actor model.Actor, id string) (*exchange.Access, error)
	DownloadByKey(ctx context.Context, actor model.Actor, key string) (*exchange.Access, error)
	Cancel(ctx context.Context, actor model.Actor, id string) (*lifecycle.Result, error)
	Archive(ctx context.Context, actor model.Actor, id string) (*lifecycle.Result, error)
}

// documentService is a concrete implementation of DocumentService.
type documentService struct {
	engine *lifecycle.Engine
	coord  *exchange.Coordinator
	docs   repository.DocumentRepository
	orgs   repository.OrganizationRepository
}

// NewDocumentService constructs a new DocumentService.
func NewDocumentService(
	engine *lifecycle.Engine,
	coord *exchange.Coordinator,
	docs repository.DocumentRepository,
	orgs repository.OrganizationRepository,
) DocumentService {
	return &documentService{engine: engine, coord: coord, docs: docs, orgs: orgs}
}

func (s *documentService) Organizations(ctx context.Context) ([]model.Organization, error) {
	orgs, err := s.orgs.List(ctx)
	if err != nil {
		return nil, &lifecycle.CollaboratorError{Op: "list organizations", Err: err}
	}
	return orgs, nil
}

func (s *documentService) PresignUpload(ctx context.Context, actor model.Actor) (*exchange.UploadTarget, error) {
	if err := requireActor(actor); err != nil {
		return nil, err
	}
	return s.coord.RequestUploadTarget(ctx)
}

func (s *documentService) Upload(ctx context.Context, actor model.Actor, in exchange.CreateInput) (*lifecycle.Result, error) {
	return s.coord.Create(ctx, actor, in)
}

func (s *documentService) Register(ctx context.Context, actor model.Actor, in exchange.RegisterInput) (*lifecycle.Result, error) {
	return s.coord.Register(ctx, actor, in)
}

// Inbox returns the recipient's visible documents, newest first.
func (s *documentService) Inbox(ctx context.Context, actor model.Actor, opts visibility.InboxOptions) ([]visibility.DocumentView, error) {
	if err := requireActor(actor); err != nil {
		return nil, err
	}
	docs, err := s.docs.ListByRecipient(ctx, actor.OrgID)
	if err != nil {
		return nil, &lifecycle.CollaboratorError{Op: "list inbox", Err: err}
	}
	names, err := s.names(ctx)
	if err != nil {
		return nil, err
	}
	now := s.engine.Now()
	return visibility.Views(visibility.Inbox(docs, names, opts, now), names, now), nil
}

// Sent returns everything the actor's organization sent, newest first.
func (s *documentService) Sent(ctx context.Context, actor model.Actor, query string) ([]visibility.DocumentView, error) {
	if err := requireActor(actor); err != nil {
		return nil, err
	}
	docs, err := s.docs.ListBySender(ctx, actor.OrgID)
	if err != nil {
		return nil, &lifecycle.CollaboratorError{Op: "list sent", Err: err}
	}
	names, err := s.names(ctx)
	if err != nil {
		return nil, err
	}
	now := s.engine.Now()
	return visibility.Views(visibility.Sent(docs, names, query), names, now), nil
}

func (s *documentService) UnreadCount(ctx context.Context, actor model.Actor) (int, error) {
	if err := requireActor(actor); err != nil {
		return 0, err
	}
	docs, err := s.docs.ListByRecipient(ctx, actor.OrgID)
	if err != nil {
		return 0, &lifecycle.CollaboratorError{Op: "list inbox", Err: err}
	}
	return visibility.UnreadCount(docs, s.engine.Now()), nil
}

func (s *documentService) Get(ctx context.Context, actor model.Actor, id string) (*visibility.DocumentView, error) {
	doc, err := s.engine.Get(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	names, err := s.names(ctx)
	if err != nil {
		return nil, err
	}
	v := visibility.View(*doc, names, s.engine.Now())
	return &v, nil
}

func (s *documentService) Events(ctx context.Context, actor model.Actor, id string) ([]model.DocumentEvent, error) {
	return s.engine.Events(ctx, actor, id)
}

func (s *documentService) Download(ctx context.Context, actor model.Actor, id string) (*exchange.Access, error) {
	return s.coord.Access(ctx, actor, id)
}

func (s *documentService) DownloadByKey(ctx context.Context, actor model.Actor, key string) (*exchange.Access, error) {
	return s.coord.AccessByKey(ctx, actor, key)
}

func (s *documentService) Cancel(ctx context.Context, actor model.Actor, id string) (*lifecycle.Result, error) {
	return s.engine.Cancel(ctx, actor, id)
}

func (s *documentService) Archive(ctx context.Context, actor model.Actor, id string) (*lifecycle.Result, error) {
	return s.engine.Archive(ctx, actor, id)
}

func (s *documentService) names(ctx context.Context) (visibility.Names, error) {
	orgs, err := s.orgs.List(ctx)
	if err != nil {
		return nil, &lifecycle.CollaboratorError{Op: "list organizations", Err: err}
	}
	return visibility.NewNames(orgs), nil
}

func requireActor(actor model.Actor) error {
	if actor.OrgID == "" || actor.UserID == "" {
		return &lifecycle.ValidationError{Reason: lifecycle.ReasonMissingActor, Message: "actor organization and user are required"}
	}
	return nil
}
