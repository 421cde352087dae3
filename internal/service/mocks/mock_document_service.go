package mocks

import (
	"context"

	"docport/internal/exchange"
	"docport/internal/lifecycle"
	"docport/internal/model"
	"docport/internal/visibility"
	"github.com/stretchr/testify/mock"
)

type MockDocumentService struct {
	mock.Mock
}

func (m *MockDocumentService) Organizations(ctx context.Context) ([]model.Organization, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Organization), args.Error(1)
}

func (m *MockDocumentService) PresignUpload(ctx context.Context, actor model.Actor) (*exchange.UploadTarget, error) {
	args := m.Called(ctx, actor)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*exchange.UploadTarget), args.Error(1)
}

func (m *MockDocumentService) Upload(ctx context.Context, actor model.Actor, in exchange.CreateInput) (*lifecycle.Result, error) {
	args := m.Called(ctx, actor, in)
	return result(args)
}

func (m *MockDocumentService) Register(ctx context.Context, actor model.Actor, in exchange.RegisterInput) (*lifecycle.Result, error) {
	args := m.Called(ctx, actor, in)
	return result(args)
}

func (m *MockDocumentService) Inbox(ctx context.Context, actor model.Actor, opts visibility.InboxOptions) ([]visibility.DocumentView, error) {
	args := m.Called(ctx, actor, opts)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]visibility.DocumentView), args.Error(1)
}

func (m *MockDocumentService) Sent(ctx context.Context, actor model.Actor, query string) ([]visibility.DocumentView, error) {
	args := m.Called(ctx, actor, query)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]visibility.DocumentView), args.Error(1)
}

func (m *MockDocumentService) UnreadCount(ctx context.Context, actor model.Actor) (int, error) {
	args := m.Called(ctx, actor)
	return args.Int(0), args.Error(1)
}

func (m *MockDocumentService) Get(ctx context.Context, actor model.Actor, id string) (*visibility.DocumentView, error) {
	args := m.Called(ctx, actor, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*visibility.DocumentView), args.Error(1)
}

func (m *MockDocumentService) Events(ctx context.Context, actor model.Actor, id string) ([]model.DocumentEvent, error) {
	args := m.Called(ctx, actor, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.DocumentEvent), args.Error(1)
}

func (m *MockDocumentService) Download(ctx context.Context, actor model.Actor, id string) (*exchange.Access, error) {
	args := m.Called(ctx, actor, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*exchange.Access), args.Error(1)
}

func (m *MockDocumentService) DownloadByKey(ctx context.Context, actor model.Actor, key string) (*exchange.Access, error) {
	args := m.Called(ctx, actor, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*exchange.Access), args.Error(1)
}

func (m *MockDocumentService) Cancel(ctx context.Context, actor model.Actor, id string) (*lifecycle.Result, error) {
	args := m.Called(ctx, actor, id)
	return result(args)
}

func (m *MockDocumentService) Archive(ctx context.Context, actor model.Actor, id string) (*lifecycle.Result, error) {
	args := m.Called(ctx, actor, id)
	return result(args)
}

func result(args mock.Arguments) (*lifecycle.Result, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*lifecycle.Result), args.Error(1)
}
