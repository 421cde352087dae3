package mocks

import (
	"context"

	"docport/internal/model"
	"github.com/stretchr/testify/mock"
)

type MockEventRepository struct {
	mock.Mock
}

func (m *MockEventRepository) Append(ctx context.Context, ev *model.DocumentEvent) error {
	args := m.Called(ctx, ev)
	return args.Error(0)
}

func (m *MockEventRepository) ListByDocument(ctx context.Context, documentID string) ([]model.DocumentEvent, error) {
	args := m.Called(ctx, documentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.DocumentEvent), args.Error(1)
}
