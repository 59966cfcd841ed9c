package mocks

import (
	"context"

	"docportal/internal/model"
	"docportal/internal/repository"

	"github.com/stretchr/testify/mock"
)

type MockDocumentRepository struct {
	mock.Mock
}

func documents(args mock.Arguments) ([]model.Document, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Document), args.Error(1)
}

func (m *MockDocumentRepository) List(ctx context.Context) ([]model.Document, error) {
	return documents(m.Called(ctx))
}

func (m *MockDocumentRepository) ListByStatus(ctx context.Context, status string) ([]model.Document, error) {
	return documents(m.Called(ctx, status))
}

func (m *MockDocumentRepository) AdvancedSearch(ctx context.Context, query string) ([]model.Document, error) {
	return documents(m.Called(ctx, query))
}

func (m *MockDocumentRepository) SearchByTags(ctx context.Context, tags []string) ([]model.Document, error) {
	return documents(m.Called(ctx, tags))
}

func (m *MockDocumentRepository) ShareURL(ctx context.Context, documentID string, expirationMinutes int) (string, error) {
	args := m.Called(ctx, documentID, expirationMinutes)
	return args.String(0), args.Error(1)
}

func (m *MockDocumentRepository) DownloadInfo(ctx context.Context, documentID string) (model.DownloadInfo, error) {
	args := m.Called(ctx, documentID)
	return args.Get(0).(model.DownloadInfo), args.Error(1)
}

func (m *MockDocumentRepository) DownloadContent(ctx context.Context, documentID string) ([]byte, model.DownloadInfo, error) {
	args := m.Called(ctx, documentID)
	var b []byte
	if args.Get(0) != nil {
		b = args.Get(0).([]byte)
	}
	return b, args.Get(1).(model.DownloadInfo), args.Error(2)
}

func (m *MockDocumentRepository) Delete(ctx context.Context, documentID string) (model.Result, error) {
	args := m.Called(ctx, documentID)
	return args.Get(0).(model.Result), args.Error(1)
}

func (m *MockDocumentRepository) Comments(ctx context.Context, documentID string, pq repository.PageQuery) ([]model.Comment, error) {
	args := m.Called(ctx, documentID, pq)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Comment), args.Error(1)
}

func (m *MockDocumentRepository) AddComment(ctx context.Context, documentID, content string) (model.Comment, error) {
	args := m.Called(ctx, documentID, content)
	return args.Get(0).(model.Comment), args.Error(1)
}

func (m *MockDocumentRepository) UpdateTags(ctx context.Context, documentID string, tags []string) ([]string, error) {
	args := m.Called(ctx, documentID, tags)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockDocumentRepository) Upload(ctx context.Context, in model.UploadInput) (model.Document, error) {
	args := m.Called(ctx, in)
	return args.Get(0).(model.Document), args.Error(1)
}
