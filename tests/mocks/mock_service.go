package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/snaplinkhq/snaplink/internal/domain"
)

type MockShortenerService struct {
	mock.Mock
}

func (m *MockShortenerService) Shorten(ctx context.Context, req *domain.CreateURLRequest) (*domain.URLRecord, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.URLRecord), args.Error(1)
}

func (m *MockShortenerService) Resolve(ctx context.Context, code string) (*domain.URLRecord, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.URLRecord), args.Error(1)
}

func (m *MockShortenerService) TrackClick(ctx context.Context, code, ip, userAgent, referrer string) {
	m.Called(ctx, code, ip, userAgent, referrer)
}

func (m *MockShortenerService) Stats(ctx context.Context, code string) (*domain.URLStats, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.URLStats), args.Error(1)
}
