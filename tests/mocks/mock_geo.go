package mocks

import (
	"github.com/stretchr/testify/mock"

	"github.com/snaplinkhq/snaplink/internal/domain"
)

type MockGeoResolver struct {
	mock.Mock
}

func (m *MockGeoResolver) Lookup(ip string) domain.Location {
	args := m.Called(ip)
	return args.Get(0).(domain.Location)
}
