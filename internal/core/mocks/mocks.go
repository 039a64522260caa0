package mocks

import (
	"context"
	"io"

	"github.com/lorrc/employee-identifier/internal/core/domain"
	"github.com/stretchr/testify/mock"
)

// MockRecordParser is a mock implementation of ports.RecordParser
type MockRecordParser struct {
	mock.Mock
}

func NewMockRecordParser() *MockRecordParser {
	return &MockRecordParser{}
}

func (m *MockRecordParser) Parse(ctx context.Context, input io.Reader) ([]domain.WorkPeriodRecord, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.WorkPeriodRecord), args.Error(1)
}

// MockCollaborationAnalyzer is a mock implementation of ports.CollaborationAnalyzer
type MockCollaborationAnalyzer struct {
	mock.Mock
}

func NewMockCollaborationAnalyzer() *MockCollaborationAnalyzer {
	return &MockCollaborationAnalyzer{}
}

func (m *MockCollaborationAnalyzer) Analyze(ctx context.Context, records []domain.WorkPeriodRecord) (domain.CollaborationResult, bool) {
	args := m.Called(ctx, records)
	return args.Get(0).(domain.CollaborationResult), args.Bool(1)
}

// MockCollaborationService is a mock implementation of ports.CollaborationService
type MockCollaborationService struct {
	mock.Mock
}

func NewMockCollaborationService() *MockCollaborationService {
	return &MockCollaborationService{}
}

func (m *MockCollaborationService) AnalyzeCollaborations(ctx context.Context, input io.Reader) (*domain.CollaborationResult, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.CollaborationResult), args.Error(1)
}
