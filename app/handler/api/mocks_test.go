package handler

import (
	"context"
	"inventory-platform/app/domain"

	"github.com/stretchr/testify/mock"
)

type MockItemService struct {
	mock.Mock
}

func (m *MockItemService) Create(ctx context.Context, req domain.ItemCreateRequest) (domain.Item, error) {
	args := m.Called(ctx, req)
	return args.Get(0).(domain.Item), args.Error(1)
}

func (m *MockItemService) GetByID(ctx context.Context, id int64) (domain.Item, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(domain.Item), args.Error(1)
}

func (m *MockItemService) GetList(ctx context.Context, filter domain.ItemFilter) ([]domain.Item, error) {
	args := m.Called(ctx, filter)
	items, _ := args.Get(0).([]domain.Item)
	return items, args.Error(1)
}

func (m *MockItemService) UpdateQuantity(ctx context.Context, id int64, req domain.UpdateQuantityRequest) (domain.Item, error) {
	args := m.Called(ctx, id, req)
	return args.Get(0).(domain.Item), args.Error(1)
}

func (m *MockItemService) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type MockRestockService struct {
	mock.Mock
}

func (m *MockRestockService) CalculateForItem(ctx context.Context, itemID int64, strategy string) (domain.RestockRecommendation, error) {
	args := m.Called(ctx, itemID, strategy)
	return args.Get(0).(domain.RestockRecommendation), args.Error(1)
}

func (m *MockRestockService) AnalyzeAll(ctx context.Context, strategy string) (domain.RestockAnalysis, error) {
	args := m.Called(ctx, strategy)
	return args.Get(0).(domain.RestockAnalysis), args.Error(1)
}

func (m *MockRestockService) Strategies() []domain.StrategyInfo {
	args := m.Called()
	return args.Get(0).([]domain.StrategyInfo)
}
