// Package mocks 提供sale.Repository的testify mock，供各层单元测试使用
package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/xiebiao/saledash/internal/domain/sale"
)

// Repository sale.Repository的mock实现
type Repository struct {
	mock.Mock
}

var _ sale.Repository = (*Repository)(nil)

func (m *Repository) Find(ctx context.Context, plan sale.Plan) ([]*sale.Sale, error) {
	args := m.Called(ctx, plan)
	sales, _ := args.Get(0).([]*sale.Sale)
	return sales, args.Error(1)
}

func (m *Repository) CountAll(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func (m *Repository) Summarize(ctx context.Context, plan sale.Plan) (*sale.Summary, error) {
	args := m.Called(ctx, plan)
	summary, _ := args.Get(0).(*sale.Summary)
	return summary, args.Error(1)
}

func (m *Repository) CountByKey(ctx context.Context, plan sale.Plan) ([]sale.KeyCount, error) {
	args := m.Called(ctx, plan)
	rows, _ := args.Get(0).([]sale.KeyCount)
	return rows, args.Error(1)
}

func (m *Repository) ReplaceAll(ctx context.Context, sales []*sale.Sale) (int64, error) {
	args := m.Called(ctx, sales)
	return args.Get(0).(int64), args.Error(1)
}
