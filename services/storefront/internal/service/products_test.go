package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/shestoi/GoBigTech/services/storefront/internal/repository"
	"github.com/shestoi/GoBigTech/services/storefront/internal/repository/memory"
	repoMocks "github.com/shestoi/GoBigTech/services/storefront/internal/repository/mocks"
	"github.com/shestoi/GoBigTech/services/storefront/internal/service"
)

func ptr[T any](v T) *T { return &v }

func TestProductService_ListProducts(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name        string
		page, limit int
		stored      int
		wantPage    int
		wantLimit   int
		wantTotal   int
		wantCounter int
		wantPayload int
		wantPrev    *int
		wantNext    *int
	}{
		{name: "defaults", page: 0, limit: 0, stored: 25, wantPage: 1, wantLimit: 10, wantTotal: 3, wantCounter: 1, wantPayload: 10, wantNext: ptr(2)},
		{name: "middle page", page: 2, limit: 10, stored: 25, wantPage: 2, wantLimit: 10, wantTotal: 3, wantCounter: 11, wantPayload: 10, wantPrev: ptr(1), wantNext: ptr(3)},
		{name: "last page", page: 3, limit: 10, stored: 25, wantPage: 3, wantLimit: 10, wantTotal: 3, wantCounter: 21, wantPayload: 5, wantPrev: ptr(2)},
		{name: "empty catalog has one page", page: 1, limit: 10, stored: 0, wantPage: 1, wantLimit: 10, wantTotal: 1, wantCounter: 1, wantPayload: 0},
		{name: "limit is capped", page: 1, limit: 1000, stored: 3, wantPage: 1, wantLimit: service.MaxLimit, wantTotal: 1, wantCounter: 1, wantPayload: 3},
		{name: "page past the end", page: 9, limit: 10, stored: 3, wantPage: 9, wantLimit: 10, wantTotal: 1, wantCounter: 81, wantPayload: 0, wantPrev: ptr(8)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := memory.NewProductRepository()
			for i := 0; i < tt.stored; i++ {
				_, err := repo.Create(ctx, repository.Product{Title: "p", Stock: 1})
				require.NoError(t, err)
			}
			svc := service.NewProductService(repo, zap.NewNop())

			page, err := svc.ListProducts(ctx, tt.page, tt.limit)
			require.NoError(t, err)
			require.Equal(t, int64(tt.stored), page.TotalDocs)
			require.Equal(t, tt.wantPage, page.Page)
			require.Equal(t, tt.wantLimit, page.Limit)
			require.Equal(t, tt.wantTotal, page.TotalPages)
			require.Equal(t, tt.wantCounter, page.PagingCounter)
			require.Len(t, page.Payload, tt.wantPayload)
			require.Equal(t, tt.wantPrev, page.PrevPage)
			require.Equal(t, tt.wantNext, page.NextPage)
			require.Equal(t, tt.wantPrev != nil, page.HasPrevPage)
			require.Equal(t, tt.wantNext != nil, page.HasNextPage)
		})
	}
}

func TestProductService_ListProducts_StoreError(t *testing.T) {
	ctx := context.Background()
	repo := repoMocks.NewProductRepository(t)
	repo.On("List", ctx, 0, 10).Return(nil, int64(0), errors.New("timeout")).Once()

	_, err := service.NewProductService(repo, zap.NewNop()).ListProducts(ctx, 1, 10)
	require.ErrorContains(t, err, "timeout")
}

func TestProductService_CreateProduct(t *testing.T) {
	ctx := context.Background()
	valid := func() service.CreateProductInput {
		return service.CreateProductInput{
			Title:       "Keyboard",
			Description: "Mechanical",
			Code:        "KB-1",
			Price:       ptr(decimal.RequireFromString("49.90")),
			Stock:       ptr(5),
		}
	}

	tests := []struct {
		name   string
		mutate func(*service.CreateProductInput)
	}{
		{name: "missing title", mutate: func(in *service.CreateProductInput) { in.Title = "" }},
		{name: "blank code", mutate: func(in *service.CreateProductInput) { in.Code = "  " }},
		{name: "missing price", mutate: func(in *service.CreateProductInput) { in.Price = nil }},
		{name: "zero price", mutate: func(in *service.CreateProductInput) { in.Price = ptr(decimal.Zero) }},
		{name: "zero stock", mutate: func(in *service.CreateProductInput) { in.Stock = ptr(0) }},
		{name: "negative stock", mutate: func(in *service.CreateProductInput) { in.Stock = ptr(-1) }},
		{name: "negative price", mutate: func(in *service.CreateProductInput) { in.Price = ptr(decimal.NewFromInt(-3)) }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := service.NewProductService(repoMocks.NewProductRepository(t), zap.NewNop())
			in := valid()
			tt.mutate(&in)

			_, err := svc.CreateProduct(ctx, in)
			require.ErrorIs(t, err, service.ErrValidation)
		})
	}

	t.Run("success", func(t *testing.T) {
		repo := memory.NewProductRepository()
		svc := service.NewProductService(repo, zap.NewNop())

		product, err := svc.CreateProduct(ctx, valid())
		require.NoError(t, err)
		require.True(t, repository.ValidID(product.ID))

		got, err := svc.GetProduct(ctx, product.ID)
		require.NoError(t, err)
		require.Equal(t, "KB-1", got.Code)
		require.Equal(t, 5, got.Stock)
	})
}

func TestProductService_UpdateProduct(t *testing.T) {
	ctx := context.Background()
	repo := memory.NewProductRepository()
	svc := service.NewProductService(repo, zap.NewNop())

	product, err := repo.Create(ctx, repository.Product{Title: "Old", Description: "d", Code: "c", Price: decimal.NewFromInt(5), Stock: 2})
	require.NoError(t, err)

	updated, err := svc.UpdateProduct(ctx, product.ID, repository.ProductPatch{Title: ptr("New"), Stock: ptr(0)})
	require.NoError(t, err)
	require.Equal(t, "New", updated.Title)
	require.Equal(t, 0, updated.Stock)
	require.Equal(t, "c", updated.Code)

	_, err = svc.UpdateProduct(ctx, product.ID, repository.ProductPatch{Stock: ptr(-1)})
	require.ErrorIs(t, err, service.ErrValidation)

	_, err = svc.UpdateProduct(ctx, product.ID, repository.ProductPatch{Price: ptr(decimal.NewFromInt(-1))})
	require.ErrorIs(t, err, service.ErrValidation)

	_, err = svc.UpdateProduct(ctx, product.ID, repository.ProductPatch{Title: ptr("")})
	require.ErrorIs(t, err, service.ErrValidation)

	_, err = svc.UpdateProduct(ctx, repository.NewID(), repository.ProductPatch{Title: ptr("x")})
	require.ErrorIs(t, err, service.ErrNotFound)

	_, err = svc.UpdateProduct(ctx, "123", repository.ProductPatch{})
	require.ErrorIs(t, err, service.ErrValidation)
}

func TestProductService_DeleteProduct(t *testing.T) {
	ctx := context.Background()
	repo := memory.NewProductRepository()
	svc := service.NewProductService(repo, zap.NewNop())

	product, err := repo.Create(ctx, repository.Product{Title: "Doomed", Stock: 1})
	require.NoError(t, err)

	deleted, err := svc.DeleteProduct(ctx, product.ID)
	require.NoError(t, err)
	require.Equal(t, "Doomed", deleted.Title)

	_, err = svc.DeleteProduct(ctx, product.ID)
	require.ErrorIs(t, err, service.ErrNotFound)
	require.Contains(t, err.Error(), product.ID)

	_, err = svc.GetProduct(ctx, product.ID)
	require.ErrorIs(t, err, service.ErrNotFound)

	_, err = svc.GetProduct(ctx, "zzz")
	require.ErrorIs(t, err, service.ErrValidation)
}
