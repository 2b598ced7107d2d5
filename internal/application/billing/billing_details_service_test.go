package billing

import (
	"context"
	"testing"

	"github.com/erp/checkout/internal/domain/billing"
	"github.com/erp/checkout/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockBillingEntityRepository struct {
	mock.Mock
}

func (m *mockBillingEntityRepository) FindByTenantAndBilling(ctx context.Context, tenantID, billingID string) (*billing.BillingEntity, error) {
	args := m.Called(ctx, tenantID, billingID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*billing.BillingEntity), args.Error(1)
}

func (m *mockBillingEntityRepository) FindByTenantAndBillingForUpdate(ctx context.Context, tenantID, billingID string) (*billing.BillingEntity, error) {
	args := m.Called(ctx, tenantID, billingID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*billing.BillingEntity), args.Error(1)
}

func (m *mockBillingEntityRepository) Create(ctx context.Context, be *billing.BillingEntity) error {
	return m.Called(ctx, be).Error(0)
}

func (m *mockBillingEntityRepository) Save(ctx context.Context, be *billing.BillingEntity) error {
	return m.Called(ctx, be).Error(0)
}

func TestBillingDetailsService_GetBillingDetails(t *testing.T) {
	ctx := context.Background()

	t.Run("blank ids", func(t *testing.T) {
		svc := NewBillingDetailsService(BillingDetailsServiceConfig{BillingEntities: new(mockBillingEntityRepository)})
		_, err := svc.GetBillingDetails(ctx, "T1", "  ")
		assert.ErrorIs(t, err, shared.ErrInvalidInput)
	})

	t.Run("not found", func(t *testing.T) {
		repo := new(mockBillingEntityRepository)
		repo.On("FindByTenantAndBilling", ctx, "T1", "B1").Return(nil, shared.ErrNotFound)
		svc := NewBillingDetailsService(BillingDetailsServiceConfig{BillingEntities: repo})

		d, err := svc.GetBillingDetails(ctx, " T1 ", "B1")
		require.NoError(t, err)
		assert.Equal(t, ProfileStateNotFound, d.State)
		assert.False(t, d.Exists)
		assert.Nil(t, d.Info)
		assert.Equal(t, MsgProfileNotFound, d.Message)
	})

	t.Run("incomplete", func(t *testing.T) {
		be, err := billing.NewBillingEntity("T1", "B1", billing.ProfileHints{Email: "a@b.test"})
		require.NoError(t, err)
		repo := new(mockBillingEntityRepository)
		repo.On("FindByTenantAndBilling", ctx, "T1", "B1").Return(be, nil)

		d, err := NewBillingDetailsService(BillingDetailsServiceConfig{BillingEntities: repo}).GetBillingDetails(ctx, "T1", "B1")
		require.NoError(t, err)
		assert.Equal(t, ProfileStateIncomplete, d.State)
		assert.True(t, d.Exists)
		assert.Same(t, be, d.Info)
		assert.Equal(t, MsgProfileIncomplete, d.Message)
	})

	t.Run("complete", func(t *testing.T) {
		be, err := billing.NewBillingEntity("T1", "B1", billing.ProfileHints{})
		require.NoError(t, err)
		be.HasCompleteBillingProfile = true
		repo := new(mockBillingEntityRepository)
		repo.On("FindByTenantAndBilling", ctx, "T1", "B1").Return(be, nil)

		d, err := NewBillingDetailsService(BillingDetailsServiceConfig{BillingEntities: repo}).GetBillingDetails(ctx, "T1", "B1")
		require.NoError(t, err)
		assert.Equal(t, ProfileStateComplete, d.State)
		assert.Equal(t, MsgProfileComplete, d.Message)
	})

	t.Run("repository failure", func(t *testing.T) {
		repo := new(mockBillingEntityRepository)
		repo.On("FindByTenantAndBilling", ctx, "T1", "B1").Return(nil, assert.AnError)

		_, err := NewBillingDetailsService(BillingDetailsServiceConfig{BillingEntities: repo}).GetBillingDetails(ctx, "T1", "B1")
		assert.ErrorIs(t, err, assert.AnError)
	})
}
