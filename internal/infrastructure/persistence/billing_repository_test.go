package persistence

import (
	"context"
	"testing"
	"time"

	"github.com/erp/checkout/internal/domain/billing"
	"github.com/erp/checkout/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGormBillingEntityRepository(t *testing.T) {
	db := setupCheckoutTestDB(t)
	repo := NewGormBillingEntityRepository(db.DB)
	ctx := context.Background()

	be, err := billing.NewBillingEntity("T1", "B1", billing.ProfileHints{Email: "ops@acme.test"})
	require.NoError(t, err)
	require.NoError(t, repo.Create(ctx, be))

	t.Run("find", func(t *testing.T) {
		found, err := repo.FindByTenantAndBilling(ctx, "T1", "B1")
		require.NoError(t, err)
		assert.Equal(t, be.ID, found.ID)
		assert.Equal(t, "Tenant T1", found.Name)
		assert.Equal(t, "ops@acme.test", found.Email)
	})

	t.Run("duplicate tenant billing pair", func(t *testing.T) {
		dup, err := billing.NewBillingEntity("T1", "B1", billing.ProfileHints{})
		require.NoError(t, err)
		assert.ErrorIs(t, repo.Create(ctx, dup), shared.ErrAlreadyExists)
	})

	t.Run("enrich under lock", func(t *testing.T) {
		err := db.WithTx(ctx, func(ctx context.Context) error {
			locked, err := repo.FindByTenantAndBillingForUpdate(ctx, "T1", "B1")
			if err != nil {
				return err
			}
			locked.Enrich(billing.ProfileHints{BillingAddress: "1 Main St", PlaceOfSupply: "MH"})
			return repo.Save(ctx, locked)
		})
		require.NoError(t, err)

		found, err := repo.FindByTenantAndBilling(ctx, "T1", "B1")
		require.NoError(t, err)
		assert.Equal(t, "MH", found.StateCode)
		assert.True(t, found.HasCompleteBillingProfile)
	})

	t.Run("missing", func(t *testing.T) {
		_, err := repo.FindByTenantAndBilling(ctx, "T1", "nope")
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})
}

func TestGormSubscriptionRepository(t *testing.T) {
	db := setupCheckoutTestDB(t)
	repo := NewGormSubscriptionRepository(db.DB)
	ctx := context.Background()

	beID, planID := uuid.New(), uuid.New()
	start := time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 1, 0)

	sub, err := billing.NewPaidSubscription(billing.PaidSubscriptionParams{
		BillingEntityID:   beID,
		PlanID:            planID,
		PlanCode:          "PRO-M",
		Start:             start,
		End:               &end,
		Currency:          "USD",
		Amount:            decimal.RequireFromString("49.99"),
		ActivationOrderID: "ord-1",
	})
	require.NoError(t, err)
	require.NoError(t, repo.Create(ctx, sub))

	t.Run("by activation order", func(t *testing.T) {
		found, err := repo.FindByActivationOrderID(ctx, "ord-1")
		require.NoError(t, err)
		assert.Equal(t, sub.ID, found.ID)
		assert.True(t, decimal.RequireFromString("49.99").Equal(found.Amount))
		require.NotNil(t, found.EndDate)
		assert.True(t, end.Equal(*found.EndDate))
	})

	t.Run("active by entity and plan", func(t *testing.T) {
		found, err := repo.FindActiveByBillingEntityAndPlan(ctx, beID, planID)
		require.NoError(t, err)
		assert.Equal(t, sub.ID, found.ID)
	})

	t.Run("activation order is unique", func(t *testing.T) {
		again, err := billing.NewPaidSubscription(billing.PaidSubscriptionParams{
			BillingEntityID:   beID,
			PlanID:            uuid.New(),
			Start:             start,
			ActivationOrderID: "ord-1",
		})
		require.NoError(t, err)
		assert.ErrorIs(t, repo.Create(ctx, again), shared.ErrAlreadyExists)
	})

	t.Run("subscriptions without activation order do not collide", func(t *testing.T) {
		for i := 0; i < 2; i++ {
			s := &billing.Subscription{
				BaseEntity:      shared.NewBaseEntity(),
				BillingEntityID: beID,
				PlanID:          uuid.New(),
				Status:          billing.SubscriptionStatusTrial,
				StartDate:       start,
				PurchaseDate:    start,
			}
			require.NoError(t, repo.Create(ctx, s))
		}
	})

	t.Run("cancelled is no longer active", func(t *testing.T) {
		sub.Cancel(time.Now())
		require.NoError(t, repo.Save(ctx, sub))

		_, err := repo.FindActiveByBillingEntityAndPlan(ctx, beID, planID)
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})
}

func TestGormFeatureUsageRepository(t *testing.T) {
	db := setupCheckoutTestDB(t)
	repo := NewGormFeatureUsageRepository(db.DB)
	ctx := context.Background()

	subID := uuid.New()
	limit := 5
	require.NoError(t, repo.CreateBatch(ctx, []*billing.FeatureUsage{
		billing.NewFeatureUsage(subID, "users", &limit),
		billing.NewFeatureUsage(subID, "api_calls", nil),
	}))
	require.NoError(t, repo.CreateBatch(ctx, nil))

	usages, err := repo.FindBySubscription(ctx, subID)
	require.NoError(t, err)
	require.Len(t, usages, 2)
	assert.Equal(t, "api_calls", usages[0].FeatureKey)
	assert.Nil(t, usages[0].LimitCount)
	assert.Equal(t, "users", usages[1].FeatureKey)
	require.NotNil(t, usages[1].LimitCount)
	assert.Equal(t, 5, *usages[1].LimitCount)
	assert.Zero(t, usages[1].UsedCount)

	t.Run("duplicate feature key", func(t *testing.T) {
		err := repo.CreateBatch(ctx, []*billing.FeatureUsage{billing.NewFeatureUsage(subID, "users", nil)})
		assert.ErrorIs(t, err, shared.ErrAlreadyExists)
	})
}
