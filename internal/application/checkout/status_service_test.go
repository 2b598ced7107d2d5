package checkout

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/erp/checkout/internal/domain/checkout"
	"github.com/erp/checkout/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestStatusService_Lookup(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	f.seedSession("ord-1", "PRO-M", "USD")
	svc := f.statuses(nil, nil)

	t.Run("unknown order", func(t *testing.T) {
		_, err := svc.CheckStatus(ctx, StatusCheckRequest{OrderID: "nope"})
		require.ErrorIs(t, err, shared.ErrNotFound)
		assert.Equal(t, "Unknown orderId", err.Error())
	})

	t.Run("gateway mismatch", func(t *testing.T) {
		_, err := svc.CheckStatus(ctx, StatusCheckRequest{OrderID: "ord-1", Gateway: "STRIPE"})
		assert.ErrorIs(t, err, checkout.ErrGatewayMismatch)
	})

	t.Run("gateway match ignores case", func(t *testing.T) {
		res, err := svc.CheckStatus(ctx, StatusCheckRequest{OrderID: "ord-1", Gateway: "zohobilling"})
		require.NoError(t, err)
		assert.Equal(t, "ord-1", res.OrderID)
	})
}

func TestStatusService_LocalOnly(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	f.seedSession("ord-1", "PRO-M", "USD")
	svc := f.statuses(nil, nil)

	res, err := svc.CheckStatus(ctx, StatusCheckRequest{OrderID: "ord-1"})
	require.NoError(t, err)
	assert.Equal(t, checkout.PaymentStatusPending, res.Status)
	assert.Equal(t, MsgAwaitingProvider, res.Message)
	assert.Equal(t, "fresh", res.ProviderStatusRaw)
	assert.Equal(t, "https://pay.test/ord-1", res.HostedURL)
	require.NotNil(t, res.Plan)
	assert.Equal(t, "PRO-M", res.Plan.PlanCode)
	assert.Equal(t, "MONTH", res.Plan.IntervalUnit)
	assert.Equal(t, "storage", res.Plan.Features[0].Key)
	assert.Equal(t, "INR", res.Plan.Prices[0].Currency)
	assert.Nil(t, res.SubscriptionID)
	f.gateway.AssertNotCalled(t, "GetHostedPageStatus", mock.Anything, mock.Anything)
}

func TestStatusService_TerminalResolvesLocally(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	f.seedEntity()
	completed(f, "ord-1", "PRO-M", "USD")
	svc := f.statuses(f.provisioning(), nil)

	res, err := svc.CheckStatus(ctx, StatusCheckRequest{OrderID: "ord-1", Live: true})
	require.NoError(t, err)
	assert.Equal(t, checkout.PaymentStatusSuccess, res.Status)
	assert.Equal(t, MsgResolvedLocal, res.Message)
	require.NotNil(t, res.SubscriptionID)
	assert.Equal(t, "ACTIVE", res.SubscriptionStatus)
	require.NotNil(t, res.PaidPlan)
	assert.True(t, *res.PaidPlan)
	assert.Equal(t, "zsub-ord-1", res.ZohoSubscriptionID)
	require.NotNil(t, res.Plan)
	assert.Equal(t, f.proPlan.ID, res.Plan.PlanID)
	f.gateway.AssertNotCalled(t, "GetHostedPageStatus", mock.Anything, mock.Anything)

	res, err = svc.CheckStatus(ctx, StatusCheckRequest{OrderID: "ord-1"})
	require.NoError(t, err)
	assert.Equal(t, MsgResolvedLocalNoLive, res.Message)
	assert.Len(t, f.subscriptions.all(), 1)
}

func TestStatusService_Live(t *testing.T) {
	ctx := context.Background()

	t.Run("fetches provider status and provisions", func(t *testing.T) {
		f := newFixture()
		f.seedEntity()
		f.seedSession("ord-1", "PRO-M", "USD")
		f.gateway.On("GetHostedPageStatus", mock.Anything, "hp-ord-1").Return(&checkout.HostedPageStatusResult{
			Status:       "paid",
			URL:          "https://pay.test/done",
			ExpiringTime: "2025-03-10T12:00:00+0530",
			RawJSON:      `{"hostedpage":{"status":"paid"}}`,
		}, nil).Once()
		svc := f.statuses(f.provisioning(), nil)

		res, err := svc.CheckStatus(ctx, StatusCheckRequest{OrderID: "ord-1", Live: true})
		require.NoError(t, err)
		assert.Equal(t, checkout.PaymentStatusSuccess, res.Status)
		assert.Equal(t, MsgFetchedFromProvider, res.Message)
		assert.Equal(t, "paid", res.ProviderStatusRaw)
		assert.Equal(t, "2025-03-10T12:00:00+0530", res.ExpiringTime)
		require.NotNil(t, res.SubscriptionID)

		hc, err := f.checkouts.FindByOrderID(ctx, "ord-1")
		require.NoError(t, err)
		assert.Equal(t, checkout.SessionStatusCompleted, hc.Status)
		assert.Equal(t, "https://pay.test/done", hc.HostedURL)
		assert.Contains(t, hc.ResponsePayloadJSON, `{"hostedpage":{"status":"paid"}}`)
		assert.Equal(t, 2, f.tx.count(), "one transaction for the poll and one for provisioning")
		f.gateway.AssertExpectations(t)
	})

	t.Run("unknown provider status is reported as is", func(t *testing.T) {
		f := newFixture()
		f.seedSession("ord-1", "PRO-M", "USD")
		f.gateway.On("GetHostedPageStatus", mock.Anything, "hp-ord-1").
			Return(&checkout.HostedPageStatusResult{Status: "odd"}, nil)

		res, err := f.statuses(nil, nil).CheckStatus(ctx, StatusCheckRequest{OrderID: "ord-1", Live: true})
		require.NoError(t, err)
		assert.Equal(t, checkout.PaymentStatusUnknown, res.Status)

		hc, err := f.checkouts.FindByOrderID(ctx, "ord-1")
		require.NoError(t, err)
		assert.Equal(t, checkout.SessionStatusPending, hc.Status)
	})

	t.Run("no hosted page yet", func(t *testing.T) {
		f := newFixture()
		hc, err := checkout.NewHostedCheckout(checkout.NewHostedCheckoutParams{
			OrderID: "ord-new", TenantID: "T1", BillingID: "B1", PlanCode: "PRO-M", Currency: "USD",
		})
		require.NoError(t, err)
		require.NoError(t, f.checkouts.Create(ctx, hc))

		res, err := f.statuses(nil, nil).CheckStatus(ctx, StatusCheckRequest{OrderID: "ord-new", Live: true})
		require.NoError(t, err)
		assert.Equal(t, checkout.PaymentStatusUnknown, res.Status)
		assert.Equal(t, MsgHostedPageMissing, res.Message)
	})

	t.Run("provider failure surfaces", func(t *testing.T) {
		f := newFixture()
		f.seedSession("ord-1", "PRO-M", "USD")
		f.gateway.On("GetHostedPageStatus", mock.Anything, "hp-ord-1").Return(nil, checkout.ErrGatewayRequestFailed)

		_, err := f.statuses(nil, nil).CheckStatus(ctx, StatusCheckRequest{OrderID: "ord-1", Live: true})
		assert.ErrorIs(t, err, checkout.ErrGatewayRequestFailed)
	})

	t.Run("throttled poll answers locally", func(t *testing.T) {
		f := newFixture()
		f.seedSession("ord-1", "PRO-M", "USD")

		res, err := f.statuses(nil, denyThrottle{}).CheckStatus(ctx, StatusCheckRequest{OrderID: "ord-1", Live: true})
		require.NoError(t, err)
		assert.Equal(t, checkout.PaymentStatusPending, res.Status)
		assert.Equal(t, MsgAwaitingProvider, res.Message)
		f.gateway.AssertNotCalled(t, "GetHostedPageStatus", mock.Anything, mock.Anything)
	})

	t.Run("throttle error fails open", func(t *testing.T) {
		f := newFixture()
		f.seedSession("ord-1", "PRO-M", "USD")
		f.gateway.On("GetHostedPageStatus", mock.Anything, "hp-ord-1").
			Return(&checkout.HostedPageStatusResult{Status: "pending"}, nil).Once()

		res, err := f.statuses(nil, denyThrottle{err: assert.AnError}).CheckStatus(ctx, StatusCheckRequest{OrderID: "ord-1", Live: true})
		require.NoError(t, err)
		assert.Equal(t, MsgFetchedFromProvider, res.Message)
	})

	t.Run("concurrent polls share one provider call", func(t *testing.T) {
		f := newFixture()
		f.seedSession("ord-1", "PRO-M", "USD")
		release := make(chan struct{})
		f.gateway.On("GetHostedPageStatus", mock.Anything, "hp-ord-1").
			Run(func(mock.Arguments) { <-release }).
			Return(&checkout.HostedPageStatusResult{Status: "pending"}, nil)
		svc := f.statuses(nil, nil)

		var wg sync.WaitGroup
		results := make([]*StatusCheckResult, 4)
		for i := range results {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				res, err := svc.CheckStatus(ctx, StatusCheckRequest{OrderID: "ord-1", Live: true})
				assert.NoError(t, err)
				results[i] = res
			}(i)
		}
		time.Sleep(20 * time.Millisecond)
		close(release)
		wg.Wait()

		for _, res := range results {
			require.NotNil(t, res)
			assert.Equal(t, checkout.PaymentStatusPending, res.Status)
		}
		calls := 0
		for _, c := range f.gateway.Calls {
			if c.Method == "GetHostedPageStatus" {
				calls++
			}
		}
		assert.GreaterOrEqual(t, calls, 1)
		assert.Less(t, calls, len(results))
	})
}
