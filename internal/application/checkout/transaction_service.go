package checkout

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/erp/checkout/internal/domain/checkout"
	"github.com/erp/checkout/internal/domain/plan"
	"github.com/erp/checkout/internal/domain/shared"
	"go.uber.org/zap"
)

// Transaction page sizes
const (
	DefaultTransactionPageSize = 10
	MaxTransactionPageSize     = 200
)

// TransactionService lists settled checkouts as payment history
type TransactionService struct {
	checkouts checkout.Repository
	plans     plan.Repository
	logger    *zap.Logger
}

// TransactionServiceConfig contains dependencies for TransactionService
type TransactionServiceConfig struct {
	Checkouts checkout.Repository
	Plans     plan.Repository
	Logger    *zap.Logger
}

// NewTransactionService creates a new TransactionService
func NewTransactionService(cfg TransactionServiceConfig) *TransactionService {
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TransactionService{checkouts: cfg.Checkouts, plans: cfg.Plans, logger: logger}
}

// ListTransactions returns COMPLETED and FAILED checkouts newest first.
// Blank tenant or billing ids yield an empty page.
func (s *TransactionService) ListTransactions(ctx context.Context, q TransactionQuery) (shared.Paginated[TransactionView], error) {
	tenantID := strings.TrimSpace(q.TenantID)
	billingID := strings.TrimSpace(q.BillingID)
	if tenantID == "" || billingID == "" {
		return shared.NewPaginated([]TransactionView{}, 0, 0, 0), nil
	}
	page := q.Page
	if page < 0 {
		page = 0
	}
	size := q.Size
	if size <= 0 || size > MaxTransactionPageSize {
		size = DefaultTransactionPageSize
	}

	rows, total, err := s.checkouts.FindSettledByBilling(ctx, tenantID, billingID, page, size)
	if err != nil {
		return shared.Paginated[TransactionView]{}, fmt.Errorf("failed to list transactions: %w", err)
	}

	plans := map[string]*plan.Plan{}
	items := make([]TransactionView, 0, len(rows))
	for i := range rows {
		items = append(items, s.toView(ctx, &rows[i], plans))
	}
	return shared.NewPaginated(items, total, page, size), nil
}

func (s *TransactionService) toView(ctx context.Context, hc *checkout.HostedCheckout, plans map[string]*plan.Plan) TransactionView {
	details := checkout.ExtractTransactionDetails(hc.ResponsePayloadJSON)

	status := checkout.PaymentStatusFailed
	if hc.Status == checkout.SessionStatusCompleted {
		status = checkout.PaymentStatusSuccess
	}
	v := TransactionView{
		OrderID:       hc.OrderID,
		Gateway:       hc.Gateway,
		PlanCode:      hc.PlanCode,
		Status:        status,
		PurchaseDate:  details.Date,
		InvoiceID:     details.InvoiceID,
		Amount:        details.Amount,
		Currency:      hc.Currency,
		ExpiringTime:  hc.ExpiringTime,
		Email:         details.Email,
		PaymentMethod: details.PaymentMethod,
		CreatedAt:     hc.CreatedAt,
	}
	if v.Currency == "" {
		v.Currency = details.Currency
	}
	if v.PurchaseDate == "" && !hc.CreatedAt.IsZero() {
		v.PurchaseDate = hc.CreatedAt.UTC().Format(time.RFC3339)
	}
	if p := s.lookupPlan(ctx, hc.PlanCode, plans); p != nil {
		v.PlanCategory = p.Category
		v.IntervalUnit = p.NormalizedInterval()
	}
	return v
}

// lookupPlan memoizes plan reads for one page; misses are cached as nil
func (s *TransactionService) lookupPlan(ctx context.Context, code string, cache map[string]*plan.Plan) *plan.Plan {
	if code == "" {
		return nil
	}
	if p, ok := cache[code]; ok {
		return p
	}
	p, err := s.plans.FindByCode(ctx, code)
	if err != nil {
		if !errors.Is(err, shared.ErrNotFound) {
			s.logger.Warn("Failed to load plan for transaction", zap.String("plan_code", code), zap.Error(err))
		}
		p = nil
	}
	cache[code] = p
	return p
}
