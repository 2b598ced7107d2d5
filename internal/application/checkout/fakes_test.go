package checkout

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/erp/checkout/internal/domain/billing"
	"github.com/erp/checkout/internal/domain/checkout"
	"github.com/erp/checkout/internal/domain/plan"
	"github.com/erp/checkout/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

// MockGateway is a mock implementation of checkout.PaymentGateway
type MockGateway struct {
	mock.Mock
	name string
}

func newMockGateway(name string) *MockGateway {
	return &MockGateway{name: name}
}

func (m *MockGateway) Name() string { return m.name }

func (m *MockGateway) CreateHostedPage(ctx context.Context, payload map[string]any) (*checkout.HostedPageResult, error) {
	args := m.Called(ctx, payload)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*checkout.HostedPageResult), args.Error(1)
}

func (m *MockGateway) GetHostedPageStatus(ctx context.Context, hostedPageID string) (*checkout.HostedPageStatusResult, error) {
	args := m.Called(ctx, hostedPageID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*checkout.HostedPageStatusResult), args.Error(1)
}

// MockProvisioner is a mock implementation of Provisioner
type MockProvisioner struct {
	mock.Mock
}

func (m *MockProvisioner) ActivateFromSuccessfulCheckout(ctx context.Context, hc *checkout.HostedCheckout) error {
	return m.Called(ctx, hc).Error(0)
}

// passthroughTx runs fn directly; the in-memory stores have no rollback
type passthroughTx struct {
	mu    sync.Mutex
	calls int
}

func (t *passthroughTx) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	t.mu.Lock()
	t.calls++
	t.mu.Unlock()
	return fn(ctx)
}

func (t *passthroughTx) count() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.calls
}

type memCheckouts struct {
	mu   sync.Mutex
	rows map[string]checkout.HostedCheckout
}

func newMemCheckouts() *memCheckouts {
	return &memCheckouts{rows: map[string]checkout.HostedCheckout{}}
}

func (r *memCheckouts) get(orderID string) (*checkout.HostedCheckout, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	hc, ok := r.rows[orderID]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return &hc, nil
}

func (r *memCheckouts) FindByOrderID(_ context.Context, orderID string) (*checkout.HostedCheckout, error) {
	return r.get(orderID)
}

func (r *memCheckouts) FindByOrderIDForUpdate(_ context.Context, orderID string) (*checkout.HostedCheckout, error) {
	return r.get(orderID)
}

func (r *memCheckouts) findBy(match func(checkout.HostedCheckout) bool) (*checkout.HostedCheckout, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, hc := range r.rows {
		if match(hc) {
			return &hc, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r *memCheckouts) FindByDecryptedHostedPageID(_ context.Context, id string) (*checkout.HostedCheckout, error) {
	return r.findBy(func(hc checkout.HostedCheckout) bool { return hc.ProviderDecryptedHostedPageID == id })
}

func (r *memCheckouts) FindByProviderHostedPageID(_ context.Context, id string) (*checkout.HostedCheckout, error) {
	return r.findBy(func(hc checkout.HostedCheckout) bool { return hc.ProviderHostedPageID == id })
}

func (r *memCheckouts) FindSettledByBilling(_ context.Context, tenantID, billingID string, page, size int) ([]checkout.HostedCheckout, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []checkout.HostedCheckout
	for _, hc := range r.rows {
		if hc.TenantID == tenantID && hc.BillingID == billingID &&
			(hc.Status == checkout.SessionStatusCompleted || hc.Status == checkout.SessionStatusFailed) {
			out = append(out, hc)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	total := int64(len(out))
	from := page * size
	if from >= len(out) {
		return nil, total, nil
	}
	to := from + size
	if to > len(out) {
		to = len(out)
	}
	return out[from:to], total, nil
}

func (r *memCheckouts) Create(_ context.Context, hc *checkout.HostedCheckout) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.rows[hc.OrderID]; ok {
		return shared.ErrAlreadyExists
	}
	r.rows[hc.OrderID] = *hc
	return nil
}

func (r *memCheckouts) Save(_ context.Context, hc *checkout.HostedCheckout) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rows[hc.OrderID] = *hc
	return nil
}

type memBillingEntities struct {
	mu   sync.Mutex
	rows map[string]billing.BillingEntity
	// createErr is returned once by Create, then cleared
	createErr error
	// raceWinner is stored by the next Create, which then reports a conflict
	raceWinner *billing.BillingEntity
}

func newMemBillingEntities() *memBillingEntities {
	return &memBillingEntities{rows: map[string]billing.BillingEntity{}}
}

func beKey(tenantID, billingID string) string { return tenantID + "/" + billingID }

func (r *memBillingEntities) FindByTenantAndBilling(_ context.Context, tenantID, billingID string) (*billing.BillingEntity, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	be, ok := r.rows[beKey(tenantID, billingID)]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return &be, nil
}

func (r *memBillingEntities) FindByTenantAndBillingForUpdate(ctx context.Context, tenantID, billingID string) (*billing.BillingEntity, error) {
	return r.FindByTenantAndBilling(ctx, tenantID, billingID)
}

func (r *memBillingEntities) Create(_ context.Context, be *billing.BillingEntity) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.createErr; err != nil {
		r.createErr = nil
		return err
	}
	if w := r.raceWinner; w != nil {
		r.raceWinner = nil
		r.rows[beKey(w.TenantID, w.BillingID)] = *w
		return shared.ErrAlreadyExists
	}
	key := beKey(be.TenantID, be.BillingID)
	if _, ok := r.rows[key]; ok {
		return shared.ErrAlreadyExists
	}
	r.rows[key] = *be
	return nil
}

func (r *memBillingEntities) Save(_ context.Context, be *billing.BillingEntity) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rows[beKey(be.TenantID, be.BillingID)] = *be
	return nil
}

type memSubscriptions struct {
	mu   sync.Mutex
	rows []billing.Subscription
}

func (r *memSubscriptions) FindByActivationOrderID(_ context.Context, orderID string) (*billing.Subscription, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, s := range r.rows {
		if s.ActivationOrderID != "" && s.ActivationOrderID == orderID {
			return &s, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r *memSubscriptions) FindActiveByBillingEntityAndPlan(_ context.Context, beID, planID uuid.UUID) (*billing.Subscription, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, s := range r.rows {
		if s.BillingEntityID == beID && s.PlanID == planID && s.IsActive() {
			return &s, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r *memSubscriptions) Create(_ context.Context, sub *billing.Subscription) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, s := range r.rows {
		if sub.ActivationOrderID != "" && s.ActivationOrderID == sub.ActivationOrderID {
			return shared.ErrAlreadyExists
		}
	}
	r.rows = append(r.rows, *sub)
	return nil
}

func (r *memSubscriptions) Save(_ context.Context, sub *billing.Subscription) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.rows {
		if r.rows[i].ID == sub.ID {
			r.rows[i] = *sub
			return nil
		}
	}
	return shared.ErrNotFound
}

func (r *memSubscriptions) all() []billing.Subscription {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]billing.Subscription(nil), r.rows...)
}

type memFeatureUsages struct {
	mu   sync.Mutex
	rows []billing.FeatureUsage
}

func (r *memFeatureUsages) CreateBatch(_ context.Context, usages []*billing.FeatureUsage) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range usages {
		r.rows = append(r.rows, *u)
	}
	return nil
}

func (r *memFeatureUsages) FindBySubscription(_ context.Context, subID uuid.UUID) ([]billing.FeatureUsage, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []billing.FeatureUsage
	for _, u := range r.rows {
		if u.SubscriptionID == subID {
			out = append(out, u)
		}
	}
	return out, nil
}

type memPlans struct {
	plans []*plan.Plan
}

func (r *memPlans) FindByID(_ context.Context, id uuid.UUID) (*plan.Plan, error) {
	for _, p := range r.plans {
		if p.ID == id {
			return p, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r *memPlans) FindByCode(_ context.Context, code string) (*plan.Plan, error) {
	for _, p := range r.plans {
		if p.ExternalPlanCode == strings.TrimSpace(code) {
			return p, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r *memPlans) FindActiveByCode(ctx context.Context, code string) (*plan.Plan, error) {
	p, err := r.FindByCode(ctx, code)
	if err != nil || !p.IsActive {
		return nil, shared.ErrNotFound
	}
	return p, nil
}

func (r *memPlans) FindPrice(ctx context.Context, planID uuid.UUID, currency string) (*plan.Price, error) {
	p, err := r.FindByID(ctx, planID)
	if err != nil {
		return nil, err
	}
	pr, ok := p.PriceFor(currency)
	if !ok {
		return nil, shared.ErrNotFound
	}
	return &pr, nil
}

type memPricebooks struct {
	books []plan.Pricebook
}

func (r *memPricebooks) FindByCurrency(_ context.Context, currency string) (*plan.Pricebook, error) {
	for _, pb := range r.books {
		if pb.IsActive && strings.EqualFold(pb.Currency, currency) {
			return &pb, nil
		}
	}
	return nil, shared.ErrNotFound
}

// recordingMetrics counts outcomes per call site
type recordingMetrics struct {
	mu       sync.Mutex
	outcomes []string
}

func (m *recordingMetrics) add(kind, outcome string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.outcomes = append(m.outcomes, kind+":"+outcome)
}

func (m *recordingMetrics) RecordSessionCreated(_ context.Context, _ string, outcome string) {
	m.add("session", outcome)
}
func (m *recordingMetrics) RecordWebhook(_ context.Context, _ string, outcome string) {
	m.add("webhook", outcome)
}
func (m *recordingMetrics) RecordStatusCheck(_ context.Context, source, _ string) {
	m.add("status", source)
}
func (m *recordingMetrics) RecordProvisioning(_ context.Context, outcome string) {
	m.add("provisioning", outcome)
}

type denyThrottle struct{ err error }

func (d denyThrottle) Allow(context.Context, string) (bool, error) { return false, d.err }

type recordingArchive struct {
	mu     sync.Mutex
	orders []string
	err    error
}

func (a *recordingArchive) Store(_ context.Context, orderID string, _ time.Time, _ []byte) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.orders = append(a.orders, orderID)
	return a.err
}

// fixture wires every service onto shared in-memory stores
type fixture struct {
	checkouts     *memCheckouts
	entities      *memBillingEntities
	subscriptions *memSubscriptions
	usages        *memFeatureUsages
	plans         *memPlans
	pricebooks    *memPricebooks
	tx            *passthroughTx
	gateway       *MockGateway
	registry      *checkout.GatewayRegistry
	metrics       *recordingMetrics
	now           time.Time
	proPlan       *plan.Plan
}

func newFixture() *fixture {
	limit := 10
	pro := &plan.Plan{
		BaseEntity:       shared.NewBaseEntity(),
		ExternalPlanCode: "PRO-M",
		Name:             "Pro Monthly",
		Category:         "Business",
		IsActive:         true,
		IntervalUnit:     "months",
		Features: []plan.Feature{
			{ID: uuid.New(), Key: "users", Name: "Users", Limit: &limit, SortOrder: 2},
			{ID: uuid.New(), Key: "storage", Name: "Storage", SortOrder: 1},
		},
		Prices: []plan.Price{
			{ID: uuid.New(), Currency: "USD", Amount: decimal.RequireFromString("49.99")},
			{ID: uuid.New(), Currency: "INR", Amount: decimal.RequireFromString("3999")},
		},
	}
	legacy := &plan.Plan{
		BaseEntity:       shared.NewBaseEntity(),
		ExternalPlanCode: "LEGACY",
		IsActive:         false,
		IntervalUnit:     "year",
		Prices:           []plan.Price{{ID: uuid.New(), Currency: "USD", Amount: decimal.NewFromInt(99)}},
	}
	bare := &plan.Plan{
		BaseEntity:       shared.NewBaseEntity(),
		ExternalPlanCode: "BARE",
		IsActive:         true,
		IntervalUnit:     "",
		Prices:           []plan.Price{{ID: uuid.New(), Currency: "USD", Amount: decimal.NewFromInt(5)}},
	}
	for i := range pro.Features {
		pro.Features[i].PlanID = pro.ID
	}

	gw := newMockGateway("ZOHOBILLING")
	return &fixture{
		checkouts:     newMemCheckouts(),
		entities:      newMemBillingEntities(),
		subscriptions: &memSubscriptions{},
		usages:        &memFeatureUsages{},
		plans:         &memPlans{plans: []*plan.Plan{pro, legacy, bare}},
		pricebooks: &memPricebooks{books: []plan.Pricebook{
			{ID: uuid.New(), PricebookID: "PB-USD", Currency: "USD", IsActive: true},
			{ID: uuid.New(), PricebookID: "PB-INR", Currency: "INR", IsActive: true},
			{ID: uuid.New(), PricebookID: "PB-EUR", Currency: "EUR", IsActive: true},
		}},
		tx:       &passthroughTx{},
		gateway:  gw,
		registry: checkout.NewGatewayRegistry(gw),
		metrics:  &recordingMetrics{},
		now:      time.Date(2025, 3, 10, 9, 30, 15, 500, time.UTC),
		proPlan:  pro,
	}
}

func (f *fixture) provisioning() *ProvisioningService {
	return NewProvisioningService(ProvisioningServiceConfig{
		BillingEntities: f.entities,
		Subscriptions:   f.subscriptions,
		FeatureUsages:   f.usages,
		Plans:           f.plans,
		Tx:              f.tx,
		Clock:           func() time.Time { return f.now },
		Metrics:         f.metrics,
	})
}

func (f *fixture) sessions() *SessionService {
	return NewSessionService(SessionServiceConfig{
		Checkouts:       f.checkouts,
		BillingEntities: f.entities,
		Subscriptions:   f.subscriptions,
		Plans:           f.plans,
		Pricebooks:      f.pricebooks,
		Gateways:        f.registry,
		Tx:              f.tx,
		Metrics:         f.metrics,
	})
}

func (f *fixture) webhooks(secret string, p Provisioner, archive PayloadArchive) *WebhookService {
	return NewWebhookService(WebhookServiceConfig{
		Checkouts:   f.checkouts,
		Provisioner: p,
		Archive:     archive,
		Tx:          f.tx,
		Secret:      secret,
		Clock:       func() time.Time { return f.now },
		Metrics:     f.metrics,
	})
}

func (f *fixture) statuses(p Provisioner, throttle PollThrottle) *StatusService {
	return NewStatusService(StatusServiceConfig{
		Checkouts:     f.checkouts,
		Subscriptions: f.subscriptions,
		Plans:         f.plans,
		Gateways:      f.registry,
		Provisioner:   p,
		Throttle:      throttle,
		Tx:            f.tx,
		Metrics:       f.metrics,
	})
}

// seedSession stores a PENDING session as if a hosted page had been created
func (f *fixture) seedSession(orderID, planCode, currency string) *checkout.HostedCheckout {
	hc, err := checkout.NewHostedCheckout(checkout.NewHostedCheckoutParams{
		OrderID:     orderID,
		Gateway:     "ZOHOBILLING",
		TenantID:    "T1",
		BillingID:   "B1",
		PlanCode:    planCode,
		Currency:    currency,
		PricebookID: "PB-" + currency,
		RequestPayloadJSON: `{"customer":{"company_name":"Acme Pvt Ltd","first_name":"Asha","last_name":"Rao",
			"email":"asha@acme.test","phone":"+91-22-5550100",
			"billing_address":{"street":"1 MG Road","city":"Mumbai","zip":"400001","country":"India","state":"Maharashtra","state_code":"MH"}},
			"gst_no":"27AAAAA0000A1Z5","place_of_supply":"MH"}`,
	})
	if err != nil {
		panic(err)
	}
	hc.MarkHostedPageCreated(&checkout.HostedPageResult{
		HostedPageID:          "hp-" + orderID,
		DecryptedHostedPageID: "dhp-" + orderID,
		Status:                "fresh",
		URL:                   "https://pay.test/" + orderID,
		RawJSON:               `{"code":0}`,
	})
	_ = f.checkouts.Create(context.Background(), hc)
	return hc
}

// seedEntity stores a bare billing entity for T1/B1
func (f *fixture) seedEntity() *billing.BillingEntity {
	be, err := billing.NewBillingEntity("T1", "B1", billing.ProfileHints{})
	if err != nil {
		panic(err)
	}
	_ = f.entities.Create(context.Background(), be)
	return be
}
