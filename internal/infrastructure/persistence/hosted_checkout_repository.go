package persistence

import (
	"context"

	"github.com/erp/checkout/internal/domain/checkout"
	"github.com/erp/checkout/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormHostedCheckoutRepository implements checkout.Repository using GORM
type GormHostedCheckoutRepository struct {
	db *gorm.DB
}

// NewGormHostedCheckoutRepository creates a new GormHostedCheckoutRepository
func NewGormHostedCheckoutRepository(db *gorm.DB) *GormHostedCheckoutRepository {
	return &GormHostedCheckoutRepository{db: db}
}

// FindByOrderID finds a session by its order id
func (r *GormHostedCheckoutRepository) FindByOrderID(ctx context.Context, orderID string) (*checkout.HostedCheckout, error) {
	return r.findOne(conn(ctx, r.db), "order_id = ?", orderID)
}

// FindByOrderIDForUpdate finds a session by order id and locks its row
func (r *GormHostedCheckoutRepository) FindByOrderIDForUpdate(ctx context.Context, orderID string) (*checkout.HostedCheckout, error) {
	return r.findOne(conn(ctx, r.db).Clauses(clause.Locking{Strength: "UPDATE"}), "order_id = ?", orderID)
}

// FindByDecryptedHostedPageID finds a session by the decrypted hosted page id
func (r *GormHostedCheckoutRepository) FindByDecryptedHostedPageID(ctx context.Context, hostedPageID string) (*checkout.HostedCheckout, error) {
	return r.findOne(conn(ctx, r.db), "provider_decrypted_hosted_page_id = ?", hostedPageID)
}

// FindByProviderHostedPageID finds a session by the hosted page id returned at creation
func (r *GormHostedCheckoutRepository) FindByProviderHostedPageID(ctx context.Context, hostedPageID string) (*checkout.HostedCheckout, error) {
	return r.findOne(conn(ctx, r.db), "provider_hosted_page_id = ?", hostedPageID)
}

func (r *GormHostedCheckoutRepository) findOne(db *gorm.DB, query string, args ...any) (*checkout.HostedCheckout, error) {
	var model models.HostedCheckoutModel
	if err := db.Where(query, args...).Order("created_at DESC").First(&model).Error; err != nil {
		return nil, translateNotFound(err)
	}
	return model.ToDomain(), nil
}

// FindSettledByBilling lists COMPLETED and FAILED sessions of a billing id,
// newest first. page is zero-based.
func (r *GormHostedCheckoutRepository) FindSettledByBilling(ctx context.Context, tenantID, billingID string, page, size int) ([]checkout.HostedCheckout, int64, error) {
	query := conn(ctx, r.db).Model(&models.HostedCheckoutModel{}).
		Where("tenant_id = ? AND billing_id = ?", tenantID, billingID).
		Where("status IN ?", []string{
			string(checkout.SessionStatusCompleted),
			string(checkout.SessionStatusFailed),
		}).
		Session(&gorm.Session{})

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []models.HostedCheckoutModel
	if err := query.
		Order("created_at DESC").
		Offset(page * size).
		Limit(size).
		Find(&rows).Error; err != nil {
		return nil, 0, err
	}

	sessions := make([]checkout.HostedCheckout, len(rows))
	for i := range rows {
		sessions[i] = *rows[i].ToDomain()
	}
	return sessions, total, nil
}

// Create inserts a new session
func (r *GormHostedCheckoutRepository) Create(ctx context.Context, hc *checkout.HostedCheckout) error {
	model := models.HostedCheckoutModelFromDomain(hc)
	return translateWriteError(conn(ctx, r.db).Create(model).Error)
}

// Save updates all columns of an existing session
func (r *GormHostedCheckoutRepository) Save(ctx context.Context, hc *checkout.HostedCheckout) error {
	model := models.HostedCheckoutModelFromDomain(hc)
	return translateWriteError(conn(ctx, r.db).Save(model).Error)
}
