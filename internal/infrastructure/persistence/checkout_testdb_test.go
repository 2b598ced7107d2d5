package persistence

import (
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// setupCheckoutTestDB creates an in-memory SQLite database with the checkout schema
func setupCheckoutTestDB(t *testing.T) *Database {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	require.NoError(t, err)

	// every pooled connection would otherwise get its own empty database
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	statements := []string{
		`CREATE TABLE hosted_checkouts (
			id TEXT PRIMARY KEY,
			order_id TEXT NOT NULL UNIQUE,
			gateway TEXT NOT NULL,
			tenant_id TEXT NOT NULL,
			billing_id TEXT NOT NULL,
			plan_code TEXT NOT NULL,
			currency TEXT NOT NULL,
			pricebook_id TEXT,
			status TEXT NOT NULL,
			provider_hosted_page_id TEXT,
			provider_decrypted_hosted_page_id TEXT,
			provider_status TEXT,
			hosted_url TEXT,
			redirect_url TEXT,
			expiring_time DATETIME,
			zoho_subscription_id TEXT,
			request_payload_json TEXT,
			response_payload_json TEXT,
			created_at DATETIME NOT NULL,
			updated_at DATETIME NOT NULL
		)`,
		`CREATE TABLE billing_entities (
			id TEXT PRIMARY KEY,
			tenant_id TEXT NOT NULL,
			billing_id TEXT NOT NULL,
			name TEXT,
			f_name TEXT,
			l_name TEXT,
			email TEXT,
			mobile TEXT,
			billing_address TEXT,
			city TEXT,
			country TEXT,
			state_name TEXT,
			state_code TEXT,
			gst_number TEXT,
			gst_state_code TEXT,
			gstin TEXT,
			org_id TEXT,
			admin_name TEXT,
			admin_email TEXT,
			zoho_customer_id TEXT,
			is_zoho_linked INTEGER NOT NULL DEFAULT 0,
			pricebook_id TEXT,
			has_complete_billing_profile INTEGER NOT NULL DEFAULT 0,
			created_at DATETIME NOT NULL,
			updated_at DATETIME NOT NULL,
			UNIQUE(tenant_id, billing_id)
		)`,
		`CREATE TABLE subscriptions (
			id TEXT PRIMARY KEY,
			billing_entity_id TEXT NOT NULL,
			plan_id TEXT NOT NULL,
			plan_code TEXT,
			status TEXT NOT NULL,
			is_paid_plan INTEGER NOT NULL DEFAULT 0,
			is_zoho_linked INTEGER NOT NULL DEFAULT 0,
			auto_renew INTEGER NOT NULL DEFAULT 0,
			start_date DATETIME NOT NULL,
			purchase_date DATETIME NOT NULL,
			end_date DATETIME,
			trial_end_date DATETIME,
			currency TEXT,
			amount TEXT NOT NULL DEFAULT '0',
			zoho_subscription_id TEXT,
			activation_order_id TEXT,
			created_at DATETIME NOT NULL,
			updated_at DATETIME NOT NULL
		)`,
		`CREATE UNIQUE INDEX idx_subscriptions_activation_order ON subscriptions(activation_order_id) WHERE activation_order_id IS NOT NULL`,
		`CREATE TABLE feature_usages (
			id TEXT PRIMARY KEY,
			subscription_id TEXT NOT NULL,
			feature_key TEXT NOT NULL,
			limit_count INTEGER,
			used_count INTEGER NOT NULL DEFAULT 0,
			is_exhausted INTEGER NOT NULL DEFAULT 0,
			created_at DATETIME NOT NULL,
			updated_at DATETIME NOT NULL,
			UNIQUE(subscription_id, feature_key)
		)`,
		`CREATE TABLE plans (
			id TEXT PRIMARY KEY,
			external_plan_code TEXT NOT NULL UNIQUE,
			name TEXT NOT NULL,
			description TEXT,
			category TEXT,
			is_active INTEGER NOT NULL DEFAULT 1,
			interval_unit TEXT,
			trial_period_days INTEGER NOT NULL DEFAULT 0,
			license_limit INTEGER,
			created_at DATETIME NOT NULL,
			updated_at DATETIME NOT NULL
		)`,
		`CREATE TABLE plan_features (
			id TEXT PRIMARY KEY,
			plan_id TEXT NOT NULL,
			feature_key TEXT NOT NULL,
			name TEXT,
			feature_limit INTEGER,
			sort_order INTEGER NOT NULL DEFAULT 0,
			UNIQUE(plan_id, feature_key)
		)`,
		`CREATE TABLE plan_prices (
			id TEXT PRIMARY KEY,
			plan_id TEXT NOT NULL,
			currency TEXT NOT NULL,
			amount TEXT NOT NULL DEFAULT '0',
			UNIQUE(plan_id, currency)
		)`,
		`CREATE TABLE pricebooks (
			id TEXT PRIMARY KEY,
			pricebook_id TEXT NOT NULL,
			currency TEXT NOT NULL,
			is_active INTEGER NOT NULL DEFAULT 1
		)`,
		`CREATE TABLE countries (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			iso_code TEXT NOT NULL UNIQUE,
			name TEXT NOT NULL,
			currency TEXT,
			enabled INTEGER NOT NULL DEFAULT 1
		)`,
	}
	for _, stmt := range statements {
		require.NoError(t, db.Exec(stmt).Error)
	}

	return &Database{DB: db}
}
