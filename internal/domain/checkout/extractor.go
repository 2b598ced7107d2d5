package checkout

import (
	"github.com/shopspring/decimal"
)

// DefaultProvider is assumed when neither the request nor the payload names one
const DefaultProvider = "ZOHOBILLING"

var (
	orderIDStrategies = Paths(
		"data.hostedpage.reference_id",
		"hostedpage.reference_id",
		"orderId",
		"data.order_id",
	)

	paymentHostedPageIDStrategy = WhenPaymentShape(Path("payment.invoices.0.hosted_page_id"))

	hostedPageIDStrategies = append(
		[]Strategy{paymentHostedPageIDStrategy},
		Paths(
			"data.hostedpage.hostedpage_id",
			"data.hostedpage.id",
			"hostedpage_id",
			"hostedpage.id",
		)...,
	)

	providerStatusStrategies = append(
		[]Strategy{
			WhenPaymentShape(Path("payment.payment_status")),
			WhenPaymentShape(Path("payment.status")),
		},
		Paths(
			"data.hostedpage.status",
			"hostedpage.status",
			"status",
		)...,
	)

	providerStrategies = []Strategy{
		WhenPaymentShape(Path("payment.autotransaction.payment_gateway")),
		WhenPaymentShape(Path("payment.payment_mode")),
	}

	subscriptionIDStrategies = []Strategy{
		WhenPaymentShape(Path("payment.invoices.0.subscription_ids.0")),
	}
)

// OrderID returns the local order correlator carried by hosted page payloads
func (d Document) OrderID() string {
	return FirstMatch(d, orderIDStrategies...)
}

// PaymentHostedPageID returns the hosted page id of the first invoice of a
// payment payload, or "" for any other shape
func (d Document) PaymentHostedPageID() string {
	return paymentHostedPageIDStrategy(d)
}

// HostedPageID returns the hosted page id observed in the payload. The
// payment invoice wins over any hosted page field elsewhere in the document.
func (d Document) HostedPageID() string {
	return FirstMatch(d, hostedPageIDStrategies...)
}

// ProviderStatus returns the raw provider status
func (d Document) ProviderStatus() string {
	return FirstMatch(d, providerStatusStrategies...)
}

// PaymentProvider returns the gateway named inside a payment payload
func (d Document) PaymentProvider() string {
	return FirstMatch(d, providerStrategies...)
}

// SubscriptionID returns the provider subscription id of a payment payload
func (d Document) SubscriptionID() string {
	return FirstMatch(d, subscriptionIDStrategies...)
}

// TransactionDetails are the payment facts shown in transaction history
type TransactionDetails struct {
	Date          string
	Email         string
	PaymentMethod string
	Currency      string
	Amount        *decimal.Decimal
	InvoiceID     string
}

// TransactionDetails extracts payment facts, preferring the payment shape
// and falling back to flat "data.*" fields for every other shape.
func (d Document) TransactionDetails() TransactionDetails {
	if d.IsPaymentShape() {
		amount := d.Decimal("payment.amount")
		if amount == nil {
			amount = d.Decimal("payment.invoices.0.invoice_amount")
		}
		return TransactionDetails{
			Date:  d.Text("payment.date"),
			Email: d.Text("payment.email"),
			PaymentMethod: FirstMatch(d,
				Path("payment.payment_mode"),
				Path("payment.autotransaction.payment_gateway"),
			),
			Currency:  d.Text("payment.currency_code"),
			Amount:    amount,
			InvoiceID: d.Text("payment.invoices.0.invoice_id"),
		}
	}
	return TransactionDetails{
		Date:          d.Text("data.date"),
		Email:         d.Text("data.customer_email"),
		PaymentMethod: d.Text("data.payment_mode"),
		Currency:      d.Text("data.currency"),
		Amount:        d.Decimal("data.amount"),
		InvoiceID:     d.Text("data.invoice_id"),
	}
}

// Decimal parses the scalar at path, returning nil when absent or malformed
func (d Document) Decimal(path string) *decimal.Decimal {
	s := d.Text(path)
	if s == "" {
		return nil
	}
	v, err := decimal.NewFromString(s)
	if err != nil {
		return nil
	}
	return &v
}

// ExtractTransactionDetails reads payment facts from the newest parsable
// block of an audit trail
func ExtractTransactionDetails(auditTrail string) TransactionDetails {
	block := LastJSONBlock(auditTrail)
	if block == "" {
		return TransactionDetails{}
	}
	doc, err := ParseDocument([]byte(block))
	if err != nil {
		return TransactionDetails{}
	}
	return doc.TransactionDetails()
}
