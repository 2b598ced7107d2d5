// Package checkout provides the domain model for hosted checkout sessions.
//
// A hosted checkout is one attempt by a tenant to buy a subscription plan
// through a third-party hosted payment page. This package owns:
//   - HostedCheckout: the session aggregate and its CREATED -> PENDING -> terminal lifecycle
//   - Status normalization: mapping local and provider status strings onto PaymentStatus
//   - Payload extraction: pulling correlators and payment facts out of provider payloads
//   - PaymentGateway: the port implemented by provider adapters
//
// Terminal session states (COMPLETED, FAILED, EXPIRED) are sinks. Later provider
// signals are recorded in the audit trail but never move the status again.
package checkout
