package checkout

import "strings"

// SessionStatus is the persisted status of a hosted checkout
type SessionStatus string

const (
	SessionStatusCreated   SessionStatus = "CREATED"
	SessionStatusPending   SessionStatus = "PENDING"
	SessionStatusCompleted SessionStatus = "COMPLETED"
	SessionStatusFailed    SessionStatus = "FAILED"
	SessionStatusExpired   SessionStatus = "EXPIRED"
)

// String returns the string representation of SessionStatus
func (s SessionStatus) String() string {
	return string(s)
}

// IsValid returns true if the status is one of the known session statuses
func (s SessionStatus) IsValid() bool {
	switch s {
	case SessionStatusCreated, SessionStatusPending, SessionStatusCompleted,
		SessionStatusFailed, SessionStatusExpired:
		return true
	}
	return false
}

// IsTerminal returns true for statuses that can no longer change
func (s SessionStatus) IsTerminal() bool {
	switch s {
	case SessionStatusCompleted, SessionStatusFailed, SessionStatusExpired:
		return true
	}
	return false
}

// PaymentStatus is the provider-independent payment outcome
type PaymentStatus string

const (
	PaymentStatusPending PaymentStatus = "PENDING"
	PaymentStatusSuccess PaymentStatus = "SUCCESS"
	PaymentStatusFailed  PaymentStatus = "FAILED"
	PaymentStatusExpired PaymentStatus = "EXPIRED"
	PaymentStatusUnknown PaymentStatus = "UNKNOWN"
)

// String returns the string representation of PaymentStatus
func (p PaymentStatus) String() string {
	return string(p)
}

// IsTerminal returns true for SUCCESS, FAILED and EXPIRED
func (p PaymentStatus) IsTerminal() bool {
	switch p {
	case PaymentStatusSuccess, PaymentStatusFailed, PaymentStatusExpired:
		return true
	}
	return false
}

// SessionStatus maps a payment outcome onto the persisted vocabulary.
// PENDING and UNKNOWN both persist as PENDING.
func (p PaymentStatus) SessionStatus() SessionStatus {
	switch p {
	case PaymentStatusSuccess:
		return SessionStatusCompleted
	case PaymentStatusFailed:
		return SessionStatusFailed
	case PaymentStatusExpired:
		return SessionStatusExpired
	default:
		return SessionStatusPending
	}
}

// NormalizeLocal maps a persisted session status onto PaymentStatus.
// PAID is accepted as a legacy alias of COMPLETED.
func NormalizeLocal(status string) PaymentStatus {
	switch strings.ToUpper(strings.TrimSpace(status)) {
	case "CREATED", "PENDING":
		return PaymentStatusPending
	case "COMPLETED", "PAID":
		return PaymentStatusSuccess
	case "FAILED":
		return PaymentStatusFailed
	case "EXPIRED":
		return PaymentStatusExpired
	default:
		return PaymentStatusUnknown
	}
}

// NormalizeProvider maps a raw provider status onto PaymentStatus
func NormalizeProvider(status string) PaymentStatus {
	switch strings.ToLower(strings.TrimSpace(status)) {
	case "success", "paid", "completed", "used":
		return PaymentStatusSuccess
	case "expired":
		return PaymentStatusExpired
	case "failed":
		return PaymentStatusFailed
	case "fresh", "created", "initiated", "inprogress", "pending":
		return PaymentStatusPending
	default:
		return PaymentStatusUnknown
	}
}
