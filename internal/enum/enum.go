package enum

// ── Order (settlement) workflow statuses ──

const (
	OrderStatusPendingAudit   = "pending_audit"
	OrderStatusAuditRejected  = "audit_rejected"
	OrderStatusPendingSign    = "pending_sign"
	OrderStatusPendingPayment = "pending_payment"
	OrderStatusPaid           = "paid"
	OrderStatusCompleted      = "completed"
	OrderStatusReturned       = "returned"
	OrderStatusCancelled      = "cancelled"
)

const (
	ReturnStatusPendingAudit  = "pending_audit"
	ReturnStatusAuditRejected = "audit_rejected"
	ReturnStatusPendingRefund = "pending_refund"
	ReturnStatusCompleted     = "completed"
)

const (
	AuditStatusPassed   = "passed"
	AuditStatusRejected = "rejected"
)

const (
	RecycleStatusPending  = "pending"
	RecycleStatusPassed   = "passed"
	RecycleStatusRejected = "rejected"
)

// ── Payment ──

const (
	PaymentMethodOnline  = "online"
	PaymentMethodOffline = "offline"
)

// ── Reference data labels ──

const (
	GenderMale   = "male"
	GenderFemale = "female"
)

const (
	InvoiceTitleCompany  = "company"
	InvoiceTitlePersonal = "personal"
)

const (
	InvoiceKindGeneral = "general"
	InvoiceKindSpecial = "special"
)

const (
	InvoiceContentDetails  = "details"
	InvoiceContentCategory = "category"
)
