// Package model holds the plain data records the POS core operates on.
// Records are immutable by convention: a change is always "replace with a
// new value", never an in-place field edit on a shared reference.
package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Spec is a single label/value row on a product detail sheet.
type Spec struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

// Product is a single resale item. Price of zero means the price is
// negotiable and set manually at time of sale, not that the item is free.
type Product struct {
	ID          string          `json:"id"`
	Brand       string          `json:"brand"`
	Category    string          `json:"category"`
	Title       string          `json:"title"`
	Price       decimal.Decimal `json:"price"`
	PublicPrice decimal.Decimal `json:"public_price"`
	Condition   string          `json:"condition"`
	ImageURL    string          `json:"image_url"`

	InventoryTime string   `json:"inventory_time,omitempty"`
	ListingTime   string   `json:"listing_time,omitempty"`
	Specs         []Spec   `json:"specs,omitempty"`
	DetailImages  []string `json:"detail_images,omitempty"`

	// Internal pricing fields, not shown to customers.
	CostPrice        decimal.Decimal `json:"cost_price,omitempty"`
	ProcurementPrice decimal.Decimal `json:"procurement_price,omitempty"`
	UniqueCode       string          `json:"unique_code,omitempty"`

	// Recycle (intake) flow fields.
	ExpectedPrice   decimal.Decimal `json:"expected_price,omitempty"`
	SettlementPrice decimal.Decimal `json:"settlement_price,omitempty"`
}

// Negotiable reports whether the product has no fixed price yet.
func (p Product) Negotiable() bool {
	return p.Price.IsZero()
}

// Member is a store customer account.
type Member struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Phone      string `json:"phone"`
	Gender     string `json:"gender"`
	IsVerified bool   `json:"is_verified"`
	Avatar     string `json:"avatar,omitempty"`
	ShopName   string `json:"shop_name,omitempty"`
}

// Employee is a salesperson. Read-only reference data.
type Employee struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Phone  string `json:"phone"`
	Avatar string `json:"avatar,omitempty"`
}

// Merchant is a selling entity an order is booked under. Read-only.
type Merchant struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// InvoiceTitle is a billing identity. Company titles carry a tax id.
type InvoiceTitle struct {
	ID        string `json:"id"`
	Type      string `json:"type"`
	Title     string `json:"title"`
	TaxID     string `json:"tax_id,omitempty"`
	IsDefault bool   `json:"is_default"`

	BankName        string `json:"bank_name,omitempty"`
	BankAccount     string `json:"bank_account,omitempty"`
	RegisterAddress string `json:"register_address,omitempty"`
	RegisterPhone   string `json:"register_phone,omitempty"`

	InvoiceKind    string `json:"invoice_kind,omitempty"`
	InvoiceContent string `json:"invoice_content,omitempty"`
	Email          string `json:"email,omitempty"`
}

// AuditInfo records one audit decision. It is never mutated after creation;
// a later audit replaces the whole value.
type AuditInfo struct {
	Submitter   string    `json:"submitter"`
	SubmitTime  time.Time `json:"submit_time"`
	Approver    string    `json:"approver"`
	ApproveTime time.Time `json:"approve_time"`
	Status      string    `json:"status"`
	Note        string    `json:"note,omitempty"`
}

// Settlement is a sales order with a committed item set and member.
// TotalAmount is the sum of item prices frozen at creation and is never
// recomputed. PaidAmount accumulates offline payments.
type Settlement struct {
	ID           string          `json:"id"`
	SalesOrderID string          `json:"sales_order_id"`
	Type         string          `json:"type"`
	TotalAmount  decimal.Decimal `json:"total_amount"`
	Items        []Product       `json:"items"`
	CreateTime   time.Time       `json:"create_time"`
	Member       Member          `json:"member"`
	PaidAmount   decimal.Decimal `json:"paid_amount"`
	EmployeeID   string          `json:"employee_id,omitempty"`
	Status       string          `json:"status"`

	PaymentMethod  string     `json:"payment_method,omitempty"`
	AuditInfo      *AuditInfo `json:"audit_info,omitempty"`
	ContractProofs []string   `json:"contract_proofs,omitempty"`
	InvoiceTitleID string     `json:"invoice_title_id,omitempty"`
}

// Remaining returns the unpaid balance.
func (s Settlement) Remaining() decimal.Decimal {
	return s.TotalAmount.Sub(s.PaidAmount)
}

// AuditPassed reports whether the latest audit decision was a pass.
func (s Settlement) AuditPassed() bool {
	return s.AuditInfo != nil && s.AuditInfo.Status == "passed"
}

// ReturnOrder is the refund/return request spawned from a Settlement.
// Amount is fixed at creation to the settlement's paid amount.
type ReturnOrder struct {
	ID              string          `json:"id"`
	OriginalOrderID string          `json:"original_order_id"`
	Amount          decimal.Decimal `json:"amount"`
	Status          string          `json:"status"`
	CreateTime      time.Time       `json:"create_time"`
	Items           []Product       `json:"items"`
	Member          Member          `json:"member"`

	OriginalPaymentMethod string          `json:"original_payment_method,omitempty"`
	OriginalPaidAmount    decimal.Decimal `json:"original_paid_amount"`
	EmployeeID            string          `json:"employee_id,omitempty"`
	RefundMethod          string          `json:"refund_method,omitempty"`
}

// RecycleOrder is an intake-side order (items bought from a customer).
// The sales lifecycle never mutates it; it only appears as a navigation
// target for self-service invoicing.
type RecycleOrder struct {
	ID                    string          `json:"id"`
	Member                Member          `json:"member"`
	Items                 []Product       `json:"items"`
	Status                string          `json:"status"`
	TotalExpectedAmount   decimal.Decimal `json:"total_expected_amount"`
	TotalSettlementAmount decimal.Decimal `json:"total_settlement_amount"`
	CreateTime            time.Time       `json:"create_time"`
}
