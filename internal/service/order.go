// Package service implements the order lifecycle engine: every legal
// transition a Settlement or ReturnOrder can take, with the validation that
// guards it. Services are the only writers of lifecycle state; screens call
// them and render whatever the store holds afterwards.
package service

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/reluxe-pos/app/internal/enum"
	"github.com/reluxe-pos/app/internal/event"
	"github.com/reluxe-pos/app/internal/model"
	"github.com/reluxe-pos/app/internal/store"
)

// Errors returned by the order service.
var (
	ErrMemberRequired       = errors.New("member is required")
	ErrMemberNotFound       = errors.New("member not found")
	ErrMerchantRequired     = errors.New("merchant is required")
	ErrMerchantNotFound     = errors.New("merchant not found")
	ErrEmptyItems           = errors.New("items are required")
	ErrProductNotFound      = errors.New("product not found")
	ErrNegotiablePrice      = errors.New("negotiable item requires a sale price")
	ErrNegativePrice        = errors.New("price must not be negative")
	ErrInvalidPaymentMethod = errors.New("invalid payment method")
	ErrOrderNotFound        = errors.New("order not found")
	ErrNotInAudit           = errors.New("order is not under audit")
	ErrEmptyReason          = errors.New("rejection reason is required")
	ErrAuditNotPassed       = errors.New("order has not passed audit")
	ErrNotAwaitingSign      = errors.New("order is not awaiting contract signing")
	ErrNoContractProof      = errors.New("at least one contract proof is required")
)

// SubmitOrderRequest is the validated input for submitting a sales order.
type SubmitOrderRequest struct {
	MemberID       string
	MerchantID     string
	PaymentMethod  string
	EmployeeID     string
	InvoiceTitleID string
	Items          []SubmitOrderItem
}

// SubmitOrderItem is a single line. Price overrides the listed price when
// positive; it is mandatory for negotiable items (listed price zero).
type SubmitOrderItem struct {
	ProductID string
	Price     decimal.Decimal
}

// OrderService handles the Settlement half of the lifecycle: submission,
// audit, contract signing, and the skip-to-settlement shortcut.
type OrderService struct {
	store *store.Store
	hub   *event.Hub
	now   func() time.Time
	newID func() string
}

// NewOrderService creates a new OrderService.
func NewOrderService(st *store.Store, hub *event.Hub) *OrderService {
	return &OrderService{
		store: st,
		hub:   hub,
		now:   time.Now,
		newID: func() string { return uuid.NewString()[:8] },
	}
}

// WithClock overrides the time source. Used by tests and the demo driver.
func (s *OrderService) WithClock(now func() time.Time) *OrderService {
	s.now = now
	return s
}

// WithIDGenerator overrides the id source.
func (s *OrderService) WithIDGenerator(gen func() string) *OrderService {
	s.newID = gen
	return s
}

// Submit validates the checkout and creates the Settlement in pending_audit.
// The total is the sum of the resolved item prices at this instant and is
// never recomputed afterwards; items and member are snapshot copies.
func (s *OrderService) Submit(req SubmitOrderRequest) (*model.Settlement, error) {
	if req.MemberID == "" {
		return nil, ErrMemberRequired
	}
	member, err := s.store.GetMember(req.MemberID)
	if err != nil {
		return nil, ErrMemberNotFound
	}

	if req.MerchantID == "" {
		return nil, ErrMerchantRequired
	}
	if _, err := s.store.GetMerchant(req.MerchantID); err != nil {
		return nil, ErrMerchantNotFound
	}

	if req.PaymentMethod != enum.PaymentMethodOnline && req.PaymentMethod != enum.PaymentMethodOffline {
		return nil, ErrInvalidPaymentMethod
	}

	if len(req.Items) == 0 {
		return nil, ErrEmptyItems
	}

	total := decimal.Zero
	items := make([]model.Product, 0, len(req.Items))
	for i, line := range req.Items {
		product, err := s.store.GetProduct(line.ProductID)
		if err != nil {
			return nil, fmt.Errorf("item[%d]: %w", i, ErrProductNotFound)
		}
		price := product.Price
		if line.Price.IsNegative() {
			return nil, fmt.Errorf("item[%d]: %w", i, ErrNegativePrice)
		}
		if line.Price.IsPositive() {
			price = line.Price
		}
		if price.IsZero() && product.Negotiable() {
			return nil, fmt.Errorf("item[%d]: %w", i, ErrNegotiablePrice)
		}
		product.Price = price
		items = append(items, product)
		total = total.Add(price)
	}

	id := s.newID()
	order := model.Settlement{
		ID:             "SET-" + id,
		SalesOrderID:   "SO-" + id,
		Type:           "sales",
		TotalAmount:    total,
		Items:          items,
		CreateTime:     s.now(),
		Member:         member,
		PaidAmount:     decimal.Zero,
		EmployeeID:     req.EmployeeID,
		Status:         enum.OrderStatusPendingAudit,
		PaymentMethod:  req.PaymentMethod,
		InvoiceTitleID: req.InvoiceTitleID,
	}

	s.store.InsertOrder(order)
	s.hub.Publish(event.TopicOrders, "order.submitted", order)
	return &order, nil
}

// AuditPass records a passed audit decision. The status does not advance
// here; it moves only when the user proceeds to signing or skips straight to
// settlement.
func (s *OrderService) AuditPass(orderID, approver string) (*model.Settlement, error) {
	order, err := s.store.GetOrder(orderID)
	if err != nil {
		return nil, ErrOrderNotFound
	}
	if order.Status != enum.OrderStatusPendingAudit {
		return nil, ErrNotInAudit
	}

	order.AuditInfo = &model.AuditInfo{
		Submitter:   order.Member.Name,
		SubmitTime:  order.CreateTime,
		Approver:    approver,
		ApproveTime: s.now(),
		Status:      enum.AuditStatusPassed,
	}
	if err := s.store.ReplaceOrder(order); err != nil {
		return nil, fmt.Errorf("replace order: %w", err)
	}

	s.hub.Publish(event.TopicOrders, "order.audit_passed", order)
	return &order, nil
}

// AuditReject records a rejection with a mandatory reason and moves the
// order to audit_rejected. Rejecting an order that is not under audit is
// invalid input, not an implicit create.
func (s *OrderService) AuditReject(orderID, reason, approver string) (*model.Settlement, error) {
	if strings.TrimSpace(reason) == "" {
		return nil, ErrEmptyReason
	}
	order, err := s.store.GetOrder(orderID)
	if err != nil {
		return nil, ErrOrderNotFound
	}
	if order.Status != enum.OrderStatusPendingAudit {
		return nil, ErrNotInAudit
	}

	order.AuditInfo = &model.AuditInfo{
		Submitter:   order.Member.Name,
		SubmitTime:  order.CreateTime,
		Approver:    approver,
		ApproveTime: s.now(),
		Status:      enum.AuditStatusRejected,
		Note:        reason,
	}
	order.Status = enum.OrderStatusAuditRejected
	if err := s.store.ReplaceOrder(order); err != nil {
		return nil, fmt.Errorf("replace order: %w", err)
	}

	s.hub.Publish(event.TopicOrders, "order.audit_rejected", order)
	return &order, nil
}

// ProceedToSign advances a passed order to contract signing.
func (s *OrderService) ProceedToSign(orderID string) (*model.Settlement, error) {
	order, err := s.store.GetOrder(orderID)
	if err != nil {
		return nil, ErrOrderNotFound
	}
	if order.Status != enum.OrderStatusPendingAudit {
		return nil, ErrNotInAudit
	}
	if !order.AuditPassed() {
		return nil, ErrAuditNotPassed
	}

	order.Status = enum.OrderStatusPendingSign
	if err := s.store.ReplaceOrder(order); err != nil {
		return nil, fmt.Errorf("replace order: %w", err)
	}

	s.hub.Publish(event.TopicOrders, "order.pending_sign", order)
	return &order, nil
}

// SkipToSettlement bypasses contract signing entirely: the order jumps from
// audit straight to pending_payment. A passed audit record is guaranteed on
// the way through.
func (s *OrderService) SkipToSettlement(orderID, approver string) (*model.Settlement, error) {
	order, err := s.store.GetOrder(orderID)
	if err != nil {
		return nil, ErrOrderNotFound
	}
	if order.Status != enum.OrderStatusPendingAudit {
		return nil, ErrNotInAudit
	}

	if !order.AuditPassed() {
		order.AuditInfo = &model.AuditInfo{
			Submitter:   order.Member.Name,
			SubmitTime:  order.CreateTime,
			Approver:    approver,
			ApproveTime: s.now(),
			Status:      enum.AuditStatusPassed,
		}
	}
	order.Status = enum.OrderStatusPendingPayment
	if err := s.store.ReplaceOrder(order); err != nil {
		return nil, fmt.Errorf("replace order: %w", err)
	}

	s.hub.Publish(event.TopicOrders, "order.pending_payment", order)
	return &order, nil
}

// CompleteContractUpload accepts offline contract proof images and advances
// the order to pending_payment. Presence is the only check; the images are
// not inspected.
func (s *OrderService) CompleteContractUpload(orderID string, proofs []string) (*model.Settlement, error) {
	order, err := s.store.GetOrder(orderID)
	if err != nil {
		return nil, ErrOrderNotFound
	}
	if order.Status != enum.OrderStatusPendingSign {
		return nil, ErrNotAwaitingSign
	}
	if len(proofs) == 0 {
		return nil, ErrNoContractProof
	}

	order.ContractProofs = append([]string(nil), proofs...)
	order.Status = enum.OrderStatusPendingPayment
	if err := s.store.ReplaceOrder(order); err != nil {
		return nil, fmt.Errorf("replace order: %w", err)
	}

	s.hub.Publish(event.TopicOrders, "order.pending_payment", order)
	return &order, nil
}
