package service

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/reluxe-pos/app/internal/enum"
	"github.com/reluxe-pos/app/internal/event"
	"github.com/reluxe-pos/app/internal/model"
	"github.com/reluxe-pos/app/internal/store"
)

// Errors returned by the return service.
var (
	ErrNotCancellable      = errors.New("order cannot be cancelled in its current status")
	ErrNotReturnable       = errors.New("order cannot be returned in its current status")
	ErrReturnExists        = errors.New("a return request already exists for this order")
	ErrReturnNotFound      = errors.New("return order not found")
	ErrReturnNotInAudit    = errors.New("return order is not under audit")
	ErrRefundNotPending    = errors.New("return order is not awaiting refund")
	ErrRefundRequired      = errors.New("a refund settlement is required before completion")
	ErrInvalidRefundMethod = errors.New("invalid refund method")
)

// Restocker is the hook invoked when a completed return asks for the items
// to be re-listed. The lifecycle core only passes the flag through.
type Restocker interface {
	Restock(items []model.Product)
}

// StoreRestocker re-lists returned items in the product catalog.
type StoreRestocker struct {
	Store *store.Store
}

func (r *StoreRestocker) Restock(items []model.Product) {
	for _, item := range items {
		if _, err := r.Store.GetProduct(item.ID); err == nil {
			continue
		}
		r.Store.InsertProduct(item)
	}
}

// ReturnService handles cancellation, post-sale returns, return audit, and
// refund completion.
type ReturnService struct {
	store     *store.Store
	hub       *event.Hub
	restocker Restocker
	now       func() time.Time
	newID     func() string
}

// NewReturnService creates a new ReturnService. restocker may be nil.
func NewReturnService(st *store.Store, hub *event.Hub, restocker Restocker) *ReturnService {
	return &ReturnService{
		store:     st,
		hub:       hub,
		restocker: restocker,
		now:       time.Now,
		newID:     func() string { return uuid.NewString()[:8] },
	}
}

// WithClock overrides the time source.
func (s *ReturnService) WithClock(now func() time.Time) *ReturnService {
	s.now = now
	return s
}

// WithIDGenerator overrides the id source.
func (s *ReturnService) WithIDGenerator(gen func() string) *ReturnService {
	s.newID = gen
	return s
}

// RequestCancel cancels an order that has not been paid for yet. The
// settlement ends up cancelled (nothing was paid) or returned (a partial
// payment exists), and exactly one ReturnOrder is spawned either way.
func (s *ReturnService) RequestCancel(orderID string) (*model.ReturnOrder, error) {
	order, err := s.store.GetOrder(orderID)
	if err != nil {
		return nil, ErrOrderNotFound
	}
	if order.Status != enum.OrderStatusPendingSign && order.Status != enum.OrderStatusPendingPayment {
		return nil, ErrNotCancellable
	}
	return s.spawnReturn(order)
}

// RequestReturn opens a return against a paid or completed order. Shares the
// cancellation path; the two differ only in which statuses admit them.
func (s *ReturnService) RequestReturn(orderID string) (*model.ReturnOrder, error) {
	order, err := s.store.GetOrder(orderID)
	if err != nil {
		return nil, ErrOrderNotFound
	}
	if order.Status != enum.OrderStatusPaid && order.Status != enum.OrderStatusCompleted {
		return nil, ErrNotReturnable
	}
	return s.spawnReturn(order)
}

func (s *ReturnService) spawnReturn(order model.Settlement) (*model.ReturnOrder, error) {
	if _, exists := s.store.ReturnOrderForOriginal(order.SalesOrderID); exists {
		return nil, ErrReturnExists
	}

	method := order.PaymentMethod
	if method == "" {
		method = enum.PaymentMethodOnline
	}

	ret := model.ReturnOrder{
		ID:                    "RET-" + s.newID(),
		OriginalOrderID:       order.SalesOrderID,
		Amount:                order.PaidAmount,
		Status:                enum.ReturnStatusPendingAudit,
		CreateTime:            s.now(),
		Items:                 append([]model.Product(nil), order.Items...),
		Member:                order.Member,
		OriginalPaymentMethod: method,
		OriginalPaidAmount:    order.PaidAmount,
		EmployeeID:            order.EmployeeID,
	}
	s.store.InsertReturnOrder(ret)

	if order.PaidAmount.IsZero() {
		order.Status = enum.OrderStatusCancelled
	} else {
		order.Status = enum.OrderStatusReturned
	}
	if err := s.store.ReplaceOrder(order); err != nil {
		return nil, fmt.Errorf("replace order: %w", err)
	}

	s.hub.Publish(event.TopicReturns, "return.requested", ret)
	s.hub.Publish(event.TopicOrders, "order."+order.Status, order)
	return &ret, nil
}

// AuditPass moves a return request on to the refund step.
func (s *ReturnService) AuditPass(returnID string) (*model.ReturnOrder, error) {
	ret, err := s.store.GetReturnOrder(returnID)
	if err != nil {
		return nil, ErrReturnNotFound
	}
	if ret.Status != enum.ReturnStatusPendingAudit {
		return nil, ErrReturnNotInAudit
	}

	ret.Status = enum.ReturnStatusPendingRefund
	if err := s.store.ReplaceReturnOrder(ret); err != nil {
		return nil, fmt.Errorf("replace return order: %w", err)
	}

	s.hub.Publish(event.TopicReturns, "return.audit_passed", ret)
	return &ret, nil
}

// AuditReject declines a return request. A rejected return is a dead end:
// it stays in the list as audit_rejected and cannot be resubmitted.
func (s *ReturnService) AuditReject(returnID string) (*model.ReturnOrder, error) {
	ret, err := s.store.GetReturnOrder(returnID)
	if err != nil {
		return nil, ErrReturnNotFound
	}
	if ret.Status != enum.ReturnStatusPendingAudit {
		return nil, ErrReturnNotInAudit
	}

	ret.Status = enum.ReturnStatusAuditRejected
	if err := s.store.ReplaceReturnOrder(ret); err != nil {
		return nil, fmt.Errorf("replace return order: %w", err)
	}

	s.hub.Publish(event.TopicReturns, "return.audit_rejected", ret)
	return &ret, nil
}

// ConfirmRefund settles the refund and completes the return.
func (s *ReturnService) ConfirmRefund(returnID, method string, restock bool) (*model.ReturnOrder, error) {
	if method != enum.PaymentMethodOnline && method != enum.PaymentMethodOffline {
		return nil, ErrInvalidRefundMethod
	}
	ret, err := s.store.GetReturnOrder(returnID)
	if err != nil {
		return nil, ErrReturnNotFound
	}
	if ret.Status != enum.ReturnStatusPendingRefund {
		return nil, ErrRefundNotPending
	}

	ret.RefundMethod = method
	return s.complete(ret, restock)
}

// Complete finishes a return without a refund settlement. Only legal when
// nothing was ever paid on the original order.
func (s *ReturnService) Complete(returnID string, restock bool) (*model.ReturnOrder, error) {
	ret, err := s.store.GetReturnOrder(returnID)
	if err != nil {
		return nil, ErrReturnNotFound
	}
	if ret.Status != enum.ReturnStatusPendingRefund {
		return nil, ErrRefundNotPending
	}
	if !ret.OriginalPaidAmount.IsZero() {
		return nil, ErrRefundRequired
	}
	return s.complete(ret, restock)
}

func (s *ReturnService) complete(ret model.ReturnOrder, restock bool) (*model.ReturnOrder, error) {
	ret.Status = enum.ReturnStatusCompleted
	if err := s.store.ReplaceReturnOrder(ret); err != nil {
		return nil, fmt.Errorf("replace return order: %w", err)
	}

	if restock && s.restocker != nil {
		s.restocker.Restock(ret.Items)
	}

	s.hub.Publish(event.TopicReturns, "return.completed", ret)
	return &ret, nil
}
